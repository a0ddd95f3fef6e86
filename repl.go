package quill

// OVERVIEW
//
// Interactive evaluation. A Session owns one persistent module, VM,
// and context: definitions, variables, and imports accumulate across
// snippets exactly as if the lines were one growing script. Each
// snippet runs the full pipeline (lex, parse, passes, interpret) over
// just its own statements.

// Session is a persistent interactive evaluation environment.
type Session struct {
	ctx    *Context
	vm     *VM
	module *Module
}

// NewSession builds a session resolving imports through the loader.
func NewSession(loader ModuleLoader) *Session {
	m := NewModule(NewSource("").WithPath("repl" + SourceExt))
	ctx := NewContext(loader)
	ctx.UpsertModule(m)
	return &Session{ctx: ctx, vm: NewVM(), module: m}
}

// Module returns the session's persistent module.
func (s *Session) Module() *Module { return s.module }

// Eval runs one snippet. The returned bool reports whether the snippet
// produced a displayable value (the result of its last expression).
func (s *Session) Eval(code string) (Value, bool, error) {
	source := NewSource(code).WithPath(s.module.path)

	tokens, err := NewLexer(source).Lex()
	if err != nil {
		return Value{}, false, err
	}
	ast, err := NewParser(tokens).Parse()
	if err != nil {
		return Value{}, false, err
	}

	s.module.ast = ast
	s.module.source = source
	for _, pass := range modulePasses() {
		if err := pass.Run(s.module, s.ctx, s.vm); err != nil {
			return Value{}, false, err
		}
	}

	depth := s.vm.StackLen()
	for _, stmt := range ast.Stmts {
		if err := s.module.interpretStmt(stmt, s.ctx, s.vm); err != nil {
			if sig, ok := asSignal(err); ok {
				err = escapedSignal(sig)
			}
			return Value{}, false, err
		}
	}

	if s.vm.StackLen() > depth {
		val := s.vm.Pop()
		// Drop any intermediate results so the stack stays bounded.
		for s.vm.StackLen() > depth {
			s.vm.Pop()
		}
		return val, !val.IsVoid(), nil
	}
	return Value{}, false, nil
}
