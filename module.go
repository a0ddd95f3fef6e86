package quill

// OVERVIEW
//
// A Module is a single source file loaded into the runtime: its source
// text, the tokens and AST produced from it, and the definition tables
// (functions, structs, traits, constants) and scope stack used while it
// runs. Modules are created by the loader, parsed on demand, and then
// interpreted statement by statement against a shared VM.
//
// Parsing is a three-stage pipeline: lex, parse, then the module passes
// (imports first, then resolution). After Parse succeeds the module's
// definition tables and export list are fully populated and every `use`
// has been satisfied; Interpret only needs to walk the statements.
//
// Scopes form a stack of maps. The bottom scope is the module's global
// scope; blocks, functions, and loop bodies push and pop scopes around
// their bodies. Lookup walks innermost-first.

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

//// Stored definitions ////////////////////////////////////////////////

// StoredFunction is a callable registered in a module: either a native
// Go function or a user-defined fn together with the module it was
// declared in (calls execute in the defining module's environment).
type StoredFunction struct {
	Native         *NativeFunction
	Fn             *FnDecl
	DefiningModule string
}

// Name returns the callable's declared name.
func (f *StoredFunction) Name() string {
	if f.Native != nil {
		return f.Native.Name
	}
	return f.Fn.Name
}

// StoredStruct is a struct definition plus every impl block attached to
// it so far. Method lookup chains the inherent impls first, then the
// trait impls, in declaration order.
type StoredStruct struct {
	Def            *StructDecl
	Impls          []*StructImplDecl
	TraitImpls     []*TraitImplDecl
	DefiningModule string
}

// Name returns the struct's declared name.
func (s *StoredStruct) Name() string {
	return s.Def.Name.Literal()
}

// FindField returns the declared field with the given name, or nil.
func (s *StoredStruct) FindField(name string) *StructField {
	for i := range s.Def.Fields {
		if s.Def.Fields[i].Ident.Literal() == name {
			return &s.Def.Fields[i]
		}
	}
	return nil
}

// FindMethod returns the instance method with the given name, or nil.
func (s *StoredStruct) FindMethod(name string) *FnDecl {
	return s.findMethod(name, false)
}

// FindStaticMethod returns the static method with the given name, or nil.
func (s *StoredStruct) FindStaticMethod(name string) *FnDecl {
	return s.findMethod(name, true)
}

func (s *StoredStruct) findMethod(name string, static bool) *FnDecl {
	for _, impl := range s.Impls {
		for _, m := range impl.Methods {
			if m.Name == name && m.IsStatic == static {
				return m
			}
		}
	}
	for _, impl := range s.TraitImpls {
		for _, m := range impl.Methods {
			if m.Name == name && m.IsStatic == static {
				return m
			}
		}
	}
	return nil
}

// ImplementsTrait reports whether a trait impl for the named trait has
// been attached to this struct.
func (s *StoredStruct) ImplementsTrait(trait string) bool {
	for _, impl := range s.TraitImpls {
		if impl.TraitName.Literal() == trait {
			return true
		}
	}
	return false
}

// StoredTrait is a trait definition plus its defining module.
type StoredTrait struct {
	Def            *TraitDecl
	DefiningModule string
}

// Name returns the trait's declared name.
func (t *StoredTrait) Name() string {
	return t.Def.Name.Literal()
}

// StoredConst is an evaluated const binding. The initializer runs once
// during the resolution pass; only the resulting value is kept.
type StoredConst struct {
	Ident          Token
	Value          Value
	DefiningModule string
}

// Export is one public definition of a module, recorded in declaration
// order. Exactly one of the payload fields is set.
type Export struct {
	Name   string
	Fn     *StoredFunction
	Struct *StoredStruct
	Trait  *StoredTrait
	Const  *StoredConst
}

//// Module ////////////////////////////////////////////////////////////

// Module is one loaded source file and everything the runtime knows
// about it.
type Module struct {
	id     string
	source *Source
	path   string

	tokens []Token
	ast    *Ast

	scopes    []map[string]Value
	functions []*StoredFunction
	structs   []*StoredStruct
	traits    []*StoredTrait
	consts    []*StoredConst
	exports   []Export

	parsed bool
}

// NewModule wraps a source file in a fresh module. The module starts
// with a single (global) scope and the default native functions
// registered; Parse must run before Interpret.
func NewModule(source *Source) *Module {
	m := &Module{
		id:     uuid.NewString(),
		source: source,
		path:   source.Path(),
		scopes: []map[string]Value{{}},
	}
	for _, fn := range defaultNatives() {
		m.functions = append(m.functions, &StoredFunction{Native: fn, DefiningModule: m.id})
	}
	return m
}

// ID returns the module's registry key, unique per loaded module.
func (m *Module) ID() string { return m.id }

// Path returns the canonical path the module was loaded from.
func (m *Module) Path() string { return m.path }

// Source returns the module's source file.
func (m *Module) Source() *Source { return m.source }

// Ast returns the parsed program, or nil before Parse.
func (m *Module) Ast() *Ast { return m.ast }

// Name returns the module's short name: the file stem of its path.
func (m *Module) Name() string {
	base := filepath.Base(m.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Exports returns the module's public definitions in declaration order.
func (m *Module) Exports() []Export { return m.exports }

// FindExport returns the export with the given name, or nil.
func (m *Module) FindExport(name string) *Export {
	for i := range m.exports {
		if m.exports[i].Name == name {
			return &m.exports[i]
		}
	}
	return nil
}

// Parse runs the full front half of the pipeline: lexing, parsing, the
// import pass, and the resolution pass. It is idempotent; a module
// already parsed returns immediately. Errors from any stage abort the
// pipeline and leave the module unparsed.
func (m *Module) Parse(ctx *Context, vm *VM) error {
	if m.parsed {
		return nil
	}

	lexer := NewLexer(m.source)
	tokens, err := lexer.Lex()
	if err != nil {
		return err
	}
	m.tokens = tokens

	parser := NewParser(tokens)
	ast, err := parser.Parse()
	if err != nil {
		return err
	}
	m.ast = ast

	for _, pass := range modulePasses() {
		if err := pass.Run(m, ctx, vm); err != nil {
			return err
		}
	}

	m.parsed = true
	return nil
}

// Interpret executes the module's statements in order against the
// shared VM. Parse must have succeeded first.
func (m *Module) Interpret(ctx *Context, vm *VM) error {
	for _, stmt := range m.ast.Stmts {
		if err := m.interpretStmt(stmt, ctx, vm); err != nil {
			if sig, ok := asSignal(err); ok {
				return escapedSignal(sig)
			}
			return err
		}
	}
	return nil
}

//// Scopes ////////////////////////////////////////////////////////////

// EnterScope pushes a new innermost scope.
func (m *Module) EnterScope() {
	m.scopes = append(m.scopes, map[string]Value{})
}

// ExitScope pops the innermost scope. The global scope is never popped.
func (m *Module) ExitScope() {
	if len(m.scopes) > 1 {
		m.scopes = m.scopes[:len(m.scopes)-1]
	}
}

// DeclareVariable binds a name in the innermost scope, shadowing any
// binding of the same name in outer scopes.
func (m *Module) DeclareVariable(name string, val Value) {
	m.scopes[len(m.scopes)-1][name] = val
}

// SetVariable rebinds an existing variable, searching innermost-first.
// It reports whether a binding was found.
func (m *Module) SetVariable(name string, val Value) bool {
	for i := len(m.scopes) - 1; i >= 0; i-- {
		if _, ok := m.scopes[i][name]; ok {
			m.scopes[i][name] = val
			return true
		}
	}
	return false
}

// FindVariable looks a name up through the scope stack, innermost-first.
func (m *Module) FindVariable(name string) (Value, bool) {
	for i := len(m.scopes) - 1; i >= 0; i-- {
		if v, ok := m.scopes[i][name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

//// Definition lookup /////////////////////////////////////////////////

// FindFunction returns the registered callable with the given name, or
// nil. Later registrations shadow earlier ones.
func (m *Module) FindFunction(name string) *StoredFunction {
	for i := len(m.functions) - 1; i >= 0; i-- {
		if m.functions[i].Name() == name {
			return m.functions[i]
		}
	}
	return nil
}

// FindStruct returns the struct definition with the given name, or nil.
func (m *Module) FindStruct(name string) *StoredStruct {
	for _, s := range m.structs {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// FindTrait returns the trait definition with the given name, or nil.
func (m *Module) FindTrait(name string) *StoredTrait {
	for _, t := range m.traits {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

// FindConst returns the evaluated constant with the given name, or nil.
func (m *Module) FindConst(name string) *StoredConst {
	for _, c := range m.consts {
		if c.Ident.Literal() == name {
			return c
		}
	}
	return nil
}
