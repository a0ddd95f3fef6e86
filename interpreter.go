package quill

// OVERVIEW
//
// Statement execution. Each statement either mutates the module's
// scope stack, drives control flow, or evaluates an expression for its
// effect. Declarations (fn, struct, trait, impl, const, use) were
// already handled by the module passes and are no-ops here.
//
// Loop control and throw ride the error channel as signals: `break`
// and `continue` unwind to the nearest enclosing loop, which absorbs
// them; `throw` unwinds to the nearest try/catch. A signal that
// escapes the whole module becomes a real user-facing error
// (break/continue outside a loop, or an uncaught throw).

import "log/slog"

func (m *Module) interpretStmt(stmt Stmt, ctx *Context, vm *VM) error {
	switch s := stmt.(type) {
	case *ExprStmt:
		return m.interpretExpr(s.Expr, ctx, vm)
	case *LetStmt:
		return m.interpretLet(s, ctx, vm)
	case *IfStmt:
		return m.interpretIf(s, ctx, vm)
	case *WhileStmt:
		return m.interpretWhile(s, ctx, vm)
	case *LoopStmt:
		return m.interpretLoop(s, ctx, vm)
	case *BlockStmt:
		return m.executeBlock(s, ctx, vm)
	case *TryStmt:
		return m.interpretTry(s, ctx, vm)
	case *ThrowStmt:
		return m.interpretThrow(s, ctx, vm)
	case *BreakStmt:
		return breakSignal(s.Tok.Span)
	case *ContinueStmt:
		return continueSignal(s.Tok.Span)
	case *ReturnStmt:
		if s.Expr != nil {
			return m.interpretExpr(s.Expr, ctx, vm)
		}
		vm.Push(VoidVal())
		return nil
	default:
		// Declarations: resolved by the module passes.
		return nil
	}
}

// executeBlock runs the block's statements in a fresh scope. The scope
// is popped even when a statement fails, so signals unwinding through
// nested blocks cannot leak bindings.
func (m *Module) executeBlock(block *BlockStmt, ctx *Context, vm *VM) error {
	m.EnterScope()
	defer m.ExitScope()
	for _, stmt := range block.Stmts {
		if err := m.interpretStmt(stmt, ctx, vm); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) interpretLet(l *LetStmt, ctx *Context, vm *VM) error {
	slog.Debug("let", "ident", l.Ident.Literal())

	if err := m.interpretExpr(l.Initializer, ctx, vm); err != nil {
		return err
	}
	val := vm.Pop()

	if l.Type != nil {
		span := CombineSpans([]TextSpan{l.Ident.Span, l.Type.TypeName.Span, l.Initializer.Span()})
		if l.Type.IsArray {
			span = l.Initializer.Span()
		}
		if err := val.CheckType(l.Type, span); err != nil {
			return err
		}
	}

	m.DeclareVariable(l.Ident.Literal(), val)
	return nil
}

// evalCondition evaluates a guard expression and requires a boolean.
// Null counts as false; anything else is a NonBooleanCondition.
func (m *Module) evalCondition(cond Expr, what string, span TextSpan, ctx *Context, vm *VM) (bool, error) {
	if err := m.interpretExpr(cond, ctx, vm); err != nil {
		return false, err
	}
	val := vm.Pop()
	switch val.Tag {
	case VTBool:
		return val.AsBool(), nil
	case VTNull:
		return false, nil
	default:
		return false, runtimeErr(NonBooleanCondition, span,
			"%s must be a boolean, got %s", what, val.TypeName())
	}
}

func (m *Module) interpretIf(stmt *IfStmt, ctx *Context, vm *VM) error {
	span := CombineSpans([]TextSpan{stmt.IfTok.Span, stmt.Condition.Span()})
	cond, err := m.evalCondition(stmt.Condition, "if condition", span, ctx, vm)
	if err != nil {
		return err
	}
	if cond {
		return m.executeBlock(stmt.Then, ctx, vm)
	}

	for _, elseIf := range stmt.ElseIfs {
		cond, err := m.evalCondition(elseIf.Condition, "else if condition",
			elseIf.Condition.Span(), ctx, vm)
		if err != nil {
			return err
		}
		if cond {
			return m.executeBlock(elseIf.Block, ctx, vm)
		}
	}

	if stmt.Else != nil {
		return m.executeBlock(stmt.Else, ctx, vm)
	}
	return nil
}

// absorbLoopSignal swallows break/continue from one loop iteration.
// The bool result reports whether the loop should stop.
func absorbLoopSignal(err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	if sig, ok := asSignal(err); ok {
		switch sig.kind {
		case sigBreak:
			return true, nil
		case sigContinue:
			return false, nil
		}
	}
	return true, err
}

func (m *Module) interpretWhile(stmt *WhileStmt, ctx *Context, vm *VM) error {
	span := CombineSpans([]TextSpan{stmt.Tok.Span, stmt.Condition.Span()})
	for {
		cond, err := m.evalCondition(stmt.Condition, "while loop condition", span, ctx, vm)
		if err != nil {
			return err
		}
		if !cond {
			return nil
		}

		stop, err := absorbLoopSignal(m.executeBlock(stmt.Body, ctx, vm))
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

func (m *Module) interpretLoop(stmt *LoopStmt, ctx *Context, vm *VM) error {
	for {
		stop, err := absorbLoopSignal(m.executeBlock(stmt.Body, ctx, vm))
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

func (m *Module) interpretThrow(stmt *ThrowStmt, ctx *Context, vm *VM) error {
	if err := m.interpretExpr(stmt.Value, ctx, vm); err != nil {
		return err
	}
	val := vm.Pop()
	span := CombineSpans([]TextSpan{stmt.ThrowTok.Span, stmt.Value.Span()})
	return throwSignal(val, span, vm.Frames())
}

// interpretTry runs the try block and, if and only if a throw unwinds
// out of it, binds the stringified thrown value in a fresh scope and
// runs the catch block. Every other failure, including engine faults
// like type mismatches, propagates past the catch.
func (m *Module) interpretTry(stmt *TryStmt, ctx *Context, vm *VM) error {
	err := m.executeBlock(stmt.TryBlock, ctx, vm)
	if err == nil {
		return nil
	}
	sig, ok := asSignal(err)
	if !ok || sig.kind != sigThrow {
		return err
	}

	m.EnterScope()
	defer m.ExitScope()
	m.DeclareVariable(stmt.ErrorIdent.Literal(), StrVal(sig.value.String()))
	return m.executeBlock(stmt.CatchBlock, ctx, vm)
}
