package quill

// OVERVIEW
//
// Call execution. Natives get the final positional argument vector
// (with trailing args packed into one vector when the last declared
// parameter is rest-flagged). User-defined functions run against their
// defining module's environment, looked up by stable module id through
// the Context, never against the calling module — an imported function
// keeps resolving names at home.
//
// Parameter binding special-cases a first parameter literally named
// `self` (bound positionally, exempt from type checks), collects the
// argument tail into one vector for a rest parameter, and otherwise
// type-checks each argument against its declared annotation. The call
// frame is pushed before the body runs and popped on every exit path.

import (
	"errors"
	"log/slog"
)

func (m *Module) interpretCall(call *CallExpr, ctx *Context, vm *VM) (Value, error) {
	name := call.Callee.Literal()
	slog.Debug("call", "callee", name)

	args, err := m.evalArgs(call.Args, ctx, vm)
	if err != nil {
		return Value{}, err
	}

	stored := m.FindFunction(name)
	if stored == nil {
		return Value{}, runtimeErr(FunctionNotFound, call.Span(),
			"call to undefined function '%s'", name)
	}

	if stored.Native != nil {
		return m.executeNativeFunction(stored.Native, args, call.Span())
	}

	defModule := ctx.MustModule(stored.DefiningModule)
	return m.executeUserFunction(stored.Fn, defModule, args, call, 0, ctx, vm)
}

// executeNativeFunction applies the rest-packing calling convention
// and invokes the host function.
func (m *Module) executeNativeFunction(native *NativeFunction, args []Value, span TextSpan) (Value, error) {
	params := native.Params
	if n := len(params); n > 0 && params[n-1].IsRest && len(args) >= n-1 {
		packed := make([]Value, 0, n)
		packed = append(packed, args[:n-1]...)
		packed = append(packed, VecVal(args[n-1:]))
		args = packed
	}
	val, err := native.Func(args)
	if err != nil {
		var rerr *RuntimeError
		if errors.As(err, &rerr) && !rerr.HasSpan {
			rerr.Span = span
			rerr.HasSpan = true
		}
		return Value{}, err
	}
	return val, nil
}

// executeUserFunction binds arguments in a fresh scope of the defining
// module, runs the body, and returns the value the body left on the
// stack (Void when it left none). selfOffset is 1 for method calls,
// where args[0] is the receiver and call.Args align with args[1:].
func (m *Module) executeUserFunction(fn *FnDecl, defModule *Module, args []Value, call *CallExpr, selfOffset int, ctx *Context, vm *VM) (Value, error) {
	slog.Debug("user call", "fn", fn.Name, "module", defModule.Name())

	defModule.EnterScope()
	defer defModule.ExitScope()

	if err := bindParams(fn, defModule, args, call, selfOffset); err != nil {
		return Value{}, err
	}

	vm.PushFrame(NewFrame(fn.Name, fn.FnTok.Span, defModule.Path()))
	defer vm.PopFrame()

	depth := vm.StackLen()
	for _, stmt := range fn.Body.Stmts {
		if err := defModule.interpretStmt(stmt, ctx, vm); err != nil {
			return Value{}, err
		}
	}
	if vm.StackLen() > depth {
		return vm.Pop(), nil
	}
	return VoidVal(), nil
}

func bindParams(fn *FnDecl, defModule *Module, args []Value, call *CallExpr, selfOffset int) error {
	for i, param := range fn.Params {
		ident := param.Ident.Literal()

		if ident == "self" {
			if len(args) > 0 {
				defModule.DeclareVariable("self", args[0])
			}
			continue
		}

		if param.IsRest {
			rest := make([]Value, 0, max(0, len(args)-i))
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			if param.Type != nil {
				elemType := *param.Type
				elemType.IsArray = false
				for j, elem := range rest {
					if err := elem.CheckType(&elemType, argSpan(call, i+j, selfOffset)); err != nil {
						return err
					}
				}
			}
			defModule.DeclareVariable(ident, VecVal(rest))
			return nil
		}

		if i >= len(args) {
			if param.Type != nil && param.Type.IsNullable {
				defModule.DeclareVariable(ident, NullVal())
				continue
			}
			return runtimeErr(MissingParameter, call.Span(),
				"missing required parameter '%s' in call to '%s'", ident, fn.Name)
		}

		arg := args[i]
		if param.Type != nil {
			if err := arg.CheckType(param.Type, argSpan(call, i, selfOffset)); err != nil {
				return err
			}
		}
		defModule.DeclareVariable(ident, arg)
	}
	return nil
}

// argSpan pins a binding error to the argument expression when the
// positional mapping is intact, falling back to the whole call.
func argSpan(call *CallExpr, i, selfOffset int) TextSpan {
	j := i - selfOffset
	if j >= 0 && j < len(call.Args) {
		return call.Args[j].Span()
	}
	return call.Span()
}
