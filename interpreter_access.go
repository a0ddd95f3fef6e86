package quill

// OVERVIEW
//
// Access expressions: field reads, method calls, indexing, and static
// method calls. Struct members resolve through the struct's definition
// in its defining module (found by module id through the Context), so
// a struct imported across modules keeps its methods callable. Values
// without struct definitions fall back to their built-in method set
// (string, vector, and char helpers).

func (m *Module) interpretAccess(access *AccessExpr, ctx *Context, vm *VM) (Value, error) {
	switch access.Kind {
	case FieldAccess:
		base, err := m.evalOperand(access.Base, ctx, vm)
		if err != nil {
			return Value{}, err
		}
		return m.accessField(base, access.Member, ctx, vm)

	case IndexAccess:
		index, err := m.evalOperand(access.Member, ctx, vm)
		if err != nil {
			return Value{}, err
		}
		base, err := m.evalOperand(access.Base, ctx, vm)
		if err != nil {
			return Value{}, err
		}
		return base.AccessIndex(index, access.Span())

	default:
		return m.accessStatic(access, ctx, vm)
	}
}

// accessField resolves `base.member`: a struct method, a built-in
// method, or a plain field read.
func (m *Module) accessField(base Value, member Expr, ctx *Context, vm *VM) (Value, error) {
	switch e := member.(type) {
	case *CallExpr:
		name := e.Callee.Literal()

		if base.IsStruct() {
			inst := base.AsStruct()
			method := inst.Def.FindMethod(name)
			if method == nil {
				return Value{}, runtimeErr(PropertyNotFound, member.Span(),
					"property '%s' not found on struct '%s'", name, inst.Def.Name())
			}
			args, err := m.evalArgs(e.Args, ctx, vm)
			if err != nil {
				return Value{}, err
			}
			args = append([]Value{base}, args...)
			defModule := ctx.MustModule(inst.Def.DefiningModule)
			return m.executeUserFunction(method, defModule, args, e, 1, ctx, vm)
		}

		if method, ok := base.BuiltinMethods()[name]; ok {
			args, err := m.evalArgs(e.Args, ctx, vm)
			if err != nil {
				return Value{}, err
			}
			args = append([]Value{base}, args...)
			return m.executeNativeFunction(method, args, e.Span())
		}
		return Value{}, runtimeErr(PropertyNotFound, member.Span(),
			"property '%s' not found on %s", name, base.TypeName())

	case *VariableExpr:
		name := e.Ident.Literal()
		switch {
		case base.IsStruct():
			if val, ok := base.AsStruct().Fields.Get(name); ok {
				return val, nil
			}
		case base.IsObject():
			if val, ok := base.AsObject().Get(name); ok {
				return val, nil
			}
		}
		return Value{}, runtimeErr(PropertyNotFound, e.Ident.Span,
			"property '%s' not found on %s", name, base.TypeName())

	default:
		// Computed member: evaluate it in the current scope.
		return m.evalOperand(member, ctx, vm)
	}
}

// accessStatic resolves `Struct::method(args)`.
func (m *Module) accessStatic(access *AccessExpr, ctx *Context, vm *VM) (Value, error) {
	variable, ok := access.Base.(*VariableExpr)
	if !ok {
		return Value{}, runtimeErr(InvalidStaticAccess, access.Span(),
			"static access requires a struct name on the left of '::'")
	}
	name := variable.Ident.Literal()
	def := m.FindStruct(name)
	if def == nil {
		return Value{}, runtimeErr(StructNotFound, variable.Ident.Span,
			"struct '%s' not found", name)
	}

	call, ok := access.Member.(*CallExpr)
	if !ok {
		return Value{}, runtimeErr(InvalidStaticAccess, access.Member.Span(),
			"expected a static method call after '::'")
	}
	method := def.FindStaticMethod(call.Callee.Literal())
	if method == nil {
		return Value{}, runtimeErr(FunctionNotFound, call.Span(),
			"struct '%s' has no static method '%s'", name, call.Callee.Literal())
	}

	args, err := m.evalArgs(call.Args, ctx, vm)
	if err != nil {
		return Value{}, err
	}
	defModule := ctx.MustModule(def.DefiningModule)
	return m.executeUserFunction(method, defModule, args, call, 0, ctx, vm)
}
