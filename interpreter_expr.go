package quill

// OVERVIEW
//
// Expression evaluation. Every expression pushes exactly one value
// onto the VM's operand stack; sub-evaluations pop their operands back
// off. Evaluation order is strictly depth-first left-to-right.
//
// Two deliberate semantics worth calling out: logical && and || do NOT
// short-circuit (both operands are always evaluated before combining),
// and assignment through a field access is rejected with an explicit
// error rather than silently dropped.

import "log/slog"

// interpretExpr evaluates an expression and pushes its result.
func (m *Module) interpretExpr(expr Expr, ctx *Context, vm *VM) error {
	var val Value
	var err error

	switch e := expr.(type) {
	case *LiteralExpr:
		val = literalValue(e)
	case *NullExpr:
		val = NullVal()
	case *VariableExpr:
		name := e.Ident.Literal()
		if v, ok := m.FindVariable(name); ok {
			val = v
		} else if c := m.FindConst(name); c != nil {
			val = c.Value
		} else {
			return runtimeErr(VariableNotFound, e.Ident.Span, "variable '%s' not found", name)
		}
	case *ParenExpr:
		return m.interpretExpr(e.Expr, ctx, vm)
	case *BinaryExpr:
		val, err = m.interpretBinary(e, ctx, vm)
	case *UnaryExpr:
		val, err = m.interpretUnary(e, ctx, vm)
	case *CallExpr:
		val, err = m.interpretCall(e, ctx, vm)
	case *AssignExpr:
		val, err = m.interpretAssignment(e, ctx, vm)
	case *VecExpr:
		val, err = m.interpretVec(e, ctx, vm)
	case *AccessExpr:
		val, err = m.interpretAccess(e, ctx, vm)
	case *StructConstructorExpr:
		val, err = m.interpretStructConstructor(e, ctx, vm)
	case *ObjectExpr:
		val, err = m.interpretObject(e, ctx, vm)
	case *ThenElseExpr:
		val, err = m.interpretThenElse(e, ctx, vm)
	case *SpreadExpr:
		// Spread is only meaningful inside vectors and call arguments.
		return runtimeErr(InvalidSpread, e.Span(), "spread operator used outside of a vector or call")
	default:
		return runtimeErr(InvalidAssignmentTarget, expr.Span(), "cannot evaluate expression")
	}

	if err != nil {
		return err
	}
	vm.Push(val)
	return nil
}

func literalValue(l *LiteralExpr) Value {
	switch v := l.Value.(type) {
	case int64:
		return IntVal(v)
	case float64:
		return FloatVal(v)
	case bool:
		return BoolVal(v)
	case string:
		return StrVal(v)
	case rune:
		return CharVal(v)
	default:
		return NullVal()
	}
}

// evalOperand evaluates one expression and pops its result.
func (m *Module) evalOperand(expr Expr, ctx *Context, vm *VM) (Value, error) {
	if err := m.interpretExpr(expr, ctx, vm); err != nil {
		return Value{}, err
	}
	return vm.Pop(), nil
}

func (m *Module) interpretBinary(b *BinaryExpr, ctx *Context, vm *VM) (Value, error) {
	left, err := m.evalOperand(b.Left, ctx, vm)
	if err != nil {
		return Value{}, err
	}
	right, err := m.evalOperand(b.Right, ctx, vm)
	if err != nil {
		return Value{}, err
	}
	return applyBinOp(left, b.Op, right, b.Span())
}

func applyBinOp(left Value, op BinOpKind, right Value, span TextSpan) (Value, error) {
	switch op {
	case OpPlus:
		return left.Add(right, span)
	case OpMinus:
		return left.Sub(right, span)
	case OpMultiply:
		return left.Mul(right, span)
	case OpDivide:
		return left.Div(right, span)
	case OpModulo:
		return left.Rem(right, span)
	case OpPower:
		return left.Pow(right, span)
	case OpEqualsEquals:
		return BoolVal(left.Equals(right)), nil
	case OpBangEquals:
		return BoolVal(!left.Equals(right)), nil
	case OpGreaterThan, OpLessThan, OpGreaterThanEquals, OpLessThanEquals:
		cmp, ok := left.Compare(right)
		if !ok {
			return Value{}, errTypeMismatch("two numbers", left.TypeName()+" and "+right.TypeName(), span)
		}
		switch op {
		case OpGreaterThan:
			return BoolVal(cmp > 0), nil
		case OpLessThan:
			return BoolVal(cmp < 0), nil
		case OpGreaterThanEquals:
			return BoolVal(cmp >= 0), nil
		default:
			return BoolVal(cmp <= 0), nil
		}
	case OpAnd, OpOr:
		if !left.IsBool() || !right.IsBool() {
			return Value{}, errTypeMismatch("two booleans", left.TypeName()+" and "+right.TypeName(), span)
		}
		if op == OpAnd {
			return BoolVal(left.AsBool() && right.AsBool()), nil
		}
		return BoolVal(left.AsBool() || right.AsBool()), nil
	case OpBitwiseAnd, OpBitwiseOr, OpBitwiseXor, OpShiftLeft, OpShiftRight:
		if !left.IsInt() || !right.IsInt() {
			return Value{}, errTypeMismatch("two ints", left.TypeName()+" and "+right.TypeName(), span)
		}
		a, b := left.AsInt(), right.AsInt()
		switch op {
		case OpBitwiseAnd:
			return IntVal(a & b), nil
		case OpBitwiseOr:
			return IntVal(a | b), nil
		case OpBitwiseXor:
			return IntVal(a ^ b), nil
		case OpShiftLeft:
			return IntVal(a << uint64(b)), nil
		default:
			return IntVal(a >> uint64(b)), nil
		}
	default:
		return Value{}, runtimeErr(TypeMismatch, span, "operator cannot be used as a binary expression")
	}
}

func (m *Module) interpretUnary(u *UnaryExpr, ctx *Context, vm *VM) (Value, error) {
	val, err := m.evalOperand(u.Operand, ctx, vm)
	if err != nil {
		return Value{}, err
	}
	switch {
	case u.Op == UnaryMinus && val.IsInt():
		return IntVal(-val.AsInt()), nil
	case u.Op == UnaryMinus && val.IsFloat():
		return FloatVal(-val.AsFloat()), nil
	case u.Op == UnaryBitwiseNot && val.IsInt():
		return IntVal(^val.AsInt()), nil
	default:
		op := "-"
		if u.Op == UnaryBitwiseNot {
			op = "~"
		}
		return Value{}, runtimeErr(TypeMismatch, u.Span(),
			"unary '%s' cannot be applied to %s", op, val.TypeName())
	}
}

// evalArgs evaluates call arguments or vector elements, expanding any
// spread of a vector value in place. Spreading a non-vector is an
// error at the spread operand's span.
func (m *Module) evalArgs(exprs []Expr, ctx *Context, vm *VM) ([]Value, error) {
	var out []Value
	for _, expr := range exprs {
		if spread, ok := expr.(*SpreadExpr); ok {
			val, err := m.evalOperand(spread.Expr, ctx, vm)
			if err != nil {
				return nil, err
			}
			if !val.IsVec() {
				return nil, runtimeErr(InvalidSpread, spread.Expr.Span(),
					"cannot spread %s, expected a vector", val.TypeName())
			}
			out = append(out, val.AsVec().Elems...)
			continue
		}
		val, err := m.evalOperand(expr, ctx, vm)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func (m *Module) interpretVec(v *VecExpr, ctx *Context, vm *VM) (Value, error) {
	elems, err := m.evalArgs(v.Elements, ctx, vm)
	if err != nil {
		return Value{}, err
	}
	return VecVal(elems), nil
}

func (m *Module) interpretObject(o *ObjectExpr, ctx *Context, vm *VM) (Value, error) {
	fields := NewMapObject()
	for _, field := range o.Fields {
		val, err := m.evalOperand(field.Value, ctx, vm)
		if err != nil {
			return Value{}, err
		}
		fields.Set(field.Key.AsString(), val)
	}
	return ObjectVal(fields), nil
}

func (m *Module) interpretThenElse(te *ThenElseExpr, ctx *Context, vm *VM) (Value, error) {
	cond, err := m.evalOperand(te.Condition, ctx, vm)
	if err != nil {
		return Value{}, err
	}
	if cond.IsTruthy() {
		return m.evalOperand(te.ThenExpr, ctx, vm)
	}
	return m.evalOperand(te.ElseExpr, ctx, vm)
}

func (m *Module) interpretStructConstructor(sc *StructConstructorExpr, ctx *Context, vm *VM) (Value, error) {
	name := sc.Name.Literal()
	slog.Debug("struct constructor", "name", name)

	def := m.FindStruct(name)
	if def == nil {
		return Value{}, runtimeErr(StructNotFound, sc.Name.Span, "struct '%s' not found", name)
	}

	fields := NewMapObject()
	for _, init := range sc.Fields {
		val, err := m.evalOperand(init.Value, ctx, vm)
		if err != nil {
			return Value{}, err
		}
		fields.Set(init.Name.Literal(), val)
	}
	return StructVal(def, fields), nil
}

//// Assignment ////////////////////////////////////////////////////////

func (m *Module) interpretAssignment(assign *AssignExpr, ctx *Context, vm *VM) (Value, error) {
	switch target := assign.Target.(type) {
	case *VariableExpr:
		return m.assignVariable(target, assign, ctx, vm)
	case *AccessExpr:
		switch target.Kind {
		case IndexAccess:
			return m.assignIndex(target, assign, ctx, vm)
		case FieldAccess:
			return Value{}, runtimeErr(FieldAssignmentUnsupported, target.Span(),
				"assignment to a struct field is not supported")
		default:
			return Value{}, runtimeErr(InvalidAssignmentTarget, target.Span(),
				"cannot assign to a static member")
		}
	default:
		return Value{}, runtimeErr(InvalidAssignmentTarget, assign.Target.Span(),
			"invalid assignment target")
	}
}

func (m *Module) assignVariable(target *VariableExpr, assign *AssignExpr, ctx *Context, vm *VM) (Value, error) {
	val, err := m.evalOperand(assign.Value, ctx, vm)
	if err != nil {
		return Value{}, err
	}
	name := target.Ident.Literal()

	if assign.OpToken.Type != ASSIGN {
		current, ok := m.FindVariable(name)
		if !ok {
			return Value{}, runtimeErr(VariableNotFound, target.Ident.Span,
				"variable '%s' not found", name)
		}
		switch assign.OpToken.Type {
		case PLUSEQ:
			val, err = current.Add(val, assign.Span())
		case MINUSEQ:
			val, err = current.Sub(val, assign.Span())
		case STAREQ:
			val, err = current.Mul(val, assign.Span())
		case SLASHEQ:
			val, err = current.Div(val, assign.Span())
		}
		if err != nil {
			return Value{}, err
		}
	}

	if !m.SetVariable(name, val) {
		return Value{}, runtimeErr(VariableNotFound, target.Ident.Span,
			"variable '%s' not found", name)
	}
	return val, nil
}

// assignIndex writes through `base[index] = value`. The vector object
// is shared by reference, so mutation is visible to every holder.
func (m *Module) assignIndex(target *AccessExpr, assign *AssignExpr, ctx *Context, vm *VM) (Value, error) {
	base, err := m.evalOperand(target.Base, ctx, vm)
	if err != nil {
		return Value{}, err
	}
	index, err := m.evalOperand(target.Member, ctx, vm)
	if err != nil {
		return Value{}, err
	}
	val, err := m.evalOperand(assign.Value, ctx, vm)
	if err != nil {
		return Value{}, err
	}

	if !base.IsVec() || !index.IsInt() {
		return Value{}, runtimeErr(TypeMismatch, target.Base.Span(),
			"left side of assignment must be a vector with an integer index")
	}
	vec := base.AsVec()
	idx := index.AsInt()
	if idx < 0 || idx >= int64(len(vec.Elems)) {
		return Value{}, errIndexOutOfBounds(int(idx), len(vec.Elems), target.Member.Span())
	}
	vec.Elems[idx] = val
	return val, nil
}
