package quill

// Built-in method dispatch. Method calls on non-struct values resolve
// here: the receiver is always args[0] of the native invocation.
// Errors raised by these natives carry no span; the call site attaches
// the member expression's span before propagating.

// BuiltinMethods returns the method set for the value's type. Types
// without methods return an empty map.
func (v Value) BuiltinMethods() map[string]*NativeFunction {
	switch v.Tag {
	case VTString:
		return stringMethods
	case VTVec:
		return vecMethods
	case VTChar:
		return charMethods
	default:
		return nil
	}
}

func wantString(args []Value, i int) (string, error) {
	if i >= len(args) || !args[i].IsString() {
		return "", spanlessErr(TypeMismatch, "expected a string argument")
	}
	return args[i].AsString(), nil
}

func wantInt(args []Value, i int) (int64, error) {
	if i >= len(args) || !args[i].IsInt() {
		return 0, spanlessErr(TypeMismatch, "expected an int argument")
	}
	return args[i].AsInt(), nil
}

func wantChar(args []Value, i int) (rune, error) {
	if i >= len(args) || !args[i].IsChar() {
		return 0, spanlessErr(TypeMismatch, "expected a char argument")
	}
	return args[i].AsChar(), nil
}

func wantVec(args []Value, i int) (*VecObject, error) {
	if i >= len(args) || !args[i].IsVec() {
		return nil, spanlessErr(TypeMismatch, "expected a vector argument")
	}
	return args[i].AsVec(), nil
}

// method builds a built-in method entry; the receiver parameter is
// implicit and always first.
func method(name string, extra int, fn func(args []Value) (Value, error)) *NativeFunction {
	params := []NativeParam{{Name: "self"}}
	for i := 0; i < extra; i++ {
		params = append(params, NativeParam{Name: "arg"})
	}
	return &NativeFunction{Name: name, Params: params, Func: fn}
}
