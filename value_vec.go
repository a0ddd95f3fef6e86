package quill

// Vector built-in methods. Vectors are shared by reference, so `next`
// mutates the receiver in place: it removes and returns the first
// element, yielding Null once the vector is drained.

var vecMethods = map[string]*NativeFunction{
	"len": method("len", 0, func(args []Value) (Value, error) {
		vec, err := wantVec(args, 0)
		if err != nil {
			return Value{}, err
		}
		return IntVal(int64(len(vec.Elems))), nil
	}),
	"next": method("next", 0, func(args []Value) (Value, error) {
		vec, err := wantVec(args, 0)
		if err != nil {
			return Value{}, err
		}
		if len(vec.Elems) == 0 {
			return NullVal(), nil
		}
		head := vec.Elems[0]
		vec.Elems = vec.Elems[1:]
		return head, nil
	}),
}
