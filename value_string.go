package quill

// String built-in methods. Indexing methods (char_at, char_code_at)
// address runes, not bytes, and return Null out of range; len reports
// byte length; index_of and last_index_of return -1 when absent.

import "strings"

var stringMethods = map[string]*NativeFunction{
	"len": method("len", 0, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		return IntVal(int64(len(s))), nil
	}),
	"split": method("split", 1, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		sep, err := wantString(args, 1)
		if err != nil {
			return Value{}, err
		}
		var parts []Value
		for _, p := range strings.Split(s, sep) {
			parts = append(parts, StrVal(p))
		}
		return VecVal(parts), nil
	}),
	"chars": method("chars", 0, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		var chars []Value
		for _, r := range s {
			chars = append(chars, CharVal(r))
		}
		return VecVal(chars), nil
	}),
	"contains": method("contains", 1, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		sub, err := wantString(args, 1)
		if err != nil {
			return Value{}, err
		}
		return BoolVal(strings.Contains(s, sub)), nil
	}),
	"starts_with": method("starts_with", 1, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		prefix, err := wantString(args, 1)
		if err != nil {
			return Value{}, err
		}
		return BoolVal(strings.HasPrefix(s, prefix)), nil
	}),
	"ends_with": method("ends_with", 1, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		suffix, err := wantString(args, 1)
		if err != nil {
			return Value{}, err
		}
		return BoolVal(strings.HasSuffix(s, suffix)), nil
	}),
	"replace": method("replace", 2, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		old, err := wantString(args, 1)
		if err != nil {
			return Value{}, err
		}
		new_, err := wantString(args, 2)
		if err != nil {
			return Value{}, err
		}
		return StrVal(strings.ReplaceAll(s, old, new_)), nil
	}),
	"trim": method("trim", 0, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		return StrVal(strings.TrimSpace(s)), nil
	}),
	"trim_start": method("trim_start", 0, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		return StrVal(strings.TrimLeft(s, " \t\n\r")), nil
	}),
	"trim_end": method("trim_end", 0, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		return StrVal(strings.TrimRight(s, " \t\n\r")), nil
	}),
	"to_uppercase": method("to_uppercase", 0, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		return StrVal(strings.ToUpper(s)), nil
	}),
	"to_lowercase": method("to_lowercase", 0, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		return StrVal(strings.ToLower(s)), nil
	}),
	"reverse": method("reverse", 0, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return StrVal(string(runes)), nil
	}),
	"char_at": method("char_at", 1, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		idx, err := wantInt(args, 1)
		if err != nil {
			return Value{}, err
		}
		runes := []rune(s)
		if idx < 0 || idx >= int64(len(runes)) {
			return NullVal(), nil
		}
		return CharVal(runes[idx]), nil
	}),
	"char_code_at": method("char_code_at", 1, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		idx, err := wantInt(args, 1)
		if err != nil {
			return Value{}, err
		}
		runes := []rune(s)
		if idx < 0 || idx >= int64(len(runes)) {
			return NullVal(), nil
		}
		return IntVal(int64(runes[idx])), nil
	}),
	"slice": method("slice", 2, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		start, err := wantInt(args, 1)
		if err != nil {
			return Value{}, err
		}
		end, err := wantInt(args, 2)
		if err != nil {
			return Value{}, err
		}
		runes := []rune(s)
		n := int64(len(runes))
		start = min(max(start, 0), n)
		end = min(max(end, start), n)
		return StrVal(string(runes[start:end])), nil
	}),
	"index_of": method("index_of", 1, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		sub, err := wantString(args, 1)
		if err != nil {
			return Value{}, err
		}
		return IntVal(int64(strings.Index(s, sub))), nil
	}),
	"last_index_of": method("last_index_of", 1, func(args []Value) (Value, error) {
		s, err := wantString(args, 0)
		if err != nil {
			return Value{}, err
		}
		sub, err := wantString(args, 1)
		if err != nil {
			return Value{}, err
		}
		return IntVal(int64(strings.LastIndex(s, sub))), nil
	}),
}
