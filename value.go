// value.go — the runtime value model and its operator semantics.
//
// Value is a tagged sum: null, void, bool, int64, float64, string, char,
// vectors, struct instances, and ordered objects. Arithmetic, comparison,
// equality and indexing are defined pairwise per tag; mixed Int/Float
// arithmetic promotes to Float, and every other cross-tag combination is a
// runtime type error — never a silent coercion. Void is the result of
// statements and void calls and is distinct from Null (absence of a value
// vs. no meaningful value).
package quill

import (
	"fmt"
	"math"
	"strings"
)

type ValueTag int

const (
	VTNull ValueTag = iota
	VTVoid
	VTBool
	VTInt
	VTFloat
	VTString
	VTChar
	VTVec
	VTStruct
	VTObject
)

// Value is one runtime value. Data holds the payload per tag: int64,
// float64, bool, string, rune, *VecObject, *StructInstance, *MapObject.
type Value struct {
	Tag  ValueTag
	Data any
}

// VecObject is a mutable vector. Shared by reference so that index
// assignment through any alias is visible everywhere.
type VecObject struct {
	Elems []Value
}

// MapObject is an ordered string-keyed map: Keys preserves insertion order.
type MapObject struct {
	Keys    []string
	Entries map[string]Value
}

func NewMapObject() *MapObject {
	return &MapObject{Entries: map[string]Value{}}
}

// Set inserts or updates a key, preserving first-insertion order.
func (m *MapObject) Set(key string, v Value) {
	if _, ok := m.Entries[key]; !ok {
		m.Keys = append(m.Keys, key)
	}
	m.Entries[key] = v
}

func (m *MapObject) Get(key string) (Value, bool) {
	v, ok := m.Entries[key]
	return v, ok
}

// StructInstance is a constructed struct value: its definition plus a field
// map. The definition links back to the defining module for method lookup.
type StructInstance struct {
	Def    *StoredStruct
	Fields *MapObject
}

////////////////////////////////////////////////////////////////////////////////
//                                CONSTRUCTORS
////////////////////////////////////////////////////////////////////////////////

func IntVal(i int64) Value      { return Value{Tag: VTInt, Data: i} }
func FloatVal(f float64) Value  { return Value{Tag: VTFloat, Data: f} }
func BoolVal(b bool) Value      { return Value{Tag: VTBool, Data: b} }
func StrVal(s string) Value     { return Value{Tag: VTString, Data: s} }
func CharVal(c rune) Value      { return Value{Tag: VTChar, Data: c} }
func NullVal() Value            { return Value{Tag: VTNull} }
func VoidVal() Value            { return Value{Tag: VTVoid} }
func VecVal(el []Value) Value   { return Value{Tag: VTVec, Data: &VecObject{Elems: el}} }
func ObjectVal(m *MapObject) Value {
	return Value{Tag: VTObject, Data: m}
}
func StructVal(def *StoredStruct, fields *MapObject) Value {
	return Value{Tag: VTStruct, Data: &StructInstance{Def: def, Fields: fields}}
}

func (v Value) AsInt() int64               { return v.Data.(int64) }
func (v Value) AsFloat() float64           { return v.Data.(float64) }
func (v Value) AsBool() bool               { return v.Data.(bool) }
func (v Value) AsString() string           { return v.Data.(string) }
func (v Value) AsChar() rune               { return v.Data.(rune) }
func (v Value) AsVec() *VecObject          { return v.Data.(*VecObject) }
func (v Value) AsObject() *MapObject       { return v.Data.(*MapObject) }
func (v Value) AsStruct() *StructInstance  { return v.Data.(*StructInstance) }

func (v Value) IsNull() bool   { return v.Tag == VTNull }
func (v Value) IsVoid() bool   { return v.Tag == VTVoid }
func (v Value) IsBool() bool   { return v.Tag == VTBool }
func (v Value) IsInt() bool    { return v.Tag == VTInt }
func (v Value) IsFloat() bool  { return v.Tag == VTFloat }
func (v Value) IsString() bool { return v.Tag == VTString }
func (v Value) IsChar() bool   { return v.Tag == VTChar }
func (v Value) IsVec() bool    { return v.Tag == VTVec }
func (v Value) IsStruct() bool { return v.Tag == VTStruct }
func (v Value) IsObject() bool { return v.Tag == VTObject }

// asFloat widens a numeric value to float64.
func (v Value) asFloat() float64 {
	if v.Tag == VTInt {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

func (v Value) isNumeric() bool { return v.Tag == VTInt || v.Tag == VTFloat }

////////////////////////////////////////////////////////////////////////////////
//                                 ARITHMETIC
////////////////////////////////////////////////////////////////////////////////

// Add: numeric addition with Int/Float promotion, or string/char
// concatenation in any combination of the two.
func (v Value) Add(other Value, span TextSpan) (Value, error) {
	switch {
	case v.Tag == VTInt && other.Tag == VTInt:
		return IntVal(v.AsInt() + other.AsInt()), nil
	case v.isNumeric() && other.isNumeric():
		return FloatVal(v.asFloat() + other.asFloat()), nil
	case v.Tag == VTString && other.Tag == VTString:
		return StrVal(v.AsString() + other.AsString()), nil
	case v.Tag == VTChar && other.Tag == VTChar:
		return StrVal(string(v.AsChar()) + string(other.AsChar())), nil
	case v.Tag == VTChar && other.Tag == VTString:
		return StrVal(string(v.AsChar()) + other.AsString()), nil
	case v.Tag == VTString && other.Tag == VTChar:
		return StrVal(v.AsString() + string(other.AsChar())), nil
	}
	return Value{}, runtimeErr(TypeMismatch, span,
		"cannot add values of types %s and %s", v.TypeName(), other.TypeName())
}

func (v Value) Sub(other Value, span TextSpan) (Value, error) {
	return v.numericOp(other, span, "subtract",
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b })
}

func (v Value) Mul(other Value, span TextSpan) (Value, error) {
	return v.numericOp(other, span, "multiply",
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b })
}

func (v Value) Div(other Value, span TextSpan) (Value, error) {
	if v.Tag == VTInt && other.Tag == VTInt && other.AsInt() == 0 {
		return Value{}, runtimeErr(TypeMismatch, span, "division by zero")
	}
	return v.numericOp(other, span, "divide",
		func(a, b int64) int64 { return a / b },
		func(a, b float64) float64 { return a / b })
}

func (v Value) Rem(other Value, span TextSpan) (Value, error) {
	if v.Tag == VTInt && other.Tag == VTInt {
		if other.AsInt() == 0 {
			return Value{}, runtimeErr(TypeMismatch, span, "modulo by zero")
		}
		return IntVal(v.AsInt() % other.AsInt()), nil
	}
	if v.isNumeric() && other.isNumeric() {
		return FloatVal(math.Mod(v.asFloat(), other.asFloat())), nil
	}
	return Value{}, runtimeErr(TypeMismatch, span,
		"cannot modulo values of types %s and %s", v.TypeName(), other.TypeName())
}

// Pow: integer result only for Int**Int, Float otherwise.
func (v Value) Pow(other Value, span TextSpan) (Value, error) {
	if v.Tag == VTInt && other.Tag == VTInt {
		return IntVal(intPow(v.AsInt(), other.AsInt())), nil
	}
	if v.isNumeric() && other.isNumeric() {
		return FloatVal(math.Pow(v.asFloat(), other.asFloat())), nil
	}
	return Value{}, runtimeErr(TypeMismatch, span,
		"cannot apply power operator to types %s and %s", v.TypeName(), other.TypeName())
}

func (v Value) numericOp(other Value, span TextSpan, verb string,
	intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (Value, error) {
	switch {
	case v.Tag == VTInt && other.Tag == VTInt:
		return IntVal(intOp(v.AsInt(), other.AsInt())), nil
	case v.isNumeric() && other.isNumeric():
		return FloatVal(floatOp(v.asFloat(), other.asFloat())), nil
	}
	return Value{}, runtimeErr(TypeMismatch, span,
		"cannot %s values of types %s and %s", verb, v.TypeName(), other.TypeName())
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

////////////////////////////////////////////////////////////////////////////////
//                          EQUALITY, ORDERING, INDEXING
////////////////////////////////////////////////////////////////////////////////

// Equals is structural. Char and String cross-compare by content; all other
// cross-tag pairs are unequal.
func (v Value) Equals(other Value) bool {
	switch {
	case v.Tag == VTInt && other.Tag == VTInt:
		return v.AsInt() == other.AsInt()
	case v.Tag == VTFloat && other.Tag == VTFloat:
		return v.AsFloat() == other.AsFloat()
	case v.Tag == VTBool && other.Tag == VTBool:
		return v.AsBool() == other.AsBool()
	case v.Tag == VTString && other.Tag == VTString:
		return v.AsString() == other.AsString()
	case v.Tag == VTChar && other.Tag == VTChar:
		return v.AsChar() == other.AsChar()
	case v.Tag == VTChar && other.Tag == VTString:
		return string(v.AsChar()) == other.AsString()
	case v.Tag == VTString && other.Tag == VTChar:
		return v.AsString() == string(other.AsChar())
	case v.Tag == VTVec && other.Tag == VTVec:
		a, b := v.AsVec().Elems, other.AsVec().Elems
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equals(b[i]) {
				return false
			}
		}
		return true
	case v.Tag == VTNull && other.Tag == VTNull:
		return true
	case v.Tag == VTVoid && other.Tag == VTVoid:
		return true
	}
	return false
}

// Compare orders numeric values: -1, 0, or +1. The second return is false
// for non-numeric operands.
func (v Value) Compare(other Value) (int, bool) {
	if !v.isNumeric() || !other.isNumeric() {
		return 0, false
	}
	a, b := v.asFloat(), other.asFloat()
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	default:
		return 0, true
	}
}

// AccessIndex reads base[index]. Out-of-range or wrong-typed indexes yield
// Null; indexing a non-indexable value is a runtime error.
func (v Value) AccessIndex(index Value, span TextSpan) (Value, error) {
	switch v.Tag {
	case VTVec:
		if index.Tag != VTInt {
			return NullVal(), nil
		}
		i := index.AsInt()
		elems := v.AsVec().Elems
		if i < 0 || i >= int64(len(elems)) {
			return NullVal(), nil
		}
		return elems[i], nil
	case VTString:
		if index.Tag != VTInt {
			return NullVal(), nil
		}
		i := index.AsInt()
		if i < 0 {
			return NullVal(), nil
		}
		runes := []rune(v.AsString())
		if i >= int64(len(runes)) {
			return NullVal(), nil
		}
		return CharVal(runes[i]), nil
	case VTObject:
		if index.Tag != VTString {
			return NullVal(), nil
		}
		if val, ok := v.AsObject().Get(index.AsString()); ok {
			return val, nil
		}
		return NullVal(), nil
	}
	return Value{}, runtimeErr(TypeMismatch, span,
		"cannot index a value of type %s", v.TypeName())
}

////////////////////////////////////////////////////////////////////////////////
//                              TYPES & TRUTHINESS
////////////////////////////////////////////////////////////////////////////////

func (v Value) TypeName() string {
	switch v.Tag {
	case VTInt:
		return "int"
	case VTFloat:
		return "float"
	case VTBool:
		return "bool"
	case VTString:
		return "string"
	case VTChar:
		return "char"
	case VTVec:
		elems := v.AsVec().Elems
		if len(elems) == 0 {
			return "void[]"
		}
		// Vector type is named after its first element.
		return elems[0].TypeName() + "[]"
	case VTStruct:
		return v.AsStruct().Def.Name()
	case VTObject:
		return "object"
	case VTNull:
		return "null"
	default:
		return "void"
	}
}

func (v Value) IsType(name string) bool {
	switch name {
	case "int":
		return v.IsInt()
	case "float":
		return v.IsFloat()
	case "bool":
		return v.IsBool()
	case "string":
		return v.IsString()
	case "char":
		return v.IsChar()
	case "null":
		return v.IsNull()
	case "void":
		return v.IsVoid()
	case "anytype":
		return true
	}
	// Struct type: match by definition name.
	if v.IsStruct() {
		return v.AsStruct().Def.Name() == name
	}
	return false
}

// CheckType validates a value against a declared annotation. Null passes
// any nullable annotation; arrays require a vector whose elements all match
// the element type.
func (v Value) CheckType(ta *TypeAnnotation, span TextSpan) error {
	if ta == nil {
		return nil
	}
	name := ta.TypeName.Literal()
	if ta.IsNullable && v.IsNull() {
		return nil
	}
	if ta.IsArray {
		if !v.IsVec() {
			return errTypeMismatch(name+"[]", v.TypeName(), span)
		}
		if name == "anytype" {
			return nil
		}
		for _, el := range v.AsVec().Elems {
			if !el.IsType(name) {
				return errTypeMismatch(name+"[]", v.TypeName(), span)
			}
		}
		return nil
	}
	if !v.IsType(name) {
		return errTypeMismatch(name, v.TypeName(), span)
	}
	return nil
}

// IsTruthy: zero, empty, null and void are false; everything else true.
func (v Value) IsTruthy() bool {
	switch v.Tag {
	case VTInt:
		return v.AsInt() != 0
	case VTFloat:
		return v.AsFloat() != 0
	case VTBool:
		return v.AsBool()
	case VTString:
		return v.AsString() != ""
	case VTVec:
		return len(v.AsVec().Elems) > 0
	case VTNull, VTVoid:
		return false
	default:
		return true
	}
}

////////////////////////////////////////////////////////////////////////////////
//                               STRINGIFICATION
////////////////////////////////////////////////////////////////////////////////

func (v Value) String() string {
	switch v.Tag {
	case VTInt:
		return fmt.Sprintf("%d", v.AsInt())
	case VTFloat:
		return trimFloat(v.AsFloat())
	case VTBool:
		return fmt.Sprintf("%t", v.AsBool())
	case VTString:
		return v.AsString()
	case VTChar:
		return string(v.AsChar())
	case VTVec:
		var parts []string
		for _, el := range v.AsVec().Elems {
			parts = append(parts, el.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VTStruct:
		s := v.AsStruct()
		var parts []string
		for _, k := range s.Fields.Keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, s.Fields.Entries[k]))
		}
		return s.Def.Name() + " {" + strings.Join(parts, ", ") + "}"
	case VTObject:
		m := v.AsObject()
		var parts []string
		for _, k := range m.Keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, m.Entries[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case VTNull:
		return "null"
	default:
		return "void"
	}
}

// trimFloat prints floats the way the language does: no trailing ".0" for
// whole numbers.
func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}
