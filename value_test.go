package quill

import "testing"

var noSpan TextSpan

func Test_Value_Add_Promotion(t *testing.T) {
	v, err := IntVal(1).Add(IntVal(2), noSpan)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	wantIntVal(t, v, 3)

	v, err = IntVal(1).Add(FloatVal(0.5), noSpan)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	wantFloatVal(t, v, 1.5)

	if _, err := IntVal(1).Add(BoolVal(true), noSpan); err == nil {
		t.Fatalf("expected error adding int and bool")
	}
}

func Test_Value_Add_Text(t *testing.T) {
	v, _ := StrVal("ab").Add(CharVal('c'), noSpan)
	wantStrVal(t, v, "abc")
	v, _ = CharVal('a').Add(CharVal('b'), noSpan)
	wantStrVal(t, v, "ab")
	v, _ = CharVal('x').Add(StrVal("yz"), noSpan)
	wantStrVal(t, v, "xyz")
}

func Test_Value_Pow(t *testing.T) {
	v, _ := IntVal(2).Pow(IntVal(10), noSpan)
	wantIntVal(t, v, 1024)
	v, _ = IntVal(7).Pow(IntVal(0), noSpan)
	wantIntVal(t, v, 1)
	v, _ = FloatVal(2).Pow(IntVal(2), noSpan)
	wantFloatVal(t, v, 4.0)
	// Negative integer exponents truncate to zero.
	v, _ = IntVal(2).Pow(IntVal(-1), noSpan)
	wantIntVal(t, v, 0)
}

func Test_Value_Equals(t *testing.T) {
	if !StrVal("a").Equals(CharVal('a')) {
		t.Fatalf("string and char with same content must be equal")
	}
	if IntVal(1).Equals(FloatVal(1)) {
		t.Fatalf("int and float must never be equal")
	}
	if !VecVal([]Value{IntVal(1)}).Equals(VecVal([]Value{IntVal(1)})) {
		t.Fatalf("vectors compare element-wise")
	}
	if !NullVal().Equals(NullVal()) {
		t.Fatalf("null equals null")
	}
	if NullVal().Equals(IntVal(0)) {
		t.Fatalf("null must not equal zero")
	}
}

func Test_Value_Compare(t *testing.T) {
	if cmp, ok := IntVal(1).Compare(FloatVal(2.5)); !ok || cmp != -1 {
		t.Fatalf("want -1, got %d (ok=%v)", cmp, ok)
	}
	if _, ok := StrVal("a").Compare(StrVal("b")); ok {
		t.Fatalf("strings must not be ordered")
	}
}

func Test_Value_AccessIndex(t *testing.T) {
	vec := VecVal([]Value{IntVal(10), IntVal(20)})
	v, err := vec.AccessIndex(IntVal(1), noSpan)
	if err != nil {
		t.Fatalf("AccessIndex: %v", err)
	}
	wantIntVal(t, v, 20)

	v, _ = vec.AccessIndex(IntVal(9), noSpan)
	wantNullVal(t, v)
	v, _ = vec.AccessIndex(StrVal("x"), noSpan)
	wantNullVal(t, v)

	v, _ = StrVal("héllo").AccessIndex(IntVal(1), noSpan)
	wantCharVal(t, v, 'é')

	if _, err := IntVal(1).AccessIndex(IntVal(0), noSpan); err == nil {
		t.Fatalf("expected error indexing an int")
	}
}

func Test_Value_TypeName(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{IntVal(1), "int"},
		{FloatVal(1), "float"},
		{StrVal(""), "string"},
		{CharVal('a'), "char"},
		{BoolVal(true), "bool"},
		{NullVal(), "null"},
		{VoidVal(), "void"},
		{VecVal(nil), "void[]"},
		{VecVal([]Value{IntVal(1)}), "int[]"},
	}
	for _, c := range cases {
		if got := c.v.TypeName(); got != c.want {
			t.Fatalf("want %q, got %q", c.want, got)
		}
	}
}

func Test_Value_CheckType(t *testing.T) {
	intType := &TypeAnnotation{TypeName: identToken("int")}
	if err := IntVal(1).CheckType(intType, noSpan); err != nil {
		t.Fatalf("int should satisfy int: %v", err)
	}
	if err := StrVal("x").CheckType(intType, noSpan); err == nil {
		t.Fatalf("string must not satisfy int")
	}

	nullable := &TypeAnnotation{TypeName: identToken("int"), IsNullable: true}
	if err := NullVal().CheckType(nullable, noSpan); err != nil {
		t.Fatalf("null should satisfy int?: %v", err)
	}
	if err := NullVal().CheckType(intType, noSpan); err == nil {
		t.Fatalf("null must not satisfy plain int")
	}

	array := &TypeAnnotation{TypeName: identToken("int"), IsArray: true}
	if err := VecVal([]Value{IntVal(1), IntVal(2)}).CheckType(array, noSpan); err != nil {
		t.Fatalf("int vector should satisfy int[]: %v", err)
	}
	if err := VecVal([]Value{IntVal(1), StrVal("x")}).CheckType(array, noSpan); err == nil {
		t.Fatalf("mixed vector must not satisfy int[]")
	}

	anyType := &TypeAnnotation{TypeName: identToken("anytype")}
	if err := StrVal("x").CheckType(anyType, noSpan); err != nil {
		t.Fatalf("anytype accepts everything: %v", err)
	}
}

func Test_Value_IsTruthy(t *testing.T) {
	truthy := []Value{IntVal(1), FloatVal(0.1), BoolVal(true), StrVal("x"), VecVal([]Value{IntVal(0)}), CharVal('a')}
	for _, v := range truthy {
		if !v.IsTruthy() {
			t.Fatalf("%s should be truthy", v)
		}
	}
	falsy := []Value{IntVal(0), FloatVal(0), BoolVal(false), StrVal(""), VecVal(nil), NullVal(), VoidVal()}
	for _, v := range falsy {
		if v.IsTruthy() {
			t.Fatalf("%s should be falsy", v)
		}
	}
}

func Test_Value_String(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{IntVal(42), "42"},
		{FloatVal(2.5), "2.5"},
		{FloatVal(3), "3"},
		{BoolVal(true), "true"},
		{StrVal("hi"), "hi"},
		{CharVal('q'), "q"},
		{NullVal(), "null"},
		{VecVal([]Value{IntVal(1), StrVal("a")}), "[1, a]"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Fatalf("want %q, got %q", c.want, got)
		}
	}
}

func Test_MapObject_Preserves_Insertion_Order(t *testing.T) {
	m := NewMapObject()
	m.Set("b", IntVal(1))
	m.Set("a", IntVal(2))
	m.Set("b", IntVal(3))
	if len(m.Keys) != 2 || m.Keys[0] != "b" || m.Keys[1] != "a" {
		t.Fatalf("unexpected key order: %v", m.Keys)
	}
	v, ok := m.Get("b")
	if !ok {
		t.Fatalf("key b must exist")
	}
	wantIntVal(t, v, 3)
}

// identToken builds an IDENT token for type annotations in tests.
func identToken(name string) Token {
	start := NewPosition()
	end := start
	for range name {
		end.advanceColumn()
	}
	return Token{Type: IDENT, Span: NewTextSpan(start, end, name)}
}
