package quill

import (
	"errors"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	v, _, err := NewSession(NewFsLoader(t.TempDir())).Eval(src)
	if err != nil {
		t.Fatalf("eval error: %v\nsource:\n%s", err, src)
	}
	return v
}

func evalErr(t *testing.T, src string) error {
	t.Helper()
	_, _, err := NewSession(NewFsLoader(t.TempDir())).Eval(src)
	if err == nil {
		t.Fatalf("expected error, got none\nsource:\n%s", src)
	}
	return err
}

func wantIntVal(t *testing.T, v Value, n int64) {
	t.Helper()
	if v.Tag != VTInt || v.Data.(int64) != n {
		t.Fatalf("want int %d, got %#v", n, v)
	}
}

func wantFloatVal(t *testing.T, v Value, f float64) {
	t.Helper()
	if v.Tag != VTFloat || v.Data.(float64) != f {
		t.Fatalf("want float %g, got %#v", f, v)
	}
}

func wantStrVal(t *testing.T, v Value, s string) {
	t.Helper()
	if v.Tag != VTString || v.Data.(string) != s {
		t.Fatalf("want string %q, got %#v", s, v)
	}
}

func wantBoolVal(t *testing.T, v Value, b bool) {
	t.Helper()
	if v.Tag != VTBool || v.Data.(bool) != b {
		t.Fatalf("want bool %v, got %#v", b, v)
	}
}

func wantCharVal(t *testing.T, v Value, c rune) {
	t.Helper()
	if v.Tag != VTChar || v.Data.(rune) != c {
		t.Fatalf("want char %q, got %#v", c, v)
	}
}

func wantNullVal(t *testing.T, v Value) {
	t.Helper()
	if v.Tag != VTNull {
		t.Fatalf("want null, got %#v", v)
	}
}

func wantRuntimeKind(t *testing.T, err error, kind RuntimeErrorKind) {
	t.Helper()
	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("want *RuntimeError, got %T: %v", err, err)
	}
	if rerr.Kind != kind {
		t.Fatalf("want runtime error kind %d, got %d (%s)", kind, rerr.Kind, rerr.Msg)
	}
}

// --- literals & arithmetic -------------------------------------------------

func Test_Interpreter_Literals(t *testing.T) {
	wantIntVal(t, evalSrc(t, "42"), 42)
	wantFloatVal(t, evalSrc(t, "123."), 123.0)
	wantFloatVal(t, evalSrc(t, "2.5"), 2.5)
	wantStrVal(t, evalSrc(t, `"hi"`), "hi")
	wantCharVal(t, evalSrc(t, "'x'"), 'x')
	wantBoolVal(t, evalSrc(t, "true"), true)
	wantNullVal(t, evalSrc(t, "null"))
}

func Test_Interpreter_Arithmetic_And_Precedence(t *testing.T) {
	wantIntVal(t, evalSrc(t, "1 + 2 * 3"), 7)
	wantIntVal(t, evalSrc(t, "(1 + 2) * 3"), 9)
	wantIntVal(t, evalSrc(t, "7 % 4"), 3)
	wantIntVal(t, evalSrc(t, "-2 + 3"), 1)
	wantFloatVal(t, evalSrc(t, "1 + 0.5"), 1.5)
	wantFloatVal(t, evalSrc(t, "7.5 % 2"), 1.5)
	wantFloatVal(t, evalSrc(t, "5.0 / 2"), 2.5)
}

func Test_Interpreter_Power_Is_Right_Associative(t *testing.T) {
	wantIntVal(t, evalSrc(t, "2 ** 3 ** 2"), 512)
	wantIntVal(t, evalSrc(t, "(2 ** 3) ** 2"), 64)
	wantFloatVal(t, evalSrc(t, "2.0 ** 2"), 4.0)
}

func Test_Interpreter_Bitwise_And_Shifts(t *testing.T) {
	wantIntVal(t, evalSrc(t, "6 & 3"), 2)
	wantIntVal(t, evalSrc(t, "6 | 1"), 7)
	wantIntVal(t, evalSrc(t, "6 ^ 3"), 5)
	wantIntVal(t, evalSrc(t, "1 << 4"), 16)
	wantIntVal(t, evalSrc(t, "16 >> 2"), 4)
	wantIntVal(t, evalSrc(t, "~0"), -1)
	wantRuntimeKind(t, evalErr(t, `1 << "x"`), TypeMismatch)
}

func Test_Interpreter_Division_By_Zero(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, "1 / 0"), TypeMismatch)
	wantRuntimeKind(t, evalErr(t, "1 % 0"), TypeMismatch)
}

func Test_Interpreter_String_And_Char_Concat(t *testing.T) {
	wantStrVal(t, evalSrc(t, `"foo" + "bar"`), "foobar")
	wantStrVal(t, evalSrc(t, `"ab" + 'c'`), "abc")
	wantStrVal(t, evalSrc(t, `'a' + 'b'`), "ab")
	wantRuntimeKind(t, evalErr(t, `"a" + 1`), TypeMismatch)
}

func Test_Interpreter_Equality(t *testing.T) {
	wantBoolVal(t, evalSrc(t, "1 == 1"), true)
	wantBoolVal(t, evalSrc(t, "1 != 2"), true)
	// Int and Float never compare equal to each other.
	wantBoolVal(t, evalSrc(t, "1 == 1.0"), false)
	wantBoolVal(t, evalSrc(t, `'a' == "a"`), true)
	wantBoolVal(t, evalSrc(t, "[1, 2] == [1, 2]"), true)
	wantBoolVal(t, evalSrc(t, "[1, 2] == [1, 3]"), false)
	wantBoolVal(t, evalSrc(t, "null == null"), true)
}

func Test_Interpreter_Comparison(t *testing.T) {
	wantBoolVal(t, evalSrc(t, "3 < 4"), true)
	wantBoolVal(t, evalSrc(t, "1 < 2.5"), true)
	wantBoolVal(t, evalSrc(t, "3.0 >= 3"), true)
	wantRuntimeKind(t, evalErr(t, `"a" < "b"`), TypeMismatch)
}

func Test_Interpreter_Logical_Operators_Do_Not_Short_Circuit(t *testing.T) {
	wantBoolVal(t, evalSrc(t, "true && false"), false)
	wantBoolVal(t, evalSrc(t, "false || true"), true)
	// The right operand is evaluated even when the left already decides
	// the result.
	wantRuntimeKind(t, evalErr(t, "false && 1 / 0 == 0"), TypeMismatch)
	wantRuntimeKind(t, evalErr(t, "1 && 2"), TypeMismatch)
}

// --- variables & assignment ------------------------------------------------

func Test_Interpreter_Let_And_Assignment(t *testing.T) {
	wantIntVal(t, evalSrc(t, "let x = 5 x = x + 1 x"), 6)
	wantIntVal(t, evalSrc(t, "let x = 10 x += 5 x"), 15)
	wantIntVal(t, evalSrc(t, "let x = 10 x -= 3 x"), 7)
	wantIntVal(t, evalSrc(t, "let x = 10 x *= 2 x"), 20)
	wantIntVal(t, evalSrc(t, "let x = 10 x /= 2 x"), 5)
}

func Test_Interpreter_Let_Type_Annotations(t *testing.T) {
	wantIntVal(t, evalSrc(t, "let x: int = 1 x"), 1)
	wantNullVal(t, evalSrc(t, "let x: int? = null x"))
	wantIntVal(t, evalSrc(t, "let v: int[] = [1, 2] v[0]"), 1)
	wantRuntimeKind(t, evalErr(t, `let x: int = "nope"`), TypeMismatch)
	wantRuntimeKind(t, evalErr(t, `let v: int[] = [1, "two"]`), TypeMismatch)
}

func Test_Interpreter_Undefined_Variable(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, "y + 1"), VariableNotFound)
	wantRuntimeKind(t, evalErr(t, "y = 1"), VariableNotFound)
}

func Test_Interpreter_Session_State_Persists(t *testing.T) {
	s := NewSession(NewFsLoader(t.TempDir()))
	if _, _, err := s.Eval("let acc = 1"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if _, _, err := s.Eval("acc += 41"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	v, display, err := s.Eval("acc")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !display {
		t.Fatalf("expected a displayable result")
	}
	wantIntVal(t, v, 42)
}

// --- control flow ----------------------------------------------------------

func Test_Interpreter_If_Else(t *testing.T) {
	wantIntVal(t, evalSrc(t, "let x = 0 if true { x = 1 } else { x = 2 } x"), 1)
	wantIntVal(t, evalSrc(t, "let x = 0 if false { x = 1 } else { x = 2 } x"), 2)
	wantIntVal(t, evalSrc(t, `
		let x = 0
		if x == 1 { x = 10 }
		else if x == 0 { x = 20 }
		else { x = 30 }
		x
	`), 20)
}

func Test_Interpreter_Condition_Must_Be_Boolean(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, "if 1 { }"), NonBooleanCondition)
	wantRuntimeKind(t, evalErr(t, "while 1 { }"), NonBooleanCondition)
	// Null counts as false.
	wantIntVal(t, evalSrc(t, "let x = 1 if null { x = 2 } x"), 1)
}

func Test_Interpreter_While_Loop(t *testing.T) {
	wantIntVal(t, evalSrc(t, `
		let i = 0
		let sum = 0
		while i < 5 {
			sum += i
			i += 1
		}
		sum
	`), 10)
}

func Test_Interpreter_Loop_And_Break(t *testing.T) {
	wantIntVal(t, evalSrc(t, `
		let i = 0
		loop {
			i += 1
			if i == 3 { break }
		}
		i
	`), 3)
}

func Test_Interpreter_Continue_Skips_Iteration(t *testing.T) {
	wantIntVal(t, evalSrc(t, `
		let i = 0
		let sum = 0
		while i < 5 {
			i += 1
			if i % 2 == 0 { continue }
			sum += i
		}
		sum
	`), 9)
}

func Test_Interpreter_Break_Outside_Loop(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, "break"), BreakOutsideLoop)
	wantRuntimeKind(t, evalErr(t, "continue"), ContinueOutsideLoop)
}

func Test_Interpreter_ThenElse_Expression(t *testing.T) {
	wantStrVal(t, evalSrc(t, `1 > 2 then "a" else "b"`), "b")
	wantStrVal(t, evalSrc(t, `2 > 1 then "a" else "b"`), "a")
	// Truthiness: zero, empty and null select the else branch.
	wantIntVal(t, evalSrc(t, "0 then 1 else 2"), 2)
	wantIntVal(t, evalSrc(t, `"" then 1 else 2`), 2)
	wantIntVal(t, evalSrc(t, "null then 1 else 2"), 2)
	wantIntVal(t, evalSrc(t, "[0] then 1 else 2"), 1)
}

// --- throw / try / catch ---------------------------------------------------

func Test_Interpreter_Try_Catches_Throw(t *testing.T) {
	wantStrVal(t, evalSrc(t, `
		let msg = ""
		try { throw "boom" } catch e { msg = e }
		msg
	`), "boom")
}

func Test_Interpreter_Catch_Binding_Is_Stringified(t *testing.T) {
	wantStrVal(t, evalSrc(t, `
		let msg = ""
		try { throw 42 } catch e { msg = e }
		msg
	`), "42")
}

func Test_Interpreter_Uncaught_Throw(t *testing.T) {
	err := evalErr(t, `throw "unhandled"`)
	var thrown *ThrownError
	if !errors.As(err, &thrown) {
		t.Fatalf("want *ThrownError, got %T: %v", err, err)
	}
	if thrown.Value.String() != "unhandled" {
		t.Fatalf("want thrown value %q, got %q", "unhandled", thrown.Value.String())
	}
}

func Test_Interpreter_Catch_Does_Not_Intercept_Engine_Faults(t *testing.T) {
	// Only `throw` reaches the catch block; a genuine runtime fault
	// inside the try body propagates past it.
	wantRuntimeKind(t, evalErr(t, "try { no_such_fn() } catch e { }"), FunctionNotFound)
}

func Test_Interpreter_Throw_Crosses_Function_Boundaries(t *testing.T) {
	wantStrVal(t, evalSrc(t, `
		fn fail() { throw "deep" }
		let msg = ""
		try { fail() } catch e { msg = e }
		msg
	`), "deep")
}

// --- functions -------------------------------------------------------------

func Test_Interpreter_Function_Call(t *testing.T) {
	wantIntVal(t, evalSrc(t, `
		fn add(a: int, b: int) -> int { return a + b }
		add(2, 3)
	`), 5)
}

func Test_Interpreter_Function_Implicit_Result(t *testing.T) {
	// A body with no return yields the last expression value.
	wantIntVal(t, evalSrc(t, "fn f() { 42 } f()"), 42)
}

func Test_Interpreter_Function_Argument_Type_Check(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, `fn f(a: int) { } f("x")`), TypeMismatch)
	wantRuntimeKind(t, evalErr(t, "fn f(a: int) { } f()"), MissingParameter)
}

func Test_Interpreter_Nullable_Parameter_Defaults_To_Null(t *testing.T) {
	wantIntVal(t, evalSrc(t, `
		fn f(a: int?) -> int { return a then 1 else 0 }
		f()
	`), 0)
	wantIntVal(t, evalSrc(t, `
		fn f(a: int?) -> int { return a then 1 else 0 }
		f(7)
	`), 1)
}

func Test_Interpreter_Rest_Parameters(t *testing.T) {
	wantIntVal(t, evalSrc(t, `
		fn total(...nums: int[]) -> int {
			let sum = 0
			loop {
				let n = nums.next()
				if n == null { break }
				sum += n
			}
			return sum
		}
		total(1, 2, 3)
	`), 6)
	wantIntVal(t, evalSrc(t, `
		fn count(...rest) -> int { return rest.len() }
		count()
	`), 0)
	wantRuntimeKind(t, evalErr(t, `
		fn total(...nums: int[]) { }
		total(1, "two")
	`), TypeMismatch)
}

func Test_Interpreter_Spread_In_Calls_And_Vectors(t *testing.T) {
	wantIntVal(t, evalSrc(t, `
		fn add3(a: int, b: int, c: int) -> int { return a + b + c }
		let args = [1, 2, 3]
		add3(...args)
	`), 6)
	wantIntVal(t, evalSrc(t, "let v = [1, ...[2, 3], 4] v.len()"), 4)
	wantIntVal(t, evalSrc(t, "let v = [0, ...[5, 6]] v[2]"), 6)
	wantRuntimeKind(t, evalErr(t, "let x = ...[1]"), InvalidSpread)
	wantRuntimeKind(t, evalErr(t, "[...1]"), InvalidSpread)
}

func Test_Interpreter_Undefined_Function(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, "nope()"), FunctionNotFound)
}

func Test_Interpreter_Recursion(t *testing.T) {
	wantIntVal(t, evalSrc(t, `
		fn fib(n: int) -> int {
			if n < 2 { return n }
			return fib(n - 1) + fib(n - 2)
		}
		fib(10)
	`), 55)
}

// --- vectors, objects, indexing --------------------------------------------

func Test_Interpreter_Vector_Indexing(t *testing.T) {
	wantIntVal(t, evalSrc(t, "let v = [10, 20, 30] v[1]"), 20)
	// Out-of-range reads yield null rather than failing.
	wantNullVal(t, evalSrc(t, "[1][5]"))
	wantNullVal(t, evalSrc(t, "[1][-1]"))
}

func Test_Interpreter_Index_Assignment(t *testing.T) {
	wantIntVal(t, evalSrc(t, "let v = [1, 2] v[0] = 9 v[0]"), 9)
	wantRuntimeKind(t, evalErr(t, "let v = [1] v[3] = 0"), IndexOutOfBounds)
}

func Test_Interpreter_Vectors_Are_Shared_By_Reference(t *testing.T) {
	wantIntVal(t, evalSrc(t, `
		let a = [1, 2, 3]
		let b = a
		b[0] = 99
		a[0]
	`), 99)
}

func Test_Interpreter_String_Indexing(t *testing.T) {
	wantCharVal(t, evalSrc(t, `"hello"[1]`), 'e')
	wantNullVal(t, evalSrc(t, `"hi"[10]`))
}

func Test_Interpreter_Objects(t *testing.T) {
	wantIntVal(t, evalSrc(t, `let o = {"a": 1, "b": 2} o["b"]`), 2)
	wantIntVal(t, evalSrc(t, `let o = {"a": 5} o.a`), 5)
	wantNullVal(t, evalSrc(t, `let o = {"a": 1} o["missing"]`))
	wantRuntimeKind(t, evalErr(t, `let o = {"a": 1} o.missing`), PropertyNotFound)
}

func Test_Interpreter_Indexing_Non_Indexable(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, "1[0]"), TypeMismatch)
}

// --- constants -------------------------------------------------------------

func Test_Interpreter_Constants(t *testing.T) {
	wantIntVal(t, evalSrc(t, "const ANSWER = 42 ANSWER"), 42)
	wantIntVal(t, evalSrc(t, "const BASE = 2 ** 10 BASE + 1"), 1025)
}

// --- built-in methods ------------------------------------------------------

func Test_Interpreter_String_Methods(t *testing.T) {
	wantIntVal(t, evalSrc(t, `"hello".len()`), 5)
	wantStrVal(t, evalSrc(t, `"hi".to_uppercase()`), "HI")
	wantStrVal(t, evalSrc(t, `"AbC".to_lowercase()`), "abc")
	wantBoolVal(t, evalSrc(t, `"hello".contains("ell")`), true)
	wantBoolVal(t, evalSrc(t, `"hello".starts_with("he")`), true)
	wantBoolVal(t, evalSrc(t, `"hello".ends_with("lo")`), true)
	wantStrVal(t, evalSrc(t, `"a-b-c".replace("-", "+")`), "a+b+c")
	wantStrVal(t, evalSrc(t, `"  pad  ".trim()`), "pad")
	wantStrVal(t, evalSrc(t, `"abc".reverse()`), "cba")
	wantCharVal(t, evalSrc(t, `"hello".char_at(1)`), 'e')
	wantNullVal(t, evalSrc(t, `"hi".char_at(99)`))
	wantIntVal(t, evalSrc(t, `"abc".char_code_at(0)`), 97)
	wantStrVal(t, evalSrc(t, `"hello".slice(1, 3)`), "el")
	wantIntVal(t, evalSrc(t, `"hello".index_of("l")`), 2)
	wantIntVal(t, evalSrc(t, `"hello".last_index_of("l")`), 3)
	wantIntVal(t, evalSrc(t, `"hello".index_of("z")`), -1)
	wantIntVal(t, evalSrc(t, `"a,b,c".split(",").len()`), 3)
	wantIntVal(t, evalSrc(t, `"abc".chars().len()`), 3)
}

func Test_Interpreter_Vec_Methods(t *testing.T) {
	wantIntVal(t, evalSrc(t, "[1, 2, 3].len()"), 3)
	// next drains the vector in place.
	wantIntVal(t, evalSrc(t, "let v = [7, 8] v.next()"), 7)
	wantIntVal(t, evalSrc(t, "let v = [7, 8] v.next() v.len()"), 1)
	wantNullVal(t, evalSrc(t, "let v = [] v.next()"))
}

func Test_Interpreter_Char_Methods(t *testing.T) {
	wantBoolVal(t, evalSrc(t, "'a'.is_alphabetic()"), true)
	wantBoolVal(t, evalSrc(t, "'7'.is_digit()"), true)
	wantBoolVal(t, evalSrc(t, "'x'.is_uppercase()"), false)
	wantBoolVal(t, evalSrc(t, "' '.is_whitespace()"), true)
	wantBoolVal(t, evalSrc(t, "'f'.is_digit_in_base(16)"), true)
	wantBoolVal(t, evalSrc(t, "'g'.is_digit_in_base(16)"), false)
	wantCharVal(t, evalSrc(t, "'a'.to_uppercase()"), 'A')
	wantCharVal(t, evalSrc(t, "'Z'.to_ascii_lowercase()"), 'z')
	wantStrVal(t, evalSrc(t, "'q'.to_string()"), "q")
	wantIntVal(t, evalSrc(t, "'A'.to_int()"), 65)
	wantIntVal(t, evalSrc(t, "'a'.len_utf8()"), 1)
	wantCharVal(t, evalSrc(t, "'_'.from_digit(11, 16)"), 'b')
	wantNullVal(t, evalSrc(t, "'_'.from_digit(9, 8)"))
}

func Test_Interpreter_Unknown_Method(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, `"s".frobnicate()`), PropertyNotFound)
}

// --- field assignment ------------------------------------------------------

func Test_Interpreter_Field_Assignment_Is_Rejected(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, `
		struct P { x: int }
		let p = P { x: 1 }
		p.x = 2
	`), FieldAssignmentUnsupported)
}
