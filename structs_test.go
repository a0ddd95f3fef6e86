package quill

import "testing"

func Test_Structs_Construction_And_Field_Access(t *testing.T) {
	wantIntVal(t, evalSrc(t, `
		struct Point { x: int, y: int }
		let p = Point { x: 3, y: 4 }
		p.x + p.y
	`), 7)
}

func Test_Structs_Unknown_Struct(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, "let p = Nope { x: 1 }"), StructNotFound)
}

func Test_Structs_Unknown_Field(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, `
		struct Point { x: int }
		let p = Point { x: 1 }
		p.z
	`), PropertyNotFound)
}

func Test_Structs_Instance_Methods(t *testing.T) {
	wantIntVal(t, evalSrc(t, `
		struct Point { x: int, y: int }
		impl Point {
			fn sum(self) -> int { return self.x + self.y }
			fn scaled(self, k: int) -> int { return self.sum() * k }
		}
		let p = Point { x: 3, y: 4 }
		p.scaled(10)
	`), 70)
}

func Test_Structs_Static_Methods(t *testing.T) {
	wantIntVal(t, evalSrc(t, `
		struct Point { x: int, y: int }
		impl Point {
			fn origin() -> Point { return Point { x: 0, y: 0 } }
		}
		let o = Point::origin()
		o.x
	`), 0)
}

func Test_Structs_Static_Access_Errors(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, "Nope::make()"), StructNotFound)
	wantRuntimeKind(t, evalErr(t, `
		struct Point { x: int }
		Point::missing()
	`), FunctionNotFound)
}

func Test_Structs_Impl_For_Unknown_Struct(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, "impl Ghost { fn f(self) { } }"), StructNotFound)
}

func Test_Traits_Impl_And_Dispatch(t *testing.T) {
	wantIntVal(t, evalSrc(t, `
		trait Shape { fn area(self) -> int; }
		struct Square { side: int }
		impl Shape for Square {
			fn area(self) -> int { return self.side * self.side }
		}
		let sq = Square { side: 3 }
		sq.area()
	`), 9)
}

func Test_Traits_Missing_Method(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, `
		trait Shape {
			fn area(self) -> int;
			fn perimeter(self) -> int;
		}
		struct Square { side: int }
		impl Shape for Square {
			fn area(self) -> int { return self.side * self.side }
		}
	`), TraitMethodNotImplemented)
}

func Test_Traits_Unknown_Trait(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, `
		struct Square { side: int }
		impl Ghost for Square { fn f(self) { } }
	`), TraitNotFound)
}

func Test_Traits_Duplicate_Impl(t *testing.T) {
	wantRuntimeKind(t, evalErr(t, `
		trait Marker { fn tag(self) -> int; }
		struct Thing { n: int }
		impl Marker for Thing { fn tag(self) -> int { return 1 } }
		impl Marker for Thing { fn tag(self) -> int { return 2 } }
	`), StructAlreadyImplementsTrait)
}

func Test_Structs_Inherent_Impl_Shadows_Trait_Impl(t *testing.T) {
	// When both an inherent impl and a trait impl provide the same
	// method, the inherent one wins.
	wantIntVal(t, evalSrc(t, `
		trait Valued { fn value(self) -> int; }
		struct Box { n: int }
		impl Box { fn value(self) -> int { return 1 } }
		impl Valued for Box { fn value(self) -> int { return 2 } }
		let b = Box { n: 0 }
		b.value()
	`), 1)
}
