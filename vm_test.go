package quill

import "testing"

func Test_VM_Stack_Discipline(t *testing.T) {
	vm := NewVM()
	vm.Push(IntVal(1))
	vm.Push(IntVal(2))
	if vm.StackLen() != 2 {
		t.Fatalf("want depth 2, got %d", vm.StackLen())
	}
	wantIntVal(t, vm.Pop(), 2)
	wantIntVal(t, vm.Pop(), 1)
	if vm.StackLen() != 0 {
		t.Fatalf("want empty stack, got depth %d", vm.StackLen())
	}
}

func Test_VM_Pop_Empty_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic popping an empty stack")
		}
	}()
	NewVM().Pop()
}

func Test_VM_Frames(t *testing.T) {
	vm := NewVM()
	vm.PushFrame(NewFrame("outer", noSpan, "main.ql"))
	vm.PushFrame(NewFrame("inner", noSpan, "main.ql"))
	frames := vm.Frames()
	if len(frames) != 2 || frames[0].Name != "outer" || frames[1].Name != "inner" {
		t.Fatalf("unexpected frames: %#v", frames)
	}
	vm.PopFrame()
	if len(vm.Frames()) != 1 {
		t.Fatalf("want 1 frame after pop, got %d", len(vm.Frames()))
	}
	// Popping past empty is tolerated.
	vm.PopFrame()
	vm.PopFrame()
	if len(vm.Frames()) != 0 {
		t.Fatalf("want empty frame stack")
	}
}

func Test_VM_Stack_Returns_To_Baseline_Per_Statement(t *testing.T) {
	// The session drains intermediate results, so evaluating many
	// statements leaves no residue behind.
	s := NewSession(NewFsLoader(t.TempDir()))
	for i := 0; i < 5; i++ {
		if _, _, err := s.Eval("1 + 1 2 + 2 3 + 3"); err != nil {
			t.Fatalf("eval: %v", err)
		}
	}
	if _, _, err := s.Eval("let x = 0"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	v, display, err := s.Eval("x")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !display {
		t.Fatalf("expected displayable value")
	}
	wantIntVal(t, v, 0)
}
