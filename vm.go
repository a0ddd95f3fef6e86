// vm.go — the interpreter's execution stacks.
//
// The VM is two stacks: an operand stack for expression results and a call
// frame stack for diagnostics. Expression evaluation pushes its result onto
// the operand stack rather than returning it; every sub-evaluation pops its
// operands back off. The invariant is that each expression leaves exactly
// one value behind, so stack depth returns to its baseline after every
// statement. Frames exist only for backtraces on thrown errors; they are
// not control flow.
package quill

// Frame is one call-activation record: pushed before a user-defined
// function body runs, popped after — including on error paths.
type Frame struct {
	Name string
	Span TextSpan
	Path string
}

func NewFrame(name string, span TextSpan, path string) Frame {
	return Frame{Name: name, Span: span, Path: path}
}

// VM holds the operand stack and frame stack for one interpretation
// session. A VM is owned exclusively by the goroutine driving
// interpretation; concurrent sessions each get their own.
type VM struct {
	stack  []Value
	frames []Frame
}

func NewVM() *VM {
	return &VM{}
}

// Push places a value on the operand stack.
func (vm *VM) Push(v Value) {
	vm.stack = append(vm.stack, v)
}

// Pop removes and returns the top of the operand stack. Popping an empty
// stack is a bug in the interpreter, not a user error.
func (vm *VM) Pop() Value {
	if len(vm.stack) == 0 {
		panic("vm: pop on empty operand stack")
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

// StackLen reports the operand stack depth.
func (vm *VM) StackLen() int { return len(vm.stack) }

// PushFrame records a call activation.
func (vm *VM) PushFrame(f Frame) {
	vm.frames = append(vm.frames, f)
}

// PopFrame discards the most recent call activation.
func (vm *VM) PopFrame() {
	if len(vm.frames) == 0 {
		return
	}
	vm.frames = vm.frames[:len(vm.frames)-1]
}

// Frames returns the active call activations in push order.
func (vm *VM) Frames() []Frame { return vm.frames }
