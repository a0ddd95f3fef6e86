package quill

// OVERVIEW
//
// The native-function bridge. A native is identified by name, a
// positional parameter list (each flagged rest or not), and a Go
// callable. When the last declared parameter is rest-flagged, the
// calling convention packs every trailing positional argument into one
// vector before invoking the callable (see executeNativeFunction).
//
// Every fresh module starts with the default natives registered:
// print, println, exit, abort, and pid.

import (
	"fmt"
	"os"
	"strings"
)

// NativeParam is one declared parameter of a native function.
type NativeParam struct {
	Name   string
	IsRest bool
}

// NativeFunction is a host-provided callable exposed to scripts.
type NativeFunction struct {
	Name   string
	Params []NativeParam
	Func   func(args []Value) (Value, error)
}

func (n *NativeFunction) String() string {
	return fmt.Sprintf("<native fn %s>", n.Name)
}

// defaultNatives returns the natives every module starts with.
func defaultNatives() []*NativeFunction {
	return []*NativeFunction{
		{
			Name:   "print",
			Params: []NativeParam{{Name: "args", IsRest: true}},
			Func: func(args []Value) (Value, error) {
				fmt.Print(joinValues(args))
				return VoidVal(), nil
			},
		},
		{
			Name:   "println",
			Params: []NativeParam{{Name: "args", IsRest: true}},
			Func: func(args []Value) (Value, error) {
				fmt.Println(joinValues(args))
				return VoidVal(), nil
			},
		},
		{
			Name:   "exit",
			Params: []NativeParam{{Name: "status"}},
			Func: func(args []Value) (Value, error) {
				status := 0
				if len(args) > 0 && args[0].IsInt() {
					status = int(args[0].AsInt())
				}
				os.Exit(status)
				return VoidVal(), nil
			},
		},
		{
			Name:   "abort",
			Params: nil,
			Func: func(args []Value) (Value, error) {
				os.Exit(134)
				return VoidVal(), nil
			},
		},
		{
			Name:   "pid",
			Params: nil,
			Func: func(args []Value) (Value, error) {
				return IntVal(int64(os.Getpid())), nil
			},
		},
	}
}

// joinValues renders rest-packed print arguments separated by spaces.
// The rest vector is unwrapped so print(a, b) prints both.
func joinValues(args []Value) string {
	var parts []string
	for _, arg := range args {
		if arg.IsVec() {
			for _, elem := range arg.AsVec().Elems {
				parts = append(parts, elem.String())
			}
			continue
		}
		parts = append(parts, arg.String())
	}
	return strings.Join(parts, " ")
}
