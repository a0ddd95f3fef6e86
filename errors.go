// errors.go — error taxonomy for the whole pipeline.
//
// Four real error families (lex, parse, resolution, runtime) plus one family
// of control-flow signals. Signals travel on the same error channel as real
// failures so that statement execution has a single unwinding path, but they
// are a distinct type: loop executors intercept break/continue, try/catch
// intercepts throw, and anything that escapes uncaught is converted into a
// user-facing runtime error at the boundary where it escaped.
package quill

import (
	"errors"
	"fmt"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
//                                 LEX ERRORS
////////////////////////////////////////////////////////////////////////////////

type LexErrorKind int

const (
	InvalidToken LexErrorKind = iota
	InvalidEscapeSequence
	UnterminatedString
	UnterminatedChar
)

// LexError always carries a precise one-token span.
type LexError struct {
	Kind LexErrorKind
	Msg  string
	Span TextSpan
}

func (e *LexError) Error() string { return e.Msg }

////////////////////////////////////////////////////////////////////////////////
//                                PARSE ERRORS
////////////////////////////////////////////////////////////////////////////////

type ParseErrorKind int

const (
	ExpectedToken ParseErrorKind = iota
	UnexpectedToken
	MultipleRestParameters
	RestParameterNotLastPosition
	MultipleSelfParameters
	SelfParameterCannotBeRest
	SelfParameterNotFirst
	InvalidTypeName
)

// ParseError carries the offending token's span and an optional hint.
type ParseError struct {
	Kind ParseErrorKind
	Msg  string
	Hint string
	Span TextSpan
}

func (e *ParseError) Error() string { return e.Msg }

////////////////////////////////////////////////////////////////////////////////
//                              RUNTIME ERRORS
////////////////////////////////////////////////////////////////////////////////

type RuntimeErrorKind int

const (
	VariableNotFound RuntimeErrorKind = iota
	FunctionNotFound
	PropertyNotFound
	TypeMismatch
	MissingParameter
	NonBooleanCondition
	IndexOutOfBounds
	InvalidAssignmentTarget
	InvalidSpread
	InvalidStaticAccess
	StructNotFound
	TraitNotFound
	StructAlreadyImplementsTrait
	TraitMethodNotImplemented
	ImportError
	FailedToImportModule
	ModuleNotFound
	FieldAssignmentUnsupported
	BreakOutsideLoop
	ContinueOutsideLoop
)

// RuntimeError pinpoints the responsible expression. HasSpan is false only
// for pure module-resolution I/O failures, which have no source location.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	Msg     string
	Span    TextSpan
	HasSpan bool
	Frames  []Frame
}

func (e *RuntimeError) Error() string { return e.Msg }

func runtimeErr(kind RuntimeErrorKind, span TextSpan, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Kind:    kind,
		Msg:     fmt.Sprintf(format, args...),
		Span:    span,
		HasSpan: true,
	}
}

// spanlessErr builds a resolution error with no source location.
func spanlessErr(kind RuntimeErrorKind, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// errTypeMismatch reports a value of the wrong declared type.
func errTypeMismatch(expected, got string, span TextSpan) *RuntimeError {
	return runtimeErr(TypeMismatch, span, "expected type %s but got %s", expected, got)
}

// errIndexOutOfBounds reports an index past the end of a vector.
func errIndexOutOfBounds(idx, length int, span TextSpan) *RuntimeError {
	return runtimeErr(IndexOutOfBounds, span, "index %d out of bounds for length %d", idx, length)
}

// errTraitMethodNotImplemented lists every missing method name.
func errTraitMethodNotImplemented(trait string, missing []string, span TextSpan) *RuntimeError {
	return runtimeErr(TraitMethodNotImplemented, span,
		"trait %s is not fully implemented, missing methods: %s",
		trait, strings.Join(missing, ", "))
}

////////////////////////////////////////////////////////////////////////////////
//                            CONTROL-FLOW SIGNALS
////////////////////////////////////////////////////////////////////////////////

type signalKind int

const (
	sigBreak signalKind = iota
	sigContinue
	sigThrow
)

// signal is interpreter-internal control flow riding the error channel.
// Value and Frames are set only for sigThrow.
type signal struct {
	kind   signalKind
	span   TextSpan
	value  Value
	frames []Frame
}

func (s *signal) Error() string {
	switch s.kind {
	case sigBreak:
		return "break"
	case sigContinue:
		return "continue"
	default:
		return fmt.Sprintf("thrown: %s", s.value)
	}
}

func breakSignal(span TextSpan) error    { return &signal{kind: sigBreak, span: span} }
func continueSignal(span TextSpan) error { return &signal{kind: sigContinue, span: span} }

func throwSignal(v Value, span TextSpan, frames []Frame) error {
	fs := make([]Frame, len(frames))
	copy(fs, frames)
	return &signal{kind: sigThrow, span: span, value: v, frames: fs}
}

func asSignal(err error) (*signal, bool) {
	var s *signal
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}

// ThrownError is a user-level throw that escaped to the top uncaught. It is
// printed as `error: <value>` followed by one backtrace line per frame.
type ThrownError struct {
	Value  Value
	Span   TextSpan
	Frames []Frame
}

func (e *ThrownError) Error() string { return fmt.Sprintf("error: %s", e.Value) }

// escapedSignal converts a signal that left its legal scope into a real
// user-facing error: break/continue outside a loop, or an uncaught throw.
func escapedSignal(s *signal) error {
	switch s.kind {
	case sigBreak:
		return runtimeErr(BreakOutsideLoop, s.span, "break used outside of a loop")
	case sigContinue:
		return runtimeErr(ContinueOutsideLoop, s.span, "continue used outside of a loop")
	default:
		return &ThrownError{Value: s.value, Span: s.span, Frames: s.frames}
	}
}
