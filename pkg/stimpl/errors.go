package stimpl

import (
	"errors"
	"fmt"
)

// SourceLocation represents a location in a program document
type SourceLocation struct {
	Filename string
	Line     int
	Column   int
}

func (loc *SourceLocation) String() string {
	if loc == nil {
		return ""
	}
	if loc.Filename == "" {
		return fmt.Sprintf("%d:%d", loc.Line, loc.Column)
	}
	return fmt.Sprintf("%s:%d:%d", loc.Filename, loc.Line, loc.Column)
}

// ErrorKind discriminates the three ways an evaluation can fail.
type ErrorKind int

const (
	// SyntaxErrorKind covers unhandled nodes and reads of unbound names.
	SyntaxErrorKind ErrorKind = iota
	// TypeErrorKind covers operand, condition and rebinding type violations.
	TypeErrorKind
	// MathErrorKind covers division by zero.
	MathErrorKind
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxErrorKind:
		return "syntax error"
	case TypeErrorKind:
		return "type error"
	case MathErrorKind:
		return "math error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinels for errors.Is.
var (
	ErrSyntax = errors.New("syntax error")
	ErrType   = errors.New("type error")
	ErrMath   = errors.New("math error")
)

// EvalError aborts an evaluation. No result accompanies it.
type EvalError struct {
	Kind     ErrorKind
	Message  string
	Location *SourceLocation
}

func (e *EvalError) Error() string {
	if e.Location != nil {
		return fmt.Sprintf("%s: %s: %s", e.Location, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *EvalError) Is(target error) bool {
	switch target {
	case ErrSyntax:
		return e.Kind == SyntaxErrorKind
	case ErrType:
		return e.Kind == TypeErrorKind
	case ErrMath:
		return e.Kind == MathErrorKind
	}
	return false
}

func newEvalError(kind ErrorKind, node Node, format string, args ...any) *EvalError {
	var loc *SourceLocation
	if node != nil {
		loc = node.GetSourceLocation()
	}
	return &EvalError{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}
}

func syntaxError(node Node, format string, args ...any) error {
	return newEvalError(SyntaxErrorKind, node, format, args...)
}

func typeError(node Node, format string, args ...any) error {
	return newEvalError(TypeErrorKind, node, format, args...)
}

func mathError(node Node, format string, args ...any) error {
	return newEvalError(MathErrorKind, node, format, args...)
}
