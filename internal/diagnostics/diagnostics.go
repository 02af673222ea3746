// Package diagnostics defines the error shape shared by every pipeline stage.
//
// Lexer and parser failures become *DiagnosticError values collected on the
// pipeline context; semantic findings become Annotation values attached to the
// responsible AST node. Nothing in the front end ever surfaces a failure as a
// panic or a returned Go error for malformed user input.
package diagnostics

import (
	"fmt"

	"github.com/pclint/pclint/internal/token"
)

// Code identifies a diagnostic class. L = lexical, P = parser, T = type
// system, A = analysis/infrastructure.
type Code string

const (
	ErrL001 Code = "L001" // unterminated string or interpolation
	ErrL002 Code = "L002" // illegal character
	ErrL003 Code = "L003" // malformed numeric literal
	ErrL004 Code = "L004" // unterminated block comment
	ErrL005 Code = "L005" // malformed compiler directive

	ErrP001 Code = "P001" // unexpected token
	ErrP002 Code = "P002" // missing terminator
	ErrP003 Code = "P003" // malformed declaration
	ErrP004 Code = "P004" // malformed expression
	ErrP005 Code = "P005" // stray top-level construct
	ErrP006 Code = "P006" // recursion depth limit exceeded

	ErrT001 Code = "T001" // incompatible assignment
	ErrT002 Code = "T002" // invalid operand type
	ErrT003 Code = "T003" // indexing a non-array value
	ErrT004 Code = "T004" // argument mismatch
	ErrT005 Code = "T005" // unknown member
	ErrT006 Code = "T006" // discarded non-void result

	ErrA001 Code = "A001" // metadata store failure
	ErrA002 Code = "A002" // configuration error
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// DiagnosticError is a stage-level diagnostic with a source location.
type DiagnosticError struct {
	Code     Code
	Span     token.Span
	File     string
	Severity Severity
	Message  string
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func NewError(code Code, span token.Span, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Span: span, Severity: SeverityError, Message: message}
}

func NewWarning(code Code, span token.Span, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Span: span, Severity: SeverityWarning, Message: message}
}

// Annotation is a semantic finding attached to an AST node via its
// annotation slots. Advisory only: attaching one never aborts a pass.
type Annotation struct {
	Code    Code
	Message string
	Span    token.Span
}

func (a *Annotation) String() string {
	return fmt.Sprintf("[%s] %s", a.Code, a.Message)
}

func NewAnnotation(code Code, span token.Span, format string, args ...interface{}) *Annotation {
	return &Annotation{Code: code, Span: span, Message: fmt.Sprintf(format, args...)}
}
