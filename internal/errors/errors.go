// Package errors provides error formatting for the lowering engine. It
// formats errors with source context, line/column information, and a
// caret pointing at the offending position.
package errors

import (
	"fmt"
	"strings"

	"github.com/go-cc/irgen/internal/token"
)

// Kind classifies a lowering error per the five kinds the engine recognizes.
type Kind int

const (
	// UnknownIdentifier: an expression references a name with no binding
	// in any enclosing scope.
	UnknownIdentifier Kind = iota
	// TypeMismatch: operand types not permitted for an operator after the
	// usual conversions; incompatible aggregate assignment; struct
	// redefinition.
	TypeMismatch
	// UnsupportedConstruct: the parser accepted a form this engine does
	// not implement (_Atomic, bit-fields in codegen, VLAs, ...).
	UnsupportedConstruct
	// BadConstantExpression: a non-constant operand appeared where a
	// constant expression was required.
	BadConstantExpression
	// MalformedControlFlow: break/continue outside a loop or switch, or
	// an unresolved goto label.
	MalformedControlFlow
)

func (k Kind) String() string {
	switch k {
	case UnknownIdentifier:
		return "unknown identifier"
	case TypeMismatch:
		return "type mismatch"
	case UnsupportedConstruct:
		return "unsupported construct"
	case BadConstantExpression:
		return "bad constant expression"
	case MalformedControlFlow:
		return "malformed control flow"
	default:
		return "error"
	}
}

// LowerError is a single fatal error raised during AST->IR lowering.
// Lowering aborts the translation unit on the first one raised.
type LowerError struct {
	Kind    Kind
	Pos     token.Position
	Message string
	Source  string // optional: full source text, for excerpt rendering
}

// New creates a LowerError. Source may be empty when no excerpt is available.
func New(kind Kind, pos token.Position, source string, format string, args ...any) *LowerError {
	return &LowerError{
		Kind:    kind,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Source:  source,
	}
}

// Error implements the error interface.
func (e *LowerError) Error() string {
	return e.Format(false)
}

// Format renders the error with a source excerpt and caret, matching the
// shape the rest of this toolchain uses for diagnostics. If color is true,
// ANSI codes highlight the caret and message.
func (e *LowerError) Format(color bool) string {
	var sb strings.Builder

	if e.Pos.File != "" {
		fmt.Fprintf(&sb, "error in %s:%d:%d: %s\n", e.Pos.File, e.Pos.Line, e.Pos.Column, e.Kind)
	} else {
		fmt.Fprintf(&sb, "error at %d:%d: %s\n", e.Pos.Line, e.Pos.Column, e.Kind)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+max0(e.Pos.Column-1)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (e *LowerError) sourceLine(n int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
