package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// SourceError is the interface implemented by all lockjs compiler errors.
type SourceError interface {
	error
	Pos() Position
	Kind() string // "Syntax" or "Transform"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error
}

// SyntaxError represents an error during lexing or parsing, including the
// structural sigil errors (unbalanced delimiter families, a sigil in an
// unsupported position).
type SyntaxError struct {
	Position
	Msg   string
	Cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Unwrap() error   { return e.Cause }
func (e *SyntaxError) CausedBy(cause error) *SyntaxError {
	e.Cause = cause
	return e
}

// TransformError represents a structural error detected while classifying or
// desugaring the extended AST. These are compile-time diagnostics; they are
// never emitted into the generated program.
type TransformError struct {
	Position
	Msg   string
	Cause error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("Transform Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *TransformError) Pos() Position   { return e.Position }
func (e *TransformError) Kind() string    { return "Transform" }
func (e *TransformError) Message() string { return e.Msg }
func (e *TransformError) Unwrap() error   { return e.Cause }
func (e *TransformError) CausedBy(cause error) *TransformError {
	e.Cause = cause
	return e
}

// --- Error Reporting ---

var (
	headerColor = color.New(color.FgRed, color.Bold)
	markerColor = color.New(color.FgYellow)
)

// DisplayErrors pretty-prints a list of errors to w, including the offending
// source line and a caret marker. Color is controlled by the global
// color.NoColor flag (the CLI wires --no-color to it).
func DisplayErrors(w io.Writer, src string, errs []SourceError) {
	if len(errs) == 0 {
		return
	}

	lines := strings.Split(src, "\n")

	for _, err := range errs {
		pos := err.Pos()

		headerColor.Fprintf(w, "%s Error", err.Kind())
		fmt.Fprintf(w, " at %d:%d: %s\n", pos.Line, pos.Column, err.Message())

		lineIdx := pos.Line - 1
		if lineIdx < 0 || lineIdx >= len(lines) {
			fmt.Fprintln(w)
			continue
		}

		sourceLine := strings.TrimRight(lines[lineIdx], "\r\n\t ")
		fmt.Fprintf(w, "  %s\n", sourceLine)

		col := pos.Column - 1
		if col < 0 {
			col = 0
		}
		markerColor.Fprintf(w, "  %s^\n", strings.Repeat(" ", col))
		fmt.Fprintln(w)
	}
}
