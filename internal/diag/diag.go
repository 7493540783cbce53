// Package diag collects compiler diagnostics across every phase, from lexing
// through codegen, in an accumulate-then-render ErrorList.
package diag

import (
	"fmt"
	"strings"

	"github.com/nyxlang/nyxc/internal/source"
)

// Kind identifies which phase raised a diagnostic.
type Kind string

const (
	Lex     Kind = "lex"
	Parse   Kind = "parse"
	Type    Kind = "type"
	Effect  Kind = "effect"
	Borrow  Kind = "borrow"
	Codegen Kind = "codegen"
	Runtime Kind = "runtime" // carries no span: raised after compilation, during execution
	IO      Kind = "io"
)

// CompileError is a single diagnostic. Span is the zero Span for Runtime and
// IO errors, which have no source location.
type CompileError struct {
	Kind    Kind
	Span    source.Span
	Message string
	Notes   []string
	Related []source.Span
}

func (e *CompileError) Error() string {
	var b strings.Builder
	if e.Kind == Runtime || e.Kind == IO {
		fmt.Fprintf(&b, "[%s] %s", e.Kind, e.Message)
	} else {
		fmt.Fprintf(&b, "[%s] %s: %s", e.Kind, e.Span, e.Message)
	}
	for _, n := range e.Notes {
		fmt.Fprintf(&b, "\n  note: %s", n)
	}
	for _, r := range e.Related {
		fmt.Fprintf(&b, "\n  related: %s", r)
	}
	return b.String()
}

// ErrorList collects multiple diagnostics from a single compile phase or run.
// Per phase, the driver stops at the first non-empty ErrorList (one-error-per-phase
// propagation), but a phase itself may append many errors before returning it.
type ErrorList struct {
	Errors []*CompileError
}

func NewErrorList() *ErrorList {
	return &ErrorList{}
}

// Add appends a diagnostic with no notes or related spans.
func (el *ErrorList) Add(kind Kind, span source.Span, message string) {
	el.Errors = append(el.Errors, &CompileError{Kind: kind, Span: span, Message: message})
}

// AddNote appends a diagnostic carrying extra notes and related spans, used
// by the type and effect checkers to point at a conflicting declaration.
func (el *ErrorList) AddNote(kind Kind, span source.Span, message string, notes []string, related []source.Span) {
	el.Errors = append(el.Errors, &CompileError{
		Kind: kind, Span: span, Message: message, Notes: notes, Related: related,
	})
}

func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

func (el *ErrorList) String() string {
	var b strings.Builder
	for _, e := range el.Errors {
		b.WriteString(e.Error())
		b.WriteByte('\n')
	}
	return b.String()
}
