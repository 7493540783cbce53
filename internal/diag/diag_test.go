package diag

import (
	"strings"
	"testing"

	"github.com/nyxlang/nyxc/internal/source"
)

func span(line int) source.Span {
	pos := source.Position{Line: line, Column: 1}
	return source.Span{StartPos: pos, EndPos: pos}
}

func TestCompileErrorError(t *testing.T) {
	err := &CompileError{
		Kind:    Lex,
		Span:    span(10),
		Message: "unexpected character '~'",
	}
	result := err.Error()
	want := "[lex] 10:1-10:1: unexpected character '~'"
	if result != want {
		t.Errorf("Error() = %q, want %q", result, want)
	}
}

func TestCompileErrorRuntimeHasNoSpan(t *testing.T) {
	err := &CompileError{Kind: Runtime, Message: "division by zero"}
	result := err.Error()
	want := "[runtime] division by zero"
	if result != want {
		t.Errorf("Error() = %q, want %q", result, want)
	}
}

func TestCompileErrorNotesAndRelated(t *testing.T) {
	err := &CompileError{
		Kind:    Effect,
		Span:    span(4),
		Message: "call to IO function from Pure function",
		Notes:   []string{"add `with IO` to the caller's effect clause"},
		Related: []source.Span{span(1)},
	}
	result := err.Error()
	if !strings.Contains(result, "note: add `with IO`") {
		t.Errorf("Error() missing note, got: %s", result)
	}
	if !strings.Contains(result, "related: 1:1-1:1") {
		t.Errorf("Error() missing related span, got: %s", result)
	}
}

func TestErrorListNew(t *testing.T) {
	el := NewErrorList()
	if el == nil {
		t.Fatal("NewErrorList() returned nil")
	}
	if len(el.Errors) != 0 {
		t.Errorf("NewErrorList() Errors length = %d, want 0", len(el.Errors))
	}
}

func TestErrorListAdd(t *testing.T) {
	el := NewErrorList()
	el.Add(Parse, span(5), "expected ':'")

	if len(el.Errors) != 1 {
		t.Fatalf("After Add(), len(Errors) = %d, want 1", len(el.Errors))
	}
	if el.Errors[0].Kind != Parse {
		t.Errorf("Kind = %q, want %q", el.Errors[0].Kind, Parse)
	}
	if el.Errors[0].Message != "expected ':'" {
		t.Errorf("Message = %q, want %q", el.Errors[0].Message, "expected ':'")
	}
}

func TestErrorListHasErrors(t *testing.T) {
	el := NewErrorList()
	if el.HasErrors() {
		t.Error("empty ErrorList should not have errors")
	}
	el.Add(Type, span(1), "mismatched types")
	if !el.HasErrors() {
		t.Error("ErrorList with 1 error should return true for HasErrors()")
	}
}

func TestErrorListString(t *testing.T) {
	el := NewErrorList()
	el.Add(Lex, span(1), "unexpected character")
	el.Add(Parse, span(3), "expected '}'")

	result := el.String()
	if !strings.Contains(result, "[lex]") || !strings.Contains(result, "unexpected character") {
		t.Errorf("String() missing first error, got: %s", result)
	}
	if !strings.Contains(result, "[parse]") || !strings.Contains(result, "expected '}'") {
		t.Errorf("String() missing second error, got: %s", result)
	}
}

func TestErrorListStringEmpty(t *testing.T) {
	el := NewErrorList()
	if result := el.String(); result != "" {
		t.Errorf("empty ErrorList.String() = %q, want %q", result, "")
	}
}
