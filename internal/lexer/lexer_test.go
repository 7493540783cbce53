package lexer

import (
	"testing"

	"github.com/nyxlang/nyxc/internal/token"
)

func typesOf(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func assertTypes(t *testing.T, got []token.Type, want []token.Type) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %s, want %s\ngot:  %v\nwant: %v", i, got[i], want[i], got, want)
		}
	}
}

func TestTokenizeSimpleFunction(t *testing.T) {
	src := "fn add(a: Int, b: Int) -> Int with Pure:\n    return a + b\n"
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	want := []token.Type{
		token.FN, token.IDENT, token.LPAREN, token.IDENT, token.COLON, token.IDENT, token.COMMA,
		token.IDENT, token.COLON, token.IDENT, token.RPAREN, token.ARROW, token.IDENT,
		token.WITH, token.IDENT, token.COLON,
		token.NEWLINE, token.INDENT,
		token.RETURN, token.IDENT, token.PLUS, token.IDENT,
		token.NEWLINE, token.DEDENT, token.EOF,
	}
	assertTypes(t, typesOf(toks), want)
}

func TestIndentBalance(t *testing.T) {
	src := "fn f():\n    if true:\n        return 1\n    return 2\n"
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	indents, dedents := 0, 0
	for _, tok := range toks {
		switch tok.Type {
		case token.INDENT:
			indents++
		case token.DEDENT:
			dedents++
		}
	}
	if indents != dedents {
		t.Fatalf("unbalanced indentation: %d indents, %d dedents", indents, dedents)
	}
	if indents != 2 {
		t.Fatalf("expected 2 indent levels, got %d", indents)
	}
}

func TestBlankLinesDoNotAffectIndentation(t *testing.T) {
	src := "fn f():\n    let x = 1\n\n    let y = 2\n"
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	indents, dedents := 0, 0
	for _, tok := range toks {
		switch tok.Type {
		case token.INDENT:
			indents++
		case token.DEDENT:
			dedents++
		}
	}
	if indents != 1 || dedents != 1 {
		t.Fatalf("blank line disturbed indentation: indents=%d dedents=%d", indents, dedents)
	}
}

func TestTwoCharOperators(t *testing.T) {
	src := "a == b != c <= d >= e && f || g :: h -> i => j .. k ... l </ m"
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	var ops []token.Type
	for _, tk := range toks {
		switch tk.Type {
		case token.EQ, token.NOT_EQ, token.LT_EQ, token.GT_EQ, token.AND, token.OR,
			token.COLONCOLON, token.ARROW, token.FATARROW, token.DOTDOT, token.DOTDOTDOT, token.LT_SLASH:
			ops = append(ops, tk.Type)
		}
	}
	want := []token.Type{
		token.EQ, token.NOT_EQ, token.LT_EQ, token.GT_EQ, token.AND, token.OR,
		token.COLONCOLON, token.ARROW, token.FATARROW, token.DOTDOT, token.DOTDOTDOT, token.LT_SLASH,
	}
	assertTypes(t, ops, want)
}

func TestStringAndFString(t *testing.T) {
	toks, err := Tokenize(`"hello" f"hi {name}"`)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if toks[0].Type != token.STRING || toks[0].Literal != "hello" {
		t.Fatalf("got %v, want STRING hello", toks[0])
	}
	if toks[1].Type != token.FSTRING || toks[1].Literal != "hi {name}" {
		t.Fatalf("got %v, want FSTRING 'hi {name}'", toks[1])
	}
}

func TestIllegalCharacter(t *testing.T) {
	_, err := Tokenize("let x = 1 ~ 2\n")
	if err == nil {
		t.Fatal("expected LexError for '~'")
	}
}

func TestUnderscoreSeparatedNumbers(t *testing.T) {
	toks, err := Tokenize("1_000_000 3.14_15")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if toks[0].Type != token.INT || toks[0].Literal != "1_000_000" {
		t.Fatalf("got %v", toks[0])
	}
	if toks[1].Type != token.FLOAT || toks[1].Literal != "3.14_15" {
		t.Fatalf("got %v", toks[1])
	}
}
