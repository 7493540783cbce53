// Package source holds the position and span types shared by every phase of the
// compiler, from the lexer through the backends.
package source

import "fmt"

// Position is a human-facing location: 1-based line/column plus the byte offset
// it corresponds to.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) into the original source text,
// together with the human-facing start/end positions. Every AST node carries one.
type Span struct {
	Start, End     int
	StartPos       Position
	EndPos         Position
}

// Merge returns the span running from the smaller start to the larger end of a and b.
func Merge(a, b Span) Span {
	m := a
	if b.Start < a.Start {
		m.Start = b.Start
		m.StartPos = b.StartPos
	}
	if b.End > a.End {
		m.End = b.End
		m.EndPos = b.EndPos
	}
	return m
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.StartPos, s.EndPos)
}
