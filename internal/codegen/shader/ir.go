// Package shader is the GS backend: it lowers a shader item to a textual
// SSA intermediate representation, following spec.md §4.GS. The backend
// targets an assembly-like text form (mirroring the GN backend's choice of
// a textual IR over a binary one) rather than any particular real shader
// wire format, since spec.md describes the lowering rules and opcode names
// without mandating a byte layout.
package shader

import (
	"fmt"
	"strings"
)

// builder accumulates one shader module's SSA IR as text, tracking the
// monotonically increasing id counter every `%tN` result name is drawn from.
type builder struct {
	header strings.Builder
	decls  strings.Builder
	body   strings.Builder
	next   int
}

func newBuilder() *builder {
	return &builder{}
}

// id allocates a fresh SSA result name.
func (b *builder) id() string {
	b.next++
	return fmt.Sprintf("%%t%d", b.next)
}

func (b *builder) headerf(format string, args ...interface{}) {
	fmt.Fprintf(&b.header, format+"\n", args...)
}

func (b *builder) declf(format string, args ...interface{}) {
	fmt.Fprintf(&b.decls, format+"\n", args...)
}

func (b *builder) emitf(format string, args ...interface{}) {
	fmt.Fprintf(&b.body, format+"\n", args...)
}

func (b *builder) text() string {
	var out strings.Builder
	out.WriteString(b.header.String())
	out.WriteString(b.decls.String())
	out.WriteString(b.body.String())
	return out.String()
}
