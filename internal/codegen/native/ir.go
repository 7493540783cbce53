package native

import (
	"fmt"
	"strings"
)

// func builder accumulates one function's textual IR as named SSA
// registers grouped into explicit basic blocks, per spec.md §4.GN
// ("named SSA registers, explicit basic blocks, phi at merge points").
type funcBuilder struct {
	name    string
	params  []string
	blocks  []*block
	cur     *block
	regNo   int
	blockNo int
}

type block struct {
	label string
	lines []string
}

func newFuncBuilder(name string, params []string) *funcBuilder {
	fb := &funcBuilder{name: name, params: params}
	fb.cur = fb.newBlock("entry")
	return fb
}

func (fb *funcBuilder) newBlock(hint string) *block {
	fb.blockNo++
	b := &block{label: fmt.Sprintf("%s%d", hint, fb.blockNo)}
	fb.blocks = append(fb.blocks, b)
	return b
}

func (fb *funcBuilder) switchTo(b *block) {
	fb.cur = b
}

func (fb *funcBuilder) reg() string {
	fb.regNo++
	return fmt.Sprintf("%%r%d", fb.regNo)
}

func (fb *funcBuilder) emitf(format string, args ...interface{}) {
	fb.cur.lines = append(fb.cur.lines, fmt.Sprintf(format, args...))
}

func (fb *funcBuilder) text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s(%s):\n", fb.name, strings.Join(fb.params, ", "))
	for _, blk := range fb.blocks {
		fmt.Fprintf(&b, "%s:\n", blk.label)
		for _, l := range blk.lines {
			fmt.Fprintf(&b, "  %s\n", l)
		}
	}
	return b.String()
}
