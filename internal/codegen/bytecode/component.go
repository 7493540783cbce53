package bytecode

import "github.com/nyxlang/nyxc/internal/ast"

// computeComponentLayout lays out a component's props followed by its state
// fields with 4-byte alignment, the same uniform 8-byte-field model
// computeStructLayouts uses (components aren't in types.Table.Structs, so
// this mirrors that function directly over the AST declaration instead).
func computeComponentLayout(c *ast.ComponentDecl) *StructLayout {
	layout := &StructLayout{Offsets: map[string]int{}}
	off := 0
	for _, p := range c.Props {
		layout.Offsets[p.Name] = off
		layout.Order = append(layout.Order, p.Name)
		off = align(off + 8)
	}
	for _, s := range c.State {
		layout.Offsets[s.Name] = off
		layout.Order = append(layout.Order, s.Name)
		off = align(off + 8)
	}
	layout.Size = align(off)
	return layout
}

// compileComponentRender compiles a component's render tree to
// `{Name}_render(self_ptr) -> i32`, per spec.md §4.GW: "Components compile
// to `{Name}_render(self_ptr) → i32` returning a VNode pointer."
func compileComponentRender(gc *genCtx, c *ast.ComponentDecl) {
	la := newLocalAllocator()
	la.declare("self", LocalI64)
	fc := newFnCompiler(gc, la)
	fc.compileExpr(c.Render)
	fc.b.op(OpReturn)
	finalizeFunc(gc, c.Name+"_render", 1, fc)
}
