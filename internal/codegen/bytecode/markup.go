package bytecode

import "github.com/nyxlang/nyxc/internal/ast"

// compileMarkup lowers one markup element to a 16-byte VNode allocation:
// `[kind=1:4 | tag_ptr:4 | props_ptr:4 | children_ptr:4]`, per spec.md
// §4.GW's markup lowering rule. Children are compiled first (each leaves a
// VNode pointer), then packed into a `[count:4 | child_ptr:4 each]` array;
// attributes are packed into a `[count:4 | (key_ptr:4, value:8) each]`
// props array.
func (fc *fnCompiler) compileMarkup(n *ast.MarkupElement) {
	childPtrs := make([]int, len(n.Children))
	for i, ch := range n.Children {
		fc.compileMarkupChild(ch)
		childPtrs[i] = fc.tmp(LocalI32)
		fc.b.op(OpLocalSet).u32(uint32(childPtrs[i]))
	}
	childrenBase := fc.tmp(LocalI64)
	fc.allocate(4 + len(n.Children)*4)
	fc.b.op(OpLocalSet).u32(uint32(childrenBase))
	fc.b.op(OpLocalGet).u32(uint32(childrenBase))
	fc.b.op(OpConstI32).i64(int64(len(n.Children)))
	fc.b.op(OpStore32)
	for i, slot := range childPtrs {
		fc.b.op(OpLocalGet).u32(uint32(childrenBase))
		fc.b.op(OpConstI32).i64(int64(4 + i*4))
		fc.b.op(OpAdd)
		fc.b.op(OpLocalGet).u32(uint32(slot))
		fc.b.op(OpStore32)
	}

	propsBase := fc.tmp(LocalI64)
	fc.allocate(4 + len(n.Attrs)*12)
	fc.b.op(OpLocalSet).u32(uint32(propsBase))
	fc.b.op(OpLocalGet).u32(uint32(propsBase))
	fc.b.op(OpConstI32).i64(int64(len(n.Attrs)))
	fc.b.op(OpStore32)
	for i, attr := range n.Attrs {
		off := 4 + i*12
		fc.b.op(OpLocalGet).u32(uint32(propsBase))
		fc.b.op(OpConstI32).i64(int64(off))
		fc.b.op(OpAdd)
		keyPtr := fc.gc.mod.Strings.Intern(attr.Name)
		fc.b.op(OpConstI32).i64(int64(keyPtr))
		fc.b.op(OpStore32)
		fc.b.op(OpLocalGet).u32(uint32(propsBase))
		fc.b.op(OpConstI32).i64(int64(off + 4))
		fc.b.op(OpAdd)
		fc.compileExpr(attr.Value)
		fc.b.op(OpStore64)
	}

	tagPtr := fc.gc.mod.Strings.Intern(n.Tag)
	nodeBase := fc.tmp(LocalI64)
	fc.allocate(16)
	fc.b.op(OpLocalSet).u32(uint32(nodeBase))
	fc.b.op(OpLocalGet).u32(uint32(nodeBase))
	fc.b.op(OpConstI32).i64(1)
	fc.b.op(OpStore32)
	fc.b.op(OpLocalGet).u32(uint32(nodeBase))
	fc.b.op(OpConstI32).i64(4)
	fc.b.op(OpAdd)
	fc.b.op(OpConstI32).i64(int64(tagPtr))
	fc.b.op(OpStore32)
	fc.b.op(OpLocalGet).u32(uint32(nodeBase))
	fc.b.op(OpConstI32).i64(8)
	fc.b.op(OpAdd)
	fc.b.op(OpLocalGet).u32(uint32(propsBase))
	fc.b.op(OpStore32)
	fc.b.op(OpLocalGet).u32(uint32(nodeBase))
	fc.b.op(OpConstI32).i64(12)
	fc.b.op(OpAdd)
	fc.b.op(OpLocalGet).u32(uint32(childrenBase))
	fc.b.op(OpStore32)
	fc.b.op(OpLocalGet).u32(uint32(nodeBase))
}

func (fc *fnCompiler) compileMarkupChild(ch ast.MarkupChild) {
	switch n := ch.(type) {
	case *ast.MarkupElement:
		fc.compileMarkup(n)
	case *ast.MarkupText:
		ptr := fc.gc.mod.Strings.Intern(n.Text)
		fc.compileTextVNode(func() { fc.b.op(OpConstI32).i64(int64(ptr)) })
	case *ast.MarkupHole:
		// spec.md: "Expression holes wrap a 64-bit expression result to
		// 32-bit" — the narrowed value is stored in place of a text
		// pointer rather than a real string, an approximation this
		// backend documents (no generic runtime stringify exists at this
		// layer; the interpreter's markup lowering does the real thing).
		holeLocal := fc.tmp(LocalI32)
		fc.compileExpr(n.Expr)
		fc.b.op(OpLocalSet).u32(uint32(holeLocal))
		fc.compileTextVNode(func() { fc.b.op(OpLocalGet).u32(uint32(holeLocal)) })
	}
}

// compileTextVNode allocates a 16-byte text-kind VNode
// `[kind=0:4 | unused:8 | text_value:4]`, where pushValue emits the code
// that leaves the text-field's 32-bit value on the stack.
func (fc *fnCompiler) compileTextVNode(pushValue func()) {
	base := fc.tmp(LocalI64)
	fc.allocate(16)
	fc.b.op(OpLocalSet).u32(uint32(base))
	fc.b.op(OpLocalGet).u32(uint32(base))
	fc.b.op(OpConstI32).i64(0)
	fc.b.op(OpStore32)
	fc.b.op(OpLocalGet).u32(uint32(base))
	fc.b.op(OpConstI32).i64(12)
	fc.b.op(OpAdd)
	pushValue()
	fc.b.op(OpStore32)
	fc.b.op(OpLocalGet).u32(uint32(base))
}
