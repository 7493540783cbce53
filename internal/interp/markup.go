package interp

import "github.com/nyxlang/nyxc/internal/ast"

// evalMarkup evaluates a markup element tree into a plain VStruct "VNode"
// value, the interpreter's equivalent of the bytecode backend's in-memory
// VNode layout (spec.md §6): {kind, tag, props, children} for an element, or
// {kind: "text", text} for a reconstructed text run.
func (it *Interpreter) evalMarkup(n *ast.MarkupElement, en *Env) *Value {
	props := map[string]*Value{}
	var propOrder []string
	for _, a := range n.Attrs {
		props[a.Name] = it.Eval(a.Value, en)
		propOrder = append(propOrder, a.Name)
	}
	children := make([]*Value, 0, len(n.Children))
	for _, ch := range n.Children {
		children = append(children, it.evalMarkupChild(ch, en))
	}
	return Struct("VNode", map[string]*Value{
		"kind":     Str("element"),
		"tag":      Str(n.Tag),
		"props":    Struct("Props", props, propOrder),
		"children": Arr(children),
	}, []string{"kind", "tag", "props", "children"})
}

func (it *Interpreter) evalMarkupChild(ch ast.MarkupChild, en *Env) *Value {
	switch n := ch.(type) {
	case *ast.MarkupElement:
		return it.evalMarkup(n, en)
	case *ast.MarkupText:
		return Struct("VNode", map[string]*Value{
			"kind": Str("text"),
			"text": Str(n.Text),
		}, []string{"kind", "text"})
	case *ast.MarkupHole:
		v := it.Eval(n.Expr, en)
		return Struct("VNode", map[string]*Value{
			"kind": Str("text"),
			"text": Str(v.String()),
		}, []string{"kind", "text"})
	default:
		return Unit()
	}
}
