package interp

import "github.com/nyxlang/nyxc/internal/ast"

func (it *Interpreter) evalMatch(n *ast.MatchExpr, en *Env) *Value {
	scrutinee := it.Eval(n.Scrutinee, en)
	for _, arm := range n.Arms {
		inner := NewEnv(en)
		if it.matchPattern(arm.Pattern, scrutinee, inner) {
			if arm.Guard != nil && !it.Eval(arm.Guard, inner).Truthy() {
				continue
			}
			return it.Eval(arm.Body, inner)
		}
	}
	it.runtimeError("no match arm matched %s", scrutinee)
	return Unit()
}

// matchPattern reports whether pat matches v, binding any names pat
// introduces into en as a side effect.
func (it *Interpreter) matchPattern(pat ast.Pattern, v *Value, en *Env) bool {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return true
	case *ast.BindingPattern:
		en.Define(p.Name, v)
		return true
	case *ast.LiteralPattern:
		return Equal(it.Eval(p.Value, en), v)
	case *ast.TuplePattern:
		if v.Kind != VTuple || len(v.Arr) != len(p.Elems) {
			return false
		}
		for i, ep := range p.Elems {
			if !it.matchPattern(ep, v.Arr[i], en) {
				return false
			}
		}
		return true
	case *ast.SlicePattern:
		if v.Kind != VArray {
			return false
		}
		if p.Rest == "" {
			if len(v.Arr) != len(p.Elems) {
				return false
			}
			for i, ep := range p.Elems {
				if !it.matchPattern(ep, v.Arr[i], en) {
					return false
				}
			}
			return true
		}
		if len(v.Arr) < len(p.Elems) {
			return false
		}
		for i, ep := range p.Elems {
			if !it.matchPattern(ep, v.Arr[i], en) {
				return false
			}
		}
		en.Define(p.Rest, Arr(v.Arr[len(p.Elems):]))
		return true
	case *ast.StructPattern:
		if v.Kind != VStruct || v.Name != p.TypeName {
			return false
		}
		for name, fp := range p.Fields {
			fv, ok := v.Fields[name]
			if !ok || !it.matchPattern(fp, fv, en) {
				return false
			}
		}
		return true
	case *ast.VariantPattern:
		if v.Kind != VVariant {
			return false
		}
		if p.Variant != v.Variant {
			return false
		}
		if p.Enum != "" && p.Enum != v.Name {
			return false
		}
		if p.Fields != nil {
			for name, fp := range p.Fields {
				fv, ok := v.Fields[name]
				if !ok || !it.matchPattern(fp, fv, en) {
					return false
				}
			}
			return true
		}
		if len(p.Elems) != len(v.Payload) {
			return false
		}
		for i, ep := range p.Elems {
			if !it.matchPattern(ep, v.Payload[i], en) {
				return false
			}
		}
		return true
	case *ast.OrPattern:
		for _, alt := range p.Alts {
			if it.matchPattern(alt, v, en) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
