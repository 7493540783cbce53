package types

import "github.com/nyxlang/nyxc/internal/ast"

var builtinNames = map[string]func() *Type{
	"Unit":   UnitType,
	"Bool":   BoolType,
	"Int":    IntType,
	"Float":  FloatType,
	"String": StringType,
	"Char":   CharType,
	"Never":  NeverType,
}

// ResolveTypeExpr turns a syntactic type annotation into a resolved Type.
// Per spec.md §4.T: a single-uppercase-letter name ("T") or a name starting
// with "_" ("_Elem") resolves to a generic placeholder; otherwise the name
// falls through to a lookup in the struct/enum/alias table, defaulting to a
// named struct reference (possibly Unknown) if nothing is registered yet.
func ResolveTypeExpr(te ast.TypeExpr, table *Table) *Type {
	if te == nil {
		return UnitType()
	}
	switch n := te.(type) {
	case *ast.NamedType:
		if b, ok := builtinNames[n.Name]; ok {
			return b()
		}
		if isGenericName(n.Name) {
			return GenericType(n.Name)
		}
		if rt := table.Lookup(n.Name); rt != nil {
			return rt
		}
		return &Type{Kind: Struct, Name: n.Name}
	case *ast.GenericType:
		// Sampler2D and vector/matrix shader types arrive as generic-looking
		// names with no args in practice; treat the base name the same as a
		// NamedType and ignore type arguments the core does not specialize on.
		if b, ok := builtinNames[n.Name]; ok {
			return b()
		}
		if rt := table.Lookup(n.Name); rt != nil {
			return rt
		}
		return &Type{Kind: Struct, Name: n.Name}
	case *ast.ArrayType:
		return &Type{Kind: Array, Elem: ResolveTypeExpr(n.Elem, table), Length: n.Length}
	case *ast.SliceType:
		return &Type{Kind: Slice, Elem: ResolveTypeExpr(n.Elem, table)}
	case *ast.TupleType:
		elems := make([]*Type, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = ResolveTypeExpr(e, table)
		}
		return &Type{Kind: Tuple, Elems: elems}
	case *ast.RefType:
		return &Type{Kind: Ref, Mutable: n.Mutable, Elem: ResolveTypeExpr(n.Elem, table)}
	case *ast.FuncType:
		params := make([]*Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = ResolveTypeExpr(p, table)
		}
		return &Type{
			Kind: Func, Params: params, Return: ResolveTypeExpr(n.Return, table),
			Effects: NewEffectSet(n.Effects...),
		}
	default:
		return UnknownType()
	}
}

func isGenericName(name string) bool {
	if len(name) == 0 {
		return false
	}
	if name[0] == '_' {
		return true
	}
	return len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z'
}

// ResolveParams resolves a parameter list into its types, skipping the
// implicit "self" receiver parameter methods carry (callers that need the
// receiver type substitute it in separately, as the impl-flattening pass
// does).
func ResolveParams(params []*ast.Param, table *Table) []*Type {
	out := make([]*Type, 0, len(params))
	for _, p := range params {
		if p.Name == "self" {
			continue
		}
		out = append(out, ResolveTypeExpr(p.Type, table))
	}
	return out
}
