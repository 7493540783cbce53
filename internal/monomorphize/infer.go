package monomorphize

import "github.com/nyxlang/nyxc/internal/ast"
import "github.com/nyxlang/nyxc/internal/types"

// env is a lexical scope chain mirroring the checker's scope, except it
// carries a resolved type per name instead of a bare presence flag: the
// monomorphizer needs argument types to unify against a generic function's
// formal parameters and to resolve a method call's receiver type.
type env struct {
	vars   map[string]*types.Type
	parent *env
}

func newEnv(parent *env) *env { return &env{vars: map[string]*types.Type{}, parent: parent} }

func (e *env) define(name string, t *types.Type) {
	if name != "" && name != "_" {
		e.vars[name] = t
	}
}

func (e *env) lookup(name string) *types.Type {
	for s := e; s != nil; s = s.parent {
		if t, ok := s.vars[name]; ok {
			return t
		}
	}
	return nil
}

// inferType approximates an expression's type well enough to drive generic
// argument unification and method-receiver dispatch. It mirrors spec.md
// §4.M's deliberately light algorithm: identifier lookups via env, literals
// to their obvious types, struct literals to their named type, field access
// via the object's field table, method calls left Unknown, and calls to
// known functions (instantiating generics on demand) via their return type.
func (c *ctx) inferType(e ast.Expression, en *env) *types.Type {
	switch n := e.(type) {
	case nil:
		return types.UnknownType()
	case *ast.IntLit:
		return types.IntType()
	case *ast.FloatLit:
		return types.FloatType()
	case *ast.BoolLit:
		return types.BoolType()
	case *ast.StringLit, *ast.FStringLit:
		return types.StringType()
	case *ast.Ident:
		if t := en.lookup(n.Name); t != nil {
			return t
		}
		return types.UnknownType()
	case *ast.StructLit:
		if t := c.table.Lookup(n.TypeName); t != nil {
			return t
		}
		return &types.Type{Kind: types.Struct, Name: n.TypeName}
	case *ast.EnumConstructor:
		if t := c.table.Enums[n.Enum]; t != nil {
			return t
		}
		return &types.Type{Kind: types.Enum, Name: n.Enum}
	case *ast.TupleLit:
		elems := make([]*types.Type, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = c.inferType(el, en)
		}
		return &types.Type{Kind: types.Tuple, Elems: elems}
	case *ast.ArrayLit:
		var elem *types.Type
		if len(n.Elems) > 0 {
			elem = c.inferType(n.Elems[0], en)
		} else {
			elem = types.UnknownType()
		}
		return &types.Type{Kind: types.Array, Elem: elem, Length: len(n.Elems)}
	case *ast.IndexExpr:
		col := c.inferType(n.Collection, en)
		if col != nil && (col.Kind == types.Array || col.Kind == types.Slice) {
			return col.Elem
		}
		return types.UnknownType()
	case *ast.FieldExpr:
		obj := c.inferType(n.Object, en)
		if obj != nil && obj.Fields != nil {
			if ft, ok := obj.Fields[n.Field]; ok {
				return ft
			}
		}
		return types.UnknownType()
	case *ast.CallExpr:
		if id, ok := n.Callee.(*ast.Ident); ok {
			if _, isGeneric := c.generics[id.Name]; isGeneric {
				argTypes := make([]*types.Type, len(n.Args))
				for i, a := range n.Args {
					argTypes[i] = c.inferType(a, en)
				}
				if inst := c.instantiateGeneric(id.Name, argTypes, n.Span); inst != nil {
					return inst.ResolvedType.Return
				}
				return types.UnknownType()
			}
			if f, ok := c.byName[id.Name]; ok && f.ResolvedType != nil {
				return f.ResolvedType.Return
			}
			if info, ok := c.checked.Funcs[id.Name]; ok {
				return info.Type.Return
			}
		}
		return types.UnknownType()
	case *ast.CastExpr:
		return types.ResolveTypeExpr(n.Type, c.table)
	case *ast.RangeExpr:
		return &types.Type{Kind: types.Slice, Elem: types.IntType()}
	case *ast.UnaryExpr:
		return c.inferType(n.Operand, en)
	case *ast.BinaryExpr:
		switch n.Op {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			return types.BoolType()
		default:
			return c.inferType(n.Left, en)
		}
	default:
		// MethodCallExpr, lambdas, blocks, matches and everything else
		// deliberately stay Unknown: method calls are the one syntactic
		// form this pass recovers no type for from local inference alone.
		return types.UnknownType()
	}
}
