package monomorphize

import "github.com/nyxlang/nyxc/internal/ast"
import "github.com/nyxlang/nyxc/internal/types"

// substituteType replaces every Generic-kind leaf in t with its concrete
// binding, recursing through compound kinds. Mirrors the original
// implementation's substitute_type over a ResolvedType.
func substituteType(t *types.Type, subst map[string]*types.Type) *types.Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case types.Generic:
		if c, ok := subst[t.Name]; ok {
			return c
		}
		return t
	case types.Array:
		return &types.Type{Kind: types.Array, Elem: substituteType(t.Elem, subst), Length: t.Length}
	case types.Slice:
		return &types.Type{Kind: types.Slice, Elem: substituteType(t.Elem, subst)}
	case types.Option:
		return &types.Type{Kind: types.Option, Elem: substituteType(t.Elem, subst)}
	case types.Result:
		return &types.Type{Kind: types.Result, Elem: substituteType(t.Elem, subst), ErrElem: substituteType(t.ErrElem, subst)}
	case types.Ref:
		return &types.Type{Kind: types.Ref, Mutable: t.Mutable, Elem: substituteType(t.Elem, subst)}
	case types.Tuple:
		elems := make([]*types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = substituteType(e, subst)
		}
		return &types.Type{Kind: types.Tuple, Elems: elems}
	case types.Func:
		params := make([]*types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = substituteType(p, subst)
		}
		return &types.Type{Kind: types.Func, Params: params, Return: substituteType(t.Return, subst), Effects: t.Effects}
	default:
		return t
	}
}

func substituteTypes(ts []*types.Type, subst map[string]*types.Type) []*types.Type {
	out := make([]*types.Type, len(ts))
	for i, t := range ts {
		out[i] = substituteType(t, subst)
	}
	return out
}

// substituteTypeExpr is substituteType's AST-level counterpart: it rewrites
// a syntactic type annotation so the generated concrete function's source
// reads as if it had been written by hand against the instantiated type,
// matching the original implementation's substitute_type_ast.
func substituteTypeExpr(te ast.TypeExpr, subst map[string]*types.Type) ast.TypeExpr {
	if te == nil {
		return nil
	}
	switch n := te.(type) {
	case *ast.NamedType:
		if t, ok := subst[n.Name]; ok {
			return &ast.NamedType{Name: t.MangleName(), Span: n.Span}
		}
		return n
	case *ast.GenericType:
		for i, a := range n.Args {
			n.Args[i] = substituteTypeExpr(a, subst)
		}
		return n
	case *ast.ArrayType:
		n.Elem = substituteTypeExpr(n.Elem, subst)
		return n
	case *ast.SliceType:
		n.Elem = substituteTypeExpr(n.Elem, subst)
		return n
	case *ast.TupleType:
		for i, e := range n.Elems {
			n.Elems[i] = substituteTypeExpr(e, subst)
		}
		return n
	case *ast.RefType:
		n.Elem = substituteTypeExpr(n.Elem, subst)
		return n
	case *ast.FuncType:
		for i, p := range n.Params {
			n.Params[i] = substituteTypeExpr(p, subst)
		}
		n.Return = substituteTypeExpr(n.Return, subst)
		return n
	default:
		return te
	}
}

// substituteFunc rewrites every type annotation inside a cloned generic
// function's signature and body in place, given the concrete bindings
// inferred at a call site.
func substituteFunc(f *ast.FuncDecl, subst map[string]*types.Type) {
	for _, p := range f.Params {
		p.Type = substituteTypeExpr(p.Type, subst)
	}
	f.ReturnType = substituteTypeExpr(f.ReturnType, subst)
	if f.Body != nil {
		substituteBlock(f.Body, subst)
	}
}

func substituteBlock(b *ast.Block, subst map[string]*types.Type) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		substituteStmt(s, subst)
	}
}

func substituteStmt(s ast.Statement, subst map[string]*types.Type) {
	switch n := s.(type) {
	case *ast.LetStmt:
		n.Decl.Type = substituteTypeExpr(n.Decl.Type, subst)
		substituteExprTypes(n.Decl.Value, subst)
	case *ast.ReturnStmt:
		substituteExprTypes(n.Value, subst)
	case *ast.WhileStmt:
		substituteExprTypes(n.Cond, subst)
		substituteBlock(n.Body, subst)
	case *ast.ForStmt:
		substituteExprTypes(n.Iter, subst)
		substituteBlock(n.Body, subst)
	case *ast.LoopStmt:
		substituteBlock(n.Body, subst)
	case *ast.ExprStmt:
		substituteExprTypes(n.Expr, subst)
	}
}

// substituteExprTypes walks an expression tree rewriting any type
// annotations nested inside it (casts, lambda signatures); it never changes
// an expression's own shape, only Type-typed fields reachable from it.
func substituteExprTypes(e ast.Expression, subst map[string]*types.Type) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.FStringLit:
		for _, part := range n.Parts {
			if part.IsExpr {
				substituteExprTypes(part.Expr, subst)
			}
		}
	case *ast.EnumConstructor:
		for _, a := range n.Args {
			substituteExprTypes(a, subst)
		}
		for _, v := range n.Fields {
			substituteExprTypes(v, subst)
		}
	case *ast.StructLit:
		for _, v := range n.Fields {
			substituteExprTypes(v, subst)
		}
	case *ast.TupleLit:
		for _, el := range n.Elems {
			substituteExprTypes(el, subst)
		}
	case *ast.ArrayLit:
		for _, el := range n.Elems {
			substituteExprTypes(el, subst)
		}
	case *ast.IndexExpr:
		substituteExprTypes(n.Collection, subst)
		substituteExprTypes(n.Index, subst)
	case *ast.FieldExpr:
		substituteExprTypes(n.Object, subst)
	case *ast.CallExpr:
		substituteExprTypes(n.Callee, subst)
		for _, a := range n.Args {
			substituteExprTypes(a, subst)
		}
	case *ast.MethodCallExpr:
		substituteExprTypes(n.Receiver, subst)
		for _, a := range n.Args {
			substituteExprTypes(a, subst)
		}
	case *ast.LambdaExpr:
		for _, p := range n.Params {
			p.Type = substituteTypeExpr(p.Type, subst)
		}
		n.ReturnType = substituteTypeExpr(n.ReturnType, subst)
		substituteExprTypes(n.Body, subst)
	case *ast.BinaryExpr:
		substituteExprTypes(n.Left, subst)
		substituteExprTypes(n.Right, subst)
	case *ast.UnaryExpr:
		substituteExprTypes(n.Operand, subst)
	case *ast.AssignExpr:
		substituteExprTypes(n.Target, subst)
		substituteExprTypes(n.Value, subst)
	case *ast.BlockExpr:
		substituteBlock(n.Block, subst)
	case *ast.IfExpr:
		substituteExprTypes(n.Cond, subst)
		substituteBlock(n.Then, subst)
		if n.ElseIf != nil {
			substituteExprTypes(n.ElseIf, subst)
		}
		if n.Else != nil {
			substituteBlock(n.Else, subst)
		}
	case *ast.MatchExpr:
		substituteExprTypes(n.Scrutinee, subst)
		for _, a := range n.Arms {
			substituteExprTypes(a.Guard, subst)
			substituteExprTypes(a.Body, subst)
		}
	case *ast.ReturnExpr:
		substituteExprTypes(n.Value, subst)
	case *ast.TryExpr:
		substituteExprTypes(n.Expr, subst)
	case *ast.CastExpr:
		substituteExprTypes(n.Expr, subst)
		n.Type = substituteTypeExpr(n.Type, subst)
	case *ast.RangeExpr:
		substituteExprTypes(n.Start, subst)
		substituteExprTypes(n.End, subst)
	case *ast.AwaitExpr:
		substituteExprTypes(n.Expr, subst)
	case *ast.SpawnExpr:
		substituteExprTypes(n.Expr, subst)
		for _, v := range n.Fields {
			substituteExprTypes(v, subst)
		}
	case *ast.SendExpr:
		substituteExprTypes(n.Target, subst)
		for _, a := range n.Args {
			substituteExprTypes(a, subst)
		}
	case *ast.MacroCallExpr:
		for _, a := range n.Args {
			substituteExprTypes(a, subst)
		}
	case *ast.ComptimeExpr:
		substituteExprTypes(n.Inner, subst)
	case *ast.MarkupElement:
		for _, a := range n.Attrs {
			substituteExprTypes(a.Value, subst)
		}
		for _, ch := range n.Children {
			if el, ok := ch.(*ast.MarkupElement); ok {
				substituteExprTypes(el, subst)
			} else if hole, ok := ch.(*ast.MarkupHole); ok {
				substituteExprTypes(hole.Expr, subst)
			}
		}
	}
}
