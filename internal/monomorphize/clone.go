package monomorphize

import "github.com/nyxlang/nyxc/internal/ast"

// cloneFunc deep-copies a function declaration so each generic instantiation
// gets an AST it can rewrite (substitute types, rewrite method calls) without
// mutating the template every other instantiation is cloned from.
func cloneFunc(f *ast.FuncDecl) *ast.FuncDecl {
	clone := *f
	clone.Params = cloneParams(f.Params)
	clone.ReturnType = cloneType(f.ReturnType)
	if f.Body != nil {
		clone.Body = cloneBlock(f.Body)
	}
	clone.Generics = append([]string{}, f.Generics...)
	return &clone
}

func cloneParams(ps []*ast.Param) []*ast.Param {
	out := make([]*ast.Param, len(ps))
	for i, p := range ps {
		cp := *p
		cp.Type = cloneType(p.Type)
		out[i] = &cp
	}
	return out
}

func cloneType(t ast.TypeExpr) ast.TypeExpr {
	if t == nil {
		return nil
	}
	switch n := t.(type) {
	case *ast.NamedType:
		c := *n
		return &c
	case *ast.GenericType:
		c := *n
		c.Args = make([]ast.TypeExpr, len(n.Args))
		for i, a := range n.Args {
			c.Args[i] = cloneType(a)
		}
		return &c
	case *ast.ArrayType:
		c := *n
		c.Elem = cloneType(n.Elem)
		return &c
	case *ast.SliceType:
		c := *n
		c.Elem = cloneType(n.Elem)
		return &c
	case *ast.TupleType:
		c := *n
		c.Elems = make([]ast.TypeExpr, len(n.Elems))
		for i, e := range n.Elems {
			c.Elems[i] = cloneType(e)
		}
		return &c
	case *ast.RefType:
		c := *n
		c.Elem = cloneType(n.Elem)
		return &c
	case *ast.FuncType:
		c := *n
		c.Params = make([]ast.TypeExpr, len(n.Params))
		for i, p := range n.Params {
			c.Params[i] = cloneType(p)
		}
		c.Return = cloneType(n.Return)
		return &c
	default:
		return t
	}
}

func cloneBlock(b *ast.Block) *ast.Block {
	if b == nil {
		return nil
	}
	c := *b
	c.Stmts = make([]ast.Statement, len(b.Stmts))
	for i, s := range b.Stmts {
		c.Stmts[i] = cloneStmt(s)
	}
	return &c
}

func cloneVarDecl(v *ast.VarDecl) *ast.VarDecl {
	c := *v
	c.Type = cloneType(v.Type)
	c.Value = cloneExpr(v.Value)
	return &c
}

func cloneStmt(s ast.Statement) ast.Statement {
	switch n := s.(type) {
	case *ast.LetStmt:
		c := *n
		c.Decl = cloneVarDecl(n.Decl)
		return &c
	case *ast.ReturnStmt:
		c := *n
		c.Value = cloneExpr(n.Value)
		return &c
	case *ast.WhileStmt:
		c := *n
		c.Cond = cloneExpr(n.Cond)
		c.Body = cloneBlock(n.Body)
		return &c
	case *ast.ForStmt:
		c := *n
		c.Iter = cloneExpr(n.Iter)
		c.Body = cloneBlock(n.Body)
		return &c
	case *ast.LoopStmt:
		c := *n
		c.Body = cloneBlock(n.Body)
		return &c
	case *ast.BreakStmt:
		c := *n
		return &c
	case *ast.ContinueStmt:
		c := *n
		return &c
	case *ast.ExprStmt:
		c := *n
		c.Expr = cloneExpr(n.Expr)
		return &c
	default:
		return s
	}
}

func cloneExpr(e ast.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.BoolLit, *ast.StringLit, *ast.Ident,
		*ast.BreakExpr, *ast.ContinueExpr:
		return e
	case *ast.FStringLit:
		c := *n
		c.Parts = make([]ast.FStringPart, len(n.Parts))
		for i, part := range n.Parts {
			c.Parts[i] = part
			if part.IsExpr {
				c.Parts[i].Expr = cloneExpr(part.Expr)
			}
		}
		return &c
	case *ast.EnumConstructor:
		c := *n
		c.Args = cloneExprs(n.Args)
		c.Fields = cloneExprMap(n.Fields)
		return &c
	case *ast.StructLit:
		c := *n
		c.Fields = cloneExprMap(n.Fields)
		c.Order = append([]string{}, n.Order...)
		return &c
	case *ast.TupleLit:
		c := *n
		c.Elems = cloneExprs(n.Elems)
		return &c
	case *ast.ArrayLit:
		c := *n
		c.Elems = cloneExprs(n.Elems)
		return &c
	case *ast.IndexExpr:
		c := *n
		c.Collection = cloneExpr(n.Collection)
		c.Index = cloneExpr(n.Index)
		return &c
	case *ast.FieldExpr:
		c := *n
		c.Object = cloneExpr(n.Object)
		return &c
	case *ast.CallExpr:
		c := *n
		c.Callee = cloneExpr(n.Callee)
		c.Args = cloneExprs(n.Args)
		return &c
	case *ast.MethodCallExpr:
		c := *n
		c.Receiver = cloneExpr(n.Receiver)
		c.Args = cloneExprs(n.Args)
		return &c
	case *ast.LambdaExpr:
		c := *n
		c.Params = cloneParams(n.Params)
		c.ReturnType = cloneType(n.ReturnType)
		c.Body = cloneExpr(n.Body)
		return &c
	case *ast.BinaryExpr:
		c := *n
		c.Left = cloneExpr(n.Left)
		c.Right = cloneExpr(n.Right)
		return &c
	case *ast.UnaryExpr:
		c := *n
		c.Operand = cloneExpr(n.Operand)
		return &c
	case *ast.AssignExpr:
		c := *n
		c.Target = cloneExpr(n.Target)
		c.Value = cloneExpr(n.Value)
		return &c
	case *ast.BlockExpr:
		c := *n
		c.Block = cloneBlock(n.Block)
		return &c
	case *ast.IfExpr:
		c := *n
		c.Cond = cloneExpr(n.Cond)
		c.Then = cloneBlock(n.Then)
		if n.ElseIf != nil {
			c.ElseIf = cloneExpr(n.ElseIf).(*ast.IfExpr)
		}
		if n.Else != nil {
			c.Else = cloneBlock(n.Else)
		}
		return &c
	case *ast.MatchExpr:
		c := *n
		c.Scrutinee = cloneExpr(n.Scrutinee)
		c.Arms = make([]*ast.MatchArm, len(n.Arms))
		for i, a := range n.Arms {
			ca := *a
			ca.Guard = cloneExpr(a.Guard)
			ca.Body = cloneExpr(a.Body)
			c.Arms[i] = &ca
		}
		return &c
	case *ast.ReturnExpr:
		c := *n
		c.Value = cloneExpr(n.Value)
		return &c
	case *ast.TryExpr:
		c := *n
		c.Expr = cloneExpr(n.Expr)
		return &c
	case *ast.CastExpr:
		c := *n
		c.Expr = cloneExpr(n.Expr)
		c.Type = cloneType(n.Type)
		return &c
	case *ast.RangeExpr:
		c := *n
		c.Start = cloneExpr(n.Start)
		c.End = cloneExpr(n.End)
		return &c
	case *ast.AwaitExpr:
		c := *n
		c.Expr = cloneExpr(n.Expr)
		return &c
	case *ast.SpawnExpr:
		c := *n
		c.Expr = cloneExpr(n.Expr)
		c.Fields = cloneExprMap(n.Fields)
		return &c
	case *ast.SendExpr:
		c := *n
		c.Target = cloneExpr(n.Target)
		c.Args = cloneExprs(n.Args)
		return &c
	case *ast.MacroCallExpr:
		c := *n
		c.Args = cloneExprs(n.Args)
		return &c
	case *ast.ComptimeExpr:
		c := *n
		c.Inner = cloneExpr(n.Inner)
		return &c
	case *ast.MarkupElement:
		c := *n
		c.Attrs = make([]*ast.MarkupAttr, len(n.Attrs))
		for i, a := range n.Attrs {
			ca := *a
			ca.Value = cloneExpr(a.Value)
			c.Attrs[i] = &ca
		}
		c.Children = make([]ast.MarkupChild, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = cloneMarkupChild(ch)
		}
		return &c
	default:
		return e
	}
}

func cloneMarkupChild(c ast.MarkupChild) ast.MarkupChild {
	switch n := c.(type) {
	case *ast.MarkupElement:
		return cloneExpr(n).(*ast.MarkupElement)
	case *ast.MarkupText:
		cc := *n
		return &cc
	case *ast.MarkupHole:
		cc := *n
		cc.Expr = cloneExpr(n.Expr)
		return &cc
	default:
		return c
	}
}

func cloneExprs(es []ast.Expression) []ast.Expression {
	if es == nil {
		return nil
	}
	out := make([]ast.Expression, len(es))
	for i, e := range es {
		out[i] = cloneExpr(e)
	}
	return out
}

func cloneExprMap(m map[string]ast.Expression) map[string]ast.Expression {
	if m == nil {
		return nil
	}
	out := make(map[string]ast.Expression, len(m))
	for k, v := range m {
		out[k] = cloneExpr(v)
	}
	return out
}
