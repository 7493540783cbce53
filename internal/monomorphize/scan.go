package monomorphize

import (
	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/mangle"
	"github.com/nyxlang/nyxc/internal/types"
)

// scanBlock walks a function body rewriting generic call sites to their
// concrete instantiation and method calls to their flattened free-function
// form, in place. This is the normal (non-async) half of spec.md §4.M.
func (c *ctx) scanBlock(b *ast.Block, en *env) *ast.Block {
	if b == nil {
		return nil
	}
	inner := newEnv(en)
	for i, s := range b.Stmts {
		b.Stmts[i] = c.scanStmt(s, inner)
	}
	return b
}

func (c *ctx) scanStmt(s ast.Statement, en *env) ast.Statement {
	switch n := s.(type) {
	case *ast.LetStmt:
		n.Decl.Value = c.scanExpr(n.Decl.Value, en)
		if n.Decl.Type != nil {
			en.define(n.Decl.Name, types.ResolveTypeExpr(n.Decl.Type, c.table))
		} else {
			en.define(n.Decl.Name, c.inferType(n.Decl.Value, en))
		}
		return n
	case *ast.ReturnStmt:
		n.Value = c.scanExpr(n.Value, en)
		return n
	case *ast.WhileStmt:
		n.Cond = c.scanExpr(n.Cond, en)
		n.Body = c.scanBlock(n.Body, en)
		return n
	case *ast.ForStmt:
		n.Iter = c.scanExpr(n.Iter, en)
		inner := newEnv(en)
		iterTy := c.inferType(n.Iter, en)
		if iterTy != nil && iterTy.Elem != nil {
			inner.define(n.Name, iterTy.Elem)
		} else {
			inner.define(n.Name, types.UnknownType())
		}
		for i, st := range n.Body.Stmts {
			n.Body.Stmts[i] = c.scanStmt(st, inner)
		}
		return n
	case *ast.LoopStmt:
		n.Body = c.scanBlock(n.Body, en)
		return n
	case *ast.ExprStmt:
		n.Expr = c.scanExpr(n.Expr, en)
		return n
	default:
		return s
	}
}

// scanExpr rewrites e in place and returns its (possibly new) replacement;
// callers must always reassign the result, since a MethodCallExpr is
// replaced wholesale by the CallExpr it dispatches to.
func (c *ctx) scanExpr(e ast.Expression, en *env) ast.Expression {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.FStringLit:
		for i, part := range n.Parts {
			if part.IsExpr {
				n.Parts[i].Expr = c.scanExpr(part.Expr, en)
			}
		}
		return n
	case *ast.EnumConstructor:
		for i, a := range n.Args {
			n.Args[i] = c.scanExpr(a, en)
		}
		for k, v := range n.Fields {
			n.Fields[k] = c.scanExpr(v, en)
		}
		return n
	case *ast.StructLit:
		for k, v := range n.Fields {
			n.Fields[k] = c.scanExpr(v, en)
		}
		return n
	case *ast.TupleLit:
		for i, el := range n.Elems {
			n.Elems[i] = c.scanExpr(el, en)
		}
		return n
	case *ast.ArrayLit:
		for i, el := range n.Elems {
			n.Elems[i] = c.scanExpr(el, en)
		}
		return n
	case *ast.IndexExpr:
		n.Collection = c.scanExpr(n.Collection, en)
		n.Index = c.scanExpr(n.Index, en)
		return n
	case *ast.FieldExpr:
		n.Object = c.scanExpr(n.Object, en)
		return n
	case *ast.CallExpr:
		for i, a := range n.Args {
			n.Args[i] = c.scanExpr(a, en)
		}
		if id, ok := n.Callee.(*ast.Ident); ok {
			if _, isGeneric := c.generics[id.Name]; isGeneric {
				inferred := make([]*types.Type, len(n.Args))
				for i, a := range n.Args {
					inferred[i] = c.inferType(a, en)
				}
				if inst := c.instantiateGeneric(id.Name, inferred, n.Span); inst != nil {
					n.Callee = &ast.Ident{Name: inst.Name, Span: id.Span}
				}
			}
		} else {
			n.Callee = c.scanExpr(n.Callee, en)
		}
		return n
	case *ast.MethodCallExpr:
		n.Receiver = c.scanExpr(n.Receiver, en)
		for i, a := range n.Args {
			n.Args[i] = c.scanExpr(a, en)
		}
		recvType := c.inferType(n.Receiver, en)
		if recvType != nil && recvType.Name != "" && recvType.Kind != types.Generic {
			mangled := mangle.Method(recvType.Name, n.Method)
			args := append([]ast.Expression{n.Receiver}, n.Args...)
			return &ast.CallExpr{Callee: &ast.Ident{Name: mangled, Span: n.Span}, Args: args, Span: n.Span}
		}
		return n
	case *ast.LambdaExpr:
		inner := newEnv(en)
		for _, p := range n.Params {
			if p.Type != nil {
				inner.define(p.Name, types.ResolveTypeExpr(p.Type, c.table))
			} else {
				inner.define(p.Name, types.UnknownType())
			}
		}
		n.Body = c.scanExpr(n.Body, inner)
		return n
	case *ast.BinaryExpr:
		n.Left = c.scanExpr(n.Left, en)
		n.Right = c.scanExpr(n.Right, en)
		return n
	case *ast.UnaryExpr:
		n.Operand = c.scanExpr(n.Operand, en)
		return n
	case *ast.AssignExpr:
		n.Target = c.scanExpr(n.Target, en)
		n.Value = c.scanExpr(n.Value, en)
		return n
	case *ast.BlockExpr:
		n.Block = c.scanBlock(n.Block, en)
		return n
	case *ast.IfExpr:
		n.Cond = c.scanExpr(n.Cond, en)
		n.Then = c.scanBlock(n.Then, en)
		if n.ElseIf != nil {
			n.ElseIf = c.scanExpr(n.ElseIf, en).(*ast.IfExpr)
		}
		if n.Else != nil {
			n.Else = c.scanBlock(n.Else, en)
		}
		return n
	case *ast.MatchExpr:
		n.Scrutinee = c.scanExpr(n.Scrutinee, en)
		for _, arm := range n.Arms {
			inner := newEnv(en)
			if arm.Guard != nil {
				arm.Guard = c.scanExpr(arm.Guard, inner)
			}
			arm.Body = c.scanExpr(arm.Body, inner)
		}
		return n
	case *ast.ReturnExpr:
		n.Value = c.scanExpr(n.Value, en)
		return n
	case *ast.TryExpr:
		n.Expr = c.scanExpr(n.Expr, en)
		return n
	case *ast.CastExpr:
		n.Expr = c.scanExpr(n.Expr, en)
		return n
	case *ast.RangeExpr:
		n.Start = c.scanExpr(n.Start, en)
		n.End = c.scanExpr(n.End, en)
		return n
	case *ast.AwaitExpr:
		n.Expr = c.scanExpr(n.Expr, en)
		return n
	case *ast.SpawnExpr:
		if n.Expr != nil {
			n.Expr = c.scanExpr(n.Expr, en)
		}
		for k, v := range n.Fields {
			n.Fields[k] = c.scanExpr(v, en)
		}
		return n
	case *ast.SendExpr:
		n.Target = c.scanExpr(n.Target, en)
		for i, a := range n.Args {
			n.Args[i] = c.scanExpr(a, en)
		}
		return n
	case *ast.MacroCallExpr:
		for i, a := range n.Args {
			n.Args[i] = c.scanExpr(a, en)
		}
		return n
	case *ast.ComptimeExpr:
		n.Inner = c.scanExpr(n.Inner, en)
		return n
	case *ast.MarkupElement:
		for _, a := range n.Attrs {
			a.Value = c.scanExpr(a.Value, en)
		}
		for i, ch := range n.Children {
			n.Children[i] = c.scanMarkupChild(ch, en)
		}
		return n
	default:
		return e
	}
}

func (c *ctx) scanMarkupChild(ch ast.MarkupChild, en *env) ast.MarkupChild {
	switch n := ch.(type) {
	case *ast.MarkupElement:
		return c.scanExpr(n, en).(*ast.MarkupElement)
	case *ast.MarkupHole:
		n.Expr = c.scanExpr(n.Expr, en)
		return n
	default:
		return ch
	}
}
