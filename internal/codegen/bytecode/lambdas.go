package bytecode

import "github.com/nyxlang/nyxc/internal/ast"

// collectLambdas walks every function body and component render tree in
// first-appearance order, assigning each lambda expression a sequential id
// (spec.md §4.GW's lambda pre-pass: "a second pre-pass collects every lambda
// expression, assigning it a sequential id").
type lambdaCollector struct {
	order []*ast.LambdaExpr
	ids   map[*ast.LambdaExpr]int
}

func newLambdaCollector() *lambdaCollector {
	return &lambdaCollector{ids: map[*ast.LambdaExpr]int{}}
}

func (lc *lambdaCollector) visitBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		lc.visitStmt(s)
	}
}

func (lc *lambdaCollector) visitStmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.LetStmt:
		lc.visitExpr(n.Decl.Value)
	case *ast.WhileStmt:
		lc.visitExpr(n.Cond)
		lc.visitBlock(n.Body)
	case *ast.ForStmt:
		lc.visitExpr(n.Iter)
		lc.visitBlock(n.Body)
	case *ast.LoopStmt:
		lc.visitBlock(n.Body)
	case *ast.ReturnStmt:
		lc.visitExpr(n.Value)
	case *ast.ExprStmt:
		lc.visitExpr(n.Expr)
	}
}

func (lc *lambdaCollector) visitExpr(e ast.Expression) {
	switch n := e.(type) {
	case nil:
	case *ast.LambdaExpr:
		if _, ok := lc.ids[n]; !ok {
			lc.ids[n] = len(lc.order)
			lc.order = append(lc.order, n)
		}
		lc.visitExpr(n.Body)
	case *ast.BlockExpr:
		lc.visitBlock(n.Block)
	case *ast.IfExpr:
		lc.visitExpr(n.Cond)
		lc.visitBlock(n.Then)
		if n.ElseIf != nil {
			lc.visitExpr(n.ElseIf)
		}
		lc.visitBlock(n.Else)
	case *ast.MatchExpr:
		lc.visitExpr(n.Scrutinee)
		for _, arm := range n.Arms {
			lc.visitExpr(arm.Guard)
			lc.visitExpr(arm.Body)
		}
	case *ast.BinaryExpr:
		lc.visitExpr(n.Left)
		lc.visitExpr(n.Right)
	case *ast.UnaryExpr:
		lc.visitExpr(n.Operand)
	case *ast.AssignExpr:
		lc.visitExpr(n.Target)
		lc.visitExpr(n.Value)
	case *ast.CallExpr:
		lc.visitExpr(n.Callee)
		for _, a := range n.Args {
			lc.visitExpr(a)
		}
	case *ast.MethodCallExpr:
		lc.visitExpr(n.Receiver)
		for _, a := range n.Args {
			lc.visitExpr(a)
		}
	case *ast.FieldExpr:
		lc.visitExpr(n.Object)
	case *ast.IndexExpr:
		lc.visitExpr(n.Collection)
		lc.visitExpr(n.Index)
	case *ast.StructLit:
		for _, name := range n.Order {
			lc.visitExpr(n.Fields[name])
		}
	case *ast.EnumConstructor:
		for _, a := range n.Args {
			lc.visitExpr(a)
		}
		for _, v := range n.Fields {
			lc.visitExpr(v)
		}
	case *ast.ArrayLit:
		for _, el := range n.Elems {
			lc.visitExpr(el)
		}
	case *ast.TupleLit:
		for _, el := range n.Elems {
			lc.visitExpr(el)
		}
	case *ast.TryExpr:
		lc.visitExpr(n.Expr)
	case *ast.CastExpr:
		lc.visitExpr(n.Expr)
	case *ast.RangeExpr:
		lc.visitExpr(n.Start)
		lc.visitExpr(n.End)
	case *ast.AwaitExpr:
		lc.visitExpr(n.Expr)
	case *ast.ReturnExpr:
		lc.visitExpr(n.Value)
	case *ast.MacroCallExpr:
		for _, a := range n.Args {
			lc.visitExpr(a)
		}
	case *ast.MarkupElement:
		for _, a := range n.Attrs {
			lc.visitExpr(a.Value)
		}
		for _, ch := range n.Children {
			lc.visitMarkupChild(ch)
		}
	case *ast.FStringLit:
		for _, part := range n.Parts {
			if part.IsExpr {
				lc.visitExpr(part.Expr)
			}
		}
	}
}

func (lc *lambdaCollector) visitMarkupChild(ch ast.MarkupChild) {
	switch n := ch.(type) {
	case *ast.MarkupElement:
		lc.visitExpr(n)
	case *ast.MarkupHole:
		lc.visitExpr(n.Expr)
	}
}
