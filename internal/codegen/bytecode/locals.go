package bytecode

import "github.com/nyxlang/nyxc/internal/ast"

// localAllocator assigns every pre-declared local a stable slot index in
// declaration order, following spec.md §4.GW's locals pre-allocation rule.
type localAllocator struct {
	idx   map[string]int
	types []LocalType
}

func newLocalAllocator() *localAllocator {
	return &localAllocator{idx: map[string]int{}}
}

func (la *localAllocator) declare(name string, lt LocalType) int {
	if i, ok := la.idx[name]; ok {
		return i
	}
	i := len(la.types)
	la.idx[name] = i
	la.types = append(la.types, lt)
	return i
}

func (la *localAllocator) lookup(name string) (int, bool) {
	i, ok := la.idx[name]
	return i, ok
}

// preallocLocals scans every let, for, loop, and while in a function body
// (including those nested inside if/match arm bodies) and pre-declares a
// typed local for each bound name before a single instruction is emitted.
func preallocLocals(params []*ast.Param, body *ast.Block) *localAllocator {
	la := newLocalAllocator()
	for _, p := range params {
		la.declare(p.Name, LocalI64)
	}
	scanBlockLocals(body, la)
	return la
}

func scanBlockLocals(b *ast.Block, la *localAllocator) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		scanStmtLocals(s, la)
	}
}

func scanStmtLocals(s ast.Statement, la *localAllocator) {
	switch n := s.(type) {
	case *ast.LetStmt:
		la.declare(n.Decl.Name, inferLocalType(n.Decl.Value))
		scanExprLocals(n.Decl.Value, la)
	case *ast.WhileStmt:
		scanExprLocals(n.Cond, la)
		scanBlockLocals(n.Body, la)
	case *ast.ForStmt:
		la.declare(n.Name, LocalI64)
		scanExprLocals(n.Iter, la)
		scanBlockLocals(n.Body, la)
	case *ast.LoopStmt:
		scanBlockLocals(n.Body, la)
	case *ast.ReturnStmt:
		scanExprLocals(n.Value, la)
	case *ast.ExprStmt:
		scanExprLocals(n.Expr, la)
	}
}

// scanExprLocals descends into every nested block so a for-loop buried in a
// match arm or an if-branch still gets its locals pre-declared.
func scanExprLocals(e ast.Expression, la *localAllocator) {
	switch n := e.(type) {
	case nil:
	case *ast.BlockExpr:
		scanBlockLocals(n.Block, la)
	case *ast.IfExpr:
		scanExprLocals(n.Cond, la)
		scanBlockLocals(n.Then, la)
		if n.ElseIf != nil {
			scanExprLocals(n.ElseIf, la)
		}
		scanBlockLocals(n.Else, la)
	case *ast.MatchExpr:
		scanExprLocals(n.Scrutinee, la)
		for _, arm := range n.Arms {
			scanExprLocals(arm.Guard, la)
			scanExprLocals(arm.Body, la)
		}
	case *ast.BinaryExpr:
		scanExprLocals(n.Left, la)
		scanExprLocals(n.Right, la)
	case *ast.UnaryExpr:
		scanExprLocals(n.Operand, la)
	case *ast.AssignExpr:
		scanExprLocals(n.Target, la)
		scanExprLocals(n.Value, la)
	case *ast.CallExpr:
		scanExprLocals(n.Callee, la)
		for _, a := range n.Args {
			scanExprLocals(a, la)
		}
	case *ast.MethodCallExpr:
		scanExprLocals(n.Receiver, la)
		for _, a := range n.Args {
			scanExprLocals(a, la)
		}
	case *ast.FieldExpr:
		scanExprLocals(n.Object, la)
	case *ast.IndexExpr:
		scanExprLocals(n.Collection, la)
		scanExprLocals(n.Index, la)
	case *ast.StructLit:
		for _, name := range n.Order {
			scanExprLocals(n.Fields[name], la)
		}
	case *ast.EnumConstructor:
		for _, a := range n.Args {
			scanExprLocals(a, la)
		}
		for _, v := range n.Fields {
			scanExprLocals(v, la)
		}
	case *ast.ArrayLit:
		for _, el := range n.Elems {
			scanExprLocals(el, la)
		}
	case *ast.TupleLit:
		for _, el := range n.Elems {
			scanExprLocals(el, la)
		}
	case *ast.TryExpr:
		scanExprLocals(n.Expr, la)
	case *ast.CastExpr:
		scanExprLocals(n.Expr, la)
	case *ast.RangeExpr:
		scanExprLocals(n.Start, la)
		scanExprLocals(n.End, la)
	case *ast.AwaitExpr:
		scanExprLocals(n.Expr, la)
	case *ast.ReturnExpr:
		scanExprLocals(n.Value, la)
	case *ast.MacroCallExpr:
		for _, a := range n.Args {
			scanExprLocals(a, la)
		}
	case *ast.FStringLit:
		for _, part := range n.Parts {
			if part.IsExpr {
				scanExprLocals(part.Expr, la)
			}
		}
	}
}

// inferLocalType applies spec.md §4.GW's local-typing rule: integer literal
// initializers get a 64-bit integer local, float literals a 64-bit float
// local, bool/markup/string-shaped initializers and calls to a
// capitalized or `dom_`-prefixed name get a 32-bit integer local, and
// everything else defaults to 64-bit integer.
func inferLocalType(v ast.Expression) LocalType {
	switch n := v.(type) {
	case *ast.IntLit:
		return LocalI64
	case *ast.FloatLit:
		return LocalF64
	case *ast.BoolLit, *ast.StringLit, *ast.FStringLit, *ast.MarkupElement:
		return LocalI32
	case *ast.CallExpr:
		if id, ok := n.Callee.(*ast.Ident); ok {
			if startsUpper(id.Name) || hasDomPrefix(id.Name) {
				return LocalI32
			}
		}
		return LocalI64
	default:
		return LocalI64
	}
}

func startsUpper(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

func hasDomPrefix(s string) bool {
	return len(s) >= 4 && s[:4] == "dom_"
}
