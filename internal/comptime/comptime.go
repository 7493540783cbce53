// Package comptime evaluates explicitly marked compile-time expressions and
// substitutes their results back into the AST: `EvalProgram` walks every
// expression, and whenever it finds a ComptimeExpr node it evaluates the
// inner expression against an environment seeded with the preceding items
// and replaces the node with a literal representing the result.
package comptime

import (
	"strconv"
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/diag"
)

// EvalProgram folds every ComptimeExpr in prog in place, processing items in
// declaration order so each item's comptime blocks see constants folded by
// earlier items. Diagnostics are non-fatal: a comptime expression whose value
// cannot be folded is serialized as a placeholder string rather than aborting
// the pass: only a small, deliberately narrow subset of values can be
// folded at compile time, and anything else falls back to the placeholder.
func EvalProgram(prog *ast.Program) *diag.ErrorList {
	errs := diag.NewErrorList()
	env := map[string]val{}
	f := &folder{env: env, errs: errs}
	for _, item := range prog.Items {
		f.foldItem(item)
	}
	return errs
}

type valueKind int

const (
	vUnit valueKind = iota
	vInt
	vFloat
	vBool
	vString
	vUnsupported
)

type val struct {
	kind valueKind
	i    int64
	f    float64
	b    bool
	s    string
}

type folder struct {
	env  map[string]val
	errs *diag.ErrorList
}

// ===== item-level folding =====

func (f *folder) foldItem(it ast.Item) {
	switch n := it.(type) {
	case *ast.FuncDecl:
		if n.Body != nil {
			f.foldBlock(n.Body)
		}
	case *ast.ComponentDecl:
		for _, s := range n.State {
			f.foldVarDecl(s)
		}
		for _, m := range n.Methods {
			if m.Body != nil {
				f.foldBlock(m.Body)
			}
		}
		if n.Render != nil {
			n.Render = f.foldExpr(n.Render)
		}
	case *ast.ShaderDecl:
		if n.Body != nil {
			f.foldBlock(n.Body)
		}
	case *ast.ActorDecl:
		for _, s := range n.State {
			f.foldVarDecl(s)
		}
		for _, h := range n.Handlers {
			if h.Body != nil {
				f.foldBlock(h.Body)
			}
		}
	case *ast.ConstDecl:
		n.Value = f.foldExpr(n.Value)
		if v, ok := f.eval(n.Value, f.env); ok {
			f.env[n.Name] = v
		}
	case *ast.ComptimeItem:
		// A whole top-level comptime block: fold nested expressions, then
		// execute its statements against the running environment so later
		// items can see the bindings it makes.
		f.foldBlock(n.Body)
		f.execIntoEnv(n.Body)
	case *ast.ImplDecl:
		for _, m := range n.Methods {
			if m.Body != nil {
				f.foldBlock(m.Body)
			}
		}
	case *ast.TraitDecl, *ast.StructDecl, *ast.EnumDecl, *ast.TypeAliasDecl,
		*ast.UseDecl, *ast.ModDecl, *ast.MacroDecl, *ast.TestDecl:
		// No foldable expression positions (trait/struct/enum/alias/use/mod
		// carry no bodies; macro bodies are not folded at top-level scope
		// since macros are expanded per-call-site, not eagerly). A test body
		// is folded like a function body.
		if t, ok := it.(*ast.TestDecl); ok && t.Body != nil {
			f.foldBlock(t.Body)
		}
	}
}

func (f *folder) foldVarDecl(v *ast.VarDecl) {
	if v.Value != nil {
		v.Value = f.foldExpr(v.Value)
	}
}

// execIntoEnv runs a folded comptime block's let-bindings into the running
// environment so subsequent items can fold against them.
func (f *folder) execIntoEnv(b *ast.Block) {
	for _, s := range b.Stmts {
		if let, ok := s.(*ast.LetStmt); ok && let.Decl.Value != nil {
			if v, ok := f.eval(let.Decl.Value, f.env); ok {
				f.env[let.Decl.Name] = v
			}
		}
	}
}

// ===== statement/block folding =====

func (f *folder) foldBlock(b *ast.Block) {
	for _, s := range b.Stmts {
		f.foldStmt(s)
	}
}

func (f *folder) foldStmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.LetStmt:
		f.foldVarDecl(n.Decl)
	case *ast.ReturnStmt:
		if n.Value != nil {
			n.Value = f.foldExpr(n.Value)
		}
	case *ast.WhileStmt:
		n.Cond = f.foldExpr(n.Cond)
		f.foldBlock(n.Body)
	case *ast.ForStmt:
		n.Iter = f.foldExpr(n.Iter)
		f.foldBlock(n.Body)
	case *ast.LoopStmt:
		f.foldBlock(n.Body)
	case *ast.ExprStmt:
		n.Expr = f.foldExpr(n.Expr)
	}
}

// ===== expression folding =====

// foldExpr recurses into every compound expression (binaries, calls,
// assignments, parenthesized forms, blocks, markup subtrees) and replaces any
// ComptimeExpr it finds with the literal produced by evaluating it.
func (f *folder) foldExpr(e ast.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.ComptimeExpr:
		n.Inner = f.foldExpr(n.Inner)
		v, ok := f.eval(n.Inner, f.env)
		if !ok {
			return &ast.StringLit{Value: "<comptime:unsupported>", Span: n.Span}
		}
		return toLiteral(v, n)

	case *ast.FStringLit:
		for i := range n.Parts {
			if n.Parts[i].IsExpr {
				n.Parts[i].Expr = f.foldExpr(n.Parts[i].Expr)
			}
		}
		return n
	case *ast.EnumConstructor:
		for i := range n.Args {
			n.Args[i] = f.foldExpr(n.Args[i])
		}
		for k, v := range n.Fields {
			n.Fields[k] = f.foldExpr(v)
		}
		return n
	case *ast.StructLit:
		for k, v := range n.Fields {
			n.Fields[k] = f.foldExpr(v)
		}
		return n
	case *ast.TupleLit:
		for i := range n.Elems {
			n.Elems[i] = f.foldExpr(n.Elems[i])
		}
		return n
	case *ast.ArrayLit:
		for i := range n.Elems {
			n.Elems[i] = f.foldExpr(n.Elems[i])
		}
		return n
	case *ast.IndexExpr:
		n.Collection = f.foldExpr(n.Collection)
		n.Index = f.foldExpr(n.Index)
		return n
	case *ast.FieldExpr:
		n.Object = f.foldExpr(n.Object)
		return n
	case *ast.CallExpr:
		n.Callee = f.foldExpr(n.Callee)
		for i := range n.Args {
			n.Args[i] = f.foldExpr(n.Args[i])
		}
		return n
	case *ast.MethodCallExpr:
		n.Receiver = f.foldExpr(n.Receiver)
		for i := range n.Args {
			n.Args[i] = f.foldExpr(n.Args[i])
		}
		return n
	case *ast.LambdaExpr:
		n.Body = f.foldExpr(n.Body)
		return n
	case *ast.BinaryExpr:
		n.Left = f.foldExpr(n.Left)
		n.Right = f.foldExpr(n.Right)
		return n
	case *ast.UnaryExpr:
		n.Operand = f.foldExpr(n.Operand)
		return n
	case *ast.AssignExpr:
		n.Target = f.foldExpr(n.Target)
		n.Value = f.foldExpr(n.Value)
		return n
	case *ast.BlockExpr:
		f.foldBlock(n.Block)
		return n
	case *ast.IfExpr:
		n.Cond = f.foldExpr(n.Cond)
		f.foldBlock(n.Then)
		if n.ElseIf != nil {
			n.ElseIf = f.foldExpr(n.ElseIf).(*ast.IfExpr)
		}
		if n.Else != nil {
			f.foldBlock(n.Else)
		}
		return n
	case *ast.MatchExpr:
		n.Scrutinee = f.foldExpr(n.Scrutinee)
		for _, arm := range n.Arms {
			if arm.Guard != nil {
				arm.Guard = f.foldExpr(arm.Guard)
			}
			arm.Body = f.foldExpr(arm.Body)
		}
		return n
	case *ast.ReturnExpr:
		if n.Value != nil {
			n.Value = f.foldExpr(n.Value)
		}
		return n
	case *ast.TryExpr:
		n.Expr = f.foldExpr(n.Expr)
		return n
	case *ast.CastExpr:
		n.Expr = f.foldExpr(n.Expr)
		return n
	case *ast.RangeExpr:
		if n.Start != nil {
			n.Start = f.foldExpr(n.Start)
		}
		if n.End != nil {
			n.End = f.foldExpr(n.End)
		}
		return n
	case *ast.AwaitExpr:
		n.Expr = f.foldExpr(n.Expr)
		return n
	case *ast.SpawnExpr:
		if n.Expr != nil {
			n.Expr = f.foldExpr(n.Expr)
		}
		for k, v := range n.Fields {
			n.Fields[k] = f.foldExpr(v)
		}
		return n
	case *ast.SendExpr:
		n.Target = f.foldExpr(n.Target)
		for i := range n.Args {
			n.Args[i] = f.foldExpr(n.Args[i])
		}
		return n
	case *ast.MacroCallExpr:
		for i := range n.Args {
			n.Args[i] = f.foldExpr(n.Args[i])
		}
		return n
	case *ast.MarkupElement:
		for _, a := range n.Attrs {
			a.Value = f.foldExpr(a.Value)
		}
		for i, c := range n.Children {
			n.Children[i] = f.foldMarkupChild(c)
		}
		return n
	default:
		// Literals and identifiers carry no sub-expressions to recurse into.
		return e
	}
}

func (f *folder) foldMarkupChild(c ast.MarkupChild) ast.MarkupChild {
	switch n := c.(type) {
	case *ast.MarkupElement:
		f.foldExpr(n)
		return n
	case *ast.MarkupHole:
		n.Expr = f.foldExpr(n.Expr)
		return n
	default:
		return c
	}
}

// ===== evaluation =====

func (f *folder) eval(e ast.Expression, env map[string]val) (val, bool) {
	switch n := e.(type) {
	case *ast.IntLit:
		i, err := strconv.ParseInt(strings.ReplaceAll(n.Value, "_", ""), 10, 64)
		if err != nil {
			return val{}, false
		}
		return val{kind: vInt, i: i}, true
	case *ast.FloatLit:
		fl, err := strconv.ParseFloat(strings.ReplaceAll(n.Value, "_", ""), 64)
		if err != nil {
			return val{}, false
		}
		return val{kind: vFloat, f: fl}, true
	case *ast.BoolLit:
		return val{kind: vBool, b: n.Value}, true
	case *ast.StringLit:
		return val{kind: vString, s: n.Value}, true
	case *ast.Ident:
		v, ok := env[n.Name]
		return v, ok
	case *ast.BlockExpr:
		return f.evalBlock(n.Block, env)
	case *ast.ComptimeExpr:
		return f.eval(n.Inner, env)
	case *ast.CastExpr:
		return f.evalCast(n, env)
	case *ast.UnaryExpr:
		return f.evalUnary(n, env)
	case *ast.BinaryExpr:
		return f.evalBinary(n, env)
	default:
		return val{}, false
	}
}

func (f *folder) evalCast(n *ast.CastExpr, env map[string]val) (val, bool) {
	v, ok := f.eval(n.Expr, env)
	if !ok {
		return val{}, false
	}
	named, ok := n.Type.(*ast.NamedType)
	if !ok {
		return val{}, false
	}
	switch named.Name {
	case "Int":
		switch v.kind {
		case vInt:
			return v, true
		case vFloat:
			return val{kind: vInt, i: int64(v.f)}, true
		}
	case "Float":
		switch v.kind {
		case vFloat:
			return v, true
		case vInt:
			return val{kind: vFloat, f: float64(v.i)}, true
		}
	}
	return val{}, false
}

func (f *folder) evalUnary(n *ast.UnaryExpr, env map[string]val) (val, bool) {
	v, ok := f.eval(n.Operand, env)
	if !ok {
		return val{}, false
	}
	switch n.Op {
	case "-":
		switch v.kind {
		case vInt:
			return val{kind: vInt, i: -v.i}, true
		case vFloat:
			return val{kind: vFloat, f: -v.f}, true
		}
	case "!":
		if v.kind == vBool {
			return val{kind: vBool, b: !v.b}, true
		}
	}
	return val{}, false
}

func (f *folder) evalBinary(n *ast.BinaryExpr, env map[string]val) (val, bool) {
	l, ok := f.eval(n.Left, env)
	if !ok {
		return val{}, false
	}
	r, ok := f.eval(n.Right, env)
	if !ok {
		return val{}, false
	}
	if l.kind == vString && r.kind == vString && n.Op == "+" {
		return val{kind: vString, s: l.s + r.s}, true
	}
	if l.kind == vBool && r.kind == vBool {
		switch n.Op {
		case "&&":
			return val{kind: vBool, b: l.b && r.b}, true
		case "||":
			return val{kind: vBool, b: l.b || r.b}, true
		case "==":
			return val{kind: vBool, b: l.b == r.b}, true
		case "!=":
			return val{kind: vBool, b: l.b != r.b}, true
		}
		return val{}, false
	}
	lf, lIsFloat := asFloat(l)
	rf, rIsFloat := asFloat(r)
	if !lIsFloat || !rIsFloat {
		return val{}, false
	}
	bothInt := l.kind == vInt && r.kind == vInt
	switch n.Op {
	case "+", "-", "*", "/", "%":
		var res float64
		switch n.Op {
		case "+":
			res = lf + rf
		case "-":
			res = lf - rf
		case "*":
			res = lf * rf
		case "/":
			if rf == 0 {
				return val{}, false
			}
			res = lf / rf
		case "%":
			if !bothInt || r.i == 0 {
				return val{}, false
			}
			return val{kind: vInt, i: l.i % r.i}, true
		}
		if bothInt {
			return val{kind: vInt, i: int64(res)}, true
		}
		return val{kind: vFloat, f: res}, true
	case "==":
		return val{kind: vBool, b: lf == rf}, true
	case "!=":
		return val{kind: vBool, b: lf != rf}, true
	case "<":
		return val{kind: vBool, b: lf < rf}, true
	case ">":
		return val{kind: vBool, b: lf > rf}, true
	case "<=":
		return val{kind: vBool, b: lf <= rf}, true
	case ">=":
		return val{kind: vBool, b: lf >= rf}, true
	}
	return val{}, false
}

func asFloat(v val) (float64, bool) {
	switch v.kind {
	case vInt:
		return float64(v.i), true
	case vFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// evalBlock evaluates a block's statements sequentially against a local copy
// of env, producing the value of its final return/expression statement (or
// unit if the block has none), consistent with a comptime block acting as a
// small expression.
func (f *folder) evalBlock(b *ast.Block, outer map[string]val) (val, bool) {
	local := make(map[string]val, len(outer))
	for k, v := range outer {
		local[k] = v
	}
	result := val{kind: vUnit}
	for _, s := range b.Stmts {
		switch n := s.(type) {
		case *ast.LetStmt:
			if n.Decl.Value == nil {
				return val{}, false
			}
			v, ok := f.eval(n.Decl.Value, local)
			if !ok {
				return val{}, false
			}
			local[n.Decl.Name] = v
			result = val{kind: vUnit}
		case *ast.ExprStmt:
			v, ok := f.eval(n.Expr, local)
			if !ok {
				return val{}, false
			}
			result = v
		case *ast.ReturnStmt:
			if n.Value == nil {
				return val{kind: vUnit}, true
			}
			return f.eval(n.Value, local)
		default:
			return val{}, false
		}
	}
	return result, true
}

// toLiteral converts a folded value back into the literal AST node that
// replaces the ComptimeExpr it came from.
func toLiteral(v val, span ast.Node) ast.Expression {
	sp := span.Pos()
	switch v.kind {
	case vInt:
		return &ast.IntLit{Value: strconv.FormatInt(v.i, 10), Span: sp}
	case vFloat:
		return &ast.FloatLit{Value: strconv.FormatFloat(v.f, 'f', -1, 64), Span: sp}
	case vBool:
		return &ast.BoolLit{Value: v.b, Span: sp}
	case vString:
		return &ast.StringLit{Value: v.s, Span: sp}
	case vUnit:
		return &ast.BlockExpr{Block: &ast.Block{Span: sp}, Span: sp}
	default:
		return &ast.StringLit{Value: "<comptime:unsupported>", Span: sp}
	}
}
