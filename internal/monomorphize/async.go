package monomorphize

import (
	"strconv"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/mangle"
	"github.com/nyxlang/nyxc/internal/source"
	"github.com/nyxlang/nyxc/internal/types"
)

// lowerAsync replaces an async function with a generated Future struct and
// a poll function driving it through its await points, following the
// original implementation's lower_async_fn: every local variable and
// parameter becomes a field on the Future struct (so it survives across
// separate poll() calls), each top-level statement containing an await
// becomes its own match arm, and the arm count is always
// (await points) + 2: one arm per await point, one for the trailing
// segment after the last await, and one wildcard arm for a poll() call
// that arrives after completion.
func (c *ctx) lowerAsync(f *Func, _ *env) {
	futureName := mangle.Future(f.Name)
	pollName := mangle.Poll(f.Name)
	pollEnumName := futureName + "_Poll"

	body := f.Body
	awaitIdxs := findAwaitStmtIndices(body.Stmts)

	fields := map[string]*types.Type{}
	var order []string
	addField := func(name string, t *types.Type) {
		if _, ok := fields[name]; !ok {
			order = append(order, name)
		}
		fields[name] = t
	}
	addField("state", types.IntType())
	for i, p := range f.Params {
		var t *types.Type
		if f.ResolvedType != nil && i < len(f.ResolvedType.Params) {
			t = f.ResolvedType.Params[i]
		} else {
			t = types.UnknownType()
		}
		addField(p.Name, t)
	}
	for _, name := range collectLocalNames(body.Stmts) {
		addField(name, types.UnknownType())
	}
	for i := range awaitIdxs {
		addField(mangle.AwaitField(i), types.UnknownType())
		addField(mangle.AwaitField(i)+"_started", types.BoolType())
		addField(mangle.AwaitResultField(i), types.UnknownType())
	}

	futureType := &types.Type{Kind: types.Struct, Name: futureName, Fields: fields, FieldOrder: order}
	c.table.Structs[futureName] = futureType

	structDeclFields := make([]*ast.Param, 0, len(order))
	for _, name := range order {
		structDeclFields = append(structDeclFields, &ast.Param{
			Name: name, Type: &ast.NamedType{Name: fields[name].MangleName(), Span: body.Span}, Span: body.Span,
		})
	}
	c.items = append(c.items, &ast.StructDecl{Name: futureName, Fields: structDeclFields, Span: body.Span})

	retType := f.ReturnType
	pollEnum := &ast.EnumDecl{
		Name: pollEnumName,
		Variants: []*ast.EnumVariant{
			{Name: "Pending", Kind: ast.VariantUnit, Span: body.Span},
			{Name: "Ready", Kind: ast.VariantTuple, Tuple: []ast.TypeExpr{retType}, Span: body.Span},
		},
		Span: body.Span,
	}
	c.items = append(c.items, pollEnum)
	pollEnumType := &types.Type{Kind: types.Enum, Name: pollEnumName}
	c.table.Enums[pollEnumName] = pollEnumType

	// Rewrite every identifier that now lives on self (params and locals)
	// to a field access, matching rewrite_access_to_self.
	selfNames := map[string]bool{}
	for _, p := range f.Params {
		selfNames[p.Name] = true
	}
	for _, name := range collectLocalNames(body.Stmts) {
		selfNames[name] = true
	}
	for _, s := range body.Stmts {
		rewriteSelfAccess(s, selfNames)
	}

	segments := splitAtAwaits(body.Stmts, awaitIdxs)

	arms := make([]*ast.MatchArm, 0, len(awaitIdxs)+2)
	for i := range awaitIdxs {
		arms = append(arms, buildAwaitArm(i, segments[i], pollName, pollEnumName, body.Span))
	}
	arms = append(arms, buildFinalArm(len(awaitIdxs), segments[len(awaitIdxs)], pollEnumName, body.Span))
	arms = append(arms, &ast.MatchArm{
		Pattern: &ast.WildcardPattern{Span: body.Span},
		Body: &ast.BlockExpr{Block: &ast.Block{Stmts: []ast.Statement{
			&ast.ReturnStmt{Value: &ast.EnumConstructor{Enum: pollEnumName, Variant: "Pending", Span: body.Span}, Span: body.Span},
		}, Span: body.Span}},
		Span: body.Span,
	})

	pollBody := &ast.Block{Span: body.Span, Stmts: []ast.Statement{
		&ast.ReturnStmt{Span: body.Span, Value: &ast.MatchExpr{
			Scrutinee: &ast.FieldExpr{Object: &ast.Ident{Name: "self", Span: body.Span}, Field: "state", Span: body.Span},
			Arms:      arms,
			Span:      body.Span,
		}},
	}}

	// The poll function itself never carries Async: it is driven to
	// completion by repeated synchronous calls, not awaited.
	syncEffects := f.Effects.Without(types.Async)

	pollFunc := &Func{
		Name: pollName, Kind: KindFuturePoll, Receiver: futureName,
		Params:       []*ast.Param{{Name: "self", Type: &ast.NamedType{Name: futureName, Span: body.Span}, Span: body.Span}},
		ReturnType:   &ast.NamedType{Name: pollEnumName, Span: body.Span},
		ResolvedType: &types.Type{Kind: types.Func, Params: []*types.Type{futureType}, Return: pollEnumType, Effects: syncEffects},
		Effects:      syncEffects,
		Body:         pollBody,
	}
	c.register(pollFunc)

	// The entry function now just constructs the Future in its initial
	// (not-yet-started) state; the first poll() call lazily starts the
	// first await point.
	structFields := map[string]ast.Expression{}
	structOrder := []string{"state"}
	structFields["state"] = &ast.IntLit{Value: "0", Span: body.Span}
	for _, p := range f.Params {
		structFields[p.Name] = &ast.Ident{Name: p.Name, Span: body.Span}
		structOrder = append(structOrder, p.Name)
	}
	f.Body = &ast.Block{Span: body.Span, Stmts: []ast.Statement{
		&ast.ReturnStmt{Span: body.Span, Value: &ast.StructLit{
			TypeName: futureName, Fields: structFields, Order: structOrder, Span: body.Span,
		}},
	}}
	f.Effects = syncEffects
	f.ResolvedType = &types.Type{Kind: types.Func, Params: f.ResolvedType.Params, Return: futureType, Effects: f.Effects}
}

// pollCalleeFor names the poll function to drive a statement's awaited
// future: mangle.Poll of the callee when the await targets a direct call to
// a known function, else the interpreter's generic poll_once builtin for an
// expression whose future type cannot be resolved statically.
func pollCalleeFor(inner ast.Expression) string {
	if call, ok := inner.(*ast.CallExpr); ok {
		if id, ok := call.Callee.(*ast.Ident); ok {
			return mangle.Poll(id.Name)
		}
	}
	return "poll_once"
}

// buildAwaitArm constructs the match arm run while self.state == i: lazily
// start the ith sub-future, poll it, propagate Pending, or store its result
// and fall through (via a tail self-call) to the next state.
func buildAwaitArm(i int, segment []ast.Statement, pollName, pollEnumName string, span source.Span) *ast.MatchArm {
	awaitField := mangle.AwaitField(i)
	startedField := awaitField + "_started"
	resultField := mangle.AwaitResultField(i)
	selfIdent := &ast.Ident{Name: "self", Span: span}
	selfField := func(name string) *ast.FieldExpr {
		return &ast.FieldExpr{Object: selfIdent, Field: name, Span: span}
	}

	stmts := make([]ast.Statement, 0, len(segment)+6)

	var innerExpr ast.Expression
	for _, s := range segment {
		if sentinel, ok := s.(*awaitSentinelStmt); ok {
			innerExpr = sentinel.Inner
			continue
		}
		stmts = append(stmts, s)
	}

	startGuard := &ast.IfExpr{
		Span: span,
		Cond: &ast.UnaryExpr{Op: "!", Operand: selfField(startedField), Span: span},
		Then: &ast.Block{Span: span, Stmts: []ast.Statement{
			&ast.ExprStmt{Span: span, Expr: &ast.AssignExpr{Op: "=", Target: selfField(awaitField), Value: innerExpr, Span: span}},
			&ast.ExprStmt{Span: span, Expr: &ast.AssignExpr{Op: "=", Target: selfField(startedField), Value: &ast.BoolLit{Value: true, Span: span}, Span: span}},
		}},
	}
	stmts = append(stmts, &ast.ExprStmt{Span: span, Expr: startGuard})

	pollResult := &ast.LetStmt{Span: span, Decl: &ast.VarDecl{
		Name: "__p", Span: span,
		Value: &ast.CallExpr{Span: span, Callee: &ast.Ident{Name: pollCalleeFor(innerExpr), Span: span}, Args: []ast.Expression{selfField(awaitField)}},
	}}
	stmts = append(stmts, pollResult)

	readyBinding := "__v"
	matchOnInner := &ast.MatchExpr{
		Span:      span,
		Scrutinee: &ast.Ident{Name: "__p", Span: span},
		Arms: []*ast.MatchArm{
			{
				Span:    span,
				Pattern: &ast.VariantPattern{Variant: "Pending", Span: span},
				Body: &ast.BlockExpr{Block: &ast.Block{Span: span, Stmts: []ast.Statement{
					&ast.ReturnStmt{Span: span, Value: &ast.EnumConstructor{Enum: pollEnumName, Variant: "Pending", Span: span}},
				}}},
			},
			{
				Span:    span,
				Pattern: &ast.VariantPattern{Variant: "Ready", Elems: []ast.Pattern{&ast.BindingPattern{Name: readyBinding, Span: span}}, Span: span},
				Body: &ast.BlockExpr{Block: &ast.Block{Span: span, Stmts: []ast.Statement{
					&ast.ExprStmt{Span: span, Expr: &ast.AssignExpr{Op: "=", Target: selfField(resultField), Value: &ast.Ident{Name: readyBinding, Span: span}, Span: span}},
					&ast.ExprStmt{Span: span, Expr: &ast.AssignExpr{Op: "=", Target: selfField("state"), Value: &ast.IntLit{Value: strconv.Itoa(i + 1), Span: span}, Span: span}},
					&ast.ReturnStmt{Span: span, Value: &ast.CallExpr{Callee: &ast.Ident{Name: pollName, Span: span}, Args: []ast.Expression{selfIdent}, Span: span}},
				}}},
			},
		},
	}
	stmts = append(stmts, &ast.ExprStmt{Span: span, Expr: matchOnInner})

	return &ast.MatchArm{
		Span:    span,
		Pattern: &ast.LiteralPattern{Value: &ast.IntLit{Value: strconv.Itoa(i), Span: span}, Span: span},
		Body:    &ast.BlockExpr{Block: &ast.Block{Span: span, Stmts: stmts}},
	}
}

func buildFinalArm(state int, segment []ast.Statement, pollEnumName string, span source.Span) *ast.MatchArm {
	stmts := make([]ast.Statement, 0, len(segment))
	for _, s := range segment {
		if ret, ok := s.(*ast.ReturnStmt); ok {
			stmts = append(stmts, &ast.ReturnStmt{Span: ret.Span, Value: &ast.EnumConstructor{
				Enum: pollEnumName, Variant: "Ready", Args: []ast.Expression{ret.Value}, Span: ret.Span,
			}})
			continue
		}
		stmts = append(stmts, s)
	}
	return &ast.MatchArm{
		Span:    span,
		Pattern: &ast.LiteralPattern{Value: &ast.IntLit{Value: strconv.Itoa(state), Span: span}, Span: span},
		Body:    &ast.BlockExpr{Block: &ast.Block{Span: span, Stmts: stmts}},
	}
}

// awaitSentinelStmt is a synthetic marker splitAtAwaits emits in place of
// the original await-bearing statement, carrying the future-producing
// expression the await point belongs to. The embedded (always nil)
// ast.Statement supplies the interface's unexported method.
type awaitSentinelStmt struct {
	ast.Statement
	Inner ast.Expression
	Span  source.Span
}

func (a *awaitSentinelStmt) Pos() source.Span { return a.Span }
func (*awaitSentinelStmt) stmtNode()          {}

// splitAtAwaits chops stmts into len(awaitIdxs)+1 segments: stmts before the
// first await, between each consecutive pair, and after the last.
func splitAtAwaits(stmts []ast.Statement, awaitIdxs []int) [][]ast.Statement {
	segments := make([][]ast.Statement, 0, len(awaitIdxs)+1)
	start := 0
	for _, idx := range awaitIdxs {
		seg := append([]ast.Statement{}, stmts[start:idx]...)
		inner, replacement := extractAwaitInner(stmts[idx])
		if replacement != nil {
			seg = append(seg, replacement)
		}
		seg = append(seg, &awaitSentinelStmt{Inner: inner, Span: stmts[idx].Pos()})
		segments = append(segments, seg)
		start = idx + 1
	}
	segments = append(segments, append([]ast.Statement{}, stmts[start:]...))
	return segments
}

// extractAwaitInner pulls the future-producing expression out of an
// await-bearing statement and returns a rewritten statement (or nil, for a
// bare `await expr` statement with nothing left to run) with the await
// replaced by the eventual result field reference.
func extractAwaitInner(s ast.Statement) (ast.Expression, ast.Statement) {
	resultRef := func(span source.Span) ast.Expression { return &ast.Ident{Name: "__await_result__", Span: span} }
	switch n := s.(type) {
	case *ast.LetStmt:
		rewritten, inner, found := spliceAwait(n.Decl.Value, resultRef(n.Span))
		if !found {
			return nil, nil
		}
		n.Decl.Value = rewritten
		return inner, n
	case *ast.ExprStmt:
		if aw, ok := n.Expr.(*ast.AwaitExpr); ok {
			return aw.Expr, nil
		}
		rewritten, inner, found := spliceAwait(n.Expr, resultRef(n.Span))
		if !found {
			return nil, nil
		}
		n.Expr = rewritten
		return inner, n
	case *ast.ReturnStmt:
		rewritten, inner, found := spliceAwait(n.Value, resultRef(n.Span))
		if !found {
			return nil, nil
		}
		n.Value = rewritten
		return inner, n
	}
	return nil, nil
}

// spliceAwait finds the first AwaitExpr reachable from e and returns a tree
// with it replaced by replacement, plus the await's inner expression.
func spliceAwait(e ast.Expression, replacement ast.Expression) (ast.Expression, ast.Expression, bool) {
	if e == nil {
		return nil, nil, false
	}
	if aw, ok := e.(*ast.AwaitExpr); ok {
		return replacement, aw.Expr, true
	}
	switch n := e.(type) {
	case *ast.BinaryExpr:
		if r, inner, ok := spliceAwait(n.Left, replacement); ok {
			n.Left = r
			return n, inner, true
		}
		if r, inner, ok := spliceAwait(n.Right, replacement); ok {
			n.Right = r
			return n, inner, true
		}
	case *ast.UnaryExpr:
		if r, inner, ok := spliceAwait(n.Operand, replacement); ok {
			n.Operand = r
			return n, inner, true
		}
	case *ast.CallExpr:
		for i, a := range n.Args {
			if r, inner, ok := spliceAwait(a, replacement); ok {
				n.Args[i] = r
				return n, inner, true
			}
		}
	case *ast.FieldExpr:
		if r, inner, ok := spliceAwait(n.Object, replacement); ok {
			n.Object = r
			return n, inner, true
		}
	case *ast.TryExpr:
		if r, inner, ok := spliceAwait(n.Expr, replacement); ok {
			n.Expr = r
			return n, inner, true
		}
	}
	return e, nil, false
}

// collectLocalNames gathers every name bound by a top-level let or for loop
// in an async function's body, each of which becomes a Future struct field.
func collectLocalNames(stmts []ast.Statement) []string {
	var names []string
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.LetStmt:
			names = append(names, n.Decl.Name)
		case *ast.ForStmt:
			names = append(names, n.Name)
		}
	}
	return names
}

// findAwaitStmtIndices returns the indices of stmts whose expression tree
// contains an await, in source order. This assumes at most one await per
// top-level statement; a statement with more than one is lowered against
// its first.
func findAwaitStmtIndices(stmts []ast.Statement) []int {
	var idxs []int
	for i, s := range stmts {
		var e ast.Expression
		switch n := s.(type) {
		case *ast.LetStmt:
			e = n.Decl.Value
		case *ast.ExprStmt:
			e = n.Expr
		case *ast.ReturnStmt:
			e = n.Value
		}
		if containsAwait(e) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func containsAwait(e ast.Expression) bool {
	if e == nil {
		return false
	}
	switch n := e.(type) {
	case *ast.AwaitExpr:
		return true
	case *ast.BinaryExpr:
		return containsAwait(n.Left) || containsAwait(n.Right)
	case *ast.UnaryExpr:
		return containsAwait(n.Operand)
	case *ast.CallExpr:
		for _, a := range n.Args {
			if containsAwait(a) {
				return true
			}
		}
		return false
	case *ast.FieldExpr:
		return containsAwait(n.Object)
	case *ast.TryExpr:
		return containsAwait(n.Expr)
	default:
		return false
	}
}

// rewriteSelfAccess rewrites every bare identifier reference to a name in
// names into a self.<name> field access, the way a lowered async function's
// locals and parameters are addressed once they live on the Future struct.
func rewriteSelfAccess(s ast.Statement, names map[string]bool) {
	switch n := s.(type) {
	case *ast.LetStmt:
		n.Decl.Value = rewriteSelfExpr(n.Decl.Value, names)
	case *ast.ReturnStmt:
		n.Value = rewriteSelfExpr(n.Value, names)
	case *ast.WhileStmt:
		n.Cond = rewriteSelfExpr(n.Cond, names)
		for _, st := range n.Body.Stmts {
			rewriteSelfAccess(st, names)
		}
	case *ast.ForStmt:
		n.Iter = rewriteSelfExpr(n.Iter, names)
		for _, st := range n.Body.Stmts {
			rewriteSelfAccess(st, names)
		}
	case *ast.LoopStmt:
		for _, st := range n.Body.Stmts {
			rewriteSelfAccess(st, names)
		}
	case *ast.ExprStmt:
		n.Expr = rewriteSelfExpr(n.Expr, names)
	}
}

func rewriteSelfExpr(e ast.Expression, names map[string]bool) ast.Expression {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.Ident:
		if names[n.Name] {
			return &ast.FieldExpr{Object: &ast.Ident{Name: "self", Span: n.Span}, Field: n.Name, Span: n.Span}
		}
		return n
	case *ast.FStringLit:
		for i, part := range n.Parts {
			if part.IsExpr {
				n.Parts[i].Expr = rewriteSelfExpr(part.Expr, names)
			}
		}
		return n
	case *ast.EnumConstructor:
		for i, a := range n.Args {
			n.Args[i] = rewriteSelfExpr(a, names)
		}
		for k, v := range n.Fields {
			n.Fields[k] = rewriteSelfExpr(v, names)
		}
		return n
	case *ast.StructLit:
		for k, v := range n.Fields {
			n.Fields[k] = rewriteSelfExpr(v, names)
		}
		return n
	case *ast.TupleLit:
		for i, el := range n.Elems {
			n.Elems[i] = rewriteSelfExpr(el, names)
		}
		return n
	case *ast.ArrayLit:
		for i, el := range n.Elems {
			n.Elems[i] = rewriteSelfExpr(el, names)
		}
		return n
	case *ast.IndexExpr:
		n.Collection = rewriteSelfExpr(n.Collection, names)
		n.Index = rewriteSelfExpr(n.Index, names)
		return n
	case *ast.FieldExpr:
		n.Object = rewriteSelfExpr(n.Object, names)
		return n
	case *ast.CallExpr:
		n.Callee = rewriteSelfExpr(n.Callee, names)
		for i, a := range n.Args {
			n.Args[i] = rewriteSelfExpr(a, names)
		}
		return n
	case *ast.MethodCallExpr:
		n.Receiver = rewriteSelfExpr(n.Receiver, names)
		for i, a := range n.Args {
			n.Args[i] = rewriteSelfExpr(a, names)
		}
		return n
	case *ast.BinaryExpr:
		n.Left = rewriteSelfExpr(n.Left, names)
		n.Right = rewriteSelfExpr(n.Right, names)
		return n
	case *ast.UnaryExpr:
		n.Operand = rewriteSelfExpr(n.Operand, names)
		return n
	case *ast.AssignExpr:
		n.Target = rewriteSelfExpr(n.Target, names)
		n.Value = rewriteSelfExpr(n.Value, names)
		return n
	case *ast.BlockExpr:
		for _, st := range n.Block.Stmts {
			rewriteSelfAccess(st, names)
		}
		return n
	case *ast.IfExpr:
		n.Cond = rewriteSelfExpr(n.Cond, names)
		for _, st := range n.Then.Stmts {
			rewriteSelfAccess(st, names)
		}
		if n.ElseIf != nil {
			n.ElseIf = rewriteSelfExpr(n.ElseIf, names).(*ast.IfExpr)
		}
		if n.Else != nil {
			for _, st := range n.Else.Stmts {
				rewriteSelfAccess(st, names)
			}
		}
		return n
	case *ast.MatchExpr:
		n.Scrutinee = rewriteSelfExpr(n.Scrutinee, names)
		for _, a := range n.Arms {
			a.Guard = rewriteSelfExpr(a.Guard, names)
			a.Body = rewriteSelfExpr(a.Body, names)
		}
		return n
	case *ast.ReturnExpr:
		n.Value = rewriteSelfExpr(n.Value, names)
		return n
	case *ast.TryExpr:
		n.Expr = rewriteSelfExpr(n.Expr, names)
		return n
	case *ast.CastExpr:
		n.Expr = rewriteSelfExpr(n.Expr, names)
		return n
	case *ast.RangeExpr:
		n.Start = rewriteSelfExpr(n.Start, names)
		n.End = rewriteSelfExpr(n.End, names)
		return n
	case *ast.AwaitExpr:
		n.Expr = rewriteSelfExpr(n.Expr, names)
		return n
	case *ast.SpawnExpr:
		n.Expr = rewriteSelfExpr(n.Expr, names)
		for k, v := range n.Fields {
			n.Fields[k] = rewriteSelfExpr(v, names)
		}
		return n
	case *ast.SendExpr:
		n.Target = rewriteSelfExpr(n.Target, names)
		for i, a := range n.Args {
			n.Args[i] = rewriteSelfExpr(a, names)
		}
		return n
	case *ast.MacroCallExpr:
		for i, a := range n.Args {
			n.Args[i] = rewriteSelfExpr(a, names)
		}
		return n
	case *ast.ComptimeExpr:
		n.Inner = rewriteSelfExpr(n.Inner, names)
		return n
	default:
		return e
	}
}
