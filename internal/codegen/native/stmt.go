package native

import "github.com/nyxlang/nyxc/internal/ast"

// compileBlockValue mirrors internal/interp's block evaluation: every
// non-final statement is compiled for effect, the final expression
// statement's value survives as the block's value.
func (fc *fnCompiler) compileBlockValue(b *ast.Block) string {
	last := ""
	for i, st := range b.Stmts {
		isLast := i == len(b.Stmts)-1
		if isLast {
			if es, ok := st.(*ast.ExprStmt); ok {
				last = fc.compileExpr(es.Expr)
				continue
			}
		}
		fc.compileStmt(st)
	}
	if last == "" {
		r := fc.fb.reg()
		fc.fb.emitf("%s = const.i64 0", r)
		return r
	}
	return last
}

func (fc *fnCompiler) compileBlockStmts(b *ast.Block) {
	for _, st := range b.Stmts {
		fc.compileStmt(st)
	}
}

func (fc *fnCompiler) compileStmt(st ast.Statement) {
	switch n := st.(type) {
	case *ast.LetStmt:
		v := fc.compileExpr(n.Decl.Value)
		fc.vals[n.Decl.Name] = v
	case *ast.ReturnStmt:
		if n.Value != nil {
			v := fc.compileExpr(n.Value)
			fc.fb.emitf("ret %s", v)
		} else {
			fc.fb.emitf("ret.void")
		}
	case *ast.WhileStmt:
		fc.compileWhile(n)
	case *ast.ForStmt:
		fc.compileFor(n)
	case *ast.LoopStmt:
		fc.compileLoop(n)
	case *ast.BreakStmt:
		fc.fb.emitf("br.break")
	case *ast.ContinueStmt:
		fc.fb.emitf("br.continue")
	case *ast.ExprStmt:
		fc.compileExpr(n.Expr)
	}
}

func (fc *fnCompiler) compileWhile(n *ast.WhileStmt) {
	head := fc.fb.newBlock("while_head")
	body := fc.fb.newBlock("while_body")
	exit := fc.fb.newBlock("while_exit")
	fc.fb.emitf("br %s", head.label)
	fc.fb.switchTo(head)
	cond := fc.compileExpr(n.Cond)
	fc.fb.emitf("br.if %s, %s, %s", cond, body.label, exit.label)
	fc.fb.switchTo(body)
	fc.compileBlockStmts(n.Body)
	fc.fb.emitf("br %s", head.label)
	fc.fb.switchTo(exit)
}

func (fc *fnCompiler) compileLoop(n *ast.LoopStmt) {
	body := fc.fb.newBlock("loop_body")
	exit := fc.fb.newBlock("loop_exit")
	fc.fb.emitf("br %s", body.label)
	fc.fb.switchTo(body)
	fc.compileBlockStmts(n.Body)
	fc.fb.emitf("br %s", body.label)
	fc.fb.switchTo(exit)
}

func (fc *fnCompiler) compileFor(n *ast.ForStmt) {
	if rng, ok := n.Iter.(*ast.RangeExpr); ok {
		fc.compileForRange(n, rng)
		return
	}
	collection := fc.compileExpr(n.Iter)
	cursor := fc.fb.reg()
	fc.fb.emitf("%s = const.i64 0", cursor)
	head := fc.fb.newBlock("for_head")
	body := fc.fb.newBlock("for_body")
	exit := fc.fb.newBlock("for_exit")
	fc.fb.emitf("br %s", head.label)
	fc.fb.switchTo(head)
	length := fc.fb.reg()
	fc.fb.emitf("%s = length %s", length, collection)
	cond := fc.fb.reg()
	fc.fb.emitf("%s = lt %s, %s", cond, cursor, length)
	fc.fb.emitf("br.if %s, %s, %s", cond, body.label, exit.label)
	fc.fb.switchTo(body)
	elem := fc.fb.reg()
	fc.fb.emitf("%s = getidx %s, %s", elem, collection, cursor)
	fc.vals[n.Name] = elem
	fc.compileBlockStmts(n.Body)
	next := fc.fb.reg()
	one := fc.fb.reg()
	fc.fb.emitf("%s = const.i64 1", one)
	fc.fb.emitf("%s = add %s, %s", next, cursor, one)
	cursor = next
	fc.fb.emitf("br %s", head.label)
	fc.fb.switchTo(exit)
}

func (fc *fnCompiler) compileForRange(n *ast.ForStmt, rng *ast.RangeExpr) {
	start := fc.compileExpr(rng.Start)
	end := fc.compileExpr(rng.End)
	fc.vals[n.Name] = start
	head := fc.fb.newBlock("range_head")
	body := fc.fb.newBlock("range_body")
	exit := fc.fb.newBlock("range_exit")
	fc.fb.emitf("br %s", head.label)
	fc.fb.switchTo(head)
	cond := fc.fb.reg()
	op := "lt"
	if rng.Inclusive {
		op = "le"
	}
	fc.fb.emitf("%s = %s %s, %s", cond, op, fc.vals[n.Name], end)
	fc.fb.emitf("br.if %s, %s, %s", cond, body.label, exit.label)
	fc.fb.switchTo(body)
	fc.compileBlockStmts(n.Body)
	next := fc.fb.reg()
	one := fc.fb.reg()
	fc.fb.emitf("%s = const.i64 1", one)
	fc.fb.emitf("%s = add %s, %s", next, fc.vals[n.Name], one)
	fc.vals[n.Name] = next
	fc.fb.emitf("br %s", head.label)
	fc.fb.switchTo(exit)
}

// compileIf lowers an if/else-if chain with a phi node at the merge block
// joining each branch's value, per spec.md §4.GN.
func (fc *fnCompiler) compileIf(n *ast.IfExpr) string {
	cond := fc.compileExpr(n.Cond)
	thenBlk := fc.fb.newBlock("if_then")
	elseBlk := fc.fb.newBlock("if_else")
	merge := fc.fb.newBlock("if_merge")
	fc.fb.emitf("br.if %s, %s, %s", cond, thenBlk.label, elseBlk.label)

	fc.fb.switchTo(thenBlk)
	thenVal := fc.compileBlockValue(n.Then)
	thenEnd := fc.fb.cur.label
	fc.fb.emitf("br %s", merge.label)

	fc.fb.switchTo(elseBlk)
	var elseVal string
	elseEnd := elseBlk.label
	if n.ElseIf != nil {
		elseVal = fc.compileIf(n.ElseIf)
		elseEnd = fc.fb.cur.label
	} else if n.Else != nil {
		elseVal = fc.compileBlockValue(n.Else)
		elseEnd = fc.fb.cur.label
	} else {
		elseVal = fc.fb.reg()
		fc.fb.emitf("%s = const.i64 0", elseVal)
	}
	fc.fb.emitf("br %s", merge.label)

	fc.fb.switchTo(merge)
	r := fc.fb.reg()
	fc.fb.emitf("%s = phi [%s, %s], [%s, %s]", r, thenVal, thenEnd, elseVal, elseEnd)
	return r
}
