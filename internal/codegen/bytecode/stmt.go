package bytecode

import (
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/monomorphize"
)

// compileBlockValue compiles a block so that exactly one value is left on
// the stack: every non-final statement's expression result is dropped, the
// final statement's value (if it is an expression statement) survives,
// mirroring the interpreter's evalBlock "last statement is the value" rule.
func (fc *fnCompiler) compileBlockValue(b *ast.Block) {
	if b == nil || len(b.Stmts) == 0 {
		fc.b.op(OpConstI64).i64(0)
		return
	}
	for i, s := range b.Stmts {
		last := i == len(b.Stmts)-1
		if last {
			if es, ok := s.(*ast.ExprStmt); ok {
				fc.compileExpr(es.Expr)
				continue
			}
		}
		fc.compileStmt(s)
	}
	if _, ok := b.Stmts[len(b.Stmts)-1].(*ast.ExprStmt); !ok {
		fc.b.op(OpConstI64).i64(0)
	}
}

// compileBlockStmts compiles every statement in a block for its side
// effects only, dropping every expression-statement's value — used for
// loop bodies, whose value is never needed.
func (fc *fnCompiler) compileBlockStmts(b *ast.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		fc.compileStmt(s)
	}
}

func (fc *fnCompiler) compileStmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.LetStmt:
		idx, ok := fc.localSlot(n.Decl.Name)
		if !ok {
			idx = fc.la.declare(n.Decl.Name, inferLocalType(n.Decl.Value))
		}
		fc.compileExpr(n.Decl.Value)
		fc.b.op(OpLocalSet).u32(uint32(idx))
	case *ast.ReturnStmt:
		if n.Value != nil {
			fc.compileExpr(n.Value)
		} else {
			fc.b.op(OpConstI64).i64(0)
		}
		fc.b.op(OpReturn)
	case *ast.WhileStmt:
		fc.compileWhile(n)
	case *ast.ForStmt:
		fc.compileFor(n)
	case *ast.LoopStmt:
		fc.b.op(OpLoop)
		fc.compileBlockStmts(n.Body)
		fc.b.op(OpEnd)
	case *ast.BreakStmt:
		fc.b.op(OpBreak)
	case *ast.ContinueStmt:
		fc.b.op(OpContinue)
	case *ast.ExprStmt:
		fc.compileExpr(n.Expr)
		if !isVoidExpr(n.Expr) {
			fc.b.op(OpDrop)
		}
	}
}

// isVoidExpr reports whether an expression statement's compiled form
// already leaves nothing to drop (control-flow forms that end in an
// explicit OpReturn/OpBreak/OpContinue with no trailing value).
func isVoidExpr(e ast.Expression) bool {
	switch e.(type) {
	case *ast.ReturnExpr, *ast.BreakExpr, *ast.ContinueExpr:
		return true
	default:
		return false
	}
}

func (fc *fnCompiler) compileWhile(n *ast.WhileStmt) {
	fc.b.op(OpLoop)
	fc.compileExpr(n.Cond)
	fc.b.op(OpNot)
	fc.b.op(OpBreakIf)
	fc.compileBlockStmts(n.Body)
	fc.b.op(OpEnd)
}

// compileFor lowers `for name in start..end: body` to `i := start; while i <
// (end|=end) { body; i := i + 1 }`, spec.md §4.GW's range-for rule. Other
// iterable shapes (arrays) walk the collection by index using the same
// pattern against its length prefix.
func (fc *fnCompiler) compileFor(n *ast.ForStmt) {
	idx, ok := fc.localSlot(n.Name)
	if !ok {
		idx = fc.la.declare(n.Name, LocalI64)
	}
	if rng, isRange := n.Iter.(*ast.RangeExpr); isRange {
		if rng.Start != nil {
			fc.compileExpr(rng.Start)
		} else {
			fc.b.op(OpConstI64).i64(0)
		}
		fc.b.op(OpLocalSet).u32(uint32(idx))

		endLocal := fc.tmp(LocalI64)
		if rng.End != nil {
			fc.compileExpr(rng.End)
		} else {
			fc.b.op(OpConstI64).i64(0)
		}
		fc.b.op(OpLocalSet).u32(uint32(endLocal))

		fc.b.op(OpLoop)
		fc.b.op(OpLocalGet).u32(uint32(idx))
		fc.b.op(OpLocalGet).u32(uint32(endLocal))
		if rng.Inclusive {
			fc.b.op(OpGt)
		} else {
			fc.b.op(OpGe)
		}
		fc.b.op(OpBreakIf)
		fc.compileBlockStmts(n.Body)
		fc.b.op(OpLocalGet).u32(uint32(idx))
		fc.b.op(OpConstI64).i64(1)
		fc.b.op(OpAdd)
		fc.b.op(OpLocalSet).u32(uint32(idx))
		fc.b.op(OpEnd)
		return
	}

	// Collection iteration: walk by index against the array's length
	// prefix, loading each element into the loop variable.
	cursor := fc.tmp(LocalI64)
	collection := fc.tmp(LocalI64)
	fc.compileExpr(n.Iter)
	fc.b.op(OpLocalSet).u32(uint32(collection))
	fc.b.op(OpConstI64).i64(0)
	fc.b.op(OpLocalSet).u32(uint32(cursor))

	fc.b.op(OpLoop)
	fc.b.op(OpLocalGet).u32(uint32(cursor))
	fc.b.op(OpLocalGet).u32(uint32(collection))
	fc.b.op(OpLoad32)
	fc.b.op(OpGe)
	fc.b.op(OpBreakIf)

	fc.b.op(OpLocalGet).u32(uint32(collection))
	fc.b.op(OpConstI32).i64(4)
	fc.b.op(OpAdd)
	fc.b.op(OpLocalGet).u32(uint32(cursor))
	fc.b.op(OpConstI32).i64(8)
	fc.b.op(OpMul)
	fc.b.op(OpAdd)
	fc.b.op(OpLoad64)
	fc.b.op(OpLocalSet).u32(uint32(idx))

	fc.compileBlockStmts(n.Body)

	fc.b.op(OpLocalGet).u32(uint32(cursor))
	fc.b.op(OpConstI64).i64(1)
	fc.b.op(OpAdd)
	fc.b.op(OpLocalSet).u32(uint32(cursor))
	fc.b.op(OpEnd)
}

func (fc *fnCompiler) compileIf(n *ast.IfExpr) {
	fc.compileExpr(n.Cond)
	fc.b.op(OpIf)
	fc.compileBlockValue(n.Then)
	fc.b.op(OpElse)
	switch {
	case n.ElseIf != nil:
		fc.compileIf(n.ElseIf)
	case n.Else != nil:
		fc.compileBlockValue(n.Else)
	default:
		fc.b.op(OpConstI64).i64(0)
	}
	fc.b.op(OpEnd)
}

func (fc *fnCompiler) compileAssign(n *ast.AssignExpr) {
	op := strings.TrimSuffix(n.Op, "=")
	switch target := n.Target.(type) {
	case *ast.Ident:
		idx, ok := fc.localSlot(target.Name)
		if !ok {
			idx = fc.la.declare(target.Name, LocalI64)
		}
		if op == "" {
			fc.compileExpr(n.Value)
		} else {
			fc.b.op(OpLocalGet).u32(uint32(idx))
			fc.compileExpr(n.Value)
			fc.emitArith(op)
		}
		fc.b.op(OpLocalSet).u32(uint32(idx))
		fc.b.op(OpLocalGet).u32(uint32(idx))
	case *ast.FieldExpr:
		if op == "" {
			fc.compileFieldAddr(target)
			fc.compileExpr(n.Value)
		} else {
			fc.compileFieldAddr(target)
			fc.compileFieldLoad(target)
			fc.compileExpr(n.Value)
			fc.emitArith(op)
		}
		fc.b.op(OpStore64)
		fc.compileFieldLoad(target)
	case *ast.IndexExpr:
		if op == "" {
			fc.compileIndexAddr(target)
			fc.compileExpr(n.Value)
		} else {
			fc.compileIndexAddr(target)
			fc.compileIndexLoad(target)
			fc.compileExpr(n.Value)
			fc.emitArith(op)
		}
		fc.b.op(OpStore64)
		fc.compileIndexLoad(target)
	default:
		fc.compileExpr(n.Value)
	}
}

func (fc *fnCompiler) emitArith(op string) {
	switch op {
	case "+":
		fc.b.op(OpAdd)
	case "-":
		fc.b.op(OpSub)
	case "*":
		fc.b.op(OpMul)
	case "/":
		fc.b.op(OpDiv)
	default:
		fc.b.op(OpAdd)
	}
}

func (fc *fnCompiler) compileCall(n *ast.CallExpr) {
	id, ok := n.Callee.(*ast.Ident)
	if !ok {
		fc.compileExpr(n.Callee)
		for _, a := range n.Args {
			fc.compileExpr(a)
		}
		fc.b.op(OpCallIndirect).u32(uint32(len(n.Args)))
		return
	}
	switch id.Name {
	case "print", "println":
		for _, a := range n.Args {
			fc.compileExpr(a)
		}
		fc.b.op(OpCallImport).u32(uint32(fc.gc.mod.hostImportIndex("print_string")))
		return
	case "to_string":
		for _, a := range n.Args {
			fc.compileExpr(a)
		}
		fc.b.op(OpCallImport).u32(uint32(fc.gc.mod.hostImportIndex("int_to_string")))
		return
	case "now":
		fc.b.op(OpCallImport).u32(uint32(fc.gc.mod.hostImportIndex("wall_time")))
		return
	}
	if idx := fc.gc.mod.hostImportIndex(id.Name); idx >= 0 && strings.HasPrefix(id.Name, "dom_") {
		for _, a := range n.Args {
			fc.compileExpr(a)
		}
		fc.b.op(OpCallImport).u32(uint32(idx))
		return
	}
	if _, ok := fc.gc.funcs[id.Name]; ok {
		for _, a := range n.Args {
			fc.compileExpr(a)
		}
		fc.b.op(OpCall).u32(uint32(fc.gc.mod.FuncIndex[id.Name]))
		return
	}
	if localIdx, ok := fc.localSlot(id.Name); ok {
		fc.b.op(OpLocalGet).u32(uint32(localIdx))
		for _, a := range n.Args {
			fc.compileExpr(a)
		}
		fc.b.op(OpCallIndirect).u32(uint32(len(n.Args)))
		return
	}
	fc.gc.errorf(n.Span, "codegen: call to unknown function %q", id.Name)
	fc.b.op(OpConstI64).i64(0)
}

// compileMethodCall handles a MethodCallExpr the monomorphizer's approximate
// receiver-type inference left unresolved (spec.md documents that method
// calls on an undetermined receiver type are left as MethodCallExpr rather
// than guessed at monomorphization time). The bytecode backend makes one
// best-effort attempt: find the unique monomorphized method with this name.
func (fc *fnCompiler) compileMethodCall(n *ast.MethodCallExpr) {
	var match string
	count := 0
	for name, fn := range fc.gc.funcs {
		if fn.Kind == monomorphize.KindMethod && strings.HasSuffix(name, "_"+n.Method) {
			match = name
			count++
		}
	}
	if count != 1 {
		fc.gc.errorf(n.Span, "codegen: cannot resolve method call %q", n.Method)
		fc.b.op(OpConstI64).i64(0)
		return
	}
	fc.compileExpr(n.Receiver)
	for _, a := range n.Args {
		fc.compileExpr(a)
	}
	fc.b.op(OpCall).u32(uint32(fc.gc.mod.FuncIndex[match]))
}
