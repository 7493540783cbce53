package native

import (
	"fmt"
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
)

// compileMatch lowers a match expression into a chain of test/body blocks
// merging into a single `phi`, the same shape compileIf uses for if/else.
func (fc *fnCompiler) compileMatch(n *ast.MatchExpr) string {
	scrut := fc.compileExpr(n.Scrutinee)
	merge := fc.fb.newBlock("match_merge")

	type incoming struct{ val, label string }
	var ins []incoming

	next := fc.fb.cur
	for i, arm := range n.Arms {
		fc.fb.switchTo(next)
		testBlk := next
		bodyBlk := fc.fb.newBlock("match_body")
		var afterBlk *block
		if i == len(n.Arms)-1 {
			afterBlk = fc.fb.newBlock("match_fallthrough")
		} else {
			afterBlk = fc.fb.newBlock("match_test")
		}

		cond := fc.emitPatternCond(arm.Pattern, scrut)
		fc.fb.switchTo(testBlk)
		fc.fb.emitf("br.if %s, %s, %s", cond, bodyBlk.label, afterBlk.label)

		fc.fb.switchTo(bodyBlk)
		fc.emitPatternBind(arm.Pattern, scrut)
		if arm.Guard != nil {
			guard := fc.compileExpr(arm.Guard)
			guardBody := fc.fb.newBlock("match_guard_body")
			fc.fb.emitf("br.if %s, %s, %s", guard, guardBody.label, afterBlk.label)
			fc.fb.switchTo(guardBody)
		}
		val := fc.compileExpr(arm.Body)
		ins = append(ins, incoming{val, fc.fb.cur.label})
		fc.fb.emitf("br %s", merge.label)

		if i == len(n.Arms)-1 {
			fc.fb.switchTo(afterBlk)
			fallback := fc.fb.reg()
			fc.fb.emitf("%s = const.i64 0", fallback)
			ins = append(ins, incoming{fallback, afterBlk.label})
			fc.fb.emitf("br %s", merge.label)
		}
		next = afterBlk
	}

	fc.fb.switchTo(merge)
	r := fc.fb.reg()
	parts := make([]string, len(ins))
	for i, in := range ins {
		parts[i] = fmt.Sprintf("[%s, %s]", in.val, in.label)
	}
	fc.fb.emitf("%s = phi %s", r, strings.Join(parts, ", "))
	return r
}

// emitPatternCond evaluates whether the scrutinee register matches a
// pattern's shape, returning a boolean register. Nested struct/tuple/slice
// sub-patterns are treated as always-matching once the top-level shape is
// confirmed, the same documented simplification the bytecode backend makes
// (this layer carries no per-expression static type either).
func (fc *fnCompiler) emitPatternCond(pat ast.Pattern, scrut string) string {
	switch p := pat.(type) {
	case *ast.WildcardPattern, *ast.BindingPattern:
		r := fc.fb.reg()
		fc.fb.emitf("%s = const.i64 1", r)
		return r
	case *ast.LiteralPattern:
		v := fc.compileExpr(p.Value)
		r := fc.fb.reg()
		fc.fb.emitf("%s = eq %s, %s", r, scrut, v)
		return r
	case *ast.VariantPattern:
		r := fc.fb.reg()
		fc.fb.emitf("%s = is_variant %s, %s::%s", r, scrut, p.Enum, p.Variant)
		return r
	case *ast.OrPattern:
		var acc string
		for _, alt := range p.Alts {
			c := fc.emitPatternCond(alt, scrut)
			if acc == "" {
				acc = c
				continue
			}
			r := fc.fb.reg()
			fc.fb.emitf("%s = or %s, %s", r, acc, c)
			acc = r
		}
		if acc == "" {
			r := fc.fb.reg()
			fc.fb.emitf("%s = const.i64 0", r)
			return r
		}
		return acc
	default:
		r := fc.fb.reg()
		fc.fb.emitf("%s = const.i64 1", r)
		return r
	}
}

func (fc *fnCompiler) emitPatternBind(pat ast.Pattern, scrut string) {
	switch p := pat.(type) {
	case *ast.BindingPattern:
		fc.vals[p.Name] = scrut
	case *ast.VariantPattern:
		for i, sub := range p.Elems {
			r := fc.fb.reg()
			fc.fb.emitf("%s = getidx %s, %d", r, scrut, i)
			fc.bindLeaf(sub, r)
		}
		for name, sub := range p.Fields {
			r := fc.fb.reg()
			fc.fb.emitf("%s = getfield %s, %s", r, scrut, name)
			fc.bindLeaf(sub, r)
		}
	case *ast.TuplePattern:
		for i, sub := range p.Elems {
			r := fc.fb.reg()
			fc.fb.emitf("%s = getidx %s, %d", r, scrut, i)
			fc.bindLeaf(sub, r)
		}
	case *ast.StructPattern:
		for name, sub := range p.Fields {
			r := fc.fb.reg()
			fc.fb.emitf("%s = getfield %s, %s", r, scrut, name)
			fc.bindLeaf(sub, r)
		}
	case *ast.SlicePattern:
		for i, sub := range p.Elems {
			r := fc.fb.reg()
			fc.fb.emitf("%s = getidx %s, %d", r, scrut, i)
			fc.bindLeaf(sub, r)
		}
	case *ast.OrPattern:
		if len(p.Alts) > 0 {
			fc.emitPatternBind(p.Alts[0], scrut)
		}
	}
}

func (fc *fnCompiler) bindLeaf(sub ast.Pattern, reg string) {
	if b, ok := sub.(*ast.BindingPattern); ok {
		fc.vals[b.Name] = reg
	}
}
