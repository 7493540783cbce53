// Package native is the GN backend: it lowers a monomorphized program into
// textual IR for a native toolchain, following spec.md §4.GN —
// reference-counted heap objects, destructors for pointer-bearing structs,
// actor run-loops over a polled mailbox, and expression lowering with named
// SSA registers, explicit basic blocks, and phi nodes at merge points.
package native

import (
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/monomorphize"
)

// Generate compiles a monomorphized program to the GN backend's textual IR.
func Generate(prog *monomorphize.Program) ([]byte, *diag.ErrorList) {
	errs := diag.NewErrorList()
	gc := &genCtx{
		table:   prog.Table,
		structs: computeStructLayouts(prog.Table),
		funcs:   prog.FuncsByName,
		consts:  map[string]ast.Expression{},
		errs:    errs,
	}
	for name, layout := range computeActorLayouts(prog.Table) {
		gc.structs[name] = layout
	}

	var actors []*ast.ActorDecl
	for _, it := range prog.Items {
		switch n := it.(type) {
		case *ast.ConstDecl:
			gc.consts[n.Name] = n.Value
		case *ast.ActorDecl:
			actors = append(actors, n)
		}
	}

	var out strings.Builder
	out.WriteString("module:\n")
	out.WriteString("import alloc(size) -> ptr\n")
	out.WriteString("import retain(ptr)\n")
	out.WriteString("import release(ptr)\n")
	out.WriteString("import mq_pop(mailbox) -> (ok, tag, data)\n")
	out.WriteString("import sleep(seconds)\n")
	out.WriteString("import spawn(fn_ptr, self_ptr)\n\n")

	for name, layout := range gc.structs {
		if layout.HasPtrFld {
			out.WriteString(compileDestructor(name, layout))
			out.WriteString("\n")
		}
	}

	for _, fn := range prog.Funcs {
		out.WriteString(compileFunc(gc, fn))
		out.WriteString("\n")
	}

	for _, a := range actors {
		out.WriteString(compileActorSpawn(gc, a))
		out.WriteString("\n")
		out.WriteString(compileActorRunLoop(gc, a))
		out.WriteString("\n")
	}

	return []byte(out.String()), errs
}

func compileFunc(gc *genCtx, fn *monomorphize.Func) string {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name
	}
	if fn.Kind == monomorphize.KindMethod || fn.Kind == monomorphize.KindHandler {
		params = append([]string{"self"}, params...)
	}
	fb := newFuncBuilder(fn.Name, params)
	fc := newFnCompiler(gc, fb, params)
	if fn.Body != nil {
		v := fc.compileBlockValue(fn.Body)
		fb.emitf("ret %s", v)
	}
	return fb.text()
}
