// Package bytecode is the GW backend: it turns a monomorphized program into
// a module for a linear-memory stack machine, following spec.md §4.GW.
package bytecode

import (
	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/monomorphize"
)

// Generate compiles a monomorphized program to the GW backend's binary
// module, following spec.md §4.GW's main compilation order: compute struct
// layouts, compute enum layouts, collect strings (done lazily as each
// literal is first interned during compilation), collect lambdas, declare
// all functions (so mutually recursive calls can reference each other by
// index before any body is compiled), compile each named function body,
// compile the collected lambdas, then compile each component's render
// function.
func Generate(prog *monomorphize.Program) ([]byte, *diag.ErrorList) {
	errs := diag.NewErrorList()
	gc := &genCtx{
		table:      prog.Table,
		structs:    computeStructLayouts(prog.Table),
		enums:      computeEnumLayouts(prog.Table),
		components: map[string]*StructLayout{},
		mod:        newModule(),
		funcs:      prog.FuncsByName,
		consts:     map[string]ast.Expression{},
		lambdas:    newLambdaCollector(),
		errs:       errs,
	}

	var components []*ast.ComponentDecl
	for _, it := range prog.Items {
		switch n := it.(type) {
		case *ast.ConstDecl:
			gc.consts[n.Name] = n.Value
		case *ast.ComponentDecl:
			components = append(components, n)
			gc.components[n.Name] = computeComponentLayout(n)
		}
	}

	for _, fn := range prog.Funcs {
		gc.lambdas.visitBlock(fn.Body)
	}
	for _, c := range components {
		gc.lambdas.visitExpr(c.Render)
	}

	gc.mod.TableSize = len(gc.lambdas.order)

	// Declare every named function first so OpCall operands (function
	// table indices) are stable regardless of compilation order.
	for _, fn := range prog.Funcs {
		gc.mod.FuncIndex[fn.Name] = len(gc.mod.Functions)
		gc.mod.Functions = append(gc.mod.Functions, &Func{Name: fn.Name})
	}
	lambdaBase := len(gc.mod.Functions)
	for i, lam := range gc.lambdas.order {
		name := lambdaFuncName(i)
		gc.mod.FuncIndex[name] = lambdaBase + i
		gc.mod.Functions = append(gc.mod.Functions, &Func{Name: name, ParamCount: len(lam.Params)})
	}
	for _, c := range components {
		name := c.Name + "_render"
		gc.mod.FuncIndex[name] = len(gc.mod.Functions)
		gc.mod.Functions = append(gc.mod.Functions, &Func{Name: name, ParamCount: 1})
	}

	for _, fn := range prog.Funcs {
		compileNamedFunc(gc, fn)
	}
	for i, lam := range gc.lambdas.order {
		compileLambdaFunc(gc, i, lam)
	}
	for _, c := range components {
		compileComponentRender(gc, c)
	}

	return gc.mod.Encode(), errs
}

func lambdaFuncName(id int) string {
	return "$lambda" + itoa(id)
}

func compileNamedFunc(gc *genCtx, fn *monomorphize.Func) {
	la := preallocLocals(fn.Params, fn.Body)
	fc := newFnCompiler(gc, la)
	fc.compileBlockValue(fn.Body)
	fc.b.op(OpReturn)
	finalizeFunc(gc, fn.Name, len(fn.Params), fc)
}

func compileLambdaFunc(gc *genCtx, id int, lam *ast.LambdaExpr) {
	la := newLocalAllocator()
	for _, p := range lam.Params {
		la.declare(p.Name, LocalI64)
	}
	fc := newFnCompiler(gc, la)
	fc.compileExpr(lam.Body)
	fc.b.op(OpReturn)
	finalizeFunc(gc, lambdaFuncName(id), len(lam.Params), fc)
}

func finalizeFunc(gc *genCtx, name string, paramCount int, fc *fnCompiler) {
	idx := gc.mod.FuncIndex[name]
	f := gc.mod.Functions[idx]
	f.ParamCount = paramCount
	f.Locals = fc.la.types
	f.Code = fc.b.bytes()
}
