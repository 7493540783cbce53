package native

import (
	"fmt"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/monomorphize"
	"github.com/nyxlang/nyxc/internal/source"
	"github.com/nyxlang/nyxc/internal/types"
)

// genCtx is the module-wide state shared across every function this backend
// compiles, mirroring the bytecode backend's genCtx/fnCompiler split.
type genCtx struct {
	table   *types.Table
	structs map[string]*StructLayout
	funcs   map[string]*monomorphize.Func
	consts  map[string]ast.Expression
	errs    *diag.ErrorList
}

func (gc *genCtx) errorf(span source.Span, format string, args ...interface{}) {
	gc.errs.Add(diag.Codegen, span, fmt.Sprintf(format, args...))
}

// fnCompiler holds one function's in-progress IR builder plus its local
// name-to-register environment.
type fnCompiler struct {
	gc   *genCtx
	fb   *funcBuilder
	vals map[string]string
}

func newFnCompiler(gc *genCtx, fb *funcBuilder, params []string) *fnCompiler {
	fc := &fnCompiler{gc: gc, fb: fb, vals: map[string]string{}}
	for _, p := range params {
		fc.vals[p] = "%" + p
	}
	return fc
}

func sourceName(e ast.Expression) string {
	if id, ok := e.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}
