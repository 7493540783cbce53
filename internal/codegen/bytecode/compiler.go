package bytecode

import (
	"fmt"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/mangle"
	"github.com/nyxlang/nyxc/internal/monomorphize"
	"github.com/nyxlang/nyxc/internal/source"
	"github.com/nyxlang/nyxc/internal/types"
)

// genCtx is shared, module-wide compilation state: the resolved-type table,
// precomputed struct/enum layouts, the module under construction, every
// monomorphized function by name, every top-level const's initializer (for
// the const-identifier fold below), and the lambda id assignment.
type genCtx struct {
	table      *types.Table
	structs    map[string]*StructLayout
	enums      map[string]*EnumLayout
	components map[string]*StructLayout
	mod        *Module
	funcs      map[string]*monomorphize.Func
	consts     map[string]ast.Expression
	lambdas    *lambdaCollector
	errs       *diag.ErrorList
}

func (gc *genCtx) errorf(span source.Span, format string, args ...interface{}) {
	gc.errs.Add(diag.Codegen, span, fmt.Sprintf(format, args...))
}

// fieldOffset resolves a bare field name to a struct field offset. The
// bytecode backend's AST has no per-expression type annotation, so a field
// access is resolved by scanning every struct layout for a matching field
// name; ambiguous names (shared across more than one struct) take the first
// match in table iteration order, a known simplification for this backend.
func (gc *genCtx) fieldOffset(name string) (int, bool) {
	for _, layout := range gc.structs {
		if off, ok := layout.Offsets[name]; ok {
			return off, true
		}
	}
	for _, layout := range gc.components {
		if off, ok := layout.Offsets[name]; ok {
			return off, true
		}
	}
	return 0, false
}

// enumVariantTag returns a variant's stable ordinal within its enum's
// declaration order, used as the bytecode tag value.
func enumVariantTag(t *types.Type, variant string) int {
	for i, v := range t.Variants {
		if v.Name == variant {
			return i
		}
	}
	return 0
}

// findEnumByVariant locates the enum type that declares a given unqualified
// variant name, used when a VariantPattern or EnumConstructor omits the
// enum name.
func (gc *genCtx) findEnumByVariant(variant string) (string, *types.Type) {
	for name, t := range gc.table.Enums {
		for _, v := range t.Variants {
			if v.Name == variant {
				return name, t
			}
		}
	}
	return "", nil
}

// fnCompiler compiles one function body to a linear instruction stream.
type fnCompiler struct {
	gc       *genCtx
	b        *asm
	la       *localAllocator
	tmpCount int
}

func newFnCompiler(gc *genCtx, la *localAllocator) *fnCompiler {
	return &fnCompiler{gc: gc, b: newAsm(), la: la}
}

// tmp declares a fresh synthetic local not visible to source-level code,
// used to hold a match scrutinee or an intermediate address twice-computed.
func (fc *fnCompiler) tmp(lt LocalType) int {
	fc.tmpCount++
	name := "$tmp" + itoa(fc.tmpCount)
	return fc.la.declare(name, lt)
}

func (fc *fnCompiler) localSlot(name string) (int, bool) {
	return fc.la.lookup(name)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// hostImportIndex returns an import's index in the module's fixed import
// table, or -1 if name isn't a recognized host primitive.
func (m *Module) hostImportIndex(name string) int {
	for i, n := range m.Imports {
		if n == name {
			return i
		}
	}
	return -1
}

// methodName mirrors the monomorphizer's own mangling so a still-unresolved
// MethodCallExpr can be retried against a best-guess receiver type.
func methodName(receiverType, method string) string {
	return mangle.Method(receiverType, method)
}
