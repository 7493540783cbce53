package hostsrc

import "github.com/nyxlang/nyxc/internal/ast"

var builtinGoType = map[string]string{
	"Unit": "", "Bool": "bool", "Int": "int64", "Float": "float64",
	"String": "string", "Char": "rune",
}

// goType prints a type annotation as Go source text; struct/enum names pass
// through unchanged (PascalCase is already the source language's own
// naming convention for them), generic containers fall back to the bare
// element type since this backend is explicitly lighter-weight than the
// other three (spec.md §4.GT: "out of scope in detail").
func goType(te ast.TypeExpr) string {
	switch n := te.(type) {
	case nil:
		return ""
	case *ast.NamedType:
		if g, ok := builtinGoType[n.Name]; ok {
			return g
		}
		return n.Name
	case *ast.GenericType:
		if g, ok := builtinGoType[n.Name]; ok {
			return g
		}
		if len(n.Args) > 0 {
			return goType(n.Args[0])
		}
		return n.Name
	case *ast.ArrayType:
		return "[]" + goType(n.Elem)
	case *ast.SliceType:
		return "[]" + goType(n.Elem)
	case *ast.TupleType:
		return "interface{}"
	case *ast.RefType:
		return "*" + goType(n.Elem)
	case *ast.FuncType:
		return "func(...) interface{}"
	default:
		return "interface{}"
	}
}
