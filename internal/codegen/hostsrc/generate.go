// Package hostsrc is the GT backend: it traverses the typed program and
// prints Go source text, per spec.md §4.GT ("out of scope in detail...
// consume only the typed AST interface"). It is deliberately the
// lightest-weight of the four backends — a direct syntax transcription
// rather than a structural lowering, since the source language's
// expression and statement grammar is already close to Go's.
package hostsrc

import (
	"fmt"
	"go/format"
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/monomorphize"
	"github.com/nyxlang/nyxc/internal/source"
)

// Generate prints the program as formatted Go source: build the whole file
// into a strings.Builder, format once at the end, and return the
// unformatted text plus a diagnostic if formatting fails.
func Generate(prog *monomorphize.Program) ([]byte, *diag.ErrorList) {
	errs := diag.NewErrorList()
	var b strings.Builder
	b.WriteString("package main\n\n")
	b.WriteString("import \"fmt\"\n\n")

	for _, it := range prog.Items {
		switch n := it.(type) {
		case *ast.StructDecl:
			b.WriteString(printStructDecl(n))
		case *ast.EnumDecl:
			b.WriteString(printEnumDecl(n))
		case *ast.ConstDecl:
			fmt.Fprintf(&b, "var %s = %s\n\n", n.Name, printExpr(n.Value))
		}
	}

	for _, fn := range prog.Funcs {
		b.WriteString(printFunc(fn))
	}

	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		errs.Add(diag.Codegen, source.Span{}, fmt.Sprintf("go/format: %v", err))
		return []byte(b.String()), errs
	}
	return formatted, errs
}

func printStructDecl(n *ast.StructDecl) string {
	var b strings.Builder
	fmt.Fprintf(&b, "type %s struct {\n", n.Name)
	for _, f := range n.Fields {
		fmt.Fprintf(&b, "%s %s\n", strings.Title(f.Name), goType(f.Type))
	}
	b.WriteString("}\n\n")
	return b.String()
}

// printEnumDecl emits a marker interface plus one struct per variant, the
// idiomatic Go sum-type encoding: unit variants get an empty struct, tuple
// variants get positional V0/V1/... fields, struct variants keep field names.
func printEnumDecl(n *ast.EnumDecl) string {
	var b strings.Builder
	iface := n.Name
	fmt.Fprintf(&b, "type %s interface { is%s() }\n\n", iface, iface)
	for _, v := range n.Variants {
		name := n.Name + "_" + v.Name
		switch v.Kind {
		case ast.VariantUnit:
			fmt.Fprintf(&b, "type %s struct{}\n", name)
		case ast.VariantTuple:
			fmt.Fprintf(&b, "type %s struct {\n", name)
			for i, t := range v.Tuple {
				fmt.Fprintf(&b, "V%d %s\n", i, goType(t))
			}
			b.WriteString("}\n")
		case ast.VariantStruct:
			fmt.Fprintf(&b, "type %s struct {\n", name)
			for _, f := range v.Fields {
				fmt.Fprintf(&b, "%s %s\n", strings.Title(f.Name), goType(f.Type))
			}
			b.WriteString("}\n")
		}
		fmt.Fprintf(&b, "func (%s) is%s() {}\n\n", name, iface)
	}
	return b.String()
}

func printFunc(fn *monomorphize.Func) string {
	var b strings.Builder
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %s", p.Name, goType(p.Type))
	}
	recv := ""
	if fn.Receiver != "" {
		recv = fmt.Sprintf("(self *%s) ", fn.Receiver)
	}
	name := fn.Name
	if fn.Receiver != "" {
		name = strings.TrimPrefix(fn.Name, fn.Receiver+"_")
	}
	ret := goType(fn.ReturnType)
	if ret != "" {
		ret = " " + ret
	}
	fmt.Fprintf(&b, "func %s%s(%s)%s {\n", recv, name, strings.Join(params, ", "), ret)
	if fn.Body != nil {
		b.WriteString(printBlockReturning(fn.Body))
	}
	b.WriteString("}\n\n")
	return b.String()
}
