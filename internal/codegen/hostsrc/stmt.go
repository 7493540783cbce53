package hostsrc

import (
	"fmt"
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
)

// printBlockReturning renders a block whose final expression statement's
// value should be wrapped in `return`, matching the source language's own
// implicit-last-expression-is-the-value semantics carried over from
// internal/interp's block evaluation.
func printBlockReturning(b *ast.Block) string {
	var out strings.Builder
	for i, st := range b.Stmts {
		if i == len(b.Stmts)-1 {
			if es, ok := st.(*ast.ExprStmt); ok {
				fmt.Fprintf(&out, "return %s\n", printExpr(es.Expr))
				continue
			}
		}
		out.WriteString(printStmt(st))
	}
	return out.String()
}

func printBlock(b *ast.Block) string {
	var out strings.Builder
	for _, st := range b.Stmts {
		out.WriteString(printStmt(st))
	}
	return out.String()
}

func printStmt(st ast.Statement) string {
	switch n := st.(type) {
	case *ast.LetStmt:
		if n.Decl.Value == nil {
			return fmt.Sprintf("var %s %s\n", n.Decl.Name, goType(n.Decl.Type))
		}
		return fmt.Sprintf("%s := %s\n", n.Decl.Name, printExpr(n.Decl.Value))
	case *ast.ReturnStmt:
		if n.Value == nil {
			return "return\n"
		}
		return fmt.Sprintf("return %s\n", printExpr(n.Value))
	case *ast.WhileStmt:
		return fmt.Sprintf("for %s {\n%s}\n", printExpr(n.Cond), printBlock(n.Body))
	case *ast.ForStmt:
		if rng, ok := n.Iter.(*ast.RangeExpr); ok {
			op := "<"
			if rng.Inclusive {
				op = "<="
			}
			return fmt.Sprintf("for %s := %s; %s %s %s; %s++ {\n%s}\n",
				n.Name, printExpr(rng.Start), n.Name, op, printExpr(rng.End), n.Name, printBlock(n.Body))
		}
		return fmt.Sprintf("for _, %s := range %s {\n%s}\n", n.Name, printExpr(n.Iter), printBlock(n.Body))
	case *ast.LoopStmt:
		return fmt.Sprintf("for {\n%s}\n", printBlock(n.Body))
	case *ast.BreakStmt:
		return "break\n"
	case *ast.ContinueStmt:
		return "continue\n"
	case *ast.ExprStmt:
		return printExpr(n.Expr) + "\n"
	default:
		return ""
	}
}
