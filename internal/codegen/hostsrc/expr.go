package hostsrc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
)

func parseIntLit(s string) string {
	return strings.ReplaceAll(s, "_", "")
}

func parseFloatLit(s string) string {
	s = strings.ReplaceAll(s, "_", "")
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return "0"
	}
	return s
}

// printExpr renders an expression as Go source text. The source language's
// expression grammar is already close to Go's, so most cases are a direct
// syntax transcription rather than a structural lowering.
func printExpr(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.IntLit:
		return parseIntLit(n.Value)
	case *ast.FloatLit:
		return parseFloatLit(n.Value)
	case *ast.BoolLit:
		return strconv.FormatBool(n.Value)
	case *ast.StringLit:
		return strconv.Quote(n.Value)
	case *ast.FStringLit:
		return printFString(n)
	case *ast.Ident:
		return n.Name
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", printExpr(n.Left), goOp(n.Op), printExpr(n.Right))
	case *ast.UnaryExpr:
		return fmt.Sprintf("(%s%s)", goOp(n.Op), printExpr(n.Operand))
	case *ast.AssignExpr:
		return fmt.Sprintf("%s %s %s", printExpr(n.Target), n.Op, printExpr(n.Value))
	case *ast.CallExpr:
		return fmt.Sprintf("%s(%s)", printExpr(n.Callee), printArgs(n.Args))
	case *ast.MethodCallExpr:
		return fmt.Sprintf("%s.%s(%s)", printExpr(n.Receiver), n.Method, printArgs(n.Args))
	case *ast.FieldExpr:
		return fmt.Sprintf("%s.%s", printExpr(n.Object), n.Field)
	case *ast.IndexExpr:
		return fmt.Sprintf("%s[%s]", printExpr(n.Collection), printExpr(n.Index))
	case *ast.StructLit:
		return printStructLit(n)
	case *ast.TupleLit:
		parts := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			parts[i] = printExpr(el)
		}
		return "[]interface{}{" + strings.Join(parts, ", ") + "}"
	case *ast.ArrayLit:
		parts := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			parts[i] = printExpr(el)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ast.EnumConstructor:
		return printEnumConstructor(n)
	case *ast.LambdaExpr:
		return printLambda(n)
	case *ast.BlockExpr:
		return "func() interface{} {\n" + printBlockReturning(n.Block) + "}()"
	case *ast.IfExpr:
		return printIfExpr(n)
	case *ast.ReturnExpr:
		return "return " + printExpr(n.Value)
	case *ast.BreakExpr:
		return "break"
	case *ast.ContinueExpr:
		return "continue"
	case *ast.TryExpr:
		return printExpr(n.Expr)
	case *ast.CastExpr:
		return fmt.Sprintf("%s(%s)", goType(n.Type), printExpr(n.Expr))
	case *ast.RangeExpr:
		return fmt.Sprintf("%s:%s", printExpr(n.Start), printExpr(n.End))
	case *ast.AwaitExpr:
		return printExpr(n.Expr)
	case *ast.ComptimeExpr:
		return printExpr(n.Inner)
	case *ast.MacroCallExpr:
		return printMacro(n)
	default:
		return "nil"
	}
}

func goOp(op string) string {
	return op
}

func printArgs(args []ast.Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = printExpr(a)
	}
	return strings.Join(parts, ", ")
}

func printFString(n *ast.FStringLit) string {
	format := ""
	var args []string
	for _, p := range n.Parts {
		if p.IsExpr {
			format += "%v"
			args = append(args, printExpr(p.Expr))
		} else {
			format += strings.ReplaceAll(p.Text, "%", "%%")
		}
	}
	if len(args) == 0 {
		return strconv.Quote(format)
	}
	return fmt.Sprintf("fmt.Sprintf(%s, %s)", strconv.Quote(format), strings.Join(args, ", "))
}

func printStructLit(n *ast.StructLit) string {
	order := n.Order
	if len(order) == 0 {
		for k := range n.Fields {
			order = append(order, k)
		}
	}
	parts := make([]string, 0, len(order))
	for _, name := range order {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Title(name), printExpr(n.Fields[name])))
	}
	return fmt.Sprintf("%s{%s}", n.TypeName, strings.Join(parts, ", "))
}

func printEnumConstructor(n *ast.EnumConstructor) string {
	variant := n.Enum + "_" + n.Variant
	if len(n.Args) == 0 && len(n.Fields) == 0 {
		return fmt.Sprintf("%s{}", variant)
	}
	var parts []string
	for i, a := range n.Args {
		parts = append(parts, fmt.Sprintf("V%d: %s", i, printExpr(a)))
	}
	for name, v := range n.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Title(name), printExpr(v)))
	}
	return fmt.Sprintf("%s{%s}", variant, strings.Join(parts, ", "))
}

func printLambda(n *ast.LambdaExpr) string {
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = fmt.Sprintf("%s %s", p.Name, goType(p.Type))
	}
	return fmt.Sprintf("func(%s) interface{} { return %s }", strings.Join(params, ", "), printExpr(n.Body))
}

func printIfExpr(n *ast.IfExpr) string {
	return "func() interface{} {\n" + ifChain(n) + "\n}()"
}

func ifChain(n *ast.IfExpr) string {
	var b strings.Builder
	fmt.Fprintf(&b, "if %s {\n%s}", printExpr(n.Cond), printBlockReturning(n.Then))
	if n.ElseIf != nil {
		fmt.Fprintf(&b, " else %s", ifChain(n.ElseIf))
	} else if n.Else != nil {
		fmt.Fprintf(&b, " else {\n%s}", printBlockReturning(n.Else))
	}
	return b.String()
}

func printMacro(n *ast.MacroCallExpr) string {
	switch n.Name {
	case "println":
		return fmt.Sprintf("fmt.Println(%s)", printArgs(n.Args))
	case "print":
		return fmt.Sprintf("fmt.Print(%s)", printArgs(n.Args))
	case "dbg":
		return fmt.Sprintf("fmt.Printf(\"%%v\\n\", %s)", printArgs(n.Args))
	default:
		return fmt.Sprintf("%s(%s)", n.Name, printArgs(n.Args))
	}
}
