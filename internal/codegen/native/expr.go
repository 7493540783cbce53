package native

import (
	"strconv"
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
)

func parseIntLit(s string) int64 {
	s = strings.ReplaceAll(s, "_", "")
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloatLit(s string) float64 {
	s = strings.ReplaceAll(s, "_", "")
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func isStringLike(e ast.Expression) bool {
	switch e.(type) {
	case *ast.StringLit, *ast.FStringLit:
		return true
	default:
		return false
	}
}

// isStringOperand extends isStringLike to identifiers naming a String-typed
// parameter of the function being compiled.
func (fc *fnCompiler) isStringOperand(e ast.Expression) bool {
	if id, ok := e.(*ast.Ident); ok && fc.gc.funcs[fc.fb.name] != nil {
		for _, p := range fc.gc.funcs[fc.fb.name].Params {
			if nt, ok := p.Type.(*ast.NamedType); ok && p.Name == id.Name && nt.Name == "String" {
				return true
			}
		}
	}
	return isStringLike(e)
}

// compileExpr lowers an expression to its named SSA register, mirroring the
// bytecode backend's compileExpr but emitting textual named-register
// instructions instead of a stack-machine opcode stream.
func (fc *fnCompiler) compileExpr(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.IntLit:
		r := fc.fb.reg()
		fc.fb.emitf("%s = const.i64 %d", r, parseIntLit(n.Value))
		return r
	case *ast.FloatLit:
		r := fc.fb.reg()
		fc.fb.emitf("%s = const.f64 %f", r, parseFloatLit(n.Value))
		return r
	case *ast.BoolLit:
		r := fc.fb.reg()
		v := 0
		if n.Value {
			v = 1
		}
		fc.fb.emitf("%s = const.i64 %d", r, v)
		return r
	case *ast.StringLit:
		r := fc.fb.reg()
		fc.fb.emitf("%s = const.str %q", r, n.Value)
		return r
	case *ast.FStringLit:
		return fc.compileFString(n)
	case *ast.Ident:
		if r, ok := fc.vals[n.Name]; ok {
			return r
		}
		if v, ok := fc.gc.consts[n.Name]; ok {
			return fc.compileExpr(v)
		}
		fc.gc.errorf(n.Span, "undefined identifier %q", n.Name)
		r := fc.fb.reg()
		fc.fb.emitf("%s = const.i64 0", r)
		return r
	case *ast.BinaryExpr:
		return fc.compileBinary(n)
	case *ast.UnaryExpr:
		v := fc.compileExpr(n.Operand)
		r := fc.fb.reg()
		op := "neg"
		if n.Op == "!" {
			op = "not"
		}
		fc.fb.emitf("%s = %s %s", r, op, v)
		return r
	case *ast.CallExpr:
		return fc.compileCall(n)
	case *ast.MethodCallExpr:
		return fc.compileMethodCall(n)
	case *ast.FieldExpr:
		obj := fc.compileExpr(n.Object)
		r := fc.fb.reg()
		fc.fb.emitf("%s = getfield %s, %s", r, obj, n.Field)
		return r
	case *ast.IndexExpr:
		base := fc.compileExpr(n.Collection)
		idx := fc.compileExpr(n.Index)
		r := fc.fb.reg()
		fc.fb.emitf("%s = getidx %s, %s", r, base, idx)
		return r
	case *ast.StructLit:
		return fc.compileStructLit(n)
	case *ast.TupleLit:
		return fc.compileComposite("tuple", nil, n.Elems)
	case *ast.ArrayLit:
		return fc.compileComposite("array", nil, n.Elems)
	case *ast.EnumConstructor:
		return fc.compileEnumConstructor(n)
	case *ast.AssignExpr:
		return fc.compileAssign(n)
	case *ast.BlockExpr:
		return fc.compileBlockValue(n.Block)
	case *ast.IfExpr:
		return fc.compileIf(n)
	case *ast.MatchExpr:
		return fc.compileMatch(n)
	case *ast.ReturnExpr:
		v := fc.compileExpr(n.Value)
		fc.fb.emitf("ret %s", v)
		return v
	case *ast.BreakExpr:
		fc.fb.emitf("br.break")
		r := fc.fb.reg()
		fc.fb.emitf("%s = const.i64 0", r)
		return r
	case *ast.ContinueExpr:
		fc.fb.emitf("br.continue")
		r := fc.fb.reg()
		fc.fb.emitf("%s = const.i64 0", r)
		return r
	case *ast.TryExpr:
		return fc.compileExpr(n.Expr)
	case *ast.CastExpr:
		return fc.compileExpr(n.Expr)
	case *ast.AwaitExpr:
		return fc.compileExpr(n.Expr)
	case *ast.RangeExpr:
		r := fc.fb.reg()
		start := fc.compileExpr(n.Start)
		end := fc.compileExpr(n.End)
		fc.fb.emitf("%s = range %s, %s, inclusive=%t", r, start, end, n.Inclusive)
		return r
	case *ast.MacroCallExpr:
		return fc.compileMacroCall(n)
	case *ast.ComptimeExpr:
		return fc.compileExpr(n.Inner)
	default:
		r := fc.fb.reg()
		fc.fb.emitf("%s = const.i64 0", r)
		return r
	}
}

func (fc *fnCompiler) compileFString(n *ast.FStringLit) string {
	var acc string
	for _, part := range n.Parts {
		var v string
		if part.IsExpr {
			inner := fc.compileExpr(part.Expr)
			v = fc.fb.reg()
			fc.fb.emitf("%s = to_string %s", v, inner)
		} else {
			v = fc.fb.reg()
			fc.fb.emitf("%s = const.str %q", v, part.Text)
		}
		if acc == "" {
			acc = v
			continue
		}
		r := fc.fb.reg()
		fc.fb.emitf("%s = str_concat %s, %s", r, acc, v)
		acc = r
	}
	if acc == "" {
		r := fc.fb.reg()
		fc.fb.emitf("%s = const.str \"\"", r)
		return r
	}
	return acc
}

func (fc *fnCompiler) compileBinary(n *ast.BinaryExpr) string {
	if n.Op == "&&" || n.Op == "||" {
		return fc.compileShortCircuit(n)
	}
	l := fc.compileExpr(n.Left)
	r := fc.compileExpr(n.Right)
	res := fc.fb.reg()
	if n.Op == "==" && (fc.isStringOperand(n.Left) || fc.isStringOperand(n.Right)) {
		fc.fb.emitf("%s = deep_eq %s, %s", res, l, r)
		return res
	}
	op := map[string]string{
		"+": "add", "-": "sub", "*": "mul", "/": "div", "%": "mod",
		"==": "eq", "!=": "neq", "<": "lt", "<=": "le", ">": "gt", ">=": "ge",
	}[n.Op]
	if op == "" {
		op = "add"
	}
	if n.Op == "+" && (isStringLike(n.Left) || isStringLike(n.Right)) {
		op = "str_concat"
	}
	fc.fb.emitf("%s = %s %s, %s", res, op, l, r)
	return res
}

func (fc *fnCompiler) compileShortCircuit(n *ast.BinaryExpr) string {
	l := fc.compileExpr(n.Left)
	r := fc.compileExpr(n.Right)
	res := fc.fb.reg()
	op := "and"
	if n.Op == "||" {
		op = "or"
	}
	fc.fb.emitf("%s = %s %s, %s", res, op, l, r)
	return res
}

func (fc *fnCompiler) compileCall(n *ast.CallExpr) string {
	args := make([]string, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, fc.compileExpr(a))
	}
	callee := sourceName(n.Callee)
	r := fc.fb.reg()
	if callee == "" {
		fn := fc.compileExpr(n.Callee)
		fc.fb.emitf("%s = call.indirect %s, %s", r, fn, strings.Join(args, ", "))
		return r
	}
	fc.fb.emitf("%s = call %s, %s", r, callee, strings.Join(args, ", "))
	return r
}

func (fc *fnCompiler) compileMethodCall(n *ast.MethodCallExpr) string {
	recv := fc.compileExpr(n.Receiver)
	args := []string{recv}
	for _, a := range n.Args {
		args = append(args, fc.compileExpr(a))
	}
	r := fc.fb.reg()
	fc.fb.emitf("%s = call.method %s, %s", r, n.Method, strings.Join(args, ", "))
	return r
}

func (fc *fnCompiler) compileMacroCall(n *ast.MacroCallExpr) string {
	args := make([]string, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, fc.compileExpr(a))
	}
	r := fc.fb.reg()
	switch n.Name {
	case "println", "print", "dbg":
		fc.fb.emitf("%s = call print_string, %s", r, strings.Join(args, ", "))
	default:
		fc.fb.emitf("%s = call %s, %s", r, n.Name, strings.Join(args, ", "))
	}
	return r
}

// compileStructLit allocates a refcounted struct object and sets each
// field; pointer-typed fields are released by the per-type destructor
// routine generate.go emits, not here.
func (fc *fnCompiler) compileStructLit(n *ast.StructLit) string {
	r := fc.fb.reg()
	fc.fb.emitf("%s = alloc %s", r, n.TypeName)
	order := n.Order
	if len(order) == 0 {
		for k := range n.Fields {
			order = append(order, k)
		}
	}
	for _, name := range order {
		v := fc.compileExpr(n.Fields[name])
		fc.fb.emitf("setfield %s, %s, %s", r, name, v)
	}
	return r
}

func (fc *fnCompiler) compileComposite(kind string, typeName *string, elems []ast.Expression) string {
	r := fc.fb.reg()
	tn := ""
	if typeName != nil {
		tn = *typeName
	}
	fc.fb.emitf("%s = alloc.%s %s, %d", r, kind, tn, len(elems))
	for i, e := range elems {
		v := fc.compileExpr(e)
		fc.fb.emitf("setidx %s, %d, %s", r, i, v)
	}
	return r
}

func (fc *fnCompiler) compileEnumConstructor(n *ast.EnumConstructor) string {
	r := fc.fb.reg()
	fc.fb.emitf("%s = alloc.enum %s::%s", r, n.Enum, n.Variant)
	for i, a := range n.Args {
		v := fc.compileExpr(a)
		fc.fb.emitf("setidx %s, %d, %s", r, i, v)
	}
	for name, e := range n.Fields {
		v := fc.compileExpr(e)
		fc.fb.emitf("setfield %s, %s, %s", r, name, v)
	}
	return r
}

func (fc *fnCompiler) compileAssign(n *ast.AssignExpr) string {
	op := strings.TrimSuffix(n.Op, "=")
	switch tgt := n.Target.(type) {
	case *ast.Ident:
		v := fc.compileExpr(n.Value)
		if op != "" && op != "=" {
			cur := fc.vals[tgt.Name]
			r := fc.fb.reg()
			fc.fb.emitf("%s = %s %s, %s", r, arithName(op), cur, v)
			v = r
		}
		fc.vals[tgt.Name] = v
		return v
	case *ast.FieldExpr:
		obj := fc.compileExpr(tgt.Object)
		v := fc.compileExpr(n.Value)
		if op != "" && op != "=" {
			cur := fc.fb.reg()
			fc.fb.emitf("%s = getfield %s, %s", cur, obj, tgt.Field)
			r := fc.fb.reg()
			fc.fb.emitf("%s = %s %s, %s", r, arithName(op), cur, v)
			v = r
		}
		fc.fb.emitf("setfield %s, %s, %s", obj, tgt.Field, v)
		return v
	case *ast.IndexExpr:
		base := fc.compileExpr(tgt.Collection)
		idx := fc.compileExpr(tgt.Index)
		v := fc.compileExpr(n.Value)
		if op != "" && op != "=" {
			cur := fc.fb.reg()
			fc.fb.emitf("%s = getidx %s, %s", cur, base, idx)
			r := fc.fb.reg()
			fc.fb.emitf("%s = %s %s, %s", r, arithName(op), cur, v)
			v = r
		}
		fc.fb.emitf("setidx %s, %s, %s", base, idx, v)
		return v
	default:
		return fc.compileExpr(n.Value)
	}
}

func arithName(op string) string {
	switch op {
	case "+":
		return "add"
	case "-":
		return "sub"
	case "*":
		return "mul"
	case "/":
		return "div"
	default:
		return "add"
	}
}
