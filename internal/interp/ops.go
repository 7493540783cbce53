package interp

import (
	"strconv"
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/stdlib"
)

// Lookup exposes the stdlib registry to callers outside this package
// (the checker already consults stdlib directly; the interpreter only
// needs it to decide whether a bare identifier names a builtin).
func (it *Interpreter) Lookup(name string) (stdlib.Signature, bool) {
	return stdlib.Lookup(name)
}

func parseIntLit(s string) int64 {
	s = strings.ReplaceAll(s, "_", "")
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloatLit(s string) float64 {
	s = strings.ReplaceAll(s, "_", "")
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func (it *Interpreter) evalBinary(n *ast.BinaryExpr, en *Env) *Value {
	switch n.Op {
	case "&&":
		l := it.Eval(n.Left, en)
		if !l.Truthy() {
			return Bool(false)
		}
		return Bool(it.Eval(n.Right, en).Truthy())
	case "||":
		l := it.Eval(n.Left, en)
		if l.Truthy() {
			return Bool(true)
		}
		return Bool(it.Eval(n.Right, en).Truthy())
	}

	l := it.Eval(n.Left, en)
	r := it.Eval(n.Right, en)

	if n.Op == "+" && (l.Kind == VString || r.Kind == VString) {
		return Str(l.String() + r.String())
	}
	if n.Op == "==" {
		return Bool(Equal(l, r))
	}
	if n.Op == "!=" {
		return Bool(!Equal(l, r))
	}

	if l.Kind == VFloat || r.Kind == VFloat {
		lf, rf := asFloat(l), asFloat(r)
		switch n.Op {
		case "+":
			return Float(lf + rf)
		case "-":
			return Float(lf - rf)
		case "*":
			return Float(lf * rf)
		case "/":
			return Float(lf / rf)
		case "<":
			return Bool(lf < rf)
		case "<=":
			return Bool(lf <= rf)
		case ">":
			return Bool(lf > rf)
		case ">=":
			return Bool(lf >= rf)
		}
	}

	li, ri := l.Int, r.Int
	switch n.Op {
	case "+":
		return Int(li + ri)
	case "-":
		return Int(li - ri)
	case "*":
		return Int(li * ri)
	case "/":
		if ri == 0 {
			it.runtimeError("division by zero")
			return Int(0)
		}
		return Int(li / ri)
	case "%":
		if ri == 0 {
			it.runtimeError("division by zero")
			return Int(0)
		}
		return Int(li % ri)
	case "<":
		return Bool(li < ri)
	case "<=":
		return Bool(li <= ri)
	case ">":
		return Bool(li > ri)
	case ">=":
		return Bool(li >= ri)
	case "<<":
		return Int(li << uint(ri))
	case ">>":
		return Int(li >> uint(ri))
	default:
		it.runtimeError("unsupported binary operator %q", n.Op)
		return Unit()
	}
}

func asFloat(v *Value) float64 {
	if v.Kind == VFloat {
		return v.Float
	}
	return float64(v.Int)
}

func (it *Interpreter) evalUnary(n *ast.UnaryExpr, en *Env) *Value {
	v := it.Eval(n.Operand, en)
	switch n.Op {
	case "-":
		if v.Kind == VFloat {
			return Float(-v.Float)
		}
		return Int(-v.Int)
	case "!":
		return Bool(!v.Truthy())
	default:
		return v
	}
}

func (it *Interpreter) evalAssign(n *ast.AssignExpr, en *Env) *Value {
	var newVal *Value
	if n.Op == "=" {
		newVal = it.Eval(n.Value, en)
	} else {
		cur := it.Eval(n.Target, en)
		rhs := it.Eval(n.Value, en)
		op := strings.TrimSuffix(n.Op, "=")
		newVal = it.applyBinaryValues(op, cur, rhs)
	}
	it.assignTo(n.Target, newVal, en)
	return newVal
}

func (it *Interpreter) applyBinaryValues(op string, l, r *Value) *Value {
	if op == "+" && (l.Kind == VString || r.Kind == VString) {
		return Str(l.String() + r.String())
	}
	if l.Kind == VFloat || r.Kind == VFloat {
		lf, rf := asFloat(l), asFloat(r)
		switch op {
		case "+":
			return Float(lf + rf)
		case "-":
			return Float(lf - rf)
		case "*":
			return Float(lf * rf)
		case "/":
			return Float(lf / rf)
		}
	}
	switch op {
	case "+":
		return Int(l.Int + r.Int)
	case "-":
		return Int(l.Int - r.Int)
	case "*":
		return Int(l.Int * r.Int)
	case "/":
		if r.Int == 0 {
			return Int(0)
		}
		return Int(l.Int / r.Int)
	default:
		return r
	}
}

func (it *Interpreter) assignTo(target ast.Expression, v *Value, en *Env) {
	switch t := target.(type) {
	case *ast.Ident:
		en.Set(t.Name, v)
	case *ast.FieldExpr:
		obj := it.Eval(t.Object, en)
		if obj.Kind == VStruct || obj.Kind == VVariant {
			if obj.Fields == nil {
				obj.Fields = map[string]*Value{}
			}
			obj.Fields[t.Field] = v
		}
	case *ast.IndexExpr:
		col := it.Eval(t.Collection, en)
		idx := it.Eval(t.Index, en)
		if col.Kind == VArray || col.Kind == VTuple {
			i := int(idx.Int)
			if i >= 0 && i < len(col.Arr) {
				col.Arr[i] = v
			}
		}
	default:
		it.runtimeError("invalid assignment target %T", target)
	}
}
