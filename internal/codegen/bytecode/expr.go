package bytecode

import (
	"strconv"
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
)

// compileExpr lowers one expression to a stack-machine sequence that leaves
// exactly one value on the stack, per spec.md §4.GW's expression lowering.
func (fc *fnCompiler) compileExpr(e ast.Expression) {
	switch n := e.(type) {
	case nil:
		fc.b.op(OpConstI64).i64(0)
	case *ast.IntLit:
		fc.b.op(OpConstI64).i64(parseIntLit(n.Value))
	case *ast.FloatLit:
		fc.b.op(OpConstF64).f64(parseFloatLit(n.Value))
	case *ast.BoolLit:
		v := int64(0)
		if n.Value {
			v = 1
		}
		fc.b.op(OpConstI32).i64(v)
	case *ast.StringLit:
		ptr := fc.gc.mod.Strings.Intern(n.Value)
		fc.b.op(OpConstI32).i64(int64(ptr))
	case *ast.FStringLit:
		fc.compileFString(n)
	case *ast.Ident:
		fc.compileIdent(n)
	case *ast.EnumConstructor:
		fc.compileEnumConstructor(n)
	case *ast.StructLit:
		fc.compileStructLit(n)
	case *ast.TupleLit:
		fc.compileTupleLit(n)
	case *ast.ArrayLit:
		fc.compileArrayLit(n)
	case *ast.IndexExpr:
		fc.compileIndexLoad(n)
	case *ast.FieldExpr:
		fc.compileFieldLoad(n)
	case *ast.CallExpr:
		fc.compileCall(n)
	case *ast.MethodCallExpr:
		fc.compileMethodCall(n)
	case *ast.LambdaExpr:
		id := fc.gc.lambdas.ids[n]
		fc.b.op(OpConstI32).i64(int64(id))
	case *ast.BinaryExpr:
		fc.compileBinary(n)
	case *ast.UnaryExpr:
		fc.compileUnary(n)
	case *ast.AssignExpr:
		fc.compileAssign(n)
	case *ast.BlockExpr:
		fc.compileBlockValue(n.Block)
	case *ast.IfExpr:
		fc.compileIf(n)
	case *ast.MatchExpr:
		fc.compileMatch(n)
	case *ast.ReturnExpr:
		if n.Value != nil {
			fc.compileExpr(n.Value)
		} else {
			fc.b.op(OpConstI64).i64(0)
		}
		fc.b.op(OpReturn)
	case *ast.BreakExpr:
		fc.b.op(OpBreak)
	case *ast.ContinueExpr:
		fc.b.op(OpContinue)
	case *ast.TryExpr:
		// Result/Option short-circuit is not distinguished at this layer;
		// the value is passed through unchanged (spec.md leaves `?` error
		// propagation encoding to the checker's desugaring, not GW).
		fc.compileExpr(n.Expr)
	case *ast.CastExpr:
		fc.compileCast(n)
	case *ast.RangeExpr:
		// Only meaningful as a for-statement iterator; evaluated alone it
		// degenerates to its start value.
		if n.Start != nil {
			fc.compileExpr(n.Start)
		} else {
			fc.b.op(OpConstI64).i64(0)
		}
	case *ast.AwaitExpr:
		// GW has no async executor of its own; await compiles through as a
		// direct call to the already-lowered poll routine's result (the
		// monomorphizer has rewritten genuinely async call chains away by
		// the time this backend runs).
		fc.compileExpr(n.Expr)
	case *ast.MacroCallExpr:
		fc.compileMacroCall(n)
	case *ast.ComptimeExpr:
		fc.compileExpr(n.Inner)
	case *ast.MarkupElement:
		fc.compileMarkup(n)
	default:
		fc.b.op(OpConstI64).i64(0)
	}
}

func (fc *fnCompiler) compileIdent(n *ast.Ident) {
	if idx, ok := fc.localSlot(n.Name); ok {
		fc.b.op(OpLocalGet).u32(uint32(idx))
		return
	}
	if val, ok := fc.gc.consts[n.Name]; ok {
		fc.compileExpr(val)
		return
	}
	fc.gc.errorf(n.Span, "codegen: undefined identifier %q", n.Name)
	fc.b.op(OpConstI64).i64(0)
}

func (fc *fnCompiler) compileFString(n *ast.FStringLit) {
	first := true
	for _, part := range n.Parts {
		if part.IsExpr {
			fc.compileExpr(part.Expr)
			fc.b.op(OpCallImport).u32(uint32(fc.gc.mod.hostImportIndex("int_to_string")))
		} else {
			ptr := fc.gc.mod.Strings.Intern(part.Text)
			fc.b.op(OpConstI32).i64(int64(ptr))
		}
		if !first {
			fc.b.op(OpStrConcat)
		}
		first = false
	}
	if len(n.Parts) == 0 {
		ptr := fc.gc.mod.Strings.Intern("")
		fc.b.op(OpConstI32).i64(int64(ptr))
	}
}

// allocate emits the inlined bump-allocator sequence for a fixed byte size,
// leaving the allocated base pointer on the stack (spec.md §4.GW's
// allocator rule: push old heap_ptr, round heap_ptr up to the next 8-byte
// boundary past size, return the old value).
func (fc *fnCompiler) allocate(size int) {
	fc.b.op(OpConstI32).i64(int64(size))
	fc.b.op(OpBumpAlloc)
}

func (fc *fnCompiler) compileStructLit(n *ast.StructLit) {
	layout, ok := fc.gc.structs[n.TypeName]
	if !ok {
		fc.gc.errorf(n.Span, "codegen: unknown struct %q", n.TypeName)
		fc.b.op(OpConstI64).i64(0)
		return
	}
	base := fc.tmp(LocalI64)
	fc.allocate(layout.Size)
	fc.b.op(OpLocalSet).u32(uint32(base))
	for _, name := range layout.Order {
		fc.b.op(OpLocalGet).u32(uint32(base))
		fc.b.op(OpConstI32).i64(int64(layout.Offsets[name]))
		fc.b.op(OpAdd)
		if v, ok := n.Fields[name]; ok {
			fc.compileExpr(v)
		} else {
			fc.b.op(OpConstI64).i64(0)
		}
		fc.b.op(OpStore64)
	}
	fc.b.op(OpLocalGet).u32(uint32(base))
}

func (fc *fnCompiler) compileTupleLit(n *ast.TupleLit) {
	size := align(len(n.Elems) * 8)
	base := fc.tmp(LocalI64)
	fc.allocate(size)
	fc.b.op(OpLocalSet).u32(uint32(base))
	for i, el := range n.Elems {
		fc.b.op(OpLocalGet).u32(uint32(base))
		fc.b.op(OpConstI32).i64(int64(i * 8))
		fc.b.op(OpAdd)
		fc.compileExpr(el)
		fc.b.op(OpStore64)
	}
	fc.b.op(OpLocalGet).u32(uint32(base))
}

func (fc *fnCompiler) compileArrayLit(n *ast.ArrayLit) {
	size := 4 + len(n.Elems)*8
	base := fc.tmp(LocalI64)
	fc.allocate(size)
	fc.b.op(OpLocalSet).u32(uint32(base))
	fc.b.op(OpLocalGet).u32(uint32(base))
	fc.b.op(OpConstI32).i64(int64(len(n.Elems)))
	fc.b.op(OpStore32)
	for i, el := range n.Elems {
		fc.b.op(OpLocalGet).u32(uint32(base))
		fc.b.op(OpConstI32).i64(int64(4 + i*8))
		fc.b.op(OpAdd)
		fc.compileExpr(el)
		fc.b.op(OpStore64)
	}
	fc.b.op(OpLocalGet).u32(uint32(base))
}

func (fc *fnCompiler) compileEnumConstructor(n *ast.EnumConstructor) {
	enumName := n.Enum
	t, ok := fc.gc.table.Enums[enumName]
	if !ok {
		enumName, t = fc.gc.findEnumByVariant(n.Variant)
	}
	if t == nil {
		fc.gc.errorf(n.Span, "codegen: unknown enum variant %q", n.Variant)
		fc.b.op(OpConstI64).i64(0)
		return
	}
	layout := fc.gc.enums[enumName]
	vl := layout.Variants[n.Variant]
	size := layout.MaxPayload
	if size < 4 {
		size = 4
	}
	base := fc.tmp(LocalI64)
	fc.allocate(size)
	fc.b.op(OpLocalSet).u32(uint32(base))
	fc.b.op(OpLocalGet).u32(uint32(base))
	fc.b.op(OpConstI32).i64(int64(enumVariantTag(t, n.Variant)))
	fc.b.op(OpStore32)
	if n.Fields != nil {
		for name, expr := range n.Fields {
			off, ok := vl.Offsets[name]
			if !ok {
				continue
			}
			fc.b.op(OpLocalGet).u32(uint32(base))
			fc.b.op(OpConstI32).i64(int64(off))
			fc.b.op(OpAdd)
			fc.compileExpr(expr)
			fc.b.op(OpStore64)
		}
	} else {
		for i, arg := range n.Args {
			off, ok := vl.Offsets[tupleFieldName(i)]
			if !ok {
				continue
			}
			fc.b.op(OpLocalGet).u32(uint32(base))
			fc.b.op(OpConstI32).i64(int64(off))
			fc.b.op(OpAdd)
			fc.compileExpr(arg)
			fc.b.op(OpStore64)
		}
	}
	fc.b.op(OpLocalGet).u32(uint32(base))
}

func (fc *fnCompiler) compileFieldLoad(n *ast.FieldExpr) {
	fc.compileFieldAddr(n)
	fc.b.op(OpLoad64)
}

// compileFieldAddr leaves `base + offset` on the stack without loading,
// used both by field reads and by assignment targets.
func (fc *fnCompiler) compileFieldAddr(n *ast.FieldExpr) {
	fc.compileExpr(n.Object)
	off, ok := fc.gc.fieldOffset(n.Field)
	if !ok {
		if idx, isTuple := tupleIndex(n.Field); isTuple {
			off = idx * 8
		}
	}
	fc.b.op(OpConstI32).i64(int64(off))
	fc.b.op(OpAdd)
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

func tupleIndex(field string) (int, bool) {
	if len(field) != 1 || field[0] < '0' || field[0] > '9' {
		return 0, false
	}
	return int(field[0] - '0'), true
}

func (fc *fnCompiler) compileIndexLoad(n *ast.IndexExpr) {
	fc.compileIndexAddr(n)
	fc.b.op(OpLoad64)
}

// compileIndexAddr leaves `base + 4 + index*8` on the stack without
// loading, per spec.md §4.GW's index access rule.
func (fc *fnCompiler) compileIndexAddr(n *ast.IndexExpr) {
	fc.compileExpr(n.Collection)
	fc.b.op(OpConstI32).i64(4)
	fc.b.op(OpAdd)
	fc.compileExpr(n.Index)
	fc.b.op(OpConstI32).i64(8)
	fc.b.op(OpMul)
	fc.b.op(OpAdd)
}

func (fc *fnCompiler) compileBinary(n *ast.BinaryExpr) {
	switch n.Op {
	case "&&":
		fc.compileExpr(n.Left)
		fc.b.op(OpIf)
		fc.compileExpr(n.Right)
		fc.b.op(OpElse)
		fc.b.op(OpConstI32).i64(0)
		fc.b.op(OpEnd)
		return
	case "||":
		fc.compileExpr(n.Left)
		fc.b.op(OpIf)
		fc.b.op(OpConstI32).i64(1)
		fc.b.op(OpElse)
		fc.compileExpr(n.Right)
		fc.b.op(OpEnd)
		return
	}
	fc.compileExpr(n.Left)
	fc.compileExpr(n.Right)
	if n.Op == "+" {
		if isStringLike(n.Left) || isStringLike(n.Right) {
			fc.b.op(OpStrConcat)
			return
		}
	}
	switch n.Op {
	case "+":
		fc.b.op(OpAdd)
	case "-":
		fc.b.op(OpSub)
	case "*":
		fc.b.op(OpMul)
	case "/":
		fc.b.op(OpDiv)
	case "%":
		fc.b.op(OpMod)
	case "==":
		fc.b.op(OpEq)
	case "!=":
		fc.b.op(OpNeq)
	case "<":
		fc.b.op(OpLt)
	case "<=":
		fc.b.op(OpLe)
	case ">":
		fc.b.op(OpGt)
	case ">=":
		fc.b.op(OpGe)
	default:
		fc.b.op(OpAdd)
	}
}

func isStringLike(e ast.Expression) bool {
	switch e.(type) {
	case *ast.StringLit, *ast.FStringLit:
		return true
	default:
		return false
	}
}

func (fc *fnCompiler) compileUnary(n *ast.UnaryExpr) {
	fc.compileExpr(n.Operand)
	switch n.Op {
	case "-":
		fc.b.op(OpNeg)
	case "!":
		fc.b.op(OpNot)
	}
}

func (fc *fnCompiler) compileCast(n *ast.CastExpr) {
	fc.compileExpr(n.Expr)
	// The VM's values are untyped 64/32-bit cells; a cast is a no-op at
	// this layer beyond what the expression already produced.
}

func (fc *fnCompiler) compileMacroCall(n *ast.MacroCallExpr) {
	name := n.Name
	switch name {
	case "println", "print", "dbg":
	default:
		name = "print_string"
	}
	for _, a := range n.Args {
		fc.compileExpr(a)
	}
	idx := fc.gc.mod.hostImportIndex("print_string")
	if idx < 0 {
		idx = 0
	}
	fc.b.op(OpCallImport).u32(uint32(idx))
}
