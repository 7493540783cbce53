package shader

import (
	"strconv"
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
)

// mathBuiltins is the standard extended-instruction-set dispatch table
// spec.md §4.GS names verbatim; the opcode column is the mnemonic this
// backend's text IR uses for GLSL.std.450's instruction of the same name.
var mathBuiltins = map[string]string{
	"sin": "Sin", "cos": "Cos", "tan": "Tan", "pow": "Pow", "sqrt": "Sqrt",
	"abs": "FAbs", "floor": "Floor", "ceil": "Ceil", "fract": "Fract",
	"min": "FMin", "max": "FMax", "clamp": "FClamp", "mix": "FMix",
	"step": "Step", "smoothstep": "SmoothStep", "length": "Length",
	"normalize": "Normalize", "dot": "Dot", "cross": "Cross", "reflect": "Reflect",
}

var vecCtors = map[string]shaderType{"vec2": tVec2, "vec3": tVec3, "vec4": tVec4}

// lowerer holds one shader entry function's lowering state: its builder, the
// name->ssa-id environment, and each name's inferred shaderType.
type lowerer struct {
	b     *builder
	vals  map[string]string
	types map[string]shaderType
}

func newLowerer(b *builder) *lowerer {
	return &lowerer{b: b, vals: map[string]string{}, types: map[string]shaderType{}}
}

func (l *lowerer) bind(name, id string, t shaderType) {
	l.vals[name] = id
	l.types[name] = t
}

// lower evaluates an expression, returning its SSA result id and inferred type.
func (l *lowerer) lower(e ast.Expression) (string, shaderType) {
	switch n := e.(type) {
	case *ast.IntLit:
		id := l.b.id()
		l.b.emitf("  %s = OpConstant %%int %s", id, n.Value)
		return id, tFloat
	case *ast.FloatLit:
		id := l.b.id()
		l.b.emitf("  %s = OpConstant %%float %s", id, n.Value)
		return id, tFloat
	case *ast.Ident:
		if id, ok := l.vals[n.Name]; ok {
			return id, l.types[n.Name]
		}
		id := l.b.id()
		l.b.emitf("  %s = OpLoad %%unknown %%%s", id, n.Name)
		return id, tUnknown
	case *ast.BinaryExpr:
		return l.lowerBinary(n)
	case *ast.UnaryExpr:
		v, t := l.lower(n.Operand)
		id := l.b.id()
		op := "OpFNegate"
		if n.Op == "!" {
			op = "OpLogicalNot"
		}
		l.b.emitf("  %s = %s %s", id, op, v)
		return id, t
	case *ast.CallExpr:
		return l.lowerCall(n)
	case *ast.MethodCallExpr:
		return l.lowerMethodCall(n)
	case *ast.FieldExpr:
		return l.lowerField(n)
	case *ast.BlockExpr:
		return l.lowerBlockValue(n.Block)
	case *ast.CastExpr:
		return l.lower(n.Expr)
	default:
		id := l.b.id()
		l.b.emitf("  %s = OpUndef %%unknown", id)
		return id, tUnknown
	}
}

func (l *lowerer) lowerBinary(n *ast.BinaryExpr) (string, shaderType) {
	lv, lt := l.lower(n.Left)
	rv, rt := l.lower(n.Right)
	id := l.b.id()
	switch n.Op {
	case "*":
		switch {
		case isMatrix(lt) && isMatrix(rt):
			l.b.emitf("  %s = OpMatrixTimesMatrix %s %s", id, lv, rv)
			return id, lt
		case isMatrix(lt) && isVector(rt):
			l.b.emitf("  %s = OpMatrixTimesVector %s %s", id, lv, rv)
			return id, rt
		case isVector(lt) && isMatrix(rt):
			l.b.emitf("  %s = OpVectorTimesMatrix %s %s", id, lv, rv)
			return id, lt
		case isVector(lt) && rt == tFloat:
			l.b.emitf("  %s = OpVectorTimesScalar %s %s", id, lv, rv)
			return id, lt
		case lt == tFloat && isVector(rt):
			l.b.emitf("  %s = OpVectorTimesScalar %s %s", id, rv, lv)
			return id, rt
		default:
			l.b.emitf("  %s = OpFMul %s %s", id, lv, rv)
			return id, lt
		}
	case "/":
		l.b.emitf("  %s = OpFDiv %s %s", id, lv, rv)
		return id, lt
	case "+":
		l.b.emitf("  %s = OpFAdd %s %s", id, lv, rv)
		return id, lt
	case "-":
		l.b.emitf("  %s = OpFSub %s %s", id, lv, rv)
		return id, lt
	case "==":
		l.b.emitf("  %s = OpFOrdEqual %s %s", id, lv, rv)
		return id, tUnknown
	case "!=":
		l.b.emitf("  %s = OpFOrdNotEqual %s %s", id, lv, rv)
		return id, tUnknown
	case "<":
		l.b.emitf("  %s = OpFOrdLessThan %s %s", id, lv, rv)
		return id, tUnknown
	case "<=":
		l.b.emitf("  %s = OpFOrdLessThanEqual %s %s", id, lv, rv)
		return id, tUnknown
	case ">":
		l.b.emitf("  %s = OpFOrdGreaterThan %s %s", id, lv, rv)
		return id, tUnknown
	case ">=":
		l.b.emitf("  %s = OpFOrdGreaterThanEqual %s %s", id, lv, rv)
		return id, tUnknown
	case "&&":
		l.b.emitf("  %s = OpLogicalAnd %s %s", id, lv, rv)
		return id, tUnknown
	case "||":
		l.b.emitf("  %s = OpLogicalOr %s %s", id, lv, rv)
		return id, tUnknown
	default:
		l.b.emitf("  %s = OpFMul %s %s", id, lv, rv)
		return id, lt
	}
}

func (l *lowerer) lowerCall(n *ast.CallExpr) (string, shaderType) {
	ident, ok := n.Callee.(*ast.Ident)
	if !ok {
		id := l.b.id()
		l.b.emitf("  %s = OpUndef %%unknown", id)
		return id, tUnknown
	}
	if vt, ok := vecCtors[ident.Name]; ok {
		args := make([]string, 0, len(n.Args))
		for _, a := range n.Args {
			v, _ := l.lower(a)
			args = append(args, v)
		}
		id := l.b.id()
		l.b.emitf("  %s = OpCompositeConstruct %%%s %s", id, vt, strings.Join(args, " "))
		return id, vt
	}
	if ext, ok := mathBuiltins[ident.Name]; ok {
		args := make([]string, 0, len(n.Args))
		var rt shaderType
		for _, a := range n.Args {
			v, t := l.lower(a)
			args = append(args, v)
			rt = t
		}
		id := l.b.id()
		l.b.emitf("  %s = OpExtInst %%glsl %s %s", id, ext, strings.Join(args, " "))
		switch ident.Name {
		case "length", "dot":
			return id, tFloat
		default:
			return id, rt
		}
	}
	args := make([]string, 0, len(n.Args))
	for _, a := range n.Args {
		v, _ := l.lower(a)
		args = append(args, v)
	}
	id := l.b.id()
	l.b.emitf("  %s = OpFunctionCall %%%s %s", id, ident.Name, strings.Join(args, " "))
	return id, tUnknown
}

// lowerMethodCall handles `tex.sample(uv)` / `tex.sample(uv, lod)`, which
// lower to `sample_implicit_lod` / `sample_explicit_lod` per spec.md §4.GS.
func (l *lowerer) lowerMethodCall(n *ast.MethodCallExpr) (string, shaderType) {
	recv, _ := l.lower(n.Receiver)
	if n.Method == "sample" {
		args := []string{recv}
		for _, a := range n.Args {
			v, _ := l.lower(a)
			args = append(args, v)
		}
		id := l.b.id()
		if len(n.Args) <= 1 {
			l.b.emitf("  %s = OpImageSampleImplicitLod %s", id, strings.Join(args, " "))
		} else {
			l.b.emitf("  %s = OpImageSampleExplicitLod %s", id, strings.Join(args, " "))
		}
		return id, tVec4
	}
	if ext, ok := mathBuiltins[n.Method]; ok {
		args := []string{recv}
		for _, a := range n.Args {
			v, _ := l.lower(a)
			args = append(args, v)
		}
		id := l.b.id()
		l.b.emitf("  %s = OpExtInst %%glsl %s %s", id, ext, strings.Join(args, " "))
		return id, tUnknown
	}
	id := l.b.id()
	l.b.emitf("  %s = OpUndef %%unknown", id)
	return id, tUnknown
}

// lowerField expands swizzle masks into extract/shuffle per spec.md §4.GS;
// a single-letter mask is a scalar extract, a multi-letter mask a shuffle.
func (l *lowerer) lowerField(n *ast.FieldExpr) (string, shaderType) {
	base, bt := l.lower(n.Object)
	if isSwizzle(n.Field) {
		if len(n.Field) == 1 {
			id := l.b.id()
			l.b.emitf("  %s = OpCompositeExtract %s %d", id, base, swizzleIndex[n.Field[0]])
			return id, tFloat
		}
		indices := make([]string, len(n.Field))
		for i := 0; i < len(n.Field); i++ {
			indices[i] = strconv.Itoa(swizzleIndex[n.Field[i]])
		}
		id := l.b.id()
		l.b.emitf("  %s = OpVectorShuffle %s %s %s", id, base, base, strings.Join(indices, " "))
		return id, widthToType(len(n.Field))
	}
	id := l.b.id()
	l.b.emitf("  %s = OpCompositeExtract %s %s", id, base, n.Field)
	_ = bt
	return id, tUnknown
}

func widthToType(n int) shaderType {
	switch n {
	case 2:
		return tVec2
	case 3:
		return tVec3
	case 4:
		return tVec4
	default:
		return tFloat
	}
}

func (l *lowerer) lowerBlockValue(b *ast.Block) (string, shaderType) {
	var last string
	var lastT shaderType
	for i, st := range b.Stmts {
		isLast := i == len(b.Stmts)-1
		switch s := st.(type) {
		case *ast.LetStmt:
			v, t := l.lower(s.Decl.Value)
			l.bind(s.Decl.Name, v, t)
			if isLast {
				last, lastT = v, t
			}
		case *ast.ExprStmt:
			v, t := l.lower(s.Expr)
			if isLast {
				last, lastT = v, t
			}
		}
	}
	if last == "" {
		id := l.b.id()
		l.b.emitf("  %s = OpUndef %%unknown", id)
		return id, tUnknown
	}
	return last, lastT
}
