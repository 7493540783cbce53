package shader

import (
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/monomorphize"
)

var stageExecModel = map[string]string{
	"vertex":   "Vertex",
	"fragment": "Fragment",
	"compute":  "GLCompute",
}

// Generate emits the SSA IR text for every shader item in the program,
// following spec.md §4.GS's per-shader compilation order. Each shader
// becomes its own module section; a program with no shader items produces
// an empty byte slice, not an error.
func Generate(prog *monomorphize.Program) ([]byte, *diag.ErrorList) {
	errs := diag.NewErrorList()
	var out strings.Builder
	for _, it := range prog.Items {
		s, ok := it.(*ast.ShaderDecl)
		if !ok {
			continue
		}
		text, err := generateShader(s)
		if err != "" {
			errs.Add(diag.Codegen, s.Span, err)
			continue
		}
		out.WriteString(text)
		out.WriteString("\n")
	}
	return []byte(out.String()), errs
}

func generateShader(s *ast.ShaderDecl) (string, string) {
	model, ok := stageExecModel[s.Stage]
	if !ok {
		return "", "unknown shader stage " + s.Stage
	}

	b := newBuilder()
	b.headerf("OpCapability Shader")
	b.headerf("OpMemoryModel Logical GLSL450")

	l := newLowerer(b)

	var iface []string

	for i, p := range s.Inputs {
		name := "%in_" + p.Name
		t := shaderType(typeName(p.Type))
		b.declf("%s = OpVariable Input Location=%d", name, i)
		l.bind(p.Name, name, t)
		iface = append(iface, name)
	}

	outName := "%out"
	outType := shaderType(typeName(s.Output))
	if s.Stage == "vertex" && outType == tVec4 {
		b.declf("%s = OpVariable Output BuiltIn=Position", outName)
	} else {
		b.declf("%s = OpVariable Output Location=0", outName)
	}
	iface = append(iface, outName)

	for _, u := range s.Uniforms {
		ut := shaderType(typeName(u.Type))
		uName := "%uniform_" + u.Name
		if ut == tSampler2 {
			b.declf("%s = OpVariable UniformConstant Set=0 Binding=%d", uName, u.Binding)
		} else {
			decor := "MemberOffset=0"
			if isMatrix(ut) {
				decor += " ColMajor MatrixStride=16"
			}
			b.declf("%s = OpTypeStruct Block %s ; %s", uName+"_block", decor, uName)
			b.declf("%s = OpVariable Uniform Set=0 Binding=%d", uName, u.Binding)
		}
		l.bind(u.Name, uName, ut)
		iface = append(iface, uName)
	}

	b.emitf("OpFunction %%void None %%voidfn")
	b.emitf("%%main_label = OpLabel")

	hasReturn := false
	for _, st := range s.Body.Stmts {
		switch n := st.(type) {
		case *ast.ReturnStmt:
			hasReturn = true
			if n.Value != nil {
				v, _ := l.lower(n.Value)
				b.emitf("  OpStore %s %s", outName, v)
			}
			b.emitf("  OpReturn")
		case *ast.LetStmt:
			v, t := l.lower(n.Decl.Value)
			l.bind(n.Decl.Name, v, t)
		case *ast.ExprStmt:
			l.lower(n.Expr)
		}
	}
	if !hasReturn {
		b.emitf("  OpReturn")
	}
	b.emitf("OpFunctionEnd")

	entry := "OpEntryPoint " + model + " %main \"" + s.Name + "\" " + strings.Join(iface, " ")
	b.headerf("%s", entry)
	if s.Stage == "fragment" {
		b.headerf("OpExecutionMode %%main OriginUpperLeft")
	}

	return b.text(), ""
}
