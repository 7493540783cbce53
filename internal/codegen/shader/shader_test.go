package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxlang/nyxc/internal/lexer"
	"github.com/nyxlang/nyxc/internal/monomorphize"
	"github.com/nyxlang/nyxc/internal/parser"
	"github.com/nyxlang/nyxc/internal/types"
)

func mustGenerate(t *testing.T, src string) string {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	require.Nil(t, err)
	prog, perrs := parser.Parse(toks)
	require.False(t, perrs.HasErrors(), "parse errors: %s", perrs.String())
	checked, cerrs := types.Check(prog)
	require.False(t, cerrs.HasErrors(), "check errors: %s", cerrs.String())
	mono, merrs := monomorphize.Monomorphize(checked)
	require.False(t, merrs.HasErrors(), "monomorphize errors: %s", merrs.String())
	out, gerrs := Generate(mono)
	require.False(t, gerrs.HasErrors(), "codegen errors: %s", gerrs.String())
	return string(out)
}

func TestFragmentShaderConstructsOutputVec4(t *testing.T) {
	src := "shader fragment main(uv: Vec2) -> Vec4:\n" +
		"    return vec4(uv.x, uv.y, 0.0, 1.0)\n"
	out := mustGenerate(t, src)
	assert.Contains(t, out, "OpCapability Shader")
	assert.Contains(t, out, "OpEntryPoint Fragment")
	assert.Contains(t, out, "OriginUpperLeft")
	assert.Contains(t, out, "OpCompositeConstruct %Vec4")
	assert.Contains(t, out, "OpCompositeExtract")
}

func TestVertexShaderDecoratesPosition(t *testing.T) {
	src := "shader vertex main(pos: Vec4) -> Vec4:\n" +
		"    return pos\n"
	out := mustGenerate(t, src)
	assert.Contains(t, out, "OpEntryPoint Vertex")
	assert.Contains(t, out, "BuiltIn=Position")
}

func TestUniformSamplerAndBlock(t *testing.T) {
	src := "shader fragment main(uv: Vec2) -> Vec4:\n" +
		"    uniform tex: Sampler2D @ 0\n" +
		"    uniform tint: Vec4 @ 1\n" +
		"    return tex.sample(uv) * tint\n"
	out := mustGenerate(t, src)
	assert.Contains(t, out, "UniformConstant Set=0 Binding=0")
	assert.Contains(t, out, "OpVariable Uniform Set=0 Binding=1")
	assert.Contains(t, out, "OpImageSampleImplicitLod")
}

func TestMathBuiltinDispatchesToExtInst(t *testing.T) {
	src := "shader fragment main(uv: Vec2) -> Vec4:\n" +
		"    let d = length(uv)\n" +
		"    return vec4(d, d, d, 1.0)\n"
	out := mustGenerate(t, src)
	assert.Contains(t, out, "OpExtInst %glsl Length")
}
