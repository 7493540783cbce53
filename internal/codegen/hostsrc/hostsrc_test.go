package hostsrc

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

func TestStructDeclPrintsGoStruct(t *testing.T) {
	src := "struct Point { x: Int, y: Int }\n" +
		"\n" +
		"fn main() with Pure:\n" +
		"    let p = Point { x: 1, y: 2 }\n" +
		"    return p.x\n"
	out := mustGenerate(t, src)
	assert.Contains(t, out, "package main")
	assert.Contains(t, out, "type Point struct")
	assert.Contains(t, out, "X int64")
	assert.Contains(t, out, "Y int64")
}

func TestEnumDeclPrintsMarkerInterfaceAndVariants(t *testing.T) {
	src := "enum Shape {\n" +
		"    Circle(Float),\n" +
		"    Empty,\n" +
		"}\n" +
		"\n" +
		"fn main() with Pure:\n" +
		"    let s = Shape::Circle(1.0)\n" +
		"    return 0\n"
	out := mustGenerate(t, src)
	assert.Contains(t, out, "type Shape interface")
	assert.Contains(t, out, "type Shape_Circle struct")
	assert.Contains(t, out, "V0 float64")
	assert.Contains(t, out, "type Shape_Empty struct")
	assert.Contains(t, out, "func (Shape_Circle) isShape()")
}

func TestPlainFunctionPrintsGoFunc(t *testing.T) {
	src := "fn add(a: Int, b: Int) -> Int with Pure:\n" +
		"    return a + b\n" +
		"\n" +
		"fn main() with Pure:\n" +
		"    let z = add(1, 2)\n" +
		"    return z\n"
	out := mustGenerate(t, src)
	assert.Contains(t, out, "func add(a int64, b int64) int64")
	assert.Contains(t, out, "return (a + b)")
}

func TestIfExprLowersToClosureCall(t *testing.T) {
	src := "fn pick(x: Int) -> Int with Pure:\n" +
		"    let y = if x > 0:\n" +
		"        1\n" +
		"    else:\n" +
		"        2\n" +
		"    return y\n" +
		"\n" +
		"fn main() with Pure:\n" +
		"    let z = pick(3)\n" +
		"    return z\n"
	out := mustGenerate(t, src)
	assert.Contains(t, out, "func() interface{} {")
	assert.Contains(t, out, "if x > 0 {")
	assert.Contains(t, out, "} else {")
}

func TestEmptyItemsProgramStillFormatsAsValidGoPackage(t *testing.T) {
	src := "fn main() with Pure:\n" +
		"    let x = 1\n" +
		"    return x\n"
	out := mustGenerate(t, src)
	assert.Contains(t, out, "package main")
	assert.Contains(t, out, "func main()")
}
