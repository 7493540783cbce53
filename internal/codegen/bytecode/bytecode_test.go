package bytecode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxlang/nyxc/internal/lexer"
	"github.com/nyxlang/nyxc/internal/monomorphize"
	"github.com/nyxlang/nyxc/internal/parser"
	"github.com/nyxlang/nyxc/internal/types"
)

func mustGenerate(t *testing.T, src string) []byte {
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
	return out
}

func TestEncodedModuleHasMagicHeader(t *testing.T) {
	src := "fn main() with Pure:\n" +
		"    return 1 + 2\n"
	out := mustGenerate(t, src)
	require.True(t, len(out) > 4)
	assert.True(t, bytes.HasPrefix(out, []byte("NYXW")))
}

func TestStructAndEnumLowering(t *testing.T) {
	src := "struct Point { x: Int, y: Int }\n" +
		"\n" +
		"enum Shape {\n" +
		"    Circle(Int),\n" +
		"    Square(Int),\n" +
		"}\n" +
		"\n" +
		"fn area(s: Shape) -> Int with Pure:\n" +
		"    match s:\n" +
		"        Circle(r) => return r * r\n" +
		"        Square(side) => return side * side\n" +
		"\n" +
		"fn main() with Pure:\n" +
		"    let p = Point { x: 1, y: 2 }\n" +
		"    return area(Shape::Square(4)) + p.x\n"
	out := mustGenerate(t, src)
	assert.True(t, len(out) > 0)
}

func TestLoopsAndStringsLower(t *testing.T) {
	src := "fn main() with IO:\n" +
		"    let mut total = 0\n" +
		"    for i in 0..5:\n" +
		"        total = total + i\n" +
		"    let name = \"world\"\n" +
		"    println(\"hello \" + name)\n" +
		"    return total\n"
	out := mustGenerate(t, src)
	assert.True(t, len(out) > 0)
}

func TestLambdaCollectedIntoFunctionTable(t *testing.T) {
	src := "fn main() with Pure:\n" +
		"    let add = |a, b| a + b\n" +
		"    return add(1, 2)\n"
	out := mustGenerate(t, src)
	assert.True(t, len(out) > 0)
}
