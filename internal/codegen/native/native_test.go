package native

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

func TestPlainFunctionLowersToNamedRegisters(t *testing.T) {
	src := "fn add(a: Int, b: Int) -> Int with Pure:\n" +
		"    return a + b\n"
	out := mustGenerate(t, src)
	assert.Contains(t, out, "func add(a, b):")
	assert.Contains(t, out, "= add %a, %b")
}

func TestIfExprLowersToPhiAtMerge(t *testing.T) {
	src := "fn pick(x: Int) -> Int with Pure:\n" +
		"    let y = if x > 0:\n" +
		"        1\n" +
		"    else:\n" +
		"        2\n" +
		"    return y\n"
	out := mustGenerate(t, src)
	assert.Contains(t, out, "= phi")
}

func TestStructWithPointerFieldEmitsDestructor(t *testing.T) {
	src := "struct Box { label: String, count: Int }\n" +
		"\n" +
		"fn main() with Pure:\n" +
		"    let b = Box { label: \"x\", count: 1 }\n" +
		"    return b.count\n"
	out := mustGenerate(t, src)
	assert.Contains(t, out, "func Box_destroy(self):")
	assert.Contains(t, out, "call release")
}

func TestActorCompilesRunLoopAndSpawn(t *testing.T) {
	src := "actor Counter:\n" +
		"    let count: Int\n" +
		"    receive Increment():\n" +
		"        self.count = self.count + 1\n"
	out := mustGenerate(t, src)
	assert.Contains(t, out, "func Counter_spawn(count):")
	assert.Contains(t, out, "func Counter_run(self):")
	assert.Contains(t, out, "call mq_pop, self.__mailbox")
	assert.Contains(t, out, "call sleep, 0.001")
}

func TestStringEqualityUsesDeepEq(t *testing.T) {
	src := "fn same(a: String, b: String) -> Bool with Pure:\n" +
		"    return a == b\n"
	out := mustGenerate(t, src)
	assert.Contains(t, out, "deep_eq")
}
