package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxlang/nyxc/internal/lexer"
	"github.com/nyxlang/nyxc/internal/monomorphize"
	"github.com/nyxlang/nyxc/internal/parser"
	"github.com/nyxlang/nyxc/internal/types"
)

func mustInterpret(t *testing.T, src string) *Interpreter {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	require.Nil(t, err)
	prog, perrs := parser.Parse(toks)
	require.False(t, perrs.HasErrors(), "parse errors: %s", perrs.String())
	checked, cerrs := types.Check(prog)
	require.False(t, cerrs.HasErrors(), "check errors: %s", cerrs.String())
	mono, merrs := monomorphize.Monomorphize(checked)
	require.False(t, merrs.HasErrors(), "monomorphize errors: %s", merrs.String())
	return New(mono)
}

func TestRecursiveFactorial(t *testing.T) {
	src := "fn factorial(n: Int) -> Int with Pure:\n" +
		"    if n <= 1:\n" +
		"        return 1\n" +
		"    return n * factorial(n - 1)\n" +
		"\n" +
		"fn main() with Pure:\n" +
		"    return factorial(5)\n"
	it := mustInterpret(t, src)
	result := it.RunMain()
	require.Empty(t, it.Errors().Errors)
	assert.Equal(t, int64(120), result.Int)
}

func TestGenericInstantiationInterprets(t *testing.T) {
	src := "fn id<T>(x: T) -> T with Pure:\n" +
		"    return x\n" +
		"\n" +
		"fn main() with IO:\n" +
		"    let a = id(42)\n" +
		"    let b = id(\"hi\")\n" +
		"    println(a)\n" +
		"    return a\n"
	it := mustInterpret(t, src)
	result := it.RunMain()
	require.Empty(t, it.Errors().Errors)
	assert.Equal(t, int64(42), result.Int)
}

func TestMatchOnEnumVariant(t *testing.T) {
	src := "enum Shape {\n" +
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
		"    return area(Shape::Square(4))\n"
	it := mustInterpret(t, src)
	result := it.RunMain()
	require.Empty(t, it.Errors().Errors)
	assert.Equal(t, int64(16), result.Int)
}

func TestAsyncAwaitChainResolvesThroughPoll(t *testing.T) {
	src := "fn fetch() -> Int with Async:\n" +
		"    return 10\n" +
		"\n" +
		"fn process(x: Int) -> Int with Async:\n" +
		"    return x + 1\n" +
		"\n" +
		"fn two() -> Int with Async:\n" +
		"    let a = await fetch()\n" +
		"    let b = await process(a)\n" +
		"    return a + b\n" +
		"\n" +
		"fn main() with IO, Async:\n" +
		"    let result = await two()\n" +
		"    return result\n"
	it := mustInterpret(t, src)
	result := it.RunMain()
	require.Empty(t, it.Errors().Errors)
	assert.Equal(t, int64(21), result.Int)
}

func TestStructMethodDispatch(t *testing.T) {
	src := "struct Counter { value: Int }\n" +
		"\n" +
		"impl Counter {\n" +
		"    fn get(self) -> Int with Pure:\n" +
		"        return self.value\n" +
		"}\n" +
		"\n" +
		"fn main() with IO:\n" +
		"    let c = Counter { value: 5 }\n" +
		"    return c.get()\n"
	it := mustInterpret(t, src)
	result := it.RunMain()
	require.Empty(t, it.Errors().Errors)
	assert.Equal(t, int64(5), result.Int)
}
