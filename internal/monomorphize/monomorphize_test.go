package monomorphize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/lexer"
	"github.com/nyxlang/nyxc/internal/mangle"
	"github.com/nyxlang/nyxc/internal/parser"
	"github.com/nyxlang/nyxc/internal/types"
)

func mustMonomorphize(t *testing.T, src string) *Program {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	require.Nil(t, err)
	prog, perrs := parser.Parse(toks)
	require.False(t, perrs.HasErrors(), "parse errors: %s", perrs.String())
	checked, cerrs := types.Check(prog)
	require.False(t, cerrs.HasErrors(), "check errors: %s", cerrs.String())
	out, merrs := Monomorphize(checked)
	require.False(t, merrs.HasErrors(), "monomorphize errors: %s", merrs.String())
	return out
}

func TestGenericCallSitesInstantiateDistinctMangledFuncs(t *testing.T) {
	src := "fn identity<T>(x: T) -> T with Pure:\n" +
		"    return x\n" +
		"\n" +
		"fn main() with IO:\n" +
		"    let a = identity(1)\n" +
		"    let b = identity(\"s\")\n"
	out := mustMonomorphize(t, src)

	wantInt := mangle.Generic("identity", []string{"Int"})
	wantString := mangle.Generic("identity", []string{"String"})
	assert.Contains(t, out.FuncsByName, wantInt)
	assert.Contains(t, out.FuncsByName, wantString)
	assert.NotContains(t, out.FuncsByName, "identity", "the generic template itself should not survive as a callable func")

	main := out.FuncsByName["main"]
	require.NotNil(t, main)
	let0 := main.Body.Stmts[0].(*ast.LetStmt)
	call0 := let0.Decl.Value.(*ast.CallExpr)
	assert.Equal(t, wantInt, call0.Callee.(*ast.Ident).Name)
	let1 := main.Body.Stmts[1].(*ast.LetStmt)
	call1 := let1.Decl.Value.(*ast.CallExpr)
	assert.Equal(t, wantString, call1.Callee.(*ast.Ident).Name)
}

func TestUnsatisfiedTraitBoundProducesTypeError(t *testing.T) {
	src := "trait Show {\n" +
		"fn show(self) -> String\n" +
		"}\n" +
		"\n" +
		"struct Box { value: Int }\n" +
		"\n" +
		"impl Show for Box {\n" +
		"fn show(self) -> String with Pure:\n" +
		"    return \"box\"\n" +
		"}\n" +
		"\n" +
		"fn describe<T: Show>(x: T) -> Int with Pure:\n" +
		"    return 0\n" +
		"\n" +
		"fn main() with IO:\n" +
		"    let n = describe(1)\n"

	toks, err := lexer.Tokenize(src)
	require.Nil(t, err)
	prog, perrs := parser.Parse(toks)
	require.False(t, perrs.HasErrors(), "parse errors: %s", perrs.String())
	checked, cerrs := types.Check(prog)
	require.False(t, cerrs.HasErrors(), "check errors: %s", cerrs.String())

	_, merrs := Monomorphize(checked)
	require.True(t, merrs.HasErrors(), "expected a bound-violation error for describe(1), Int does not implement Show")
	assert.Contains(t, merrs.String(), "Show")
}

func TestMethodCallFlattenedToFreeFunction(t *testing.T) {
	src := "struct Counter { value: Int }\n" +
		"\n" +
		"impl Counter {\n" +
		"fn get(self) -> Int with Pure:\n" +
		"    return self.value\n" +
		"}\n" +
		"\n" +
		"fn main() with IO:\n" +
		"    let c = Counter { value: 5 }\n" +
		"    let v = c.get()\n"
	out := mustMonomorphize(t, src)

	wantName := mangle.Method("Counter", "get")
	require.Contains(t, out.FuncsByName, wantName)

	main := out.FuncsByName["main"]
	require.NotNil(t, main)
	let1 := main.Body.Stmts[1].(*ast.LetStmt)
	call, ok := let1.Decl.Value.(*ast.CallExpr)
	require.True(t, ok, "method call should be rewritten to a CallExpr, got %T", let1.Decl.Value)
	assert.Equal(t, wantName, call.Callee.(*ast.Ident).Name)
	require.Len(t, call.Args, 1, "receiver should be passed as the first argument")
	recv, ok := call.Args[0].(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "c", recv.Name)
}

func TestAsyncLoweringArmCountMatchesAwaitPointsPlusTwo(t *testing.T) {
	src := "fn load() -> Int with Async:\n" +
		"    let a = await fetch()\n" +
		"    let b = await process(a)\n" +
		"    return b\n" +
		"\n" +
		"fn fetch() -> Int with Async:\n" +
		"    return 1\n" +
		"\n" +
		"fn process(x: Int) -> Int with Async:\n" +
		"    return x\n"
	out := mustMonomorphize(t, src)

	pollName := mangle.Poll("load")
	pollFunc, ok := out.FuncsByName[pollName]
	require.True(t, ok, "expected generated poll function %q", pollName)
	require.Equal(t, KindFuturePoll, pollFunc.Kind)

	ret := pollFunc.Body.Stmts[0].(*ast.ReturnStmt)
	match := ret.Value.(*ast.MatchExpr)
	assert.Len(t, match.Arms, 2+2, "two await points should produce 4 arms: two await arms, one final arm, one wildcard")

	entry := out.FuncsByName["load"]
	require.NotNil(t, entry)
	entryRet := entry.Body.Stmts[0].(*ast.ReturnStmt)
	lit, ok := entryRet.Value.(*ast.StructLit)
	require.True(t, ok, "entry function should construct the Future struct, got %T", entryRet.Value)
	assert.Equal(t, mangle.Future("load"), lit.TypeName)
	assert.False(t, entry.Effects.Contains(types.Async), "the entry function should no longer carry Async once lowered")
	assert.False(t, pollFunc.Effects.Contains(types.Async), "the generated poll function must not itself look async")

	futureType, ok := out.Table.Structs[mangle.Future("load")]
	require.True(t, ok)
	for i := 0; i < 2; i++ {
		assert.Contains(t, futureType.Fields, mangle.AwaitField(i))
		assert.Contains(t, futureType.Fields, mangle.AwaitField(i)+"_started")
		assert.Contains(t, futureType.Fields, mangle.AwaitResultField(i))
	}
}
