package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxlang/nyxc/internal/lexer"
	"github.com/nyxlang/nyxc/internal/parser"
)

func TestFrontendCompilesValidProgram(t *testing.T) {
	src := "fn add(a: Int, b: Int) -> Int with Pure:\n" +
		"    return a + b\n" +
		"\n" +
		"fn main() with Pure:\n" +
		"    let z = add(1, 2)\n"
	prog, errs := frontend(src, false)
	require.False(t, errs.HasErrors(), errs.String())
	require.NotNil(t, prog)
	assert.Contains(t, prog.FuncsByName, "add")
	assert.Contains(t, prog.FuncsByName, "main")
}

func TestFrontendStopsAtFirstFailingStage(t *testing.T) {
	src := "fn main() with Pure:\n" +
		"    let z = 1 +\n"
	_, errs := frontend(src, false)
	assert.True(t, errs.HasErrors())
}

func TestFrontendAcceptsDistinctUseDeclarations(t *testing.T) {
	src := "use math::trig\n" +
		"use collections::list\n" +
		"\n" +
		"fn main() with Pure:\n" +
		"    let z = 1\n"
	prog, errs := frontend(src, false)
	require.False(t, errs.HasErrors(), errs.String())
	require.NotNil(t, prog)
}

func TestCheckModuleOrderIgnoresProgramsWithNoUseDecls(t *testing.T) {
	src := "fn main() with Pure:\n" +
		"    let z = 1\n"
	toks, lexErr := lexer.Tokenize(src)
	require.Nil(t, lexErr)
	prog, perrs := parser.Parse(toks)
	require.False(t, perrs.HasErrors())
	assert.NoError(t, checkModuleOrder(prog))
}

func TestCheckModuleOrderOrdersDistinctUseTargets(t *testing.T) {
	src := "use alpha::thing\n" +
		"use beta::other\n" +
		"\n" +
		"fn main() with Pure:\n" +
		"    let z = 1\n"
	toks, lexErr := lexer.Tokenize(src)
	require.Nil(t, lexErr)
	prog, perrs := parser.Parse(toks)
	require.False(t, perrs.HasErrors())
	// A single file's use declarations can never form a real import cycle
	// through module.Order's single-shot convenience form (each name is
	// registered as a childless leaf under one synthetic root); genuine
	// cycle detection is covered directly against internal/module's Graph
	// in module_test.go. This only confirms the driver wiring itself
	// doesn't misfire on an ordinary program.
	assert.NoError(t, checkModuleOrder(prog))
}

func TestLookupTargetKnowsAllFourBackends(t *testing.T) {
	for _, name := range []string{"bytecode", "shader", "native", "host"} {
		gen, ext, err := lookupTarget(name)
		require.NoError(t, err)
		assert.NotNil(t, gen)
		assert.NotEmpty(t, ext)
	}
}

func TestLookupTargetRejectsUnknownName(t *testing.T) {
	_, _, err := lookupTarget("wasm")
	assert.Error(t, err)
}
