package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/lexer"
	"github.com/nyxlang/nyxc/internal/parser"
)

func mustCheck(t *testing.T, src string) (*Program, *diag.ErrorList) {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	prog, perrs := parser.Parse(toks)
	require.False(t, perrs.HasErrors(), "parse errors: %s", perrs.String())
	return Check(prog)
}

func TestEffectViolationRejected(t *testing.T) {
	src := "fn pureFn() with Pure:\n" +
		"    ioFn()\n" +
		"fn ioFn() with IO:\n" +
		"    return\n"
	_, errs := mustCheck(t, src)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.Effect, errs.Errors[0].Kind)
}

func TestEffectViolationAcceptedFromIOCaller(t *testing.T) {
	src := "fn callerIO() with IO:\n" +
		"    ioFn()\n" +
		"fn ioFn() with IO:\n" +
		"    return\n"
	_, errs := mustCheck(t, src)
	assert.False(t, errs.HasErrors())
}

func TestEffectViolationAcceptedFromUnsafeCaller(t *testing.T) {
	src := "fn callerUnsafe() with Unsafe:\n" +
		"    ioFn()\n" +
		"fn ioFn() with IO:\n" +
		"    return\n"
	_, errs := mustCheck(t, src)
	assert.False(t, errs.HasErrors())
}

func TestUnresolvedIdentifier(t *testing.T) {
	src := "fn f() with Pure:\n" +
		"    return mystery\n"
	_, errs := mustCheck(t, src)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.Type, errs.Errors[0].Kind)
}

func TestStructFieldTypesResolved(t *testing.T) {
	src := "struct Point { x: Int, y: Int }\n"
	prog, errs := mustCheck(t, src)
	require.False(t, errs.HasErrors())
	pt := prog.Table.Structs["Point"]
	require.NotNil(t, pt)
	assert.Equal(t, Int, pt.Fields["x"].Kind)
	assert.Equal(t, Int, pt.Fields["y"].Kind)
}

func TestDuplicateStructFieldReportsNoteAndRelatedSpan(t *testing.T) {
	src := "struct Point { x: Int, x: Int }\n"
	_, errs := mustCheck(t, src)
	require.True(t, errs.HasErrors())
	err := errs.Errors[0]
	assert.Equal(t, diag.Type, err.Kind)
	assert.Contains(t, err.Message, "x")
	require.NotEmpty(t, err.Notes)
	require.Len(t, err.Related, 1, "the first field's declaration site should be attached as a related span")
}

func TestEffectSetCanCall(t *testing.T) {
	pure := NewEffectSet("Pure")
	io := NewEffectSet("IO")
	unsafe := NewEffectSet("Unsafe")
	assert.True(t, pure.CanCall(pure))
	assert.False(t, pure.CanCall(io))
	assert.True(t, io.CanCall(pure))
	assert.True(t, io.CanCall(io))
	assert.True(t, unsafe.CanCall(io))
}
