package main

import (
	"fmt"

	"github.com/nyxlang/nyxc/internal/codegen/bytecode"
	"github.com/nyxlang/nyxc/internal/codegen/hostsrc"
	"github.com/nyxlang/nyxc/internal/codegen/native"
	"github.com/nyxlang/nyxc/internal/codegen/shader"
	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/monomorphize"
)

// backend is one of the four codegen targets spec.md §4 names (GW, GS, GN,
// GT). Each takes the same monomorphized program and returns raw output
// bytes plus any codegen diagnostics.
type backend func(*monomorphize.Program) ([]byte, *diag.ErrorList)

// targets maps the -target flag's accepted values to their backend and the
// file extension used when writing multiple targets to a directory.
var targets = map[string]struct {
	gen  backend
	ext  string
}{
	"bytecode": {bytecode.Generate, ".nyxw"},
	"shader":   {shader.Generate, ".gs.txt"},
	"native":   {native.Generate, ".gn.txt"},
	"host":     {hostsrc.Generate, ".go"},
}

func targetNames() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	return names
}

func lookupTarget(name string) (backend, string, error) {
	t, ok := targets[name]
	if !ok {
		return nil, "", fmt.Errorf("unknown target %q (want one of %v)", name, targetNames())
	}
	return t.gen, t.ext, nil
}
