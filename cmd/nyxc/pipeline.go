package main

import (
	"fmt"
	"os"
	"time"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/comptime"
	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/lexer"
	"github.com/nyxlang/nyxc/internal/module"
	"github.com/nyxlang/nyxc/internal/monomorphize"
	"github.com/nyxlang/nyxc/internal/parser"
	"github.com/nyxlang/nyxc/internal/types"
)

// logPhase times a single compiler stage and, when verbose, reports it to
// stderr so a slow checker or monomorphizer pass on a large program is
// visible without needing a profiler.
func logPhase(verbose bool, name string, fn func()) {
	start := time.Now()
	fn()
	if verbose {
		fmt.Fprintf(os.Stderr, "nyxc: %-12s %s\n", name, time.Since(start).Round(time.Microsecond))
	}
}

// checkModuleOrder collects the module name each top-level `use` declaration
// names (its path's first segment) and runs them through module.Order,
// surfacing a circular-import diagnostic before the checker wastes time on a
// program that could never compile. Loading the imported files themselves is
// out of scope (spec.md's package-installer non-goal), so this only orders
// and cycle-checks the declared names, matching internal/module's reduced
// contract.
func checkModuleOrder(prog *ast.Program) error {
	seen := map[string]bool{}
	var names []string
	for _, it := range prog.Items {
		u, ok := it.(*ast.UseDecl)
		if !ok || len(u.Path) == 0 {
			continue
		}
		name := u.Path[0]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	_, err := module.Order(names)
	return err
}

// frontend runs the lexer, parser, comptime folder, type/effect checker, and
// monomorphizer in sequence, stopping at the first stage that reports errors.
func frontend(src string, verbose bool) (*monomorphize.Program, *diag.ErrorList) {
	toks, lexErr := lexer.Tokenize(src)
	if lexErr != nil {
		el := diag.NewErrorList()
		el.Add(diag.Lex, lexErr.Span, lexErr.Message)
		return nil, el
	}

	var prog *ast.Program
	var perrs *diag.ErrorList
	logPhase(verbose, "parse", func() {
		prog, perrs = parser.Parse(toks)
	})
	if perrs.HasErrors() {
		return nil, perrs
	}

	if err := checkModuleOrder(prog); err != nil {
		el := diag.NewErrorList()
		el.Add(diag.Parse, prog.Span, err.Error())
		return nil, el
	}

	var cterrs *diag.ErrorList
	logPhase(verbose, "comptime", func() {
		cterrs = comptime.EvalProgram(prog)
	})
	if cterrs.HasErrors() {
		return nil, cterrs
	}

	var checked *types.Program
	var cerrs *diag.ErrorList
	logPhase(verbose, "check", func() {
		checked, cerrs = types.Check(prog)
	})
	if cerrs.HasErrors() {
		return nil, cerrs
	}

	var mono *monomorphize.Program
	var merrs *diag.ErrorList
	logPhase(verbose, "monomorphize", func() {
		mono, merrs = monomorphize.Monomorphize(checked)
	})
	if merrs.HasErrors() {
		return nil, merrs
	}

	return mono, diag.NewErrorList()
}
