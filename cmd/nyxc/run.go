package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/nyxlang/nyxc/internal/interp"
)

// cmdRun implements `nyxc run`: compile to the monomorphized program and
// interpret it directly in-process, the tree-walking fallback spec.md keeps
// alongside the four backends for fast iteration without a target runtime.
func cmdRun(args []string) int {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	verbose := fs.BoolP("verbose", "v", false, "log phase timings to stderr")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nyxc run <input.nyx>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "nyxc: reading %s: %v\n", fs.Arg(0), err)
		return 1
	}

	prog, errs := frontend(string(data), *verbose)
	if errs.HasErrors() {
		fmt.Fprint(os.Stderr, errs.String())
		return 1
	}

	it := interp.New(prog)
	it.RunMain()
	if it.Errors().HasErrors() {
		fmt.Fprint(os.Stderr, it.Errors().String())
		return 1
	}
	return 0
}

// cmdTest implements `nyxc test`: compile and run every top-level test item,
// reporting pass/fail counts the way `go test` summarizes a package.
func cmdTest(args []string) int {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	verbose := fs.BoolP("verbose", "v", false, "log phase timings to stderr")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nyxc test <input.nyx>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "nyxc: reading %s: %v\n", fs.Arg(0), err)
		return 1
	}

	prog, errs := frontend(string(data), *verbose)
	if errs.HasErrors() {
		fmt.Fprint(os.Stderr, errs.String())
		return 1
	}

	it := interp.New(prog)
	passed, failed := it.RunTests()
	for _, name := range passed {
		fmt.Printf("ok   %s\n", name)
	}
	for _, name := range failed {
		fmt.Printf("FAIL %s\n", name)
	}
	fmt.Printf("%d passed, %d failed\n", len(passed), len(failed))
	if len(failed) > 0 {
		return 1
	}
	return 0
}
