package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

// cmdBuild implements `nyxc build`: compile one source file down to a
// single backend's output, writing it next to -o (or a target-appropriate
// default derived from the input file name).
func cmdBuild(args []string) int {
	fs := pflag.NewFlagSet("build", pflag.ContinueOnError)
	target := fs.StringP("target", "t", "bytecode", "backend: "+fmt.Sprint(targetNames()))
	output := fs.StringP("output", "o", "", "output file path (default: input name with the target's extension)")
	verbose := fs.BoolP("verbose", "v", false, "log phase timings to stderr")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nyxc build [-t target] [-o output] <input.nyx>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}

	gen, ext, err := lookupTarget(*target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nyxc: %v\n", err)
		return 1
	}

	inputFile := fs.Arg(0)
	out := *output
	if out == "" {
		base := filepath.Base(inputFile)
		out = strings.TrimSuffix(base, filepath.Ext(base)) + ext
	}

	data, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nyxc: reading %s: %v\n", inputFile, err)
		return 1
	}

	prog, errs := frontend(string(data), *verbose)
	if errs.HasErrors() {
		fmt.Fprint(os.Stderr, errs.String())
		return 1
	}

	var code []byte
	logPhase(*verbose, "codegen", func() {
		code, errs = gen(prog)
	})
	if errs.HasErrors() {
		fmt.Fprint(os.Stderr, errs.String())
		return 1
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "nyxc: creating output directory: %v\n", err)
			return 1
		}
	}
	if err := os.WriteFile(out, code, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "nyxc: writing %s: %v\n", out, err)
		return 1
	}

	fmt.Printf("nyxc: wrote %s (%s target)\n", out, *target)
	return 0
}
