package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

// cmdEmitAll implements `nyxc emit-all`: run every backend against the same
// monomorphized program concurrently and write each to outDir, one file per
// target. The concurrency shape mirrors a segmented batch run with one
// segment per backend and no result aggregation beyond "did it error".
func cmdEmitAll(args []string) int {
	fs := pflag.NewFlagSet("emit-all", pflag.ContinueOnError)
	outDir := fs.StringP("out", "o", "build", "directory to write one file per backend into")
	jobs := fs.IntP("jobs", "j", len(targets), "max backends to run concurrently")
	verbose := fs.BoolP("verbose", "v", false, "log phase timings to stderr")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nyxc emit-all [-o dir] [-j N] <input.nyx>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}

	inputFile := fs.Arg(0)
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

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "nyxc: creating output directory: %v\n", err)
		return 1
	}

	base := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))

	group, _ := errgroup.WithContext(context.Background())
	group.SetLimit(*jobs)
	for name, t := range targets {
		group.Go(func() error {
			code, gerrs := t.gen(prog)
			if gerrs.HasErrors() {
				return fmt.Errorf("%s: %s", name, gerrs.String())
			}
			path := filepath.Join(*outDir, base+t.ext)
			if err := os.WriteFile(path, code, 0644); err != nil {
				return fmt.Errorf("%s: writing %s: %w", name, path, err)
			}
			if *verbose {
				fmt.Fprintf(os.Stderr, "nyxc: wrote %s\n", path)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "nyxc: %v\n", err)
		return 1
	}

	fmt.Printf("nyxc: emitted %d targets to %s\n", len(targets), *outDir)
	return 0
}
