// Command nyxc is the whole-program compiler driver: it wires the lexer,
// parser, comptime folder, type/effect checker, and monomorphizer into each
// of the four backends (bytecode VM, shader IR, native IR, host Go source)
// plus the tree-walking interpreter, and exposes them as subcommands.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var code int
	switch os.Args[1] {
	case "build":
		code = cmdBuild(os.Args[2:])
	case "emit-all":
		code = cmdEmitAll(os.Args[2:])
	case "run":
		code = cmdRun(os.Args[2:])
	case "test":
		code = cmdTest(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		code = 0
	default:
		fmt.Fprintf(os.Stderr, "nyxc: unknown command %q\n\n", os.Args[1])
		usage()
		code = 2
	}
	os.Exit(code)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: nyxc <command> [flags] <input.nyx>

Commands:
  build     compile to a single backend's output (-t bytecode|shader|native|host)
  emit-all  compile to every backend concurrently, writing one file each
  run       compile and interpret directly, without emitting a backend target
  test      compile and run every top-level test item

Run "nyxc <command> -h" for flags specific to that command.
`)
}
