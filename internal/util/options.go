package util

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// Options holds the parsed command line configuration for the compiler
// driver. It is built by ParseArgs and threaded through every pipeline
// stage.
type Options struct {
	Src         string // Path to the Patito source file.
	Out         string // Path to redirect PRINT output to; empty means stdout.
	DumpQuads   bool   // Print the quadruple list before executing.
	DumpConsts  bool   // Print the constant table before executing.
	DumpSymbols bool   // Print global variables and the function directory before executing.
	ListErrors  bool   // After a successful compile, report every function whose entry quad or ENDFUNC check fails.
	Verbose     bool   // Set by -vb; no pipeline stage reads it.
}

const appVersion = "patito 1.0"

// ParseArgs parses os.Args[1:] into an Options structure.
func ParseArgs(args []string) (Options, error) {
	opt := Options{}
	if len(args) == 0 {
		return opt, nil
	}
	for i1 := 0; i1 < len(args); i1++ {
		switch args[i1] {
		case "-h", "--h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-v", "--v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "-o":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected path to output file, got new flag %s", args[i1+1])
			}
			opt.Out = args[i1+1]
			i1++
		case "-dump-quads":
			opt.DumpQuads = true
		case "-dump-consts":
			opt.DumpConsts = true
		case "-dump-symbols":
			opt.DumpSymbols = true
		case "-list-errors":
			opt.ListErrors = true
		case "-vb":
			opt.Verbose = true
		default:
			if strings.HasPrefix(args[i1], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i1])
			}
			opt.Src = args[i1]
		}
	}
	return opt, nil
}

// printHelp prints a helpful usage message to stdout.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits.")
	_, _ = fmt.Fprintln(w, "--h, --help")
	_, _ = fmt.Fprintln(w, "-o\tPath of the file to write PRINT output to. Defaults to stdout.")
	_, _ = fmt.Fprintln(w, "-dump-quads\tPrint the generated quadruples before executing.")
	_, _ = fmt.Fprintln(w, "-dump-consts\tPrint the constant table before executing.")
	_, _ = fmt.Fprintln(w, "-dump-symbols\tPrint global variables and the function directory before executing.")
	_, _ = fmt.Fprintln(w, "-list-errors\tAfter a successful compile, report every function whose entry quad or ENDFUNC check fails. Compilation still stops at the first error.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints the compiler version and exits.")
	_, _ = fmt.Fprintln(w, "--v, --version")
	_, _ = fmt.Fprintln(w, "-vb\tAccepted, but prints no extra output.")
	_ = w.Flush()
}
