package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"patitolang/internal/compiler"
	"patitolang/internal/util"
)

// run reads and compiles the source named in opt, optionally dumps
// debug views, then executes the compiled program. It mirrors the
// teacher's run(opt) staged pipeline, each stage short-circuiting the
// next on error.
func run(opt util.Options) error {
	src, err := util.ReadSource(opt.Src)
	if err != nil {
		return fmt.Errorf("could not read source code: %s", err)
	}

	prog, err := compiler.Compile(src)
	if err != nil {
		if opt.ListErrors {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		return fmt.Errorf("compile error: %s", err)
	}

	if opt.ListErrors {
		for _, e1 := range prog.ListErrors(context.Background()) {
			fmt.Fprintln(os.Stderr, e1)
		}
	}

	if opt.DumpSymbols {
		fmt.Print(prog.DumpSymbols())
	}
	if opt.DumpConsts {
		fmt.Print(prog.DumpConsts())
	}
	if opt.DumpQuads {
		fmt.Print(prog.DumpQuads())
	}

	w := util.NewWriter()
	defer w.Close()
	if err := prog.Run(&w); err != nil {
		return fmt.Errorf("runtime error: %s", err)
	}
	return nil
}

func main() {
	opt, err := util.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Printf("command line argument error: %s\n", err)
		os.Exit(1)
	}
	if opt.Src == "" {
		fmt.Println("no source file given; see -help")
		os.Exit(1)
	}

	wg := sync.WaitGroup{}
	if opt.Out != "" {
		f, err := os.OpenFile(opt.Out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer f.Close()
		util.ListenWrite(f, &wg)
	} else {
		util.ListenWrite(nil, &wg)
	}
	defer util.Close()

	if err := run(opt); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		wg.Wait()
		os.Exit(1)
	}

	wg.Wait()
}
