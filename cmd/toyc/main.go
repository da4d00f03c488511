package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"toyc/pkg/compiler"
	"toyc/pkg/engine"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("toyc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	runFlag := fs.Bool("run", false, "execute the compiled module after printing its IR")
	tokensFlag := fs.Bool("tokens", false, "also dump the token stream")
	astFlag := fs.Bool("ast", false, "also dump the parsed AST")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	// Exactly one source file.
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: toyc [-run] [-tokens] [-ast] <source-file>")
		return 1
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, "read error:", err)
		return 1
	}
	src := string(data)

	if *tokensFlag {
		tokens, err := compiler.Lex(src)
		if err != nil {
			fmt.Fprintln(stderr, "lex error:", err)
			return 1
		}
		fmt.Fprintf(stdout, "Tokens (%d)\n", len(tokens))
		for _, tok := range tokens {
			fmt.Fprintln(stdout, " ", tok)
		}
		fmt.Fprintln(stdout)
	}

	if *astFlag {
		p, err := compiler.NewParser(compiler.NewLexer(src))
		if err != nil {
			fmt.Fprintln(stderr, "parse error:", err)
			return 1
		}
		root, err := p.ParseExpression()
		if err != nil {
			fmt.Fprintln(stderr, "parse error:", err)
			return 1
		}
		fmt.Fprintln(stdout, "AST")
		fmt.Fprintln(stdout, " ", root)
		fmt.Fprintln(stdout)
	}

	mod, err := compiler.Compile(src)
	if err != nil {
		fmt.Fprintln(stderr, "compile error:", err)
		return 1
	}

	fmt.Fprint(stdout, mod)

	if *runFlag {
		if err := engine.Run(mod, stdout); err != nil {
			fmt.Fprintln(stderr, "run error:", err)
			return 1
		}
	}
	return 0
}
