// Command toydemo compiles a fixed built-in expression and walks it through
// every stage of the pipeline: tokens, AST, IR dump, and execution.
package main

import (
	"fmt"
	"os"

	"toyc/pkg/compiler"
	"toyc/pkg/engine"
)

const demoSource = "5 + 3;"

func main() {
	fmt.Printf("Source:\n%s\n\n", demoSource)

	tokens, err := compiler.Lex(demoSource)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lex error:", err)
		os.Exit(1)
	}
	fmt.Printf("Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Println(" ", tok)
	}
	fmt.Println()

	p, err := compiler.NewParser(compiler.NewLexer(demoSource))
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}
	root, err := p.ParseExpression()
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}
	fmt.Println("AST")
	fmt.Println(" ", root)
	fmt.Println()

	cg := compiler.NewCodeGen("toy")
	mod, err := cg.Generate(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codegen error:", err)
		os.Exit(1)
	}

	fmt.Println("IR")
	cg.PrintIR(os.Stdout)
	fmt.Println()

	fmt.Println("Output")
	if err := engine.Run(mod, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "run error:", err)
		os.Exit(1)
	}
}
