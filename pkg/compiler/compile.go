package compiler

import "toyc/pkg/ir"

// Compile runs the full pipeline over src: tokenize, parse the single
// top-level expression, and lower it to an IR module. A lexical or
// syntactic error aborts the whole compile; there is no recovery.
func Compile(src string) (*ir.Module, error) {
	lex := NewLexer(src)

	p, err := NewParser(lex)
	if err != nil {
		return nil, err
	}
	root, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	cg := NewCodeGen("toy")
	return cg.Generate(root)
}
