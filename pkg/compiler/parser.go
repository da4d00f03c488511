package compiler

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidNumber marks a token whose text cannot be converted to the
// 32-bit value type.
var ErrInvalidNumber = errors.New("invalid number")

// Parser consumes tokens one at a time from a live Lexer and builds AST
// nodes by recursive descent.
//
// Grammar, as reachable from the top-level entry point:
//
//	expression := NUMBER (OPERATOR expression)?
//
// Every operator chain is right-associative with no precedence distinction
// between + - * /, so "2 * 3 + 4" parses as 2 * (3 + 4). The if/while forms
// below exist alongside the expression grammar but are not wired into the
// compile driver.
type Parser struct {
	lex *Lexer
	cur Token // the current token; always one ahead of what was consumed
}

// NewParser primes the parser by fetching the first token.
func NewParser(lex *Lexer) (*Parser, error) {
	p := &Parser{lex: lex}
	if err := p.next(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) next() error {
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

// ParseExpression parses one expression and leaves the current token on the
// first token past it.
func (p *Parser) ParseExpression() (Node, error) {
	tok := p.cur
	v, err := strconv.ParseInt(tok.Lexeme, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w %q on line %d", ErrInvalidNumber, tok.Lexeme, tok.Line)
	}
	left := &NumberLiteral{Value: int32(v)}

	if err := p.next(); err != nil {
		return nil, err
	}

	if p.cur.Type == OPERATOR {
		op := p.cur.Lexeme[0]
		if err := p.next(); err != nil {
			return nil, err
		}
		// The whole remainder of the input becomes the right operand.
		right, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		return &BinaryOp{Op: op, Left: left, Right: right}, nil
	}

	return left, nil
}

// ParseIfStatement parses if cond { then [else elseBranch]. The current
// token must be IF. One token is skipped after the condition without
// checking that it is an opening brace, the branches are single expressions
// rather than blocks, and no closing brace is consumed.
func (p *Parser) ParseIfStatement() (Node, error) {
	if err := p.next(); err != nil { // skip 'if'
		return nil, err
	}
	cond, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.next(); err != nil { // skip what should be '{'
		return nil, err
	}
	then, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	var elseBranch Node
	if p.cur.Type == ELSE {
		if err := p.next(); err != nil {
			return nil, err
		}
		elseBranch, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
	}

	return &Conditional{Cond: cond, Then: then, Else: elseBranch}, nil
}

// ParseWhileStatement parses while cond { body, with the same single-
// expression bodies and unchecked braces as ParseIfStatement. The current
// token must be WHILE.
func (p *Parser) ParseWhileStatement() (Node, error) {
	if err := p.next(); err != nil { // skip 'while'
		return nil, err
	}
	cond, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.next(); err != nil { // skip what should be '{'
		return nil, err
	}
	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &Loop{Cond: cond, Body: body}, nil
}
