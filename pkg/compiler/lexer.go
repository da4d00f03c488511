package compiler

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrUnrecognizedChar marks a character outside the supported set. The lexer
// reports it instead of silently truncating the rest of the source.
var ErrUnrecognizedChar = errors.New("unrecognized character")

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"int":    INT,
	"return": RETURN,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
}

func NewLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// The language is ASCII-only: a non-ASCII letter or digit is an
// unrecognized character, not an identifier or number.
func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// scanIdent collects a maximal alphanumeric run starting at a letter and
// reclassifies it as a keyword when it matches one.
func (l *Lexer) scanIdent() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !isLetter(r) && !isDigit(r) {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line}
}

// scanNumber collects a maximal run of decimal digits.
func (l *Lexer) scanNumber() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.peek()) {
		l.advance()
	}
	return Token{Type: NUMBER, Lexeme: string(l.src[start:l.pos]), Line: line}
}

// NextToken skips whitespace and returns the next Token. Once the cursor
// reaches the end of input it returns EOF, and keeps returning EOF on every
// later call.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return Token{Type: EOF, Lexeme: "", Line: l.line}, nil
	}

	ch := l.peek()
	line := l.line

	if isLetter(ch) {
		return l.scanIdent(), nil
	}
	if isDigit(ch) {
		return l.scanNumber(), nil
	}

	l.advance()
	switch ch {
	case '+', '-', '*', '/':
		return Token{OPERATOR, string(ch), line}, nil
	case '(':
		return Token{LPAREN, "(", line}, nil
	case ')':
		return Token{RPAREN, ")", line}, nil
	case '{':
		return Token{LBRACE, "{", line}, nil
	case '}':
		return Token{RBRACE, "}", line}, nil
	case ';':
		return Token{SEMICOLON, ";", line}, nil
	default:
		return Token{}, fmt.Errorf("%w %q on line %d", ErrUnrecognizedChar, ch, line)
	}
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a non-nil error on the first unrecognized character.
func Lex(src string) ([]Token, error) {
	l := NewLexer(src)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
