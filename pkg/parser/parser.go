// Package parser builds a FraCtuS AST from a token stream using recursive
// descent with one token of lookahead.
package parser

import (
	"io"

	"fractus/interpreter-go/pkg/ast"
	"fractus/interpreter-go/pkg/lexer"
	"fractus/interpreter-go/pkg/source"
)

// Parser consumes tokens from a Lexer. It is single use: call Parse once.
type Parser struct {
	lx    *lexer.Lexer
	tok   lexer.Token
	types *ast.TypeTable
}

// New returns a parser reading tokens from lx.
func New(lx *lexer.Lexer) *Parser {
	return &Parser{lx: lx, types: ast.NewTypeTable()}
}

// ParseSource lexes and parses a whole program read from src.
func ParseSource(name string, src io.Reader) (*ast.Program, error) {
	return New(lexer.New(source.NewReader(name, src))).Parse()
}

// ParseString parses an in-memory program.
func ParseString(text string) (*ast.Program, error) {
	return New(lexer.FromString(text)).Parse()
}

// Parse reads `program Identifier ; block .` and returns the program node.
// The first lexical or syntax error aborts the parse.
func (p *Parser) Parse() (*ast.Program, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.Program); err != nil {
		return nil, err
	}
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != lexer.Period {
		return nil, p.errorf("expected %s", describe(lexer.Period))
	}
	return ast.NewProgram(name, block), nil
}
