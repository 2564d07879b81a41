package parser

import (
	"fmt"

	"fractus/interpreter-go/pkg/lexer"
)

func (p *Parser) advance() error {
	tok, err := p.lx.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Token: p.tok, Line: p.tok.Line}
}

// expect consumes the current token when it has the given kind.
func (p *Parser) expect(kind lexer.Kind) error {
	if p.tok.Kind != kind {
		return p.errorf("expected %s", describe(kind))
	}
	return p.advance()
}

// identifier consumes an identifier and returns its text.
func (p *Parser) identifier() (string, error) {
	if p.tok.Kind != lexer.Identifier {
		return "", p.errorf("expected identifier")
	}
	name := p.tok.Text
	if err := p.advance(); err != nil {
		return "", err
	}
	return name, nil
}

var spellings = map[lexer.Kind]string{
	lexer.Semicolon:  "';'",
	lexer.Colon:      "':'",
	lexer.Comma:      "','",
	lexer.Period:     "'.'",
	lexer.BraceOpen:  "'{'",
	lexer.BraceClose: "'}'",
	lexer.ParenOpen:  "'('",
	lexer.ParenClose: "')'",
	lexer.Assign:     "'='",
}

func describe(kind lexer.Kind) string {
	if s, ok := spellings[kind]; ok {
		return s
	}
	for word, k := range lexer.Keywords {
		if k == kind {
			return "'" + word + "'"
		}
	}
	return kind.String()
}
