package parser

import (
	"fractus/interpreter-go/pkg/ast"
	"fractus/interpreter-go/pkg/lexer"
)

func (p *Parser) parseCompound() (*ast.CompoundStatement, error) {
	if err := p.expect(lexer.Begin); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.tok.Kind != lexer.Semicolon {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(lexer.End); err != nil {
		return nil, err
	}
	return ast.NewCompoundStatement(stmts), nil
}

// parseStatement returns nil for the empty statement.
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.tok.Kind {
	case lexer.Return:
		if err := p.advance(); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewReturnStatement(value), nil
	case lexer.If:
		return p.parseIf()
	case lexer.While:
		return p.parseWhile()
	case lexer.Begin:
		return p.parseCompound()
	case lexer.Identifier:
		name := p.tok.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.tok.Kind {
		case lexer.Assign:
			if err := p.advance(); err != nil {
				return nil, err
			}
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return ast.NewAssignment(name, value), nil
		case lexer.ParenOpen:
			return p.parseCall(name)
		default:
			return nil, p.errorf("expected '=' or '(' after %s", name)
		}
	default:
		return nil, nil
	}
}

func (p *Parser) parseIf() (ast.Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.Then); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var els ast.Statement
	if p.tok.Kind == lexer.Else {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if els, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return ast.NewIfStatement(cond, then, els), nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.Do); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileStatement(cond, body), nil
}
