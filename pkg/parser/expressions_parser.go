package parser

import (
	"fractus/interpreter-go/pkg/ast"
	"fractus/interpreter-go/pkg/lexer"
)

var relationalOperators = map[lexer.Kind]string{
	lexer.Eq:  "==",
	lexer.Neq: "!=",
	lexer.Lt:  "<",
	lexer.Le:  "<=",
	lexer.Gt:  ">",
	lexer.Ge:  ">=",
	lexer.Or:  "or",
	lexer.And: "and",
}

// parseExpression allows at most one relational operator between two simple
// expressions.
func (p *Parser) parseExpression() (ast.Expression, error) {
	left, err := p.parseSimpleExpression()
	if err != nil {
		return nil, err
	}
	op, ok := relationalOperators[p.tok.Kind]
	if !ok {
		return left, nil
	}
	kind := p.tok.Kind
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseSimpleExpression()
	if err != nil {
		return nil, err
	}
	if kind == lexer.Or || kind == lexer.And {
		return ast.NewLogicalExpression(op, left, right), nil
	}
	return ast.NewBinaryExpression(op, left, right), nil
}

func (p *Parser) parseSimpleExpression() (ast.Expression, error) {
	if p.tok.Kind == lexer.Identifier && (p.tok.Text == "true" || p.tok.Text == "false") {
		lit := ast.NewBooleanLiteral(p.tok.Text == "true")
		return lit, p.advance()
	}

	negate := false
	switch p.tok.Kind {
	case lexer.Minus:
		negate = true
		fallthrough
	case lexer.Plus:
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if negate {
		left = ast.NewUnaryExpression(ast.UnaryOperatorNegate, left)
	}
	for p.tok.Kind == lexer.Plus || p.tok.Kind == lexer.Minus {
		op := "+"
		if p.tok.Kind == lexer.Minus {
			op = "-"
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression(op, left, right)
	}
	return left, nil
}

func (p *Parser) parseTerm() (ast.Expression, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == lexer.Mult || p.tok.Kind == lexer.Div {
		op := "*"
		if p.tok.Kind == lexer.Div {
			op = "/"
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression(op, left, right)
	}
	return left, nil
}

func (p *Parser) parseFactor() (ast.Expression, error) {
	tok := p.tok
	switch tok.Kind {
	case lexer.Identifier:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.Kind == lexer.ParenOpen {
			return p.parseCall(tok.Text)
		}
		return ast.NewVariableReference(tok.Text), nil
	case lexer.IntConst:
		return ast.NewIntegerLiteral(tok.Int), p.advance()
	case lexer.FractionConst:
		return ast.NewFractionLiteral(tok.Fraction), p.advance()
	case lexer.StringConst:
		return ast.NewStringLiteral(tok.Text), p.advance()
	case lexer.ParenOpen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return inner, p.expect(lexer.ParenClose)
	case lexer.Not:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(ast.UnaryOperatorNot, operand), nil
	default:
		return nil, p.errorf("expected expression")
	}
}

// parseCall reads the argument list; the current token is the opening paren.
func (p *Parser) parseCall(name string) (*ast.ProcedureCall, error) {
	if err := p.expect(lexer.ParenOpen); err != nil {
		return nil, err
	}
	args := []ast.Expression{}
	if p.tok.Kind != lexer.ParenClose {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok.Kind != lexer.Comma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.expect(lexer.ParenClose); err != nil {
		return nil, err
	}
	return ast.NewProcedureCall(name, args), nil
}
