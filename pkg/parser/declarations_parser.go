package parser

import (
	"fractus/interpreter-go/pkg/ast"
	"fractus/interpreter-go/pkg/lexer"
)

// parseBlock reads the variable part, the procedure part and the compound
// statement that make up a program or procedure body.
func (p *Parser) parseBlock() (*ast.Block, error) {
	vars, err := p.parseVarPart()
	if err != nil {
		return nil, err
	}
	procs, err := p.parseProcPart()
	if err != nil {
		return nil, err
	}
	body, err := p.parseCompound()
	if err != nil {
		return nil, err
	}
	return ast.NewBlock(vars, procs, body), nil
}

// parseVarPart accepts any number of `var` sections, each holding one or
// more groups.
func (p *Parser) parseVarPart() ([]*ast.VariableDeclaration, error) {
	var decls []*ast.VariableDeclaration
	for p.tok.Kind == lexer.Var {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.Kind != lexer.Identifier {
			return nil, p.errorf("expected identifier")
		}
		for p.tok.Kind == lexer.Identifier {
			group, err := p.parseVarGroup()
			if err != nil {
				return nil, err
			}
			decls = append(decls, group...)
		}
	}
	return decls, nil
}

// parseVarGroup reads `a, b, c: type ;`.
func (p *Parser) parseVarGroup() ([]*ast.VariableDeclaration, error) {
	var names []string
	for {
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if p.tok.Kind != lexer.Comma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(lexer.Colon); err != nil {
		return nil, err
	}
	typ, err := p.parseVarType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	decls := make([]*ast.VariableDeclaration, 0, len(names))
	for _, name := range names {
		decls = append(decls, ast.NewVariableDeclaration(name, typ))
	}
	return decls, nil
}

func (p *Parser) parseVarType() (*ast.TypeReference, error) {
	if !p.tok.Kind.IsVarType() {
		return nil, p.errorf("expected type name")
	}
	typ := p.types.Intern(p.tok.Text)
	return typ, p.advance()
}

func (p *Parser) parseProcPart() ([]*ast.ProcedureDeclaration, error) {
	var procs []*ast.ProcedureDeclaration
	for p.tok.Kind.IsReturnType() {
		proc, err := p.parseProcedure()
		if err != nil {
			return nil, err
		}
		procs = append(procs, proc)
	}
	return procs, nil
}

// parseProcedure reads `retType name ( params ) ; block ;`.
func (p *Parser) parseProcedure() (*ast.ProcedureDeclaration, error) {
	ret := p.types.Intern(p.tok.Text)
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.ParenOpen); err != nil {
		return nil, err
	}
	var params []*ast.Parameter
	if p.tok.Kind != lexer.ParenClose {
		for {
			typ, err := p.parseVarType()
			if err != nil {
				return nil, err
			}
			pname, err := p.identifier()
			if err != nil {
				return nil, err
			}
			params = append(params, ast.NewParameter(pname, typ))
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
	if err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return ast.NewProcedureDeclaration(name, ret, params, body), nil
}
