package parser

import (
	"github.com/golang/glog"

	"github.com/agenthands/monkey/pkg/compiler/ast"
	"github.com/agenthands/monkey/pkg/compiler/lexer"
)

func (p *Parser) parseStatement() ast.Statement {
	var stmt ast.Statement
	switch p.curTok.Kind {
	case lexer.KindSemicolon:
		// Empty statement.
		return nil
	case lexer.KindLet:
		stmt = p.parseLetStatement()
	case lexer.KindReturn:
		stmt = p.parseReturnStatement()
	default:
		stmt = p.parseExpressionStatement()
	}
	if stmt == nil {
		p.synchronize()
	}
	return stmt
}

// synchronize skips the rest of a statement that failed to parse. It stops
// with peekTok on the ';' ending the statement, on the '}' closing the
// enclosing block, or on EOF. A failure already sitting on a boundary token
// skips nothing.
func (p *Parser) synchronize() {
	switch p.curTok.Kind {
	case lexer.KindSemicolon, lexer.KindRBrace, lexer.KindEOF:
		return
	}
	from := p.curTok
	depth := 0
	for {
		switch p.peekTok.Kind {
		case lexer.KindEOF:
			return
		case lexer.KindSemicolon:
			if depth == 0 {
				glog.V(2).Infof("parser: resynchronized from %d:%d to %d:%d", from.Line, from.Column, p.peekTok.Line, p.peekTok.Column)
				return
			}
		case lexer.KindLBrace:
			depth++
		case lexer.KindRBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		p.nextToken()
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curTok}

	if !p.expectPeek(lexer.KindIdent) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curTok, Value: p.curTok.Literal}

	if !p.expectPeek(lexer.KindAssign) {
		return nil
	}
	p.nextToken()

	stmt.Value = p.parseExpression(lexer.Lowest)
	if stmt.Value == nil {
		return nil
	}

	if p.peekTokenIs(lexer.KindSemicolon) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curTok}
	p.nextToken()

	stmt.Value = p.parseExpression(lexer.Lowest)
	if stmt.Value == nil {
		return nil
	}

	if p.peekTokenIs(lexer.KindSemicolon) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curTok}

	stmt.Expression = p.parseExpression(lexer.Lowest)
	if stmt.Expression == nil {
		return nil
	}

	if p.peekTokenIs(lexer.KindSemicolon) {
		p.nextToken()
	}
	return stmt
}

// parseBlockStatement is entered with curTok on '{' and returns with curTok on
// the closing '}', or on EOF when the block is unterminated.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curTok}
	p.nextToken()

	for !p.curTokenIs(lexer.KindRBrace) && !p.curTokenIs(lexer.KindEOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}
