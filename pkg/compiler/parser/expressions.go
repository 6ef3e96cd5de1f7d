package parser

import (
	"strconv"

	"github.com/agenthands/monkey/pkg/compiler/ast"
	"github.com/agenthands/monkey/pkg/compiler/lexer"
)

// parseExpression is the Pratt loop. It folds infix operators into the
// running left-hand side while the next operator binds tighter than
// precedence, which makes operators of equal precedence group to the left.
// A nil result means a diagnostic was recorded.
func (p *Parser) parseExpression(precedence lexer.Precedence) ast.Expression {
	prefix := p.prefixParseFns[p.curTok.Kind]
	if prefix == nil {
		p.noPrefixParseFnError(p.curTok.Kind)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for !p.peekTokenIs(lexer.KindSemicolon) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekTok.Kind]
		if infix == nil {
			return left
		}
		p.nextToken()

		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curTok, Value: p.curTok.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, err := strconv.ParseInt(p.curTok.Literal, 10, 64)
	if err != nil {
		p.report(p.curTok, "could not parse %s as integer", p.curTok.Literal)
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curTok, Value: value}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.curTok, Value: p.curTokenIs(lexer.KindTrue)}
}

// parsePrefixExpression keeps the node even when the operand fails to parse;
// the operand's own diagnostic has already been recorded.
func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curTok,
		Operator: p.curTok.Literal,
	}
	p.nextToken()
	expression.Right = p.parseExpression(lexer.Prefix)
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curTok,
		Operator: p.curTok.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(lexer.Lowest)
	if exp == nil {
		return nil
	}
	if !p.expectPeek(lexer.KindRParen) {
		return nil
	}
	return exp
}

func (p *Parser) parseIfExpression() ast.Expression {
	expression := &ast.IfExpression{Token: p.curTok}

	if !p.expectPeek(lexer.KindLParen) {
		return nil
	}
	p.nextToken()

	expression.Condition = p.parseExpression(lexer.Lowest)
	if expression.Condition == nil {
		return nil
	}
	if !p.expectPeek(lexer.KindRParen) {
		return nil
	}
	if !p.expectPeek(lexer.KindLBrace) {
		return nil
	}
	expression.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(lexer.KindElse) {
		p.nextToken()
		if !p.expectPeek(lexer.KindLBrace) {
			return nil
		}
		expression.Alternative = p.parseBlockStatement()
	}
	return expression
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{Token: p.curTok}

	if !p.expectPeek(lexer.KindLParen) {
		return nil
	}
	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	lit.Parameters = params

	if !p.expectPeek(lexer.KindLBrace) {
		return nil
	}
	lit.Body = p.parseBlockStatement()
	return lit
}

func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, bool) {
	identifiers := []*ast.Identifier{}

	if p.peekTokenIs(lexer.KindRParen) {
		p.nextToken()
		return identifiers, true
	}

	if !p.expectPeek(lexer.KindIdent) {
		return nil, false
	}
	identifiers = append(identifiers, &ast.Identifier{Token: p.curTok, Value: p.curTok.Literal})

	for p.peekTokenIs(lexer.KindComma) {
		p.nextToken()
		if !p.expectPeek(lexer.KindIdent) {
			return nil, false
		}
		identifiers = append(identifiers, &ast.Identifier{Token: p.curTok, Value: p.curTok.Literal})
	}

	if !p.expectPeek(lexer.KindRParen) {
		return nil, false
	}
	return identifiers, true
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curTok, Function: function}
	args, ok := p.parseCallArguments()
	if !ok {
		return nil
	}
	exp.Arguments = args
	return exp
}

func (p *Parser) parseCallArguments() ([]ast.Expression, bool) {
	args := []ast.Expression{}

	if p.peekTokenIs(lexer.KindRParen) {
		p.nextToken()
		return args, true
	}

	p.nextToken()
	arg := p.parseExpression(lexer.Lowest)
	if arg == nil {
		return nil, false
	}
	args = append(args, arg)

	for p.peekTokenIs(lexer.KindComma) {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpression(lexer.Lowest)
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
	}

	if !p.expectPeek(lexer.KindRParen) {
		return nil, false
	}
	return args, true
}
