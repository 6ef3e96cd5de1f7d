package parser

import (
	"fmt"

	"github.com/golang/glog"
	multierror "github.com/hashicorp/go-multierror"

	"github.com/agenthands/monkey/pkg/compiler/ast"
	"github.com/agenthands/monkey/pkg/compiler/lexer"
)

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(left ast.Expression) ast.Expression
)

// Diagnostic is a single non-fatal parse error.
type Diagnostic struct {
	Message string
	Line    uint32
	Column  uint32
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// Parser is a two-token-lookahead Pratt parser. It never stops at the first
// error: diagnostics accumulate and ParseProgram always returns a Program.
type Parser struct {
	scanner *lexer.Scanner
	curTok  lexer.Token
	peekTok lexer.Token

	diagnostics []Diagnostic

	prefixParseFns map[lexer.Kind]prefixParseFn
	infixParseFns  map[lexer.Kind]infixParseFn
}

// New creates a parser reading tokens from s.
func New(s *lexer.Scanner) *Parser {
	p := &Parser{scanner: s}

	p.prefixParseFns = map[lexer.Kind]prefixParseFn{
		lexer.KindIdent:    p.parseIdentifier,
		lexer.KindInt:      p.parseIntegerLiteral,
		lexer.KindTrue:     p.parseBoolean,
		lexer.KindFalse:    p.parseBoolean,
		lexer.KindBang:     p.parsePrefixExpression,
		lexer.KindMinus:    p.parsePrefixExpression,
		lexer.KindPlus:     p.parsePrefixExpression,
		lexer.KindLParen:   p.parseGroupedExpression,
		lexer.KindIf:       p.parseIfExpression,
		lexer.KindFunction: p.parseFunctionLiteral,
	}

	p.infixParseFns = make(map[lexer.Kind]infixParseFn)
	for _, k := range []lexer.Kind{
		lexer.KindPlus, lexer.KindMinus, lexer.KindAsterisk, lexer.KindSlash,
		lexer.KindEq, lexer.KindNotEq, lexer.KindLT, lexer.KindGT,
	} {
		p.infixParseFns[k] = p.parseInfixExpression
	}
	p.infixParseFns[lexer.KindLParen] = p.parseCallExpression

	// Read two tokens, so curTok and peekTok are both set
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.scanner.Next()
}

// ParseProgram parses statements until the end of input.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.curTokenIs(lexer.KindEOF) {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

// Errors returns the diagnostic messages in the order they were recorded.
func (p *Parser) Errors() []string {
	msgs := make([]string, len(p.diagnostics))
	for i, d := range p.diagnostics {
		msgs[i] = d.Message
	}
	return msgs
}

// Diagnostics returns the recorded diagnostics with their positions.
func (p *Parser) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), p.diagnostics...)
}

// Err returns nil if parsing produced no diagnostics, otherwise a
// *multierror.Error holding one *Diagnostic per message.
func (p *Parser) Err() error {
	var result *multierror.Error
	for i := range p.diagnostics {
		result = multierror.Append(result, &p.diagnostics[i])
	}
	return result.ErrorOrNil()
}

func (p *Parser) curTokenIs(k lexer.Kind) bool {
	return p.curTok.Kind == k
}

func (p *Parser) peekTokenIs(k lexer.Kind) bool {
	return p.peekTok.Kind == k
}

// expectPeek advances if the next token has kind k, otherwise it records a
// diagnostic and leaves the position unchanged.
func (p *Parser) expectPeek(k lexer.Kind) bool {
	if p.peekTokenIs(k) {
		p.nextToken()
		return true
	}
	p.peekError(k)
	return false
}

func (p *Parser) peekError(k lexer.Kind) {
	p.report(p.peekTok, "expected next token to be %s, got %s instead", k, p.peekTok.Kind)
}

func (p *Parser) noPrefixParseFnError(k lexer.Kind) {
	p.report(p.curTok, "no prefix parse function for %s found", k)
}

func (p *Parser) report(at lexer.Token, format string, args ...any) {
	d := Diagnostic{
		Message: fmt.Sprintf(format, args...),
		Line:    at.Line,
		Column:  at.Column,
	}
	glog.V(2).Infof("parser: %s", d.Error())
	p.diagnostics = append(p.diagnostics, d)
}

func (p *Parser) peekPrecedence() lexer.Precedence {
	return lexer.PrecedenceOf(p.peekTok.Kind)
}

func (p *Parser) curPrecedence() lexer.Precedence {
	return lexer.PrecedenceOf(p.curTok.Kind)
}
