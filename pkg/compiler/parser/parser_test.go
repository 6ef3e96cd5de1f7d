package parser_test

import (
	"errors"
	"testing"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/monkey/pkg/compiler/ast"
	"github.com/agenthands/monkey/pkg/compiler/lexer"
	"github.com/agenthands/monkey/pkg/compiler/parser"
)

func parse(t *testing.T, src string) (*ast.Program, *parser.Parser) {
	t.Helper()
	p := parser.New(lexer.NewScanner(src))
	program := p.ParseProgram()
	require.NotNil(t, program)
	return program, p
}

func parseClean(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, p := parse(t, src)
	require.Empty(t, p.Errors(), "parser had errors for %q", src)
	return program
}

func TestLetStatements(t *testing.T) {
	program := parseClean(t, `
let x = 5;
let y = 10;
let foobar = 838383;
`)
	require.Len(t, program.Statements, 3)

	for i, name := range []string{"x", "y", "foobar"} {
		stmt, ok := program.Statements[i].(*ast.LetStatement)
		require.True(t, ok, "statement %d is %T", i, program.Statements[i])
		assert.Equal(t, "let", stmt.TokenLiteral())
		assert.Equal(t, name, stmt.Name.Value)
		assert.Equal(t, name, stmt.Name.TokenLiteral())
	}
}

func TestReturnStatements(t *testing.T) {
	program := parseClean(t, `
return 5;
return 121341;
return 234124;
`)
	require.Len(t, program.Statements, 3)
	for _, s := range program.Statements {
		stmt, ok := s.(*ast.ReturnStatement)
		require.True(t, ok, "got %T", s)
		assert.Equal(t, "return", stmt.TokenLiteral())
	}
}

func TestLetAndReturnRoundTrip(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"let x = 5;", "let x = 5;"},
		{"return 5;", "return 5;"},
		{"return x + 2", "return (x + 2);"},
		{"let y = false", "let y = false;"},
		{"return 1 / 2", "return (1 / 2);"},
		{"let add = fn(a, b) { a + b };", "let add = fn (a , b) { (a + b) };"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			program := parseClean(t, tt.src)
			require.Len(t, program.Statements, 1)
			assert.Equal(t, tt.want, program.String())
		})
	}
}

func TestStatementsSeparatedByExtraSemicolons(t *testing.T) {
	program := parseClean(t, "return x + 2;;let x = 2;let y = false;return true;return 1 / 2")
	require.Len(t, program.Statements, 5)
	want := []string{"return (x + 2);", "let x = 2;", "let y = false;", "return true;", "return (1 / 2);"}
	for i, s := range program.Statements {
		assert.Equal(t, want[i], s.String())
	}
}

func TestIdentifierAndLiteralExpressions(t *testing.T) {
	program := parseClean(t, "foobar; 5; true; false;")
	require.Len(t, program.Statements, 4)

	ident := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.Identifier)
	assert.Equal(t, "foobar", ident.Value)

	lit := program.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.IntegerLiteral)
	assert.Equal(t, int64(5), lit.Value)
	assert.Equal(t, "5", lit.TokenLiteral())

	assert.True(t, program.Statements[2].(*ast.ExpressionStatement).Expression.(*ast.Boolean).Value)
	assert.False(t, program.Statements[3].(*ast.ExpressionStatement).Expression.(*ast.Boolean).Value)
}

func TestPrefixExpressions(t *testing.T) {
	tests := []struct {
		src      string
		operator string
		operand  string
	}{
		{"!5;", "!", "5"},
		{"-15;", "-", "15"},
		{"+5;", "+", "5"},
		{"!true;", "!", "true"},
		{"!false;", "!", "false"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			program := parseClean(t, tt.src)
			require.Len(t, program.Statements, 1)
			exp, ok := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.PrefixExpression)
			require.True(t, ok)
			assert.Equal(t, tt.operator, exp.Operator)
			assert.Equal(t, tt.operand, exp.Right.String())
		})
	}
}

func TestInfixExpressions(t *testing.T) {
	tests := []struct {
		src      string
		operator string
	}{
		{"5 + 7;", "+"},
		{"5 - 7;", "-"},
		{"5 * 7;", "*"},
		{"5 / 7;", "/"},
		{"5 > 7;", ">"},
		{"5 < 7;", "<"},
		{"5 == 7;", "=="},
		{"5 != 7;", "!="},
		{"true == false", "=="},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			program := parseClean(t, tt.src)
			require.Len(t, program.Statements, 1)
			exp, ok := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.InfixExpression)
			require.True(t, ok)
			assert.Equal(t, tt.operator, exp.Operator)
			assert.NotNil(t, exp.Left)
			assert.NotNil(t, exp.Right)
		})
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"5 * 5 * 2 + 10 * 5 - 2;", "((((5 * 5) * 2) + (10 * 5)) - 2)"},
		{"(5 * 5 * 2 + (10 / 2)) + (10 * 5 - 2);", "((((5 * 5) * 2) + (10 / 2)) + ((10 * 5) - 2))"},
		{"-a * b", "(-a * b)"},
		{"!-a", "!-a"},
		{"a + b + c", "((a + b) + c)"},
		{"a + b - c", "((a + b) - c)"},
		{"a * b * c", "((a * b) * c)"},
		{"a * b / c", "((a * b) / c)"},
		{"a + b / c", "(a + (b / c))"},
		{"a + b * c + d / e - f", "(((a + (b * c)) + (d / e)) - f)"},
		{"3 + 4; -5 * 5", "(3 + 4)(-5 * 5)"},
		{"5 > 4 == 3 < 4", "((5 > 4) == (3 < 4))"},
		{"5 < 4 != 3 > 4", "((5 < 4) != (3 > 4))"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))"},
		{"3 < 5 == true", "((3 < 5) == true)"},
		{"3 > 5 == false", "((3 > 5) == false)"},
		{"1 + (2 + 3) + 4", "((1 + (2 + 3)) + 4)"},
		{"(5 + 5) * 2", "((5 + 5) * 2)"},
		{"2 / (5 + 5)", "(2 / (5 + 5))"},
		{"-(5 + 5)", "-(5 + 5)"},
		{"!(true == true)", "!(true == true)"},
		{"a + add(b * c) + d", "((a + add((b * c))) + d)"},
		{"add(a, b, 1, 2 * 3, 4 + 5, add(6, 7 * 8))", "add(a, b, 1, (2 * 3), (4 + 5), add(6, (7 * 8)))"},
		{"add(a + b + c * d / f + g)", "add((((a + b) + ((c * d) / f)) + g))"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			program := parseClean(t, tt.src)
			assert.Equal(t, tt.want, program.String())
		})
	}
}

func TestIfExpression(t *testing.T) {
	program := parseClean(t, "if (x < y) { x }")
	require.Len(t, program.Statements, 1)

	exp, ok := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.IfExpression)
	require.True(t, ok)
	assert.Equal(t, "(x < y)", exp.Condition.String())
	require.Len(t, exp.Consequence.Statements, 1)
	assert.Equal(t, "x", exp.Consequence.Statements[0].String())
	assert.Nil(t, exp.Alternative)
	assert.Equal(t, "if (x < y) { x }", program.String())
}

func TestIfElseExpression(t *testing.T) {
	program := parseClean(t, "if (x < y) { x } else { y; 1 }")
	exp := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.IfExpression)
	require.NotNil(t, exp.Alternative)
	require.Len(t, exp.Alternative.Statements, 2)
	assert.Equal(t, "if (x < y) { x } else { y1 }", program.String())
}

func TestNestedIfWithReturns(t *testing.T) {
	program := parseClean(t, "if (10 > 1) { if (10 > 1) { return 10; } 129; return 1; }")
	require.Len(t, program.Statements, 1)
	outer := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.IfExpression)
	require.Len(t, outer.Consequence.Statements, 3)
	_, ok := outer.Consequence.Statements[2].(*ast.ReturnStatement)
	assert.True(t, ok)
}

func TestUnterminatedBlockConsumesRest(t *testing.T) {
	program, p := parse(t, "if (x) { 1; 2")
	assert.Empty(t, p.Errors())
	require.Len(t, program.Statements, 1)
	exp := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.IfExpression)
	assert.Len(t, exp.Consequence.Statements, 2)
}

func TestFunctionLiteralParsing(t *testing.T) {
	tests := []struct {
		src    string
		params []string
		want   string
	}{
		{"fn() {};", []string{}, "fn () {  }"},
		{"fn(x) {};", []string{"x"}, "fn (x) {  }"},
		{"fn(x, y, z) { x + y; }", []string{"x", "y", "z"}, "fn (x , y , z) { (x + y) }"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			program := parseClean(t, tt.src)
			fn, ok := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.FunctionLiteral)
			require.True(t, ok)
			got := make([]string, len(fn.Parameters))
			for i, p := range fn.Parameters {
				got[i] = p.Value
			}
			assert.Equal(t, tt.params, got)
			assert.Equal(t, tt.want, fn.String())
		})
	}
}

func TestCallExpressionParsing(t *testing.T) {
	program := parseClean(t, "add(1, 2 * 3, 4 + 5); noargs()")
	require.Len(t, program.Statements, 2)

	call := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	assert.Equal(t, "add", call.Function.String())
	require.Len(t, call.Arguments, 3)
	assert.Equal(t, "(2 * 3)", call.Arguments[1].String())

	empty := program.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	assert.Empty(t, empty.Arguments)
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  []string
		stmts int
	}{
		{
			name: "let missing assign",
			src:  "let x 5;",
			want: []string{"expected next token to be Assign, got Int instead"},
		},
		{
			name: "let missing name",
			src:  "let = 10;",
			want: []string{"expected next token to be Ident, got Assign instead"},
		},
		{
			name: "let number name",
			src:  "let 838383;",
			want: []string{"expected next token to be Ident, got Int instead"},
		},
		{
			name: "unclosed group",
			src:  "(1 + 2",
			want: []string{"expected next token to be RParen, got Eof instead"},
		},
		{
			name:  "stray closing brace",
			src:   "} 5;",
			want:  []string{"no prefix parse function for RBrace found"},
			stmts: 1,
		},
		{
			name: "missing right operand",
			src:  "5 + ;",
			want: []string{"no prefix parse function for Semicolon found"},
		},
		{
			name: "integer overflow",
			src:  "99999999999999999999",
			want: []string{"could not parse 99999999999999999999 as integer"},
		},
		{
			name:  "illegal character",
			src:   "5; @ 6; 7",
			want:  []string{"no prefix parse function for Illegal found"},
			stmts: 2,
		},
		{
			name:  "error tolerant across statements",
			src:   "let = 1; let y 2; let z = 3;",
			want:  []string{"expected next token to be Ident, got Assign instead", "expected next token to be Assign, got Int instead"},
			stmts: 1,
		},
		{
			name: "if missing paren",
			src:  "if x { 1 }",
			want: []string{"expected next token to be LParen, got Ident instead"},
		},
		{
			name: "else without block",
			src:  "if (1 > 2) { 10 } else 20",
			want: []string{"expected next token to be LBrace, got Int instead"},
		},
		{
			name: "bad parameter list",
			src:  "fn(1) { 1 }",
			want: []string{"expected next token to be Ident, got Int instead"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, p := parse(t, tt.src)
			assert.Equal(t, tt.want, p.Errors())
			assert.Len(t, program.Statements, tt.stmts)
		})
	}
}

func TestErrAggregatesDiagnostics(t *testing.T) {
	_, p := parse(t, "let = 1;\nlet y 2;")

	err := p.Err()
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 2)

	var d *parser.Diagnostic
	require.True(t, errors.As(merr.Errors[1], &d))
	assert.Equal(t, uint32(2), d.Line)
	assert.Equal(t, uint32(7), d.Column)
	assert.Equal(t, "2:7: expected next token to be Assign, got Int instead", d.Error())

	diags := p.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, uint32(1), diags[0].Line)
	assert.Equal(t, uint32(5), diags[0].Column)
}

func TestErrNilWhenClean(t *testing.T) {
	_, p := parse(t, "1 + 2")
	assert.NoError(t, p.Err())
	assert.Empty(t, p.Diagnostics())
}

func TestMissingPrefixOperandKeepsPlaceholder(t *testing.T) {
	program, p := parse(t, "-;")
	assert.Equal(t, []string{"no prefix parse function for Semicolon found"}, p.Errors())
	require.Len(t, program.Statements, 1)
	exp := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.PrefixExpression)
	assert.Nil(t, exp.Right)
	assert.Equal(t, "(-None)", program.String())
}
