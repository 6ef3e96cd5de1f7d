package eval

import (
	"errors"
	"fmt"

	"github.com/agenthands/monkey/pkg/compiler/ast"
)

var (
	ErrUnsupportedOperator = errors.New("eval: unsupported operator")
	ErrDivisionByZero      = errors.New("eval: division by zero")
	ErrMissingOperand      = errors.New("eval: missing operand")
	ErrUnimplemented       = errors.New("eval: unimplemented")
)

// Kind classifies why a node produced no value.
type Kind uint8

const (
	KindUnsupportedOperator Kind = iota + 1
	KindDivisionByZero
	KindMissingOperand
	KindUnimplemented
)

var kindSentinels = map[Kind]error{
	KindUnsupportedOperator: ErrUnsupportedOperator,
	KindDivisionByZero:      ErrDivisionByZero,
	KindMissingOperand:      ErrMissingOperand,
	KindUnimplemented:       ErrUnimplemented,
}

func (k Kind) String() string {
	switch k {
	case KindUnsupportedOperator:
		return "unsupported operator"
	case KindDivisionByZero:
		return "division by zero"
	case KindMissingOperand:
		return "missing operand"
	case KindUnimplemented:
		return "unimplemented"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error is returned for every node that cannot produce a value.
type Error struct {
	Kind Kind
	Node ast.Node // may be nil
	Msg  string
}

func newError(kind Kind, node ast.Node, format string, args ...any) *Error {
	return &Error{Kind: kind, Node: node, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return "eval: " + e.Kind.String()
	}
	return "eval: " + e.Kind.String() + ": " + e.Msg
}

// Is matches the sentinel for e.Kind, so errors.Is(err, ErrDivisionByZero)
// works on wrapped errors.
func (e *Error) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// Unimplemented returns the error for node kinds that are parsed but not
// evaluated: let bindings, identifiers, function literals and calls.
func Unimplemented(node ast.Node) *Error {
	switch n := node.(type) {
	case *ast.LetStatement:
		name := "<nil>"
		if n.Name != nil {
			name = n.Name.Value
		}
		return newError(KindUnimplemented, n, "let binding of %s", name)
	case *ast.Identifier:
		return newError(KindUnimplemented, n, "identifier lookup of %s", n.Value)
	case *ast.FunctionLiteral:
		return newError(KindUnimplemented, n, "function literal")
	case *ast.CallExpression:
		return newError(KindUnimplemented, n, "call expression")
	}
	return newError(KindUnimplemented, node, "node %T", node)
}

// MissingOperand returns the error for a node whose operand failed to parse.
func MissingOperand(node ast.Node) *Error {
	switch n := node.(type) {
	case *ast.PrefixExpression:
		return newError(KindMissingOperand, n, "%s has no operand", n.Operator)
	case *ast.InfixExpression:
		return newError(KindMissingOperand, n, "%s needs two operands", n.Operator)
	case *ast.ReturnStatement:
		return newError(KindMissingOperand, n, "return without value")
	case *ast.ExpressionStatement:
		return newError(KindMissingOperand, n, "empty expression statement")
	case *ast.IfExpression:
		return newError(KindMissingOperand, n, "if without condition")
	case nil:
		return newError(KindMissingOperand, nil, "nil node")
	}
	return newError(KindMissingOperand, node, "%T", node)
}
