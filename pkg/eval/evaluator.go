// Package eval is a tree-walking evaluator for parsed programs.
package eval

import (
	"github.com/golang/glog"
	multierror "github.com/hashicorp/go-multierror"

	"github.com/agenthands/monkey/pkg/compiler/ast"
	"github.com/agenthands/monkey/pkg/core/value"
)

// Evaluator walks an AST and produces a value.
//
// In the default lenient mode a statement that fails to evaluate is skipped:
// inside a block the previous result is kept, at program level the running
// result becomes Null. The skipped errors are available from Skipped. In
// strict mode the first error aborts evaluation and is returned.
type Evaluator struct {
	strict  bool
	skipped *multierror.Error
}

// New creates an evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strict reports whether the evaluator stops at the first error.
func (e *Evaluator) Strict() bool { return e.strict }

// Skipped returns the errors swallowed by the last lenient evaluation, or
// nil if there were none.
func (e *Evaluator) Skipped() error {
	return e.skipped.ErrorOrNil()
}

// EvalProgram evaluates every statement of p in order. A return statement
// ends the program and its value is unwrapped.
func (e *Evaluator) EvalProgram(p *ast.Program) (value.Value, error) {
	e.skipped = nil
	if p == nil {
		return value.Null(), nil
	}

	result := value.Null()
	for _, stmt := range p.Statements {
		v, err := e.eval(stmt)
		if err != nil {
			if e.strict {
				return value.Null(), err
			}
			e.skip(stmt, err)
			result = value.Null()
			continue
		}
		if v.Type == value.TypeReturn {
			return v.Unwrap(), nil
		}
		result = v
	}
	return result, nil
}

// Eval evaluates a single node. Programs are handled as by EvalProgram;
// any other node may yield a return wrapper.
func (e *Evaluator) Eval(node ast.Node) (value.Value, error) {
	if p, ok := node.(*ast.Program); ok {
		return e.EvalProgram(p)
	}
	e.skipped = nil
	return e.eval(node)
}

func (e *Evaluator) skip(stmt ast.Statement, err error) {
	glog.V(1).Infof("eval: skipping %q: %v", stmt.String(), err)
	e.skipped = multierror.Append(e.skipped, err)
}

func (e *Evaluator) eval(node ast.Node) (value.Value, error) {
	v, err := e.dispatch(node)
	if glog.V(2) {
		if err != nil {
			glog.Infof("eval: %T: %v", node, err)
		} else {
			glog.Infof("eval: %T -> %s %s", node, v.Type, v)
		}
	}
	return v, err
}

func (e *Evaluator) dispatch(node ast.Node) (value.Value, error) {
	switch node := node.(type) {
	case *ast.Program:
		return e.EvalProgram(node)
	case *ast.ExpressionStatement:
		if node.Expression == nil {
			return value.Null(), MissingOperand(node)
		}
		return e.eval(node.Expression)
	case *ast.BlockStatement:
		return e.evalBlock(node)
	case *ast.ReturnStatement:
		if node.Value == nil {
			return value.Null(), MissingOperand(node)
		}
		v, err := e.eval(node.Value)
		if err != nil {
			return value.Null(), err
		}
		return value.Return(v), nil

	case *ast.IntegerLiteral:
		return value.Int(node.Value), nil
	case *ast.Boolean:
		return value.Bool(node.Value), nil
	case *ast.PrefixExpression:
		return e.evalPrefix(node)
	case *ast.InfixExpression:
		return e.evalInfix(node)
	case *ast.IfExpression:
		return e.evalIf(node)

	case nil:
		return value.Null(), MissingOperand(nil)
	}
	return value.Null(), Unimplemented(node)
}

// evalBlock stops at the first return wrapper and yields it unchanged so the
// enclosing blocks forward it.
func (e *Evaluator) evalBlock(block *ast.BlockStatement) (value.Value, error) {
	result := value.Null()
	for _, stmt := range block.Statements {
		v, err := e.eval(stmt)
		if err != nil {
			if e.strict {
				return value.Null(), err
			}
			e.skip(stmt, err)
			continue
		}
		if v.Type == value.TypeReturn {
			return v, nil
		}
		result = v
	}
	return result, nil
}

func (e *Evaluator) evalPrefix(node *ast.PrefixExpression) (value.Value, error) {
	if node.Right == nil {
		return value.Null(), MissingOperand(node)
	}
	right, err := e.eval(node.Right)
	if err != nil {
		return value.Null(), err
	}

	switch node.Operator {
	case "!":
		switch right.Type {
		case value.TypeBool:
			return value.Bool(!right.Bool()), nil
		case value.TypeInt:
			return value.Bool(false), nil
		case value.TypeNull:
			return value.Bool(true), nil
		default:
			return value.Null(), nil
		}
	case "-":
		if right.Type == value.TypeInt {
			return value.Int(-right.Int()), nil
		}
	}
	return value.Null(), newError(KindUnsupportedOperator, node, "unknown operator: %s%s", node.Operator, right.Type)
}

func (e *Evaluator) evalInfix(node *ast.InfixExpression) (value.Value, error) {
	if node.Left == nil || node.Right == nil {
		return value.Null(), MissingOperand(node)
	}
	left, err := e.eval(node.Left)
	if err != nil {
		return value.Null(), err
	}
	right, err := e.eval(node.Right)
	if err != nil {
		return value.Null(), err
	}

	if left.Type != value.TypeInt || right.Type != value.TypeInt {
		if left.Type != right.Type {
			return value.Null(), newError(KindUnsupportedOperator, node, "type mismatch: %s %s %s", left.Type, node.Operator, right.Type)
		}
		return value.Null(), newError(KindUnsupportedOperator, node, "unknown operator: %s %s %s", left.Type, node.Operator, right.Type)
	}

	l, r := left.Int(), right.Int()
	switch node.Operator {
	case "+":
		return value.Int(l + r), nil
	case "-":
		return value.Int(l - r), nil
	case "*":
		return value.Int(l * r), nil
	case "/":
		if r == 0 {
			return value.Null(), newError(KindDivisionByZero, node, "%d / 0", l)
		}
		return value.Int(l / r), nil
	case "<":
		return value.Bool(l < r), nil
	case ">":
		return value.Bool(l > r), nil
	case "==":
		return value.Bool(l == r), nil
	case "!=":
		return value.Bool(l != r), nil
	}
	return value.Null(), newError(KindUnsupportedOperator, node, "unknown operator: %s %s %s", left.Type, node.Operator, right.Type)
}

func (e *Evaluator) evalIf(node *ast.IfExpression) (value.Value, error) {
	if node.Condition == nil {
		return value.Null(), MissingOperand(node)
	}
	cond, err := e.eval(node.Condition)
	if err != nil {
		return value.Null(), err
	}

	switch {
	case isTruthy(cond):
		if node.Consequence == nil {
			return value.Null(), nil
		}
		return e.eval(node.Consequence)
	case node.Alternative != nil:
		return e.eval(node.Alternative)
	default:
		return value.Null(), nil
	}
}

func isTruthy(v value.Value) bool {
	switch v.Type {
	case value.TypeNull:
		return false
	case value.TypeBool:
		return v.Bool()
	default:
		return true
	}
}
