// Package emitter compiles a parsed program to vm bytecode.
package emitter

import (
	"errors"
	"fmt"

	"github.com/agenthands/monkey/pkg/compiler/ast"
	"github.com/agenthands/monkey/pkg/core/value"
	"github.com/agenthands/monkey/pkg/eval"
	"github.com/agenthands/monkey/pkg/vm"
)

// ErrTooLarge is returned when a jump target or constant index does not fit
// in an instruction argument.
var ErrTooLarge = errors.New("emitter: program too large")

// Emitter compiles a program so that running it on a vm.Machine gives the
// same result as strict tree evaluation. Nodes the evaluator rejects compile
// to OP_FAIL, so the error surfaces only if execution reaches them.
type Emitter struct {
	instructions []uint32
	constants    []value.Value
	failures     []error
	err          error
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit compiles prog. Each statement leaves one value on the stack; a return
// value jumps straight to the final HALT.
func (e *Emitter) Emit(prog *ast.Program) (*vm.Bytecode, error) {
	e.instructions = e.instructions[:0]
	e.constants = e.constants[:0]
	e.failures = e.failures[:0]
	e.err = nil

	if prog != nil {
		e.emitStatements(prog.Statements)
	}
	e.emitOp(vm.OP_HALT, 0)

	if e.err != nil {
		return nil, e.err
	}
	return &vm.Bytecode{
		Instructions: append([]uint32(nil), e.instructions...),
		Constants:    append([]value.Value(nil), e.constants...),
		Failures:     append([]error(nil), e.failures...),
	}, nil
}

// emitStatements leaves the value of the last statement on the stack, or the
// first return value reached.
func (e *Emitter) emitStatements(stmts []ast.Statement) {
	var exits []int
	for i, stmt := range stmts {
		e.emitNode(stmt)
		exits = append(exits, e.emitOp(vm.OP_JMP_RETURN, 0))
		if i < len(stmts)-1 {
			e.emitOp(vm.OP_DROP, 0)
		}
	}
	end := len(e.instructions)
	for _, pos := range exits {
		e.patch(pos, end)
	}
}

func (e *Emitter) emitNode(node ast.Node) {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		if n.Expression == nil {
			e.emitFail(eval.MissingOperand(n))
			return
		}
		e.emitNode(n.Expression)

	case *ast.ReturnStatement:
		if n.Value == nil {
			e.emitFail(eval.MissingOperand(n))
			return
		}
		e.emitNode(n.Value)
		e.emitOp(vm.OP_RET, 0)

	case *ast.BlockStatement:
		if len(n.Statements) == 0 {
			e.emitConstant(value.Null())
			return
		}
		e.emitStatements(n.Statements)

	case *ast.IntegerLiteral:
		e.emitConstant(value.Int(n.Value))

	case *ast.Boolean:
		e.emitConstant(value.Bool(n.Value))

	case *ast.PrefixExpression:
		if n.Right == nil {
			e.emitFail(eval.MissingOperand(n))
			return
		}
		e.emitNode(n.Right)
		switch n.Operator {
		case "!":
			e.emitOp(vm.OP_NOT, 0)
		case "-":
			e.emitOp(vm.OP_NEG, 0)
		default:
			e.emitOp(vm.OP_POS, 0)
		}

	case *ast.InfixExpression:
		if n.Left == nil || n.Right == nil {
			e.emitFail(eval.MissingOperand(n))
			return
		}
		op, ok := infixOps[n.Operator]
		if !ok {
			e.emitFail(&eval.Error{Kind: eval.KindUnsupportedOperator, Node: n, Msg: fmt.Sprintf("unknown operator %s", n.Operator)})
			return
		}
		e.emitNode(n.Left)
		e.emitNode(n.Right)
		e.emitOp(op, 0)

	case *ast.IfExpression:
		e.emitIf(n)

	case nil:
		e.emitFail(eval.MissingOperand(nil))

	default:
		e.emitFail(eval.Unimplemented(node))
	}
}

var infixOps = map[string]uint8{
	"+":  vm.OP_ADD,
	"-":  vm.OP_SUB,
	"*":  vm.OP_MUL,
	"/":  vm.OP_DIV,
	"==": vm.OP_EQ,
	"!=": vm.OP_NE,
	">":  vm.OP_GT,
	"<":  vm.OP_LT,
}

func (e *Emitter) emitIf(n *ast.IfExpression) {
	if n.Condition == nil {
		e.emitFail(eval.MissingOperand(n))
		return
	}
	e.emitNode(n.Condition)
	jumpFalse := e.emitOp(vm.OP_JMP_FALSE, 0)

	if n.Consequence != nil {
		e.emitNode(n.Consequence)
	} else {
		e.emitConstant(value.Null())
	}
	jumpEnd := e.emitOp(vm.OP_JMP, 0)

	e.patch(jumpFalse, len(e.instructions))
	if n.Alternative != nil {
		e.emitNode(n.Alternative)
	} else {
		e.emitConstant(value.Null())
	}
	e.patch(jumpEnd, len(e.instructions))
}

func (e *Emitter) emitOp(op uint8, arg uint32) int {
	if arg > vm.ArgMask {
		e.fail(ErrTooLarge)
	}
	e.instructions = append(e.instructions, vm.Encode(op, arg))
	return len(e.instructions) - 1
}

func (e *Emitter) patch(pos, target int) {
	if target > vm.ArgMask {
		e.fail(ErrTooLarge)
		return
	}
	op, _ := vm.Decode(e.instructions[pos])
	e.instructions[pos] = vm.Encode(op, uint32(target))
}

func (e *Emitter) emitConstant(v value.Value) {
	e.emitOp(vm.OP_PUSH_C, uint32(e.addConstant(v)))
}

func (e *Emitter) emitFail(err error) {
	e.failures = append(e.failures, err)
	e.emitOp(vm.OP_FAIL, uint32(len(e.failures)-1))
}

func (e *Emitter) addConstant(v value.Value) int {
	for i, c := range e.constants {
		if c.Type == v.Type && c.Data == v.Data {
			return i
		}
	}
	e.constants = append(e.constants, v)
	return len(e.constants) - 1
}

func (e *Emitter) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}
