package vm

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/agenthands/monkey/pkg/core/value"
	"github.com/agenthands/monkey/pkg/eval"
)

var (
	ErrStackOverflow  = errors.New("vm: stack overflow")
	ErrStackUnderflow = errors.New("vm: stack underflow")
	ErrGasExhausted   = errors.New("vm: gas exhausted")
	ErrInvalidProgram = errors.New("vm: invalid program")
)

const StackDepth = 128

// Machine executes Bytecode. It uses a fixed-size stack so a run has a
// predictable memory footprint.
type Machine struct {
	Stack [StackDepth]value.Value
	SP    int // Stack Pointer

	IP   int      // Instruction Pointer
	Code []uint32 // Bytecode instructions

	Constants []value.Value // Constant pool
	Failures  []error
}

var machinePool = sync.Pool{
	New: func() any { return &Machine{} },
}

// GetMachine returns a reset Machine from the pool.
func GetMachine() *Machine {
	return machinePool.Get().(*Machine)
}

// PutMachine resets m and returns it to the pool.
func PutMachine(m *Machine) {
	m.Reset()
	machinePool.Put(m)
}

// Reset clears the machine state for reuse (sync.Pool compliant).
func (m *Machine) Reset() {
	m.SP = 0
	m.IP = 0
	m.Code = nil
	m.Constants = nil
	m.Failures = nil

	for i := range m.Stack {
		m.Stack[i] = value.Value{}
	}
}

// Load points the machine at bc and rewinds it.
func (m *Machine) Load(bc *Bytecode) {
	m.Reset()
	m.Code = bc.Instructions
	m.Constants = bc.Constants
	m.Failures = bc.Failures
}

// Result is the value left on top of the stack, with any return wrapper
// removed. An empty stack is Null.
func (m *Machine) Result() value.Value {
	if m.SP <= 0 {
		return value.Null()
	}
	return m.Stack[m.SP-1].Unwrap()
}

// Run executes instructions until HALT, error, or gas exhaustion.
func (m *Machine) Run(gasLimit int) (err error) {
	// Cache hot fields in local variables for register allocation
	ip := m.IP
	sp := m.SP
	code := m.Code
	stack := &m.Stack

	defer func() {
		m.IP = ip
		m.SP = sp
		if r := recover(); r != nil {
			// Malformed code: bad constant index, jump target or stack shape.
			if _, ok := r.(runtime.Error); ok {
				err = fmt.Errorf("%w at %d: %v", ErrInvalidProgram, ip, r)
				return
			}
			panic(r)
		}
	}()

	for i := 0; i < gasLimit; i++ {
		if ip >= len(code) {
			return fmt.Errorf("%w: ran past the end at %d", ErrInvalidProgram, ip)
		}
		op, arg := Decode(code[ip])

		switch op {
		case OP_HALT:
			return nil

		case OP_PUSH_C:
			if sp >= StackDepth {
				return ErrStackOverflow
			}
			stack[sp] = m.Constants[arg]
			sp++
			ip++

		case OP_DROP:
			if sp <= 0 {
				return ErrStackUnderflow
			}
			sp--
			ip++

		case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_EQ, OP_NE, OP_GT, OP_LT:
			if sp < 2 {
				return ErrStackUnderflow
			}
			a, b := stack[sp-2], stack[sp-1]
			res, err := binary(op, a, b)
			if err != nil {
				return err
			}
			stack[sp-2] = res
			sp--
			ip++

		case OP_NEG, OP_NOT, OP_POS:
			if sp < 1 {
				return ErrStackUnderflow
			}
			res, err := unary(op, stack[sp-1])
			if err != nil {
				return err
			}
			stack[sp-1] = res
			ip++

		case OP_JMP:
			ip = int(arg)

		case OP_JMP_FALSE:
			if sp < 1 {
				return ErrStackUnderflow
			}
			cond := stack[sp-1]
			sp--
			if truthy(cond) {
				ip++
			} else {
				ip = int(arg)
			}

		case OP_JMP_RETURN:
			if sp >= 1 && stack[sp-1].Type == value.TypeReturn {
				ip = int(arg)
			} else {
				ip++
			}

		case OP_RET:
			if sp < 1 {
				return ErrStackUnderflow
			}
			stack[sp-1] = value.Return(stack[sp-1])
			ip++

		case OP_FAIL:
			return m.Failures[arg]

		default:
			return fmt.Errorf("%w: unknown opcode 0x%02x at %d", ErrInvalidProgram, op, ip)
		}
	}

	return ErrGasExhausted
}

func binary(op uint8, a, b value.Value) (value.Value, error) {
	if a.Type != value.TypeInt || b.Type != value.TypeInt {
		if a.Type != b.Type {
			return value.Null(), operatorError("type mismatch: %s %s %s", a.Type, opSymbols[op], b.Type)
		}
		return value.Null(), operatorError("unknown operator: %s %s %s", a.Type, opSymbols[op], b.Type)
	}

	l, r := a.Int(), b.Int()
	switch op {
	case OP_ADD:
		return value.Int(l + r), nil
	case OP_SUB:
		return value.Int(l - r), nil
	case OP_MUL:
		return value.Int(l * r), nil
	case OP_DIV:
		if r == 0 {
			return value.Null(), &eval.Error{Kind: eval.KindDivisionByZero, Msg: fmt.Sprintf("%d / 0", l)}
		}
		return value.Int(l / r), nil
	case OP_EQ:
		return value.Bool(l == r), nil
	case OP_NE:
		return value.Bool(l != r), nil
	case OP_GT:
		return value.Bool(l > r), nil
	default:
		return value.Bool(l < r), nil
	}
}

func unary(op uint8, v value.Value) (value.Value, error) {
	switch op {
	case OP_NOT:
		switch v.Type {
		case value.TypeBool:
			return value.Bool(!v.Bool()), nil
		case value.TypeInt:
			return value.Bool(false), nil
		case value.TypeNull:
			return value.Bool(true), nil
		default:
			return value.Null(), nil
		}
	case OP_NEG:
		if v.Type == value.TypeInt {
			return value.Int(-v.Int()), nil
		}
	}
	return value.Null(), operatorError("unknown operator: %s%s", opSymbols[op], v.Type)
}

func operatorError(format string, args ...any) error {
	return &eval.Error{Kind: eval.KindUnsupportedOperator, Msg: fmt.Sprintf(format, args...)}
}

func truthy(v value.Value) bool {
	switch v.Type {
	case value.TypeNull:
		return false
	case value.TypeBool:
		return v.Bool()
	default:
		return true
	}
}
