package vm

import (
	"fmt"
	"strings"

	"github.com/agenthands/monkey/pkg/core/value"
)

// Bytecode represents the compiled output of a program.
type Bytecode struct {
	Instructions []uint32
	Constants    []value.Value
	// Failures are the errors raised by OP_FAIL, for nodes that compile but
	// cannot be executed.
	Failures []error
}

// String disassembles the instructions, one per line.
func (bc *Bytecode) String() string {
	var b strings.Builder
	for i, instr := range bc.Instructions {
		op, arg := Decode(instr)
		name, ok := opNames[op]
		if !ok {
			name = fmt.Sprintf("OP(0x%02x)", op)
		}
		switch op {
		case OP_PUSH_C:
			fmt.Fprintf(&b, "%04d %s %d (%s)\n", i, name, arg, bc.constant(arg))
		case OP_FAIL:
			fmt.Fprintf(&b, "%04d %s %d (%s)\n", i, name, arg, bc.failure(arg))
		case OP_JMP, OP_JMP_FALSE, OP_JMP_RETURN:
			fmt.Fprintf(&b, "%04d %s %04d\n", i, name, arg)
		default:
			fmt.Fprintf(&b, "%04d %s\n", i, name)
		}
	}
	return b.String()
}

func (bc *Bytecode) constant(idx uint32) string {
	if int(idx) >= len(bc.Constants) {
		return "?"
	}
	return bc.Constants[idx].String()
}

func (bc *Bytecode) failure(idx uint32) string {
	if int(idx) >= len(bc.Failures) {
		return "?"
	}
	return bc.Failures[idx].Error()
}
