package vm

// Instructions are 32 bits: the opcode in the top byte and a 24-bit argument.
const (
	OP_HALT       uint8 = 0x00
	OP_PUSH_C     uint8 = 0x02 // push Constants[arg]
	OP_DROP       uint8 = 0x05
	OP_ADD        uint8 = 0x10
	OP_SUB        uint8 = 0x11
	OP_MUL        uint8 = 0x12
	OP_DIV        uint8 = 0x13
	OP_EQ         uint8 = 0x14
	OP_NE         uint8 = 0x15
	OP_GT         uint8 = 0x16
	OP_LT         uint8 = 0x17
	OP_NEG        uint8 = 0x18
	OP_NOT        uint8 = 0x19
	OP_POS        uint8 = 0x1A
	OP_JMP        uint8 = 0x20 // ip = arg
	OP_JMP_FALSE  uint8 = 0x21 // pop; jump to arg unless truthy
	OP_JMP_RETURN uint8 = 0x22 // jump to arg if the top is a return value
	OP_RET        uint8 = 0x23 // wrap the top as a return value
	OP_FAIL       uint8 = 0x24 // stop with Failures[arg]
)

const ArgMask = 0x00FFFFFF

// Encode packs op and arg into one instruction.
func Encode(op uint8, arg uint32) uint32 {
	return (uint32(op) << 24) | (arg & ArgMask)
}

// Decode splits an instruction into op and arg.
func Decode(instr uint32) (uint8, uint32) {
	return uint8(instr >> 24), instr & ArgMask
}

var opNames = map[uint8]string{
	OP_HALT:       "HALT",
	OP_PUSH_C:     "PUSH_C",
	OP_DROP:       "DROP",
	OP_ADD:        "ADD",
	OP_SUB:        "SUB",
	OP_MUL:        "MUL",
	OP_DIV:        "DIV",
	OP_EQ:         "EQ",
	OP_NE:         "NE",
	OP_GT:         "GT",
	OP_LT:         "LT",
	OP_NEG:        "NEG",
	OP_NOT:        "NOT",
	OP_POS:        "POS",
	OP_JMP:        "JMP",
	OP_JMP_FALSE:  "JMP_FALSE",
	OP_JMP_RETURN: "JMP_RETURN",
	OP_RET:        "RET",
	OP_FAIL:       "FAIL",
}

// operator symbols, used in error messages.
var opSymbols = map[uint8]string{
	OP_ADD: "+",
	OP_SUB: "-",
	OP_MUL: "*",
	OP_DIV: "/",
	OP_EQ:  "==",
	OP_NE:  "!=",
	OP_GT:  ">",
	OP_LT:  "<",
	OP_NEG: "-",
	OP_NOT: "!",
	OP_POS: "+",
}
