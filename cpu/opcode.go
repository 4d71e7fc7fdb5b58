package cpu

import (
	"fmt"
)

// CodeOp is the 4-bit operation selector of an instruction word.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_LOAD1 = CodeOp(0x1) // load1
	OP_LOAD2 = CodeOp(0x2) // load2
	OP_STORE = CodeOp(0x3) // store
	OP_MOVE  = CodeOp(0x4) // move
	OP_ADD   = CodeOp(0x5) // add
	OP_JUMP  = CodeOp(0xb) // jump
	OP_HALT  = CodeOp(0xc) // halt
)

// Valid returns true if the operation is a defined instruction.
func (op CodeOp) Valid() bool {
	switch op {
	case OP_LOAD1, OP_LOAD2, OP_STORE, OP_MOVE, OP_ADD, OP_JUMP, OP_HALT:
		return true
	}
	return false
}

const (
	CODE_WIDTH = 2 // Memory cells per instruction word.
)

// Code is a single 16-bit instruction word.
//
//	15..12  11..8  7..4  3..0
//	  op      R     S     T
type Code struct {
	Word uint16
}

// Decode splits a word into its fields. Every word decodes; undefined
// operations are rejected at execution.
func Decode(word uint16) Code {
	return Code{Word: word}
}

// Encode packs two nibbles into an 8-bit address or immediate.
func Encode(s, t int) int {
	return ((s & 0xf) << 4) | (t & 0xf)
}

// MakeCode creates an instruction word from its four nibbles.
func MakeCode(op CodeOp, r, s, t int) Code {
	return Code{
		Word: (uint16(op&0xf) << 12) | (uint16(r&0xf) << 8) | (uint16(s&0xf) << 4) | uint16(t&0xf),
	}
}

// MakeCodeAddr creates an instruction word with an 8-bit (S,T) operand.
func MakeCodeAddr(op CodeOp, r int, addr int) Code {
	return MakeCode(op, r, (addr>>4)&0xf, addr&0xf)
}

// Op returns the operation field.
func (code Code) Op() CodeOp {
	return CodeOp((code.Word >> 12) & 0xf)
}

// R returns the R operand field.
func (code Code) R() int {
	return int((code.Word >> 8) & 0xf)
}

// S returns the S operand field.
func (code Code) S() int {
	return int((code.Word >> 4) & 0xf)
}

// T returns the T operand field.
func (code Code) T() int {
	return int(code.Word & 0xf)
}

// Addr returns the S and T fields as a single 8-bit value.
func (code Code) Addr() int {
	return Encode(code.S(), code.T())
}

// Fields returns all four fields of the instruction.
func (code Code) Fields() (op CodeOp, r, s, t int) {
	return code.Op(), code.R(), code.S(), code.T()
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	op, r, s, t := code.Fields()

	switch op {
	case OP_LOAD1, OP_STORE:
		out = fmt.Sprintf("%v r%d 0x%02x", op, r, code.Addr())
	case OP_LOAD2:
		out = fmt.Sprintf("%v r%d %d", op, r, code.Addr())
	case OP_MOVE:
		out = fmt.Sprintf("%v r%d r%d", op, r, s)
	case OP_ADD:
		out = fmt.Sprintf("%v r%d r%d r%d", op, r, s, t)
	case OP_JUMP:
		out = fmt.Sprintf("%v 0x%02x", op, code.Addr())
	case OP_HALT:
		out = op.String()
	default:
		out = fmt.Sprintf(".word 0x%04x", code.Word)
	}

	return
}
