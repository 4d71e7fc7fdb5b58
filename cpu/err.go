package cpu

import (
	"errors"

	"github.com/ezrec/hexsim/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrAddressRange = errors.New(f("address out of range"))
	ErrPcRange      = errors.New(f("program counter out of range"))
	ErrHalted       = errors.New(f("halted"))

	// Instruction errors
	ErrOpcodeLoad1 = errors.New(f("load1"))
	ErrOpcodeStore = errors.New(f("store"))
	ErrOpcodeMove  = errors.New(f("move"))
	ErrOpcodeAdd   = errors.New(f("add"))
	ErrOpcodeLoad2 = errors.New(f("load2"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrOrgBackwards       = errors.New(f(".org moves backwards"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeMissing      = errors.New(f("operand missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrProgramFull        = errors.New(f("program exceeds memory"))
)

// ErrRegisterRange is a register file access outside of [0, REGISTER_COUNT).
type ErrRegisterRange int

func (err ErrRegisterRange) Error() string {
	return f("register r%d out of range", int(err))
}

func (err ErrRegisterRange) Is(target error) bool {
	return target == ErrAddressRange
}

// ErrMemoryRange is a memory access outside of [0, MEMORY_SIZE).
type ErrMemoryRange int

func (err ErrMemoryRange) Error() string {
	return f("memory [0x%x] out of range", int(err))
}

func (err ErrMemoryRange) Is(target error) bool {
	return target == ErrAddressRange
}

// ErrOpcode is an instruction whose opcode nibble is not defined.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x", uint16(eo.Word))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
