package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
)

// Opcode represents a line of assembled code with its source location and
// generated memory contents.
type Opcode struct {
	LineNo    int
	Addr      int
	Words     []string
	Codes     []Code // Instruction words, if any.
	Data      []byte // Raw data from .byte and .word, if any.
	LinkLabel string
}

// Bytes returns the memory cells the opcode occupies, high byte first.
func (op *Opcode) Bytes() (data []byte) {
	if len(op.Codes) == 0 {
		return op.Data
	}

	for _, code := range op.Codes {
		data = append(data, byte(code.Word>>8), byte(code.Word))
	}
	return
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode covering memory address 'addr'.
func (prog *Program) Debug(addr int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		size := len(op.Bytes())
		if addr >= op.Addr && addr < op.Addr+size {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  addr - op.Addr,
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program, starting at address 0.
func (prog *Program) Binary() (bins []byte) {
	for _, op := range prog.Opcodes {
		data := op.Bytes()
		end := op.Addr + len(data)
		if end > len(bins) {
			bins = append(bins, make([]byte, end-len(bins))...)
		}
		copy(bins[op.Addr:], data)
	}

	return
}

// Codes iterates over every instruction word and its address.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(addr int, code Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Addr+n*CODE_WIDTH, code) {
					return
				}
			}
		}
	}
}

// Hex writes the memory image as one hexadecimal byte per line.
func (prog *Program) Hex(w io.Writer) (err error) {
	out := bufio.NewWriter(w)
	for _, b := range prog.Binary() {
		_, err = fmt.Fprintf(out, "%02X\n", b)
		if err != nil {
			return
		}
	}

	return out.Flush()
}
