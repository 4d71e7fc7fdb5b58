// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

const (
	PC_START = 0x0a // Initial program counter; cells below are reserved.
)

var _cpu_defines = map[string]string{
	"PC_START":       fmt.Sprintf("0x%02x", PC_START),
	"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"CODE_WIDTH":     fmt.Sprintf("%d", CODE_WIDTH),
}

// Cpu is the simulation context for the processor, its register file,
// and its memory.
type Cpu struct {
	Verbose    bool        // Set to enable verbose logging.
	Diagnostic func(error) // Receives recoverable faults during Run(). Logs if nil.

	Register RegisterFile // Register bank.
	Memory   Memory       // Code and data memory.
	Pc       int          // Address of the next instruction to fetch.
	Halted   bool         // Set by halt, or by a fetch past the end of memory.

	Ticks int // Executed instruction counter.
}

// NewCpu creates a new CPU with cleared registers and memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Pc: PC_START,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Load writes instruction words into memory from address 0.
// Returns the number of words loaded.
func (cpu *Cpu) Load(words []uint16) (count int) {
	count = cpu.Memory.LoadWords(words)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d words", count)
	}

	return
}

// LoadBytes writes raw cells into memory from address 0.
// Returns the number of cells loaded.
func (cpu *Cpu) LoadBytes(data []byte) (count int) {
	count = cpu.Memory.LoadBytes(data)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", count)
	}

	return
}

// IsHalted returns true once the CPU has stopped.
func (cpu *Cpu) IsHalted() bool {
	return cpu.Halted
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 6s: 0x%02x\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 6s: %v\n", "halted", cpu.Halted)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 6s: %08X\n", fmt.Sprintf("r%d", n), uint32(val))
	}

	return
}

// Fetch reads the instruction word at the program counter, and advances
// the program counter past it.
func (cpu *Cpu) Fetch() (code Code, err error) {
	if cpu.Pc < 0 || cpu.Pc+1 >= len(cpu.Memory) {
		err = ErrPcRange
		return
	}

	hi := cpu.Memory[cpu.Pc]
	lo := cpu.Memory[cpu.Pc+1]
	code = Decode(uint16((hi << 8) | lo))

	cpu.Pc += CODE_WIDTH

	return
}

// Tick executes a single fetch, decode, and execute cycle.
//
// A fetch past the end of memory halts the CPU and returns ErrPcRange.
// Faults from the executed instruction are returned, but do not halt.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	pc := cpu.Pc
	code, err := cpu.Fetch()
	if err != nil {
		cpu.Halted = true
		err = fmt.Errorf("%w: 0x%02x", err, pc)
		if cpu.Verbose {
			log.Printf("cpu: %v", err)
		}
		return
	}

	if cpu.Verbose {
		log.Printf("%02x: %v", pc, code)
	}

	err = cpu.Execute(code)
	cpu.Ticks++

	return
}

// Run ticks the CPU until it halts. Recoverable faults are sent to
// Diagnostic and execution continues.
//
// Returns nil when stopped by a halt instruction, or ErrPcRange when the
// program counter ran off the end of memory.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		err = cpu.Tick()
		switch {
		case err == nil:
		case errors.Is(err, ErrPcRange):
			return
		default:
			cpu.diagnose(err)
		}
	}

	return nil
}

// diagnose reports a recoverable fault.
func (cpu *Cpu) diagnose(err error) {
	if cpu.Diagnostic != nil {
		cpu.Diagnostic(err)
		return
	}

	log.Printf("cpu: %v", err)
}

// Execute executes a single decoded instruction. The program counter
// has already been advanced past it.
//
// An undefined operation returns ErrOpcode without changing any state.
func (cpu *Cpu) Execute(code Code) (err error) {
	op, r, s, t := code.Fields()

	switch op {
	case OP_LOAD1:
		err = cpu.Load1(r, code.Addr())
	case OP_LOAD2:
		err = cpu.Load2(r, code.Addr())
	case OP_STORE:
		err = cpu.Store(r, code.Addr())
	case OP_MOVE:
		err = cpu.Move(r, s)
	case OP_ADD:
		err = cpu.Add(r, s, t)
	case OP_JUMP:
		cpu.Jump(code.Addr())
	case OP_HALT:
		cpu.Halt()
	default:
		err = ErrOpcode(code)
	}

	return
}

// Load1 loads register 'dst' from memory at 'addr'. On fault the register
// is unchanged.
func (cpu *Cpu) Load1(dst int, addr int) (err error) {
	value, err := cpu.Memory.Read(addr)
	if err == nil {
		err = cpu.Register.Write(dst, value)
	}
	if err != nil {
		return errors.Join(ErrOpcodeLoad1, err)
	}

	if cpu.Verbose {
		log.Printf("cpu: r%d <- [0x%02x] (0x%x)", dst, addr, value)
	}

	return
}

// Load2 loads register 'dst' with an immediate value.
func (cpu *Cpu) Load2(dst int, value int) (err error) {
	err = cpu.Register.Write(dst, int32(value))
	if err != nil {
		return errors.Join(ErrOpcodeLoad2, err)
	}

	return
}

// Store writes register 'src' to memory at 'addr'. On fault memory is
// unchanged.
func (cpu *Cpu) Store(src int, addr int) (err error) {
	value, err := cpu.Register.Read(src)
	if err == nil {
		err = cpu.Memory.Write(addr, value)
	}
	if err != nil {
		return errors.Join(ErrOpcodeStore, err)
	}

	if cpu.Verbose {
		log.Printf("cpu: [0x%02x] <- r%d (0x%x)", addr, src, value)
	}

	return
}

// Move copies register 'src' into register 'dst'.
func (cpu *Cpu) Move(dst int, src int) (err error) {
	value, err := cpu.Register.Read(src)
	if err == nil {
		err = cpu.Register.Write(dst, value)
	}
	if err != nil {
		return errors.Join(ErrOpcodeMove, err)
	}

	return
}

// Add sets register 'dst' to the sum of registers 'a' and 'b'.
// The sum wraps at 32 bits, two's complement.
func (cpu *Cpu) Add(dst int, a int, b int) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcodeAdd, err)
		}
	}()

	va, err := cpu.Register.Read(a)
	if err != nil {
		return
	}
	vb, err := cpu.Register.Read(b)
	if err != nil {
		return
	}

	err = cpu.Register.Write(dst, va+vb)
	return
}

// Jump sets the address of the next instruction fetch.
func (cpu *Cpu) Jump(addr int) {
	if cpu.Verbose {
		log.Printf("cpu: jump 0x%02x", addr)
	}
	cpu.Pc = addr
}

// Halt stops the CPU. Nothing restarts it.
func (cpu *Cpu) Halt() {
	if cpu.Verbose {
		log.Printf("cpu: halt")
	}
	cpu.Halted = true
}
