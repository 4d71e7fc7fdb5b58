// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/ezrec/hexsim/cpu"
	"github.com/ezrec/hexsim/internal"
	hexio "github.com/ezrec/hexsim/io"
)

var _emulator_defines = map[string]string{
	"REPORT_CELLS": fmt.Sprintf("%v", hexio.REPORT_CELLS),
}

// Emulator state. CPU + program listing + state report.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the program listing, if assembled.

	Report io.Writer // If set, receives the machine state after every tick.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset replaces the CPU with a fresh one, loaded with 'image'.
// If 'image' is nil, the binary of the current program is loaded.
// Returns the number of memory cells loaded.
func (emu *Emulator) Reset(image []byte) (count int) {
	diagnostic := emu.Cpu.Diagnostic

	emu.Cpu = cpu.NewCpu()
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Diagnostic = diagnostic

	if image == nil {
		image = emu.Program.Binary()
	}

	count = emu.Cpu.LoadBytes(image)

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the source line number for the instruction at the
// program counter, or 0 if unknown.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
//
// 'done' is set once the CPU has halted. Execution faults are returned
// wrapped in an ErrRuntime, and do not stop the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Addr: pc, LineNo: lineno, Err: err}
		}
	}()

	if emu.Cpu.Halted {
		done = true
		return
	}

	err = emu.Cpu.Tick()
	done = emu.Cpu.Halted

	if emu.Report != nil {
		rerr := hexio.Report(emu.Report, emu.Cpu.Register[:], emu.Cpu.Memory[:])
		if rerr != nil {
			err = errors.Join(err, rerr)
		}
	}

	return
}

// Run ticks the emulator until the CPU halts, or 'limit' ticks have
// passed (if 'limit' is non-zero). Execution faults are passed to
// 'diagnose' and do not stop the run.
//
// Returns cpu.ErrPcRange if the program counter ran off the end of memory,
// or ErrStepLimit if the limit was reached.
func (emu *Emulator) Run(limit int, diagnose func(error)) (err error) {
	for ticks := 0; limit == 0 || ticks < limit; ticks++ {
		var done bool
		done, err = emu.Tick()
		if errors.Is(err, cpu.ErrPcRange) {
			return
		}
		if err != nil && diagnose != nil {
			diagnose(err)
		}
		if done {
			return nil
		}
	}

	return ErrStepLimit
}
