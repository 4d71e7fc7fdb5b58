package io

import (
	"bufio"
	"fmt"
	"io"
)

const (
	REPORT_CELLS = 16 // Number of memory cells shown in a report.
)

// Report writes the registers and the first REPORT_CELLS memory cells,
// each in decimal and hexadecimal. Neither slice is modified.
func Report(w io.Writer, registers []int32, memory []int32) (err error) {
	out := bufio.NewWriter(w)

	fmt.Fprintln(out, f("Registers:"))
	for n, val := range registers {
		fmt.Fprintf(out, "r%d: %d (dec), %x (hex)\n", n, val, uint32(val))
	}

	fmt.Fprintln(out, f("Memory:"))
	for n, val := range memory {
		if n >= REPORT_CELLS {
			break
		}
		fmt.Fprintf(out, "[%02x]: %d (dec), %x (hex)\n", n, val, uint32(val))
	}

	return out.Flush()
}
