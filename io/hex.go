// Package io provides the external collaborators of the simulator: the
// hexadecimal program loader, and the machine state report.
package io

import (
	"bufio"
	"io"
	"io/fs"
	"log"
	"strconv"
	"strings"
)

const (
	HEX_LIMIT = 256 // Maximum number of bytes loaded.
)

// HexReader reads a memory image written as one hexadecimal byte per line.
// Lines that are not a hexadecimal byte are reported and skipped, and do
// not consume an address.
type HexReader struct {
	Verbose    bool        // If set, logs every loaded byte.
	Diagnostic func(error) // Receives skipped lines. Logs if nil.
	Limit      int         // Maximum bytes to load; HEX_LIMIT if zero.
}

// parseHex parses a single byte token, with an optional 0x prefix.
func parseHex(token string) (value byte, err error) {
	token = strings.TrimSpace(token)
	lower := strings.ToLower(token)
	lower = strings.TrimPrefix(lower, "0x")

	v, err := strconv.ParseUint(lower, 16, 8)
	if err != nil {
		err = ErrHexToken
		return
	}

	value = byte(v)
	return
}

func (hr *HexReader) diagnose(err error) {
	if hr.Diagnostic != nil {
		hr.Diagnostic(err)
		return
	}

	log.Printf("load: %v", err)
}

// Read reads the memory image from 'input'.
func (hr *HexReader) Read(input io.Reader) (data []byte, err error) {
	limit := hr.Limit
	if limit <= 0 {
		limit = HEX_LIMIT
	}

	in := bufio.NewReader(input)

	lineno := 0
	for len(data) < limit {
		var line string
		var ok bool
		line, ok, err = readLine(in)
		if !ok {
			return
		}
		lineno++

		value, perr := parseHex(line)
		if perr != nil {
			hr.diagnose(&ErrHexLine{LineNo: lineno, Line: line, Err: perr})
			continue
		}

		if hr.Verbose {
			log.Printf("load: [0x%02x] = 0x%02x", len(data), value)
		}
		data = append(data, value)
	}

	line, ok, err := readLine(in)
	if ok {
		hr.diagnose(&ErrHexLine{LineNo: lineno + 1, Line: line, Err: ErrHexFull})
	}

	return
}

// readLine reads a single line of any length, without its terminator.
// 'ok' is false at the end of input, or on a read error.
func readLine(in *bufio.Reader) (line string, ok bool, err error) {
	line, err = in.ReadString('\n')
	if err == io.EOF {
		err = nil
		if len(line) == 0 {
			return
		}
	} else if err != nil {
		return
	}

	line = strings.TrimSuffix(line, "\n")
	ok = true
	return
}

// LoadFile reads the memory image from file 'name' in 'fsys'.
func (hr *HexReader) LoadFile(fsys fs.FS, name string) (data []byte, err error) {
	inf, err := fsys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	data, err = hr.Read(inf)
	if err != nil {
		return
	}

	if hr.Verbose {
		log.Printf("load: %v: %d bytes", name, len(data))
	}

	return
}
