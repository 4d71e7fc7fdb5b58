// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
func sysEquate() (equ map[string]string) {
	equ = maps.Clone(_cpu_defines)
	equ["LINENO"] = "0"
	return
}

var (
	reLabel    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reRegister = regexp.MustCompile(`^r([0-9]|1[0-5])$`)
	reParen    = regexp.MustCompile(`\$\([^\$]*\)`)
	reChar     = regexp.MustCompile(`'\\?[^']'`)
)

// Assembler is a single pass assembler for the instruction set.
//
// Source syntax, one statement per line, ';' starts a comment:
//
//	label:  load1 r0 DATA     ; r0 <- [DATA]
//	        load2 r1 5        ; r1 <- 5
//	        store r1 0x40     ; [0x40] <- r1
//	        move  r2 r1       ; r2 <- r1
//	        add   r3 r1 r2    ; r3 <- r1 + r2
//	        jump  label
//	        halt
//	        .equ  NAME VALUE
//	        .org  ADDR
//	        .byte VALUE...
//	        .word VALUE...
//
// Values may be written as $(expr), evaluated at assembly time over the
// equates and the labels defined so far.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	addr int // Address of the next opcode.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// parseLine expands a single line into words, handling equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reChar.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			default:
				return word
			}
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = nil
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		if !reLabel.MatchString(label) {
			err = ErrInstructionInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.addr
		words = words[1:]
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int)
	asm.Opcode = asm.Opcode[:0]
	asm.addr = PC_START
	asm.Equate = sysEquate()
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line, _, _ = strings.Cut(text, ";")
		line = strings.TrimSpace(line)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of address labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		addr, ok := asm.Label[op.LinkLabel]
		if !ok {
			err = ErrLabelMissing(op.LinkLabel)
			return
		}
		if addr >= MEMORY_SIZE {
			err = ErrValueRange
			return
		}
		code := op.Codes[0]
		op.Codes[0] = MakeCodeAddr(code.Op(), code.R(), addr)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// register parses a register name.
func (asm *Assembler) register(word string) (index int, err error) {
	match := reRegister.FindStringSubmatch(word)
	if match == nil {
		err = ErrRegisterInvalid
		return
	}

	index, err = strconv.Atoi(match[1])
	return
}

// operand parses an 8-bit address or immediate. Unresolved names are
// returned as a label to be linked after the whole source is read.
func (asm *Assembler) operand(word string) (value int, label string, err error) {
	value, err = asm.valueOf(word)
	if err != nil {
		if !reLabel.MatchString(word) {
			return
		}
		err = nil
		addr, ok := asm.Label[word]
		if !ok {
			label = word
			return
		}
		value = addr
	}

	if value < 0 || value >= MEMORY_SIZE {
		err = ErrValueRange
		return
	}

	return
}

// argCount checks the operand count of an instruction.
func argCount(words []string, count int) (err error) {
	switch {
	case len(words)-1 < count:
		err = ErrOpcodeMissing
	case len(words)-1 > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// opMap maps instruction mnemonics to operations.
var opMap = map[string]CodeOp{
	OP_LOAD1.String(): OP_LOAD1,
	OP_LOAD2.String(): OP_LOAD2,
	OP_STORE.String(): OP_STORE,
	OP_MOVE.String():  OP_MOVE,
	OP_ADD.String():   OP_ADD,
	OP_JUMP.String():  OP_JUMP,
	OP_HALT.String():  OP_HALT,
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var data []byte
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	defer func() {
		if err != nil || (len(codes) == 0 && len(data) == 0) {
			return
		}
		opcode := Opcode{LineNo: lineno, Addr: asm.addr, Words: words, Codes: codes, Data: data, LinkLabel: label}
		size := len(opcode.Bytes())
		if asm.addr+size > MEMORY_SIZE {
			err = ErrProgramFull
			return
		}
		asm.Opcode = append(asm.Opcode, opcode)
		asm.addr += size
	}()

	switch words[0] {
	case ".org":
		if err = argCount(words, 1); err != nil {
			return
		}
		var addr int
		addr, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if addr < asm.addr {
			err = ErrOrgBackwards
			return
		}
		if addr > MEMORY_SIZE {
			err = ErrValueRange
			return
		}
		asm.addr = addr
		return
	case ".byte", ".word":
		if len(words) < 2 {
			err = ErrOpcodeMissing
			return
		}
		for _, word := range words[1:] {
			var value int
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			if words[0] == ".byte" {
				if value < -0x80 || value > 0xff {
					err = ErrValueRange
					return
				}
				data = append(data, byte(value))
			} else {
				if value < -0x8000 || value > 0xffff {
					err = ErrValueRange
					return
				}
				data = append(data, byte(value>>8), byte(value))
			}
		}
		return
	}

	op, ok := opMap[words[0]]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	var r, s, t, value int
	switch op {
	case OP_LOAD1, OP_LOAD2, OP_STORE:
		if err = argCount(words, 2); err != nil {
			return
		}
		if r, err = asm.register(words[1]); err != nil {
			return
		}
		value, label, err = asm.operand(words[2])
		if err != nil {
			return
		}
		if op == OP_LOAD2 && len(label) != 0 {
			// Immediates may only name labels already defined.
			err = ErrLabelMissing(label)
			return
		}
		codes = append(codes, MakeCodeAddr(op, r, value))
	case OP_MOVE:
		if err = argCount(words, 2); err != nil {
			return
		}
		if r, err = asm.register(words[1]); err != nil {
			return
		}
		if s, err = asm.register(words[2]); err != nil {
			return
		}
		codes = append(codes, MakeCode(op, r, s, 0))
	case OP_ADD:
		if err = argCount(words, 3); err != nil {
			return
		}
		if r, err = asm.register(words[1]); err != nil {
			return
		}
		if s, err = asm.register(words[2]); err != nil {
			return
		}
		if t, err = asm.register(words[3]); err != nil {
			return
		}
		codes = append(codes, MakeCode(op, r, s, t))
	case OP_JUMP:
		if err = argCount(words, 1); err != nil {
			return
		}
		value, label, err = asm.operand(words[1])
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeAddr(op, 0, value))
	case OP_HALT:
		if err = argCount(words, 0); err != nil {
			return
		}
		codes = append(codes, MakeCode(op, 0, 0, 0))
	}

	return
}
