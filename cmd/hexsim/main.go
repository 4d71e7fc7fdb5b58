// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/ezrec/hexsim/cpu"
	"github.com/ezrec/hexsim/emulator"
	hexio "github.com/ezrec/hexsim/io"
)

// Process exit codes.
const (
	EXIT_HALT  = 0 // Stopped by a halt instruction.
	EXIT_ERROR = 1 // Usage, load, or assembly failure.
	EXIT_PC    = 2 // Program counter ran off the end of memory.
	EXIT_LIMIT = 3 // Step limit reached.
)

var (
	ErrNoProgram   = errors.New("no program file")
	ErrSaveCompile = errors.New("-s requires -c")
)

// checkUsage rejects flag combinations that would be silently ignored.
func checkUsage(compile string, save bool) (err error) {
	if save && len(compile) == 0 {
		err = ErrSaveCompile
	}
	return
}

// readFileName reads the program file name from the first line of 'in'.
func readFileName(in io.Reader) (name string, err error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return
	}
	err = nil

	name = strings.TrimSpace(line)
	if len(name) == 0 {
		err = ErrNoProgram
	}
	return
}

// promptFile reads the program file name from stdin, prompting for it
// on an interactive terminal.
func promptFile() (name string, err error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, "Enter the file name: ")
	}

	return readFileName(os.Stdin)
}

// predefine sets the built-in equates, then the user's, so that the
// user's values win.
func predefine(asm *cpu.Assembler, builtin iter.Seq2[string, string], user [][2]string) {
	for key, value := range builtin {
		asm.Predefine(key, value)
	}
	for _, kv := range user {
		asm.Predefine(kv[0], kv[1])
	}
}

// listing writes the address, word, and disassembly of every instruction.
func listing(w io.Writer, prog *cpu.Program) (err error) {
	for addr, code := range prog.Codes() {
		_, err = fmt.Fprintf(w, "%02x: %04x  %v\n", addr, code.Word, code)
		if err != nil {
			return
		}
	}
	return
}

func main() {
	var compile string
	var save bool
	var output string
	var verbose bool
	var quiet bool
	var limit int
	var defines [][2]string

	asm := &cpu.Assembler{}

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.BoolVar(&save, "s", false, "Save assembled program as hex, do not execute")
	flag.StringVar(&output, "o", "-", "Hex output for -s")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&quiet, "q", false, "Do not report machine state after each step")
	flag.IntVar(&limit, "m", 0, "Maximum steps to execute (0 is unlimited)")
	flag.Func("D", "Assembler predefine NAME=VALUE", func(arg string) error {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return errors.New("expected NAME=VALUE")
		}
		defines = append(defines, [2]string{name, value})
		return nil
	})

	flag.Parse()

	log.SetFlags(0)

	if err := checkUsage(compile, save); err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	asm.Verbose = verbose
	predefine(asm, emu.Defines(), defines)

	var image []byte

	switch {
	case len(compile) != 0:
		if flag.NArg() != 0 {
			log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
		}

		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		prog, err := asm.Parse(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		emu.Program = prog
		image = prog.Binary()

		if verbose {
			listing(os.Stderr, prog)
		}

		if save {
			ouf := os.Stdout
			if output != "-" {
				ouf, err = os.Create(output)
				if err != nil {
					log.Fatalf("%v: %v", output, err)
				}
			}
			err = prog.Hex(ouf)
			if err == nil {
				err = ouf.Close()
			}
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			return
		}
	default:
		var name string
		switch flag.NArg() {
		case 0:
			var err error
			name, err = promptFile()
			if err != nil {
				log.Fatalf("%v: %v", os.Args[0], err)
			}
		case 1:
			name = flag.Arg(0)
		default:
			log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
		}

		hr := &hexio.HexReader{Verbose: verbose}
		var err error
		image, err = hr.LoadFile(os.DirFS(filepath.Dir(name)), filepath.Base(name))
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
		log.Printf("%v: loaded %d bytes", name, len(image))
	}

	emu.Reset(image)
	if !quiet {
		emu.Report = os.Stdout
	}

	err := emu.Run(limit, func(err error) { log.Print(err) })
	switch {
	case err == nil:
		os.Exit(EXIT_HALT)
	case errors.Is(err, cpu.ErrPcRange):
		log.Print(err)
		os.Exit(EXIT_PC)
	case errors.Is(err, emulator.ErrStepLimit):
		log.Print(err)
		os.Exit(EXIT_LIMIT)
	default:
		log.Fatal(err)
	}
}
