package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, asm *Assembler, program ...string) *Program {
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)
	return prog
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog := assemble(t, asm)
	assert.Equal(0, len(prog.Opcodes))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("0x0a", asm.Equate["PC_START"])
	assert.Equal("256", asm.Equate["MEMORY_SIZE"])
	assert.Equal("16", asm.Equate["REGISTER_COUNT"])
}

func TestAssemblerProgram(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"; add two numbers",
		".equ A 5",
		"start:  load2 r0 A",
		"        load2 r1 $(A - 2)",
		"        add r2 r0 r1     ; r2 = r0 + r1",
		"        store r2 result",
		"        jump done",
		"        halt",
		"done:   halt",
		"        .org 0x40",
		"result: .byte 0",
	}

	prog := assemble(t, asm, program...)

	expected := []Opcode{
		{3, 0x0a, []string{"load2", "r0", "5"}, []Code{{0x2005}}, nil, ""},
		{4, 0x0c, []string{"load2", "r1", "3"}, []Code{{0x2103}}, nil, ""},
		{5, 0x0e, []string{"add", "r2", "r0", "r1"}, []Code{{0x5201}}, nil, ""},
		{6, 0x10, []string{"store", "r2", "result"}, []Code{{0x3240}}, nil, "result"},
		{7, 0x12, []string{"jump", "done"}, []Code{{0xb016}}, nil, "done"},
		{8, 0x14, []string{"halt"}, []Code{{0xc000}}, nil, ""},
		{9, 0x16, []string{"halt"}, []Code{{0xc000}}, nil, ""},
		{11, 0x40, []string{".byte", "0"}, nil, []byte{0}, ""},
	}

	assert.Equal(expected, prog.Opcodes)
	assert.Equal(map[string]int{"start": 0x0a, "done": 0x16, "result": 0x40}, asm.Label)

	cpu := NewCpu()
	cpu.LoadBytes(prog.Binary())
	assert.NoError(cpu.Run())
	assert.Equal(int32(8), cpu.Register[2])
	assert.Equal(int32(8), cpu.Memory[0x40])
	assert.Equal(0x18, cpu.Pc)
}

func TestAssemblerValues(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", "0x30")

	program := []string{
		"load2 r0 'A'",
		"load2 r1 LINENO",
		"store r0 BASE",
		"store r1 $(BASE + 1)",
		"here: load2 r2 here",
		"load1 r3 $(here * 2)",
		"move r15 r0",
		".word 0x1234 0xbeef",
	}

	prog := assemble(t, asm, program...)
	codes := []uint16{}
	for _, code := range prog.Codes() {
		codes = append(codes, code.Word)
	}

	assert.Equal([]uint16{0x2041, 0x2102, 0x3030, 0x3131, 0x2212, 0x1324, 0x4f00}, codes)
	assert.Equal([]byte{0x12, 0x34, 0xbe, 0xef}, prog.Opcodes[7].Data)
	assert.Equal(0x18, prog.Opcodes[7].Addr)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"register", []string{"load2 r16 1"}, 1, ErrRegisterInvalid},
		{"not_register", []string{"move r0 0x10"}, 1, ErrRegisterInvalid},
		{"range", []string{"load1 r0 0x100"}, 1, ErrValueRange},
		{"negative", []string{"load2 r0 -1"}, 1, ErrValueRange},
		{"missing", []string{"move r0"}, 1, ErrOpcodeMissing},
		{"extra", []string{"halt", "halt r0"}, 2, ErrOpcodeExtraArgs},
		{"label_missing", []string{"halt", "jump nowhere"}, 2, ErrLabelMissing("nowhere")},
		{"label_forward", []string{"load2 r0 later", "later: halt"}, 1, ErrLabelMissing("later")},
		{"invalid", []string{"frob r0"}, 1, ErrInstructionInvalid},
		{"equ_dup", []string{".equ A 1", ".equ A 2"}, 2, ErrEquateDuplicate},
		{"equ_syntax", []string{".equ A"}, 1, ErrEquateSyntax},
		{"label_dup", []string{"a: halt", "a: halt"}, 2, ErrLabelDuplicate},
		{"org_back", []string{".org 0x40", ".org 0x20"}, 2, ErrOrgBackwards},
		{"full", []string{".org 0xfe", "halt", "halt"}, 3, ErrProgramFull},
		{"byte", []string{".byte 0x100"}, 1, ErrValueRange},
		{"number", []string{".byte zz"}, 1, ErrParseNumber("zz")},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.ErrorAs(err, &syntax, entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestAssemblerExpression(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("load2 r0 $(1 +)"))
	assert.Error(err)

	_, err = asm.Parse(strings.NewReader(`load2 r0 $("x")`))
	assert.ErrorIs(err, ErrParseExpression(`"x"`))
}
