package cpu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram() *Program {
	return &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Addr: 0x0a, Words: []string{"load2", "r0", "5"},
				Codes: []Code{MakeCodeAddr(OP_LOAD2, 0, 5)}},
			{LineNo: 2, Addr: 0x0c, Words: []string{"halt"},
				Codes: []Code{MakeCode(OP_HALT, 0, 0, 0)}},
			{LineNo: 4, Addr: 0x10, Words: []string{".byte", "1", "2", "3"},
				Data: []byte{1, 2, 3}},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(0x0a)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.Opcode.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0x0b)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(0x0c)
	assert.Equal(2, dbg.LineNo)

	dbg = prog.Debug(0x12)
	assert.Equal(4, dbg.LineNo)
	assert.Equal(2, dbg.Index)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	for _, addr := range []int{0, 0x09, 0x0e, 0x13, 0xff} {
		dbg := prog.Debug(addr)
		assert.Nil(dbg.Opcode, addr)
		assert.Equal(0, dbg.Index, addr)
	}
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	expected := make([]byte, 0x13)
	copy(expected[0x0a:], []byte{0x20, 0x05, 0xc0, 0x00})
	copy(expected[0x10:], []byte{1, 2, 3})

	assert.Equal(expected, prog.Binary())
	assert.Nil((&Program{}).Binary())
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	var addrs []int
	var codes []Code
	for addr, code := range testProgram().Codes() {
		addrs = append(addrs, addr)
		codes = append(codes, code)
	}

	assert.Equal([]int{0x0a, 0x0c}, addrs)
	assert.Equal([]Code{{0x2005}, {0xc000}}, codes)
}

func TestProgram_Hex(t *testing.T) {
	assert := assert.New(t)

	buff := &bytes.Buffer{}
	err := testProgram().Hex(buff)
	assert.NoError(err)

	lines := strings.Split(strings.TrimSuffix(buff.String(), "\n"), "\n")
	assert.Len(lines, 0x13)
	assert.Equal("00", lines[0])
	assert.Equal("20", lines[0x0a])
	assert.Equal("05", lines[0x0b])
	assert.Equal("C0", lines[0x0c])
	assert.Equal("03", lines[0x12])
}
