package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	assert := assert.New(t)

	registers := make([]int32, 16)
	registers[0] = 5
	registers[15] = -1
	memory := make([]int32, 256)
	memory[0x0a] = 0x20
	memory[0x20] = 0x99

	before := append([]int32(nil), memory...)

	buff := &bytes.Buffer{}
	err := Report(buff, registers, memory)
	assert.NoError(err)
	assert.Equal(before, memory)

	text := buff.String()
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	assert.Len(lines, 1+16+1+REPORT_CELLS)

	assert.Equal("Registers:", lines[0])
	assert.Equal("r0: 5 (dec), 5 (hex)", lines[1])
	assert.Equal("r15: -1 (dec), ffffffff (hex)", lines[16])
	assert.Equal("Memory:", lines[17])
	assert.Equal("[0a]: 32 (dec), 20 (hex)", lines[18+0x0a])
	assert.NotContains(text, "153")
}
