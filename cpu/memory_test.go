package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_ReadWrite(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}

	for addr := range MEMORY_SIZE {
		err := mem.Write(addr, int32(-addr))
		assert.NoError(err)
	}

	for addr := range MEMORY_SIZE {
		value, err := mem.Read(addr)
		assert.NoError(err)
		assert.Equal(int32(-addr), value)
	}
}

func TestMemory_Range(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	before := *mem

	for _, addr := range []int{-1, MEMORY_SIZE, 300, 0x10000} {
		_, err := mem.Read(addr)
		assert.ErrorIs(err, ErrAddressRange, addr)
		assert.Equal(ErrMemoryRange(addr), err)

		err = mem.Write(addr, 1)
		assert.ErrorIs(err, ErrAddressRange, addr)
	}

	assert.Equal(before, *mem)
}

func TestMemory_LoadWords(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	count := mem.LoadWords([]uint16{0x1234, 0xabcd})
	assert.Equal(2, count)
	assert.Equal(int32(0x12), mem[0])
	assert.Equal(int32(0x34), mem[1])
	assert.Equal(int32(0xab), mem[2])
	assert.Equal(int32(0xcd), mem[3])
	assert.Equal(int32(0), mem[4])
}

func TestMemory_LoadWords_Full(t *testing.T) {
	assert := assert.New(t)

	words := make([]uint16, MEMORY_SIZE)
	for n := range words {
		words[n] = 0xc0c0
	}

	mem := &Memory{}
	count := mem.LoadWords(words)
	assert.Equal(MEMORY_SIZE/CODE_WIDTH, count)
	assert.Equal(int32(0xc0), mem[MEMORY_SIZE-1])
}

func TestMemory_LoadBytes(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	assert.Equal(3, mem.LoadBytes([]byte{1, 2, 0xff}))
	assert.Equal(int32(0xff), mem[2])

	data := make([]byte, MEMORY_SIZE+10)
	for n := range data {
		data[n] = byte(n)
	}
	assert.Equal(MEMORY_SIZE, mem.LoadBytes(data))
	assert.Equal(int32(0xff), mem[MEMORY_SIZE-1])
}
