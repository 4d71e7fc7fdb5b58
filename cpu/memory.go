package cpu

const (
	MEMORY_SIZE = 256 // Number of memory cells.
)

// Memory is the flat address space, holding both code and data.
// Instruction words occupy two cells, high byte first.
type Memory [MEMORY_SIZE]int32

// Read returns the cell at 'addr'.
func (mem *Memory) Read(addr int) (value int32, err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrMemoryRange(addr)
		return
	}

	value = mem[addr]
	return
}

// Write sets the cell at 'addr' to 'value'.
func (mem *Memory) Write(addr int, value int32) (err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrMemoryRange(addr)
		return
	}

	mem[addr] = value
	return
}

// LoadBytes copies 'data' into memory starting at address 0, stopping at
// the end of memory. Returns the number of cells written.
func (mem *Memory) LoadBytes(data []byte) (count int) {
	for count < len(data) && count < len(mem) {
		mem[count] = int32(data[count])
		count++
	}

	return
}

// LoadWords copies 'words' into memory starting at address 0, high byte
// first, stopping at the end of memory. Returns the number of words written.
func (mem *Memory) LoadWords(words []uint16) (count int) {
	for _, word := range words {
		addr := count * 2
		if addr+1 >= len(mem) {
			break
		}
		mem[addr] = int32(word >> 8)
		mem[addr+1] = int32(word & 0xff)
		count++
	}

	return
}
