package cpu

const (
	REGISTER_COUNT = 16 // Number of general purpose registers.
)

// RegisterFile is the bank of general purpose registers.
type RegisterFile [REGISTER_COUNT]int32

// Read returns the value of register 'index'.
func (rf *RegisterFile) Read(index int) (value int32, err error) {
	if index < 0 || index >= len(rf) {
		err = ErrRegisterRange(index)
		return
	}

	value = rf[index]
	return
}

// Write sets register 'index' to 'value'.
func (rf *RegisterFile) Write(index int, value int32) (err error) {
	if index < 0 || index >= len(rf) {
		err = ErrRegisterRange(index)
		return
	}

	rf[index] = value
	return
}
