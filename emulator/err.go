package emulator

import (
	"errors"

	"github.com/ezrec/hexsim/translate"
)

var f = translate.From

var (
	ErrStepLimit = errors.New(f("step limit reached"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Addr   int
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("0x%02x: %v", err.Addr, err.Err)
	}
	return f("0x%02x line %d: %v", err.Addr, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
