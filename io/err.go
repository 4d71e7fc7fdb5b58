package io

import (
	"errors"

	"github.com/ezrec/hexsim/translate"
)

var f = translate.From

var (
	// Loader errors
	ErrHexToken = errors.New(f("not a hexadecimal byte"))
	ErrHexFull  = errors.New(f("program exceeds memory"))
)

// ErrHexLine is a program source line that was skipped.
type ErrHexLine struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrHexLine) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrHexLine) Unwrap() error {
	return err.Err
}
