package table

import (
	"errors"
	"fmt"
)

var (
	ErrFileTooLarge      = errors.New("file exceeds size limit")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrParse             = errors.New("file could not be parsed")
	ErrColumnNotFound    = errors.New("column not found")
)

// InputError is the only failure that stops a run. Source names the file or
// column at fault.
type InputError struct {
	Source string
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error (%s): %v", e.Source, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func inputErr(source string, sentinel error, cause error) error {
	if cause == nil {
		return &InputError{Source: source, Err: sentinel}
	}
	return &InputError{Source: source, Err: fmt.Errorf("%w: %v", sentinel, cause)}
}
