package grantquality

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrFileNotFound indicates an input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidJSON indicates an input file is not valid JSON or does not
// have the expected shape.
var ErrInvalidJSON = errors.New("invalid json")

// ErrUnknownTestClass indicates a test class name outside the catalogue.
var ErrUnknownTestClass = errors.New("unknown test class")

// InputError represents a failure to read one of the inputs of a run.
type InputError struct {
	Kind string // "grants", "cell source map", "validation errors", "codelists", "workbook", "schema"
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("read %s %q: %v", e.Kind, e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// NewInputError creates a new InputError.
func NewInputError(kind, path string, err error) *InputError {
	return &InputError{
		Kind: kind,
		Path: path,
		Err:  err,
	}
}
