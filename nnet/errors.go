package nnet

import (
	"fmt"
)

// Error is a wrapper for specific types of errors for which there is no additional information
// necessary. These errors are defined as global variables, and can be compared directly, or after
// errors.Cause() if they have been wrapped.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned or panicked.
var (
	ErrRegisterWrongType = Error{"Type is not recognized"}
	ErrRegisterNilReturn = Error{"Function return is nil"}
	ErrAlreadyRegistered = Error{"Type string is already registered"}

	ErrNetFinalized    = Error{"Network has already been finalized"}
	ErrNetNotFinalized = Error{"Network has not been finalized"}
	ErrNotCompiled     = Error{"Network has not been compiled"}
	ErrNoInput         = Error{"Network has no input node"}
	ErrNotSequential   = Error{"Input to a new node must be the most recently added node"}
	ErrNoInitializer   = Error{"No initializer given and no default has been set"}
	ErrEmptyBatch      = Error{"Batch is empty"}
	ErrNegativeIter    = Error{"Iteration cannot be negative"}
)

// NilArgError documents errors resulting from certain arguments provided to a function being nil.
type NilArgError struct{ string }

// NewNilArgError returns a NilArgError for the named argument, for use by subpackages
func NewNilArgError(what string) NilArgError {
	return NilArgError{what}
}

func (err NilArgError) Error() string {
	return err.string + " is nil"
}

// SizeMismatchError results from a slice whose length does not match what was expected. Field
// names what the slice holds ("inputs", "targets", ...).
type SizeMismatchError struct {
	Expected, Got int
	Field         string
}

func (err SizeMismatchError) Error() string {
	return fmt.Sprintf("Mismatched size of %s: expected %d, got %d", err.Field, err.Expected, err.Got)
}

// ShapeMismatchError results from a tensor whose dimensions differ from those of the parameter it
// was meant to fill.
type ShapeMismatchError struct {
	Name          string
	Expected, Got []int
}

func (err ShapeMismatchError) Error() string {
	return fmt.Sprintf("Mismatched shape for %s: expected %v, got %v", err.Name, err.Expected, err.Got)
}
