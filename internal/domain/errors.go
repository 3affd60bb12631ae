package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput          = errors.New("empty input")
	ErrDimensionMismatch   = errors.New("dimension mismatch")
	ErrInvalidClusterCount = errors.New("invalid cluster count")
	ErrMissingResource     = errors.New("missing resource")
)

// EmptyInputError is returned when a sentence without tokens reaches the
// vectorizer, or when there is nothing to cluster.
type EmptyInputError struct {
	What string
}

func (e *EmptyInputError) Error() string {
	if e.What == "" {
		return ErrEmptyInput.Error()
	}
	return fmt.Sprintf("empty input: %s", e.What)
}

func (e *EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }

// DimensionMismatchError reports a vector whose length differs from the run's D.
type DimensionMismatchError struct {
	Token string
	Want  int
	Got   int
}

func (e *DimensionMismatchError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("dimension mismatch for %q: want %d, got %d", e.Token, e.Want, e.Got)
	}
	return fmt.Sprintf("dimension mismatch: want %d, got %d", e.Want, e.Got)
}

func (e *DimensionMismatchError) Is(target error) bool { return target == ErrDimensionMismatch }

// InvalidClusterCountError is returned when k is outside [1, N].
type InvalidClusterCountError struct {
	K int
	N int
}

func (e *InvalidClusterCountError) Error() string {
	return fmt.Sprintf("invalid cluster count k=%d for %d vectors", e.K, e.N)
}

func (e *InvalidClusterCountError) Is(target error) bool { return target == ErrInvalidClusterCount }

// MissingResourceError wraps a failure to read a sentence source or model artifact.
type MissingResourceError struct {
	Resource string
	Path     string
	Err      error
}

func (e *MissingResourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %q unavailable", e.Resource, e.Path)
	}
	return fmt.Sprintf("%s %q unavailable: %v", e.Resource, e.Path, e.Err)
}

func (e *MissingResourceError) Is(target error) bool { return target == ErrMissingResource }

func (e *MissingResourceError) Unwrap() error { return e.Err }
