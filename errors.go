package snapdiff

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingKeyColumn is wrapped by MissingKeyColumnError.
	ErrMissingKeyColumn = errors.New("key column not found")
	// ErrNoKeyColumns is returned when a comparison has no key column to align rows.
	ErrNoKeyColumns = errors.New("no key columns")
)

// MissingKeyColumnError aborts a comparison: rows cannot be aligned without every key column.
type MissingKeyColumnError struct {
	Column string
	Table  string // name of the first table lacking the column
}

func (e *MissingKeyColumnError) Error() string {
	return fmt.Sprintf("key column %q not found in %q", e.Column, e.Table)
}

func (e *MissingKeyColumnError) Unwrap() error { return ErrMissingKeyColumn }
