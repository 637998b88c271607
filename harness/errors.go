package harness

import (
	"errors"
	"fmt"
)

// ErrInvalidTickInput is returned for a zero, negative or non-finite frame delta
var ErrInvalidTickInput = errors.New("harness: invalid tick input")

// PersistenceError wraps a failure to emit the final report
// The run remains terminal; the report is not retried
type PersistenceError struct {
	Tag string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("harness: emit report %q: %v", e.Tag, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
