package orders

import (
	"errors"
	"fmt"
)

// ErrNotFound means the order id is absent from the current in-memory
// snapshot; nothing was written to the store.
var ErrNotFound = errors.New("order not found")

// ValidationError is recovered locally: the operation aborts before any
// store call and the message is surfaced to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
