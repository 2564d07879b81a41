package interpreter

import (
	"errors"
	"fmt"
)

// ErrRuntime is matched by every *RuntimeError through errors.Is.
var ErrRuntime = errors.New("runtime error")

// RuntimeError aborts execution. Output written before it stays written.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return "runtime error: " + e.Message }

func (e *RuntimeError) Unwrap() error { return ErrRuntime }

func runtimeErrorf(format string, args ...any) error {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}
