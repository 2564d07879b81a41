package semantic

import (
	"errors"
	"fmt"
)

// ErrSemantic is matched by every *SemanticError through errors.Is.
var ErrSemantic = errors.New("semantic error")

// SemanticError reports an unresolved name, a duplicate declaration or a
// call with the wrong number of arguments.
type SemanticError struct {
	Message string
}

func (e *SemanticError) Error() string { return "semantic error: " + e.Message }

func (e *SemanticError) Unwrap() error { return ErrSemantic }

func errorf(format string, args ...any) error {
	return &SemanticError{Message: fmt.Sprintf(format, args...)}
}
