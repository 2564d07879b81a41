package lexer

import (
	"errors"
	"fmt"
)

// ErrLex is matched by every *LexError through errors.Is.
var ErrLex = errors.New("lexical error")

// LexError reports a malformed literal or an unreadable source.
type LexError struct {
	Message string
	Line    int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error in line %d: %s", e.Line, e.Message)
}

func (e *LexError) Unwrap() error { return ErrLex }
