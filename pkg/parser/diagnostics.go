package parser

import (
	"errors"
	"fmt"

	"fractus/interpreter-go/pkg/lexer"
)

// ErrSyntax is matched by every *SyntaxError through errors.Is.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports the first token that did not fit the grammar.
type SyntaxError struct {
	Message string
	Token   lexer.Token
	Line    int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in line %d: %s (got %s)", e.Line, e.Message, e.Token)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// IsIncomplete reports whether err is a syntax error raised because the input
// ended early, so more text could still complete the program.
func IsIncomplete(err error) bool {
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		return false
	}
	return synErr.Token.Kind == lexer.EOF
}
