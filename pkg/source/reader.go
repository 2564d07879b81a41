package source

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// EOF is returned by Next once the underlying stream is exhausted.
const EOF rune = -1

// Reader yields the runes of a FraCtuS source text one at a time and tracks
// the line the most recently returned rune belongs to.
type Reader struct {
	name string
	in   *bufio.Reader
	line int
	err  error
}

// NewReader wraps r. name is used only for diagnostics.
func NewReader(name string, r io.Reader) *Reader {
	return &Reader{name: name, in: bufio.NewReader(r), line: 1}
}

// FromString is a convenience for tests and the REPL.
func FromString(src string) *Reader {
	return NewReader("<input>", strings.NewReader(src))
}

// Open reads from the file at path. The caller owns the returned closer.
func Open(path string) (*Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return NewReader(path, f), f, nil
}

// Name returns the label the reader was created with.
func (r *Reader) Name() string { return r.name }

// Line reports the current line, starting at 1.
func (r *Reader) Line() int { return r.line }

// Err returns the first non-EOF read error, if any.
func (r *Reader) Err() error { return r.err }

// Next returns the next rune or EOF. A newline advances the line counter.
func (r *Reader) Next() rune {
	if r.err != nil {
		return EOF
	}
	ch, _, err := r.in.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = err
		}
		return EOF
	}
	if ch == 0 {
		return EOF
	}
	if ch == '\n' {
		r.line++
	}
	return ch
}
