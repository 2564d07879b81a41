// Package lexer turns FraCtuS source text into tokens.
package lexer

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"fractus/interpreter-go/pkg/fraction"
	"fractus/interpreter-go/pkg/source"
)

// Lexer produces one token per call to Next. It keeps a single rune of
// pushback so two-rune operators can be resolved.
type Lexer struct {
	src        *source.Reader
	pending    rune
	hasPending bool
}

// New returns a lexer reading from src.
func New(src *source.Reader) *Lexer {
	return &Lexer{src: src}
}

// FromString lexes an in-memory program.
func FromString(text string) *Lexer {
	return New(source.FromString(text))
}

// Line reports the line of the most recently consumed rune.
func (l *Lexer) Line() int {
	return l.src.Line()
}

func (l *Lexer) read() rune {
	if l.hasPending {
		l.hasPending = false
		return l.pending
	}
	return l.src.Next()
}

func (l *Lexer) unread(ch rune) {
	l.pending = ch
	l.hasPending = true
}

// errorf reports a lexical error on line, the line the offending token
// starts on.
func (l *Lexer) errorf(line int, format string, args ...any) *LexError {
	return &LexError{Message: fmt.Sprintf(format, args...), Line: line}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// Next returns the next token, or a token of kind EOF at end of input.
func (l *Lexer) Next() (Token, error) {
	ch := l.read()
	for {
		if ch == '#' {
			for ch != '\n' && ch != source.EOF {
				ch = l.read()
			}
			continue
		}
		if ch == source.EOF || !unicode.IsSpace(ch) {
			break
		}
		ch = l.read()
	}

	line := l.src.Line()
	if ch == source.EOF {
		if err := l.src.Err(); err != nil {
			return Token{}, &LexError{Message: err.Error(), Line: line}
		}
		return Token{Kind: EOF, Line: line}, nil
	}

	switch {
	case unicode.IsLetter(ch):
		return l.word(ch, line), nil
	case isDigit(ch):
		return l.number(ch, line)
	case ch == '"':
		return l.quoted(line)
	}

	tok := Token{Line: line}
	switch ch {
	case ';':
		tok.Kind = Semicolon
	case ':':
		tok.Kind = Colon
	case ',':
		tok.Kind = Comma
	case '.':
		tok.Kind = Period
	case '{':
		tok.Kind = BraceOpen
	case '}':
		tok.Kind = BraceClose
	case '(':
		tok.Kind = ParenOpen
	case ')':
		tok.Kind = ParenClose
	case '+':
		tok.Kind = Plus
	case '-':
		tok.Kind = Minus
	case '*':
		tok.Kind = Mult
	case '/':
		tok.Kind = Div
	case '!':
		tok.Kind = l.either('=', Neq, Not)
	case '=':
		tok.Kind = l.either('=', Eq, Assign)
	case '<':
		tok.Kind = l.either('=', Le, Lt)
	case '>':
		tok.Kind = l.either('=', Ge, Gt)
	default:
		tok.Kind = Other
		tok.Text = string(ch)
	}
	return tok, nil
}

// either consumes next when it follows and returns pair, otherwise pushes the
// rune back and returns single.
func (l *Lexer) either(next rune, pair, single Kind) Kind {
	ch := l.read()
	if ch == next {
		return pair
	}
	l.unread(ch)
	return single
}

func (l *Lexer) word(first rune, line int) Token {
	var b strings.Builder
	ch := first
	for unicode.IsLetter(ch) || unicode.IsDigit(ch) {
		b.WriteRune(ch)
		ch = l.read()
	}
	l.unread(ch)
	text := b.String()
	if kind, ok := Keywords[text]; ok {
		return Token{Kind: kind, Line: line, Text: text}
	}
	return Token{Kind: Identifier, Line: line, Text: text}
}

// digits reads a run of decimal digits starting with first and returns the
// value together with the first rune after the run.
func (l *Lexer) digits(first rune, line int) (int64, rune, error) {
	var n int64
	ch := first
	for isDigit(ch) {
		d := int64(ch - '0')
		if n > (math.MaxInt64-d)/10 {
			return 0, ch, l.errorf(line, "integer constant out of range")
		}
		n = n*10 + d
		ch = l.read()
	}
	return n, ch, nil
}

func (l *Lexer) number(first rune, line int) (Token, error) {
	lead, ch, err := l.digits(first, line)
	if err != nil {
		return Token{}, err
	}
	switch ch {
	case '.':
		ch = l.read()
		if !isDigit(ch) {
			return Token{}, l.errorf(line, "malformed fraction constant: missing digits after '.'")
		}
		num, next, err := l.digits(ch, line)
		if err != nil {
			return Token{}, err
		}
		if next != '_' {
			return Token{}, l.errorf(line, "malformed fraction constant: missing '_'")
		}
		den, err := l.denominator(line)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: FractionConst, Line: line, Fraction: fraction.New(lead, num, den)}, nil
	case '_':
		den, err := l.denominator(line)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: FractionConst, Line: line, Fraction: fraction.New(0, lead, den)}, nil
	default:
		l.unread(ch)
		return Token{Kind: IntConst, Line: line, Int: lead}, nil
	}
}

// denominator reads the digits following '_'.
func (l *Lexer) denominator(line int) (int64, error) {
	ch := l.read()
	if !isDigit(ch) {
		return 0, l.errorf(line, "malformed fraction constant: missing denominator after '_'")
	}
	den, next, err := l.digits(ch, line)
	if err != nil {
		return 0, err
	}
	l.unread(next)
	if den == 0 {
		return 0, l.errorf(line, "denominator must be different than 0")
	}
	return den, nil
}

func (l *Lexer) quoted(line int) (Token, error) {
	var b strings.Builder
	ch := l.read()
	for ch != '"' {
		if ch == source.EOF {
			return Token{}, l.errorf(line, "unterminated string constant")
		}
		b.WriteRune(ch)
		ch = l.read()
	}
	ch = l.read()
	if ch == '"' {
		return Token{}, l.errorf(line, "malformed string constant: too many '\"' characters")
	}
	l.unread(ch)
	return Token{Kind: StringConst, Line: line, Text: b.String()}, nil
}

// All drains the lexer, stopping at EOF or the first error. The EOF token is
// included in the result.
func (l *Lexer) All() ([]Token, error) {
	var out []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return out, err
		}
		out = append(out, tok)
		if tok.Kind == EOF {
			return out, nil
		}
	}
}
