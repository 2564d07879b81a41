// Package fraction implements the mixed numbers used by FraCtuS.
//
// A Fraction is whole + numerator/denominator. Results of arithmetic are never
// reduced to lowest terms: 1.2_3 + 2.1_3 is 3.3_3, not 4.
package fraction

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrZeroDenominator is returned by Parse when the denominator is 0.
var ErrZeroDenominator = errors.New("fraction: denominator must be different than 0")

// Fraction is a mixed number. The zero value is not valid; use Zero.
type Fraction struct {
	Whole       int64
	Numerator   int64
	Denominator int64
}

// Zero is the value fraction variables start with.
func Zero() Fraction {
	return Fraction{Denominator: 1}
}

// New builds whole + num/den.
func New(whole, num, den int64) Fraction {
	return Fraction{Whole: whole, Numerator: num, Denominator: den}
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int64) int64 {
	g := gcd(a, b)
	if g == 0 {
		return 0
	}
	return a / g * b
}

// CommonDenominator rescales l and r so both use the least common multiple of
// their denominators. Values with equal denominators are returned unchanged.
func CommonDenominator(l, r Fraction) (Fraction, Fraction) {
	if l.Denominator == r.Denominator {
		return l, r
	}
	m := lcm(l.Denominator, r.Denominator)
	l.Numerator = l.Numerator * (m / l.Denominator)
	r.Numerator = r.Numerator * (m / r.Denominator)
	l.Denominator, r.Denominator = m, m
	return l, r
}

// Improper folds the whole part into the numerator.
func (f Fraction) Improper() Fraction {
	return Fraction{Numerator: f.Whole*f.Denominator + f.Numerator, Denominator: f.Denominator}
}

// Add sums numerators and whole parts separately over the common denominator.
func Add(l, r Fraction) Fraction {
	l, r = CommonDenominator(l, r)
	return Fraction{
		Whole:       l.Whole + r.Whole,
		Numerator:   l.Numerator + r.Numerator,
		Denominator: l.Denominator,
	}
}

// Sub is Add with the right operand subtracted.
func Sub(l, r Fraction) Fraction {
	l, r = CommonDenominator(l, r)
	return Fraction{
		Whole:       l.Whole - r.Whole,
		Numerator:   l.Numerator - r.Numerator,
		Denominator: l.Denominator,
	}
}

// Mul multiplies the improper forms of both operands.
func Mul(l, r Fraction) Fraction {
	l, r = l.Improper(), r.Improper()
	return Fraction{
		Numerator:   l.Numerator * r.Numerator,
		Denominator: l.Denominator * r.Denominator,
	}
}

// Div multiplies l by the reciprocal of r. Callers must reject a zero r first.
func Div(l, r Fraction) Fraction {
	l, r = l.Improper(), r.Improper()
	return Fraction{
		Numerator:   l.Numerator * r.Denominator,
		Denominator: l.Denominator * r.Numerator,
	}
}

// Compare returns -1, 0 or 1.
func Compare(l, r Fraction) int {
	l, r = CommonDenominator(l, r)
	ln := l.Improper().Numerator
	rn := r.Improper().Numerator
	// a negative common denominator flips the ordering
	if l.Denominator < 0 {
		ln, rn = -ln, -rn
	}
	switch {
	case ln < rn:
		return -1
	case ln > rn:
		return 1
	default:
		return 0
	}
}

// Equal reports whether l and r denote the same rational value.
func Equal(l, r Fraction) bool {
	return Compare(l, r) == 0
}

// IsZero reports whether f denotes 0.
func (f Fraction) IsZero() bool {
	return f.Improper().Numerator == 0
}

// Neg negates the whole part, matching unary minus on fraction values.
func (f Fraction) Neg() Fraction {
	f.Whole = -f.Whole
	return f
}

// String renders W.N_D when the whole part is non-zero and N_D otherwise.
func (f Fraction) String() string {
	if f.Whole != 0 {
		return fmt.Sprintf("%d.%d_%d", f.Whole, f.Numerator, f.Denominator)
	}
	return fmt.Sprintf("%d_%d", f.Numerator, f.Denominator)
}

// Parse reads W.N_D or N_D. The whole part, or the numerator of the simple
// form, may carry a leading minus sign.
func Parse(text string) (Fraction, error) {
	s := strings.TrimSpace(text)
	sep := strings.IndexByte(s, '_')
	if sep < 0 {
		return Fraction{}, fmt.Errorf("fraction: %q is missing '_'", text)
	}
	var f Fraction
	head := s[:sep]
	negative := false
	if dot := strings.IndexByte(head, '.'); dot >= 0 {
		whole, err := strconv.ParseInt(head[:dot], 10, 64)
		if err != nil {
			return Fraction{}, fmt.Errorf("fraction: whole part of %q: %w", text, err)
		}
		f.Whole = whole
		head = head[dot+1:]
	} else if strings.HasPrefix(head, "-") {
		negative = true
		head = head[1:]
	}
	num, err := strconv.ParseUint(head, 10, 63)
	if err != nil {
		return Fraction{}, fmt.Errorf("fraction: numerator of %q: %w", text, err)
	}
	den, err := strconv.ParseUint(s[sep+1:], 10, 63)
	if err != nil {
		return Fraction{}, fmt.Errorf("fraction: denominator of %q: %w", text, err)
	}
	if den == 0 {
		return Fraction{}, ErrZeroDenominator
	}
	f.Numerator = int64(num)
	if negative {
		f.Numerator = -f.Numerator
	}
	f.Denominator = int64(den)
	return f, nil
}
