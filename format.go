package floatconv

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/exp/slices"
)

// ErrShortBuffer is returned by [Write] when the destination cannot hold
// the rendered value.
var ErrShortBuffer = errors.New("short buffer")

// MaxPrec is the largest precision accepted by [Convert].
// It keeps the size of every rendering representable as an int.
const MaxPrec = math.MaxInt / 2

// Style selects how a value is rendered.
type Style uint8

const (
	// Shortest renders the shortest round-trip digits in whichever of the
	// scientific and fixed forms is shorter. Ties favour the fixed form.
	Shortest Style = iota
	// Scientific renders d.ddde±dd.
	Scientific
	// Fixed renders ddd.ddd without an exponent.
	Fixed
)

func (s Style) String() string {
	switch s {
	case Shortest:
		return "Shortest"
	case Scientific:
		return "Scientific"
	case Fixed:
		return "Fixed"
	}
	return fmt.Sprintf("Style(%d)", uint8(s))
}

// Layout describes the shape of a rendered value.
type Layout struct {
	Neg     bool // leading '-'
	Int     int  // digits before the decimal point
	Frac    int  // digits after the decimal point, the point is present iff Frac > 0
	Exp     int  // exponent digits, 0 if there is no exponent
	ExpNeg  bool // exponent sign is '-'
	Special int  // length of the "inf" or "nan" token, 0 for finite values
}

// Size returns the number of code units of the rendered value.
// A finite value has at least one integer digit, so the zero Layout
// renders as "0".
func (l Layout) Size() int {
	n := l.Frac + l.Special
	if l.Special == 0 {
		n += max(l.Int, 1)
	}
	if l.Neg {
		n++
	}
	if l.Frac > 0 {
		n++ // point
	}
	if l.Exp > 0 {
		n += 2 + l.Exp // 'e', sign
	}
	return n
}

// Conversion is a value that has been classified, converted to digits and
// laid out, but not rendered yet. It is the first phase of the size-then-emit
// protocol: query [Conversion.Size], provide a buffer, then call [Write] or
// [WriteUnchecked]. Rendering a Conversion never fails and never allocates.
// The zero value renders as "0".
type Conversion struct {
	class  Class
	digits Digits
	layout Layout
}

// Convert stages f for rendering in the given style.
// For [Scientific] and [Fixed] styles, prec is the number of digits after
// the decimal point and a negative prec selects the shortest round-trip
// digits instead. [Shortest] style always uses the shortest digits and
// ignores prec.
//
// Convert panics if style is unknown or if prec exceeds [MaxPrec].
func Convert[F Float](f F, style Style, prec int) Conversion {
	switch {
	case style > Fixed:
		panic(fmt.Sprintf("Convert(%v, %v, %v) failed: %v", f, style, prec, errBadStyle))
	case prec > MaxPrec:
		panic(fmt.Sprintf("Convert(%v, %v, %v) failed: %v", f, style, prec, errPrecRange))
	}

	c := Classify(f)
	conv := Conversion{class: c.Class}

	// Special cases
	switch c.Class {
	case Infinite:
		conv.layout = Layout{Neg: c.Neg, Special: 3}
		return conv
	case NaN:
		conv.layout = Layout{Special: 3}
		return conv
	}

	// General case
	switch {
	case style == Shortest || prec < 0:
		conv.digits = ShortestDigits(f)
		d := &conv.digits
		sci := scientificLayout(d, max(d.nd-1, 0))
		fix := fixedLayout(d, max(d.nd-d.dp, 0))
		switch {
		case style == Scientific:
			conv.layout = sci
		case style == Fixed:
			conv.layout = fix
		case sci.Size() < fix.Size():
			conv.layout = sci
		default:
			conv.layout = fix
		}
	case style == Scientific:
		conv.digits = FixedDigits(f, prec+1, Significant)
		conv.layout = scientificLayout(&conv.digits, prec)
	default:
		conv.digits = FixedDigits(f, prec, Fraction)
		conv.layout = fixedLayout(&conv.digits, prec)
	}
	return conv
}

func scientificLayout(d *Digits, frac int) Layout {
	exp := d.Exp()
	l := Layout{
		Neg:    d.neg,
		Int:    1,
		Frac:   frac,
		ExpNeg: exp < 0,
	}
	if exp < 0 {
		exp = -exp
	}
	l.Exp = max(fint(exp).prec(), 2)
	return l
}

func fixedLayout(d *Digits, frac int) Layout {
	return Layout{
		Neg:  d.neg,
		Int:  max(d.dp, 1),
		Frac: frac,
	}
}

// Class returns the category of the staged value.
func (c Conversion) Class() Class {
	return c.class
}

// Digits returns the staged digits.
// The digits of infinities and NaNs are empty.
func (c Conversion) Digits() Digits {
	return c.digits
}

// Layout returns the shape of the rendered value.
func (c Conversion) Layout() Layout {
	return c.layout
}

// Size returns the exact number of code units [Write] will produce.
func (c Conversion) Size() int {
	return c.layout.Size()
}

// Write renders c into dst and returns the number of code units written.
// If dst is shorter than [Conversion.Size], nothing is written and
// [ErrShortBuffer] is returned.
func Write[T CodeUnit](dst []T, c Conversion) (int, error) {
	n := c.Size()
	if len(dst) < n {
		return 0, ErrShortBuffer
	}
	emit(dst[:n], &c)
	return n, nil
}

// WriteUnchecked is like [Write] but skips the capacity check.
// The caller guarantees that the memory behind dst has room for at least
// [Conversion.Size] code units: only the data pointer of dst is used.
func WriteUnchecked[T CodeUnit](dst []T, c Conversion) int {
	n := c.Size()
	emit(unsafe.Slice(unsafe.SliceData(dst), n), &c)
	return n
}

// emit renders c into dst, where len(dst) == c.Size().
func emit[T CodeUnit](dst []T, c *Conversion) {
	var (
		l   = &c.layout
		d   = &c.digits
		pos int
	)

	// Sign
	if l.Neg {
		dst[pos] = '-'
		pos++
	}

	// Special cases
	if l.Special > 0 {
		tok := "nan"
		if c.class == Infinite {
			tok = "inf"
		}
		for i := 0; i < len(tok); i++ {
			dst[pos] = T(tok[i])
			pos++
		}
		return
	}

	// Scientific
	if l.Exp > 0 {
		dst[pos] = T(digitAt(d, 0))
		pos++
		if l.Frac > 0 {
			dst[pos] = '.'
			pos++
			for i := 1; i <= l.Frac; i++ {
				dst[pos] = T(digitAt(d, i))
				pos++
			}
		}
		dst[pos] = 'e'
		pos++
		if l.ExpNeg {
			dst[pos] = '-'
		} else {
			dst[pos] = '+'
		}
		pos++
		exp := d.Exp()
		if exp < 0 {
			exp = -exp
		}
		for i := l.Exp - 1; i >= 0; i-- {
			dst[pos+i] = T(byte(exp%10) + '0')
			exp /= 10
		}
		return
	}

	// Fixed
	if d.dp > 0 {
		for i := 0; i < l.Int; i++ {
			dst[pos] = T(digitAt(d, i))
			pos++
		}
	} else {
		dst[pos] = '0'
		pos++
	}
	if l.Frac > 0 {
		dst[pos] = '.'
		pos++
		for i := 0; i < l.Frac; i++ {
			dst[pos] = T(digitAt(d, d.dp+i))
			pos++
		}
	}
}

// Size returns the number of code units needed to render f.
// See [Convert] for the meaning of style and prec.
func Size[F Float](f F, style Style, prec int) int {
	return Convert(f, style, prec).Size()
}

// Append renders f and appends the result to dst.
// See [Convert] for the meaning of style and prec.
func Append[T CodeUnit, F Float](dst []T, f F, style Style, prec int) []T {
	c := Convert(f, style, prec)
	n := c.Size()
	dst = slices.Grow(dst, n)
	emit(dst[len(dst):len(dst)+n], &c)
	return dst[:len(dst)+n]
}

// Format renders f as a string.
// See [Convert] for the meaning of style and prec.
func Format[F Float](f F, style Style, prec int) string {
	var buf [32]byte
	return string(Append(buf[:0], f, style, prec))
}

// String renders f with the shortest round-trip digits in the shorter
// of the scientific and fixed forms.
// The result parses back to f exactly.
func String[F Float](f F) string {
	return Format(f, Shortest, -1)
}
