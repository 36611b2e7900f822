package floatconv

import (
	"errors"
	"fmt"
	"math/bits"
	"unsafe"
)

// ErrSyntax is the single error reported for malformed text.
// Overflow and underflow are not errors: they produce infinities and zeros.
var ErrSyntax = errors.New("invalid syntax")

// scanState is a state of the literal scanner.
type scanState uint8

const (
	stateStart scanState = iota
	stateSign
	stateInteger
	statePoint
	stateFraction
	stateExpMarker
	stateExpSign
	stateExpDigits
	stateError
)

// charClass is the scanner's view of a code unit.
type charClass uint8

const (
	classOther charClass = iota
	classDigit
	classSign
	classPoint
	classExp
)

// transitions[s][c] is the state after reading a code unit of class c in state s.
var transitions = [...][5]scanState{
	//               other       digit           sign            point        exp
	stateStart:     {stateError, stateInteger, stateSign, statePoint, stateError},
	stateSign:      {stateError, stateInteger, stateError, statePoint, stateError},
	stateInteger:   {stateError, stateInteger, stateError, statePoint, stateExpMarker},
	statePoint:     {stateError, stateFraction, stateError, stateError, stateExpMarker},
	stateFraction:  {stateError, stateFraction, stateError, stateError, stateExpMarker},
	stateExpMarker: {stateError, stateExpDigits, stateExpSign, stateError, stateError},
	stateExpSign:   {stateError, stateExpDigits, stateError, stateError, stateError},
	stateExpDigits: {stateError, stateExpDigits, stateError, stateError, stateError},
}

func classOf[T CodeUnit](c T) charClass {
	switch {
	case '0' <= c && c <= '9':
		return classDigit
	case c == '+' || c == '-':
		return classSign
	case c == '.':
		return classPoint
	case c == 'e' || c == 'E':
		return classExp
	}
	return classOther
}

// literal is a scanned decimal literal.
type literal struct {
	neg   bool
	mant  fint // first 19 significant digits
	exp   int  // the value is mant * 10^exp, unless trunc
	trunc bool // nonzero digits were dropped from mant
	first int  // significand starts at text[first]
	last  int  // significand ends before text[last]
	exp10 int  // explicit exponent
}

// scan reads text as a decimal literal:
//
//	sign           ::= '+' | '-'
//	digits         ::= { '0' | '1' | '2' | '3' | '4' | '5' | '6' | '7' | '8' | '9' }
//	significand    ::= digits '.' digits | '.' digits | digits '.' | digits
//	exponent       ::= ('e' | 'E') [sign] digits
//	numeric-string ::= [sign] significand [exponent]
//
// scan reports false unless the whole text matches.
func scan[T CodeUnit](lit *literal, text []T) bool {
	var (
		state     = stateStart
		sawdigits bool
		nd        int // significant digits, leading zeros excluded
		ndMant    int // digits accumulated in mant
		dp        int // decimal point position
		sawdot    bool
		eneg      bool
		e         int
		ok        bool
	)

	*lit = literal{last: len(text)}

	for i, c := range text {
		next := transitions[state][classOf(c)]
		switch next {
		case stateError:
			return false
		case stateSign:
			lit.neg = c == '-'
			lit.first = i + 1
		case stateInteger, stateFraction:
			sawdigits = true
			if c == '0' && nd == 0 { // leading zeros
				dp--
				break
			}
			nd++
			var m fint
			if m, ok = lit.mant.fsa(1, byte(c-'0')); ok {
				lit.mant = m
				ndMant++
			} else if c != '0' {
				lit.trunc = true
			}
		case statePoint:
			sawdot = true
			dp = nd
		case stateExpMarker:
			if !sawdigits {
				return false
			}
			lit.last = i
		case stateExpSign:
			eneg = c == '-'
		case stateExpDigits:
			if e < 10000 {
				e = e*10 + int(c) - '0'
			}
		}
		state = next
	}

	switch state {
	case stateInteger, stateFraction, stateExpDigits:
		// accept
	case statePoint:
		if !sawdigits {
			return false
		}
	default:
		return false
	}

	if !sawdot {
		dp = nd
	}
	if eneg {
		e = -e
	}
	lit.exp10 = e
	if lit.mant != 0 {
		lit.exp = dp + e - ndMant
	}
	return true
}

// ParseResult is the outcome of [ParseText].
type ParseResult[F Float] struct {
	value F
	n     int
	ok    bool
}

// Value returns the parsed value and true,
// or zero and false if the text was malformed.
func (r ParseResult[F]) Value() (F, bool) {
	return r.value, r.ok
}

// Len returns the number of code units consumed, which is the whole text
// on success and 0 on failure.
func (r ParseResult[F]) Len() int {
	return r.n
}

// ParseText converts decimal text of any code unit width to the nearest
// value of type F, ties to even.
// The whole text must be a literal, see [Parse] for the grammar.
func ParseText[F Float, T CodeUnit](text []T) ParseResult[F] {
	var lit literal
	if !scan(&lit, text) {
		return ParseResult[F]{}
	}
	return ParseResult[F]{
		value: convertLiteral[F](&lit, text),
		n:     len(text),
		ok:    true,
	}
}

// Parse converts a string to the nearest value of type F, ties to even.
// The string must match the following EBNF grammar:
//
//	sign           ::= '+' | '-'
//	digits         ::= { '0' | '1' | '2' | '3' | '4' | '5' | '6' | '7' | '8' | '9' }
//	significand    ::= digits '.' digits | '.' digits | digits '.' | digits
//	exponent       ::= ('e' | 'E') [sign] digits
//	numeric-string ::= [sign] significand [exponent]
//
// Parse does not accept whitespace, infinities or NaNs.
// Values beyond the range of F become infinities, values below half of
// the smallest subnormal become zeros, neither is an error.
//
// Parse returns [ErrSyntax] if the string does not match the grammar.
func Parse[F Float](s string) (F, error) {
	// The text is only read.
	text := unsafe.Slice(unsafe.StringData(s), len(s))
	f, ok := ParseText[F](text).Value()
	if !ok {
		return 0, fmt.Errorf("parsing %q: %w", s, ErrSyntax)
	}
	return f, nil
}

// convertLiteral finds the nearest value to lit.
func convertLiteral[F Float, T CodeUnit](lit *literal, text []T) F {
	flt := infoOf[F]()
	if optimize {
		mant := uint64(lit.mant)
		if !lit.trunc {
			if f, ok := atofExact[F](mant, lit.exp, lit.neg); ok {
				return f
			}
		}
		if b, ok := eiselLemire(mant, lit.exp, lit.neg, flt); ok {
			if !lit.trunc {
				return fromBits[F](b)
			}
			// The dropped digits lie between mant and mant+1,
			// the result is right if both ends agree.
			if bUp, ok := eiselLemire(mant+1, lit.exp, lit.neg, flt); ok && b == bUp {
				return fromBits[F](b)
			}
		}
	}
	var d decimal
	loadDecimal(&d, text[lit.first:lit.last], lit.exp10, lit.neg)
	b, _ := d.floatBits(flt)
	return fromBits[F](b)
}

// Exact powers of 10.
var (
	float64pow10 = [...]float64{
		1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9,
		1e10, 1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19,
		1e20, 1e21, 1e22,
	}
	float32pow10 = [...]float32{1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10}
)

// atofExact computes mant*10^exp in floating-point arithmetic when both
// operands are exact, so that the single rounding step is the correct one.
func atofExact[F Float](mant uint64, exp int, neg bool) (F, bool) {
	var f F
	if unsafe.Sizeof(f) == 4 {
		g, ok := atof32exact(mant, exp, neg)
		return F(g), ok
	}
	g, ok := atof64exact(mant, exp, neg)
	return F(g), ok
}

func atof64exact(mant uint64, exp int, neg bool) (f float64, ok bool) {
	if mant>>float64info.mantbits != 0 {
		return
	}
	f = float64(mant)
	if neg {
		f = -f
	}
	switch {
	case exp == 0:
		return f, true
	// mant*10^(exp-22) must stay below 10^15 to be exact.
	case exp > 0 && exp <= 15+22:
		if exp > 22 {
			f *= float64pow10[exp-22]
			exp = 22
		}
		if f > 1e15 || f < -1e15 {
			return
		}
		return f * float64pow10[exp], true
	case exp < 0 && exp >= -22:
		return f / float64pow10[-exp], true
	}
	return
}

func atof32exact(mant uint64, exp int, neg bool) (f float32, ok bool) {
	if mant>>float32info.mantbits != 0 {
		return
	}
	f = float32(mant)
	if neg {
		f = -f
	}
	switch {
	case exp == 0:
		return f, true
	// mant*10^(exp-10) must stay below 10^7 to be exact.
	case exp > 0 && exp <= 7+10:
		if exp > 10 {
			f *= float32pow10[exp-10]
			exp = 10
		}
		if f > 1e7 || f < -1e7 {
			return
		}
		return f * float32pow10[exp], true
	case exp < 0 && exp >= -10:
		return f / float32pow10[-exp], true
	}
	return
}

// eiselLemire computes the bits of the value nearest to man*10^exp10 with
// the 128-bit power-of-ten table. It reports false when the truncated
// product is too close to a halfway point to decide, or when the result
// is out of the normal range; the caller then falls back to exact arithmetic.
func eiselLemire(man uint64, exp10 int, neg bool, flt *floatInfo) (b uint64, ok bool) {
	if man == 0 {
		if neg {
			b = 1 << (flt.expbits + flt.mantbits)
		}
		return b, true
	}
	if exp10 < detailedPowersOfTenMinExp10 || detailedPowersOfTenMaxExp10 < exp10 {
		return 0, false
	}

	// man gets its top bit set, retExp2 is biased
	clz := bits.LeadingZeros64(man)
	man <<= uint(clz)
	retExp2 := uint64(217706*exp10>>16+64-flt.bias) - uint64(clz)

	pow := detailedPowersOfTen[exp10-detailedPowersOfTenMinExp10]
	xHi, xLo := bits.Mul64(man, pow[1])

	// The high word may be off by one, use the low half of the power
	shift := 64 - 3 - flt.mantbits
	mask := uint64(1)<<shift - 1
	if xHi&mask == mask && xLo+man < man {
		yHi, yLo := bits.Mul64(man, pow[0])
		mergedHi, mergedLo := xHi, xLo+yHi
		if mergedLo < xLo {
			mergedHi++
		}
		if mergedHi&mask == mask && mergedLo+1 == 0 && yLo+man < man {
			return 0, false
		}
		xHi, xLo = mergedHi, mergedLo
	}

	// Keep mantbits+2 bits
	msb := xHi >> 63
	retMantissa := xHi >> (msb + uint64(shift))
	retExp2 -= 1 ^ msb

	// Exactly between two values
	if xLo == 0 && xHi&mask == 0 && retMantissa&3 == 1 {
		return 0, false
	}

	// Round off the extra bit, a carry bumps the exponent
	retMantissa += retMantissa & 1
	retMantissa >>= 1
	if retMantissa>>(flt.mantbits+1) > 0 {
		retMantissa >>= 1
		retExp2 += 1
	}
	// Subnormals wrap around to large values, so one unsigned compare
	// rejects both them and overflow.
	if retExp2-1 >= 1<<flt.expbits-2 {
		return 0, false
	}
	b = retExp2<<flt.mantbits | retMantissa&(1<<flt.mantbits-1)
	if neg {
		b |= 1 << (flt.expbits + flt.mantbits)
	}
	return b, true
}
