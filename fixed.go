package floatconv

import (
	"fmt"
	"math/bits"
)

// Mode selects what the precision of [FixedDigits] counts.
// It does not affect rounding.
type Mode uint8

const (
	// Significant counts significant digits, starting at the first non-zero digit.
	Significant Mode = iota
	// Fraction counts digits after the decimal point.
	Fraction
)

func (m Mode) String() string {
	switch m {
	case Significant:
		return "Significant"
	case Fraction:
		return "Fraction"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// FixedDigits returns the digits of f rounded to the given precision
// using "half to even" rule against the exact binary value.
// Rounding is always half to even, there is no rounding mode parameter;
// mode only selects whether prec counts significant digits or digits
// after the decimal point.
// In [Significant] mode the result has exactly prec digits, in [Fraction]
// mode it has every digit down to 10^-prec, so zero values have prec digits.
// A carry out of the leading digit moves the decimal point: 9.995 rounded
// to 2 significant digits is 1.0e1.
//
// FixedDigits panics if f is an infinity or a NaN, or if prec is
// less than 1 in [Significant] mode or negative in [Fraction] mode.
func FixedDigits[F Float](f F, prec int, mode Mode) Digits {
	switch {
	case mode != Significant && mode != Fraction:
		panic(fmt.Sprintf("FixedDigits(%v, %v, %v) failed: %v", f, prec, mode, errBadMode))
	case mode == Significant && prec < 1, mode == Fraction && prec < 0:
		panic(fmt.Sprintf("FixedDigits(%v, %v, %v) failed: %v", f, prec, mode, errPrecRange))
	}
	c := Classify(f)
	if !c.Class.IsFinite() {
		panic(fmt.Sprintf("FixedDigits(%v, %v, %v) failed: %v", f, prec, mode, errNonFinite))
	}
	if optimize && mode == Significant && prec <= 18 {
		return fixedFast(c, prec)
	}
	return fixedExact(c, prec, mode)
}

func fixedFast(c Classification, prec int) Digits {
	var buf [24]byte
	ds := digitSlice{d: buf[:]}
	ryuFtoaFixed64(&ds, c.Mant, c.Exp, prec)
	return newDigits(c.Neg, ds, prec)
}

func fixedExact(c Classification, prec int, mode Mode) Digits {
	var d decimal
	d.assign(c.Mant)
	d.shift(c.Exp)
	n := prec
	switch mode {
	case Significant:
		d.round(prec)
	case Fraction:
		if nd := d.dp + prec; nd < 0 {
			// below half of the last place
			d.nd, d.dp = 0, 0
		} else {
			d.round(nd)
		}
		n = d.dp + prec
	}
	return newDigits(c.Neg, digitSlice{d: d.d[:], nd: d.nd, dp: d.dp}, n)
}

// ryuFtoaFixed64 formats mant*(2^exp) with prec significant digits.
func ryuFtoaFixed64(d *digitSlice, mant uint64, exp int, prec int) {
	if prec > 18 {
		panic("ryuFtoaFixed64 called with prec > 18")
	}
	if mant == 0 {
		d.nd, d.dp = 0, 0
		return
	}
	// Mantissa is widened to 55 bits
	e2 := exp
	if b := bits.Len64(mant); b < 55 {
		mant = mant << uint(55-b)
		e2 += b - 55
	}
	// Scale by 10^q so that the product keeps at least prec digits:
	//
	//	2^(e2+54) >= 10^(-q+prec-1)
	//
	// |q| never exceeds mulByLog2Log10(1074)+18 = 342.
	q := -mulByLog2Log10(e2+54) + prec - 1

	// 10^q fits the table exactly for 0 <= q <= 55
	exact := q <= 55 && q >= 0

	di, dexp2, d0 := mult128bitPow10(mant, e2, q)
	if dexp2 >= 0 {
		panic("not enough significant bits after mult128bitPow10")
	}
	// mant may be a multiple of 5^-q, up to 5^22
	if q < 0 && q >= -22 && divisibleByPower5(mant, -q) {
		exact = true
		d0 = true
	}
	extra := uint(-dexp2)
	extraMask := uint64(1<<extra - 1)

	di, dfrac := di>>extra, di&extraMask
	roundUp := false
	if exact {
		// Tie at exactly one half
		roundUp = dfrac > 1<<(extra-1) ||
			(dfrac == 1<<(extra-1) && !d0) ||
			(dfrac == 1<<(extra-1) && d0 && di&1 == 1)
	} else {
		// Inexact product, so a half is above the tie
		roundUp = dfrac>>(extra-1) == 1
	}
	if dfrac != 0 {
		d0 = false
	}
	formatDecimal(d, di, !d0, roundUp, prec)
	d.dp -= q
}

// formatDecimal fills d with at most prec decimal digits of mantissa m.
// trunc reports whether m is truncated compared to the value being formatted.
func formatDecimal(d *digitSlice, m uint64, trunc bool, roundUp bool, prec int) {
	limit := uint64(pow10[prec])
	trimmed := 0
	for m >= limit {
		a, b := m/10, m%10
		m = a
		trimmed++
		switch {
		case b > 5:
			roundUp = true
		case b < 5:
			roundUp = false
		default:
			// Tie unless nonzero digits were dropped
			roundUp = trunc || m&1 == 1
		}
		if b != 0 {
			trunc = true
		}
	}
	if roundUp {
		m++
	}
	if m >= limit {
		// Carry added a digit
		m /= 10
		trimmed++
	}
	n := uint(prec)
	d.nd = prec
	v := m
	for v >= 100 {
		v1, v2 := v/100, v%100
		n -= 2
		d.d[n+1] = smallsString[2*v2+1]
		d.d[n+0] = smallsString[2*v2+0]
		v = v1
	}
	if v > 0 {
		n--
		d.d[n] = smallsString[2*v+1]
	}
	if v >= 10 {
		n--
		d.d[n] = smallsString[2*v]
	}
	for d.d[d.nd-1] == '0' {
		d.nd--
		trimmed++
	}
	d.dp = d.nd + trimmed
}
