package floatconv

import (
	"fmt"
	"math/bits"
)

// optimize enables the fast paths of every conversion.
// Tests switch it off to exercise the exact paths on their own.
var optimize = true

// smallsString holds the two-digit decimal representations of 0..99.
const smallsString = "00010203040506070809" +
	"10111213141516171819" +
	"20212223242526272829" +
	"30313233343536373839" +
	"40414243444546474849" +
	"50515253545556575859" +
	"60616263646566676869" +
	"70717273747576777879" +
	"80818283848586878889" +
	"90919293949596979899"

// ShortestDigits returns the shortest digit sequence that parses back to f.
// When two sequences of the same length both round-trip, the one nearer
// to f is chosen. The digits of zero are empty.
//
// ShortestDigits panics if f is an infinity or a NaN.
func ShortestDigits[F Float](f F) Digits {
	c := Classify(f)
	if !c.Class.IsFinite() {
		panic(fmt.Sprintf("ShortestDigits(%v) failed: %v", f, errNonFinite))
	}
	flt := infoOf[F]()
	if optimize {
		return shortestFast(c, flt)
	}
	return shortestExact(c, flt)
}

func shortestFast(c Classification, flt *floatInfo) Digits {
	var buf [32]byte
	ds := digitSlice{d: buf[:]}
	ryuFtoaShortest(&ds, c.Mant, c.Exp, flt)
	return newDigits(c.Neg, ds, ds.nd)
}

func shortestExact(c Classification, flt *floatInfo) Digits {
	var d decimal
	d.assign(c.Mant)
	d.shift(c.Exp)
	roundShortest(&d, c.Mant, c.Exp, flt)
	return newDigits(c.Neg, digitSlice{d: d.d[:], nd: d.nd, dp: d.dp}, d.nd)
}

// ryuFtoaShortest formats mant*(2^exp) with the shortest digits that
// round-trip, using the Ryū algorithm with 128-bit products.
func ryuFtoaShortest(d *digitSlice, mant uint64, exp int, flt *floatInfo) {
	if mant == 0 {
		d.nd, d.dp = 0, 0
		return
	}
	// Small integers print as themselves, the neighbouring integers
	// belong to other values.
	if exp <= 0 && bits.TrailingZeros64(mant) >= -exp {
		mant >>= uint(-exp)
		ryuDigits(d, mant, mant, mant, true, false)
		return
	}
	ml, mc, mu, e2 := computeBounds(mant, exp, flt)
	if e2 == 0 {
		ryuDigits(d, ml, mc, mu, true, false)
		return
	}
	// 10^q is the first power of ten above 2^-e2
	q := mulByLog2Log10(-e2) + 1

	var (
		dl, dc, du    uint64
		dl0, dc0, du0 bool
	)
	dl, _, dl0 = mult128bitPow10(ml, e2, q)
	dc, _, dc0 = mult128bitPow10(mc, e2, q)
	du, e2, du0 = mult128bitPow10(mu, e2, q)
	if e2 >= 0 {
		panic("not enough significant bits after mult128bitPow10")
	}
	if q > 55 {
		// 10^q was rounded in the table
		dl0, dc0, du0 = false, false, false
	}
	if q < 0 && q >= -24 {
		// A bound that is a multiple of 5^-q divides exactly.
		// 59-bit bounds are never multiples of 5^25.
		if divisibleByPower5(ml, -q) {
			dl0 = true
		}
		if divisibleByPower5(mc, -q) {
			dc0 = true
		}
		if divisibleByPower5(mu, -q) {
			du0 = true
		}
	}
	// Split each product into digits and a binary fraction
	extra := uint(-e2)
	extraMask := uint64(1<<extra - 1)
	dl, fracl := dl>>extra, dl&extraMask
	dc, fracc := dc>>extra, dc&extraMask
	du, fracu := du>>extra, du&extraMask

	// The upper bound is admissible when it was truncated, or when it
	// is exact and the binary mantissa is even.
	uok := !du0 || fracu > 0
	if du0 && fracu == 0 {
		uok = mant&1 == 0
	}
	if !uok {
		du--
	}

	// Whether dc rounds up to dc+1
	cup := false
	if dc0 {
		cup = fracc > 1<<(extra-1) ||
			(fracc == 1<<(extra-1) && dc&1 == 1)
	} else {
		cup = fracc>>(extra-1) == 1
	}

	// The lower bound is admissible only when exact and the mantissa is even.
	lok := dl0 && fracl == 0 && (mant&1 == 0)
	if !lok {
		dl++
	}

	c0 := dc0 && fracc == 0
	ryuDigits(d, dl, dc, du, c0, cup)
	d.dp -= q
}

// computeBounds returns the interval of decimals that round to mant*(2^exp),
// scaled by 2^-e2. The interval is asymmetric at a power of two, except at
// the smallest normal exponent where the spacing below equals the spacing above.
func computeBounds(mant uint64, exp int, flt *floatInfo) (lower, central, upper uint64, e2 int) {
	if mant != 1<<flt.mantbits || exp == flt.bias+1-int(flt.mantbits) {
		// symmetric
		lower, central, upper = 2*mant-1, 2*mant, 2*mant+1
		e2 = exp - 1
		return
	}
	// the gap below is half the gap above
	lower, central, upper = 4*mant-1, 4*mant, 4*mant+2
	e2 = exp - 2
	return
}

func ryuDigits(d *digitSlice, lower, central, upper uint64, c0, cup bool) {
	lhi, llo := divmod1e9(lower)
	chi, clo := divmod1e9(central)
	uhi, ulo := divmod1e9(upper)
	switch {
	case uhi == 0:
		// fits in 9 digits
		ryuDigits32(d, llo, clo, ulo, c0, cup, 8)
	case lhi < uhi:
		// the low 9 digits of the interval are dropped
		if llo != 0 {
			lhi++
		}
		c0 = c0 && clo == 0
		cup = (clo > 5e8) || (clo == 5e8 && cup)
		ryuDigits32(d, lhi, chi, uhi, c0, cup, 8)
		d.dp += 9
	default:
		d.nd = 0
		// chi is printed in full
		n := uint(9)
		for v := chi; v > 0; {
			v1, v2 := v/10, v%10
			v = v1
			n--
			d.d[n] = byte(v2 + '0')
		}
		d.d = d.d[n:]
		d.nd = int(9 - n)
		// then clo is trimmed
		ryuDigits32(d, llo, clo, ulo, c0, cup, d.nd+8)
	}
	for d.nd > 0 && d.d[d.nd-1] == '0' {
		d.nd--
	}
	// ryuDigits32 fills a fixed width
	for d.nd > 0 && d.d[0] == '0' {
		d.nd--
		d.dp--
		d.d = d.d[1:]
	}
}

// ryuDigits32 emits decimal digits for a number less than 1e9.
func ryuDigits32(d *digitSlice, lower, central, upper uint32, c0, cup bool, endindex int) {
	if upper == 0 {
		d.dp = endindex + 1
		return
	}
	trimmed := 0
	// cNextDigit is the last digit dropped from central,
	// c0 reports that every digit after it was zero.
	cNextDigit := 0
	for upper > 0 {
		// Drop one digit: lower rounds up, upper rounds down and
		// central truncates. Stop once the interval is empty.
		l := (lower + 9) / 10
		c, cdigit := central/10, central%10
		u := upper / 10
		if l > u {
			break
		}
		// central below l after truncation, e.g.
		//    lower   = ..11
		//    central = ..19
		//    upper   = ..31
		// is moved up to l.
		if l == c+1 && c < u {
			c++
			cdigit = 0
			cup = false
		}
		trimmed++
		c0 = c0 && cNextDigit == 0
		cNextDigit = int(cdigit)
		lower, central, upper = l, c, u
	}
	if trimmed > 0 {
		cup = cNextDigit > 5 ||
			(cNextDigit == 5 && !c0) ||
			(cNextDigit == 5 && c0 && central&1 == 1)
	}
	if central < upper && cup {
		central++
	}
	// Digits are written right to left, the last one at endindex
	endindex -= trimmed
	v := central
	n := endindex
	for n > d.nd {
		v1, v2 := v/100, v%100
		d.d[n] = smallsString[2*v2+1]
		d.d[n-1] = smallsString[2*v2+0]
		n -= 2
		v = v1
	}
	if n == d.nd {
		d.d[n] = byte(v + '0')
	}
	d.nd = endindex + 1
	d.dp = d.nd + trimmed
}

// divmod1e9 splits x into its high and low nine digits.
// x is below 1e18.
func divmod1e9(x uint64) (uint32, uint32) {
	return uint32(x / 1e9), uint32(x % 1e9)
}

// roundShortest rounds the exact expansion d of mant*(2^exp) to the
// shortest digits that still lie strictly inside the rounding interval
// of the value, or on its boundary when mant is even.
func roundShortest(d *decimal, mant uint64, exp int, flt *floatInfo) {
	if mant == 0 {
		d.nd = 0
		return
	}

	// The bounds are at distance at most 2^exp from d, while the closest
	// shorter number is at least 10^(dp-nd) away. So d is already shortest
	// if log2(10)*(dp-nd) > exp, which holds when 332*(dp-nd) >= 100*exp.
	minexp := flt.bias + 1 - int(flt.mantbits)
	if exp > minexp && 332*(d.dp-d.nd) >= 100*exp {
		return
	}

	// Upper bound is halfway to the next value: (2*mant+1) * 2^(exp-1).
	var upper decimal
	upper.assign(mant*2 + 1)
	upper.shift(exp - 1)

	// Lower bound is halfway to the previous value, which has half the
	// spacing when mant is a power of two above the smallest normal exponent.
	var (
		mantlo uint64
		explo  int
	)
	if mant > 1<<flt.mantbits || exp == minexp {
		mantlo = mant - 1
		explo = exp
	} else {
		mantlo = mant*2 - 1
		explo = exp - 1
	}
	var lower decimal
	lower.assign(mantlo*2 + 1)
	lower.shift(explo - 1)

	// Round-to-even makes the bounds admissible only for even mantissas.
	inclusive := mant%2 == 0

	// upperdelta tracks how d compares with upper so far:
	//
	//	0: the digits are the same
	//	1: they differ by one, followed only by 9s in d and 0s in upper
	//	2: they differ by more than one
	var upperdelta uint8

	for ui := 0; ; ui++ {
		// upper has the longest integer part, so li and mi may start at -1.
		mi := ui - upper.dp + d.dp
		if mi >= d.nd {
			break
		}
		li := ui - upper.dp + lower.dp
		l := byte('0')
		if li >= 0 && li < lower.nd {
			l = lower.d[li]
		}
		m := byte('0')
		if mi >= 0 {
			m = d.d[mi]
		}
		u := byte('0')
		if ui < upper.nd {
			u = upper.d[ui]
		}

		okdown := l != m || inclusive && li+1 == lower.nd

		switch {
		case upperdelta == 0 && m+1 < u:
			upperdelta = 2
		case upperdelta == 0 && m != u:
			upperdelta = 1
		case upperdelta == 1 && (m != '9' || u != '0'):
			upperdelta = 2
		}
		okup := upperdelta > 0 && (inclusive || upperdelta > 1 || ui+1 < upper.nd)

		switch {
		case okdown && okup:
			d.round(mi + 1)
			return
		case okdown:
			d.roundDown(mi + 1)
			return
		case okup:
			d.roundUp(mi + 1)
			return
		}
	}
}
