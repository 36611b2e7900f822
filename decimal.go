package floatconv

// decimal is a multiprecision decimal number: 0.d[0]d[1]...d[nd-1] * 10^dp.
// It is large enough to hold the exact expansion of every binary64 value,
// so conversions that go through it are exact.
type decimal struct {
	d     [800]byte // digits, big-endian representation
	nd    int       // number of digits used
	dp    int       // decimal point
	neg   bool      // negative flag
	trunc bool      // discarded nonzero digits beyond d[:nd]
}

// assign sets a to v.
func (a *decimal) assign(v uint64) {
	var buf [24]byte

	// Reversed
	n := 0
	for v > 0 {
		v1 := v / 10
		v -= 10 * v1
		buf[n] = byte(v + '0')
		n++
		v = v1
	}

	// Forward
	a.nd = 0
	for n--; n >= 0; n-- {
		a.d[a.nd] = buf[n]
		a.nd++
	}
	a.dp = a.nd
	a.trim()
}

// trim removes trailing zeros.
func (a *decimal) trim() {
	for a.nd > 0 && a.d[a.nd-1] == '0' {
		a.nd--
	}
	if a.nd == 0 {
		a.dp = 0
	}
}

const (
	uintSize = 32 << (^uint(0) >> 63)
	maxShift = uintSize - 4
)

// shift multiplies a by 2^k (k > 0) or divides it by 2^-k (k < 0).
// The result is exact as long as it fits into the buffer.
func (a *decimal) shift(k int) {
	switch {
	case a.nd == 0:
		// a == 0
	case k > 0:
		for k > maxShift {
			a.leftShift(maxShift)
			k -= maxShift
		}
		a.leftShift(uint(k))
	case k < 0:
		for k < -maxShift {
			a.rightShift(maxShift)
			k += maxShift
		}
		a.rightShift(uint(-k))
	}
}

// rightShift divides a by 2^k, k <= maxShift.
func (a *decimal) rightShift(k uint) {
	r := 0 // read pointer
	w := 0 // write pointer

	// Leading digits covering the first shift
	var n uint
	for ; n>>k == 0; r++ {
		if r >= a.nd {
			if n == 0 {
				a.nd = 0
				return
			}
			for n>>k == 0 {
				n = n * 10
				r++
			}
			break
		}
		c := uint(a.d[r])
		n = n*10 + c - '0'
	}
	a.dp -= r - 1

	var mask uint = (1 << k) - 1

	// Pick up a digit, put down a digit
	for ; r < a.nd; r++ {
		c := uint(a.d[r])
		dig := n >> k
		n &= mask
		a.d[w] = byte(dig + '0')
		w++
		n = n*10 + c - '0'
	}

	// Remainder
	for n > 0 {
		dig := n >> k
		n &= mask
		if w < len(a.d) {
			a.d[w] = byte(dig + '0')
			w++
		} else if dig > 0 {
			a.trunc = true
		}
		n = n * 10
	}

	a.nd = w
	a.trim()
}

// prefixIsLessThan reports whether the digits b compare below the decimal string s.
func prefixIsLessThan(b []byte, s string) bool {
	for i := 0; i < len(s); i++ {
		if i >= len(b) {
			return true
		}
		if b[i] != s[i] {
			return b[i] < s[i]
		}
	}
	return false
}

// leftShift multiplies a by 2^k, k <= maxShift.
func (a *decimal) leftShift(k uint) {
	delta := leftcheats[k].delta
	if prefixIsLessThan(a.d[0:a.nd], leftcheats[k].cutoff) {
		delta--
	}

	r := a.nd         // read index
	w := a.nd + delta // write index

	// Pick up a digit, put down a digit
	var n uint
	for r--; r >= 0; r-- {
		n += (uint(a.d[r]) - '0') << k
		quo := n / 10
		rem := n - 10*quo
		w--
		if w < len(a.d) {
			a.d[w] = byte(rem + '0')
		} else if rem != 0 {
			a.trunc = true
		}
		n = quo
	}

	// Carry
	for n > 0 {
		quo := n / 10
		rem := n - 10*quo
		w--
		if w < len(a.d) {
			a.d[w] = byte(rem + '0')
		} else if rem != 0 {
			a.trunc = true
		}
		n = quo
	}

	a.nd += delta
	if a.nd >= len(a.d) {
		a.nd = len(a.d)
	}
	a.dp += delta
	a.trim()
}

// shouldRoundUp reports whether chopping a at nd digits should round up.
// An exact half rounds to even unless nonzero digits were discarded earlier.
func (a *decimal) shouldRoundUp(nd int) bool {
	if nd < 0 || nd >= a.nd {
		return false
	}
	if a.d[nd] == '5' && nd+1 == a.nd { // exactly halfway
		if a.trunc {
			return true
		}
		return nd > 0 && (a.d[nd-1]-'0')%2 != 0
	}
	return a.d[nd] >= '5'
}

// round rounds a to nd digits (or fewer) using "half to even" rule.
// If nd is zero, a is rounded just to the left of its digits, as in 0.09 -> 0.1.
func (a *decimal) round(nd int) {
	if nd < 0 || nd >= a.nd {
		return
	}
	if a.shouldRoundUp(nd) {
		a.roundUp(nd)
	} else {
		a.roundDown(nd)
	}
}

// roundDown truncates a to nd digits (or fewer).
func (a *decimal) roundDown(nd int) {
	if nd < 0 || nd >= a.nd {
		return
	}
	a.nd = nd
	a.trim()
}

// roundUp rounds a away from zero at nd digits.
// The carry may ripple through every digit, in which case a becomes a power of ten.
func (a *decimal) roundUp(nd int) {
	if nd < 0 || nd >= a.nd {
		return
	}
	for i := nd - 1; i >= 0; i-- {
		if a.d[i] < '9' {
			a.d[i]++
			a.nd = i + 1
			return
		}
	}
	// All nines
	a.d[0] = '1'
	a.nd = 1
	a.dp++
}

// roundedInteger extracts the integer part of a, rounded half to even.
// No guarantees are made if a does not fit into uint64.
func (a *decimal) roundedInteger() uint64 {
	if a.dp > 20 {
		return 0xFFFFFFFFFFFFFFFF
	}
	var i int
	n := uint64(0)
	for i = 0; i < a.dp && i < a.nd; i++ {
		n = n*10 + uint64(a.d[i]-'0')
	}
	for ; i < a.dp; i++ {
		n *= 10
	}
	if a.shouldRoundUp(a.dp) {
		n++
	}
	return n
}

// loadDecimal sets a to the significand text (digits with at most one point)
// scaled by 10^exp. Digits that do not fit are dropped and recorded in a.trunc.
func loadDecimal[T CodeUnit](a *decimal, text []T, exp int, neg bool) {
	*a = decimal{neg: neg}
	var (
		sawdot bool
		nd     int // significant digits, dropped ones included
	)
	for _, c := range text {
		switch {
		case c == '.':
			sawdot = true
			a.dp = nd
		case c == '0' && nd == 0: // leading zeros
			a.dp--
		default:
			nd++
			if a.nd < len(a.d) {
				a.d[a.nd] = byte(c)
				a.nd++
			} else if c != '0' {
				a.trunc = true
			}
		}
	}
	if !sawdot {
		a.dp = nd
	}
	a.dp += exp
	a.trim()
}

// powtab[i] is a binary shift that moves a decimal with i integer digits
// below one.
var powtab = []int{1, 3, 6, 9, 13, 16, 19, 23, 26}

// floatBits converts a to the nearest value of the given format, ties to even.
// Values too large for the format become infinities and overflow is reported,
// values too small become zeros or subnormals.
// floatBits destroys a.
func (a *decimal) floatBits(flt *floatInfo) (b uint64, overflow bool) {
	var (
		exp  int
		mant uint64
	)

	// Special cases
	switch {
	case a.nd == 0:
		exp = flt.bias
		return a.assemble(mant, exp, flt), false
	case a.dp > 310:
		return a.infinity(flt), true
	case a.dp < -330:
		exp = flt.bias
		return a.assemble(mant, exp, flt), false
	}

	// Scale by powers of two until in range [0.5, 1.0)
	for a.dp > 0 {
		var n int
		if a.dp >= len(powtab) {
			n = 27
		} else {
			n = powtab[a.dp]
		}
		a.shift(-n)
		exp += n
	}
	for a.dp < 0 || a.dp == 0 && a.d[0] < '5' {
		var n int
		if -a.dp >= len(powtab) {
			n = 27
		} else {
			n = powtab[-a.dp]
		}
		a.shift(n)
		exp -= n
	}

	// Binary range is [1, 2)
	exp--

	// Subnormal range
	if exp < flt.bias+1 {
		n := flt.bias + 1 - exp
		a.shift(-n)
		exp += n
	}

	if exp-flt.bias >= 1<<flt.expbits-1 {
		return a.infinity(flt), true
	}

	// Extract 1+flt.mantbits bits
	a.shift(int(1 + flt.mantbits))
	mant = a.roundedInteger()

	// Rounding might have added a bit
	if mant == 2<<flt.mantbits {
		mant >>= 1
		exp++
		if exp-flt.bias >= 1<<flt.expbits-1 {
			return a.infinity(flt), true
		}
	}

	// Subnormal
	if mant&(1<<flt.mantbits) == 0 {
		exp = flt.bias
	}
	return a.assemble(mant, exp, flt), false
}

func (a *decimal) infinity(flt *floatInfo) uint64 {
	return a.assemble(0, 1<<flt.expbits-1+flt.bias, flt)
}

func (a *decimal) assemble(mant uint64, exp int, flt *floatInfo) uint64 {
	b := mant & (uint64(1)<<flt.mantbits - 1)
	b |= uint64((exp-flt.bias)&(1<<flt.expbits-1)) << flt.mantbits
	if a.neg {
		b |= 1 << flt.mantbits << flt.expbits
	}
	return b
}
