package floatconv

import (
	"encoding/binary"
	"math/big"
	"math/bits"
)

// fint (Fast INTeger) is a wrapper around uint64.
type fint uint64

// maxFint is a maximum value of fint.
// It also bounds the significand the parser accumulates: 19 digits.
const maxFint = 9_999_999_999_999_999_999

// pow10 is a cache of powers of 10, where pow10[x] = 10^x.
var pow10 = [...]fint{
	1,                          // 10^0
	10,                         // 10^1
	100,                        // 10^2
	1_000,                      // 10^3
	10_000,                     // 10^4
	100_000,                    // 10^5
	1_000_000,                  // 10^6
	10_000_000,                 // 10^7
	100_000_000,                // 10^8
	1_000_000_000,              // 10^9
	10_000_000_000,             // 10^10
	100_000_000_000,            // 10^11
	1_000_000_000_000,          // 10^12
	10_000_000_000_000,         // 10^13
	100_000_000_000_000,        // 10^14
	1_000_000_000_000_000,      // 10^15
	10_000_000_000_000_000,     // 10^16
	100_000_000_000_000_000,    // 10^17
	1_000_000_000_000_000_000,  // 10^18
	10_000_000_000_000_000_000, // 10^19
}

// add calculates x + y and checks overflow.
func (x fint) add(y fint) (z fint, ok bool) {
	if maxFint-x < y {
		return 0, false
	}
	z = x + y
	return z, true
}

// mul calculates x * y and checks overflow.
func (x fint) mul(y fint) (z fint, ok bool) {
	if y == 0 {
		return 0, true
	}
	z = x * y
	if z/y != x {
		return 0, false
	}
	if z > maxFint {
		return 0, false
	}
	return z, true
}

// lsh (Left Shift) calculates x * 10^shift and checks overflow.
func (x fint) lsh(shift int) (z fint, ok bool) {
	// Special cases
	switch {
	case shift <= 0:
		return x, true
	case shift == 1 && x < maxFint/10: // to speed up common case
		return x * 10, true
	case shift >= len(pow10):
		return 0, false
	}
	// General case
	y := pow10[shift]
	return x.mul(y)
}

// fsa (Fused Shift and Addition) calculates x * 10^shift + b and checks overflow.
func (x fint) fsa(shift int, b byte) (z fint, ok bool) {
	z, ok = x.lsh(shift)
	if !ok {
		return 0, false
	}
	z, ok = z.add(fint(b))
	if !ok {
		return 0, false
	}
	return z, true
}

// prec returns length of x in decimal digits.
// prec assumes that 0 has no digits.
func (x fint) prec() int {
	left, right := 0, len(pow10)
	for left < right {
		mid := (left + right) / 2
		if x < pow10[mid] {
			right = mid
		} else {
			left = mid + 1
		}
	}
	return left
}

// bint (Big INTeger) is a wrapper around big.Int.
// It is only used while the package tables are being built.
type bint big.Int

func (z *bint) setFint(x fint) {
	(*big.Int)(z).SetUint64(uint64(x))
}

func (z *bint) string() string {
	return (*big.Int)(z).String()
}

func (z *bint) bitLen() int {
	return (*big.Int)(z).BitLen()
}

// mul calculates z = x * y.
func (z *bint) mul(x, y *bint) {
	(*big.Int)(z).Mul((*big.Int)(x), (*big.Int)(y))
}

// quo calculates z = x div y.
func (z *bint) quo(x, y *bint) {
	(*big.Int)(z).Quo((*big.Int)(x), (*big.Int)(y))
}

// lshBits calculates z = x * 2^shift.
func (z *bint) lshBits(x *bint, shift int) {
	(*big.Int)(z).Lsh((*big.Int)(x), uint(shift))
}

// rshBits calculates z = x div 2^shift.
func (z *bint) rshBits(x *bint, shift int) {
	(*big.Int)(z).Rsh((*big.Int)(x), uint(shift))
}

// uint128 splits z into two 64-bit words.
// It panics if z does not fit into 128 bits.
func (z *bint) uint128() (hi, lo uint64) {
	var buf [16]byte
	(*big.Int)(z).FillBytes(buf[:])
	return binary.BigEndian.Uint64(buf[:8]), binary.BigEndian.Uint64(buf[8:])
}

const (
	detailedPowersOfTenMinExp10 = -348
	detailedPowersOfTenMaxExp10 = +347
)

// detailedPowersOfTen contains 128-bit mantissa approximations, rounded down,
// of the powers of 10. For example:
//
//   - 1e43 ≈ (0xE596B7B0_C643C719                   * (2 ** 79))
//   - 1e43 = (0xE596B7B0_C643C719_6D9CCD05_D0000000 * (2 ** 15))
//
// The mantissas are normalized: the most significant bit is always set.
// Element i holds {lo, hi} for 10^(i + detailedPowersOfTenMinExp10).
var detailedPowersOfTen = newDetailedPowersOfTen()

func newDetailedPowersOfTen() *[detailedPowersOfTenMaxExp10 - detailedPowersOfTenMinExp10 + 1][2]uint64 {
	var (
		tab  [detailedPowersOfTenMaxExp10 - detailedPowersOfTenMinExp10 + 1][2]uint64
		ten  = new(bint)
		pow  = new(bint)
		mant = new(bint)
	)
	ten.setFint(10)

	// Non-negative powers: 10^q shifted to 128 bits, rounded down.
	pow.setFint(1)
	for q := 0; q <= detailedPowersOfTenMaxExp10; q++ {
		if n := pow.bitLen(); n > 128 {
			mant.rshBits(pow, n-128)
		} else {
			mant.lshBits(pow, 128-n)
		}
		hi, lo := mant.uint128()
		tab[q-detailedPowersOfTenMinExp10] = [2]uint64{lo, hi}
		pow.mul(pow, ten)
	}

	// Negative powers: floor(2^(127+L) / 10^-q), where L is the bit length of 10^-q.
	pow.setFint(1)
	for q := -1; q >= detailedPowersOfTenMinExp10; q-- {
		pow.mul(pow, ten)
		mant.setFint(1)
		mant.lshBits(mant, 127+pow.bitLen())
		mant.quo(mant, pow)
		hi, lo := mant.uint128()
		tab[q-detailedPowersOfTenMinExp10] = [2]uint64{lo, hi}
	}

	return &tab
}

// leftCheat tells how many decimal digits a left shift by k bits adds:
// delta digits, minus one if the shifted number is below cutoff.
type leftCheat struct {
	delta  int
	cutoff string // 5^k in decimal
}

// leftcheats is indexed by the shift amount, up to maxShift.
var leftcheats = newLeftCheats()

func newLeftCheats() []leftCheat {
	var (
		cheats = make([]leftCheat, maxShift+1)
		two    = new(bint)
		five   = new(bint)
		p2     = new(bint)
		p5     = new(bint)
	)
	two.setFint(2)
	five.setFint(5)
	p2.setFint(1)
	p5.setFint(1)
	for k := 1; k <= maxShift; k++ {
		p2.mul(p2, two)
		p5.mul(p5, five)
		cheats[k] = leftCheat{delta: len(p2.string()), cutoff: p5.string()}
	}
	return cheats
}

// mulByLog2Log10 returns floor(x * log10(2)).
// The fixed-point constant is exact for -1600 <= x <= 1600.
func mulByLog2Log10(x int) int {
	// log(2)/log(10) ≈ 0.30102999566 ≈ 78913 / 2^18
	return (x * 78913) >> 18
}

// mulByLog10Log2 returns floor(x * log2(10)) for -500 <= x <= 500.
func mulByLog10Log2(x int) int {
	// log(10)/log(2) ≈ 3.32192809489 ≈ 108853 / 2^15
	return (x * 108853) >> 15
}

// mult128bitPow10 scales m*2^e2, where m has at most 55 bits, by the table
// entry P for 10^q and keeps the top bits of the product:
//
//	m*2^e2 * P = resM*2^resE + rest
//
// resM is m*P >> 119, 63 or 64 bits wide. exact reports rest == 0.
func mult128bitPow10(m uint64, e2, q int) (resM uint64, resE int, exact bool) {
	if q == 0 {
		// P == 1<<127
		return m << 8, e2 - 8, true
	}
	if q < detailedPowersOfTenMinExp10 || detailedPowersOfTenMaxExp10 < q {
		panic("mult128bitPow10: power of 10 is out of range")
	}
	pow := detailedPowersOfTen[q-detailedPowersOfTenMinExp10]
	if q < 0 {
		// negative powers are stored rounded down
		pow[0] += 1
	}
	e2 += mulByLog10Log2(q) - 127 + 119

	l1, l0 := bits.Mul64(m, pow[0])
	h1, h0 := bits.Mul64(m, pow[1])
	mid, carry := bits.Add64(l1, h0, 0)
	h1 += carry
	return h1<<9 | mid>>55, e2, mid<<9 == 0 && l0 == 0
}

// divisibleByPower5 reports whether m is a multiple of 5^k.
func divisibleByPower5(m uint64, k int) bool {
	if m == 0 {
		return true
	}
	for i := 0; i < k; i++ {
		if m%5 != 0 {
			return false
		}
		m /= 5
	}
	return true
}
