package floatconv

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	errIndexRange = errors.New("index out of range")
	errPrecRange  = errors.New("precision out of range")
	errNonFinite  = errors.New("value is not finite")
	errBadMode    = errors.New("unknown mode")
	errBadStyle   = errors.New("unknown style")
)

// maxDigits is the capacity of a digit buffer.
// The exact expansion of any binary64 value has at most 767 significant digits.
const maxDigits = 800

// Digits is a sequence of decimal digits with a sign and a decimal point:
//
//	±0.d[0]d[1]...d[Len()-1] * 10^Point()
//
// The leading digit is non-zero unless the value is zero.
// Digits beyond the generated ones are zeros: a value rounded to
// 5 significant digits may carry fewer stored digits, but Len still
// reports 5.
//
// Digits is a plain value that is safe to copy.
type Digits struct {
	d   [maxDigits]byte // ASCII digits
	nd  int             // number of stored digits
	n   int             // logical length, n >= nd
	dp  int             // decimal point
	neg bool
}

// digitSlice is a window over scratch digits used by the generators.
type digitSlice struct {
	d      []byte // ASCII digits
	nd, dp int
}

func newDigits(neg bool, ds digitSlice, n int) Digits {
	var d Digits
	d.neg = neg
	d.nd = copy(d.d[:], ds.d[:ds.nd])
	d.dp = ds.dp
	if d.nd == 0 {
		d.dp = 0
	}
	d.n = max(n, d.nd)
	return d
}

// Len returns the number of digits.
func (d Digits) Len() int {
	return d.n
}

// Digit returns the value (0-9) of the i-th digit.
// Digit panics if i is out of range.
func (d Digits) Digit(i int) int {
	if i < 0 || i >= d.n {
		panic(fmt.Sprintf("Digit(%v) failed: %v", i, errIndexRange))
	}
	return int(digitAt(&d, i) - '0')
}

// digitAt returns the ASCII digit at position i, where positions outside the
// stored digits read as '0'.
func digitAt(d *Digits, i int) byte {
	if i < 0 || i >= d.nd {
		return '0'
	}
	return d.d[i]
}

// Point returns the position of the decimal point relative to the first digit:
// the value is 0.ddd * 10^Point().
func (d Digits) Point() int {
	return d.dp
}

// Exp returns the power of ten of the first digit, that is Point() - 1.
// Exp returns 0 for zero.
func (d Digits) Exp() int {
	if d.nd == 0 {
		return 0
	}
	return d.dp - 1
}

// IsNeg returns true if the sign is negative, including negative zero.
func (d Digits) IsNeg() bool {
	return d.neg
}

// IsZero returns true if all digits are zero.
func (d Digits) IsZero() bool {
	return d.nd == 0
}

// String returns the digits in the form "-d.dddeX", for example "-1.0625e0".
// It is intended for debugging and tests, see [Format] for presentation.
func (d Digits) String() string {
	buf := make([]byte, 0, d.n+8)
	if d.neg {
		buf = append(buf, '-')
	}
	buf = append(buf, digitAt(&d, 0))
	if d.n > 1 {
		buf = append(buf, '.')
		for i := 1; i < d.n; i++ {
			buf = append(buf, digitAt(&d, i))
		}
	}
	buf = append(buf, 'e')
	buf = strconv.AppendInt(buf, int64(d.Exp()), 10)
	return string(buf)
}
