package floatconv

import (
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Float is a constraint that permits binary32 and binary64 values,
// including named types derived from them.
type Float interface {
	constraints.Float
}

// CodeUnit is a constraint that permits the three supported widths of a
// text code unit: 8-bit (byte), 16-bit (uint16) and 32-bit (rune).
type CodeUnit interface {
	~byte | ~uint16 | ~rune
}

// floatInfo describes the layout of a binary floating-point format.
type floatInfo struct {
	mantbits uint
	expbits  uint
	bias     int
}

var (
	float32info = floatInfo{23, 8, -127}
	float64info = floatInfo{52, 11, -1023}
)

func infoOf[F Float]() *floatInfo {
	var f F
	if unsafe.Sizeof(f) == 4 {
		return &float32info
	}
	return &float64info
}

// bitsOf reinterprets f as an unsigned integer.
func bitsOf[F Float](f F) uint64 {
	if unsafe.Sizeof(f) == 4 {
		return uint64(math.Float32bits(float32(f)))
	}
	return math.Float64bits(float64(f))
}

// fromBits is the inverse of bitsOf.
func fromBits[F Float](b uint64) F {
	var f F
	if unsafe.Sizeof(f) == 4 {
		return F(math.Float32frombits(uint32(b)))
	}
	return F(math.Float64frombits(b))
}

// FloatBits holds the three raw fields of an IEEE-754 value.
type FloatBits struct {
	Neg  bool   // sign bit
	Exp  int    // biased exponent field
	Mant uint64 // stored mantissa field, without the implicit leading bit
}

// Decompose splits f into its sign, biased exponent and mantissa fields.
// No floating-point arithmetic is involved, so every bit pattern,
// including NaN payloads, is preserved.
func Decompose[F Float](f F) FloatBits {
	flt := infoOf[F]()
	b := bitsOf(f)
	return FloatBits{
		Neg:  b>>(flt.expbits+flt.mantbits) != 0,
		Exp:  int(b>>flt.mantbits) & (1<<flt.expbits - 1),
		Mant: b & (1<<flt.mantbits - 1),
	}
}

// Compose is the inverse of [Decompose].
// Fields wider than the format are masked.
func Compose[F Float](b FloatBits) F {
	flt := infoOf[F]()
	bits := b.Mant & (1<<flt.mantbits - 1)
	bits |= uint64(b.Exp&(1<<flt.expbits-1)) << flt.mantbits
	if b.Neg {
		bits |= 1 << (flt.expbits + flt.mantbits)
	}
	return fromBits[F](bits)
}

// Class is the IEEE-754 category of a value.
type Class uint8

const (
	Zero Class = iota
	Subnormal
	Normal
	Infinite
	NaN
)

func (c Class) String() string {
	switch c {
	case Zero:
		return "Zero"
	case Subnormal:
		return "Subnormal"
	case Normal:
		return "Normal"
	case Infinite:
		return "Infinite"
	case NaN:
		return "NaN"
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

// IsFinite returns true for zeros, subnormals and normals.
func (c Class) IsFinite() bool {
	return c <= Normal
}

// Classification is the decoded form of a value.
// For finite values |f| = Mant * 2^Exp exactly.
type Classification struct {
	Class Class
	Neg   bool
	Mant  uint64 // effective mantissa, the implicit bit included for normals
	Exp   int    // unbiased binary exponent of the least significant mantissa bit
}

// Classify decodes f.
// Zeros, infinities and NaNs have zero Mant and Exp.
func Classify[F Float](f F) Classification {
	return Decompose(f).classify(infoOf[F]())
}

func (b FloatBits) classify(flt *floatInfo) Classification {
	c := Classification{Neg: b.Neg}
	switch {
	case b.Exp == 1<<flt.expbits-1 && b.Mant == 0:
		c.Class = Infinite
	case b.Exp == 1<<flt.expbits-1:
		c.Class = NaN
	case b.Exp == 0 && b.Mant == 0:
		c.Class = Zero
	case b.Exp == 0:
		c.Class = Subnormal
		c.Mant = b.Mant
		c.Exp = flt.bias + 1 - int(flt.mantbits)
	default:
		c.Class = Normal
		c.Mant = b.Mant | 1<<flt.mantbits
		c.Exp = b.Exp + flt.bias - int(flt.mantbits)
	}
	return c
}
