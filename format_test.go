package floatconv

import (
	"math"
	"math/rand"
	"strconv"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	t.Run("float64", func(t *testing.T) {
		tests := []struct {
			f    float64
			want string
		}{
			{0, "0"},
			{math.Copysign(0, -1), "-0"},
			{1, "1"},
			{-1.5, "-1.5"},
			{0.1, "0.1"},
			{0.001, "0.001"},
			{0.0001, "1e-04"},
			{0.00012, "0.00012"},
			{10000, "10000"},
			{100000, "1e+05"},
			{123456, "123456"},
			{1e20, "1e+20"},
			{1e21, "1e+21"},
			{1.5e300, "1.5e+300"},
			{5e-324, "5e-324"},
			{math.MaxFloat64, "1.7976931348623157e+308"},
			{math.Inf(1), "inf"},
			{math.Inf(-1), "-inf"},
			{math.NaN(), "nan"},
			{-math.NaN(), "nan"},
		}
		for _, tt := range tests {
			got := String(tt.f)
			if got != tt.want {
				t.Errorf("String(%v) = %q, want %q", tt.f, got, tt.want)
			}
		}
	})

	t.Run("float32", func(t *testing.T) {
		tests := []struct {
			f    float32
			want string
		}{
			{0.1, "0.1"},
			{1e10, "1e+10"},
			{16777216, "16777216"},
			{math.MaxFloat32, "3.4028235e+38"},
			{math.SmallestNonzeroFloat32, "1e-45"},
		}
		for _, tt := range tests {
			got := String(tt.f)
			if got != tt.want {
				t.Errorf("String(%v) = %q, want %q", tt.f, got, tt.want)
			}
		}
	})

	t.Run("boundaries", func(t *testing.T) {
		defer func() { optimize = true }()

		tests64 := []struct {
			bits uint64
			want string
		}{
			{0x0000_0000_0000_0001, "5e-324"},
			{0x000F_FFFF_FFFF_FFFF, "2.225073858507201e-308"},
			{0x0010_0000_0000_0000, "2.2250738585072014e-308"},
			{0x7FEF_FFFF_FFFF_FFFF, "1.7976931348623157e+308"},
			{0x800F_FFFF_FFFF_FFFF, "-2.225073858507201e-308"},
		}
		tests32 := []struct {
			bits uint32
			want string
		}{
			{0x0000_0001, "1e-45"},
			{0x007F_FFFF, "1.1754942e-38"},
			{0x0080_0000, "1.1754944e-38"},
			{0x7F7F_FFFF, "3.4028235e+38"},
			{0x807F_FFFF, "-1.1754942e-38"},
		}
		for _, p := range paths {
			optimize = p.optimize
			for _, tt := range tests64 {
				s := String(math.Float64frombits(tt.bits))
				if s != tt.want {
					t.Errorf("%v: String(%#016x) = %q, want %q", p.name, tt.bits, s, tt.want)
				}
				got, err := Parse[float64](s)
				require.NoError(t, err)
				if math.Float64bits(got) != tt.bits {
					t.Errorf("%v: Parse(%q) = %#016x, want %#016x", p.name, s, math.Float64bits(got), tt.bits)
				}
			}
			for _, tt := range tests32 {
				s := String(math.Float32frombits(tt.bits))
				if s != tt.want {
					t.Errorf("%v: String(%#08x) = %q, want %q", p.name, tt.bits, s, tt.want)
				}
				got, err := Parse[float32](s)
				require.NoError(t, err)
				if math.Float32bits(got) != tt.bits {
					t.Errorf("%v: Parse(%q) = %#08x, want %#08x", p.name, s, math.Float32bits(got), tt.bits)
				}
			}
		}
	})

	t.Run("subnormal round trip", func(t *testing.T) {
		defer func() { optimize = true }()

		random := rand.New(rand.NewSource(10))
		for _, p := range paths {
			optimize = p.optimize
			for i := 0; i < 1000; i++ {
				b := random.Uint64() & (1<<63 | 1<<52 - 1)
				s := String(math.Float64frombits(b))
				got, err := Parse[float64](s)
				require.NoError(t, err, "Parse(%q)", s)
				if math.Float64bits(got) != b {
					t.Fatalf("%v: Parse(String(%#016x)) = %#016x", p.name, b, math.Float64bits(got))
				}

				c := random.Uint32() & (1<<31 | 1<<23 - 1)
				s = String(math.Float32frombits(c))
				h, err := Parse[float32](s)
				require.NoError(t, err, "Parse(%q)", s)
				if math.Float32bits(h) != c {
					t.Fatalf("%v: Parse(String(%#08x)) = %#08x", p.name, c, math.Float32bits(h))
				}
			}
		}
	})

	t.Run("round trip", func(t *testing.T) {
		random := rand.New(rand.NewSource(6))
		for i := 0; i < 2000; i++ {
			f := math.Float64frombits(random.Uint64())
			if math.IsInf(f, 0) || math.IsNaN(f) {
				continue
			}
			s := String(f)
			got, err := Parse[float64](s)
			require.NoError(t, err, "Parse(%q)", s)
			if math.Float64bits(got) != math.Float64bits(f) {
				t.Errorf("Parse(String(%v)) = %v", f, got)
			}

			g := math.Float32frombits(random.Uint32())
			if math.IsInf(float64(g), 0) || math.IsNaN(float64(g)) {
				continue
			}
			s = String(g)
			h, err := Parse[float32](s)
			require.NoError(t, err, "Parse(%q)", s)
			if math.Float32bits(h) != math.Float32bits(g) {
				t.Errorf("Parse(String(float32(%v))) = %v", g, h)
			}
		}
	})
}

func TestFormat(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			f     float64
			style Style
			prec  int
			want  string
		}{
			{1234.5678, Scientific, 3, "1.235e+03"},
			{1234.5678, Scientific, 0, "1e+03"},
			{1234.5678, Fixed, 2, "1234.57"},
			{1234.5678, Fixed, 0, "1235"},
			{0.5, Fixed, 0, "0"},
			{1.5, Fixed, 0, "2"},
			{2.5, Fixed, 0, "2"},
			{0, Scientific, 2, "0.00e+00"},
			{0, Fixed, 3, "0.000"},
			{math.Copysign(0, -1), Fixed, 1, "-0.0"},
			{1e100, Scientific, 1, "1.0e+100"},
			{1e-100, Scientific, -1, "1e-100"},
			{1e21, Fixed, -1, "1000000000000000000000"},
			{0.0001, Fixed, -1, "0.0001"},
			{123456, Scientific, -1, "1.23456e+05"},
			{0.001, Shortest, 5, "0.001"},
			{math.Inf(-1), Fixed, 2, "-inf"},
			{math.NaN(), Scientific, 2, "nan"},
		}
		for _, tt := range tests {
			got := Format(tt.f, tt.style, tt.prec)
			if got != tt.want {
				t.Errorf("Format(%v, %v, %v) = %q, want %q", tt.f, tt.style, tt.prec, got, tt.want)
			}
		}
	})

	t.Run("strconv", func(t *testing.T) {
		random := rand.New(rand.NewSource(7))
		for i := 0; i < 1000; i++ {
			f := math.Float64frombits(random.Uint64())
			if math.IsInf(f, 0) || math.IsNaN(f) {
				continue
			}
			if got, want := Format(f, Scientific, -1), strconv.FormatFloat(f, 'e', -1, 64); got != want {
				t.Fatalf("Format(%v, Scientific, -1) = %q, want %q", f, got, want)
			}
			if got, want := Format(f, Fixed, -1), strconv.FormatFloat(f, 'f', -1, 64); got != want {
				t.Fatalf("Format(%v, Fixed, -1) = %q, want %q", f, got, want)
			}
		}
	})

	t.Run("panic", func(t *testing.T) {
		assert.Panics(t, func() { Format(1.0, Style(3), 0) })
		assert.Panics(t, func() { Format(1.0, Scientific, math.MaxInt) })
		assert.Panics(t, func() { Convert(1.0, Fixed, MaxPrec+1) })
		assert.Panics(t, func() { Size(float32(1), Shortest, MaxPrec+1) })
		assert.NotPanics(t, func() { Convert(math.Inf(1), Scientific, MaxPrec) })
	})
}

func TestConvert(t *testing.T) {
	tests := []struct {
		f     float64
		style Style
		prec  int
		class Class
		want  Layout
	}{
		{-1.5, Scientific, 2, Normal, Layout{Neg: true, Int: 1, Frac: 2, Exp: 2}},
		{0.001, Shortest, -1, Normal, Layout{Int: 1, Frac: 3}},
		{0.0001, Shortest, -1, Normal, Layout{Int: 1, Exp: 2, ExpNeg: true}},
		{1e100, Scientific, 0, Normal, Layout{Int: 1, Exp: 3}},
		{123.456, Fixed, 1, Normal, Layout{Int: 3, Frac: 1}},
		{0, Shortest, -1, Zero, Layout{Int: 1}},
		{5e-324, Shortest, -1, Subnormal, Layout{Int: 1, Exp: 3, ExpNeg: true}},
		{math.Inf(-1), Shortest, -1, Infinite, Layout{Neg: true, Special: 3}},
		{math.NaN(), Fixed, 2, NaN, Layout{Special: 3}},
	}
	for _, tt := range tests {
		c := Convert(tt.f, tt.style, tt.prec)
		assert.Equal(t, tt.class, c.Class(), "Convert(%v, %v, %v).Class()", tt.f, tt.style, tt.prec)
		assert.Equal(t, tt.want, c.Layout(), "Convert(%v, %v, %v).Layout()", tt.f, tt.style, tt.prec)
		assert.Equal(t, tt.want.Size(), c.Size())
		assert.Len(t, Format(tt.f, tt.style, tt.prec), c.Size())
	}

	t.Run("digits", func(t *testing.T) {
		c := Convert(1234.5678, Scientific, 3)
		assert.Equal(t, "1.235e3", c.Digits().String())
		assert.True(t, Convert(math.Inf(1), Scientific, 3).Digits().IsZero())
	})
}

func TestLayout_Size(t *testing.T) {
	tests := []struct {
		l    Layout
		want int
	}{
		{Layout{}, 1},
		{Layout{Neg: true}, 2},
		{Layout{Int: 1}, 1},
		{Layout{Neg: true, Int: 1, Frac: 2}, 5},
		{Layout{Int: 1, Frac: 4, Exp: 2, ExpNeg: true}, 10},
		{Layout{Neg: true, Special: 3}, 4},
	}
	for _, tt := range tests {
		got := tt.l.Size()
		if got != tt.want {
			t.Errorf("%+v.Size() = %v, want %v", tt.l, got, tt.want)
		}
	}
}

func TestWrite(t *testing.T) {
	c := Convert(-0.0625, Shortest, -1)
	require.Equal(t, 7, c.Size())

	t.Run("byte", func(t *testing.T) {
		buf := make([]byte, 10)
		n, err := Write(buf, c)
		require.NoError(t, err)
		assert.Equal(t, "-0.0625", string(buf[:n]))
	})

	t.Run("uint16", func(t *testing.T) {
		buf := make([]uint16, c.Size())
		n, err := Write(buf, c)
		require.NoError(t, err)
		assert.Equal(t, 7, n)
		assert.Equal(t, "-0.0625", string(utf16.Decode(buf)))
	})

	t.Run("rune", func(t *testing.T) {
		buf := make([]rune, c.Size())
		n, err := Write(buf, Convert(float32(1e-10), Shortest, -1))
		require.NoError(t, err)
		assert.Equal(t, "1e-10", string(buf[:n]))
	})

	t.Run("short buffer", func(t *testing.T) {
		buf := []byte("xxxxxx")
		n, err := Write(buf, c)
		assert.ErrorIs(t, err, ErrShortBuffer)
		assert.Equal(t, 0, n)
		assert.Equal(t, "xxxxxx", string(buf))
	})

	t.Run("unchecked", func(t *testing.T) {
		buf := make([]byte, 0, 16)
		n := WriteUnchecked(buf, c)
		assert.Equal(t, "-0.0625", string(buf[:n]))
	})

	t.Run("zero value", func(t *testing.T) {
		var z Conversion
		assert.Equal(t, Zero, z.Class())
		assert.Equal(t, 1, z.Size())

		buf := make([]byte, 8)
		n, err := Write(buf, z)
		require.NoError(t, err)
		assert.Equal(t, "0", string(buf[:n]))

		n, err = Write(buf[:0], z)
		assert.ErrorIs(t, err, ErrShortBuffer)
		assert.Equal(t, 0, n)

		runes := make([]rune, 0, 1)
		n = WriteUnchecked(runes, z)
		assert.Equal(t, "0", string(runes[:n]))
	})

	t.Run("must", func(t *testing.T) {
		buf := make([]uint16, 7)
		assert.Equal(t, 7, MustWrite(buf, c))
		assert.Panics(t, func() { MustWrite(buf[:6], c) })
	})
}

func TestAppend(t *testing.T) {
	got := Append([]byte("x="), 1.5, Shortest, -1)
	assert.Equal(t, "x=1.5", string(got))

	runes := Append([]rune("π≈"), math.Pi, Fixed, 4)
	assert.Equal(t, "π≈3.1416", string(runes))

	assert.Equal(t, 3, Size(1.5, Shortest, -1))
	assert.Equal(t, 8, Size(-1.5, Scientific, 1))
}

func TestStyle_String(t *testing.T) {
	assert.Equal(t, "Shortest", Shortest.String())
	assert.Equal(t, "Scientific", Scientific.String())
	assert.Equal(t, "Fixed", Fixed.String())
	assert.Equal(t, "Style(5)", Style(5).String())
}

func BenchmarkFormat(b *testing.B) {
	buf := make([]byte, 0, 32)
	for _, style := range []Style{Shortest, Scientific, Fixed} {
		b.Run(style.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				buf = Append(buf[:0], 123456.789, style, 3)
			}
		})
	}
}
