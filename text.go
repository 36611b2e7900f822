package floatconv

import (
	"bytes"
	"fmt"
)

// Float64 is a float64 that formats and parses itself with this package.
// The zero value is 0.
type Float64 float64

// Float32 is a float32 that formats and parses itself with this package.
// The zero value is 0.
type Float32 float32

// String method implements the [fmt.Stringer] interface and returns
// the shortest text that parses back to f, see [String].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (f Float64) String() string {
	return String(f)
}

// String method implements the [fmt.Stringer] interface and returns
// the shortest text that parses back to f, see [String].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (f Float32) String() string {
	return String(f)
}

// MarshalText implements [encoding.TextMarshaler] interface.
// Also see method [Float64.String].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (f Float64) MarshalText() ([]byte, error) {
	return Append([]byte(nil), f, Shortest, -1), nil
}

// MarshalText implements [encoding.TextMarshaler] interface.
// Also see method [Float32.String].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (f Float32) MarshalText() ([]byte, error) {
	return Append([]byte(nil), f, Shortest, -1), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler] interface.
// Also see function [Parse].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (f *Float64) UnmarshalText(text []byte) error {
	return unmarshalText(f, text)
}

// UnmarshalText implements [encoding.TextUnmarshaler] interface.
// Also see function [Parse].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (f *Float32) UnmarshalText(text []byte) error {
	return unmarshalText(f, text)
}

func unmarshalText[F Float](f *F, text []byte) error {
	v, ok := ParseText[F](text).Value()
	if !ok {
		return fmt.Errorf("parsing %q: %w", text, ErrSyntax)
	}
	*f = v
	return nil
}

// Format implements [fmt.Formatter] interface.
// The following [verbs] are available:
//
//	%s, %v: -1.5e+300, -0.001 (shortest)
//	%q:     "-0.001"
//	%e, %E: -1.5e+300, -1.5E+300
//	%f, %F: -0.001
//
// The following format flags can be used with all verbs: '+', ' ', '0', '-'.
//
// Precision is only supported for %e, %E, %f and %F verbs, where it is the
// number of digits after the decimal point. Without a precision these verbs
// use the shortest digits that parse back to f.
//
// [verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (f Float64) Format(state fmt.State, verb rune) {
	formatState(state, verb, f, "floatconv.Float64")
}

// Format implements [fmt.Formatter] interface.
// See [Float64.Format] for the supported verbs and flags.
//
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (f Float32) Format(state fmt.State, verb rune) {
	formatState(state, verb, f, "floatconv.Float32")
}

func formatState[F Float](state fmt.State, verb rune, f F, typ string) {

	// Style and precision
	style, prec := Shortest, -1
	switch verb {
	case 'e', 'E':
		style = Scientific
	case 'f', 'F':
		style = Fixed
	}
	if p, ok := state.Precision(); ok && style != Shortest {
		prec = p
	}
	c := Convert(f, style, prec)

	// Arithmetic sign
	var rsign byte
	switch {
	case c.layout.Neg:
		rsign = '-'
		c.layout.Neg = false
	case c.class == NaN:
		// no sign
	case state.Flag('+'):
		rsign = '+'
	case state.Flag(' '):
		rsign = ' '
	}

	// Quotes
	lquote, tquote := 0, 0
	if verb == 'q' || verb == 'Q' {
		lquote, tquote = 1, 1
	}

	// Padding
	body := c.Size()
	width := lquote + body + tquote
	if rsign != 0 {
		width++
	}
	lspaces, tspaces, lzeroes := 0, 0, 0
	if w, ok := state.Width(); ok && w > width {
		switch {
		case state.Flag('-'):
			tspaces = w - width
		case state.Flag('0') && c.class.IsFinite():
			lzeroes = w - width
		default:
			lspaces = w - width
		}
		width = w
	}

	// Writing buffer
	buf := make([]byte, 0, width)
	buf = append(buf, bytes.Repeat([]byte{' '}, lspaces)...)
	if lquote > 0 {
		buf = append(buf, '"')
	}
	if rsign != 0 {
		buf = append(buf, rsign)
	}
	buf = append(buf, bytes.Repeat([]byte{'0'}, lzeroes)...)
	buf = buf[:len(buf)+body]
	emit(buf[len(buf)-body:], &c)
	if verb == 'E' || verb == 'F' {
		copy(buf[len(buf)-body:], bytes.ToUpper(buf[len(buf)-body:]))
	}
	if tquote > 0 {
		buf = append(buf, '"')
	}
	buf = append(buf, bytes.Repeat([]byte{' '}, tspaces)...)

	// Writing result
	switch verb {
	case 'q', 'Q', 's', 'S', 'v', 'V', 'e', 'E', 'f', 'F':
		state.Write(buf)
	default:
		state.Write([]byte("%!"))
		state.Write([]byte{byte(verb)})
		state.Write([]byte("(" + typ + "="))
		state.Write(buf)
		state.Write([]byte(")"))
	}
}
