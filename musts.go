package floatconv

import "fmt"

// MustParse is like [Parse] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding floats.
func MustParse[F Float](s string) F {
	f, err := Parse[F](s)
	if err != nil {
		panic(fmt.Sprintf("MustParse(%q) failed: %v", s, err))
	}
	return f
}

// MustWrite is like [Write] but panics if dst is too short.
func MustWrite[T CodeUnit](dst []T, c Conversion) int {
	n, err := Write(dst, c)
	if err != nil {
		panic(fmt.Sprintf("MustWrite(%v) failed: %v", len(dst), err))
	}
	return n
}
