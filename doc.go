/*
Package floatconv implements correctly rounded conversions between
IEEE-754 binary floating-point numbers and decimal text.
It works with both binary32 ([float32]) and binary64 ([float64]) values,
including named types derived from them, and renders text in 8-, 16- or
32-bit code units.

# Representation

A binary value is decomposed into three fields:

  - Sign: a boolean indicating whether the value is negative.
  - Exponent: the biased exponent field.
  - Mantissa: the stored fraction bits, without the implicit leading bit.

[Decompose] and [Compose] convert between a value and its fields without
any floating-point arithmetic. [Classify] decodes a value into one of
[Zero], [Subnormal], [Normal], [Infinite] or [NaN] and, for finite values,
into an exact integer mantissa and binary exponent.

A decimal value is a sequence of [Digits] with a sign and the position of
the decimal point.

# Conversions

The package provides functions for converting values:

  - to shortest digits:
    [ShortestDigits].
    The result is the shortest digit sequence that parses back to the value.
  - to fixed-precision digits:
    [FixedDigits], either with a number of significant digits or with a
    number of digits after the decimal point.
  - to text:
    [Convert], [Write], [WriteUnchecked], [Append], [Format], [String].
  - from text:
    [Parse], [ParseText], [MustParse].

[Float32] and [Float64] wrap the functions above into types implementing
[fmt.Stringer], [fmt.Formatter], [encoding.TextMarshaler] and
[encoding.TextUnmarshaler].

# Text

Three styles are supported:

	| Style        | Example      | Description                                        |
	| ------------ | ------------ | -------------------------------------------------- |
	| [Scientific] | -1.0625e+00  | one digit, point, fraction, exponent of 2+ digits  |
	| [Fixed]      | -1.0625      | integer digits, point, fraction                    |
	| [Shortest]   | 1e+21, 0.001 | the shorter of the two, ties favour fixed          |

Infinities are rendered as "inf" and "-inf", NaNs as "nan".
Negative zero keeps its sign: "-0".

Rendering follows a two-phase protocol. [Convert] classifies the value,
generates its digits and computes the exact [Layout]. The caller then
provides a buffer of at least [Conversion.Size] code units and calls
[Write] or, when the capacity is guaranteed, [WriteUnchecked].
Neither of them allocates.

# Rounding

Every conversion is correctly rounded using half-to-even rounding:

  - [FixedDigits] rounds the exact binary value, so 0.125 rounded to
    2 digits after the point is 0.12, while 0.375 is 0.38.
  - [Parse] returns the value nearest to the exact decimal, and a decimal
    exactly halfway between two values selects the one with an even mantissa.

Each conversion first tries fast algorithms (Ryū for digit generation,
Clinger and Eisel-Lemire for parsing) that either prove their result
correct or give up. In the latter case the conversion is repeated with an
exact multiprecision decimal.

# Errors

Parsing reports a single error, [ErrSyntax], for text that is not a
decimal literal. Errors are not returned in the following cases:

  - Overflow.
    Literals beyond the range of the type become infinities.

  - Underflow.
    Literals closer to zero than half of the smallest subnormal become zeros.

[Write] reports [ErrShortBuffer] if the buffer cannot hold the result.
Functions that take a precision panic if it is out of range, and digit
generators panic on infinities and NaNs.
*/
package floatconv
