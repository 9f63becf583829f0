// Package hexfloat converts between IEEE-754 binary floating point and IBM
// S/390 hexadecimal floating point.
//
// A hexadecimal float stores a sign bit, a 7 bit exponent of 16 biased by 64
// and a 24 bit (single) or 56 bit (double) fraction with no implicit leading
// bit:
//
//	R = (-1)^s × 0.F × 16^(A-64)
//
// See https://en.wikipedia.org/wiki/IBM_hexadecimal_floating-point.
//
// All conversions operate on bit patterns and are safe for concurrent use.
package hexfloat

import (
	"fmt"
	"math"
)

// EncodeBits32 converts the IEEE-754 single precision bit pattern ieee to the
// equivalent S/390 single precision bit pattern.
//
// Low order mantissa bits that do not fit after the radix 16 alignment are
// truncated. Non-finite inputs return a *RangeError.
func EncodeBits32(ieee uint32) (uint32, error) {
	return single.toHex(ieee)
}

// DecodeBits32 converts the S/390 single precision bit pattern hex to an
// IEEE-754 single precision bit pattern. Magnitudes beyond float32 range
// saturate to a signed infinity; magnitudes below the smallest subnormal
// become a signed zero.
func DecodeBits32(hex uint32) uint32 {
	return single.fromHex(hex)
}

// EncodeBits64 converts the IEEE-754 double precision bit pattern ieee to the
// equivalent S/390 double precision bit pattern. Values of 2^252 or more in
// magnitude, infinities and NaNs return a *RangeError. Values below 16^-65 in
// magnitude become a signed zero.
func EncodeBits64(ieee uint64) (uint64, error) {
	return double.toHex(ieee)
}

// DecodeBits64 converts the S/390 double precision bit pattern hex to an
// IEEE-754 double precision bit pattern.
func DecodeBits64(hex uint64) uint64 {
	return double.fromHex(hex)
}

// FromFloat32 returns the S/390 single precision encoding of f.
func FromFloat32(f float32) (uint32, error) {
	return EncodeBits32(math.Float32bits(f))
}

// ToFloat32 returns the float32 value of an S/390 single precision encoding.
func ToFloat32(hex uint32) float32 {
	return math.Float32frombits(DecodeBits32(hex))
}

// FromFloat64 returns the S/390 double precision encoding of f.
func FromFloat64(f float64) (uint64, error) {
	return EncodeBits64(math.Float64bits(f))
}

// ToFloat64 returns the float64 value of an S/390 double precision encoding.
func ToFloat64(hex uint64) float64 {
	return math.Float64frombits(DecodeBits64(hex))
}

// RangeError is returned when an IEEE value cannot be represented as a
// hexadecimal float.
type RangeError struct {
	// Width is 32 or 64.
	Width int
	// Value is the IEEE value that failed to encode.
	Value float64
	// Exponent is the unbiased radix 16 exponent the value would need. It is
	// zero for infinities and NaNs.
	Exponent int
}

func (e *RangeError) Error() string {
	if math.IsInf(e.Value, 0) || math.IsNaN(e.Value) {
		return fmt.Sprintf("hexfloat: %d-bit value %g has no hexadecimal floating point form", e.Width, e.Value)
	}
	return fmt.Sprintf("hexfloat: %d-bit value %g needs exponent 16^%d, max is 16^%d", e.Width, e.Value, e.Exponent, hexExpMax-hexBias)
}
