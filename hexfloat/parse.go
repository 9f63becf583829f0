package hexfloat

import (
	"encoding/binary"
	"math"
)

// Parse32 decodes a big-endian single precision hexadecimal floating point
// number into a float64. Unlike ToFloat32 the result is exact.
func Parse32(bytes []byte) float64 {
	// R = (–1)^s × 2^(–24) × B x 16^(A–64)
	// =>
	// R = (–1)^s × B x (2)^(4A–4*64 - 24)
	a := bytes[0] & 0b0111_1111
	exp := 4*(int(a)-hexBias) - int(single.hexMantBits)

	b := (int(bytes[1]) << 16) | (int(bytes[2]) << 8) | int(bytes[3])
	return negateIf(bytes[0], math.Ldexp(float64(b), exp))
}

// Parse64 decodes a big-endian double precision hexadecimal floating point
// number into a float64. Fractions wider than 53 significant bits are
// rounded to nearest.
func Parse64(bytes []byte) float64 {
	a := bytes[0] & 0b0111_1111
	exp := 4*(int(a)-hexBias) - int(double.hexMantBits)

	b := binary.BigEndian.Uint64(bytes[0:8]) & double.hexMantMask()
	return negateIf(bytes[0], math.Ldexp(float64(b), exp))
}

// negateIf applies the sign held in the high bit of the leading byte.
func negateIf(lead byte, v float64) float64 {
	// 0 for positive, 1 for negative
	if lead&0b1000_0000 != 0 {
		return math.Copysign(v, -1)
	}
	return v
}
