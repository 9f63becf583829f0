package hexfloat

import (
	"math"

	"golang.org/x/exp/constraints"
)

const (
	hexExpBits = 7
	hexBias    = 64
	hexExpMax  = 1<<hexExpBits - 1

	// guardBits extra low bits are carried while aligning a mantissa so that
	// subnormal inputs can be renormalized before anything is truncated.
	guardBits = 4
)

// layout describes one floating point width in both representations.
//
// The IEEE bias is one less than the usual one (126 rather than 127) so that
// both formats read as a fraction in [1/16, 1) times a power of the radix:
// an IEEE value is 0.1m × 2^(E-bias) and a hex value is 0.F × 16^(A-64).
type layout[T constraints.Unsigned] struct {
	width        uint
	ieeeExpBits  uint
	ieeeMantBits uint
	ieeeBias     int
	hexMantBits  uint
}

var (
	single = layout[uint32]{width: 32, ieeeExpBits: 8, ieeeMantBits: 23, ieeeBias: 126, hexMantBits: 24}
	double = layout[uint64]{width: 64, ieeeExpBits: 11, ieeeMantBits: 52, ieeeBias: 1022, hexMantBits: 56}
)

func (l layout[T]) signMask() uint64     { return 1 << (l.width - 1) }
func (l layout[T]) ieeeExpMax() uint64   { return 1<<l.ieeeExpBits - 1 }
func (l layout[T]) ieeeMantMask() uint64 { return 1<<l.ieeeMantBits - 1 }
func (l layout[T]) hexMantMask() uint64  { return 1<<l.hexMantBits - 1 }

// alignment is the distance between the top of the IEEE significand (with
// its implicit bit) and the top of the hex fraction: 3 for doubles, 0 for
// singles.
func (l layout[T]) alignment() uint { return l.hexMantBits - l.ieeeMantBits - 1 }

func (l layout[T]) float(u uint64) float64 {
	if l.width == 32 {
		return float64(math.Float32frombits(uint32(u)))
	}
	return math.Float64frombits(u)
}

func (l layout[T]) toHex(bits T) (T, error) {
	u := uint64(bits)
	sign := u & l.signMask()
	if u&^l.signMask() == 0 {
		return bits, nil
	}

	biased := (u >> l.ieeeMantBits) & l.ieeeExpMax()
	if biased == l.ieeeExpMax() {
		return 0, &RangeError{Width: int(l.width), Value: l.float(u)}
	}
	e := int(biased) - l.ieeeBias

	mant := u & l.ieeeMantMask()
	subnormal := biased == 0
	if subnormal {
		mant <<= 1
	} else {
		mant |= 1 << l.ieeeMantBits
	}

	abs := e
	if abs < 0 {
		abs = -abs
	}
	x, r := abs/4, abs%4
	shift := r
	if e > 0 && r != 0 {
		x++
		shift = 4 - r
	}
	if e < 0 {
		x = -x
	}

	g := mant << (l.alignment() + guardBits) >> uint(shift)
	if subnormal {
		topNibble := uint64(0xF) << (l.hexMantBits + guardBits - 4)
		for g != 0 && g&topNibble == 0 {
			g <<= 4
			x--
		}
	}

	x += hexBias
	if x > hexExpMax {
		return 0, &RangeError{Width: int(l.width), Value: l.float(u), Exponent: x - hexBias}
	}
	if x < 0 {
		return T(sign), nil
	}
	return T(sign | uint64(x)<<l.hexMantBits | (g>>guardBits)&l.hexMantMask()), nil
}

func (l layout[T]) fromHex(bits T) T {
	u := uint64(bits)
	sign := u & l.signMask()
	m := u & l.hexMantMask()
	if m == 0 {
		return T(sign)
	}

	e := 4 * (int((u>>l.hexMantBits)&hexExpMax) - hexBias)
	top := uint64(1) << (l.hexMantBits - 1)
	for m&top == 0 {
		m <<= 1
		e--
	}

	biased := e + l.ieeeBias
	if biased >= int(l.ieeeExpMax()) {
		return T(sign | l.ieeeExpMax()<<l.ieeeMantBits)
	}

	shift := int(l.alignment())
	if biased <= 0 {
		// No implicit bit: one extra position, plus one per step below the
		// smallest normal exponent.
		shift += 1 - biased
		if shift >= int(l.hexMantBits) {
			return T(sign)
		}
		return T(sign | m>>uint(shift))
	}
	return T(sign | uint64(biased)<<l.ieeeMantBits | (m>>uint(shift))&l.ieeeMantMask())
}
