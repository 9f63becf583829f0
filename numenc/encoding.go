// Package numenc reads and writes the numeric fields of a message body using
// the integer and floating point encoding stamped on the message.
//
// An Encoding combines an integer byte order with a floating point
// representation. Mainframe queue managers typically stamp S390 (big-endian
// integers, hexadecimal floats); distributed platforms stamp Native
// (little-endian integers and IEEE floats).
package numenc

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Encoding is the numeric encoding field of a message descriptor.
type Encoding int32

// Integer encodings occupy the low nibble.
const (
	IntegerUndefined Encoding = 0x000
	IntegerNormal    Encoding = 0x001
	IntegerReversed  Encoding = 0x002
	IntegerMask      Encoding = 0x00F
)

// Decimal encodings are carried through unchanged; packed decimal fields are
// not interpreted by this package.
const (
	DecimalNormal   Encoding = 0x010
	DecimalReversed Encoding = 0x020
	DecimalMask     Encoding = 0x0F0
)

// Float encodings occupy the third nibble.
const (
	FloatUndefined    Encoding = 0x000
	FloatIEEENormal   Encoding = 0x100
	FloatIEEEReversed Encoding = 0x200
	FloatS390         Encoding = 0x300
	FloatTNS          Encoding = 0x400
	FloatMask         Encoding = 0xF00
)

const (
	// Native is the encoding of little-endian IEEE platforms.
	Native = IntegerReversed | DecimalReversed | FloatIEEEReversed
	// S390 is the encoding of z/OS.
	S390 = IntegerNormal | DecimalNormal | FloatS390
)

// Integer returns the integer part of e.
func (e Encoding) Integer() Encoding { return e & IntegerMask }

// Float returns the floating point part of e.
func (e Encoding) Float() Encoding { return e & FloatMask }

// Validate reports whether every field of e can be read and written.
func (e Encoding) Validate() error {
	switch e.Integer() {
	case IntegerUndefined, IntegerNormal, IntegerReversed:
	default:
		return errors.Errorf("encoding %s: unknown integer encoding 0x%x", e, int32(e.Integer()))
	}
	switch e.Float() {
	case FloatUndefined, FloatIEEENormal, FloatIEEEReversed, FloatS390:
	case FloatTNS:
		return errors.Errorf("encoding %s: TNS floating point is not supported", e)
	default:
		return errors.Errorf("encoding %s: unknown float encoding 0x%x", e, int32(e.Float()))
	}
	if rest := e &^ (IntegerMask | DecimalMask | FloatMask); rest != 0 {
		return errors.Errorf("encoding %s: unknown bits 0x%x", e, int32(rest))
	}
	return nil
}

// intOrder is the byte order of integer fields. An undefined integer
// encoding is read as big-endian.
func (e Encoding) intOrder() binary.ByteOrder {
	if e.Integer() == IntegerReversed {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// floatOrder is the byte order of float fields. Hexadecimal floats are
// always big-endian.
func (e Encoding) floatOrder() binary.ByteOrder {
	if e.Float() == FloatIEEEReversed {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (e Encoding) hexFloats() bool { return e.Float() == FloatS390 }

// String returns the encoding as a hex literal followed by a description,
// e.g. "0x311 (int normal, float s390)".
func (e Encoding) String() string {
	var ints string
	switch e.Integer() {
	case IntegerUndefined:
		ints = "undefined"
	case IntegerNormal:
		ints = "normal"
	case IntegerReversed:
		ints = "reversed"
	default:
		ints = "?"
	}
	var floats string
	switch e.Float() {
	case FloatUndefined:
		floats = "undefined"
	case FloatIEEENormal:
		floats = "ieee normal"
	case FloatIEEEReversed:
		floats = "ieee reversed"
	case FloatS390:
		floats = "s390"
	case FloatTNS:
		floats = "tns"
	default:
		floats = "?"
	}
	return fmt.Sprintf("0x%03x (int %s, float %s)", int32(e), ints, floats)
}

// ParseEncoding parses a decimal or 0x-prefixed encoding value, or one of the
// names "native" and "s390".
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native":
		return Native, nil
	case "s390", "zos":
		return S390, nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid encoding %q", s)
	}
	e := Encoding(v)
	if err := e.Validate(); err != nil {
		return 0, err
	}
	return e, nil
}
