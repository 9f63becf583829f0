package numenc

import (
	"bufio"
	"io"
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/sdifrance/s390float/hexfloat"
)

// Reader reads numeric fields from a message body.
type Reader struct {
	rr     *bufio.Reader
	enc    Encoding
	offset int
	buf    [8]byte
}

// NewReader returns a Reader that decodes fields of r using enc.
func NewReader(r io.Reader, enc Encoding) (*Reader, error) {
	if err := enc.Validate(); err != nil {
		return nil, err
	}
	return &Reader{rr: bufio.NewReader(r), enc: enc}, nil
}

// Encoding returns the encoding fields are decoded with.
func (r *Reader) Encoding() Encoding { return r.enc }

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.offset }

// read fills the next n bytes. It returns io.EOF, unwrapped, only when no
// bytes remain at all.
func (r *Reader) read(n int, field string) ([]byte, error) {
	b := r.buf[:n]
	readCount, err := io.ReadFull(r.rr, b)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrapf(err, "error reading %s field @ byte offset %d; only read %d of %d bytes", field, r.offset, readCount, n)
	}
	glog.V(2).Infof("read %s field @ byte offset %d: % x", field, r.offset, b)
	r.offset += n
	return b, nil
}

// ReadInt16 reads a 2 byte integer.
func (r *Reader) ReadInt16() (int16, error) {
	b, err := r.read(2, "int16")
	if err != nil {
		return 0, err
	}
	return int16(r.enc.intOrder().Uint16(b)), nil
}

// ReadInt32 reads a 4 byte integer.
func (r *Reader) ReadInt32() (int32, error) {
	b, err := r.read(4, "int32")
	if err != nil {
		return 0, err
	}
	return int32(r.enc.intOrder().Uint32(b)), nil
}

// ReadInt64 reads an 8 byte integer.
func (r *Reader) ReadInt64() (int64, error) {
	b, err := r.read(8, "int64")
	if err != nil {
		return 0, err
	}
	return int64(r.enc.intOrder().Uint64(b)), nil
}

// ReadFloat32 reads a 4 byte float. Hexadecimal values outside float32 range
// saturate to infinity or zero.
func (r *Reader) ReadFloat32() (float32, error) {
	start := r.offset
	b, err := r.read(4, "float32")
	if err != nil {
		return 0, err
	}
	bits := r.enc.floatOrder().Uint32(b)
	if !r.enc.hexFloats() {
		return math.Float32frombits(bits), nil
	}
	f := math.Float32frombits(hexfloat.DecodeBits32(bits))
	if math.IsInf(float64(f), 0) || (f == 0 && bits&0x00FFFFFF != 0) {
		glog.Warningf("s390 float32 %08X @ byte offset %d is out of float32 range; read as %g", bits, start, f)
	}
	return f, nil
}

// ReadFloat64 reads an 8 byte float.
func (r *Reader) ReadFloat64() (float64, error) {
	b, err := r.read(8, "float64")
	if err != nil {
		return 0, err
	}
	bits := r.enc.floatOrder().Uint64(b)
	if r.enc.hexFloats() {
		return hexfloat.ToFloat64(bits), nil
	}
	return math.Float64frombits(bits), nil
}
