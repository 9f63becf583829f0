package numenc

import (
	"bufio"
	"io"
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/sdifrance/s390float/hexfloat"
)

// Writer writes numeric fields to a message body. Callers must call Flush
// once all fields are written.
type Writer struct {
	ww     *bufio.Writer
	enc    Encoding
	offset int
	buf    [8]byte
}

// NewWriter returns a Writer that encodes fields to w using enc.
func NewWriter(w io.Writer, enc Encoding) (*Writer, error) {
	if err := enc.Validate(); err != nil {
		return nil, err
	}
	return &Writer{ww: bufio.NewWriter(w), enc: enc}, nil
}

// Encoding returns the encoding fields are written with.
func (w *Writer) Encoding() Encoding { return w.enc }

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int { return w.offset }

func (w *Writer) write(b []byte, field string) error {
	glog.V(2).Infof("writing %s field @ byte offset %d: % x", field, w.offset, b)
	n, err := w.ww.Write(b)
	w.offset += n
	if err != nil {
		return errors.Wrapf(err, "error writing %s field @ byte offset %d", field, w.offset-n)
	}
	return nil
}

// WriteInt16 writes a 2 byte integer.
func (w *Writer) WriteInt16(v int16) error {
	b := w.buf[:2]
	w.enc.intOrder().PutUint16(b, uint16(v))
	return w.write(b, "int16")
}

// WriteInt32 writes a 4 byte integer.
func (w *Writer) WriteInt32(v int32) error {
	b := w.buf[:4]
	w.enc.intOrder().PutUint32(b, uint32(v))
	return w.write(b, "int32")
}

// WriteInt64 writes an 8 byte integer.
func (w *Writer) WriteInt64(v int64) error {
	b := w.buf[:8]
	w.enc.intOrder().PutUint64(b, uint64(v))
	return w.write(b, "int64")
}

// WriteFloat32 writes a 4 byte float. Under FloatS390 a non-finite value
// fails with an error wrapping *hexfloat.RangeError and nothing is written.
func (w *Writer) WriteFloat32(f float32) error {
	bits := math.Float32bits(f)
	if w.enc.hexFloats() {
		h, err := hexfloat.EncodeBits32(bits)
		if err != nil {
			return errors.Wrapf(err, "error encoding float32 field @ byte offset %d", w.offset)
		}
		bits = h
	}
	b := w.buf[:4]
	w.enc.floatOrder().PutUint32(b, bits)
	return w.write(b, "float32")
}

// WriteFloat64 writes an 8 byte float. Under FloatS390 a value too large for
// a hexadecimal float fails with an error wrapping *hexfloat.RangeError and
// nothing is written.
func (w *Writer) WriteFloat64(f float64) error {
	bits := math.Float64bits(f)
	if w.enc.hexFloats() {
		h, err := hexfloat.EncodeBits64(bits)
		if err != nil {
			return errors.Wrapf(err, "error encoding float64 field @ byte offset %d", w.offset)
		}
		if h&^(1<<63) == 0 && bits&^(1<<63) != 0 {
			glog.Warningf("float64 %g @ byte offset %d is below the s390 range; written as zero", f, w.offset)
		}
		bits = h
	}
	b := w.buf[:8]
	w.enc.floatOrder().PutUint64(b, bits)
	return w.write(b, "float64")
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if err := w.ww.Flush(); err != nil {
		return errors.Wrap(err, "error flushing fields")
	}
	return nil
}
