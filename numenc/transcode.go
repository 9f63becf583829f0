package numenc

import (
	"context"
	"io"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Kind is the type of a numeric field.
type Kind int

const (
	Int16 Kind = iota + 1
	Int32
	Int64
	Float32
	Float64
)

var kindNames = map[Kind]string{
	Int16:   "i16",
	Int32:   "i32",
	Int64:   "i64",
	Float32: "f32",
	Float64: "f64",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Size returns the encoded size of the field in bytes.
func (k Kind) Size() int {
	switch k {
	case Int16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	}
	return 0
}

// ParseLayout parses a comma separated list of field kinds such as
// "f64,i32,f32". Both short (i32) and long (int32) names are accepted.
func ParseLayout(s string) ([]Kind, error) {
	var out []Kind
	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		var k Kind
		switch name {
		case "i16", "int16", "short":
			k = Int16
		case "i32", "int32", "int":
			k = Int32
		case "i64", "int64", "long":
			k = Int64
		case "f32", "float32", "float":
			k = Float32
		case "f64", "float64", "double":
			k = Float64
		default:
			return nil, errors.Errorf("unknown field kind %q in layout %q", name, s)
		}
		out = append(out, k)
	}
	return out, nil
}

// Transcode copies records of fields described by layout from src, encoded
// with srcEnc, to dst, encoded with dstEnc. The layout repeats until src is
// exhausted at a record boundary. It returns the number of records copied.
func Transcode(ctx context.Context, dst io.Writer, dstEnc Encoding, src io.Reader, srcEnc Encoding, layout []Kind) (int, error) {
	if len(layout) == 0 {
		return 0, errors.New("empty record layout")
	}
	r, err := NewReader(src, srcEnc)
	if err != nil {
		return 0, errors.Wrap(err, "invalid source encoding")
	}
	w, err := NewWriter(dst, dstEnc)
	if err != nil {
		return 0, errors.Wrap(err, "invalid destination encoding")
	}

	glog.Infof("transcoding %v records from %s to %s", layout, srcEnc, dstEnc)
	records := 0
	for {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		for i, k := range layout {
			err := copyField(w, r, k)
			if err == nil {
				continue
			}
			if errors.Is(err, io.EOF) {
				if i == 0 {
					glog.Infof("transcoded %d records (%d bytes in, %d bytes out)", records, r.Offset(), w.Offset())
					return records, w.Flush()
				}
				err = io.ErrUnexpectedEOF
			}
			return records, errors.Wrapf(err, "error transcoding record %d field %d (%s)", records, i, k)
		}
		records++
		glog.V(1).Infof("transcoded record %d ending @ byte offset %d", records, r.Offset())
	}
}

func copyField(w *Writer, r *Reader, k Kind) error {
	switch k {
	case Int16:
		v, err := r.ReadInt16()
		if err != nil {
			return err
		}
		return w.WriteInt16(v)
	case Int32:
		v, err := r.ReadInt32()
		if err != nil {
			return err
		}
		return w.WriteInt32(v)
	case Int64:
		v, err := r.ReadInt64()
		if err != nil {
			return err
		}
		return w.WriteInt64(v)
	case Float32:
		v, err := r.ReadFloat32()
		if err != nil {
			return err
		}
		return w.WriteFloat32(v)
	case Float64:
		v, err := r.ReadFloat64()
		if err != nil {
			return err
		}
		return w.WriteFloat64(v)
	}
	return errors.Errorf("invalid field kind %d", int(k))
}
