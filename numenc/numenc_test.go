package numenc

import (
	"bytes"
	"context"
	"io"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/sdifrance/s390float/hexfloat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodingValidate(t *testing.T) {
	tests := []struct {
		name    string
		enc     Encoding
		wantErr bool
	}{
		{"native", Native, false},
		{"s390", S390, false},
		{"undefined", 0, false},
		{"ieee normal", IntegerNormal | FloatIEEENormal, false},
		{"tns", IntegerNormal | FloatTNS, true},
		{"bad integer", 0x3, true},
		{"bad float", 0x500, true},
		{"stray bits", Native | 0x1000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.enc.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"native", Native, false},
		{"S390", S390, false},
		{"546", Native, false},
		{"0x311", S390, false},
		{"0x111", IntegerNormal | DecimalNormal | FloatIEEENormal, false},
		{"0x411", 0, true},
		{"bogus", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEncoding(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodingString(t *testing.T) {
	assert.Equal(t, "0x311 (int normal, float s390)", S390.String())
	assert.Equal(t, "0x222 (int reversed, float ieee reversed)", Native.String())
}

func TestWriterS390(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, S390)
	require.NoError(t, err)

	require.NoError(t, w.WriteInt16(-2))
	require.NoError(t, w.WriteInt32(0x01020304))
	require.NoError(t, w.WriteFloat32(-118.625))
	require.NoError(t, w.WriteFloat64(0.1))
	require.NoError(t, w.WriteInt64(1))
	require.NoError(t, w.Flush())

	want := []byte{
		0xFF, 0xFE,
		0x01, 0x02, 0x03, 0x04,
		0xC2, 0x76, 0xA0, 0x00,
		0x40, 0x19, 0x99, 0x99, 0x99, 0x99, 0x99, 0x9A,
		0, 0, 0, 0, 0, 0, 0, 1,
	}
	assert.Equal(t, want, buf.Bytes())
	assert.Equal(t, len(want), w.Offset())
}

func TestWriterNative(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Native)
	require.NoError(t, err)

	require.NoError(t, w.WriteInt32(0x01020304))
	require.NoError(t, w.WriteFloat32(1))
	require.NoError(t, w.Flush())

	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01, 0x00, 0x00, 0x80, 0x3F}, buf.Bytes())
}

func TestWriterS390Overflow(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, S390)
	require.NoError(t, err)

	require.NoError(t, w.WriteInt16(7))
	err = w.WriteFloat64(math.MaxFloat64)
	require.Error(t, err)
	var rangeErr *hexfloat.RangeError
	require.True(t, errors.As(err, &rangeErr), "error %v should wrap a RangeError", err)
	assert.Equal(t, 64, rangeErr.Width)
	assert.Contains(t, err.Error(), "offset 2")

	err = w.WriteFloat32(float32(math.Inf(1)))
	require.True(t, errors.As(err, &rangeErr), "error %v should wrap a RangeError", err)
	assert.Equal(t, 32, rangeErr.Width)

	require.NoError(t, w.Flush())
	assert.Equal(t, []byte{0, 7}, buf.Bytes(), "failed fields must not be written")
}

func TestReaderRoundTrip(t *testing.T) {
	for _, enc := range []Encoding{S390, Native, IntegerNormal | FloatIEEENormal, IntegerReversed | FloatS390, 0} {
		t.Run(enc.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, enc)
			require.NoError(t, err)
			require.NoError(t, w.WriteInt16(math.MinInt16))
			require.NoError(t, w.WriteInt32(-123456))
			require.NoError(t, w.WriteInt64(math.MaxInt64))
			require.NoError(t, w.WriteFloat32(-0.375))
			require.NoError(t, w.WriteFloat64(math.Pi))
			require.NoError(t, w.Flush())

			r, err := NewReader(&buf, enc)
			require.NoError(t, err)
			assert.Equal(t, enc, r.Encoding())

			i16, err := r.ReadInt16()
			require.NoError(t, err)
			assert.Equal(t, int16(math.MinInt16), i16)

			i32, err := r.ReadInt32()
			require.NoError(t, err)
			assert.Equal(t, int32(-123456), i32)

			i64, err := r.ReadInt64()
			require.NoError(t, err)
			assert.Equal(t, int64(math.MaxInt64), i64)

			f32, err := r.ReadFloat32()
			require.NoError(t, err)
			assert.Equal(t, float32(-0.375), f32)

			f64, err := r.ReadFloat64()
			require.NoError(t, err)
			assert.Equal(t, math.Pi, f64)

			assert.Equal(t, 26, r.Offset())
			_, err = r.ReadInt16()
			assert.Equal(t, io.EOF, err)
		})
	}
}

func TestReaderShortField(t *testing.T) {
	r, err := NewReader(bytes.NewReader([]byte{0x41, 0x10, 0, 0, 0x41}), S390)
	require.NoError(t, err)

	f, err := r.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(1), f)

	_, err = r.ReadFloat64()
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF), "got %v", err)
	assert.Contains(t, err.Error(), "offset 4")
}

func TestReaderS390Saturates(t *testing.T) {
	r, err := NewReader(bytes.NewReader([]byte{
		0x7F, 0x10, 0x00, 0x00,
		0x80, 0x10, 0x00, 0x00,
	}), S390)
	require.NoError(t, err)

	f, err := r.ReadFloat32()
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(f), 1))

	f, err = r.ReadFloat32()
	require.NoError(t, err)
	assert.Zero(t, f)
	assert.True(t, math.Signbit(float64(f)))
}

func TestNewReaderRejectsTNS(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil), FloatTNS)
	assert.Error(t, err)
	_, err = NewWriter(io.Discard, FloatTNS)
	assert.Error(t, err)
}

func TestParseLayout(t *testing.T) {
	got, err := ParseLayout("f64, i32,short,FLOAT,long")
	require.NoError(t, err)
	assert.Equal(t, []Kind{Float64, Int32, Int16, Float32, Int64}, got)
	assert.Equal(t, "f64", got[0].String())
	assert.Equal(t, 8, got[0].Size())

	_, err = ParseLayout("f64,decimal")
	assert.Error(t, err)
}

func s390Record(t *testing.T, id int32, v float64, f float32) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, S390)
	require.NoError(t, err)
	require.NoError(t, w.WriteInt32(id))
	require.NoError(t, w.WriteFloat64(v))
	require.NoError(t, w.WriteFloat32(f))
	require.NoError(t, w.Flush())
	return buf.Bytes()
}

func TestTranscodeRoundTrip(t *testing.T) {
	var in []byte
	in = append(in, s390Record(t, 1, 0.1, -118.625)...)
	in = append(in, s390Record(t, -2, -1e70, 0.5)...)
	in = append(in, s390Record(t, 3, 0, 16)...)
	layout := []Kind{Int32, Float64, Float32}

	var native bytes.Buffer
	n, err := Transcode(context.Background(), &native, Native, bytes.NewReader(in), S390, layout)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, native.Bytes(), len(in))

	r, err := NewReader(bytes.NewReader(native.Bytes()), Native)
	require.NoError(t, err)
	id, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(1), id)
	v, err := r.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, 0.1, v)

	var back bytes.Buffer
	n, err = Transcode(context.Background(), &back, S390, bytes.NewReader(native.Bytes()), Native, layout)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, in, back.Bytes())
}

func TestTranscodeTruncatedRecord(t *testing.T) {
	in := s390Record(t, 1, 0.1, 1)
	in = append(in, 0, 0, 0, 2, 0x41)

	var out bytes.Buffer
	n, err := Transcode(context.Background(), &out, Native, bytes.NewReader(in), S390, []Kind{Int32, Float64, Float32})
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF), "got %v", err)
}

func TestTranscodeOverflow(t *testing.T) {
	var in bytes.Buffer
	w, err := NewWriter(&in, Native)
	require.NoError(t, err)
	require.NoError(t, w.WriteFloat64(math.MaxFloat64))
	require.NoError(t, w.Flush())

	_, err = Transcode(context.Background(), io.Discard, S390, &in, Native, []Kind{Float64})
	var rangeErr *hexfloat.RangeError
	assert.True(t, errors.As(err, &rangeErr), "got %v", err)
}

func TestTranscodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Transcode(ctx, io.Discard, Native, bytes.NewReader(s390Record(t, 1, 1, 1)), S390, []Kind{Int32, Float64, Float32})
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestTranscodeEmptyLayout(t *testing.T) {
	_, err := Transcode(context.Background(), io.Discard, Native, bytes.NewReader(nil), S390, nil)
	assert.Error(t, err)
}
