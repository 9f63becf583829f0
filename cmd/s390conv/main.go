// Command s390conv converts numbers between IEEE-754 and S/390 hexadecimal
// floating point.
//
//	s390conv -width 32 encode -118.625     # C276A000
//	s390conv decode 401999999999999A       # 0.1
//	s390conv -from s390 -to native -layout i32,f64 transcode < in > out
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/sdifrance/s390float/hexfloat"
	"github.com/sdifrance/s390float/numenc"
)

type options struct {
	width  int
	from   string
	to     string
	layout string
}

func main() {
	opts := &options{}
	fs := flag.CommandLine
	registerFlags(fs, opts)
	flag.Parse()
	if err := run(context.Background(), opts, flag.Args(), os.Stdin, os.Stdout); err != nil {
		glog.Exitf("got fatal error: %v", err)
	}
}

func registerFlags(fs *flag.FlagSet, opts *options) {
	fs.IntVar(&opts.width, "width", 64, "Bit width of encode/decode values, 32 or 64.")
	fs.StringVar(&opts.from, "from", "s390", "Encoding of transcode input: native, s390 or a numeric encoding value.")
	fs.StringVar(&opts.to, "to", "native", "Encoding of transcode output: native, s390 or a numeric encoding value.")
	fs.StringVar(&opts.layout, "layout", "f64", "Comma separated field kinds of one transcode record, e.g. i32,f64,f32.")
}

func run(ctx context.Context, opts *options, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("missing command: encode, decode or transcode")
	}
	if opts.width != 32 && opts.width != 64 {
		return errors.Errorf("-width = %d, wanted 32 or 64", opts.width)
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "encode":
		return encode(opts.width, args, stdout)
	case "decode":
		return decode(opts.width, args, stdout)
	case "transcode":
		return transcode(ctx, opts, stdin, stdout)
	default:
		return errors.Errorf("unknown command %q", cmd)
	}
}

func encode(width int, args []string, stdout io.Writer) error {
	for _, arg := range args {
		f, err := strconv.ParseFloat(arg, width)
		if err != nil {
			return errors.Wrapf(err, "error parsing %q", arg)
		}
		switch width {
		case 32:
			h, err := hexfloat.FromFloat32(float32(f))
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%08X\n", h)
		case 64:
			h, err := hexfloat.FromFloat64(f)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%016X\n", h)
		}
	}
	return nil
}

func decode(width int, args []string, stdout io.Writer) error {
	for _, arg := range args {
		h, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(arg), "0x"), 16, width)
		if err != nil {
			return errors.Wrapf(err, "error parsing hex pattern %q", arg)
		}
		switch width {
		case 32:
			fmt.Fprintln(stdout, strconv.FormatFloat(float64(hexfloat.ToFloat32(uint32(h))), 'g', -1, 32))
		case 64:
			fmt.Fprintln(stdout, strconv.FormatFloat(hexfloat.ToFloat64(h), 'g', -1, 64))
		}
	}
	return nil
}

func transcode(ctx context.Context, opts *options, stdin io.Reader, stdout io.Writer) error {
	from, err := numenc.ParseEncoding(opts.from)
	if err != nil {
		return errors.Wrap(err, "bad -from")
	}
	to, err := numenc.ParseEncoding(opts.to)
	if err != nil {
		return errors.Wrap(err, "bad -to")
	}
	layout, err := numenc.ParseLayout(opts.layout)
	if err != nil {
		return errors.Wrap(err, "bad -layout")
	}
	records, err := numenc.Transcode(ctx, stdout, to, stdin, from, layout)
	if err != nil {
		return errors.Wrapf(err, "error after %d records", records)
	}
	glog.Infof("wrote %d records", records)
	return nil
}
