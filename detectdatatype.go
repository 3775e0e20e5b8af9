package svtargets

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

// Byte code signatures from https://stackoverflow.com/a/19127748/199475
var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

const longestSig = 6

// DetectDataType matches the leading bytes of a stream against known
// compression signatures.
func DetectDataType(head []byte) DataType {
	for dt, sig := range byteCodeSigs {
		if bytes.HasPrefix(head, sig) {
			return dt
		}
	}

	return DataTypeNoCompression
}

// MaybeDecompress peeks at the start of rc and, if it carries a known
// compression signature, wraps it in the matching decompressor. Closing the
// result closes rc.
func MaybeDecompress(rc io.ReadCloser) (io.ReadCloser, error) {
	buf := bufio.NewReader(rc)

	// A short read here just means a tiny (or empty) file
	head, err := buf.Peek(longestSig)
	if err != nil && err != io.EOF {
		return nil, err
	}

	var r io.Reader
	switch DetectDataType(head) {
	case DataTypeGzip:
		gz, err := gzip.NewReader(buf)
		if err != nil {
			return nil, err
		}
		return &stackedCloser{Reader: gz, closers: []io.Closer{gz, rc}}, nil
	case DataTypeZ:
		return nil, fmt.Errorf("unix compress (.Z) streams are not supported; recompress with gzip")
	case DataTypeZip:
		zr := zipstream.NewReader(buf)
		// Only the first entry of the archive is read
		if _, err := zr.Next(); err != nil {
			return nil, err
		}
		r = zr
	case DataTypeBZip2:
		r = bzip2.NewReader(buf)
	case DataTypeXZ:
		xr, err := xz.NewReader(buf, 0)
		if err != nil {
			return nil, err
		}
		r = xr
	default:
		r = buf
	}

	return &stackedCloser{Reader: r, closers: []io.Closer{rc}}, nil
}

// stackedCloser closes every layer, innermost reader last.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}
