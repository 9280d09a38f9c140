package cvid

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// NewReader reads r to its end and returns a decoder over the result.
// Raw CVID compresses further under general-purpose compressors, so
// streams are often stored zstd-packed; input starting with the zstd
// magic is unwrapped transparently. Decoding itself still operates on
// the complete in-memory buffer.
func NewReader(r io.Reader) (*Decoder, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if bytes.HasPrefix(data, zstdMagic) {
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()

		data, err = io.ReadAll(zr)
		if err != nil {
			return nil, err
		}
	}

	return New(data), nil
}
