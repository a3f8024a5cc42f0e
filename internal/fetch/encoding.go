package fetch

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// decodeBody unwraps a response body according to its Content-Encoding. The
// returned reader must be closed; it does not close r.
func decodeBody(encoding string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return io.NopCloser(r), nil

	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil

	case "deflate":
		return inflate(r)

	case "br":
		return io.NopCloser(brotli.NewReader(r)), nil

	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

// inflate handles "deflate" bodies, which servers send either zlib-wrapped
// (RFC 1950) or as a bare deflate stream.
func inflate(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(2)
	if err == nil && isZlibHeader(head[0], head[1]) {
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zlib: %w", err)
		}
		return zr, nil
	}

	return flate.NewReader(br), nil
}

func isZlibHeader(cmf, flg byte) bool {
	return cmf&0x0f == 8 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}
