package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

var (
	ErrUnsupportedEncoding = errors.New("unsupported content-encoding")
	ErrDecodedTooLarge     = errors.New("decoded content exceeds limit")
)

// DecodeContent undoes a Content-Encoding header value such as "gzip, br".
// Codings are removed in reverse order of application. maxSize bounds the
// decoded output of every step; zero disables the bound.
// It reports whether body was transformed.
func DecodeContent(contentEncoding string, body []byte, maxSize int64) ([]byte, bool, error) {
	if strings.TrimSpace(contentEncoding) == "" {
		return body, false, nil
	}
	codings := strings.Split(contentEncoding, ",")
	changed := false
	for i := len(codings) - 1; i >= 0; i-- {
		coding := strings.ToLower(strings.TrimSpace(codings[i]))
		switch coding {
		case "", "identity":
			continue
		}
		out, err := decodeOne(coding, body, maxSize)
		if err != nil {
			return nil, false, err
		}
		body = out
		changed = true
	}
	return body, changed, nil
}

func decodeOne(coding string, body []byte, maxSize int64) ([]byte, error) {
	switch coding {
	case "br":
		return readLimited(brotli.NewReader(bytes.NewReader(body)), maxSize)
	case "gzip", "x-gzip":
		gr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		return readLimited(gr, maxSize)
	case "zstd":
		dec, err := zstd.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return readLimited(dec, maxSize)
	case "deflate":
		// RFC 9110 deflate is zlib framed; some clients send raw DEFLATE.
		if zr, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
			defer zr.Close()
			return readLimited(zr, maxSize)
		}
		fr := flate.NewReader(bytes.NewReader(body))
		defer fr.Close()
		return readLimited(fr, maxSize)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, coding)
	}
}

func readLimited(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		return io.ReadAll(r)
	}
	out, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > maxSize {
		return nil, ErrDecodedTooLarge
	}
	return out, nil
}
