package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(data []byte) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

func brotliBytes(data []byte) []byte {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

func zstdBytes(data []byte) []byte {
	var buf bytes.Buffer
	w, _ := zstd.NewWriter(&buf)
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

func zlibBytes(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

func flateBytes(data []byte) []byte {
	var buf bytes.Buffer
	w, _ := flate.NewWriter(&buf, flate.DefaultCompression)
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

func TestDecodeContent(t *testing.T) {
	plain := []byte("\xff\xd8\xff\xe1 exif payload")

	tests := []struct {
		name     string
		encoding string
		body     []byte
		changed  bool
	}{
		{name: "no encoding", encoding: "", body: plain},
		{name: "identity", encoding: "identity", body: plain},
		{name: "gzip", encoding: "gzip", body: gzipBytes(plain), changed: true},
		{name: "brotli", encoding: "br", body: brotliBytes(plain), changed: true},
		{name: "zstd", encoding: "zstd", body: zstdBytes(plain), changed: true},
		{name: "deflate zlib", encoding: "deflate", body: zlibBytes(plain), changed: true},
		{name: "deflate raw", encoding: "deflate", body: flateBytes(plain), changed: true},
		{name: "case and spaces", encoding: "  GZip ", body: gzipBytes(plain), changed: true},
		{name: "chained", encoding: "gzip, br", body: brotliBytes(gzipBytes(plain)), changed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed, err := DecodeContent(tt.encoding, tt.body, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, plain, out)
		})
	}
}

func TestDecodeContent_Unsupported(t *testing.T) {
	_, _, err := DecodeContent("compress", []byte("abc"), 0)
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)
}

func TestDecodeContent_Limit(t *testing.T) {
	plain := bytes.Repeat([]byte("a"), 4096)

	_, _, err := DecodeContent("gzip", gzipBytes(plain), 1024)
	assert.ErrorIs(t, err, ErrDecodedTooLarge)

	out, _, err := DecodeContent("gzip", gzipBytes(plain), 4096)
	require.NoError(t, err)
	assert.Len(t, out, 4096)
}
