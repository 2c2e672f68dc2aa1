// Package upload adapts multipart parts and local files to metadata.Upload.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/httpx"
)

const (
	contentEncodingHeader = "Content-Encoding"
	contentTypeHeader     = "Content-Type"
	defaultContentType    = "application/octet-stream"
)

type Bytes struct {
	name        string
	contentType string
	data        []byte
}

func FromBytes(name, contentType string, data []byte) *Bytes {
	return &Bytes{name: name, contentType: contentType, data: data}
}

func (b *Bytes) Name() string        { return b.name }
func (b *Bytes) ContentType() string { return b.contentType }
func (b *Bytes) Size() int64         { return int64(len(b.data)) }

func (b *Bytes) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

type part struct {
	header *multipart.FileHeader
}

func (p *part) Name() string        { return p.header.Filename }
func (p *part) ContentType() string { return partContentType(p.header) }
func (p *part) Size() int64         { return p.header.Size }

func (p *part) Open() (io.ReadCloser, error) {
	return p.header.Open()
}

// FromMultipart wraps a form file. A Content-Encoding on the part is decoded up front;
// maxSize bounds the decoded bytes and zero disables the bound.
func FromMultipart(fh *multipart.FileHeader, maxSize int64) (metadata.Upload, error) {
	if fh == nil {
		return nil, metadata.ErrNoFile
	}
	encoding := fh.Header.Get(contentEncodingHeader)
	if encoding == "" {
		if maxSize > 0 && fh.Size > maxSize {
			return nil, fmt.Errorf("%w: %d bytes, limit is %d", metadata.ErrFileTooLarge, fh.Size, maxSize)
		}
		return &part{header: fh}, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", metadata.ErrStaging, err)
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", metadata.ErrStaging, err)
	}
	decoded, _, err := httpx.DecodeContent(encoding, raw, maxSize)
	if err != nil {
		if errors.Is(err, httpx.ErrDecodedTooLarge) {
			return nil, fmt.Errorf("%w: %w", metadata.ErrFileTooLarge, err)
		}
		return nil, err
	}
	return FromBytes(fh.Filename, partContentType(fh), decoded), nil
}

type file struct {
	path        string
	size        int64
	contentType string
}

// FromFile wraps a local file, e.g. for the command line tool.
func FromFile(path string) (metadata.Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	ctype := mime.TypeByExtension(filepath.Ext(path))
	if ctype == "" {
		ctype = defaultContentType
	}
	return &file{path: path, size: info.Size(), contentType: ctype}, nil
}

func (f *file) Name() string        { return filepath.Base(f.path) }
func (f *file) ContentType() string { return f.contentType }
func (f *file) Size() int64         { return f.size }

func (f *file) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

func partContentType(fh *multipart.FileHeader) string {
	ctype := fh.Header.Get(contentTypeHeader)
	if ctype == "" {
		return defaultContentType
	}
	if mediaType, _, err := mime.ParseMediaType(ctype); err == nil {
		return mediaType
	}
	return ctype
}
