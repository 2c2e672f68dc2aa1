package metadata

import "context"

// Extractor is the external metadata tool capability.
//
//go:generate mockery --name=Extractor --dir=. --output=./mocks --filename=extractor_mock.go --case=underscore
type Extractor interface {
	// Extract dumps every tag of the file at path in tool order.
	Extract(ctx context.Context, path string) ([]RawTag, error)
	// Redact writes a copy of src to dst with the given tags cleared.
	Redact(ctx context.Context, src, dst string, tags []string) error
}
