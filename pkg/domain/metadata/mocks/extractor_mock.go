package mocks

import (
	"context"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/stretchr/testify/mock"
)

type Extractor struct {
	mock.Mock
}

func (m *Extractor) Extract(ctx context.Context, path string) ([]metadata.RawTag, error) {
	args := m.Called(ctx, path)
	tags, _ := args.Get(0).([]metadata.RawTag)
	return tags, args.Error(1)
}

func (m *Extractor) Redact(ctx context.Context, src, dst string, tags []string) error {
	args := m.Called(ctx, src, dst, tags)
	return args.Error(0)
}
