package mocks

import (
	"context"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/policy"
	"github.com/stretchr/testify/mock"
)

type Pipeline struct {
	mock.Mock
}

func (m *Pipeline) Analyze(ctx context.Context, upload metadata.Upload, p policy.Policy) (*metadata.Result, error) {
	args := m.Called(ctx, upload, p)
	res, _ := args.Get(0).(*metadata.Result)
	return res, args.Error(1)
}

func (m *Pipeline) Clean(ctx context.Context, upload metadata.Upload, p policy.Policy) (*metadata.CleanResult, error) {
	args := m.Called(ctx, upload, p)
	res, _ := args.Get(0).(*metadata.CleanResult)
	return res, args.Error(1)
}
