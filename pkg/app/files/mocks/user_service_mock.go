package mocks

import (
	"context"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/analysis"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/policy"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type UserService struct {
	mock.Mock
}

func (m *UserService) Analyze(ctx context.Context, userID uuid.UUID, upload metadata.Upload) (*analysis.FileAnalysis, *metadata.Result, error) {
	args := m.Called(ctx, userID, upload)
	record, _ := args.Get(0).(*analysis.FileAnalysis)
	res, _ := args.Get(1).(*metadata.Result)
	return record, res, args.Error(2)
}

func (m *UserService) Clean(ctx context.Context, userID, fileID uuid.UUID, upload metadata.Upload) (*metadata.CleanResult, error) {
	args := m.Called(ctx, userID, fileID, upload)
	res, _ := args.Get(0).(*metadata.CleanResult)
	return res, args.Error(1)
}

func (m *UserService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]analysis.FileAnalysis, error) {
	args := m.Called(ctx, userID, limit, offset)
	list, _ := args.Get(0).([]analysis.FileAnalysis)
	return list, args.Error(1)
}

func (m *UserService) DeleteAnalysis(ctx context.Context, userID, fileID uuid.UUID) error {
	args := m.Called(ctx, userID, fileID)
	return args.Error(0)
}

func (m *UserService) GetPolicy(ctx context.Context, userID uuid.UUID) (*policy.UserPolicy, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*policy.UserPolicy)
	return p, args.Error(1)
}

func (m *UserService) UpdatePolicy(ctx context.Context, userID uuid.UUID, patch policy.Patch) (*policy.UserPolicy, error) {
	args := m.Called(ctx, userID, patch)
	p, _ := args.Get(0).(*policy.UserPolicy)
	return p, args.Error(1)
}
