package mocks

import (
	"context"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/analysis"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, a *analysis.FileAnalysis) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *Repository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*analysis.FileAnalysis, error) {
	args := m.Called(ctx, id, userID)
	a, _ := args.Get(0).(*analysis.FileAnalysis)
	return a, args.Error(1)
}

func (m *Repository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]analysis.FileAnalysis, error) {
	args := m.Called(ctx, userID, limit, offset)
	list, _ := args.Get(0).([]analysis.FileAnalysis)
	return list, args.Error(1)
}

func (m *Repository) MarkCleaned(ctx context.Context, id uuid.UUID, update analysis.CleanedUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *Repository) DeleteForUser(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
