package mocks

import (
	"context"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/policy"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*policy.UserPolicy, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*policy.UserPolicy)
	return p, args.Error(1)
}

func (m *Repository) Update(ctx context.Context, p *policy.UserPolicy) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
