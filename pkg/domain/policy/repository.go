package policy

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=policy_repository_mock.go --case=underscore
type Repository interface {
	// GetOrCreate returns the user's policy, creating it with defaults when missing.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*UserPolicy, error)
	Update(ctx context.Context, p *UserPolicy) error
}
