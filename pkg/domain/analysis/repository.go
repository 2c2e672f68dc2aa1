package analysis

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=analysis_repository_mock.go --case=underscore
type Repository interface {
	Save(ctx context.Context, a *FileAnalysis) error
	// GetForUser returns a not found error when the analysis belongs to someone else.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*FileAnalysis, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]FileAnalysis, error)
	MarkCleaned(ctx context.Context, id uuid.UUID, update CleanedUpdate) error
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) error
}
