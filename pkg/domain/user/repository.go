package user

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=user_repository_mock.go --case=underscore
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	LinkGoogle(ctx context.Context, id uuid.UUID, subject string) error
	// Delete removes the user together with policies and analyses.
	Delete(ctx context.Context, id uuid.UUID) error
}
