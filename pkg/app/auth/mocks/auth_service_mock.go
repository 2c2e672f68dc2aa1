package mocks

import (
	"context"

	"github.com/NeuralTrust/MetaGuard/pkg/app/auth"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/user"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/auth/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) Signup(ctx context.Context, email, password, name string) (*jwt.TokenPair, error) {
	args := m.Called(ctx, email, password, name)
	pair, _ := args.Get(0).(*jwt.TokenPair)
	return pair, args.Error(1)
}

func (m *Service) Login(ctx context.Context, email, password string) (*jwt.TokenPair, error) {
	args := m.Called(ctx, email, password)
	pair, _ := args.Get(0).(*jwt.TokenPair)
	return pair, args.Error(1)
}

func (m *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *Service) Google(ctx context.Context, idToken string) (*auth.GoogleLogin, error) {
	args := m.Called(ctx, idToken)
	res, _ := args.Get(0).(*auth.GoogleLogin)
	return res, args.Error(1)
}

func (m *Service) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *Service) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
