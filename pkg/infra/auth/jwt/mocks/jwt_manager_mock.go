package mocks

import (
	"github.com/NeuralTrust/MetaGuard/pkg/infra/auth/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Manager struct {
	mock.Mock
}

func (m *Manager) CreateTokenPair(userID uuid.UUID, email string) (*jwt.TokenPair, error) {
	args := m.Called(userID, email)
	pair, _ := args.Get(0).(*jwt.TokenPair)
	return pair, args.Error(1)
}

func (m *Manager) CreateToken(userID uuid.UUID, email string, tokenType jwt.TokenType) (string, error) {
	args := m.Called(userID, email, tokenType)
	return args.String(0), args.Error(1)
}

func (m *Manager) DecodeToken(tokenString string, want jwt.TokenType) (*jwt.Claims, error) {
	args := m.Called(tokenString, want)
	claims, _ := args.Get(0).(*jwt.Claims)
	return claims, args.Error(1)
}
