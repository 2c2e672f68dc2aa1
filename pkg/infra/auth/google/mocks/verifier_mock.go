package mocks

import (
	"context"

	"github.com/NeuralTrust/MetaGuard/pkg/infra/auth/google"
	"github.com/stretchr/testify/mock"
)

type Verifier struct {
	mock.Mock
}

func (m *Verifier) Verify(ctx context.Context, idToken string) (*google.Identity, error) {
	args := m.Called(ctx, idToken)
	id, _ := args.Get(0).(*google.Identity)
	return id, args.Error(1)
}
