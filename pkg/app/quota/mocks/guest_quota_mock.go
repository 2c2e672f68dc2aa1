package mocks

import (
	"context"

	"github.com/NeuralTrust/MetaGuard/pkg/app/quota"
	"github.com/stretchr/testify/mock"
)

type GuestQuota struct {
	mock.Mock
}

func (m *GuestQuota) Admit(ctx context.Context, guestID string, size int64) (*quota.Usage, error) {
	args := m.Called(ctx, guestID, size)
	usage, _ := args.Get(0).(*quota.Usage)
	return usage, args.Error(1)
}

func (m *GuestQuota) Release(ctx context.Context, guestID string) error {
	args := m.Called(ctx, guestID)
	return args.Error(0)
}

func (m *GuestQuota) MaxFileSize() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}
