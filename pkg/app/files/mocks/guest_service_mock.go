package mocks

import (
	"context"

	"github.com/NeuralTrust/MetaGuard/pkg/app/quota"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/stretchr/testify/mock"
)

type GuestService struct {
	mock.Mock
}

func (m *GuestService) Analyze(ctx context.Context, guestID string, upload metadata.Upload) (*metadata.Result, *quota.Usage, error) {
	args := m.Called(ctx, guestID, upload)
	res, _ := args.Get(0).(*metadata.Result)
	usage, _ := args.Get(1).(*quota.Usage)
	return res, usage, args.Error(2)
}

func (m *GuestService) Clean(ctx context.Context, guestID string, upload metadata.Upload) (*metadata.CleanResult, *quota.Usage, error) {
	args := m.Called(ctx, guestID, upload)
	res, _ := args.Get(0).(*metadata.CleanResult)
	usage, _ := args.Get(1).(*quota.Usage)
	return res, usage, args.Error(2)
}
