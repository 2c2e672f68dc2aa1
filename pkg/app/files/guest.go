package files

import (
	"context"
	"errors"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/app/pipeline"
	"github.com/NeuralTrust/MetaGuard/pkg/app/quota"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/policy"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=GuestService --dir=. --output=./mocks --filename=guest_service_mock.go --case=underscore
type GuestService interface {
	Analyze(ctx context.Context, guestID string, upload metadata.Upload) (*metadata.Result, *quota.Usage, error)
	Clean(ctx context.Context, guestID string, upload metadata.Upload) (*metadata.CleanResult, *quota.Usage, error)
}

type guestService struct {
	logger   *logrus.Logger
	pipeline pipeline.Pipeline
	quota    quota.GuestQuota
	timeout  time.Duration
	policy   policy.Policy
}

func NewGuestService(
	logger *logrus.Logger,
	p pipeline.Pipeline,
	q quota.GuestQuota,
	timeout time.Duration,
) GuestService {
	return &guestService{
		logger:   logger,
		pipeline: p,
		quota:    q,
		timeout:  timeout,
		policy:   policy.NewGuestPolicy(),
	}
}

func (s *guestService) Analyze(ctx context.Context, guestID string, upload metadata.Upload) (*metadata.Result, *quota.Usage, error) {
	usage, err := s.admit(ctx, guestID, upload)
	if err != nil {
		return nil, usage, err
	}
	runCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.pipeline.Analyze(runCtx, upload, s.policy)
	if err != nil {
		s.release(ctx, guestID, err)
		return nil, usage, err
	}
	return res, usage, nil
}

func (s *guestService) Clean(ctx context.Context, guestID string, upload metadata.Upload) (*metadata.CleanResult, *quota.Usage, error) {
	usage, err := s.admit(ctx, guestID, upload)
	if err != nil {
		return nil, usage, err
	}
	runCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.pipeline.Clean(runCtx, upload, s.policy)
	if err != nil {
		s.release(ctx, guestID, err)
		return nil, usage, err
	}
	return res, usage, nil
}

func (s *guestService) admit(ctx context.Context, guestID string, upload metadata.Upload) (*quota.Usage, error) {
	if upload == nil {
		return nil, metadata.ErrNoFile
	}
	usage, err := s.quota.Admit(ctx, guestID, upload.Size())
	switch {
	case errors.Is(err, metadata.ErrFileTooLarge):
		prometheus.GuestQuotaRejections.WithLabelValues("size").Inc()
	case errors.Is(err, quota.ErrGuestLimitReached):
		prometheus.GuestQuotaRejections.WithLabelValues("uploads").Inc()
	}
	return usage, err
}

// release hands the slot back when the failure was not the guest's fault.
func (s *guestService) release(ctx context.Context, guestID string, cause error) {
	if errors.Is(cause, metadata.ErrNoFile) {
		return
	}
	if err := s.quota.Release(context.WithoutCancel(ctx), guestID); err != nil {
		s.logger.WithError(err).Warn("failed to release guest quota")
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
