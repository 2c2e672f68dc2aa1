package files

import (
	"context"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/app/pipeline"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/analysis"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/policy"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=UserService --dir=. --output=./mocks --filename=user_service_mock.go --case=underscore
type UserService interface {
	Analyze(ctx context.Context, userID uuid.UUID, upload metadata.Upload) (*analysis.FileAnalysis, *metadata.Result, error)
	// Clean redacts an upload belonging to an analysis the user owns.
	Clean(ctx context.Context, userID, fileID uuid.UUID, upload metadata.Upload) (*metadata.CleanResult, error)
	History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]analysis.FileAnalysis, error)
	DeleteAnalysis(ctx context.Context, userID, fileID uuid.UUID) error
	GetPolicy(ctx context.Context, userID uuid.UUID) (*policy.UserPolicy, error)
	UpdatePolicy(ctx context.Context, userID uuid.UUID, patch policy.Patch) (*policy.UserPolicy, error)
}

type userService struct {
	logger   *logrus.Logger
	pipeline pipeline.Pipeline
	analyses analysis.Repository
	policies policy.Repository
	timeout  time.Duration
	now      func() time.Time
}

func NewUserService(
	logger *logrus.Logger,
	p pipeline.Pipeline,
	analyses analysis.Repository,
	policies policy.Repository,
	timeout time.Duration,
) UserService {
	return &userService{
		logger:   logger,
		pipeline: p,
		analyses: analyses,
		policies: policies,
		timeout:  timeout,
		now:      time.Now,
	}
}

func (s *userService) Analyze(
	ctx context.Context,
	userID uuid.UUID,
	upload metadata.Upload,
) (*analysis.FileAnalysis, *metadata.Result, error) {
	pol, err := s.policies.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to load user policy")
		return nil, nil, err
	}
	runCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.pipeline.Analyze(runCtx, upload, pol)
	if err != nil {
		return nil, nil, err
	}

	record := analysis.NewFromResult(userID, res)
	record.ScannedAt = s.now()
	if err := s.analyses.Save(ctx, record); err != nil {
		s.logger.WithError(err).Error("failed to store analysis")
		return nil, nil, err
	}
	return record, res, nil
}

func (s *userService) Clean(
	ctx context.Context,
	userID, fileID uuid.UUID,
	upload metadata.Upload,
) (*metadata.CleanResult, error) {
	if _, err := s.analyses.GetForUser(ctx, fileID, userID); err != nil {
		return nil, err
	}
	pol, err := s.policies.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to load user policy")
		return nil, err
	}
	runCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.pipeline.Clean(runCtx, upload, pol)
	if err != nil {
		return nil, err
	}

	update := analysis.CleanedUpdate{
		SHA256After: res.Integrity.HashAfter,
		CleanedAt:   s.now(),
		RemovedTags: res.StrippedTags,
	}
	if err := s.analyses.MarkCleaned(ctx, fileID, update); err != nil {
		s.logger.WithError(err).WithField("file_id", fileID).Error("failed to record clean run")
		return nil, err
	}
	return res, nil
}

func (s *userService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]analysis.FileAnalysis, error) {
	return s.analyses.ListForUser(ctx, userID, limit, offset)
}

func (s *userService) DeleteAnalysis(ctx context.Context, userID, fileID uuid.UUID) error {
	return s.analyses.DeleteForUser(ctx, fileID, userID)
}

func (s *userService) GetPolicy(ctx context.Context, userID uuid.UUID) (*policy.UserPolicy, error) {
	return s.policies.GetOrCreate(ctx, userID)
}

func (s *userService) UpdatePolicy(ctx context.Context, userID uuid.UUID, patch policy.Patch) (*policy.UserPolicy, error) {
	pol, err := s.policies.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	pol.Apply(patch)
	if err := s.policies.Update(ctx, pol); err != nil {
		s.logger.WithError(err).Error("failed to update user policy")
		return nil, err
	}
	return pol, nil
}
