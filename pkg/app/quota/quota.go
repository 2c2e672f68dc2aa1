package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/cache"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

var ErrGuestLimitReached = errors.New("guest upload limit reached")

type Limits struct {
	MaxUploads  int64
	MaxFileSize int64
	Window      time.Duration
}

// Usage is the state of one guest after an admitted upload.
type Usage struct {
	Used      int64
	Limit     int64
	ResetsIn  time.Duration
	Remaining int64
}

//go:generate mockery --name=GuestQuota --dir=. --output=./mocks --filename=guest_quota_mock.go --case=underscore
type GuestQuota interface {
	// Admit counts one upload of size bytes for the guest or rejects it.
	Admit(ctx context.Context, guestID string, size int64) (*Usage, error)
	// Release gives back an upload slot, used when a run failed for server side reasons.
	Release(ctx context.Context, guestID string) error
	MaxFileSize() int64
}

type guestQuota struct {
	logger *logrus.Logger
	cache  cache.Client
	limits Limits
}

func NewGuestQuota(logger *logrus.Logger, c cache.Client, limits Limits) GuestQuota {
	return &guestQuota{
		logger: logger,
		cache:  c,
		limits: limits,
	}
}

func (q *guestQuota) MaxFileSize() int64 {
	return q.limits.MaxFileSize
}

// Admit checks the size first so oversized files never consume quota.
func (q *guestQuota) Admit(ctx context.Context, guestID string, size int64) (*Usage, error) {
	if q.limits.MaxFileSize > 0 && size > q.limits.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes, guest limit is %d", metadata.ErrFileTooLarge, size, q.limits.MaxFileSize)
	}

	key := fmt.Sprintf(cache.GuestUploadsKeyPattern, guestID)
	// SETNX opens the window on the first upload; INCR keeps the TTL.
	pipe := q.cache.RedisClient().TxPipeline()
	pipe.SetNX(ctx, key, 0, q.limits.Window)
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		q.logger.WithError(err).Error("failed to update guest quota")
		return nil, fmt.Errorf("failed to update guest quota: %w", err)
	}

	used := incr.Val()
	usage := &Usage{
		Used:     used,
		Limit:    q.limits.MaxUploads,
		ResetsIn: ttl.Val(),
	}
	if used > q.limits.MaxUploads {
		return usage, ErrGuestLimitReached
	}
	usage.Remaining = q.limits.MaxUploads - used
	return usage, nil
}

func (q *guestQuota) Release(ctx context.Context, guestID string) error {
	key := fmt.Sprintf(cache.GuestUploadsKeyPattern, guestID)
	err := q.cache.RedisClient().Decr(ctx, key).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
