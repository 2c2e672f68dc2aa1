package httpx

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_Execute(t *testing.T) {
	b := NewBreaker(BreakerConfig{Name: "exiftool", Timeout: time.Minute, MaxFailures: 3})

	assert.NoError(t, b.Execute(func() error { return nil }))

	toolErr := errors.New("exit status 2")
	err := b.Execute(func() error { return toolErr })
	assert.ErrorIs(t, err, toolErr)
	assert.Contains(t, err.Error(), "breaker (exiftool)")
	assert.Equal(t, "closed", b.State())
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker(BreakerConfig{Name: "open", Timeout: time.Minute, MaxFailures: 2})

	for i := 0; i < 2; i++ {
		assert.Error(t, b.Execute(func() error { return errors.New("fail") }))
	}
	assert.Equal(t, "open", b.State())

	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.False(t, called)
}

func TestBreaker_Recovers(t *testing.T) {
	b := NewBreaker(BreakerConfig{Name: "recover", Timeout: 50 * time.Millisecond, MaxFailures: 1})

	assert.Error(t, b.Execute(func() error { return errors.New("fail") }))
	time.Sleep(100 * time.Millisecond)

	assert.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, "closed", b.State())
}

func TestBreaker_ZeroMaxFailuresTripsOnFirst(t *testing.T) {
	b := NewBreaker(BreakerConfig{Name: "zero", Timeout: time.Minute})

	assert.Error(t, b.Execute(func() error { return errors.New("fail") }))
	assert.Equal(t, "open", b.State())
}
