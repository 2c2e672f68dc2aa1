// Package exiftool drives the exiftool binary as the metadata extractor.
package exiftool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

const DefaultBinary = "exiftool"

var tagNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_:-]*$`)

type Config struct {
	Binary string `mapstructure:"binary"`
	// BreakerFailures is the number of consecutive launch failures that open the breaker.
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

// Client is a metadata.Extractor backed by the exiftool command line.
type Client struct {
	logger  *logrus.Logger
	binary  string
	breaker httpx.Breaker
	run     runner
}

type runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

var _ metadata.Extractor = (*Client)(nil)

func New(logger *logrus.Logger, cfg Config) *Client {
	binary := cfg.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	timeout := cfg.BreakerTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	return &Client{
		logger: logger,
		binary: binary,
		breaker: httpx.NewBreaker(httpx.BreakerConfig{
			Name:        "exiftool",
			Timeout:     timeout,
			MaxFailures: failures,
		}),
		run: execRunner,
	}
}

func (c *Client) Extract(ctx context.Context, path string) ([]metadata.RawTag, error) {
	stdout, stderr, err := c.exec(ctx, "-j", "-a", "-u", "-g1", path)
	if errors.Is(err, metadata.ErrToolUnavailable) {
		return nil, err
	}
	if len(bytes.TrimSpace(stdout)) == 0 {
		if err == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w: %s", metadata.ErrExtraction, err, firstLine(stderr))
	}
	tags, parseErr := ParseGrouped(stdout)
	if parseErr != nil {
		return nil, fmt.Errorf("%w: %w", metadata.ErrExtraction, parseErr)
	}
	if err != nil {
		c.logger.WithError(err).WithField("stderr", firstLine(stderr)).Debug("exiftool reported a problem while reading")
	}
	return tags, nil
}

// Redact clears tags by writing a new file. A run that leaves dst absent means
// nothing needed writing.
func (c *Client) Redact(ctx context.Context, src, dst string, tags []string) error {
	args := make([]string, 0, len(tags)+4)
	args = append(args, "-m")
	for _, tag := range tags {
		if !tagNamePattern.MatchString(tag) {
			c.logger.WithField("tag", tag).Warn("skipping tag with unexpected name")
			continue
		}
		args = append(args, "-"+tag+"=")
	}
	if len(args) == 1 {
		return nil
	}
	args = append(args, "-o", dst, src)

	_, stderr, err := c.exec(ctx, args...)
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if _, statErr := os.Stat(dst); statErr == nil {
			return nil
		}
		if !bytes.Contains(stderr, []byte("Error")) {
			return nil
		}
	}
	return fmt.Errorf("%w: %w: %s", metadata.ErrRedaction, err, firstLine(stderr))
}

// Version returns the installed exiftool version.
func (c *Client) Version(ctx context.Context) (string, error) {
	stdout, stderr, err := c.exec(ctx, "-ver")
	if err != nil {
		return "", fmt.Errorf("exiftool -ver: %w: %s", err, firstLine(stderr))
	}
	return strings.TrimSpace(string(stdout)), nil
}

// exec runs the tool through the breaker. Only failures to launch count
// against the breaker and come back as ErrToolUnavailable; a non-zero exit or
// a canceled context is returned as is.
func (c *Client) exec(ctx context.Context, args ...string) ([]byte, []byte, error) {
	var (
		stdout, stderr []byte
		callErr        error
	)
	err := c.breaker.Execute(func() error {
		var runErr error
		stdout, stderr, runErr = c.run(ctx, c.binary, args...)
		var ee *exec.ExitError
		if errors.As(runErr, &ee) || errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
			callErr = runErr
			return nil
		}
		return runErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", metadata.ErrToolUnavailable, err)
	}
	return stdout, stderr, callErr
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, nil, ctxErr
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

func firstLine(b []byte) string {
	line, _, _ := bytes.Cut(bytes.TrimSpace(b), []byte("\n"))
	return string(line)
}
