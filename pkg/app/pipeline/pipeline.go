package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/app/classifier"
	"github.com/NeuralTrust/MetaGuard/pkg/app/integrity"
	"github.com/NeuralTrust/MetaGuard/pkg/app/scorer"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/policy"
	"github.com/sirupsen/logrus"
)

const (
	stagingBufferSize = 32 * 1024
	cleanedPrefix     = "cleaned_"
	tempDirPattern    = "metaguard-run-*"
)

var reservedTags = map[string]struct{}{
	"SourceFile":      {},
	"ExifTool":        {},
	"ExifToolVersion": {},
}

//go:generate mockery --name=Pipeline --dir=. --output=./mocks --filename=pipeline_mock.go --case=underscore
type Pipeline interface {
	Analyze(ctx context.Context, upload metadata.Upload, p policy.Policy) (*metadata.Result, error)
	Clean(ctx context.Context, upload metadata.Upload, p policy.Policy) (*metadata.CleanResult, error)
}

type Config struct {
	// TempDir is the root under which per-run directories are created. Empty means os.TempDir().
	TempDir string
}

type pipeline struct {
	logger    *logrus.Logger
	extractor metadata.Extractor
	observer  Observer
	cfg       Config
}

func NewPipeline(logger *logrus.Logger, extractor metadata.Extractor, observer Observer, cfg Config) Pipeline {
	if observer == nil {
		observer = noopObserver{}
	}
	return &pipeline{
		logger:    logger,
		extractor: extractor,
		observer:  observer,
		cfg:       cfg,
	}
}

func (p *pipeline) Analyze(ctx context.Context, upload metadata.Upload, pol policy.Policy) (*metadata.Result, error) {
	res, err := p.run(ctx, ModeAnalyze, upload, pol)
	if err != nil {
		return nil, err
	}
	result := res.Result
	result.Integrity = result.Integrity.WithoutAfter()
	return &result, nil
}

func (p *pipeline) Clean(ctx context.Context, upload metadata.Upload, pol policy.Policy) (*metadata.CleanResult, error) {
	return p.run(ctx, ModeClean, upload, pol)
}

// run is the sequential state machine shared by both modes. The per-run directory is removed on every path.
func (p *pipeline) run(
	ctx context.Context,
	mode Mode,
	upload metadata.Upload,
	pol policy.Policy,
) (out *metadata.CleanResult, err error) {
	startedAt := time.Now()
	defer func() {
		var result *metadata.Result
		if out != nil {
			result = &out.Result
		}
		p.observer.ObserveRun(mode, outcomeOf(err), result, time.Since(startedAt))
	}()

	if upload == nil {
		return nil, metadata.ErrNoFile
	}
	if pol == nil {
		pol = policy.NewGuestPolicy()
	}

	dir, err := os.MkdirTemp(p.cfg.TempDir, tempDirPattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", metadata.ErrStaging, err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			p.logger.WithError(rmErr).WithField("dir", dir).Warn("failed to remove run directory")
		}
	}()

	ext := filepath.Ext(filepath.Base(upload.Name()))
	r := &runState{
		ctx:      ctx,
		mode:     mode,
		observer: p.observer,
		src:      filepath.Join(dir, "original"+ext),
		dst:      filepath.Join(dir, "redacted"+ext),
	}

	var size int64
	if err = r.step(StageStaged, func() error {
		size, err = stage(upload, r.src)
		return err
	}); err != nil {
		return nil, err
	}

	var tags []metadata.RawTag
	if err = r.step(StageExtracted, func() error {
		tags, err = p.extract(ctx, r.src)
		return err
	}); err != nil {
		return nil, err
	}

	var (
		fields  []metadata.Field
		verdict metadata.Verdict
		privacy int
	)
	if err = r.step(StageClassified, func() error {
		fields = make([]metadata.Field, 0, len(tags))
		for _, tag := range tags {
			field := classifier.ClassifyField(tag)
			if field.IsPrivacyRelevant() {
				privacy++
			}
			fields = append(fields, field)
		}
		verdict = scorer.Score(fields)
		return nil
	}); err != nil {
		return nil, err
	}

	var hashBefore string
	if err = r.step(StageHashedBefore, func() error {
		hashBefore, err = integrity.HashFile(r.src)
		return err
	}); err != nil {
		return nil, err
	}

	strip := policy.StripSet(pol, fields)
	if err = r.step(StageRedacted, func() error {
		return p.redact(ctx, r.src, r.dst, strip)
	}); err != nil {
		return nil, err
	}

	remaining := 0
	if err = r.step(StageReExtracted, func() error {
		var left []metadata.RawTag
		left, err = p.extract(ctx, r.dst)
		remaining = len(left)
		return err
	}); err != nil {
		return nil, err
	}

	var hashAfter string
	if err = r.step(StageHashedAfter, func() error {
		hashAfter, err = integrity.HashFile(r.dst)
		return err
	}); err != nil {
		return nil, err
	}

	var redacted []byte
	if err = r.step(StageDone, func() error {
		if mode != ModeClean {
			return nil
		}
		markRemoved(fields, strip)
		redacted, err = os.ReadFile(r.dst)
		if err != nil {
			return fmt.Errorf("%w: %w", metadata.ErrRedaction, err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	removed := len(fields) - remaining
	if removed < 0 {
		removed = 0
	}

	baseName := filepath.Base(upload.Name())
	out = &metadata.CleanResult{
		Result: metadata.Result{
			FileName:       baseName,
			ContentType:    upload.ContentType(),
			Size:           size,
			Fields:         fields,
			Verdict:        verdict,
			TotalCount:     len(fields),
			PrivacyCount:   privacy,
			RemainingCount: remaining,
			RemovedCount:   removed,
			StrippedTags:   strip,
			Integrity:      metadata.NewIntegrityProof(hashBefore, hashAfter),
		},
	}
	if mode == ModeClean {
		out.CleanedName = cleanedPrefix + baseName
		out.Redacted = redacted
	}
	return out, nil
}

// extract treats a file the tool could not read as having no metadata. A tool
// that could not be run, or any other error, fails the run.
func (p *pipeline) extract(ctx context.Context, path string) ([]metadata.RawTag, error) {
	tags, err := p.extractor.Extract(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, metadata.ErrExtraction) {
			return nil, err
		}
		p.logger.WithError(err).Warn("metadata extraction failed")
		return nil, nil
	}
	filtered := make([]metadata.RawTag, 0, len(tags))
	for _, tag := range tags {
		if _, reserved := reservedTags[tag.Name]; reserved {
			continue
		}
		filtered = append(filtered, tag)
	}
	return filtered, nil
}

func (p *pipeline) redact(ctx context.Context, src, dst string, strip []string) error {
	if len(strip) > 0 {
		if err := p.extractor.Redact(ctx, src, dst, strip); err != nil {
			if errors.Is(err, metadata.ErrRedaction) {
				return err
			}
			return fmt.Errorf("%w: %w", metadata.ErrRedaction, err)
		}
	}
	if _, err := os.Stat(dst); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", metadata.ErrRedaction, err)
	}
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("%w: %w", metadata.ErrRedaction, err)
	}
	return nil
}

type runState struct {
	ctx      context.Context
	mode     Mode
	observer Observer
	src      string
	dst      string
}

func (r *runState) step(stage Stage, fn func() error) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	startedAt := time.Now()
	err := fn()
	r.observer.ObserveStage(r.mode, stage, time.Since(startedAt))
	return err
}

func stage(upload metadata.Upload, path string) (int64, error) {
	src, err := upload.Open()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", metadata.ErrStaging, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", metadata.ErrStaging, err)
	}
	written, err := io.CopyBuffer(dst, src, make([]byte, stagingBufferSize))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", metadata.ErrStaging, err)
	}
	return written, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func markRemoved(fields []metadata.Field, strip []string) {
	if len(strip) == 0 {
		return
	}
	set := make(map[string]struct{}, len(strip))
	for _, tag := range strip {
		set[tag] = struct{}{}
	}
	for i := range fields {
		if _, ok := set[fields[i].Tag]; ok {
			fields[i].Removed = true
		}
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeFailure
	}
}
