package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/app/integrity"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata/mocks"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/policy"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/httpx"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// lineExtractor treats every "Tag=Value" line of a file as a metadata tag.
type lineExtractor struct {
	extractErr   error
	redactErr    error
	skipOutput   bool
	extractCalls int
	redactCalls  int
	lastStrip    []string
}

func (e *lineExtractor) Extract(_ context.Context, path string) ([]metadata.RawTag, error) {
	e.extractCalls++
	if e.extractErr != nil {
		return nil, e.extractErr
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tags []metadata.RawTag
	for _, line := range strings.Split(string(data), "\n") {
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		tags = append(tags, metadata.RawTag{Name: name, Value: value})
	}
	return tags, nil
}

func (e *lineExtractor) Redact(_ context.Context, src, dst string, tags []string) error {
	e.redactCalls++
	e.lastStrip = tags
	if e.redactErr != nil {
		return e.redactErr
	}
	if e.skipOutput {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	drop := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		drop[t] = struct{}{}
	}
	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		name, _, _ := strings.Cut(line, "=")
		if _, ok := drop[name]; ok {
			continue
		}
		kept = append(kept, line)
	}
	return os.WriteFile(dst, []byte(strings.Join(kept, "\n")), 0o600)
}

type bytesUpload struct {
	name    string
	ctype   string
	data    []byte
	openErr error
}

func (u *bytesUpload) Name() string        { return u.name }
func (u *bytesUpload) ContentType() string { return u.ctype }
func (u *bytesUpload) Size() int64         { return int64(len(u.data)) }
func (u *bytesUpload) Open() (io.ReadCloser, error) {
	if u.openErr != nil {
		return nil, u.openErr
	}
	return io.NopCloser(bytes.NewReader(u.data)), nil
}

type recordingObserver struct {
	mu       sync.Mutex
	stages   []Stage
	outcomes []string
}

func (o *recordingObserver) ObserveStage(_ Mode, stage Stage, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stages = append(o.stages, stage)
}

func (o *recordingObserver) ObserveRun(_ Mode, outcome string, _ *metadata.Result, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

const photo = "GPSLatitude=40.4168\nAuthor=John Smith\nMake=Canon\nImageWidth=4000\nExifToolVersion=12.76"

func newTestPipeline(t *testing.T, ex metadata.Extractor, obs Observer) (Pipeline, string) {
	t.Helper()
	root := t.TempDir()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewPipeline(logger, ex, obs, Config{TempDir: root}), root
}

func assertNoArtifacts(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "run directories must be removed")
}

func TestPipeline_Clean_GuestPolicy(t *testing.T) {
	ex := &lineExtractor{}
	obs := &recordingObserver{}
	p, root := newTestPipeline(t, ex, obs)

	upload := &bytesUpload{name: "photo.jpg", ctype: "image/jpeg", data: []byte(photo)}
	res, err := p.Clean(context.Background(), upload, policy.NewGuestPolicy())
	require.NoError(t, err)

	assert.Equal(t, "photo.jpg", res.FileName)
	assert.Equal(t, "cleaned_photo.jpg", res.CleanedName)
	assert.Equal(t, int64(len(photo)), res.Size)
	assert.Equal(t, 4, res.TotalCount)
	assert.Equal(t, 3, res.PrivacyCount)
	assert.Equal(t, []string{"GPSLatitude", "Author"}, res.StrippedTags)
	assert.Equal(t, 2, res.RemainingCount)
	assert.Equal(t, 2, res.RemovedCount)
	assert.Equal(t, "Make=Canon\nImageWidth=4000\nExifToolVersion=12.76", string(res.Redacted))

	assert.True(t, res.Integrity.Changed)
	assert.Equal(t, integrity.HashBytes([]byte(photo)), res.Integrity.HashBefore)
	assert.Equal(t, integrity.HashBytes(res.Redacted), res.Integrity.HashAfter)

	for _, f := range res.Fields {
		stripped := f.Tag == "GPSLatitude" || f.Tag == "Author"
		assert.Equal(t, stripped, f.Removed, f.Tag)
	}
	assert.Equal(t, metadata.RiskHigh, res.Verdict.OverallRisk)
	assert.Equal(t, Stages, obs.stages)
	assert.Equal(t, []string{OutcomeSuccess}, obs.outcomes)
	assertNoArtifacts(t, root)
}

func TestPipeline_Analyze_OmitsHashAfter(t *testing.T) {
	ex := &lineExtractor{}
	p, root := newTestPipeline(t, ex, nil)

	upload := &bytesUpload{name: "photo.jpg", data: []byte(photo)}
	res, err := p.Analyze(context.Background(), upload, policy.NewGuestPolicy())
	require.NoError(t, err)

	assert.Empty(t, res.Integrity.HashAfter)
	assert.NotEmpty(t, res.Integrity.HashBefore)
	assert.True(t, res.Integrity.Changed)
	assert.Equal(t, 2, res.RemainingCount)
	assert.Equal(t, 2, ex.extractCalls)
	assertNoArtifacts(t, root)
}

func TestPipeline_Analyze_LeavesFieldsInPlace(t *testing.T) {
	p, _ := newTestPipeline(t, &lineExtractor{}, nil)

	res, err := p.Analyze(context.Background(), &bytesUpload{name: "photo.jpg", data: []byte(photo)}, policy.NewGuestPolicy())
	require.NoError(t, err)
	require.NotEmpty(t, res.Fields)
	for _, f := range res.Fields {
		assert.False(t, f.Removed, f.Tag)
	}
	assert.Equal(t, []string{"GPSLatitude", "Author"}, res.StrippedTags)
}

func TestPipeline_ToolUnavailableFailsRun(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{name: "binary missing", err: fmt.Errorf("%w: %w", metadata.ErrToolUnavailable, exec.ErrNotFound)},
		{name: "breaker open", err: fmt.Errorf("%w: %w", metadata.ErrToolUnavailable, httpx.ErrBreakerOpen)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ex := new(mocks.Extractor)
			ex.On("Extract", mock.Anything, mock.Anything).Return(nil, tc.err).Once()
			obs := &recordingObserver{}
			p, root := newTestPipeline(t, ex, obs)

			res, err := p.Clean(context.Background(), &bytesUpload{name: "a.jpg", data: []byte(photo)}, policy.NewGuestPolicy())
			assert.Nil(t, res)
			assert.ErrorIs(t, err, metadata.ErrToolUnavailable)
			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, []string{OutcomeFailure}, obs.outcomes)
			ex.AssertNotCalled(t, "Redact", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			ex.AssertExpectations(t)
			assertNoArtifacts(t, root)
		})
	}
}

func TestPipeline_ReExtractionToolUnavailable(t *testing.T) {
	ex := new(mocks.Extractor)
	ex.On("Extract", mock.Anything, mock.MatchedBy(func(path string) bool {
		return strings.Contains(filepath.Base(path), "original")
	})).Return([]metadata.RawTag{{Name: "GPSLatitude", Value: "40.4168"}}, nil).Once()
	ex.On("Redact", mock.Anything, mock.Anything, mock.Anything, []string{"GPSLatitude"}).Return(nil).Once()
	ex.On("Extract", mock.Anything, mock.MatchedBy(func(path string) bool {
		return strings.Contains(filepath.Base(path), "redacted")
	})).Return(nil, fmt.Errorf("%w: %w", metadata.ErrToolUnavailable, httpx.ErrBreakerOpen)).Once()
	p, root := newTestPipeline(t, ex, nil)

	_, err := p.Analyze(context.Background(), &bytesUpload{name: "a.jpg", data: []byte(photo)}, policy.NewGuestPolicy())
	assert.ErrorIs(t, err, httpx.ErrBreakerOpen)
	ex.AssertExpectations(t)
	assertNoArtifacts(t, root)
}

func TestPipeline_Clean_Idempotent(t *testing.T) {
	ex := &lineExtractor{}
	p, root := newTestPipeline(t, ex, nil)
	ctx := context.Background()

	first, err := p.Clean(ctx, &bytesUpload{name: "a.jpg", data: []byte(photo)}, policy.NewGuestPolicy())
	require.NoError(t, err)
	require.True(t, first.Integrity.Changed)

	second, err := p.Clean(ctx, &bytesUpload{name: "a.jpg", data: first.Redacted}, policy.NewGuestPolicy())
	require.NoError(t, err)
	assert.False(t, second.Integrity.Changed)
	assert.Equal(t, first.Redacted, second.Redacted)
	assertNoArtifacts(t, root)
}

func TestPipeline_Clean_AllTogglesOff(t *testing.T) {
	ex := &lineExtractor{}
	p, _ := newTestPipeline(t, ex, nil)

	pol := policy.NewUserPolicy(uuid.New())
	pol.RemoveLocation = false
	pol.RemoveDevice = false
	pol.RemoveSoftware = false
	pol.RemovePersonal = false

	res, err := p.Clean(context.Background(), &bytesUpload{name: "a.jpg", data: []byte(photo)}, pol)
	require.NoError(t, err)
	assert.Empty(t, res.StrippedTags)
	assert.False(t, res.Integrity.Changed)
	assert.Equal(t, []byte(photo), res.Redacted)
	assert.Zero(t, ex.redactCalls)
	assert.Equal(t, 0, res.RemovedCount)
}

func TestPipeline_Clean_ToolWroteNothing(t *testing.T) {
	ex := &lineExtractor{skipOutput: true}
	p, _ := newTestPipeline(t, ex, nil)

	res, err := p.Clean(context.Background(), &bytesUpload{name: "a.jpg", data: []byte(photo)}, policy.NewGuestPolicy())
	require.NoError(t, err)
	assert.Equal(t, 1, ex.redactCalls)
	assert.False(t, res.Integrity.Changed)
	assert.Equal(t, []byte(photo), res.Redacted)
}

func TestPipeline_RedactionFailure(t *testing.T) {
	ex := &lineExtractor{redactErr: errors.New("exit status 1")}
	obs := &recordingObserver{}
	p, root := newTestPipeline(t, ex, obs)

	res, err := p.Clean(context.Background(), &bytesUpload{name: "a.jpg", data: []byte(photo)}, policy.NewGuestPolicy())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, metadata.ErrRedaction)
	assert.Equal(t, []string{OutcomeFailure}, obs.outcomes)
	assertNoArtifacts(t, root)
}

func TestPipeline_ExtractionFailureDegrades(t *testing.T) {
	ex := &lineExtractor{extractErr: fmt.Errorf("%w: not a supported file", metadata.ErrExtraction)}
	p, root := newTestPipeline(t, ex, nil)

	res, err := p.Analyze(context.Background(), &bytesUpload{name: "a.bin", data: []byte("opaque")}, policy.NewGuestPolicy())
	require.NoError(t, err)
	assert.Empty(t, res.Fields)
	assert.Equal(t, 0, res.TotalCount)
	assert.Equal(t, 0, res.RemainingCount)
	assert.Equal(t, metadata.RiskLow, res.Verdict.OverallRisk)
	assert.Equal(t, 0.0, res.Verdict.TotalScore)
	assert.False(t, res.Integrity.Changed)
	assertNoArtifacts(t, root)
}

func TestPipeline_StagingFailure(t *testing.T) {
	p, root := newTestPipeline(t, &lineExtractor{}, nil)

	_, err := p.Analyze(context.Background(), &bytesUpload{name: "a.jpg", openErr: errors.New("closed")}, nil)
	assert.ErrorIs(t, err, metadata.ErrStaging)
	assertNoArtifacts(t, root)
}

func TestPipeline_NoUpload(t *testing.T) {
	p, _ := newTestPipeline(t, &lineExtractor{}, nil)

	_, err := p.Clean(context.Background(), nil, nil)
	assert.ErrorIs(t, err, metadata.ErrNoFile)
}

func TestPipeline_CanceledContext(t *testing.T) {
	ex := &lineExtractor{}
	obs := &recordingObserver{}
	p, root := newTestPipeline(t, ex, obs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Clean(ctx, &bytesUpload{name: "a.jpg", data: []byte(photo)}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, ex.extractCalls)
	assert.Equal(t, []string{OutcomeCanceled}, obs.outcomes)
	assertNoArtifacts(t, root)
}

func TestPipeline_KeepsExtension(t *testing.T) {
	var seen string
	ex := &pathRecorder{lineExtractor: &lineExtractor{}, seen: &seen}
	p, _ := newTestPipeline(t, ex, nil)

	_, err := p.Analyze(context.Background(), &bytesUpload{name: "../../etc/Photo.HEIC", data: []byte(photo)}, nil)
	require.NoError(t, err)
	assert.Equal(t, ".HEIC", filepath.Ext(seen))
	assert.NotContains(t, seen, "etc")
}

type pathRecorder struct {
	*lineExtractor
	seen *string
}

func (r *pathRecorder) Extract(ctx context.Context, path string) ([]metadata.RawTag, error) {
	if *r.seen == "" {
		*r.seen = path
	}
	return r.lineExtractor.Extract(ctx, path)
}

func TestObservers_FanOut(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	obs := Observers(a, nil, b)

	obs.ObserveStage(ModeClean, StageStaged, time.Millisecond)
	obs.ObserveRun(ModeClean, OutcomeSuccess, nil, time.Millisecond)

	for _, o := range []*recordingObserver{a, b} {
		assert.Equal(t, []Stage{StageStaged}, o.stages)
		assert.Equal(t, []string{OutcomeSuccess}, o.outcomes)
	}
}
