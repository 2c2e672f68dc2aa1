package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/app/pipeline"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExporter struct {
	mu      sync.Mutex
	name    string
	events  []*Event
	err     error
	closed  bool
	invalid error
}

func (e *recordingExporter) Name() string { return e.name }

func (e *recordingExporter) ValidateConfig(map[string]interface{}) error { return e.invalid }

func (e *recordingExporter) WithSettings(map[string]interface{}) (Exporter, error) { return e, nil }

func (e *recordingExporter) Handle(_ context.Context, evt *Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evt)
	return e.err
}

func (e *recordingExporter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func sampleResult() *metadata.Result {
	return &metadata.Result{
		FileName:     "holiday.jpg",
		ContentType:  "image/jpeg",
		Size:         2048,
		Fields:       []metadata.Field{{Tag: "Author", Value: "John Smith"}},
		Verdict:      metadata.Verdict{OverallRisk: metadata.RiskHigh, TotalScore: 4.5},
		TotalCount:   1,
		PrivacyCount: 1,
		RemovedCount: 1,
		StrippedTags: []string{"Author"},
		Integrity:    metadata.IntegrityProof{HashBefore: "a", HashAfter: "b", Changed: true},
	}
}

func TestNewEvent_CarriesNoValues(t *testing.T) {
	evt := NewEvent("clean", pipeline.OutcomeSuccess, sampleResult(), 1500*time.Millisecond)

	assert.NotEmpty(t, evt.TraceID)
	assert.Equal(t, int64(1500), evt.DurationMs)
	assert.Equal(t, metadata.RiskHigh, evt.OverallRisk)
	assert.Equal(t, 1, evt.StrippedCount)
	assert.True(t, evt.HashChanged)

	raw, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "John Smith")
	assert.NotContains(t, string(raw), "holiday")
	assert.NotContains(t, string(raw), "Author")
}

func TestNewEvent_FailedRun(t *testing.T) {
	evt := NewEvent("analyze", pipeline.OutcomeFailure, nil, time.Second)
	assert.Equal(t, pipeline.OutcomeFailure, evt.Outcome)
	assert.Zero(t, evt.TotalCount)
}

func TestExporterLocator(t *testing.T) {
	good := &recordingExporter{name: "good"}
	bad := &recordingExporter{name: "bad", invalid: errors.New("host is required")}
	locator := NewExporterLocator(WithExporter(good), WithExporter(bad))

	exp, err := locator.GetExporter("good", nil)
	require.NoError(t, err)
	assert.Same(t, good, exp)

	_, err = locator.GetExporter("bad", nil)
	assert.EqualError(t, err, "host is required")

	_, err = locator.GetExporter("missing", nil)
	assert.EqualError(t, err, "unknown exporter: missing")
}

func TestPublisher_DrainsOnShutdown(t *testing.T) {
	exp := &recordingExporter{name: "rec"}
	pub := NewPublisher(quietLogger(), exp)
	pub.StartWorkers(2)

	for i := 0; i < 10; i++ {
		pub.ObserveRun(pipeline.ModeAnalyze, pipeline.OutcomeSuccess, sampleResult(), time.Millisecond)
	}
	pub.Shutdown()

	assert.Len(t, exp.events, 10)
	assert.True(t, exp.closed)

	pub.Publish(NewEvent("analyze", pipeline.OutcomeSuccess, nil, 0))
	pub.Shutdown()
	assert.Len(t, exp.events, 10)
}

func TestPublisher_ExporterErrorIsLogged(t *testing.T) {
	exp := &recordingExporter{name: "rec", err: errors.New("broker down")}
	pub := NewPublisher(quietLogger(), exp)
	pub.StartWorkers(1)
	pub.Publish(NewEvent("clean", pipeline.OutcomeSuccess, nil, 0))
	pub.Shutdown()
	assert.Len(t, exp.events, 1)
}

func TestLogExporter(t *testing.T) {
	exp := NewLogExporter(quietLogger())
	require.NoError(t, exp.ValidateConfig(nil))
	assert.NoError(t, exp.Handle(context.Background(), NewEvent("clean", pipeline.OutcomeSuccess, sampleResult(), 0)))
}
