package prometheus

import (
	"testing"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/app/pipeline"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPipelineObserver(t *testing.T) {
	Config = MetricsConfig{EnablePipeline: true}
	t.Cleanup(func() { Config = MetricsConfig{} })

	obs := NewPipelineObserver()
	runs := PipelineRunsTotal.WithLabelValues("clean", pipeline.OutcomeSuccess)
	risk := OverallRiskTotal.WithLabelValues("clean", string(metadata.RiskHigh))
	stripped := StrippedTagsTotal.WithLabelValues("clean")
	beforeRuns, beforeRisk, beforeStripped := testutil.ToFloat64(runs), testutil.ToFloat64(risk), testutil.ToFloat64(stripped)

	obs.ObserveStage(pipeline.ModeClean, pipeline.StageStaged, 3*time.Millisecond)
	obs.ObserveRun(pipeline.ModeClean, pipeline.OutcomeSuccess, &metadata.Result{
		Verdict:      metadata.Verdict{OverallRisk: metadata.RiskHigh},
		StrippedTags: []string{"Author", "GPSLatitude"},
	}, 20*time.Millisecond)

	assert.Equal(t, beforeRuns+1, testutil.ToFloat64(runs))
	assert.Equal(t, beforeRisk+1, testutil.ToFloat64(risk))
	assert.Equal(t, beforeStripped+2, testutil.ToFloat64(stripped))
}

func TestPipelineObserver_Disabled(t *testing.T) {
	Config = MetricsConfig{}
	runs := PipelineRunsTotal.WithLabelValues("analyze", pipeline.OutcomeFailure)
	before := testutil.ToFloat64(runs)

	NewPipelineObserver().ObserveRun(pipeline.ModeAnalyze, pipeline.OutcomeFailure, nil, time.Millisecond)
	assert.Equal(t, before, testutil.ToFloat64(runs))
}
