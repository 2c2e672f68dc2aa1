package prometheus

import (
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/app/pipeline"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
)

type pipelineObserver struct{}

// NewPipelineObserver records pipeline runs into the registry.
func NewPipelineObserver() pipeline.Observer {
	return pipelineObserver{}
}

func (pipelineObserver) ObserveStage(mode pipeline.Mode, stage pipeline.Stage, elapsed time.Duration) {
	if !Config.EnablePipeline {
		return
	}
	PipelineStageLatency.WithLabelValues(string(mode), string(stage)).Observe(millis(elapsed))
}

func (pipelineObserver) ObserveRun(mode pipeline.Mode, outcome string, result *metadata.Result, elapsed time.Duration) {
	if !Config.EnablePipeline {
		return
	}
	m := string(mode)
	PipelineRunsTotal.WithLabelValues(m, outcome).Inc()
	PipelineRunLatency.WithLabelValues(m).Observe(millis(elapsed))
	if result == nil {
		return
	}
	OverallRiskTotal.WithLabelValues(m, string(result.Verdict.OverallRisk)).Inc()
	StrippedTagsTotal.WithLabelValues(m).Add(float64(len(result.StrippedTags)))
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
