package pipeline

import (
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
)

type Stage string

const (
	StageStaged       Stage = "staged"
	StageExtracted    Stage = "extracted"
	StageClassified   Stage = "classified"
	StageHashedBefore Stage = "hashed_before"
	StageRedacted     Stage = "redacted"
	StageReExtracted  Stage = "re_extracted"
	StageHashedAfter  Stage = "hashed_after"
	StageDone         Stage = "done"
)

// Stages lists every stage in execution order.
var Stages = []Stage{
	StageStaged,
	StageExtracted,
	StageClassified,
	StageHashedBefore,
	StageRedacted,
	StageReExtracted,
	StageHashedAfter,
	StageDone,
}

type Mode string

const (
	ModeAnalyze Mode = "analyze"
	ModeClean   Mode = "clean"
)

const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeCanceled = "canceled"
)

// Observer receives timings of a run. Implementations must be safe for concurrent use.
type Observer interface {
	ObserveStage(mode Mode, stage Stage, elapsed time.Duration)
	// ObserveRun is called once per run. result is nil when the run failed.
	ObserveRun(mode Mode, outcome string, result *metadata.Result, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveStage(Mode, Stage, time.Duration) {}

func (noopObserver) ObserveRun(Mode, string, *metadata.Result, time.Duration) {}

type multiObserver []Observer

// Observers fans every callback out to each non-nil observer in order.
func Observers(observers ...Observer) Observer {
	out := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multiObserver) ObserveStage(mode Mode, stage Stage, elapsed time.Duration) {
	for _, o := range m {
		o.ObserveStage(mode, stage, elapsed)
	}
}

func (m multiObserver) ObserveRun(mode Mode, outcome string, result *metadata.Result, elapsed time.Duration) {
	for _, o := range m {
		o.ObserveRun(mode, outcome, result, elapsed)
	}
}
