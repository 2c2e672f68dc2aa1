package events

import (
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/google/uuid"
)

// Event summarizes one pipeline run. It carries counts and verdicts only, never tag values or file names.
type Event struct {
	TraceID        string             `json:"trace_id"`
	Mode           string             `json:"mode"`
	Outcome        string             `json:"outcome"`
	FileType       string             `json:"file_type,omitempty"`
	FileSize       int64              `json:"file_size"`
	OverallRisk    metadata.RiskLevel `json:"overall_risk,omitempty"`
	TotalRiskScore float64            `json:"total_risk_score"`
	TotalCount     int                `json:"total_count"`
	PrivacyCount   int                `json:"privacy_count"`
	RemovedCount   int                `json:"removed_count"`
	RemainingCount int                `json:"remaining_count"`
	StrippedCount  int                `json:"stripped_count"`
	HashChanged    bool               `json:"hash_changed"`
	DurationMs     int64              `json:"duration_ms"`
	Timestamp      int64              `json:"timestamp"`
}

func NewEvent(mode, outcome string, res *metadata.Result, elapsed time.Duration) *Event {
	evt := &Event{
		TraceID:    uuid.NewString(),
		Mode:       mode,
		Outcome:    outcome,
		DurationMs: elapsed.Milliseconds(),
		Timestamp:  time.Now().Unix(),
	}
	if res == nil {
		return evt
	}
	evt.FileType = res.ContentType
	evt.FileSize = res.Size
	evt.OverallRisk = res.Verdict.OverallRisk
	evt.TotalRiskScore = res.Verdict.TotalScore
	evt.TotalCount = res.TotalCount
	evt.PrivacyCount = res.PrivacyCount
	evt.RemovedCount = res.RemovedCount
	evt.RemainingCount = res.RemainingCount
	evt.StrippedCount = len(res.StrippedTags)
	evt.HashChanged = res.Integrity.Changed
	return evt
}
