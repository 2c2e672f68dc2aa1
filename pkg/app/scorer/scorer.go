// Package scorer combines per-field risk scores into an overall verdict.
package scorer

import (
	"math"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
)

const (
	highThreshold   = 25.0
	mediumThreshold = 10.0

	threeHighMultiplier  = 1.5
	twoHighMultiplier    = 1.3
	oneHighMultiplier    = 1.1
	manyMediumMultiplier = 1.2
	manyMediumCount      = 5
)

// Score sums the field scores, escalates them by how many high and medium
// fields are present and maps the result to an overall risk level.
func Score(fields []metadata.Field) metadata.Verdict {
	counts := metadata.NewRiskCounts()
	if len(fields) == 0 {
		return metadata.Verdict{OverallRisk: metadata.RiskLow, TotalScore: 0, RiskCounts: counts}
	}

	total := 0.0
	for _, f := range fields {
		counts[f.RiskLevel]++
		total += f.RiskScore
	}

	total = escalate(total, counts)

	return metadata.Verdict{
		OverallRisk: levelFor(total),
		TotalScore:  round2(total),
		RiskCounts:  counts,
	}
}

// Multiplier returns the escalation factor for the given risk counts.
func Multiplier(counts map[metadata.RiskLevel]int) float64 {
	return escalate(1.0, counts)
}

// escalate applies the high tier factor first, then the medium factor.
func escalate(total float64, counts map[metadata.RiskLevel]int) float64 {
	switch high := counts[metadata.RiskHigh]; {
	case high >= 3:
		total *= threeHighMultiplier
	case high >= 2:
		total *= twoHighMultiplier
	case high == 1:
		total *= oneHighMultiplier
	}
	if counts[metadata.RiskMedium] >= manyMediumCount {
		total *= manyMediumMultiplier
	}
	return total
}

func levelFor(total float64) metadata.RiskLevel {
	switch {
	case total >= highThreshold:
		return metadata.RiskHigh
	case total >= mediumThreshold:
		return metadata.RiskMedium
	default:
		return metadata.RiskLow
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
