package scorer

import (
	"testing"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/stretchr/testify/assert"
)

func field(level metadata.RiskLevel, score float64) metadata.Field {
	return metadata.Field{RiskLevel: level, RiskScore: score}
}

func TestScore_Empty(t *testing.T) {
	verdict := Score(nil)

	assert.Equal(t, metadata.RiskLow, verdict.OverallRisk)
	assert.Equal(t, 0.0, verdict.TotalScore)
	assert.Equal(t, map[metadata.RiskLevel]int{metadata.RiskHigh: 0, metadata.RiskMedium: 0, metadata.RiskLow: 0}, verdict.RiskCounts)
}

func TestScore_ThreeHighOneMedium(t *testing.T) {
	fields := []metadata.Field{
		field(metadata.RiskHigh, 9.5),
		field(metadata.RiskHigh, 9.5),
		field(metadata.RiskHigh, 9.5),
		field(metadata.RiskMedium, 4.0),
	}

	verdict := Score(fields)

	assert.Equal(t, metadata.RiskHigh, verdict.OverallRisk)
	assert.Equal(t, 49.5, verdict.TotalScore)
	assert.Equal(t, 3, verdict.RiskCounts[metadata.RiskHigh])
	assert.Equal(t, 1, verdict.RiskCounts[metadata.RiskMedium])
	assert.Equal(t, 0, verdict.RiskCounts[metadata.RiskLow])
}

func TestScore_Thresholds(t *testing.T) {
	tests := []struct {
		name          string
		fields        []metadata.Field
		expectedRisk  metadata.RiskLevel
		expectedTotal float64
	}{
		{
			name:          "low only",
			fields:        []metadata.Field{field(metadata.RiskLow, 1.0), field(metadata.RiskLow, 2.5)},
			expectedRisk:  metadata.RiskLow,
			expectedTotal: 3.5,
		},
		{
			name:          "single high escalates by 1.1",
			fields:        []metadata.Field{field(metadata.RiskHigh, 9.5)},
			expectedRisk:  metadata.RiskMedium,
			expectedTotal: 10.45,
		},
		{
			name:          "two high escalates by 1.3",
			fields:        []metadata.Field{field(metadata.RiskHigh, 9.5), field(metadata.RiskHigh, 8.5)},
			expectedRisk:  metadata.RiskMedium,
			expectedTotal: 23.4,
		},
		{
			name: "five medium escalates by 1.2",
			fields: []metadata.Field{
				field(metadata.RiskMedium, 4.0), field(metadata.RiskMedium, 4.0), field(metadata.RiskMedium, 4.0),
				field(metadata.RiskMedium, 4.0), field(metadata.RiskMedium, 4.0),
			},
			expectedRisk:  metadata.RiskMedium,
			expectedTotal: 24.0,
		},
		{
			name: "medium multiplier stacks with high",
			fields: []metadata.Field{
				field(metadata.RiskHigh, 9.5),
				field(metadata.RiskMedium, 4.0), field(metadata.RiskMedium, 4.0), field(metadata.RiskMedium, 4.0),
				field(metadata.RiskMedium, 4.0), field(metadata.RiskMedium, 4.0),
			},
			expectedRisk:  metadata.RiskHigh,
			expectedTotal: 38.94,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Score(tt.fields)
			assert.Equal(t, tt.expectedRisk, verdict.OverallRisk)
			assert.InDelta(t, tt.expectedTotal, verdict.TotalScore, 1e-9)
		})
	}
}

func TestScore_MonotonicInHighFields(t *testing.T) {
	var fields []metadata.Field
	previous := Score(fields).TotalScore
	for i := 0; i < 6; i++ {
		fields = append(fields, field(metadata.RiskHigh, 9.5))
		current := Score(fields).TotalScore
		assert.GreaterOrEqual(t, current, previous, "after %d high fields", i+1)
		previous = current
	}
}

func TestMultiplier_ThirdHighStep(t *testing.T) {
	two := Multiplier(map[metadata.RiskLevel]int{metadata.RiskHigh: 2})
	three := Multiplier(map[metadata.RiskLevel]int{metadata.RiskHigh: 3})

	assert.Greater(t, three, two)
	assert.Equal(t, 1.5, three)
	assert.Equal(t, 1.3, two)
}
