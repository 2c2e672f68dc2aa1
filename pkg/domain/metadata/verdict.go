package metadata

// Verdict summarizes a field set. It is always derived, never stored on its own.
type Verdict struct {
	OverallRisk RiskLevel         `json:"overall_risk"`
	TotalScore  float64           `json:"total_risk_score"`
	RiskCounts  map[RiskLevel]int `json:"risk_counts"`
}

func NewRiskCounts() map[RiskLevel]int {
	return map[RiskLevel]int{
		RiskHigh:   0,
		RiskMedium: 0,
		RiskLow:    0,
	}
}

// IntegrityProof is the before/after digest pair of one pipeline run.
type IntegrityProof struct {
	HashBefore string `json:"sha256_before"`
	HashAfter  string `json:"sha256_after,omitempty"`
	Changed    bool   `json:"hash_changed"`
}

func NewIntegrityProof(before, after string) IntegrityProof {
	return IntegrityProof{
		HashBefore: before,
		HashAfter:  after,
		Changed:    before != after,
	}
}

// WithoutAfter returns the proof as reported by analyze-only runs.
func (p IntegrityProof) WithoutAfter() IntegrityProof {
	return IntegrityProof{HashBefore: p.HashBefore, Changed: p.Changed}
}
