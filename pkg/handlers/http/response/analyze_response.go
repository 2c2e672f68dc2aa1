package response

import (
	"math"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/app/quota"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/analysis"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/google/uuid"
)

type BeforeCounts struct {
	Total   int `json:"total"`
	Privacy int `json:"privacy"`
}

type AfterCounts struct {
	Remaining int `json:"remaining"`
	Removed   int `json:"removed"`
}

type GuestUsage struct {
	Used            int64 `json:"used"`
	Limit           int64 `json:"limit"`
	Remaining       int64 `json:"remaining"`
	ResetsInSeconds int64 `json:"resets_in_seconds"`
}

type AnalyzeResponse struct {
	ID             *uuid.UUID                 `json:"id,omitempty"`
	FileName       string                     `json:"file_name"`
	FileType       string                     `json:"file_type"`
	FileSize       int64                      `json:"file_size"`
	Metadata       []metadata.Field           `json:"metadata"`
	Before         BeforeCounts               `json:"before"`
	After          AfterCounts                `json:"after"`
	HashChanged    bool                       `json:"hash_changed"`
	OverallRisk    metadata.RiskLevel         `json:"overall_risk"`
	TotalRiskScore float64                    `json:"total_risk_score"`
	RiskCounts     map[metadata.RiskLevel]int `json:"risk_counts"`
	SHA256Before   string                     `json:"sha256_before"`
	StrippedTags   []string                   `json:"stripped_tags"`
	ScannedAt      *time.Time                 `json:"scanned_at,omitempty"`
	Guest          *GuestUsage                `json:"guest,omitempty"`
}

func NewAnalyzeResponse(res *metadata.Result) *AnalyzeResponse {
	fields := res.Fields
	if fields == nil {
		fields = []metadata.Field{}
	}
	stripped := res.StrippedTags
	if stripped == nil {
		stripped = []string{}
	}
	counts := res.Verdict.RiskCounts
	if counts == nil {
		counts = metadata.NewRiskCounts()
	}
	return &AnalyzeResponse{
		FileName:       res.FileName,
		FileType:       res.ContentType,
		FileSize:       res.Size,
		Metadata:       fields,
		Before:         BeforeCounts{Total: res.TotalCount, Privacy: res.PrivacyCount},
		After:          AfterCounts{Remaining: res.RemainingCount, Removed: res.RemovedCount},
		HashChanged:    res.Integrity.Changed,
		OverallRisk:    res.Verdict.OverallRisk,
		TotalRiskScore: res.Verdict.TotalScore,
		RiskCounts:     counts,
		SHA256Before:   res.Integrity.HashBefore,
		StrippedTags:   stripped,
	}
}

func (r *AnalyzeResponse) WithGuestUsage(u *quota.Usage) *AnalyzeResponse {
	if u == nil {
		return r
	}
	r.Guest = &GuestUsage{
		Used:            u.Used,
		Limit:           u.Limit,
		Remaining:       u.Remaining,
		ResetsInSeconds: int64(math.Ceil(u.ResetsIn.Seconds())),
	}
	return r
}

func (r *AnalyzeResponse) WithRecord(a *analysis.FileAnalysis) *AnalyzeResponse {
	if a == nil {
		return r
	}
	id := a.ID
	scannedAt := a.ScannedAt
	r.ID = &id
	r.ScannedAt = &scannedAt
	r.FileName = a.FileName
	return r
}

type HistoryResponse struct {
	Files  []analysis.FileAnalysis `json:"files"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
}

func NewHistoryResponse(files []analysis.FileAnalysis, limit, offset int) *HistoryResponse {
	if files == nil {
		files = []analysis.FileAnalysis{}
	}
	return &HistoryResponse{Files: files, Limit: limit, Offset: offset}
}
