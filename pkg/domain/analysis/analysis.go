package analysis

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// FieldsJSON is the raw metadata snapshot stored as jsonb.
type FieldsJSON []metadata.Field

func (f FieldsJSON) Value() (driver.Value, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(f)
}

func (f *FieldsJSON) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("expected []byte, got %T", value)
	}
	return json.Unmarshal(data, f)
}

// FileAnalysis is one analyzed upload of a registered user.
type FileAnalysis struct {
	ID           uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID          `json:"-" gorm:"type:uuid;index:idx_file_analyses_user_scanned,priority:1;not null"`
	FileName     string             `json:"file_name"`
	FileType     string             `json:"file_type"`
	FileSize     int64              `json:"file_size"`
	SHA256Before string             `json:"sha256_before" gorm:"column:sha256_before"`
	SHA256After  *string            `json:"sha256_after" gorm:"column:sha256_after"`
	MetadataRaw  FieldsJSON         `json:"metadata_raw" gorm:"type:jsonb"`
	RemovedTags  pq.StringArray     `json:"metadata_removed" gorm:"type:text[]"`
	RiskLevel    metadata.RiskLevel `json:"risk_level"`
	RiskScore    float64            `json:"total_risk_score"`
	Fields       []Field            `json:"metadata_fields" gorm:"foreignKey:AnalysisID;constraint:OnDelete:CASCADE"`
	ScannedAt    time.Time          `json:"scanned_at" gorm:"index:idx_file_analyses_user_scanned,priority:2,sort:desc"`
	CleanedAt    *time.Time         `json:"cleaned_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func (a *FileAnalysis) TableName() string {
	return "public.file_analyses"
}

func (a *FileAnalysis) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()
	if a.ScannedAt.IsZero() {
		a.ScannedAt = now
	}
	a.UpdatedAt = now
	if a.UserID == uuid.Nil {
		return fmt.Errorf("analysis owner is required")
	}
	return nil
}

func (a *FileAnalysis) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return nil
}

// Field is the per-tag row kept for history views.
type Field struct {
	ID         uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	AnalysisID uuid.UUID          `json:"-" gorm:"type:uuid;index:idx_metadata_fields_analysis_category,priority:1;not null"`
	Tag        string             `json:"tag"`
	Value      string             `json:"value"`
	Category   metadata.Category  `json:"category" gorm:"index:idx_metadata_fields_analysis_category,priority:2"`
	RiskLevel  metadata.RiskLevel `json:"risk_level"`
	Removed    bool               `json:"removed"`
}

func (f *Field) TableName() string {
	return "public.metadata_fields"
}

func (f *Field) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// NewFromResult builds the record stored after an analyze run.
func NewFromResult(userID uuid.UUID, res *metadata.Result) *FileAnalysis {
	fileType := res.ContentType
	if fileType == "" {
		fileType = "unknown"
	}
	a := &FileAnalysis{
		ID:           uuid.New(),
		UserID:       userID,
		FileName:     res.FileName,
		FileType:     fileType,
		FileSize:     res.Size,
		SHA256Before: res.Integrity.HashBefore,
		MetadataRaw:  FieldsJSON(res.Fields),
		RiskLevel:    res.Verdict.OverallRisk,
		RiskScore:    res.Verdict.TotalScore,
		RemovedTags:  pq.StringArray{},
		Fields:       make([]Field, 0, len(res.Fields)),
	}
	for _, f := range res.Fields {
		a.Fields = append(a.Fields, Field{
			AnalysisID: a.ID,
			Tag:        f.Tag,
			Value:      f.Value,
			Category:   f.Category,
			RiskLevel:  f.RiskLevel,
		})
	}
	return a
}

// CleanedUpdate is what a clean run changes on a stored analysis.
type CleanedUpdate struct {
	SHA256After string
	CleanedAt   time.Time
	RemovedTags []string
}
