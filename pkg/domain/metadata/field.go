package metadata

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

type Category string

const (
	CategoryLocation  Category = "Location"
	CategoryPersonal  Category = "Personal"
	CategoryDevice    Category = "Device"
	CategoryTime      Category = "Time"
	CategoryTechnical Category = "Technical"
	CategoryOther     Category = "Other"
	// CategoryNetwork is never produced by the classifier but counts as privacy relevant.
	CategoryNetwork Category = "Network"
)

// RawTag is a single tag/value pair as reported by the extraction tool.
type RawTag struct {
	Name  string
	Value string
}

// Assessment is the classifier output for one tag/value pair.
type Assessment struct {
	RiskLevel RiskLevel
	Category  Category
	RiskScore float64
}

// Field is one extracted and classified metadata tag.
type Field struct {
	Tag       string    `json:"field"`
	Value     string    `json:"value"`
	RiskLevel RiskLevel `json:"risk"`
	Category  Category  `json:"category"`
	RiskScore float64   `json:"risk_score"`
	Removed   bool      `json:"removed"`
}

func NewField(tag, value string, a Assessment) Field {
	return Field{
		Tag:       tag,
		Value:     value,
		RiskLevel: a.RiskLevel,
		Category:  a.Category,
		RiskScore: a.RiskScore,
	}
}

// IsPrivacyRelevant reports whether the field counts towards the privacy counter.
func (f Field) IsPrivacyRelevant() bool {
	if f.RiskLevel != RiskHigh && f.RiskLevel != RiskMedium {
		return false
	}
	switch f.Category {
	case CategoryPersonal, CategoryLocation, CategoryNetwork:
		return true
	default:
		return false
	}
}
