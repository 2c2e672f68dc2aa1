package policy

import (
	"strings"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/google/uuid"
)

const UserPolicyName = "user"

var softwareHints = []string{"software"}

// UserPolicy holds the per-user category toggles.
type UserPolicy struct {
	ID             uuid.UUID `json:"-" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `json:"-" gorm:"type:uuid;uniqueIndex;not null"`
	RemoveLocation bool      `json:"remove_location"`
	RemoveDevice   bool      `json:"remove_device"`
	RemoveSoftware bool      `json:"remove_software"`
	RemovePersonal bool      `json:"remove_personal"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUserPolicy returns a policy with the default toggles.
func NewUserPolicy(userID uuid.UUID) *UserPolicy {
	return &UserPolicy{
		ID:             uuid.New(),
		UserID:         userID,
		RemoveLocation: true,
		RemoveDevice:   true,
		RemoveSoftware: false,
		RemovePersonal: true,
	}
}

func (p *UserPolicy) TableName() string {
	return "public.user_metadata_policies"
}

func (p *UserPolicy) Name() string {
	return UserPolicyName
}

func (p *UserPolicy) ShouldStrip(field metadata.Field) bool {
	switch field.Category {
	case metadata.CategoryLocation:
		return p.RemoveLocation
	case metadata.CategoryPersonal:
		return p.RemovePersonal
	case metadata.CategoryDevice:
		if IsSoftwareTag(field.Tag) {
			return p.RemoveSoftware
		}
		return p.RemoveDevice
	default:
		return false
	}
}

// Patch carries a partial toggle update; nil entries keep the stored value.
type Patch struct {
	RemoveLocation *bool `mapstructure:"remove_location"`
	RemoveDevice   *bool `mapstructure:"remove_device"`
	RemoveSoftware *bool `mapstructure:"remove_software"`
	RemovePersonal *bool `mapstructure:"remove_personal"`
}

func (p *UserPolicy) Apply(patch Patch) {
	if patch.RemoveLocation != nil {
		p.RemoveLocation = *patch.RemoveLocation
	}
	if patch.RemoveDevice != nil {
		p.RemoveDevice = *patch.RemoveDevice
	}
	if patch.RemoveSoftware != nil {
		p.RemoveSoftware = *patch.RemoveSoftware
	}
	if patch.RemovePersonal != nil {
		p.RemovePersonal = *patch.RemovePersonal
	}
}

// IsSoftwareTag reports whether a device tag names the producing software.
func IsSoftwareTag(tag string) bool {
	lower := strings.ToLower(tag)
	for _, h := range softwareHints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}
