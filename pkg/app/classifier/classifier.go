// Package classifier scores single metadata tags by privacy risk.
package classifier

import (
	"strings"
	"unicode/utf8"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
)

var (
	technical = metadata.Assessment{RiskLevel: metadata.RiskLow, Category: metadata.CategoryTechnical, RiskScore: 1.0}
	location  = metadata.Assessment{RiskLevel: metadata.RiskHigh, Category: metadata.CategoryLocation, RiskScore: 9.5}
	contact   = metadata.Assessment{RiskLevel: metadata.RiskHigh, Category: metadata.CategoryPersonal, RiskScore: 9.5}
	nameHigh  = metadata.Assessment{RiskLevel: metadata.RiskHigh, Category: metadata.CategoryPersonal, RiskScore: 8.5}
	nameMid   = metadata.Assessment{RiskLevel: metadata.RiskMedium, Category: metadata.CategoryPersonal, RiskScore: 6.0}
	nameLow   = metadata.Assessment{RiskLevel: metadata.RiskMedium, Category: metadata.CategoryPersonal, RiskScore: 4.5}
	device    = metadata.Assessment{RiskLevel: metadata.RiskMedium, Category: metadata.CategoryDevice, RiskScore: 4.0}
	timestamp = metadata.Assessment{RiskLevel: metadata.RiskLow, Category: metadata.CategoryTime, RiskScore: 2.5}
)

// Classify assigns a risk level, category and score to a tag/value pair.
// Checks run in a fixed order and the first match wins, so a tag such as
// "GPSProfile" is reported as technical because of "profile".
func Classify(tag, value string) metadata.Assessment {
	tagLower := strings.ToLower(tag)
	trimmed := strings.TrimSpace(value)
	valueLower := strings.ToLower(trimmed)

	if containsAny(tagLower, safeTechnicalHints) {
		return technical
	}

	if containsAny(tagLower, locationHints) {
		return location
	}

	if emailPattern.MatchString(valueLower) || phonePattern.MatchString(valueLower) {
		return contact
	}

	switch confidence := nameConfidence(tagLower, trimmed); {
	case confidence >= 4:
		return nameHigh
	case confidence == 3:
		return nameMid
	case confidence == 2:
		return nameLow
	}

	if containsAny(tagLower, deviceHints) {
		return device
	}

	if containsAny(tagLower, timeHints) {
		return timestamp
	}

	return technical
}

// ClassifyField builds a metadata.Field out of a raw tag.
func ClassifyField(tag metadata.RawTag) metadata.Field {
	return metadata.NewField(tag.Name, tag.Value, Classify(tag.Name, tag.Value))
}

func nameConfidence(tagLower, value string) int {
	score := 0
	if containsAny(tagLower, nameFieldHints) {
		score += 2
	}
	if humanNamePattern.MatchString(value) {
		score += 2
	}
	if value != "" && utf8.RuneCountInString(value) < shortValueLimit && !digitRunPattern.MatchString(value) {
		score++
	}
	return score
}

func containsAny(s string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(s, h) {
			return true
		}
	}
	return false
}
