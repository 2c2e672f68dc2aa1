package policy

import (
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
)

// Policy decides, field by field, which tags are stripped.
type Policy interface {
	Name() string
	ShouldStrip(field metadata.Field) bool
}

// StripSet returns the distinct tags of fields the policy strips, in field order.
func StripSet(p Policy, fields []metadata.Field) []string {
	seen := make(map[string]struct{}, len(fields))
	tags := make([]string, 0)
	for _, f := range fields {
		if !p.ShouldStrip(f) {
			continue
		}
		if _, ok := seen[f.Tag]; ok {
			continue
		}
		seen[f.Tag] = struct{}{}
		tags = append(tags, f.Tag)
	}
	return tags
}
