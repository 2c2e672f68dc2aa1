package policy

import (
	"strings"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
)

const GuestPolicyName = "guest"

var guestRemove = []string{
	// personal identity
	"Author",
	"Creator",
	"Owner",
	"LastModifiedBy",
	"Company",
	"Manager",
	"UserComment",

	// location
	"GPSLatitude",
	"GPSLongitude",
	"GPSAltitude",
	"GPSPosition",
	"GPSProcessingMethod",
	"City",
	"State",
	"Country",
	"Location",
	"Sub-location",
}

var guestKeep = []string{
	"CreateDate",
	"ModifyDate",
	"FileType",
	"FileSize",
	"MimeType",
	"ImageWidth",
	"ImageHeight",
	"ColorSpace",
	"C2PA",
}

// TagListPolicy strips tags on its remove list unless they are on its keep
// list. Unlisted tags are kept.
type TagListPolicy struct {
	name   string
	remove map[string]struct{}
	keep   map[string]struct{}
}

// NewGuestPolicy returns the fixed policy applied to anonymous uploads.
func NewGuestPolicy() *TagListPolicy {
	return NewTagListPolicy(GuestPolicyName, guestRemove, guestKeep)
}

// NewTagListPolicy builds a tag list policy. Tag names are compared case-insensitively.
func NewTagListPolicy(name string, remove, keep []string) *TagListPolicy {
	return &TagListPolicy{
		name:   name,
		remove: toSet(remove),
		keep:   toSet(keep),
	}
}

func (p *TagListPolicy) Name() string {
	return p.name
}

func (p *TagListPolicy) ShouldStrip(field metadata.Field) bool {
	tag := strings.ToLower(field.Tag)
	if _, ok := p.keep[tag]; ok {
		return false
	}
	_, ok := p.remove[tag]
	return ok
}

func toSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}
