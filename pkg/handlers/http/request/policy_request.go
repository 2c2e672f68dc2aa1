package request

import (
	"errors"
	"fmt"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/policy"
	"github.com/mitchellh/mapstructure"
)

var ErrEmptyPatch = errors.New("no policy fields provided")

// DecodePolicyPatch turns a JSON object into a partial toggle update.
// Unknown keys and non boolean values are rejected.
func DecodePolicyPatch(body map[string]interface{}) (policy.Patch, error) {
	var patch policy.Patch
	if len(body) == 0 {
		return patch, ErrEmptyPatch
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &patch,
	})
	if err != nil {
		return patch, err
	}
	if err := decoder.Decode(body); err != nil {
		return patch, fmt.Errorf("invalid policy update: %w", err)
	}
	return patch, nil
}
