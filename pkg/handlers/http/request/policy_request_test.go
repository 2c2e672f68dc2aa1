package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePolicyPatch(t *testing.T) {
	patch, err := DecodePolicyPatch(map[string]interface{}{"remove_software": true})
	require.NoError(t, err)
	require.NotNil(t, patch.RemoveSoftware)
	assert.True(t, *patch.RemoveSoftware)
	assert.Nil(t, patch.RemoveLocation)
	assert.Nil(t, patch.RemoveDevice)
	assert.Nil(t, patch.RemovePersonal)
}

func TestDecodePolicyPatch_Errors(t *testing.T) {
	_, err := DecodePolicyPatch(map[string]interface{}{})
	assert.ErrorIs(t, err, ErrEmptyPatch)

	_, err = DecodePolicyPatch(map[string]interface{}{"remove_everything": true})
	assert.Error(t, err)

	_, err = DecodePolicyPatch(map[string]interface{}{"remove_device": "yes"})
	assert.Error(t, err)
}
