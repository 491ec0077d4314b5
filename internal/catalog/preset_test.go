package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPreset(t *testing.T) {
	presets := []Preset{{ID: "minimal"}, {ID: "gaming"}}

	p, err := FindPreset(presets, "gaming")
	require.NoError(t, err)
	assert.Equal(t, "gaming", p.ID)

	_, err = FindPreset(presets, "extreme")
	assert.EqualError(t, err, `preset "extreme" not found`)
}

func TestExpandPreset_FiltersUnknownAndKeepsOrder(t *testing.T) {
	s, err := NewStore(sampleEntries())
	require.NoError(t, err)

	ids, unknown := s.ExpandPreset(Preset{
		ID:    "p",
		Items: []string{"weather", "gone", "xbox", "weather"},
	})
	assert.Equal(t, []string{"weather", "xbox"}, ids)
	assert.Equal(t, []string{"gone"}, unknown)
}
