package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeReplacesNilLists(t *testing.T) {
	h := &Hackathon{Title: "Hack Day", Winners: []Winner{{TeamName: "Bits"}}}
	Normalize(h)

	raw, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"prizes":[]`)
	assert.Contains(t, string(raw), `"gallery":[]`)
	assert.Contains(t, string(raw), `"members":[]`)
	assert.NotContains(t, string(raw), "null")
}

func TestNormalizeKeepsExistingLists(t *testing.T) {
	c := &Club{Name: "Aero Club", Achievements: []string{"Inter-IIT gold"}}
	Normalize(c)

	assert.Equal(t, []string{"Inter-IIT gold"}, c.Achievements)
	assert.Equal(t, []GalleryItem{}, c.Gallery)
	assert.Equal(t, []ClubMember{}, c.Team)

	// records without lists are left alone
	Normalize(&TeamMember{})
}
