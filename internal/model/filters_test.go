package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowerThreshold_Unmarshal(t *testing.T) {
	var f FilterSet
	require.NoError(t, json.Unmarshal([]byte(`{"min_followers": 25000}`), &f))
	assert.Equal(t, FollowerThreshold(25_000), f.MinFollowers)

	require.NoError(t, json.Unmarshal([]byte(`{"min_followers": "25K"}`), &f))
	assert.Equal(t, FollowerThreshold(25_000), f.MinFollowers)

	require.NoError(t, json.Unmarshal([]byte(`{"min_followers": "garbage"}`), &f))
	assert.Equal(t, FollowerThreshold(0), f.MinFollowers)
}

func TestWantsPlatform(t *testing.T) {
	f := FilterSet{Platforms: []string{"Instagram", "X"}}
	assert.True(t, f.WantsPlatform("instagram"))
	assert.True(t, f.WantsPlatform("twitter"))
	assert.False(t, f.WantsPlatform("linkedin"))

	assert.True(t, FilterSet{}.WantsPlatform("youtube"))
}

func TestFilterSet_IsZero(t *testing.T) {
	assert.True(t, FilterSet{}.IsZero())
	assert.False(t, FilterSet{Industry: "Technology"}.IsZero())
}
