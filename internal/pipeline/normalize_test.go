package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHunterPayload(t *testing.T) {
	r, err := Normalize(RawPayload{
		Provider: "hunter",
		Domain:   "techcrunch.com",
		Fields: map[string]any{
			"value":      "Jane.Doe@TechCrunch.com",
			"first_name": "Jane",
			"last_name":  "Doe",
			"position":   "Senior Editor",
			"linkedin":   "in/janedoe",
			"twitter":    "@janed",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "jane.doe@techcrunch.com", r.Email)
	assert.Equal(t, "Jane Doe", r.FullName)
	assert.Equal(t, "Senior Editor", r.JobTitle)
	assert.Equal(t, "Tech Media", r.Platform)
	assert.Equal(t, "janedoe", r.Handle("linkedin"))
	assert.Equal(t, "janed", r.Handle("twitter"))
	assert.Equal(t, "hunter - techcrunch.com", r.Source)
	assert.Equal(t, "jane.doe@techcrunch.com", r.IdentityKey)
}

func TestNormalizeAssistantPayload(t *testing.T) {
	r, err := Normalize(RawPayload{
		Provider: "assistant",
		Domain:   "beautyblog.com",
		Source:   "assistant - beauty search",
		Fields: map[string]any{
			"full_name":        "Ana Poe",
			"domain_niche":     "Skincare content",
			"location":         "Los Angeles, CA",
			"followers":        "250K",
			"instagram_handle": "@anapoe",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana", r.FirstName)
	assert.Equal(t, "Poe", r.LastName)
	assert.Equal(t, "anapoe", r.Handle("instagram"))
	assert.Equal(t, 250000, r.FollowerCount)
	assert.Equal(t, "250K", r.Followers)
	assert.Equal(t, "assistant - beauty search", r.Source)
	assert.Equal(t, "instagram:anapoe", r.IdentityKey)
}

func TestNormalizeNumericFollowers(t *testing.T) {
	// JSON decoding hands numbers over as float64.
	r, err := Normalize(RawPayload{
		Provider: "assistant",
		Domain:   "example.org",
		Fields: map[string]any{
			"full_name": "John Roe",
			"followers": float64(120000),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 120000, r.FollowerCount)
}

func TestNormalizeUnknownProviderGeneric(t *testing.T) {
	r, err := Normalize(RawPayload{
		Provider: "mystery",
		Domain:   "example.org",
		Fields: map[string]any{
			"name":   "John Roe",
			"handle": "@johnroe",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "John Roe", r.FullName)
	assert.Equal(t, "johnroe", r.Handle("twitter"))
}

func TestNormalizeMalformed(t *testing.T) {
	_, err := Normalize(RawPayload{
		Provider: "hunter",
		Domain:   "example.org",
		Fields:   map[string]any{"position": "Editor"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestNormalizeIdempotent(t *testing.T) {
	payload := RawPayload{
		Provider: "hunter",
		Domain:   "forbes.com",
		Fields: map[string]any{
			"value":      "j.roe@forbes.com",
			"first_name": "John",
			"last_name":  "Roe",
		},
	}
	first, err := Normalize(payload)
	require.NoError(t, err)
	second, err := Normalize(payload)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestIdentifyPlatform(t *testing.T) {
	tests := []struct {
		domain string
		want   string
	}{
		{"techcrunch.com", "Tech Media"},
		{"forbes.com", "Business Media"},
		{"blog.hubspot.com", "Marketing"},
		{"linkedin.com", "Social Media Platform"},
		{"upfluence.com", "Influencer Platform"},
		{"medium.com", "Content Platform"},
		{"example.org", "Other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IdentifyPlatform(tt.domain), tt.domain)
	}
}
