package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-labs/influencer-cli/internal/model"
)

func candidates() []model.ContactRecord {
	return []model.ContactRecord{
		{
			FullName:    "Ana Poe",
			DomainNiche: "Skincare tutorials",
			Location:    "Los Angeles, CA",
			Followers:   "250K",
		},
		{
			FullName:    "John Roe",
			DomainNiche: "Tech reviews",
			Location:    "Austin, TX",
			Followers:   "50K",
		},
		{
			FullName:    "Nina Vee",
			DomainNiche: "Skincare and makeup",
			Location:    "Los Angeles, CA",
			Followers:   "8K",
		},
	}
}

func TestApplyFiltersLocation(t *testing.T) {
	out := ApplyFilters(candidates(), model.FilterSet{Location: "los angeles"}, PolicyStrict)
	require.Len(t, out, 1)
	assert.Equal(t, "Ana Poe", out[0].FullName)
}

func TestApplyFiltersImplicitFollowerFloor(t *testing.T) {
	// No explicit threshold: the 10k floor removes the 8K account.
	out := ApplyFilters(candidates(), model.FilterSet{}, PolicyStrict)
	require.Len(t, out, 2)
	for _, r := range out {
		assert.NotEqual(t, "Nina Vee", r.FullName)
	}
}

func TestApplyFiltersExplicitThreshold(t *testing.T) {
	out := ApplyFilters(candidates(), model.FilterSet{MinFollowers: 100_000}, PolicyStrict)
	require.Len(t, out, 1)
	assert.Equal(t, "Ana Poe", out[0].FullName)
}

func TestApplyFiltersBestEffortKeepsCandidates(t *testing.T) {
	// No candidate matches this product type; best-effort skips the filter.
	filters := model.FilterSet{ProductType: "powerboats"}

	strict := ApplyFilters(candidates(), filters, PolicyStrict)
	assert.Empty(t, strict)

	lenient := ApplyFilters(candidates(), filters, PolicyBestEffort)
	assert.Len(t, lenient, 2, "floor still applies, product filter skipped")
}

func TestApplyFiltersBestEffortImplicitFloor(t *testing.T) {
	small := []model.ContactRecord{{FullName: "Nina Vee", Followers: "8K"}}

	assert.Empty(t, ApplyFilters(small, model.FilterSet{}, PolicyStrict))
	assert.Len(t, ApplyFilters(small, model.FilterSet{}, PolicyBestEffort), 1,
		"implicit floor yields to best-effort")
	assert.Empty(t, ApplyFilters(small, model.FilterSet{MinFollowers: 10_000}, PolicyBestEffort),
		"explicit threshold always binds")
}

func TestBuildRecommendationRanksAndGroups(t *testing.T) {
	filters := model.FilterSet{ProductType: "skincare"}
	rec := BuildRecommendation(candidates(), filters, PolicyBestEffort, 20)

	require.NotEmpty(t, rec.Records)
	for i := 1; i < len(rec.Records); i++ {
		assert.GreaterOrEqual(t, rec.Records[i-1].MatchScore, rec.Records[i].MatchScore)
	}
	assert.Equal(t, "Ana Poe", rec.Records[0].FullName, "product match outranks the rest")

	assert.Len(t, rec.Tiers, len(model.Tiers()), "every tier key is present")
	total := 0
	for _, n := range rec.TierCounts {
		total += n
	}
	assert.Equal(t, len(rec.Records), total)
	assert.Empty(t, rec.Suggestion)
}

func TestBuildRecommendationLimit(t *testing.T) {
	rec := BuildRecommendation(candidates(), model.FilterSet{}, PolicyBestEffort, 1)
	assert.Len(t, rec.Records, 1)
}

func TestBuildRecommendationMasksUnselectedHandles(t *testing.T) {
	source := []model.ContactRecord{{
		FullName:    "Ana Poe",
		DomainNiche: "Skincare tutorials",
		Followers:   "250K",
		Handles: map[string]string{
			"instagram": "ana.poe",
			"twitter":   "anapoe",
			"youtube":   "AnaPoeBeauty",
		},
	}}

	rec := BuildRecommendation(source, model.FilterSet{Platforms: []string{"Instagram", "x"}}, PolicyBestEffort, 20)
	require.Len(t, rec.Records, 1)

	got := rec.Records[0].Handles
	assert.Equal(t, "ana.poe", got["instagram"])
	assert.Equal(t, "anapoe", got["twitter"], `"x" selects twitter`)
	assert.NotContains(t, got, "youtube")
	assert.Len(t, source[0].Handles, 3, "source record keeps its handles")
}

func TestBuildRecommendationKeepsHandlesWithoutPlatformFilter(t *testing.T) {
	source := []model.ContactRecord{{
		FullName:    "Ana Poe",
		DomainNiche: "Skincare tutorials",
		Followers:   "250K",
		Handles:     map[string]string{"instagram": "ana.poe", "youtube": "AnaPoeBeauty"},
	}}

	rec := BuildRecommendation(source, model.FilterSet{}, PolicyBestEffort, 20)
	require.Len(t, rec.Records, 1)
	assert.Len(t, rec.Records[0].Handles, 2)
}

func TestBuildRecommendationEmptyIsDegenerateSuccess(t *testing.T) {
	rec := BuildRecommendation(nil, model.FilterSet{Location: "mars"}, PolicyStrict, 20)
	require.NotNil(t, rec)
	assert.Empty(t, rec.Records)
	assert.Contains(t, rec.Suggestion, "removing filters")
	assert.Len(t, rec.Tiers, len(model.Tiers()))
}
