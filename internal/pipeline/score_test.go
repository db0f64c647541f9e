package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nova-labs/influencer-cli/internal/model"
)

func TestScoreBase(t *testing.T) {
	r := model.ContactRecord{FullName: "Plain Record"}
	assert.Equal(t, baseScore, Score(r, 0, model.FilterSet{}))
}

func TestScoreBonuses(t *testing.T) {
	filters := model.FilterSet{
		ProductType:    "skincare",
		ContentType:    []string{"tutorials"},
		TargetAudience: "young professionals",
		Industry:       "beauty",
		Location:       "Los Angeles",
	}
	r := model.ContactRecord{
		DomainNiche: "Skincare tutorials for young professionals",
		Industry:    "Beauty & Cosmetics",
		Location:    "Los Angeles, CA",
		Email:       "ana@beautyblog.com",
		ContactLink: "https://beautyblog.com/contact",
		UseCase:     "Product reviews",
		Tier:        model.TierTopMacro,
		Verified:    true,
	}
	// 70 + 10 + 10 + 10 + 10 + 5 + 5 + 5 + 5 + 10 + 15 = 155, clamped to 100.
	assert.Equal(t, maxScore, Score(r, 0, filters))
}

func TestScoreRankPenalty(t *testing.T) {
	r := model.ContactRecord{FullName: "Ranked"}
	assert.Equal(t, baseScore-5, Score(r, 5, model.FilterSet{}))
}

func TestScoreClamping(t *testing.T) {
	r := model.ContactRecord{FullName: "Deep In The List"}
	assert.Equal(t, minScore, Score(r, 500, model.FilterSet{}))
}

func TestScorePlaceholderEmailNoBonus(t *testing.T) {
	with := model.ContactRecord{Email: "real@brand.com"}
	without := model.ContactRecord{Email: "fake@example.com"}
	assert.Equal(t, Score(with, 0, model.FilterSet{})-bonusRealEmail,
		Score(without, 0, model.FilterSet{}))
}

func TestScorePure(t *testing.T) {
	filters := model.FilterSet{ProductType: "skincare"}
	r := model.ContactRecord{DomainNiche: "skincare reviews", Location: "NYC"}
	first := Score(r, 3, filters)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(r, 3, filters))
	}
}

func TestClassify(t *testing.T) {
	records := []model.ContactRecord{
		{FullName: "Big", Followers: "2.5M"},
		{FullName: "Mid", FollowerCount: 250_000},
		{FullName: "Tiny", Followers: "800"},
	}
	Classify(records, model.FilterSet{})

	assert.Equal(t, model.TierTopMacro, records[0].Tier)
	assert.Equal(t, 2_500_000, records[0].FollowerCount)
	assert.Equal(t, model.TierMid, records[1].Tier)
	assert.Equal(t, model.TierEmerging, records[2].Tier)

	// Rank penalty makes scores strictly decreasing for otherwise-equal
	// records at the same tier signals.
	assert.Greater(t, records[1].MatchScore, records[2].MatchScore)
	assert.Equal(t, "estimated", records[1].DataSource)
}
