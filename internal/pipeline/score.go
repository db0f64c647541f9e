package pipeline

import (
	"strings"

	"github.com/nova-labs/influencer-cli/internal/model"
)

// Scoring constants. The score starts at baseScore, gains additive bonuses
// per matched signal, loses one point per input rank to break ties in favor
// of earlier-discovered records, and is clamped to [minScore, maxScore].
const (
	baseScore = 70
	minScore  = 10
	maxScore  = 100

	bonusProductMatch  = 10
	bonusContentMatch  = 10
	bonusAudienceMatch = 10
	bonusIndustryMatch = 10
	bonusLocationMatch = 5
	bonusRealEmail     = 5
	bonusContactLink   = 5
	bonusUseCase       = 5
	bonusTopTier       = 10
	bonusVerifiedData  = 15
)

// Score computes the match score for a record at the given input rank
// against the active filter set. It is a pure function of its arguments:
// identical input always yields an identical score.
func Score(r model.ContactRecord, rank int, filters model.FilterSet) int {
	score := baseScore

	niche := strings.ToLower(r.DomainNiche)
	title := strings.ToLower(r.JobTitle)
	bio := strings.ToLower(r.Bio)
	useCase := strings.ToLower(r.UseCase)

	if p := strings.ToLower(strings.TrimSpace(filters.ProductType)); p != "" {
		if strings.Contains(niche, p) || strings.Contains(title, p) || strings.Contains(useCase, p) {
			score += bonusProductMatch
		}
	}

	for _, ct := range filters.ContentType {
		c := strings.ToLower(strings.TrimSpace(ct))
		if c == "" {
			continue
		}
		if strings.Contains(niche, c) || strings.Contains(title, c) || strings.Contains(bio, c) {
			score += bonusContentMatch
			break
		}
	}

	if a := strings.ToLower(strings.TrimSpace(filters.TargetAudience)); a != "" {
		if strings.Contains(niche, a) || strings.Contains(title, a) ||
			strings.Contains(bio, a) || strings.Contains(useCase, a) {
			score += bonusAudienceMatch
		}
	}

	if ind := strings.ToLower(strings.TrimSpace(filters.Industry)); ind != "" {
		rInd := strings.ToLower(r.Industry)
		if rInd != "" && (strings.Contains(rInd, ind) || strings.Contains(ind, rInd)) {
			score += bonusIndustryMatch
		}
	}

	if loc := strings.ToLower(strings.TrimSpace(filters.Location)); loc != "" {
		rLoc := strings.ToLower(r.Location)
		if rLoc != "" && (strings.Contains(rLoc, loc) || strings.Contains(loc, rLoc)) {
			score += bonusLocationMatch
		}
	}

	if r.HasRealEmail() {
		score += bonusRealEmail
	}
	if strings.TrimSpace(r.ContactLink) != "" {
		score += bonusContactLink
	}
	if strings.TrimSpace(r.UseCase) != "" {
		score += bonusUseCase
	}
	if r.Tier == model.TierTopMacro {
		score += bonusTopTier
	}
	if r.Verified {
		score += bonusVerifiedData
	}

	score -= rank

	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}
	return score
}

// Classify recomputes tier and match score for every record in place,
// ranking by input order. FollowerCount is re-parsed from the display
// string when the numeric count is missing.
func Classify(records []model.ContactRecord, filters model.FilterSet) {
	for i := range records {
		r := &records[i]
		if r.FollowerCount == 0 && r.Followers != "" {
			r.FollowerCount = model.ParseFollowerCount(r.Followers)
		}
		r.Tier = model.TierForCount(r.FollowerCount)
		r.MatchScore = Score(*r, i, filters)
		if r.DataSource == "" {
			if r.Verified {
				r.DataSource = "real"
			} else {
				r.DataSource = "estimated"
			}
		}
	}
}
