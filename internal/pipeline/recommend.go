package pipeline

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/nova-labs/influencer-cli/internal/model"
)

// FilterPolicy selects how candidate filters behave when they would empty
// the result set.
type FilterPolicy string

const (
	// PolicyStrict applies every filter unconditionally.
	PolicyStrict FilterPolicy = "strict"
	// PolicyBestEffort skips any single filter whose application would
	// remove all remaining candidates.
	PolicyBestEffort FilterPolicy = "best-effort"
)

// ApplyFilters narrows candidates to those matching the filter set. Under
// PolicyBestEffort a filter that would empty the set is skipped and the
// previous candidates are kept; under PolicyStrict filters always apply.
// Input order is preserved.
func ApplyFilters(records []model.ContactRecord, filters model.FilterSet, policy FilterPolicy) []model.ContactRecord {
	records = applyOne(records, policy, "location", func(r model.ContactRecord) bool {
		loc := strings.ToLower(strings.TrimSpace(filters.Location))
		if loc == "" {
			return true
		}
		rLoc := strings.ToLower(r.Location)
		return rLoc != "" && (strings.Contains(rLoc, loc) || strings.Contains(loc, rLoc))
	})

	records = applyMinFollowers(records, int(filters.MinFollowers), policy)

	records = applyOne(records, policy, "product_type", func(r model.ContactRecord) bool {
		p := strings.ToLower(strings.TrimSpace(filters.ProductType))
		if p == "" {
			return true
		}
		niche := strings.ToLower(r.DomainNiche)
		title := strings.ToLower(r.JobTitle)
		useCase := strings.ToLower(r.UseCase)
		return strings.Contains(niche, p) || strings.Contains(title, p) ||
			strings.Contains(useCase, p) ||
			(niche != "" && strings.Contains(p, niche)) ||
			(title != "" && strings.Contains(p, title))
	})

	records = applyOne(records, policy, "content_type", func(r model.ContactRecord) bool {
		if len(filters.ContentType) == 0 {
			return true
		}
		niche := strings.ToLower(r.DomainNiche)
		title := strings.ToLower(r.JobTitle)
		bio := strings.ToLower(r.Bio)
		for _, ct := range filters.ContentType {
			c := strings.ToLower(strings.TrimSpace(ct))
			if c == "" {
				continue
			}
			if strings.Contains(niche, c) || strings.Contains(title, c) ||
				strings.Contains(bio, c) ||
				(niche != "" && strings.Contains(c, niche)) ||
				(title != "" && strings.Contains(c, title)) {
				return true
			}
		}
		return false
	})

	records = applyOne(records, policy, "target_audience", func(r model.ContactRecord) bool {
		a := strings.ToLower(strings.TrimSpace(filters.TargetAudience))
		if a == "" {
			return true
		}
		niche := strings.ToLower(r.DomainNiche)
		title := strings.ToLower(r.JobTitle)
		bio := strings.ToLower(r.Bio)
		useCase := strings.ToLower(r.UseCase)
		return strings.Contains(niche, a) || strings.Contains(title, a) ||
			strings.Contains(bio, a) || strings.Contains(useCase, a) ||
			(niche != "" && strings.Contains(a, niche)) ||
			(title != "" && strings.Contains(a, title))
	})

	return records
}

// applyOne runs a single predicate filter, honoring the policy's
// keep-all-when-emptied behavior.
func applyOne(records []model.ContactRecord, policy FilterPolicy, name string, keep func(model.ContactRecord) bool) []model.ContactRecord {
	if len(records) == 0 {
		return records
	}
	kept := make([]model.ContactRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 && policy == PolicyBestEffort {
		zap.L().Warn("filter would remove all candidates, skipping",
			zap.String("filter", name), zap.Int("candidates", len(records)))
		return records
	}
	return kept
}

// applyMinFollowers enforces the follower threshold. With no explicit
// threshold a 10k floor excludes micro/nano accounts, but under best-effort
// the smaller accounts are kept when nothing clears the floor.
func applyMinFollowers(records []model.ContactRecord, min int, policy FilterPolicy) []model.ContactRecord {
	threshold := min
	if threshold <= 0 {
		threshold = 10_000
	}
	kept := make([]model.ContactRecord, 0, len(records))
	for _, r := range records {
		count := r.FollowerCount
		if count == 0 {
			count = model.ParseFollowerCount(r.Followers)
		}
		if count >= threshold {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 && policy == PolicyBestEffort && min <= 0 {
		// Implicit floor only: surface whatever exists rather than nothing.
		return records
	}
	return kept
}

// Recommendation is the outcome of a recommendation query.
type Recommendation struct {
	Records    []model.ContactRecord                `json:"recommendations"`
	Tiers      map[model.Tier][]model.ContactRecord `json:"tiered_influencers"`
	TierCounts map[model.Tier]int                   `json:"tier_counts"`
	Suggestion string                               `json:"suggestion,omitempty"`
}

// maskUnselectedHandles rebuilds each record's handle map with only the
// platforms the query selected, so the response shows handles where the
// caller plans to reach out. An empty selection keeps everything. Maps are
// replaced, not mutated, leaving any shared source records intact.
func maskUnselectedHandles(records []model.ContactRecord, filters model.FilterSet) {
	if len(filters.Platforms) == 0 {
		return
	}
	for i := range records {
		if len(records[i].Handles) == 0 {
			continue
		}
		masked := make(map[string]string, len(records[i].Handles))
		for platform, handle := range records[i].Handles {
			if filters.WantsPlatform(platform) {
				masked[platform] = handle
			}
		}
		records[i].Handles = masked
	}
}

// BuildRecommendation filters, scores, ranks and tier-groups candidates.
// An empty outcome is a degenerate success carrying a loosen-filters
// suggestion, not an error.
func BuildRecommendation(candidates []model.ContactRecord, filters model.FilterSet, policy FilterPolicy, limit int) *Recommendation {
	records := ApplyFilters(candidates, filters, policy)
	Classify(records, filters)
	EstimateEngagement(records)

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].MatchScore > records[j].MatchScore
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	maskUnselectedHandles(records, filters)

	rec := &Recommendation{
		Records:    records,
		Tiers:      model.GroupByTier(records),
		TierCounts: make(map[model.Tier]int, len(model.Tiers())),
	}
	for tier, list := range rec.Tiers {
		rec.TierCounts[tier] = len(list)
	}
	if len(records) == 0 {
		rec.Suggestion = "No contacts matched every filter. Try removing filters like product type, content type, or target audience to see more results."
	}
	return rec
}
