package model

import (
	"fmt"
	"sort"
	"strings"
)

// Tier is an audience-size bucket derived from follower count.
type Tier string

const (
	TierTopMacro Tier = "Top/Macro"
	TierMid      Tier = "Mid-tier"
	TierMicro    Tier = "Micro"
	TierNano     Tier = "Nano"
	TierEmerging Tier = "Emerging"
)

// Tiers lists all buckets in descending audience-size order.
func Tiers() []Tier {
	return []Tier{TierTopMacro, TierMid, TierMicro, TierNano, TierEmerging}
}

// handleOrder fixes the platform order used when deriving an identity key
// from handles, so the key is stable regardless of map iteration.
var handleOrder = []string{"instagram", "twitter", "linkedin", "youtube", "facebook"}

// ContactRecord is the canonical unit flowing through the pipeline.
// Tier and MatchScore are always derived downstream, never supplied by
// upstream sources.
type ContactRecord struct {
	IdentityKey string `json:"identity_key"`

	FullName  string `json:"full_name"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`

	JobTitle    string `json:"job_title,omitempty"`
	Industry    string `json:"industry,omitempty"`
	DomainNiche string `json:"domain_niche,omitempty"`
	Bio         string `json:"bio,omitempty"`
	UseCase     string `json:"use_case,omitempty"`
	Location    string `json:"location,omitempty"`

	Platform    string            `json:"platform"`
	Domain      string            `json:"domain,omitempty"`
	Handles     map[string]string `json:"handles,omitempty"`
	ContactLink string            `json:"contact_link,omitempty"`

	FollowerCount int    `json:"follower_count"`
	Followers     string `json:"followers,omitempty"`

	// Source records the originating domain/provider/URL. Provenance only,
	// never used for matching.
	Source string `json:"source"`

	MatchScore int  `json:"match_score"`
	Tier       Tier `json:"tier,omitempty"`

	// Enrichment fields, populated when a live platform lookup succeeds.
	Verified           bool    `json:"verified,omitempty"`
	EngagementRate     float64 `json:"engagement_rate,omitempty"`
	AvgLikesPerPost    int     `json:"avg_likes_per_post,omitempty"`
	AvgCommentsPerPost int     `json:"avg_comments_per_post,omitempty"`
	EstimatedReach     int     `json:"estimated_reach,omitempty"`
	DataSource         string  `json:"data_source,omitempty"`
	IsFallback         bool    `json:"is_fallback,omitempty"`
}

// DeriveIdentityKey computes the deduplication key: the lower-cased email,
// or "platform:handle" for the first non-empty handle in stable platform
// order. Empty when the record carries neither.
func (r *ContactRecord) DeriveIdentityKey() string {
	if e := strings.ToLower(strings.TrimSpace(r.Email)); e != "" {
		return e
	}
	for _, p := range handleOrder {
		if h := strings.TrimSpace(r.Handles[p]); h != "" {
			return p + ":" + strings.ToLower(h)
		}
	}
	// Non-standard platforms, sorted for determinism.
	keys := make([]string, 0, len(r.Handles))
	for p := range r.Handles {
		keys = append(keys, p)
	}
	sort.Strings(keys)
	for _, p := range keys {
		if h := strings.TrimSpace(r.Handles[p]); h != "" {
			return strings.ToLower(p) + ":" + strings.ToLower(h)
		}
	}
	return ""
}

// Handle returns the handle for a platform, or "".
func (r *ContactRecord) Handle(platform string) string {
	return r.Handles[platform]
}

// SetHandle records a handle, allocating the map on first use. Empty handles
// are dropped.
func (r *ContactRecord) SetHandle(platform, handle string) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return
	}
	if r.Handles == nil {
		r.Handles = make(map[string]string, 2)
	}
	r.Handles[platform] = handle
}

// HasAnyHandle reports whether at least one non-empty handle is present.
func (r *ContactRecord) HasAnyHandle() bool {
	for _, h := range r.Handles {
		if strings.TrimSpace(h) != "" {
			return true
		}
	}
	return false
}

// HasRealEmail reports whether the record carries a usable, non-placeholder
// email address.
func (r *ContactRecord) HasRealEmail() bool {
	e := strings.ToLower(strings.TrimSpace(r.Email))
	return e != "" && strings.Contains(e, "@") && !strings.Contains(e, "example.com")
}

// ProfileURL derives the canonical profile URL for a platform handle.
// Returns "" when the record has no handle on that platform.
func (r *ContactRecord) ProfileURL(platform string) string {
	h := r.Handles[platform]
	if h == "" {
		return ""
	}
	switch platform {
	case "linkedin":
		return "https://linkedin.com/in/" + h
	case "twitter":
		return "https://twitter.com/" + h
	case "instagram":
		return "https://instagram.com/" + h
	case "youtube":
		return "https://youtube.com/@" + h
	case "facebook":
		return "https://facebook.com/" + h
	default:
		return ""
	}
}

// GroupByTier buckets records by tier, preserving input order within each
// bucket. Every tier key is present even when empty.
func GroupByTier(records []ContactRecord) map[Tier][]ContactRecord {
	out := make(map[Tier][]ContactRecord, len(Tiers()))
	for _, t := range Tiers() {
		out[t] = []ContactRecord{}
	}
	for _, r := range records {
		t := r.Tier
		if _, ok := out[t]; !ok {
			t = TierEmerging
		}
		out[t] = append(out[t], r)
	}
	return out
}

func (t Tier) String() string { return string(t) }

// FormatFollowers renders a count in the shorthand the front end displays
// (e.g. 50000 -> "50.0K", 1200000 -> "1.2M").
func FormatFollowers(count int) string {
	switch {
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(count)/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%.1fK", float64(count)/1_000)
	default:
		return fmt.Sprintf("%d", count)
	}
}
