package model

import (
	"encoding/json"
	"strings"
)

// FollowerThreshold accepts both integer and shorthand-string JSON values
// ("25000", 25000, "25K") for a minimum-follower filter.
type FollowerThreshold int

// UnmarshalJSON decodes a number or shorthand string. Anything unparseable
// decodes to 0, which disables the threshold.
func (t *FollowerThreshold) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*t = FollowerThreshold(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = FollowerThreshold(ParseFollowerCount(s))
		return nil
	}
	*t = 0
	return nil
}

// FilterSet is the recommendation query a client submits.
type FilterSet struct {
	Industry       string            `json:"industry,omitempty"`
	Location       string            `json:"location,omitempty"`
	ContentType    []string          `json:"content_type,omitempty"`
	TargetAudience string            `json:"target_audience,omitempty"`
	ProductType    string            `json:"product_type,omitempty"`
	MinFollowers   FollowerThreshold `json:"min_followers,omitempty"`
	Platforms      []string          `json:"platforms,omitempty"`
}

// IsZero reports whether no filter is set.
func (f FilterSet) IsZero() bool {
	return f.Industry == "" && f.Location == "" && len(f.ContentType) == 0 &&
		f.TargetAudience == "" && f.ProductType == "" && f.MinFollowers == 0 &&
		len(f.Platforms) == 0
}

// WantsPlatform reports whether the filter set selects the given platform.
// An empty platform list selects everything. "x" is accepted as an alias
// for twitter.
func (f FilterSet) WantsPlatform(platform string) bool {
	if len(f.Platforms) == 0 {
		return true
	}
	p := strings.ToLower(platform)
	for _, sel := range f.Platforms {
		s := strings.ToLower(strings.TrimSpace(sel))
		if s == "" {
			continue
		}
		if strings.Contains(s, p) || strings.Contains(p, s) {
			return true
		}
		if p == "twitter" && s == "x" {
			return true
		}
	}
	return false
}
