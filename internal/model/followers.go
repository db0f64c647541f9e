package model

import (
	"strconv"
	"strings"
)

// ParseFollowerCount converts a follower figure in shorthand notation
// ("25K", "1.2M", "12,500") into an integer count. It is a total function:
// malformed input degrades to 0 rather than returning an error.
func ParseFollowerCount(s string) int {
	clean := strings.ToUpper(strings.TrimSpace(s))
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.ReplaceAll(clean, " ", "")
	if clean == "" {
		return 0
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(clean, "M"):
		mult = 1_000_000
		clean = strings.TrimSuffix(clean, "M")
	case strings.HasSuffix(clean, "K"):
		mult = 1_000
		clean = strings.TrimSuffix(clean, "K")
	}

	n, err := strconv.ParseFloat(clean, 64)
	if err != nil || n < 0 {
		return 0
	}
	return int(n * mult)
}

// TierForCount assigns the audience-size bucket for a follower count.
// Boundaries are inclusive on the lower end of each bucket.
func TierForCount(count int) Tier {
	switch {
	case count >= 1_000_000:
		return TierTopMacro
	case count >= 100_000:
		return TierMid
	case count >= 10_000:
		return TierMicro
	case count >= 1_000:
		return TierNano
	default:
		return TierEmerging
	}
}

// TierForFollowers classifies a raw follower string. Unparseable strings
// default to count 0 and therefore Emerging.
func TierForFollowers(s string) Tier {
	return TierForCount(ParseFollowerCount(s))
}
