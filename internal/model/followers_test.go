package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFollowerCount(t *testing.T) {
	assert.Equal(t, 25_000, ParseFollowerCount("25K"))
	assert.Equal(t, 25_000, ParseFollowerCount("25k"))
	assert.Equal(t, 1_200_000, ParseFollowerCount("1.2M"))
	assert.Equal(t, 12_500, ParseFollowerCount("12,500"))
	assert.Equal(t, 1_000, ParseFollowerCount(" 1 000 "))
	assert.Equal(t, 0, ParseFollowerCount("not-a-number"))
	assert.Equal(t, 0, ParseFollowerCount(""))
	assert.Equal(t, 0, ParseFollowerCount("-5K"))
}

func TestTierDeterminism(t *testing.T) {
	cases := map[string]Tier{
		"999":          TierEmerging,
		"1000":         TierNano,
		"10000":        TierMicro,
		"100000":       TierMid,
		"1000000":      TierTopMacro,
		"1.2M":         TierTopMacro,
		"25K":          TierMicro,
		"not-a-number": TierEmerging,
	}
	for in, want := range cases {
		assert.Equal(t, want, TierForFollowers(in), "input %q", in)
	}
}

func TestTierForCount_InclusiveLowerBounds(t *testing.T) {
	assert.Equal(t, TierNano, TierForCount(1_000))
	assert.Equal(t, TierMicro, TierForCount(10_000))
	assert.Equal(t, TierMid, TierForCount(100_000))
	assert.Equal(t, TierTopMacro, TierForCount(1_000_000))
	assert.Equal(t, TierEmerging, TierForCount(0))
}
