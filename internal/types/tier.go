package types

import "strings"

// Tier is the ordered subscription level: entry < mid < professional.
type Tier string

const (
	TierEntry        Tier = "entry"
	TierMid          Tier = "mid"
	TierProfessional Tier = "professional"
)

var tierRanks = map[Tier]int{
	TierEntry:        0,
	TierMid:          1,
	TierProfessional: 2,
}

// ParseTier normalizes a stored tier value. Unrecognized values map to
// TierEntry (fail closed); ok reports whether the input was recognized.
func ParseTier(s string) (Tier, bool) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if _, known := tierRanks[t]; known {
		return t, true
	}
	return TierEntry, false
}

// Rank returns the integer ordering of the tier. Unrecognized tiers rank
// as entry.
func (t Tier) Rank() int {
	if r, ok := tierRanks[t]; ok {
		return r
	}
	return tierRanks[TierEntry]
}

// AtLeast reports whether t grants everything required grants.
func (t Tier) AtLeast(required Tier) bool {
	return t.Rank() >= required.Rank()
}
