package services

import (
	"testing"

	"github.com/yungbote/fincompass-backend/internal/types"
)

func TestTierGate_HasAccess(t *testing.T) {
	tg := NewTierGateService(testLogger())

	tests := []struct {
		userTier string
		required types.Tier
		want     bool
	}{
		{"entry", types.TierEntry, true},
		{"entry", types.TierMid, false},
		{"entry", types.TierProfessional, false},
		{"mid", types.TierEntry, true},
		{"mid", types.TierMid, true},
		{"mid", types.TierProfessional, false},
		{"professional", types.TierEntry, true},
		{"professional", types.TierMid, true},
		{"professional", types.TierProfessional, true},
		// unrecognized values fail closed to entry
		{"", types.TierEntry, true},
		{"", types.TierMid, false},
		{"platinum", types.TierProfessional, false},
		{"platinum", types.TierEntry, true},
		// stored values are normalized
		{"  Professional ", types.TierProfessional, true},
		{"MID", types.TierMid, true},
	}

	for _, tc := range tests {
		if got := tg.HasAccess(tc.userTier, tc.required); got != tc.want {
			t.Fatalf("HasAccess(%q, %s) = %v, want %v", tc.userTier, tc.required, got, tc.want)
		}
	}
}

func TestTierGate_ResolveTier(t *testing.T) {
	tg := NewTierGateService(testLogger())

	if got := tg.ResolveTier("mid"); got != types.TierMid {
		t.Fatalf("ResolveTier(mid) = %s", got)
	}
	if got := tg.ResolveTier("gold"); got != types.TierEntry {
		t.Fatalf("ResolveTier(gold) = %s, want entry", got)
	}
}
