package types

import "testing"

func TestParseTier(t *testing.T) {
	tests := []struct {
		in     string
		want   Tier
		wantOK bool
	}{
		{"entry", TierEntry, true},
		{"mid", TierMid, true},
		{"professional", TierProfessional, true},
		{"  Professional ", TierProfessional, true},
		{"MID", TierMid, true},
		{"", TierEntry, false},
		{"platinum", TierEntry, false},
		{"pro", TierEntry, false},
	}
	for _, tc := range tests {
		got, ok := ParseTier(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("ParseTier(%q) = (%s, %v), want (%s, %v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestTierOrdering(t *testing.T) {
	if !(TierEntry.Rank() < TierMid.Rank() && TierMid.Rank() < TierProfessional.Rank()) {
		t.Fatal("tier ranks not strictly increasing")
	}
	if !TierProfessional.AtLeast(TierEntry) || !TierProfessional.AtLeast(TierProfessional) {
		t.Fatal("professional should satisfy every gate")
	}
	if TierEntry.AtLeast(TierMid) {
		t.Fatal("entry should not satisfy a mid gate")
	}
	if Tier("bogus").AtLeast(TierMid) {
		t.Fatal("unknown tier should rank as entry")
	}
}
