package types

import (
	"testing"
	"time"
)

func TestWeights_TopTieBreak(t *testing.T) {
	tests := []struct {
		name    string
		w       Weights
		want    Domain
		wantTwo [2]Domain
	}{
		{
			name:    "clear leader",
			w:       Weights{Financial: 0.10, Wellness: 0.50, Relationship: 0.20, Career: 0.20},
			want:    DomainWellness,
			wantTwo: [2]Domain{DomainWellness, DomainCareer},
		},
		{
			name:    "four-way tie follows priority order",
			w:       Weights{Financial: 0.25, Wellness: 0.25, Relationship: 0.25, Career: 0.25},
			want:    DomainFinancial,
			wantTwo: [2]Domain{DomainFinancial, DomainCareer},
		},
		{
			name:    "tie between relationship and wellness",
			w:       Weights{Financial: 0.40, Wellness: 0.25, Relationship: 0.25, Career: 0.10},
			want:    DomainFinancial,
			wantTwo: [2]Domain{DomainFinancial, DomainRelationship},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.w.Top(); got != tc.want {
				t.Fatalf("Top = %s, want %s", got, tc.want)
			}
			if got := tc.w.TopTwo(); got != tc.wantTwo {
				t.Fatalf("TopTwo = %v, want %v", got, tc.wantTwo)
			}
		})
	}
}

func TestWeights_GetSetRoundTrip(t *testing.T) {
	var w Weights
	for i, d := range AllDomains {
		w.Set(d, float64(i+1))
	}
	for i, d := range AllDomains {
		if got := w.Get(d); got != float64(i+1) {
			t.Fatalf("Get(%s) = %v, want %v", d, got, float64(i+1))
		}
	}
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2026, 8, 30, 2, 15, 0, 0, loc) // still the 29th in UTC
	if got := DateOnly(in); !got.Equal(time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("DateOnly = %v", got)
	}
	if DateKey(in) != "2026-08-29" {
		t.Fatalf("DateKey = %s", DateKey(in))
	}
}
