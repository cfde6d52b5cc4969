package ghost

import (
	"reflect"
	"testing"

	"applyforge/internal/domain/posting"
)

func testWeights() Weights {
	return Weights{
		Staleness:     0.30,
		Repost:        0.25,
		Vagueness:     0.20,
		MissingFields: 0.15,
		ReqMismatch:   0.10,
	}
}

func testTiers() Tiers { return Tiers{Medium: 40, High: 70} }

func freshPosting() posting.Posting {
	salMin := 90000
	return posting.Posting{
		Title:        "Backend Engineer",
		Location:     "Berlin",
		Industry:     "Software",
		SalaryMin:    &salMin,
		Description:  "We require 5 years of Go experience building APIs with PostgreSQL and Redis. You must have shipped production systems.",
		Requirements: []string{"5 years Go", "PostgreSQL"},
	}
}

func TestDetect_Idempotent(t *testing.T) {
	in := Input{Posting: freshPosting(), DaysOpen: 45, ExtractedSkills: []string{"go", "postgresql"}}
	in.Posting.RepostCount = 2

	first := Detect(in, testWeights(), testTiers())
	for i := 0; i < 5; i++ {
		if got := Detect(in, testWeights(), testTiers()); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestDetect_RepostMonotonic(t *testing.T) {
	in := Input{Posting: freshPosting(), DaysOpen: 10, ExtractedSkills: []string{"go"}}

	prev := -1
	for reposts := 0; reposts <= 3; reposts++ {
		in.Posting.RepostCount = reposts
		sig := Detect(in, testWeights(), testTiers())
		if sig.GhostScore < prev {
			t.Fatalf("ghost_score decreased from %d to %d at repost_count=%d", prev, sig.GhostScore, reposts)
		}
		prev = sig.GhostScore
	}
}

func TestDetect_DaysOpenMonotonic(t *testing.T) {
	in := Input{Posting: freshPosting(), ExtractedSkills: []string{"go"}}

	prev := -1
	for _, days := range []int{0, 7, 14, 30, 60, 90, 180} {
		in.DaysOpen = days
		sig := Detect(in, testWeights(), testTiers())
		if sig.GhostScore < prev {
			t.Fatalf("ghost_score decreased from %d to %d at days_open=%d", prev, sig.GhostScore, days)
		}
		prev = sig.GhostScore
	}
}

func TestDetect_SubScoreRanges(t *testing.T) {
	in := Input{Posting: posting.Posting{RepostCount: 50}, DaysOpen: 1000}
	sig := Detect(in, testWeights(), testTiers())

	for name, v := range map[string]int{
		"staleness":      sig.Staleness,
		"repost":         sig.Repost,
		"vagueness":      sig.Vagueness,
		"missing_fields": sig.MissingFields,
		"req_mismatch":   sig.ReqMismatch,
		"ghost_score":    sig.GhostScore,
	} {
		if v < 0 || v > 100 {
			t.Errorf("%s = %d out of [0,100]", name, v)
		}
	}
}

func TestDetect_FreshCompletePostingIsLow(t *testing.T) {
	in := Input{Posting: freshPosting(), DaysOpen: 2, ExtractedSkills: []string{"go", "postgresql"}}
	sig := Detect(in, testWeights(), testTiers())
	if sig.Tier != posting.TierLow {
		t.Errorf("fresh complete posting tier = %s (score %d), want Low", sig.Tier, sig.GhostScore)
	}
}

func TestDetect_StaleEmptyPostingIsHigh(t *testing.T) {
	in := Input{
		Posting:  posting.Posting{Title: "Rockstar Ninja", Description: "fast-paced dynamic environment, competitive salary", RepostCount: 4},
		DaysOpen: 120,
	}
	sig := Detect(in, testWeights(), testTiers())
	if sig.Tier != posting.TierHigh {
		t.Errorf("stale vague posting tier = %s (score %d), want High", sig.Tier, sig.GhostScore)
	}
}

func TestTier_Boundaries(t *testing.T) {
	tiers := testTiers()
	cases := []struct {
		score int
		want  posting.GhostTier
	}{
		{0, posting.TierLow},
		{39, posting.TierLow},
		{40, posting.TierMedium},
		{69, posting.TierMedium},
		{70, posting.TierHigh},
		{100, posting.TierHigh},
	}
	for _, tc := range cases {
		if got := Tier(tc.score, tiers); got != tc.want {
			t.Errorf("Tier(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestTier_CustomCutoffs(t *testing.T) {
	tiers := Tiers{Medium: 20, High: 50}
	if got := Tier(30, tiers); got != posting.TierMedium {
		t.Errorf("Tier(30) with custom cutoffs = %s, want Medium", got)
	}
	if got := Tier(55, tiers); got != posting.TierHigh {
		t.Errorf("Tier(55) with custom cutoffs = %s, want High", got)
	}
}

func TestVaguenessScore_EmptyDescriptionMaxes(t *testing.T) {
	if got := vaguenessScore(""); got != 100 {
		t.Errorf("vaguenessScore(\"\") = %d, want 100", got)
	}
}

func TestStalenessScore(t *testing.T) {
	if got := stalenessScore(3); got != 0 {
		t.Errorf("3 days = %d, want 0", got)
	}
	if got := stalenessScore(90); got != 100 {
		t.Errorf("90 days = %d, want 100", got)
	}
	mid := stalenessScore(45)
	if mid <= 0 || mid >= 100 {
		t.Errorf("45 days = %d, want between 0 and 100", mid)
	}
}
