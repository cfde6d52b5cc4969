package scoring

import (
	"math"
	"reflect"
	"testing"

	"applyforge/internal/domain/persona"
	"applyforge/internal/domain/posting"
)

func testWeights() Weights {
	return Weights{
		Fit: FitWeights{
			HardSkills:      0.35,
			SoftSkills:      0.15,
			ExperienceLevel: 0.20,
			TitleSimilarity: 0.15,
			Logistics:       0.15,
		},
		Stretch: StretchWeights{
			TargetRole:   0.40,
			TargetSkills: 0.35,
			Growth:       0.25,
		},
	}
}

func testThresholds() Thresholds {
	return Thresholds{Strength: 75, Gap: 40}
}

func testInput() Input {
	salMin, salMax := 90000, 120000
	return Input{
		Posting: posting.Posting{
			Title:       "Senior Backend Engineer",
			Company:     "Acme",
			Location:    "Berlin",
			WorkMode:    posting.ModeRemote,
			Description: "We require 5 years of Go and PostgreSQL experience.",
			SalaryMin:   &salMin,
			SalaryMax:   &salMax,
		},
		Profile: persona.Profile{
			CurrentTitle:    "Backend Engineer",
			Location:        "Berlin",
			YearsExperience: 6,
			Skills: []persona.Skill{
				{Name: "Go", Kind: persona.SkillHard, Level: 5, Years: 5},
				{Name: "PostgreSQL", Kind: persona.SkillHard, Level: 4, Years: 4},
				{Name: "Communication", Kind: persona.SkillSoft, Level: 4},
			},
			TargetRoles:  []string{"Staff Engineer"},
			TargetSkills: []string{"Kubernetes"},
		},
		ExtractedSkills: []string{"Go", "PostgreSQL", "Kubernetes"},
	}
}

func TestScore_Deterministic(t *testing.T) {
	in, w, th := testInput(), testWeights(), testThresholds()

	first := Score(in, w, th)
	for i := 0; i < 10; i++ {
		if got := Score(in, w, th); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d produced different details:\nfirst: %+v\ngot:   %+v", i, first, got)
		}
	}
}

func TestScore_WeightInvariant(t *testing.T) {
	details := Score(testInput(), testWeights(), testThresholds())

	for _, breakdown := range []posting.ScoreBreakdown{details.Fit, details.Stretch} {
		var weightSum, dot float64
		for _, c := range breakdown.Components {
			weightSum += c.Weight
			dot += c.Weight * c.Score
		}
		if math.Abs(weightSum-1.0) > 1e-6 {
			t.Errorf("weights sum to %v, want 1.0", weightSum)
		}
		if want := int(math.Round(dot)); breakdown.Total != want {
			t.Errorf("total = %d, want round(dot product) = %d", breakdown.Total, want)
		}
	}
}

func TestScore_ComponentRanges(t *testing.T) {
	details := Score(testInput(), testWeights(), testThresholds())
	for _, c := range append(details.Fit.Components, details.Stretch.Components...) {
		if c.Score < 0 || c.Score > 100 {
			t.Errorf("component %s = %v out of [0,100]", c.Name, c.Score)
		}
	}
	if details.Fit.Total < 0 || details.Fit.Total > 100 {
		t.Errorf("fit total %d out of range", details.Fit.Total)
	}
	if details.Stretch.Total < 0 || details.Stretch.Total > 100 {
		t.Errorf("stretch total %d out of range", details.Stretch.Total)
	}
}

func TestScore_StrongMatchScoresHigh(t *testing.T) {
	details := Score(testInput(), testWeights(), testThresholds())
	if details.Fit.Total < 60 {
		t.Errorf("strong profile scored fit=%d, expected >= 60", details.Fit.Total)
	}
}

func TestScore_MissingSalaryWarning(t *testing.T) {
	in := testInput()
	in.Posting.SalaryMin = nil
	in.Posting.SalaryMax = nil

	details := Score(in, testWeights(), testThresholds())
	found := false
	for _, w := range details.Explanation.Warnings {
		if w == "salary range not disclosed" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected salary warning, got %v", details.Explanation.Warnings)
	}
}

func TestScore_NoExtractedSkillsDegradesNotFails(t *testing.T) {
	in := testInput()
	in.ExtractedSkills = nil

	details := Score(in, testWeights(), testThresholds())
	if len(details.Explanation.Warnings) == 0 {
		t.Error("expected data-quality warnings for missing skills")
	}
	// Never an error: low-quality data degrades the explanation only.
	if details.Fit.Total < 0 || details.Fit.Total > 100 {
		t.Errorf("fit total %d out of range", details.Fit.Total)
	}
}

func TestScore_StrengthsAndGaps(t *testing.T) {
	details := Score(testInput(), testWeights(), testThresholds())

	for _, s := range details.Explanation.Strengths {
		for _, g := range details.Explanation.Gaps {
			if s == g {
				t.Errorf("component %s listed as both strength and gap", s)
			}
		}
	}

	byName := map[string]float64{}
	for _, c := range details.Fit.Components {
		byName[c.Name] = c.Score
	}
	for _, s := range details.Explanation.Strengths {
		if byName[s] < 75 {
			t.Errorf("strength %s has score %v below threshold", s, byName[s])
		}
	}
	for _, g := range details.Explanation.Gaps {
		if byName[g] >= 40 {
			t.Errorf("gap %s has score %v at or above threshold", g, byName[g])
		}
	}
}

func TestSkillMatch_PartialProficiency(t *testing.T) {
	in := testInput()
	in.Profile.Skills = []persona.Skill{
		{Name: "Go", Kind: persona.SkillHard, Level: 1},
	}
	in.ExtractedSkills = []string{"Go"}

	got := skillMatch(in, persona.SkillHard)
	want := 100.0 / 3.0
	if math.Abs(got-want) > 0.01 {
		t.Errorf("level-1 match = %v, want %v", got, want)
	}
}

func TestTitleSimilarity(t *testing.T) {
	cases := []struct {
		job, mine string
		min, max  float64
	}{
		{"Backend Engineer", "Backend Engineer", 100, 100},
		{"Backend Engineer", "Frontend Designer", 0, 0},
		{"Senior Backend Engineer", "Backend Engineer", 60, 70},
		{"", "Backend Engineer", 0, 0},
	}
	for _, tc := range cases {
		got := titleSimilarity(tc.job, tc.mine)
		if got < tc.min || got > tc.max {
			t.Errorf("titleSimilarity(%q, %q) = %v, want in [%v,%v]", tc.job, tc.mine, got, tc.min, tc.max)
		}
	}
}

func TestSeniorityYears(t *testing.T) {
	cases := []struct {
		title string
		want  float64
	}{
		{"Software Engineering Intern", 0},
		{"Junior Developer", 1},
		{"Backend Engineer", 3},
		{"Senior Backend Engineer", 5},
		{"Staff Engineer", 8},
		{"Principal Architect", 8},
	}
	for _, tc := range cases {
		if got := seniorityYears(tc.title); got != tc.want {
			t.Errorf("seniorityYears(%q) = %v, want %v", tc.title, got, tc.want)
		}
	}
}
