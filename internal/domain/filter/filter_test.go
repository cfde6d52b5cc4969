package filter

import (
	"testing"

	"applyforge/internal/domain/persona"
	"applyforge/internal/domain/posting"
)

func intPtr(v int) *int { return &v }

func TestEvaluate_SalaryFloor(t *testing.T) {
	p := posting.Posting{Title: "Backend Engineer", SalaryMax: intPtr(110000)}
	c := persona.Constraints{MinimumBaseSalary: intPtr(180000)}

	failed := Evaluate(p, c)
	if len(failed) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failed))
	}
	f := failed[0]
	if f.Filter != FilterMinimumBaseSalary {
		t.Errorf("filter = %q, want %q", f.Filter, FilterMinimumBaseSalary)
	}
	if f.JobValue != 110000 {
		t.Errorf("job_value = %v, want 110000", f.JobValue)
	}
	if f.PersonaValue != 180000 {
		t.Errorf("persona_value = %v, want 180000", f.PersonaValue)
	}
}

func TestEvaluate_MissingSalaryPasses(t *testing.T) {
	p := posting.Posting{Title: "Backend Engineer"}
	c := persona.Constraints{MinimumBaseSalary: intPtr(180000)}

	if failed := Evaluate(p, c); len(failed) != 0 {
		t.Fatalf("posting without salary should pass the floor, got %v", failed)
	}
}

func TestEvaluate_RemotePolicy(t *testing.T) {
	c := persona.Constraints{RemotePolicy: persona.RemoteOnly}

	if failed := Evaluate(posting.Posting{WorkMode: posting.ModeOnsite}, c); len(failed) != 1 {
		t.Fatalf("onsite posting should fail remote_only, got %d failures", len(failed))
	}
	if failed := Evaluate(posting.Posting{WorkMode: posting.ModeRemote}, c); len(failed) != 0 {
		t.Fatalf("remote posting should pass remote_only, got %v", failed)
	}
	if failed := Evaluate(posting.Posting{WorkMode: posting.ModeHybrid}, c); len(failed) != 0 {
		t.Fatalf("hybrid posting should pass remote_only, got %v", failed)
	}
}

func TestEvaluate_CommuteRadius(t *testing.T) {
	c := persona.Constraints{CommuteRadiusKm: intPtr(30), HomeLocation: "Berlin"}

	cases := []struct {
		name     string
		p        posting.Posting
		wantFail bool
	}{
		{"other city onsite", posting.Posting{WorkMode: posting.ModeOnsite, Location: "Munich"}, true},
		{"same city onsite", posting.Posting{WorkMode: posting.ModeOnsite, Location: "Berlin, Germany"}, false},
		{"remote anywhere", posting.Posting{WorkMode: posting.ModeRemote, Location: "Munich"}, false},
		{"unknown location", posting.Posting{WorkMode: posting.ModeOnsite}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			failed := Evaluate(tc.p, c)
			if got := len(failed) > 0; got != tc.wantFail {
				t.Errorf("failures = %v, wantFail=%v", failed, tc.wantFail)
			}
		})
	}
}

func TestEvaluate_ExcludedIndustry(t *testing.T) {
	p := posting.Posting{Industry: "Gambling"}
	c := persona.Constraints{ExcludedIndustries: []string{"gambling", "tobacco"}}

	failed := Evaluate(p, c)
	if len(failed) != 1 || failed[0].Filter != FilterExcludedIndustry {
		t.Fatalf("expected excluded_industry failure, got %v", failed)
	}
}

func TestEvaluate_CustomFilter(t *testing.T) {
	p := posting.Posting{Title: "Sales Engineer", Description: "commission only role"}
	c := persona.Constraints{CustomFilters: []persona.CustomFilter{{Name: "no_commission_only", Term: "commission only"}}}

	failed := Evaluate(p, c)
	if len(failed) != 1 {
		t.Fatalf("expected 1 failure, got %v", failed)
	}
	if failed[0].Filter != FilterCustomPrefix+"no_commission_only" {
		t.Errorf("filter = %q", failed[0].Filter)
	}
}

func TestEvaluate_MultipleFailures(t *testing.T) {
	p := posting.Posting{
		WorkMode:  posting.ModeOnsite,
		Industry:  "Tobacco",
		SalaryMax: intPtr(50000),
	}
	c := persona.Constraints{
		MinimumBaseSalary:  intPtr(90000),
		RemotePolicy:       persona.RemoteOnly,
		ExcludedIndustries: []string{"tobacco"},
	}

	failed := Evaluate(p, c)
	if len(failed) != 3 {
		t.Fatalf("expected 3 failures, got %d: %v", len(failed), failed)
	}
}

func TestEvaluate_NoConstraints(t *testing.T) {
	if failed := Evaluate(posting.Posting{Title: "Anything"}, persona.Constraints{}); len(failed) != 0 {
		t.Fatalf("no constraints should never fail, got %v", failed)
	}
}
