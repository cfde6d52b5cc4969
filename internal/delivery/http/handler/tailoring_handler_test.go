package handler

import (
	"strings"
	"testing"

	"applyforge/internal/domain/guardrail"
	"applyforge/internal/usecase"
)

func TestFormatPackageViolations_NamesBlockedArtifact(t *testing.T) {
	checks := usecase.PackageValidation{
		Variant: guardrail.Result{Passed: true},
		CoverLetter: guardrail.Result{Passed: false, Violations: []guardrail.Violation{
			{Severity: guardrail.SeverityError, Rule: "blacklist_phrase", Message: "contains a blacklisted phrase"},
		}},
	}

	msg := formatPackageViolations(checks)
	if !strings.Contains(msg, "cover letter: blacklist_phrase") {
		t.Fatalf("message must name the blocking artifact and rule, got %q", msg)
	}
	if strings.Contains(msg, "variant:") {
		t.Fatalf("passing artifact must not be reported, got %q", msg)
	}
}

func TestFormatPackageViolations_ReportsBothSides(t *testing.T) {
	checks := usecase.PackageValidation{
		Variant: guardrail.Result{Passed: false, Violations: []guardrail.Violation{
			{Severity: guardrail.SeverityError, Rule: "fabricated_skill"},
			{Severity: guardrail.SeverityWarning, Rule: "summary_length"},
		}},
		CoverLetter: guardrail.Result{Passed: false, Violations: []guardrail.Violation{
			{Severity: guardrail.SeverityError, Rule: "word_count"},
		}},
	}

	msg := formatPackageViolations(checks)
	if !strings.Contains(msg, "variant: fabricated_skill") || !strings.Contains(msg, "cover letter: word_count") {
		t.Fatalf("message must name both blocking artifacts, got %q", msg)
	}
	if strings.Contains(msg, "summary_length") {
		t.Fatalf("warnings never block and must not be listed, got %q", msg)
	}
}
