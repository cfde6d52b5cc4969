package lifecycle_test

import (
	"testing"

	"applyforge/internal/domain/lifecycle"
)

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"Draft", "Approved", "Archived"}
	for _, s := range valid {
		got, err := lifecycle.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_InvalidValue(t *testing.T) {
	if _, err := lifecycle.ParseStatus("Published"); err == nil {
		t.Error("ParseStatus(\"Published\") expected error, got nil")
	}
	if _, err := lifecycle.ParseStatus(""); err == nil {
		t.Error("ParseStatus(\"\") expected error, got nil")
	}
}

func TestIsTransitionAllowed_ValidEdges(t *testing.T) {
	cases := []struct {
		from, to lifecycle.Status
	}{
		{lifecycle.StatusDraft, lifecycle.StatusApproved},
		{lifecycle.StatusDraft, lifecycle.StatusArchived},
		{lifecycle.StatusApproved, lifecycle.StatusArchived},
	}
	for _, tc := range cases {
		if !lifecycle.IsTransitionAllowed(tc.from, tc.to) {
			t.Errorf("transition %s → %s should be allowed", tc.from, tc.to)
		}
	}
}

func TestIsTransitionAllowed_InvalidEdges(t *testing.T) {
	cases := []struct {
		from, to lifecycle.Status
	}{
		{lifecycle.StatusApproved, lifecycle.StatusDraft},
		{lifecycle.StatusArchived, lifecycle.StatusDraft},
		{lifecycle.StatusArchived, lifecycle.StatusApproved},
		{lifecycle.StatusDraft, lifecycle.StatusDraft},
	}
	for _, tc := range cases {
		if lifecycle.IsTransitionAllowed(tc.from, tc.to) {
			t.Errorf("transition %s → %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if !lifecycle.IsTerminal(lifecycle.StatusArchived) {
		t.Error("Archived should be terminal")
	}
	if lifecycle.IsTerminal(lifecycle.StatusDraft) || lifecycle.IsTerminal(lifecycle.StatusApproved) {
		t.Error("Draft and Approved should not be terminal")
	}
}
