package guardrail

import (
	"strings"
	"testing"
)

func letterOfWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = "word"
	}
	return strings.Join(words, " ")
}

func baseCheck(text string) CoverLetterCheck {
	return CoverLetterCheck{
		Text:        text,
		CompanyName: "Acme",
		MinWords:    250,
		MaxWords:    350,
		Blacklist:   []string{"to whom it may concern", "dear sir or madam"},
	}
}

func TestCoverLetterCheck_TooShort(t *testing.T) {
	res := baseCheck(letterOfWords(50)).Validate()
	if res.Passed {
		t.Fatal("50-word letter against [250,350] must fail")
	}
	if len(res.Violations) == 0 {
		t.Fatal("expected violations")
	}
	assertHasViolation(t, res, RuleLengthMin, SeverityError)
}

func TestCoverLetterCheck_TooLong(t *testing.T) {
	res := baseCheck(letterOfWords(400)).Validate()
	if res.Passed {
		t.Fatal("400-word letter against [250,350] must fail")
	}
	assertHasViolation(t, res, RuleLengthMax, SeverityError)
}

func TestCoverLetterCheck_InBandWithCompanyPasses(t *testing.T) {
	text := "I have long admired Acme. " + letterOfWords(280)
	res := baseCheck(text).Validate()
	if !res.Passed {
		t.Fatalf("expected pass, got %+v", res.Violations)
	}
	for _, v := range res.Violations {
		if v.Severity == SeverityError {
			t.Errorf("unexpected error violation %+v", v)
		}
	}
}

func TestCoverLetterCheck_BlacklistedPhrase(t *testing.T) {
	text := "To Whom It May Concern, " + letterOfWords(280)
	res := baseCheck(text).Validate()
	if res.Passed {
		t.Fatal("blacklisted phrase must fail validation")
	}
	assertHasViolation(t, res, RuleBlacklistedPhrase, SeverityError)
}

func TestCoverLetterCheck_MissingCompanyIsWarning(t *testing.T) {
	res := baseCheck(letterOfWords(300)).Validate()
	if !res.Passed {
		t.Fatalf("missing company mention must not block, got %+v", res.Violations)
	}
	assertHasViolation(t, res, RuleCompanyMention, SeverityWarning)
}

func TestCoverLetterCheck_PassedMatchesErrorPresence(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"short", letterOfWords(10)},
		{"long", letterOfWords(500)},
		{"clean", "Acme is great. " + letterOfWords(300)},
		{"blacklisted", "dear sir or madam " + letterOfWords(300)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := baseCheck(tc.text).Validate()
			hasError := false
			for _, v := range res.Violations {
				if v.Severity == SeverityError {
					hasError = true
				}
			}
			if res.Passed == hasError {
				t.Errorf("passed=%v but hasError=%v", res.Passed, hasError)
			}
		})
	}
}
