package guardrail

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Violation struct {
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
}

// Result is the shared outcome of both artifact validators. Passed is true
// exactly when no error-severity violation is present; warnings never block.
type Result struct {
	Passed     bool        `json:"passed"`
	Violations []Violation `json:"violations"`
}

// Validatable is implemented by any artifact the approval flow can gate on.
type Validatable interface {
	Validate() Result
}

func newResult(violations []Violation) Result {
	passed := true
	for _, v := range violations {
		if v.Severity == SeverityError {
			passed = false
			break
		}
	}
	if violations == nil {
		violations = []Violation{}
	}
	return Result{Passed: passed, Violations: violations}
}
