package scheduler

import (
	"context"
	"errors"
	"testing"
)

type stubReverifier struct {
	calls int
	err   error
}

func (s *stubReverifier) ReverifyActive(_ context.Context) (int, error) {
	s.calls++
	return 3, s.err
}

func TestRunSweepInvokesReverify(t *testing.T) {
	stub := &stubReverifier{}
	s := New(stub, 12, nil)

	s.runSweep()

	if stub.calls != 1 {
		t.Fatalf("expected 1 sweep call, got %d", stub.calls)
	}
}

func TestRunSweepSurvivesError(t *testing.T) {
	stub := &stubReverifier{err: errors.New("db down")}
	s := New(stub, 12, nil)

	s.runSweep()
	s.runSweep()

	if stub.calls != 2 {
		t.Fatalf("expected sweeps to keep running, got %d calls", stub.calls)
	}
}

func TestNewDefaultsInterval(t *testing.T) {
	s := New(&stubReverifier{}, 0, nil)
	if s.spec != "@every 12h" {
		t.Fatalf("unexpected spec %q", s.spec)
	}
}
