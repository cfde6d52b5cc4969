package rescore

import (
	"context"
	"testing"
	"time"

	"applyforge/internal/usecase"

	"github.com/google/uuid"
)

type stubRescorer struct {
	done chan uuid.UUID
}

func (s *stubRescorer) RescoreAll(_ context.Context, personaID uuid.UUID) (int, error) {
	s.done <- personaID
	return 3, nil
}

type stubLock struct {
	allow   bool
	lockKey string
}

func (s *stubLock) SetIfNotExists(_ context.Context, key string, _ string, _ time.Duration) (bool, error) {
	s.lockKey = key
	return s.allow, nil
}
func (s *stubLock) Delete(context.Context, string) error { return nil }

type stubNotifier struct {
	done chan int
}

func (s *stubNotifier) NotifyRescoreCompleted(_ uuid.UUID, processed int) {
	s.done <- processed
}

func TestDispatch_RunsRescoreAndNotifies(t *testing.T) {
	personaID := uuid.New()
	r := &stubRescorer{done: make(chan uuid.UUID, 1)}
	n := &stubNotifier{done: make(chan int, 1)}
	lock := &stubLock{allow: true}
	d := NewDispatcher(r, lock, n, nil)

	if !d.Dispatch(context.Background(), personaID) {
		t.Fatalf("expected dispatch to start")
	}
	if lock.lockKey != usecase.RescoreLockKey(personaID) {
		t.Fatalf("single-flight must lock under the shared key, got %q", lock.lockKey)
	}

	select {
	case got := <-r.done:
		if got != personaID {
			t.Fatalf("rescored wrong persona")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("rescore never ran")
	}

	select {
	case processed := <-n.done:
		if processed != 3 {
			t.Fatalf("expected 3 processed, got %d", processed)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("completion was never notified")
	}
}

func TestDispatch_LockLoserDoesNothing(t *testing.T) {
	r := &stubRescorer{done: make(chan uuid.UUID, 1)}
	d := NewDispatcher(r, &stubLock{allow: false}, nil, nil)

	if d.Dispatch(context.Background(), uuid.New()) {
		t.Fatalf("lock loser must not start a run")
	}

	select {
	case <-r.done:
		t.Fatalf("lock loser must not rescore")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatch_NilPersonaRejected(t *testing.T) {
	d := NewDispatcher(&stubRescorer{done: make(chan uuid.UUID, 1)}, &stubLock{allow: true}, nil, nil)
	if d.Dispatch(context.Background(), uuid.Nil) {
		t.Fatalf("nil persona must not dispatch")
	}
}
