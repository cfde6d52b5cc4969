package ws

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d clients, got %d", want, h.ClientCount())
}

func TestSendTargetsSinglePersona(t *testing.T) {
	h := NewHub(nil)
	go h.Run()

	personaA := uuid.New()
	personaB := uuid.New()
	a := NewClient(h, nil, personaA)
	b := NewClient(h, nil, personaB)
	h.Register(a)
	h.Register(b)
	waitForClients(t, h, 2)

	h.Send(personaA, []byte(`{"type":"flag_created"}`))

	select {
	case msg := <-a.send:
		if string(msg) != `{"type":"flag_created"}` {
			t.Fatalf("unexpected payload %s", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("target client never received the event")
	}

	select {
	case msg := <-b.send:
		t.Fatalf("other persona must not receive the event, got %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSendNilPersonaBroadcasts(t *testing.T) {
	h := NewHub(nil)
	go h.Run()

	a := NewClient(h, nil, uuid.New())
	b := NewClient(h, nil, uuid.New())
	h.Register(a)
	h.Register(b)
	waitForClients(t, h, 2)

	h.Send(uuid.Nil, []byte("hello"))

	for _, c := range []*Client{a, b} {
		select {
		case <-c.send:
		case <-time.After(2 * time.Second):
			t.Fatalf("broadcast never reached every client")
		}
	}
}

func TestNilHubIsSafe(t *testing.T) {
	var h *Hub
	h.Register(nil)
	h.Unregister(nil)
	h.Send(uuid.New(), []byte("x"))
	if h.ClientCount() != 0 {
		t.Fatalf("nil hub must report zero clients")
	}
}
