package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"applyforge/internal/domain/changeflag"
)

type FlagCreatedEvent struct {
	Type            string `json:"type"`
	FlagID          string `json:"flag_id"`
	ChangeType      string `json:"change_type"`
	ItemDescription string `json:"item_description"`
	Timestamp       string `json:"timestamp"`
}

type FlagResolvedEvent struct {
	Type       string `json:"type"`
	FlagID     string `json:"flag_id"`
	Resolution string `json:"resolution"`
	Timestamp  string `json:"timestamp"`
}

type RescoreCompletedEvent struct {
	Type      string `json:"type"`
	Processed int    `json:"processed"`
	Timestamp string `json:"timestamp"`
}

// Notifier pushes domain events to the persona's connected clients
// through the hub. Satisfies the usecase notifier contracts.
type Notifier struct {
	hub    *Hub
	logger *log.Logger
	now    func() time.Time
}

func NewNotifier(hub *Hub, logger *log.Logger) *Notifier {
	return &Notifier{hub: hub, logger: logger, now: time.Now}
}

func (n *Notifier) NotifyFlagCreated(personaID uuid.UUID, flag changeflag.Flag) {
	if n == nil {
		return
	}
	n.send(personaID, FlagCreatedEvent{
		Type:            "flag_created",
		FlagID:          flag.ID.String(),
		ChangeType:      string(flag.ChangeType),
		ItemDescription: flag.ItemDescription,
		Timestamp:       n.now().UTC().Format(time.RFC3339),
	})
}

func (n *Notifier) NotifyFlagResolved(personaID uuid.UUID, flag changeflag.Flag) {
	if n == nil {
		return
	}
	resolution := ""
	if flag.Resolution != nil {
		resolution = string(*flag.Resolution)
	}
	n.send(personaID, FlagResolvedEvent{
		Type:       "flag_resolved",
		FlagID:     flag.ID.String(),
		Resolution: resolution,
		Timestamp:  n.now().UTC().Format(time.RFC3339),
	})
}

func (n *Notifier) NotifyRescoreCompleted(personaID uuid.UUID, processed int) {
	if n == nil {
		return
	}
	n.send(personaID, RescoreCompletedEvent{
		Type:      "rescore_completed",
		Processed: processed,
		Timestamp: n.now().UTC().Format(time.RFC3339),
	})
}

func (n *Notifier) send(personaID uuid.UUID, event any) {
	b, err := json.Marshal(event)
	if err != nil {
		if n.logger != nil {
			n.logger.Printf("WS notify marshal error | error=%v", err)
		}
		return
	}
	n.hub.Send(personaID, b)
}
