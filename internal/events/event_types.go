package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketsLoaded          EventType = "tickets_loaded"
	EventTicketResolveRequested EventType = "ticket_resolve_requested"
	EventTicketNoteRequested    EventType = "ticket_note_requested"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	TicketID  domain.TicketID `json:"ticket_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   interface{}     `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, ticketID domain.TicketID, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TicketsLoadedPayload payload.
type TicketsLoadedPayload struct {
	Source string `json:"source"`
	Hash   string `json:"hash"`
	Count  int    `json:"count"`
	Cached bool   `json:"cached"`
	Failed bool   `json:"failed"`
}

// PlaceholderActionPayload payload for acknowledged but unimplemented ticket actions.
type PlaceholderActionPayload struct {
	AckID       string `json:"ack_id"`
	Category    string `json:"category"`
	NotePreview string `json:"note_preview,omitempty"`
}
