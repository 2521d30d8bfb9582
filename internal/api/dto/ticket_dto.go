package dto

import (
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/dashboard"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// TicketListQuery captures the dashboard filter query parameters.
type TicketListQuery struct {
	Category     string `query:"category"`
	EscalateOnly string `query:"escalate_only"`
	Query        string `query:"q"`
}

// TicketSummary is a row of the dashboard table.
type TicketSummary struct {
	ID             domain.TicketID `json:"id"`
	Category       string          `json:"category"`
	Subject        string          `json:"subject"`
	RequesterName  string          `json:"requester_name"`
	RequesterEmail string          `json:"requester_email"`
	CreatedAt      string          `json:"created_at"`
	CreatedDate    string          `json:"created_date"`
	Summary        string          `json:"summary"`
	Escalate       bool            `json:"escalate"`
}

// TicketDetailResponse adds the raw body to the summary row.
type TicketDetailResponse struct {
	TicketSummary
	Body string `json:"body"`
}

// TicketListResponse is the filtered ticket view.
type TicketListResponse struct {
	Filter  FilterResponse  `json:"filter"`
	Count   int             `json:"count"`
	Showing string          `json:"showing"`
	Tickets []TicketSummary `json:"tickets"`
}

// FilterResponse echoes the applied filter.
type FilterResponse struct {
	Category     string `json:"category"`
	EscalateOnly bool   `json:"escalate_only"`
	Query        string `json:"query"`
}

// CategoryCountResponse is a present category with its count.
type CategoryCountResponse struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CategoryOptionResponse is an entry of the category selector.
type CategoryOptionResponse struct {
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Escalate bool   `json:"escalate"`
}

// OverviewResponse summarizes the loaded snapshot.
type OverviewResponse struct {
	Total         int                      `json:"total"`
	Loading       bool                     `json:"loading"`
	LoadedAt      *time.Time               `json:"loaded_at"`
	Source        string                   `json:"source"`
	Hash          string                   `json:"hash"`
	LoadError     string                   `json:"load_error,omitempty"`
	Counts        []CategoryCountResponse  `json:"counts"`
	Options       []CategoryOptionResponse `json:"options"`
	EscalationSet []string                 `json:"escalation_set"`
}

// NoteRequest is the body of an internal note.
type NoteRequest struct {
	Note string `json:"note"`
}

// AckResponse answers a placeholder action.
type AckResponse struct {
	AckID    string          `json:"ack_id"`
	TicketID domain.TicketID `json:"ticket_id"`
	Action   string          `json:"action"`
	Message  string          `json:"message"`
	Mock     bool            `json:"mock"`
}

// ReloadResponse reports the outcome of a reload.
type ReloadResponse struct {
	Total    int       `json:"total"`
	Source   string    `json:"source"`
	Hash     string    `json:"hash"`
	LoadedAt time.Time `json:"loaded_at"`
}

// NewTicketSummary maps a derived ticket.
func NewTicketSummary(t domain.DerivedTicket) TicketSummary {
	return TicketSummary{
		ID:             t.ID,
		Category:       t.Category,
		Subject:        t.Subject,
		RequesterName:  t.RequesterName(),
		RequesterEmail: t.RequesterEmail(),
		CreatedAt:      t.CreatedAt,
		CreatedDate:    t.CreatedDate,
		Summary:        t.Summary,
		Escalate:       t.Escalate,
	}
}

// NewTicketSummaries maps a ticket list, never returning nil.
func NewTicketSummaries(tickets []domain.DerivedTicket) []TicketSummary {
	items := make([]TicketSummary, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, NewTicketSummary(t))
	}
	return items
}

// NewCategoryCounts maps present categories in discovery order.
func NewCategoryCounts(present []dashboard.CategoryCount) []CategoryCountResponse {
	out := make([]CategoryCountResponse, 0, len(present))
	for _, p := range present {
		out = append(out, CategoryCountResponse{Label: p.Label, Count: p.Count})
	}
	return out
}

// NewCategoryOptions maps selector entries.
func NewCategoryOptions(options []dashboard.CategoryOption) []CategoryOptionResponse {
	out := make([]CategoryOptionResponse, 0, len(options))
	for _, o := range options {
		out = append(out, CategoryOptionResponse{Label: o.Label, Count: o.Count, Escalate: o.Escalate})
	}
	return out
}
