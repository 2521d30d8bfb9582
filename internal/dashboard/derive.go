// Package dashboard holds the pure pipeline behind the ticket dashboard: deriving
// display fields, counting categories, filtering the visible list and building chart
// series. Nothing here mutates its input.
package dashboard

import (
	"github.com/spec-kit/ticket-dashboard/internal/classifier"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// DeriveTicket computes category, summary and date fields for one ticket.
func DeriveTicket(t domain.Ticket) domain.DerivedTicket {
	summary := classifier.Summarize(t)
	category := classifier.ClassifyText(summary)
	return domain.DerivedTicket{
		Ticket:      t,
		Category:    category.Label,
		Summary:     summary,
		CreatedDate: t.CreatedDate(),
		Escalate:    category.Escalate,
	}
}

// Derive maps every ticket to its derived form, preserving order.
func Derive(tickets []domain.Ticket) []domain.DerivedTicket {
	derived := make([]domain.DerivedTicket, 0, len(tickets))
	for _, t := range tickets {
		derived = append(derived, DeriveTicket(t))
	}
	return derived
}
