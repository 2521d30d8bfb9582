package dashboard

import (
	"strings"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// FilterConfig is the user's current selection. The zero value selects nothing, use
// DefaultFilter for the unfiltered view.
type FilterConfig struct {
	Category     string
	EscalateOnly bool
	Query        string
}

// DefaultFilter shows every ticket.
func DefaultFilter() FilterConfig {
	return FilterConfig{Category: domain.AllCategories}
}

// Matches reports whether a single ticket passes every predicate.
func (f FilterConfig) Matches(t domain.DerivedTicket) bool {
	if !f.matchesCategory(t) {
		return false
	}
	if f.EscalateOnly && !domain.RequiresEscalation(t.Category) {
		return false
	}
	return f.matchesQuery(t)
}

func (f FilterConfig) matchesCategory(t domain.DerivedTicket) bool {
	return f.Category == domain.AllCategories || f.Category == t.Category
}

func (f FilterConfig) matchesQuery(t domain.DerivedTicket) bool {
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(t.Summary), q) ||
		strings.Contains(strings.ToLower(t.RequesterName()), q) ||
		strings.Contains(strings.ToLower(t.Subject), q)
}

// Filter returns the tickets matching cfg in their original order.
func Filter(tickets []domain.DerivedTicket, cfg FilterConfig) []domain.DerivedTicket {
	out := make([]domain.DerivedTicket, 0, len(tickets))
	for _, t := range tickets {
		if cfg.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
