package dashboard

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/spec-kit/ticket-dashboard/internal/classifier"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Snapshot is the derived state of one loaded ticket list.
type Snapshot struct {
	Hash    string
	Tickets []domain.DerivedTicket
	Counts  Counts
	Present []CategoryCount
	Options []CategoryOption
}

// ContentHash fingerprints a ticket list. Equal lists hash equally, so the hash can key
// caches of derived data.
func ContentHash(tickets []domain.Ticket) (string, error) {
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	raw, err := json.Marshal(tickets)
	if err != nil {
		return "", fmt.Errorf("encode tickets: %w", err)
	}
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// DerivationKey keys cached derived tickets. It pairs the content hash with the
// classifier fingerprint, so entries written under another rule table never match.
func DerivationKey(contentHash string) string {
	return contentHash + ":" + classifier.Fingerprint()
}

// NewSnapshot derives everything from a raw ticket list.
func NewSnapshot(hash string, tickets []domain.Ticket) Snapshot {
	return FromDerived(hash, Derive(tickets))
}

// FromDerived builds the aggregates of already derived tickets.
func FromDerived(hash string, derived []domain.DerivedTicket) Snapshot {
	if derived == nil {
		derived = []domain.DerivedTicket{}
	}
	return Snapshot{
		Hash:    hash,
		Tickets: derived,
		Counts:  Aggregate(derived),
		Present: DiscoveryOrder(derived),
		Options: CategoryOptions(derived),
	}
}

// View applies a filter to the snapshot.
func (s Snapshot) View(cfg FilterConfig) []domain.DerivedTicket {
	return Filter(s.Tickets, cfg)
}

// Find returns the first ticket with the given id.
func (s Snapshot) Find(id domain.TicketID) (domain.DerivedTicket, bool) {
	if id == "" {
		return domain.DerivedTicket{}, false
	}
	for _, t := range s.Tickets {
		if t.ID == id {
			return t, true
		}
	}
	return domain.DerivedTicket{}, false
}

// Chart returns the bar chart of the snapshot.
func (s Snapshot) Chart() BarChart {
	return BuildChart(s.Present)
}
