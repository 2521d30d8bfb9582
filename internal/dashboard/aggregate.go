package dashboard

import (
	"sort"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Counts maps a category label to the number of tickets carrying it.
type Counts map[string]int

// Total returns the sum of all counts.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// CategoryCount is one label with its count, used where order matters.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Aggregate counts tickets per category in a single pass.
func Aggregate(tickets []domain.DerivedTicket) Counts {
	counts := make(Counts)
	for _, t := range tickets {
		counts[t.Category]++
	}
	return counts
}

// DiscoveryOrder returns the categories present, each with its count, in the order they
// first appear in the ticket list.
func DiscoveryOrder(tickets []domain.DerivedTicket) []CategoryCount {
	index := make(map[string]int)
	var out []CategoryCount
	for _, t := range tickets {
		i, seen := index[t.Category]
		if !seen {
			index[t.Category] = len(out)
			out = append(out, CategoryCount{Label: t.Category, Count: 1})
			continue
		}
		out[i].Count++
	}
	return out
}

// CategoryOption is an entry of the category selector.
type CategoryOption struct {
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Escalate bool   `json:"escalate"`
}

// CategoryOptions lists the categories present by descending count (ties keep discovery
// order) behind the leading All option, which carries the total.
func CategoryOptions(tickets []domain.DerivedTicket) []CategoryOption {
	present := DiscoveryOrder(tickets)
	sort.SliceStable(present, func(i, j int) bool {
		return present[i].Count > present[j].Count
	})

	options := make([]CategoryOption, 0, len(present)+1)
	options = append(options, CategoryOption{Label: domain.AllCategories, Count: len(tickets)})
	for _, p := range present {
		options = append(options, CategoryOption{
			Label:    p.Label,
			Count:    p.Count,
			Escalate: domain.RequiresEscalation(p.Label),
		})
	}
	return options
}
