package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/classifier"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

func raw(id, subject, body, name string) domain.Ticket {
	t := domain.Ticket{ID: domain.TicketID(id), Subject: subject}
	if body != "" {
		t.Comment = &domain.Comment{Body: body}
	}
	if name != "" {
		t.Requester = &domain.Requester{Name: name, Email: name + "@example.com"}
	}
	return t
}

func fixture() []domain.Ticket {
	return []domain.Ticket{
		raw("1", "API webhook returns 500 error", "", "Bruna"),
		raw("2", "Invoice charged twice", "", "Carlos"),
		raw("3", "Login locked out after 2FA", "", ""),
		raw("4", "App crash on export", "exception", "Diana"),
		raw("5", "Webhook retries", "callback never arrives", "Bruna"),
		raw("6", "How to invite teammates", "", "Eva"),
		raw("7", "Reports are slow", "", "Carlos"),
	}
}

func TestDerive(t *testing.T) {
	in := []domain.Ticket{
		{ID: "a", Subject: "Login\nfailed", Comment: &domain.Comment{Body: "help"}, CreatedAt: "2024-03-01T09:00:00Z"},
		{},
	}
	derived := Derive(in)
	require.Len(t, derived, 2)

	assert.Equal(t, "Login failed help", derived[0].Summary)
	assert.Equal(t, "Access & Authentication", derived[0].Category)
	assert.Equal(t, "2024-03-01", derived[0].CreatedDate)
	assert.False(t, derived[0].Escalate)

	assert.Equal(t, "Support & Usage", derived[1].Category)
	assert.Empty(t, derived[1].CreatedDate)
	assert.Empty(t, derived[1].Summary)

	// input untouched
	assert.Equal(t, "Login\nfailed", in[0].Subject)
}

func TestAggregateSumsToTotal(t *testing.T) {
	derived := Derive(fixture())
	counts := Aggregate(derived)

	assert.Equal(t, len(derived), counts.Total())
	assert.Equal(t, 2, counts["Integrations & API"])
	assert.Equal(t, 1, counts["Billing & Payment"])
	assert.Equal(t, 1, counts["Access & Authentication"])
	assert.Equal(t, 1, counts["Bugs & Errors"])
	assert.Equal(t, 1, counts["Support & Usage"])
	assert.Equal(t, 1, counts["Performance & Latency"])
	_, ok := counts["Feature Request"]
	assert.False(t, ok, "absent categories must not appear")
}

func TestCategoryOptionsOrder(t *testing.T) {
	options := CategoryOptions(Derive(fixture()))
	labels := make([]string, 0, len(options))
	for _, o := range options {
		labels = append(labels, o.Label)
	}
	assert.Equal(t, []string{
		"All",
		"Integrations & API",
		"Billing & Payment",
		"Access & Authentication",
		"Bugs & Errors",
		"Support & Usage",
		"Performance & Latency",
	}, labels)
	assert.Equal(t, 7, options[0].Count)
	assert.True(t, options[1].Escalate)
	assert.False(t, options[2].Escalate)
}

func TestEmptyList(t *testing.T) {
	snap := NewSnapshot("h", nil)
	assert.Empty(t, snap.Counts)
	require.Len(t, snap.Options, 1)
	assert.Equal(t, domain.AllCategories, snap.Options[0].Label)
	assert.Empty(t, snap.View(DefaultFilter()))
	assert.Empty(t, snap.Chart().Labels)
}

func TestFilterEscalateOnly(t *testing.T) {
	derived := Derive([]domain.Ticket{
		raw("1", "Crash with exception", "", ""),
		raw("2", "Invoice question", "", ""),
		raw("3", "Locked out of my account", "", ""),
	})
	require.Equal(t, "Bugs & Errors", derived[0].Category)
	require.Equal(t, "Billing & Payment", derived[1].Category)
	require.Equal(t, "Access & Authentication", derived[2].Category)

	got := Filter(derived, FilterConfig{Category: domain.AllCategories, EscalateOnly: true})
	require.Len(t, got, 1)
	assert.Equal(t, domain.TicketID("1"), got[0].ID)
}

func TestFilterPredicates(t *testing.T) {
	derived := Derive(fixture())

	t.Run("category", func(t *testing.T) {
		got := Filter(derived, FilterConfig{Category: "Integrations & API"})
		assert.Equal(t, []domain.TicketID{"1", "5"}, ids(got))
	})
	t.Run("query on requester name", func(t *testing.T) {
		got := Filter(derived, FilterConfig{Category: domain.AllCategories, Query: "CARLOS"})
		assert.Equal(t, []domain.TicketID{"2", "7"}, ids(got))
	})
	t.Run("query on body via summary", func(t *testing.T) {
		got := Filter(derived, FilterConfig{Category: domain.AllCategories, Query: "callback"})
		assert.Equal(t, []domain.TicketID{"5"}, ids(got))
	})
	t.Run("unknown category", func(t *testing.T) {
		assert.Empty(t, Filter(derived, FilterConfig{Category: "Nope"}))
	})
	t.Run("zero value selects nothing", func(t *testing.T) {
		assert.Empty(t, Filter(derived, FilterConfig{}))
	})
	t.Run("conjunction", func(t *testing.T) {
		// Bruna owns tickets 1 and 5, both escalated integrations; category excludes them.
		got := Filter(derived, FilterConfig{Category: "Billing & Payment", EscalateOnly: true, Query: "bruna"})
		assert.Empty(t, got)
		got = Filter(derived, FilterConfig{Category: "Integrations & API", EscalateOnly: true, Query: "zzz"})
		assert.Empty(t, got)
		got = Filter(derived, FilterConfig{Category: "Billing & Payment", EscalateOnly: true, Query: "carlos"})
		assert.Empty(t, got)
		got = Filter(derived, FilterConfig{Category: "Integrations & API", EscalateOnly: true, Query: "bruna"})
		assert.Equal(t, []domain.TicketID{"1", "5"}, ids(got))
	})
}

func TestFilterIdempotent(t *testing.T) {
	derived := Derive(fixture())
	cfg := FilterConfig{Category: domain.AllCategories, EscalateOnly: true, Query: "web"}
	once := Filter(derived, cfg)
	twice := Filter(once, cfg)
	assert.Equal(t, once, twice)
	assert.Equal(t, once, Filter(derived, cfg))
}

func TestContentHash(t *testing.T) {
	a, err := ContentHash(fixture())
	require.NoError(t, err)
	b, err := ContentHash(fixture())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	changed := fixture()
	changed[0].Subject = "different"
	c, err := ContentHash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	empty, err := ContentHash(nil)
	require.NoError(t, err)
	emptySlice, err := ContentHash([]domain.Ticket{})
	require.NoError(t, err)
	assert.Equal(t, empty, emptySlice)
}

func TestSnapshotFind(t *testing.T) {
	snap := NewSnapshot("h", fixture())
	got, ok := snap.Find("4")
	require.True(t, ok)
	assert.Equal(t, "Bugs & Errors", got.Category)

	_, ok = snap.Find("missing")
	assert.False(t, ok)
	_, ok = snap.Find("")
	assert.False(t, ok)
}

func TestBuildChart(t *testing.T) {
	chart := NewSnapshot("h", fixture()).Chart()
	assert.Equal(t, []string{
		"Integrations & API",
		"Billing & Payment",
		"Access & Authentication",
		"Bugs & Errors",
		"Support & Usage",
		"Performance & Latency",
	}, chart.Labels)
	require.Len(t, chart.Datasets, 1)
	ds := chart.Datasets[0]
	assert.Equal(t, []int{2, 1, 1, 1, 1, 1}, ds.Data)
	assert.Equal(t, "#4CAF50", ds.BackgroundColor[0])
	assert.Equal(t, "#4CAF50", ds.BackgroundColor[4])
	assert.Equal(t, 1, ds.BorderWidth)
}

func ids(tickets []domain.DerivedTicket) []domain.TicketID {
	out := make([]domain.TicketID, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ID)
	}
	return out
}

func TestDerivationKey(t *testing.T) {
	key := DerivationKey("abc")
	assert.Equal(t, "abc:"+classifier.Fingerprint(), key)
	assert.NotEqual(t, DerivationKey("abd"), key)
}
