package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/dashboard"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

func TestToCSVEmpty(t *testing.T) {
	assert.Equal(t, "category,subject,requester,email,date,summary,escalate_to_eng", ToCSV(nil))
}

func TestToCSVQuotesSubject(t *testing.T) {
	tickets := dashboard.Derive([]domain.Ticket{{
		Subject:   `He said "help"`,
		Requester: &domain.Requester{Name: "Ana", Email: "ana@example.com"},
		CreatedAt: "2024-01-02T03:04:05Z",
	}})
	out := ToCSV(tickets)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`Support & Usage,"He said ""help""",Ana,ana@example.com,2024-01-02,"He said ""help""",NO`,
		lines[1])
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestToCSVMissingRequester(t *testing.T) {
	tickets := dashboard.Derive([]domain.Ticket{{Subject: "API down", Comment: &domain.Comment{Body: "error"}}})
	lines := strings.Split(ToCSV(tickets), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `Integrations & API,"API down",,,,"API down error",YES`, lines[1])
}

func TestToCSVColumnCount(t *testing.T) {
	tickets := dashboard.Derive([]domain.Ticket{
		{Subject: `quote " inside`, Comment: &domain.Comment{Body: "line\nbreak, comma"}},
		{Subject: "plain", Requester: &domain.Requester{Name: "Last, First", Email: `odd"mail@example.com`}},
		{},
	})
	out := ToCSV(tickets)

	r := csv.NewReader(strings.NewReader(out))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	for _, rec := range records {
		assert.Len(t, rec, len(Header))
	}
	assert.Equal(t, "Last, First", records[2][2])
	assert.Equal(t, `odd"mail@example.com`, records[2][3])
	assert.Equal(t, `quote " inside`, records[1][1])
}
