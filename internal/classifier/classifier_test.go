package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

func ticket(subject, body string) domain.Ticket {
	return domain.Ticket{Subject: subject, Comment: &domain.Comment{Body: body}}
}

func TestSummarize(t *testing.T) {
	cases := []struct {
		name   string
		ticket domain.Ticket
		want   string
	}{
		{"subject and body", ticket("Hello", "World"), "Hello World"},
		{"newline runs collapse", ticket("Line\n\n\nbreak", "a\nb"), "Line break a b"},
		{"crlf", ticket("one\r\ntwo", ""), "one two"},
		{"trimmed", ticket("  padded  ", "\n\n"), "padded"},
		{"missing comment", domain.Ticket{Subject: "Only subject"}, "Only subject"},
		{"missing everything", domain.Ticket{}, ""},
		{"body only", domain.Ticket{Comment: &domain.Comment{Body: "just body"}}, "just body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Summarize(tc.ticket))
		})
	}
}

func TestClassifyScenarios(t *testing.T) {
	cases := []struct {
		name   string
		ticket domain.Ticket
		want   domain.Category
	}{
		{"lockout with 2fa", ticket("Login locked out after 2FA", ""), domain.CategoryAccess},
		{"webhook 500 error", ticket("API webhook returns 500 error", "stack trace attached"), domain.CategoryIntegrations},
		{"invoice", ticket("Wrong invoice amount", "I was charged twice"), domain.CategoryBilling},
		{"slow dashboard", ticket("Dashboard is very slow", ""), domain.CategoryPerformance},
		{"crash", ticket("App crash on startup", "exception thrown"), domain.CategoryBugs},
		{"feature request", ticket("Feature request: dark mode", "would be nice"), domain.CategoryFeature},
		{"fallback", ticket("How do I change my avatar?", "Thanks!"), domain.CategorySupport},
		{"empty", domain.Ticket{}, domain.CategorySupport},
		{"portuguese billing", ticket("Dúvida sobre boleto", ""), domain.CategoryBilling},
		{"portuguese bug", ticket("O botão não funciona", ""), domain.CategoryBugs},
		{"upper case", ticket("MFA CODE NOT ARRIVING", ""), domain.CategoryAccess},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.ticket))
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// matches both the integrations and the bugs rule
	got := Classify(ticket("Endpoint error", "exception in SDK"))
	assert.Equal(t, domain.CategoryIntegrations, got)

	// billing precedes performance
	got = Classify(ticket("Payment page timeout", ""))
	assert.Equal(t, domain.CategoryBilling, got)
}

func TestClassifyAlwaysReturnsCatalogueLabel(t *testing.T) {
	labels := map[string]bool{}
	for _, c := range domain.Categories() {
		labels[c.Label] = true
	}
	inputs := []domain.Ticket{
		{},
		ticket("", ""),
		ticket("random words", "nothing here"),
		ticket("token expired", ""),
		ticket("\n\n\n", "\n"),
	}
	for _, in := range inputs {
		got := Classify(in)
		require.NotEmpty(t, got.Label)
		assert.True(t, labels[got.Label], "unexpected label %q", got.Label)
	}
}

func TestRulesOrder(t *testing.T) {
	table := Rules()
	require.Len(t, table, 6)
	want := []domain.Category{
		domain.CategoryAccess,
		domain.CategoryBilling,
		domain.CategoryPerformance,
		domain.CategoryIntegrations,
		domain.CategoryBugs,
		domain.CategoryFeature,
	}
	for i, r := range table {
		assert.Equal(t, want[i], r.Category)
		assert.NotEmpty(t, r.Pattern)
	}
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint()
	assert.Len(t, fp, 16)
	assert.Equal(t, fp, Fingerprint())
	assert.Equal(t, fp, fingerprintOf(Rules(), domain.Categories(), Fallback))

	reordered := Rules()
	reordered[0], reordered[1] = reordered[1], reordered[0]
	assert.NotEqual(t, fp, fingerprintOf(reordered, domain.Categories(), Fallback))

	edited := Rules()
	edited[3].Pattern += "|graphql"
	assert.NotEqual(t, fp, fingerprintOf(edited, domain.Categories(), Fallback))

	catalogue := domain.Categories()
	catalogue[0].Escalate = !catalogue[0].Escalate
	assert.NotEqual(t, fp, fingerprintOf(Rules(), catalogue, Fallback))

	assert.NotEqual(t, fp, fingerprintOf(Rules(), domain.Categories(), domain.CategoryFeature))
}
