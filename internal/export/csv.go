// Package export serializes the filtered ticket view.
package export

import (
	"strings"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

const (
	// ContentType is the MIME type of the CSV export.
	ContentType = "text/csv; charset=utf-8"
	// DefaultFilename is the attachment name offered to browsers.
	DefaultFilename = "tickets_filtered.csv"

	// EscalateYes marks a row whose category requires engineering escalation.
	EscalateYes = "YES"
	// EscalateNo marks every other row.
	EscalateNo = "NO"
)

// Header lists the CSV columns in order.
var Header = []string{"category", "subject", "requester", "email", "date", "summary", "escalate_to_eng"}

// ToCSV renders the tickets as CSV. Subject and summary are always quoted, the other
// columns only when they need it. Rows are separated by "\n" without a trailing newline.
func ToCSV(tickets []domain.DerivedTicket) string {
	rows := make([]string, 0, len(tickets)+1)
	rows = append(rows, strings.Join(Header, ","))
	for _, t := range tickets {
		rows = append(rows, strings.Join(Row(t), ","))
	}
	return strings.Join(rows, "\n")
}

// Row returns the encoded fields of one ticket.
func Row(t domain.DerivedTicket) []string {
	flag := EscalateNo
	if domain.RequiresEscalation(t.Category) {
		flag = EscalateYes
	}
	return []string{
		field(t.Category),
		quote(t.Subject),
		field(t.RequesterName()),
		field(t.RequesterEmail()),
		field(t.CreatedDate),
		quote(t.Summary),
		flag,
	}
}

func field(s string) string {
	if strings.ContainsAny(s, "\",\r\n") {
		return quote(s)
	}
	return s
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
