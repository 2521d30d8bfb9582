package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// TicketID is the opaque identifier of a source ticket. Sources emit it either as a
// JSON string or a JSON number.
type TicketID string

// UnmarshalJSON accepts string, number and null identifiers.
func (id *TicketID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TicketID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = TicketID(n.String())
	return nil
}

// Comment holds the ticket body.
type Comment struct {
	Body string `json:"body,omitempty"`
}

// UnmarshalJSON reads the body leniently: a non-string body decodes to "".
func (c *Comment) UnmarshalJSON(data []byte) error {
	var fields struct {
		Body json.RawMessage `json:"body"`
	}
	_ = json.Unmarshal(data, &fields)
	*c = Comment{Body: looseString(fields.Body)}
	return nil
}

// Requester describes who opened the ticket.
type Requester struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// UnmarshalJSON reads name and email leniently: non-string values decode to "".
func (r *Requester) UnmarshalJSON(data []byte) error {
	var fields struct {
		Name  json.RawMessage `json:"name"`
		Email json.RawMessage `json:"email"`
	}
	_ = json.Unmarshal(data, &fields)
	*r = Requester{Name: looseString(fields.Name), Email: looseString(fields.Email)}
	return nil
}

// Ticket is a support request as delivered by the ticket source. Every field is optional.
type Ticket struct {
	ID        TicketID   `json:"id,omitempty"`
	Subject   string     `json:"subject,omitempty"`
	Comment   *Comment   `json:"comment,omitempty"`
	Requester *Requester `json:"requester,omitempty"`
	CreatedAt string     `json:"created_at,omitempty"`
}

// UnmarshalJSON never rejects a ticket because of a malformed field. Text fields that
// are not strings decode to "", a comment or requester that is not an object is
// dropped, and an entry that is not an object at all decodes to the zero Ticket.
func (t *Ticket) UnmarshalJSON(data []byte) error {
	*t = Ticket{}
	var fields struct {
		ID        json.RawMessage `json:"id"`
		Subject   json.RawMessage `json:"subject"`
		Comment   json.RawMessage `json:"comment"`
		Requester json.RawMessage `json:"requester"`
		CreatedAt json.RawMessage `json:"created_at"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	if len(fields.ID) > 0 {
		var id TicketID
		if err := id.UnmarshalJSON(fields.ID); err == nil {
			t.ID = id
		}
	}
	t.Subject = looseString(fields.Subject)
	t.CreatedAt = looseString(fields.CreatedAt)
	if isObject(fields.Comment) {
		var c Comment
		_ = c.UnmarshalJSON(fields.Comment)
		t.Comment = &c
	}
	if isObject(fields.Requester) {
		var r Requester
		_ = r.UnmarshalJSON(fields.Requester)
		t.Requester = &r
	}
	return nil
}

func looseString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// Body returns the comment body or an empty string.
func (t Ticket) Body() string {
	if t.Comment == nil {
		return ""
	}
	return t.Comment.Body
}

// RequesterName returns the requester name or an empty string.
func (t Ticket) RequesterName() string {
	if t.Requester == nil {
		return ""
	}
	return t.Requester.Name
}

// RequesterEmail returns the requester email or an empty string.
func (t Ticket) RequesterEmail() string {
	if t.Requester == nil {
		return ""
	}
	return t.Requester.Email
}

// CreatedDate returns the date part of CreatedAt (everything before the time separator).
func (t Ticket) CreatedDate() string {
	if t.CreatedAt == "" {
		return ""
	}
	date, _, _ := strings.Cut(t.CreatedAt, "T")
	return date
}

// TicketDocument is the envelope of the static ticket source.
type TicketDocument struct {
	Tickets []Ticket `json:"tickets"`
}

// DerivedTicket is a ticket augmented with classification and display fields.
type DerivedTicket struct {
	Ticket
	Category    string `json:"category"`
	Summary     string `json:"summary"`
	CreatedDate string `json:"created_date"`
	Escalate    bool   `json:"escalate"`
}
