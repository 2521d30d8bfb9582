package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

const document = `{"tickets":[{"id":1,"subject":"Login failed"},{"id":"b","subject":"Invoice"}]}`

func TestDecode(t *testing.T) {
	tickets, err := Decode(strings.NewReader(document))
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, domain.TicketID("1"), tickets[0].ID)

	tickets, err = Decode(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, tickets)
	assert.Empty(t, tickets)

	_, err = Decode(strings.NewReader(`{"tickets": "nope"}`))
	assert.Error(t, err)
}

func TestDecodeMalformedFields(t *testing.T) {
	tickets, err := Decode(strings.NewReader(`{"tickets":[
		{"id":1,"subject":"API down"},
		{"id":2,"subject":12345},
		{"id":3,"comment":"plain string body"},
		{"id":4,"comment":{"body":["x"]},"requester":{"name":7,"email":"e@example.com"},"created_at":false},
		{"id":{"nested":true},"subject":"Lost id"},
		"not a ticket"
	]}`))
	require.NoError(t, err)
	require.Len(t, tickets, 6)

	assert.Equal(t, "API down", tickets[0].Subject)

	assert.Equal(t, domain.TicketID("2"), tickets[1].ID)
	assert.Empty(t, tickets[1].Subject)

	assert.Equal(t, domain.TicketID("3"), tickets[2].ID)
	assert.Nil(t, tickets[2].Comment)
	assert.Empty(t, tickets[2].Body())

	assert.Empty(t, tickets[3].Body())
	assert.Empty(t, tickets[3].RequesterName())
	assert.Equal(t, "e@example.com", tickets[3].RequesterEmail())
	assert.Empty(t, tickets[3].CreatedAt)

	assert.Empty(t, tickets[4].ID)
	assert.Equal(t, "Lost id", tickets[4].Subject)

	assert.Equal(t, domain.Ticket{}, tickets[5])
}

func TestHTTPSourceLoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != config.WellKnownPath {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(document))
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL+"/", WithTimeout(5*time.Second))
	assert.Equal(t, server.URL+config.WellKnownPath, src.URL())
	assert.Equal(t, config.SourceHTTP, src.Kind())

	tickets, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestHTTPSourceStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewHTTPSource(server.URL).Load(context.Background())
	assert.ErrorContains(t, err, "unexpected status: 404")
}

func TestHTTPSourceCustomPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/export/tickets.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.TicketDocument{Tickets: []domain.Ticket{{Subject: "x"}}})
	}))
	defer server.Close()

	tickets, err := NewHTTPSource(server.URL, WithPath("/export/tickets.json"), WithHTTPClient(server.Client())).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestHTTPSourceCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(document))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTPSource(server.URL).Load(ctx)
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.json")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o644))

	tickets, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, tickets, 2)

	_, err = NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	src, err := New(config.SourceConfig{Kind: "FILE", Path: "x.json"}, nil)
	require.NoError(t, err)
	assert.Equal(t, config.SourceFile, src.Kind())

	src, err = New(config.SourceConfig{Kind: "http", BaseURL: "http://example.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, config.SourceHTTP, src.Kind())

	_, err = New(config.SourceConfig{Kind: "postgres"}, nil)
	assert.Error(t, err)

	_, err = New(config.SourceConfig{Kind: "ftp"}, nil)
	assert.Error(t, err)
}
