package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/tickets", "GET", 200, time.Millisecond)
	m.RecordRequest("/api/tickets", "GET", 200, time.Millisecond)
	m.RecordError("/api/tickets/:id/summary", "GET", "NOT_FOUND")
	m.RecordLoad("file", "ok", 12)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/tickets|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/tickets/:id/summary|GET|NOT_FOUND"])
	assert.Equal(t, int64(1), snap.Loads["file|ok"])
	assert.Equal(t, 12, snap.LastTickets)
	assert.False(t, snap.LastLoad.IsZero())

	snap.Requests["/api/tickets|GET|200"] = 99
	assert.Equal(t, int64(2), m.Snapshot().Requests["/api/tickets|GET|200"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	m.RecordLoad("file", "ok", 0)
	assert.Empty(t, m.Snapshot().Requests)
}
