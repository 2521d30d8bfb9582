package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/cache"
	"github.com/spec-kit/ticket-dashboard/internal/dashboard"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/export"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/source"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// ErrLoadAbandoned is returned when the caller went away before the load finished.
var ErrLoadAbandoned = errors.New("ticket load abandoned")

// notePreviewLen bounds the note text carried in events.
const notePreviewLen = 80

// State is the dashboard data currently served.
type State struct {
	dashboard.Snapshot
	Source   string
	LoadedAt time.Time
	// Loaded is false until the first load attempt has finished.
	Loaded bool
	// LoadError holds the message of the last failed load, if any.
	LoadError string
}

// Acknowledgement answers a placeholder action that changes nothing.
type Acknowledgement struct {
	ID       string
	TicketID domain.TicketID
	Action   string
	Message  string
}

// DashboardService owns the loaded ticket snapshot and answers dashboard queries.
type DashboardService struct {
	source     source.Source
	cache      cache.SnapshotCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	timeout    time.Duration

	loadMu sync.Mutex
	mu     sync.RWMutex
	state  State
}

// DashboardDependencies bundles collaborators for the dashboard service.
type DashboardDependencies struct {
	Source       source.Source
	Cache        cache.SnapshotCache
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	FetchTimeout time.Duration
}

// NewDashboardService constructs the service with an empty, not yet loaded state.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	s := &DashboardService{
		source:     deps.Source,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		timeout:    deps.FetchTimeout,
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.state = State{Snapshot: dashboard.FromDerived("", nil), Source: s.sourceKind()}
	return s
}

// Load fetches the ticket list and swaps in a freshly derived snapshot. A failed fetch is
// logged and served as an empty list. If ctx is cancelled while fetching, the result is
// discarded and the current state is kept.
func (s *DashboardService) Load(ctx context.Context) (State, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	fetchCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	kind := s.sourceKind()
	tickets, err := s.source.Load(fetchCtx)
	if ctx.Err() != nil {
		return s.Current(), ErrLoadAbandoned
	}
	if err != nil {
		s.logger.Warn("failed to load tickets", zap.String("source", kind), zap.Error(err))
		s.metrics.RecordLoad(kind, "failed", 0)
		failed := State{
			Snapshot:  dashboard.FromDerived("", nil),
			Source:    kind,
			LoadedAt:  time.Now().UTC(),
			Loaded:    true,
			LoadError: err.Error(),
		}
		s.mu.Lock()
		s.state = failed
		s.mu.Unlock()
		s.publish(ctx, events.NewEvent(events.EventTicketsLoaded, "", events.TicketsLoadedPayload{
			Source: kind,
			Failed: true,
		}))
		return failed, err
	}

	snapshot, cached := s.derive(ctx, tickets)
	next := State{
		Snapshot: snapshot,
		Source:   kind,
		LoadedAt: time.Now().UTC(),
		Loaded:   true,
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	outcome := "ok"
	if cached {
		outcome = "cached"
	}
	s.metrics.RecordLoad(kind, outcome, len(snapshot.Tickets))
	s.logger.Info("tickets loaded",
		zap.String("source", kind),
		zap.Int("count", len(snapshot.Tickets)),
		zap.String("hash", snapshot.Hash),
		zap.Bool("cached", cached))
	s.publish(ctx, events.NewEvent(events.EventTicketsLoaded, "", events.TicketsLoadedPayload{
		Source: kind,
		Hash:   snapshot.Hash,
		Count:  len(snapshot.Tickets),
		Cached: cached,
	}))
	return next, nil
}

func (s *DashboardService) derive(ctx context.Context, tickets []domain.Ticket) (dashboard.Snapshot, bool) {
	hash, err := dashboard.ContentHash(tickets)
	if err != nil {
		s.logger.Warn("unable to hash tickets; skipping cache", zap.Error(err))
		return dashboard.NewSnapshot("", tickets), false
	}

	key := dashboard.DerivationKey(hash)
	derived, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("snapshot cache read failed", zap.Error(err))
	}
	if ok && len(derived) == len(tickets) {
		return dashboard.FromDerived(hash, derived), true
	}

	snapshot := dashboard.NewSnapshot(hash, tickets)
	if err := s.cache.Put(ctx, key, snapshot.Tickets); err != nil {
		s.logger.Warn("snapshot cache write failed", zap.Error(err))
	}
	return snapshot, false
}

// Current returns the state being served.
func (s *DashboardService) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// List returns the filtered ticket view.
func (s *DashboardService) List(cfg dashboard.FilterConfig) []domain.DerivedTicket {
	return s.Current().View(cfg)
}

// ExportCSV renders the filtered view as CSV.
func (s *DashboardService) ExportCSV(cfg dashboard.FilterConfig) string {
	return export.ToCSV(s.List(cfg))
}

// Ticket looks up a derived ticket by id.
func (s *DashboardService) Ticket(id domain.TicketID) (domain.DerivedTicket, error) {
	t, ok := s.Current().Find(id)
	if !ok {
		return domain.DerivedTicket{}, apperrors.NewNotFound("ticket", map[string]any{"id": string(id)})
	}
	return t, nil
}

// Summary returns the text offered for copying to the clipboard.
func (s *DashboardService) Summary(id domain.TicketID) (string, error) {
	t, err := s.Ticket(id)
	if err != nil {
		return "", err
	}
	return t.Summary, nil
}

// RequestResolve acknowledges a "mark resolved" request. Nothing is persisted.
func (s *DashboardService) RequestResolve(ctx context.Context, id domain.TicketID) (Acknowledgement, error) {
	t, err := s.Ticket(id)
	if err != nil {
		return Acknowledgement{}, err
	}
	ack := Acknowledgement{
		ID:       uuid.NewString(),
		TicketID: t.ID,
		Action:   "resolve",
		Message:  "Mark as resolved (mock): no backend is connected, the ticket is unchanged",
	}
	s.publish(ctx, events.NewEvent(events.EventTicketResolveRequested, t.ID, events.PlaceholderActionPayload{
		AckID:    ack.ID,
		Category: t.Category,
	}))
	return ack, nil
}

// AddInternalNote acknowledges an internal note. The note is not stored.
func (s *DashboardService) AddInternalNote(ctx context.Context, id domain.TicketID, note string) (Acknowledgement, error) {
	t, err := s.Ticket(id)
	if err != nil {
		return Acknowledgement{}, err
	}
	ack := Acknowledgement{
		ID:       uuid.NewString(),
		TicketID: t.ID,
		Action:   "note",
		Message:  "Add internal note (mock): no backend is connected, the note was not saved",
	}
	s.publish(ctx, events.NewEvent(events.EventTicketNoteRequested, t.ID, events.PlaceholderActionPayload{
		AckID:       ack.ID,
		Category:    t.Category,
		NotePreview: preview(note),
	}))
	return ack, nil
}

func (s *DashboardService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func (s *DashboardService) sourceKind() string {
	if s.source == nil {
		return ""
	}
	return s.source.Kind()
}

func preview(note string) string {
	note = strings.TrimSpace(note)
	runes := []rune(note)
	if len(runes) <= notePreviewLen {
		return note
	}
	return string(runes[:notePreviewLen]) + "…"
}
