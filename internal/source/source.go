// Package source loads the raw ticket list from wherever it is published.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
)

// maxDocumentBytes bounds the size of a fetched ticket document.
const maxDocumentBytes = 32 << 20

// Source yields the current ticket list.
type Source interface {
	Kind() string
	Load(ctx context.Context) ([]domain.Ticket, error)
}

// New builds the source selected by cfg. pool is only used by the postgres kind.
func New(cfg config.SourceConfig, pool *pgxpool.Pool) (Source, error) {
	switch cfg.NormalizedKind() {
	case config.SourceFile:
		return NewFileSource(cfg.Path), nil
	case config.SourceHTTP:
		return NewHTTPSource(cfg.BaseURL, WithTimeout(cfg.FetchTimeout())), nil
	case config.SourcePostgres:
		if pool == nil {
			return nil, errors.New("postgres source requires a database connection")
		}
		return NewRepositorySource(repository.NewTicketRepository(pool)), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

// Decode reads a `{"tickets": [...]}` document. A document without the tickets key
// decodes to an empty list. Malformed fields inside a ticket degrade to empty values
// instead of failing the document.
func Decode(r io.Reader) ([]domain.Ticket, error) {
	var doc domain.TicketDocument
	if err := json.NewDecoder(io.LimitReader(r, maxDocumentBytes)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode ticket document: %w", err)
	}
	if doc.Tickets == nil {
		return []domain.Ticket{}, nil
	}
	return doc.Tickets, nil
}

// HTTPSource fetches the ticket document over HTTP.
type HTTPSource struct {
	httpClient *http.Client
	baseURL    string
	path       string
}

// Option configures an HTTPSource.
type Option func(*HTTPSource)

// WithPath overrides the well-known document path.
func WithPath(path string) Option {
	return func(s *HTTPSource) {
		s.path = path
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPSource) {
		s.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *HTTPSource) {
		s.httpClient = client
	}
}

// NewHTTPSource creates a source reading baseURL + the well-known path.
func NewHTTPSource(baseURL string, opts ...Option) *HTTPSource {
	s := &HTTPSource{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		path:       config.WellKnownPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind implements Source.
func (s *HTTPSource) Kind() string { return config.SourceHTTP }

// URL returns the document location.
func (s *HTTPSource) URL() string { return s.baseURL + s.path }

// Load implements Source.
func (s *HTTPSource) Load(ctx context.Context) ([]domain.Ticket, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tickets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return Decode(resp.Body)
}

// FileSource reads the ticket document from disk.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Kind implements Source.
func (s *FileSource) Kind() string { return config.SourceFile }

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) ([]domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open tickets: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// RepositorySource adapts the postgres repository.
type RepositorySource struct {
	repo repository.TicketRepository
}

// NewRepositorySource wraps a repository.
func NewRepositorySource(repo repository.TicketRepository) *RepositorySource {
	return &RepositorySource{repo: repo}
}

// Kind implements Source.
func (s *RepositorySource) Kind() string { return config.SourcePostgres }

// Load implements Source.
func (s *RepositorySource) Load(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	return tickets, nil
}

// Static serves a fixed list; used by tests and the CLI's stdin mode.
type Static struct {
	Tickets []domain.Ticket
	Err     error
}

// Kind implements Source.
func (s Static) Kind() string { return "static" }

// Load implements Source.
func (s Static) Load(ctx context.Context) ([]domain.Ticket, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Tickets, ctx.Err()
}
