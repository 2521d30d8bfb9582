package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Querier is the read side of pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TicketRepository reads source tickets. It never writes.
type TicketRepository interface {
	ListAll(ctx context.Context) ([]domain.Ticket, error)
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT payload FROM support_tickets ORDER BY position ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payloads [][]byte
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		payloads = append(payloads, payload)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return decodePayloads(payloads)
}

func decodePayloads(payloads [][]byte) ([]domain.Ticket, error) {
	tickets := make([]domain.Ticket, 0, len(payloads))
	for i, payload := range payloads {
		var t domain.Ticket
		if err := json.Unmarshal(payload, &t); err != nil {
			return nil, fmt.Errorf("decode ticket row %d: %w", i, err)
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}
