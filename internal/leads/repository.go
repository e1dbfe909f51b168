// Package leads manages conversation records. One lead is created per inbound
// message and transitioned to responded exactly once by the orchestrator.
package leads

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Lead status lifecycle. New leads may later be assigned to a human agent;
// the pipeline itself only ever moves new -> responded.
const (
	StatusNew       = "new"
	StatusResponded = "responded"
	StatusAssigned  = "assigned"
)

var ErrNotFound = errors.New("lead not found")

// Repository persists leads in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new leads repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateLead inserts a new lead with status "new" and returns its ID.
func (r *Repository) CreateLead(ctx context.Context, userID, queryText, intent, locale, assignedAgent string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO leads (id, whatsapp_user_id, user_locale, intent, query_text, assigned_agent, status)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), $7)
	`, id, userID, locale, intent, queryText, assignedAgent, StatusNew)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create lead: %w", err)
	}
	return id, nil
}

// MarkResponded transitions a lead to the responded status.
func (r *Repository) MarkResponded(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET status = $2, updated_at = now() WHERE id = $1
	`, id, StatusResponded)
	if err != nil {
		return fmt.Errorf("mark lead responded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats holds lead counts for the admin surface.
type Stats struct {
	Total    int64
	New      int64
	Assigned int64
}

// CountByStatus returns total and per-status lead counts.
func (r *Repository) CountByStatus(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $2)
		FROM leads
	`, StatusNew, StatusAssigned).Scan(&s.Total, &s.New, &s.Assigned)
	if err != nil {
		return Stats{}, fmt.Errorf("count leads: %w", err)
	}
	return s, nil
}
