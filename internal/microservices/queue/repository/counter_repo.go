package repository

import (
	"context"
	"fmt"

	"cantina/internal/connections/database"
)

// CounterRepositoryInterface hands out daily sequence numbers. Day is an ISO date
// (YYYY-MM-DD) in the store time zone; the date comparison and the write happen in
// one statement, so concurrent callers observe exactly one reset per day.
type CounterRepositoryInterface interface {
	Next(ctx context.Context, name, day string) (int, error)
	ResetIfStale(ctx context.Context, name, day string) (bool, error)
}

type CounterRepository struct {
	db database.DB
}

func NewCounterRepository(db database.DB) CounterRepositoryInterface {
	return &CounterRepository{db: db}
}

func (r *CounterRepository) Next(ctx context.Context, name, day string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		INSERT INTO ticket_counters (name, value, reset_on)
		VALUES ($1, 1, $2::date)
		ON CONFLICT (name) DO UPDATE SET
		    value = CASE
		        WHEN ticket_counters.reset_on < EXCLUDED.reset_on THEN 1
		        ELSE ticket_counters.value + 1
		    END,
		    reset_on = GREATEST(ticket_counters.reset_on, EXCLUDED.reset_on)
		RETURNING value
	`, name, day).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to draw %s number: %w", name, err)
	}
	return n, nil
}

// ResetIfStale zeroes the counter when its marker is older than day and reports
// whether this call performed the reset.
func (r *CounterRepository) ResetIfStale(ctx context.Context, name, day string) (bool, error) {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO ticket_counters (name, value, reset_on) VALUES ($1, 0, $2::date)
		ON CONFLICT (name) DO NOTHING
	`, name, day); err != nil {
		return false, fmt.Errorf("failed to init %s counter: %w", name, err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE ticket_counters SET value = 0, reset_on = $2::date
		WHERE name = $1 AND reset_on < $2::date
	`, name, day)
	if err != nil {
		return false, fmt.Errorf("failed to reset %s counter: %w", name, err)
	}
	return tag.RowsAffected() == 1, nil
}
