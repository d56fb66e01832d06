package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cantina/internal/connections/database"
	"cantina/internal/domain"
	"cantina/internal/microservices/queue/domain/dao"
)

type TicketRepositoryInterface interface {
	ListActive(ctx context.Context) ([]dao.Ticket, error)
	Insert(ctx context.Context, t dao.Ticket) (dao.Ticket, error)
	// TransitionTx locks the ticket, lets pick choose the target from the current status and applies it.
	TransitionTx(ctx context.Context, id uuid.UUID, pick func(from domain.TicketStatus) (domain.TicketStatus, error)) (dao.Ticket, error)
	// UpsertForOrder inserts the ticket of an order or moves it forward. It reports
	// whether a row was written; a ticket already at or past t.Status is left alone.
	UpsertForOrder(ctx context.Context, t dao.Ticket) (bool, error)
	// DeleteCancelled drops tickets whose order has been cancelled.
	DeleteCancelled(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
	// OrdersSince returns orders created at or after since that belong on the board.
	OrdersSince(ctx context.Context, since time.Time) ([]dao.OrderSnapshot, error)
}

type TicketRepository struct {
	db database.DB
}

func NewTicketRepository(db database.DB) TicketRepositoryInterface {
	return &TicketRepository{db: db}
}

const ticketColumns = `id, code, order_id, status, items, total, created_at, updated_at`

func scanTicket(row pgx.Row) (dao.Ticket, error) {
	var (
		t     dao.Ticket
		items []byte
	)
	if err := row.Scan(&t.ID, &t.Code, &t.OrderID, &t.Status, &items, &t.Total, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return dao.Ticket{}, err
	}
	if err := json.Unmarshal(items, &t.Items); err != nil {
		return dao.Ticket{}, fmt.Errorf("decode ticket items: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) ListActive(ctx context.Context) ([]dao.Ticket, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+ticketColumns+`
		FROM queue_tickets
		WHERE status <> 'delivered'
		ORDER BY created_at, code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	out := make([]dao.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TicketRepository) Insert(ctx context.Context, t dao.Ticket) (dao.Ticket, error) {
	items, err := json.Marshal(t.Items)
	if err != nil {
		return dao.Ticket{}, err
	}
	err = r.db.QueryRow(ctx, `
		INSERT INTO queue_tickets (id, code, order_id, status, items, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`, t.ID, t.Code, t.OrderID, t.Status, items, t.Total).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return dao.Ticket{}, fmt.Errorf("failed to insert ticket: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) TransitionTx(ctx context.Context, id uuid.UUID, pick func(from domain.TicketStatus) (domain.TicketStatus, error)) (dao.Ticket, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dao.Ticket{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	t, err := scanTicket(tx.QueryRow(ctx, `SELECT `+ticketColumns+` FROM queue_tickets WHERE id=$1 FOR UPDATE`, id))
	if database.IsNoRows(err) {
		return dao.Ticket{}, fmt.Errorf("ticket %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return dao.Ticket{}, fmt.Errorf("failed to lock ticket: %w", err)
	}

	next, err := pick(t.Status)
	if err != nil {
		return dao.Ticket{}, err
	}
	if err := tx.QueryRow(ctx, `
		UPDATE queue_tickets SET status=$2, updated_at=NOW() WHERE id=$1 RETURNING updated_at
	`, id, next).Scan(&t.UpdatedAt); err != nil {
		return dao.Ticket{}, fmt.Errorf("failed to update ticket: %w", err)
	}
	t.Status = next

	if err := tx.Commit(ctx); err != nil {
		return dao.Ticket{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) UpsertForOrder(ctx context.Context, t dao.Ticket) (bool, error) {
	items, err := json.Marshal(t.Items)
	if err != nil {
		return false, err
	}
	tag, err := r.db.Exec(ctx, `
		INSERT INTO queue_tickets (id, code, order_id, status, items, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (order_id) DO UPDATE SET
		    status = EXCLUDED.status,
		    items = EXCLUDED.items,
		    total = EXCLUDED.total,
		    updated_at = NOW()
		WHERE array_position(ARRAY['received','preparing','ready','delivered']::text[], EXCLUDED.status::text)
		    > array_position(ARRAY['received','preparing','ready','delivered']::text[], queue_tickets.status::text)
	`, t.ID, t.Code, t.OrderID, t.Status, items, t.Total, t.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to upsert ticket for order %s: %w", t.OrderID.UUID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TicketRepository) DeleteCancelled(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM queue_tickets q
		USING orders o
		WHERE q.order_id = o.id AND o.status = 'cancelled'
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to drop cancelled tickets: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *TicketRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM queue_tickets`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear queue: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *TicketRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM queue_tickets WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to drop old tickets: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *TicketRepository) OrdersSince(ctx context.Context, since time.Time) ([]dao.OrderSnapshot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.ticket_number, o.status, o.total_amount, o.created_at,
		       COALESCE(
		           json_agg(json_build_object('name', i.name, 'quantity', i.quantity, 'price', i.price) ORDER BY i.id)
		               FILTER (WHERE i.id IS NOT NULL),
		           '[]'::json)
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		WHERE o.created_at >= $1
		  AND o.status IN ('confirmed', 'preparing', 'delivering', 'done')
		GROUP BY o.id
		ORDER BY o.created_at
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for queue: %w", err)
	}
	defer rows.Close()

	out := make([]dao.OrderSnapshot, 0)
	for rows.Next() {
		var (
			o     dao.OrderSnapshot
			items []byte
		)
		if err := rows.Scan(&o.ID, &o.TicketNumber, &o.Status, &o.Total, &o.CreatedAt, &items); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode order items: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
