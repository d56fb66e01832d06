package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cantina/internal/connections/database"
	"cantina/internal/domain"
	"cantina/internal/microservices/payment/domain/dao"
)

type PostgresStore struct {
	db database.DB
}

func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const paymentColumns = `id, order_id, amount, status, pix_payload, qr_code_url, expires_at, paid_at, created_at`

func scanPayment(row pgx.Row) (dao.Payment, error) {
	var p dao.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Status, &p.PixPayload, &p.QRCodeURL, &p.ExpiresAt, &p.PaidAt, &p.CreatedAt)
	return p, err
}

func (s *PostgresStore) Save(ctx context.Context, p dao.Payment) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO payments (id, order_id, amount, status, pix_payload, qr_code_url, expires_at, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.OrderID, p.Amount, p.Status, p.PixPayload, p.QRCodeURL, p.ExpiresAt, p.PaidAt, p.CreatedAt)
	switch {
	case database.IsUniqueViolation(err):
		return fmt.Errorf("payment %s: %w", p.ID, domain.ErrConflict)
	case database.IsForeignKeyViolation(err):
		return domain.Validationf("unknown order %s", p.OrderID)
	case err != nil:
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (dao.Payment, error) {
	p, err := scanPayment(s.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1`, id))
	if database.IsNoRows(err) {
		return dao.Payment{}, fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return dao.Payment{}, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Update(ctx context.Context, id uuid.UUID, fn func(p *dao.Payment) error) (dao.Payment, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return dao.Payment{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := scanPayment(tx.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1 FOR UPDATE`, id))
	if database.IsNoRows(err) {
		return dao.Payment{}, fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return dao.Payment{}, fmt.Errorf("failed to lock payment: %w", err)
	}

	if err := fn(&p); err != nil {
		return dao.Payment{}, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE payments SET status=$2, paid_at=$3, expires_at=$4 WHERE id=$1
	`, id, p.Status, p.PaidAt, p.ExpiresAt); err != nil {
		return dao.Payment{}, fmt.Errorf("failed to update payment: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return dao.Payment{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListDue(ctx context.Context, now time.Time) ([]dao.Payment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE status = 'pending' AND expires_at <= $1
		ORDER BY expires_at
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due payments: %w", err)
	}
	defer rows.Close()

	out := make([]dao.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
