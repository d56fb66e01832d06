package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cantina/internal/connections/database"
	"cantina/internal/domain"
	"cantina/internal/microservices/notificator/domain/dao"
)

type RecipientRepositoryInterface interface {
	List(ctx context.Context) ([]dao.Recipient, error)
	Create(ctx context.Context, r dao.Recipient) (dao.Recipient, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RecipientRepository struct {
	db database.DB
}

func NewRecipientRepository(db database.DB) RecipientRepositoryInterface {
	return &RecipientRepository{db: db}
}

func (r *RecipientRepository) List(ctx context.Context) ([]dao.Recipient, error) {
	rows, err := r.db.Query(ctx, `SELECT id, email, created_at FROM admin_email_recipients ORDER BY created_at, email`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	defer rows.Close()

	out := make([]dao.Recipient, 0)
	for rows.Next() {
		var rc dao.Recipient
		if err := rows.Scan(&rc.ID, &rc.Email, &rc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

func (r *RecipientRepository) Create(ctx context.Context, rc dao.Recipient) (dao.Recipient, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO admin_email_recipients (id, email, created_at) VALUES ($1, $2, NOW())
		RETURNING created_at
	`, rc.ID, rc.Email).Scan(&rc.CreatedAt)
	if database.IsUniqueViolation(err) {
		return dao.Recipient{}, fmt.Errorf("recipient %q: %w", rc.Email, domain.ErrConflict)
	}
	if err != nil {
		return dao.Recipient{}, fmt.Errorf("failed to insert recipient: %w", err)
	}
	return rc, nil
}

func (r *RecipientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM admin_email_recipients WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recipient %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
