package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cantina/internal/connections/database"
	"cantina/internal/domain"
	"cantina/internal/microservices/catalog/domain/dao"
)

type CategoryRepositoryInterface interface {
	List(ctx context.Context) ([]dao.Category, error)
	Get(ctx context.Context, id uuid.UUID) (dao.Category, error)
	Create(ctx context.Context, c dao.Category) (dao.Category, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (dao.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRepository struct {
	db database.DB
}

func NewCategoryRepository(db database.DB) CategoryRepositoryInterface {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]dao.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	out := make([]dao.Category, 0)
	for rows.Next() {
		var c dao.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepository) Get(ctx context.Context, id uuid.UUID) (dao.Category, error) {
	var c dao.Category
	err := r.db.QueryRow(ctx, `SELECT id, name, created_at FROM categories WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if database.IsNoRows(err) {
		return dao.Category{}, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return dao.Category{}, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c dao.Category) (dao.Category, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (id, name, created_at) VALUES ($1, $2, NOW())
		RETURNING created_at
	`, c.ID, c.Name).Scan(&c.CreatedAt)
	if database.IsUniqueViolation(err) {
		return dao.Category{}, fmt.Errorf("category %q: %w", c.Name, domain.ErrConflict)
	}
	if err != nil {
		return dao.Category{}, fmt.Errorf("failed to insert category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) Rename(ctx context.Context, id uuid.UUID, name string) (dao.Category, error) {
	c := dao.Category{ID: id, Name: name}
	err := r.db.QueryRow(ctx, `UPDATE categories SET name=$2 WHERE id=$1 RETURNING created_at`, id, name).
		Scan(&c.CreatedAt)
	switch {
	case database.IsNoRows(err):
		return dao.Category{}, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	case database.IsUniqueViolation(err):
		return dao.Category{}, fmt.Errorf("category %q: %w", name, domain.ErrConflict)
	case err != nil:
		return dao.Category{}, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}

// Delete removes the category; its products keep existing without one.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
