package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cantina/internal/connections/database"
	"cantina/internal/domain"
	"cantina/internal/microservices/catalog/domain/dao"
)

type ProductRepositoryInterface interface {
	List(ctx context.Context, f dao.ProductFilter) ([]dao.Product, error)
	Get(ctx context.Context, id uuid.UUID) (dao.Product, error)
	GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]dao.Product, error)
	Create(ctx context.Context, p dao.Product) (dao.Product, error)
	Update(ctx context.Context, p dao.Product) (dao.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductRepository struct {
	db database.DB
}

func NewProductRepository(db database.DB) ProductRepositoryInterface {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, description, price, old_price, category_id, available,
	is_featured, is_promotion, image_url, created_at, updated_at`

func scanProduct(row pgx.Row) (dao.Product, error) {
	var p dao.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OldPrice, &p.CategoryID,
		&p.Available, &p.IsFeatured, &p.IsPromotion, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// buildProductQuery renders the listing query for f; split out so it can be tested without a database.
func buildProductQuery(f dao.ProductFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, "category_id = $"+strconv.Itoa(len(args)))
	}
	if f.Featured {
		where = append(where, "is_featured")
	}
	if f.Promotion {
		where = append(where, "is_promotion")
	}
	if f.OnlyAvailable {
		where = append(where, "available")
	}

	q := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	return q + " ORDER BY name", args
}

func (r *ProductRepository) List(ctx context.Context, f dao.ProductFilter) ([]dao.Product, error) {
	q, args := buildProductQuery(f)
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	out := make([]dao.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) Get(ctx context.Context, id uuid.UUID) (dao.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if database.IsNoRows(err) {
		return dao.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return dao.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// GetMany returns the products found among ids; missing ids are simply absent from the map.
func (r *ProductRepository) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]dao.Product, error) {
	out := make(map[uuid.UUID]dao.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, p dao.Product) (dao.Product, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO products
		    (id, name, description, price, old_price, category_id, available, is_featured, is_promotion, image_url, created_at, updated_at)
		VALUES
		    ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at
	`,
		p.ID, p.Name, p.Description, p.Price, p.OldPrice, p.CategoryID,
		p.Available, p.IsFeatured, p.IsPromotion, p.ImageURL,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if database.IsForeignKeyViolation(err) {
		return dao.Product{}, domain.Validationf("unknown category %s", p.CategoryID.UUID)
	}
	if err != nil {
		return dao.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p dao.Product) (dao.Product, error) {
	err := r.db.QueryRow(ctx, `
		UPDATE products SET
		    name=$2, description=$3, price=$4, old_price=$5, category_id=$6,
		    available=$7, is_featured=$8, is_promotion=$9, image_url=$10, updated_at=NOW()
		WHERE id=$1
		RETURNING created_at, updated_at
	`,
		p.ID, p.Name, p.Description, p.Price, p.OldPrice, p.CategoryID,
		p.Available, p.IsFeatured, p.IsPromotion, p.ImageURL,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	switch {
	case database.IsNoRows(err):
		return dao.Product{}, fmt.Errorf("product %s: %w", p.ID, domain.ErrNotFound)
	case database.IsForeignKeyViolation(err):
		return dao.Product{}, domain.Validationf("unknown category %s", p.CategoryID.UUID)
	case err != nil:
		return dao.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
