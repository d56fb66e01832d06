package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cantina/internal/connections/database"
	"cantina/internal/domain"
	"cantina/internal/microservices/order/domain/dao"
)

type OrderRepositoryInterface interface {
	// Create stores the order, its items and the first status log row in one transaction.
	Create(ctx context.Context, o dao.Order, changedBy string) (dao.Order, error)
	Get(ctx context.Context, id uuid.UUID) (dao.Order, error)
	List(ctx context.Context, f dao.ListFilter) ([]dao.Order, error)
	// TransitionTx locks the order, asks pick for the target status, applies it and logs it.
	// It returns the updated order and the status it had before.
	TransitionTx(ctx context.Context, id uuid.UUID, changedBy, notes string, pick func(from domain.OrderStatus) (domain.OrderStatus, error)) (dao.Order, domain.OrderStatus, error)
	SetPayment(ctx context.Context, id, paymentID uuid.UUID) error
	Timeline(ctx context.Context, id uuid.UUID) ([]dao.StatusLog, error)
	Stats(ctx context.Context, since time.Time) (dao.Stats, error)
}

type OrderRepository struct {
	db database.DB
}

func NewOrderRepository(db database.DB) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}

const orderColumns = `id, ticket_number, customer_name, customer_phone, delivery, delivery_address,
	payment_method, payment_id, delivery_fee, total_amount, status, created_at, updated_at`

func scanOrder(row pgx.Row) (dao.Order, error) {
	var o dao.Order
	err := row.Scan(&o.ID, &o.TicketNumber, &o.CustomerName, &o.CustomerPhone, &o.Delivery, &o.DeliveryAddress,
		&o.PaymentMethod, &o.PaymentID, &o.DeliveryFee, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *OrderRepository) Create(ctx context.Context, o dao.Order, changedBy string) (dao.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dao.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// 1. Insert order
	err = tx.QueryRow(ctx, `
		INSERT INTO orders
		    (id, ticket_number, customer_name, customer_phone, delivery, delivery_address,
		     payment_method, payment_id, delivery_fee, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`,
		o.ID, o.TicketNumber, o.CustomerName, o.CustomerPhone, o.Delivery, o.DeliveryAddress,
		o.PaymentMethod, o.PaymentID, o.DeliveryFee, o.TotalAmount, o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return dao.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	// 2. Insert order items
	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, name, quantity, price, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			RETURNING id, created_at
		`, o.ID, it.ProductID, it.Name, it.Quantity, it.Price).Scan(&it.ID, &it.CreatedAt)
		if err != nil {
			return dao.Order{}, fmt.Errorf("failed to insert order item %s: %w", it.Name, err)
		}
	}

	// 3. Insert into order_status_log
	if _, err = tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, NOW())
	`, o.ID, o.Status, changedBy); err != nil {
		return dao.Order{}, fmt.Errorf("failed to insert order status log: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return dao.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) Get(ctx context.Context, id uuid.UUID) (dao.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if database.IsNoRows(err) {
		return dao.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return dao.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	items, err := r.items(ctx, r.db, []uuid.UUID{id})
	if err != nil {
		return dao.Order{}, err
	}
	o.Items = items[id]
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context, f dao.ListFilter) ([]dao.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	out := make([]dao.Order, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	items, err := r.items(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *OrderRepository) items(ctx context.Context, q querier, ids []uuid.UUID) (map[uuid.UUID][]dao.OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, product_id, name, quantity, price, created_at
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]dao.OrderItem, len(ids))
	for rows.Next() {
		var it dao.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Quantity, &it.Price, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

func (r *OrderRepository) TransitionTx(ctx context.Context, id uuid.UUID, changedBy, notes string, pick func(from domain.OrderStatus) (domain.OrderStatus, error)) (dao.Order, domain.OrderStatus, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dao.Order{}, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, id))
	if database.IsNoRows(err) {
		return dao.Order{}, "", fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return dao.Order{}, "", fmt.Errorf("failed to lock order: %w", err)
	}

	from := o.Status
	to, err := pick(from)
	if err != nil {
		return dao.Order{}, from, err
	}

	if err := tx.QueryRow(ctx, `
		UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1 RETURNING updated_at
	`, id, to).Scan(&o.UpdatedAt); err != nil {
		return dao.Order{}, from, fmt.Errorf("failed to update order status: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at, notes)
		VALUES ($1, $2, $3, NOW(), $4)
	`, id, to, changedBy, notes); err != nil {
		return dao.Order{}, from, fmt.Errorf("failed to insert order status log: %w", err)
	}
	o.Status = to

	items, err := r.items(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return dao.Order{}, from, err
	}
	o.Items = items[id]

	if err := tx.Commit(ctx); err != nil {
		return dao.Order{}, from, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return o, from, nil
}

func (r *OrderRepository) SetPayment(ctx context.Context, id, paymentID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET payment_id=$2, updated_at=NOW() WHERE id=$1`, id, paymentID)
	if err != nil {
		return fmt.Errorf("failed to attach payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *OrderRepository) Timeline(ctx context.Context, id uuid.UUID) ([]dao.StatusLog, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check order: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}

	rows, err := r.db.Query(ctx, `
		SELECT status, changed_by, changed_at, notes
		FROM order_status_log
		WHERE order_id=$1
		ORDER BY changed_at, id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load timeline: %w", err)
	}
	defer rows.Close()

	out := make([]dao.StatusLog, 0)
	for rows.Next() {
		var l dao.StatusLog
		if err := rows.Scan(&l.Status, &l.ChangedBy, &l.ChangedAt, &l.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan status log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *OrderRepository) Stats(ctx context.Context, since time.Time) (dao.Stats, error) {
	s := dao.Stats{ByStatus: make(map[domain.OrderStatus]int)}
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_amount) FILTER (WHERE status <> 'cancelled'), 0)
		FROM orders
		WHERE created_at >= $1
	`, since).Scan(&s.Orders, &s.Revenue)
	if err != nil {
		return dao.Stats{}, fmt.Errorf("failed to load order totals: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*) FROM orders WHERE created_at >= $1 GROUP BY status
	`, since)
	if err != nil {
		return dao.Stats{}, fmt.Errorf("failed to count orders by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			st domain.OrderStatus
			n  int
		)
		if err := rows.Scan(&st, &n); err != nil {
			return dao.Stats{}, fmt.Errorf("failed to scan status count: %w", err)
		}
		s.ByStatus[st] = n
	}
	return s, rows.Err()
}
