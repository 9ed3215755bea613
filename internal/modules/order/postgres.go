package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetProducts(ctx context.Context, ids []string) ([]*ProductInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price, stock FROM products WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*ProductInfo{}
	for rows.Next() {
		p := &ProductInfo{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateOrder commits the order header, items and stock decrements atomically.
// The decrement is conditional on remaining stock so concurrent orders racing
// on the same product serialize at the database; a zero-row update aborts the
// transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, total, status)
		VALUES ($1,$2,$3,$4)`,
		o.ID, o.CustomerID, o.Total, o.Status)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price)
			VALUES ($1,$2,$3,$4,$5)`,
			item.ID, o.ID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE products SET stock = stock - $1, updated_at = $2
			WHERE id = $3 AND stock >= $1`,
			item.Quantity, time.Now(), item.ProductID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &StockConflictError{ProductID: item.ProductID}
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	o := &Order{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, total, status, created_at, updated_at
		FROM orders WHERE id=$1`, uid).
		Scan(&o.ID, &o.CustomerID, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, o); err != nil {
		return nil, err
	}
	if err := r.attachPayment(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListOrdersByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	uid, err := uuid.Parse(customerID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, total, status, created_at, updated_at
		FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o := &Order{}
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		if err := r.attachItems(ctx, o); err != nil {
			return nil, err
		}
		if err := r.attachPayment(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status OrderStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) attachItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items WHERE order_id=$1 ORDER BY created_at ASC`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	items := []*OrderItem{}
	for rows.Next() {
		item := &OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return err
		}
		items = append(items, item)
	}
	o.Items = items
	return rows.Err()
}

// attachPayment joins the most recent payment onto the order. The query
// targets the payments table directly to keep the order and payment modules
// decoupled at the package level.
func (r *postgresRepo) attachPayment(ctx context.Context, o *Order) error {
	p := &PaymentRecord{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, provider, provider_ref, amount, captured, status
		FROM payments WHERE order_id=$1 ORDER BY created_at DESC LIMIT 1`, o.ID).
		Scan(&p.ID, &p.Provider, &p.ProviderRef, &p.Amount, &p.Captured, &p.Status)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	o.Payment = p
	return nil
}
