package payment

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL payment repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectSQL = `
	SELECT id, order_id, provider, provider_ref, amount, captured, status, created_at, updated_at
	FROM payments`

func (r *postgresRepo) Create(ctx context.Context, p *Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, order_id, provider, provider_ref, amount, captured, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.OrderID, p.Provider, p.ProviderRef, p.Amount, p.Captured, p.Status)
	return err
}

func (r *postgresRepo) GetByProviderRef(ctx context.Context, provider, ref string) (*Payment, error) {
	return r.scan(r.db.QueryRowContext(ctx,
		selectSQL+` WHERE provider=$1 AND provider_ref=$2`, provider, ref))
}

func (r *postgresRepo) GetByOrderID(ctx context.Context, orderID string) (*Payment, error) {
	uid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, err
	}
	return r.scan(r.db.QueryRowContext(ctx,
		selectSQL+` WHERE order_id=$1 ORDER BY created_at DESC LIMIT 1`, uid))
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status TxStatus, captured bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments SET status=$1, captured=$2, updated_at=$3 WHERE id=$4`,
		status, captured, time.Now(), id)
	return err
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *postgresRepo) scan(row rowScanner) (*Payment, error) {
	p := &Payment{}
	err := row.Scan(&p.ID, &p.OrderID, &p.Provider, &p.ProviderRef, &p.Amount,
		&p.Captured, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
