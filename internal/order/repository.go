package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Repository interface {
	// CreateFromSession inserts an order keyed by its provider session
	// id. It reports false without error when an order for the same
	// session already exists, so webhook redeliveries are harmless.
	CreateFromSession(ctx context.Context, o *Order) (bool, error)
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) CreateFromSession(ctx context.Context, o *Order) (bool, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = StatusNew
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, user_id, store_id, status,
			delivery_address, delivery_date, delivery_slot, phone, notes,
			subtotal, platform_fee, total, provider_session_id, provider_intent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (provider_session_id) WHERE provider_session_id IS NOT NULL DO NOTHING
	`, o.ID, o.OrderNumber, o.UserID, o.StoreID, o.Status,
		o.DeliveryAddress, o.DeliveryDate, o.DeliverySlot, o.Phone, o.Notes,
		o.Subtotal, o.PlatformFee, o.Total, nullIfEmpty(o.ProviderSessionID), nullIfEmpty(o.ProviderIntentID), o.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("insert order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Same session already persisted.
		return false, nil
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, item_id, item_name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.NewString(), o.ID, nullIfEmpty(it.ItemID), it.Name, it.Quantity, it.UnitPrice)
		if err != nil {
			return false, fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

const orderColumns = `id, order_number, user_id, store_id, status,
	delivery_address, delivery_date, delivery_slot, phone, notes,
	subtotal, platform_fee, total, provider_session_id, provider_intent_id, created_at`

func (r *PostgresRepository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT item_id, item_name, quantity, unit_price
		FROM order_items WHERE order_id = $1
	`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		var itemID *string
		if err := rows.Scan(&itemID, &it.Name, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		if itemID != nil {
			it.ItemID = *itemID
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return &o, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, orderID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, orderID, status)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var sessionID, intentID *string
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.StoreID, &o.Status,
		&o.DeliveryAddress, &o.DeliveryDate, &o.DeliverySlot, &o.Phone, &o.Notes,
		&o.Subtotal, &o.PlatformFee, &o.Total, &sessionID, &intentID, &o.CreatedAt)
	if sessionID != nil {
		o.ProviderSessionID = *sessionID
	}
	if intentID != nil {
		o.ProviderIntentID = *intentID
	}
	return o, err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
