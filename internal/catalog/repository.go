package catalog

import (
	"context"
	"errors"
	"fmt"

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
}

type Repository interface {
	ListStores(ctx context.Context, zip string) ([]Store, error)
	GetStore(ctx context.Context, storeID string) (Store, error)
	ListItems(ctx context.Context, storeID, departmentID string) ([]Item, error)
	GetItem(ctx context.Context, itemID string) (Item, error)
	ListDepartments(ctx context.Context) ([]Department, error)
	ListDeliverySlots(ctx context.Context) ([]DeliverySlot, error)
	UpsertStore(ctx context.Context, s *Store) error
	UpsertItem(ctx context.Context, it *Item) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const storeColumns = `id, name, address, description, logo_url, image_url,
	serviced_zips, department_ids, active, rating, review_count, created_at, updated_at`

func (r *PostgresRepository) ListStores(ctx context.Context, zip string) ([]Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE active ORDER BY name`
	args := []any{}
	if zip != "" {
		// No serviced zips means the store delivers everywhere.
		query = `SELECT ` + storeColumns + ` FROM stores
			WHERE active AND (serviced_zips = '{}' OR $1 = ANY(serviced_zips))
			ORDER BY name`
		args = append(args, zip)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select stores: %w", err)
	}
	defer rows.Close()

	var stores []Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *PostgresRepository) GetStore(ctx context.Context, storeID string) (Store, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, storeID)
	s, err := scanStore(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Store{}, ErrNotFound
		}
		return Store{}, err
	}
	return s, nil
}

const itemColumns = `id, store_id, department_id, name, description, image_url,
	price, sale, sale_price, measure_type, weight, stock, visible, provenance, created_at, updated_at`

func (r *PostgresRepository) ListItems(ctx context.Context, storeID, departmentID string) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE store_id = $1 AND visible ORDER BY name`
	args := []any{storeID}
	if departmentID != "" {
		query = `SELECT ` + itemColumns + ` FROM items
			WHERE store_id = $1 AND department_id = $2 AND visible ORDER BY name`
		args = append(args, departmentID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetItem(ctx context.Context, itemID string) (Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, itemID)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return it, nil
}

func (r *PostgresRepository) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, icon, sort_order, created_at FROM departments ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("select departments: %w", err)
	}
	defer rows.Close()

	var deps []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Icon, &d.SortOrder, &d.CreatedAt); err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

func (r *PostgresRepository) ListDeliverySlots(ctx context.Context) ([]DeliverySlot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, label, start_hour, end_hour, active, sort_order
		 FROM delivery_slots WHERE active ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("select delivery_slots: %w", err)
	}
	defer rows.Close()

	var slots []DeliverySlot
	for rows.Next() {
		var s DeliverySlot
		if err := rows.Scan(&s.ID, &s.Label, &s.StartHour, &s.EndHour, &s.Active, &s.SortOrder); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *PostgresRepository) UpsertStore(ctx context.Context, s *Store) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO stores (id, name, address, description, logo_url, image_url,
			serviced_zips, department_ids, active, rating, review_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			description = EXCLUDED.description,
			logo_url = EXCLUDED.logo_url,
			image_url = EXCLUDED.image_url,
			serviced_zips = EXCLUDED.serviced_zips,
			department_ids = EXCLUDED.department_ids,
			active = EXCLUDED.active,
			rating = EXCLUDED.rating,
			review_count = EXCLUDED.review_count,
			updated_at = now()
	`, s.ID, s.Name, s.Address, s.Description, s.LogoURL, s.ImageURL,
		s.ServicedZips, s.DepartmentIDs, s.Active, s.Rating, s.ReviewCount)
	if err != nil {
		return fmt.Errorf("upsert store: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpsertItem(ctx context.Context, it *Item) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO items (id, store_id, department_id, name, description, image_url,
			price, sale, sale_price, measure_type, weight, stock, visible, provenance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			store_id = EXCLUDED.store_id,
			department_id = EXCLUDED.department_id,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			price = EXCLUDED.price,
			sale = EXCLUDED.sale,
			sale_price = EXCLUDED.sale_price,
			measure_type = EXCLUDED.measure_type,
			weight = EXCLUDED.weight,
			stock = EXCLUDED.stock,
			visible = EXCLUDED.visible,
			provenance = EXCLUDED.provenance,
			updated_at = now()
	`, it.ID, it.StoreID, nullIfEmpty(it.DepartmentID), it.Name, it.Description, it.ImageURL,
		it.Price, it.Sale, it.SalePrice, it.MeasureType, it.Weight, it.Stock, it.Visible, it.Provenance)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

func scanStore(row pgx.Row) (Store, error) {
	var s Store
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Description, &s.LogoURL, &s.ImageURL,
		&s.ServicedZips, &s.DepartmentIDs, &s.Active, &s.Rating, &s.ReviewCount,
		&s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	var departmentID *string
	err := row.Scan(&it.ID, &it.StoreID, &departmentID, &it.Name, &it.Description, &it.ImageURL,
		&it.Price, &it.Sale, &it.SalePrice, &it.MeasureType, &it.Weight, &it.Stock,
		&it.Visible, &it.Provenance, &it.CreatedAt, &it.UpdatedAt)
	if departmentID != nil {
		it.DepartmentID = *departmentID
	}
	return it, err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
