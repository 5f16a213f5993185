package orders

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository reads and writes order history. The fraud engine treats order
// history as an external collaborator; everything except Insert is read-only.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new order history repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// RecentOrders returns orders placed within the window, newest first,
// capped at limit.
func (r *Repository) RecentOrders(ctx context.Context, windowHours, limit int) ([]*Order, error) {
	query := `
		SELECT id, phone, ip, address, name, device_id, status, created_at
		FROM orders
		WHERE created_at >= NOW() - $1 * INTERVAL '1 hour'
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, windowHours, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to query recent orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// CancellationRatio returns the fraction of this phone's orders in the last
// 90 days that were cancelled or returned. No orders means 0.
func (r *Repository) CancellationRatio(ctx context.Context, phone string) (float64, error) {
	query := `
		SELECT
			COUNT(CASE WHEN status IN ('cancelled', 'returned') THEN 1 END),
			COUNT(*)
		FROM orders
		WHERE phone = $1
		  AND created_at >= NOW() - INTERVAL '90 days'
	`

	var cancelled, total int
	if err := r.db.QueryRowContext(ctx, query, phone).Scan(&cancelled, &total); err != nil {
		return 0, fmt.Errorf("unable to query cancellation ratio: %w", err)
	}

	if total == 0 {
		return 0, nil
	}
	return float64(cancelled) / float64(total), nil
}

// OrdersByIdentifier returns IDs of orders referencing the identifier,
// capped at limit. Used for blocklist reverse lookups.
func (r *Repository) OrdersByIdentifier(ctx context.Context, idType, value string, limit int) ([]int64, error) {
	var column string
	switch idType {
	case "phone":
		column = "phone"
	case "ip":
		column = "ip"
	case "device":
		column = "device_id"
	default:
		return nil, fmt.Errorf("unknown identifier type %q", idType)
	}

	query := fmt.Sprintf(`
		SELECT id
		FROM orders
		WHERE %s = $1
		ORDER BY id DESC
		LIMIT $2
	`, column)

	rows, err := r.db.QueryContext(ctx, query, value, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to query orders by identifier: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Page returns a stable page of orders by ascending ID for batch recompute.
func (r *Repository) Page(ctx context.Context, offset, limit int) ([]*Order, error) {
	query := `
		SELECT id, phone, ip, address, name, device_id, status, created_at
		FROM orders
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("unable to query order page: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// Insert appends a confirmed order to history and returns its ID.
func (r *Repository) Insert(ctx context.Context, order *Order) (int64, error) {
	query := `
		INSERT INTO orders (phone, ip, address, name, device_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		order.Phone,
		order.IP,
		order.Address,
		order.Name,
		order.DeviceID,
		order.Status,
		createdAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("unable to insert order: %w", err)
	}

	return id, nil
}

func scanOrders(rows *sql.Rows) ([]*Order, error) {
	result := make([]*Order, 0)
	for rows.Next() {
		var o Order
		var ip, deviceID sql.NullString

		err := rows.Scan(
			&o.ID,
			&o.Phone,
			&ip,
			&o.Address,
			&o.Name,
			&deviceID,
			&o.Status,
			&o.CreatedAt,
		)
		if err != nil {
			continue
		}

		if ip.Valid {
			o.IP = ip.String
		}
		if deviceID.Valid {
			o.DeviceID = deviceID.String
		}

		result = append(result, &o)
	}

	return result, rows.Err()
}

// Get returns a single order by ID, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id int64) (*Order, error) {
	query := `
		SELECT id, phone, ip, address, name, device_id, status, created_at
		FROM orders
		WHERE id = $1
	`

	var o Order
	var ip, deviceID sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID,
		&o.Phone,
		&ip,
		&o.Address,
		&o.Name,
		&deviceID,
		&o.Status,
		&o.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to query order %d: %w", id, err)
	}

	if ip.Valid {
		o.IP = ip.String
	}
	if deviceID.Valid {
		o.DeviceID = deviceID.String
	}

	return &o, nil
}
