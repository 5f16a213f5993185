package blocklist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists blocklist entries in Postgres
type Repository struct {
	db *pgxpool.Pool
}

// Ensure the concrete repository satisfies the service's requirements.
var _ BlocklistRepository = (*Repository)(nil)

// NewRepository creates a new blocklist repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Exists reports whether the normalized identifier is blocklisted
func (r *Repository) Exists(ctx context.Context, idType, value string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM blocklist_entries
			WHERE identifier_type = $1 AND identifier_value = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, idType, value).Scan(&exists); err != nil {
		return false, fmt.Errorf("unable to query blocklist: %w", err)
	}
	return exists, nil
}

// Insert adds an entry; returns false when it was already present
func (r *Repository) Insert(ctx context.Context, entry *Entry) (bool, error) {
	query := `
		INSERT INTO blocklist_entries (identifier_type, identifier_value, reason, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (identifier_type, identifier_value) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query,
		entry.IdentifierType,
		entry.IdentifierValue,
		entry.Reason,
		entry.AddedAt,
	)
	if err != nil {
		return false, fmt.Errorf("unable to insert blocklist entry: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Delete removes an entry; returns false when no entry matched
func (r *Repository) Delete(ctx context.Context, idType, value string) (bool, error) {
	query := `
		DELETE FROM blocklist_entries
		WHERE identifier_type = $1 AND identifier_value = $2
	`

	tag, err := r.db.Exec(ctx, query, idType, value)
	if err != nil {
		return false, fmt.Errorf("unable to delete blocklist entry: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// List returns blocklist entries, newest first
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Entry, error) {
	query := `
		SELECT identifier_type, identifier_value, COALESCE(reason, ''), added_at
		FROM blocklist_entries
		ORDER BY added_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("unable to list blocklist entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.IdentifierType, &e.IdentifierValue, &e.Reason, &e.AddedAt); err != nil {
			continue
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
