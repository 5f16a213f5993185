package blocklist

import (
	"context"
	"time"

	"github.com/richxcame/fraudguard/pkg/normalize"
)

// BlocklistRepository defines the persistence operations the service needs
type BlocklistRepository interface {
	Exists(ctx context.Context, idType, value string) (bool, error)
	Insert(ctx context.Context, entry *Entry) (bool, error)
	Delete(ctx context.Context, idType, value string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*Entry, error)
}

// OrderHistory resolves which orders reference an identifier (read-only)
type OrderHistory interface {
	OrdersByIdentifier(ctx context.Context, idType, value string, limit int) ([]int64, error)
}

// MaxReverseLookupResults bounds the cost of reverse order lookups
const MaxReverseLookupResults = 100

// Service manages the explicit deny-set of identifiers
type Service struct {
	repo   BlocklistRepository
	orders OrderHistory
}

// NewService creates a new blocklist service
func NewService(repo BlocklistRepository, orders OrderHistory) *Service {
	return &Service{repo: repo, orders: orders}
}

// IsBlocked performs an exact-match lookup after normalization
func (s *Service) IsBlocked(ctx context.Context, idType, value string) (bool, error) {
	normalized := normalize.ForType(idType, value)
	if normalized == "" {
		return false, nil
	}
	return s.repo.Exists(ctx, idType, normalized)
}

// Add blocklists an identifier. Adding an already-present entry returns
// ErrAlreadyExists, which callers treat as success-with-information.
func (s *Service) Add(ctx context.Context, idType, value, reason string) error {
	normalized := normalize.ForType(idType, value)
	if normalized == "" {
		return ErrInvalidIdentifier
	}

	inserted, err := s.repo.Insert(ctx, &Entry{
		IdentifierType:  idType,
		IdentifierValue: normalized,
		Reason:          reason,
		AddedAt:         time.Now(),
	})
	if err != nil {
		return err
	}
	if !inserted {
		return ErrAlreadyExists
	}
	return nil
}

// Remove deletes a blocklist entry. Removing a missing entry returns
// ErrNotFound, non-fatal to callers.
func (s *Service) Remove(ctx context.Context, idType, value string) error {
	normalized := normalize.ForType(idType, value)
	if normalized == "" {
		return ErrInvalidIdentifier
	}

	deleted, err := s.repo.Delete(ctx, idType, normalized)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// List returns blocklist entries for the admin UI
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Entry, error) {
	return s.repo.List(ctx, limit, offset)
}

// FindOrders resolves which orders reference the identifier, capped at
// MaxReverseLookupResults.
func (s *Service) FindOrders(ctx context.Context, idType, value string) ([]int64, error) {
	normalized := normalize.ForType(idType, value)
	if normalized == "" {
		return []int64{}, nil
	}
	return s.orders.OrdersByIdentifier(ctx, idType, normalized, MaxReverseLookupResults)
}
