package cooldown

import (
	"context"
	"time"

	"github.com/richxcame/fraudguard/pkg/logger"
	"github.com/richxcame/fraudguard/pkg/normalize"
	"go.uber.org/zap"
)

// CooldownRepository defines the persistence operations the service needs
type CooldownRepository interface {
	LastOrderAt(ctx context.Context, idType, value string) (*time.Time, error)
	Record(ctx context.Context, idType, value string) error
}

// Service answers "has this identifier ordered within the window?"
type Service struct {
	repo CooldownRepository
	now  func() time.Time
}

// NewService creates a new cooldown service
func NewService(repo CooldownRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Check reports whether the identifier is inside its cooldown window.
// It is read-only and idempotent; a missing record is never blocked.
func (s *Service) Check(ctx context.Context, idType, value string, windowHours int) (*Status, error) {
	normalized := normalize.ForType(idType, value)
	if normalized == "" {
		return &Status{}, nil
	}

	last, err := s.repo.LastOrderAt(ctx, idType, normalized)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return &Status{}, nil
	}

	window := time.Duration(windowHours) * time.Hour
	elapsed := s.now().Sub(*last)
	remaining := int64((window - elapsed).Seconds())
	if remaining < 0 {
		remaining = 0
	}

	unix := last.Unix()
	return &Status{
		Blocked:          elapsed < window,
		RemainingSeconds: remaining,
		LastOrderAt:      &unix,
	}, nil
}

// RecordOrder stamps the identifier with the current time. Called once per
// successfully placed order, never on a mere check.
func (s *Service) RecordOrder(ctx context.Context, idType, value string) error {
	normalized := normalize.ForType(idType, value)
	if normalized == "" {
		logger.Debug("skipping cooldown record for empty identifier",
			zap.String("type", idType),
		)
		return nil
	}

	return s.repo.Record(ctx, idType, normalized)
}
