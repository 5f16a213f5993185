package similarity

import (
	"context"
	"time"

	"github.com/richxcame/fraudguard/internal/orders"
	"github.com/richxcame/fraudguard/pkg/config"
)

// OrderHistory provides the bounded candidate set of recent orders (read-only)
type OrderHistory interface {
	RecentOrders(ctx context.Context, windowHours, limit int) ([]*orders.Order, error)
}

// Service finds recent orders sharing an address or a fuzzily similar
// customer name with the order under evaluation.
type Service struct {
	history OrderHistory
	now     func() time.Time
}

// NewService creates a new similarity service
func NewService(history OrderHistory) *Service {
	return &Service{history: history, now: time.Now}
}

// FindSimilar returns every address and name match within the configured
// windows. No matches is an empty slice, never an error.
func (s *Service) FindSimilar(ctx context.Context, fp Fingerprint, cfg config.FraudConfig) ([]Match, error) {
	windowHours := cfg.AddressWindowHours
	if cfg.NameWindowHours > windowHours {
		windowHours = cfg.NameWindowHours
	}

	candidates, err := s.history.RecentOrders(ctx, windowHours, cfg.CandidateLimit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	addressCutoff := now.Add(-time.Duration(cfg.AddressWindowHours) * time.Hour)
	nameCutoff := now.Add(-time.Duration(cfg.NameWindowHours) * time.Hour)

	matches := make([]Match, 0)
	for _, candidate := range candidates {
		if candidate.ID == fp.OrderID {
			continue
		}

		other := FingerprintOrder(candidate)

		if fp.Address != "" && other.Address == fp.Address && !candidate.CreatedAt.Before(addressCutoff) {
			matches = append(matches, Match{
				OrderID:    candidate.ID,
				Type:       MatchAddress,
				Similarity: 100,
			})
		}

		if fp.Name != "" && other.Name != "" && !candidate.CreatedAt.Before(nameCutoff) {
			if score := Score(fp.Name, other.Name); score >= cfg.NameSimilarityThreshold {
				matches = append(matches, Match{
					OrderID:    candidate.ID,
					Type:       MatchName,
					Similarity: score,
				})
			}
		}
	}

	return matches, nil
}

// CountAddressMatches returns how many of the matches are exact address hits
func CountAddressMatches(matches []Match) int {
	count := 0
	for _, m := range matches {
		if m.Type == MatchAddress {
			count++
		}
	}
	return count
}

// BestNameMatch returns the highest name similarity in the matches, 0 if none
func BestNameMatch(matches []Match) int {
	best := 0
	for _, m := range matches {
		if m.Type == MatchName && m.Similarity > best {
			best = m.Similarity
		}
	}
	return best
}
