package score

import (
	"context"
	"time"

	"github.com/richxcame/fraudguard/internal/cooldown"
	"github.com/richxcame/fraudguard/internal/orders"
	"github.com/richxcame/fraudguard/internal/similarity"
	"github.com/richxcame/fraudguard/pkg/config"
	"github.com/richxcame/fraudguard/pkg/logger"
	"github.com/richxcame/fraudguard/pkg/normalize"
	"github.com/richxcame/fraudguard/pkg/resilience"
	"go.uber.org/zap"
)

// Signal weights. Blocklist dominates so that a hit floors the tier at High;
// the rest are scaled so combined heuristics land in Medium before the
// reputation signal pushes them further.
const (
	weightCooldown       = 15
	weightBlocklist      = 75
	weightPerExtraAddr   = 8
	maxDuplicateWeight   = 24
	weightNameMatch      = 12
	weightCancellation   = 30 // multiplied by the 0..1 cancellation ratio
)

// CooldownChecker is the cooldown detector as the aggregator sees it
type CooldownChecker interface {
	Check(ctx context.Context, idType, value string, windowHours int) (*cooldown.Status, error)
}

// BlocklistChecker is the blocklist matcher as the aggregator sees it
type BlocklistChecker interface {
	IsBlocked(ctx context.Context, idType, value string) (bool, error)
}

// SimilarityFinder is the duplicate/similarity detector as the aggregator sees it
type SimilarityFinder interface {
	FindSimilar(ctx context.Context, fp similarity.Fingerprint, cfg config.FraudConfig) ([]similarity.Match, error)
}

// OrderHistory provides order lookups and the external reputation signal
type OrderHistory interface {
	Get(ctx context.Context, id int64) (*orders.Order, error)
	Page(ctx context.Context, offset, limit int) ([]*orders.Order, error)
	CancellationRatio(ctx context.Context, phone string) (float64, error)
}

// ScoreCache persists computed scores per phone
type ScoreCache interface {
	Get(ctx context.Context, phone string) (*CachedScore, error)
	Set(ctx context.Context, entry *CachedScore, ttl time.Duration) error
}

// Service combines detector outputs and external signals into a weighted
// 0-100 fraud score with a per-phone cache.
type Service struct {
	cooldowns  CooldownChecker
	blocklist  BlocklistChecker
	similarity SimilarityFinder
	history    OrderHistory
	cache      ScoreCache
	reputation *resilience.Breaker
	now        func() time.Time
}

// NewService creates a new score service
func NewService(cooldowns CooldownChecker, blocklist BlocklistChecker, finder SimilarityFinder, history OrderHistory, cache ScoreCache) *Service {
	return &Service{
		cooldowns:  cooldowns,
		blocklist:  blocklist,
		similarity: finder,
		history:    history,
		cache:      cache,
		reputation: resilience.NewBreaker(resilience.BuildSettings("order-reputation", 60, 30, 5, 1)),
		now:        time.Now,
	}
}

// Get returns the fraud score for a phone. A fresh cache entry is returned
// as-is unless forceRefresh is set; otherwise the score is recomputed and
// the cache overwritten.
func (s *Service) Get(ctx context.Context, phone string, orderID int64, forceRefresh bool, cfg config.FraudConfig) (*Result, error) {
	normalized := normalize.Phone(phone)
	if normalized == "" {
		return nil, ErrNoPhone
	}

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second

	if !forceRefresh {
		cached, err := s.cache.Get(ctx, normalized)
		if err != nil {
			logger.WithContext(ctx).Warn("score cache read failed, recomputing",
				zap.Error(err),
			)
		} else if cached != nil && s.now().Sub(cached.ComputedAt) < ttl {
			return &Result{
				Phone:    normalized,
				Score:    cached.Score,
				RiskTier: cached.RiskTier,
				Cached:   true,
				Signals:  cached.Signals,
			}, nil
		}
	}

	entry := s.compute(ctx, normalized, orderID, cfg)
	if err := s.cache.Set(ctx, entry, ttl); err != nil {
		// Serving the freshly computed score matters more than caching it
		logger.WithContext(ctx).Warn("score cache write failed",
			zap.String("phone", normalized),
			zap.Error(err),
		)
	}

	return &Result{
		Phone:    normalized,
		Score:    entry.Score,
		RiskTier: entry.RiskTier,
		Cached:   false,
		Signals:  entry.Signals,
	}, nil
}

// compute gathers independent signal contributions. An unavailable signal
// source contributes zero rather than failing the whole computation; the
// partial result is logged, not surfaced.
func (s *Service) compute(ctx context.Context, phone string, orderID int64, cfg config.FraudConfig) *CachedScore {
	log := logger.WithContext(ctx)
	signals := make(map[string]int)
	partial := false

	if cfg.PhoneCooldownEnabled {
		status, err := s.cooldowns.Check(ctx, cooldown.TypePhone, phone, cfg.PhoneCooldownHours)
		switch {
		case err != nil:
			partial = true
			log.Warn("cooldown signal unavailable", zap.Error(err))
		case status.Blocked:
			signals[SignalCooldown] = weightCooldown
		}
	}

	blocked, err := s.blocklist.IsBlocked(ctx, "phone", phone)
	switch {
	case err != nil:
		partial = true
		log.Warn("blocklist signal unavailable", zap.Error(err))
	case blocked:
		signals[SignalBlocklist] = weightBlocklist
	}

	if orderID > 0 {
		if contribution, nameHit, err := s.duplicateSignals(ctx, orderID, cfg); err != nil {
			partial = true
			log.Warn("duplicate signal unavailable", zap.Int64("order_id", orderID), zap.Error(err))
		} else {
			if contribution > 0 {
				signals[SignalDuplicates] = contribution
			}
			if nameHit > 0 {
				signals[SignalNameMatch] = weightNameMatch
			}
		}
	}

	ratioResult, err := s.reputation.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return s.history.CancellationRatio(ctx, phone)
	}, nil)
	if err != nil {
		partial = true
		log.Warn("reputation signal unavailable", zap.Error(err))
	} else if ratio, ok := ratioResult.(float64); ok && ratio > 0 {
		signals[SignalCancellation] = int(ratio * weightCancellation)
	}

	total := 0
	for _, v := range signals {
		total += v
	}
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}

	if partial {
		log.Info("fraud score computed from partial signals",
			zap.String("phone", phone),
			zap.Int("score", total),
		)
	}

	return &CachedScore{
		Phone:      phone,
		Score:      total,
		RiskTier:   TierFor(total),
		ComputedAt: s.now(),
		Signals:    signals,
	}
}

// duplicateSignals returns the duplicate-address contribution and the best
// name-similarity hit for the order under scoring.
func (s *Service) duplicateSignals(ctx context.Context, orderID int64, cfg config.FraudConfig) (int, int, error) {
	order, err := s.history.Get(ctx, orderID)
	if err != nil {
		return 0, 0, err
	}
	if order == nil {
		return 0, 0, nil
	}

	matches, err := s.similarity.FindSimilar(ctx, similarity.FingerprintOrder(order), cfg)
	if err != nil {
		return 0, 0, err
	}

	contribution := 0
	allowance := cfg.MaxOrdersPerAddress - 1
	if allowance < 0 {
		allowance = 0
	}
	if extras := similarity.CountAddressMatches(matches) - allowance; extras > 0 {
		contribution = extras * weightPerExtraAddr
		if contribution > maxDuplicateWeight {
			contribution = maxDuplicateWeight
		}
	}

	return contribution, similarity.BestNameMatch(matches), nil
}
