package score

import (
	"context"
	"time"

	"github.com/richxcame/fraudguard/pkg/config"
	"github.com/richxcame/fraudguard/pkg/logger"
	"github.com/richxcame/fraudguard/pkg/normalize"
	"go.uber.org/zap"
)

// RunBatch processes one chunk of the recompute run described by state and
// returns the advanced state. The caller drives the chain, passing each
// returned state into the next call until Completed is set; the engine holds
// no checkpoint of its own. Per-order failures are counted and skipped, never
// fatal to the chunk.
func (s *Service) RunBatch(ctx context.Context, state BatchJobState, cfg config.FraudConfig) (BatchJobState, error) {
	if state.BatchSize <= 0 {
		state.BatchSize = 10
	}
	if state.Mode == "" {
		state.Mode = ModeMissingOnly
	}

	page, err := s.history.Page(ctx, state.Offset, state.BatchSize)
	if err != nil {
		return state, err
	}

	log := logger.WithContext(ctx)
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second

	for _, order := range page {
		state.TotalProcessed++

		phone := normalize.Phone(order.Phone)
		if phone == "" {
			state.TotalFailed++
			log.Warn("skipping order without usable phone",
				zap.Int64("order_id", order.ID),
			)
			continue
		}

		if state.Mode == ModeMissingOnly {
			cached, err := s.cache.Get(ctx, phone)
			if err == nil && cached != nil && s.now().Sub(cached.ComputedAt) < ttl {
				continue
			}
		}

		entry := s.compute(ctx, phone, order.ID, cfg)
		if err := s.cache.Set(ctx, entry, ttl); err != nil {
			state.TotalFailed++
			log.Warn("failed to store recomputed score",
				zap.Int64("order_id", order.ID),
				zap.String("phone", phone),
				zap.Error(err),
			)
			continue
		}

		state.TotalUpdated++
	}

	state.Offset += state.BatchSize
	state.Completed = len(page) < state.BatchSize

	return state, nil
}
