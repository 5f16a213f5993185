package score

import (
	"errors"
	"time"
)

// ErrNoPhone is returned when a score is requested for an order or input
// whose phone number normalizes to empty.
var ErrNoPhone = errors.New("phone number normalizes to empty")

// Risk tiers derived from the 0-100 score. Boundaries are inclusive on the
// lower side: <40 Low, 40-70 Medium, >70 High.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
)

// Batch recompute modes
const (
	ModeAll         = "all"
	ModeMissingOnly = "missing_only"
)

// Signal names used in the contributions snapshot
const (
	SignalCooldown     = "cooldown"
	SignalBlocklist    = "blocklist"
	SignalDuplicates   = "duplicate_address"
	SignalNameMatch    = "name_similarity"
	SignalCancellation = "cancellation_ratio"
)

// Result is what score consumers receive
type Result struct {
	Phone    string         `json:"phone"`
	Score    int            `json:"score"`
	RiskTier string         `json:"risk_tier"`
	Cached   bool           `json:"cached"`
	Signals  map[string]int `json:"signals,omitempty"`
}

// CachedScore is the cache entry persisted per normalized phone. It is a
// cache, not a system of record; it may be invalidated and rebuilt freely.
type CachedScore struct {
	Phone      string         `json:"phone"`
	Score      int            `json:"score"`
	RiskTier   string         `json:"risk_tier"`
	ComputedAt time.Time      `json:"computed_at"`
	Signals    map[string]int `json:"signals"`
}

// BatchJobState is the ephemeral state of a chunked recompute run. It is held
// by the driving caller across chunks and never persisted; an interrupted run
// restarts from offset 0.
type BatchJobState struct {
	Offset         int    `json:"offset"`
	BatchSize      int    `json:"batch_size"`
	Mode           string `json:"mode"`
	TotalProcessed int    `json:"total_processed"`
	TotalUpdated   int    `json:"total_updated"`
	TotalFailed    int    `json:"total_failed"`
	Completed      bool   `json:"completed"`
}

// NewBatchState initializes state for a fresh run
func NewBatchState(mode string, batchSize int) BatchJobState {
	if batchSize <= 0 {
		batchSize = 10
	}
	return BatchJobState{Mode: mode, BatchSize: batchSize}
}

// TierFor maps a score to its risk tier
func TierFor(score int) string {
	switch {
	case score < 40:
		return TierLow
	case score <= 70:
		return TierMedium
	default:
		return TierHigh
	}
}
