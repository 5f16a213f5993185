package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/richxcame/fraudguard/internal/blocklist"
	"github.com/richxcame/fraudguard/internal/cooldown"
	"github.com/richxcame/fraudguard/internal/orders"
	"github.com/richxcame/fraudguard/internal/similarity"
	"github.com/richxcame/fraudguard/pkg/config"
	"github.com/richxcame/fraudguard/pkg/logger"
	"github.com/richxcame/fraudguard/pkg/normalize"
	"go.uber.org/zap"
)

// BlocklistChecker is the blocklist matcher as the gate sees it
type BlocklistChecker interface {
	IsBlocked(ctx context.Context, idType, value string) (bool, error)
}

// CooldownDetector covers both sides of the cooldown detector: Check during
// evaluation, RecordOrder only on confirmed placement.
type CooldownDetector interface {
	Check(ctx context.Context, idType, value string, windowHours int) (*cooldown.Status, error)
	RecordOrder(ctx context.Context, idType, value string) error
}

// SimilarityFinder is the duplicate/similarity detector as the gate sees it
type SimilarityFinder interface {
	FindSimilar(ctx context.Context, fp similarity.Fingerprint, cfg config.FraudConfig) ([]similarity.Match, error)
}

// OrderWriter appends confirmed orders to history
type OrderWriter interface {
	Insert(ctx context.Context, order *orders.Order) (int64, error)
}

// Service is the checkout gate: it combines detector signals into a single
// allow/flag/block decision. Evaluation is strictly read-only; only a
// confirmed placement mutates state.
type Service struct {
	blocklist  BlocklistChecker
	cooldowns  CooldownDetector
	similarity SimilarityFinder
	orders     OrderWriter
	now        func() time.Time
}

// NewService creates a new checkout service
func NewService(bl BlocklistChecker, cd CooldownDetector, sf SimilarityFinder, ow OrderWriter) *Service {
	return &Service{
		blocklist:  bl,
		cooldowns:  cd,
		similarity: sf,
		orders:     ow,
		now:        time.Now,
	}
}

// Evaluate runs the gate rules in order of authority: blocklist, cooldowns,
// duplicates. The most severe triggered action wins and every triggered rule
// contributes a reason. A failed detector yields no signal rather than an
// error; only the blocklist can be configured to fail closed.
func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest, cfg config.FraudConfig) (*Decision, error) {
	log := logger.WithContext(ctx)
	decision := &Decision{Action: ActionAllow, Reasons: []string{}}

	s.applyBlocklist(ctx, req, cfg, decision, log)
	s.applyCooldowns(ctx, req, cfg, decision, log)
	s.applyDuplicates(ctx, req, cfg, decision, log)

	return decision, nil
}

func (s *Service) applyBlocklist(ctx context.Context, req EvaluateRequest, cfg config.FraudConfig, decision *Decision, log *zap.Logger) {
	checks := []struct {
		idType string
		value  string
	}{
		{blocklist.TypePhone, req.Phone},
		{blocklist.TypeIP, req.IP},
		{blocklist.TypeDevice, req.DeviceID},
	}

	for _, check := range checks {
		if check.value == "" {
			continue
		}
		blocked, err := s.blocklist.IsBlocked(ctx, check.idType, check.value)
		if err != nil {
			if cfg.BlocklistFailClosed {
				decision.escalate(ActionBlock, "blocklist unavailable")
				log.Error("blocklist check failed, failing closed",
					zap.String("type", check.idType),
					zap.Error(err),
				)
				return
			}
			log.Warn("blocklist check failed, continuing without signal",
				zap.String("type", check.idType),
				zap.Error(err),
			)
			continue
		}
		if blocked {
			decision.escalate(ActionBlock, fmt.Sprintf("%s is blocklisted", check.idType))
		}
	}
}

func (s *Service) applyCooldowns(ctx context.Context, req EvaluateRequest, cfg config.FraudConfig, decision *Decision, log *zap.Logger) {
	action := ActionBlock
	if cfg.CooldownWarnOnly {
		action = ActionFlag
	}

	if cfg.PhoneCooldownEnabled {
		status, err := s.cooldowns.Check(ctx, cooldown.TypePhone, req.Phone, cfg.PhoneCooldownHours)
		if err != nil {
			log.Warn("phone cooldown check failed, continuing without signal", zap.Error(err))
		} else if status.Blocked {
			decision.escalate(action, fmt.Sprintf("phone cooldown active, %ds remaining", status.RemainingSeconds))
		}
	}

	if cfg.IPCooldownEnabled && req.IP != "" {
		status, err := s.cooldowns.Check(ctx, cooldown.TypeIP, req.IP, cfg.IPCooldownHours)
		if err != nil {
			log.Warn("ip cooldown check failed, continuing without signal", zap.Error(err))
		} else if status.Blocked {
			decision.escalate(action, fmt.Sprintf("ip cooldown active, %ds remaining", status.RemainingSeconds))
		}
	}
}

func (s *Service) applyDuplicates(ctx context.Context, req EvaluateRequest, cfg config.FraudConfig, decision *Decision, log *zap.Logger) {
	if req.Address == "" && req.Name == "" {
		return
	}

	fp := similarity.NewFingerprint(0, req.Phone, req.Address, req.Name, s.now())
	matches, err := s.similarity.FindSimilar(ctx, fp, cfg)
	if err != nil {
		log.Warn("similarity check failed, continuing without signal", zap.Error(err))
		return
	}

	// The attempt itself would become order N+1, so an existing count at the
	// limit already exceeds the allowance.
	if count := similarity.CountAddressMatches(matches); count >= cfg.MaxOrdersPerAddress {
		action := ActionBlock
		if cfg.DuplicateWarnOnly {
			action = ActionFlag
		}
		decision.escalate(action, fmt.Sprintf("%d recent orders share this address (limit %d)", count, cfg.MaxOrdersPerAddress))
	}

	// A name hit alone is advisory, never blocking
	if best := similarity.BestNameMatch(matches); best > 0 {
		decision.escalate(ActionFlag, fmt.Sprintf("customer name %d%% similar to a recent order", best))
	}
}

// ConfirmOrder records a placed order: it appends the order to history and
// stamps the phone and IP cooldowns. Cooldown stamping is best-effort; a
// failed stamp is logged but never rolls back the order.
func (s *Service) ConfirmOrder(ctx context.Context, req ConfirmOrderRequest) (int64, error) {
	log := logger.WithContext(ctx)

	order := &orders.Order{
		Phone:     normalize.Phone(req.Phone),
		IP:        normalize.IP(req.IP),
		Address:   req.Address,
		Name:      req.Name,
		DeviceID:  normalize.Device(req.DeviceID),
		Status:    orders.StatusPlaced,
		CreatedAt: s.now(),
	}

	id, err := s.orders.Insert(ctx, order)
	if err != nil {
		return 0, fmt.Errorf("failed to record order: %w", err)
	}

	if err := s.cooldowns.RecordOrder(ctx, cooldown.TypePhone, req.Phone); err != nil {
		log.Error("failed to record phone cooldown", zap.Int64("order_id", id), zap.Error(err))
	}
	if req.IP != "" {
		if err := s.cooldowns.RecordOrder(ctx, cooldown.TypeIP, req.IP); err != nil {
			log.Error("failed to record ip cooldown", zap.Int64("order_id", id), zap.Error(err))
		}
	}

	return id, nil
}
