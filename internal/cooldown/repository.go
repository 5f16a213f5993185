package cooldown

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RetentionTTL bounds how long a last-order timestamp is kept. It matches the
// maximum configurable cooldown window (720h), so pruning is native key expiry.
const RetentionTTL = 720 * time.Hour

// Repository persists last-order timestamps keyed by identifier
type Repository struct {
	client *redis.Client
	now    func() time.Time
}

// NewRepository creates a new cooldown repository
func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client, now: time.Now}
}

func key(idType, value string) string {
	return fmt.Sprintf("cooldown:%s:%s", idType, value)
}

// LastOrderAt returns the last recorded order time for the identifier, or nil
// when no record exists.
func (r *Repository) LastOrderAt(ctx context.Context, idType, value string) (*time.Time, error) {
	raw, err := r.client.Get(ctx, key(idType, value)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read cooldown record: %w", err)
	}

	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt cooldown record for %s:%s: %w", idType, value, err)
	}

	t := time.Unix(unix, 0)
	return &t, nil
}

// Record upserts the last-order timestamp to now. Last-writer-wins is
// acceptable: a cooldown race merely lets one near-simultaneous order through.
func (r *Repository) Record(ctx context.Context, idType, value string) error {
	ts := strconv.FormatInt(r.now().Unix(), 10)
	if err := r.client.Set(ctx, key(idType, value), ts, RetentionTTL).Err(); err != nil {
		return fmt.Errorf("unable to record cooldown: %w", err)
	}
	return nil
}
