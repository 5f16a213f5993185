package cooldown

// Identifier types the cooldown detector tracks
const (
	TypePhone = "phone"
	TypeIP    = "ip"
)

// Status is the result of a cooldown check. Checking is read-only; the only
// mutator is Record, called on confirmed order placement.
type Status struct {
	Blocked          bool   `json:"blocked"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	LastOrderAt      *int64 `json:"last_order_at,omitempty"` // unix seconds
}
