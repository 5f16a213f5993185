package checkout

// Actions a checkout evaluation can resolve to, in increasing severity
const (
	ActionAllow = "allow"
	ActionFlag  = "flag"
	ActionBlock = "block"
)

var severity = map[string]int{
	ActionAllow: 0,
	ActionFlag:  1,
	ActionBlock: 2,
}

// Decision is the outcome of a checkout evaluation. Reasons carry every
// triggered rule, not just the one that set the action.
type Decision struct {
	Action  string   `json:"action"`
	Reasons []string `json:"reasons"`
}

// escalate raises the action if next is more severe and records the reason
func (d *Decision) escalate(next, reason string) {
	if severity[next] > severity[d.Action] {
		d.Action = next
	}
	d.Reasons = append(d.Reasons, reason)
}

// EvaluateRequest is the checkout attempt under evaluation
type EvaluateRequest struct {
	Phone    string `json:"phone" binding:"required"`
	IP       string `json:"ip" binding:"omitempty"`
	Address  string `json:"address" binding:"omitempty"`
	Name     string `json:"name" binding:"omitempty"`
	DeviceID string `json:"device_id" binding:"omitempty"`
}

// ConfirmOrderRequest records a placed order into history and stamps cooldowns
type ConfirmOrderRequest struct {
	Phone    string `json:"phone" binding:"required"`
	IP       string `json:"ip" binding:"omitempty"`
	Address  string `json:"address" binding:"required"`
	Name     string `json:"name" binding:"required"`
	DeviceID string `json:"device_id" binding:"omitempty"`
}
