package similarity

import (
	"time"

	"github.com/richxcame/fraudguard/internal/orders"
	"github.com/richxcame/fraudguard/pkg/normalize"
)

// Match types reported by the detector
const (
	MatchAddress = "address"
	MatchName    = "name"
)

// Fingerprint holds the normalized derived attributes of an order used for
// comparison. It is transient; never stored.
type Fingerprint struct {
	OrderID   int64
	Phone     string
	Address   string
	Name      string
	CreatedAt time.Time
}

// Match is a single similarity hit against a prior order
type Match struct {
	OrderID    int64  `json:"order_id"`
	Type       string `json:"type"`
	Similarity int    `json:"similarity"` // 0-100
}

// NewFingerprint derives a normalized fingerprint from raw order attributes
func NewFingerprint(orderID int64, phone, address, name string, createdAt time.Time) Fingerprint {
	return Fingerprint{
		OrderID:   orderID,
		Phone:     normalize.Phone(phone),
		Address:   normalize.Address(address),
		Name:      normalize.Name(name),
		CreatedAt: createdAt,
	}
}

// FingerprintOrder derives a fingerprint from an order history row
func FingerprintOrder(o *orders.Order) Fingerprint {
	return NewFingerprint(o.ID, o.Phone, o.Address, o.Name, o.CreatedAt)
}
