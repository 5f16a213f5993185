package orders

import "time"

// Order is a single row of order history as seen by the fraud engine.
// Identifier fields are stored raw; consumers normalize before comparing.
type Order struct {
	ID        int64     `json:"id" db:"id"`
	Phone     string    `json:"phone" db:"phone"`
	IP        string    `json:"ip" db:"ip"`
	Address   string    `json:"address" db:"address"`
	Name      string    `json:"name" db:"name"`
	DeviceID  string    `json:"device_id" db:"device_id"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Order statuses relevant to the reputation signal
const (
	StatusPlaced    = "placed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusReturned  = "returned"
)
