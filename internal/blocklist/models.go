package blocklist

import (
	"errors"
	"time"
)

// Identifier types that can be blocklisted
const (
	TypePhone  = "phone"
	TypeIP     = "ip"
	TypeDevice = "device"
)

// Non-fatal idempotency signals and validation errors surfaced to callers.
// AlreadyExists and NotFound are informational, not destructive failures.
var (
	ErrAlreadyExists     = errors.New("identifier already blocklisted")
	ErrNotFound          = errors.New("identifier not blocklisted")
	ErrInvalidIdentifier = errors.New("identifier normalizes to empty")
)

// Entry is a single blocklist record. Values are stored normalized so two
// differently formatted representations of the same identifier match.
type Entry struct {
	IdentifierType  string    `json:"identifier_type" db:"identifier_type"`
	IdentifierValue string    `json:"identifier_value" db:"identifier_value"`
	Reason          string    `json:"reason,omitempty" db:"reason"`
	AddedAt         time.Time `json:"added_at" db:"added_at"`
}

// AddRequest is the admin API request to blocklist an identifier
type AddRequest struct {
	IdentifierType  string `json:"identifier_type" binding:"required,oneof=phone ip device"`
	IdentifierValue string `json:"identifier_value" binding:"required"`
	Reason          string `json:"reason"`
}

// RemoveRequest is the admin API request to remove a blocklist entry
type RemoveRequest struct {
	IdentifierType  string `json:"identifier_type" binding:"required,oneof=phone ip device"`
	IdentifierValue string `json:"identifier_value" binding:"required"`
}
