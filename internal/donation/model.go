package donation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("donation not found")

// Donation statuses. Defaulted to completed at creation because there is
// no payment-gateway callback wired in yet.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// MinAmount is the smallest accepted donation.
const MinAmount = 1

type Donation struct {
	ID              uuid.UUID  `json:"id"`
	UserID          *uuid.UUID `json:"userId,omitempty"` // nil for anonymous donations
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	PaymentIntentID *string    `json:"paymentIntentId,omitempty"`
	Status          string     `json:"status"`
	DonatedAt       time.Time  `json:"donatedAt"`

	Owner *Owner `json:"user,omitempty"`
}

// Owner is the donating user's display projection joined onto a donation.
type Owner struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email,omitempty"`
}

// FullName mirrors the user's derived display name.
func (o *Owner) FullName() string {
	switch {
	case o.FirstName != "" && o.LastName != "":
		return o.FirstName + " " + o.LastName
	case o.FirstName != "":
		return o.FirstName
	default:
		return o.LastName
	}
}
