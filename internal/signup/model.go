package signup

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("signup not found")

	// ErrAlreadySignedUp covers both the pre-check hit and the unique-index
	// violation when two signups for the same pair race.
	ErrAlreadySignedUp = errors.New("already signed up for this opportunity")
)

// Signup joins a user to a volunteer opportunity. A user signs up for an
// opportunity at most once; there is no update or un-signup operation.
type Signup struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	OpportunityID uuid.UUID `json:"opportunityId"`
	SignedUpAt    time.Time `json:"signedUpAt"`

	Opportunity *OpportunitySummary `json:"opportunity,omitempty"`
}

// OpportunitySummary is the reduced opportunity projection returned with
// a user's signups.
type OpportunitySummary struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Location         string    `json:"location,omitempty"`
	Duration         string    `json:"duration,omitempty"`
	VolunteersNeeded int       `json:"volunteersNeeded,omitempty"`
}
