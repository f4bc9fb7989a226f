package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted user record. The password is stored only as a
// bcrypt hash; plaintext never reaches this struct.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	FirstName    string     `bun:"first_name,notnull"`
	LastName     string     `bun:"last_name,notnull"`
	Email        string     `bun:"email,notnull,unique"`
	PasswordHash string     `bun:"password_hash,notnull"`
	Phone        string     `bun:"phone,nullzero"`
	DateOfBirth  *time.Time `bun:"date_of_birth"`
	Gender       string     `bun:"gender,nullzero"`
	Country      string     `bun:"country,nullzero"`
	City         string     `bun:"city,nullzero"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Donation is a donation record. UserID is nil for anonymous donations.
type Donation struct {
	bun.BaseModel `bun:"table:donations,alias:d"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserID          *uuid.UUID `bun:"user_id,type:uuid"`
	Amount          float64    `bun:"amount,notnull"`
	Currency        string     `bun:"currency,notnull,default:'USD'"`
	PaymentIntentID *string    `bun:"payment_intent_id"`
	Status          string     `bun:"status,notnull,default:'completed'"`
	DonatedAt       time.Time  `bun:"donated_at,nullzero,notnull,default:current_timestamp"`

	User *User `bun:"rel:belongs-to,join:user_id=id"`
}

// Opportunity is a volunteer opportunity. This service only reads them;
// the collection is populated by an external admin tool.
type Opportunity struct {
	bun.BaseModel `bun:"table:opportunities,alias:o"`

	ID               uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Title            string    `bun:"title,notnull"`
	Description      string    `bun:"description,nullzero"`
	Location         string    `bun:"location,nullzero"`
	Duration         string    `bun:"duration,nullzero"`
	VolunteersNeeded int       `bun:"volunteers_needed,nullzero"`
	DateCreated      time.Time `bun:"date_created,nullzero,notnull,default:current_timestamp"`
}

// UserOpportunity joins a user to an opportunity they signed up for.
// The (user_id, opportunity_id) pair carries a unique index; that index,
// not the handler's pre-check, is what makes concurrent duplicate signups safe.
type UserOpportunity struct {
	bun.BaseModel `bun:"table:user_opportunities,alias:uo"`

	ID            uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserID        uuid.UUID `bun:"user_id,type:uuid,notnull"`
	OpportunityID uuid.UUID `bun:"opportunity_id,type:uuid,notnull"`
	SignedUpAt    time.Time `bun:"signed_up_at,nullzero,notnull,default:current_timestamp"`

	User        *User        `bun:"rel:belongs-to,join:user_id=id"`
	Opportunity *Opportunity `bun:"rel:belongs-to,join:opportunity_id=id"`
}
