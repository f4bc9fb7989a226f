package donation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/helpinghands/volunteer-api/internal/database"
)

// Update is a sparse donation update; nil pointers leave columns alone.
type Update struct {
	Amount          *float64
	Currency        *string
	PaymentIntentID *string
	Status          *string
}

// IsEmpty reports whether the update touches no columns at all.
func (u *Update) IsEmpty() bool {
	return u.Amount == nil && u.Currency == nil && u.PaymentIntentID == nil && u.Status == nil
}

// Repository handles donation persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// List returns all donations, newest first, with the owning user joined
// when the donation isn't anonymous.
func (r *Repository) List(ctx context.Context) ([]*Donation, error) {
	var dbDonations []*database.Donation
	err := r.db.NewSelect().
		Model(&dbDonations).
		Relation("User").
		Order("d.donated_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}

	donations := make([]*Donation, 0, len(dbDonations))
	for _, d := range dbDonations {
		donations = append(donations, mapDBDonationToModel(d))
	}

	return donations, nil
}

// GetByID retrieves a donation with its owner joined.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Donation, error) {
	dbDonation := new(database.Donation)
	err := r.db.NewSelect().
		Model(dbDonation).
		Relation("User").
		Where("d.id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get donation by id: %w", err)
	}

	return mapDBDonationToModel(dbDonation), nil
}

// Create inserts a new donation record.
func (r *Repository) Create(ctx context.Context, d *Donation) (*Donation, error) {
	dbDonation := &database.Donation{
		UserID:          d.UserID,
		Amount:          d.Amount,
		Currency:        d.Currency,
		PaymentIntentID: d.PaymentIntentID,
		Status:          d.Status,
	}

	_, err := r.db.NewInsert().
		Model(dbDonation).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}

	return mapDBDonationToModel(dbDonation), nil
}

// ApplyUpdate applies a sparse update and returns the updated donation.
// An empty update is a read: nothing is written.
func (r *Repository) ApplyUpdate(ctx context.Context, id uuid.UUID, upd *Update) (*Donation, error) {
	if upd.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	dbDonation := new(database.Donation)

	q := r.db.NewUpdate().
		Model(dbDonation).
		Where("id = ?", id).
		Returning("*")

	if upd.Amount != nil {
		q = q.Set("amount = ?", *upd.Amount)
	}
	if upd.Currency != nil {
		q = q.Set("currency = ?", *upd.Currency)
	}
	if upd.PaymentIntentID != nil {
		q = q.Set("payment_intent_id = ?", *upd.PaymentIntentID)
	}
	if upd.Status != nil {
		q = q.Set("status = ?", *upd.Status)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update donation: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBDonationToModel(dbDonation), nil
}

// Delete removes a donation record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*database.Donation)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete donation: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBDonationToModel converts database model to domain model
func mapDBDonationToModel(d *database.Donation) *Donation {
	donation := &Donation{
		ID:              d.ID,
		UserID:          d.UserID,
		Amount:          d.Amount,
		Currency:        d.Currency,
		PaymentIntentID: d.PaymentIntentID,
		Status:          d.Status,
		DonatedAt:       d.DonatedAt,
	}

	if d.User != nil {
		donation.Owner = &Owner{
			ID:        d.User.ID,
			FirstName: d.User.FirstName,
			LastName:  d.User.LastName,
			Email:     d.User.Email,
		}
	}

	return donation
}
