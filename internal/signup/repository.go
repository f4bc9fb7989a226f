package signup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/helpinghands/volunteer-api/internal/database"
)

// Repository handles signup persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a signup. The compound unique index on
// (user_id, opportunity_id) is the real duplicate guard; a violation is
// reported as ErrAlreadySignedUp so a lost race looks identical to a
// pre-check hit.
func (r *Repository) Create(ctx context.Context, userID, opportunityID uuid.UUID) (*Signup, error) {
	dbSignup := &database.UserOpportunity{
		UserID:        userID,
		OpportunityID: opportunityID,
	}

	_, err := r.db.NewInsert().
		Model(dbSignup).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return nil, ErrAlreadySignedUp
		}
		return nil, fmt.Errorf("failed to create signup: %w", err)
	}

	return mapDBSignupToModel(dbSignup), nil
}

// Exists reports whether the user already signed up for the opportunity.
// Only an optimization to answer before hitting the unique index.
func (r *Repository) Exists(ctx context.Context, userID, opportunityID uuid.UUID) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*database.UserOpportunity)(nil)).
		Where("user_id = ?", userID).
		Where("opportunity_id = ?", opportunityID).
		Count(ctx)

	if err != nil {
		return false, fmt.Errorf("failed to check existing signup: %w", err)
	}

	return count > 0, nil
}

// ListByUser returns the user's signups with their opportunities joined.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Signup, error) {
	var dbSignups []*database.UserOpportunity
	err := r.db.NewSelect().
		Model(&dbSignups).
		Relation("Opportunity").
		Where("uo.user_id = ?", userID).
		Order("uo.signed_up_at DESC").
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Signup{}, nil
		}
		return nil, fmt.Errorf("failed to list signups: %w", err)
	}

	signups := make([]*Signup, 0, len(dbSignups))
	for _, s := range dbSignups {
		signups = append(signups, mapDBSignupToModel(s))
	}

	return signups, nil
}

func mapDBSignupToModel(s *database.UserOpportunity) *Signup {
	out := &Signup{
		ID:            s.ID,
		UserID:        s.UserID,
		OpportunityID: s.OpportunityID,
		SignedUpAt:    s.SignedUpAt,
	}

	if s.Opportunity != nil {
		out.Opportunity = &OpportunitySummary{
			ID:               s.Opportunity.ID,
			Title:            s.Opportunity.Title,
			Description:      s.Opportunity.Description,
			Location:         s.Opportunity.Location,
			Duration:         s.Opportunity.Duration,
			VolunteersNeeded: s.Opportunity.VolunteersNeeded,
		}
	}

	return out
}
