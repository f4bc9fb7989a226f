// Package opportunity exposes volunteer opportunities. From this
// service's perspective the collection is read-only; an external admin
// tool populates it.
package opportunity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/helpinghands/volunteer-api/internal/database"
)

var ErrNotFound = errors.New("opportunity not found")

type Opportunity struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Location         string    `json:"location,omitempty"`
	Duration         string    `json:"duration,omitempty"`
	VolunteersNeeded int       `json:"volunteersNeeded,omitempty"`
	DateCreated      time.Time `json:"dateCreated"`
}

// Repository reads opportunities.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// List returns all opportunities, newest first.
func (r *Repository) List(ctx context.Context) ([]*Opportunity, error) {
	var dbOpportunities []*database.Opportunity
	err := r.db.NewSelect().
		Model(&dbOpportunities).
		Order("date_created DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}

	opportunities := make([]*Opportunity, 0, len(dbOpportunities))
	for _, o := range dbOpportunities {
		opportunities = append(opportunities, mapDBOpportunityToModel(o))
	}

	return opportunities, nil
}

// GetByID retrieves one opportunity; the signup flow uses it to verify
// the referenced opportunity exists.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Opportunity, error) {
	dbOpportunity := new(database.Opportunity)
	err := r.db.NewSelect().
		Model(dbOpportunity).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get opportunity by id: %w", err)
	}

	return mapDBOpportunityToModel(dbOpportunity), nil
}

func mapDBOpportunityToModel(o *database.Opportunity) *Opportunity {
	return &Opportunity{
		ID:               o.ID,
		Title:            o.Title,
		Description:      o.Description,
		Location:         o.Location,
		Duration:         o.Duration,
		VolunteersNeeded: o.VolunteersNeeded,
		DateCreated:      o.DateCreated,
	}
}
