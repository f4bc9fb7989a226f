package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/helpinghands/volunteer-api/internal/database"
)

// ProfileUpdate is a sparse update: nil pointers mean "leave the stored
// value alone". Empty incoming values are never translated into a set
// pointer, so a field cannot be cleared through this path.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	DateOfBirth *time.Time
	Gender      *string
	Country     *string
	City        *string
}

// IsEmpty reports whether the update touches no fields at all.
func (p *ProfileUpdate) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Phone == nil && p.DateOfBirth == nil && p.Gender == nil &&
		p.Country == nil && p.City == nil
}

// Repository handles user data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user into the database
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	dbUser := &database.User{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Phone:        u.Phone,
		DateOfBirth:  u.DateOfBirth,
		Gender:       u.Gender,
		Country:      u.Country,
		City:         u.City,
	}

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByEmail retrieves a user by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// UpdateProfile applies a sparse update and returns the updated user.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, upd *ProfileUpdate) (*User, error) {
	dbUser := new(database.User)

	q := r.db.NewUpdate().
		Model(dbUser).
		Where("id = ?", id).
		Set("updated_at = now()").
		Returning("*")

	if upd.FirstName != nil {
		q = q.Set("first_name = ?", *upd.FirstName)
	}
	if upd.LastName != nil {
		q = q.Set("last_name = ?", *upd.LastName)
	}
	if upd.Email != nil {
		q = q.Set("email = ?", *upd.Email)
	}
	if upd.Phone != nil {
		q = q.Set("phone = ?", *upd.Phone)
	}
	if upd.DateOfBirth != nil {
		q = q.Set("date_of_birth = ?", *upd.DateOfBirth)
	}
	if upd.Gender != nil {
		q = q.Set("gender = ?", *upd.Gender)
	}
	if upd.Country != nil {
		q = q.Set("country = ?", *upd.Country)
	}
	if upd.City != nil {
		q = q.Set("city = ?", *upd.City)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBUserToModel(dbUser), nil
}

// Delete removes the user record. Donations and signups referencing the
// user are not cascaded; orphaned references are accepted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*database.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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

func isDuplicateKey(err error) bool {
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:           dbu.ID,
		FirstName:    dbu.FirstName,
		LastName:     dbu.LastName,
		Email:        dbu.Email,
		PasswordHash: dbu.PasswordHash,
		Phone:        dbu.Phone,
		DateOfBirth:  dbu.DateOfBirth,
		Gender:       dbu.Gender,
		Country:      dbu.Country,
		City:         dbu.City,
		CreatedAt:    dbu.CreatedAt,
		UpdatedAt:    dbu.UpdatedAt,
	}
}
