package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is the slice of the repository the profile flows need.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd *ProfileUpdate) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles profile reads, updates, and account deletion.
type Service struct {
	users Store
}

func NewService(users Store) *Service {
	return &Service{users: users}
}

// GetProfile fetches the user's own record.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfileInput carries the raw incoming fields. Empty strings mean
// "leave unchanged" — a field cannot be cleared through this operation,
// only overwritten with a new non-empty value.
type UpdateProfileInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth string
	Gender      string
	Country     string
	City        string
}

// UpdateProfile validates the supplied fields, checks a changed email
// against other accounts, and applies a sparse update.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*User, error) {
	upd := &ProfileUpdate{}
	ve := &ValidationError{}

	if v := strings.TrimSpace(in.FirstName); v != "" {
		upd.FirstName = &v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		upd.LastName = &v
	}
	if v := NormalizeEmail(in.Email); v != "" {
		if !ValidEmail(v) {
			ve.add("email", "Please fill a valid email address")
		}
		upd.Email = &v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		if len(v) < MinPhoneLength {
			ve.add("phone", fmt.Sprintf("%s is not a valid phone number, it must be at least %d digits long", v, MinPhoneLength))
		}
		upd.Phone = &v
	}
	if in.DateOfBirth != "" {
		dob, err := parseDate(in.DateOfBirth)
		if err != nil {
			ve.add("dateOfBirth", "Invalid data format for: dateOfBirth")
		} else {
			upd.DateOfBirth = &dob
		}
	}
	if v := strings.TrimSpace(in.Gender); v != "" {
		if !ValidGender(v) {
			ve.add("gender", fmt.Sprintf("%s is not a valid gender", v))
		}
		upd.Gender = &v
	}
	if v := strings.TrimSpace(in.Country); v != "" {
		upd.Country = &v
	}
	if v := strings.TrimSpace(in.City); v != "" {
		upd.City = &v
	}

	if err := ve.orNil(); err != nil {
		return nil, err
	}

	// A changed email must not belong to a different account. Checking the
	// current owner keeps a no-op email save from rejecting itself.
	if upd.Email != nil {
		existing, err := s.users.GetByEmail(ctx, *upd.Email)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("failed to check email ownership: %w", err)
		}
		if err == nil && existing.ID != id {
			return nil, ErrDuplicateEmail
		}
	}

	if upd.IsEmpty() {
		// Nothing truthy to write; return the record as-is.
		return s.users.GetByID(ctx, id)
	}

	return s.users.UpdateProfile(ctx, id, upd)
}

// DeleteAccount deletes the user's record. Donations and signups are left
// in place; nothing cascades.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
