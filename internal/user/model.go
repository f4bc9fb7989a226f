package user

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// MinPasswordLength applies to the raw password, before hashing.
const MinPasswordLength = 6

// MinPhoneLength applies when a phone number is supplied at all.
const MinPhoneLength = 10

// emailPattern is deliberately simple; real deliverability is a concern
// for the mail layer, not registration.
var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Genders is the closed set of accepted gender values. Empty means unspecified.
var Genders = []string{"Male", "Female", "Non-binary", "Prefer not to say", ""}

type User struct {
	ID           uuid.UUID  `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never expose password hash in JSON
	Phone        string     `json:"phone,omitempty"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	Gender       string     `json:"gender,omitempty"`
	Country      string     `json:"country,omitempty"`
	City         string     `json:"city,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// FullName derives the display name from whichever name parts are present.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}

// NormalizeEmail trims and lower-cases an email the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidGender(gender string) bool {
	for _, g := range Genders {
		if gender == g {
			return true
		}
	}
	return false
}

// ValidationError carries per-field messages so handlers can return
// field-level detail next to the overall message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() *ValidationError {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Validate checks a fully-populated candidate user plus the raw password.
// Used at registration; updates validate only the fields they touch.
func Validate(u *User, rawPassword string) *ValidationError {
	ve := &ValidationError{}

	if u.FirstName == "" {
		ve.add("firstName", "First name is required")
	}
	if u.LastName == "" {
		ve.add("lastName", "Last name is required")
	}
	if u.Email == "" {
		ve.add("email", "Email is required")
	} else if !ValidEmail(u.Email) {
		ve.add("email", "Please fill a valid email address")
	}
	if rawPassword == "" {
		ve.add("password", "Password is required")
	} else if len(rawPassword) < MinPasswordLength {
		ve.add("password", fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}
	if u.Phone != "" && len(u.Phone) < MinPhoneLength {
		ve.add("phone", fmt.Sprintf("%s is not a valid phone number, it must be at least %d digits long", u.Phone, MinPhoneLength))
	}
	if !ValidGender(u.Gender) {
		ve.add("gender", fmt.Sprintf("%s is not a valid gender", u.Gender))
	}

	return ve.orNil()
}
