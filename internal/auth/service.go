package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/helpinghands/volunteer-api/internal/logging"
	"github.com/helpinghands/volunteer-api/internal/user"
)

var (
	ErrMissingFields      = errors.New("required fields are missing")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserStore is the slice of the user repository the auth flows need.
type UserStore interface {
	Create(ctx context.Context, u *user.User) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// EmailService defines the interface for outbound mail. May be nil when
// SMTP is not configured; mail is best-effort either way.
type EmailService interface {
	SendWelcomeEmail(ctx context.Context, toEmail, firstName string) error
}

// Service handles registration and login.
type Service struct {
	users         UserStore
	tokens        TokenService // nil when no signing secret is configured
	passwords     *PasswordService
	emailService  EmailService
	logger        *logging.Logger
	tokenDuration time.Duration
}

func NewService(
	users UserStore,
	tokens TokenService,
	passwords *PasswordService,
	emailService EmailService,
	logger *logging.Logger,
	tokenDuration time.Duration,
) *Service {
	return &Service{
		users:         users,
		tokens:        tokens,
		passwords:     passwords,
		emailService:  emailService,
		logger:        logger,
		tokenDuration: tokenDuration,
	}
}

// RegisterInput carries the raw registration fields as received. Optional
// fields arrive as empty strings when the client omits them.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Phone       string
	DateOfBirth string
	Gender      string
	Country     string
	City        string
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	newUser := &user.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     user.NormalizeEmail(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Gender:    strings.TrimSpace(in.Gender),
		Country:   strings.TrimSpace(in.Country),
		City:      strings.TrimSpace(in.City),
	}

	if newUser.FirstName == "" || newUser.LastName == "" || newUser.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	if in.DateOfBirth != "" {
		dob, err := parseDate(in.DateOfBirth)
		if err != nil {
			return nil, &user.ValidationError{Fields: map[string]string{
				"dateOfBirth": "Invalid date of birth",
			}}
		}
		newUser.DateOfBirth = &dob
	}

	if ve := user.Validate(newUser, in.Password); ve != nil {
		return nil, ve
	}

	// Friendlier error than the unique-index violation; the index still
	// backs this up if two registrations race.
	if _, err := s.users.GetByEmail(ctx, newUser.Email); err == nil {
		return nil, user.ErrDuplicateEmail
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	passwordHash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	newUser.PasswordHash = passwordHash

	created, err := s.users.Create(ctx, newUser)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.emailService != nil {
		go func(email, firstName string) {
			if err := s.emailService.SendWelcomeEmail(context.Background(), email, firstName); err != nil {
				s.logger.Warn("failed to send welcome email", "email", email, "error", err.Error())
			}
		}(created.Email, created.FirstName)
	}

	return created, nil
}

// Login authenticates a user and returns a signed token plus the user.
func (s *Service) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	if email == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	existing, err := s.users.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Do not reveal whether the email exists.
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.passwords.Verify(existing.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	if s.tokens == nil {
		return "", nil, ErrSigningSecretMissing
	}

	token, err := s.tokens.CreateToken(existing.ID, s.tokenDuration)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create token: %w", err)
	}

	return token, existing, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
