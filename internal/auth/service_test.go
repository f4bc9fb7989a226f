package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpinghands/volunteer-api/internal/logging"
	"github.com/helpinghands/volunteer-api/internal/user"
)

// fakeUserStore keeps users in a map keyed by normalized email.
type fakeUserStore struct {
	byEmail   map[string]*user.User
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*user.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, user.ErrDuplicateEmail
	}
	stored := *u
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.byEmail[stored.Email] = &stored
	return &stored, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if u, ok := f.byEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, user.ErrNotFound
}

func newTestService(store UserStore, tokens TokenService) *Service {
	return NewService(store, tokens, newTestPasswordService(), nil, logging.NewLogger(true), time.Hour)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada.Lovelace@example.com",
		Password:  "s3cret-pw",
	}
}

func TestRegister_Success(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store, nil)

	created, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Ada", created.FirstName)
	// Email is stored normalized
	assert.Equal(t, "ada.lovelace@example.com", created.Email)
	// The hash must verify against the raw password and never equal it
	assert.NotEqual(t, "s3cret-pw", created.PasswordHash)
	assert.True(t, newTestPasswordService().Verify(created.PasswordHash, "s3cret-pw"))
}

func TestRegister_MissingRequiredFields(t *testing.T) {
	svc := newTestService(newFakeUserStore(), nil)

	cases := map[string]RegisterInput{
		"no first name": {LastName: "L", Email: "a@b.com", Password: "secret1"},
		"no last name":  {FirstName: "F", Email: "a@b.com", Password: "secret1"},
		"no email":      {FirstName: "F", LastName: "L", Password: "secret1"},
		"no password":   {FirstName: "F", LastName: "L", Email: "a@b.com"},
		"whitespace":    {FirstName: "  ", LastName: "L", Email: "a@b.com", Password: "secret1"},
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), in)
			assert.ErrorIs(t, err, ErrMissingFields)
		})
	}
}

func TestRegister_ValidationFailures(t *testing.T) {
	svc := newTestService(newFakeUserStore(), nil)

	cases := map[string]struct {
		mutate func(*RegisterInput)
		field  string
	}{
		"bad email":      {func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		"short password": {func(in *RegisterInput) { in.Password = "12345" }, "password"},
		"short phone":    {func(in *RegisterInput) { in.Phone = "12345" }, "phone"},
		"bad gender":     {func(in *RegisterInput) { in.Gender = "unknown" }, "gender"},
		"bad birth date": {func(in *RegisterInput) { in.DateOfBirth = "tomorrow" }, "dateOfBirth"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := validRegisterInput()
			tc.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			var ve *user.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tc.field)
		})
	}
}

func TestRegister_OptionalFields(t *testing.T) {
	svc := newTestService(newFakeUserStore(), nil)

	in := validRegisterInput()
	in.Phone = "0123456789"
	in.DateOfBirth = "1990-05-01"
	in.Gender = "Non-binary"
	in.Country = "Czechia"
	in.City = "Prague"

	created, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "0123456789", created.Phone)
	require.NotNil(t, created.DateOfBirth)
	assert.Equal(t, 1990, created.DateOfBirth.Year())
	assert.Equal(t, "Non-binary", created.Gender)
	assert.Equal(t, "Czechia", created.Country)
	assert.Equal(t, "Prague", created.City)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store, nil)

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	// Same address with different case still collides
	in := validRegisterInput()
	in.Email = "ADA.LOVELACE@EXAMPLE.COM"
	_, err = svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
}

func TestLogin_Success(t *testing.T) {
	store := newFakeUserStore()
	tokens, err := NewJWTService(testJWTSecret)
	require.NoError(t, err)
	svc := newTestService(store, tokens)

	created, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	token, loggedIn, err := svc.Login(context.Background(), "ada.lovelace@example.com", "s3cret-pw")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, created.ID, loggedIn.ID)

	claims, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID.String(), claims.UserID)
}

func TestLogin_MissingFields(t *testing.T) {
	svc := newTestService(newFakeUserStore(), nil)

	_, _, err := svc.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, _, err = svc.Login(context.Background(), "a@b.com", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	store := newFakeUserStore()
	tokens, err := NewJWTService(testJWTSecret)
	require.NoError(t, err)
	svc := newTestService(store, tokens)

	_, err = svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	// Unknown email and wrong password are indistinguishable
	_, _, err = svc.Login(context.Background(), "nobody@example.com", "s3cret-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "ada.lovelace@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_NoSigningSecret(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store, nil) // no token service configured

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	// Credentials are fine; token issuance is not
	_, _, err = svc.Login(context.Background(), "ada.lovelace@example.com", "s3cret-pw")
	assert.ErrorIs(t, err, ErrSigningSecretMissing)
}
