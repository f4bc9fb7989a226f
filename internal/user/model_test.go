package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@example.com",
		"user-name@sub.example.org",
		"u123@example.io",
	}
	for _, email := range valid {
		assert.True(t, ValidEmail(email), "expected %q to be valid", email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@example",
		"user name@example.com",
	}
	for _, email := range invalid {
		assert.False(t, ValidEmail(email), "expected %q to be invalid", email)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  Ada@Example.COM  "))
}

func TestValidGender(t *testing.T) {
	for _, g := range []string{"Male", "Female", "Non-binary", "Prefer not to say", ""} {
		assert.True(t, ValidGender(g), "expected %q to be accepted", g)
	}
	for _, g := range []string{"male", "other", "N/A"} {
		assert.False(t, ValidGender(g), "expected %q to be rejected", g)
	}
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).FullName())
	assert.Equal(t, "Lovelace", (&User{LastName: "Lovelace"}).FullName())
}

func TestValidate(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		u := &User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
		assert.Nil(t, Validate(u, "s3cret-pw"))
	})

	t.Run("collects all failures", func(t *testing.T) {
		u := &User{Email: "bad", Phone: "123", Gender: "other"}
		ve := Validate(u, "12345")

		assert.NotNil(t, ve)
		assert.Contains(t, ve.Fields, "firstName")
		assert.Contains(t, ve.Fields, "lastName")
		assert.Contains(t, ve.Fields, "email")
		assert.Contains(t, ve.Fields, "password")
		assert.Contains(t, ve.Fields, "phone")
		assert.Contains(t, ve.Fields, "gender")
	})

	t.Run("phone only validated when present", func(t *testing.T) {
		u := &User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
		assert.Nil(t, Validate(u, "s3cret-pw"))

		u.Phone = "123"
		ve := Validate(u, "s3cret-pw")
		assert.NotNil(t, ve)
		assert.Contains(t, ve.Fields, "phone")
	})
}
