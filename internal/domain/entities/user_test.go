package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"a@example.com", true},
		{"Ana <a@example.com>", true},
		{"", false},
		{"not-an-email", false},
		{"@example.com", false},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if tt.valid {
			assert.NoError(t, err, "email %q", tt.email)
		} else {
			assert.Error(t, err, "email %q", tt.email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("longenough"))
}

func TestHashAndCheckPassword(t *testing.T) {
	user := NewUser("ana", "a@example.com", "Ana", "secretpassword")
	require.NoError(t, user.HashPassword())

	assert.NotEqual(t, "secretpassword", user.Password)
	assert.NoError(t, user.CheckPassword("secretpassword"))
	assert.Error(t, user.CheckPassword("wrongpassword"))
}

func TestNewValidatedUserRejectsMissingFields(t *testing.T) {
	_, err := NewValidatedUser(NewUser("", "a@example.com", "Ana", "secretpassword"))
	assert.Error(t, err)

	_, err = NewValidatedUser(NewUser("ana", "", "Ana", "secretpassword"))
	assert.Error(t, err)

	_, err = NewValidatedUser(NewUser("ana", "a@example.com", "Ana", ""))
	assert.Error(t, err)

	validated, err := NewValidatedUser(NewUser("ana", "a@example.com", "Ana", "secretpassword"))
	require.NoError(t, err)
	assert.Equal(t, "ana", validated.GetUser().Username)
}
