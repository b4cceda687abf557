package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authservice/pkg/validator"
)

func TestStringRules(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.Required("name", "x").Check())
	assert.False(t, validator.Required("name", "   ").Check())

	// Multi-byte characters count once.
	assert.True(t, validator.MaxLen("name", "Zoë", 3).Check())
	assert.True(t, validator.MinLen("name", "日本語", 3).Check())
	assert.False(t, validator.MinLen("name", "ab", 3).Check())
	assert.False(t, validator.MaxLen("name", "abcd", 3).Check())

	rule := validator.MaxLen("name", "abcd", 3)
	assert.Equal(t, "name", rule.Error.Field)
	assert.Equal(t, "validation.max_length", rule.Error.TranslationKey)
	assert.Equal(t, 3, rule.Error.TranslationValues["max"])
}

func TestBetween(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.Between("limit", 1, 1, 100).Check())
	assert.True(t, validator.Between("limit", 100, 1, 100).Check())
	assert.False(t, validator.Between("limit", 0, 1, 100).Check())
	assert.False(t, validator.Between("limit", 101, 1, 100).Check())
	assert.True(t, validator.Between("ratio", 0.5, 0.0, 1.0).Check())
	assert.Equal(t, "must be between 1 and 100", validator.Between("limit", 0, 1, 100).Error.Message)
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		valid bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"", false},
		{"   ", false},
		{"plainaddress", false},
		{"@example.com", false},
		{"user@localhost", false},
		{"user@example..com", false},
		{"user@.example.com", false},
		{"Bob <bob@example.com>", false},
		{"user@@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, validator.ValidEmail("email", tt.email).Check())
		})
	}
}

func TestStrongPassword(t *testing.T) {
	t.Parallel()

	policy := validator.DefaultPasswordPolicy()
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"letters and digits", "correct7horse", true},
		{"upper and lower", "CorrectHorse", true},
		{"passphrase with symbol", "correct horse battery!", true},
		{"too short", "Ab1!", false},
		{"single class", "correcthorse", false},
		{"digits only", "1234567890", false},
		{"too long", strings.Repeat("aB", 65), false},
		{"max length", strings.Repeat("aB", 64), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, validator.StrongPassword("password", tt.password, policy).Check())
		})
	}
}

func TestNotCommonPassword(t *testing.T) {
	t.Parallel()

	assert.False(t, validator.NotCommonPassword("password", "Password123").Check())
	assert.False(t, validator.NotCommonPassword("password", "QWERTY123").Check())
	assert.True(t, validator.NotCommonPassword("password", "v9#Lq2!pZ").Check())
}
