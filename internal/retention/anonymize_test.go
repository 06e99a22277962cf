package retention

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/account-service/internal/domain"
)

var anonymizedEmailPattern = regexp.MustCompile(`^anonymized_[0-9a-f-]{36}@deleted\.local$`)

func TestAnonymize(t *testing.T) {
	at := time.Date(2026, 10, 16, 2, 0, 0, 0, time.UTC)
	original := domain.User{
		ID:             "user-123",
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		PasswordHash:   "$2a$12$originalhash",
		Status:         domain.UserStatusActive,
		LastActivityAt: at.AddDate(-4, 0, 0),
	}

	got, err := Anonymize(original, at)
	require.NoError(t, err)

	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, AnonymizedName, got.Name)
	assert.Regexp(t, anonymizedEmailPattern, got.Email)
	assert.NotContains(t, got.Email, original.ID)
	assert.NotEqual(t, original.PasswordHash, got.PasswordHash)
	assert.Equal(t, domain.UserStatusAnonymized, got.Status)
	assert.True(t, got.Deleted)
	require.NotNil(t, got.DeletedAt)
	assert.True(t, got.DeletedAt.Equal(at))
	assert.True(t, got.SoftDeletedConsistent())

	cost, err := bcrypt.Cost([]byte(got.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("")))

	assert.Equal(t, "ada@example.com", original.Email, "input must not be mutated")
}

func TestAnonymize_PlaceholdersAreUnlinkable(t *testing.T) {
	at := time.Now()
	user := domain.User{ID: "same-id", Email: "same@example.com"}

	first, err := Anonymize(user, at)
	require.NoError(t, err)
	second, err := Anonymize(user, at)
	require.NoError(t, err)

	assert.NotEqual(t, first.Email, second.Email)
	assert.NotEqual(t, first.PasswordHash, second.PasswordHash)
}
