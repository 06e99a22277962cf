package retention

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/account-service/internal/domain"
)

const (
	AnonymizedName        = "Anonymized User"
	AnonymizedEmailDomain = "deleted.local"
)

// Anonymize returns a copy of user with identity fields replaced and the soft-delete
// pair set to at. The email placeholder uses a fresh random token rather than the
// account ID, and the password hash is a bcrypt hash of discarded random bytes, so no
// credential can ever match it.
func Anonymize(user domain.User, at time.Time) (domain.User, error) {
	token, err := uuid.NewRandom()
	if err != nil {
		return domain.User{}, fmt.Errorf("generate placeholder: %w", err)
	}
	hash, err := unusablePasswordHash()
	if err != nil {
		return domain.User{}, err
	}

	deletedAt := at
	user.Name = AnonymizedName
	user.Email = fmt.Sprintf("anonymized_%s@%s", token.String(), AnonymizedEmailDomain)
	user.PasswordHash = hash
	user.Status = domain.UserStatusAnonymized
	user.Deleted = true
	user.DeletedAt = &deletedAt
	return user, nil
}

func unusablePasswordHash() (string, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword(secret, bcrypt.MinCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}
