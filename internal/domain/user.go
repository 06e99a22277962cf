package domain

import (
	"errors"
	"time"
)

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive     UserStatus = "ACTIVE"
	UserStatusAnonymized UserStatus = "ANONYMIZED"
)

// ErrUserNotFound is returned when a user row no longer exists or no longer matches
// the state a mutation expected.
var ErrUserNotFound = errors.New("user not found")

// User is the domain model for account holders.
//
// DeletedAt is set exactly when Deleted is true.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Status         UserStatus
	LastActivityAt time.Time
	Deleted        bool
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SoftDeletedConsistent reports whether the Deleted/DeletedAt pair is coherent.
func (u *User) SoftDeletedConsistent() bool {
	return u.Deleted == (u.DeletedAt != nil)
}

// InactiveSince reports whether the account is active and its last activity is strictly
// before threshold.
func (u *User) InactiveSince(threshold time.Time) bool {
	return !u.Deleted && u.LastActivityAt.Before(threshold)
}

// PurgeableSince reports whether the account was soft-deleted strictly before threshold.
func (u *User) PurgeableSince(threshold time.Time) bool {
	return u.Deleted && u.DeletedAt != nil && u.DeletedAt.Before(threshold)
}
