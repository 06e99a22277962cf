package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/account-service/internal/domain"
)

// MemoryUserRepository keeps accounts in process memory. It backs local development when
// no Postgres DSN is configured and doubles as a fake in tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewMemoryUserRepository returns an empty in-memory repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

// Insert stores a copy of user, assigning an ID when missing.
func (r *MemoryUserRepository) Insert(_ context.Context, user *domain.User) error {
	if user == nil {
		return fmt.Errorf("insert: user required")
	}
	if !user.SoftDeletedConsistent() {
		return fmt.Errorf("insert user %s: deleted flag and deleted_at must be set together", user.ID)
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Status == "" {
		user.Status = domain.UserStatusActive
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = cloneUser(*user)
	return nil
}

// Get returns a copy of the stored user.
func (r *MemoryUserRepository) Get(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := cloneUser(user)
	return &out, nil
}

// Len reports how many users are stored.
func (r *MemoryUserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func (r *MemoryUserRepository) FindEligibleForAnonymization(_ context.Context, threshold time.Time) ([]domain.User, error) {
	out := r.filter(func(u domain.User) bool { return u.InactiveSince(threshold) })
	sort.Slice(out, func(i, j int) bool { return out[i].LastActivityAt.Before(out[j].LastActivityAt) })
	return out, nil
}

func (r *MemoryUserRepository) FindEligibleForPurge(_ context.Context, threshold time.Time) ([]domain.User, error) {
	out := r.filter(func(u domain.User) bool { return u.PurgeableSince(threshold) })
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.Before(*out[j].DeletedAt) })
	return out, nil
}

func (r *MemoryUserRepository) AnonymizeAndMark(_ context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return fmt.Errorf("anonymize: user id required")
	}
	if !user.Deleted || user.DeletedAt == nil {
		return fmt.Errorf("anonymize user %s: soft-delete marker missing", user.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok || stored.Deleted {
		return domain.ErrUserNotFound
	}
	deletedAt := *user.DeletedAt
	stored.Name = user.Name
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.Status = user.Status
	stored.Deleted = true
	stored.DeletedAt = &deletedAt
	stored.UpdatedAt = deletedAt
	r.users[user.ID] = stored
	return nil
}

func (r *MemoryUserRepository) DeletePermanently(_ context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return fmt.Errorf("delete: user id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok || !stored.Deleted {
		return domain.ErrUserNotFound
	}
	delete(r.users, user.ID)
	return nil
}

func (r *MemoryUserRepository) CountActive(_ context.Context) (int64, error) {
	return r.count(func(u domain.User) bool { return !u.Deleted }), nil
}

func (r *MemoryUserRepository) CountSoftDeleted(_ context.Context) (int64, error) {
	return r.count(func(u domain.User) bool { return u.Deleted }), nil
}

func (r *MemoryUserRepository) CountEligibleForAnonymization(_ context.Context, threshold time.Time) (int64, error) {
	return r.count(func(u domain.User) bool { return u.InactiveSince(threshold) }), nil
}

func (r *MemoryUserRepository) CountEligibleForPurge(_ context.Context, threshold time.Time) (int64, error) {
	return r.count(func(u domain.User) bool { return u.PurgeableSince(threshold) }), nil
}

func (r *MemoryUserRepository) filter(match func(domain.User) bool) []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0)
	for _, u := range r.users {
		if match(u) {
			out = append(out, cloneUser(u))
		}
	}
	return out
}

func (r *MemoryUserRepository) count(match func(domain.User) bool) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, u := range r.users {
		if match(u) {
			n++
		}
	}
	return n
}

func cloneUser(u domain.User) domain.User {
	if u.DeletedAt != nil {
		at := *u.DeletedAt
		u.DeletedAt = &at
	}
	return u
}

var _ UserRepository = (*MemoryUserRepository)(nil)
