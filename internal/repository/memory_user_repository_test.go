package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/spec-kit/account-service/internal/domain"
)

type MemoryUserRepositorySuite struct {
	suite.Suite
	repo *MemoryUserRepository
	ctx  context.Context
	now  time.Time
}

func TestMemoryUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(MemoryUserRepositorySuite))
}

func (s *MemoryUserRepositorySuite) SetupTest() {
	s.repo = NewMemoryUserRepository()
	s.ctx = context.Background()
	s.now = time.Date(2026, 10, 16, 2, 0, 0, 0, time.UTC)
}

func (s *MemoryUserRepositorySuite) insert(u domain.User) domain.User {
	s.Require().NoError(s.repo.Insert(s.ctx, &u))
	return u
}

func (s *MemoryUserRepositorySuite) TestInsertEnforcesSoftDeleteInvariant() {
	s.Run("deleted without timestamp", func() {
		err := s.repo.Insert(s.ctx, &domain.User{Email: "a@example.com", Deleted: true})
		s.Error(err)
	})

	s.Run("timestamp without deleted flag", func() {
		at := s.now
		err := s.repo.Insert(s.ctx, &domain.User{Email: "b@example.com", DeletedAt: &at})
		s.Error(err)
	})

	s.Run("assigns id and status", func() {
		u := s.insert(domain.User{Email: "c@example.com", LastActivityAt: s.now})
		s.NotEmpty(u.ID)
		s.Equal(domain.UserStatusActive, u.Status)
	})
}

func (s *MemoryUserRepositorySuite) TestEligibilityUsesStrictComparison() {
	threshold := s.now.AddDate(0, 0, -10)
	onBoundary := s.insert(domain.User{Email: "edge@example.com", LastActivityAt: threshold})
	older := s.insert(domain.User{Email: "old@example.com", LastActivityAt: threshold.Add(-time.Nanosecond)})

	found, err := s.repo.FindEligibleForAnonymization(s.ctx, threshold)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(older.ID, found[0].ID)
	s.NotEqual(onBoundary.ID, found[0].ID)

	n, err := s.repo.CountEligibleForAnonymization(s.ctx, threshold)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *MemoryUserRepositorySuite) TestAnonymizeAndMarkIsConditional() {
	u := s.insert(domain.User{Email: "x@example.com", LastActivityAt: s.now.AddDate(-4, 0, 0)})
	at := s.now
	update := domain.User{ID: u.ID, Name: "Anonymized User", Email: "anon@deleted.local", Deleted: true, DeletedAt: &at}

	s.Require().NoError(s.repo.AnonymizeAndMark(s.ctx, &update))
	s.ErrorIs(s.repo.AnonymizeAndMark(s.ctx, &update), domain.ErrUserNotFound)

	stored, err := s.repo.Get(s.ctx, u.ID)
	s.Require().NoError(err)
	s.True(stored.Deleted)
	s.Equal("anon@deleted.local", stored.Email)
	s.True(stored.DeletedAt.Equal(at))
}

func (s *MemoryUserRepositorySuite) TestDeletePermanentlyOnlyRemovesSoftDeleted() {
	active := s.insert(domain.User{Email: "keep@example.com", LastActivityAt: s.now})
	at := s.now.AddDate(0, 0, -40)
	gone := s.insert(domain.User{Email: "gone@example.com", Deleted: true, DeletedAt: &at})

	s.ErrorIs(s.repo.DeletePermanently(s.ctx, &active), domain.ErrUserNotFound)
	s.Require().NoError(s.repo.DeletePermanently(s.ctx, &gone))

	_, err := s.repo.Get(s.ctx, gone.ID)
	s.ErrorIs(err, domain.ErrUserNotFound)
	s.Equal(1, s.repo.Len())
}

func (s *MemoryUserRepositorySuite) TestCounts() {
	at := s.now.AddDate(0, 0, -31)
	s.insert(domain.User{Email: "a@example.com", LastActivityAt: s.now})
	s.insert(domain.User{Email: "b@example.com", LastActivityAt: s.now.AddDate(-4, 0, 0)})
	s.insert(domain.User{Email: "c@example.com", Deleted: true, DeletedAt: &at})

	active, _ := s.repo.CountActive(s.ctx)
	deleted, _ := s.repo.CountSoftDeleted(s.ctx)
	purge, _ := s.repo.CountEligibleForPurge(s.ctx, s.now.AddDate(0, 0, -30))

	s.Equal(int64(2), active)
	s.Equal(int64(1), deleted)
	s.Equal(int64(1), purge)
}

func (s *MemoryUserRepositorySuite) TestReturnedUsersAreCopies() {
	at := s.now.AddDate(0, 0, -31)
	u := s.insert(domain.User{Email: "c@example.com", Deleted: true, DeletedAt: &at})

	found, err := s.repo.FindEligibleForPurge(s.ctx, s.now)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	*found[0].DeletedAt = s.now

	stored, err := s.repo.Get(s.ctx, u.ID)
	s.Require().NoError(err)
	s.True(stored.DeletedAt.Equal(at))
}
