package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/account-service/internal/domain"
)

func newMockRepo(t *testing.T) (UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewUserRepository(mock), mock
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "email", "password_hash", "status",
		"last_activity_at", "deleted", "deleted_at", "created_at", "updated_at",
	})
}

func TestUserRepository_FindEligibleForAnonymization(t *testing.T) {
	now := time.Date(2026, 10, 16, 2, 0, 0, 0, time.UTC)
	threshold := now.AddDate(0, 0, -1095)
	lastSeen := threshold.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantLen int
		wantErr bool
	}{
		{
			name: "returns active users inactive before threshold",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := userRows().AddRow("u-1", "Ada", "ada@example.com", "hash", domain.UserStatusActive,
					lastSeen, false, (*time.Time)(nil), lastSeen, lastSeen)
				mock.ExpectQuery(`SELECT .* FROM users WHERE \(deleted = \$1 AND last_activity_at < \$2\)`).
					WithArgs(false, threshold).
					WillReturnRows(rows)
			},
			wantLen: 1,
		},
		{
			name: "empty result",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .* FROM users`).
					WithArgs(false, threshold).
					WillReturnRows(userRows())
			},
			wantLen: 0,
		},
		{
			name: "query failure",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .* FROM users`).
					WithArgs(false, threshold).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			tt.setup(mock)

			users, err := repo.FindEligibleForAnonymization(context.Background(), threshold)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, users, tt.wantLen)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_FindEligibleForPurge(t *testing.T) {
	now := time.Date(2026, 10, 16, 2, 0, 0, 0, time.UTC)
	threshold := now.AddDate(0, 0, -30)
	deletedAt := threshold.Add(-time.Hour)

	repo, mock := newMockRepo(t)
	rows := userRows().AddRow("u-2", "Anonymized User", "anonymized_x@deleted.local", "hash", domain.UserStatusAnonymized,
		deletedAt, true, &deletedAt, deletedAt, deletedAt)
	mock.ExpectQuery(`SELECT .* FROM users WHERE \(deleted = \$1 AND deleted_at < \$2\)`).
		WithArgs(true, threshold).
		WillReturnRows(rows)

	users, err := repo.FindEligibleForPurge(context.Background(), threshold)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u-2", users[0].ID)
	assert.True(t, users[0].Deleted)
	require.NotNil(t, users[0].DeletedAt)
	assert.True(t, users[0].DeletedAt.Equal(deletedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_AnonymizeAndMark(t *testing.T) {
	deletedAt := time.Date(2026, 10, 16, 2, 0, 0, 0, time.UTC)
	anonymized := &domain.User{
		ID:           "u-1",
		Name:         "Anonymized User",
		Email:        "anonymized_abc@deleted.local",
		PasswordHash: "$2a$04$unusable",
		Status:       domain.UserStatusAnonymized,
		Deleted:      true,
		DeletedAt:    &deletedAt,
	}

	tests := []struct {
		name    string
		user    *domain.User
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
		anyErr  bool
	}{
		{
			name: "updates active row",
			user: anonymized,
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users SET .* WHERE deleted = \$7 AND id = \$8`).
					WithArgs(anonymized.Name, anonymized.Email, anonymized.PasswordHash, anonymized.Status,
						true, deletedAt, false, "u-1").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "row no longer active",
			user: anonymized,
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name:   "missing soft-delete marker",
			user:   &domain.User{ID: "u-1", Name: "Anonymized User"},
			setup:  func(mock pgxmock.PgxPoolIface) {},
			anyErr: true,
		},
		{
			name:   "nil user",
			user:   nil,
			setup:  func(mock pgxmock.PgxPoolIface) {},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			tt.setup(mock)

			err := repo.AnonymizeAndMark(context.Background(), tt.user)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_DeletePermanently(t *testing.T) {
	user := &domain.User{ID: "u-9"}

	t.Run("deletes soft-deleted row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`DELETE FROM users WHERE deleted = \$1 AND id = \$2`).
			WithArgs(true, "u-9").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.DeletePermanently(context.Background(), user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already gone", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`DELETE FROM users`).
			WithArgs(true, "u-9").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.DeletePermanently(context.Background(), user), domain.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Counts(t *testing.T) {
	threshold := time.Date(2023, 10, 16, 2, 0, 0, 0, time.UTC)

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE deleted = \$1`).
		WithArgs(false).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE deleted = \$1`).
		WithArgs(true).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE \(deleted = \$1 AND last_activity_at < \$2\)`).
		WithArgs(false, threshold).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	ctx := context.Background()
	active, err := repo.CountActive(ctx)
	require.NoError(t, err)
	deleted, err := repo.CountSoftDeleted(ctx)
	require.NoError(t, err)
	eligible, err := repo.CountEligibleForAnonymization(ctx, threshold)
	require.NoError(t, err)

	assert.Equal(t, int64(12), active)
	assert.Equal(t, int64(3), deleted)
	assert.Equal(t, int64(2), eligible)
	assert.NoError(t, mock.ExpectationsWereMet())
}
