package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/account-service/internal/domain"
)

const usersTable = "users"

var userColumns = []string{
	"id", "name", "email", "password_hash", "status",
	"last_activity_at", "deleted", "deleted_at", "created_at", "updated_at",
}

// UserRepository defines the retention-facing persistence access for accounts.
type UserRepository interface {
	FindEligibleForAnonymization(ctx context.Context, threshold time.Time) ([]domain.User, error)
	FindEligibleForPurge(ctx context.Context, threshold time.Time) ([]domain.User, error)
	AnonymizeAndMark(ctx context.Context, user *domain.User) error
	DeletePermanently(ctx context.Context, user *domain.User) error
	CountActive(ctx context.Context) (int64, error)
	CountSoftDeleted(ctx context.Context) (int64, error)
	CountEligibleForAnonymization(ctx context.Context, threshold time.Time) (int64, error)
	CountEligibleForPurge(ctx context.Context, threshold time.Time) (int64, error)
}

type userRepository struct {
	db Querier
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db Querier) UserRepository {
	return &userRepository{db: db}
}

func inactiveSince(threshold time.Time) sq.And {
	return sq.And{sq.Eq{"deleted": false}, sq.Lt{"last_activity_at": threshold}}
}

func softDeletedBefore(threshold time.Time) sq.And {
	return sq.And{sq.Eq{"deleted": true}, sq.Lt{"deleted_at": threshold}}
}

func (r *userRepository) FindEligibleForAnonymization(ctx context.Context, threshold time.Time) ([]domain.User, error) {
	query := psql.Select(userColumns...).
		From(usersTable).
		Where(inactiveSince(threshold)).
		OrderBy("last_activity_at ASC")
	return r.list(ctx, query)
}

func (r *userRepository) FindEligibleForPurge(ctx context.Context, threshold time.Time) ([]domain.User, error) {
	query := psql.Select(userColumns...).
		From(usersTable).
		Where(softDeletedBefore(threshold)).
		OrderBy("deleted_at ASC")
	return r.list(ctx, query)
}

// AnonymizeAndMark persists the overwritten identity and the soft-delete pair. The update
// only applies while the row is still active, so a second call is a no-op.
func (r *userRepository) AnonymizeAndMark(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return fmt.Errorf("anonymize: user id required")
	}
	if !user.Deleted || user.DeletedAt == nil {
		return fmt.Errorf("anonymize user %s: soft-delete marker missing", user.ID)
	}

	query := psql.Update(usersTable).
		Set("name", user.Name).
		Set("email", user.Email).
		Set("password_hash", user.PasswordHash).
		Set("status", user.Status).
		Set("deleted", true).
		Set("deleted_at", *user.DeletedAt).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": user.ID, "deleted": false})

	return r.execOne(ctx, query)
}

// DeletePermanently removes a soft-deleted row. Active rows are never removed.
func (r *userRepository) DeletePermanently(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return fmt.Errorf("delete: user id required")
	}

	query := psql.Delete(usersTable).
		Where(sq.Eq{"id": user.ID, "deleted": true})

	return r.execOne(ctx, query)
}

func (r *userRepository) CountActive(ctx context.Context) (int64, error) {
	return r.count(ctx, sq.Eq{"deleted": false})
}

func (r *userRepository) CountSoftDeleted(ctx context.Context) (int64, error) {
	return r.count(ctx, sq.Eq{"deleted": true})
}

func (r *userRepository) CountEligibleForAnonymization(ctx context.Context, threshold time.Time) (int64, error) {
	return r.count(ctx, inactiveSince(threshold))
}

func (r *userRepository) CountEligibleForPurge(ctx context.Context, threshold time.Time) (int64, error) {
	return r.count(ctx, softDeletedBefore(threshold))
}

func (r *userRepository) list(ctx context.Context, query sq.SelectBuilder) ([]domain.User, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	return users, nil
}

func (r *userRepository) count(ctx context.Context, pred sq.Sqlizer) (int64, error) {
	sql, args, err := psql.Select("COUNT(*)").From(usersTable).Where(pred).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *userRepository) execOne(ctx context.Context, query sq.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	cmd, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.CollectableRow) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Status,
		&user.LastActivityAt,
		&user.Deleted,
		&user.DeletedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}
