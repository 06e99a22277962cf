package retention

import (
	"context"
	"time"

	"github.com/spec-kit/account-service/internal/domain"
)

// RecordStore is the account storage the lifecycle engine and status reporter work
// against. Mutations return domain.ErrUserNotFound when the record no longer matches the
// state the mutation requires.
type RecordStore interface {
	FindEligibleForAnonymization(ctx context.Context, threshold time.Time) ([]domain.User, error)
	FindEligibleForPurge(ctx context.Context, threshold time.Time) ([]domain.User, error)
	AnonymizeAndMark(ctx context.Context, user *domain.User) error
	DeletePermanently(ctx context.Context, user *domain.User) error
	CountActive(ctx context.Context) (int64, error)
	CountSoftDeleted(ctx context.Context) (int64, error)
	CountEligibleForAnonymization(ctx context.Context, threshold time.Time) (int64, error)
	CountEligibleForPurge(ctx context.Context, threshold time.Time) (int64, error)
}
