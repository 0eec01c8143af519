package shared

import (
	"context"

	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/coupon"
	"popularity-engine/internal/domain/user"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Consistent snapshot for multi-query reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Items() ItemRepository
	Coupons() CouponRepository
	BoostUsages() BoostUsageRepository
	// LockOwner serializes redemptions of one owner until the transaction ends.
	LockOwner(ctx context.Context, ownerID uuid.UUID) error
}

type ItemRepository interface {
	Find(ctx context.Context, kind content.Kind, id uuid.UUID) (*content.Item, error)
	Save(ctx context.Context, item *content.Item) error
	// SaveScore persists only the derived columns (completeness and stored score). It is
	// skipped, returning false, when the item was re-boosted since it was loaded.
	SaveScore(ctx context.Context, item *content.Item) (bool, error)
	FindMaxStoredScore(ctx context.Context, kind content.Kind) (float64, error)
	ListByKind(ctx context.Context, kind content.Kind) ([]*content.Item, error)
	// ListPageByStoredScore pages items in stored-score order with the standard tie-break.
	ListPageByStoredScore(ctx context.Context, kind content.Kind, offset, limit int) ([]*content.Item, error)
	CountByKind(ctx context.Context, kind content.Kind) (int, error)
}

type CouponRepository interface {
	Find(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	Save(ctx context.Context, c *coupon.Coupon) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*coupon.Coupon, error)
}

type BoostUsageRepository interface {
	// Find returns an empty usage when the owner has none recorded.
	Find(ctx context.Context, ownerID uuid.UUID) (*user.BoostUsage, error)
	Save(ctx context.Context, usage *user.BoostUsage) error
}

// OwnerLocker provides per-owner mutual exclusion that spans processes when the
// backing store cannot lock on its own.
type OwnerLocker interface {
	Lock(ctx context.Context, ownerID uuid.UUID) (unlock func(), err error)
}
