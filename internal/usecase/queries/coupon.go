package queries

import (
	"context"

	"popularity-engine/internal/pkg/clock"
	"popularity-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=coupon.go -destination=../../../tests/mock/queries/coupon_mock.go -package=queriesmock
type CouponQueries interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*CouponView, error)
}

type couponQueriesImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewCouponQueries(uow shared.UnitOfWork, clk clock.Clock) CouponQueries {
	return &couponQueriesImpl{uow: uow, clock: clk}
}

func (q *couponQueriesImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*CouponView, error) {
	now := q.clock.Now()
	views := []*CouponView{}
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		coupons, err := tx.Coupons().ListByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		views = views[:0]
		for _, c := range coupons {
			views = append(views, toCouponView(c, now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
