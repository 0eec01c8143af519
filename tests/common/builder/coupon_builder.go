//go:build unit || e2e

package builder

import (
	"time"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/coupon"
	"popularity-engine/internal/handler/dto/request"
	"popularity-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type CouponBuilder struct {
	ID       uuid.UUID
	OwnerID  uuid.UUID
	Kind     coupon.Kind
	Source   coupon.Source
	IssuedAt time.Time
	Redeemed bool
}

func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		Kind:     boost.Kind7Day,
		Source:   coupon.SourceGrant,
		IssuedAt: BaseTime.Add(-time.Hour),
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

// BuildDomain derives expiresAt from the kind's shelf life, like Issue does.
func (b *CouponBuilder) BuildDomain() *coupon.Coupon {
	var expiresAt *time.Time
	if life, ok := b.Kind.ShelfLife(); ok {
		t := b.IssuedAt.Add(life)
		expiresAt = &t
	}
	var (
		redeemedAt *time.Time
		itemID     *uuid.UUID
		itemKind   *content.Kind
	)
	if b.Redeemed {
		at := b.IssuedAt.Add(time.Minute)
		id := uuid.New()
		k := content.KindImage
		redeemedAt, itemID, itemKind = &at, &id, &k
	}
	return coupon.Reconstruct(b.ID, b.OwnerID, b.Kind, b.Source, b.IssuedAt, expiresAt, b.Redeemed, redeemedAt, itemID, itemKind)
}

func (b *CouponBuilder) BuildView() *queries.CouponView {
	c := b.BuildDomain()
	return &queries.CouponView{
		ID:        c.ID(),
		Kind:      c.Kind().String(),
		Source:    string(c.Source()),
		IssuedAt:  c.IssuedAt(),
		ExpiresAt: c.ExpiresAt(),
		Redeemed:  c.Redeemed(),
	}
}

func (b *CouponBuilder) BuildIssueRequestDTO() request.IssueCouponRequest {
	return request.IssueCouponRequest{
		OwnerID: b.OwnerID,
		Kind:    b.Kind.String(),
		Source:  string(b.Source),
	}
}

func BuildRedeemRequestDTO(itemID uuid.UUID, kind content.Kind) request.RedeemCouponRequest {
	return request.RedeemCouponRequest{ItemID: itemID, ItemKind: kind.String()}
}

// Fluent builder methods
func (b *CouponBuilder) WithOwner(ownerID uuid.UUID) *CouponBuilder {
	b.OwnerID = ownerID
	return b
}

func (b *CouponBuilder) WithKind(kind coupon.Kind) *CouponBuilder {
	b.Kind = kind
	return b
}

func (b *CouponBuilder) IssuedAtTime(t time.Time) *CouponBuilder {
	b.IssuedAt = t
	return b
}

func (b *CouponBuilder) AsRedeemed() *CouponBuilder {
	b.Redeemed = true
	return b
}
