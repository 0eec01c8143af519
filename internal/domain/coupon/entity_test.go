//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/coupon"
	"popularity-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	now := builder.BaseTime
	owner := uuid.New()

	t.Run("expiry follows the kind's shelf life", func(t *testing.T) {
		cases := []struct {
			kind    coupon.Kind
			expires *time.Time
		}{
			{kind: boost.Kind7Day, expires: ptr(now.Add(7 * 24 * time.Hour))},
			{kind: boost.Kind30Day, expires: ptr(now.Add(30 * 24 * time.Hour))},
			{kind: boost.KindRare, expires: nil},
		}
		for _, tc := range cases {
			t.Run(tc.kind.String(), func(t *testing.T) {
				c, err := coupon.Issue(owner, tc.kind, coupon.SourcePurchase, now)
				require.NoError(t, err)
				assert.Equal(t, tc.expires, c.ExpiresAt())
				assert.False(t, c.Redeemed())
				assert.Equal(t, coupon.SourcePurchase, c.Source())
			})
		}
	})

	t.Run("source defaults to grant", func(t *testing.T) {
		c, err := coupon.Issue(owner, boost.KindRare, "", now)
		require.NoError(t, err)
		assert.Equal(t, coupon.SourceGrant, c.Source())
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := coupon.Issue(uuid.Nil, boost.Kind7Day, "", now)
		assert.ErrorIs(t, err, coupon.ErrMissingOwner)

		_, err = coupon.Issue(owner, coupon.Kind("1day"), "", now)
		assert.ErrorIs(t, err, boost.ErrInvalidKind)

		_, err = coupon.ParseSource("gift")
		assert.ErrorIs(t, err, coupon.ErrInvalidSource)
	})
}

func TestValidateRedemption(t *testing.T) {
	owner := uuid.New()
	issued := builder.BaseTime

	cases := []struct {
		name   string
		build  *builder.CouponBuilder
		caller uuid.UUID
		at     time.Time
		errIs  error
	}{
		{name: "valid", build: builder.NewCouponBuilder().WithOwner(owner).IssuedAtTime(issued), caller: owner, at: issued.Add(time.Hour)},
		{name: "other owner", build: builder.NewCouponBuilder().IssuedAtTime(issued), caller: owner, at: issued, errIs: coupon.ErrNotOwner},
		{name: "already redeemed", build: builder.NewCouponBuilder().WithOwner(owner).AsRedeemed(), caller: owner, at: issued, errIs: coupon.ErrAlreadyRedeemed},
		{name: "expired at the boundary", build: builder.NewCouponBuilder().WithOwner(owner).IssuedAtTime(issued), caller: owner, at: issued.Add(7 * 24 * time.Hour), errIs: coupon.ErrCouponExpired},
		{name: "rare never expires", build: builder.NewCouponBuilder().WithOwner(owner).WithKind(boost.KindRare).IssuedAtTime(issued), caller: owner, at: issued.Add(5 * 365 * 24 * time.Hour)},
		{
			name:   "redeemed is reported before expired",
			build:  builder.NewCouponBuilder().WithOwner(owner).IssuedAtTime(issued).AsRedeemed(),
			caller: owner,
			at:     issued.Add(60 * 24 * time.Hour),
			errIs:  coupon.ErrAlreadyRedeemed,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.build.BuildDomain().ValidateRedemption(tc.caller, tc.at)
			if tc.errIs == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestMarkRedeemed(t *testing.T) {
	c := builder.NewCouponBuilder().BuildDomain()
	itemID := uuid.New()
	at := builder.BaseTime

	require.NoError(t, c.MarkRedeemed(itemID, content.KindVideo, at))
	assert.True(t, c.Redeemed())
	assert.Equal(t, &at, c.RedeemedAt())
	assert.Equal(t, &itemID, c.RedeemedOnItemID())
	require.NotNil(t, c.RedeemedOnItemKind())
	assert.Equal(t, content.KindVideo, *c.RedeemedOnItemKind())

	assert.ErrorIs(t, c.MarkRedeemed(uuid.New(), content.KindImage, at), coupon.ErrAlreadyRedeemed)
	assert.Equal(t, &itemID, c.RedeemedOnItemID())
}

func ptr[T any](v T) *T {
	return &v
}
