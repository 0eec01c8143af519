package response

import (
	"popularity-engine/internal/domain/coupon"
	"popularity-engine/internal/usecase/commands"
	"popularity-engine/internal/usecase/queries"
)

type CouponResponse struct {
	ID                 string  `json:"id"`
	OwnerID            string  `json:"owner_id,omitempty"`
	Kind               string  `json:"kind"`
	Source             string  `json:"source"`
	IssuedAt           int64   `json:"issued_at"`
	ExpiresAt          *int64  `json:"expires_at,omitempty"`
	Redeemed           bool    `json:"redeemed"`
	Expired            bool    `json:"expired"`
	RedeemedAt         *int64  `json:"redeemed_at,omitempty"`
	RedeemedOnItemID   *string `json:"redeemed_on_item_id,omitempty"`
	RedeemedOnItemKind *string `json:"redeemed_on_item_kind,omitempty"`
}

func FromCouponView(v *queries.CouponView) *CouponResponse {
	res := &CouponResponse{
		ID:                 v.ID.String(),
		Kind:               v.Kind,
		Source:             v.Source,
		IssuedAt:           v.IssuedAt.Unix(),
		ExpiresAt:          unixPtr(v.ExpiresAt),
		Redeemed:           v.Redeemed,
		Expired:            v.Expired,
		RedeemedAt:         unixPtr(v.RedeemedAt),
		RedeemedOnItemKind: v.RedeemedOnItemKind,
	}
	if v.RedeemedOnItemID != nil {
		s := v.RedeemedOnItemID.String()
		res.RedeemedOnItemID = &s
	}
	return res
}

func FromIssuedCoupon(c *coupon.Coupon) *CouponResponse {
	return &CouponResponse{
		ID:        c.ID().String(),
		OwnerID:   c.OwnerID().String(),
		Kind:      c.Kind().String(),
		Source:    string(c.Source()),
		IssuedAt:  c.IssuedAt().Unix(),
		ExpiresAt: unixPtr(c.ExpiresAt()),
	}
}

func FromCouponList(views []*queries.CouponView) []*CouponResponse {
	res := make([]*CouponResponse, len(views))
	for i, v := range views {
		res[i] = FromCouponView(v)
	}
	return res
}

type RedemptionResponse struct {
	Outcome          string  `json:"outcome"`
	CouponID         string  `json:"coupon_id"`
	ItemID           string  `json:"item_id"`
	ItemKind         string  `json:"item_kind"`
	InitialBoost     float64 `json:"initial_boost"`
	StoredScore      float64 `json:"stored_score"`
	BoostActivatedAt *int64  `json:"boost_activated_at,omitempty"`
	BoostExpiresAt   *int64  `json:"boost_expires_at,omitempty"`
}

func FromRedemption(r *commands.RedemptionResult) *RedemptionResponse {
	b := r.Item.Boost()
	return &RedemptionResponse{
		Outcome:          string(r.Outcome),
		CouponID:         r.Coupon.ID().String(),
		ItemID:           r.Item.ID().String(),
		ItemKind:         r.Item.Kind().String(),
		InitialBoost:     r.InitialBoost,
		StoredScore:      r.Item.StoredScore(),
		BoostActivatedAt: unixPtr(b.ActivatedAt()),
		BoostExpiresAt:   unixPtr(b.ExpiresAt()),
	}
}

type RecomputeResponse struct {
	Kind       string `json:"kind"`
	Scanned    int    `json:"scanned"`
	Rewritten  int    `json:"rewritten"`
	DurationMs int64  `json:"duration_ms"`
}

func FromRecompute(r *commands.RecomputeResult) *RecomputeResponse {
	return &RecomputeResponse{
		Kind:       r.Kind.String(),
		Scanned:    r.Scanned,
		Rewritten:  r.Rewritten,
		DurationMs: r.Duration.Milliseconds(),
	}
}
