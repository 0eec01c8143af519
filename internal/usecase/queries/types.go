package queries

import (
	"math"
	"time"

	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/coupon"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// ValidatePage normalizes a 1-based page number and page size. Page is capped so that
// (page-1)*pageSize+pageSize stays within int; any page that high is past the end anyway.
func ValidatePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if last := math.MaxInt / pageSize; page > last {
		page = last
	}
	return page, pageSize
}

type BoostView struct {
	State        string     `json:"state"`
	Initial      float64    `json:"initial"`
	Kind         *string    `json:"kind,omitempty"`
	ActivatedAt  *time.Time `json:"activated_at,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Contribution float64    `json:"contribution"`
}

type PopularItemView struct {
	Rank              int       `json:"rank"`
	ID                uuid.UUID `json:"id"`
	Kind              string    `json:"kind"`
	OwnerID           uuid.UUID `json:"owner_id"`
	CreatedAt         time.Time `json:"created_at"`
	Score             float64   `json:"score"`
	Clicks            int       `json:"clicks"`
	LikesCount        int       `json:"likes_count"`
	Views             int       `json:"views"`
	CompletenessScore int       `json:"completeness_score"`
	Boost             BoostView `json:"boost"`
}

type PopularPage struct {
	Kind     string             `json:"kind"`
	Mode     string             `json:"mode"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Total    int                `json:"total"`
	Items    []*PopularItemView `json:"items"`
}

type ItemScoreView struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	LiveScore   float64   `json:"live_score"`
	StoredScore float64   `json:"stored_score"`
	// InSync is false when the stored score is stale relative to decay at request time.
	InSync bool      `json:"in_sync"`
	Boost  BoostView `json:"boost"`
	At     time.Time `json:"at"`
}

type CouponView struct {
	ID                 uuid.UUID  `json:"id"`
	Kind               string     `json:"kind"`
	Source             string     `json:"source"`
	IssuedAt           time.Time  `json:"issued_at"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	Redeemed           bool       `json:"redeemed"`
	Expired            bool       `json:"expired"`
	RedeemedAt         *time.Time `json:"redeemed_at,omitempty"`
	RedeemedOnItemID   *uuid.UUID `json:"redeemed_on_item_id,omitempty"`
	RedeemedOnItemKind *string    `json:"redeemed_on_item_kind,omitempty"`
}

func toBoostView(item *content.Item, now time.Time) BoostView {
	b := item.Boost()
	v := BoostView{
		State:        b.State(now).String(),
		Initial:      b.Initial(),
		ActivatedAt:  b.ActivatedAt(),
		ExpiresAt:    b.ExpiresAt(),
		Contribution: b.Contribution(item.CreatedAt(), now),
	}
	if k := b.Kind(); k != nil {
		s := k.String()
		v.Kind = &s
	}
	return v
}

func toCouponView(c *coupon.Coupon, now time.Time) *CouponView {
	v := &CouponView{
		ID:               c.ID(),
		Kind:             c.Kind().String(),
		Source:           string(c.Source()),
		IssuedAt:         c.IssuedAt(),
		ExpiresAt:        c.ExpiresAt(),
		Redeemed:         c.Redeemed(),
		Expired:          c.IsExpiredAt(now),
		RedeemedAt:       c.RedeemedAt(),
		RedeemedOnItemID: c.RedeemedOnItemID(),
	}
	if k := c.RedeemedOnItemKind(); k != nil {
		s := k.String()
		v.RedeemedOnItemKind = &s
	}
	return v
}
