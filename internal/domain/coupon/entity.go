package coupon

import (
	"time"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrCouponExpired   = errs.New("coupon has expired")
	ErrAlreadyRedeemed = errs.New("coupon has already been redeemed")
	ErrNotOwner        = errs.New("coupon belongs to another user")
	ErrInvalidSource   = errs.New("invalid coupon source")
	ErrMissingOwner    = errs.New("coupon owner is required")
)

// Kind aliases the boost kind: a coupon's type is exactly the boost type it starts.
type Kind = boost.Kind

type Source string

const (
	SourcePurchase Source = "purchase"
	SourceGrant    Source = "grant"
)

func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourcePurchase, SourceGrant:
		return Source(s), nil
	case "":
		return SourceGrant, nil
	default:
		return "", ErrInvalidSource
	}
}

// Coupon is a single-use power coupon. After redemption only observational fields
// (redeemedAt and the target item) are set; nothing else changes and it is never deleted.
type Coupon struct {
	id                 uuid.UUID
	ownerID            uuid.UUID
	kind               Kind
	source             Source
	issuedAt           time.Time
	expiresAt          *time.Time
	redeemed           bool
	redeemedAt         *time.Time
	redeemedOnItemID   *uuid.UUID
	redeemedOnItemKind *content.Kind
}

func Issue(ownerID uuid.UUID, kind Kind, source Source, now time.Time) (*Coupon, error) {
	if ownerID == uuid.Nil {
		return nil, ErrMissingOwner
	}
	if !kind.IsValid() {
		return nil, boost.ErrInvalidKind
	}
	if source == "" {
		source = SourceGrant
	}

	var expiresAt *time.Time
	if life, ok := kind.ShelfLife(); ok {
		t := now.Add(life)
		expiresAt = &t
	}

	return &Coupon{
		id:        uuid.New(),
		ownerID:   ownerID,
		kind:      kind,
		source:    source,
		issuedAt:  now,
		expiresAt: expiresAt,
	}, nil
}

func Reconstruct(
	id, ownerID uuid.UUID,
	kind Kind,
	source Source,
	issuedAt time.Time,
	expiresAt *time.Time,
	redeemed bool,
	redeemedAt *time.Time,
	redeemedOnItemID *uuid.UUID,
	redeemedOnItemKind *content.Kind,
) *Coupon {
	return &Coupon{
		id:                 id,
		ownerID:            ownerID,
		kind:               kind,
		source:             source,
		issuedAt:           issuedAt,
		expiresAt:          expiresAt,
		redeemed:           redeemed,
		redeemedAt:         redeemedAt,
		redeemedOnItemID:   redeemedOnItemID,
		redeemedOnItemKind: redeemedOnItemKind,
	}
}

// IsExpiredAt treats the expiry instant itself as expired.
func (c *Coupon) IsExpiredAt(t time.Time) bool {
	return c.expiresAt != nil && !t.Before(*c.expiresAt)
}

// ValidateRedemption checks ownership, single use and expiry, in that order.
func (c *Coupon) ValidateRedemption(ownerID uuid.UUID, now time.Time) error {
	if c.ownerID != ownerID {
		return ErrNotOwner
	}
	if c.redeemed {
		return ErrAlreadyRedeemed
	}
	if c.IsExpiredAt(now) {
		return ErrCouponExpired
	}
	return nil
}

func (c *Coupon) MarkRedeemed(itemID uuid.UUID, itemKind content.Kind, now time.Time) error {
	if c.redeemed {
		return ErrAlreadyRedeemed
	}
	at := now
	id := itemID
	k := itemKind
	c.redeemed = true
	c.redeemedAt = &at
	c.redeemedOnItemID = &id
	c.redeemedOnItemKind = &k
	return nil
}

func (c *Coupon) Clone() *Coupon {
	cp := *c
	return &cp
}

func (c *Coupon) ID() uuid.UUID                     { return c.id }
func (c *Coupon) OwnerID() uuid.UUID                { return c.ownerID }
func (c *Coupon) Kind() Kind                        { return c.kind }
func (c *Coupon) Source() Source                    { return c.source }
func (c *Coupon) IssuedAt() time.Time               { return c.issuedAt }
func (c *Coupon) ExpiresAt() *time.Time             { return c.expiresAt }
func (c *Coupon) Redeemed() bool                    { return c.redeemed }
func (c *Coupon) RedeemedAt() *time.Time            { return c.redeemedAt }
func (c *Coupon) RedeemedOnItemID() *uuid.UUID      { return c.redeemedOnItemID }
func (c *Coupon) RedeemedOnItemKind() *content.Kind { return c.redeemedOnItemKind }
