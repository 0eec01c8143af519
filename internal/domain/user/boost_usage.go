package user

import (
	"time"

	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

// MaxActiveBoosts caps simultaneously boosted items per owner across all content kinds.
const MaxActiveBoosts = 3

var ErrBoostCapReached = errs.New("owner already has the maximum number of active boosts")

type ActiveBoost struct {
	ItemID    uuid.UUID
	Kind      content.Kind
	ExpiresAt time.Time
}

// BoostUsage is the owner's set of items currently under a boost they paid for.
type BoostUsage struct {
	ownerID uuid.UUID
	active  []ActiveBoost
}

func NewBoostUsage(ownerID uuid.UUID) *BoostUsage {
	return &BoostUsage{ownerID: ownerID}
}

func ReconstructBoostUsage(ownerID uuid.UUID, active []ActiveBoost) *BoostUsage {
	return &BoostUsage{ownerID: ownerID, active: append([]ActiveBoost(nil), active...)}
}

// Prune drops entries whose boost window has closed and returns how many were removed.
func (u *BoostUsage) Prune(now time.Time) int {
	kept := u.active[:0]
	for _, a := range u.active {
		if now.Before(a.ExpiresAt) {
			kept = append(kept, a)
		}
	}
	removed := len(u.active) - len(kept)
	u.active = kept
	return removed
}

func (u *BoostUsage) HasCapacity() bool {
	return len(u.active) < MaxActiveBoosts
}

func (u *BoostUsage) Contains(itemID uuid.UUID, kind content.Kind) bool {
	return u.indexOf(itemID, kind) >= 0
}

// Add records a boosted item. Any existing entry for the same item is replaced, so
// re-adding never duplicates.
func (u *BoostUsage) Add(itemID uuid.UUID, kind content.Kind, expiresAt time.Time) error {
	if i := u.indexOf(itemID, kind); i >= 0 {
		u.active = append(u.active[:i], u.active[i+1:]...)
	}
	if len(u.active) >= MaxActiveBoosts {
		return ErrBoostCapReached
	}
	u.active = append(u.active, ActiveBoost{ItemID: itemID, Kind: kind, ExpiresAt: expiresAt})
	return nil
}

func (u *BoostUsage) indexOf(itemID uuid.UUID, kind content.Kind) int {
	for i, a := range u.active {
		if a.ItemID == itemID && a.Kind == kind {
			return i
		}
	}
	return -1
}

func (u *BoostUsage) Clone() *BoostUsage {
	return ReconstructBoostUsage(u.ownerID, u.active)
}

func (u *BoostUsage) OwnerID() uuid.UUID { return u.ownerID }
func (u *BoostUsage) Count() int         { return len(u.active) }

func (u *BoostUsage) Active() []ActiveBoost {
	return append([]ActiveBoost(nil), u.active...)
}
