package boost

import (
	"math"
	"time"
)

const (
	// DecayWindow is fixed and does not depend on the coupon kind that started the boost.
	DecayWindow = 10 * time.Hour
	MinItemAge  = 24 * time.Hour
	Cooldown    = 24 * time.Hour
)

type State string

const (
	StateInactive State = "inactive"
	StateActive   State = "active"
	StateExpired  State = "expired"
)

func (s State) String() string {
	return string(s)
}

// Boost is the promotional state of one content item. The zero value is an item
// that has never been boosted.
type Boost struct {
	initial     float64
	activatedAt *time.Time
	expiresAt   *time.Time
	kind        *Kind
}

func None() Boost {
	return Boost{}
}

func Reconstruct(initial float64, activatedAt, expiresAt *time.Time, kind *Kind) Boost {
	if initial < 0 {
		initial = 0
	}
	return Boost{
		initial:     initial,
		activatedAt: copyTime(activatedAt),
		expiresAt:   copyTime(expiresAt),
		kind:        kind,
	}
}

// Activate starts a new decay window at now, replacing any previous activation.
func (b Boost) Activate(initial float64, kind Kind, now time.Time) Boost {
	if initial < 0 {
		initial = 0
	}
	activated := now
	expires := now.Add(DecayWindow)
	k := kind
	return Boost{
		initial:     initial,
		activatedAt: &activated,
		expiresAt:   &expires,
		kind:        &k,
	}
}

func (b Boost) State(now time.Time) State {
	if b.activatedAt == nil {
		return StateInactive
	}
	if b.expiresAt != nil && now.Before(*b.expiresAt) {
		return StateActive
	}
	return StateExpired
}

func (b Boost) IsActive(now time.Time) bool {
	return b.State(now) == StateActive
}

func (b Boost) EverActivated() bool {
	return b.activatedAt != nil
}

// Contribution is the decayed boost term at now, rounded to one decimal place.
// Elapsed time is measured from the last activation, or from createdAt when the
// item was never boosted; the two are never combined.
func (b Boost) Contribution(createdAt, now time.Time) float64 {
	start := createdAt
	if b.activatedAt != nil {
		start = *b.activatedAt
	}
	return Round1(b.initial * DecayFactor(now.Sub(start)))
}

// DecayFactor falls linearly from 1 to 0 across DecayWindow and stays 0 afterwards.
func DecayFactor(elapsed time.Duration) float64 {
	hours := elapsed.Hours()
	if hours < 0 {
		hours = 0
	}
	return math.Max(0, 1-hours/DecayWindow.Hours())
}

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (b Boost) Initial() float64        { return b.initial }
func (b Boost) ActivatedAt() *time.Time { return copyTime(b.activatedAt) }
func (b Boost) ExpiresAt() *time.Time   { return copyTime(b.expiresAt) }
func (b Boost) Kind() *Kind             { return b.kind }

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
