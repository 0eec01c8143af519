package boost

import (
	"fmt"
	"time"

	"popularity-engine/internal/pkg/errs"
)

var (
	ErrItemTooYoung   = errs.New("item is too young to be boosted")
	ErrCooldownActive = errs.New("item was boosted too recently")
)

// WaitError reports an eligibility failure that resolves on its own after Remaining.
type WaitError struct {
	Reason    error
	Remaining time.Duration
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("%s: retry in %s", e.Reason.Error(), e.Remaining.Round(time.Second))
}

func (e *WaitError) Unwrap() error {
	return e.Reason
}

// CheckEligibility applies the age rule first and the cooldown rule second.
func (b Boost) CheckEligibility(createdAt, now time.Time) error {
	if age := now.Sub(createdAt); age < MinItemAge {
		return &WaitError{Reason: ErrItemTooYoung, Remaining: MinItemAge - age}
	}
	if b.activatedAt != nil {
		if since := now.Sub(*b.activatedAt); since < Cooldown {
			return &WaitError{Reason: ErrCooldownActive, Remaining: Cooldown - since}
		}
	}
	return nil
}
