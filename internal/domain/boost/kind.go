package boost

import (
	"time"

	"popularity-engine/internal/pkg/errs"
)

var ErrInvalidKind = errs.New("invalid boost kind")

// Kind is the coupon type that started a boost. It changes how long the coupon can sit
// unredeemed, never the decay window.
type Kind string

const (
	Kind7Day  Kind = "7day"
	Kind30Day Kind = "30day"
	KindRare  Kind = "rare"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case Kind7Day, Kind30Day, KindRare:
		return true
	default:
		return false
	}
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

// ShelfLife is how long an unredeemed coupon of this kind stays usable. ok is false
// for kinds that never expire.
func (k Kind) ShelfLife() (d time.Duration, ok bool) {
	switch k {
	case Kind7Day:
		return 7 * 24 * time.Hour, true
	case Kind30Day:
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}
