package popularity

import (
	"bytes"
	"cmp"
	"slices"
	"strings"
	"time"

	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/pkg/errs"
)

var ErrInvalidMode = errs.New("invalid ranking mode")

type Mode string

const (
	ModeLive   Mode = "live"
	ModeStored Mode = "stored"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeLive:
		return ModeLive, nil
	case ModeStored:
		return ModeStored, nil
	default:
		return "", ErrInvalidMode
	}
}

type Ranked struct {
	Item  *content.Item
	Score float64
}

// Reconciler keeps the persisted score and the request-time score on one formula.
type Reconciler struct {
	calc *Calculator
}

func NewReconciler(calc *Calculator) *Reconciler {
	return &Reconciler{calc: calc}
}

func (r *Reconciler) ScoreFor(item *content.Item, mode Mode, now time.Time) float64 {
	if mode == ModeStored {
		return item.StoredScore()
	}
	return r.calc.Score(item, now)
}

// Rank orders items by score desc, then createdAt desc, then id desc.
func (r *Reconciler) Rank(items []*content.Item, mode Mode, now time.Time) []Ranked {
	ranked := make([]Ranked, len(items))
	for i, it := range items {
		ranked[i] = Ranked{Item: it, Score: r.ScoreFor(it, mode, now)}
	}
	slices.SortStableFunc(ranked, CompareRanked)
	return ranked
}

func CompareRanked(a, b Ranked) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := b.Item.CreatedAt().Compare(a.Item.CreatedAt()); c != 0 {
		return c
	}
	bid, aid := b.Item.ID(), a.Item.ID()
	return bytes.Compare(bid[:], aid[:])
}

func (r *Reconciler) NeedsRewrite(item *content.Item, now time.Time) bool {
	return item.StoredScore() != r.calc.Score(item, now)
}

// Recompute rewrites the stored score with the live value at now and reports whether
// it changed.
func (r *Reconciler) Recompute(item *content.Item, now time.Time) bool {
	live := r.calc.Score(item, now)
	if live == item.StoredScore() {
		return false
	}
	item.SetStoredScore(live)
	return true
}

func (r *Reconciler) Calculator() *Calculator {
	return r.calc
}
