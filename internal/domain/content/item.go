package content

import (
	"time"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrMissingOwner = errs.New("content item has no owner")

type Item struct {
	id          uuid.UUID
	kind        Kind
	ownerID     uuid.UUID
	createdAt   time.Time
	raw         RawEngagement
	metadata    Metadata
	boost       boost.Boost
	storedScore float64
}

// NewItem registers a fresh upload: zero engagement, no boost, stored score 0.
func NewItem(kind Kind, ownerID uuid.UUID, metadata Metadata, now time.Time) (*Item, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if ownerID == uuid.Nil {
		return nil, ErrMissingOwner
	}
	it := &Item{
		id:        uuid.New(),
		kind:      kind,
		ownerID:   ownerID,
		createdAt: now,
		metadata:  metadata.Clone(),
		boost:     boost.None(),
	}
	it.RefreshCompleteness()
	return it, nil
}

func ReconstructItem(
	id uuid.UUID,
	kind Kind,
	ownerID uuid.UUID,
	createdAt time.Time,
	raw RawEngagement,
	metadata Metadata,
	b boost.Boost,
	storedScore float64,
) *Item {
	return &Item{
		id:          id,
		kind:        kind,
		ownerID:     ownerID,
		createdAt:   createdAt,
		raw:         raw,
		metadata:    metadata,
		boost:       b,
		storedScore: storedScore,
	}
}

// Engagement returns the normalized counters used for scoring.
func (i *Item) Engagement() Engagement {
	return NormalizeEngagement(i.kind, i.raw)
}

// RefreshCompleteness recomputes the completeness counter from metadata and reports
// whether it changed.
func (i *Item) RefreshCompleteness() bool {
	score := Completeness(i.kind, i.metadata)
	if score == i.raw.CompletenessScore {
		return false
	}
	i.raw.CompletenessScore = score
	return true
}

func (i *Item) ActivateBoost(initial float64, kind boost.Kind, now time.Time) {
	i.boost = i.boost.Activate(initial, kind, now)
}

func (i *Item) SetStoredScore(score float64) {
	i.storedScore = score
}

// Clone returns a deep copy so callers can snapshot an item before mutating it.
func (i *Item) Clone() *Item {
	c := *i
	c.metadata = i.metadata.Clone()
	if i.raw.Likes != nil {
		c.raw.Likes = append([]string{}, i.raw.Likes...)
	}
	return &c
}

func (i *Item) OwnedBy(ownerID uuid.UUID) bool {
	return i.ownerID == ownerID
}

func (i *Item) ID() uuid.UUID        { return i.id }
func (i *Item) Kind() Kind           { return i.kind }
func (i *Item) OwnerID() uuid.UUID   { return i.ownerID }
func (i *Item) CreatedAt() time.Time { return i.createdAt }
func (i *Item) Raw() RawEngagement   { return i.raw }
func (i *Item) Metadata() Metadata   { return i.metadata.Clone() }
func (i *Item) Boost() boost.Boost   { return i.boost }
func (i *Item) StoredScore() float64 { return i.storedScore }
