//go:build unit || e2e

package builder

import (
	"time"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"

	"github.com/google/uuid"
)

var BaseTime = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

type ItemBuilder struct {
	ID          uuid.UUID
	Kind        content.Kind
	OwnerID     uuid.UUID
	CreatedAt   time.Time
	Clicks      int
	Likes       []string
	LikesCount  int
	Views       int
	Metadata    content.Metadata
	Boost       boost.Boost
	StoredScore float64
}

// NewItemBuilder returns an image two days older than BaseTime, eligible for boosting.
func NewItemBuilder() *ItemBuilder {
	return &ItemBuilder{
		ID:        uuid.New(),
		Kind:      content.KindImage,
		OwnerID:   uuid.New(),
		CreatedAt: BaseTime.Add(-48 * time.Hour),
		Boost:     boost.None(),
	}
}

func (b *ItemBuilder) With(mutate func(*ItemBuilder)) *ItemBuilder {
	mutate(b)
	return b
}

func (b *ItemBuilder) BuildDomain() *content.Item {
	raw := content.RawEngagement{
		Clicks:            b.Clicks,
		LikesCount:        b.LikesCount,
		Views:             b.Views,
		CompletenessScore: content.Completeness(b.Kind, b.Metadata),
	}
	if b.Likes != nil {
		raw.Likes = append([]string{}, b.Likes...)
	}
	return content.ReconstructItem(b.ID, b.Kind, b.OwnerID, b.CreatedAt, raw, b.Metadata.Clone(), b.Boost, b.StoredScore)
}

// BuildDocument renders the item the way another service would have written it.
func (b *ItemBuilder) BuildDocument() content.Document {
	doc := content.Document{
		"_id":               b.ID.String(),
		"createdAt":         b.CreatedAt,
		"clicks":            b.Clicks,
		"likesCount":        b.LikesCount,
		"completenessScore": content.Completeness(b.Kind, b.Metadata),
		"storedScore":       b.StoredScore,
	}
	doc[content.OwnerResolverFor(b.Kind).Field()] = b.OwnerID.String()
	if b.Likes != nil {
		doc["likes"] = append([]string{}, b.Likes...)
	}
	if b.Kind.HasViews() {
		doc["views"] = b.Views
	}
	if b.Metadata != nil {
		doc["metadata"] = toAnyMap(b.Metadata)
	}
	return doc
}

func toAnyMap(m content.Metadata) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Fluent builder methods
func (b *ItemBuilder) WithKind(kind content.Kind) *ItemBuilder {
	b.Kind = kind
	return b
}

func (b *ItemBuilder) WithOwner(ownerID uuid.UUID) *ItemBuilder {
	b.OwnerID = ownerID
	return b
}

func (b *ItemBuilder) CreatedAtTime(t time.Time) *ItemBuilder {
	b.CreatedAt = t
	return b
}

func (b *ItemBuilder) WithEngagement(clicks, likes, views int) *ItemBuilder {
	b.Clicks = clicks
	b.LikesCount = likes
	b.Views = views
	return b
}

func (b *ItemBuilder) WithLikes(userIDs ...string) *ItemBuilder {
	b.Likes = userIDs
	return b
}

func (b *ItemBuilder) WithMetadata(m content.Metadata) *ItemBuilder {
	b.Metadata = m
	return b
}

func (b *ItemBuilder) BoostedAt(initial float64, kind boost.Kind, at time.Time) *ItemBuilder {
	b.Boost = boost.None().Activate(initial, kind, at)
	return b
}

func (b *ItemBuilder) WithStoredScore(score float64) *ItemBuilder {
	b.StoredScore = score
	return b
}
