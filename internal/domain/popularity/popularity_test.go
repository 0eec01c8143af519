//go:build unit

package popularity_test

import (
	"testing"
	"time"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/popularity"
	"popularity-engine/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReconciler() *popularity.Reconciler {
	return popularity.NewReconciler(popularity.NewCalculator(popularity.DefaultWeights()))
}

func TestCalculator(t *testing.T) {
	calc := popularity.NewCalculator(popularity.DefaultWeights())

	t.Run("unboosted item scores engagement only", func(t *testing.T) {
		e := content.Engagement{Clicks: 10, LikesCount: 5, CompletenessScore: 40}
		assert.Equal(t, 60.0, calc.Popularity(content.KindImage, e, 0))
	})

	t.Run("same formula for every kind, weights differ", func(t *testing.T) {
		e := content.Engagement{Clicks: 10, LikesCount: 5, Views: 20, CompletenessScore: 40}
		assert.Equal(t, 70.0, calc.Popularity(content.KindVideo, e, 0))
		assert.Equal(t, 60.0, calc.Popularity(content.KindMusic, e, 0))
	})

	t.Run("boost term is rounded before adding", func(t *testing.T) {
		assert.Equal(t, 10.3, calc.Popularity(content.KindImage, content.Engagement{}, 10.25))
	})

	t.Run("score includes decayed boost", func(t *testing.T) {
		activated := builder.BaseTime
		item := builder.NewItemBuilder().
			WithEngagement(10, 5, 0).
			BoostedAt(100, boost.Kind7Day, activated).
			BuildDomain()
		assert.Equal(t, 50.0+50.0, calc.Score(item, activated.Add(5*time.Hour)))
		assert.Equal(t, 50.0, calc.Score(item, activated.Add(11*time.Hour)))
	})

	t.Run("weights are configurable per kind", func(t *testing.T) {
		custom := popularity.NewCalculator(popularity.WeightTable{
			content.KindImage: {Click: 2},
		})
		assert.Equal(t, 20.0, custom.Popularity(content.KindImage, content.Engagement{Clicks: 10, LikesCount: 3}, 0))
		assert.Zero(t, custom.Popularity(content.KindVideo, content.Engagement{Clicks: 10}, 0))
	})
}

func TestCatchUp(t *testing.T) {
	table := popularity.DefaultCatchUp()
	assert.Equal(t, 100.0, table.InitialBoost(content.KindImage, 0))
	assert.Equal(t, 100.0, table.InitialBoost(content.KindImage, 60))
	assert.InDelta(t, 450.0, table.InitialBoost(content.KindVideo, 500), 1e-9)
	assert.InDelta(t, 330.0, table.InitialBoost(content.KindMusic, 300), 1e-9)
	assert.Equal(t, 80.0, table.InitialBoost(content.KindMusic, -5))
}

func TestRank(t *testing.T) {
	r := newReconciler()
	now := builder.BaseTime

	idLow := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	idHigh := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	older := builder.NewItemBuilder().WithEngagement(5, 0, 0).CreatedAtTime(now.Add(-72 * time.Hour)).BuildDomain()
	newerLow := builder.NewItemBuilder().With(func(b *builder.ItemBuilder) { b.ID = idLow }).
		WithEngagement(5, 0, 0).CreatedAtTime(now.Add(-30 * time.Hour)).BuildDomain()
	newerHigh := builder.NewItemBuilder().With(func(b *builder.ItemBuilder) { b.ID = idHigh }).
		WithEngagement(5, 0, 0).CreatedAtTime(now.Add(-30 * time.Hour)).BuildDomain()
	top := builder.NewItemBuilder().WithEngagement(1, 1, 0).BuildDomain()

	ranked := r.Rank([]*content.Item{older, newerLow, top, newerHigh}, popularity.ModeLive, now)

	got := make([]uuid.UUID, len(ranked))
	for i, rk := range ranked {
		got[i] = rk.Item.ID()
	}
	want := []uuid.UUID{top.ID(), idHigh, idLow, older.ID()}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rank order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 9.0, ranked[0].Score)
}

func TestReconciler(t *testing.T) {
	r := newReconciler()
	now := builder.BaseTime

	t.Run("stored mode reads the persisted value", func(t *testing.T) {
		item := builder.NewItemBuilder().WithEngagement(3, 0, 0).WithStoredScore(99).BuildDomain()
		assert.Equal(t, 99.0, r.ScoreFor(item, popularity.ModeStored, now))
		assert.Equal(t, 3.0, r.ScoreFor(item, popularity.ModeLive, now))
		assert.True(t, r.NeedsRewrite(item, now))
	})

	t.Run("recompute brings stored and live into agreement", func(t *testing.T) {
		item := builder.NewItemBuilder().
			WithEngagement(3, 2, 0).
			BoostedAt(100, boost.Kind7Day, now.Add(-2*time.Hour)).
			BuildDomain()
		require.True(t, r.Recompute(item, now))
		assert.Equal(t, r.ScoreFor(item, popularity.ModeLive, now), item.StoredScore())
		assert.False(t, r.Recompute(item, now))
		assert.False(t, r.NeedsRewrite(item, now))
	})

	t.Run("parse mode", func(t *testing.T) {
		m, err := popularity.ParseMode("")
		require.NoError(t, err)
		assert.Equal(t, popularity.ModeLive, m)

		m, err = popularity.ParseMode("STORED")
		require.NoError(t, err)
		assert.Equal(t, popularity.ModeStored, m)

		_, err = popularity.ParseMode("hot")
		assert.ErrorIs(t, err, popularity.ErrInvalidMode)
	})
}
