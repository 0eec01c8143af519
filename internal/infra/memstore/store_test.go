//go:build unit

package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/user"
	"popularity-engine/internal/infra"
	"popularity-engine/internal/infra/memstore"
	"popularity-engine/internal/usecase/shared"
	"popularity-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, uow shared.UnitOfWork, items ...*content.Item) {
	t.Helper()
	err := uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		for _, it := range items {
			if err := tx.Items().Save(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestUnitOfWorkCompensation(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewStore()
	uow := memstore.NewUnitOfWork(store)

	item := builder.NewItemBuilder().WithStoredScore(12).BuildDomain()
	seed(t, uow, item)
	coupon := builder.NewCouponBuilder().BuildDomain()

	errInjected := errors.New("disk full")
	store.SetWriteHook(func(collection string, _ uuid.UUID) error {
		if collection == memstore.CollectionUsages {
			return errInjected
		}
		return nil
	})

	err := uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		changed := item.Clone()
		changed.SetStoredScore(99)
		if err := tx.Items().Save(ctx, changed); err != nil {
			return err
		}
		if err := tx.Coupons().Save(ctx, coupon); err != nil {
			return err
		}
		return tx.BoostUsages().Save(ctx, user.NewBoostUsage(coupon.OwnerID()))
	})
	require.ErrorIs(t, err, errInjected)
	store.SetWriteHook(nil)

	err = uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		got, err := tx.Items().Find(ctx, item.Kind(), item.ID())
		require.NoError(t, err)
		assert.Equal(t, 12.0, got.StoredScore())

		_, err = tx.Coupons().Find(ctx, coupon.ID())
		assert.True(t, infra.IsNotFound(err))
		return nil
	})
	require.NoError(t, err)
}

func TestFindMaxStoredScoreIgnoresOpenWrites(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewStore()
	uow := memstore.NewUnitOfWork(store)

	leader := builder.NewItemBuilder().WithKind(content.KindMusic).WithStoredScore(50).BuildDomain()
	seed(t, uow, leader)

	maxSeenByOthers := func() float64 {
		var got float64
		err := uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			got, err = tx.Items().FindMaxStoredScore(ctx, content.KindMusic)
			return err
		})
		require.NoError(t, err)
		return got
	}

	errAbort := errors.New("abort")
	err := uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		raised := leader.Clone()
		raised.SetStoredScore(500)
		require.NoError(t, tx.Items().Save(ctx, raised))
		require.NoError(t, tx.Items().Save(ctx, builder.NewItemBuilder().WithKind(content.KindMusic).WithStoredScore(900).BuildDomain()))

		own, err := tx.Items().FindMaxStoredScore(ctx, content.KindMusic)
		require.NoError(t, err)
		assert.Equal(t, 900.0, own)
		assert.Equal(t, 50.0, maxSeenByOthers())
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)
	assert.Equal(t, 50.0, maxSeenByOthers())

	t.Run("committed writes become visible", func(t *testing.T) {
		raised := leader.Clone()
		raised.SetStoredScore(120)
		seed(t, uow, raised)
		assert.Equal(t, 120.0, maxSeenByOthers())
	})
}

func TestUnitOfWorkReadOnly(t *testing.T) {
	uow := memstore.NewUnitOfWork(memstore.NewStore())
	err := uow.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Items().Save(ctx, builder.NewItemBuilder().BuildDomain())
	})
	assert.Error(t, err)
}

func TestItemRepository(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewStore()
	uow := memstore.NewUnitOfWork(store)

	older := builder.NewItemBuilder().CreatedAtTime(builder.BaseTime.Add(-72 * time.Hour)).WithStoredScore(40).BuildDomain()
	newer := builder.NewItemBuilder().CreatedAtTime(builder.BaseTime.Add(-30 * time.Hour)).WithStoredScore(40).BuildDomain()
	top := builder.NewItemBuilder().WithStoredScore(75.5).BuildDomain()
	video := builder.NewItemBuilder().WithKind(content.KindVideo).WithStoredScore(900).BuildDomain()
	seed(t, uow, older, newer, top, video)

	err := uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		maxScore, err := tx.Items().FindMaxStoredScore(ctx, content.KindImage)
		require.NoError(t, err)
		assert.Equal(t, 75.5, maxScore)

		page, err := tx.Items().ListPageByStoredScore(ctx, content.KindImage, 0, 10)
		require.NoError(t, err)
		require.Len(t, page, 3)
		assert.Equal(t, []uuid.UUID{top.ID(), newer.ID(), older.ID()}, []uuid.UUID{page[0].ID(), page[1].ID(), page[2].ID()})

		page, err = tx.Items().ListPageByStoredScore(ctx, content.KindImage, 3, 10)
		require.NoError(t, err)
		assert.Empty(t, page)

		n, err := tx.Items().CountByKind(ctx, content.KindMusic)
		require.NoError(t, err)
		assert.Zero(t, n)
		return nil
	})
	require.NoError(t, err)

	t.Run("SaveScore skips items re-boosted since they were read", func(t *testing.T) {
		stale := top.Clone()
		reboosted := top.Clone()
		reboosted.ActivateBoost(150, boost.Kind7Day, builder.BaseTime)
		seed(t, uow, reboosted)

		stale.SetStoredScore(1)
		var saved bool
		err := uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			saved, err = tx.Items().SaveScore(ctx, stale)
			return err
		})
		require.NoError(t, err)
		assert.False(t, saved)

		doc, ok := store.Document(content.KindImage, top.ID())
		require.True(t, ok)
		assert.Equal(t, 75.5, doc["storedScore"])
	})

	t.Run("documents written by other services keep unknown fields", func(t *testing.T) {
		owner := uuid.New()
		doc := builder.NewItemBuilder().WithOwner(owner).BuildDocument()
		delete(doc, "user")
		doc["userId"] = owner.String()
		doc["title"] = "sunset"
		require.NoError(t, store.PutDocument(content.KindImage, doc))

		id := uuid.MustParse(doc["_id"].(string))
		err := uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			item, err := tx.Items().Find(ctx, content.KindImage, id)
			require.NoError(t, err)
			assert.True(t, item.OwnedBy(owner))
			item.SetStoredScore(5)
			return tx.Items().Save(ctx, item)
		})
		require.NoError(t, err)

		saved, ok := store.Document(content.KindImage, id)
		require.True(t, ok)
		assert.Equal(t, "sunset", saved["title"])
		assert.Equal(t, 5.0, saved["storedScore"])
	})

	t.Run("documents under an unknown kind are rejected", func(t *testing.T) {
		doc := builder.NewItemBuilder().WithKind(content.KindVideo).BuildDocument()
		err := store.PutDocument(content.Kind("podcast"), doc)
		assert.ErrorIs(t, err, content.ErrInvalidKind)

		_, ok := store.Document(content.Kind("podcast"), uuid.MustParse(doc["_id"].(string)))
		assert.False(t, ok)
	})
}
