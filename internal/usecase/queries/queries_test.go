//go:build unit

package queries_test

import (
	"context"
	"math"
	"testing"
	"time"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/coupon"
	"popularity-engine/internal/domain/popularity"
	"popularity-engine/internal/infra/memstore"
	"popularity-engine/internal/pkg/clock"
	"popularity-engine/internal/usecase/queries"
	"popularity-engine/internal/usecase/shared"
	"popularity-engine/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type QueriesTestSuite struct {
	suite.Suite
	ctx     context.Context
	uow     shared.UnitOfWork
	clock   *clock.MockClock
	popular queries.PopularQueries
	coupons queries.CouponQueries
}

func (s *QueriesTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.uow = memstore.NewUnitOfWork(memstore.NewStore())
	s.clock = clock.NewMockClock(builder.BaseTime)
	reconciler := popularity.NewReconciler(popularity.NewCalculator(popularity.DefaultWeights()))
	s.popular = queries.NewPopularQueries(s.uow, reconciler, s.clock)
	s.coupons = queries.NewCouponQueries(s.uow, s.clock)
}

func TestQueriesSuite(t *testing.T) {
	suite.Run(t, new(QueriesTestSuite))
}

func (s *QueriesTestSuite) seed(items ...*content.Item) {
	err := s.uow.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		for _, it := range items {
			if err := tx.Items().Save(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
	s.Require().NoError(err)
}

func ids(page *queries.PopularPage) []uuid.UUID {
	out := make([]uuid.UUID, len(page.Items))
	for i, it := range page.Items {
		out[i] = it.ID
	}
	return out
}

// ================================================================================
// TestList
// ================================================================================

func (s *QueriesTestSuite) TestList() {
	now := builder.BaseTime

	// stored 40 but the boost has fully decayed: live 5
	stale := builder.NewItemBuilder().WithEngagement(5, 0, 0).
		BoostedAt(100, boost.Kind7Day, now.Add(-20*time.Hour)).WithStoredScore(40).BuildDomain()
	steady := builder.NewItemBuilder().WithEngagement(20, 0, 0).WithStoredScore(20).BuildDomain()
	boosted := builder.NewItemBuilder().WithEngagement(1, 0, 0).
		BoostedAt(100, boost.Kind7Day, now.Add(-time.Hour)).WithStoredScore(10).BuildDomain()
	video := builder.NewItemBuilder().WithKind(content.KindVideo).WithEngagement(500, 0, 0).WithStoredScore(500).BuildDomain()
	s.seed(stale, steady, boosted, video)

	s.Run("live mode ranks by score at request time", func() {
		page, err := s.popular.List(s.ctx, content.KindImage, popularity.ModeLive, 1, 10)
		s.Require().NoError(err)

		want := []uuid.UUID{boosted.ID(), steady.ID(), stale.ID()}
		if diff := cmp.Diff(want, ids(page)); diff != "" {
			s.T().Errorf("live order mismatch (-want +got):\n%s", diff)
		}
		s.Equal(3, page.Total)
		s.Equal(91.0, page.Items[0].Score)
		s.Equal(1, page.Items[0].Rank)
		s.Equal("active", page.Items[0].Boost.State)
		s.Equal("expired", page.Items[2].Boost.State)
	})

	s.Run("stored mode ranks by the persisted score", func() {
		page, err := s.popular.List(s.ctx, content.KindImage, popularity.ModeStored, 1, 10)
		s.Require().NoError(err)

		want := []uuid.UUID{stale.ID(), steady.ID(), boosted.ID()}
		if diff := cmp.Diff(want, ids(page)); diff != "" {
			s.T().Errorf("stored order mismatch (-want +got):\n%s", diff)
		}
		s.Equal(40.0, page.Items[0].Score)
	})

	s.Run("pagination keeps absolute ranks", func() {
		for _, mode := range []popularity.Mode{popularity.ModeLive, popularity.ModeStored} {
			page, err := s.popular.List(s.ctx, content.KindImage, mode, 2, 2)
			s.Require().NoError(err)
			s.Require().Len(page.Items, 1)
			s.Equal(3, page.Items[0].Rank)
			s.Equal(3, page.Total)
		}
	})

	s.Run("page past the end is empty", func() {
		page, err := s.popular.List(s.ctx, content.KindImage, popularity.ModeLive, 5, 10)
		s.Require().NoError(err)
		s.Empty(page.Items)
		s.Equal(3, page.Total)
	})

	s.Run("page far beyond the end is empty in both modes", func() {
		for _, mode := range []popularity.Mode{popularity.ModeLive, popularity.ModeStored} {
			page, err := s.popular.List(s.ctx, content.KindImage, mode, math.MaxInt/4+2, 4)
			s.Require().NoError(err)
			s.Empty(page.Items)
			s.Equal(3, page.Total)
			s.Equal(math.MaxInt/4, page.Page)
		}
	})

	s.Run("page and size are normalized", func() {
		page, err := s.popular.List(s.ctx, content.KindVideo, popularity.ModeLive, 0, 1000)
		s.Require().NoError(err)
		s.Equal(1, page.Page)
		s.Equal(queries.MaxPageSize, page.PageSize)
		s.Len(page.Items, 1)
	})

	s.Run("invalid kind", func() {
		_, err := s.popular.List(s.ctx, content.Kind("gif"), popularity.ModeLive, 1, 10)
		s.ErrorIs(err, content.ErrInvalidKind)
	})
}

func TestValidatePage(t *testing.T) {
	cases := []struct {
		name             string
		page, size       int
		wantPage, wantSz int
	}{
		{"defaults", 0, 0, 1, queries.DefaultPageSize},
		{"size capped", 3, 1000, 3, queries.MaxPageSize},
		{"page capped to avoid offset overflow", math.MaxInt, 10, math.MaxInt / 10, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, size := queries.ValidatePage(tc.page, tc.size)
			if page != tc.wantPage || size != tc.wantSz {
				t.Fatalf("ValidatePage(%d, %d) = (%d, %d), want (%d, %d)", tc.page, tc.size, page, size, tc.wantPage, tc.wantSz)
			}
			if (page-1)*size < 0 {
				t.Fatalf("offset overflowed for page %d size %d", page, size)
			}
		})
	}
}

// ================================================================================
// TestGetScore
// ================================================================================

func (s *QueriesTestSuite) TestGetScore() {
	now := builder.BaseTime
	item := builder.NewItemBuilder().WithEngagement(5, 0, 0).
		BoostedAt(100, boost.Kind7Day, now.Add(-5*time.Hour)).WithStoredScore(105).BuildDomain()
	s.seed(item)

	s.Run("reports drift between stored and live", func() {
		view, err := s.popular.GetScore(s.ctx, content.KindImage, item.ID())
		s.Require().NoError(err)
		s.Equal(55.0, view.LiveScore)
		s.Equal(105.0, view.StoredScore)
		s.False(view.InSync)
		s.Equal(50.0, view.Boost.Contribution)
		s.Equal(now, view.At)
	})

	s.Run("not found", func() {
		_, err := s.popular.GetScore(s.ctx, content.KindImage, uuid.New())
		s.ErrorIs(err, queries.ErrItemNotFound)

		_, err = s.popular.GetScore(s.ctx, content.KindVideo, item.ID())
		s.ErrorIs(err, queries.ErrItemNotFound)
	})
}

// ================================================================================
// TestCouponList
// ================================================================================

func (s *QueriesTestSuite) TestCouponList() {
	owner := uuid.New()
	older := builder.NewCouponBuilder().WithOwner(owner).IssuedAtTime(builder.BaseTime.Add(-10 * 24 * time.Hour)).BuildDomain()
	newer := builder.NewCouponBuilder().WithOwner(owner).WithKind(boost.KindRare).BuildDomain()
	foreign := builder.NewCouponBuilder().BuildDomain()

	err := s.uow.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		for _, c := range []*coupon.Coupon{older, newer, foreign} {
			if err := tx.Coupons().Save(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
	s.Require().NoError(err)

	views, err := s.coupons.ListByOwner(s.ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(views, 2)
	s.Equal(newer.ID(), views[0].ID)
	s.False(views[0].Expired)
	s.Equal(older.ID(), views[1].ID)
	s.True(views[1].Expired)

	empty, err := s.coupons.ListByOwner(s.ctx, uuid.New())
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)
}
