package queries

import (
	"context"
	"time"

	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/popularity"
	"popularity-engine/internal/infra"
	"popularity-engine/internal/infra/metrics"
	"popularity-engine/internal/pkg/clock"
	"popularity-engine/internal/pkg/errs"
	"popularity-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrItemNotFound = errs.New("item not found")

//go:generate mockgen -source=popular.go -destination=../../../tests/mock/queries/popular_mock.go -package=queriesmock
type PopularQueries interface {
	List(ctx context.Context, kind content.Kind, mode popularity.Mode, page, pageSize int) (*PopularPage, error)
	GetScore(ctx context.Context, kind content.Kind, id uuid.UUID) (*ItemScoreView, error)
}

type popularQueriesImpl struct {
	uow        shared.UnitOfWork
	reconciler *popularity.Reconciler
	clock      clock.Clock
}

func NewPopularQueries(uow shared.UnitOfWork, reconciler *popularity.Reconciler, clk clock.Clock) PopularQueries {
	return &popularQueriesImpl{uow: uow, reconciler: reconciler, clock: clk}
}

// List returns one page of kind ordered by score, createdAt and id, all descending.
// Stored mode pages in storage; live mode scores every item of the kind at request time.
func (q *popularQueriesImpl) List(ctx context.Context, kind content.Kind, mode popularity.Mode, page, pageSize int) (*PopularPage, error) {
	if !kind.IsValid() {
		return nil, content.ErrInvalidKind
	}
	page, pageSize = ValidatePage(page, pageSize)
	start := time.Now()
	now := q.clock.Now()
	offset := (page - 1) * pageSize

	var (
		ranked []popularity.Ranked
		total  int
	)
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		if mode == popularity.ModeStored {
			items, err := tx.Items().ListPageByStoredScore(ctx, kind, offset, pageSize)
			if err != nil {
				return err
			}
			total, err = tx.Items().CountByKind(ctx, kind)
			if err != nil {
				return err
			}
			ranked = q.reconciler.Rank(items, popularity.ModeStored, now)
			return nil
		}

		items, err := tx.Items().ListByKind(ctx, kind)
		if err != nil {
			return err
		}
		total = len(items)
		all := q.reconciler.Rank(items, popularity.ModeLive, now)
		ranked = pageOf(all, offset, pageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}

	views := make([]*PopularItemView, len(ranked))
	for i, r := range ranked {
		views[i] = toPopularItemView(r, offset+i+1, now)
	}
	metrics.ObserveListing(kind.String(), string(mode), time.Since(start))

	return &PopularPage{
		Kind:     kind.String(),
		Mode:     string(mode),
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Items:    views,
	}, nil
}

func (q *popularQueriesImpl) GetScore(ctx context.Context, kind content.Kind, id uuid.UUID) (*ItemScoreView, error) {
	if !kind.IsValid() {
		return nil, content.ErrInvalidKind
	}
	now := q.clock.Now()

	var item *content.Item
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		item, err = tx.Items().Find(ctx, kind, id)
		return err
	})
	if err != nil {
		if infra.IsNotFound(err) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	live := q.reconciler.ScoreFor(item, popularity.ModeLive, now)
	return &ItemScoreView{
		ID:          item.ID(),
		Kind:        kind.String(),
		LiveScore:   live,
		StoredScore: item.StoredScore(),
		InSync:      !q.reconciler.NeedsRewrite(item, now),
		Boost:       toBoostView(item, now),
		At:          now,
	}, nil
}

func pageOf(ranked []popularity.Ranked, offset, limit int) []popularity.Ranked {
	if offset < 0 || offset >= len(ranked) {
		return nil
	}
	end := min(offset+limit, len(ranked))
	return ranked[offset:end]
}

func toPopularItemView(r popularity.Ranked, rank int, now time.Time) *PopularItemView {
	e := r.Item.Engagement()
	return &PopularItemView{
		Rank:              rank,
		ID:                r.Item.ID(),
		Kind:              r.Item.Kind().String(),
		OwnerID:           r.Item.OwnerID(),
		CreatedAt:         r.Item.CreatedAt(),
		Score:             r.Score,
		Clicks:            e.Clicks,
		LikesCount:        e.LikesCount,
		Views:             e.Views,
		CompletenessScore: e.CompletenessScore,
		Boost:             toBoostView(r.Item, now),
	}
}
