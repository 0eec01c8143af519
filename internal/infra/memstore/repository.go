package memstore

import (
	"context"
	"slices"
	"time"

	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/coupon"
	"popularity-engine/internal/domain/popularity"
	"popularity-engine/internal/domain/user"
	"popularity-engine/internal/infra"

	"github.com/google/uuid"
)

type itemRepository struct {
	tx *memTx
}

func (r *itemRepository) Find(_ context.Context, kind content.Kind, id uuid.UUID) (*content.Item, error) {
	s := r.tx.store
	s.mu.RLock()
	doc, ok := s.items[kind][id]
	s.mu.RUnlock()
	if !ok {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "item not found", nil)
	}
	item, err := decodeItem(kind, doc)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to decode item", err)
	}
	return item, nil
}

func (r *itemRepository) Save(_ context.Context, item *content.Item) error {
	if err := r.tx.checkWritable(CollectionItems, item.ID()); err != nil {
		return err
	}
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.items[item.Kind()]
	prev, existed := docs[item.ID()]
	s.trackItem(r.tx, item.Kind(), item.ID(), prev, existed)
	docs[item.ID()] = encodeItem(prev, item)
	r.tx.recordUndo(func() {
		if existed {
			docs[item.ID()] = prev
		} else {
			delete(docs, item.ID())
		}
	})
	return nil
}

func (r *itemRepository) SaveScore(_ context.Context, item *content.Item) (bool, error) {
	if err := r.tx.checkWritable(CollectionItems, item.ID()); err != nil {
		return false, err
	}
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.items[item.Kind()]
	prev, ok := docs[item.ID()]
	if !ok {
		return false, infra.WrapRepoErr(s.logger, infra.KindNotFound, "item not found", nil)
	}
	if !sameActivation(timePtr(prev[fieldBoostActivatedAt]), item.Boost().ActivatedAt()) {
		return false, nil
	}

	s.trackItem(r.tx, item.Kind(), item.ID(), prev, true)
	next := cloneDocument(prev)
	next[fieldCompleteness] = item.Raw().CompletenessScore
	next[fieldStoredScore] = item.StoredScore()
	docs[item.ID()] = next
	r.tx.recordUndo(func() { docs[item.ID()] = prev })
	return true, nil
}

// FindMaxStoredScore reads committed scores plus the caller's own writes. Scores written
// by other open units of work are replaced by their pre-image.
func (r *itemRepository) FindMaxStoredScore(_ context.Context, kind content.Kind) (float64, error) {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	maxScore := 0.0
	first := true
	for id, doc := range s.items[kind] {
		doc, ok := s.committedItem(r.tx, kind, id, doc)
		if !ok {
			continue
		}
		v := asFloat(doc[fieldStoredScore])
		if first || v > maxScore {
			maxScore = v
			first = false
		}
	}
	return maxScore, nil
}

func (r *itemRepository) ListByKind(_ context.Context, kind content.Kind) ([]*content.Item, error) {
	s := r.tx.store
	s.mu.RLock()
	docs := make([]content.Document, 0, len(s.items[kind]))
	for _, doc := range s.items[kind] {
		docs = append(docs, doc)
	}
	s.mu.RUnlock()

	items := make([]*content.Item, 0, len(docs))
	for _, doc := range docs {
		item, err := decodeItem(kind, doc)
		if err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to decode item", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *itemRepository) ListPageByStoredScore(ctx context.Context, kind content.Kind, offset, limit int) ([]*content.Item, error) {
	items, err := r.ListByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	ranked := make([]popularity.Ranked, len(items))
	for i, it := range items {
		ranked[i] = popularity.Ranked{Item: it, Score: it.StoredScore()}
	}
	slices.SortFunc(ranked, popularity.CompareRanked)

	if offset < 0 || offset >= len(ranked) {
		return []*content.Item{}, nil
	}
	end := min(offset+limit, len(ranked))
	page := make([]*content.Item, 0, end-offset)
	for _, rk := range ranked[offset:end] {
		page = append(page, rk.Item)
	}
	return page, nil
}

func (r *itemRepository) CountByKind(_ context.Context, kind content.Kind) (int, error) {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items[kind]), nil
}

type couponRepository struct {
	tx *memTx
}

func (r *couponRepository) Find(_ context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.coupons[id]
	if !ok {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "coupon not found", nil)
	}
	return c.Clone(), nil
}

func (r *couponRepository) Save(_ context.Context, c *coupon.Coupon) error {
	if err := r.tx.checkWritable(CollectionCoupons, c.ID()); err != nil {
		return err
	}
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.coupons[c.ID()]
	s.coupons[c.ID()] = c.Clone()
	r.tx.recordUndo(func() {
		if existed {
			s.coupons[c.ID()] = prev
		} else {
			delete(s.coupons, c.ID())
		}
	})
	return nil
}

func (r *couponRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*coupon.Coupon, error) {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*coupon.Coupon{}
	for _, c := range s.coupons {
		if c.OwnerID() == ownerID {
			out = append(out, c.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *coupon.Coupon) int {
		return b.IssuedAt().Compare(a.IssuedAt())
	})
	return out, nil
}

type boostUsageRepository struct {
	tx *memTx
}

func (r *boostUsageRepository) Find(_ context.Context, ownerID uuid.UUID) (*user.BoostUsage, error) {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.usages[ownerID]; ok {
		return u.Clone(), nil
	}
	return user.NewBoostUsage(ownerID), nil
}

func (r *boostUsageRepository) Save(_ context.Context, usage *user.BoostUsage) error {
	if err := r.tx.checkWritable(CollectionUsages, usage.OwnerID()); err != nil {
		return err
	}
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.usages[usage.OwnerID()]
	s.usages[usage.OwnerID()] = usage.Clone()
	r.tx.recordUndo(func() {
		if existed {
			s.usages[usage.OwnerID()] = prev
		} else {
			delete(s.usages, usage.OwnerID())
		}
	})
	return nil
}

func sameActivation(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
