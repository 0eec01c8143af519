package memstore

import (
	"context"
	"log/slog"

	"popularity-engine/internal/pkg/errs"
	"popularity-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var errReadOnly = errs.New("write attempted in read-only unit of work")

type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(store *Store) shared.UnitOfWork {
	return &UnitOfWork{store: store}
}

// Within applies writes immediately and records an undo step for each. If fn fails, the
// undo log is replayed in reverse before the error is returned, while owner locks are
// still held.
func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := newMemTx(u.store, false)
	defer tx.releaseLocks()
	defer tx.finish()

	if err := fn(ctx, tx); err != nil {
		tx.compensate()
		return err
	}
	return nil
}

func (u *UnitOfWork) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := newMemTx(u.store, true)
	defer tx.releaseLocks()
	return fn(ctx, tx)
}

type memTx struct {
	store    *Store
	readOnly bool
	undo     []func()
	unlocks  map[uuid.UUID]func()
}

func newMemTx(store *Store, readOnly bool) *memTx {
	return &memTx{store: store, readOnly: readOnly, unlocks: make(map[uuid.UUID]func())}
}

func (t *memTx) Items() shared.ItemRepository {
	return &itemRepository{tx: t}
}

func (t *memTx) Coupons() shared.CouponRepository {
	return &couponRepository{tx: t}
}

func (t *memTx) BoostUsages() shared.BoostUsageRepository {
	return &boostUsageRepository{tx: t}
}

func (t *memTx) LockOwner(ctx context.Context, ownerID uuid.UUID) error {
	if _, held := t.unlocks[ownerID]; held {
		return nil
	}
	unlock, err := t.store.owners.Lock(ctx, ownerID)
	if err != nil {
		return err
	}
	t.unlocks[ownerID] = unlock
	return nil
}

func (t *memTx) recordUndo(step func()) {
	t.undo = append(t.undo, step)
}

func (t *memTx) compensate() {
	if len(t.undo) == 0 {
		return
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	slog.Warn("memstore transaction compensated", "steps", len(t.undo))
	t.undo = nil
}

// finish drops the pre-images this transaction registered, making its writes (or their
// compensation) visible to leader lookups.
func (t *memTx) finish() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for key, p := range t.store.uncommitted {
		if p.tx == t {
			delete(t.store.uncommitted, key)
		}
	}
}

func (t *memTx) releaseLocks() {
	for id, unlock := range t.unlocks {
		unlock()
		delete(t.unlocks, id)
	}
}

func (t *memTx) checkWritable(collection string, id uuid.UUID) error {
	if t.readOnly {
		return errReadOnly
	}
	return t.store.runHook(collection, id)
}
