package memstore

import (
	"log/slog"
	"sync"

	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/coupon"
	"popularity-engine/internal/domain/user"
	"popularity-engine/internal/infra"
	"popularity-engine/internal/infra/lock"

	"github.com/google/uuid"
)

const (
	CollectionItems   = "items"
	CollectionCoupons = "coupons"
	CollectionUsages  = "boost_usages"
)

// WriteHook runs before every write and may fail it. Tests use it to inject storage
// faults part way through a transaction.
type WriteHook func(collection string, id uuid.UUID) error

// Store is an in-memory document store. Each call is atomic on its own; multi-call
// atomicity is provided by UnitOfWork through compensation.
type Store struct {
	mu      sync.RWMutex
	items   map[content.Kind]map[uuid.UUID]content.Document
	coupons map[uuid.UUID]*coupon.Coupon
	usages  map[uuid.UUID]*user.BoostUsage

	// uncommitted holds the committed pre-image of every item an open unit of work has
	// written, so leader lookups from other units of work ignore in-flight scores.
	uncommitted map[itemKey]pendingItem

	owners *lock.LocalLocker
	logger *slog.Logger

	hookMu sync.RWMutex
	hook   WriteHook
}

func NewStore() *Store {
	items := make(map[content.Kind]map[uuid.UUID]content.Document, len(content.AllKinds()))
	for _, k := range content.AllKinds() {
		items[k] = make(map[uuid.UUID]content.Document)
	}
	return &Store{
		items:   items,
		coupons: make(map[uuid.UUID]*coupon.Coupon),
		usages:  make(map[uuid.UUID]*user.BoostUsage),

		uncommitted: make(map[itemKey]pendingItem),
		owners:  lock.NewLocalLocker(),
		logger:  slog.Default(),
	}
}

type itemKey struct {
	kind content.Kind
	id   uuid.UUID
}

type pendingItem struct {
	tx      *memTx
	prev    content.Document
	existed bool
}

// trackItem must be called with mu held. The first writer of an item owns the entry
// until it finishes.
func (s *Store) trackItem(tx *memTx, kind content.Kind, id uuid.UUID, prev content.Document, existed bool) {
	key := itemKey{kind: kind, id: id}
	if _, ok := s.uncommitted[key]; ok {
		return
	}
	s.uncommitted[key] = pendingItem{tx: tx, prev: prev, existed: existed}
}

// committedItem must be called with mu held. It returns what tx may see of the item
// for cross-transaction aggregates.
func (s *Store) committedItem(tx *memTx, kind content.Kind, id uuid.UUID, doc content.Document) (content.Document, bool) {
	p, ok := s.uncommitted[itemKey{kind: kind, id: id}]
	if !ok || p.tx == tx {
		return doc, true
	}
	return p.prev, p.existed
}

func (s *Store) SetWriteHook(hook WriteHook) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.hook = hook
}

func (s *Store) runHook(collection string, id uuid.UUID) error {
	s.hookMu.RLock()
	hook := s.hook
	s.hookMu.RUnlock()
	if hook == nil {
		return nil
	}
	if err := hook(collection, id); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "write to "+collection+" failed", err)
	}
	return nil
}

// PutDocument stores a raw document as-is, for seeding records written by other services.
func (s *Store) PutDocument(kind content.Kind, doc content.Document) error {
	if !kind.IsValid() {
		return content.ErrInvalidKind
	}
	if _, err := decodeItem(kind, doc); err != nil {
		return err
	}
	id, _ := asUUID(doc[fieldID])
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[kind][id] = cloneDocument(doc)
	return nil
}

// Document returns a copy of the raw stored document.
func (s *Store) Document(kind content.Kind, id uuid.UUID) (content.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.items[kind][id]
	if !ok {
		return nil, false
	}
	return cloneDocument(doc), true
}

func cloneDocument(doc content.Document) content.Document {
	out := make(content.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
