package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/coupon"
	"popularity-engine/internal/domain/popularity"
	"popularity-engine/internal/domain/user"
	"popularity-engine/internal/infra"
	"popularity-engine/internal/infra/metrics"
	"popularity-engine/internal/pkg/clock"
	"popularity-engine/internal/pkg/errs"
	"popularity-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errs.New("not found")
	ErrForbidden          = errs.New("not owned by caller")
	ErrAlreadyUsed        = errs.New("coupon already used")
	ErrCouponExpired      = errs.New("coupon expired")
	ErrConcurrencyCap     = errs.New("active boost limit reached")
	ErrItemTooYoung       = errs.New("item too young to boost")
	ErrCooldownActive     = errs.New("item boost cooldown active")
	ErrInvalidCouponInput = errs.New("invalid coupon request")
)

// Outcome is the result kind of a redemption attempt. Every failure kind is an expected,
// caller-recoverable condition.
type Outcome string

const (
	OutcomeRedeemed               Outcome = "redeemed"
	OutcomeNotFound               Outcome = "not_found"
	OutcomeForbidden              Outcome = "forbidden"
	OutcomeAlreadyUsed            Outcome = "already_used"
	OutcomeCouponExpired          Outcome = "coupon_expired"
	OutcomeConcurrencyCapExceeded Outcome = "concurrency_cap_exceeded"
	OutcomeItemTooYoung           Outcome = "item_too_young"
	OutcomeCooldownActive         Outcome = "cooldown_active"
)

var outcomeErrors = map[Outcome]error{
	OutcomeNotFound:               ErrNotFound,
	OutcomeForbidden:              ErrForbidden,
	OutcomeAlreadyUsed:            ErrAlreadyUsed,
	OutcomeCouponExpired:          ErrCouponExpired,
	OutcomeConcurrencyCapExceeded: ErrConcurrencyCap,
	OutcomeItemTooYoung:           ErrItemTooYoung,
	OutcomeCooldownActive:         ErrCooldownActive,
}

type IssueRequest struct {
	OwnerID uuid.UUID
	Kind    coupon.Kind
	Source  coupon.Source
}

type RedeemRequest struct {
	CouponID uuid.UUID
	OwnerID  uuid.UUID
	ItemID   uuid.UUID
	ItemKind content.Kind
}

type RedemptionResult struct {
	Outcome Outcome
	// Coupon and Item are the post-redemption state on success; on failure they hold
	// whatever was loaded before the failing check, unchanged.
	Coupon *coupon.Coupon
	Item   *content.Item
	// RemainingWait is set for OutcomeItemTooYoung and OutcomeCooldownActive.
	RemainingWait time.Duration
	InitialBoost  float64
}

func (r *RedemptionResult) Succeeded() bool {
	return r.Outcome == OutcomeRedeemed
}

// Err returns the sentinel for a failed outcome, or nil on success.
func (r *RedemptionResult) Err() error {
	return outcomeErrors[r.Outcome]
}

//go:generate mockgen -source=ledger.go -destination=../../../tests/mock/commands/ledger_mock.go -package=commandsmock
type CouponCommands interface {
	Issue(ctx context.Context, req IssueRequest) (*coupon.Coupon, error)
	Redeem(ctx context.Context, req RedeemRequest) (*RedemptionResult, error)
}

type ledgerUseCaseImpl struct {
	uow        shared.UnitOfWork
	locker     shared.OwnerLocker
	reconciler *popularity.Reconciler
	catchUp    popularity.CatchUpTable
	clock      clock.Clock
}

func NewLedgerUseCase(
	uow shared.UnitOfWork,
	locker shared.OwnerLocker,
	reconciler *popularity.Reconciler,
	catchUp popularity.CatchUpTable,
	clk clock.Clock,
) CouponCommands {
	return &ledgerUseCaseImpl{
		uow:        uow,
		locker:     locker,
		reconciler: reconciler,
		catchUp:    catchUp,
		clock:      clk,
	}
}

func (uc *ledgerUseCaseImpl) Issue(ctx context.Context, req IssueRequest) (*coupon.Coupon, error) {
	c, err := coupon.Issue(req.OwnerID, req.Kind, req.Source, uc.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCouponInput)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveCouponIssued(string(c.Kind()), string(c.Source()))
	slog.Info("coupon issued",
		"coupon_id", c.ID(),
		"owner_id", c.OwnerID(),
		"kind", c.Kind(),
		"source", c.Source())
	return c, nil
}

// Redeem runs checks 1 to 8 and the mutation under the owner's lock in one transaction.
// A non-nil error means infrastructure failure; rule failures are reported through the
// result's Outcome.
func (uc *ledgerUseCaseImpl) Redeem(ctx context.Context, req RedeemRequest) (*RedemptionResult, error) {
	unlock, err := uc.locker.Lock(ctx, req.OwnerID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to acquire owner lock")
	}
	defer unlock()

	var result *RedemptionResult
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if lerr := tx.LockOwner(ctx, req.OwnerID); lerr != nil {
			return lerr
		}
		var rerr error
		result, rerr = uc.redeemInTx(ctx, tx, req)
		if rerr != nil {
			return rerr
		}
		if !result.Succeeded() {
			return errRedemptionRejected
		}
		return nil
	})
	if err != nil && !errors.Is(err, errRedemptionRejected) {
		return nil, err
	}

	metrics.ObserveRedemption(string(result.Outcome))
	logArgs := []any{
		"coupon_id", req.CouponID,
		"owner_id", req.OwnerID,
		"item_id", req.ItemID,
		"item_kind", req.ItemKind,
		"outcome", result.Outcome,
	}
	if result.Succeeded() {
		slog.Info("coupon redeemed", append(logArgs, "initial_boost", result.InitialBoost)...)
	} else {
		slog.Info("coupon redemption rejected", append(logArgs, "remaining_wait", result.RemainingWait)...)
	}
	return result, nil
}

// errRedemptionRejected aborts the transaction without surfacing as an error.
var errRedemptionRejected = errs.New("redemption rejected")

func (uc *ledgerUseCaseImpl) redeemInTx(ctx context.Context, tx shared.Tx, req RedeemRequest) (*RedemptionResult, error) {
	now := uc.clock.Now()
	result := &RedemptionResult{}

	// 1
	c, err := tx.Coupons().Find(ctx, req.CouponID)
	if err != nil {
		if infra.IsNotFound(err) {
			result.Outcome = OutcomeNotFound
			return result, nil
		}
		return nil, err
	}
	result.Coupon = c

	// 2 to 4
	if verr := c.ValidateRedemption(req.OwnerID, now); verr != nil {
		result.Outcome = couponOutcome(verr)
		return result, nil
	}

	// 5
	usage, err := tx.BoostUsages().Find(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	usage.Prune(now)
	if !usage.HasCapacity() {
		result.Outcome = OutcomeConcurrencyCapExceeded
		return result, nil
	}

	// 6
	item, err := tx.Items().Find(ctx, req.ItemKind, req.ItemID)
	if err != nil {
		if infra.IsNotFound(err) {
			result.Outcome = OutcomeNotFound
			return result, nil
		}
		return nil, err
	}
	result.Item = item
	if !item.OwnedBy(req.OwnerID) {
		result.Outcome = OutcomeForbidden
		return result, nil
	}

	// 7, 8
	if eerr := item.Boost().CheckEligibility(item.CreatedAt(), now); eerr != nil {
		var wait *boost.WaitError
		if errors.As(eerr, &wait) {
			result.RemainingWait = wait.Remaining
		}
		if errors.Is(eerr, boost.ErrItemTooYoung) {
			result.Outcome = OutcomeItemTooYoung
		} else {
			result.Outcome = OutcomeCooldownActive
		}
		return result, nil
	}

	return uc.applyRedemption(ctx, tx, result, usage, now)
}

func (uc *ledgerUseCaseImpl) applyRedemption(
	ctx context.Context,
	tx shared.Tx,
	result *RedemptionResult,
	usage *user.BoostUsage,
	now time.Time,
) (*RedemptionResult, error) {
	item := result.Item.Clone()
	c := result.Coupon.Clone()

	maxStored, err := tx.Items().FindMaxStoredScore(ctx, item.Kind())
	if err != nil {
		return nil, err
	}
	initial := uc.catchUp.InitialBoost(item.Kind(), maxStored)

	item.ActivateBoost(initial, c.Kind(), now)
	item.RefreshCompleteness()
	uc.reconciler.Recompute(item, now)
	if err = tx.Items().Save(ctx, item); err != nil {
		return nil, err
	}

	if err = c.MarkRedeemed(item.ID(), item.Kind(), now); err != nil {
		return nil, err
	}
	if err = tx.Coupons().Save(ctx, c); err != nil {
		return nil, err
	}

	if err = usage.Add(item.ID(), item.Kind(), *item.Boost().ExpiresAt()); err != nil {
		return nil, err
	}
	if err = tx.BoostUsages().Save(ctx, usage); err != nil {
		return nil, err
	}

	return &RedemptionResult{
		Outcome:      OutcomeRedeemed,
		Coupon:       c,
		Item:         item,
		InitialBoost: initial,
	}, nil
}

func couponOutcome(err error) Outcome {
	switch {
	case errors.Is(err, coupon.ErrNotOwner):
		return OutcomeForbidden
	case errors.Is(err, coupon.ErrAlreadyRedeemed):
		return OutcomeAlreadyUsed
	default:
		return OutcomeCouponExpired
	}
}
