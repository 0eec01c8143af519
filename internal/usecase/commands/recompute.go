package commands

import (
	"context"
	"log/slog"
	"time"

	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/popularity"
	"popularity-engine/internal/infra/metrics"
	"popularity-engine/internal/pkg/clock"
	"popularity-engine/internal/usecase/shared"
)

type RecomputeResult struct {
	Kind      content.Kind
	Scanned   int
	Rewritten int
	Duration  time.Duration
}

//go:generate mockgen -source=recompute.go -destination=../../../tests/mock/commands/recompute_mock.go -package=commandsmock
type RecomputeCommands interface {
	// RecomputeKind rewrites the stored score of every item of kind using one shared now.
	RecomputeKind(ctx context.Context, kind content.Kind) (*RecomputeResult, error)
}

type recomputeUseCaseImpl struct {
	uow        shared.UnitOfWork
	reconciler *popularity.Reconciler
	clock      clock.Clock
}

func NewRecomputeUseCase(uow shared.UnitOfWork, reconciler *popularity.Reconciler, clk clock.Clock) RecomputeCommands {
	return &recomputeUseCaseImpl{uow: uow, reconciler: reconciler, clock: clk}
}

func (uc *recomputeUseCaseImpl) RecomputeKind(ctx context.Context, kind content.Kind) (*RecomputeResult, error) {
	if !kind.IsValid() {
		return nil, content.ErrInvalidKind
	}

	start := time.Now()
	now := uc.clock.Now()
	result := &RecomputeResult{Kind: kind}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		items, err := tx.Items().ListByKind(ctx, kind)
		if err != nil {
			return err
		}
		result.Scanned = len(items)
		result.Rewritten = 0

		for _, item := range items {
			completenessChanged := item.RefreshCompleteness()
			scoreChanged := uc.reconciler.Recompute(item, now)
			if !completenessChanged && !scoreChanged {
				continue
			}
			saved, err := tx.Items().SaveScore(ctx, item)
			if err != nil {
				return err
			}
			if saved {
				result.Rewritten++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	metrics.ObserveRecompute(string(kind), result.Duration, result.Rewritten)
	slog.Info("stored scores recomputed",
		"kind", kind,
		"scanned", result.Scanned,
		"rewritten", result.Rewritten,
		"duration_ms", result.Duration.Milliseconds())
	return result, nil
}
