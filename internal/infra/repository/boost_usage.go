package repository

import (
	"context"
	"log/slog"
	"time"

	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/user"
	"popularity-engine/internal/infra"
	"popularity-engine/internal/infra/db"

	"github.com/google/uuid"
)

type BoostUsageRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewBoostUsageRepository(dbtx db.DBTX, logger *slog.Logger) *BoostUsageRepository {
	return &BoostUsageRepository{db: dbtx, logger: logger}
}

func (r *BoostUsageRepository) Find(ctx context.Context, ownerID uuid.UUID) (*user.BoostUsage, error) {
	rows, err := r.db.Query(ctx,
		"SELECT item_id, item_kind, expires_at FROM active_boosts WHERE owner_id = $1 ORDER BY expires_at", ownerID)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load boost usage", err)
	}
	defer rows.Close()

	var active []user.ActiveBoost
	for rows.Next() {
		var (
			itemID    uuid.UUID
			kind      string
			expiresAt time.Time
		)
		if err := rows.Scan(&itemID, &kind, &expiresAt); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan boost usage", err)
		}
		k, err := content.ParseKind(kind)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid item kind in boost usage", err)
		}
		active = append(active, user.ActiveBoost{ItemID: itemID, Kind: k, ExpiresAt: expiresAt.UTC()})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate boost usage", err)
	}
	return user.ReconstructBoostUsage(ownerID, active), nil
}

// Save replaces the owner's whole set. Callers run it inside the redemption transaction.
func (r *BoostUsageRepository) Save(ctx context.Context, usage *user.BoostUsage) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM active_boosts WHERE owner_id = $1", usage.OwnerID()); err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to clear boost usage", err)
	}
	for _, a := range usage.Active() {
		_, err := r.db.Exec(ctx,
			"INSERT INTO active_boosts (owner_id, item_id, item_kind, expires_at) VALUES ($1, $2, $3, $4)",
			usage.OwnerID(), a.ItemID, a.Kind.String(), a.ExpiresAt)
		if err != nil {
			return infra.WrapRepoErr(r.logger, infra.ClassifyPgErr(err), "failed to save boost usage", err)
		}
	}
	return nil
}
