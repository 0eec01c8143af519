package components

import (
	"log/slog"

	"popularity-engine/internal/infra/lock"
	"popularity-engine/internal/infra/memstore"
	"popularity-engine/internal/infra/uow"
	"popularity-engine/internal/pkg/config"
	"popularity-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewUnitOfWork,
		NewOwnerLocker,
	),
)

// NewUnitOfWork picks the store backend. A nil pool means the in-memory store was selected.
func NewUnitOfWork(pool *pgxpool.Pool, logger *slog.Logger) shared.UnitOfWork {
	if pool == nil {
		logger.Warn("using in-memory store; data is lost on restart")
		return memstore.NewUnitOfWork(memstore.NewStore())
	}
	return uow.NewPostgresUoW(pool, logger)
}

func NewOwnerLocker(cfg config.Config, client *redis.Client) shared.OwnerLocker {
	if client == nil {
		return lock.NewLocalLocker()
	}
	return lock.NewRedisLocker(client, cfg.Redis.LockTTL)
}
