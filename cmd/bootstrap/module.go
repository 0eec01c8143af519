package bootstrap

import (
	"popularity-engine/cmd/bootstrap/components"
	"popularity-engine/internal/infra/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	RedisModule,
	JWTModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
	fx.Invoke(registerMetrics),
)

func registerMetrics() {
	metrics.MustRegister(prometheus.DefaultRegisterer)
}
