package bootstrap

import (
	"popularity-engine/internal/pkg/config"
	"popularity-engine/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

func NewJWTService(cfg config.Config) (*jwt.Service, error) {
	return jwt.NewService(cfg.JWT)
}
