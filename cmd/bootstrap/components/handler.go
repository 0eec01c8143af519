package components

import (
	"popularity-engine/internal/handler"
	"popularity-engine/internal/handler/api"
	"popularity-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewPopularHandler,
		api.NewCouponHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
		func(popular *api.PopularHandler, coupon *api.CouponHandler, admin *api.AdminHandler) handler.Handlers {
			return handler.Handlers{Popular: popular, Coupon: coupon, Admin: admin}
		},
	),
	fx.Invoke(handler.NewRouter),
)
