package components

import (
	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/popularity"
	"popularity-engine/internal/pkg/clock"
	"popularity-engine/internal/pkg/config"
	"popularity-engine/internal/usecase"
	"popularity-engine/internal/usecase/commands"
	"popularity-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) *popularity.Calculator {
		return popularity.NewCalculator(weightsFromConfig(cfg.Scoring))
	},
	func(cfg config.Config) popularity.CatchUpTable {
		return catchUpFromConfig(cfg.Scoring)
	},
	popularity.NewReconciler,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewLedgerUseCase,
		commands.NewRecomputeUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewPopularQueries,
		queries.NewCouponQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func weightsFromConfig(cfg config.ScoringConfig) popularity.WeightTable {
	return popularity.WeightTable{
		content.KindImage: {Click: cfg.ImageClick, Like: cfg.ImageLike, View: cfg.ImageView, Complete: cfg.ImageComplete},
		content.KindVideo: {Click: cfg.VideoClick, Like: cfg.VideoLike, View: cfg.VideoView, Complete: cfg.VideoComplete},
		content.KindMusic: {Click: cfg.MusicClick, Like: cfg.MusicLike, View: cfg.MusicView, Complete: cfg.MusicComplete},
	}
}

func catchUpFromConfig(cfg config.ScoringConfig) popularity.CatchUpTable {
	return popularity.CatchUpTable{
		content.KindImage: {Ratio: cfg.ImageBoostRatio, Floor: cfg.ImageBoostFloor},
		content.KindVideo: {Ratio: cfg.VideoBoostRatio, Floor: cfg.VideoBoostFloor},
		content.KindMusic: {Ratio: cfg.MusicBoostRatio, Floor: cfg.MusicBoostFloor},
	}
}
