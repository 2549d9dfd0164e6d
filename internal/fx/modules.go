package fx

import (
	"go.uber.org/fx"

	"frontline-tracker/internal/cache"
	"frontline-tracker/internal/config"
	"frontline-tracker/internal/database"
	"frontline-tracker/internal/fetch"
	"frontline-tracker/internal/geo"
	"frontline-tracker/internal/logger"
	"frontline-tracker/internal/rank"
	"frontline-tracker/internal/refdata"
	"frontline-tracker/internal/repository"
	"frontline-tracker/internal/server"
	"frontline-tracker/internal/service"
	"frontline-tracker/internal/snapshot"
	"frontline-tracker/internal/upstream"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(refdata.Load),
	fx.Provide(database.New),
	fx.Provide(cache.NewMemory),
	fx.Provide(rank.NewCalculator),
	fx.Provide(geo.NewLocator),
	// upstream
	fx.Provide(fetch.NewClient),
	fx.Provide(func(c *fetch.Client) upstream.Getter { return c }),
	fx.Provide(upstream.NewServerList),
	fx.Provide(upstream.NewPlayerList),
	// persistence
	fx.Provide(repository.NewAccountRepository),
	fx.Provide(repository.NewSnapshotRepository),
	fx.Provide(func(r *repository.SnapshotRepository) snapshot.Repository { return r }),
	fx.Provide(func(r *repository.AccountRepository) snapshot.Accounts { return r }),
	fx.Provide(snapshot.NewStore),
	// svc
	fx.Provide(service.NewTracker),
	fx.Provide(service.NewCapture),
	// http
	fx.Provide(server.New),
)
