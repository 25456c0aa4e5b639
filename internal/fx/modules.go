package fx

import (
	"context"
	"database/sql"
	"tier-resolver/internal/api"
	"tier-resolver/internal/cache"
	"tier-resolver/internal/config"
	"tier-resolver/internal/database"
	"tier-resolver/internal/db"
	"tier-resolver/internal/logger"
	"tier-resolver/internal/metrics"
	"tier-resolver/internal/repository"
	"tier-resolver/internal/scraper"
	"tier-resolver/internal/server"
	"tier-resolver/internal/service"
	"tier-resolver/internal/snapshot"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

// ProvideProfileCache uses redis when REDIS_URL is set, otherwise an in-process map.
func ProvideProfileCache(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (cache.ProfileCache, error) {
	if cfg.RedisURL == "" {
		return cache.NewMemoryProfileCache(m), nil
	}
	rc, err := cache.NewRedisProfileCache(cfg.RedisURL, logger, m)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return rc.Close()
		},
	})
	return rc, nil
}

func ProvideExtractor(cfg *config.Config) scraper.Extractor {
	return scraper.New(cfg.Scraper)
}

func ProvideSnapshotChain(cfg *config.Config, pages *api.PageClient, logger zerolog.Logger, m *metrics.Metrics) *snapshot.Chain {
	return snapshot.NewChain(logger, m,
		snapshot.NewLiveSource(cfg.VanillaListURL, pages),
		snapshot.NewDiskSource(cfg.VanillaListURL, cfg.DataDir, pages, logger),
		snapshot.NewBundledSource(),
	)
}

func ProvideProfileService(identity *api.IdentityClient, ranking *api.RankingClient, profiles cache.ProfileCache, logger zerolog.Logger) *service.ProfileService {
	return service.NewProfileService(identity, ranking, profiles, logger)
}

func ProvideVanillaService(tiers *cache.TierMapCache, chain *snapshot.Chain, extractor scraper.Extractor, logger zerolog.Logger) *service.VanillaService {
	return service.NewVanillaService(tiers, chain, extractor, logger)
}

func ProvideEloService(elo *api.EloClient, logger zerolog.Logger) *service.EloService {
	return service.NewEloService(elo, logger)
}

func ProvideResolver(
	overrides *repository.OverrideRepository,
	events *repository.EventRepository,
	profiles *service.ProfileService,
	vanilla *service.VanillaService,
	elo *service.EloService,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *service.Resolver {
	return service.NewResolver(overrides, events, profiles, vanilla, elo, m, logger)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	fx.Provide(metrics.New),
	// repos
	fx.Provide(repository.NewOverrideRepository),
	fx.Provide(repository.NewEventRepository),
	// api clients
	fx.Provide(api.NewIdentityClient),
	fx.Provide(api.NewRankingClient),
	fx.Provide(api.NewPageClient),
	fx.Provide(api.NewEloClient),
	// caches
	fx.Provide(ProvideProfileCache),
	fx.Provide(cache.NewTierMapCache),
	// page snapshots
	fx.Provide(ProvideExtractor),
	fx.Provide(ProvideSnapshotChain),
	// svc
	fx.Provide(ProvideProfileService),
	fx.Provide(ProvideVanillaService),
	fx.Provide(ProvideEloService),
	fx.Provide(ProvideResolver),
	// server
	fx.Provide(server.NewTierServer),
)
