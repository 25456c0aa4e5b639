package server

import (
	"context"
	"net/http"
	"tier-resolver/internal/config"
	"tier-resolver/internal/domain"
	"tier-resolver/internal/metrics"
	"tier-resolver/internal/middleware"
	"tier-resolver/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Engine is the query and administration surface served over HTTP.
type Engine interface {
	ResolveTier(ctx context.Context, username, mode string) (domain.DisplayResult, error)
	ResolveRank(ctx context.Context, username string) (domain.RankDisplay, error)
	ResolveEloTag(ctx context.Context, username string) (domain.DisplayResult, error)
	ResolveVanillaTier(ctx context.Context, username, mode string) (domain.DisplayResult, error)
	ListOverrides(ctx context.Context, username string) (*service.OverrideListing, error)
	SetTierOverride(ctx context.Context, username, mode, code string) (*domain.Override, error)
	SetRankOverride(ctx context.Context, username, rank string) (*domain.Override, error)
	SetPointsOverride(ctx context.Context, username string, points int) (*domain.Override, error)
	ResetOverrides(ctx context.Context, username string) (int64, error)
}

type TierServer struct {
	engine     Engine
	metrics    *metrics.Metrics
	adminToken string
	logger     zerolog.Logger
}

func NewTierServer(resolver *service.Resolver, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *TierServer {
	return newTierServer(resolver, cfg.AdminToken, m, logger)
}

func newTierServer(engine Engine, adminToken string, m *metrics.Metrics, logger zerolog.Logger) *TierServer {
	return &TierServer{engine: engine, metrics: m, adminToken: adminToken, logger: logger}
}

func (s *TierServer) Routes() http.Handler {
	r := chi.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	r.Use(middleware.RequestID(s.logger, s.metrics))
	r.Use(chimw.Recoverer)
	r.Use(c.Handler)

	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/players/{username}/tiers/{mode}", s.getTier)
		r.Get("/players/{username}/rank", s.getRank)
		r.Get("/players/{username}/elo-tier", s.getEloTier)
		r.Get("/players/{username}/vanilla/{mode}", s.getVanillaTier)

		r.Route("/admin/players/{username}", func(r chi.Router) {
			r.Use(middleware.AdminToken(s.adminToken))
			r.Get("/overrides", s.listOverrides)
			r.Delete("/overrides", s.resetOverrides)
			r.Put("/tiers/{mode}", s.setTier)
			r.Put("/rank", s.setRank)
			r.Put("/points", s.setPoints)
		})
	})

	return r
}
