package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"sku-matcher/internal/config"
	matchHnd "sku-matcher/internal/matcher/handler"
	"sku-matcher/internal/middleware"
	"sku-matcher/server/http/handlers"
)

func NewRouter(cfg config.Config, provider matchHnd.SnapshotProvider, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)
	r.Get("/template", matchHnd.Template(logger))

	// основной эндпоинт
	r.Post("/match", matchHnd.Match(cfg, provider, logger))

	return r
}
