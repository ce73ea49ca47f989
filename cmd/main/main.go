package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sku-matcher/internal/catalog"
	"sku-matcher/internal/config"
	serverhttp "sku-matcher/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg, os.Stdout)

	src, err := catalog.NewSource(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("catalog source")
	}
	provider, err := catalog.NewProvider(src, cfg.IndexCacheSize, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("catalog provider")
	}

	// прогрев: кривой справочник видно сразу в логе, но сервер всё равно стартует
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := provider.Snapshot(warmCtx); err != nil {
		logger.Warn().Err(err).Msg("catalog warm-up failed")
	}
	warmCancel()

	r := serverhttp.NewRouter(cfg, provider, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
