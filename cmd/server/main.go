package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unitprice/backend/config"
	httpDelivery "github.com/unitprice/backend/internal/delivery/http"
	"github.com/unitprice/backend/internal/infrastructure/limiter"
	"github.com/unitprice/backend/internal/logging"
	"github.com/unitprice/backend/internal/usecase"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("starting unitprice backend v1.0.0")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limits := limiter.NewStore(cfg.RateLimit.PerIP, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL)
	logger.Info().
		Int("perMinute", cfg.RateLimit.PerIP).
		Int("burst", cfg.RateLimit.Burst).
		Msg("rate limiting enabled")

	rankingService := usecase.NewRankingService(logger, usecase.RankingServiceConfig{
		Concurrency:        cfg.Ranking.Concurrency,
		MaxProducts:        cfg.Ranking.MaxProducts,
		EnableDebugLogging: cfg.Ranking.EnableDebugLogging,
	})

	handler := httpDelivery.NewHandler(rankingService)
	router := httpDelivery.SetupRouter(cfg, handler, limits, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		limits.Run(ctx, time.Minute)
		return nil
	})

	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped with error")
	}
	logger.Info().Msg("server stopped")
}
