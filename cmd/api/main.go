package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/review"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	submissions := repo.NewSubmissionRepository(runner)
	queueRepo := repo.NewQueueRepository(runner)
	comments := repo.NewCommentRepository(runner)

	engine := review.NewEngine(submissions, logger)
	queue := review.NewQueueService(queueRepo, domain.ParseClaimPolicy(cfg.QueueClaimPolicy), logger)
	bulk := review.NewCoordinator(engine, queue, submissions, cfg.BulkConcurrency, cfg.ItemTimeout, cfg.BulkMaxItems, logger)

	app := handlers.NewApp(engine, queue, bulk, submissions, comments, logger)

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip resolver disabled")
	} else if resolver != nil {
		defer func() { _ = resolver.Close() }()
		lookup = resolver.CountryCode
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AdminJWTSecret:  cfg.AdminJWTSecret,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		CountryLookup:   lookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
