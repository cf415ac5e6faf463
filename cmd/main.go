package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/freightworks/quotation-service/internal/auth"
	"github.com/freightworks/quotation-service/internal/cache"
	"github.com/freightworks/quotation-service/internal/db"
	"github.com/freightworks/quotation-service/internal/handlers"
	"github.com/freightworks/quotation-service/internal/pdf"
	"github.com/freightworks/quotation-service/internal/repository"
	"github.com/freightworks/quotation-service/internal/router"
	"github.com/freightworks/quotation-service/internal/router/config"
	"github.com/freightworks/quotation-service/internal/services"
	"github.com/freightworks/quotation-service/internal/worker"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("cannot init logger:", err)
	}
	defer logger.Sync()

	runDBMigration(cfg.MigrationURL, cfg.PostgresConn, logger)

	dbPool, err := db.InitDb(cfg)
	if err != nil {
		logger.Fatal("error initializing database", zap.Error(err))
	}
	defer dbPool.Close()

	var quoteCache services.QuoteCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewQuoteCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.QuoteCacheTTL, logger)
		if err != nil {
			logger.Fatal("error initializing redis", zap.Error(err))
		}
		defer redisCache.Close()
		quoteCache = redisCache
	} else {
		logger.Warn("REDIS_ADDR is not set, quote cache disabled")
	}

	quoteRepo := repository.NewPostgresQuoteRepository(dbPool)
	rateRepo := repository.NewPostgresRateRepository(dbPool)
	userRepo := repository.NewPostgresUserRepository(dbPool)

	renderer := pdf.NewGenerator(cfg.UploadDir)
	pdfQueue := worker.NewPdfQueue(cfg.PdfQueueSize, quoteRepo, userRepo, renderer, cfg.PdfRenderTimeout, logger)
	pdfQueue.Start(cfg.PdfWorkers)

	quotationService := services.NewQuotationService(
		quoteRepo,
		userRepo,
		services.NewQuoteValidator(),
		services.NewRateMatcher(rateRepo),
		services.NewPriceCalculator(),
		pdfQueue,
		renderer,
		quoteCache,
		logger,
	)
	rateService := services.NewRateService(rateRepo)

	quoteHandler := handlers.NewQuoteHandler(quotationService, logger, cfg.RequestTimeout)
	rateHandler := handlers.NewRateHandler(rateService, logger, cfg.RequestTimeout)
	authMw := auth.NewMiddleware(cfg.JWTSecret)

	routes := router.InitRoutes(quoteHandler, rateHandler, authMw, cfg.UploadDir, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: routes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server is listening", zap.String("address", cfg.ServerAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	// Дожидаемся уже принятых PDF-задач, новые не принимаются.
	pdfQueue.Close()
}

func runDBMigration(migrationURL string, dbSource string, logger *zap.Logger) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		logger.Fatal("cannot create a new migrate instance", zap.Error(err))
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Fatal("failed to run migrate up", zap.Error(err))
	}
	logger.Info("db migrated successfully")
}
