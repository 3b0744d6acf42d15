package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/bizhub-erp/bizhub/internal/app"
	"github.com/bizhub-erp/bizhub/internal/cash"
	"github.com/bizhub-erp/bizhub/internal/expenses"
	"github.com/bizhub-erp/bizhub/internal/items"
	"github.com/bizhub-erp/bizhub/internal/observability"
	"github.com/bizhub-erp/bizhub/internal/parties"
	"github.com/bizhub-erp/bizhub/internal/pdf"
	"github.com/bizhub-erp/bizhub/internal/platform/cache"
	"github.com/bizhub-erp/bizhub/internal/platform/db"
	"github.com/bizhub-erp/bizhub/internal/purchases"
	"github.com/bizhub-erp/bizhub/internal/reports"
	"github.com/bizhub-erp/bizhub/internal/sales"
	"github.com/bizhub-erp/bizhub/internal/view"
	"github.com/bizhub-erp/bizhub/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.Connect(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	if err := reportCache.ListenForInvalidation(ctx); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}
	reportRepo := reports.NewRepository(dbpool)
	reportService := reports.NewService(logger, reportRepo, reportCache)
	reportHandler := reports.NewHandler(logger, reportService)

	partyRepo := parties.NewRepository(dbpool)
	partyService := parties.NewService(partyRepo)
	partyHandler := parties.NewHandler(logger, partyService)

	itemRepo := items.NewRepository(dbpool)
	itemService := items.NewService(itemRepo)
	itemHandler := items.NewHandler(logger, itemService)

	saleRepo := sales.NewRepository(dbpool)
	saleService := sales.NewService(logger, saleRepo, partyRepo, reportService)
	var pdfClient *pdf.Client
	if cfg.GotenbergURL != "" {
		pdfClient = pdf.NewClient(cfg.GotenbergURL)
		if err := pdfClient.Ping(ctx); err != nil {
			logger.Warn("gotenberg ping", slog.Any("error", err))
		}
	}
	saleHandler := sales.NewHandler(logger, saleService, templates, pdfClient)

	purchaseRepo := purchases.NewRepository(dbpool)
	purchaseService := purchases.NewService(logger, purchaseRepo, partyRepo, reportService)
	purchaseHandler := purchases.NewHandler(logger, purchaseService)

	expenseRepo := expenses.NewRepository(dbpool)
	expenseService := expenses.NewService(logger, expenseRepo, reportService)
	expenseHandler := expenses.NewHandler(logger, expenseService)

	cashRepo := cash.NewRepository(dbpool)
	cashService := cash.NewService(logger, cashRepo, reportService)
	cashHandler := cash.NewHandler(logger, cashService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		PartiesHandler:   partyHandler,
		ItemsHandler:     itemHandler,
		SalesHandler:     saleHandler,
		PurchasesHandler: purchaseHandler,
		ExpensesHandler:  expenseHandler,
		CashHandler:      cashHandler,
		ReportsHandler:   reportHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
