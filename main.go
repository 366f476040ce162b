package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"azarpredictor-backend/config"
	"azarpredictor-backend/internal/api"
	"azarpredictor-backend/internal/database"
	"azarpredictor-backend/internal/generator"
	"azarpredictor-backend/internal/ledger"
	"azarpredictor-backend/internal/metrics"
	"azarpredictor-backend/internal/services"
	"azarpredictor-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// @title AzarPredictor API
// @version 1.0
// @description Lottery combination generator gated by per-user credits and daily quotas.
// @BasePath /api

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.InitLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
		Console:    cfg.LogConsole,
	}); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	rdb, err := database.ConnectRedis(ctx, cfg)
	if err != nil {
		// the status cache is optional
		logger.Log.Warn("redis unavailable, running without status cache", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	gen, err := generator.New(generator.DefaultConfig())
	if err != nil {
		return err
	}

	rules := ledger.DefaultRules()
	rules.CostPerPrediction = cfg.CostPerPrediction
	rules.DailyLimit = cfg.DailyPredictionLimit

	locks := ledger.NewKeyedMutex()
	accounts := services.NewAccountService(db, rdb, locks, rules, cfg.LedgerSecret)
	predictions := services.NewPredictionService(db, accounts, gen, locks, rules, cfg.LedgerSecret)
	ledgerSvc := services.NewLedgerService(db, cfg.LedgerSecret)

	if cfg.SeedDemoUser {
		if err := accounts.SeedDemo(ctx, cfg.DemoUserID, cfg.BronzeInitialCredits); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.MustRegister(reg)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.Dependencies{
		Config:      cfg,
		DB:          db,
		Redis:       rdb,
		Accounts:    accounts,
		Predictions: predictions,
		Ledger:      ledgerSvc,
		Denylist:    services.NewTokenDenylist(rdb),
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	if cfg.JWTSecret == "" {
		logger.Log.Warn("JWT_SECRET not set, admin routes disabled")
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("server listening", zap.String("addr", srv.Addr), zap.String("db_driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
