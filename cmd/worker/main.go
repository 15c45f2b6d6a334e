package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	financeapp "github.com/bizcentral/backend/internal/application/finance"
	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/bizcentral/backend/internal/infrastructure/cache"
	"github.com/bizcentral/backend/internal/infrastructure/config"
	"github.com/bizcentral/backend/internal/infrastructure/event"
	"github.com/bizcentral/backend/internal/infrastructure/logger"
	"github.com/bizcentral/backend/internal/infrastructure/persistence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting finance automation worker",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	if cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Event bus and idempotency store
	bus := event.NewInMemoryEventBus(log.Named("bus"))
	store := cache.NewIdempotencyStore(&cfg.Redis, log)
	defer func() {
		_ = store.Close()
	}()

	// Application services
	scope := persistence.NewGormTransactionScope(db.DB, cfg.Sequence.ShardCount, cfg.Event.MaxRetries)
	resolver := financeapp.NewAccountResolver(log.Named("resolver"))
	numbering := financeapp.NumberingConfig{
		OrderPrefix:   cfg.Numbering.OrderPrefix,
		InvoicePrefix: cfg.Numbering.InvoicePrefix,
		VoucherPrefix: cfg.Numbering.VoucherPrefix,
		Digits:        cfg.Numbering.Digits,
	}

	handlers := []shared.EventHandler{
		financeapp.NewOrderCreatedHandler(scope, resolver, numbering, bus, log.Named("order_created")),
		financeapp.NewInvoiceCreatedHandler(scope, resolver, numbering, bus, log.Named("invoice_created")),
		financeapp.NewOrderDeliveredHandler(scope, log.Named("order_delivered")),
	}
	idemCfg := shared.IdempotencyConfig{TTL: cfg.Event.IdempotencyTTL, Enabled: true}
	for _, h := range event.WrapHandlersWithIdempotency(handlers, store, log.Named("idempotency"),
		event.WithIdempotencyConfig(idemCfg),
	) {
		bus.Subscribe(h)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Idempotency marker retention
	if cfg.Event.CleanupEnabled {
		cleaner := persistence.NewProcessedEventCleaner(db.DB, cfg.Event.CleanupRetention, 0, log.Named("cleanup"))
		go cleaner.Start(ctx)
	}

	// Document change ingress
	codec := event.NewCodec(log.Named("codec"))
	listener := event.NewPgListener(cfg.Database.DSN(), codec, bus, log.Named("listener"))
	listenerErr := make(chan error, 1)
	go func() {
		listenerErr <- listener.Start(ctx)
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-listenerErr:
		if err != nil && err != context.Canceled {
			log.Error("Listener stopped unexpectedly", zap.Error(err))
		}
	}

	// Graceful shutdown: stop taking new notifications, drain the bus
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := listener.Stop(shutdownCtx); err != nil {
		log.Warn("Listener close reported error", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus stop reported error", zap.Error(err))
	}

	log.Info("Worker stopped")
}
