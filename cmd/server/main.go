package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ledger-backend/internal/archive"
	"ledger-backend/internal/auth"
	"ledger-backend/internal/cache"
	"ledger-backend/internal/config"
	"ledger-backend/internal/database"
	"ledger-backend/internal/db"
	"ledger-backend/internal/events"
	"ledger-backend/internal/events/kafka"
	"ledger-backend/internal/handlers"
	"ledger-backend/internal/health"
	h "ledger-backend/internal/http"
	"ledger-backend/internal/interfaces"
	"ledger-backend/internal/middleware"
	"ledger-backend/internal/repositories"
	"ledger-backend/internal/repositories/memory"
	"ledger-backend/internal/services"
	"ledger-backend/internal/timeutil"
	"ledger-backend/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}
	if err := timeutil.SetLocation(cfg.Ledger.Timezone); err != nil {
		log.Fatalf("[Config] timezone: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage handle, injected everywhere below
	var (
		store  interfaces.Store
		pinger health.Pinger
	)
	switch cfg.Ledger.Store {
	case config.StoreMemory:
		log.Println("[Ledger] Using in-memory store, data is lost on restart")
		store = memory.NewStore()
	default:
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			log.Fatalf("[DB] %v", err)
		}
		defer pool.Close()

		if err := database.NewMigrator(pool, migrations.FS).RunMigrations(ctx); err != nil {
			log.Fatalf("[Migrate] %v", err)
		}
		store = repositories.NewStore(pool)
		pinger = pool
	}

	idempotency := idempotencyStore(ctx, cfg)
	publisher, closePublisher := eventPublisher(cfg)
	defer closePublisher()
	archiver := statementArchiver(ctx, cfg)

	// Services share one lock map so writers for a customer never interleave
	locks := services.NewKeyedLocks()
	directoryService := services.NewDirectoryService(store, store)
	ledgerService := services.NewLedgerService(store, publisher, idempotency, locks)
	clearingService := services.NewClearingService(store, publisher, locks)
	voidService := services.NewVoidService(store, publisher, locks)
	exportService := services.NewExportService(ledgerService, archiver)

	jwtManager := auth.NewJWTManager(cfg)
	if len(cfg.Auth.Operators) == 0 {
		log.Println("[Auth] No operators configured, nobody can log in (see cmd/hashpw)")
	}

	router := h.NewRouter(h.Handlers{
		Auth:      handlers.NewAuthHandler(cfg, jwtManager),
		Directory: handlers.NewDirectoryHandler(directoryService),
		Ledger:    handlers.NewLedgerHandler(ledgerService, clearingService, voidService),
		Report:    handlers.NewReportHandler(exportService),
		Health:    handlers.NewHealthHandler(health.NewHealthChecker(pinger)),
	}, middleware.NewAuthMiddleware(jwtManager))

	requestLogger := middleware.NewRequestLogger(nil)
	defer requestLogger.Close()

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(requestLogger.Handler(corsMiddleware(router)))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server running on %s (store: %s)", srv.Addr, cfg.Ledger.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-serverErr:
		log.Printf("Server failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

// idempotencyStore prefers Redis so keys are shared between instances and
// falls back to process memory when Redis is off or unreachable.
func idempotencyStore(ctx context.Context, cfg *config.Config) interfaces.IdempotencyStore {
	if cfg.Redis.Enabled {
		client, err := cache.Init(ctx, cfg)
		if err == nil {
			return cache.NewRedisIdempotency(client)
		}
		log.Printf("[Redis] Unavailable (%v), idempotency keys kept in memory", err)
	}
	return cache.NewMemoryIdempotency()
}

func eventPublisher(cfg *config.Config) (interfaces.EventPublisher, func()) {
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) == 0 {
		return events.Noop{}, func() {}
	}
	p := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.ClientID)
	log.Printf("[Kafka] Publishing ledger events to %v", cfg.Kafka.Brokers)
	return p, func() {
		if err := p.Close(); err != nil {
			log.Printf("[Kafka] close: %v", err)
		}
	}
}

func statementArchiver(ctx context.Context, cfg *config.Config) interfaces.Archiver {
	if !cfg.Archive.Enabled {
		return nil
	}
	a, err := archive.NewS3Archiver(ctx, cfg)
	if err != nil {
		log.Printf("[Archive] %v, statement archiving disabled", err)
		return nil
	}
	return a
}
