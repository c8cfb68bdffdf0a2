package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/paytrack/paytrack-backend/internal/config"
	"github.com/paytrack/paytrack-backend/internal/handler"
	"github.com/paytrack/paytrack-backend/internal/ledger"
	"github.com/paytrack/paytrack-backend/internal/logging"
	"github.com/paytrack/paytrack-backend/internal/middleware"
	"github.com/paytrack/paytrack-backend/internal/repository"
	"github.com/paytrack/paytrack-backend/internal/statement"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("paytrack-api", cfg.LogLevel, cfg.AppEnv)

	if err := runMigrations(cfg); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ownerRepo := repository.NewOwnerRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	ledgerSvc := ledger.NewService(customerRepo, transactionRepo, db)
	renderer := statement.NewPDFRenderer()

	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(ownerRepo, cfg.JWTSecret, time.Duration(cfg.JWTExpiryH)*time.Hour)
	customerHandler := handler.NewCustomerHandler(ledgerSvc)
	ledgerHandler := handler.NewLedgerHandler(ledgerSvc)
	reportHandler := handler.NewReportHandler(ledgerSvc, renderer)

	authed := middleware.Auth(cfg.JWTSecret)
	idempotent := middleware.Idempotency(idempotencyRepo)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("GET /ready", healthHandler.Readiness)

	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	mux.Handle("POST /api/v1/customers", authed(idempotent(http.HandlerFunc(customerHandler.Create))))
	mux.Handle("GET /api/v1/customers", authed(http.HandlerFunc(customerHandler.List)))
	mux.Handle("DELETE /api/v1/customers/{name}", authed(http.HandlerFunc(customerHandler.Delete)))

	mux.Handle("POST /api/v1/customers/{name}/debts", authed(idempotent(http.HandlerFunc(ledgerHandler.AddDebt))))
	mux.Handle("POST /api/v1/customers/{name}/payments", authed(idempotent(http.HandlerFunc(ledgerHandler.MakePayment))))
	mux.Handle("GET /api/v1/customers/{name}/transactions", authed(http.HandlerFunc(ledgerHandler.History)))
	mux.Handle("GET /api/v1/customers/{name}/statement", authed(http.HandlerFunc(reportHandler.Statement)))

	mux.Handle("GET /api/v1/dashboard", authed(http.HandlerFunc(reportHandler.Dashboard)))

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go cleanIdempotencyCache(cleanupCtx, idempotencyRepo)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	stopCleanup()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func runMigrations(cfg *config.Config) error {
	m, err := migrate.New("file://"+cfg.MigrationsDir, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("runMigrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("runMigrations: %w", err)
	}
	return nil
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	var err error
	for i := range 30 {
		var db *sql.DB
		db, err = repository.NewPostgresDB(context.Background(), cfg.DatabaseURL, pool)
		if err == nil {
			return db, nil
		}
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}
	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", err)
}

func cleanIdempotencyCache(ctx context.Context, repo *repository.IdempotencyRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := repo.CleanExpired(ctx)
			if err != nil {
				slog.Error("idempotency cache cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("idempotency cache cleaned", "removed", removed)
			}
		}
	}
}
