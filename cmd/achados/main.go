package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/uft-palmas/achados/internal/api"
	"github.com/uft-palmas/achados/internal/auth"
	"github.com/uft-palmas/achados/internal/config"
	"github.com/uft-palmas/achados/internal/db"
	"github.com/uft-palmas/achados/internal/logging"
	"github.com/uft-palmas/achados/internal/service"
	"github.com/uft-palmas/achados/internal/store"
	"github.com/uft-palmas/achados/internal/web"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Path:   cfg.LogPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg); err != nil {
		slog.Error("fatal", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	_, statErr := os.Stat(cfg.DBPath)
	firstRun := os.IsNotExist(statErr)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Migrations are idempotent and also bring older databases up to date.
	if err := db.Migrate(ctx, database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	slog.Info("database ready", "path", cfg.DBPath)

	jwtSecret, err := loadJWTSecret(ctx, database, cfg.JWTSecret)
	if err != nil {
		return err
	}

	svc := service.New(database, jwtSecret, cfg.TokenTTL)

	if firstRun {
		password, err := bootstrapStaff(ctx, svc, cfg.AdminUser)
		if err != nil {
			database.Close()
			os.Remove(cfg.DBPath)
			return fmt.Errorf("initializing database: %w", err)
		}
		printInitResult(cfg.DBPath, cfg.AdminUser, password)
		fmt.Println()
	}

	webRouter, err := web.NewRouter(svc, cfg.SecureCookies)
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(svc))
	mux.Handle("/", webRouter)

	handler := middleware.RequestID(
		middleware.RealIP(
			api.LoggingMiddleware(
				middleware.Recoverer(mux))))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// loadJWTSecret stores a configured secret, or falls back to the one
// persisted in the database (generated on first use).
func loadJWTSecret(ctx context.Context, database *sql.DB, configured string) (string, error) {
	if configured != "" {
		if err := store.SetJWTSecret(ctx, database, configured); err != nil {
			return "", fmt.Errorf("storing JWT secret: %w", err)
		}
		return configured, nil
	}
	secret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return "", fmt.Errorf("getting JWT secret: %w", err)
	}
	return secret, nil
}

// bootstrapStaff creates the first staff account with a random password.
func bootstrapStaff(ctx context.Context, svc *service.Service, username string) (string, error) {
	password, err := auth.GeneratePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	if _, err := svc.CreateStaffUser(ctx, username, password); err != nil {
		return "", fmt.Errorf("creating staff user: %w", err)
	}
	return password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Migrations applied.")
	fmt.Println()
	fmt.Println("Staff account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("It can be changed on the account page after logging in.")
}
