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

	"github.com/diewo77/devconnect/auth"
	"github.com/diewo77/devconnect/internal/config"
	"github.com/diewo77/devconnect/internal/db"
	"github.com/diewo77/devconnect/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "devconnect",
	Short: "DevConnect API server",
	Long: `DevConnect serves the developer profile and post API.

Configuration comes from the environment (and a .env file when present).
Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load environment variables from .env file
		_ = godotenv.Load()

		cfg = config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}
		var err error
		logger, err = logging.New(cfg.App.LogLevel, cfg.App.Dev)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the store schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := db.Open(cmd.Context(), cfg.Database, cfg.App.Dev, logger)
		if err != nil {
			return err
		}
		defer h.Close(context.Background())
		if err := db.Migrate(cmd.Context(), h); err != nil {
			return err
		}
		logger.Info("migrations completed")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo account, profile and post, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := db.Open(cmd.Context(), cfg.Database, cfg.App.Dev, logger)
		if err != nil {
			return err
		}
		defer h.Close(context.Background())
		if err := db.Migrate(cmd.Context(), h); err != nil {
			return err
		}
		if err := db.Seed(cmd.Context(), h); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		logger.Info("seeding completed", zap.String("email", db.SeedEmail))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// runServe opens the store, starts the HTTP server and blocks until ctx is
// cancelled, then shuts down gracefully.
func runServe(ctx context.Context) error {
	h, err := db.Open(ctx, cfg.Database, cfg.App.Dev, logger)
	if err != nil {
		return err
	}
	defer h.Close(context.Background())

	// Run migrations on startup if enabled
	if cfg.App.Migrations {
		if err := db.Migrate(ctx, h); err != nil {
			return err
		}
		logger.Info("migrations completed")
	}

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	routerCfg := NewRouterConfig(h, tokens, cfg.Auth.BcryptCost, logger)
	app := NewApp(routerCfg, cfg.App.Metrics)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.Database.Driver),
			zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server stopped gracefully")
		return nil
	})
	return g.Wait()
}
