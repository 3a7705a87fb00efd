// Package db opens the configured store backend and prepares its schema.
package db

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/diewo77/devconnect/internal/config"
	"github.com/diewo77/devconnect/internal/store"
	"github.com/diewo77/devconnect/internal/store/gormstore"
	"github.com/diewo77/devconnect/internal/store/mongostore"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Handle is an open store that can also migrate its own schema.
type Handle interface {
	store.Store
	Migrate(ctx context.Context) error
}

const connectAttempts = 5

var passwordRe = regexp.MustCompile(`(password=)(\S+)`)

// maskDSN hides the password of a key=value DSN for logging.
func maskDSN(dsn string) string {
	return passwordRe.ReplaceAllString(dsn, `${1}***`)
}

// Open connects to the backend named by cfg.Driver, retrying while the
// database starts up.
func Open(ctx context.Context, cfg config.DatabaseConfig, dev bool, log *zap.Logger) (Handle, error) {
	var (
		h   Handle
		err error
	)
	for i := 1; i <= connectAttempts; i++ {
		h, err = open(ctx, cfg, dev)
		if err == nil {
			if err = h.Ping(ctx); err == nil {
				break
			}
			_ = h.Close(ctx)
		}
		log.Warn("store connection failed",
			zap.String("driver", cfg.Driver),
			zap.Int("attempt", i),
			zap.Int("max", connectAttempts),
			zap.Error(err))
		if i == connectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s store after retries: %w", cfg.Driver, err)
	}
	log.Info("store connected", zap.String("driver", cfg.Driver))
	return h, nil
}

func open(ctx context.Context, cfg config.DatabaseConfig, dev bool) (Handle, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openGorm(postgres.Open(cfg.DSN()), dev, maskDSN(cfg.DSN()))
	case config.DriverSQLite:
		return openGorm(sqlite.Open(cfg.SQLitePath), dev, cfg.SQLitePath)
	case config.DriverMongo:
		return mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func openGorm(dialector gorm.Dialector, dev bool, target string) (Handle, error) {
	level := logger.Silent
	if dev {
		level = logger.Warn
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", target, err)
	}
	return gormstore.New(gdb), nil
}

// Migrate creates or updates the schema (tables for SQL, indexes for MongoDB).
func Migrate(ctx context.Context, h Handle) error {
	if err := h.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
