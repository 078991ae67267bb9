package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/orkinosai25-org/mosaic/internal/runtimeconfig"
	"github.com/orkinosai25-org/mosaic/internal/themes"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// ErrStorageUnsupported reports a dialect the container cannot open.
var ErrStorageUnsupported = errors.New("di: unsupported storage dialect")

// OpenBunDB opens the database described by cfg and ensures the theme tables exist.
func OpenBunDB(ctx context.Context, cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	var (
		driver string
		build  func(*sql.DB) *bun.DB
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Dialect)) {
	case "", "sqlite":
		driver = "sqlite3"
		build = func(db *sql.DB) *bun.DB { return bun.NewDB(db, sqlitedialect.New()) }
	case "postgres":
		driver = "postgres"
		build = func(db *sql.DB) *bun.DB { return bun.NewDB(db, pgdialect.New()) }
	default:
		return nil, fmt.Errorf("%w: %s", ErrStorageUnsupported, cfg.Dialect)
	}

	sqlDB, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("di: open %s: %w", driver, err)
	}
	if driver == "sqlite3" {
		sqlDB.SetMaxOpenConns(1)
	}
	db := build(sqlDB)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("di: ping %s: %w", driver, err)
	}
	if err := themes.RegisterModels(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
