package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens the local SQLite database backing the mission cargo cache.
// It returns a *gorm.DB handle or an error if the file cannot be opened.
// This is an optional handle: callers are expected to degrade to in-memory
// operation when the open fails rather than abort.
func Open(cfg Config) (*gorm.DB, error) {
	path := cfg.Path
	if path == "" {
		path = "missions.db"
	}

	// Make sure the parent directory exists; SQLite creates the file itself
	// but not intermediate directories.
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create cache directory: %w", err)
			}
		}
	}

	// Suppress GORM logging; warnings are surfaced through the main logger
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// The cache is single-writer local state; one connection avoids
	// SQLITE_BUSY between the engine and read-only CLI queries.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	return db, nil
}
