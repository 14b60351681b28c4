package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gilanghuda/habit-tracker-backend/pkg/config"
	"github.com/gilanghuda/habit-tracker-backend/pkg/logger"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var DB *sql.DB

// Driver is the dialect DB was opened with.
var Driver string

// Open connects to the configured backend without touching the globals.
func Open(cfg *config.Config) (*sql.DB, error) {
	switch cfg.DBDriver {
	case DriverPostgres:
		db, err := sql.Open(DriverPostgres, cfg.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("error open connecting: %w", err)
		}
		return db, nil
	case DriverSQLite:
		return OpenSQLite(cfg.DBPath)
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
}

// OpenSQLite opens a sqlite file with foreign keys on. A single connection
// keeps writers from tripping over SQLITE_BUSY.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open(DriverSQLite, path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func InitDB(cfg *config.Config) (*sql.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	DB = db
	Driver = cfg.DBDriver
	logger.Info("Successfully connected to the database", "driver", cfg.DBDriver)
	return DB, nil
}

func CloseDB() error {
	if DB != nil {
		err := DB.Close()
		if err != nil {
			return fmt.Errorf("error closing database connection: %w", err)
		}
		logger.Info("Database connection closed")
	}
	return nil
}
