package data

import (
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"go-blog-app/internal/config"
)

// NewDB creates a new database connection pool for the configured driver.
func NewDB(cfg config.DBConfig) (*sqlx.DB, error) {
	// sqlx.Connect opens a connection and pings it to verify it's alive.
	db, err := sqlx.Connect(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if isSQLite(cfg.Driver) {
		// SQLite allows a single writer; serialising on one connection also
		// keeps in-memory databases alive for the life of the pool.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}
	return db, nil
}

// ApplyMigrations runs all up migrations found under migrationsPath/<dialect>.
func ApplyMigrations(cfg config.DBConfig) error {
	dialect := "mysql"
	migrateDSN := fmt.Sprintf("mysql://%s", cfg.DSN)
	if isSQLite(cfg.Driver) {
		dialect = "sqlite"
		migrateDSN = fmt.Sprintf("sqlite3://%s", cfg.DSN)
	}

	absPath, err := filepath.Abs(filepath.Join(cfg.Migrations, dialect))
	if err != nil {
		return fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}
	sourceURL := fmt.Sprintf("file://%s", absPath)

	m, err := migrate.New(sourceURL, migrateDSN)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

func isSQLite(driver string) bool {
	return strings.HasPrefix(driver, "sqlite")
}
