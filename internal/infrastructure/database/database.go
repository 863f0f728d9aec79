package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Pool defaults sized for the interview workload: handlers hold a connection
// only around short reads and single-row appends, while the slow part of an
// exchange is the completion call, which holds no connection at all.
const (
	defaultMaxIdleConns    = 5
	defaultMaxOpenConns    = 15
	defaultConnMaxLifetime = 30 * time.Minute
)

// Config controls the GORM/PostgreSQL connection for the interview store.
type Config struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        gormlogger.LogLevel
}

func (c Config) withDefaults() Config {
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = defaultMaxIdleConns
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = defaultMaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = defaultConnMaxLifetime
	}
	if c.LogLevel == 0 {
		c.LogLevel = gormlogger.Warn
	}
	return c
}

// Connect opens the interview database, creating it first when the DSN names
// a database that does not exist yet.
func Connect(cfg Config) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is empty")
	}
	cfg = cfg.withDefaults()

	if err := createDatabaseIfMissing(cfg.DSN); err != nil {
		return nil, fmt.Errorf("create database: %w", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// createDatabaseIfMissing connects to the maintenance database over lib/pq
// and issues CREATE DATABASE when the target named in the DSN is absent.
// Non-URL DSNs (keyword/value form) are left for gorm.Open to handle.
func createDatabaseIfMissing(dsn string) error {
	parsed, err := url.Parse(dsn)
	if err != nil || parsed.Host == "" {
		return nil
	}

	target := strings.TrimPrefix(parsed.Path, "/")
	if target == "" || target == "postgres" {
		return nil
	}

	admin := *parsed
	admin.Path = "/postgres"

	conn, err := sql.Open("postgres", admin.String())
	if err != nil {
		return err
	}
	defer conn.Close()

	var exists bool
	row := conn.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", target)
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("check for database %q: %w", target, err)
	}
	if exists {
		return nil
	}

	if _, err := conn.Exec("CREATE DATABASE " + quoteIdent(target)); err != nil {
		return fmt.Errorf("create database %q: %w", target, err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
