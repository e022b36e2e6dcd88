package database

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	_ "github.com/lib/pq"

	"verkefnalisti/internal/config"
	"verkefnalisti/pkg/logger"
)

var (
	pool *sql.DB
	once sync.Once
)

// DB returns the global database connection pool (initialized on first use).
func DB(ctx context.Context) *sql.DB {
	once.Do(func() {
		cfg := config.Get()
		if cfg.DatabaseURL == "" {
			logger.Error(ctx, "DATABASE_URL is not set")
			return
		}
		db, err := sql.Open("postgres", dsn(cfg))
		if err != nil {
			logger.Error(ctx, "Failed to open database", "error", err)
			return
		}
		db.SetMaxOpenConns(cfg.DBPoolSize)
		db.SetMaxIdleConns(cfg.DBPoolSize / 2)
		pool = db
		logger.Info(ctx, "Database pool initialized", "max_open", cfg.DBPoolSize)
	})
	return pool
}

// InitDB initializes the DB pool and returns it (for main).
func InitDB(ctx context.Context) *sql.DB {
	return DB(ctx)
}

// dsn appends sslmode=require in production: encrypted transport without
// certificate verification, matching managed-Postgres defaults.
func dsn(cfg *config.Config) string {
	url := cfg.DatabaseURL
	if !cfg.IsProduction() || strings.Contains(url, "sslmode=") {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&sslmode=require"
	}
	return url + "?sslmode=require"
}
