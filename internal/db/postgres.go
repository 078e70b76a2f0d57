package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vytor/talentscout/internal/logger"
)

//go:embed postgres_migrations/*.sql
var postgresMigrationsFS embed.FS

// OpenPostgres builds a connection pool for url and checks it with a ping.
func OpenPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	log := logger.FromContext(ctx).WithPrefix("db")

	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Error("failed to parse postgres url: %v", err)
		return nil, err
	}
	config.MaxConns = 10
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 5 * time.Minute

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(pingCtx, config)
	if err != nil {
		log.Error("failed to create postgres pool: %v", err)
		return nil, err
	}
	if err := pool.Ping(pingCtx); err != nil {
		log.Error("failed to ping postgres: %v", err)
		pool.Close()
		return nil, err
	}

	log.Info("postgres pool ready: host=%s db=%s", config.ConnConfig.Host, config.ConnConfig.Database)
	return pool, nil
}

// MigratePostgres applies the embedded Postgres schema. Hosted deployments
// manage their own schema; this is for local development and tests.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	log := logger.FromContext(ctx).WithPrefix("db")

	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMPTZ DEFAULT now())`); err != nil {
		return err
	}

	entries, err := postgresMigrationsFS.ReadDir("postgres_migrations")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		version := entry.Name()

		var v string
		err := pool.QueryRow(ctx, `SELECT version FROM schema_migrations WHERE version = $1`, version).Scan(&v)
		if err == nil {
			log.Debug("migration %s already applied, skipping", version)
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		sqlBytes, err := postgresMigrationsFS.ReadFile("postgres_migrations/" + version)
		if err != nil {
			return err
		}
		log.Info("applying postgres migration: %s", version)
		if _, err := pool.Exec(ctx, string(sqlBytes)); err != nil {
			log.Error("migration %s failed: %v", version, err)
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := pool.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return err
		}
	}
	return nil
}
