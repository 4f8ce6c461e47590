package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/majiang-league/majiang-stats/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DBService owns the connection pool shared by the repositories.
type DBService struct {
	db *bun.DB
}

// GetDB returns the underlying database connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// Ping checks that the database answers.
func (s *DBService) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *DBService) Close() error {
	return s.db.Close()
}

// NewBunDBService connects to Postgres and verifies the connection.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.InfoContext(ctx, "Connected to PostgreSQL")
	return &DBService{db: BunDB(sqldb)}, nil
}

// NewTestDBService wraps an already open handle, as integration tests do.
func NewTestDBService(db *bun.DB) *DBService {
	return &DBService{db: db}
}

// BunDB returns a new bun.DB for given sql.DB connection pool.
func BunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(10*time.Second),
	))

	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
