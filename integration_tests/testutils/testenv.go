package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/majiang-league/majiang-stats/config"
	"github.com/majiang-league/majiang-stats/db/bundb"
	"github.com/majiang-league/majiang-stats/integration_tests/containers"
)

// TestEnvironment holds all resources needed for integration testing.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer testcontainers.Container
	DB            *bun.DB
	DBService     *bundb.DBService
	NatsConn      *nats.Conn
	Config        *config.Config
}

// NewTestEnvironment starts Postgres and NATS containers and creates the schema.
func NewTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(ctx)
	env := &TestEnvironment{Ctx: ctx, CancelContext: cancel}

	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to setup nats container: %w", err)
	}
	env.NatsContainer = natsContainer

	sqlDB, err := sql.Open("pgx", pgConnStr)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	env.DB = bundb.BunDB(sqlDB)
	env.DBService = bundb.NewTestDBService(env.DB)

	if err := CreateSchema(ctx, env.DB); err != nil {
		env.Cleanup()
		return nil, err
	}

	env.NatsConn, err = nats.Connect(natsURL, nats.Timeout(10*time.Second))
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	env.Config = &config.Config{
		Postgres: config.PostgresConfig{DSN: pgConnStr},
		NATS:     config.NATSConfig{URL: natsURL, QueueGroup: "majiang-stats-test"},
	}

	return env, nil
}

// Reset empties every table between tests.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	return CleanStandingsTables(ctx, env.DB)
}

// Cleanup closes connections and terminates the containers.
func (env *TestEnvironment) Cleanup() {
	log.Println("Cleaning up test environment resources...")
	if env.NatsConn != nil {
		env.NatsConn.Close()
	}
	if env.DB != nil {
		env.DB.Close()
	}
	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(context.Background()); err != nil {
			log.Printf("Error terminating NATS container: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(context.Background()); err != nil {
			log.Printf("Error terminating Postgres container: %v", err)
		}
	}
	if env.CancelContext != nil {
		env.CancelContext()
	}
	log.Println("Test environment resources cleaned up.")
}

// WaitFor repeatedly calls check until it returns nil or timeout elapses.
func WaitFor(timeout, interval time.Duration, check func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := check(); err == nil {
				return nil
			}
			return fmt.Errorf("timed out waiting: %w", ctx.Err())
		case <-ticker.C:
			if err := check(); err == nil {
				return nil
			}
		}
	}
}
