package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Black-And-White-Club/roster-bot/db/bundb"
	"github.com/Black-And-White-Club/roster-bot/integration_tests/containers"
)

// TestEnvironment holds the containers and connections of one test package.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer testcontainers.Container
	DB            *bun.DB
	PgConnStr     string
	NatsURL       string
}

// Options selects the containers to start.
type Options struct {
	NATS bool
}

// NewTestEnvironment starts Postgres (and NATS when asked) and applies every
// module migration.
func NewTestEnvironment(opts Options) (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())
	env := &TestEnvironment{Ctx: ctx, CancelContext: cancel}

	pgContainer, pgConnStr, err := containers.StartPostgres(ctx, containers.PostgresOptions{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer
	env.PgConnStr = pgConnStr

	sqlDB, err := sql.Open("pgx", pgConnStr)
	if err != nil {
		env.Terminate()
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	env.DB = bundb.BunDB(sqlDB)

	if err := bundb.MigrateAll(ctx, env.DB, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		env.Terminate()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if opts.NATS {
		natsContainer, natsURL, err := containers.StartNATS(ctx, "")
		if err != nil {
			env.Terminate()
			return nil, fmt.Errorf("failed to setup nats container: %w", err)
		}
		env.NatsContainer = natsContainer
		env.NatsURL = natsURL
	}
	return env, nil
}

// Terminate closes connections and stops the containers.
func (env *TestEnvironment) Terminate() {
	ctx := context.Background()
	if env.DB != nil {
		env.DB.Close()
	}
	if env.NatsContainer != nil {
		env.NatsContainer.Terminate(ctx)
	}
	if env.PgContainer != nil {
		env.PgContainer.Terminate(ctx)
	}
	env.CancelContext()
}

// Reset empties every roster and guild table.
func (env *TestEnvironment) Reset(t *testing.T) {
	t.Helper()
	_, err := env.DB.ExecContext(env.Ctx,
		"TRUNCATE TABLE student_guild_states, students, teams, guild_team_infos, guild_configs RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// DiscardLogger drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
