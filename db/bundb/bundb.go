package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	guildmigrations "github.com/Black-And-White-Club/roster-bot/app/modules/guild/infrastructure/repositories/migrations"
	teammigrations "github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/roster-bot/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// Open connects to Postgres through pgdriver and verifies the connection.
func Open(ctx context.Context, cfg config.PostgresConfig) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return BunDB(sqldb), nil
}

// BunDB returns a new bun.DB for given sql.DB connection pool.
func BunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

// Migrators returns one migrator per module. Each module records its history
// in its own table because migration names are only unique within a module.
func Migrators(db *bun.DB) map[string]*migrate.Migrator {
	return map[string]*migrate.Migrator{
		"team":  newMigrator(db, "team", teammigrations.Migrations),
		"guild": newMigrator(db, "guild", guildmigrations.Migrations),
	}
}

func newMigrator(db *bun.DB, module string, migrations *migrate.Migrations) *migrate.Migrator {
	return migrate.NewMigrator(db, migrations,
		migrate.WithTableName("bun_migrations_"+module),
		migrate.WithLocksTableName("bun_migration_locks_"+module),
	)
}

// ModuleNames returns the migrator keys in a stable order.
func ModuleNames(migrators map[string]*migrate.Migrator) []string {
	names := make([]string, 0, len(migrators))
	for name := range migrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MigrateAll creates the migration tables and applies every pending
// migration of every module.
func MigrateAll(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	migrators := Migrators(db)
	for _, name := range ModuleNames(migrators) {
		migrator := migrators[name]
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init %s migrations: %w", name, err)
		}
		group, err := migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to migrate %s: %w", name, err)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No new migrations", slog.String("module", name))
			continue
		}
		logger.InfoContext(ctx, "Migrated module",
			slog.String("module", name),
			slog.String("group", group.String()),
		)
	}
	return nil
}
