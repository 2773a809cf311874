package teammigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating roster tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS students (
					id VARCHAR(32) PRIMARY KEY,
					name TEXT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create students table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS student_guild_states (
					student_id VARCHAR(32) NOT NULL REFERENCES students(id),
					guild_id VARCHAR(32) NOT NULL,
					team_id VARCHAR(32),
					team_password TEXT,
					preferred_queue TEXT,
					last_command TEXT,
					team_requests JSONB NOT NULL DEFAULT '[]',
					request_history JSONB NOT NULL DEFAULT '[]',
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (student_id, guild_id)
				);
				CREATE INDEX IF NOT EXISTS idx_student_guild_states_team
					ON student_guild_states(guild_id, team_id);
			`); err != nil {
				return fmt.Errorf("failed to create student_guild_states table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS teams (
					guild_id VARCHAR(32) NOT NULL,
					id VARCHAR(32) NOT NULL,
					name TEXT NOT NULL,
					password TEXT,
					members TEXT[] NOT NULL DEFAULT '{}',
					confirmed BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (guild_id, id),
					CONSTRAINT teams_members_not_empty CHECK (cardinality(members) > 0)
				);
			`); err != nil {
				return fmt.Errorf("failed to create teams table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS guild_team_infos (
					guild_id VARCHAR(32) PRIMARY KEY,
					prefix TEXT NOT NULL,
					team_count INTEGER NOT NULL DEFAULT 0,
					holes TEXT[] NOT NULL DEFAULT '{}',
					passwords JSONB NOT NULL DEFAULT '{}',
					names JSONB NOT NULL DEFAULT '{}',
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create guild_team_infos table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping roster tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, table := range []string{"guild_team_infos", "teams", "student_guild_states", "students"} {
				if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
					return fmt.Errorf("failed to drop %s: %w", table, err)
				}
			}
			return nil
		})
	})
}
