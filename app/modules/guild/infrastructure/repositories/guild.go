package guilddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new guild repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guildtypes.GuildConfig, error) {
	db = r.resolveDB(db)
	var cfg GuildConfig
	err := db.NewSelect().
		Model(&cfg).
		Where("guild_id = ?", guildID).
		Where("is_active = true").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}
	return toSharedModel(&cfg), nil
}

func (r *Impl) SaveConfig(ctx context.Context, db bun.IDB, config *guildtypes.GuildConfig) error {
	db = r.resolveDB(db)
	model := toDBModel(config)
	model.UpdatedAt = time.Now()
	_, err := db.NewInsert().
		Model(model).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("is_active = true").
		Set("team_capacity = EXCLUDED.team_capacity").
		Set("team_prefix = EXCLUDED.team_prefix").
		Set("submission_url = EXCLUDED.submission_url").
		Set("history_limit = EXCLUDED.history_limit").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save guild config: %w", err)
	}
	return nil
}

func (r *Impl) UpdateConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, updates *UpdateFields) error {
	if updates.IsEmpty() {
		return nil
	}
	db = r.resolveDB(db)

	q := db.NewUpdate().
		Model((*GuildConfig)(nil)).
		Where("guild_id = ?", guildID).
		Where("is_active = true").
		Set("updated_at = ?", time.Now())
	if updates.TeamCapacity != nil {
		q = q.Set("team_capacity = ?", *updates.TeamCapacity)
	}
	if updates.TeamPrefix != nil {
		q = q.Set("team_prefix = ?", *updates.TeamPrefix)
	}
	if updates.SubmissionURL != nil {
		q = q.Set("submission_url = NULLIF(?, '')", *updates.SubmissionURL)
	}
	if updates.HistoryLimit != nil {
		q = q.Set("history_limit = ?", *updates.HistoryLimit)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update guild config: %w", err)
	}
	return checkAffected(res)
}

func (r *Impl) DeleteConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*GuildConfig)(nil)).
		Set("is_active = false").
		Set("updated_at = ?", time.Now()).
		Where("guild_id = ?", guildID).
		Where("is_active = true").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete guild config: %w", err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
