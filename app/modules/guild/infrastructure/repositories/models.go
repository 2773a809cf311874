package guilddb

import (
	"time"

	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

// GuildConfig is a guild's stored team configuration.
type GuildConfig struct {
	bun.BaseModel `bun:"table:guild_configs,alias:g"`

	GuildID       sharedtypes.GuildID `bun:"guild_id,pk,notnull,type:varchar(32)"`
	CreatedAt     time.Time           `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time           `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	IsActive      bool                `bun:"is_active,notnull,default:true"`
	TeamCapacity  int                 `bun:"team_capacity,notnull"`
	TeamPrefix    string              `bun:"team_prefix,notnull,type:varchar(16)"`
	SubmissionURL string              `bun:"submission_url,nullzero"`
	HistoryLimit  int                 `bun:"history_limit,notnull"`
}

func toSharedModel(cfg *GuildConfig) *guildtypes.GuildConfig {
	if cfg == nil {
		return nil
	}
	return &guildtypes.GuildConfig{
		GuildID:       cfg.GuildID,
		TeamCapacity:  cfg.TeamCapacity,
		TeamPrefix:    cfg.TeamPrefix,
		SubmissionURL: cfg.SubmissionURL,
		HistoryLimit:  cfg.HistoryLimit,
	}
}

func toDBModel(cfg *guildtypes.GuildConfig) *GuildConfig {
	if cfg == nil {
		return nil
	}
	return &GuildConfig{
		GuildID:       cfg.GuildID,
		IsActive:      true,
		TeamCapacity:  cfg.TeamCapacity,
		TeamPrefix:    cfg.TeamPrefix,
		SubmissionURL: cfg.SubmissionURL,
		HistoryLimit:  cfg.HistoryLimit,
	}
}
