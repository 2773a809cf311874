package guildservice

import (
	"context"

	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/Black-And-White-Club/roster-bot/pkg/results"
)

// GuildConfigResult is a type alias to reduce generic verbosity.
type GuildConfigResult = results.OperationResult[*guildtypes.GuildConfig, error]

// GuildConfigUpdateResult carries the new config and the fields that changed.
type GuildConfigUpdateResult = results.OperationResult[*ConfigUpdate, error]

// ConfigUpdate is a successful update.
type ConfigUpdate struct {
	Config        *guildtypes.GuildConfig
	UpdatedFields []string
}

// ConfigChanges lists the fields to update. Nil fields are left alone; an
// empty SubmissionURL clears it.
type ConfigChanges struct {
	TeamCapacity  *int
	TeamPrefix    *string
	SubmissionURL *string
	HistoryLimit  *int
}

// Service defines the interface for guild operations.
type Service interface {
	CreateGuildConfig(ctx context.Context, config *guildtypes.GuildConfig) (GuildConfigResult, error)
	GetGuildConfig(ctx context.Context, guildID sharedtypes.GuildID) (GuildConfigResult, error)
	UpdateGuildConfig(ctx context.Context, guildID sharedtypes.GuildID, changes ConfigChanges) (GuildConfigUpdateResult, error)
	DeleteGuildConfig(ctx context.Context, guildID sharedtypes.GuildID) (GuildConfigResult, error)

	// TeamSettings returns the guild's team settings, or the defaults when
	// the guild has no active config.
	TeamSettings(ctx context.Context, guildID sharedtypes.GuildID) (guildtypes.TeamSettings, error)
}
