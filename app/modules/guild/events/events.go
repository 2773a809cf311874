// Package guildevents defines the guild configuration topics and payloads.
package guildevents

import (
	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
)

const (
	GuildConfigCreationRequestedV1 = "guild.config.creation.requested.v1"
	GuildConfigCreatedV1           = "guild.config.created.v1"
	GuildConfigCreationFailedV1    = "guild.config.creation.failed.v1"

	GuildConfigRetrievalRequestedV1 = "guild.config.retrieval.requested.v1"
	GuildConfigRetrievedV1          = "guild.config.retrieved.v1"
	GuildConfigRetrievalFailedV1    = "guild.config.retrieval.failed.v1"

	GuildConfigUpdateRequestedV1 = "guild.config.update.requested.v1"
	GuildConfigUpdateFailedV1    = "guild.config.update.failed.v1"
	// GuildConfigUpdatedV1 is published after every successful update. The
	// team module listens for prefix changes.
	GuildConfigUpdatedV1 = "guild.config.updated.v1"

	GuildConfigDeletionRequestedV1 = "guild.config.deletion.requested.v1"
	GuildConfigDeletedV1           = "guild.config.deleted.v1"
	GuildConfigDeletionFailedV1    = "guild.config.deletion.failed.v1"
)

// GuildConfigCreationRequestedPayloadV1 creates the configuration of a guild.
// Zero values fall back to the service defaults.
type GuildConfigCreationRequestedPayloadV1 struct {
	GuildID       sharedtypes.GuildID `json:"guild_id"`
	TeamCapacity  int                 `json:"team_capacity,omitempty"`
	TeamPrefix    string              `json:"team_prefix,omitempty"`
	SubmissionURL string              `json:"submission_url,omitempty"`
	HistoryLimit  int                 `json:"history_limit,omitempty"`
}

type GuildConfigRetrievalRequestedPayloadV1 struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
}

// GuildConfigUpdateRequestedPayloadV1 updates the fields that are set.
type GuildConfigUpdateRequestedPayloadV1 struct {
	GuildID       sharedtypes.GuildID `json:"guild_id"`
	TeamCapacity  *int                `json:"team_capacity,omitempty"`
	TeamPrefix    *string             `json:"team_prefix,omitempty"`
	SubmissionURL *string             `json:"submission_url,omitempty"`
	HistoryLimit  *int                `json:"history_limit,omitempty"`
}

type GuildConfigDeletionRequestedPayloadV1 struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
}

// GuildConfigPayloadV1 carries a stored configuration.
type GuildConfigPayloadV1 struct {
	GuildID sharedtypes.GuildID    `json:"guild_id"`
	Config  guildtypes.GuildConfig `json:"config"`
}

// GuildConfigUpdatedPayloadV1 lists the updated fields next to the new
// configuration.
type GuildConfigUpdatedPayloadV1 struct {
	GuildID       sharedtypes.GuildID    `json:"guild_id"`
	Config        guildtypes.GuildConfig `json:"config"`
	UpdatedFields []string               `json:"updated_fields"`
}

type GuildConfigFailedPayloadV1 struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
	Reason  string              `json:"reason"`
}

type GuildConfigDeletedPayloadV1 struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
}

// Field names used in GuildConfigUpdatedPayloadV1.UpdatedFields.
const (
	FieldTeamCapacity  = "team_capacity"
	FieldTeamPrefix    = "team_prefix"
	FieldSubmissionURL = "submission_url"
	FieldHistoryLimit  = "history_limit"
)
