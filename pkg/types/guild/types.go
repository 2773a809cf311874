package guildtypes

import (
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
)

// Defaults applied when a guild has no stored configuration.
const (
	DefaultTeamCapacity = 2
	DefaultTeamPrefix   = "g"
	DefaultHistoryLimit = 30
)

// GuildConfig is the per-guild configuration owned by the guild module.
type GuildConfig struct {
	GuildID       sharedtypes.GuildID `json:"guild_id"`
	TeamCapacity  int                 `json:"team_capacity"`
	TeamPrefix    string              `json:"team_prefix"`
	SubmissionURL string              `json:"submission_url,omitempty"`
	HistoryLimit  int                 `json:"history_limit"`
}

// TeamSettings is the slice of GuildConfig the team registry consumes.
type TeamSettings struct {
	Capacity     int
	Prefix       string
	HistoryLimit int
}

// DefaultTeamSettings returns the built-in settings.
func DefaultTeamSettings() TeamSettings {
	return TeamSettings{
		Capacity:     DefaultTeamCapacity,
		Prefix:       DefaultTeamPrefix,
		HistoryLimit: DefaultHistoryLimit,
	}
}

// TeamSettings extracts the registry settings, filling unset values from
// defaults.
func (c *GuildConfig) TeamSettings(defaults TeamSettings) TeamSettings {
	s := defaults
	if c == nil {
		return s
	}
	if c.TeamCapacity > 0 {
		s.Capacity = c.TeamCapacity
	}
	if c.TeamPrefix != "" {
		s.Prefix = c.TeamPrefix
	}
	if c.HistoryLimit > 0 {
		s.HistoryLimit = c.HistoryLimit
	}
	return s
}
