package guilddb

import (
	"context"

	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

// UpdateFields represents the updateable fields of a guild config.
// Pointer fields distinguish "not provided" (nil) from "set to zero value".
type UpdateFields struct {
	TeamCapacity  *int
	TeamPrefix    *string
	SubmissionURL *string
	HistoryLimit  *int
}

// IsEmpty reports whether any fields are set for update.
func (u *UpdateFields) IsEmpty() bool {
	if u == nil {
		return true
	}
	return u.TeamCapacity == nil &&
		u.TeamPrefix == nil &&
		u.SubmissionURL == nil &&
		u.HistoryLimit == nil
}

// Repository defines the contract for guild configuration persistence.
//
// Error semantics:
//   - ErrNotFound: no active config exists (GetConfig)
//   - ErrNoRowsAffected: UPDATE/DELETE matched no active config
//   - Other errors: infrastructure failures
type Repository interface {
	// GetConfig retrieves an active guild configuration.
	GetConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guildtypes.GuildConfig, error)

	// SaveConfig inserts the config, or re-activates and overwrites a
	// soft-deleted one.
	SaveConfig(ctx context.Context, db bun.IDB, config *guildtypes.GuildConfig) error

	// UpdateConfig applies the non-nil fields to an active config.
	UpdateConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, updates *UpdateFields) error

	// DeleteConfig soft-deletes an active config.
	DeleteConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) error
}
