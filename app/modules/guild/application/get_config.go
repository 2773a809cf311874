package guildservice

import (
	"context"
	"errors"
	"fmt"

	guilddb "github.com/Black-And-White-Club/roster-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/roster-bot/pkg/results"
	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
)

// GetGuildConfig retrieves the active configuration for a guild.
func (s *GuildService) GetGuildConfig(ctx context.Context, guildID sharedtypes.GuildID) (GuildConfigResult, error) {
	return withTelemetry(s, ctx, "GetGuildConfig", guildID, func(ctx context.Context) (GuildConfigResult, error) {
		if guildID == "" {
			return failure[*guildtypes.GuildConfig](ErrInvalidGuildID), nil
		}
		cfg, err := s.repo.GetConfig(ctx, nil, guildID)
		if errors.Is(err, guilddb.ErrNotFound) {
			return failure[*guildtypes.GuildConfig](ErrGuildConfigNotFound), nil
		}
		if err != nil {
			return GuildConfigResult{}, fmt.Errorf("failed to load guild config: %w", err)
		}
		return results.SuccessResult[*guildtypes.GuildConfig, error](cfg), nil
	})
}

// TeamSettings resolves the registry settings for a guild. The team module
// calls this on every mutation, so it skips telemetry.
func (s *GuildService) TeamSettings(ctx context.Context, guildID sharedtypes.GuildID) (guildtypes.TeamSettings, error) {
	cfg, err := s.repo.GetConfig(ctx, nil, guildID)
	if errors.Is(err, guilddb.ErrNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return guildtypes.TeamSettings{}, fmt.Errorf("failed to load guild config: %w", err)
	}
	return cfg.TeamSettings(s.defaults), nil
}
