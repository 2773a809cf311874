package guildservice

import (
	"context"
	"errors"
	"fmt"

	guilddb "github.com/Black-And-White-Club/roster-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/roster-bot/pkg/results"
	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

// DeleteGuildConfig deactivates the guild's configuration and returns the
// last active state. Team data is left untouched; the guild falls back to
// default settings.
func (s *GuildService) DeleteGuildConfig(ctx context.Context, guildID sharedtypes.GuildID) (GuildConfigResult, error) {
	return withTelemetry(s, ctx, "DeleteGuildConfig", guildID, func(ctx context.Context) (GuildConfigResult, error) {
		if guildID == "" {
			return failure[*guildtypes.GuildConfig](ErrInvalidGuildID), nil
		}

		var result GuildConfigResult
		err := s.runInTx(ctx, func(ctx context.Context, db bun.IDB) error {
			current, err := s.repo.GetConfig(ctx, db, guildID)
			if errors.Is(err, guilddb.ErrNotFound) {
				result = failure[*guildtypes.GuildConfig](ErrGuildConfigNotFound)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to load guild config: %w", err)
			}

			err = s.repo.DeleteConfig(ctx, db, guildID)
			if errors.Is(err, guilddb.ErrNoRowsAffected) {
				result = failure[*guildtypes.GuildConfig](ErrGuildConfigNotFound)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to delete guild config: %w", err)
			}
			result = results.SuccessResult[*guildtypes.GuildConfig, error](current)
			return nil
		})
		return result, err
	})
}
