package guildservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	guilddb "github.com/Black-And-White-Club/roster-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/roster-bot/pkg/results"
	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	"github.com/uptrace/bun"
)

// CreateGuildConfig stores a new guild configuration. Zero fields take the
// service defaults.
func (s *GuildService) CreateGuildConfig(ctx context.Context, config *guildtypes.GuildConfig) (GuildConfigResult, error) {
	if config == nil {
		return failure[*guildtypes.GuildConfig](ErrNilConfig), nil
	}
	return withTelemetry(s, ctx, "CreateGuildConfig", config.GuildID, func(ctx context.Context) (GuildConfigResult, error) {
		if strings.TrimSpace(string(config.GuildID)) == "" {
			return failure[*guildtypes.GuildConfig](ErrInvalidGuildID), nil
		}

		cfg := *config
		ts := cfg.TeamSettings(s.defaults)
		cfg.TeamCapacity, cfg.TeamPrefix, cfg.HistoryLimit = ts.Capacity, ts.Prefix, ts.HistoryLimit
		cfg.SubmissionURL = strings.TrimSpace(cfg.SubmissionURL)
		if err := validateConfig(&cfg); err != nil {
			return failure[*guildtypes.GuildConfig](err), nil
		}

		var result GuildConfigResult
		err := s.runInTx(ctx, func(ctx context.Context, db bun.IDB) error {
			existing, err := s.repo.GetConfig(ctx, db, cfg.GuildID)
			switch {
			case err == nil && existing != nil:
				result = failure[*guildtypes.GuildConfig](ErrGuildConfigAlreadyExists)
				return nil
			case err != nil && !errors.Is(err, guilddb.ErrNotFound):
				return fmt.Errorf("failed to check existing config: %w", err)
			}

			if err := s.repo.SaveConfig(ctx, db, &cfg); err != nil {
				return fmt.Errorf("failed to save guild config: %w", err)
			}
			result = results.SuccessResult[*guildtypes.GuildConfig, error](&cfg)
			return nil
		})
		return result, err
	})
}
