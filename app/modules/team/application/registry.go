package teamservice

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

// EnsureGuildTeamInfo returns the guild's registry, creating it with the
// configured prefix on first use.
func (s *TeamService) EnsureGuildTeamInfo(ctx context.Context, guildID sharedtypes.GuildID) (*teamdomain.GuildTeamInfo, error) {
	return guildMutation(s, ctx, "EnsureGuildTeamInfo", guildID, func(ctx context.Context, db bun.IDB) (*teamdomain.GuildTeamInfo, error) {
		_, info, err := s.lockRegistry(ctx, db, guildID)
		return info, err
	})
}

func (s *TeamService) UpdateTeamPrefix(ctx context.Context, guildID sharedtypes.GuildID, prefix string) (*teamdomain.GuildTeamInfo, error) {
	return guildMutation(s, ctx, "UpdateTeamPrefix", guildID, func(ctx context.Context, db bun.IDB) (*teamdomain.GuildTeamInfo, error) {
		prefix = strings.TrimSpace(prefix)
		if err := validatePrefix(prefix); err != nil {
			return nil, err
		}
		_, info, err := s.lockRegistry(ctx, db, guildID)
		if err != nil {
			return nil, err
		}
		if info.Prefix == prefix {
			return info, nil
		}
		info.UpdatePrefix(prefix)
		if err := s.repo.SaveGuildTeamInfo(ctx, db, info); err != nil {
			return nil, err
		}
		return info, nil
	})
}

// validatePrefix rejects prefixes that would make identifiers ambiguous.
func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("%w: empty prefix", teamdomain.ErrInvalidTeamID)
	}
	if r := rune(prefix[len(prefix)-1]); unicode.IsDigit(r) {
		return fmt.Errorf("%w: prefix %q ends in a digit", teamdomain.ErrInvalidTeamID, prefix)
	}
	return nil
}
