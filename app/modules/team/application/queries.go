package teamservice

import (
	"context"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

func (s *TeamService) GetTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error) {
	return query(s, ctx, "GetTeam", string(guildID), func(ctx context.Context, db bun.IDB) (*teamdomain.Team, error) {
		ts, err := s.settings(ctx, guildID)
		if err != nil {
			return nil, err
		}
		if canonical, err := teamdomain.CanonicalTeamID(ts.Prefix, teamID); err == nil {
			teamID = canonical
		}
		return s.loadTeam(ctx, db, guildID, teamID)
	})
}

func (s *TeamService) DumpTeams(ctx context.Context, guildID sharedtypes.GuildID) ([]*teamdomain.Team, error) {
	return query(s, ctx, "DumpTeams", string(guildID), func(ctx context.Context, db bun.IDB) ([]*teamdomain.Team, error) {
		return s.repo.ListTeams(ctx, db, guildID)
	})
}
