package teamservice

import (
	"context"
	"errors"
	"slices"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

// MoveStudent puts the student on teamID, leaving any current team first.
// The target is created under that exact identifier when it does not exist.
// Capacity and confirmation are not enforced.
func (s *TeamService) MoveStudent(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*MoveResult, error) {
	return guildMutation(s, ctx, "MoveStudent", guildID, func(ctx context.Context, db bun.IDB) (*MoveResult, error) {
		return s.place(ctx, db, guildID, studentID, teamID, true)
	})
}

// AddStudent is MoveStudent for a student with no team. A student already
// on teamID is left alone.
func (s *TeamService) AddStudent(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*MoveResult, error) {
	return guildMutation(s, ctx, "AddStudent", guildID, func(ctx context.Context, db bun.IDB) (*MoveResult, error) {
		return s.place(ctx, db, guildID, studentID, teamID, false)
	})
}

func (s *TeamService) place(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID, allowMove bool) (*MoveResult, error) {
	_, info, err := s.lockRegistry(ctx, db, guildID)
	if err != nil {
		return nil, err
	}

	st, err := s.loadStudent(ctx, db, guildID, studentID)
	if err != nil {
		return nil, err
	}

	teamID = resolveTeamID(info, teamID)
	current, affiliated := st.TeamIn(guildID)
	if affiliated && current == teamID {
		team, err := s.loadTeam(ctx, db, guildID, teamID)
		if err == nil && team.HasMember(studentID) {
			return &MoveResult{Team: team}, nil
		}
		if err != nil && !errors.Is(err, teamdomain.ErrNotFound) {
			return nil, err
		}
	}
	if affiliated && current != teamID && !allowMove {
		// Credentials naming a team that is gone are repaired below.
		_, err := s.loadTeam(ctx, db, guildID, current)
		if err == nil {
			return nil, teamdomain.ErrAlreadyAffiliated
		}
		if !errors.Is(err, teamdomain.ErrNotFound) {
			return nil, err
		}
	}

	target, created, err := s.findOrCreateTeam(ctx, db, info, teamID)
	if err != nil {
		return nil, err
	}

	result := &MoveResult{Created: created}
	if affiliated && current != target.ID {
		prev := current
		result.PreviousTeamID = &prev

		prevTeam, err := s.loadTeam(ctx, db, guildID, current)
		switch {
		case errors.Is(err, teamdomain.ErrNotFound):
			st.ClearTeam(guildID)
		case err != nil:
			return nil, err
		default:
			deleted, err := s.removeFromTeam(ctx, db, info, prevTeam, st)
			if err != nil {
				return nil, err
			}
			result.PreviousTeamDeleted = deleted
		}
	}

	target.AddMember(st)

	if err := s.repo.SaveTeam(ctx, db, target); err != nil {
		return nil, err
	}
	if err := s.repo.SaveGuildTeamInfo(ctx, db, info); err != nil {
		return nil, err
	}
	if err := s.saveStudents(ctx, db, guildID, st); err != nil {
		return nil, err
	}

	if created && s.metrics != nil {
		s.metrics.RecordTeamCreated(ctx, string(guildID))
	}

	result.Team = target
	return result, nil
}

// findOrCreateTeam loads teamID or claims it through the registry.
func (s *TeamService) findOrCreateTeam(ctx context.Context, db bun.IDB, info *teamdomain.GuildTeamInfo, teamID teamdomain.TeamID) (*teamdomain.Team, bool, error) {
	team, err := s.loadTeam(ctx, db, info.GuildID, teamID)
	if err == nil {
		return team, false, nil
	}
	if !errors.Is(err, teamdomain.ErrNotFound) {
		return nil, false, err
	}
	team, err = info.CreateSpecificTeam(teamID)
	if err != nil {
		return nil, false, err
	}
	return team, true, nil
}

// RemoveStudent takes the student off their team regardless of confirmation.
func (s *TeamService) RemoveStudent(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) (*LeaveResult, error) {
	return guildMutation(s, ctx, "RemoveStudent", guildID, func(ctx context.Context, db bun.IDB) (*LeaveResult, error) {
		_, info, err := s.lockRegistry(ctx, db, guildID)
		if err != nil {
			return nil, err
		}
		st, err := s.loadStudent(ctx, db, guildID, studentID)
		if err != nil {
			return nil, err
		}
		return s.leave(ctx, db, info, st, false)
	})
}

func (s *TeamService) ConfirmTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error) {
	return s.updateTeam(ctx, "ConfirmTeam", guildID, teamID, func(t *teamdomain.Team) {
		t.Confirm()
	})
}

func (s *TeamService) UnconfirmTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error) {
	return s.updateTeam(ctx, "UnconfirmTeam", guildID, teamID, func(t *teamdomain.Team) {
		t.Unconfirm()
	})
}

func (s *TeamService) updateTeam(ctx context.Context, operationName string, guildID sharedtypes.GuildID, teamID teamdomain.TeamID, mutate func(*teamdomain.Team)) (*teamdomain.Team, error) {
	return guildMutation(s, ctx, operationName, guildID, func(ctx context.Context, db bun.IDB) (*teamdomain.Team, error) {
		_, info, err := s.lockRegistry(ctx, db, guildID)
		if err != nil {
			return nil, err
		}
		team, err := s.loadTeam(ctx, db, guildID, resolveTeamID(info, teamID))
		if err != nil {
			return nil, err
		}
		mutate(team)
		if err := s.repo.SaveTeam(ctx, db, team); err != nil {
			return nil, err
		}
		return team, nil
	})
}

// SetTeamPassword sets the password on the team and every member's
// credentials. An empty password clears it.
func (s *TeamService) SetTeamPassword(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID, password string) (*teamdomain.Team, error) {
	return guildMutation(s, ctx, "SetTeamPassword", guildID, func(ctx context.Context, db bun.IDB) (*teamdomain.Team, error) {
		_, info, err := s.lockRegistry(ctx, db, guildID)
		if err != nil {
			return nil, err
		}
		team, err := s.loadTeam(ctx, db, guildID, resolveTeamID(info, teamID))
		if err != nil {
			return nil, err
		}

		var pw *string
		if password != "" {
			pw = &password
		}
		if err := s.applyPassword(ctx, db, team, pw); err != nil {
			return nil, err
		}
		return team, nil
	})
}

func (s *TeamService) applyPassword(ctx context.Context, db bun.IDB, team *teamdomain.Team, password *string) error {
	members, err := s.loadMembers(ctx, db, team)
	if err != nil {
		return err
	}
	team.SetPassword(password, members)
	if err := s.repo.SaveTeam(ctx, db, team); err != nil {
		return err
	}
	return s.saveStudents(ctx, db, team.GuildID, members...)
}

// AdminRenameTeam renames any team in the guild.
func (s *TeamService) AdminRenameTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID, name string) (*teamdomain.Team, error) {
	return guildMutation(s, ctx, "AdminRenameTeam", guildID, func(ctx context.Context, db bun.IDB) (*teamdomain.Team, error) {
		_, info, err := s.lockRegistry(ctx, db, guildID)
		if err != nil {
			return nil, err
		}
		team, err := s.loadTeam(ctx, db, guildID, resolveTeamID(info, teamID))
		if err != nil {
			return nil, err
		}
		return s.rename(ctx, db, info, team, name)
	})
}

// DeleteTeam disbands the team, clearing every member's credentials, and
// returns its identifier to the pool. The returned team lists the members it
// had.
func (s *TeamService) DeleteTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error) {
	return guildMutation(s, ctx, "DeleteTeam", guildID, func(ctx context.Context, db bun.IDB) (*teamdomain.Team, error) {
		_, info, err := s.lockRegistry(ctx, db, guildID)
		if err != nil {
			return nil, err
		}
		team, err := s.loadTeam(ctx, db, guildID, resolveTeamID(info, teamID))
		if err != nil {
			return nil, err
		}
		members, err := s.loadMembers(ctx, db, team)
		if err != nil {
			return nil, err
		}

		removed := *team
		removed.Members = slices.Clone(team.Members)

		team.Disband(members)
		if err := s.saveStudents(ctx, db, guildID, members...); err != nil {
			return nil, err
		}
		if err := s.deleteTeam(ctx, db, info, team); err != nil {
			return nil, err
		}
		return &removed, nil
	})
}

// ImportPasswords replaces the guild's staged passwords and applies them to
// the existing teams they name.
func (s *TeamService) ImportPasswords(ctx context.Context, guildID sharedtypes.GuildID, passwords map[teamdomain.TeamID]string) (*ImportPasswordsResult, error) {
	return guildMutation(s, ctx, "ImportPasswords", guildID, func(ctx context.Context, db bun.IDB) (*ImportPasswordsResult, error) {
		_, info, err := s.lockRegistry(ctx, db, guildID)
		if err != nil {
			return nil, err
		}

		staged := make(map[teamdomain.TeamID]string, len(passwords))
		for id, pw := range passwords {
			staged[resolveTeamID(info, id)] = pw
		}

		teams, err := s.repo.ListTeams(ctx, db, guildID)
		if err != nil {
			return nil, err
		}

		result := &ImportPasswordsResult{Staged: len(staged)}
		for _, team := range teams {
			pw, ok := staged[team.ID]
			if !ok {
				continue
			}
			if err := s.applyPassword(ctx, db, team, &pw); err != nil {
				return nil, err
			}
			result.Updated = append(result.Updated, team.ID)
		}

		info.ReplacePasswords(staged)
		if err := s.repo.SaveGuildTeamInfo(ctx, db, info); err != nil {
			return nil, err
		}
		return result, nil
	})
}
