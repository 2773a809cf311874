package teamservice

import (
	"context"
	"errors"
	"fmt"
	"slices"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

// CreateTeam allocates a new team for the creator and invites up to
// capacity-1 other students.
func (s *TeamService) CreateTeam(ctx context.Context, guildID sharedtypes.GuildID, creatorID sharedtypes.DiscordID, invitees []sharedtypes.DiscordID) (*CreateTeamResult, error) {
	return guildMutation(s, ctx, "CreateTeam", guildID, func(ctx context.Context, db bun.IDB) (*CreateTeamResult, error) {
		ts, info, err := s.lockRegistry(ctx, db, guildID)
		if err != nil {
			return nil, err
		}

		creator, err := s.loadStudent(ctx, db, guildID, creatorID)
		if err != nil {
			return nil, err
		}
		if creator.IsAffiliated(guildID) {
			return nil, teamdomain.ErrAlreadyAffiliated
		}

		invitees = uniqueIDs(invitees)
		if limit := ts.Capacity - 1; len(invitees) > limit {
			return nil, fmt.Errorf("%w: at most %d", teamdomain.ErrTooManyInvitees, limit)
		}

		team := info.CreateTeam()
		team.AddMember(creator)

		invited, rejected, err := s.sendInvitations(ctx, db, team, creatorID, invitees)
		if err != nil {
			return nil, err
		}

		if err := s.repo.SaveTeam(ctx, db, team); err != nil {
			return nil, err
		}
		if err := s.repo.SaveGuildTeamInfo(ctx, db, info); err != nil {
			return nil, err
		}
		if err := s.saveStudents(ctx, db, guildID, creator); err != nil {
			return nil, err
		}

		if s.metrics != nil {
			s.metrics.RecordTeamCreated(ctx, string(guildID))
		}

		return &CreateTeamResult{Team: team, Invited: invited, Rejected: rejected}, nil
	})
}

// InviteToTeam invites students to the inviter's team.
func (s *TeamService) InviteToTeam(ctx context.Context, guildID sharedtypes.GuildID, inviterID sharedtypes.DiscordID, invitees []sharedtypes.DiscordID) (*InviteResult, error) {
	return guildMutation(s, ctx, "InviteToTeam", guildID, func(ctx context.Context, db bun.IDB) (*InviteResult, error) {
		ts, _, err := s.lockRegistry(ctx, db, guildID)
		if err != nil {
			return nil, err
		}

		inviter, err := s.loadStudent(ctx, db, guildID, inviterID)
		if err != nil {
			return nil, err
		}
		team, err := s.teamOf(ctx, db, guildID, inviter)
		if err != nil {
			return nil, err
		}
		if err := team.CheckMutable(); err != nil {
			return nil, err
		}

		invitees = uniqueIDs(invitees)
		if remaining := team.Remaining(ts.Capacity); len(invitees) > remaining {
			return nil, fmt.Errorf("%w: %d slot(s) left", teamdomain.ErrTooManyInvitees, remaining)
		}

		invited, rejected, err := s.sendInvitations(ctx, db, team, inviterID, invitees)
		if err != nil {
			return nil, err
		}
		return &InviteResult{Team: team, Invited: invited, Rejected: rejected}, nil
	})
}

// ListInvitations returns the student's pending invitations in the guild.
func (s *TeamService) ListInvitations(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) ([]teamdomain.TeamRequest, error) {
	return query(s, ctx, "ListInvitations", string(guildID), func(ctx context.Context, db bun.IDB) ([]teamdomain.TeamRequest, error) {
		st, err := s.loadStudent(ctx, db, guildID, studentID)
		if err != nil {
			return nil, err
		}
		return st.Invitations(guildID), nil
	})
}

// JoinTeam accepts a pending invitation. Joining clears every other
// invitation the student holds in the guild.
func (s *TeamService) JoinTeam(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*teamdomain.Team, error) {
	return guildMutation(s, ctx, "JoinTeam", guildID, func(ctx context.Context, db bun.IDB) (*teamdomain.Team, error) {
		ts, info, err := s.lockRegistry(ctx, db, guildID)
		if err != nil {
			return nil, err
		}

		st, err := s.loadStudent(ctx, db, guildID, studentID)
		if err != nil {
			return nil, err
		}
		if st.IsAffiliated(guildID) {
			return nil, teamdomain.ErrAlreadyAffiliated
		}

		teamID = resolveTeamID(info, teamID)
		if _, ok := st.Invitation(guildID, teamID); !ok {
			return nil, teamdomain.ErrNotInvited
		}

		team, err := s.loadTeam(ctx, db, guildID, teamID)
		if err != nil {
			return nil, err
		}
		if err := team.CheckMutable(); err != nil {
			return nil, err
		}
		if team.Remaining(ts.Capacity) == 0 {
			return nil, teamdomain.ErrCapacityExceeded
		}

		team.AddMember(st)

		if err := s.repo.SaveTeam(ctx, db, team); err != nil {
			return nil, err
		}
		if err := s.saveStudents(ctx, db, guildID, st); err != nil {
			return nil, err
		}
		return team, nil
	})
}

// LeaveTeam takes the student off their team. A drained team is deleted and
// its identifier returned to the pool.
func (s *TeamService) LeaveTeam(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) (*LeaveResult, error) {
	return guildMutation(s, ctx, "LeaveTeam", guildID, func(ctx context.Context, db bun.IDB) (*LeaveResult, error) {
		_, info, err := s.lockRegistry(ctx, db, guildID)
		if err != nil {
			return nil, err
		}

		st, err := s.loadStudent(ctx, db, guildID, studentID)
		if err != nil {
			return nil, err
		}
		return s.leave(ctx, db, info, st, true)
	})
}

// leave removes st from its team. checkLock is false for administrative
// removals, which ignore confirmation.
func (s *TeamService) leave(ctx context.Context, db bun.IDB, info *teamdomain.GuildTeamInfo, st *teamdomain.Student, checkLock bool) (*LeaveResult, error) {
	guildID := info.GuildID
	teamID, ok := st.TeamIn(guildID)
	if !ok {
		return nil, teamdomain.ErrNotAffiliated
	}

	team, err := s.loadTeam(ctx, db, guildID, teamID)
	if errors.Is(err, teamdomain.ErrNotFound) {
		st.ClearTeam(guildID)
		if err := s.saveStudents(ctx, db, guildID, st); err != nil {
			return nil, err
		}
		return &LeaveResult{TeamID: teamID, Repaired: true}, nil
	}
	if err != nil {
		return nil, err
	}

	if checkLock {
		if err := team.CheckMutable(); err != nil {
			return nil, err
		}
	}

	deleted, err := s.removeFromTeam(ctx, db, info, team, st)
	if err != nil {
		return nil, err
	}
	if err := s.saveStudents(ctx, db, guildID, st); err != nil {
		return nil, err
	}
	return &LeaveResult{TeamID: teamID, TeamDeleted: deleted}, nil
}

// RenameTeam renames the caller's own team. Confirmed teams may still be
// renamed.
func (s *TeamService) RenameTeam(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, name string) (*teamdomain.Team, error) {
	return guildMutation(s, ctx, "RenameTeam", guildID, func(ctx context.Context, db bun.IDB) (*teamdomain.Team, error) {
		_, info, err := s.lockRegistry(ctx, db, guildID)
		if err != nil {
			return nil, err
		}

		st, err := s.loadStudent(ctx, db, guildID, studentID)
		if err != nil {
			return nil, err
		}
		team, err := s.teamOf(ctx, db, guildID, st)
		if err != nil {
			return nil, err
		}
		return s.rename(ctx, db, info, team, name)
	})
}

func (s *TeamService) rename(ctx context.Context, db bun.IDB, info *teamdomain.GuildTeamInfo, team *teamdomain.Team, name string) (*teamdomain.Team, error) {
	if err := info.RenameTeam(team, name); err != nil {
		return nil, err
	}
	if err := s.repo.SaveTeam(ctx, db, team); err != nil {
		return nil, err
	}
	if err := s.repo.SaveGuildTeamInfo(ctx, db, info); err != nil {
		return nil, err
	}
	return team, nil
}

// teamOf loads the team st belongs to. A student pointing at a team that no
// longer exists is treated as unaffiliated.
func (s *TeamService) teamOf(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, st *teamdomain.Student) (*teamdomain.Team, error) {
	teamID, ok := st.TeamIn(guildID)
	if !ok {
		return nil, teamdomain.ErrNotAffiliated
	}
	team, err := s.loadTeam(ctx, db, guildID, teamID)
	if errors.Is(err, teamdomain.ErrNotFound) {
		return nil, fmt.Errorf("%w: team %s no longer exists", teamdomain.ErrNotAffiliated, teamID)
	}
	return team, err
}

// sendInvitations appends an invitation to team for each invitee. Invitees
// that cannot be invited are reported instead of failing the batch. Invitee
// state is persisted here; the team is not touched.
func (s *TeamService) sendInvitations(ctx context.Context, db bun.IDB, team *teamdomain.Team, inviterID sharedtypes.DiscordID, invitees []sharedtypes.DiscordID) ([]sharedtypes.DiscordID, []InviteRejection, error) {
	guildID := team.GuildID
	var invited []sharedtypes.DiscordID
	var rejected []InviteRejection

	reject := func(id sharedtypes.DiscordID, reason error) {
		rejected = append(rejected, InviteRejection{StudentID: id, Reason: reason})
		if s.metrics != nil {
			s.metrics.RecordInvitationsRejected(ctx, string(guildID), rejectionReason(reason))
		}
	}

	for _, id := range invitees {
		if id == inviterID {
			reject(id, teamdomain.ErrSelfInvite)
			continue
		}
		invitee, err := s.loadStudent(ctx, db, guildID, id)
		if errors.Is(err, teamdomain.ErrNotFound) {
			reject(id, teamdomain.ErrNotFound)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if invitee.IsAffiliated(guildID) {
			reject(id, teamdomain.ErrAlreadyAffiliated)
			continue
		}

		if invitee.AddInvitation(guildID, teamdomain.TeamRequest{TeamID: team.ID, SenderID: inviterID}) {
			if err := s.saveStudents(ctx, db, guildID, invitee); err != nil {
				return nil, nil, err
			}
		}
		invited = append(invited, id)
	}

	if s.metrics != nil && len(invited) > 0 {
		s.metrics.RecordInvitationsSent(ctx, string(guildID), len(invited))
	}
	return invited, rejected, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, teamdomain.ErrSelfInvite):
		return "self_invite"
	case errors.Is(err, teamdomain.ErrAlreadyAffiliated):
		return "already_affiliated"
	case errors.Is(err, teamdomain.ErrNotFound):
		return "not_found"
	default:
		return "other"
	}
}

// uniqueIDs drops repeated and empty ids, keeping first occurrences in order.
func uniqueIDs(ids []sharedtypes.DiscordID) []sharedtypes.DiscordID {
	out := make([]sharedtypes.DiscordID, 0, len(ids))
	for _, id := range ids {
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
