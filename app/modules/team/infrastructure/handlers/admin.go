package teamhandlers

import (
	"context"
	"fmt"
	"slices"
	"strings"

	teamservice "github.com/Black-And-White-Club/roster-bot/app/modules/team/application"
	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	teamevents "github.com/Black-And-White-Club/roster-bot/app/modules/team/events"
	"github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/parsers"
	"github.com/Black-And-White-Club/roster-bot/pkg/handlerwrapper"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
)

func (h *TeamHandlers) HandleMove(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleMove")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandMove, payload.GuildID, payload.UserID)
	return h.place(ctx, c, payload, h.service.MoveStudent)
}

func (h *TeamHandlers) HandleAdd(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleAdd")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandAdd, payload.GuildID, payload.UserID)
	return h.place(ctx, c, payload, h.service.AddStudent)
}

// place runs MoveStudent or AddStudent and notifies both affected teams.
func (h *TeamHandlers) place(
	ctx context.Context,
	c command,
	payload *teamevents.TeamEditRequestedPayloadV1,
	op func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*teamservice.MoveResult, error),
) ([]handlerwrapper.Result, error) {
	if payload.StudentID == "" || strings.TrimSpace(payload.TeamID) == "" {
		return h.invalid(ctx, c, "student and team are required")
	}

	res, err := op(ctx, c.guildID, payload.StudentID, teamdomain.TeamID(strings.TrimSpace(payload.TeamID)))
	if err != nil {
		return h.fail(ctx, c, err)
	}

	view := &teamevents.MoveResultV1{Team: teamView(res.Team), Created: res.Created}
	msg := fmt.Sprintf("Placed %s on %s.", mention(payload.StudentID), teamLabel(res.Team))
	if res.PreviousTeamID != nil {
		view.PreviousTeamID = string(*res.PreviousTeamID)
		msg = fmt.Sprintf("Moved %s from %s to %s.", mention(payload.StudentID), *res.PreviousTeamID, teamLabel(res.Team))
	}
	if res.Created {
		msg += " The team was created."
	}

	results := []handlerwrapper.Result{
		c.ok(ctx, msg, view),
		rosterChanged(c.guildID, res.Team.ID, teamevents.RosterMoved, res.Team.Members),
	}
	if res.PreviousTeamID != nil {
		change := teamevents.RosterLeft
		if res.PreviousTeamDeleted {
			change = teamevents.RosterDeleted
		}
		results = append(results, rosterChanged(c.guildID, *res.PreviousTeamID, change, nil))
	}
	return results, nil
}

func (h *TeamHandlers) HandleRemove(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleRemove")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandRemove, payload.GuildID, payload.UserID)

	if payload.StudentID == "" {
		return h.invalid(ctx, c, "student is required")
	}

	res, err := h.service.RemoveStudent(ctx, c.guildID, payload.StudentID)
	if err != nil {
		return h.fail(ctx, c, err)
	}

	msg := fmt.Sprintf("Removed %s from %s.", mention(payload.StudentID), res.TeamID)
	if res.TeamDeleted {
		msg += " The team was disbanded."
	}
	results := []handlerwrapper.Result{c.ok(ctx, msg, &teamevents.LeaveResultV1{
		TeamID:      string(res.TeamID),
		TeamDeleted: res.TeamDeleted,
	})}
	if !res.Repaired {
		change := teamevents.RosterLeft
		if res.TeamDeleted {
			change = teamevents.RosterDeleted
		}
		results = append(results, rosterChanged(c.guildID, res.TeamID, change, nil))
	}
	return results, nil
}

func (h *TeamHandlers) HandleConfirm(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleConfirm")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandConfirm, payload.GuildID, payload.UserID)
	return h.teamEdit(ctx, c, payload, func(id teamdomain.TeamID) (*teamdomain.Team, error) {
		return h.service.ConfirmTeam(ctx, c.guildID, id)
	}, "Team %s is confirmed.")
}

func (h *TeamHandlers) HandleUnconfirm(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleUnconfirm")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandUnconfirm, payload.GuildID, payload.UserID)
	return h.teamEdit(ctx, c, payload, func(id teamdomain.TeamID) (*teamdomain.Team, error) {
		return h.service.UnconfirmTeam(ctx, c.guildID, id)
	}, "Team %s is no longer confirmed.")
}

// HandleSetPassword sets a team's password. An empty password clears it.
func (h *TeamHandlers) HandleSetPassword(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleSetPassword")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandPassword, payload.GuildID, payload.UserID)

	msg := "Password for %s updated."
	if payload.Password == "" {
		msg = "Password for %s cleared."
	}
	return h.teamEdit(ctx, c, payload, func(id teamdomain.TeamID) (*teamdomain.Team, error) {
		return h.service.SetTeamPassword(ctx, c.guildID, id, payload.Password)
	}, msg)
}

func (h *TeamHandlers) HandleAdminRename(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleAdminRename")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandAdmRename, payload.GuildID, payload.UserID)
	return h.teamEdit(ctx, c, payload, func(id teamdomain.TeamID) (*teamdomain.Team, error) {
		return h.service.AdminRenameTeam(ctx, c.guildID, id, payload.Name)
	}, "Team %s renamed.")
}

func (h *TeamHandlers) HandleDelete(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleDelete")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandDelete, payload.GuildID, payload.UserID)

	if strings.TrimSpace(payload.TeamID) == "" {
		return h.invalid(ctx, c, "team is required")
	}

	team, err := h.service.DeleteTeam(ctx, c.guildID, teamdomain.TeamID(strings.TrimSpace(payload.TeamID)))
	if err != nil {
		return h.fail(ctx, c, err)
	}

	msg := fmt.Sprintf("Deleted team %s.", team.ID)
	if len(team.Members) > 0 {
		msg += " Released " + mentions(team.Members) + "."
	}
	return []handlerwrapper.Result{
		c.ok(ctx, msg, teamView(team)),
		rosterChanged(c.guildID, team.ID, teamevents.RosterDeleted, nil),
	}, nil
}

// teamEdit runs a single-team admin operation and replies with the team.
// format receives the team id.
func (h *TeamHandlers) teamEdit(
	ctx context.Context,
	c command,
	payload *teamevents.TeamEditRequestedPayloadV1,
	op func(teamdomain.TeamID) (*teamdomain.Team, error),
	format string,
) ([]handlerwrapper.Result, error) {
	if strings.TrimSpace(payload.TeamID) == "" {
		return h.invalid(ctx, c, "team is required")
	}

	team, err := op(teamdomain.TeamID(strings.TrimSpace(payload.TeamID)))
	if err != nil {
		return h.fail(ctx, c, err)
	}
	return []handlerwrapper.Result{c.ok(ctx, fmt.Sprintf(format, teamLabel(team)), teamView(team))}, nil
}

// HandleImportPasswords parses an uploaded password file and applies it.
func (h *TeamHandlers) HandleImportPasswords(ctx context.Context, payload *teamevents.PasswordImportRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleImportPasswords")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandPasswords, payload.GuildID, payload.UserID)

	if len(payload.Content) == 0 {
		return h.invalid(ctx, c, "the uploaded file is empty")
	}

	parser, err := h.parsers.GetParser(payload.FileName)
	if err != nil {
		return h.fail(ctx, c, err)
	}
	passwords, err := parser.Parse(payload.Content, payload.FileName)
	if err != nil {
		return h.fail(ctx, c, err)
	}

	res, err := h.service.ImportPasswords(ctx, c.guildID, passwords)
	if err != nil {
		return h.fail(ctx, c, err)
	}

	updated := make([]string, len(res.Updated))
	for i, id := range res.Updated {
		updated[i] = string(id)
	}
	slices.Sort(updated)

	msg := fmt.Sprintf("Imported %d passwords: %d teams updated, %d staged for new teams.",
		len(passwords), len(updated), res.Staged)
	return []handlerwrapper.Result{c.ok(ctx, msg, &teamevents.PasswordImportResultV1{
		Updated: updated,
		Staged:  res.Staged,
	})}, nil
}

// HandleDump lists every team as Discord sized message chunks.
func (h *TeamHandlers) HandleDump(ctx context.Context, payload *teamevents.StudentRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleDump")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandDump, payload.GuildID, payload.UserID)

	teams, err := h.service.DumpTeams(ctx, c.guildID)
	if err != nil {
		return h.fail(ctx, c, err)
	}

	views := make([]teamevents.TeamViewV1, len(teams))
	for i, t := range teams {
		views[i] = teamView(t)
	}
	chunks := parsers.ChunkLines(parsers.DumpLines(teams), parsers.DiscordMessageLimit)

	msg := fmt.Sprintf("%d teams.", len(teams))
	if len(teams) == 0 {
		msg = "There are no teams."
	}
	return []handlerwrapper.Result{c.ok(ctx, msg, &teamevents.TeamDumpV1{
		Teams:  views,
		Chunks: nonNil(chunks),
	})}, nil
}
