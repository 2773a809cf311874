package teamhandlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	teamevents "github.com/Black-And-White-Club/roster-bot/app/modules/team/events"
	"github.com/Black-And-White-Club/roster-bot/pkg/handlerwrapper"
)

// HandleCreateTeam handles /team create.
func (h *TeamHandlers) HandleCreateTeam(ctx context.Context, payload *teamevents.CreateTeamRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleCreateTeam")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandCreate, payload.GuildID, payload.UserID)

	res, err := h.service.CreateTeam(ctx, c.guildID, c.userID, payload.Invitees)
	if err != nil {
		return h.fail(ctx, c, err)
	}

	msg := fmt.Sprintf("Created team %s.", res.Team.ID) + inviteSummary(res.Invited, res.Rejected)
	return []handlerwrapper.Result{
		c.ok(ctx, msg, &teamevents.InviteResultV1{
			Team:     teamView(res.Team),
			Invited:  nonNil(res.Invited),
			Rejected: rejectionViews(res.Rejected),
		}),
		rosterChanged(c.guildID, res.Team.ID, teamevents.RosterCreated, res.Team.Members),
	}, nil
}

// HandleInvite handles /team invite.
func (h *TeamHandlers) HandleInvite(ctx context.Context, payload *teamevents.InviteRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleInvite")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandInvite, payload.GuildID, payload.UserID)

	if len(payload.Invitees) == 0 {
		return h.invalid(ctx, c, "name at least one student to invite")
	}

	res, err := h.service.InviteToTeam(ctx, c.guildID, c.userID, payload.Invitees)
	if err != nil {
		return h.fail(ctx, c, err)
	}

	msg := strings.TrimSpace(fmt.Sprintf("Team %s.", res.Team.ID) + inviteSummary(res.Invited, res.Rejected))
	return []handlerwrapper.Result{c.ok(ctx, msg, &teamevents.InviteResultV1{
		Team:     teamView(res.Team),
		Invited:  nonNil(res.Invited),
		Rejected: rejectionViews(res.Rejected),
	})}, nil
}

// HandleListInvitations handles /team invitations.
func (h *TeamHandlers) HandleListInvitations(ctx context.Context, payload *teamevents.StudentRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleListInvitations")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandInvitations, payload.GuildID, payload.UserID)

	reqs, err := h.service.ListInvitations(ctx, c.guildID, c.userID)
	if err != nil {
		return h.fail(ctx, c, err)
	}

	views := make([]teamevents.InvitationViewV1, len(reqs))
	var b strings.Builder
	if len(reqs) == 0 {
		b.WriteString("You have no pending invitations.")
	} else {
		b.WriteString("Pending invitations:")
	}
	for i, r := range reqs {
		views[i] = teamevents.InvitationViewV1{TeamID: string(r.TeamID), SenderID: r.SenderID}
		fmt.Fprintf(&b, "\n- %s from %s", r.TeamID, mention(r.SenderID))
	}
	return []handlerwrapper.Result{c.ok(ctx, b.String(), views)}, nil
}

// HandleJoin handles /team join.
func (h *TeamHandlers) HandleJoin(ctx context.Context, payload *teamevents.JoinRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleJoin")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandJoin, payload.GuildID, payload.UserID)

	if strings.TrimSpace(payload.TeamID) == "" {
		return h.invalid(ctx, c, "team id is required")
	}

	team, err := h.service.JoinTeam(ctx, c.guildID, c.userID, teamdomain.TeamID(strings.TrimSpace(payload.TeamID)))
	if err != nil {
		return h.fail(ctx, c, err)
	}

	return []handlerwrapper.Result{
		c.ok(ctx, fmt.Sprintf("You joined %s.", teamLabel(team)), teamView(team)),
		rosterChanged(c.guildID, team.ID, teamevents.RosterJoined, team.Members),
	}, nil
}

// HandleLeave handles /team leave.
func (h *TeamHandlers) HandleLeave(ctx context.Context, payload *teamevents.StudentRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleLeave")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandLeave, payload.GuildID, payload.UserID)

	res, err := h.service.LeaveTeam(ctx, c.guildID, c.userID)
	if err != nil {
		return h.fail(ctx, c, err)
	}

	msg := fmt.Sprintf("You left %s.", res.TeamID)
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

// HandleRename handles /team rename.
func (h *TeamHandlers) HandleRename(ctx context.Context, payload *teamevents.RenameRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleRename")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandRename, payload.GuildID, payload.UserID)

	team, err := h.service.RenameTeam(ctx, c.guildID, c.userID, payload.Name)
	if err != nil {
		return h.fail(ctx, c, err)
	}
	return []handlerwrapper.Result{c.ok(ctx, fmt.Sprintf("Team %s is now called %s.", team.ID, team.Name), teamView(team))}, nil
}

// HandleSettings handles /settings.
func (h *TeamHandlers) HandleSettings(ctx context.Context, payload *teamevents.StudentRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleSettings")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandSettings, payload.GuildID, payload.UserID)

	s, err := h.service.GetSettings(ctx, c.guildID, c.userID)
	if err != nil {
		return h.fail(ctx, c, err)
	}

	view := &teamevents.SettingsViewV1{
		Password:       deref(s.Password),
		PreferredQueue: deref(s.PreferredQueue),
		LastCommand:    deref(s.LastCommand),
	}
	var b strings.Builder
	if s.TeamID != nil {
		view.TeamID = string(*s.TeamID)
		fmt.Fprintf(&b, "Team: %s\n", *s.TeamID)
		if s.Password != nil {
			fmt.Fprintf(&b, "Password: ||%s||\n", *s.Password)
		} else {
			b.WriteString("Password: not set\n")
		}
	} else {
		b.WriteString("Team: none\n")
	}
	fmt.Fprintf(&b, "Preferred queue: %s\n", orNone(view.PreferredQueue))
	fmt.Fprintf(&b, "Last command: %s", orNone(view.LastCommand))

	return []handlerwrapper.Result{c.ok(ctx, b.String(), view)}, nil
}

// HandleSetQueue handles /settings queue.
func (h *TeamHandlers) HandleSetQueue(ctx context.Context, payload *teamevents.QueueRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleSetQueue")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandQueue, payload.GuildID, payload.UserID)

	queue := strings.TrimSpace(payload.Queue)
	s, err := h.service.SetPreferredQueue(ctx, c.guildID, c.userID, queue)
	if err != nil {
		return h.fail(ctx, c, err)
	}

	msg := "Preferred queue cleared."
	if s.PreferredQueue != nil {
		msg = fmt.Sprintf("Preferred queue set to %s.", *s.PreferredQueue)
	}
	return []handlerwrapper.Result{c.ok(ctx, msg, &teamevents.SettingsViewV1{PreferredQueue: deref(s.PreferredQueue)})}, nil
}

// HandleHistory handles /history.
func (h *TeamHandlers) HandleHistory(ctx context.Context, payload *teamevents.HistoryRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleHistory")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandHistory, payload.GuildID, payload.UserID)

	ids, err := h.service.GetRequestHistory(ctx, c.guildID, c.userID, payload.Limit)
	if err != nil {
		return h.fail(ctx, c, err)
	}

	msg := "No requests yet."
	if len(ids) > 0 {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.Itoa(id)
		}
		msg = "Recent requests: " + strings.Join(parts, ", ")
	}
	return []handlerwrapper.Result{c.ok(ctx, msg, nonNil(ids))}, nil
}

// HandleResolveSubmission answers the submission client.
func (h *TeamHandlers) HandleResolveSubmission(ctx context.Context, payload *teamevents.SubmissionRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleResolveSubmission")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandSubmission, payload.GuildID, payload.UserID)

	target, err := h.service.ResolveSubmission(ctx, c.guildID, c.userID, strings.TrimSpace(payload.Queue))
	if err != nil {
		return h.fail(ctx, c, err)
	}
	return []handlerwrapper.Result{c.ok(ctx,
		fmt.Sprintf("Submitting as %s to %s.", target.TeamID, target.Queue),
		&teamevents.SubmissionTargetV1{
			TeamID:   string(target.TeamID),
			Password: target.Password,
			Queue:    target.Queue,
		},
	)}, nil
}

// HandleRecordRequest stores a submission the client completed.
func (h *TeamHandlers) HandleRecordRequest(ctx context.Context, payload *teamevents.RecordRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleRecordRequest")
	defer span.End()
	c := newCommand(ctx, teamevents.CommandRecord, payload.GuildID, payload.UserID)

	if err := h.service.RecordRequest(ctx, c.guildID, c.userID, payload.Command, payload.RequestID); err != nil {
		return h.fail(ctx, c, err)
	}
	return []handlerwrapper.Result{c.ok(ctx, fmt.Sprintf("Recorded request %d.", payload.RequestID), nil)}, nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
