package teamservice

import (
	"context"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
)

// Service defines the contract for roster operations.
//
// Errors from the teamdomain package (ErrNotFound, ErrTeamLocked, ...) are
// recoverable and meant to be rendered to the caller. Any other error is an
// infrastructure failure.
type Service interface {
	// --- STUDENTS ---

	RegisterStudent(ctx context.Context, id sharedtypes.DiscordID, name string) (*teamdomain.Student, error)
	GetStudent(ctx context.Context, id sharedtypes.DiscordID) (*teamdomain.Student, error)

	// --- MEMBER COMMANDS ---

	// CreateTeam allocates a team, adds the creator and invites the rest.
	// Invitees that cannot be invited are reported in the result.
	CreateTeam(ctx context.Context, guildID sharedtypes.GuildID, creatorID sharedtypes.DiscordID, invitees []sharedtypes.DiscordID) (*CreateTeamResult, error)
	InviteToTeam(ctx context.Context, guildID sharedtypes.GuildID, inviterID sharedtypes.DiscordID, invitees []sharedtypes.DiscordID) (*InviteResult, error)
	ListInvitations(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) ([]teamdomain.TeamRequest, error)
	JoinTeam(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*teamdomain.Team, error)
	LeaveTeam(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) (*LeaveResult, error)
	RenameTeam(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, name string) (*teamdomain.Team, error)

	// --- ADMIN COMMANDS ---

	MoveStudent(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*MoveResult, error)
	AddStudent(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*MoveResult, error)
	RemoveStudent(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) (*LeaveResult, error)
	ConfirmTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error)
	UnconfirmTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error)
	SetTeamPassword(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID, password string) (*teamdomain.Team, error)
	AdminRenameTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID, name string) (*teamdomain.Team, error)
	DeleteTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error)
	ImportPasswords(ctx context.Context, guildID sharedtypes.GuildID, passwords map[teamdomain.TeamID]string) (*ImportPasswordsResult, error)

	// --- QUERIES ---

	GetTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error)
	// DumpTeams lists every live team in the guild ordered by id.
	DumpTeams(ctx context.Context, guildID sharedtypes.GuildID) ([]*teamdomain.Team, error)

	// --- SETTINGS & HISTORY ---

	GetSettings(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) (*StudentSettings, error)
	SetPreferredQueue(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, queue string) (*StudentSettings, error)
	RecordRequest(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, command string, requestID int) error
	// GetRequestHistory returns up to limit request ids, oldest first. A
	// limit <= 0 uses the guild's history limit.
	GetRequestHistory(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, limit int) ([]int, error)
	ResolveSubmission(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, queue string) (*SubmissionTarget, error)

	// --- REGISTRY ---

	EnsureGuildTeamInfo(ctx context.Context, guildID sharedtypes.GuildID) (*teamdomain.GuildTeamInfo, error)
	// UpdateTeamPrefix changes the prefix used for new identifiers. Existing
	// teams keep their ids.
	UpdateTeamPrefix(ctx context.Context, guildID sharedtypes.GuildID, prefix string) (*teamdomain.GuildTeamInfo, error)
}

// GuildSettings resolves per-guild team configuration.
type GuildSettings interface {
	TeamSettings(ctx context.Context, guildID sharedtypes.GuildID) (guildtypes.TeamSettings, error)
}

// GuildSettingsFunc adapts a function to GuildSettings.
type GuildSettingsFunc func(ctx context.Context, guildID sharedtypes.GuildID) (guildtypes.TeamSettings, error)

func (f GuildSettingsFunc) TeamSettings(ctx context.Context, guildID sharedtypes.GuildID) (guildtypes.TeamSettings, error) {
	return f(ctx, guildID)
}

// StaticSettings returns the same settings for every guild.
func StaticSettings(ts guildtypes.TeamSettings) GuildSettings {
	return GuildSettingsFunc(func(context.Context, sharedtypes.GuildID) (guildtypes.TeamSettings, error) {
		return ts, nil
	})
}

// InviteRejection names an invitee that was skipped and why.
type InviteRejection struct {
	StudentID sharedtypes.DiscordID
	Reason    error
}

type InviteResult struct {
	Team     *teamdomain.Team
	Invited  []sharedtypes.DiscordID
	Rejected []InviteRejection
}

type CreateTeamResult struct {
	Team     *teamdomain.Team
	Invited  []sharedtypes.DiscordID
	Rejected []InviteRejection
}

// LeaveResult describes the team a student left.
type LeaveResult struct {
	TeamID teamdomain.TeamID
	// TeamDeleted is set when the departure drained the team.
	TeamDeleted bool
	// Repaired is set when the student pointed at a team that no longer
	// exists and only the stale credentials were cleared.
	Repaired bool
}

type MoveResult struct {
	Team                *teamdomain.Team
	PreviousTeamID      *teamdomain.TeamID
	PreviousTeamDeleted bool
	// Created is set when the target team did not exist.
	Created bool
}

type ImportPasswordsResult struct {
	// Updated lists existing teams whose password changed.
	Updated []teamdomain.TeamID
	Staged  int
}

// StudentSettings is the per-guild view a student sees in /settings.
type StudentSettings struct {
	StudentID      sharedtypes.DiscordID
	TeamID         *teamdomain.TeamID
	Password       *string
	PreferredQueue *string
	LastCommand    *string
}

// SubmissionTarget is what the submission collaborator needs to act for a
// student.
type SubmissionTarget struct {
	TeamID   teamdomain.TeamID
	Password string
	Queue    string
}
