// Package teamevents defines the wire contract of the team module: command
// topics, request payloads and reply payloads.
package teamevents

import (
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
)

// Member-facing commands (/team ...).
const (
	CommandCreate      = "team.create"
	CommandInvite      = "team.invite"
	CommandInvitations = "team.invitations"
	CommandJoin        = "team.join"
	CommandLeave       = "team.leave"
	CommandRename      = "team.rename"
	CommandSettings    = "team.settings"
	CommandQueue       = "team.queue"
	CommandHistory     = "team.history"
	CommandSubmission  = "team.submission"
	CommandRecord      = "team.record"
)

// Administrative commands (/teamedit ...).
const (
	CommandMove      = "teamedit.move"
	CommandAdd       = "teamedit.add"
	CommandRemove    = "teamedit.remove"
	CommandConfirm   = "teamedit.confirm"
	CommandUnconfirm = "teamedit.unconfirm"
	CommandPassword  = "teamedit.password"
	CommandAdmRename = "teamedit.rename"
	CommandDelete    = "teamedit.delete"
	CommandPasswords = "teamedit.passwords"
	CommandDump      = "teamedit.dump"
)

// StudentObservedV1 is published by the Discord gateway whenever a guild
// member is seen.
const StudentObservedV1 = "student.observed.v1"

// RosterChangedV1 is the base topic of membership change notifications. It
// is published guild scoped.
const RosterChangedV1 = "team.roster.changed.v1"

// RequestedTopic returns the topic a command arrives on.
func RequestedTopic(command string) string {
	return command + ".requested.v1"
}

// ReplyTopic returns the success or failure topic for command.
func ReplyTopic(command string, success bool) string {
	if success {
		return command + ".succeeded.v1"
	}
	return command + ".failed.v1"
}

// =============================================================================
// Member command payloads
// =============================================================================

// CreateTeamRequestedPayloadV1 creates a team for UserID and invites the rest.
type CreateTeamRequestedPayloadV1 struct {
	GuildID  sharedtypes.GuildID     `json:"guild_id"`
	UserID   sharedtypes.DiscordID   `json:"user_id"`
	Invitees []sharedtypes.DiscordID `json:"invitees,omitempty"`
}

type InviteRequestedPayloadV1 struct {
	GuildID  sharedtypes.GuildID     `json:"guild_id"`
	UserID   sharedtypes.DiscordID   `json:"user_id"`
	Invitees []sharedtypes.DiscordID `json:"invitees"`
}

// StudentRequestedPayloadV1 carries commands that only need the caller:
// invitations, leave, settings.
type StudentRequestedPayloadV1 struct {
	GuildID sharedtypes.GuildID   `json:"guild_id"`
	UserID  sharedtypes.DiscordID `json:"user_id"`
}

type JoinRequestedPayloadV1 struct {
	GuildID sharedtypes.GuildID   `json:"guild_id"`
	UserID  sharedtypes.DiscordID `json:"user_id"`
	TeamID  string                `json:"team_id"`
}

type RenameRequestedPayloadV1 struct {
	GuildID sharedtypes.GuildID   `json:"guild_id"`
	UserID  sharedtypes.DiscordID `json:"user_id"`
	Name    string                `json:"name"`
}

// QueueRequestedPayloadV1 sets the preferred queue. An empty Queue clears it.
type QueueRequestedPayloadV1 struct {
	GuildID sharedtypes.GuildID   `json:"guild_id"`
	UserID  sharedtypes.DiscordID `json:"user_id"`
	Queue   string                `json:"queue"`
}

type HistoryRequestedPayloadV1 struct {
	GuildID sharedtypes.GuildID   `json:"guild_id"`
	UserID  sharedtypes.DiscordID `json:"user_id"`
	Limit   int                   `json:"limit,omitempty"`
}

// SubmissionRequestedPayloadV1 asks for the credentials and queue a
// submission should use. Queue "l" means the last command.
type SubmissionRequestedPayloadV1 struct {
	GuildID sharedtypes.GuildID   `json:"guild_id"`
	UserID  sharedtypes.DiscordID `json:"user_id"`
	Queue   string                `json:"queue,omitempty"`
}

// RecordRequestedPayloadV1 is sent by the submission client after a
// request was accepted.
type RecordRequestedPayloadV1 struct {
	GuildID   sharedtypes.GuildID   `json:"guild_id"`
	UserID    sharedtypes.DiscordID `json:"user_id"`
	Command   string                `json:"command"`
	RequestID int                   `json:"request_id"`
}

// =============================================================================
// Administrative payloads
// =============================================================================

// TeamEditRequestedPayloadV1 carries every /teamedit command except the
// password import. Fields a command does not use are ignored.
type TeamEditRequestedPayloadV1 struct {
	GuildID   sharedtypes.GuildID   `json:"guild_id"`
	UserID    sharedtypes.DiscordID `json:"user_id"`
	StudentID sharedtypes.DiscordID `json:"student_id,omitempty"`
	TeamID    string                `json:"team_id,omitempty"`
	Password  string                `json:"password,omitempty"`
	Name      string                `json:"name,omitempty"`
}

// PasswordImportRequestedPayloadV1 carries an uploaded password file.
type PasswordImportRequestedPayloadV1 struct {
	GuildID  sharedtypes.GuildID   `json:"guild_id"`
	UserID   sharedtypes.DiscordID `json:"user_id"`
	FileName string                `json:"file_name"`
	Content  []byte                `json:"content"`
}

// =============================================================================
// Student registry
// =============================================================================

type StudentObservedPayloadV1 struct {
	StudentID sharedtypes.DiscordID `json:"student_id"`
	Name      string                `json:"name"`
}

// =============================================================================
// Outgoing payloads
// =============================================================================

// CommandReplyPayloadV1 is the single reply to every command.
type CommandReplyPayloadV1 struct {
	GuildID   sharedtypes.GuildID   `json:"guild_id"`
	UserID    sharedtypes.DiscordID `json:"user_id"`
	Command   string                `json:"command"`
	Success   bool                  `json:"success"`
	Message   string                `json:"message"`
	ErrorCode string                `json:"error_code,omitempty"`
	Data      any                   `json:"data,omitempty"`
}

// TeamViewV1 is the public shape of a team. Passwords never leave the
// module through it.
type TeamViewV1 struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Members     []sharedtypes.DiscordID `json:"members"`
	Confirmed   bool                    `json:"confirmed"`
	HasPassword bool                    `json:"has_password"`
}

type InvitationViewV1 struct {
	TeamID   string                `json:"team_id"`
	SenderID sharedtypes.DiscordID `json:"sender_id"`
}

type RejectionViewV1 struct {
	StudentID sharedtypes.DiscordID `json:"student_id"`
	Code      string                `json:"code"`
}

type InviteResultV1 struct {
	Team     TeamViewV1              `json:"team"`
	Invited  []sharedtypes.DiscordID `json:"invited"`
	Rejected []RejectionViewV1       `json:"rejected,omitempty"`
}

type LeaveResultV1 struct {
	TeamID      string `json:"team_id"`
	TeamDeleted bool   `json:"team_deleted"`
}

type MoveResultV1 struct {
	Team           TeamViewV1 `json:"team"`
	PreviousTeamID string     `json:"previous_team_id,omitempty"`
	Created        bool       `json:"created"`
}

type SettingsViewV1 struct {
	TeamID         string `json:"team_id,omitempty"`
	Password       string `json:"password,omitempty"`
	PreferredQueue string `json:"preferred_queue,omitempty"`
	LastCommand    string `json:"last_command,omitempty"`
}

type SubmissionTargetV1 struct {
	TeamID   string `json:"team_id"`
	Password string `json:"password"`
	Queue    string `json:"queue"`
}

type PasswordImportResultV1 struct {
	Updated []string `json:"updated"`
	Staged  int      `json:"staged"`
}

// TeamDumpV1 is the /teamdump reply. Chunks are ready to post as Discord
// messages.
type TeamDumpV1 struct {
	Teams  []TeamViewV1 `json:"teams"`
	Chunks []string     `json:"chunks"`
}

// RosterChangedPayloadV1 tells listeners a team's membership changed.
type RosterChangedPayloadV1 struct {
	GuildID sharedtypes.GuildID     `json:"guild_id"`
	TeamID  string                  `json:"team_id"`
	Change  string                  `json:"change"`
	Members []sharedtypes.DiscordID `json:"members"`
}

// Roster change kinds.
const (
	RosterCreated = "created"
	RosterJoined  = "joined"
	RosterLeft    = "left"
	RosterMoved   = "moved"
	RosterDeleted = "deleted"
)
