package teamhandlers

import (
	"context"

	guildevents "github.com/Black-And-White-Club/roster-bot/app/modules/guild/events"
	teamevents "github.com/Black-And-White-Club/roster-bot/app/modules/team/events"
	"github.com/Black-And-White-Club/roster-bot/pkg/handlerwrapper"
)

// Handlers defines the interface for team event handlers. Every command
// handler returns exactly one reply result, plus roster notifications when
// membership changed.
type Handlers interface {
	// --- /team ---
	HandleCreateTeam(ctx context.Context, payload *teamevents.CreateTeamRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleInvite(ctx context.Context, payload *teamevents.InviteRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleListInvitations(ctx context.Context, payload *teamevents.StudentRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleJoin(ctx context.Context, payload *teamevents.JoinRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleLeave(ctx context.Context, payload *teamevents.StudentRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRename(ctx context.Context, payload *teamevents.RenameRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleSettings(ctx context.Context, payload *teamevents.StudentRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleSetQueue(ctx context.Context, payload *teamevents.QueueRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleHistory(ctx context.Context, payload *teamevents.HistoryRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleResolveSubmission(ctx context.Context, payload *teamevents.SubmissionRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRecordRequest(ctx context.Context, payload *teamevents.RecordRequestedPayloadV1) ([]handlerwrapper.Result, error)

	// --- /teamedit ---
	HandleMove(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleAdd(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRemove(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleConfirm(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleUnconfirm(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleSetPassword(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleAdminRename(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleDelete(ctx context.Context, payload *teamevents.TeamEditRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleImportPasswords(ctx context.Context, payload *teamevents.PasswordImportRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleDump(ctx context.Context, payload *teamevents.StudentRequestedPayloadV1) ([]handlerwrapper.Result, error)

	// --- cross-module ---
	HandleStudentObserved(ctx context.Context, payload *teamevents.StudentObservedPayloadV1) ([]handlerwrapper.Result, error)
	HandleGuildConfigUpdated(ctx context.Context, payload *guildevents.GuildConfigUpdatedPayloadV1) ([]handlerwrapper.Result, error)
}
