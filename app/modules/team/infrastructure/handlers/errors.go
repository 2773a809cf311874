package teamhandlers

import (
	"errors"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	"github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/parsers"
)

// Error codes sent in failure replies.
const (
	CodeTooManyInvitees   = "too_many_invitees"
	CodeCapacityExceeded  = "capacity_exceeded"
	CodeNotFound          = "not_found"
	CodeAlreadyAffiliated = "already_affiliated"
	CodeNotAffiliated     = "not_affiliated"
	CodeTeamLocked        = "team_locked"
	CodeNotInvited        = "not_invited"
	CodeNameConflict      = "name_conflict"
	CodeAlreadyInUse      = "already_in_use"
	CodeSelfInvite        = "self_invite"
	CodeInvalidTeamID     = "invalid_team_id"
	CodeInvalidName       = "invalid_name"
	CodeNoPassword        = "no_password"
	CodeNoQueue           = "no_queue"
	CodeInvalidFile       = "invalid_file"
	CodeUnsupportedFile   = "unsupported_file"
	CodeInvalidRequest    = "invalid_request"
)

// Order matters: ErrTooManyInvitees wraps ErrCapacityExceeded.
var errorTable = []struct {
	err     error
	code    string
	message string
}{
	{teamdomain.ErrTooManyInvitees, CodeTooManyInvitees, "That is more invitees than the team has room for."},
	{teamdomain.ErrCapacityExceeded, CodeCapacityExceeded, "That team is full."},
	{teamdomain.ErrNotFound, CodeNotFound, "I could not find that student or team."},
	{teamdomain.ErrAlreadyAffiliated, CodeAlreadyAffiliated, "You are already on a team. Leave it first."},
	{teamdomain.ErrNotAffiliated, CodeNotAffiliated, "You are not on a team."},
	{teamdomain.ErrTeamLocked, CodeTeamLocked, "That team is confirmed. Ask a staff member to unconfirm it."},
	{teamdomain.ErrNotInvited, CodeNotInvited, "You have no invitation to that team."},
	{teamdomain.ErrNameConflict, CodeNameConflict, "Another team already uses that name."},
	{teamdomain.ErrAlreadyInUse, CodeAlreadyInUse, "That team identifier is already in use."},
	{teamdomain.ErrSelfInvite, CodeSelfInvite, "You cannot invite yourself."},
	{teamdomain.ErrInvalidTeamID, CodeInvalidTeamID, "That is not a valid team identifier."},
	{teamdomain.ErrInvalidName, CodeInvalidName, "Team names cannot be empty."},
	{teamdomain.ErrNoPassword, CodeNoPassword, "Your team has no password yet."},
	{teamdomain.ErrNoQueue, CodeNoQueue, "No queue given and no default queue set."},
	{parsers.ErrUnsupportedFileType, CodeUnsupportedFile, "Upload a .txt, .csv or .xlsx file."},
}

// describe maps a recoverable error to its code and user message. ok is
// false for infrastructure errors.
func describe(err error) (code, message string, ok bool) {
	var lineErr *parsers.LineError
	if errors.As(err, &lineErr) {
		return CodeInvalidFile, lineErr.Error(), true
	}
	if errors.Is(err, errInvalidRequest) {
		return CodeInvalidRequest, err.Error(), true
	}
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.code, e.message, true
		}
	}
	return "", "", false
}

// reasonCode is describe for invitation rejections.
func reasonCode(err error) string {
	code, _, ok := describe(err)
	if !ok {
		return "unknown"
	}
	return code
}
