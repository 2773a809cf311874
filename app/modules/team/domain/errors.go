package teamdomain

import (
	"errors"
	"fmt"
)

// Recoverable registry failures. Callers render these for the user; none of
// them indicate corrupted state.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyAffiliated = errors.New("student already belongs to a team")
	ErrNotAffiliated     = errors.New("student does not belong to a team")
	ErrTeamLocked        = errors.New("team is confirmed")
	ErrCapacityExceeded  = errors.New("team capacity exceeded")
	ErrNotInvited        = errors.New("student has no invitation to this team")
	ErrNameConflict      = errors.New("team name already in use")
	ErrAlreadyInUse      = errors.New("team identifier already in use")
	ErrSelfInvite        = errors.New("students cannot invite themselves")
	ErrInvalidTeamID     = errors.New("invalid team identifier")
	ErrInvalidName       = errors.New("invalid team name")

	// ErrTooManyInvitees is a capacity failure raised before any invitation
	// is sent.
	ErrTooManyInvitees = fmt.Errorf("%w: too many invitees", ErrCapacityExceeded)
)

// Submission lookups.
var (
	ErrNoPassword = errors.New("team has no password")
	ErrNoQueue    = errors.New("no queue selected")
)

var recoverable = []error{
	ErrNotFound,
	ErrAlreadyAffiliated,
	ErrNotAffiliated,
	ErrTeamLocked,
	ErrCapacityExceeded,
	ErrNotInvited,
	ErrNameConflict,
	ErrAlreadyInUse,
	ErrSelfInvite,
	ErrInvalidTeamID,
	ErrInvalidName,
	ErrNoPassword,
	ErrNoQueue,
}

// IsDomainError reports whether err wraps one of the recoverable errors
// above. Anything else is an infrastructure failure.
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range recoverable {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
