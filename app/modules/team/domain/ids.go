package teamdomain

import (
	"fmt"
	"strconv"
	"strings"

	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
)

// TeamID identifies a team inside one guild, e.g. "g07".
type TeamID string

// StudentID identifies a person across guilds.
type StudentID = sharedtypes.DiscordID

// MaxTeamNumber is the largest number an identifier may carry. It bounds the
// holes an administrative assignment can retire in one step.
const MaxTeamNumber = 65535

// FormatTeamID builds the identifier for the n-th team under prefix.
func FormatTeamID(prefix string, n int) TeamID {
	return TeamID(fmt.Sprintf("%s%02d", prefix, n))
}

// ParseTeamNumber returns the number encoded in id relative to prefix.
// "g5" and "g05" both yield 5.
func ParseTeamNumber(prefix string, id TeamID) (int, error) {
	s := string(id)
	if !strings.HasPrefix(s, prefix) {
		return 0, fmt.Errorf("%w: %q does not start with %q", ErrInvalidTeamID, s, prefix)
	}
	suffix := s[len(prefix):]
	if suffix == "" {
		return 0, fmt.Errorf("%w: %q has no number", ErrInvalidTeamID, s)
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q has a non-numeric suffix", ErrInvalidTeamID, s)
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTeamID, s)
	}
	if n > MaxTeamNumber {
		return 0, fmt.Errorf("%w: %q is above %d", ErrInvalidTeamID, s, MaxTeamNumber)
	}
	return n, nil
}

// CanonicalTeamID rewrites id to the zero-padded form used at allocation.
func CanonicalTeamID(prefix string, id TeamID) (TeamID, error) {
	n, err := ParseTeamNumber(prefix, id)
	if err != nil {
		return "", err
	}
	return FormatTeamID(prefix, n), nil
}
