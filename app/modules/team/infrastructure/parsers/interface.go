package parsers

import (
	"errors"
	"fmt"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
)

// Parser defines the interface for team password file parsers.
type Parser interface {
	// Parse reads password data and returns the team id -> password map.
	// fileName is used in error messages only.
	Parse(fileData []byte, fileName string) (map[teamdomain.TeamID]string, error)
}

// ErrUnsupportedFileType is returned by the factory for unknown extensions.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// LineError reports a malformed row. Line is 1-based.
type LineError struct {
	File string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s: line %d: %v", e.File, e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

var (
	errMissingPassword = errors.New(`expected "<team id> <password>"`)
	errDuplicateTeam   = errors.New("team listed twice")
)
