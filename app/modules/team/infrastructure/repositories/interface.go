package teamdb

import (
	"context"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

// Repository defines the contract for roster persistence. Every method takes
// an optional bun.IDB so callers can run several calls in one transaction;
// nil falls back to the repository's own connection.
//
// Error semantics:
//   - ErrNotFound: the record does not exist
//   - other errors: infrastructure failures
type Repository interface {
	// UpsertStudent creates the student or refreshes its name.
	UpsertStudent(ctx context.Context, db bun.IDB, id sharedtypes.DiscordID, name string) error

	// GetStudent loads a student with the state of every guild.
	GetStudent(ctx context.Context, db bun.IDB, id sharedtypes.DiscordID) (*teamdomain.Student, error)

	// GetStudentInGuild loads a student with the state of one guild only.
	GetStudentInGuild(ctx context.Context, db bun.IDB, id sharedtypes.DiscordID, guildID sharedtypes.GuildID) (*teamdomain.Student, error)

	// GetStudentsInGuild is GetStudentInGuild for many students. Unknown ids
	// are skipped.
	GetStudentsInGuild(ctx context.Context, db bun.IDB, ids []sharedtypes.DiscordID, guildID sharedtypes.GuildID) ([]*teamdomain.Student, error)

	// SaveStudentGuildState writes the student's state for guildID.
	SaveStudentGuildState(ctx context.Context, db bun.IDB, student *teamdomain.Student, guildID sharedtypes.GuildID) error

	GetTeam(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id teamdomain.TeamID) (*teamdomain.Team, error)

	// ListTeams returns every team in the guild ordered by id.
	ListTeams(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]*teamdomain.Team, error)

	SaveTeam(ctx context.Context, db bun.IDB, team *teamdomain.Team) error

	// DeleteTeam removes the team record. Returns ErrNotFound if absent.
	DeleteTeam(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id teamdomain.TeamID) error

	// GetGuildTeamInfo reads the registry without locking it.
	GetGuildTeamInfo(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*teamdomain.GuildTeamInfo, error)

	// LockGuild creates the registry row with prefix if it is missing and
	// returns it locked for the rest of the transaction.
	LockGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, prefix string) (*teamdomain.GuildTeamInfo, error)

	SaveGuildTeamInfo(ctx context.Context, db bun.IDB, info *teamdomain.GuildTeamInfo) error
}
