package teamdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new roster repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// UpsertStudent creates the student or refreshes its name.
func (r *Impl) UpsertStudent(ctx context.Context, db bun.IDB, id sharedtypes.DiscordID, name string) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(&Student{ID: id, Name: name, UpdatedAt: time.Now()}).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert student: %w", err)
	}
	return nil
}

func (r *Impl) getStudentRow(ctx context.Context, db bun.IDB, id sharedtypes.DiscordID) (*Student, error) {
	s := new(Student)
	err := db.NewSelect().Model(s).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return s, nil
}

// GetStudent loads a student with the state of every guild.
func (r *Impl) GetStudent(ctx context.Context, db bun.IDB, id sharedtypes.DiscordID) (*teamdomain.Student, error) {
	db = r.resolveDB(db)
	s, err := r.getStudentRow(ctx, db, id)
	if err != nil {
		return nil, err
	}

	var states []StudentGuildState
	if err := db.NewSelect().
		Model(&states).
		Where("student_id = ?", id).
		Order("guild_id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to get student guild states: %w", err)
	}
	return studentToDomain(s, states), nil
}

// GetStudentInGuild loads a student with the state of one guild only.
func (r *Impl) GetStudentInGuild(ctx context.Context, db bun.IDB, id sharedtypes.DiscordID, guildID sharedtypes.GuildID) (*teamdomain.Student, error) {
	db = r.resolveDB(db)
	s, err := r.getStudentRow(ctx, db, id)
	if err != nil {
		return nil, err
	}

	var states []StudentGuildState
	if err := db.NewSelect().
		Model(&states).
		Where("student_id = ?", id).
		Where("guild_id = ?", guildID).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to get student guild state: %w", err)
	}
	return studentToDomain(s, states), nil
}

// GetStudentsInGuild loads many students with their state in guildID.
func (r *Impl) GetStudentsInGuild(ctx context.Context, db bun.IDB, ids []sharedtypes.DiscordID, guildID sharedtypes.GuildID) ([]*teamdomain.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)

	var rows []Student
	if err := db.NewSelect().
		Model(&rows).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to get students: %w", err)
	}

	var states []StudentGuildState
	if err := db.NewSelect().
		Model(&states).
		Where("student_id IN (?)", bun.In(ids)).
		Where("guild_id = ?", guildID).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to get student guild states: %w", err)
	}

	byStudent := make(map[sharedtypes.DiscordID][]StudentGuildState, len(states))
	for _, st := range states {
		byStudent[st.StudentID] = append(byStudent[st.StudentID], st)
	}

	byID := make(map[sharedtypes.DiscordID]*teamdomain.Student, len(rows))
	for i := range rows {
		byID[rows[i].ID] = studentToDomain(&rows[i], byStudent[rows[i].ID])
	}

	out := make([]*teamdomain.Student, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// SaveStudentGuildState writes the student's state for guildID.
func (r *Impl) SaveStudentGuildState(ctx context.Context, db bun.IDB, student *teamdomain.Student, guildID sharedtypes.GuildID) error {
	db = r.resolveDB(db)
	state, ok := student.Guilds[guildID]
	if !ok {
		return nil
	}
	_, err := db.NewInsert().
		Model(stateFromDomain(student.ID, guildID, state)).
		On("CONFLICT (student_id, guild_id) DO UPDATE").
		Set("team_id = EXCLUDED.team_id").
		Set("team_password = EXCLUDED.team_password").
		Set("preferred_queue = EXCLUDED.preferred_queue").
		Set("last_command = EXCLUDED.last_command").
		Set("team_requests = EXCLUDED.team_requests").
		Set("request_history = EXCLUDED.request_history").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save student guild state: %w", err)
	}
	return nil
}

// GetTeam retrieves a team by guild and id.
func (r *Impl) GetTeam(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id teamdomain.TeamID) (*teamdomain.Team, error) {
	db = r.resolveDB(db)
	t := new(Team)
	err := db.NewSelect().
		Model(t).
		Where("guild_id = ?", guildID).
		Where("id = ?", string(id)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return teamToDomain(t), nil
}

// ListTeams returns every team in the guild ordered by id.
func (r *Impl) ListTeams(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]*teamdomain.Team, error) {
	db = r.resolveDB(db)
	var rows []Team
	if err := db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		Order("id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	out := make([]*teamdomain.Team, 0, len(rows))
	for i := range rows {
		out = append(out, teamToDomain(&rows[i]))
	}
	return out, nil
}

// SaveTeam creates or replaces the team record.
func (r *Impl) SaveTeam(ctx context.Context, db bun.IDB, team *teamdomain.Team) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(teamFromDomain(team)).
		On("CONFLICT (guild_id, id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("password = EXCLUDED.password").
		Set("members = EXCLUDED.members").
		Set("confirmed = EXCLUDED.confirmed").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save team: %w", err)
	}
	return nil
}

// DeleteTeam removes the team record.
func (r *Impl) DeleteTeam(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id teamdomain.TeamID) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Team)(nil)).
		Where("guild_id = ?", guildID).
		Where("id = ?", string(id)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetGuildTeamInfo reads the registry without locking it.
func (r *Impl) GetGuildTeamInfo(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*teamdomain.GuildTeamInfo, error) {
	db = r.resolveDB(db)
	m := new(GuildTeamInfo)
	err := db.NewSelect().Model(m).Where("guild_id = ?", guildID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get guild team info: %w", err)
	}
	return infoToDomain(m), nil
}

// LockGuild seeds the registry row if needed and locks it with
// SELECT ... FOR UPDATE. Outside a transaction the lock is released at once.
func (r *Impl) LockGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, prefix string) (*teamdomain.GuildTeamInfo, error) {
	db = r.resolveDB(db)
	seed := infoFromDomain(teamdomain.NewGuildTeamInfo(guildID, prefix))
	if _, err := db.NewInsert().
		Model(seed).
		On("CONFLICT (guild_id) DO NOTHING").
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed guild team info: %w", err)
	}

	m := new(GuildTeamInfo)
	if err := db.NewSelect().
		Model(m).
		Where("guild_id = ?", guildID).
		For("UPDATE").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to lock guild team info: %w", err)
	}
	return infoToDomain(m), nil
}

// SaveGuildTeamInfo creates or replaces the registry row.
func (r *Impl) SaveGuildTeamInfo(ctx context.Context, db bun.IDB, info *teamdomain.GuildTeamInfo) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(infoFromDomain(info)).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("prefix = EXCLUDED.prefix").
		Set("team_count = EXCLUDED.team_count").
		Set("holes = EXCLUDED.holes").
		Set("passwords = EXCLUDED.passwords").
		Set("names = EXCLUDED.names").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save guild team info: %w", err)
	}
	return nil
}
