package teamservice

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	teamdb "github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Team Repo
// ------------------------

// FakeTeamRepo keeps the roster in memory. Stored records are deep copies so
// a test only sees what the service saved. Set a XxxFunc to override a call.
type FakeTeamRepo struct {
	mu    sync.Mutex
	trace []string

	students map[sharedtypes.DiscordID]*teamdomain.Student
	teams    map[sharedtypes.GuildID]map[teamdomain.TeamID]*teamdomain.Team
	infos    map[sharedtypes.GuildID]*teamdomain.GuildTeamInfo

	GetStudentInGuildFunc func(ctx context.Context, db bun.IDB, id sharedtypes.DiscordID, guildID sharedtypes.GuildID) (*teamdomain.Student, error)
	SaveTeamFunc          func(ctx context.Context, db bun.IDB, team *teamdomain.Team) error
	LockGuildFunc         func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, prefix string) (*teamdomain.GuildTeamInfo, error)
}

func NewFakeTeamRepo() *FakeTeamRepo {
	return &FakeTeamRepo{
		trace:    []string{},
		students: make(map[sharedtypes.DiscordID]*teamdomain.Student),
		teams:    make(map[sharedtypes.GuildID]map[teamdomain.TeamID]*teamdomain.Team),
		infos:    make(map[sharedtypes.GuildID]*teamdomain.GuildTeamInfo),
	}
}

func (f *FakeTeamRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeTeamRepo) UpsertStudent(ctx context.Context, db bun.IDB, id sharedtypes.DiscordID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpsertStudent")
	if st, ok := f.students[id]; ok {
		st.Name = name
		return nil
	}
	f.students[id] = teamdomain.NewStudent(id, name)
	return nil
}

func (f *FakeTeamRepo) GetStudent(ctx context.Context, db bun.IDB, id sharedtypes.DiscordID) (*teamdomain.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetStudent")
	st, ok := f.students[id]
	if !ok {
		return nil, teamdb.ErrNotFound
	}
	return copyStudent(st, nil), nil
}

func (f *FakeTeamRepo) GetStudentInGuild(ctx context.Context, db bun.IDB, id sharedtypes.DiscordID, guildID sharedtypes.GuildID) (*teamdomain.Student, error) {
	if f.GetStudentInGuildFunc != nil {
		f.mu.Lock()
		f.record("GetStudentInGuild")
		f.mu.Unlock()
		return f.GetStudentInGuildFunc(ctx, db, id, guildID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetStudentInGuild")
	st, ok := f.students[id]
	if !ok {
		return nil, teamdb.ErrNotFound
	}
	return copyStudent(st, &guildID), nil
}

func (f *FakeTeamRepo) GetStudentsInGuild(ctx context.Context, db bun.IDB, ids []sharedtypes.DiscordID, guildID sharedtypes.GuildID) ([]*teamdomain.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetStudentsInGuild")
	var out []*teamdomain.Student
	for _, id := range ids {
		if st, ok := f.students[id]; ok {
			out = append(out, copyStudent(st, &guildID))
		}
	}
	return out, nil
}

func (f *FakeTeamRepo) SaveStudentGuildState(ctx context.Context, db bun.IDB, student *teamdomain.Student, guildID sharedtypes.GuildID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SaveStudentGuildState")
	state, ok := student.Guilds[guildID]
	if !ok {
		return nil
	}
	stored, ok := f.students[student.ID]
	if !ok {
		return teamdb.ErrNotFound
	}
	stored.Guilds[guildID] = copyState(state)
	return nil
}

func (f *FakeTeamRepo) GetTeam(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id teamdomain.TeamID) (*teamdomain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetTeam")
	t, ok := f.teams[guildID][id]
	if !ok {
		return nil, teamdb.ErrNotFound
	}
	return copyTeam(t), nil
}

func (f *FakeTeamRepo) ListTeams(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]*teamdomain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTeams")
	out := make([]*teamdomain.Team, 0, len(f.teams[guildID]))
	for _, t := range f.teams[guildID] {
		out = append(out, copyTeam(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeTeamRepo) SaveTeam(ctx context.Context, db bun.IDB, team *teamdomain.Team) error {
	if f.SaveTeamFunc != nil {
		f.mu.Lock()
		f.record("SaveTeam")
		f.mu.Unlock()
		return f.SaveTeamFunc(ctx, db, team)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SaveTeam")
	if f.teams[team.GuildID] == nil {
		f.teams[team.GuildID] = make(map[teamdomain.TeamID]*teamdomain.Team)
	}
	f.teams[team.GuildID][team.ID] = copyTeam(team)
	return nil
}

func (f *FakeTeamRepo) DeleteTeam(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id teamdomain.TeamID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTeam")
	if _, ok := f.teams[guildID][id]; !ok {
		return teamdb.ErrNotFound
	}
	delete(f.teams[guildID], id)
	return nil
}

func (f *FakeTeamRepo) GetGuildTeamInfo(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*teamdomain.GuildTeamInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetGuildTeamInfo")
	info, ok := f.infos[guildID]
	if !ok {
		return nil, teamdb.ErrNotFound
	}
	return copyInfo(info), nil
}

func (f *FakeTeamRepo) LockGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, prefix string) (*teamdomain.GuildTeamInfo, error) {
	if f.LockGuildFunc != nil {
		f.mu.Lock()
		f.record("LockGuild")
		f.mu.Unlock()
		return f.LockGuildFunc(ctx, db, guildID, prefix)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("LockGuild")
	info, ok := f.infos[guildID]
	if !ok {
		info = teamdomain.NewGuildTeamInfo(guildID, prefix)
		f.infos[guildID] = info
	}
	return copyInfo(info), nil
}

func (f *FakeTeamRepo) SaveGuildTeamInfo(ctx context.Context, db bun.IDB, info *teamdomain.GuildTeamInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SaveGuildTeamInfo")
	f.infos[info.GuildID] = copyInfo(info)
	return nil
}

// --- Seeding and accessors for assertions ---

func (f *FakeTeamRepo) AddStudent(id sharedtypes.DiscordID, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.students[id] = teamdomain.NewStudent(id, name)
}

func (f *FakeTeamRepo) Student(id sharedtypes.DiscordID) *teamdomain.Student {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.students[id]
	if !ok {
		return nil
	}
	return copyStudent(st, nil)
}

func (f *FakeTeamRepo) Team(guildID sharedtypes.GuildID, id teamdomain.TeamID) *teamdomain.Team {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[guildID][id]
	if !ok {
		return nil
	}
	return copyTeam(t)
}

func (f *FakeTeamRepo) Info(guildID sharedtypes.GuildID) *teamdomain.GuildTeamInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.infos[guildID]
	if !ok {
		return nil
	}
	return copyInfo(info)
}

func (f *FakeTeamRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ teamdb.Repository = (*FakeTeamRepo)(nil)

// --- deep copies ---

func copyStudent(st *teamdomain.Student, only *sharedtypes.GuildID) *teamdomain.Student {
	out := teamdomain.NewStudent(st.ID, st.Name)
	for g, state := range st.Guilds {
		if only != nil && g != *only {
			continue
		}
		out.Guilds[g] = copyState(state)
	}
	return out
}

func copyState(g *teamdomain.GuildState) *teamdomain.GuildState {
	out := &teamdomain.GuildState{
		PreferredQueue: clone(g.PreferredQueue),
		LastCommand:    clone(g.LastCommand),
		TeamRequests:   slices.Clone(g.TeamRequests),
		RequestHistory: slices.Clone(g.RequestHistory),
	}
	if g.Credentials != nil {
		out.Credentials = &teamdomain.Credentials{
			TeamID:   g.Credentials.TeamID,
			Password: clone(g.Credentials.Password),
		}
	}
	return out
}

func copyTeam(t *teamdomain.Team) *teamdomain.Team {
	out := *t
	out.Password = clone(t.Password)
	out.Members = slices.Clone(t.Members)
	return &out
}

func copyInfo(info *teamdomain.GuildTeamInfo) *teamdomain.GuildTeamInfo {
	out := *info
	out.Holes = slices.Clone(info.Holes)
	out.Passwords = maps.Clone(info.Passwords)
	out.Names = maps.Clone(info.Names)
	if out.Passwords == nil {
		out.Passwords = make(map[teamdomain.TeamID]string)
	}
	if out.Names == nil {
		out.Names = make(map[string]teamdomain.TeamID)
	}
	return &out
}
