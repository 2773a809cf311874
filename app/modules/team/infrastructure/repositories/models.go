package teamdb

import (
	"time"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

// Student is the guild-independent part of a student.
type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID        sharedtypes.DiscordID `bun:"id,pk,type:varchar(32)"`
	Name      string                `bun:"name,notnull"`
	CreatedAt time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time             `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// StudentGuildState holds one student's state in one guild. Keeping it in
// its own row means writes in one guild never touch another guild's state.
type StudentGuildState struct {
	bun.BaseModel `bun:"table:student_guild_states,alias:sgs"`

	StudentID      sharedtypes.DiscordID `bun:"student_id,pk,type:varchar(32)"`
	GuildID        sharedtypes.GuildID   `bun:"guild_id,pk,type:varchar(32)"`
	TeamID         *string               `bun:"team_id"`
	TeamPassword   *string               `bun:"team_password"`
	PreferredQueue *string               `bun:"preferred_queue"`
	LastCommand    *string               `bun:"last_command"`
	TeamRequests   []TeamRequest         `bun:"team_requests,type:jsonb,notnull"`
	RequestHistory []int                 `bun:"request_history,type:jsonb,notnull"`
	UpdatedAt      time.Time             `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// TeamRequest is the JSON shape of a pending invitation.
type TeamRequest struct {
	TeamID   string `json:"team_id"`
	SenderID string `json:"sender_id"`
}

// Team is a persisted team.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	GuildID   sharedtypes.GuildID `bun:"guild_id,pk,type:varchar(32)"`
	ID        string              `bun:"id,pk,type:varchar(32)"`
	Name      string              `bun:"name,notnull"`
	Password  *string             `bun:"password"`
	Members   []string            `bun:"members,array,notnull"`
	Confirmed bool                `bun:"confirmed,notnull,default:false"`
	CreatedAt time.Time           `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time           `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// GuildTeamInfo is the per-guild registry row.
type GuildTeamInfo struct {
	bun.BaseModel `bun:"table:guild_team_infos,alias:gti"`

	GuildID   sharedtypes.GuildID `bun:"guild_id,pk,type:varchar(32)"`
	Prefix    string              `bun:"prefix,notnull"`
	TeamCount int                 `bun:"team_count,notnull,default:0"`
	Holes     []string            `bun:"holes,array,notnull"`
	Passwords map[string]string   `bun:"passwords,type:jsonb,notnull"`
	Names     map[string]string   `bun:"names,type:jsonb,notnull"`
	UpdatedAt time.Time           `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func studentToDomain(s *Student, states []StudentGuildState) *teamdomain.Student {
	out := teamdomain.NewStudent(s.ID, s.Name)
	for i := range states {
		out.Guilds[states[i].GuildID] = stateToDomain(&states[i])
	}
	return out
}

func stateToDomain(m *StudentGuildState) *teamdomain.GuildState {
	g := &teamdomain.GuildState{
		PreferredQueue: m.PreferredQueue,
		LastCommand:    m.LastCommand,
	}
	if m.TeamID != nil {
		g.Credentials = &teamdomain.Credentials{
			TeamID:   teamdomain.TeamID(*m.TeamID),
			Password: m.TeamPassword,
		}
	}
	for _, r := range m.TeamRequests {
		g.TeamRequests = append(g.TeamRequests, teamdomain.TeamRequest{
			TeamID:   teamdomain.TeamID(r.TeamID),
			SenderID: sharedtypes.DiscordID(r.SenderID),
		})
	}
	if len(m.RequestHistory) > 0 {
		g.RequestHistory = append([]int(nil), m.RequestHistory...)
	}
	return g
}

func stateFromDomain(studentID sharedtypes.DiscordID, guildID sharedtypes.GuildID, g *teamdomain.GuildState) *StudentGuildState {
	m := &StudentGuildState{
		StudentID:      studentID,
		GuildID:        guildID,
		PreferredQueue: g.PreferredQueue,
		LastCommand:    g.LastCommand,
		TeamRequests:   make([]TeamRequest, 0, len(g.TeamRequests)),
		RequestHistory: make([]int, 0, len(g.RequestHistory)),
		UpdatedAt:      time.Now(),
	}
	if g.Credentials != nil {
		teamID := string(g.Credentials.TeamID)
		m.TeamID = &teamID
		m.TeamPassword = g.Credentials.Password
	}
	for _, r := range g.TeamRequests {
		m.TeamRequests = append(m.TeamRequests, TeamRequest{
			TeamID:   string(r.TeamID),
			SenderID: string(r.SenderID),
		})
	}
	m.RequestHistory = append(m.RequestHistory, g.RequestHistory...)
	return m
}

func teamToDomain(m *Team) *teamdomain.Team {
	t := &teamdomain.Team{
		ID:        teamdomain.TeamID(m.ID),
		GuildID:   m.GuildID,
		Name:      m.Name,
		Password:  m.Password,
		Confirmed: m.Confirmed,
	}
	for _, id := range m.Members {
		t.Members = append(t.Members, sharedtypes.DiscordID(id))
	}
	return t
}

func teamFromDomain(t *teamdomain.Team) *Team {
	m := &Team{
		GuildID:   t.GuildID,
		ID:        string(t.ID),
		Name:      t.Name,
		Password:  t.Password,
		Members:   make([]string, 0, len(t.Members)),
		Confirmed: t.Confirmed,
		UpdatedAt: time.Now(),
	}
	for _, id := range t.Members {
		m.Members = append(m.Members, string(id))
	}
	return m
}

func infoToDomain(m *GuildTeamInfo) *teamdomain.GuildTeamInfo {
	info := teamdomain.NewGuildTeamInfo(m.GuildID, m.Prefix)
	info.Count = m.TeamCount
	for _, h := range m.Holes {
		info.Holes = append(info.Holes, teamdomain.TeamID(h))
	}
	for id, pw := range m.Passwords {
		info.Passwords[teamdomain.TeamID(id)] = pw
	}
	for name, id := range m.Names {
		info.Names[name] = teamdomain.TeamID(id)
	}
	return info
}

func infoFromDomain(info *teamdomain.GuildTeamInfo) *GuildTeamInfo {
	m := &GuildTeamInfo{
		GuildID:   info.GuildID,
		Prefix:    info.Prefix,
		TeamCount: info.Count,
		Holes:     make([]string, 0, len(info.Holes)),
		Passwords: make(map[string]string, len(info.Passwords)),
		Names:     make(map[string]string, len(info.Names)),
		UpdatedAt: time.Now(),
	}
	for _, h := range info.Holes {
		m.Holes = append(m.Holes, string(h))
	}
	for id, pw := range info.Passwords {
		m.Passwords[string(id)] = pw
	}
	for name, id := range info.Names {
		m.Names[name] = string(id)
	}
	return m
}
