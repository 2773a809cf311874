package teamdomain

import (
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
)

// MaxRequestHistory bounds the stored submission history per guild.
const MaxRequestHistory = 100

// Credentials record which team a student is in and that team's password,
// as last propagated by the registry.
type Credentials struct {
	TeamID   TeamID
	Password *string
}

// GuildState is everything a student has inside one guild.
type GuildState struct {
	Credentials    *Credentials
	PreferredQueue *string
	LastCommand    *string
	TeamRequests   []TeamRequest
	RequestHistory []int
}

// Student is a person known to the registry.
type Student struct {
	ID     StudentID
	Name   string
	Guilds map[sharedtypes.GuildID]*GuildState
}

// NewStudent returns a student with no guild state.
func NewStudent(id StudentID, name string) *Student {
	return &Student{
		ID:     id,
		Name:   name,
		Guilds: make(map[sharedtypes.GuildID]*GuildState),
	}
}

// Guild returns the state for guildID, creating an empty one on first use.
func (s *Student) Guild(guildID sharedtypes.GuildID) *GuildState {
	if s.Guilds == nil {
		s.Guilds = make(map[sharedtypes.GuildID]*GuildState)
	}
	g, ok := s.Guilds[guildID]
	if !ok {
		g = &GuildState{}
		s.Guilds[guildID] = g
	}
	return g
}

// TeamIn returns the student's team in guildID.
func (s *Student) TeamIn(guildID sharedtypes.GuildID) (TeamID, bool) {
	g, ok := s.Guilds[guildID]
	if !ok || g.Credentials == nil {
		return "", false
	}
	return g.Credentials.TeamID, true
}

// IsAffiliated reports whether the student has a team in guildID.
func (s *Student) IsAffiliated(guildID sharedtypes.GuildID) bool {
	_, ok := s.TeamIn(guildID)
	return ok
}

// Invitations returns a copy of the pending requests in guildID.
func (s *Student) Invitations(guildID sharedtypes.GuildID) []TeamRequest {
	g, ok := s.Guilds[guildID]
	if !ok || len(g.TeamRequests) == 0 {
		return nil
	}
	out := make([]TeamRequest, len(g.TeamRequests))
	copy(out, g.TeamRequests)
	return out
}

// Invitation finds the pending request for teamID.
func (s *Student) Invitation(guildID sharedtypes.GuildID, teamID TeamID) (TeamRequest, bool) {
	g, ok := s.Guilds[guildID]
	if !ok {
		return TeamRequest{}, false
	}
	if i := indexOfRequest(g.TeamRequests, teamID); i >= 0 {
		return g.TeamRequests[i], true
	}
	return TeamRequest{}, false
}

// AddInvitation appends req unless a request for the same team is pending.
// It reports whether req was added.
func (s *Student) AddInvitation(guildID sharedtypes.GuildID, req TeamRequest) bool {
	g := s.Guild(guildID)
	if indexOfRequest(g.TeamRequests, req.TeamID) >= 0 {
		return false
	}
	g.TeamRequests = append(g.TeamRequests, req)
	return true
}

// setTeam records membership and drops every pending request in the guild.
func (s *Student) setTeam(guildID sharedtypes.GuildID, teamID TeamID, password *string) {
	g := s.Guild(guildID)
	g.Credentials = &Credentials{TeamID: teamID, Password: clonePtr(password)}
	g.TeamRequests = nil
}

func (s *Student) clearTeam(guildID sharedtypes.GuildID) {
	if g, ok := s.Guilds[guildID]; ok {
		g.Credentials = nil
	}
}

// ClearTeam drops the student's credentials in guildID. Used to repair a
// student whose team no longer exists.
func (s *Student) ClearTeam(guildID sharedtypes.GuildID) {
	s.clearTeam(guildID)
}

func (s *Student) setPassword(guildID sharedtypes.GuildID, password *string) {
	if g, ok := s.Guilds[guildID]; ok && g.Credentials != nil {
		g.Credentials.Password = clonePtr(password)
	}
}

// SetPreferredQueue stores the default submission queue for guildID.
// An empty queue clears it.
func (s *Student) SetPreferredQueue(guildID sharedtypes.GuildID, queue string) {
	g := s.Guild(guildID)
	if queue == "" {
		g.PreferredQueue = nil
		return
	}
	g.PreferredQueue = &queue
}

// RecordRequest remembers a submission: the command becomes the last
// command and the id is appended to the bounded history.
func (s *Student) RecordRequest(guildID sharedtypes.GuildID, command string, requestID int) {
	g := s.Guild(guildID)
	if command != "" {
		g.LastCommand = &command
	}
	g.RequestHistory = append(g.RequestHistory, requestID)
	if over := len(g.RequestHistory) - MaxRequestHistory; over > 0 {
		g.RequestHistory = append([]int(nil), g.RequestHistory[over:]...)
	}
}

// History returns up to limit most recent request ids, oldest first.
// A limit <= 0 returns the whole history.
func (s *Student) History(guildID sharedtypes.GuildID, limit int) []int {
	g, ok := s.Guilds[guildID]
	if !ok || len(g.RequestHistory) == 0 {
		return nil
	}
	h := g.RequestHistory
	if limit > 0 && len(h) > limit {
		h = h[len(h)-limit:]
	}
	out := make([]int, len(h))
	copy(out, h)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
