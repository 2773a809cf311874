package teamdomain

import (
	"slices"

	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
)

// Team is a group of students inside one guild. A team with no members is
// never persisted; draining it deletes it.
type Team struct {
	ID        TeamID
	GuildID   sharedtypes.GuildID
	Name      string
	Password  *string
	Members   []StudentID
	Confirmed bool
}

// NewTeam returns an empty unconfirmed team named after its id.
func NewTeam(guildID sharedtypes.GuildID, id TeamID, password *string) *Team {
	return &Team{
		ID:       id,
		GuildID:  guildID,
		Name:     string(id),
		Password: clonePtr(password),
	}
}

// HasMember reports whether id is on the team.
func (t *Team) HasMember(id StudentID) bool {
	return slices.Contains(t.Members, id)
}

// IsEmpty reports whether the team has drained.
func (t *Team) IsEmpty() bool {
	return len(t.Members) == 0
}

// Remaining returns how many more members fit under capacity.
func (t *Team) Remaining(capacity int) int {
	if r := capacity - len(t.Members); r > 0 {
		return r
	}
	return 0
}

// AddMember puts s on the team and points s's credentials at it, clearing
// every pending invitation s holds in the guild. It is idempotent and
// reports whether anything changed. Capacity and confirmation are the
// caller's concern.
func (t *Team) AddMember(s *Student) bool {
	if t.HasMember(s.ID) {
		if cur, ok := s.TeamIn(t.GuildID); ok && cur == t.ID {
			return false
		}
		s.setTeam(t.GuildID, t.ID, t.Password)
		return true
	}
	t.Members = append(t.Members, s.ID)
	s.setTeam(t.GuildID, t.ID, t.Password)
	return true
}

// RemoveMember takes s off the team and clears s's credentials. It reports
// whether s was a member. The caller deletes the team when it drains.
func (t *Team) RemoveMember(s *Student) bool {
	i := slices.Index(t.Members, s.ID)
	if i < 0 {
		return false
	}
	t.Members = slices.Delete(t.Members, i, i+1)
	if cur, ok := s.TeamIn(t.GuildID); ok && cur == t.ID {
		s.clearTeam(t.GuildID)
	}
	return true
}

// SetPassword sets the team password and copies it into every member's
// credentials. members must hold the team's current members.
func (t *Team) SetPassword(password *string, members []*Student) {
	t.Password = clonePtr(password)
	for _, m := range members {
		if cur, ok := m.TeamIn(t.GuildID); ok && cur == t.ID {
			m.setPassword(t.GuildID, t.Password)
		}
	}
}

// Disband clears the credentials of every member and empties the team.
func (t *Team) Disband(members []*Student) {
	for _, m := range members {
		if cur, ok := m.TeamIn(t.GuildID); ok && cur == t.ID {
			m.clearTeam(t.GuildID)
		}
	}
	t.Members = nil
}

// Confirm freezes membership and invitations.
func (t *Team) Confirm() { t.Confirmed = true }

// Unconfirm lifts the freeze.
func (t *Team) Unconfirm() { t.Confirmed = false }

// CheckMutable returns ErrTeamLocked for a confirmed team.
func (t *Team) CheckMutable() error {
	if t.Confirmed {
		return ErrTeamLocked
	}
	return nil
}
