package teamdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddInvitation_DeduplicatesByTeam(t *testing.T) {
	s := newTestStudent()

	assert.True(t, s.AddInvitation(testGuild, TeamRequest{TeamID: "g01", SenderID: "a"}))
	assert.False(t, s.AddInvitation(testGuild, TeamRequest{TeamID: "g01", SenderID: "b"}))
	assert.True(t, s.AddInvitation(testGuild, TeamRequest{TeamID: "g02", SenderID: "b"}))
	assert.True(t, s.AddInvitation("guild-2", TeamRequest{TeamID: "g01", SenderID: "c"}))

	invs := s.Invitations(testGuild)
	require.Len(t, invs, 2)
	assert.Equal(t, StudentID("a"), invs[0].SenderID, "first sender is kept")

	req, ok := s.Invitation(testGuild, "g02")
	assert.True(t, ok)
	assert.True(t, req.Equal(TeamRequest{TeamID: "g02"}))

	_, ok = s.Invitation(testGuild, "g09")
	assert.False(t, ok)
}

func TestRecordRequest(t *testing.T) {
	s := newTestStudent()
	for i := 1; i <= MaxRequestHistory+5; i++ {
		s.RecordRequest(testGuild, "p1", i)
	}

	g := s.Guild(testGuild)
	require.NotNil(t, g.LastCommand)
	assert.Equal(t, "p1", *g.LastCommand)
	assert.Len(t, g.RequestHistory, MaxRequestHistory)
	assert.Equal(t, 6, g.RequestHistory[0], "oldest entries are dropped first")

	recent := s.History(testGuild, 3)
	assert.Equal(t, []int{MaxRequestHistory + 3, MaxRequestHistory + 4, MaxRequestHistory + 5}, recent)
	assert.Len(t, s.History(testGuild, 0), MaxRequestHistory)
	assert.Nil(t, s.History("guild-2", 30))
}

func TestRecordRequest_EmptyCommandKeepsLast(t *testing.T) {
	s := newTestStudent()
	s.RecordRequest(testGuild, "p2", 1)
	s.RecordRequest(testGuild, "", 2)

	assert.Equal(t, "p2", *s.Guild(testGuild).LastCommand)
}

func TestSetPreferredQueue(t *testing.T) {
	s := newTestStudent()
	s.SetPreferredQueue(testGuild, "p3")
	require.NotNil(t, s.Guild(testGuild).PreferredQueue)
	assert.Equal(t, "p3", *s.Guild(testGuild).PreferredQueue)

	s.SetPreferredQueue(testGuild, "")
	assert.Nil(t, s.Guild(testGuild).PreferredQueue)
}

// The three per-guild states are mutually exclusive: credentials imply no
// pending invitations.
func TestAffiliationStates(t *testing.T) {
	s := newTestStudent()
	assert.False(t, s.IsAffiliated(testGuild))
	assert.Empty(t, s.Invitations(testGuild))

	s.AddInvitation(testGuild, TeamRequest{TeamID: "g01", SenderID: "a"})
	assert.False(t, s.IsAffiliated(testGuild))
	assert.Len(t, s.Invitations(testGuild), 1)

	team := NewTeam(testGuild, "g01", nil)
	team.AddMember(s)
	assert.True(t, s.IsAffiliated(testGuild))
	assert.Empty(t, s.Invitations(testGuild))

	team.RemoveMember(s)
	assert.False(t, s.IsAffiliated(testGuild))
	assert.Empty(t, s.Invitations(testGuild), "leaving does not restore invitations")
}
