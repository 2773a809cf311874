package teamdomain

import (
	"maps"
	"slices"
	"strings"

	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
)

// GuildTeamInfo is the per-guild registry: identifier allocation, the pool of
// retired identifiers, staged passwords and the display-name index.
type GuildTeamInfo struct {
	GuildID sharedtypes.GuildID
	Prefix  string
	// Count is the highest team number ever issued.
	Count int
	// Holes are retired identifiers, reused most-recent first.
	Holes     []TeamID
	Passwords map[TeamID]string
	Names     map[string]TeamID
}

// NewGuildTeamInfo returns an empty registry for guildID.
func NewGuildTeamInfo(guildID sharedtypes.GuildID, prefix string) *GuildTeamInfo {
	return &GuildTeamInfo{
		GuildID:   guildID,
		Prefix:    prefix,
		Passwords: make(map[TeamID]string),
		Names:     make(map[string]TeamID),
	}
}

// RegisterNew hands out the most recently retired identifier, or the next
// number when none is retired.
func (g *GuildTeamInfo) RegisterNew() TeamID {
	if n := len(g.Holes); n > 0 {
		id := g.Holes[n-1]
		g.Holes = g.Holes[:n-1]
		return id
	}
	g.Count++
	return FormatTeamID(g.Prefix, g.Count)
}

// RegisterSpecific claims id for an administrative assignment and returns
// its canonical form. Numbers past Count retire every skipped identifier;
// numbers at or below Count must be retired already.
func (g *GuildTeamInfo) RegisterSpecific(id TeamID) (TeamID, error) {
	n, err := ParseTeamNumber(g.Prefix, id)
	if err != nil {
		return "", err
	}
	canonical := FormatTeamID(g.Prefix, n)

	if n > g.Count {
		for i := g.Count + 1; i < n; i++ {
			g.Holes = append(g.Holes, FormatTeamID(g.Prefix, i))
		}
		g.Count = n
		return canonical, nil
	}

	i := slices.Index(g.Holes, canonical)
	if i < 0 {
		return "", ErrAlreadyInUse
	}
	g.Holes = slices.Delete(g.Holes, i, i+1)
	return canonical, nil
}

// Discard retires id. Count is left alone.
func (g *GuildTeamInfo) Discard(id TeamID) {
	if slices.Contains(g.Holes, id) {
		return
	}
	g.Holes = append(g.Holes, id)
}

// IsRetired reports whether id sits in the hole pool.
func (g *GuildTeamInfo) IsRetired(id TeamID) bool {
	return slices.Contains(g.Holes, id)
}

// StagedPassword returns the imported password for id, if any.
func (g *GuildTeamInfo) StagedPassword(id TeamID) *string {
	pw, ok := g.Passwords[id]
	if !ok {
		return nil
	}
	return &pw
}

// ReplacePasswords swaps the whole staging map.
func (g *GuildTeamInfo) ReplacePasswords(passwords map[TeamID]string) {
	g.Passwords = maps.Clone(passwords)
	if g.Passwords == nil {
		g.Passwords = make(map[TeamID]string)
	}
}

// UpdatePrefix changes the prefix for identifiers issued from now on.
func (g *GuildTeamInfo) UpdatePrefix(prefix string) {
	g.Prefix = prefix
}

// ClaimName maps name to id. It fails with ErrNameConflict when another team
// holds the name.
func (g *GuildTeamInfo) ClaimName(name string, id TeamID) error {
	if g.Names == nil {
		g.Names = make(map[string]TeamID)
	}
	if owner, ok := g.Names[name]; ok && owner != id {
		return ErrNameConflict
	}
	g.Names[name] = id
	return nil
}

// ReleaseName drops name if id owns it.
func (g *GuildTeamInfo) ReleaseName(name string, id TeamID) {
	if owner, ok := g.Names[name]; ok && owner == id {
		delete(g.Names, name)
	}
}

// RenameTeam moves team's display name to newName. Names that look like
// another team's identifier are refused so that a new team can always be
// named after its own id.
func (g *GuildTeamInfo) RenameTeam(team *Team, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrInvalidName
	}
	if newName == team.Name {
		return nil
	}
	if id, err := CanonicalTeamID(g.Prefix, TeamID(newName)); err == nil && id != team.ID {
		return ErrNameConflict
	}
	if err := g.ClaimName(newName, team.ID); err != nil {
		return err
	}
	g.ReleaseName(team.Name, team.ID)
	team.Name = newName
	return nil
}

// CreateTeam allocates an identifier and builds the team, applying any
// staged password and indexing its default name.
func (g *GuildTeamInfo) CreateTeam() *Team {
	id := g.RegisterNew()
	return g.newTeam(id)
}

// CreateSpecificTeam is CreateTeam for an administrator-chosen identifier.
func (g *GuildTeamInfo) CreateSpecificTeam(id TeamID) (*Team, error) {
	canonical, err := g.RegisterSpecific(id)
	if err != nil {
		return nil, err
	}
	return g.newTeam(canonical), nil
}

func (g *GuildTeamInfo) newTeam(id TeamID) *Team {
	t := NewTeam(g.GuildID, id, g.StagedPassword(id))
	// A name collision here leaves the team unindexed under its id.
	_ = g.ClaimName(t.Name, id)
	return t
}

// RetireTeam releases the team's name and returns its identifier to the pool.
func (g *GuildTeamInfo) RetireTeam(team *Team) {
	g.ReleaseName(team.Name, team.ID)
	g.Discard(team.ID)
}
