package sharedtypes

// GuildID is the Discord snowflake of a guild. Teams, credentials and
// identifier allocation are all scoped by it.
type GuildID string

// DiscordID is the Discord snowflake of a user.
type DiscordID string

// String returns the guild id as a plain string.
func (g GuildID) String() string { return string(g) }

// String returns the user id as a plain string.
func (d DiscordID) String() string { return string(d) }
