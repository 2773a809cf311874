package guilddb

import "errors"

var (
	// ErrNotFound is returned when no active config exists for the guild.
	ErrNotFound = errors.New("guild config not found")
	// ErrNoRowsAffected is returned when an UPDATE or DELETE matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
)
