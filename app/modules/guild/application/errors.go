package guildservice

import "errors"

// Domain failures. Handlers publish them as failure events instead of
// retrying.
var (
	ErrGuildConfigNotFound      = errors.New("guild config not found")
	ErrGuildConfigAlreadyExists = errors.New("guild config already exists")
	ErrInvalidGuildID           = errors.New("invalid guild ID")
	ErrInvalidConfig            = errors.New("invalid guild config")
	ErrNilConfig                = errors.New("config payload is nil")
)
