package teamservice

import (
	"sync"

	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
)

// guildLocks serializes registry operations per guild inside this process.
// The database row lock taken by LockGuild covers other processes.
type guildLocks struct {
	mu    sync.Mutex
	locks map[sharedtypes.GuildID]*guildLock
}

type guildLock struct {
	mu   sync.Mutex
	refs int
}

func newGuildLocks() *guildLocks {
	return &guildLocks{locks: make(map[sharedtypes.GuildID]*guildLock)}
}

// Lock blocks until guildID is free and returns the matching unlock.
// Entries are dropped once no goroutine holds or waits for them.
func (l *guildLocks) Lock(guildID sharedtypes.GuildID) func() {
	l.mu.Lock()
	gl, ok := l.locks[guildID]
	if !ok {
		gl = &guildLock{}
		l.locks[guildID] = gl
	}
	gl.refs++
	l.mu.Unlock()

	gl.mu.Lock()

	return func() {
		gl.mu.Unlock()
		l.mu.Lock()
		gl.refs--
		if gl.refs == 0 {
			delete(l.locks, guildID)
		}
		l.mu.Unlock()
	}
}

func (l *guildLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
