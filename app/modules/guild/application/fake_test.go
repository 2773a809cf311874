package guildservice

import (
	"context"
	"sync"

	guilddb "github.com/Black-And-White-Club/roster-bot/app/modules/guild/infrastructure/repositories"
	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Guild Repo
// ------------------------

// FakeGuildRepo stores active configs in memory. Set a XxxFunc to override a call.
type FakeGuildRepo struct {
	mu      sync.Mutex
	trace   []string
	configs map[sharedtypes.GuildID]guildtypes.GuildConfig

	GetConfigFunc    func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guildtypes.GuildConfig, error)
	SaveConfigFunc   func(ctx context.Context, db bun.IDB, config *guildtypes.GuildConfig) error
	UpdateConfigFunc func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, updates *guilddb.UpdateFields) error
	DeleteConfigFunc func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) error
}

func NewFakeGuildRepo() *FakeGuildRepo {
	return &FakeGuildRepo{
		trace:   []string{},
		configs: make(map[sharedtypes.GuildID]guildtypes.GuildConfig),
	}
}

func (f *FakeGuildRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeGuildRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Put seeds an active config.
func (f *FakeGuildRepo) Put(cfg guildtypes.GuildConfig) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs[cfg.GuildID] = cfg
}

// --- Repository Interface Implementation ---

func (f *FakeGuildRepo) GetConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guildtypes.GuildConfig, error) {
	f.mu.Lock()
	f.record("GetConfig")
	fn := f.GetConfigFunc
	cfg, ok := f.configs[guildID]
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, db, guildID)
	}
	if !ok {
		return nil, guilddb.ErrNotFound
	}
	return &cfg, nil
}

func (f *FakeGuildRepo) SaveConfig(ctx context.Context, db bun.IDB, config *guildtypes.GuildConfig) error {
	f.mu.Lock()
	f.record("SaveConfig")
	fn := f.SaveConfigFunc
	if fn == nil {
		f.configs[config.GuildID] = *config
	}
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, db, config)
	}
	return nil
}

func (f *FakeGuildRepo) UpdateConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, updates *guilddb.UpdateFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateConfig")
	if f.UpdateConfigFunc != nil {
		return f.UpdateConfigFunc(ctx, db, guildID, updates)
	}
	cfg, ok := f.configs[guildID]
	if !ok {
		return guilddb.ErrNoRowsAffected
	}
	if updates.TeamCapacity != nil {
		cfg.TeamCapacity = *updates.TeamCapacity
	}
	if updates.TeamPrefix != nil {
		cfg.TeamPrefix = *updates.TeamPrefix
	}
	if updates.SubmissionURL != nil {
		cfg.SubmissionURL = *updates.SubmissionURL
	}
	if updates.HistoryLimit != nil {
		cfg.HistoryLimit = *updates.HistoryLimit
	}
	f.configs[guildID] = cfg
	return nil
}

func (f *FakeGuildRepo) DeleteConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteConfig")
	if f.DeleteConfigFunc != nil {
		return f.DeleteConfigFunc(ctx, db, guildID)
	}
	if _, ok := f.configs[guildID]; !ok {
		return guilddb.ErrNoRowsAffected
	}
	delete(f.configs, guildID)
	return nil
}

var _ guilddb.Repository = (*FakeGuildRepo)(nil)
