package guildhandlers

import (
	"context"
	"sync"

	guildservice "github.com/Black-And-White-Club/roster-bot/app/modules/guild/application"
	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
)

// FakeGuildService records calls and delegates to the XxxFunc hooks.
type FakeGuildService struct {
	mu    sync.Mutex
	trace []string

	CreateGuildConfigFunc func(ctx context.Context, config *guildtypes.GuildConfig) (guildservice.GuildConfigResult, error)
	GetGuildConfigFunc    func(ctx context.Context, guildID sharedtypes.GuildID) (guildservice.GuildConfigResult, error)
	UpdateGuildConfigFunc func(ctx context.Context, guildID sharedtypes.GuildID, changes guildservice.ConfigChanges) (guildservice.GuildConfigUpdateResult, error)
	DeleteGuildConfigFunc func(ctx context.Context, guildID sharedtypes.GuildID) (guildservice.GuildConfigResult, error)
	TeamSettingsFunc      func(ctx context.Context, guildID sharedtypes.GuildID) (guildtypes.TeamSettings, error)
}

func NewFakeGuildService() *FakeGuildService {
	return &FakeGuildService{trace: []string{}}
}

func (f *FakeGuildService) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeGuildService) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeGuildService) CreateGuildConfig(ctx context.Context, config *guildtypes.GuildConfig) (guildservice.GuildConfigResult, error) {
	f.record("CreateGuildConfig")
	if f.CreateGuildConfigFunc != nil {
		return f.CreateGuildConfigFunc(ctx, config)
	}
	return guildservice.GuildConfigResult{}, nil
}

func (f *FakeGuildService) GetGuildConfig(ctx context.Context, guildID sharedtypes.GuildID) (guildservice.GuildConfigResult, error) {
	f.record("GetGuildConfig")
	if f.GetGuildConfigFunc != nil {
		return f.GetGuildConfigFunc(ctx, guildID)
	}
	return guildservice.GuildConfigResult{}, nil
}

func (f *FakeGuildService) UpdateGuildConfig(ctx context.Context, guildID sharedtypes.GuildID, changes guildservice.ConfigChanges) (guildservice.GuildConfigUpdateResult, error) {
	f.record("UpdateGuildConfig")
	if f.UpdateGuildConfigFunc != nil {
		return f.UpdateGuildConfigFunc(ctx, guildID, changes)
	}
	return guildservice.GuildConfigUpdateResult{}, nil
}

func (f *FakeGuildService) DeleteGuildConfig(ctx context.Context, guildID sharedtypes.GuildID) (guildservice.GuildConfigResult, error) {
	f.record("DeleteGuildConfig")
	if f.DeleteGuildConfigFunc != nil {
		return f.DeleteGuildConfigFunc(ctx, guildID)
	}
	return guildservice.GuildConfigResult{}, nil
}

func (f *FakeGuildService) TeamSettings(ctx context.Context, guildID sharedtypes.GuildID) (guildtypes.TeamSettings, error) {
	f.record("TeamSettings")
	if f.TeamSettingsFunc != nil {
		return f.TeamSettingsFunc(ctx, guildID)
	}
	return guildtypes.DefaultTeamSettings(), nil
}

var _ guildservice.Service = (*FakeGuildService)(nil)
