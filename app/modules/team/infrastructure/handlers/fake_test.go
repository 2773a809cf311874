package teamhandlers

import (
	"context"
	"sync"

	teamservice "github.com/Black-And-White-Club/roster-bot/app/modules/team/application"
	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
)

// ------------------------
// Fake Team Service
// ------------------------

type FakeTeamService struct {
	mu    sync.Mutex
	trace []string

	RegisterStudentFunc     func(ctx context.Context, id sharedtypes.DiscordID, name string) (*teamdomain.Student, error)
	GetStudentFunc          func(ctx context.Context, id sharedtypes.DiscordID) (*teamdomain.Student, error)
	CreateTeamFunc          func(ctx context.Context, guildID sharedtypes.GuildID, creatorID sharedtypes.DiscordID, invitees []sharedtypes.DiscordID) (*teamservice.CreateTeamResult, error)
	InviteToTeamFunc        func(ctx context.Context, guildID sharedtypes.GuildID, inviterID sharedtypes.DiscordID, invitees []sharedtypes.DiscordID) (*teamservice.InviteResult, error)
	ListInvitationsFunc     func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) ([]teamdomain.TeamRequest, error)
	JoinTeamFunc            func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*teamdomain.Team, error)
	LeaveTeamFunc           func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) (*teamservice.LeaveResult, error)
	RenameTeamFunc          func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, name string) (*teamdomain.Team, error)
	MoveStudentFunc         func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*teamservice.MoveResult, error)
	AddStudentFunc          func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*teamservice.MoveResult, error)
	RemoveStudentFunc       func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) (*teamservice.LeaveResult, error)
	ConfirmTeamFunc         func(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error)
	UnconfirmTeamFunc       func(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error)
	SetTeamPasswordFunc     func(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID, password string) (*teamdomain.Team, error)
	AdminRenameTeamFunc     func(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID, name string) (*teamdomain.Team, error)
	DeleteTeamFunc          func(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error)
	ImportPasswordsFunc     func(ctx context.Context, guildID sharedtypes.GuildID, passwords map[teamdomain.TeamID]string) (*teamservice.ImportPasswordsResult, error)
	GetTeamFunc             func(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error)
	DumpTeamsFunc           func(ctx context.Context, guildID sharedtypes.GuildID) ([]*teamdomain.Team, error)
	GetSettingsFunc         func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) (*teamservice.StudentSettings, error)
	SetPreferredQueueFunc   func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, queue string) (*teamservice.StudentSettings, error)
	RecordRequestFunc       func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, command string, requestID int) error
	GetRequestHistoryFunc   func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, limit int) ([]int, error)
	ResolveSubmissionFunc   func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, queue string) (*teamservice.SubmissionTarget, error)
	EnsureGuildTeamInfoFunc func(ctx context.Context, guildID sharedtypes.GuildID) (*teamdomain.GuildTeamInfo, error)
	UpdateTeamPrefixFunc    func(ctx context.Context, guildID sharedtypes.GuildID, prefix string) (*teamdomain.GuildTeamInfo, error)
}

func NewFakeTeamService() *FakeTeamService {
	return &FakeTeamService{
		trace: []string{},
	}
}

func (f *FakeTeamService) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// --- Service Interface Implementation ---

func (f *FakeTeamService) RegisterStudent(ctx context.Context, id sharedtypes.DiscordID, name string) (*teamdomain.Student, error) {
	f.record("RegisterStudent")
	if f.RegisterStudentFunc != nil {
		return f.RegisterStudentFunc(ctx, id, name)
	}
	return nil, nil
}

func (f *FakeTeamService) GetStudent(ctx context.Context, id sharedtypes.DiscordID) (*teamdomain.Student, error) {
	f.record("GetStudent")
	if f.GetStudentFunc != nil {
		return f.GetStudentFunc(ctx, id)
	}
	return nil, nil
}

func (f *FakeTeamService) CreateTeam(ctx context.Context, guildID sharedtypes.GuildID, creatorID sharedtypes.DiscordID, invitees []sharedtypes.DiscordID) (*teamservice.CreateTeamResult, error) {
	f.record("CreateTeam")
	if f.CreateTeamFunc != nil {
		return f.CreateTeamFunc(ctx, guildID, creatorID, invitees)
	}
	return nil, nil
}

func (f *FakeTeamService) InviteToTeam(ctx context.Context, guildID sharedtypes.GuildID, inviterID sharedtypes.DiscordID, invitees []sharedtypes.DiscordID) (*teamservice.InviteResult, error) {
	f.record("InviteToTeam")
	if f.InviteToTeamFunc != nil {
		return f.InviteToTeamFunc(ctx, guildID, inviterID, invitees)
	}
	return nil, nil
}

func (f *FakeTeamService) ListInvitations(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) ([]teamdomain.TeamRequest, error) {
	f.record("ListInvitations")
	if f.ListInvitationsFunc != nil {
		return f.ListInvitationsFunc(ctx, guildID, studentID)
	}
	return nil, nil
}

func (f *FakeTeamService) JoinTeam(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*teamdomain.Team, error) {
	f.record("JoinTeam")
	if f.JoinTeamFunc != nil {
		return f.JoinTeamFunc(ctx, guildID, studentID, teamID)
	}
	return nil, nil
}

func (f *FakeTeamService) LeaveTeam(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) (*teamservice.LeaveResult, error) {
	f.record("LeaveTeam")
	if f.LeaveTeamFunc != nil {
		return f.LeaveTeamFunc(ctx, guildID, studentID)
	}
	return nil, nil
}

func (f *FakeTeamService) RenameTeam(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, name string) (*teamdomain.Team, error) {
	f.record("RenameTeam")
	if f.RenameTeamFunc != nil {
		return f.RenameTeamFunc(ctx, guildID, studentID, name)
	}
	return nil, nil
}

func (f *FakeTeamService) MoveStudent(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*teamservice.MoveResult, error) {
	f.record("MoveStudent")
	if f.MoveStudentFunc != nil {
		return f.MoveStudentFunc(ctx, guildID, studentID, teamID)
	}
	return nil, nil
}

func (f *FakeTeamService) AddStudent(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*teamservice.MoveResult, error) {
	f.record("AddStudent")
	if f.AddStudentFunc != nil {
		return f.AddStudentFunc(ctx, guildID, studentID, teamID)
	}
	return nil, nil
}

func (f *FakeTeamService) RemoveStudent(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) (*teamservice.LeaveResult, error) {
	f.record("RemoveStudent")
	if f.RemoveStudentFunc != nil {
		return f.RemoveStudentFunc(ctx, guildID, studentID)
	}
	return nil, nil
}

func (f *FakeTeamService) ConfirmTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error) {
	f.record("ConfirmTeam")
	if f.ConfirmTeamFunc != nil {
		return f.ConfirmTeamFunc(ctx, guildID, teamID)
	}
	return nil, nil
}

func (f *FakeTeamService) UnconfirmTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error) {
	f.record("UnconfirmTeam")
	if f.UnconfirmTeamFunc != nil {
		return f.UnconfirmTeamFunc(ctx, guildID, teamID)
	}
	return nil, nil
}

func (f *FakeTeamService) SetTeamPassword(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID, password string) (*teamdomain.Team, error) {
	f.record("SetTeamPassword")
	if f.SetTeamPasswordFunc != nil {
		return f.SetTeamPasswordFunc(ctx, guildID, teamID, password)
	}
	return nil, nil
}

func (f *FakeTeamService) AdminRenameTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID, name string) (*teamdomain.Team, error) {
	f.record("AdminRenameTeam")
	if f.AdminRenameTeamFunc != nil {
		return f.AdminRenameTeamFunc(ctx, guildID, teamID, name)
	}
	return nil, nil
}

func (f *FakeTeamService) DeleteTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error) {
	f.record("DeleteTeam")
	if f.DeleteTeamFunc != nil {
		return f.DeleteTeamFunc(ctx, guildID, teamID)
	}
	return nil, nil
}

func (f *FakeTeamService) ImportPasswords(ctx context.Context, guildID sharedtypes.GuildID, passwords map[teamdomain.TeamID]string) (*teamservice.ImportPasswordsResult, error) {
	f.record("ImportPasswords")
	if f.ImportPasswordsFunc != nil {
		return f.ImportPasswordsFunc(ctx, guildID, passwords)
	}
	return nil, nil
}

func (f *FakeTeamService) GetTeam(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error) {
	f.record("GetTeam")
	if f.GetTeamFunc != nil {
		return f.GetTeamFunc(ctx, guildID, teamID)
	}
	return nil, nil
}

func (f *FakeTeamService) DumpTeams(ctx context.Context, guildID sharedtypes.GuildID) ([]*teamdomain.Team, error) {
	f.record("DumpTeams")
	if f.DumpTeamsFunc != nil {
		return f.DumpTeamsFunc(ctx, guildID)
	}
	return nil, nil
}

func (f *FakeTeamService) GetSettings(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) (*teamservice.StudentSettings, error) {
	f.record("GetSettings")
	if f.GetSettingsFunc != nil {
		return f.GetSettingsFunc(ctx, guildID, studentID)
	}
	return nil, nil
}

func (f *FakeTeamService) SetPreferredQueue(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, queue string) (*teamservice.StudentSettings, error) {
	f.record("SetPreferredQueue")
	if f.SetPreferredQueueFunc != nil {
		return f.SetPreferredQueueFunc(ctx, guildID, studentID, queue)
	}
	return nil, nil
}

func (f *FakeTeamService) RecordRequest(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, command string, requestID int) error {
	f.record("RecordRequest")
	if f.RecordRequestFunc != nil {
		return f.RecordRequestFunc(ctx, guildID, studentID, command, requestID)
	}
	return nil
}

func (f *FakeTeamService) GetRequestHistory(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, limit int) ([]int, error) {
	f.record("GetRequestHistory")
	if f.GetRequestHistoryFunc != nil {
		return f.GetRequestHistoryFunc(ctx, guildID, studentID, limit)
	}
	return nil, nil
}

func (f *FakeTeamService) ResolveSubmission(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, queue string) (*teamservice.SubmissionTarget, error) {
	f.record("ResolveSubmission")
	if f.ResolveSubmissionFunc != nil {
		return f.ResolveSubmissionFunc(ctx, guildID, studentID, queue)
	}
	return nil, nil
}

func (f *FakeTeamService) EnsureGuildTeamInfo(ctx context.Context, guildID sharedtypes.GuildID) (*teamdomain.GuildTeamInfo, error) {
	f.record("EnsureGuildTeamInfo")
	if f.EnsureGuildTeamInfoFunc != nil {
		return f.EnsureGuildTeamInfoFunc(ctx, guildID)
	}
	return nil, nil
}

func (f *FakeTeamService) UpdateTeamPrefix(ctx context.Context, guildID sharedtypes.GuildID, prefix string) (*teamdomain.GuildTeamInfo, error) {
	f.record("UpdateTeamPrefix")
	if f.UpdateTeamPrefixFunc != nil {
		return f.UpdateTeamPrefixFunc(ctx, guildID, prefix)
	}
	return nil, nil
}

// --- Accessors for assertions ---

func (f *FakeTeamService) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ teamservice.Service = (*FakeTeamService)(nil)
