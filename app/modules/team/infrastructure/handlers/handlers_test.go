package teamhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	guildevents "github.com/Black-And-White-Club/roster-bot/app/modules/guild/events"
	teamservice "github.com/Black-And-White-Club/roster-bot/app/modules/team/application"
	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	teamevents "github.com/Black-And-White-Club/roster-bot/app/modules/team/events"
	"github.com/Black-And-White-Club/roster-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/roster-bot/pkg/handlerwrapper"
	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	testGuild sharedtypes.GuildID   = "guild-1"
	alice     sharedtypes.DiscordID = "111"
	bob       sharedtypes.DiscordID = "222"
)

func newTestHandlers(svc *FakeTeamService) Handlers {
	return NewTeamHandlers(svc, nil, slog.Default(), noop.NewTracerProvider().Tracer("test"))
}

func reply(t *testing.T, r handlerwrapper.Result) *teamevents.CommandReplyPayloadV1 {
	t.Helper()
	p, ok := r.Payload.(*teamevents.CommandReplyPayloadV1)
	require.True(t, ok, "payload should be CommandReplyPayloadV1, got %T", r.Payload)
	return p
}

func team(id string, members ...sharedtypes.DiscordID) *teamdomain.Team {
	t := teamdomain.NewTeam(testGuild, teamdomain.TeamID(id), nil)
	t.Members = members
	return t
}

func TestHandleCreateTeam(t *testing.T) {
	tests := []struct {
		name         string
		setupService func(*FakeTeamService)
		wantResults  int
		wantSuccess  bool
		wantCode     string
		wantErr      bool
	}{
		{
			name: "team created with invitations",
			setupService: func(f *FakeTeamService) {
				f.CreateTeamFunc = func(ctx context.Context, guildID sharedtypes.GuildID, creatorID sharedtypes.DiscordID, invitees []sharedtypes.DiscordID) (*teamservice.CreateTeamResult, error) {
					return &teamservice.CreateTeamResult{
						Team:    team("g01", creatorID),
						Invited: invitees,
						Rejected: []teamservice.InviteRejection{
							{StudentID: "333", Reason: teamdomain.ErrAlreadyAffiliated},
						},
					}, nil
				}
			},
			wantResults: 2,
			wantSuccess: true,
		},
		{
			name: "already affiliated",
			setupService: func(f *FakeTeamService) {
				f.CreateTeamFunc = func(context.Context, sharedtypes.GuildID, sharedtypes.DiscordID, []sharedtypes.DiscordID) (*teamservice.CreateTeamResult, error) {
					return nil, fmt.Errorf("create: %w", teamdomain.ErrAlreadyAffiliated)
				}
			},
			wantResults: 1,
			wantCode:    CodeAlreadyAffiliated,
		},
		{
			name: "too many invitees reports its own code",
			setupService: func(f *FakeTeamService) {
				f.CreateTeamFunc = func(context.Context, sharedtypes.GuildID, sharedtypes.DiscordID, []sharedtypes.DiscordID) (*teamservice.CreateTeamResult, error) {
					return nil, teamdomain.ErrTooManyInvitees
				}
			},
			wantResults: 1,
			wantCode:    CodeTooManyInvitees,
		},
		{
			name: "infrastructure error is returned",
			setupService: func(f *FakeTeamService) {
				f.CreateTeamFunc = func(context.Context, sharedtypes.GuildID, sharedtypes.DiscordID, []sharedtypes.DiscordID) (*teamservice.CreateTeamResult, error) {
					return nil, errors.New("database error")
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeService := NewFakeTeamService()
			tt.setupService(fakeService)
			h := newTestHandlers(fakeService)

			results, err := h.HandleCreateTeam(context.Background(), &teamevents.CreateTeamRequestedPayloadV1{
				GuildID:  testGuild,
				UserID:   alice,
				Invitees: []sharedtypes.DiscordID{bob, "333"},
			})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, results)
				return
			}
			require.NoError(t, err)
			require.Len(t, results, tt.wantResults)

			r := reply(t, results[0])
			assert.Equal(t, tt.wantSuccess, r.Success)
			assert.Equal(t, tt.wantCode, r.ErrorCode)
			assert.Equal(t, teamevents.ReplyTopic(teamevents.CommandCreate, tt.wantSuccess), results[0].Topic)
			assert.Equal(t, []string{"CreateTeam"}, fakeService.Trace())

			if tt.wantSuccess {
				data, ok := r.Data.(*teamevents.InviteResultV1)
				require.True(t, ok)
				assert.Equal(t, "g01", data.Team.ID)
				assert.Equal(t, []teamevents.RejectionViewV1{{StudentID: "333", Code: CodeAlreadyAffiliated}}, data.Rejected)
				assert.Contains(t, r.Message, "<@222>")

				assert.Equal(t, eventbus.FormatGuildScopedTopic(teamevents.RosterChangedV1, string(testGuild)), results[1].Topic)
				roster := results[1].Payload.(*teamevents.RosterChangedPayloadV1)
				assert.Equal(t, teamevents.RosterCreated, roster.Change)
			}
		})
	}
}

func TestHandleInvite_EmptyInviteesSkipsService(t *testing.T) {
	fakeService := NewFakeTeamService()
	h := newTestHandlers(fakeService)

	results, err := h.HandleInvite(context.Background(), &teamevents.InviteRequestedPayloadV1{GuildID: testGuild, UserID: alice})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, CodeInvalidRequest, reply(t, results[0]).ErrorCode)
	assert.Empty(t, fakeService.Trace())
}

func TestHandleJoin(t *testing.T) {
	var gotID teamdomain.TeamID
	fakeService := NewFakeTeamService()
	fakeService.JoinTeamFunc = func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*teamdomain.Team, error) {
		gotID = teamID
		if teamID == "g09" {
			return nil, teamdomain.ErrNotInvited
		}
		return team(string(teamID), alice, studentID), nil
	}
	h := newTestHandlers(fakeService)

	results, err := h.HandleJoin(context.Background(), &teamevents.JoinRequestedPayloadV1{GuildID: testGuild, UserID: bob, TeamID: " g01 "})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, teamdomain.TeamID("g01"), gotID)
	assert.True(t, reply(t, results[0]).Success)

	results, err = h.HandleJoin(context.Background(), &teamevents.JoinRequestedPayloadV1{GuildID: testGuild, UserID: bob, TeamID: "g09"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, CodeNotInvited, reply(t, results[0]).ErrorCode)
}

func TestHandleListInvitations(t *testing.T) {
	t.Run("lists pending invitations", func(t *testing.T) {
		fakeService := NewFakeTeamService()
		fakeService.ListInvitationsFunc = func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) ([]teamdomain.TeamRequest, error) {
			return []teamdomain.TeamRequest{{TeamID: "g01", SenderID: alice}, {TeamID: "g04", SenderID: "333"}}, nil
		}
		h := newTestHandlers(fakeService)

		results, err := h.HandleListInvitations(context.Background(), &teamevents.StudentRequestedPayloadV1{GuildID: testGuild, UserID: bob})
		require.NoError(t, err)
		require.Len(t, results, 1)
		p := reply(t, results[0])
		assert.True(t, p.Success)
		assert.Contains(t, p.Message, "g01 from <@111>")
		assert.Contains(t, p.Message, "g04 from <@333>")
		assert.Equal(t, []teamevents.InvitationViewV1{
			{TeamID: "g01", SenderID: alice},
			{TeamID: "g04", SenderID: "333"},
		}, p.Data)
	})

	t.Run("no invitations", func(t *testing.T) {
		h := newTestHandlers(NewFakeTeamService())

		results, err := h.HandleListInvitations(context.Background(), &teamevents.StudentRequestedPayloadV1{GuildID: testGuild, UserID: bob})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "You have no pending invitations.", reply(t, results[0]).Message)
	})

	t.Run("infrastructure error is returned", func(t *testing.T) {
		fakeService := NewFakeTeamService()
		fakeService.ListInvitationsFunc = func(context.Context, sharedtypes.GuildID, sharedtypes.DiscordID) ([]teamdomain.TeamRequest, error) {
			return nil, errors.New("connection reset")
		}
		h := newTestHandlers(fakeService)

		_, err := h.HandleListInvitations(context.Background(), &teamevents.StudentRequestedPayloadV1{GuildID: testGuild, UserID: bob})
		assert.Error(t, err)
	})
}

func TestHandleLeave(t *testing.T) {
	tests := []struct {
		name        string
		result      *teamservice.LeaveResult
		wantResults int
		wantChange  string
	}{
		{
			name:        "team survives",
			result:      &teamservice.LeaveResult{TeamID: "g01"},
			wantResults: 2,
			wantChange:  teamevents.RosterLeft,
		},
		{
			name:        "team drained",
			result:      &teamservice.LeaveResult{TeamID: "g01", TeamDeleted: true},
			wantResults: 2,
			wantChange:  teamevents.RosterDeleted,
		},
		{
			name:        "stale credentials repaired",
			result:      &teamservice.LeaveResult{TeamID: "g07", Repaired: true},
			wantResults: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeService := NewFakeTeamService()
			fakeService.LeaveTeamFunc = func(context.Context, sharedtypes.GuildID, sharedtypes.DiscordID) (*teamservice.LeaveResult, error) {
				return tt.result, nil
			}
			h := newTestHandlers(fakeService)

			results, err := h.HandleLeave(context.Background(), &teamevents.StudentRequestedPayloadV1{GuildID: testGuild, UserID: alice})
			require.NoError(t, err)
			require.Len(t, results, tt.wantResults)
			assert.True(t, reply(t, results[0]).Success)
			if tt.wantChange != "" {
				assert.Equal(t, tt.wantChange, results[1].Payload.(*teamevents.RosterChangedPayloadV1).Change)
			}
		})
	}
}

func TestCommandUsesContextFallbacks(t *testing.T) {
	fakeService := NewFakeTeamService()
	var gotGuild sharedtypes.GuildID
	var gotUser sharedtypes.DiscordID
	fakeService.GetSettingsFunc = func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) (*teamservice.StudentSettings, error) {
		gotGuild, gotUser = guildID, studentID
		return &teamservice.StudentSettings{StudentID: studentID}, nil
	}
	h := newTestHandlers(fakeService)

	ctx := context.WithValue(context.Background(), handlerwrapper.CtxKeyGuildID, "ctx-guild")
	ctx = context.WithValue(ctx, handlerwrapper.CtxKeyUserID, "ctx-user")
	ctx = context.WithValue(ctx, handlerwrapper.CtxKeyReplyTo, "discord.reply.abc")

	results, err := h.HandleSettings(ctx, &teamevents.StudentRequestedPayloadV1{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, sharedtypes.GuildID("ctx-guild"), gotGuild)
	assert.Equal(t, sharedtypes.DiscordID("ctx-user"), gotUser)
	assert.Equal(t, "discord.reply.abc", results[0].Topic)
	assert.Contains(t, reply(t, results[0]).Message, "Team: none")
}

func TestHandleSettings_ShowsPassword(t *testing.T) {
	id := teamdomain.TeamID("g01")
	pw := "hunter2"
	fakeService := NewFakeTeamService()
	fakeService.GetSettingsFunc = func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) (*teamservice.StudentSettings, error) {
		return &teamservice.StudentSettings{StudentID: studentID, TeamID: &id, Password: &pw}, nil
	}
	h := newTestHandlers(fakeService)

	results, err := h.HandleSettings(context.Background(), &teamevents.StudentRequestedPayloadV1{GuildID: testGuild, UserID: alice})
	require.NoError(t, err)
	r := reply(t, results[0])
	assert.Contains(t, r.Message, "||hunter2||")
	view := r.Data.(*teamevents.SettingsViewV1)
	assert.Equal(t, "g01", view.TeamID)
	assert.Equal(t, "hunter2", view.Password)
}

func TestHandleResolveSubmission(t *testing.T) {
	fakeService := NewFakeTeamService()
	fakeService.ResolveSubmissionFunc = func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, queue string) (*teamservice.SubmissionTarget, error) {
		if queue == "" {
			return nil, teamdomain.ErrNoQueue
		}
		return &teamservice.SubmissionTarget{TeamID: "g01", Password: "pw", Queue: queue}, nil
	}
	h := newTestHandlers(fakeService)

	results, err := h.HandleResolveSubmission(context.Background(), &teamevents.SubmissionRequestedPayloadV1{GuildID: testGuild, UserID: alice, Queue: "fastq"})
	require.NoError(t, err)
	assert.Equal(t, &teamevents.SubmissionTargetV1{TeamID: "g01", Password: "pw", Queue: "fastq"}, reply(t, results[0]).Data)

	results, err = h.HandleResolveSubmission(context.Background(), &teamevents.SubmissionRequestedPayloadV1{GuildID: testGuild, UserID: alice})
	require.NoError(t, err)
	assert.Equal(t, CodeNoQueue, reply(t, results[0]).ErrorCode)
}

func TestHandleHistory(t *testing.T) {
	fakeService := NewFakeTeamService()
	fakeService.GetRequestHistoryFunc = func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, limit int) ([]int, error) {
		assert.Equal(t, 5, limit)
		return []int{3, 4}, nil
	}
	h := newTestHandlers(fakeService)

	results, err := h.HandleHistory(context.Background(), &teamevents.HistoryRequestedPayloadV1{GuildID: testGuild, UserID: alice, Limit: 5})
	require.NoError(t, err)
	r := reply(t, results[0])
	assert.Equal(t, "Recent requests: 3, 4", r.Message)
	assert.Equal(t, []int{3, 4}, r.Data)
}

func TestHandleMove(t *testing.T) {
	prev := teamdomain.TeamID("g02")
	fakeService := NewFakeTeamService()
	fakeService.MoveStudentFunc = func(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, teamID teamdomain.TeamID) (*teamservice.MoveResult, error) {
		return &teamservice.MoveResult{
			Team:                team(string(teamID), alice, studentID),
			PreviousTeamID:      &prev,
			PreviousTeamDeleted: true,
		}, nil
	}
	h := newTestHandlers(fakeService)

	results, err := h.HandleMove(context.Background(), &teamevents.TeamEditRequestedPayloadV1{
		GuildID:   testGuild,
		UserID:    "admin",
		StudentID: bob,
		TeamID:    "g01",
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	r := reply(t, results[0])
	assert.Equal(t, teamevents.CommandMove, r.Command)
	assert.Equal(t, "g02", r.Data.(*teamevents.MoveResultV1).PreviousTeamID)
	assert.Equal(t, teamevents.RosterMoved, results[1].Payload.(*teamevents.RosterChangedPayloadV1).Change)
	assert.Equal(t, teamevents.RosterDeleted, results[2].Payload.(*teamevents.RosterChangedPayloadV1).Change)
}

func TestAdminCommandsRequireArguments(t *testing.T) {
	fakeService := NewFakeTeamService()
	h := newTestHandlers(fakeService)
	ctx := context.Background()
	empty := &teamevents.TeamEditRequestedPayloadV1{GuildID: testGuild, UserID: "admin"}

	calls := map[string]func() ([]handlerwrapper.Result, error){
		"add":       func() ([]handlerwrapper.Result, error) { return h.HandleAdd(ctx, empty) },
		"remove":    func() ([]handlerwrapper.Result, error) { return h.HandleRemove(ctx, empty) },
		"confirm":   func() ([]handlerwrapper.Result, error) { return h.HandleConfirm(ctx, empty) },
		"unconfirm": func() ([]handlerwrapper.Result, error) { return h.HandleUnconfirm(ctx, empty) },
		"password":  func() ([]handlerwrapper.Result, error) { return h.HandleSetPassword(ctx, empty) },
		"rename":    func() ([]handlerwrapper.Result, error) { return h.HandleAdminRename(ctx, empty) },
		"delete":    func() ([]handlerwrapper.Result, error) { return h.HandleDelete(ctx, empty) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			results, err := call()
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, CodeInvalidRequest, reply(t, results[0]).ErrorCode)
		})
	}
	assert.Empty(t, fakeService.Trace())
}

func TestHandleConfirm_UnknownTeam(t *testing.T) {
	fakeService := NewFakeTeamService()
	fakeService.ConfirmTeamFunc = func(ctx context.Context, guildID sharedtypes.GuildID, teamID teamdomain.TeamID) (*teamdomain.Team, error) {
		return nil, fmt.Errorf("confirm %s: %w", teamID, teamdomain.ErrNotFound)
	}
	h := newTestHandlers(fakeService)

	results, err := h.HandleConfirm(context.Background(), &teamevents.TeamEditRequestedPayloadV1{GuildID: testGuild, TeamID: "g42"})
	require.NoError(t, err)
	assert.Equal(t, CodeNotFound, reply(t, results[0]).ErrorCode)
}

func TestHandleImportPasswords(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  string
		wantCode string
		wantCall bool
	}{
		{
			name:     "text file",
			fileName: "passwords.txt",
			content:  "g01 alpha\ng02 beta\n",
			wantCall: true,
		},
		{
			name:     "malformed line",
			fileName: "passwords.txt",
			content:  "g01 alpha\ng02\n",
			wantCode: CodeInvalidFile,
		},
		{
			name:     "unsupported extension",
			fileName: "passwords.pdf",
			content:  "g01 alpha",
			wantCode: CodeUnsupportedFile,
		},
		{
			name:     "empty upload",
			fileName: "passwords.txt",
			wantCode: CodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[teamdomain.TeamID]string
			fakeService := NewFakeTeamService()
			fakeService.ImportPasswordsFunc = func(ctx context.Context, guildID sharedtypes.GuildID, passwords map[teamdomain.TeamID]string) (*teamservice.ImportPasswordsResult, error) {
				got = passwords
				return &teamservice.ImportPasswordsResult{Updated: []teamdomain.TeamID{"g02", "g01"}}, nil
			}
			h := newTestHandlers(fakeService)

			results, err := h.HandleImportPasswords(context.Background(), &teamevents.PasswordImportRequestedPayloadV1{
				GuildID:  testGuild,
				UserID:   "admin",
				FileName: tt.fileName,
				Content:  []byte(tt.content),
			})
			require.NoError(t, err)
			require.Len(t, results, 1)
			r := reply(t, results[0])
			assert.Equal(t, tt.wantCode, r.ErrorCode)

			if !tt.wantCall {
				assert.Empty(t, fakeService.Trace())
				return
			}
			assert.Equal(t, map[teamdomain.TeamID]string{"g01": "alpha", "g02": "beta"}, got)
			assert.Equal(t, []string{"g01", "g02"}, r.Data.(*teamevents.PasswordImportResultV1).Updated)
		})
	}
}

func TestHandleDump(t *testing.T) {
	fakeService := NewFakeTeamService()
	fakeService.DumpTeamsFunc = func(context.Context, sharedtypes.GuildID) ([]*teamdomain.Team, error) {
		return []*teamdomain.Team{team("g01", alice, bob), team("g02", "333")}, nil
	}
	h := newTestHandlers(fakeService)

	results, err := h.HandleDump(context.Background(), &teamevents.StudentRequestedPayloadV1{GuildID: testGuild})
	require.NoError(t, err)
	dump := reply(t, results[0]).Data.(*teamevents.TeamDumpV1)
	assert.Len(t, dump.Teams, 2)
	assert.Equal(t, []string{"g01 111\ng01 222\ng02 333"}, dump.Chunks)
}

func TestHandleStudentObserved(t *testing.T) {
	fakeService := NewFakeTeamService()
	fakeService.RegisterStudentFunc = func(ctx context.Context, id sharedtypes.DiscordID, name string) (*teamdomain.Student, error) {
		if id == "broken" {
			return nil, errors.New("database error")
		}
		return &teamdomain.Student{ID: id, Name: name}, nil
	}
	h := newTestHandlers(fakeService)

	results, err := h.HandleStudentObserved(context.Background(), &teamevents.StudentObservedPayloadV1{StudentID: alice, Name: "Alice"})
	assert.NoError(t, err)
	assert.Empty(t, results)

	_, err = h.HandleStudentObserved(context.Background(), &teamevents.StudentObservedPayloadV1{StudentID: "broken"})
	assert.Error(t, err)

	_, err = h.HandleStudentObserved(context.Background(), &teamevents.StudentObservedPayloadV1{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"RegisterStudent", "RegisterStudent"}, fakeService.Trace())
}

func TestHandleGuildConfigUpdated(t *testing.T) {
	fakeService := NewFakeTeamService()
	var gotPrefix string
	fakeService.UpdateTeamPrefixFunc = func(ctx context.Context, guildID sharedtypes.GuildID, prefix string) (*teamdomain.GuildTeamInfo, error) {
		gotPrefix = prefix
		return &teamdomain.GuildTeamInfo{}, nil
	}
	h := newTestHandlers(fakeService)

	_, err := h.HandleGuildConfigUpdated(context.Background(), &guildevents.GuildConfigUpdatedPayloadV1{
		GuildID:       testGuild,
		Config:        guildtypes.GuildConfig{GuildID: testGuild, TeamCapacity: 4},
		UpdatedFields: []string{guildevents.FieldTeamCapacity},
	})
	require.NoError(t, err)
	assert.Empty(t, fakeService.Trace())

	_, err = h.HandleGuildConfigUpdated(context.Background(), &guildevents.GuildConfigUpdatedPayloadV1{
		GuildID:       testGuild,
		Config:        guildtypes.GuildConfig{GuildID: testGuild, TeamPrefix: "team"},
		UpdatedFields: []string{guildevents.FieldTeamPrefix},
	})
	require.NoError(t, err)
	assert.Equal(t, "team", gotPrefix)
}
