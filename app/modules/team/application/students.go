package teamservice

import (
	"context"
	"errors"
	"fmt"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	teamdb "github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

// lastCommandQueue selects the queue of the student's previous submission.
const lastCommandQueue = "l"

// RegisterStudent records a student the first time they are seen and keeps
// their display name fresh afterwards.
func (s *TeamService) RegisterStudent(ctx context.Context, id sharedtypes.DiscordID, name string) (*teamdomain.Student, error) {
	return query(s, ctx, "RegisterStudent", string(id), func(ctx context.Context, db bun.IDB) (*teamdomain.Student, error) {
		if id == "" {
			return nil, errors.New("student id is required")
		}
		if err := s.repo.UpsertStudent(ctx, db, id, name); err != nil {
			return nil, err
		}
		return s.repo.GetStudent(ctx, db, id)
	})
}

func (s *TeamService) GetStudent(ctx context.Context, id sharedtypes.DiscordID) (*teamdomain.Student, error) {
	return query(s, ctx, "GetStudent", string(id), func(ctx context.Context, db bun.IDB) (*teamdomain.Student, error) {
		st, err := s.repo.GetStudent(ctx, db, id)
		if errors.Is(err, teamdb.ErrNotFound) {
			return nil, fmt.Errorf("student %s: %w", id, teamdomain.ErrNotFound)
		}
		return st, err
	})
}

func (s *TeamService) GetSettings(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID) (*StudentSettings, error) {
	return query(s, ctx, "GetSettings", string(guildID), func(ctx context.Context, db bun.IDB) (*StudentSettings, error) {
		st, err := s.loadStudent(ctx, db, guildID, studentID)
		if err != nil {
			return nil, err
		}
		return settingsOf(st, guildID), nil
	})
}

// SetPreferredQueue stores the default queue for submissions. An empty queue
// clears it.
func (s *TeamService) SetPreferredQueue(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, queue string) (*StudentSettings, error) {
	return guildMutation(s, ctx, "SetPreferredQueue", guildID, func(ctx context.Context, db bun.IDB) (*StudentSettings, error) {
		if _, _, err := s.lockRegistry(ctx, db, guildID); err != nil {
			return nil, err
		}
		st, err := s.loadStudent(ctx, db, guildID, studentID)
		if err != nil {
			return nil, err
		}
		st.SetPreferredQueue(guildID, queue)
		if err := s.saveStudents(ctx, db, guildID, st); err != nil {
			return nil, err
		}
		return settingsOf(st, guildID), nil
	})
}

// RecordRequest remembers a successful submission for the student.
func (s *TeamService) RecordRequest(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, command string, requestID int) error {
	_, err := guildMutation(s, ctx, "RecordRequest", guildID, func(ctx context.Context, db bun.IDB) (struct{}, error) {
		if _, _, err := s.lockRegistry(ctx, db, guildID); err != nil {
			return struct{}{}, err
		}
		st, err := s.loadStudent(ctx, db, guildID, studentID)
		if err != nil {
			return struct{}{}, err
		}
		st.RecordRequest(guildID, command, requestID)
		return struct{}{}, s.saveStudents(ctx, db, guildID, st)
	})
	return err
}

func (s *TeamService) GetRequestHistory(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, limit int) ([]int, error) {
	return query(s, ctx, "GetRequestHistory", string(guildID), func(ctx context.Context, db bun.IDB) ([]int, error) {
		if limit <= 0 {
			ts, err := s.settings(ctx, guildID)
			if err != nil {
				return nil, err
			}
			limit = ts.HistoryLimit
		}
		st, err := s.loadStudent(ctx, db, guildID, studentID)
		if err != nil {
			return nil, err
		}
		return st.History(guildID, limit), nil
	})
}

// ResolveSubmission returns the credentials and queue a submission should
// use. Queue "l" reuses the last command; an empty queue uses the preferred
// one.
func (s *TeamService) ResolveSubmission(ctx context.Context, guildID sharedtypes.GuildID, studentID sharedtypes.DiscordID, queue string) (*SubmissionTarget, error) {
	return query(s, ctx, "ResolveSubmission", string(guildID), func(ctx context.Context, db bun.IDB) (*SubmissionTarget, error) {
		st, err := s.loadStudent(ctx, db, guildID, studentID)
		if err != nil {
			return nil, err
		}
		g := st.Guild(guildID)
		if g.Credentials == nil {
			return nil, teamdomain.ErrNotAffiliated
		}
		if g.Credentials.Password == nil {
			return nil, teamdomain.ErrNoPassword
		}

		switch queue {
		case lastCommandQueue:
			if g.LastCommand == nil {
				return nil, fmt.Errorf("%w: no previous submission", teamdomain.ErrNoQueue)
			}
			queue = *g.LastCommand
		case "":
			if g.PreferredQueue == nil {
				return nil, teamdomain.ErrNoQueue
			}
			queue = *g.PreferredQueue
		}

		return &SubmissionTarget{
			TeamID:   g.Credentials.TeamID,
			Password: *g.Credentials.Password,
			Queue:    queue,
		}, nil
	})
}

func settingsOf(st *teamdomain.Student, guildID sharedtypes.GuildID) *StudentSettings {
	out := &StudentSettings{StudentID: st.ID}
	g, ok := st.Guilds[guildID]
	if !ok {
		return out
	}
	if g.Credentials != nil {
		id := g.Credentials.TeamID
		out.TeamID = &id
		out.Password = clone(g.Credentials.Password)
	}
	out.PreferredQueue = clone(g.PreferredQueue)
	out.LastCommand = clone(g.LastCommand)
	return out
}

func clone(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
