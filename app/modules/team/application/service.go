package teamservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	teamdb "github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/repositories"
	"github.com/Black-And-White-Club/roster-bot/pkg/observability/attr"
	"github.com/Black-And-White-Club/roster-bot/pkg/observability/metrics"
	"github.com/Black-And-White-Club/roster-bot/pkg/results"
	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "TeamService"

// TeamService implements the Service interface.
type TeamService struct {
	repo    teamdb.Repository
	guilds  GuildSettings
	logger  *slog.Logger
	metrics metrics.TeamMetrics
	tracer  trace.Tracer
	db      *bun.DB
	locks   *guildLocks
}

// NewTeamService creates a new TeamService. A nil guilds provider uses the
// built-in team settings for every guild.
func NewTeamService(
	repo teamdb.Repository,
	guilds GuildSettings,
	logger *slog.Logger,
	metrics metrics.TeamMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *TeamService {
	if logger == nil {
		logger = slog.Default()
	}
	if guilds == nil {
		guilds = StaticSettings(guildtypes.DefaultTeamSettings())
	}
	return &TeamService{
		repo:    repo,
		guilds:  guilds,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
		locks:   newGuildLocks(),
	}
}

// settings resolves the guild's team settings, clamping capacity to one.
func (s *TeamService) settings(ctx context.Context, guildID sharedtypes.GuildID) (guildtypes.TeamSettings, error) {
	ts, err := s.guilds.TeamSettings(ctx, guildID)
	if err != nil {
		return guildtypes.TeamSettings{}, fmt.Errorf("failed to resolve team settings: %w", err)
	}
	if ts.Capacity < 1 {
		ts.Capacity = 1
	}
	if ts.Prefix == "" {
		ts.Prefix = guildtypes.DefaultTeamPrefix
	}
	return ts, nil
}

// lockRegistry resolves the guild's settings and locks its registry row for
// the rest of the transaction. Every mutation starts here.
func (s *TeamService) lockRegistry(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (guildtypes.TeamSettings, *teamdomain.GuildTeamInfo, error) {
	ts, err := s.settings(ctx, guildID)
	if err != nil {
		return ts, nil, err
	}
	info, err := s.repo.LockGuild(ctx, db, guildID, ts.Prefix)
	if err != nil {
		return ts, nil, fmt.Errorf("failed to lock guild registry: %w", err)
	}
	return ts, info, nil
}

// -----------------------------------------------------------------------------
// Loading helpers. Missing records come back as teamdomain.ErrNotFound so the
// runner can classify them as domain failures.
// -----------------------------------------------------------------------------

func (s *TeamService) loadStudent(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id sharedtypes.DiscordID) (*teamdomain.Student, error) {
	st, err := s.repo.GetStudentInGuild(ctx, db, id, guildID)
	if err != nil {
		if errors.Is(err, teamdb.ErrNotFound) {
			return nil, fmt.Errorf("student %s: %w", id, teamdomain.ErrNotFound)
		}
		return nil, err
	}
	return st, nil
}

func (s *TeamService) loadTeam(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id teamdomain.TeamID) (*teamdomain.Team, error) {
	t, err := s.repo.GetTeam(ctx, db, guildID, id)
	if err != nil {
		if errors.Is(err, teamdb.ErrNotFound) {
			return nil, fmt.Errorf("team %s: %w", id, teamdomain.ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

// loadMembers loads the students on team. Members with no student record are
// skipped; there is nothing to keep in sync for them.
func (s *TeamService) loadMembers(ctx context.Context, db bun.IDB, team *teamdomain.Team) ([]*teamdomain.Student, error) {
	return s.repo.GetStudentsInGuild(ctx, db, team.Members, team.GuildID)
}

func (s *TeamService) saveStudents(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, students ...*teamdomain.Student) error {
	for _, st := range students {
		if err := s.repo.SaveStudentGuildState(ctx, db, st, guildID); err != nil {
			return err
		}
	}
	return nil
}

// resolveTeamID canonicalizes ids in the guild's current prefix and passes
// anything else through untouched, so teams issued under an older prefix
// stay addressable.
func resolveTeamID(info *teamdomain.GuildTeamInfo, id teamdomain.TeamID) teamdomain.TeamID {
	if canonical, err := teamdomain.CanonicalTeamID(info.Prefix, id); err == nil {
		return canonical
	}
	return id
}

// removeFromTeam takes student off team, deleting the team when it drains.
// It reports whether the team was deleted. Persists the team (or its
// deletion) and the registry; the student is left to the caller.
func (s *TeamService) removeFromTeam(ctx context.Context, db bun.IDB, info *teamdomain.GuildTeamInfo, team *teamdomain.Team, student *teamdomain.Student) (bool, error) {
	team.RemoveMember(student)
	if !team.IsEmpty() {
		return false, s.repo.SaveTeam(ctx, db, team)
	}
	if err := s.deleteTeam(ctx, db, info, team); err != nil {
		return false, err
	}
	return true, nil
}

// deleteTeam removes the team record and retires its identifier.
func (s *TeamService) deleteTeam(ctx context.Context, db bun.IDB, info *teamdomain.GuildTeamInfo, team *teamdomain.Team) error {
	if err := s.repo.DeleteTeam(ctx, db, team.GuildID, team.ID); err != nil && !errors.Is(err, teamdb.ErrNotFound) {
		return err
	}
	info.RetireTeam(team)
	if err := s.repo.SaveGuildTeamInfo(ctx, db, info); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordTeamDeleted(ctx, string(team.GuildID))
	}
	return nil
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// logicFunc is the body of an operation. Domain sentinels returned from it
// become failure results; anything else is an infrastructure error.
type logicFunc[S any] func(ctx context.Context, db bun.IDB) (S, error)

// guildMutation runs fn holding the guild's lock, inside a transaction.
func guildMutation[S any](s *TeamService, ctx context.Context, operationName string, guildID sharedtypes.GuildID, fn logicFunc[S]) (S, error) {
	return execute[S](s, ctx, operationName, string(guildID), func(ctx context.Context) (results.OperationResult[S, error], error) {
		unlock := s.locks.Lock(guildID)
		defer unlock()
		return runInTx(s, ctx, asResult(fn))
	})
}

// query runs fn inside a transaction without taking the guild lock.
func query[S any](s *TeamService, ctx context.Context, operationName, identifier string, fn logicFunc[S]) (S, error) {
	return execute[S](s, ctx, operationName, identifier, func(ctx context.Context) (results.OperationResult[S, error], error) {
		return runInTx(s, ctx, asResult(fn))
	})
}

func execute[S any](s *TeamService, ctx context.Context, operationName, identifier string, op operationFunc[S, error]) (S, error) {
	var zero S
	result, err := withTelemetry(s, ctx, operationName, identifier, op)
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, nil
	}
	return *result.Success, nil
}

func asResult[S any](fn logicFunc[S]) func(ctx context.Context, db bun.IDB) (results.OperationResult[S, error], error) {
	return func(ctx context.Context, db bun.IDB) (results.OperationResult[S, error], error) {
		v, err := fn(ctx, db)
		if err != nil {
			if teamdomain.IsDomainError(err) {
				return results.FailureResult[S, error](err), nil
			}
			return results.OperationResult[S, error]{}, err
		}
		return results.SuccessResult[S, error](v), nil
	}
}

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *TeamService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// errRollback aborts a transaction whose operation produced a domain failure.
var errRollback = errors.New("rollback on domain failure")

// runInTx ensures the operation runs within a transaction. A domain failure
// rolls the transaction back but is still returned as a result.
func runInTx[S any, F any](
	s *TeamService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {

	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		if txErr == nil && result.IsFailure() {
			return errRollback
		}
		return txErr
	})
	if errors.Is(err, errRollback) {
		return result, nil
	}

	return result, err
}
