package guildservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	guilddb "github.com/Black-And-White-Club/roster-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/roster-bot/pkg/observability/attr"
	"github.com/Black-And-White-Club/roster-bot/pkg/observability/metrics"
	"github.com/Black-And-White-Club/roster-bot/pkg/results"
	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "GuildService"

// GuildService implements the Service interface.
type GuildService struct {
	repo     guilddb.Repository
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
	db       *bun.DB
	defaults guildtypes.TeamSettings
}

// NewGuildService creates a new GuildService. defaults fills the settings of
// guilds without a config and the zero fields of new configs.
func NewGuildService(
	repo guilddb.Repository,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	defaults guildtypes.TeamSettings,
) *GuildService {
	return &GuildService{
		repo:     repo,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
		defaults: withDefaults(defaults),
	}
}

// operationFunc is the signature for service operation functions.
type operationFunc[S any] func(ctx context.Context) (results.OperationResult[S, error], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any](
	s *GuildService,
	ctx context.Context,
	operationName string,
	guildID sharedtypes.GuildID,
	op operationFunc[S],
) (result results.OperationResult[S, error], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("guild_id", string(guildID)),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("guild_id", string(guildID)),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			result = results.OperationResult[S, error]{}
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("guild_id", string(guildID)),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("guild_id", string(guildID)),
			attr.Error(*result.Failure),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	return result, nil
}

// runInTx runs fn inside a transaction when the service owns a database.
func (s *GuildService) runInTx(ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

// failure wraps a domain error into a failure result.
func failure[S any](err error) results.OperationResult[S, error] {
	return results.FailureResult[S, error](err)
}

// withDefaults fills the zero fields of ts from the built-in settings.
func withDefaults(ts guildtypes.TeamSettings) guildtypes.TeamSettings {
	cfg := &guildtypes.GuildConfig{TeamCapacity: ts.Capacity, TeamPrefix: ts.Prefix, HistoryLimit: ts.HistoryLimit}
	return cfg.TeamSettings(guildtypes.DefaultTeamSettings())
}

// IsDomainError reports whether err is a guild config failure rather than an
// infrastructure one.
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{ErrGuildConfigNotFound, ErrGuildConfigAlreadyExists, ErrInvalidGuildID, ErrInvalidConfig, ErrNilConfig} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
