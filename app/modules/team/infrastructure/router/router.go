package teamrouter

import (
	"context"
	"log/slog"
	"os"

	guildevents "github.com/Black-And-White-Club/roster-bot/app/modules/guild/events"
	teamevents "github.com/Black-And-White-Club/roster-bot/app/modules/team/events"
	teamhandlers "github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/handlers"
	"github.com/Black-And-White-Club/roster-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/roster-bot/pkg/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TestEnvironmentFlag is the flag to check if we're in a test environment
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// TeamRouter handles Watermill handler registration for team events.
type TeamRouter struct {
	logger         *slog.Logger
	router         *message.Router
	subscriber     eventbus.EventBus
	publisher      eventbus.EventBus
	tracer         trace.Tracer
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewTeamRouter creates a new TeamRouter. Router metrics are registered on
// prometheusRegistry unless it is nil or APP_ENV=test.
func NewTeamRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
	prometheusRegistry *prometheus.Registry,
) *TeamRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && os.Getenv(TestEnvironmentFlag) != TestEnvironmentValue {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}

	return &TeamRouter{
		logger:         logger,
		router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}
}

// Configure sets up the router with handlers.
func (r *TeamRouter) Configure(_ context.Context, handlers teamhandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware for Team")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.router)
	}
	r.registerHandlers(handlers)
	return nil
}

// handlerDeps bundles dependencies for handler registration.
type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
}

// registerHandlers wires NATS topics to handler methods.
func (r *TeamRouter) registerHandlers(handlers teamhandlers.Handlers) {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	r.logger.Info("Registering team module handlers",
		slog.String("student_observed_subject", teamevents.StudentObservedV1),
		slog.String("guild_config_updated_subject", guildevents.GuildConfigUpdatedV1),
	)

	// /team
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandCreate), handlers.HandleCreateTeam)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandInvite), handlers.HandleInvite)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandInvitations), handlers.HandleListInvitations)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandJoin), handlers.HandleJoin)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandLeave), handlers.HandleLeave)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandRename), handlers.HandleRename)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandSettings), handlers.HandleSettings)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandQueue), handlers.HandleSetQueue)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandHistory), handlers.HandleHistory)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandSubmission), handlers.HandleResolveSubmission)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandRecord), handlers.HandleRecordRequest)

	// /teamedit
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandMove), handlers.HandleMove)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandAdd), handlers.HandleAdd)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandRemove), handlers.HandleRemove)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandConfirm), handlers.HandleConfirm)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandUnconfirm), handlers.HandleUnconfirm)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandPassword), handlers.HandleSetPassword)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandAdmRename), handlers.HandleAdminRename)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandDelete), handlers.HandleDelete)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandPasswords), handlers.HandleImportPasswords)
	registerHandler(deps, teamevents.RequestedTopic(teamevents.CommandDump), handlers.HandleDump)

	registerHandler(deps, teamevents.StudentObservedV1, handlers.HandleStudentObserved)
	registerHandler(deps, guildevents.GuildConfigUpdatedV1, handlers.HandleGuildConfigUpdated)

	r.logger.Info("Team module handlers registered successfully")
}

// registerHandler is a generic function for type-safe Watermill handler registration.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "team." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"",
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			handler,
		),
	)
}

// Close shuts down the router.
func (r *TeamRouter) Close() error {
	return r.router.Close()
}
