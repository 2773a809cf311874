package guildrouter

import (
	"context"
	"log/slog"

	guildevents "github.com/Black-And-White-Club/roster-bot/app/modules/guild/events"
	guildhandlers "github.com/Black-And-White-Club/roster-bot/app/modules/guild/infrastructure/handlers"
	"github.com/Black-And-White-Club/roster-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/roster-bot/pkg/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// GuildRouter handles Watermill handler registration for guild events.
// Router metrics are installed once on the shared router by the team module.
type GuildRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer
}

// NewGuildRouter creates a new GuildRouter.
func NewGuildRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
) *GuildRouter {
	return &GuildRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		tracer:     tracer,
	}
}

// Configure sets up the router with handlers.
func (r *GuildRouter) Configure(_ context.Context, handlers guildhandlers.Handlers) error {
	registerHandler(r, guildevents.GuildConfigCreationRequestedV1, handlers.HandleCreateGuildConfig)
	registerHandler(r, guildevents.GuildConfigRetrievalRequestedV1, handlers.HandleRetrieveGuildConfig)
	registerHandler(r, guildevents.GuildConfigUpdateRequestedV1, handlers.HandleUpdateGuildConfig)
	registerHandler(r, guildevents.GuildConfigDeletionRequestedV1, handlers.HandleDeleteGuildConfig)

	r.logger.Info("Guild module handlers registered successfully")
	return nil
}

func registerHandler[T any](
	r *GuildRouter,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "guild." + topic

	r.router.AddHandler(
		handlerName,
		topic,
		r.subscriber,
		"",
		r.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			r.logger,
			r.tracer,
			handler,
		),
	)
}

// Close shuts down the router.
func (r *GuildRouter) Close() error {
	return r.router.Close()
}
