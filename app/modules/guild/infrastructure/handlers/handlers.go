package guildhandlers

import (
	"context"
	"log/slog"

	guildservice "github.com/Black-And-White-Club/roster-bot/app/modules/guild/application"
	guildevents "github.com/Black-And-White-Club/roster-bot/app/modules/guild/events"
	"github.com/Black-And-White-Club/roster-bot/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/roster-bot/pkg/observability/attr"
	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"go.opentelemetry.io/otel/trace"
)

// GuildHandlers implements the Handlers interface.
type GuildHandlers struct {
	service guildservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewGuildHandlers creates a new GuildHandlers instance.
func NewGuildHandlers(service guildservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &GuildHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleCreateGuildConfig stores a new guild configuration.
func (h *GuildHandlers) HandleCreateGuildConfig(ctx context.Context, payload *guildevents.GuildConfigCreationRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GuildHandlers.HandleCreateGuildConfig")
	defer span.End()

	res, err := h.service.CreateGuildConfig(ctx, &guildtypes.GuildConfig{
		GuildID:       payload.GuildID,
		TeamCapacity:  payload.TeamCapacity,
		TeamPrefix:    payload.TeamPrefix,
		SubmissionURL: payload.SubmissionURL,
		HistoryLimit:  payload.HistoryLimit,
	})
	if err != nil {
		return nil, err
	}
	return configReply(payload.GuildID, res, guildevents.GuildConfigCreatedV1, guildevents.GuildConfigCreationFailedV1), nil
}

// HandleRetrieveGuildConfig replies with the guild's active configuration.
func (h *GuildHandlers) HandleRetrieveGuildConfig(ctx context.Context, payload *guildevents.GuildConfigRetrievalRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GuildHandlers.HandleRetrieveGuildConfig")
	defer span.End()

	res, err := h.service.GetGuildConfig(ctx, payload.GuildID)
	if err != nil {
		return nil, err
	}
	return configReply(payload.GuildID, res, guildevents.GuildConfigRetrievedV1, guildevents.GuildConfigRetrievalFailedV1), nil
}

// HandleUpdateGuildConfig applies a partial update and announces the changed
// fields on GuildConfigUpdatedV1.
func (h *GuildHandlers) HandleUpdateGuildConfig(ctx context.Context, payload *guildevents.GuildConfigUpdateRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GuildHandlers.HandleUpdateGuildConfig")
	defer span.End()

	res, err := h.service.UpdateGuildConfig(ctx, payload.GuildID, guildservice.ConfigChanges{
		TeamCapacity:  payload.TeamCapacity,
		TeamPrefix:    payload.TeamPrefix,
		SubmissionURL: payload.SubmissionURL,
		HistoryLimit:  payload.HistoryLimit,
	})
	if err != nil {
		return nil, err
	}
	if res.IsFailure() {
		return failed(payload.GuildID, guildevents.GuildConfigUpdateFailedV1, *res.Failure), nil
	}

	update := *res.Success
	fields := update.UpdatedFields
	if fields == nil {
		fields = []string{}
	}
	h.logger.InfoContext(ctx, "Guild config updated",
		attr.ExtractCorrelationID(ctx),
		attr.String("guild_id", string(payload.GuildID)),
		attr.Any("updated_fields", fields),
	)
	return []handlerwrapper.Result{{
		Topic: guildevents.GuildConfigUpdatedV1,
		Payload: &guildevents.GuildConfigUpdatedPayloadV1{
			GuildID:       payload.GuildID,
			Config:        *update.Config,
			UpdatedFields: fields,
		},
	}}, nil
}

// HandleDeleteGuildConfig deactivates the guild's configuration.
func (h *GuildHandlers) HandleDeleteGuildConfig(ctx context.Context, payload *guildevents.GuildConfigDeletionRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GuildHandlers.HandleDeleteGuildConfig")
	defer span.End()

	res, err := h.service.DeleteGuildConfig(ctx, payload.GuildID)
	if err != nil {
		return nil, err
	}
	if res.IsFailure() {
		return failed(payload.GuildID, guildevents.GuildConfigDeletionFailedV1, *res.Failure), nil
	}
	return []handlerwrapper.Result{{
		Topic:   guildevents.GuildConfigDeletedV1,
		Payload: &guildevents.GuildConfigDeletedPayloadV1{GuildID: payload.GuildID},
	}}, nil
}

func configReply(guildID sharedtypes.GuildID, res guildservice.GuildConfigResult, successTopic, failureTopic string) []handlerwrapper.Result {
	if res.IsFailure() {
		return failed(guildID, failureTopic, *res.Failure)
	}
	return []handlerwrapper.Result{{
		Topic: successTopic,
		Payload: &guildevents.GuildConfigPayloadV1{
			GuildID: guildID,
			Config:  **res.Success,
		},
	}}
}

func failed(guildID sharedtypes.GuildID, topic string, reason error) []handlerwrapper.Result {
	return []handlerwrapper.Result{{
		Topic: topic,
		Payload: &guildevents.GuildConfigFailedPayloadV1{
			GuildID: guildID,
			Reason:  reason.Error(),
		},
	}}
}
