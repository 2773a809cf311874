package teamhandlers

import (
	"context"
	"slices"

	guildevents "github.com/Black-And-White-Club/roster-bot/app/modules/guild/events"
	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	teamevents "github.com/Black-And-White-Club/roster-bot/app/modules/team/events"
	"github.com/Black-And-White-Club/roster-bot/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/roster-bot/pkg/observability/attr"
)

// HandleStudentObserved registers a guild member seen by the gateway. It
// publishes nothing.
func (h *TeamHandlers) HandleStudentObserved(ctx context.Context, payload *teamevents.StudentObservedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleStudentObserved")
	defer span.End()

	if payload.StudentID == "" {
		h.logger.WarnContext(ctx, "Dropping student observation without id",
			attr.ExtractCorrelationID(ctx),
		)
		return nil, nil
	}

	if _, err := h.service.RegisterStudent(ctx, payload.StudentID, payload.Name); err != nil && !teamdomain.IsDomainError(err) {
		return nil, err
	}
	return nil, nil
}

// HandleGuildConfigUpdated applies a changed team prefix to the registry.
func (h *TeamHandlers) HandleGuildConfigUpdated(ctx context.Context, payload *guildevents.GuildConfigUpdatedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.start(ctx, "HandleGuildConfigUpdated")
	defer span.End()

	if !slices.Contains(payload.UpdatedFields, guildevents.FieldTeamPrefix) {
		return nil, nil
	}

	prefix := payload.Config.TeamPrefix
	if _, err := h.service.UpdateTeamPrefix(ctx, payload.GuildID, prefix); err != nil {
		if teamdomain.IsDomainError(err) {
			h.logger.WarnContext(ctx, "Ignoring invalid team prefix",
				attr.ExtractCorrelationID(ctx),
				attr.String("guild_id", string(payload.GuildID)),
				attr.String("prefix", prefix),
				attr.Error(err),
			)
			return nil, nil
		}
		return nil, err
	}

	h.logger.InfoContext(ctx, "Team prefix updated",
		attr.ExtractCorrelationID(ctx),
		attr.String("guild_id", string(payload.GuildID)),
		attr.String("prefix", prefix),
	)
	return nil, nil
}
