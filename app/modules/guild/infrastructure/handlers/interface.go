package guildhandlers

import (
	"context"

	guildevents "github.com/Black-And-White-Club/roster-bot/app/modules/guild/events"
	"github.com/Black-And-White-Club/roster-bot/pkg/handlerwrapper"
)

// Handlers handles guild configuration events.
type Handlers interface {
	HandleCreateGuildConfig(ctx context.Context, payload *guildevents.GuildConfigCreationRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRetrieveGuildConfig(ctx context.Context, payload *guildevents.GuildConfigRetrievalRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleUpdateGuildConfig(ctx context.Context, payload *guildevents.GuildConfigUpdateRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleDeleteGuildConfig(ctx context.Context, payload *guildevents.GuildConfigDeletionRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
