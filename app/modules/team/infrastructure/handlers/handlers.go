package teamhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	teamservice "github.com/Black-And-White-Club/roster-bot/app/modules/team/application"
	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	teamevents "github.com/Black-And-White-Club/roster-bot/app/modules/team/events"
	"github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/parsers"
	"github.com/Black-And-White-Club/roster-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/roster-bot/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/roster-bot/pkg/observability/attr"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"go.opentelemetry.io/otel/trace"
)

// TeamHandlers implements the Handlers interface.
type TeamHandlers struct {
	service teamservice.Service
	parsers *parsers.Factory
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewTeamHandlers creates a new TeamHandlers instance.
func NewTeamHandlers(
	service teamservice.Service,
	parserFactory *parsers.Factory,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	if parserFactory == nil {
		parserFactory = parsers.NewFactory()
	}
	return &TeamHandlers{
		service: service,
		parsers: parserFactory,
		logger:  logger,
		tracer:  tracer,
	}
}

// command identifies the caller of one command.
type command struct {
	name    string
	guildID sharedtypes.GuildID
	userID  sharedtypes.DiscordID
}

// newCommand fills ids missing from the payload from message metadata.
func newCommand(ctx context.Context, name string, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) command {
	if guildID == "" {
		if v, ok := ctx.Value(handlerwrapper.CtxKeyGuildID).(string); ok {
			guildID = sharedtypes.GuildID(v)
		}
	}
	if userID == "" {
		if v, ok := ctx.Value(handlerwrapper.CtxKeyUserID).(string); ok {
			userID = sharedtypes.DiscordID(v)
		}
	}
	return command{name: name, guildID: guildID, userID: userID}
}

func (c command) replyTopic(ctx context.Context, success bool) string {
	if rt, ok := ctx.Value(handlerwrapper.CtxKeyReplyTo).(string); ok && rt != "" {
		return rt
	}
	return teamevents.ReplyTopic(c.name, success)
}

// ok builds the success reply.
func (c command) ok(ctx context.Context, message string, data any) handlerwrapper.Result {
	return handlerwrapper.Result{
		Topic: c.replyTopic(ctx, true),
		Payload: &teamevents.CommandReplyPayloadV1{
			GuildID: c.guildID,
			UserID:  c.userID,
			Command: c.name,
			Success: true,
			Message: message,
			Data:    data,
		},
	}
}

// fail renders recoverable errors as a failure reply. Infrastructure errors
// are returned so the message is retried.
func (h *TeamHandlers) fail(ctx context.Context, c command, err error) ([]handlerwrapper.Result, error) {
	code, message, ok := describe(err)
	if !ok {
		h.logger.ErrorContext(ctx, "Team command failed",
			attr.ExtractCorrelationID(ctx),
			attr.String("command", c.name),
			attr.String("guild_id", string(c.guildID)),
			attr.Error(err),
		)
		return nil, err
	}

	h.logger.InfoContext(ctx, "Team command rejected",
		attr.ExtractCorrelationID(ctx),
		attr.String("command", c.name),
		attr.String("guild_id", string(c.guildID)),
		attr.String("error_code", code),
	)

	return []handlerwrapper.Result{{
		Topic: c.replyTopic(ctx, false),
		Payload: &teamevents.CommandReplyPayloadV1{
			GuildID:   c.guildID,
			UserID:    c.userID,
			Command:   c.name,
			Success:   false,
			Message:   message,
			ErrorCode: code,
		},
	}}, nil
}

// invalid rejects a malformed request without touching the service.
func (h *TeamHandlers) invalid(ctx context.Context, c command, reason string) ([]handlerwrapper.Result, error) {
	return h.fail(ctx, c, fmt.Errorf("%w: %s", errInvalidRequest, reason))
}

var errInvalidRequest = errors.New("invalid request")

// rosterChanged builds the guild scoped membership notification.
func rosterChanged(guildID sharedtypes.GuildID, teamID teamdomain.TeamID, change string, members []sharedtypes.DiscordID) handlerwrapper.Result {
	if members == nil {
		members = []sharedtypes.DiscordID{}
	}
	return handlerwrapper.Result{
		Topic: eventbus.FormatGuildScopedTopic(teamevents.RosterChangedV1, string(guildID)),
		Payload: &teamevents.RosterChangedPayloadV1{
			GuildID: guildID,
			TeamID:  string(teamID),
			Change:  change,
			Members: members,
		},
	}
}

func (h *TeamHandlers) start(ctx context.Context, name string) (context.Context, trace.Span) {
	return h.tracer.Start(ctx, "TeamHandlers."+name)
}
