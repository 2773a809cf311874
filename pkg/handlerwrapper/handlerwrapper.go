package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/roster-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/roster-bot/pkg/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Metadata keys copied from an incoming command to every reply it produces.
const (
	MetadataGuildID       = "guild_id"
	MetadataUserID        = "user_id"
	MetadataInteractionID = "interaction_id"
	MetadataReplyTo       = "reply_to"
)

var passthroughKeys = []string{MetadataGuildID, MetadataUserID, MetadataInteractionID}

type contextKey string

// Context keys populated from message metadata before the handler runs.
const (
	CtxKeyGuildID       contextKey = "guild_id"
	CtxKeyUserID        contextKey = "user_id"
	CtxKeyInteractionID contextKey = "interaction_id"
	CtxKeyReplyTo       contextKey = "reply_to"
)

// Result is one outgoing event produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// HandlerFunc is the typed handler signature used by every module.
type HandlerFunc[T any] func(ctx context.Context, payload *T) ([]Result, error)

// WrapTransformingTyped adapts a typed handler to a watermill handler:
// it decodes the JSON payload, carries correlation and Discord metadata
// through the context, and encodes the returned results as messages.
//
// Payloads that fail to decode are logged and acked; retrying them can
// never succeed.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	handler HandlerFunc[T],
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		correlationID := middleware.MessageCorrelationID(msg)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		ctx := attr.WithCorrelationID(msg.Context(), correlationID)
		ctx = context.WithValue(ctx, CtxKeyGuildID, msg.Metadata.Get(MetadataGuildID))
		ctx = context.WithValue(ctx, CtxKeyUserID, msg.Metadata.Get(MetadataUserID))
		ctx = context.WithValue(ctx, CtxKeyInteractionID, msg.Metadata.Get(MetadataInteractionID))
		if rt := msg.Metadata.Get(MetadataReplyTo); rt != "" {
			ctx = context.WithValue(ctx, CtxKeyReplyTo, rt)
		}

		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("message.uuid", msg.UUID),
			attribute.String("correlation_id", correlationID),
		))
		defer span.End()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Failed to decode message payload",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			span.RecordError(err)
			return nil, nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			logger.ErrorContext(ctx, "Handler returned error",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.Error(err),
			)
			span.RecordError(err)
			return nil, err
		}

		out := make([]*message.Message, 0, len(results))
		for _, r := range results {
			m, err := r.toMessage(msg, correlationID)
			if err != nil {
				span.RecordError(err)
				return nil, fmt.Errorf("%s: %w", handlerName, err)
			}
			out = append(out, m)
		}
		return out, nil
	}
}

func (r Result) toMessage(parent *message.Message, correlationID string) (*message.Message, error) {
	if r.Topic == "" {
		return nil, eventbus.ErrNoTopic
	}
	body, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload for %s: %w", r.Topic, err)
	}

	m := message.NewMessage(watermill.NewUUID(), body)
	for _, key := range passthroughKeys {
		if v := parent.Metadata.Get(key); v != "" {
			m.Metadata.Set(key, v)
		}
	}
	middleware.SetCorrelationID(correlationID, m)
	for k, v := range r.Metadata {
		m.Metadata.Set(k, v)
	}
	m.Metadata.Set(eventbus.TopicMetadataKey, r.Topic)
	return m, nil
}

// NewCommand builds an outgoing command message with guild and user metadata.
// Used by tests and by collaborators that inject commands into the bus.
func NewCommand(payload any, guildID, userID string) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	m := message.NewMessage(watermill.NewUUID(), body)
	middleware.SetCorrelationID(uuid.NewString(), m)
	m.Metadata.Set(MetadataGuildID, guildID)
	m.Metadata.Set(MetadataUserID, userID)
	return m, nil
}
