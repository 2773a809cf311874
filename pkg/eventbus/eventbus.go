package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StreamDefinition describes a JetStream stream the service needs.
type StreamDefinition struct {
	Name     string
	Subjects []string
}

// DefaultStreams covers every subject the roster service uses.
var DefaultStreams = []StreamDefinition{
	{Name: "team", Subjects: []string{"team.>", "teamedit.>"}},
	{Name: "guild", Subjects: []string{"guild.>"}},
	{Name: "student", Subjects: []string{"student.>"}},
}

// NATSEventBus is an EventBus on NATS JetStream.
type NATSEventBus struct {
	publisher      message.Publisher
	subscriber     message.Subscriber
	js             jetstream.JetStream
	natsConn       *nc.Conn
	logger         *slog.Logger
	createdStreams map[string]bool
	streamMutex    sync.Mutex
}

// NewEventBus connects to NATS and sets up the watermill publisher and subscriber.
func NewEventBus(ctx context.Context, natsURL string, logger *slog.Logger) (*NATSEventBus, error) {
	natsConn, err := nc.Connect(natsURL, nc.RetryOnFailedConnect(true), nc.MaxReconnects(-1))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to NATS", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	watermillLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:       natsURL,
			Marshaler: marshaler,
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
			JetStream: nats.JetStreamConfig{
				TrackMsgId: true,
			},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:            natsURL,
			Unmarshaler:    marshaler,
			AckWaitTimeout: 30 * time.Second,
			CloseTimeout:   10 * time.Second,
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		publisher.Close()
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	return &NATSEventBus{
		publisher:      NewRoutingPublisher(publisher),
		subscriber:     subscriber,
		js:             js,
		natsConn:       natsConn,
		logger:         logger,
		createdStreams: make(map[string]bool),
	}, nil
}

// Publish sends messages, honoring each message's topic metadata.
func (eb *NATSEventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
	}
	return eb.publisher.Publish(topic, messages...)
}

// Subscribe consumes topic.
func (eb *NATSEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	eb.logger.InfoContext(ctx, "Subscribing to subject", slog.String("subject", topic))
	messages, err := eb.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to subject %s: %w", topic, err)
	}
	return messages, nil
}

// CreateStream creates the stream, or adds any missing subjects to it.
func (eb *NATSEventBus) CreateStream(ctx context.Context, def StreamDefinition) error {
	eb.streamMutex.Lock()
	defer eb.streamMutex.Unlock()

	if eb.createdStreams[def.Name] {
		return nil
	}

	stream, err := eb.js.Stream(ctx, def.Name)
	switch {
	case errors.Is(err, jetstream.ErrStreamNotFound):
		if _, err := eb.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     def.Name,
			Subjects: def.Subjects,
		}); err != nil {
			return fmt.Errorf("failed to create stream %s: %w", def.Name, err)
		}
		eb.logger.InfoContext(ctx, "Stream created", slog.String("stream_name", def.Name))
	case err != nil:
		return fmt.Errorf("failed to check if stream exists: %w", err)
	default:
		info, err := stream.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stream info: %w", err)
		}
		cfg := info.Config
		changed := false
		for _, subject := range def.Subjects {
			if !slices.Contains(cfg.Subjects, subject) {
				cfg.Subjects = append(cfg.Subjects, subject)
				changed = true
			}
		}
		if changed {
			if _, err := eb.js.UpdateStream(ctx, cfg); err != nil {
				return fmt.Errorf("failed to update stream %s: %w", def.Name, err)
			}
			eb.logger.InfoContext(ctx, "Stream updated with new subjects", slog.String("stream_name", def.Name))
		}
	}

	eb.createdStreams[def.Name] = true
	return nil
}

// CreateStreams creates every stream in defs.
func (eb *NATSEventBus) CreateStreams(ctx context.Context, defs []StreamDefinition) error {
	for _, def := range defs {
		if err := eb.CreateStream(ctx, def); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all NATS and Watermill resources.
func (eb *NATSEventBus) Close() error {
	var errs []error
	if eb.publisher != nil {
		if err := eb.publisher.Close(); err != nil {
			eb.logger.Error("Error closing NATS publisher", "error", err)
			errs = append(errs, err)
		}
	}
	if eb.subscriber != nil {
		if err := eb.subscriber.Close(); err != nil {
			eb.logger.Error("Error closing NATS subscriber", "error", err)
			errs = append(errs, err)
		}
	}
	if eb.natsConn != nil {
		eb.natsConn.Close()
	}
	return errors.Join(errs...)
}

var _ EventBus = (*NATSEventBus)(nil)
