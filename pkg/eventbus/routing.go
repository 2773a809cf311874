package eventbus

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

// TopicMetadataKey names the metadata entry that overrides the topic a
// message is published to. Handlers registered with an empty publish topic
// rely on it to fan replies out to different subjects.
const TopicMetadataKey = "topic"

// EventBus is the transport every module publishes to and subscribes from.
type EventBus interface {
	Publish(topic string, messages ...*message.Message) error
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

// groupByTopic splits messages by their metadata topic, keeping the
// original order inside each group. Messages without one fall back to topic.
func groupByTopic(topic string, messages []*message.Message) ([]string, map[string][]*message.Message) {
	var order []string
	groups := make(map[string][]*message.Message)
	for _, msg := range messages {
		t := msg.Metadata.Get(TopicMetadataKey)
		if t == "" {
			t = topic
		}
		if _, seen := groups[t]; !seen {
			order = append(order, t)
		}
		groups[t] = append(groups[t], msg)
	}
	return order, groups
}

// routingPublisher routes each message to its metadata topic.
type routingPublisher struct {
	next message.Publisher
}

// NewRoutingPublisher wraps next so that Publish honors TopicMetadataKey.
func NewRoutingPublisher(next message.Publisher) message.Publisher {
	return &routingPublisher{next: next}
}

func (p *routingPublisher) Publish(topic string, messages ...*message.Message) error {
	order, groups := groupByTopic(topic, messages)
	for _, t := range order {
		if t == "" {
			return ErrNoTopic
		}
		if err := p.next.Publish(t, groups[t]...); err != nil {
			return err
		}
	}
	return nil
}

func (p *routingPublisher) Close() error {
	return p.next.Close()
}
