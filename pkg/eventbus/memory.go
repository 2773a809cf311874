package eventbus

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// memoryBus is an in-process EventBus backed by a watermill GoChannel.
type memoryBus struct {
	pubsub    *gochannel.GoChannel
	publisher message.Publisher
}

// NewInMemory returns an EventBus that never leaves the process.
// Used by tests and by single-node development runs.
func NewInMemory(logger watermill.LoggerAdapter) EventBus {
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, logger)
	return &memoryBus{
		pubsub:    pubsub,
		publisher: NewRoutingPublisher(pubsub),
	}
}

func (b *memoryBus) Publish(topic string, messages ...*message.Message) error {
	return b.publisher.Publish(topic, messages...)
}

func (b *memoryBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

func (b *memoryBus) Close() error {
	return b.pubsub.Close()
}
