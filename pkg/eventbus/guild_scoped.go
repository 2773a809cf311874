package eventbus

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
)

// PublishWithGuildScope publishes msg on {baseTopic}.{guildID} so that
// dashboards can subscribe to one guild or, with a wildcard, to all of them.
func PublishWithGuildScope(bus EventBus, baseTopic string, guildID string, msg *message.Message) error {
	if guildID == "" {
		return fmt.Errorf("guildID cannot be empty for guild-scoped publish")
	}
	msg.Metadata.Set(TopicMetadataKey, FormatGuildScopedTopic(baseTopic, guildID))
	return bus.Publish(FormatGuildScopedTopic(baseTopic, guildID), msg)
}

// FormatGuildScopedTopic formats a topic with guild_id suffix without publishing.
func FormatGuildScopedTopic(baseTopic string, guildID string) string {
	return fmt.Sprintf("%s.%s", baseTopic, guildID)
}
