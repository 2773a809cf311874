package teamrouter

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	teamevents "github.com/Black-And-White-Club/roster-bot/app/modules/team/events"
	teamhandlers "github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/handlers"
	"github.com/Black-And-White-Club/roster-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/roster-bot/pkg/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

// joinOnly answers /team join. The other handlers are never reached.
type joinOnly struct {
	teamhandlers.Handlers
}

func (joinOnly) HandleJoin(ctx context.Context, payload *teamevents.JoinRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	return []handlerwrapper.Result{{
		Topic: teamevents.ReplyTopic(teamevents.CommandJoin, true),
		Payload: &teamevents.CommandReplyPayloadV1{
			GuildID: payload.GuildID,
			UserID:  payload.UserID,
			Command: teamevents.CommandJoin,
			Success: true,
			Message: "joined " + payload.TeamID,
		},
	}}, nil
}

func TestTeamRouter_RoutesCommandToReply(t *testing.T) {
	t.Setenv(TestEnvironmentFlag, TestEnvironmentValue)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wmLogger := watermill.NopLogger{}
	bus := eventbus.NewInMemory(wmLogger)
	defer bus.Close()

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	require.NoError(t, err)

	tracer := noop.NewTracerProvider().Tracer("test")
	tr := NewTeamRouter(slog.Default(), router, bus, bus, tracer, nil)
	require.NoError(t, tr.Configure(ctx, joinOnly{Handlers: teamhandlers.NewTeamHandlers(nil, nil, slog.Default(), tracer)}))

	replies, err := bus.Subscribe(ctx, teamevents.ReplyTopic(teamevents.CommandJoin, true))
	require.NoError(t, err)

	go func() {
		_ = router.Run(ctx)
	}()
	defer tr.Close()
	<-router.Running()

	cmd, err := handlerwrapper.NewCommand(&teamevents.JoinRequestedPayloadV1{
		GuildID: "guild-1",
		UserID:  "111",
		TeamID:  "g01",
	}, "guild-1", "111")
	require.NoError(t, err)
	require.NoError(t, bus.Publish(teamevents.RequestedTopic(teamevents.CommandJoin), cmd))

	select {
	case msg := <-replies:
		msg.Ack()
		var reply teamevents.CommandReplyPayloadV1
		require.NoError(t, json.Unmarshal(msg.Payload, &reply))
		assert.True(t, reply.Success)
		assert.Equal(t, "joined g01", reply.Message)
		assert.Equal(t, "guild-1", msg.Metadata.Get(handlerwrapper.MetadataGuildID))
	case <-ctx.Done():
		t.Fatal("timed out waiting for reply")
	}
}

func TestNewTeamRouter_SkipsMetricsInTests(t *testing.T) {
	t.Setenv(TestEnvironmentFlag, TestEnvironmentValue)

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NopLogger{})
	require.NoError(t, err)

	tr := NewTeamRouter(slog.Default(), router, nil, nil, noop.NewTracerProvider().Tracer("test"), nil)
	assert.Nil(t, tr.metricsBuilder)
}
