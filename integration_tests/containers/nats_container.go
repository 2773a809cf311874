package containers

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DefaultNATSImage is used when StartNATS gets an empty image.
const DefaultNATSImage = "nats:2.10-alpine"

// StartNATS runs a NATS server with JetStream (the module's default command
// enables it) and returns the container and its client URL.
func StartNATS(ctx context.Context, image string) (*nats.NATSContainer, string, error) {
	if image == "" {
		image = DefaultNATSImage
	}

	c, err := nats.Run(ctx,
		image,
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForLog("Server is ready"),
				wait.ForListeningPort("4222/tcp"),
			).WithDeadline(45*time.Second),
		),
	)
	if err != nil {
		if c != nil {
			_ = c.Terminate(ctx)
		}
		return nil, "", fmt.Errorf("failed to start nats container: %w", err)
	}

	natsURL, err := c.ConnectionString(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to get nats connection string: %w", err)
	}
	return c, natsURL, nil
}
