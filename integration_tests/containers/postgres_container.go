package containers

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresPort nat.Port = "5432/tcp"

// PostgresOptions configures StartPostgres. Zero fields take the defaults.
type PostgresOptions struct {
	Image          string
	Database       string
	User           string
	Password       string
	StartupTimeout time.Duration
}

func (o PostgresOptions) withDefaults() PostgresOptions {
	if o.Image == "" {
		o.Image = "postgres:16-alpine"
	}
	if o.Database == "" {
		o.Database = "roster_test"
	}
	if o.User == "" {
		o.User = "roster"
	}
	if o.Password == "" {
		o.Password = "roster"
	}
	if o.StartupTimeout == 0 {
		o.StartupTimeout = 45 * time.Second
	}
	return o
}

// dsn builds a pgx/pgdriver connection string with TLS disabled.
func (o PostgresOptions) dsn(host, port string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(o.User, o.Password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + o.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// StartPostgres runs a Postgres container and waits until it accepts SQL.
// It returns the container and a DSN reachable from the host.
func StartPostgres(ctx context.Context, opts PostgresOptions) (*postgres.PostgresContainer, string, error) {
	opts = opts.withDefaults()

	c, err := postgres.Run(ctx,
		opts.Image,
		postgres.WithDatabase(opts.Database),
		postgres.WithUsername(opts.User),
		postgres.WithPassword(opts.Password),
		testcontainers.WithWaitStrategy(
			wait.ForSQL(postgresPort, "pgx", func(host string, port nat.Port) string {
				return opts.dsn(host, port.Port())
			}).WithStartupTimeout(opts.StartupTimeout),
		),
	)
	if err != nil {
		if c != nil {
			_ = c.Terminate(ctx)
		}
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to resolve postgres host: %w", err)
	}
	port, err := c.MappedPort(ctx, postgresPort)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to resolve postgres port: %w", err)
	}

	return c, opts.dsn(host, port.Port()), nil
}
