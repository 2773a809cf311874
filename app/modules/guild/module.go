package guild

import (
	"context"
	"fmt"
	"sync"

	guildservice "github.com/Black-And-White-Club/roster-bot/app/modules/guild/application"
	guildhandlers "github.com/Black-And-White-Club/roster-bot/app/modules/guild/infrastructure/handlers"
	guilddb "github.com/Black-And-White-Club/roster-bot/app/modules/guild/infrastructure/repositories"
	guildrouter "github.com/Black-And-White-Club/roster-bot/app/modules/guild/infrastructure/router"
	"github.com/Black-And-White-Club/roster-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/roster-bot/pkg/observability"
	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the guild module.
type Module struct {
	GuildService  *guildservice.GuildService
	GuildRouter   *guildrouter.GuildRouter
	cancelFunc    context.CancelFunc
	observability *observability.Observability
}

// NewGuildModule creates and initializes a new guild module. defaults are the
// team settings of guilds without a stored config.
func NewGuildModule(
	ctx context.Context,
	obs *observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	routerCtx context.Context,
	db *bun.DB,
	defaults guildtypes.TeamSettings,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "guild.NewGuildModule initializing")

	repo := guilddb.NewRepository(db)
	service := guildservice.NewGuildService(repo, logger, obs.Registry.GuildMetrics, tracer, db, defaults)
	handlers := guildhandlers.NewGuildHandlers(service, logger, tracer)

	guildRouter := guildrouter.NewGuildRouter(logger, router, eventBus, eventBus, tracer)
	if err := guildRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure guild router: %w", err)
	}

	return &Module{
		GuildService:  service,
		GuildRouter:   guildRouter,
		observability: obs,
	}, nil
}

// Run starts the guild module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting guild module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Guild module goroutine stopped")
}

// Close shuts down the guild module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping guild module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.GuildRouter != nil {
		if err := m.GuildRouter.Close(); err != nil {
			logger.Error("Error closing GuildRouter from module", "error", err)
			return fmt.Errorf("error closing GuildRouter: %w", err)
		}
	}

	logger.Info("Guild module stopped")
	return nil
}
