package team

import (
	"context"
	"fmt"
	"sync"

	teamservice "github.com/Black-And-White-Club/roster-bot/app/modules/team/application"
	teamhandlers "github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/handlers"
	teamhttp "github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/httpapi"
	"github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/parsers"
	teamdb "github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/repositories"
	teamrouter "github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/router"
	"github.com/Black-And-White-Club/roster-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/roster-bot/pkg/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the team module.
type Module struct {
	TeamService   teamservice.Service
	TeamRouter    *teamrouter.TeamRouter
	cancelFunc    context.CancelFunc
	observability *observability.Observability
}

// Deps are the collaborators the team module borrows from other modules.
type Deps struct {
	// GuildSettings resolves per-guild capacity, prefix and history limit.
	// Nil uses the built-in defaults.
	GuildSettings teamservice.GuildSettings
	// HTTPRouter receives the export routes when set.
	HTTPRouter chi.Router
	HTTP       teamhttp.Options
}

// NewTeamModule creates and initializes a new team module.
func NewTeamModule(
	ctx context.Context,
	obs *observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	routerCtx context.Context,
	db *bun.DB,
	deps Deps,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "team.NewTeamModule initializing")

	// 1. Initialize Repository
	repo := teamdb.NewRepository(db)

	// 2. Initialize Service
	service := teamservice.NewTeamService(repo, deps.GuildSettings, logger, obs.Registry.TeamMetrics, tracer, db)

	// 3. Initialize Handlers
	handlers := teamhandlers.NewTeamHandlers(service, parsers.NewFactory(), logger, tracer)

	// 4. Initialize Router
	teamRouter := teamrouter.NewTeamRouter(
		logger,
		router,
		eventBus,
		eventBus,
		tracer,
		obs.Registry.Prometheus,
	)

	// 5. Configure the router with handlers
	if err := teamRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure team router: %w", err)
	}

	// 6. Register HTTP exports
	if deps.HTTPRouter != nil {
		teamhttp.NewHandlers(service, logger, tracer).Mount(deps.HTTPRouter, deps.HTTP)
	}

	return &Module{
		TeamService:   service,
		TeamRouter:    teamRouter,
		observability: obs,
	}, nil
}

// Run starts the team module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting team module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Team module goroutine stopped")
}

// Close shuts down the team module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping team module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.TeamRouter != nil {
		if err := m.TeamRouter.Close(); err != nil {
			logger.Error("Error closing TeamRouter from module", "error", err)
			return fmt.Errorf("error closing TeamRouter: %w", err)
		}
	}

	logger.Info("Team module stopped")
	return nil
}
