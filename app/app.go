package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/roster-bot/app/modules/guild"
	"github.com/Black-And-White-Club/roster-bot/app/modules/team"
	teamhttp "github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/httpapi"
	"github.com/Black-And-White-Club/roster-bot/config"
	"github.com/Black-And-White-Club/roster-bot/db/bundb"
	"github.com/Black-And-White-Club/roster-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/roster-bot/pkg/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// App holds the process-wide resources and the modules built on them.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	HTTPRouter    chi.Router
	GuildModule   *guild.Module
	TeamModule    *team.Module

	// routerCtx is cancelled on Close and scopes every handler subscription.
	routerCtx    context.Context
	routerCancel context.CancelFunc
}

// Initialize connects to Postgres and NATS, applies migrations and builds
// the modules. A nil db or bus is created from cfg; tests inject their own.
func (app *App) Initialize(ctx context.Context, cfg *config.Config, obs *observability.Observability, db *bun.DB, bus eventbus.EventBus) error {
	app.Config = cfg
	app.Observability = obs
	logger := obs.Provider.Logger

	if db == nil {
		var err error
		db, err = bundb.Open(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
	}
	app.DB = db

	if err := bundb.MigrateAll(ctx, db, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if bus == nil {
		var err error
		bus, err = newEventBus(ctx, cfg, logger)
		if err != nil {
			return err
		}
	}
	app.EventBus = bus

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create Watermill router: %w", err)
	}
	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)
	app.Router = router
	app.routerCtx, app.routerCancel = context.WithCancel(ctx)

	app.HTTPRouter = newHTTPRouter(obs)

	if err := app.initializeModules(ctx); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Application initialized",
		slog.String("http_address", cfg.HTTP.Address),
		slog.Bool("nats", cfg.NATS.URL != ""),
	)
	return nil
}

func newEventBus(ctx context.Context, cfg *config.Config, logger *slog.Logger) (eventbus.EventBus, error) {
	if cfg.NATS.URL == "" {
		logger.WarnContext(ctx, "NATS_URL not set, using in-process event bus")
		return eventbus.NewInMemory(watermill.NewSlogLogger(logger)), nil
	}

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	if err := bus.CreateStreams(ctx, eventbus.DefaultStreams); err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to create streams: %w", err)
	}
	return bus, nil
}

// initializeModules builds the guild module first: the team module reads its
// settings through the guild service.
func (app *App) initializeModules(ctx context.Context) error {
	guildModule, err := guild.NewGuildModule(
		ctx,
		app.Observability,
		app.EventBus,
		app.Router,
		app.routerCtx,
		app.DB,
		app.Config.TeamDefaults(),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize guild module: %w", err)
	}
	app.GuildModule = guildModule

	teamModule, err := team.NewTeamModule(
		ctx,
		app.Observability,
		app.EventBus,
		app.Router,
		app.routerCtx,
		app.DB,
		team.Deps{
			GuildSettings: guildModule.GuildService,
			HTTPRouter:    app.HTTPRouter,
			HTTP: teamhttp.Options{
				Token:             app.Config.HTTP.Token,
				RequestsPerSecond: app.Config.HTTP.RateLimit,
				Burst:             app.Config.HTTP.Burst,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to initialize team module: %w", err)
	}
	app.TeamModule = teamModule
	return nil
}

// Close stops the modules and releases the bus and database.
func (app *App) Close() error {
	var errs []error
	if app.routerCancel != nil {
		app.routerCancel()
	}
	if app.TeamModule != nil {
		if err := app.TeamModule.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.GuildModule != nil {
		if err := app.GuildModule.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing event bus: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing database: %w", err))
		}
	}
	return errors.Join(errs...)
}
