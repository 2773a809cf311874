package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Black-And-White-Club/roster-bot/config"
	"github.com/Black-And-White-Club/roster-bot/db/bundb"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := bundb.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cliApp := &cli.App{
		Name:     "bun",
		Usage:    "manage the roster database schema",
		Commands: []*cli.Command{migrateCommand(bundb.Migrators(db))},
	}
	return cliApp.Run(append([]string{os.Args[0]}, flag.Args()...))
}

var moduleFlag = &cli.StringFlag{
	Name:    "module",
	Aliases: []string{"m"},
	Usage:   "only act on this module",
}

var requiredModuleFlag = &cli.StringFlag{
	Name:     "module",
	Aliases:  []string{"m"},
	Usage:    "module that owns the new migration",
	Required: true,
}

type moduleAction func(c *cli.Context, module string, m *migrate.Migrator) error

func migrateCommand(migrators map[string]*migrate.Migrator) *cli.Command {
	// each runs action for the selected module, or for every module in
	// name order when --module is not set.
	each := func(action moduleAction) cli.ActionFunc {
		return func(c *cli.Context) error {
			names, err := selectModules(migrators, c.String("module"))
			if err != nil {
				return err
			}
			for _, name := range names {
				if err := action(c, name, migrators[name]); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}
			return nil
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Flags: []cli.Flag{moduleFlag},
				Action: each(func(c *cli.Context, name string, m *migrate.Migrator) error {
					if err := m.Init(c.Context); err != nil {
						return err
					}
					fmt.Printf("%s: migration tables ready\n", name)
					return nil
				}),
			},
			{
				Name:  "migrate",
				Usage: "apply pending migrations",
				Flags: []cli.Flag{moduleFlag},
				Action: each(func(c *cli.Context, name string, m *migrate.Migrator) error {
					return locked(c.Context, m, func() error {
						group, err := m.Migrate(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("%s: nothing to migrate\n", name)
							return nil
						}
						fmt.Printf("%s: migrated to %s\n", name, group)
						return nil
					})
				}),
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group",
				Flags: []cli.Flag{moduleFlag},
				Action: each(func(c *cli.Context, name string, m *migrate.Migrator) error {
					return locked(c.Context, m, func() error {
						group, err := m.Rollback(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("%s: nothing to roll back\n", name)
							return nil
						}
						fmt.Printf("%s: rolled back %s\n", name, group)
						return nil
					})
				}),
			},
			{
				Name:  "unlock",
				Usage: "release a migration lock left by an interrupted run",
				Flags: []cli.Flag{moduleFlag},
				Action: each(func(c *cli.Context, name string, m *migrate.Migrator) error {
					if err := m.Unlock(c.Context); err != nil {
						return err
					}
					fmt.Printf("%s: unlocked\n", name)
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Flags: []cli.Flag{moduleFlag},
				Action: each(func(c *cli.Context, name string, m *migrate.Migrator) error {
					ms, err := m.MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("%s:\n", name)
					fmt.Printf("  applied:    %s\n", ms.Applied())
					fmt.Printf("  unapplied:  %s\n", ms.Unapplied())
					fmt.Printf("  last group: %s\n", ms.LastGroup())
					return nil
				}),
			},
			{
				Name:      "create_go",
				Usage:     "create a Go migration",
				ArgsUsage: "<name words>",
				Flags:     []cli.Flag{requiredModuleFlag},
				Action: func(c *cli.Context) error {
					m, name, err := newMigrationTarget(c, migrators)
					if err != nil {
						return err
					}
					mf, err := m.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("%s: created %s (%s)\n", c.String("module"), mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "<name words>",
				Flags:     []cli.Flag{requiredModuleFlag},
				Action: func(c *cli.Context) error {
					m, name, err := newMigrationTarget(c, migrators)
					if err != nil {
						return err
					}
					files, err := m.CreateSQLMigrations(c.Context, name)
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Printf("%s: created %s (%s)\n", c.String("module"), mf.Name, mf.Path)
					}
					return nil
				},
			},
		},
	}
}

func selectModules(migrators map[string]*migrate.Migrator, module string) ([]string, error) {
	if module == "" {
		return bundb.ModuleNames(migrators), nil
	}
	if _, ok := migrators[module]; !ok {
		return nil, fmt.Errorf("unknown module %q (have %s)", module, strings.Join(bundb.ModuleNames(migrators), ", "))
	}
	return []string{module}, nil
}

func newMigrationTarget(c *cli.Context, migrators map[string]*migrate.Migrator) (*migrate.Migrator, string, error) {
	names, err := selectModules(migrators, c.String("module"))
	if err != nil {
		return nil, "", err
	}
	name := strings.Join(c.Args().Slice(), "_")
	if name == "" {
		return nil, "", errors.New("migration name is required")
	}
	return migrators[names[0]], name, nil
}

// locked holds the module's migration lock while fn runs.
func locked(ctx context.Context, m *migrate.Migrator, fn func() error) error {
	if err := m.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	err := fn()
	if unlockErr := m.Unlock(ctx); unlockErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to release migration lock: %w", unlockErr))
	}
	return err
}
