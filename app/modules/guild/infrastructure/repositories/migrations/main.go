package guildmigrations

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations holds the guild config migrations.
var Migrations = migrate.NewMigrations()

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
