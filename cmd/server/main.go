// Package main runs the family tree API server.
package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/familytree/ledger/domain/health"
	"github.com/familytree/ledger/domain/people"
	"github.com/familytree/ledger/domain/relatives"
	"github.com/familytree/ledger/domain/scheduler"
	"github.com/familytree/ledger/domain/tracing"
	"github.com/familytree/ledger/domain/users"
	"github.com/familytree/ledger/internal/config"
	"github.com/familytree/ledger/internal/database"
	"github.com/familytree/ledger/internal/migrate"
	"github.com/familytree/ledger/internal/server"
	"github.com/familytree/ledger/pkg/auth"
	"github.com/familytree/ledger/pkg/logger"
)

func main() {
	// .env fills unset variables; .env.local overrides them
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	fx.New(
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),

		// Infrastructure
		logger.Module,
		config.Module,
		database.Module,
		migrate.Module,
		tracing.Module,
		server.Module,
		scheduler.Module,

		auth.Module,

		// Domain
		health.Module,
		users.Module,
		people.Module,
		relatives.Module,
	).Run()
}
