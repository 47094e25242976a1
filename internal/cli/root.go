// Package cli implements ledgerctl, the operator command line for the
// family tree database.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/familytree/ledger/domain/people"
	"github.com/familytree/ledger/domain/relatives"
	"github.com/familytree/ledger/domain/users"
	"github.com/familytree/ledger/internal/config"
	"github.com/familytree/ledger/internal/migrate"
	"github.com/familytree/ledger/pkg/auth"
	"github.com/familytree/ledger/pkg/logger"
)

var (
	dsn    string
	output string
)

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Operate the family tree database",
	Long: `ledgerctl applies migrations, seeds fixtures and audits relation edges.

The database is taken from --dsn, or built from the POSTGRES_* variables
the server uses.`,
	SilenceUsage: true,
}

// NewRootCommand returns the root command
func NewRootCommand() *cobra.Command {
	return rootCmd
}

// Execute runs the command line
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "PostgreSQL DSN (default from POSTGRES_* variables)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "yaml", "output format (yaml, json)")
}

// env holds what a command needs to talk to the database.
type env struct {
	cfg *config.Config
	db  *bun.DB
	log *slog.Logger
}

func (e *env) Close() {
	_ = e.db.Close()
}

// openEnv connects through pgdriver; the CLI does not need a pgx pool.
func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	target := dsn
	if target == "" {
		target = cfg.Database.DSN()
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(target)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &env{
		cfg: cfg,
		db:  db,
		log: logger.NewLogger(),
	}, nil
}

func (e *env) migrator() (*migrate.Migrator, error) {
	zl, err := migrate.NewZapLogger(e.cfg)
	if err != nil {
		return nil, err
	}
	return migrate.NewMigrator(e.db, zl), nil
}

// services builds the domain services on db, which may be a transaction.
type services struct {
	users     *users.Service
	people    *people.Service
	relatives *relatives.Service
}

func newServices(cfg *config.Config, db bun.IDB, log *slog.Logger) *services {
	usersSvc := users.NewService(users.NewRepository(db, log), auth.NewTokenManager(cfg), log)
	peopleSvc := people.NewService(people.NewRepository(db, log), log)
	return &services{
		users:  usersSvc,
		people: peopleSvc,
		relatives: relatives.NewService(
			relatives.NewRepository(db, log),
			relatives.NewIdentityStore(usersSvc, peopleSvc),
			log,
		),
	}
}
