package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/familytree/ledger/internal/config"
	"github.com/familytree/ledger/internal/migrate"
	"github.com/familytree/ledger/pkg/logger"
)

const templateDBName = "familytree_test_template"

var (
	templateOnce sync.Once
	templateErr  error
)

// TestDB is an isolated database cloned from a migrated template
type TestDB struct {
	Config  *config.Config
	Pool    *pgxpool.Pool
	DB      *bun.DB
	Name    string
	cleanup func()

	tx    bun.Tx
	hasTx bool
}

// Close drops the database
func (t *TestDB) Close() {
	if t.cleanup != nil {
		t.cleanup()
	}
}

// GetDB returns the open test transaction, or the database when there is none
func (t *TestDB) GetDB() bun.IDB {
	if t.hasTx {
		return t.tx
	}
	return t.DB
}

// BeginTestTx starts the per-test transaction returned by GetDB
func (t *TestDB) BeginTestTx(ctx context.Context) error {
	if t.hasTx {
		return fmt.Errorf("transaction already started")
	}
	tx, err := t.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	t.tx = tx
	t.hasTx = true
	return nil
}

// RollbackTestTx discards everything the test wrote
func (t *TestDB) RollbackTestTx() error {
	if !t.hasTx {
		return nil
	}
	err := t.tx.Rollback()
	t.hasTx = false
	return err
}

// SetupTestDB creates a database from the template, building the template
// from the goose migrations on first use. POSTGRES_* variables select the
// server; the POSTGRES_DB database is never modified.
func SetupTestDB(ctx context.Context, suffix string) (*TestDB, error) {
	log := logger.Discard()

	baseCfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	templateOnce.Do(func() {
		templateErr = ensureTemplateDB(ctx, baseCfg, log)
	})
	if templateErr != nil {
		return nil, fmt.Errorf("ensure template db: %w", templateErr)
	}

	name := fmt.Sprintf("familytree_test_%s_%d", suffix, time.Now().UnixNano())
	if err := execAdmin(ctx, baseCfg, fmt.Sprintf("CREATE DATABASE %s TEMPLATE %s", name, templateDBName)); err != nil {
		return nil, fmt.Errorf("create test db from template: %w", err)
	}

	testCfg := *baseCfg
	testCfg.Database.Database = name

	pool, err := createPool(ctx, &testCfg)
	if err != nil {
		dropDB(context.Background(), baseCfg, name)
		return nil, fmt.Errorf("connect to test db: %w", err)
	}

	db := bun.NewDB(stdlib.OpenDBFromPool(pool), pgdialect.New())

	return &TestDB{
		Config: &testCfg,
		Pool:   pool,
		DB:     db,
		Name:   name,
		cleanup: func() {
			_ = db.Close()
			pool.Close()
			dropDB(context.Background(), baseCfg, name)
		},
	}, nil
}

// ensureTemplateDB holds an advisory lock while creating the template so
// test binaries running in parallel migrate it only once.
func ensureTemplateDB(ctx context.Context, baseCfg *config.Config, log *slog.Logger) error {
	adminCfg := *baseCfg
	adminCfg.Database.Database = "postgres"
	admin, err := createPool(ctx, &adminCfg)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer admin.Close()

	conn, err := admin.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock(hashtext($1))", templateDBName); err != nil {
		return fmt.Errorf("lock template: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.Background(), "SELECT pg_advisory_unlock(hashtext($1))", templateDBName)
	}()

	var exists bool
	err = conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", templateDBName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check template exists: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := conn.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", templateDBName)); err != nil {
		return fmt.Errorf("create template db: %w", err)
	}

	templateCfg := *baseCfg
	templateCfg.Database.Database = templateDBName
	pool, err := createPool(ctx, &templateCfg)
	if err != nil {
		dropDB(ctx, baseCfg, templateDBName)
		return fmt.Errorf("connect to template db: %w", err)
	}

	sqldb := stdlib.OpenDBFromPool(pool)
	err = migrate.RunWithDB(ctx, sqldb)
	_ = sqldb.Close()
	pool.Close()
	if err != nil {
		dropDB(ctx, baseCfg, templateDBName)
		return err
	}

	log.Info("template database migrated", slog.String("name", templateDBName))
	return nil
}

// DropTemplateDB removes the template so the next run rebuilds it from the
// current migrations.
func DropTemplateDB(ctx context.Context) error {
	baseCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	dropDB(ctx, baseCfg, templateDBName)
	return nil
}

func createPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func execAdmin(ctx context.Context, baseCfg *config.Config, sql string) error {
	adminCfg := *baseCfg
	adminCfg.Database.Database = "postgres"
	pool, err := createPool(ctx, &adminCfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	_, err = pool.Exec(ctx, sql)
	return err
}

func dropDB(ctx context.Context, baseCfg *config.Config, name string) {
	_ = execAdmin(ctx, baseCfg, fmt.Sprintf(
		"SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = '%s' AND pid <> pg_backend_pid()", name))
	_ = execAdmin(ctx, baseCfg, fmt.Sprintf("DROP DATABASE IF EXISTS %s", name))
}
