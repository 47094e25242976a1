package relatives

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/familytree/ledger/internal/database"
	"github.com/familytree/ledger/pkg/apperror"
	"github.com/familytree/ledger/pkg/logger"
	"github.com/familytree/ledger/pkg/pgutils"
)

// Repository stores relation edges in PostgreSQL
type Repository struct {
	db  bun.IDB
	log *slog.Logger
}

// NewRepository creates a new relatives repository
func NewRepository(db bun.IDB, log *slog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With(logger.Scope("relatives.repo")),
	}
}

// RunInTx runs fn inside a SafeTx. The transaction is rolled back on every
// path that does not reach Commit.
func (r *Repository) RunInTx(ctx context.Context, fn func(ctx context.Context, q Queries) error) error {
	tx, err := database.BeginSafeTx(ctx, r.db)
	if err != nil {
		r.log.Error("failed to begin transaction", logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, &Repository{db: tx.Tx, log: r.log}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if pgutils.IsUniqueViolation(err) {
			return ErrDuplicateRelation
		}
		r.log.Error("failed to commit transaction", logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// Find returns the edge (owner, counterpart) or nil when absent
func (r *Repository) Find(ctx context.Context, ownerID, counterpartID uuid.UUID) (*Relative, error) {
	var edge Relative
	err := r.db.NewSelect().
		Model(&edge).
		Where("r.owner_user_id = ?", ownerID).
		Where("r.counterpart_user_id = ?", counterpartID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to find relation", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return &edge, nil
}

// ListByOwner returns the owner's edges oldest first
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Relative, error) {
	edges := []Relative{}
	err := r.db.NewSelect().
		Model(&edges).
		Where("r.owner_user_id = ?", ownerID).
		OrderExpr("r.created_at ASC, r.id ASC").
		Scan(ctx)
	if err != nil {
		r.log.Error("failed to list relations", slog.String("owner_user_id", ownerID.String()), logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return edges, nil
}

// ListAll returns every edge oldest first
func (r *Repository) ListAll(ctx context.Context) ([]Relative, error) {
	edges := []Relative{}
	err := r.db.NewSelect().
		Model(&edges).
		OrderExpr("r.created_at ASC, r.id ASC").
		Scan(ctx)
	if err != nil {
		r.log.Error("failed to list all relations", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return edges, nil
}

// Insert stores an edge. A unique violation on the owner/counterpart pair
// becomes ErrDuplicateRelation.
func (r *Repository) Insert(ctx context.Context, edge *Relative) error {
	_, err := r.db.NewInsert().
		Model(edge).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return ErrDuplicateRelation
		}
		r.log.Error("failed to insert relation",
			slog.String("owner_user_id", edge.OwnerUserID.String()),
			slog.String("counterpart_user_id", edge.CounterpartUserID.String()),
			logger.Error(err),
		)
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// Delete removes an edge by id
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Relative)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		r.log.Error("failed to delete relation", slog.String("id", id.String()), logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// UpdateKind rewrites an edge's kind. Only the audit repair uses it.
func (r *Repository) UpdateKind(ctx context.Context, id uuid.UUID, kind Kind) error {
	_, err := r.db.NewUpdate().
		Model((*Relative)(nil)).
		Set("relation_kind = ?", kind).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		r.log.Error("failed to update relation kind", slog.String("id", id.String()), logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// Lock takes a transaction-scoped advisory lock
func (r *Repository) Lock(ctx context.Context, key string) error {
	if err := database.LockKey(ctx, r.db, key); err != nil {
		r.log.Error("failed to acquire lock", slog.String("key", key), logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}
