package people

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/familytree/ledger/pkg/apperror"
	"github.com/familytree/ledger/pkg/logger"
	"github.com/familytree/ledger/pkg/pgutils"
)

// Repository handles database operations for people
type Repository struct {
	db  bun.IDB
	log *slog.Logger
}

// NewRepository creates a new people repository
func NewRepository(db bun.IDB, log *slog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With(logger.Scope("people.repo")),
	}
}

// FindByUserID returns the user's profile or nil when absent
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*Person, error) {
	var person Person
	err := r.db.NewSelect().
		Model(&person).
		Where("p.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to find person", slog.String("user_id", userID.String()), logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return &person, nil
}

// FindByUserIDs returns the profiles of the given users keyed by user id.
// Users without a profile are absent from the map.
func (r *Repository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]Person, error) {
	result := make(map[uuid.UUID]Person, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []Person
	err := r.db.NewSelect().
		Model(&rows).
		Where("p.user_id IN (?)", bun.In(userIDs)).
		Scan(ctx)
	if err != nil {
		r.log.Error("failed to list people", slog.Int("count", len(userIDs)), logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	for _, p := range rows {
		result[p.UserID] = p
	}
	return result, nil
}

// Create inserts a profile
func (r *Repository) Create(ctx context.Context, person *Person) error {
	_, err := r.db.NewInsert().
		Model(person).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return apperror.ErrConflict.WithMessage("Profile already exists")
		}
		if pgutils.IsForeignKeyViolation(err) {
			return apperror.ErrUserNotFound
		}
		r.log.Error("failed to create person", logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// Update writes the editable columns of an existing profile
func (r *Repository) Update(ctx context.Context, person *Person) error {
	person.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(person).
		Column("gender", "first_name", "middle_name", "last_name", "updated_at").
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		r.log.Error("failed to update person", slog.String("person_id", person.ID.String()), logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}
