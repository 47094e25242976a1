package users

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/familytree/ledger/pkg/apperror"
	"github.com/familytree/ledger/pkg/logger"
	"github.com/familytree/ledger/pkg/pgutils"
)

// Conflict messages shown when registration hits a unique constraint
const (
	msgEmailTaken    = "Email already registered. Please log in."
	msgUsernameTaken = "Username already registered. Please use a different one."
)

// Repository handles database operations for users
type Repository struct {
	db  bun.IDB
	log *slog.Logger
}

// NewRepository creates a new users repository
func NewRepository(db bun.IDB, log *slog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With(logger.Scope("users.repo")),
	}
}

// Create inserts a user. Unique violations become 409 errors naming the
// taken field.
func (r *Repository) Create(ctx context.Context, user *User) error {
	_, err := r.db.NewInsert().
		Model(user).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			if pgutils.ConstraintName(err) == "users_username_key" {
				return apperror.ErrConflict.WithMessage(msgUsernameTaken)
			}
			return apperror.ErrConflict.WithMessage(msgEmailTaken)
		}
		r.log.Error("failed to create user", logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// FindByID returns the user or nil when absent
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.NewSelect().
		Model(&user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to find user", slog.String("user_id", id.String()), logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return &user, nil
}

// FindByLogin matches a username exactly or an email case-insensitively
func (r *Repository) FindByLogin(ctx context.Context, login string) (*User, error) {
	var user User
	err := r.db.NewSelect().
		Model(&user).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("u.username = ?", login).WhereOr("lower(u.email) = lower(?)", login)
		}).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to find user by login", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return &user, nil
}

// ExistsByUsername reports whether the username is taken
func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*User)(nil)).
		Where("u.username = ?", username).
		Exists(ctx)
	if err != nil {
		r.log.Error("failed to check username", logger.Error(err))
		return false, apperror.ErrDatabase.WithInternal(err)
	}
	return exists, nil
}

// ExistsByEmail reports whether the email is taken
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*User)(nil)).
		Where("lower(u.email) = lower(?)", email).
		Exists(ctx)
	if err != nil {
		r.log.Error("failed to check email", logger.Error(err))
		return false, apperror.ErrDatabase.WithInternal(err)
	}
	return exists, nil
}

// HasProfile reports whether the user has a row in core.people
func (r *Repository) HasProfile(ctx context.Context, userID uuid.UUID) (bool, error) {
	exists, err := r.db.NewSelect().
		TableExpr("core.people AS p").
		Where("p.user_id = ?", userID).
		Exists(ctx)
	if err != nil {
		r.log.Error("failed to check profile", slog.String("user_id", userID.String()), logger.Error(err))
		return false, apperror.ErrDatabase.WithInternal(err)
	}
	return exists, nil
}

// ListSummaries returns every user with its profile flag in creation order
func (r *Repository) ListSummaries(ctx context.Context) ([]UserSummary, error) {
	var rows []UserSummary
	err := r.db.NewSelect().
		TableExpr("core.users AS u").
		ColumnExpr("u.id, u.username, u.email, u.is_admin, u.created_at").
		ColumnExpr("EXISTS (SELECT 1 FROM core.people AS p WHERE p.user_id = u.id) AS has_profile").
		OrderExpr("u.created_at ASC, u.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		r.log.Error("failed to list users", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	if rows == nil {
		rows = []UserSummary{}
	}
	return rows, nil
}

// SetAdmin updates the admin flag. It returns false when no user matched.
func (r *Repository) SetAdmin(ctx context.Context, id uuid.UUID, admin bool) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("is_admin = ?", admin).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		r.log.Error("failed to set admin flag", slog.String("user_id", id.String()), logger.Error(err))
		return false, apperror.ErrDatabase.WithInternal(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperror.ErrDatabase.WithInternal(err)
	}
	return n > 0, nil
}
