package users

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/familytree/ledger/pkg/apperror"
	"github.com/familytree/ledger/pkg/auth"
	"github.com/familytree/ledger/pkg/logger"
)

// Service handles business logic for user accounts
type Service struct {
	repo   *Repository
	tokens *auth.TokenManager
	log    *slog.Logger
}

// NewService creates a new users service
func NewService(repo *Repository, tokens *auth.TokenManager, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		log:    log.With(logger.Scope("users.svc")),
	}
}

// Register creates an account. Taken emails and usernames are reported
// before insert; the unique constraints remain the authority under races.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.ErrConflict.WithMessage(msgEmailTaken)
	}

	taken, err = s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.ErrConflict.WithMessage(msgUsernameTaken)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.ErrInternal.WithInternal(err)
	}

	user := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Login verifies credentials and issues an access token
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Login == "" || req.Password == "" {
		return nil, apperror.NewValidation("login and password are required")
	}

	user, err := s.repo.FindByLogin(ctx, req.Login)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.log.Info("login failed", slog.String("login", req.Login))
		return nil, apperror.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(auth.AuthUser{
		ID:       user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
	if err != nil {
		return nil, apperror.ErrInternal.WithInternal(err)
	}

	s.log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// FindByID returns the user or nil when absent
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByID returns the user or a 404
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound
	}
	return user, nil
}

// HasCompletedProfile reports whether the user has a Person profile
func (s *Service) HasCompletedProfile(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.HasProfile(ctx, id)
}

// ListAll returns every user with its profile flag
func (s *Service) ListAll(ctx context.Context) ([]UserSummary, error) {
	return s.repo.ListSummaries(ctx)
}

// Me describes the authenticated user
func (s *Service) Me(ctx context.Context, id uuid.UUID) (*MeResponse, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	hasProfile, err := s.repo.HasProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MeResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		IsAdmin:    user.IsAdmin,
		HasProfile: hasProfile,
	}, nil
}

// SetAdmin grants or revokes the admin flag
func (s *Service) SetAdmin(ctx context.Context, id uuid.UUID, admin bool) error {
	ok, err := s.repo.SetAdmin(ctx, id, admin)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.ErrUserNotFound
	}
	s.log.Info("admin flag changed",
		slog.String("user_id", id.String()),
		slog.Bool("admin", admin),
	)
	return nil
}

// FindByLogin returns the user with this username or email, or nil
func (s *Service) FindByLogin(ctx context.Context, login string) (*User, error) {
	return s.repo.FindByLogin(ctx, login)
}
