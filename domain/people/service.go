package people

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/familytree/ledger/pkg/apperror"
	"github.com/familytree/ledger/pkg/logger"
)

// Service manages Person profiles
type Service struct {
	repo *Repository
	log  *slog.Logger
}

// NewService creates a new people service
func NewService(repo *Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With(logger.Scope("people.svc")),
	}
}

// Get returns the user's profile or a 404
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Person, error) {
	person, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, apperror.ErrNotFound.WithMessage("Profile not found")
	}
	return person, nil
}

// Upsert creates the profile or applies a partial update to it
func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, req UpsertRequest) (*UpsertResponse, error) {
	person, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if person == nil {
		person = &Person{UserID: userID}
		if err := req.applyTo(person, true); err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, person); err != nil {
			return nil, err
		}
		s.log.Info("profile created", slog.String("user_id", userID.String()))
		return &UpsertResponse{Message: msgProfileCreated, Created: true, Person: person}, nil
	}

	if err := req.applyTo(person, false); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, person); err != nil {
		return nil, err
	}
	s.log.Info("profile updated", slog.String("user_id", userID.String()))
	return &UpsertResponse{Message: msgProfileUpdated, Person: person}, nil
}

// FindByUserIDs returns profiles keyed by user id
func (s *Service) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]Person, error) {
	return s.repo.FindByUserIDs(ctx, userIDs)
}
