package relatives

import (
	"context"

	"github.com/google/uuid"

	"github.com/familytree/ledger/domain/people"
	"github.com/familytree/ledger/domain/users"
)

// identityStore adapts the users and people services to IdentityStore.
type identityStore struct {
	users  *users.Service
	people *people.Service
}

// NewIdentityStore creates the IdentityStore backed by core.users and core.people.
func NewIdentityStore(usersSvc *users.Service, peopleSvc *people.Service) IdentityStore {
	return &identityStore{users: usersSvc, people: peopleSvc}
}

func (s *identityStore) FindUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	return &User{ID: u.ID, Username: u.Username}, nil
}

func (s *identityStore) HasCompletedProfile(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.users.HasCompletedProfile(ctx, userID)
}

func (s *identityStore) ListAllUsers(ctx context.Context) ([]User, error) {
	rows, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(rows))
	for _, r := range rows {
		out = append(out, User{ID: r.ID, Username: r.Username})
	}
	return out, nil
}

func (s *identityStore) FindPeople(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]Person, error) {
	rows, err := s.people.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]Person, len(rows))
	for id, p := range rows {
		out[id] = Person{
			UserID:     p.UserID,
			FirstName:  p.FirstName,
			MiddleName: p.MiddleName,
			LastName:   p.LastName,
		}
	}
	return out, nil
}
