package relatives

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memStore is an in-memory Store. RunInTx works on a copy of the edges and
// publishes it only when fn succeeds.
type memStore struct {
	mu    sync.Mutex
	edges []Relative
	clock time.Time

	// insertErr, when set, is consulted before every insert.
	insertErr func(edge *Relative) error
	locks     []string
}

func newMemStore() *memStore {
	return &memStore{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

type memTx struct {
	s     *memStore
	edges *[]Relative
}

func (s *memStore) view() *memTx {
	return &memTx{s: s, edges: &s.edges}
}

func (s *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context, q Queries) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := make([]Relative, len(s.edges))
	copy(work, s.edges)
	if err := fn(ctx, &memTx{s: s, edges: &work}); err != nil {
		return err
	}
	s.edges = work
	return nil
}

func (s *memStore) Find(ctx context.Context, ownerID, counterpartID uuid.UUID) (*Relative, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().Find(ctx, ownerID, counterpartID)
}

func (s *memStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Relative, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().ListByOwner(ctx, ownerID)
}

func (s *memStore) ListAll(ctx context.Context) ([]Relative, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().ListAll(ctx)
}

func (s *memStore) Insert(ctx context.Context, edge *Relative) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().Insert(ctx, edge)
}

func (s *memStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().Delete(ctx, id)
}

func (s *memStore) UpdateKind(ctx context.Context, id uuid.UUID, kind Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().UpdateKind(ctx, id, kind)
}

func (s *memStore) Lock(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().Lock(ctx, key)
}

// seed stores an edge directly, bypassing the reverse-edge logic.
func (s *memStore) seed(owner, counterpart uuid.UUID, kind Kind) {
	_ = s.Insert(context.Background(), &Relative{
		OwnerUserID:       owner,
		CounterpartUserID: counterpart,
		Kind:              kind,
	})
}

func (s *memStore) has(owner, counterpart uuid.UUID, kind Kind) bool {
	e, _ := s.Find(context.Background(), owner, counterpart)
	return e != nil && e.Kind == kind
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edges)
}

func (t *memTx) Find(_ context.Context, ownerID, counterpartID uuid.UUID) (*Relative, error) {
	for _, e := range *t.edges {
		if e.OwnerUserID == ownerID && e.CounterpartUserID == counterpartID {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (t *memTx) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]Relative, error) {
	out := []Relative{}
	for _, e := range *t.edges {
		if e.OwnerUserID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (t *memTx) ListAll(_ context.Context) ([]Relative, error) {
	out := make([]Relative, len(*t.edges))
	copy(out, *t.edges)
	return out, nil
}

func (t *memTx) Insert(ctx context.Context, edge *Relative) error {
	if t.s.insertErr != nil {
		if err := t.s.insertErr(edge); err != nil {
			return err
		}
	}
	if existing, _ := t.Find(ctx, edge.OwnerUserID, edge.CounterpartUserID); existing != nil {
		return ErrDuplicateRelation
	}
	if edge.ID == uuid.Nil {
		edge.ID = uuid.New()
	}
	t.s.clock = t.s.clock.Add(time.Second)
	edge.CreatedAt = t.s.clock
	*t.edges = append(*t.edges, *edge)
	return nil
}

func (t *memTx) Delete(_ context.Context, id uuid.UUID) error {
	kept := (*t.edges)[:0]
	for _, e := range *t.edges {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	*t.edges = kept
	return nil
}

func (t *memTx) UpdateKind(_ context.Context, id uuid.UUID, kind Kind) error {
	for i := range *t.edges {
		if (*t.edges)[i].ID == id {
			(*t.edges)[i].Kind = kind
		}
	}
	return nil
}

func (t *memTx) Lock(_ context.Context, key string) error {
	t.s.locks = append(t.s.locks, key)
	return nil
}

// fakeIdentity is an in-memory IdentityStore.
type fakeIdentity struct {
	users    []User
	profiles map[uuid.UUID]Person
	err      error
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{profiles: map[uuid.UUID]Person{}}
}

// addUser registers a user, with a profile when firstName is not empty.
func (f *fakeIdentity) addUser(username, firstName, lastName string) uuid.UUID {
	id := uuid.New()
	f.users = append(f.users, User{ID: id, Username: username})
	if firstName != "" {
		f.profiles[id] = Person{UserID: id, FirstName: firstName, LastName: lastName}
	}
	return id
}

func (f *fakeIdentity) FindUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeIdentity) HasCompletedProfile(_ context.Context, userID uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.profiles[userID]
	return ok, nil
}

func (f *fakeIdentity) ListAllUsers(context.Context) ([]User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *fakeIdentity) FindPeople(_ context.Context, userIDs []uuid.UUID) (map[uuid.UUID]Person, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[uuid.UUID]Person)
	for _, id := range userIDs {
		if p, ok := f.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}
