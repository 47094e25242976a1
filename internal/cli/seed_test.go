package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/familytree/ledger/domain/people"
	"github.com/familytree/ledger/domain/relatives"
	"github.com/familytree/ledger/domain/users"
	"github.com/familytree/ledger/pkg/logger"
)

type fakeAccounts struct {
	byName   map[string]*users.User
	admins   map[uuid.UUID]bool
	register int
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byName: map[string]*users.User{}, admins: map[uuid.UUID]bool{}}
}

func (f *fakeAccounts) Register(_ context.Context, req users.RegisterRequest) (*users.User, error) {
	f.register++
	u := &users.User{ID: uuid.New(), Username: req.Username, Email: req.Email}
	f.byName[req.Username] = u
	return u, nil
}

func (f *fakeAccounts) FindByLogin(_ context.Context, login string) (*users.User, error) {
	return f.byName[login], nil
}

func (f *fakeAccounts) SetAdmin(_ context.Context, id uuid.UUID, admin bool) error {
	f.admins[id] = admin
	return nil
}

type fakeProfiles struct {
	saved map[uuid.UUID]people.UpsertRequest
}

func (f *fakeProfiles) Upsert(_ context.Context, userID uuid.UUID, req people.UpsertRequest) (*people.UpsertResponse, error) {
	f.saved[userID] = req
	return &people.UpsertResponse{Created: true}, nil
}

type edge struct {
	from, to uuid.UUID
	kind     relatives.Kind
}

// fakeLedger rejects self relations and pairs that already have an edge
// in either direction.
type fakeLedger struct {
	edges []edge
}

func (f *fakeLedger) ValidateCandidate(_ context.Context, a, b uuid.UUID, _ relatives.Kind) (relatives.Rejection, error) {
	if a == b {
		return relatives.SelfRelationRejected, nil
	}
	for _, e := range f.edges {
		if (e.from == a && e.to == b) || (e.from == b && e.to == a) {
			return relatives.DuplicateRelation, nil
		}
	}
	return relatives.Accepted, nil
}

func (f *fakeLedger) CreateRelation(_ context.Context, a, b uuid.UUID, kind relatives.Kind) error {
	f.edges = append(f.edges, edge{a, b, kind}, edge{b, a, relatives.ReverseOf(kind)})
	return nil
}

const seedYAML = `
users:
  - username: alice
    email: alice@example.com
    password: correct-horse-battery
    admin: true
    person: {gender: FEMALE, first_name: Alice, middle_name: Ann, last_name: Smith}
  - username: bob
    email: bob@example.com
    password: correct-horse-battery
    person: {gender: MALE, first_name: Bob, last_name: Smith}
relations:
  - {from: alice, to: bob, kind: PARENT}
  - {from: bob, to: alice, kind: CHILD}
  - {from: bob, to: bob, kind: SIBLING}
`

func TestSeeder_Apply(t *testing.T) {
	fx, err := ParseFixture(strings.NewReader(seedYAML))
	require.NoError(t, err)

	accounts := newFakeAccounts()
	profiles := &fakeProfiles{saved: map[uuid.UUID]people.UpsertRequest{}}
	ledger := &fakeLedger{}

	report, err := NewSeeder(accounts, profiles, ledger, logger.Discard()).Apply(context.Background(), fx)
	require.NoError(t, err)

	assert.Equal(t, 2, report.UsersCreated)
	assert.Equal(t, 0, report.UsersReused)
	assert.Equal(t, 2, report.ProfilesSaved)
	assert.Equal(t, 1, report.RelationsCreated)
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, "duplicate_relation", report.Skipped[0].Reason)
	assert.Equal(t, "self_relation", report.Skipped[1].Reason)

	alice := accounts.byName["alice"]
	bob := accounts.byName["bob"]
	assert.True(t, accounts.admins[alice.ID])
	assert.NotContains(t, accounts.admins, bob.ID)

	require.Contains(t, profiles.saved, alice.ID)
	assert.Equal(t, "Ann", *profiles.saved[alice.ID].MiddleName)

	require.Len(t, ledger.edges, 2)
	assert.Equal(t, edge{alice.ID, bob.ID, relatives.KindParent}, ledger.edges[0])
	assert.Equal(t, edge{bob.ID, alice.ID, relatives.KindChild}, ledger.edges[1])
}

func TestSeeder_ReusesExistingUsers(t *testing.T) {
	fx, err := ParseFixture(strings.NewReader(seedYAML))
	require.NoError(t, err)

	accounts := newFakeAccounts()
	existing := &users.User{ID: uuid.New(), Username: "alice", IsAdmin: true}
	accounts.byName["alice"] = existing
	profiles := &fakeProfiles{saved: map[uuid.UUID]people.UpsertRequest{}}

	report, err := NewSeeder(accounts, profiles, &fakeLedger{}, logger.Discard()).Apply(context.Background(), fx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.UsersCreated)
	assert.Equal(t, 1, report.UsersReused)
	assert.Equal(t, 1, accounts.register)
	assert.Same(t, existing, accounts.byName["alice"])
	assert.NotContains(t, accounts.admins, existing.ID, "already an admin")
}
