package relatives

import (
	"context"

	"github.com/google/uuid"
)

// Queries reads and writes relation edges. Implementations are bound to a
// connection or to a transaction.
type Queries interface {
	// Find returns the edge (owner, counterpart) or nil when absent.
	Find(ctx context.Context, ownerID, counterpartID uuid.UUID) (*Relative, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Relative, error)
	ListAll(ctx context.Context) ([]Relative, error)
	// Insert returns ErrDuplicateRelation when the pair already exists.
	Insert(ctx context.Context, edge *Relative) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateKind(ctx context.Context, id uuid.UUID, kind Kind) error
	// Lock serializes writers on key until the transaction ends.
	Lock(ctx context.Context, key string) error
}

// Store is the edge persistence used by the ledger.
type Store interface {
	Queries
	// RunInTx runs fn in one transaction. Returning an error rolls back.
	RunInTx(ctx context.Context, fn func(ctx context.Context, q Queries) error) error
}

// User is the identity view the ledger needs.
type User struct {
	ID       uuid.UUID
	Username string
}

// Person is the profile view the ledger needs.
type Person struct {
	UserID     uuid.UUID
	FirstName  string
	MiddleName *string
	LastName   string
}

// IdentityStore resolves users and their profiles.
type IdentityStore interface {
	// FindUserByID returns nil when the user does not exist.
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	HasCompletedProfile(ctx context.Context, userID uuid.UUID) (bool, error)
	ListAllUsers(ctx context.Context) ([]User, error)
	// FindPeople returns profiles keyed by user id; users without one are absent.
	FindPeople(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]Person, error)
}
