package relatives

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Relative is a directed relation edge in core.relatives. Edges are never
// updated in place by users; a kind change is a delete followed by a create.
type Relative struct {
	bun.BaseModel `bun:"table:core.relatives,alias:r"`

	ID                uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	OwnerUserID       uuid.UUID `bun:"owner_user_id,type:uuid,notnull" json:"owner_user_id"`
	CounterpartUserID uuid.UUID `bun:"counterpart_user_id,type:uuid,notnull" json:"counterpart_user_id"`
	Kind              Kind      `bun:"relation_kind,notnull" json:"relation_kind"`
	CreatedAt         time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// pairKey identifies the unordered user pair, used for advisory locking.
func pairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if y < x {
		x, y = y, x
	}
	return "relatives:" + x + ":" + y
}
