package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is an account in core.users
type User struct {
	bun.BaseModel `bun:"table:core.users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Username     string    `bun:"username,notnull" json:"username"`
	Email        string    `bun:"email,notnull" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	IsAdmin      bool      `bun:"is_admin,notnull" json:"is_admin"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// UserSummary is a user row with its completed-profile flag
type UserSummary struct {
	ID         uuid.UUID `bun:"id" json:"id"`
	Username   string    `bun:"username" json:"username"`
	Email      string    `bun:"email" json:"email"`
	IsAdmin    bool      `bun:"is_admin" json:"is_admin"`
	HasProfile bool      `bun:"has_profile" json:"has_profile"`
	CreatedAt  time.Time `bun:"created_at" json:"created_at"`
}
