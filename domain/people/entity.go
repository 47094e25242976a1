package people

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Gender is the closed set stored in core.people.gender
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// ParseGender accepts any casing and surrounding whitespace
func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToUpper(strings.TrimSpace(s)))
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// Person is a user's profile. At most one per user.
type Person struct {
	bun.BaseModel `bun:"table:core.people,alias:p"`

	ID         uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	UserID     uuid.UUID `bun:"user_id,type:uuid,notnull" json:"user_id"`
	Gender     Gender    `bun:"gender,notnull" json:"gender"`
	FirstName  string    `bun:"first_name,notnull" json:"first_name"`
	MiddleName *string   `bun:"middle_name" json:"middle_name,omitempty"`
	LastName   string    `bun:"last_name,notnull" json:"last_name"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// DisplayName joins first, middle and last name
func (p *Person) DisplayName() string {
	parts := []string{p.FirstName}
	if p.MiddleName != nil && *p.MiddleName != "" {
		parts = append(parts, *p.MiddleName)
	}
	parts = append(parts, p.LastName)
	return strings.Join(parts, " ")
}
