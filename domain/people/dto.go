package people

import (
	"strings"

	"github.com/familytree/ledger/pkg/apperror"
)

const (
	msgProfileCreated = "Profile created successfully!"
	msgProfileUpdated = "Profile updated successfully!"
)

// UpsertRequest is the body of PUT /api/profile. Nil fields are left
// unchanged on update; gender, first and last name are required on create.
type UpsertRequest struct {
	Gender     *string `json:"gender"`
	FirstName  *string `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   *string `json:"last_name"`
}

// UpsertResponse reports the stored profile and whether it was new
type UpsertResponse struct {
	Message string  `json:"message"`
	Created bool    `json:"created"`
	Person  *Person `json:"person"`
}

// applyTo copies the provided fields onto p. With create set, the required
// fields must be present.
func (r UpsertRequest) applyTo(p *Person, create bool) error {
	if create && (r.Gender == nil || r.FirstName == nil || r.LastName == nil) {
		return apperror.NewValidation("gender, first_name and last_name are required")
	}

	if r.Gender != nil {
		g, err := ParseGender(*r.Gender)
		if err != nil {
			return apperror.NewValidation("gender must be one of MALE, FEMALE, OTHER")
		}
		p.Gender = g
	}
	if r.FirstName != nil {
		name := strings.TrimSpace(*r.FirstName)
		if name == "" {
			return apperror.NewValidation("first_name cannot be empty")
		}
		p.FirstName = name
	}
	if r.LastName != nil {
		name := strings.TrimSpace(*r.LastName)
		if name == "" {
			return apperror.NewValidation("last_name cannot be empty")
		}
		p.LastName = name
	}
	if r.MiddleName != nil {
		// an empty middle name clears it
		name := strings.TrimSpace(*r.MiddleName)
		if name == "" {
			p.MiddleName = nil
		} else {
			p.MiddleName = &name
		}
	}
	return nil
}
