package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/familytree/ledger/pkg/apperror"
	"github.com/familytree/ledger/pkg/auth"
)

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims fields and lowercases the email
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Validate checks required fields
func (r RegisterRequest) Validate() error {
	switch {
	case r.Username == "":
		return apperror.NewValidation("username is required")
	case r.Email == "" || !strings.Contains(r.Email, "@"):
		return apperror.NewValidation("a valid email is required")
	}
	if err := auth.ValidatePassword(r.Password); err != nil {
		return apperror.NewValidation(err.Error())
	}
	return nil
}

// LoginRequest is the body of POST /api/auth/login. Login accepts a
// username or an email address.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

// MeResponse describes the authenticated user
type MeResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsAdmin    bool      `json:"is_admin"`
	HasProfile bool      `json:"has_profile"`
}
