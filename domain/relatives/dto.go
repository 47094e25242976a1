package relatives

import (
	"github.com/google/uuid"
)

// RelationDetail is an edge enriched with the counterpart's profile
type RelationDetail struct {
	FirstName         string    `json:"first_name"`
	MiddleName        *string   `json:"middle_name,omitempty"`
	LastName          string    `json:"last_name"`
	RelationKind      Kind      `json:"relation_kind"`
	CounterpartUserID uuid.UUID `json:"counterpart_user_id"`
}

// Candidate is a user that may be selected as a relative
type Candidate struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
}

// KindInfo lists a kind with its reverse
type KindInfo struct {
	Kind    Kind `json:"kind"`
	Reverse Kind `json:"reverse"`
}

// CandidateRequest is the body of POST /api/relatives and
// POST /api/relatives/validate
type CandidateRequest struct {
	CounterpartUserID string `json:"counterpart_user_id"`
	RelationKind      string `json:"relation_kind"`
}

// ValidationResponse is returned by POST /api/relatives/validate
type ValidationResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
	Message  string `json:"message,omitempty"`
}

// CreatedResponse is returned by POST /api/relatives
type CreatedResponse struct {
	CounterpartUserID uuid.UUID `json:"counterpart_user_id"`
	RelationKind      Kind      `json:"relation_kind"`
	ReverseKind       Kind      `json:"reverse_kind"`
}
