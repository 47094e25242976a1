package relatives

import (
	"net/http"

	"github.com/familytree/ledger/pkg/apperror"
)

// Rejection is the outcome of ValidateCandidate. Rejections are expected
// results, not errors.
type Rejection int

const (
	Accepted Rejection = iota
	CounterpartNotFound
	SelfRelationRejected
	DuplicateRelation
	IncompleteProfile
)

var rejectionErrors = map[Rejection]*apperror.Error{
	CounterpartNotFound:  apperror.New(http.StatusNotFound, "counterpart_not_found", "The selected user does not exist"),
	SelfRelationRejected: apperror.New(http.StatusUnprocessableEntity, "self_relation", "You cannot add yourself as a relative"),
	DuplicateRelation:    apperror.New(http.StatusConflict, "duplicate_relation", "This user is already one of your relatives"),
	IncompleteProfile:    apperror.New(http.StatusUnprocessableEntity, "incomplete_profile", "Both you and the selected user must complete a profile first"),
}

// ErrDuplicateRelation is returned by CreateRelation when the store's unique
// constraint rejects an edge.
var ErrDuplicateRelation = rejectionErrors[DuplicateRelation]

// OK reports whether the candidate was accepted.
func (r Rejection) OK() bool {
	return r == Accepted
}

// Code is the stable machine-readable reason.
func (r Rejection) Code() string {
	if err, ok := rejectionErrors[r]; ok {
		return err.Code
	}
	return "accepted"
}

// Message is the user-facing text for the reason.
func (r Rejection) Message() string {
	if err, ok := rejectionErrors[r]; ok {
		return err.Message
	}
	return ""
}

func (r Rejection) String() string {
	return r.Code()
}

// AppError maps the rejection to an HTTP error. Accepted yields nil.
func (r Rejection) AppError() *apperror.Error {
	return rejectionErrors[r]
}
