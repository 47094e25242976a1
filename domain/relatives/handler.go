package relatives

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/familytree/ledger/pkg/apperror"
	"github.com/familytree/ledger/pkg/auth"
)

// Handler handles HTTP requests for relatives
type Handler struct {
	svc *Service
}

// NewHandler creates a new relatives handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List returns the caller's relatives with names
// GET /api/relatives
func (h *Handler) List(c echo.Context) error {
	user := auth.GetUser(c)
	if user == nil {
		return apperror.ErrUnauthorized
	}

	details, err := h.svc.ListRelationsWithDetails(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

// Candidates returns users the caller may add as relatives
// GET /api/relatives/candidates
func (h *Handler) Candidates(c echo.Context) error {
	user := auth.GetUser(c)
	if user == nil {
		return apperror.ErrUnauthorized
	}

	candidates, err := h.svc.ListCandidateCounterparts(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, candidates)
}

// Kinds returns the relation kinds with their reverse kinds
// GET /api/relatives/kinds
func (h *Handler) Kinds(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Kinds())
}

// Validate checks a candidate relation without storing it
// POST /api/relatives/validate
func (h *Handler) Validate(c echo.Context) error {
	user := auth.GetUser(c)
	if user == nil {
		return apperror.ErrUnauthorized
	}

	counterpartID, kind, err := bindCandidate(c)
	if err != nil {
		return err
	}

	rejection, err := h.svc.ValidateCandidate(c.Request().Context(), user.ID, counterpartID, kind)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ValidationResponse{
		Accepted: rejection.OK(),
		Reason:   rejection.Code(),
		Message:  rejection.Message(),
	})
}

// Create validates and stores a relation with its reverse
// POST /api/relatives
func (h *Handler) Create(c echo.Context) error {
	user := auth.GetUser(c)
	if user == nil {
		return apperror.ErrUnauthorized
	}

	counterpartID, kind, err := bindCandidate(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	rejection, err := h.svc.ValidateCandidate(ctx, user.ID, counterpartID, kind)
	if err != nil {
		return err
	}
	if !rejection.OK() {
		return rejection.AppError()
	}

	if err := h.svc.CreateRelation(ctx, user.ID, counterpartID, kind); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, CreatedResponse{
		CounterpartUserID: counterpartID,
		RelationKind:      kind,
		ReverseKind:       ReverseOf(kind),
	})
}

// Delete removes a relation and its reverse
// DELETE /api/relatives/:counterpartId
func (h *Handler) Delete(c echo.Context) error {
	user := auth.GetUser(c)
	if user == nil {
		return apperror.ErrUnauthorized
	}

	counterpartID, err := uuid.Parse(c.Param("counterpartId"))
	if err != nil {
		return apperror.NewBadRequest("counterpartId must be a UUID")
	}

	deleted, err := h.svc.DeleteRelation(c.Request().Context(), user.ID, counterpartID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.ErrNotFound.WithMessage("Relation not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// Audit checks reverse-edge consistency, repairing when ?repair=true
// POST /api/admin/relatives/audit
func (h *Handler) Audit(c echo.Context) error {
	repair := false
	if raw := c.QueryParam("repair"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return apperror.NewBadRequest("repair must be a boolean")
		}
		repair = v
	}

	report, err := h.svc.AuditReverseEdges(c.Request().Context(), repair)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func bindCandidate(c echo.Context) (uuid.UUID, Kind, error) {
	var req CandidateRequest
	if err := c.Bind(&req); err != nil {
		return uuid.Nil, "", apperror.NewBadRequest("invalid request body")
	}

	counterpartID, err := uuid.Parse(req.CounterpartUserID)
	if err != nil {
		return uuid.Nil, "", apperror.NewBadRequest("counterpart_user_id must be a UUID")
	}

	kind, err := ParseKind(req.RelationKind)
	if err != nil {
		return uuid.Nil, "", apperror.NewValidation(err.Error()).WithDetails(map[string]any{
			"allowed": AllKinds(),
		})
	}
	return counterpartID, kind, nil
}
