package people

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/familytree/ledger/pkg/apperror"
	"github.com/familytree/ledger/pkg/auth"
)

// Handler handles HTTP requests for the caller's profile
type Handler struct {
	svc *Service
}

// NewHandler creates a new people handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Get returns the caller's profile
// GET /api/profile
func (h *Handler) Get(c echo.Context) error {
	user := auth.GetUser(c)
	if user == nil {
		return apperror.ErrUnauthorized
	}

	person, err := h.svc.Get(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, person)
}

// Upsert creates or updates the caller's profile
// PUT /api/profile
func (h *Handler) Upsert(c echo.Context) error {
	user := auth.GetUser(c)
	if user == nil {
		return apperror.ErrUnauthorized
	}

	var req UpsertRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}

	resp, err := h.svc.Upsert(c.Request().Context(), user.ID, req)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, resp)
}
