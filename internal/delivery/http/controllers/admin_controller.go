package controllers

import (
	"log/slog"
	"net/http"

	"dresscodeplanner/internal/delivery/http/helpers"
	"dresscodeplanner/internal/domain"
)

type AdminController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewAdminController(logger *slog.Logger, svc domain.UserService) *AdminController {
	return &AdminController{Logger: logger, Service: svc}
}

// ListPending godoc
// @Summary List accounts awaiting approval
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the pending users"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /admin/users/pending [get]
func (c *AdminController) ListPending(w http.ResponseWriter, r *http.Request) {
	users, err := c.Service.ListPending(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// Approve godoc
// @Summary Approve an account
// @Description Marks the account as approved so its owner can log in.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Success 200 {object} helpers.APIResponse "data contains the approved user"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/users/{userID}/approve [post]
func (c *AdminController) Approve(w http.ResponseWriter, r *http.Request) {
	user, err := c.Service.Approve(r.Context(), r.PathValue("userID"))
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}
