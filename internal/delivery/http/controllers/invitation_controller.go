package controllers

import (
	"log/slog"
	"net/http"

	"dresscodeplanner/internal/delivery/http/helpers"
	"dresscodeplanner/internal/delivery/http/middleware"
	"dresscodeplanner/internal/domain"
)

// InviteRequest is the request body for POST /events/{eventID}/invitations.
type InviteRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (i InviteRequest) Validate() []string {
	var errs []string
	if i.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegex.MatchString(i.Email) {
		errs = append(errs, "email format is invalid")
	}
	return errs
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{Logger: logger, Service: svc}
}

// Invite godoc
// @Summary Invite a recipient to an event
// @Description Creates a pending invitation and emails the recipient an accept link. Only the event owner may invite. Inviting the same recipient twice returns 409.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param invitation body InviteRequest true "Recipient"
// @Success 201 {object} helpers.APIResponse "data contains the invitation"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/invitations [post]
func (c *InvitationController) Invite(w http.ResponseWriter, r *http.Request) {
	var req InviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	inv, err := c.Service.Invite(r.Context(), r.PathValue("eventID"), userID, req.Email)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, inv)
}

// ListByEvent godoc
// @Summary List invitations for an event
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the invitation list"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/invitations [get]
func (c *InvitationController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	invs, err := c.Service.ListByEvent(r.Context(), r.PathValue("eventID"), userID)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invs)
}

// Accept godoc
// @Summary Accept an invitation
// @Description Transitions the invitation to accepted. Requires only the token from the invitation email; accepting twice is a no-op.
// @Tags invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} helpers.APIResponse "data contains the invitation"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /invitations/{token}/accept [post]
func (c *InvitationController) Accept(w http.ResponseWriter, r *http.Request) {
	inv, err := c.Service.Accept(r.Context(), r.PathValue("token"))
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, inv)
}
