package controllers

import (
	"log/slog"
	"net/http"

	"dresscodeplanner/internal/delivery/http/helpers"
	"dresscodeplanner/internal/delivery/http/middleware"
	"dresscodeplanner/internal/domain"
)

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{Logger: logger, Service: svc}
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Router /users/me [get]
func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// UploadProfileImage godoc
// @Summary Set the authenticated user's profile image
// @Description Stores the uploaded file (multipart field "image") and records its public URL on the profile.
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /users/me/image [put]
func (c *UserController) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	upload, ok := readImageUpload(w, r)
	if !ok {
		return
	}
	user, err := c.Service.SetProfileImage(r.Context(), userID, upload)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}
