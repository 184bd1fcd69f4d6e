package controllers

import (
	"log/slog"
	"net/http"

	"dresscodeplanner/internal/delivery/http/helpers"
	"dresscodeplanner/internal/domain"
)

// GenerateImageRequest is the request body for POST /suggestions/image.
type GenerateImageRequest struct {
	Theme    string `json:"theme"`
	Category string `json:"category"`
}

type SuggestionController struct {
	Logger      *slog.Logger
	Suggestions domain.SuggestionService
	Images      domain.ImageService
}

func NewSuggestionController(logger *slog.Logger, suggestions domain.SuggestionService, images domain.ImageService) *SuggestionController {
	return &SuggestionController{Logger: logger, Suggestions: suggestions, Images: images}
}

// Theme godoc
// @Summary Suggest a dress-code theme
// @Description Returns a generated theme name, or a value from the fallback catalog when generation is disabled or fails. The optional category narrows the fallback pool (party, business, date).
// @Tags suggestions
// @Produce json
// @Security BearerAuth
// @Param category query string false "Event category"
// @Success 200 {object} helpers.APIResponse "data contains the suggestion"
// @Router /suggestions/theme [get]
func (c *SuggestionController) Theme(w http.ResponseWriter, r *http.Request) {
	suggestion, err := c.Suggestions.SuggestTheme(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, suggestion)
}

// Description godoc
// @Summary Suggest an outfit description for a theme
// @Tags suggestions
// @Produce json
// @Security BearerAuth
// @Param theme query string false "Dress-code theme"
// @Success 200 {object} helpers.APIResponse "data contains the suggestion"
// @Router /suggestions/description [get]
func (c *SuggestionController) Description(w http.ResponseWriter, r *http.Request) {
	suggestion, err := c.Suggestions.SuggestDescription(r.Context(), r.URL.Query().Get("theme"))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, suggestion)
}

// Image godoc
// @Summary Generate an event illustration for a theme
// @Description Returns a previously stored image for the theme and category when one exists, otherwise generates one and persists it. Failures degrade to the catalog image with the failure reason in the payload.
// @Tags suggestions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateImageRequest true "Theme and category"
// @Success 200 {object} helpers.APIResponse "data contains the image result"
// @Router /suggestions/image [post]
func (c *SuggestionController) Image(w http.ResponseWriter, r *http.Request) {
	var req GenerateImageRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Images.GenerateEventImage(r.Context(), req.Theme, req.Category, nil)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
