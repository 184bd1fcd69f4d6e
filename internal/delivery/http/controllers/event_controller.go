package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"dresscodeplanner/internal/calendar"
	"dresscodeplanner/internal/delivery/http/helpers"
	"dresscodeplanner/internal/delivery/http/middleware"
	"dresscodeplanner/internal/domain"
)

// maxImageUploadBytes caps multipart image uploads.
const maxImageUploadBytes = 10 << 20

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name        string `json:"name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	DressCode   string `json:"dress_code"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Location    string `json:"location"`
	EventType   string `json:"event_type"`
}

// Validate implements Validator. Date and time formats are checked again by
// the service; this catches the obviously missing fields early.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if c.StartDate == "" {
		errs = append(errs, "start_date is required")
	}
	if c.EndDate == "" {
		errs = append(errs, "end_date is required")
	}
	if c.StartTime == "" {
		errs = append(errs, "start_time is required")
	}
	if c.EndTime == "" {
		errs = append(errs, "end_time is required")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// All fields are optional; absent fields are left unchanged.
type UpdateEventRequest struct {
	Name        *string `json:"name"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	DressCode   *string `json:"dress_code"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Location    *string `json:"location"`
	EventType   *string `json:"event_type"`
}

type EventController struct {
	Logger   *slog.Logger
	Service  domain.EventService
	Exporter *calendar.Exporter
}

func NewEventController(logger *slog.Logger, svc domain.EventService, exporter *calendar.Exporter) *EventController {
	return &EventController{Logger: logger, Service: svc, Exporter: exporter}
}

// Create godoc
// @Summary Create a new event
// @Description Creates an event owned by the authenticated user. Missing description and image are filled from the dress-code catalog.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event := &domain.Event{
		OwnerID:     userID,
		Name:        req.Name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		DressCode:   req.DressCode,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Location:    req.Location,
		EventType:   req.EventType,
	}
	created, err := c.Service.Create(r.Context(), event, nil)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// List godoc
// @Summary List upcoming events
// @Description Purges events that have already ended, then returns the remaining events ordered by start date and time.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the event list"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetByID godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetByID(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetByID(r.Context(), r.PathValue("eventID"))
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Update godoc
// @Summary Update an event
// @Description Partially updates an event. Only the owner may update.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	fields := domain.EventUpdate{
		Name:        req.Name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		DressCode:   req.DressCode,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Location:    req.Location,
		EventType:   req.EventType,
	}
	updated, err := c.Service.Update(r.Context(), r.PathValue("eventID"), userID, fields, nil)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 204 "no content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Delete(r.Context(), r.PathValue("eventID"), userID); err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage godoc
// @Summary Upload an event image
// @Description Replaces the event image with an uploaded file (multipart field "image"). Only the owner may upload.
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param image formData file true "Image file"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/image [put]
func (c *EventController) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	upload, ok := readImageUpload(w, r)
	if !ok {
		return
	}
	updated, err := c.Service.Update(r.Context(), r.PathValue("eventID"), userID, domain.EventUpdate{}, upload)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// Calendar godoc
// @Summary Download an event as iCalendar
// @Description Returns a text/calendar file with the event as a single VEVENT in UTC.
// @Tags events
// @Produce plain
// @Param eventID path string true "Event ID"
// @Success 200 {string} string "iCalendar document"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/calendar.ics [get]
func (c *EventController) Calendar(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetByID(r.Context(), r.PathValue("eventID"))
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", event.Name+".ics"))
	if err := c.Exporter.WriteEvent(w, event); err != nil {
		c.Logger.ErrorContext(r.Context(), "calendar export failed", "event_id", event.ID, "err", err)
	}
}

// readImageUpload extracts the multipart "image" field. On failure it writes a
// 400 response and returns false.
func readImageUpload(w http.ResponseWriter, r *http.Request) (*domain.ImageUpload, bool) {
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form: "+err.Error())
		return nil, false
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "image file is required")
		return nil, false
	}
	return &domain.ImageUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	}, true
}
