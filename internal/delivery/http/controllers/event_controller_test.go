package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dresscodeplanner/internal/calendar"
	"dresscodeplanner/internal/delivery/http/middleware"
	"dresscodeplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createErr     error
	lastCreated   *domain.Event
	listResult    []*domain.Event
	listErr       error
	byID          map[string]*domain.Event
	updateErr     error
	lastUpdate    domain.EventUpdate
	lastUpdateID  string
	deleteErr     error
	lastDeletedID string
}

func (f *fakeEventService) Create(ctx context.Context, event *domain.Event, image *domain.ImageUpload) (*domain.Event, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	event.ID = "ev-1"
	f.lastCreated = event
	return event, nil
}

func (f *fakeEventService) List(ctx context.Context) ([]*domain.Event, error) {
	return f.listResult, f.listErr
}

func (f *fakeEventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventService) Update(ctx context.Context, id, ownerID string, fields domain.EventUpdate, image *domain.ImageUpload) (*domain.Event, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.lastUpdateID = id
	f.lastUpdate = fields
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventService) Delete(ctx context.Context, id, ownerID string) error {
	f.lastDeletedID = id
	return f.deleteErr
}

func (f *fakeEventService) Subscribe(ctx context.Context, fn func(domain.EventChange)) (domain.Subscription, error) {
	return nil, nil
}

func newEventController(svc *fakeEventService) *EventController {
	zone, _ := time.LoadLocation("Europe/Berlin")
	return NewEventController(testLogger, svc, calendar.NewExporter(zone))
}

func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestEventControllerCreate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEventService{}
		c := newEventController(svc)

		body, _ := json.Marshal(CreateEventRequest{
			Name:      "Rooftop Party",
			StartDate: "2026-06-12",
			EndDate:   "2026-06-12",
			StartTime: "19:00",
			EndTime:   "23:00",
			DressCode: "Neon Glow",
		})
		rec := httptest.NewRecorder()
		c.Create(rec, authedRequest(http.MethodPost, "/events", bytes.NewReader(body)))

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, svc.lastCreated)
		assert.Equal(t, "user-1", svc.lastCreated.OwnerID, "authenticated user becomes owner")
	})

	t.Run("missing required fields", func(t *testing.T) {
		c := newEventController(&fakeEventService{})

		rec := httptest.NewRecorder()
		c.Create(rec, authedRequest(http.MethodPost, "/events", strings.NewReader(`{"name":"X"}`)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		c := newEventController(&fakeEventService{})

		rec := httptest.NewRecorder()
		c.Create(rec, authedRequest(http.MethodPost, "/events", strings.NewReader(`{"bogus":true}`)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no user in context", func(t *testing.T) {
		c := newEventController(&fakeEventService{})

		body, _ := json.Marshal(CreateEventRequest{
			Name: "X", StartDate: "2026-06-12", EndDate: "2026-06-12", StartTime: "19:00", EndTime: "23:00",
		})
		rec := httptest.NewRecorder()
		c.Create(rec, httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body)))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid input maps to 400", func(t *testing.T) {
		svc := &fakeEventService{createErr: domain.ErrInvalidInput}
		c := newEventController(svc)

		body, _ := json.Marshal(CreateEventRequest{
			Name: "X", StartDate: "2026-06-13", EndDate: "2026-06-12", StartTime: "19:00", EndTime: "23:00",
		})
		rec := httptest.NewRecorder()
		c.Create(rec, authedRequest(http.MethodPost, "/events", bytes.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeEnvelope(t, rec)
		errObj := envelope["error"].(map[string]any)
		assert.Equal(t, "bad_request", errObj["code"])
	})
}

func TestEventControllerUpdate(t *testing.T) {
	event := &domain.Event{ID: "ev-1", OwnerID: "user-1", Name: "Party"}

	t.Run("forbidden for non-owner", func(t *testing.T) {
		svc := &fakeEventService{updateErr: domain.ErrForbidden}
		c := newEventController(svc)

		req := authedRequest(http.MethodPatch, "/events/ev-1", strings.NewReader(`{"name":"Renamed"}`))
		req.SetPathValue("eventID", "ev-1")
		rec := httptest.NewRecorder()
		c.Update(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("partial update passes only set fields", func(t *testing.T) {
		svc := &fakeEventService{byID: map[string]*domain.Event{"ev-1": event}}
		c := newEventController(svc)

		req := authedRequest(http.MethodPatch, "/events/ev-1", strings.NewReader(`{"dress_code":"Great Gatsby"}`))
		req.SetPathValue("eventID", "ev-1")
		rec := httptest.NewRecorder()
		c.Update(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.lastUpdate.DressCode)
		assert.Equal(t, "Great Gatsby", *svc.lastUpdate.DressCode)
		assert.Nil(t, svc.lastUpdate.Name)
	})
}

func TestEventControllerDelete(t *testing.T) {
	svc := &fakeEventService{deleteErr: domain.ErrNotFound}
	c := newEventController(svc)

	req := authedRequest(http.MethodDelete, "/events/ev-missing", nil)
	req.SetPathValue("eventID", "ev-missing")
	rec := httptest.NewRecorder()
	c.Delete(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventControllerCalendar(t *testing.T) {
	event := &domain.Event{
		ID:        "ev-1",
		OwnerID:   "user-1",
		Name:      "Gala",
		StartDate: "2026-06-12",
		EndDate:   "2026-06-12",
		StartTime: "19:00",
		EndTime:   "23:00",
	}
	svc := &fakeEventService{byID: map[string]*domain.Event{"ev-1": event}}
	c := newEventController(svc)

	req := httptest.NewRequest(http.MethodGet, "/events/ev-1/calendar.ics", nil)
	req.SetPathValue("eventID", "ev-1")
	rec := httptest.NewRecorder()
	c.Calendar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "BEGIN:VEVENT")
	assert.Contains(t, rec.Body.String(), "LOCATION:Online")
}

func TestEventControllerCalendarNotFound(t *testing.T) {
	c := newEventController(&fakeEventService{})

	req := httptest.NewRequest(http.MethodGet, "/events/ev-x/calendar.ics", nil)
	req.SetPathValue("eventID", "ev-x")
	rec := httptest.NewRecorder()
	c.Calendar(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
