package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"dresscodeplanner/internal/catalog"
	"dresscodeplanner/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	subscriber     domain.EventSubscriber
	store          domain.ObjectStore
	bucket         string
	zone           *time.Location
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewEventService creates an EventService. zone is the reference zone used
// for the lazy expiry cutoff; store and bucket receive uploaded event images.
func NewEventService(eventRepo domain.EventRepository,
	subscriber domain.EventSubscriber,
	store domain.ObjectStore,
	bucket string,
	zone *time.Location,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		subscriber:     subscriber,
		store:          store,
		bucket:         bucket,
		zone:           zone,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) Create(ctx context.Context, event *domain.Event, image *domain.ImageUpload) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OwnerID == "" {
		return nil, fmt.Errorf("event owner is required: %w", domain.ErrUnauthorized)
	}
	if err := validateSchedule(event.StartDate, event.EndDate, event.StartTime, event.EndTime); err != nil {
		return nil, err
	}
	if strings.TrimSpace(event.Name) == "" {
		return nil, fmt.Errorf("event name is required: %w", domain.ErrInvalidInput)
	}

	if image != nil {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("failed to store event image: %w", err)
		}
		event.ImageURL = url
	}
	if event.ImageURL == "" {
		event.ImageURL = catalog.ImageFor(event.DressCode)
	}
	if event.Description == "" {
		event.Description = catalog.DescriptionFor(event.DressCode)
	}

	now := s.now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

// List purges events that ended before today in the reference zone, then
// returns the remaining events ordered by start date and start time.
func (s *eventService) List(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	today := s.now().In(s.zone).Format(domain.DateLayout)
	purged, err := s.eventRepo.DeleteEndedBefore(ctx, today)
	if err != nil {
		// Expiry is housekeeping; listing still proceeds.
		s.logger.Warn("failed to purge ended events", "error", err)
	} else if purged > 0 {
		s.logger.Info("purged ended events", "count", purged)
	}

	events, err := s.eventRepo.ListUpcoming(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	for _, e := range events {
		if e.ImageURL == "" {
			e.ImageURL = catalog.ImageFor(e.DressCode)
		}
	}
	return events, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.ImageURL == "" {
		event.ImageURL = catalog.ImageFor(event.DressCode)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, id, ownerID string, fields domain.EventUpdate, image *domain.ImageUpload) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	merged := func(p *string, fallback string) string {
		if p != nil {
			return *p
		}
		return fallback
	}
	if err := validateSchedule(
		merged(fields.StartDate, current.StartDate),
		merged(fields.EndDate, current.EndDate),
		merged(fields.StartTime, current.StartTime),
		merged(fields.EndTime, current.EndTime),
	); err != nil {
		return nil, err
	}

	if image != nil {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("failed to store event image: %w", err)
		}
		fields.ImageURL = &url
	}

	return s.eventRepo.Update(ctx, id, fields)
}

func (s *eventService) Delete(ctx context.Context, id, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.OwnerID != ownerID {
		return domain.ErrForbidden
	}
	return s.eventRepo.Delete(ctx, id)
}

func (s *eventService) Subscribe(ctx context.Context, fn func(domain.EventChange)) (domain.Subscription, error) {
	return s.subscriber.Subscribe(ctx, fn)
}

func (s *eventService) uploadImage(ctx context.Context, image *domain.ImageUpload) (string, error) {
	ext := strings.ToLower(filepath.Ext(image.FileName))
	if ext == "" {
		ext = ".png"
	}
	name := fmt.Sprintf("upload-%d-%s%s", s.now().Unix(), uuid.NewString()[:8], ext)
	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return s.store.Save(ctx, s.bucket, name, contentType, image.Data)
}

// validateSchedule checks date and time formats and rejects ranges that end
// before they start.
func validateSchedule(startDate, endDate, startTime, endTime string) error {
	start, err := time.Parse(domain.DateLayout, startDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", startDate, domain.ErrInvalidInput)
	}
	end, err := time.Parse(domain.DateLayout, endDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", endDate, domain.ErrInvalidInput)
	}
	st, err := time.Parse(domain.TimeLayout, startTime)
	if err != nil {
		return fmt.Errorf("invalid start time %q: %w", startTime, domain.ErrInvalidInput)
	}
	et, err := time.Parse(domain.TimeLayout, endTime)
	if err != nil {
		return fmt.Errorf("invalid end time %q: %w", endTime, domain.ErrInvalidInput)
	}
	if end.Before(start) {
		return fmt.Errorf("event ends before it starts: %w", domain.ErrInvalidInput)
	}
	if end.Equal(start) && et.Before(st) {
		return fmt.Errorf("event ends before it starts: %w", domain.ErrInvalidInput)
	}
	return nil
}
