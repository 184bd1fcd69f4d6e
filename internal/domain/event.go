package domain

import (
	"context"
	"io"
	"time"
)

// Wall-clock layouts used by Event date and time fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Event represents a planned social event with a dress-code theme.
// StartDate/EndDate are calendar dates and StartTime/EndTime local wall-clock
// times in the configured reference zone; neither carries zone information.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	DressCode   string    `json:"dress_code"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Location    string    `json:"location"`
	EventType   string    `json:"event_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(ownerID, name, startDate, endDate, startTime, endTime, dressCode string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		OwnerID:   ownerID,
		Name:      name,
		StartDate: startDate,
		EndDate:   endDate,
		StartTime: startTime,
		EndTime:   endTime,
		DressCode: dressCode,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// EventUpdate carries the mutable event fields for partial updates.
// Nil fields are left unchanged.
type EventUpdate struct {
	Name        *string
	StartDate   *string
	EndDate     *string
	StartTime   *string
	EndTime     *string
	DressCode   *string
	Description *string
	ImageURL    *string
	Location    *string
	EventType   *string
}

// ImageUpload is an image file supplied with a create or update call.
type ImageUpload struct {
	FileName    string
	ContentType string
	Data        io.Reader
}

// ChangeOp identifies the kind of mutation reported by a change feed.
type ChangeOp string

const (
	ChangeInsert ChangeOp = "INSERT"
	ChangeUpdate ChangeOp = "UPDATE"
	ChangeDelete ChangeOp = "DELETE"
)

// EventChange is one notification from the event change feed.
type EventChange struct {
	Op      ChangeOp `json:"op"`
	EventID string   `json:"id"`
}

// Subscription is a handle on an open change feed. Close stops delivery and
// releases the underlying connection.
type Subscription interface {
	Close() error
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// ListUpcoming returns events whose end date is on or after the given
	// date, ordered by start date then start time ascending.
	ListUpcoming(ctx context.Context, date string) ([]*Event, error)
	Update(ctx context.Context, id string, fields EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
	// DeleteEndedBefore removes events whose end date is strictly before the
	// given date and returns the number of rows removed.
	DeleteEndedBefore(ctx context.Context, date string) (int64, error)
}

// EventSubscriber opens a change feed over the events table.
type EventSubscriber interface {
	Subscribe(ctx context.Context, fn func(EventChange)) (Subscription, error)
}

// EventService defines the business logic for the event lifecycle.
type EventService interface {
	Create(ctx context.Context, event *Event, image *ImageUpload) (*Event, error)
	// List purges ended events (lazy expiry) and returns the remaining
	// upcoming events in deterministic order, with image references
	// backfilled from the fallback catalog where absent.
	List(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, id, ownerID string, fields EventUpdate, image *ImageUpload) (*Event, error)
	Delete(ctx context.Context, id, ownerID string) error
	Subscribe(ctx context.Context, fn func(EventChange)) (Subscription, error)
}
