// Package calendar renders events as iCalendar documents for download.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"dresscodeplanner/internal/domain"
)

const (
	productID       = "-//dresscodeplanner//EN"
	defaultLocation = "Online"
)

// Exporter writes iCalendar files for events. Wall-clock event fields are
// interpreted in the reference zone and emitted as UTC instants.
type Exporter struct {
	zone *time.Location
}

// NewExporter returns an Exporter that interprets event times in zone.
func NewExporter(zone *time.Location) *Exporter {
	return &Exporter{zone: zone}
}

// WriteEvent encodes a single-event VCALENDAR document to w.
func (e *Exporter) WriteEvent(w io.Writer, event *domain.Event) error {
	start, err := e.instant(event.StartDate, event.StartTime)
	if err != nil {
		return fmt.Errorf("invalid event start: %w", err)
	}
	end, err := e.instant(event.EndDate, event.EndTime)
	if err != nil {
		return fmt.Errorf("invalid event end: %w", err)
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, fmt.Sprintf("event-%s@dresscodeplanner", event.ID))
	ve.Props.SetText(ical.PropSummary, event.Name)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, end)
	ve.Props.SetText(ical.PropDescription, description(event))

	location := strings.TrimSpace(event.Location)
	if location == "" {
		location = defaultLocation
	}
	ve.Props.SetText(ical.PropLocation, location)

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, ve)

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

// instant combines a calendar date and wall-clock time in the reference zone
// and converts the result to UTC.
func (e *Exporter) instant(date, clock string) (time.Time, error) {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(clock) == "" {
		return time.Time{}, fmt.Errorf("missing date or time")
	}
	t, err := time.ParseInLocation(domain.DateLayout+" "+domain.TimeLayout, date+" "+clock, e.zone)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func description(event *domain.Event) string {
	if event.DressCode == "" {
		return event.Description
	}
	if event.Description == "" {
		return "Dress code: " + event.DressCode
	}
	return event.Description + "\n\nDress code: " + event.DressCode
}
