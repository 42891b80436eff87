// Package ics converts events to and from iCalendar (RFC 5545) data. Every
// imported event passes through the same validator as the event form.
package ics

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	appLog "github.com/djwarf/calgrid/internal/log"
	"github.com/djwarf/calgrid/pkg/calendar"
)

const (
	productID = "-//calgrid//EN"
	propColor = "COLOR" // RFC 7986
)

// Rejection records a VEVENT that could not be imported.
type Rejection struct {
	UID   string
	Title string
	Err   error
}

// ImportResult holds the accepted events and the rejected ones.
type ImportResult struct {
	Events   []calendar.Event
	Rejected []Rejection
}

// Import decodes every VCALENDAR in r. Events without a UID get a fresh ID.
// Invalid events are skipped and reported in Rejected.
func Import(r io.Reader) (ImportResult, error) {
	var result ImportResult

	dec := ical.NewDecoder(r)
	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, ve := range cal.Events() {
			event, err := parseEvent(ve.Component)
			if err == nil {
				err = calendar.ValidateEvent(event)
			}
			if err != nil {
				appLog.Error("ics import: skipping event", err, "uid", event.ID, "title", event.Title)
				result.Rejected = append(result.Rejected, Rejection{UID: event.ID, Title: event.Title, Err: err})
				continue
			}
			result.Events = append(result.Events, event)
		}
	}

	appLog.Info("ics import completed", "accepted", len(result.Events), "rejected", len(result.Rejected))
	return result, nil
}

// parseEvent reads a VEVENT into an Event. Floating times and dates are read
// in the local zone.
func parseEvent(component *ical.Component) (calendar.Event, error) {
	var event calendar.Event

	if prop := component.Props.Get(ical.PropUID); prop != nil && prop.Value != "" {
		event.ID = prop.Value
	} else {
		event.ID = uuid.NewString()
	}

	if prop := component.Props.Get(ical.PropSummary); prop != nil {
		if text, err := prop.Text(); err == nil {
			event.Title = text
		}
	}
	if prop := component.Props.Get(ical.PropDescription); prop != nil {
		if text, err := prop.Text(); err == nil {
			event.Description = text
		}
	}
	if prop := component.Props.Get(propColor); prop != nil {
		event.Color = prop.Value
	}
	if prop := component.Props.Get(ical.PropCategories); prop != nil {
		if cats, err := prop.TextList(); err == nil && len(cats) > 0 {
			event.Category = cats[0]
		}
	}

	startProp := component.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return event, errors.New("missing DTSTART")
	}
	start, err := startProp.DateTime(time.Local)
	if err != nil {
		return event, fmt.Errorf("invalid DTSTART: %w", err)
	}
	event.Start = start.In(time.Local)

	if prop := component.Props.Get(ical.PropDateTimeEnd); prop != nil {
		end, err := prop.DateTime(time.Local)
		if err != nil {
			return event, fmt.Errorf("invalid DTEND: %w", err)
		}
		event.End = end.In(time.Local)
	} else if prop := component.Props.Get(ical.PropDuration); prop != nil {
		d, err := prop.Duration()
		if err != nil {
			return event, fmt.Errorf("invalid DURATION: %w", err)
		}
		event.End = event.Start.Add(d)
	} else if startProp.ValueType() == ical.ValueDate {
		// RFC 5545 3.6.1: a DATE start with no end lasts one day.
		event.End = event.Start.AddDate(0, 0, 1)
	}

	return event, nil
}

// Export writes events as a single VCALENDAR ordered by start time.
func Export(w io.Writer, events []calendar.Event) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	stamp := time.Now().UTC()
	for _, event := range calendar.SortedByStart(events) {
		cal.Children = append(cal.Children, eventToComponent(event, stamp))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func eventToComponent(event calendar.Event, stamp time.Time) *ical.Component {
	vevent := ical.NewComponent(ical.CompEvent)
	vevent.Props.SetText(ical.PropUID, event.ID)
	vevent.Props.SetText(ical.PropSummary, event.Title)
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	// UTC avoids emitting a TZID for the process-local zone.
	vevent.Props.SetDateTime(ical.PropDateTimeStart, event.Start.UTC())
	vevent.Props.SetDateTime(ical.PropDateTimeEnd, event.End.UTC())

	if event.Description != "" {
		vevent.Props.SetText(ical.PropDescription, event.Description)
	}
	if event.Color != "" {
		vevent.Props.SetText(propColor, event.Color)
	}
	if event.Category != "" {
		vevent.Props.SetText(ical.PropCategories, event.Category)
	}
	return vevent
}
