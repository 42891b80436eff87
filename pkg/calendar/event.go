package calendar

import (
	"time"
)

// Event represents a calendar event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Color       string    `json:"color,omitempty"`
	Category    string    `json:"category,omitempty"`
}

// EventPatch carries the fields of a partial update. Nil fields are left
// untouched.
type EventPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Color       *string    `json:"color,omitempty"`
	Category    *string    `json:"category,omitempty"`
}

// Default palette and categories, in display order.
var (
	DefaultColors = []string{
		"#3b82f6", "#10b981", "#f59e0b", "#8b5cf6",
		"#ef4444", "#ec4899", "#06b6d4", "#f97316",
	}

	DefaultCategories = []string{
		"Meeting", "Work", "Personal", "Design", "Development", "Other",
	}
)

// Duration returns the duration of the event
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// MultiDay reports whether the event ends on a later calendar day than it
// starts. Such events are still binned on their start day only.
func (e *Event) MultiDay() bool {
	last := e.End
	if last.Equal(StartOfDay(last)) && last.After(e.Start) {
		last = last.Add(-time.Nanosecond)
	}
	return !SameDay(e.Start, last)
}

// DisplayColor returns the event color, or the first palette entry when the
// event has none.
func (e *Event) DisplayColor(palette []string) string {
	if e.Color != "" {
		return e.Color
	}
	if len(palette) == 0 {
		palette = DefaultColors
	}
	return palette[0]
}

// Apply returns a copy of e with the non-nil patch fields applied. The ID
// is never changed.
func (e Event) Apply(p EventPatch) Event {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Start != nil {
		e.Start = *p.Start
	}
	if p.End != nil {
		e.End = *p.End
	}
	if p.Color != nil {
		e.Color = *p.Color
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	return e
}

// PatchFrom builds a patch that replaces every mutable field of the target
// with the values of e.
func PatchFrom(e Event) EventPatch {
	return EventPatch{
		Title:       &e.Title,
		Description: &e.Description,
		Start:       &e.Start,
		End:         &e.End,
		Color:       &e.Color,
		Category:    &e.Category,
	}
}
