package calendar

import (
	"errors"
	"strings"
	"time"
)

// ErrNotEditing is returned when deleting from a form that creates a new
// event.
var ErrNotEditing = errors.New("form is not editing an existing event")

// Choices are the color palette and category list offered by the form.
// Neither is enforced by Validate.
type Choices struct {
	Colors     []string
	Categories []string
}

// DefaultChoices returns the built-in palette and categories.
func DefaultChoices() Choices {
	return Choices{Colors: DefaultColors, Categories: DefaultCategories}
}

func (c Choices) firstColor() string {
	if len(c.Colors) == 0 {
		return DefaultColors[0]
	}
	return c.Colors[0]
}

func (c Choices) firstCategory() string {
	if len(c.Categories) == 0 {
		return DefaultCategories[0]
	}
	return c.Categories[0]
}

// Form is the create/edit event form. Fields hold raw user input until
// Submit.
type Form struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Color       string
	Category    string

	editing *Event
}

// NewForm prefills the form from the edited event, or for a new event from
// initialDate (falling back to now) with the first color and category.
func NewForm(edit *Event, initialDate *time.Time, now time.Time, choices Choices) *Form {
	f := &Form{
		Color:    choices.firstColor(),
		Category: choices.firstCategory(),
	}

	start := now
	if initialDate != nil {
		start = *initialDate
	}
	f.Start, f.End = start, start

	if edit != nil {
		e := *edit
		f.editing = &e
		f.Title = e.Title
		f.Description = e.Description
		f.Start = e.Start
		f.End = e.End
		if e.Color != "" {
			f.Color = e.Color
		}
		if e.Category != "" {
			f.Category = e.Category
		}
	}
	return f
}

// Editing returns the event being edited, or nil for a new event.
func (f *Form) Editing() *Event {
	return f.editing
}

// Validate checks the current input.
func (f *Form) Validate() error {
	return Validate(Candidate{
		Title:       &f.Title,
		Description: &f.Description,
		Start:       &f.Start,
		End:         &f.End,
	})
}

// Submit validates the input and returns the command to send to the host:
// an UpdateCommand when editing, otherwise an AddCommand for an event whose
// ID comes from newID. Title and description are trimmed.
func (f *Form) Submit(newID func() string) (Command, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	event := Event{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Start:       f.Start,
		End:         f.End,
		Color:       f.Color,
		Category:    f.Category,
	}

	if f.editing != nil {
		event.ID = f.editing.ID
		return UpdateCommand{ID: event.ID, Patch: PatchFrom(event)}, nil
	}
	event.ID = newID()
	return AddCommand{Event: event}, nil
}

// Delete returns the command removing the edited event.
func (f *Form) Delete() (Command, error) {
	if f.editing == nil {
		return nil, ErrNotEditing
	}
	return DeleteCommand{ID: f.editing.ID}, nil
}
