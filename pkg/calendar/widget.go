package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrModalClosed is returned by form actions while no form is open.
var ErrModalClosed = errors.New("event form is not open")

// Settings tune a Widget. Zero fields take the defaults.
type Settings struct {
	Choices  Choices
	Layout   Layout
	MaxPills int

	// Now is the clock used by Today and new forms.
	Now func() time.Time
	// NewID assigns IDs to created events.
	NewID func() string
}

// DefaultMaxPills is the number of event pills shown per month cell before
// the "+N more" marker.
const DefaultMaxPills = 3

func (s *Settings) normalize() {
	if len(s.Choices.Colors) == 0 {
		s.Choices.Colors = DefaultColors
	}
	if len(s.Choices.Categories) == 0 {
		s.Choices.Categories = DefaultCategories
	}
	if s.Layout.HourHeight <= 0 {
		s.Layout.HourHeight = DefaultHourHeight
	}
	if s.Layout.MinHeight <= 0 {
		s.Layout.MinHeight = DefaultMinHeight
	}
	if s.MaxPills == 0 {
		s.MaxPills = DefaultMaxPills
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	if s.NewID == nil {
		s.NewID = uuid.NewString
	}
}

// Widget drives the calendar: navigation, the event form and the host
// callbacks. It holds no events; each read takes the host's snapshot.
type Widget struct {
	host     Host
	settings Settings
	state    ViewState
	form     *Form
}

// NewWidget creates a widget in the state described by opts.
func NewWidget(host Host, opts Options, settings Settings) *Widget {
	settings.normalize()
	return &Widget{
		host:     host,
		settings: settings,
		state:    NewViewState(opts, settings.Now()),
	}
}

// State returns the current view state.
func (w *Widget) State() ViewState {
	return w.state
}

// Layout returns the week view geometry in use.
func (w *Widget) Layout() Layout {
	return w.settings.Layout
}

// Next, Previous, Today and ToggleView navigate the grid.
func (w *Widget) Next()       { w.state = w.state.Next() }
func (w *Widget) Previous()   { w.state = w.state.Previous() }
func (w *Widget) Today()      { w.state = w.state.Today(w.settings.Now()) }
func (w *Widget) ToggleView() { w.state = w.state.ToggleView() }

// ClickDate opens a new event form prefilled with date.
func (w *Widget) ClickDate(date time.Time) *Form {
	w.state = w.state.OpenModal(&date)
	w.form = NewForm(nil, &date, w.settings.Now(), w.settings.Choices)
	return w.form
}

// ClickEvent opens the form to edit event.
func (w *Widget) ClickEvent(event Event) *Form {
	w.state = w.state.OpenModal(nil)
	w.form = NewForm(&event, nil, w.settings.Now(), w.settings.Choices)
	return w.form
}

// Form returns the open form, or nil.
func (w *Widget) Form() *Form {
	return w.form
}

// Save submits the open form. On a validation or host error the form stays
// open and nothing is saved; on success the form closes.
func (w *Widget) Save(ctx context.Context) (Command, error) {
	if w.form == nil {
		return nil, ErrModalClosed
	}
	cmd, err := w.form.Submit(w.settings.NewID)
	if err != nil {
		return nil, err
	}
	if err := Dispatch(ctx, w.host, cmd); err != nil {
		return nil, err
	}
	w.Cancel()
	return cmd, nil
}

// Delete removes the event being edited and closes the form.
func (w *Widget) Delete(ctx context.Context) (Command, error) {
	if w.form == nil {
		return nil, ErrModalClosed
	}
	cmd, err := w.form.Delete()
	if err != nil {
		return nil, err
	}
	if err := Dispatch(ctx, w.host, cmd); err != nil {
		return nil, err
	}
	w.Cancel()
	return cmd, nil
}

// Cancel closes the form without saving.
func (w *Widget) Cancel() {
	w.state = w.state.CloseModal()
	w.form = nil
}

// MonthCells returns the month grid for the current anchor.
func (w *Widget) MonthCells(events []Event) [MonthGridSize]DayCell {
	return MonthCells(w.state.CurrentDate, events, w.state.SelectedDate, w.settings.Now(), w.settings.MaxPills)
}

// WeekColumns returns the positioned week view for the current anchor.
func (w *Widget) WeekColumns(events []Event) [DaysPerWeek]WeekColumn {
	return w.settings.Layout.Week(w.state.CurrentDate, events)
}

// Title returns the header caption for the current state.
func (w *Widget) Title() string {
	return Title(w.state.CurrentDate, w.state.View)
}
