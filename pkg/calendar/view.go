package calendar

import (
	"fmt"
	"time"
)

// View is the active grid layout.
type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
)

// ParseView converts a config or flag value into a View.
func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewMonth, ViewWeek:
		return View(s), nil
	case "":
		return ViewMonth, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Options are the widget's initial values supplied by the host.
type Options struct {
	InitialView View
	InitialDate time.Time
}

// ViewState is the displayed date, view mode, selection and modal gate.
// Every transition returns a new value; the receiver is never modified.
type ViewState struct {
	CurrentDate  time.Time
	View         View
	SelectedDate *time.Time
	ModalOpen    bool
}

// NewViewState builds the initial state. A zero InitialDate means now and an
// empty InitialView means the month view.
func NewViewState(opts Options, now time.Time) ViewState {
	s := ViewState{CurrentDate: opts.InitialDate, View: opts.InitialView}
	if s.CurrentDate.IsZero() {
		s.CurrentDate = now
	}
	if s.View == "" {
		s.View = ViewMonth
	}
	return s
}

// Next advances one month in the month view and one week in the week view.
func (s ViewState) Next() ViewState {
	s.CurrentDate = s.step(1)
	return s
}

// Previous goes back one month or one week.
func (s ViewState) Previous() ViewState {
	s.CurrentDate = s.step(-1)
	return s
}

func (s ViewState) step(n int) time.Time {
	if s.View == ViewWeek {
		return s.CurrentDate.AddDate(0, 0, 7*n)
	}
	return AddMonths(s.CurrentDate, n)
}

// Today moves the anchor to now and keeps the view.
func (s ViewState) Today(now time.Time) ViewState {
	s.CurrentDate = now
	return s
}

// ToggleView switches between the month and week views. The anchor date is
// kept, so the new grid contains the same day.
func (s ViewState) ToggleView() ViewState {
	if s.View == ViewMonth {
		s.View = ViewWeek
	} else {
		s.View = ViewMonth
	}
	return s
}

// OpenModal shows the event form. date is the clicked cell for a new event,
// or nil when an existing event is being edited.
func (s ViewState) OpenModal(date *time.Time) ViewState {
	s.ModalOpen = true
	if date != nil {
		d := *date
		date = &d
	}
	s.SelectedDate = date
	return s
}

// CloseModal hides the form and clears the selection.
func (s ViewState) CloseModal() ViewState {
	s.ModalOpen = false
	s.SelectedDate = nil
	return s
}

// AddMonths adds n calendar months to t, pinning the day to the last day of
// the target month when it would otherwise overflow (Jan 31 + 1 = Feb 28).
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := min(t.Day(), DaysInMonth(first))
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
