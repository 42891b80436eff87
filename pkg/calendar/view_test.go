package calendar

import (
	"testing"
	"time"
)

func TestViewState_NextPrevious(t *testing.T) {
	tests := []struct {
		name      string
		view      View
		from      time.Time
		next, prv time.Time
	}{
		{"month", ViewMonth, date(2025, time.October, 26), date(2025, time.November, 26), date(2025, time.September, 26)},
		{"month end clamps", ViewMonth, date(2025, time.January, 31), date(2025, time.February, 28), date(2024, time.December, 31)},
		{"leap year", ViewMonth, date(2024, time.March, 31), date(2024, time.April, 30), date(2024, time.February, 29)},
		{"year boundary", ViewMonth, date(2025, time.December, 15), date(2026, time.January, 15), date(2025, time.November, 15)},
		{"week", ViewWeek, date(2025, time.October, 26), date(2025, time.November, 2), date(2025, time.October, 19)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ViewState{CurrentDate: tt.from, View: tt.view}
			if got := s.Next().CurrentDate; !got.Equal(tt.next) {
				t.Errorf("Next() = %v, want %v", got, tt.next)
			}
			if got := s.Previous().CurrentDate; !got.Equal(tt.prv) {
				t.Errorf("Previous() = %v, want %v", got, tt.prv)
			}
			if !s.CurrentDate.Equal(tt.from) {
				t.Errorf("receiver modified: %v", s.CurrentDate)
			}
		})
	}
}

func TestViewState_ToggleViewRoundTrip(t *testing.T) {
	anchor := at(2025, time.October, 26, 14, 0)
	s := ViewState{CurrentDate: anchor, View: ViewMonth}

	week := s.ToggleView()
	if week.View != ViewWeek || !week.CurrentDate.Equal(anchor) {
		t.Fatalf("ToggleView() = %+v", week)
	}
	back := week.ToggleView()
	if back.View != ViewMonth || !back.CurrentDate.Equal(anchor) {
		t.Errorf("round trip = %+v", back)
	}
}

func TestViewState_Today(t *testing.T) {
	now := at(2026, time.October, 15, 8, 0)
	s := ViewState{CurrentDate: date(2025, time.October, 26), View: ViewWeek}.Today(now)
	if !s.CurrentDate.Equal(now) || s.View != ViewWeek {
		t.Errorf("Today() = %+v", s)
	}
}

func TestViewState_Modal(t *testing.T) {
	clicked := date(2025, time.October, 26)
	s := ViewState{CurrentDate: clicked, View: ViewMonth}.OpenModal(&clicked)
	if !s.ModalOpen || s.SelectedDate == nil || !s.SelectedDate.Equal(clicked) {
		t.Fatalf("OpenModal(date) = %+v", s)
	}

	clicked = clicked.AddDate(0, 0, 1)
	if !s.SelectedDate.Equal(date(2025, time.October, 26)) {
		t.Errorf("selection aliases the caller's variable")
	}

	s = s.CloseModal()
	if s.ModalOpen || s.SelectedDate != nil {
		t.Errorf("CloseModal() = %+v", s)
	}

	s = s.OpenModal(nil)
	if !s.ModalOpen || s.SelectedDate != nil {
		t.Errorf("OpenModal(nil) = %+v", s)
	}
}

func TestNewViewState(t *testing.T) {
	now := at(2026, time.October, 15, 8, 0)

	s := NewViewState(Options{}, now)
	if s.View != ViewMonth || !s.CurrentDate.Equal(now) || s.ModalOpen || s.SelectedDate != nil {
		t.Errorf("defaults = %+v", s)
	}

	s = NewViewState(Options{InitialView: ViewWeek, InitialDate: date(2025, time.October, 26)}, now)
	if s.View != ViewWeek || !s.CurrentDate.Equal(date(2025, time.October, 26)) {
		t.Errorf("explicit = %+v", s)
	}
}

func TestParseView(t *testing.T) {
	for in, want := range map[string]View{"": ViewMonth, "month": ViewMonth, "week": ViewWeek} {
		got, err := ParseView(in)
		if err != nil || got != want {
			t.Errorf("ParseView(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseView("day"); err == nil {
		t.Errorf("ParseView(day) succeeded")
	}
}
