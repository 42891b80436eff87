package calendar

import (
	"fmt"
	"time"
)

const (
	// MonthGridSize is the number of cells in a month grid (6 weeks of 7 days).
	MonthGridSize = 42
	// DaysPerWeek is the number of columns in a week grid.
	DaysPerWeek = 7
	// HoursPerDay is the number of slots on the time axis.
	HoursPerDay = 24

	dayKeyLayout = "2006-01-02"
)

// WeekdayNames are the month grid column headers, Sunday first.
var WeekdayNames = [DaysPerWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameMonth reports whether a and b fall in the same month of the same year.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// DayKey formats t as a "2006-01-02" map key.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// addDays steps by calendar days rather than 24h so DST changes never shift
// a cell off midnight.
func addDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location())
}

// MonthGrid returns the 42 consecutive days displayed for date's month,
// starting on the Sunday on or before the first of the month. Leading and
// trailing cells belong to the adjacent months.
func MonthGrid(date time.Time) [MonthGridSize]time.Time {
	var grid [MonthGridSize]time.Time
	start := StartOfWeek(StartOfMonth(date))
	for i := range grid {
		grid[i] = addDays(start, i)
	}
	return grid
}

// WeekGrid returns the seven days of the Sunday-start week containing date.
func WeekGrid(date time.Time) [DaysPerWeek]time.Time {
	var week [DaysPerWeek]time.Time
	start := StartOfWeek(date)
	for i := range week {
		week[i] = addDays(start, i)
	}
	return week
}

// TimeSlots returns the hourly axis labels "12:00 AM" through "11:00 PM".
func TimeSlots() [HoursPerDay]string {
	var slots [HoursPerDay]string
	for i := range slots {
		hour := i % 12
		if hour == 0 {
			hour = 12
		}
		ampm := "AM"
		if i >= 12 {
			ampm = "PM"
		}
		slots[i] = fmt.Sprintf("%d:00 %s", hour, ampm)
	}
	return slots
}

// DayCell is one month grid cell ready for rendering.
type DayCell struct {
	Date     time.Time
	InMonth  bool
	Today    bool
	Selected bool
	// Events holds at most the requested number of pills; More counts the rest.
	Events []Event
	More   int
}

// MonthCells decorates MonthGrid(anchor) with the events binned on each day.
// A maxPills of zero or less shows every event.
func MonthCells(anchor time.Time, events []Event, selected *time.Time, now time.Time, maxPills int) [MonthGridSize]DayCell {
	var cells [MonthGridSize]DayCell
	byDay := GroupByDay(events)
	for i, day := range MonthGrid(anchor) {
		dayEvents := byDay[DayKey(day)]
		cell := DayCell{
			Date:     day,
			InMonth:  SameMonth(day, anchor),
			Today:    SameDay(day, now),
			Selected: selected != nil && SameDay(*selected, day),
			Events:   dayEvents,
		}
		if maxPills > 0 && len(dayEvents) > maxPills {
			cell.Events = dayEvents[:maxPills:maxPills]
			cell.More = len(dayEvents) - maxPills
		}
		cells[i] = cell
	}
	return cells
}

// Title returns the header caption for the given view: "October 2025" for
// the month view, "26th Oct, 2025" for the week view.
func Title(date time.Time, view View) string {
	if view == ViewWeek {
		return fmt.Sprintf("%s %s", ordinal(date.Day()), date.Format("Jan, 2006"))
	}
	return date.Format("January 2006")
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
