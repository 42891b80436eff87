package calendar

import (
	"slices"
	"time"
)

// EventsOnDay returns the events starting on day's calendar date, keeping
// their input order. Only Start is considered: an event spanning several
// days is listed on its first day alone.
func EventsOnDay(events []Event, day time.Time) []Event {
	var out []Event
	for _, e := range events {
		if SameDay(e.Start, day) {
			out = append(out, e)
		}
	}
	return out
}

// EventsInRange returns the events whose Start lies in [start, end], both
// ends inclusive.
func EventsInRange(events []Event, start, end time.Time) []Event {
	var out []Event
	for _, e := range events {
		if !e.Start.Before(start) && !e.Start.After(end) {
			out = append(out, e)
		}
	}
	return out
}

// SortedByStart returns a copy of events ordered by Start. Ties keep their
// input order.
func SortedByStart(events []Event) []Event {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b Event) int {
		return a.Start.Compare(b.Start)
	})
	return out
}

// GroupByDay bins events by the DayKey of their Start.
func GroupByDay(events []Event) map[string][]Event {
	byDay := make(map[string][]Event)
	for _, e := range events {
		key := DayKey(e.Start)
		byDay[key] = append(byDay[key], e)
	}
	return byDay
}
