package ics

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/djwarf/calgrid/pkg/calendar"
)

func crlf(lines ...string) string {
	return strings.Join(lines, "\r\n") + "\r\n"
}

func vcalendar(events ...string) string {
	lines := []string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//test//EN"}
	lines = append(lines, events...)
	lines = append(lines, "END:VCALENDAR")
	return crlf(lines...)
}

func TestImport(t *testing.T) {
	data := vcalendar(
		"BEGIN:VEVENT",
		"UID:standup-1",
		"DTSTAMP:20251001T000000Z",
		"SUMMARY:Team Standup",
		"DESCRIPTION:Daily sync\\, short",
		"CATEGORIES:Work,Meeting",
		"COLOR:#10b981",
		"DTSTART:20251026T090000Z",
		"DTEND:20251026T093000Z",
		"END:VEVENT",
	)

	res, err := Import(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(res.Events) != 1 || len(res.Rejected) != 0 {
		t.Fatalf("got %d events and %d rejected", len(res.Events), len(res.Rejected))
	}

	e := res.Events[0]
	if e.ID != "standup-1" || e.Title != "Team Standup" || e.Description != "Daily sync, short" {
		t.Errorf("event = %+v", e)
	}
	if e.Category != "Work" || e.Color != "#10b981" {
		t.Errorf("category/color = %q %q", e.Category, e.Color)
	}
	if want := time.Date(2025, time.October, 26, 9, 0, 0, 0, time.UTC); !e.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", e.Start, want)
	}
	if e.Duration() != 30*time.Minute {
		t.Errorf("Duration() = %v", e.Duration())
	}
}

func TestImport_DurationAndFloatingTime(t *testing.T) {
	data := vcalendar(
		"BEGIN:VEVENT",
		"UID:review",
		"DTSTAMP:20251001T000000Z",
		"SUMMARY:Review",
		"DTSTART:20251026T140000",
		"DURATION:PT1H30M",
		"END:VEVENT",
	)

	res, err := Import(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(res.Events) != 1 {
		t.Fatalf("got %d events, rejected %+v", len(res.Events), res.Rejected)
	}
	e := res.Events[0]
	if want := time.Date(2025, time.October, 26, 14, 0, 0, 0, time.Local); !e.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", e.Start, want)
	}
	if e.Duration() != 90*time.Minute {
		t.Errorf("Duration() = %v", e.Duration())
	}
}

func TestImport_AllDayWithoutEnd(t *testing.T) {
	data := vcalendar(
		"BEGIN:VEVENT",
		"UID:holiday",
		"DTSTAMP:20251001T000000Z",
		"SUMMARY:Holiday",
		"DTSTART;VALUE=DATE:20251027",
		"END:VEVENT",
	)

	res, err := Import(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(res.Events) != 1 {
		t.Fatalf("got %d events, rejected %+v", len(res.Events), res.Rejected)
	}
	e := res.Events[0]
	if want := time.Date(2025, time.October, 27, 0, 0, 0, 0, time.Local); !e.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", e.Start, want)
	}
	if want := time.Date(2025, time.October, 28, 0, 0, 0, 0, time.Local); !e.End.Equal(want) {
		t.Errorf("End = %v, want %v", e.End, want)
	}
}

func TestImport_RejectsInvalidEvents(t *testing.T) {
	data := vcalendar(
		"BEGIN:VEVENT",
		"UID:untitled",
		"DTSTAMP:20251001T000000Z",
		"DTSTART:20251026T090000Z",
		"DTEND:20251026T100000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:backwards",
		"DTSTAMP:20251001T000000Z",
		"SUMMARY:Backwards",
		"DTSTART:20251026T100000Z",
		"DTEND:20251026T090000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:ok",
		"DTSTAMP:20251001T000000Z",
		"SUMMARY:Fine",
		"DTSTART:20251026T090000Z",
		"DTEND:20251026T100000Z",
		"END:VEVENT",
	)

	res, err := Import(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(res.Events) != 1 || res.Events[0].ID != "ok" {
		t.Fatalf("events = %+v", res.Events)
	}
	if len(res.Rejected) != 2 {
		t.Fatalf("rejected = %+v", res.Rejected)
	}
	if r := res.Rejected[0]; r.UID != "untitled" || !errors.Is(r.Err, calendar.ErrTitleRequired) {
		t.Errorf("rejected[0] = %+v", r)
	}
	if r := res.Rejected[1]; r.Title != "Backwards" || !errors.Is(r.Err, calendar.ErrEndBeforeStart) {
		t.Errorf("rejected[1] = %+v", r)
	}
}

func TestImport_Malformed(t *testing.T) {
	if _, err := Import(strings.NewReader("BEGIN:VCALENDAR\r\nnot a property\r\n")); err == nil {
		t.Errorf("Import() of malformed data succeeded")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	events := []calendar.Event{
		{
			ID:       "b",
			Title:    "Lunch",
			Start:    time.Date(2025, time.October, 26, 12, 0, 0, 0, time.Local),
			End:      time.Date(2025, time.October, 26, 13, 0, 0, 0, time.Local),
			Category: "Personal",
		},
		{
			ID:          "a",
			Title:       "Team Standup",
			Description: "Daily sync",
			Start:       time.Date(2025, time.October, 26, 9, 0, 0, 0, time.Local),
			End:         time.Date(2025, time.October, 26, 9, 30, 0, 0, time.Local),
			Color:       "#3b82f6",
			Category:    "Meeting",
		},
	}

	var buf bytes.Buffer
	if err := Export(&buf, events); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"PRODID:-//calgrid//EN", "UID:a", "SUMMARY:Team Standup", "COLOR:#3b82f6"} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q", want)
		}
	}
	if strings.Index(out, "UID:a") > strings.Index(out, "UID:b") {
		t.Errorf("events not ordered by start")
	}

	res, err := Import(&buf)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(res.Events) != 2 {
		t.Fatalf("round trip returned %d events", len(res.Events))
	}
	got := res.Events[0]
	want := events[1]
	if got.ID != want.ID || got.Title != want.Title || got.Description != want.Description ||
		got.Color != want.Color || got.Category != want.Category {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
	if !got.Start.Equal(want.Start) || !got.End.Equal(want.End) {
		t.Errorf("times = %v..%v, want %v..%v", got.Start, got.End, want.Start, want.End)
	}
}
