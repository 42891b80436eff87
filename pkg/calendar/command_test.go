package calendar

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recordingHost struct {
	calls []string
}

func (h *recordingHost) Add(_ context.Context, e Event) error {
	h.calls = append(h.calls, "add:"+e.ID)
	return nil
}

func (h *recordingHost) Update(_ context.Context, id string, _ EventPatch) error {
	h.calls = append(h.calls, "update:"+id)
	return nil
}

func (h *recordingHost) Delete(_ context.Context, id string) error {
	h.calls = append(h.calls, "delete:"+id)
	return nil
}

func TestDispatch(t *testing.T) {
	h := &recordingHost{}
	ctx := context.Background()
	cmds := []Command{
		AddCommand{Event: Event{ID: "a"}},
		UpdateCommand{ID: "b"},
		DeleteCommand{ID: "c"},
	}
	for _, cmd := range cmds {
		if err := Dispatch(ctx, h, cmd); err != nil {
			t.Fatalf("Dispatch(%T) error = %v", cmd, err)
		}
	}

	want := []string{"add:a", "update:b", "delete:c"}
	if len(h.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", h.calls, want)
	}
	for i := range want {
		if h.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, h.calls[i], want[i])
		}
	}
}

func TestApply(t *testing.T) {
	start := at(2025, time.October, 26, 9, 0)
	events := []Event{
		{ID: "a", Title: "A", Start: start, End: start.Add(time.Hour)},
		{ID: "b", Title: "B", Start: start, End: start.Add(time.Hour)},
	}

	added, err := Apply(events, AddCommand{Event: Event{ID: "c", Title: "C"}})
	if err != nil || !equalIDs(added, "a", "b", "c") {
		t.Fatalf("add = %v, %v", ids(added), err)
	}

	title := "B2"
	updated, err := Apply(events, UpdateCommand{ID: "b", Patch: EventPatch{Title: &title}})
	if err != nil {
		t.Fatalf("update error = %v", err)
	}
	if updated[1].Title != "B2" || !updated[1].Start.Equal(start) {
		t.Errorf("updated = %+v", updated[1])
	}
	if events[1].Title != "B" {
		t.Errorf("input slice modified by update")
	}

	deleted, err := Apply(events, DeleteCommand{ID: "a"})
	if err != nil || !equalIDs(deleted, "b") {
		t.Errorf("delete = %v, %v", ids(deleted), err)
	}
	if len(events) != 2 {
		t.Errorf("input slice modified by delete")
	}

	if _, err := Apply(events, UpdateCommand{ID: "zzz"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update unknown = %v", err)
	}
	if _, err := Apply(events, DeleteCommand{ID: "zzz"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete unknown = %v", err)
	}
}

func TestEvent_ApplyKeepsID(t *testing.T) {
	e := Event{ID: "a", Title: "A", Color: "#3b82f6"}
	cat := "Work"
	got := e.Apply(EventPatch{Category: &cat})
	if got.ID != "a" || got.Title != "A" || got.Color != "#3b82f6" || got.Category != "Work" {
		t.Errorf("Apply() = %+v", got)
	}
	if e.Category != "" {
		t.Errorf("receiver modified")
	}
}
