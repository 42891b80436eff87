package calendar

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no event has the requested ID.
var ErrNotFound = errors.New("event not found")

// Host is the embedding application that owns the event collection. The
// widget never stores events; it only decides when to call these.
type Host interface {
	// Add stores a new event. The event already carries its ID.
	Add(ctx context.Context, event Event) error

	// Update applies a partial update to the event with the given ID.
	Update(ctx context.Context, id string, patch EventPatch) error

	// Delete removes the event with the given ID.
	Delete(ctx context.Context, id string) error
}

// Command is a mutation request produced by the widget for the host.
type Command interface {
	// EventID returns the ID of the event the command targets.
	EventID() string
}

// AddCommand asks the host to store a new event.
type AddCommand struct {
	Event Event
}

// UpdateCommand asks the host to patch an existing event.
type UpdateCommand struct {
	ID    string
	Patch EventPatch
}

// DeleteCommand asks the host to remove an event.
type DeleteCommand struct {
	ID string
}

func (c AddCommand) EventID() string    { return c.Event.ID }
func (c UpdateCommand) EventID() string { return c.ID }
func (c DeleteCommand) EventID() string { return c.ID }

// Dispatch invokes the host callback matching cmd.
func Dispatch(ctx context.Context, host Host, cmd Command) error {
	switch c := cmd.(type) {
	case AddCommand:
		return host.Add(ctx, c.Event)
	case UpdateCommand:
		return host.Update(ctx, c.ID, c.Patch)
	case DeleteCommand:
		return host.Delete(ctx, c.ID)
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}

// Apply returns a new slice with cmd applied to events, for hosts that keep
// the collection in memory. The input slice is not modified.
func Apply(events []Event, cmd Command) ([]Event, error) {
	switch c := cmd.(type) {
	case AddCommand:
		out := make([]Event, 0, len(events)+1)
		out = append(out, events...)
		return append(out, c.Event), nil
	case UpdateCommand:
		out := make([]Event, len(events))
		copy(out, events)
		for i := range out {
			if out[i].ID == c.ID {
				out[i] = out[i].Apply(c.Patch)
				return out, nil
			}
		}
		return nil, fmt.Errorf("update %s: %w", c.ID, ErrNotFound)
	case DeleteCommand:
		out := make([]Event, 0, len(events))
		found := false
		for _, e := range events {
			if e.ID == c.ID {
				found = true
				continue
			}
			out = append(out, e)
		}
		if !found {
			return nil, fmt.Errorf("delete %s: %w", c.ID, ErrNotFound)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported command %T", cmd)
	}
}

// MemoryHost is a Host over a plain slice, useful for tests and hosts that
// have no store of their own.
type MemoryHost struct {
	Events []Event
}

func (h *MemoryHost) apply(cmd Command) error {
	events, err := Apply(h.Events, cmd)
	if err != nil {
		return err
	}
	h.Events = events
	return nil
}

func (h *MemoryHost) Add(_ context.Context, event Event) error {
	return h.apply(AddCommand{Event: event})
}

func (h *MemoryHost) Update(_ context.Context, id string, patch EventPatch) error {
	return h.apply(UpdateCommand{ID: id, Patch: patch})
}

func (h *MemoryHost) Delete(_ context.Context, id string) error {
	return h.apply(DeleteCommand{ID: id})
}

var _ Host = (*MemoryHost)(nil)
