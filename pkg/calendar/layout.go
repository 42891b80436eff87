package calendar

import (
	"math"
	"time"
)

// Reference geometry of the week view.
const (
	DefaultHourHeight = 48.0
	DefaultMinHeight  = 36.0
)

// Layout positions timed events on a week view day column of HoursPerDay
// rows, each HourHeight pixels tall.
type Layout struct {
	HourHeight float64
	MinHeight  float64

	// Clamp keeps blocks inside the 24 hour axis. When false, the block
	// height comes straight from the clock delta between Start and End, so
	// an event ending after midnight yields a negative delta and falls back
	// to MinHeight.
	Clamp bool
}

// DefaultLayout returns the 48px per hour, 36px minimum geometry.
func DefaultLayout() Layout {
	return Layout{HourHeight: DefaultHourHeight, MinHeight: DefaultMinHeight}
}

// Block is the absolute placement of one event in a day column.
type Block struct {
	Event  Event
	Top    float64
	Height float64
}

// clockHours returns the local time of day of t in fractional hours,
// minute resolution.
func clockHours(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

// TopOffset returns the distance in pixels from the top of the column to the
// start of the event.
func (l Layout) TopOffset(e Event) float64 {
	return clockHours(e.Start) * l.HourHeight
}

// BlockHeight returns the pixel height of the event block, never less than
// MinHeight unless clamping to the axis bottom cuts it shorter.
func (l Layout) BlockHeight(e Event) float64 {
	start := clockHours(e.Start)
	end := clockHours(e.End)
	if l.Clamp {
		end = l.clampedEnd(e)
	}
	height := math.Max((end-start)*l.HourHeight, l.MinHeight)
	if l.Clamp {
		height = math.Min(height, l.axisHeight()-l.TopOffset(e))
	}
	return height
}

// clampedEnd measures End from the start day's midnight and caps it at the
// end of the axis.
func (l Layout) clampedEnd(e Event) float64 {
	if !SameDay(e.Start, e.End) && e.End.After(e.Start) {
		return HoursPerDay
	}
	return clockHours(e.End)
}

func (l Layout) axisHeight() float64 {
	return HoursPerDay * l.HourHeight
}

// Column lays out the events binned on day. Concurrent events are not
// resolved against each other and may overlap.
func (l Layout) Column(events []Event, day time.Time) []Block {
	dayEvents := EventsOnDay(events, day)
	blocks := make([]Block, 0, len(dayEvents))
	for _, e := range dayEvents {
		blocks = append(blocks, Block{
			Event:  e,
			Top:    l.TopOffset(e),
			Height: l.BlockHeight(e),
		})
	}
	return blocks
}

// WeekColumn is one day of the week view with its positioned blocks.
type WeekColumn struct {
	Date   time.Time
	Blocks []Block
}

// Week lays out every day of WeekGrid(anchor).
func (l Layout) Week(anchor time.Time, events []Event) [DaysPerWeek]WeekColumn {
	var cols [DaysPerWeek]WeekColumn
	for i, day := range WeekGrid(anchor) {
		cols[i] = WeekColumn{Date: day, Blocks: l.Column(events, day)}
	}
	return cols
}
