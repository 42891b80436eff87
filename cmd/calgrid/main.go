package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/djwarf/calgrid/internal/config"
	appLog "github.com/djwarf/calgrid/internal/log"
	"github.com/djwarf/calgrid/pkg/calendar"
	"github.com/djwarf/calgrid/pkg/ics"
)

const usage = `usage: calgrid [-config path] <command> [args]

commands:
  month  [-date YYYY-MM-DD] [-next N]     print the month grid
  week   [-date YYYY-MM-DD] [-next N]     print the week view layout
  agenda [-date YYYY-MM-DD] [-days N]     list events from date on
  add    -title T -start T -end T [...]   create an event
  update -id ID [-title T] [...]          change an event
  delete -id ID                           delete an event
  import FILE.ics                         import events
  export [FILE.ics]                       export events (stdout by default)
  waybar                                  print today's status as waybar JSON
`

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// WaybarOutput is the JSON structure for waybar custom modules
type WaybarOutput struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Class   string `json:"class"`
}

// app bundles what every command needs.
type app struct {
	cfg   *config.Config
	store *calendar.Store
	out   io.Writer
}

func main() {
	global := flag.NewFlagSet("calgrid", flag.ExitOnError)
	configPath := global.String("config", "", "Path to config file")
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	global.Parse(os.Args[1:])

	args := global.Args()
	if len(args) == 0 {
		global.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, args[0], args[1:], os.Stdout); err != nil {
		if args[0] == "waybar" {
			// waybar needs a line on stdout even when the store is unavailable
			json.NewEncoder(os.Stdout).Encode(WaybarOutput{
				Text:    time.Now().Format("02/01"),
				Tooltip: "Calendar unavailable",
				Class:   "error",
			})
		}
		appLog.Error("command failed", err, "command", args[0])
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, command string, args []string, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		if cfg == nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		appLog.Error("failed to save default config", err, "config_path", configPath)
	}
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))

	store, err := calendar.NewStore(cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer store.Close()

	appLog.Debug("effective config",
		"data_dir", cfg.DataDir,
		"default_view", cfg.DefaultView,
		"hour_height", cfg.HourHeight,
		"clamp_overflow", cfg.ClampOverflow,
	)

	a := &app{cfg: cfg, store: store, out: out}
	switch command {
	case "month":
		return a.runGrid(ctx, calendar.ViewMonth, args)
	case "week":
		return a.runGrid(ctx, calendar.ViewWeek, args)
	case "agenda":
		return a.runAgenda(ctx, args)
	case "add":
		return a.runAdd(ctx, args)
	case "update":
		return a.runUpdate(ctx, args)
	case "delete":
		return a.runDelete(ctx, args)
	case "import":
		return a.runImport(ctx, args)
	case "export":
		return a.runExport(ctx, args)
	case "waybar":
		return a.runWaybar(ctx)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// widget builds a widget over the store, anchored at date when given.
func (a *app) widget(date string, view calendar.View) (*calendar.Widget, error) {
	opts := a.cfg.Options()
	opts.InitialView = view
	if date != "" {
		d, err := time.ParseInLocation(dateLayout, date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", date, err)
		}
		opts.InitialDate = d
	}
	return calendar.NewWidget(a.store, opts, a.cfg.Settings()), nil
}

func (a *app) runGrid(ctx context.Context, view calendar.View, args []string) error {
	fs := flag.NewFlagSet(string(view), flag.ContinueOnError)
	date := fs.String("date", "", "Anchor date (YYYY-MM-DD), default today")
	next := fs.Int("next", 0, "Move N periods forward (negative goes back)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, err := a.widget(*date, view)
	if err != nil {
		return err
	}
	for i := 0; i < *next; i++ {
		w.Next()
	}
	for i := 0; i > *next; i-- {
		w.Previous()
	}

	events, err := a.store.Events(ctx)
	if err != nil {
		return err
	}

	if view == calendar.ViewWeek {
		printWeek(a.out, w, events)
	} else {
		printMonth(a.out, w, events)
	}
	return nil
}

func printMonth(out io.Writer, w *calendar.Widget, events []calendar.Event) {
	fmt.Fprintln(out, w.Title())
	for _, name := range calendar.WeekdayNames {
		fmt.Fprintf(out, "%-6s", name)
	}
	fmt.Fprintln(out)

	cells := w.MonthCells(events)
	for row := 0; row < calendar.MonthGridSize/calendar.DaysPerWeek; row++ {
		for col := 0; col < calendar.DaysPerWeek; col++ {
			cell := cells[row*calendar.DaysPerWeek+col]
			mark := " "
			switch {
			case cell.Today:
				mark = "*"
			case !cell.InMonth:
				mark = "."
			}
			count := ""
			if n := len(cell.Events) + cell.More; n > 0 {
				count = fmt.Sprintf("(%d)", n)
			}
			fmt.Fprintf(out, "%2d%s%-3s", cell.Date.Day(), mark, count)
		}
		fmt.Fprintln(out)
	}

	for _, cell := range cells {
		if !cell.InMonth || len(cell.Events) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s\n", cell.Date.Format("Mon 2 Jan"))
		for _, e := range cell.Events {
			fmt.Fprintf(out, "  %s %s [%s]\n", e.Start.Format("15:04"), e.Title, e.DisplayColor(nil))
		}
		if cell.More > 0 {
			fmt.Fprintf(out, "  +%d more\n", cell.More)
		}
	}
}

func printWeek(out io.Writer, w *calendar.Widget, events []calendar.Event) {
	fmt.Fprintln(out, w.Title())
	slots := calendar.TimeSlots()
	for _, col := range w.WeekColumns(events) {
		fmt.Fprintf(out, "\n%s\n", col.Date.Format("Mon, Jan 2"))
		for _, b := range col.Blocks {
			hour := int(b.Top / w.Layout().HourHeight)
			fmt.Fprintf(out, "  %-8s top=%6.1fpx height=%6.1fpx  %s-%s %s\n",
				slots[hour], b.Top, b.Height,
				b.Event.Start.Format("15:04"), b.Event.End.Format("15:04"), b.Event.Title)
		}
	}
}

func (a *app) runAgenda(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("agenda", flag.ContinueOnError)
	date := fs.String("date", "", "First day (YYYY-MM-DD), default today")
	days := fs.Int("days", 7, "Number of days")
	if err := fs.Parse(args); err != nil {
		return err
	}

	start := calendar.StartOfDay(time.Now())
	if *date != "" {
		d, err := time.ParseInLocation(dateLayout, *date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", *date, err)
		}
		start = d
	}
	end := start.AddDate(0, 0, *days).Add(-time.Nanosecond)

	events, err := a.store.EventsInRange(ctx, start, end)
	if err != nil {
		return err
	}
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		dayEvents := calendar.EventsOnDay(events, day)
		if len(dayEvents) == 0 {
			continue
		}
		fmt.Fprintln(a.out, day.Format("Monday, 2 January 2006"))
		for _, e := range dayEvents {
			fmt.Fprintf(a.out, "  %s-%s  %s  (%s)\n", e.Start.Format("15:04"), e.End.Format("15:04"), e.Title, e.ID)
		}
	}
	return nil
}

// eventFlags registers the editable event fields on fs.
type eventFlags struct {
	title, description, start, end, color, category *string
}

func newEventFlags(fs *flag.FlagSet) eventFlags {
	return eventFlags{
		title:       fs.String("title", "", "Event title"),
		description: fs.String("description", "", "Event description"),
		start:       fs.String("start", "", "Start (YYYY-MM-DDTHH:MM)"),
		end:         fs.String("end", "", "End (YYYY-MM-DDTHH:MM)"),
		color:       fs.String("color", "", "Display color"),
		category:    fs.String("category", "", "Category"),
	}
}

func parseDateTime(name, v string) (time.Time, error) {
	t, err := time.ParseInLocation(dateTimeLayout, v, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	return t, nil
}

func (a *app) runAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	ef := newEventFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, err := a.widget("", "")
	if err != nil {
		return err
	}

	var date *time.Time
	if *ef.start != "" {
		start, err := parseDateTime("start", *ef.start)
		if err != nil {
			return err
		}
		date = &start
	}
	var form *calendar.Form
	if date != nil {
		form = w.ClickDate(*date)
	} else {
		form = w.ClickDate(time.Now())
	}

	form.Title = *ef.title
	form.Description = *ef.description
	if *ef.end != "" {
		end, err := parseDateTime("end", *ef.end)
		if err != nil {
			return err
		}
		form.End = end
	}
	if *ef.color != "" {
		form.Color = *ef.color
	}
	if *ef.category != "" {
		form.Category = *ef.category
	}

	cmd, err := w.Save(ctx)
	if err != nil {
		return err
	}
	appLog.Info("event added", "id", cmd.EventID())
	fmt.Fprintln(a.out, cmd.EventID())
	return nil
}

func (a *app) runUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	id := fs.String("id", "", "Event ID")
	ef := newEventFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("update: -id is required")
	}

	event, err := a.store.GetEvent(ctx, *id)
	if err != nil {
		return err
	}

	w, err := a.widget("", "")
	if err != nil {
		return err
	}
	form := w.ClickEvent(event)

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["title"] {
		form.Title = *ef.title
	}
	if set["description"] {
		form.Description = *ef.description
	}
	if set["start"] {
		if form.Start, err = parseDateTime("start", *ef.start); err != nil {
			return err
		}
	}
	if set["end"] {
		if form.End, err = parseDateTime("end", *ef.end); err != nil {
			return err
		}
	}
	if set["color"] {
		form.Color = *ef.color
	}
	if set["category"] {
		form.Category = *ef.category
	}

	if _, err := w.Save(ctx); err != nil {
		return err
	}
	appLog.Info("event updated", "id", *id)
	return nil
}

func (a *app) runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.String("id", "", "Event ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("delete: -id is required")
	}

	event, err := a.store.GetEvent(ctx, *id)
	if err != nil {
		return err
	}
	w, err := a.widget("", "")
	if err != nil {
		return err
	}
	w.ClickEvent(event)
	if _, err := w.Delete(ctx); err != nil {
		return err
	}
	appLog.Info("event deleted", "id", *id)
	return nil
}

func (a *app) runImport(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("import: expected one .ics file")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := ics.Import(f)
	if err != nil {
		return err
	}

	added := 0
	for _, e := range result.Events {
		if err := calendar.Dispatch(ctx, a.store, calendar.AddCommand{Event: e}); err != nil {
			appLog.Error("import: failed to add event", err, "id", e.ID)
			continue
		}
		added++
	}
	for _, r := range result.Rejected {
		fmt.Fprintf(a.out, "skipped %q: %v\n", r.Title, r.Err)
	}
	fmt.Fprintf(a.out, "imported %d event(s)\n", added)
	return nil
}

func (a *app) runExport(ctx context.Context, args []string) error {
	events, err := a.store.Events(ctx)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return ics.Export(a.out, events)
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := ics.Export(f, events); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// runWaybar outputs today's events as JSON for a waybar custom module
func (a *app) runWaybar(ctx context.Context) error {
	now := time.Now()
	today := calendar.StartOfDay(now)

	events, err := a.store.EventsInRange(ctx, today, today.AddDate(0, 0, 1).Add(-time.Nanosecond))
	if err != nil {
		return err
	}

	var tooltip strings.Builder
	tooltip.WriteString(now.Format("Monday, 2 January 2006"))
	if len(events) > 0 {
		tooltip.WriteString("\n")
		for _, event := range events {
			fmt.Fprintf(&tooltip, "\n• %s - %s", event.Start.Format("15:04"), event.Title)
		}
	} else {
		tooltip.WriteString("\n\nNo events today")
	}

	class := "no-events"
	text := now.Format("02/01")
	if len(events) > 0 {
		class = "has-events"
		text = fmt.Sprintf("%s (%d)", text, len(events))
	}

	return json.NewEncoder(a.out).Encode(WaybarOutput{
		Text:    text,
		Tooltip: tooltip.String(),
		Class:   class,
	})
}
