package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dhima/rural-vitals/internal/events"
	"github.com/dhima/rural-vitals/internal/models"
	"github.com/spf13/cobra"
)

const defaultEventLimit = 100

type eventsOptions struct {
	residentID string
	edgeID     string
	kinds      []string
	levels     []string
	since      string
	until      string
	limit      int
	ascending  bool
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &eventsOptions{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Query the event log",
		Long: `List events newest first. Filters combine with AND; repeat --kind or
--level to match any of several values. Times use "2006-01-02 15:04:05" UTC
or RFC3339.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.residentID, "resident", "", "resident id")
	cmd.Flags().StringVar(&opts.edgeID, "edge", "", "edge device id")
	cmd.Flags().StringSliceVar(&opts.kinds, "kind", nil, "event kind (RESP|HR|INACTIVITY|HEARTBEAT)")
	cmd.Flags().StringSliceVar(&opts.levels, "level", nil, "event level (INFO|WARN|ALERT)")
	cmd.Flags().StringVar(&opts.since, "since", "", "inclusive lower time bound")
	cmd.Flags().StringVar(&opts.until, "until", "", "exclusive upper time bound")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", defaultEventLimit, "maximum rows, 0 for all")
	cmd.Flags().BoolVar(&opts.ascending, "asc", false, "oldest first")

	return cmd
}

func (o *eventsOptions) filter() (models.EventFilter, error) {
	f := models.EventFilter{
		ResidentID: strings.TrimSpace(o.residentID),
		EdgeID:     strings.TrimSpace(o.edgeID),
		Limit:      o.limit,
		Ascending:  o.ascending,
	}
	if o.limit < 0 {
		return f, fmt.Errorf("limit must not be negative")
	}
	for _, k := range o.kinds {
		kind := models.Kind(strings.ToUpper(strings.TrimSpace(k)))
		if !kind.Valid() {
			return f, fmt.Errorf("unknown kind %q", k)
		}
		f.Kinds = append(f.Kinds, kind)
	}
	for _, l := range o.levels {
		level := models.Level(strings.ToUpper(strings.TrimSpace(l)))
		if !level.Valid() {
			return f, fmt.Errorf("unknown level %q", l)
		}
		f.Levels = append(f.Levels, level)
	}
	var err error
	if f.Since, err = parseBound("since", o.since); err != nil {
		return f, err
	}
	if f.Until, err = parseBound("until", o.until); err != nil {
		return f, err
	}
	return f, nil
}

func parseBound(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, ok := models.ParseTimestamp(value)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid %s timestamp %q", name, value)
	}
	return t, nil
}

func runEvents(rootOpts *RootOptions, opts *eventsOptions, cmd *cobra.Command) error {
	filter, err := opts.filter()
	if err != nil {
		return err
	}

	b, err := openBackend(cmd.Context(), rootOpts)
	if err != nil {
		return err
	}
	defer b.Close()

	list, err := b.events.QueryEvents(cmd.Context(), filter)
	if err != nil {
		return err
	}

	p := newPrinter(rootOpts, cmd.OutOrStdout())
	if p.json() {
		return p.writeJSON(models.EventListResponse{Events: list, Count: len(list)})
	}
	if len(list) == 0 {
		fmt.Fprintln(p.w, gray("no events"))
		return nil
	}
	return p.table("TIMESTAMP\tRESIDENT\tEDGE\tKIND\tLEVEL\tNOTE", func(w io.Writer) {
		for _, e := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				models.FormatTimestamp(e.Timestamp), orDash(e.ResidentID), orDash(e.EdgeID),
				e.Kind, levelColor(e.Level), e.Note)
		}
	})
}

type logOptions struct {
	residentID string
	edgeID     string
	kind       string
	level      string
	note       string
	at         string
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &logOptions{}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Append one event to the log",
		Long: `Append an event through the same ingestion path the agent uses.
WARN and ALERT events are sent to the configured alerts channel.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.residentID, "resident", "", "resident id")
	cmd.Flags().StringVar(&opts.edgeID, "edge", "", "edge device id")
	cmd.Flags().StringVar(&opts.kind, "kind", "", "event kind (RESP|HR|INACTIVITY|HEARTBEAT)")
	cmd.Flags().StringVar(&opts.level, "level", "", "event level (INFO|WARN|ALERT)")
	cmd.Flags().StringVar(&opts.note, "note", "", "free-text note")
	cmd.Flags().StringVar(&opts.at, "at", "", "event time, defaults to now")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("level")

	return cmd
}

func runLog(rootOpts *RootOptions, opts *logOptions, cmd *cobra.Command) error {
	req := events.InsertRequest{
		Kind:       models.Kind(strings.ToUpper(opts.kind)),
		Level:      models.Level(strings.ToUpper(opts.level)),
		Note:       opts.note,
		ResidentID: opts.residentID,
		EdgeID:     opts.edgeID,
	}
	if opts.at != "" {
		at, err := parseBound("at", opts.at)
		if err != nil {
			return err
		}
		req.Timestamp = &at
	}

	b, err := openBackend(cmd.Context(), rootOpts)
	if err != nil {
		return err
	}
	defer b.Close()

	event, err := b.events.InsertEvent(cmd.Context(), req)
	if err != nil {
		return err
	}

	p := newPrinter(rootOpts, cmd.OutOrStdout())
	if p.json() {
		return p.writeJSON(event)
	}
	fmt.Fprintf(p.w, "%s logged %s %s at %s\n", green("✓"), event.Kind, levelColor(event.Level),
		models.FormatTimestamp(event.Timestamp))
	return nil
}
