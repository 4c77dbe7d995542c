package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dhima/rural-vitals/internal/models"
	"github.com/fatih/color"
)

var (
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// printer renders command results in the selected format.
type printer struct {
	format string
	w      io.Writer
}

func newPrinter(opts *RootOptions, w io.Writer) *printer {
	return &printer{format: opts.Format, w: w}
}

func (p *printer) json() bool { return p.format == "json" }

func (p *printer) writeJSON(v interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) table(header string, rows func(w io.Writer)) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

func levelColor(l models.Level) string {
	switch l {
	case models.LevelAlert:
		return red(string(l))
	case models.LevelWarn:
		return yellow(string(l))
	}
	return string(l)
}

func statusColor(s models.Status) string {
	switch s {
	case models.StatusCritical:
		return red(string(s))
	case models.StatusWarning:
		return yellow(string(s))
	}
	return green(string(s))
}

func tierColor(t models.RiskTier) string {
	switch t {
	case models.RiskHigh:
		return red(string(t))
	case models.RiskMedium:
		return yellow(string(t))
	}
	return string(t)
}

func onlineLabel(online bool) string {
	if online {
		return green("online")
	}
	return red("offline")
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return gray("-")
	}
	return models.FormatTimestamp(*t)
}

func orDash(s string) string {
	if s == "" {
		return gray("-")
	}
	return s
}
