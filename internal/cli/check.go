package cli

import (
	"fmt"

	"github.com/dhima/rural-vitals/internal/bootstrap"
	"github.com/dhima/rural-vitals/internal/detector"
	"github.com/dhima/rural-vitals/internal/digest"
	"github.com/dhima/rural-vitals/pkg/clock"
	"github.com/spf13/cobra"
)

// CheckResult summarizes a validated config.
type CheckResult struct {
	Valid      bool   `json:"valid"`
	Residents  int    `json:"residents"`
	Stations   int    `json:"stations"`
	AlertsMode string `json:"alerts_mode"`
	Digest     string `json:"digest"`
	Storage    string `json:"storage"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the config without touching the store",
		Long: `Validate thresholds, station sources and the digest schedule.

Sources are opened the way the agent opens them, so a missing CSV file
fails here rather than at agent start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, cmd)
		},
	}
}

func runCheck(opts *RootOptions, cmd *cobra.Command) error {
	file, logger, err := loadFile(opts)
	if err != nil {
		return err
	}

	if _, err := detector.New(bootstrap.Thresholds(file)); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}
	reg := bootstrap.Registry(file, logger)
	stations, err := bootstrap.Stations(file, reg, clock.RealClock{}, logger)
	if err != nil {
		return err
	}
	expr := file.Digest.Expression()
	if expr != "" {
		if _, err := digest.ParseSchedule(expr); err != nil {
			return fmt.Errorf("digest: %w", err)
		}
	}

	res := CheckResult{
		Valid:      true,
		Residents:  len(reg.All()),
		Stations:   len(stations),
		AlertsMode: file.Alerts.Mode,
		Digest:     expr,
		Storage:    file.Storage.Driver,
	}
	p := newPrinter(opts, cmd.OutOrStdout())
	if p.json() {
		return p.writeJSON(res)
	}
	if res.Digest == "" {
		res.Digest = "disabled"
	}
	fmt.Fprintf(p.w, "%s config valid\n", green("✓"))
	fmt.Fprintf(p.w, "  residents: %d\n  stations:  %d\n  alerts:    %s\n  digest:    %s\n  storage:   %s\n",
		res.Residents, res.Stations, res.AlertsMode, res.Digest, res.Storage)
	return nil
}
