package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dhima/rural-vitals/internal/digest"
	"github.com/dhima/rural-vitals/internal/models"
	"github.com/dhima/rural-vitals/internal/status"
	"github.com/spf13/cobra"
)

// NewResidentsCommand creates the residents command.
func NewResidentsCommand(rootOpts *RootOptions) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "residents [resident-id]",
		Short: "Show live resident status",
		Long: `Without an id, list every resident most severe first. With an id,
show that resident's status and recent events.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runResident(rootOpts, args[0], recent, cmd)
			}
			return runResidents(rootOpts, cmd)
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 20, "recent events shown for one resident")
	return cmd
}

func runResidents(opts *RootOptions, cmd *cobra.Command) error {
	b, err := openBackend(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer b.Close()

	list, err := b.status.Residents(cmd.Context())
	if err != nil {
		return err
	}

	p := newPrinter(opts, cmd.OutOrStdout())
	if p.json() {
		return p.writeJSON(list)
	}
	if len(list) == 0 {
		fmt.Fprintln(p.w, gray("no residents"))
		return nil
	}
	return p.table("RESIDENT\tNAME\tREGION\tSTATUS\tLIVENESS\tLAST HEARTBEAT", func(w io.Writer) {
		for _, rs := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				rs.Resident.ID, rs.Resident.Name, rs.Resident.Region,
				statusColor(rs.Status), onlineLabel(rs.Online), formatOptional(rs.LastHeartbeat))
		}
	})
}

func runResident(opts *RootOptions, id string, recent int, cmd *cobra.Command) error {
	if recent < 1 {
		return fmt.Errorf("recent must be at least 1")
	}
	b, err := openBackend(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer b.Close()

	detail, err := b.status.Resident(cmd.Context(), id, recent)
	if err != nil {
		return err
	}

	p := newPrinter(opts, cmd.OutOrStdout())
	if p.json() {
		return p.writeJSON(detail)
	}
	r := detail.Resident
	fmt.Fprintf(p.w, "%s  %s  %s\n", r.ID, r.Name, r.Region)
	fmt.Fprintf(p.w, "  status:         %s\n", statusColor(detail.Status))
	fmt.Fprintf(p.w, "  liveness:       %s\n", onlineLabel(detail.Online))
	fmt.Fprintf(p.w, "  last heartbeat: %s\n\n", formatOptional(detail.LastHeartbeat))
	if len(detail.Recent) == 0 {
		fmt.Fprintln(p.w, gray("no events"))
		return nil
	}
	return p.table("TIMESTAMP\tKIND\tLEVEL\tNOTE", func(w io.Writer) {
		for _, e := range detail.Recent {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", models.FormatTimestamp(e.Timestamp), e.Kind, levelColor(e.Level), e.Note)
		}
	})
}

// NewRegionsCommand creates the regions command.
func NewRegionsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		windowHours int
		complete    bool
	)

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Show alert counts and risk tiers per region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if windowHours < 0 {
				return fmt.Errorf("window-hours must not be negative")
			}
			b, err := openBackend(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer b.Close()

			list, err := b.status.Regions(cmd.Context(), status.RegionQuery{
				Window:   time.Duration(windowHours) * time.Hour,
				Complete: complete,
			})
			if err != nil {
				return err
			}

			p := newPrinter(rootOpts, cmd.OutOrStdout())
			if p.json() {
				return p.writeJSON(list)
			}
			if len(list) == 0 {
				fmt.Fprintln(p.w, gray("no regional activity"))
				return nil
			}
			return p.table("REGION\tALERTS\tRESIDENTS\tTIER\tLATEST", func(w io.Writer) {
				for _, r := range list {
					fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
						r.Region, r.AlertCount, r.ResidentCount, tierColor(r.RiskTier), formatOptional(r.LatestTimestamp))
				}
			})
		},
	}

	cmd.Flags().IntVar(&windowHours, "window-hours", 0, "aggregation window, 0 uses the configured window")
	cmd.Flags().BoolVar(&complete, "complete", false, "include regions with no events")
	return cmd
}

// NewDigestCommand creates the digest command.
func NewDigestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Send the regional risk digest once",
		Long: `Compute the digest the API schedules and send it through the
configured alerts channel now.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer b.Close()

			report, err := digest.New(b.status, b.notifier, b.file.Status.Window(), b.logger).Run(cmd.Context())
			if err != nil {
				return err
			}

			p := newPrinter(rootOpts, cmd.OutOrStdout())
			if p.json() {
				return p.writeJSON(report)
			}
			fmt.Fprintf(p.w, "high-risk regions: %d\n", len(report.HighRisk))
			for _, r := range report.HighRisk {
				fmt.Fprintf(p.w, "  %s  %d alerts\n", red(r.Region), r.AlertCount)
			}
			fmt.Fprintf(p.w, "offline residents: %d\n", len(report.Offline))
			fmt.Fprintf(p.w, "notifications sent: %d\n", report.Sent)
			return nil
		},
	}
}
