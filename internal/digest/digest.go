// Package digest periodically summarizes regional risk and offline residents
// through the notifier.
package digest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/models"
	"github.com/dhima/rural-vitals/internal/status"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StatusReader is the part of the aggregator the digest reads.
type StatusReader interface {
	Residents(ctx context.Context) ([]models.ResidentStatus, error)
	Regions(ctx context.Context, q status.RegionQuery) ([]models.RegionSummary, error)
}

// Notifier delivers digest messages.
type Notifier interface {
	Send(ctx context.Context, title, message string) bool
}

// OfflineTitle is the title of the offline summary notification.
const OfflineTitle = "OFFLINE"

// maxListed caps how many resident ids the offline summary spells out.
const maxListed = 10

// Report is what one digest run found and sent.
type Report struct {
	HighRisk []models.RegionSummary `json:"high_risk"`
	Offline  []string               `json:"offline"`
	Sent     int                    `json:"sent"`
}

// Digest builds and sends the summary.
type Digest struct {
	status   StatusReader
	notifier Notifier
	window   time.Duration
	logger   logging.Logger
}

// New creates a digest over the trailing window. A zero window uses the aggregator default.
func New(st StatusReader, notifier Notifier, window time.Duration, logger logging.Logger) *Digest {
	return &Digest{
		status:   st,
		notifier: notifier,
		window:   window,
		logger:   logger.With(zap.String("component", "digest")),
	}
}

// Run computes the digest and sends one notification per high-risk region and
// one for all offline residents. Delivery failures are logged, not returned.
func (d *Digest) Run(ctx context.Context) (Report, error) {
	var report Report

	regions, err := d.status.Regions(ctx, status.RegionQuery{Window: d.window})
	if err != nil {
		return report, fmt.Errorf("failed to aggregate regions: %w", err)
	}
	residents, err := d.status.Residents(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load residents: %w", err)
	}

	for _, r := range regions {
		if r.RiskTier == models.RiskHigh {
			report.HighRisk = append(report.HighRisk, r)
		}
	}
	for _, r := range residents {
		if !r.Online {
			report.Offline = append(report.Offline, r.Resident.ID)
		}
	}
	sort.Strings(report.Offline)

	hours := int(d.windowOrDefault().Hours())
	for _, r := range report.HighRisk {
		title := "RISK " + r.Region
		msg := fmt.Sprintf("%d alerts across %d residents in the last %dh", r.AlertCount, r.ResidentCount, hours)
		d.send(ctx, title, msg, &report)
	}
	if len(report.Offline) > 0 {
		d.send(ctx, OfflineTitle, offlineMessage(report.Offline), &report)
	}

	d.logger.Info("digest sent",
		zap.Int("high_risk_regions", len(report.HighRisk)),
		zap.Int("offline_residents", len(report.Offline)),
		zap.Int("delivered", report.Sent))
	return report, nil
}

func (d *Digest) windowOrDefault() time.Duration {
	if d.window > 0 {
		return d.window
	}
	return status.DefaultWindow
}

func (d *Digest) send(ctx context.Context, title, msg string, report *Report) {
	if d.notifier == nil {
		return
	}
	if d.notifier.Send(ctx, title, msg) {
		report.Sent++
		return
	}
	d.logger.Warn("digest notification not delivered", zap.String("title", title))
}

func offlineMessage(ids []string) string {
	listed := ids
	if len(listed) > maxListed {
		listed = listed[:maxListed]
	}
	msg := fmt.Sprintf("%d residents offline: %s", len(ids), strings.Join(listed, ", "))
	if extra := len(ids) - len(listed); extra > 0 {
		msg += fmt.Sprintf(" (+%d more)", extra)
	}
	return msg
}

// Schedule runs the digest on expr until ctx is done. An empty expr disables
// the digest and returns immediately.
func (d *Digest) Schedule(ctx context.Context, expr, timezone string) error {
	if expr == "" {
		d.logger.Info("digest disabled")
		return nil
	}
	loc, err := resolveTimezone(timezone)
	if err != nil {
		return err
	}

	c := cron.New(cron.WithParser(parser), cron.WithLocation(loc))
	if _, err := c.AddFunc(expr, func() {
		if _, err := d.Run(ctx); err != nil {
			d.logger.Error("digest run failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	next, _ := NextRun(expr, timezone, time.Now())
	d.logger.Info("digest scheduled", zap.String("cron", expr), zap.Time("next_run", next))

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
