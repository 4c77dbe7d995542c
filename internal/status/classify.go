package status

import (
	"time"

	"github.com/dhima/rural-vitals/internal/models"
)

// Risk tier breakpoints on the windowed alert count.
const (
	HighRiskAlerts   = 10
	MediumRiskAlerts = 5
)

// IsOnline reports whether hb is no older than freshness at now.
// A missing heartbeat is offline; one from the future counts as online.
func IsOnline(hb *models.Event, now time.Time, freshness time.Duration) bool {
	if hb == nil || hb.Timestamp.IsZero() {
		return false
	}
	return now.Sub(hb.Timestamp) <= freshness
}

// Classify derives a resident's status from its latest event alone.
// There is no sticky alert state: a later heartbeat returns the resident to normal.
func Classify(latest *models.Event) models.Status {
	if latest == nil || latest.Level != models.LevelAlert {
		return models.StatusNormal
	}
	switch latest.Kind {
	case models.KindHR, models.KindResp:
		return models.StatusCritical
	case models.KindInactivity:
		return models.StatusWarning
	}
	return models.StatusNormal
}

// RiskTierFor maps a windowed alert count to a tier.
func RiskTierFor(alerts int) models.RiskTier {
	switch {
	case alerts >= HighRiskAlerts:
		return models.RiskHigh
	case alerts >= MediumRiskAlerts:
		return models.RiskMedium
	}
	return models.RiskLow
}
