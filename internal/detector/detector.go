// Package detector turns per-tick sensor readings into discrete health findings.
package detector

import (
	"fmt"
	"math"

	"github.com/dhima/rural-vitals/internal/models"
)

// InactivityEpsilon is the motion score at or below which a tick counts as still.
const InactivityEpsilon = 0.01

// Thresholds configures a Detector. Ranges are inclusive.
type Thresholds struct {
	InactivitySeconds int
	BreathingLow      float64
	BreathingHigh     float64
	HeartLow          float64
	HeartHigh         float64
}

// Validate checks the thresholds are usable.
func (t Thresholds) Validate() error {
	if t.InactivitySeconds < 1 {
		return newConfigError("inactivity_sec must be >= 1, got %d", t.InactivitySeconds)
	}
	if err := checkRange("resp_brpm", t.BreathingLow, t.BreathingHigh); err != nil {
		return err
	}
	return checkRange("hr_bpm", t.HeartLow, t.HeartHigh)
}

func checkRange(name string, low, high float64) error {
	if !finite(low) || !finite(high) {
		return newConfigError("%s bounds must be finite numbers", name)
	}
	if low >= high {
		return newConfigError("%s_low (%g) must be below %s_high (%g)", name, low, name, high)
	}
	return nil
}

// Reading is one tick of sensor values. A nil field means the reading is absent.
type Reading struct {
	Motion        *float64
	HeartRate     *float64
	BreathingRate *float64
}

// Value wraps v for use in a Reading. NaN, infinities and negative values
// are malformed sensor output and yield an absent reading.
func Value(v float64) *float64 {
	if !finite(v) || v < 0 {
		return nil
	}
	return &v
}

// Finding is one (kind, level, note) outcome of a tick.
type Finding struct {
	Kind  models.Kind
	Level models.Level
	Note  string
}

// Detector holds the stillness counter for one resident/edge pair.
// It is not safe for concurrent use; the write loop drives it from one goroutine.
type Detector struct {
	th       Thresholds
	stillFor int
}

// New builds a detector, rejecting malformed thresholds with a *ConfigError.
func New(th Thresholds) (*Detector, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return &Detector{th: th}, nil
}

// StillFor returns the current number of consecutive still ticks.
func (d *Detector) StillFor() int { return d.stillFor }

// Evaluate advances the detector by one tick. It always returns at least one finding.
func (d *Detector) Evaluate(r Reading) []Finding {
	var out []Finding

	if m := sanitize(r.Motion); m != nil {
		if *m <= InactivityEpsilon {
			d.stillFor++
		} else {
			d.stillFor = 0
		}
		if d.stillFor >= d.th.InactivitySeconds {
			out = append(out, Finding{
				Kind:  models.KindInactivity,
				Level: models.LevelAlert,
				Note:  fmt.Sprintf("no motion ≥%ds", d.th.InactivitySeconds),
			})
			// Edge-triggered: a continuing still period has to re-accumulate.
			d.stillFor = 0
		}
	}

	if br := sanitize(r.BreathingRate); br != nil && outside(*br, d.th.BreathingLow, d.th.BreathingHigh) {
		out = append(out, Finding{
			Kind:  models.KindResp,
			Level: models.LevelAlert,
			Note:  fmt.Sprintf("br=%.1f rpm out of range", *br),
		})
	}

	if hr := sanitize(r.HeartRate); hr != nil && outside(*hr, d.th.HeartLow, d.th.HeartHigh) {
		out = append(out, Finding{
			Kind:  models.KindHR,
			Level: models.LevelAlert,
			Note:  fmt.Sprintf("hr=%.1f bpm out of range", *hr),
		})
	}

	if len(out) == 0 {
		out = append(out, Finding{Kind: models.KindHeartbeat, Level: models.LevelInfo, Note: models.HeartbeatNote})
	}
	return out
}

func sanitize(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Value(*v)
}

func outside(v, low, high float64) bool {
	return v < low || v > high
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
