package signals

import (
	"context"
	"math"
	"time"

	"github.com/dhima/rural-vitals/pkg/clock"
)

// Constant always yields the same value.
type Constant float64

func (c Constant) Read(context.Context) (float64, error) {
	return float64(c), nil
}

// DefaultSinePeriod is the divisor used when no period is configured.
const DefaultSinePeriod = 10.0

// Sine yields base + amplitude*sin(t/period), t being seconds since construction.
type Sine struct {
	base      float64
	amplitude float64
	period    float64
	start     time.Time
	clock     clock.Clock
}

func NewSine(base, amplitude, period float64, clk clock.Clock) *Sine {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if period <= 0 {
		period = DefaultSinePeriod
	}
	return &Sine{base: base, amplitude: amplitude, period: period, start: clk.Now(), clock: clk}
}

func (s *Sine) Read(context.Context) (float64, error) {
	t := s.clock.Now().Sub(s.start).Seconds()
	return s.base + s.amplitude*math.Sin(t/s.period), nil
}
