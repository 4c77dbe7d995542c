// Package signals provides the sensor sources feeding the write loop.
package signals

import (
	"context"
	"fmt"
	"strings"

	"github.com/dhima/rural-vitals/internal/detector"
	"github.com/dhima/rural-vitals/pkg/clock"
	"github.com/dhima/rural-vitals/pkg/config"
)

// Source yields one sample per call.
type Source interface {
	Read(ctx context.Context) (float64, error)
}

// Source types accepted in config.
const (
	TypeNone     = "none"
	TypeConstant = "constant"
	TypeSine     = "sine"
	TypeCSV      = "csv"
)

// New builds a source from cfg. An empty or "none" type returns a nil Source,
// meaning the signal is absent.
func New(cfg config.SourceConfig, clk clock.Clock) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", TypeNone:
		return nil, nil
	case TypeConstant:
		return Constant(cfg.Value), nil
	case TypeSine:
		return NewSine(cfg.Base, cfg.Amplitude, cfg.Period, clk), nil
	case TypeCSV:
		column := cfg.Column
		if column == "" {
			column = DefaultColumn
		}
		return LoadCSVReplay(cfg.Path, column)
	default:
		return nil, fmt.Errorf("unknown signal source type %q", cfg.Type)
	}
}

// Station groups the sources of one resident's edge device.
type Station struct {
	ResidentID string
	EdgeID     string
	Motion     Source
	Heart      Source
	Breathing  Source
}

// NewStation builds a station from its config entry.
func NewStation(cfg config.Station, clk clock.Clock) (*Station, error) {
	st := &Station{ResidentID: strings.TrimSpace(cfg.ResidentID), EdgeID: strings.TrimSpace(cfg.EdgeID)}

	var err error
	if st.Motion, err = New(cfg.Motion, clk); err != nil {
		return nil, fmt.Errorf("failed to build motion source: %w", err)
	}
	if st.Heart, err = New(cfg.Heart, clk); err != nil {
		return nil, fmt.Errorf("failed to build heart source: %w", err)
	}
	if st.Breathing, err = New(cfg.Breathing, clk); err != nil {
		return nil, fmt.Errorf("failed to build breathing source: %w", err)
	}
	return st, nil
}

// Read samples every source. Missing sources and read errors become absent values.
func (s *Station) Read(ctx context.Context) detector.Reading {
	return detector.Reading{
		Motion:        sample(ctx, s.Motion),
		HeartRate:     sample(ctx, s.Heart),
		BreathingRate: sample(ctx, s.Breathing),
	}
}

func sample(ctx context.Context, src Source) *float64 {
	if src == nil {
		return nil
	}
	v, err := src.Read(ctx)
	if err != nil {
		return nil
	}
	return detector.Value(v)
}
