package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingThresholds is returned when the config has no thresholds section.
var ErrMissingThresholds = errors.New("thresholds section is required")

// File is the YAML deployment configuration.
type File struct {
	Thresholds *Thresholds `yaml:"thresholds"`
	Storage    Storage     `yaml:"storage"`
	Alerts     Alerts      `yaml:"alerts"`
	Residents  []Resident  `yaml:"residents"`
	Regions    []string    `yaml:"regions"`
	Stations   []Station   `yaml:"stations"`
	Status     Status      `yaml:"status"`
	Agent      Agent       `yaml:"agent"`
	Digest     Digest      `yaml:"digest"`
}

// Thresholds are the detector limits. Ranges are inclusive.
type Thresholds struct {
	InactivitySec int     `yaml:"inactivity_sec"`
	RespLow       float64 `yaml:"resp_brpm_low"`
	RespHigh      float64 `yaml:"resp_brpm_high"`
	HRLow         float64 `yaml:"hr_bpm_low"`
	HRHigh        float64 `yaml:"hr_bpm_high"`
}

type Storage struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
	DSN        string `yaml:"dsn"`
}

// Alerts selects the notification channel. Mode-specific keys are ignored by other modes.
type Alerts struct {
	Mode               string `yaml:"mode"`
	MinIntervalSeconds int    `yaml:"min_interval_seconds"`
	TimeoutSeconds     int    `yaml:"timeout_seconds"`

	// ble
	Device string `yaml:"device"`

	// sms
	GatewayURL string   `yaml:"gateway_url"`
	APIKey     string   `yaml:"api_key"`
	Recipients []string `yaml:"recipients"`
	Sender     string   `yaml:"sender"`

	// mqtt
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QoS      byte   `yaml:"qos"`

	// kafka
	Brokers []string `yaml:"brokers"`

	// mqtt and kafka
	Topic string `yaml:"topic"`

	// redis; password is shared with mqtt
	Addr   string `yaml:"addr"`
	DB     int    `yaml:"db"`
	Stream string `yaml:"stream"`
}

type Resident struct {
	ID     string `yaml:"resident_id"`
	Name   string `yaml:"name"`
	Region string `yaml:"region"`
}

// Station binds one resident/edge pair to its sensor sources.
type Station struct {
	ResidentID string       `yaml:"resident_id"`
	EdgeID     string       `yaml:"edge_id"`
	Motion     SourceConfig `yaml:"motion"`
	Heart      SourceConfig `yaml:"heart"`
	Breathing  SourceConfig `yaml:"breathing"`
}

// SourceConfig describes one signal source: csv, sine, constant or none.
type SourceConfig struct {
	Type      string  `yaml:"type"`
	Path      string  `yaml:"path"`
	Column    string  `yaml:"column"`
	Value     float64 `yaml:"value"`
	Base      float64 `yaml:"base"`
	Amplitude float64 `yaml:"amplitude"`
	Period    float64 `yaml:"period_seconds"`
}

type Status struct {
	FreshnessSeconds int `yaml:"freshness_seconds"`
	WindowHours      int `yaml:"window_hours"`
}

type Agent struct {
	TickSeconds int `yaml:"tick_seconds"`
}

// DefaultDigestCron runs the digest every fifteen minutes.
const DefaultDigestCron = "0 */15 * * * *"

// Digest schedules the regional risk summary.
type Digest struct {
	Cron     *string `yaml:"cron"`
	Timezone string  `yaml:"timezone"`
}

// Expression returns the cron expression; unset means the default and "" disables.
func (d Digest) Expression() string {
	if d.Cron == nil {
		return DefaultDigestCron
	}
	return *d.Cron
}

// Freshness returns the heartbeat freshness window.
func (s Status) Freshness() time.Duration {
	return time.Duration(s.FreshnessSeconds) * time.Second
}

// Window returns the regional aggregation window.
func (s Status) Window() time.Duration {
	return time.Duration(s.WindowHours) * time.Hour
}

// Tick returns the write loop cadence.
func (a Agent) Tick() time.Duration {
	return time.Duration(a.TickSeconds) * time.Second
}

// LoadFile reads and parses the YAML config at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML config data and fills defaults.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if f.Thresholds == nil {
		return nil, ErrMissingThresholds
	}
	f.applyDefaults()
	return &f, nil
}

func (f *File) applyDefaults() {
	if f.Storage.Driver == "" {
		f.Storage.Driver = "sqlite"
	}
	if f.Storage.SQLitePath == "" {
		f.Storage.SQLitePath = "data/events.sqlite"
	}
	if f.Alerts.Mode == "" {
		f.Alerts.Mode = "none"
	}
	if f.Alerts.TimeoutSeconds <= 0 {
		f.Alerts.TimeoutSeconds = 5
	}
	if f.Status.FreshnessSeconds <= 0 {
		f.Status.FreshnessSeconds = 90
	}
	if f.Status.WindowHours <= 0 {
		f.Status.WindowHours = 24
	}
	if f.Agent.TickSeconds <= 0 {
		f.Agent.TickSeconds = 1
	}
}
