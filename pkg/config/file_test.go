package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
thresholds:
  inactivity_sec: 180
  resp_brpm_low: 8
  resp_brpm_high: 30
  hr_bpm_low: 45
  hr_bpm_high: 130
storage:
  sqlite_path: /var/lib/vitals/events.sqlite
alerts:
  mode: sms
  gateway_url: http://sms.local/send
  recipients: ["01012345678"]
  min_interval_seconds: 60
residents:
  - resident_id: CB-001
    name: Kim
    region: Cheongju
stations:
  - resident_id: CB-001
    edge_id: edge-01
    heart:
      type: csv
      path: data/ppg.csv
    breathing:
      type: sine
      base: 14
      amplitude: 2
      period_seconds: 10
digest:
  cron: ""
`

func TestParse_WhenFullConfig_ThenDecodesAllSections(t *testing.T) {
	// Act
	f, err := Parse([]byte(sampleConfig))

	// Assert
	require.NoError(t, err)
	require.NotNil(t, f.Thresholds)
	assert.Equal(t, 180, f.Thresholds.InactivitySec)
	assert.Equal(t, 130.0, f.Thresholds.HRHigh)
	assert.Equal(t, "sqlite", f.Storage.Driver)
	assert.Equal(t, "/var/lib/vitals/events.sqlite", f.Storage.SQLitePath)
	assert.Equal(t, "sms", f.Alerts.Mode)
	assert.Equal(t, []string{"01012345678"}, f.Alerts.Recipients)
	assert.Len(t, f.Residents, 1)
	require.Len(t, f.Stations, 1)
	assert.Equal(t, "csv", f.Stations[0].Heart.Type)
	assert.Equal(t, "", f.Stations[0].Motion.Type)
	assert.Equal(t, 10.0, f.Stations[0].Breathing.Period)
	assert.Equal(t, "", f.Digest.Expression())
}

func TestParse_WhenSectionsOmitted_ThenAppliesDefaults(t *testing.T) {
	// Arrange
	data := []byte("thresholds:\n  inactivity_sec: 60\n")

	// Act
	f, err := Parse(data)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "none", f.Alerts.Mode)
	assert.Equal(t, 90*time.Second, f.Status.Freshness())
	assert.Equal(t, 24*time.Hour, f.Status.Window())
	assert.Equal(t, time.Second, f.Agent.Tick())
	assert.Equal(t, DefaultDigestCron, f.Digest.Expression())
}

func TestParse_WhenThresholdsMissing_ThenReturnsError(t *testing.T) {
	// Act
	_, err := Parse([]byte("storage:\n  driver: sqlite\n"))

	// Assert
	assert.ErrorIs(t, err, ErrMissingThresholds)
}

func TestParse_WhenUnknownKey_ThenReturnsError(t *testing.T) {
	// Act
	_, err := Parse([]byte("thresholds:\n  inactivity_sec: 60\n  bogus: 1\n"))

	// Assert
	assert.Error(t, err)
}

func TestLoadFile_WhenFileExists_ThenParses(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "default.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	// Act
	f, err := LoadFile(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 60, f.Alerts.MinIntervalSeconds)
}

func TestLoadFile_WhenFileMissing_ThenReturnsError(t *testing.T) {
	// Act
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))

	// Assert
	assert.ErrorIs(t, err, os.ErrNotExist)
}
