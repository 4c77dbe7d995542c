package models

import "time"

// RegionUnassigned collects residents without a known region.
const RegionUnassigned = "unassigned"

// DefaultRegions is the administrative area set used when none is configured.
var DefaultRegions = []string{
	"Jecheon", "Cheongju", "Chungju",
	"Goesan", "Danyang", "Boeun", "Yeongdong", "Okcheon", "Eumseong", "Jeungpyeong", "Jincheon",
}

// Resident is a monitored person.
type Resident struct {
	ID     string `json:"resident_id" yaml:"resident_id" example:"CB-001"`
	Name   string `json:"name" yaml:"name" example:"Kim Younghee"`
	Region string `json:"region" yaml:"region" example:"Cheongju"`
}

// Status is the classification of a resident's most recent signal.
type Status string

const (
	StatusCritical Status = "critical"
	StatusWarning  Status = "warning"
	StatusNormal   Status = "normal"
)

// Rank orders statuses by severity, most severe first.
func (s Status) Rank() int {
	switch s {
	case StatusCritical:
		return 0
	case StatusWarning:
		return 1
	}
	return 2
}

// RiskTier is the regional risk bucket derived from alert volume.
type RiskTier string

const (
	RiskHigh   RiskTier = "high"
	RiskMedium RiskTier = "medium"
	RiskLow    RiskTier = "low"
)

// ResidentStatus is the live view of one resident.
type ResidentStatus struct {
	Resident      Resident   `json:"resident"`
	Status        Status     `json:"status" example:"critical"`
	Online        bool       `json:"online" example:"true"`
	LastHeartbeat *time.Time `json:"last_heartbeat,omitempty"`
	Latest        *Event     `json:"latest,omitempty"`
} // @name ResidentStatus

// ResidentDetail adds recent history to a resident's status.
type ResidentDetail struct {
	ResidentStatus
	Recent []Event `json:"recent"`
} // @name ResidentDetail

// RegionSummary is the rolled-up statistics for one region over a window.
type RegionSummary struct {
	Region          string     `json:"region" example:"Cheongju"`
	AlertCount      int        `json:"alert_count" example:"6"`
	ResidentCount   int        `json:"resident_count" example:"4"`
	LatestTimestamp *time.Time `json:"latest_timestamp,omitempty"`
	RiskTier        RiskTier   `json:"risk_tier" example:"medium"`
} // @name RegionSummary

// Overview holds the headline numbers of the dashboard.
type Overview struct {
	TotalEvents     int64      `json:"total_events" example:"1250"`
	AlertEvents     int64      `json:"alert_events" example:"45"`
	LatestTimestamp *time.Time `json:"latest_timestamp,omitempty"`
	Residents       int        `json:"residents" example:"12"`
	Online          int        `json:"online" example:"11"`
	Offline         int        `json:"offline" example:"1"`
	Critical        int        `json:"critical" example:"1"`
	Warning         int        `json:"warning" example:"2"`
} // @name Overview
