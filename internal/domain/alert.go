package domain

import "time"

type AlertType string

const (
	AlertDeviceOffline AlertType = "DEVICE_OFFLINE"
	AlertHighPower     AlertType = "HIGH_POWER"
	AlertInvalidData   AlertType = "INVALID_DATA"
)

func (t AlertType) Valid() bool {
	switch t {
	case AlertDeviceOffline, AlertHighPower, AlertInvalidData:
		return true
	}
	return false
}

type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

type AlertStatus string

const (
	StatusActive       AlertStatus = "ACTIVE"
	StatusAcknowledged AlertStatus = "ACKNOWLEDGED"
	StatusResolved     AlertStatus = "RESOLVED"
)

func (s AlertStatus) Valid() bool {
	switch s {
	case StatusActive, StatusAcknowledged, StatusResolved:
		return true
	}
	return false
}

type Alert struct {
	ID               int64       `db:"id" json:"id"`
	DeviceID         int64       `db:"device_id" json:"-"`
	DeviceCode       string      `db:"device_code" json:"device_code"`
	AlertType        AlertType   `db:"alert_type" json:"alert_type"`
	Severity         Severity    `db:"severity" json:"severity"`
	Status           AlertStatus `db:"status" json:"status"`
	Message          string      `db:"message" json:"message"`
	FirstTriggeredAt time.Time   `db:"first_triggered_at" json:"first_triggered_at"`
	LastTriggeredAt  time.Time   `db:"last_triggered_at" json:"last_triggered_at"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

// AlertTrigger is one raise request for a (device, alert type) lineage.
type AlertTrigger struct {
	DeviceID   int64
	DeviceCode string
	Type       AlertType
	Severity   Severity
	Message    string
	At         time.Time
}

// AlertFilter selects alerts for listing. Zero fields match everything.
type AlertFilter struct {
	Status     AlertStatus
	Severity   Severity
	Type       AlertType
	DeviceCode string
}
