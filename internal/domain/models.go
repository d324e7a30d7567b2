package domain

import "time"

const (
	// OfflineThreshold is how long a device may stay silent before it counts as offline.
	OfflineThreshold = 2 * time.Minute
	// MaxFutureSkew bounds how far ahead of the server clock a reading timestamp may be.
	MaxFutureSkew = 5 * time.Minute
)

type Facility struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Location  *string   `db:"location" json:"location"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Zone struct {
	ID         int64     `db:"id" json:"id"`
	FacilityID int64     `db:"facility_id" json:"parking_facility"`
	Name       string    `db:"name" json:"name"`
	Code       string    `db:"code" json:"code"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type Device struct {
	ID         int64      `db:"id" json:"id"`
	ZoneID     int64      `db:"zone_id" json:"parking_zone"`
	DeviceCode string     `db:"device_code" json:"device_code"`
	IsActive   bool       `db:"is_active" json:"is_active"`
	LastSeen   *time.Time `db:"last_seen" json:"last_seen"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// SeenWithin reports whether the device reported after now-window.
func (d Device) SeenWithin(now time.Time, window time.Duration) bool {
	return d.LastSeen != nil && !d.LastSeen.Before(now.Add(-window))
}

type Telemetry struct {
	ID          int64     `db:"id" json:"id"`
	DeviceID    int64     `db:"device_id" json:"-"`
	DeviceCode  string    `db:"device_code" json:"device_code"`
	Voltage     float64   `db:"voltage" json:"voltage"`
	Current     float64   `db:"current" json:"current"`
	PowerFactor float64   `db:"power_factor" json:"power_factor"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
}

// PowerWatts is the real power drawn at the time of the reading.
func (t Telemetry) PowerWatts() float64 {
	return t.Voltage * t.Current * t.PowerFactor
}

type OccupancyEvent struct {
	ID         int64     `db:"id" json:"id"`
	DeviceID   int64     `db:"device_id" json:"-"`
	DeviceCode string    `db:"device_code" json:"device_code"`
	IsOccupied bool      `db:"is_occupied" json:"is_occupied"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
}

type Target struct {
	ID               int64     `db:"id" json:"id"`
	ZoneID           int64     `db:"zone_id" json:"parking_zone"`
	Date             time.Time `db:"date" json:"date"`
	TargetEventCount int       `db:"target_event_count" json:"target_parking_events"`
}

// DeviceHealth is a device joined with its zone, facility and ACTIVE alert count.
type DeviceHealth struct {
	Device
	ZoneCode     string `db:"zone_code"`
	FacilityName string `db:"facility_name"`
	ActiveAlerts int    `db:"active_alerts"`
}

type HourlyUsage struct {
	Hour           time.Time `db:"hour" json:"hour"`
	TotalEvents    int       `db:"total_events" json:"total_events"`
	OccupiedEvents int       `db:"occupied_events" json:"occupied_events"`
}
