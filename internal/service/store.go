package service

import (
	"context"
	"time"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

type DeviceStore interface {
	DevicesByCode(ctx context.Context, codes []string) (map[string]domain.Device, error)
	TouchLastSeen(ctx context.Context, ids []int64, at time.Time) error
	StaleDevices(ctx context.Context, cutoff time.Time) ([]domain.Device, error)
	DeviceHealth(ctx context.Context, scope domain.Scope) ([]domain.DeviceHealth, error)
}

type ReadingStore interface {
	InsertTelemetry(ctx context.Context, readings []domain.Telemetry) ([]domain.Telemetry, error)
	InsertOccupancyEvents(ctx context.Context, events []domain.OccupancyEvent) (int64, error)
}

type AlertStore interface {
	UpsertActiveAlert(ctx context.Context, t domain.AlertTrigger) (domain.Alert, bool, error)
	SetAlertStatus(ctx context.Context, id int64, status domain.AlertStatus, at time.Time) (domain.Alert, error)
	GetAlert(ctx context.Context, id int64) (domain.Alert, error)
	ListAlerts(ctx context.Context, f domain.AlertFilter) ([]domain.Alert, error)
}

type AggregateStore interface {
	ListZones(ctx context.Context, scope domain.Scope) ([]domain.Zone, error)
	ListDevices(ctx context.Context, scope domain.Scope) ([]domain.Device, error)
	ZoneEventCounts(ctx context.Context, scope domain.Scope) (map[int64]int, error)
	ZoneAlertCounts(ctx context.Context, scope domain.Scope) (map[int64]int, error)
	LatestOccupancy(ctx context.Context, scope domain.Scope) ([]domain.OccupancyEvent, error)
	TargetsForDate(ctx context.Context, date time.Time, zoneIDs []int64) (map[int64]int, error)
	HourlyUsage(ctx context.Context, scope domain.Scope) ([]domain.HourlyUsage, error)
}

// Store is the full Entity Store surface consumed by the services.
type Store interface {
	DeviceStore
	ReadingStore
	AlertStore
	AggregateStore
	ListFacilities(ctx context.Context) ([]domain.Facility, error)
}

// AlertNotifier receives alerts that were newly created (not touched).
type AlertNotifier interface {
	AlertRaised(ctx context.Context, alert domain.Alert) error
}

// SummaryExporter stores a rendered dashboard summary and returns a download URL.
type SummaryExporter interface {
	ExportSummary(ctx context.Context, key string, body []byte) (string, error)
}
