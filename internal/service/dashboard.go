package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

var ErrExportDisabled = errors.New("dashboard export requires cloud services")

// Indicators is one set of dashboard KPIs. Target and efficiency are null when they
// do not apply.
type Indicators struct {
	TotalParkingEvents    int      `json:"total_parking_events"`
	CurrentOccupancyCount int      `json:"current_occupancy_count"`
	ActiveDevicesCount    int      `json:"active_devices_count"`
	AlertsTriggeredCount  int      `json:"alerts_triggered_count"`
	TargetParkingEvents   *int     `json:"target_parking_events"`
	Efficiency            *float64 `json:"efficiency"`
}

type Summary struct {
	Indicators
	ZoneWise map[string]Indicators `json:"zone_wise_indicators"`
}

type DashboardService struct {
	store    AggregateStore
	exporter SummaryExporter
	clock    domain.Clock
}

// Summary derives the KPIs for the scope and for each zone in it.
func (s *DashboardService) Summary(ctx context.Context, scope domain.Scope) (Summary, error) {
	zones, err := s.store.ListZones(ctx, scope)
	if err != nil {
		return Summary{}, fmt.Errorf("list zones: %w", err)
	}
	devices, err := s.store.ListDevices(ctx, scope)
	if err != nil {
		return Summary{}, fmt.Errorf("list devices: %w", err)
	}
	events, err := s.store.ZoneEventCounts(ctx, scope)
	if err != nil {
		return Summary{}, fmt.Errorf("count events: %w", err)
	}
	alerts, err := s.store.ZoneAlertCounts(ctx, scope)
	if err != nil {
		return Summary{}, fmt.Errorf("count alerts: %w", err)
	}
	latest, err := s.store.LatestOccupancy(ctx, scope)
	if err != nil {
		return Summary{}, fmt.Errorf("latest occupancy: %w", err)
	}

	zoneOf := make(map[int64]int64, len(devices))
	active := make(map[int64]int)
	for _, d := range devices {
		zoneOf[d.ID] = d.ZoneID
		if d.IsActive {
			active[d.ZoneID]++
		}
	}
	occupied := make(map[int64]int)
	for _, e := range latest {
		if zid, ok := zoneOf[e.DeviceID]; ok && e.IsOccupied {
			occupied[zid]++
		}
	}

	var targets map[int64]int
	if scope.Date != nil {
		ids := make([]int64, len(zones))
		for i, z := range zones {
			ids[i] = z.ID
		}
		if targets, err = s.store.TargetsForDate(ctx, *scope.Date, ids); err != nil {
			return Summary{}, fmt.Errorf("targets: %w", err)
		}
	}

	out := Summary{ZoneWise: make(map[string]Indicators, len(zones))}
	targetTotal := 0
	for _, z := range zones {
		zi := Indicators{
			TotalParkingEvents:    events[z.ID],
			CurrentOccupancyCount: occupied[z.ID],
			ActiveDevicesCount:    active[z.ID],
			AlertsTriggeredCount:  alerts[z.ID],
		}
		if t, ok := targets[z.ID]; ok {
			zi.TargetParkingEvents = intPtr(t)
			zi.Efficiency = efficiency(zi.TotalParkingEvents, t)
			targetTotal += t
		}
		out.ZoneWise[z.Code] = zi

		out.TotalParkingEvents += zi.TotalParkingEvents
		out.CurrentOccupancyCount += zi.CurrentOccupancyCount
		out.ActiveDevicesCount += zi.ActiveDevicesCount
		out.AlertsTriggeredCount += zi.AlertsTriggeredCount
	}
	if scope.Date != nil {
		out.TargetParkingEvents = intPtr(targetTotal)
		out.Efficiency = efficiency(out.TotalParkingEvents, targetTotal)
	}
	return out, nil
}

// HourlyUsage returns per-hour event totals ordered by hour.
func (s *DashboardService) HourlyUsage(ctx context.Context, scope domain.Scope) ([]domain.HourlyUsage, error) {
	rows, err := s.store.HourlyUsage(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("hourly usage: %w", err)
	}
	if rows == nil {
		rows = []domain.HourlyUsage{}
	}
	return rows, nil
}

// Export renders the summary as JSON and hands it to the exporter.
func (s *DashboardService) Export(ctx context.Context, scope domain.Scope) (string, error) {
	if s.exporter == nil {
		return "", ErrExportDisabled
	}
	sum, err := s.Summary(ctx, scope)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(sum)
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	day := scope.DateString()
	if day == "" {
		day = "all"
	}
	key := fmt.Sprintf("dashboard/%s/%s.json", day, s.clock.Now().Format("20060102T150405Z"))
	return s.exporter.ExportSummary(ctx, key, body)
}

// efficiency is events as a percentage of target, rounded to two places; nil when
// there is no positive target.
func efficiency(events, target int) *float64 {
	if target <= 0 {
		return nil
	}
	v := math.Round(float64(events)/float64(target)*100*100) / 100
	return &v
}

func intPtr(v int) *int { return &v }
