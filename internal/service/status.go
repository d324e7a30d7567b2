package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

const (
	StatusOK      = "OK"
	StatusAlert   = "ALERT"
	StatusOffline = "OFFLINE"
)

type DeviceStatus struct {
	DeviceCode   string     `json:"device_code"`
	ZoneCode     string     `json:"zone_code"`
	Facility     string     `json:"facility"`
	IsActive     bool       `json:"is_active"`
	LastSeen     *time.Time `json:"last_seen"`
	Status       string     `json:"status"`
	HealthScore  int        `json:"health_score"`
	ActiveAlerts int        `json:"active_alerts"`
}

type StatusService struct {
	devices DeviceStore
	clock   domain.Clock
}

// List projects every device in the zone/facility scope. The date filter is ignored.
func (s *StatusService) List(ctx context.Context, scope domain.Scope) ([]DeviceStatus, error) {
	scope.Date = nil
	rows, err := s.devices.DeviceHealth(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("device health: %w", err)
	}
	now := s.clock.Now()
	out := make([]DeviceStatus, 0, len(rows))
	for _, h := range rows {
		label, score := Classify(h, now)
		out = append(out, DeviceStatus{
			DeviceCode:   h.DeviceCode,
			ZoneCode:     h.ZoneCode,
			Facility:     h.FacilityName,
			IsActive:     h.IsActive,
			LastSeen:     h.LastSeen,
			Status:       label,
			HealthScore:  score,
			ActiveAlerts: h.ActiveAlerts,
		})
	}
	return out, nil
}

// Classify returns the status label and the [0,100] display score.
func Classify(h domain.DeviceHealth, now time.Time) (string, int) {
	online := h.SeenWithin(now, domain.OfflineThreshold)

	label := StatusOK
	switch {
	case !online:
		label = StatusOffline
	case h.ActiveAlerts > 0:
		label = StatusAlert
	}

	score := 0
	if online {
		score += 60
	}
	if h.IsActive {
		score += 20
	}
	score -= min(h.ActiveAlerts*10, 30)
	return label, max(0, min(100, score))
}
