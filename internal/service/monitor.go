package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/observability/metrics"
)

type SweepResult struct {
	Created int `json:"created"`
	Touched int `json:"touched"`
}

// HealthMonitor raises DEVICE_OFFLINE for active devices silent longer than
// domain.OfflineThreshold. Safe to run from several schedulers at once.
type HealthMonitor struct {
	devices DeviceStore
	alerts  *AlertService
	clock   domain.Clock
	log     zerolog.Logger
}

// RunSweep stops at the first store failure and returns the counts reached so far.
func (m *HealthMonitor) RunSweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	cutoff := m.clock.Now().Add(-domain.OfflineThreshold)

	stale, err := m.devices.StaleDevices(ctx, cutoff)
	if err != nil {
		metrics.ObserveSweep(res.Created, res.Touched, err)
		return res, fmt.Errorf("select stale devices: %w", err)
	}
	for _, d := range stale {
		_, created, err := m.alerts.Raise(ctx, domain.AlertTrigger{
			DeviceID:   d.ID,
			DeviceCode: d.DeviceCode,
			Type:       domain.AlertDeviceOffline,
			Severity:   domain.SeverityCritical,
			Message:    offlineMessage(d),
		})
		if err != nil {
			metrics.ObserveSweep(res.Created, res.Touched, err)
			return res, err
		}
		if created {
			res.Created++
		} else {
			res.Touched++
		}
	}
	metrics.ObserveSweep(res.Created, res.Touched, nil)
	m.log.Info().Int("created", res.Created).Int("touched", res.Touched).Msg("offline check done")
	return res, nil
}

func offlineMessage(d domain.Device) string {
	seen := "never"
	if d.LastSeen != nil {
		seen = d.LastSeen.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("Device %s is offline. last_seen=%s", d.DeviceCode, seen)
}
