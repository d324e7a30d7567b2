package service

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

type Options struct {
	Clock          domain.Clock
	Logger         zerolog.Logger
	Location       *time.Location
	HighPowerWatts float64
	Notifier       AlertNotifier
	Exporter       SummaryExporter
}

type Services struct {
	Store     Store
	Telemetry *TelemetryService
	Occupancy *OccupancyService
	Alerts    *AlertService
	Monitor   *HealthMonitor
	Dashboard *DashboardService
	Status    *StatusService
	Location  *time.Location
}

func New(store Store, opts Options) *Services {
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock{}
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	alerts := &AlertService{store: store, clock: opts.Clock, notifier: opts.Notifier, log: opts.Logger}
	return &Services{
		Store: store,
		Telemetry: &TelemetryService{
			devices: store,
			store:   store,
			clock:   opts.Clock,
			power:   &PowerDetector{alerts: alerts, thresholdWatts: opts.HighPowerWatts},
			log:     opts.Logger,
		},
		Occupancy: &OccupancyService{devices: store, store: store, clock: opts.Clock, log: opts.Logger},
		Alerts:    alerts,
		Monitor:   &HealthMonitor{devices: store, alerts: alerts, clock: opts.Clock, log: opts.Logger},
		Dashboard: &DashboardService{store: store, exporter: opts.Exporter, clock: opts.Clock},
		Status:    &StatusService{devices: store, clock: opts.Clock},
		Location:  opts.Location,
	}
}
