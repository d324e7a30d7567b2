package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/observability/metrics"
)

// AlertService keeps at most one ACTIVE alert per (device, alert type). The store's
// UpsertActiveAlert is the atomic unit; nothing here reads before writing.
type AlertService struct {
	store    AlertStore
	clock    domain.Clock
	notifier AlertNotifier
	log      zerolog.Logger
}

// Raise creates a new ACTIVE alert, or touches severity, message and
// last_triggered_at of the existing one. created reports which happened.
func (s *AlertService) Raise(ctx context.Context, t domain.AlertTrigger) (domain.Alert, bool, error) {
	if !t.Type.Valid() {
		return domain.Alert{}, false, &domain.ValidationError{Field: "alert_type", Reason: fmt.Sprintf("unknown %q", t.Type)}
	}
	if !t.Severity.Valid() {
		return domain.Alert{}, false, &domain.ValidationError{Field: "severity", Reason: fmt.Sprintf("unknown %q", t.Severity)}
	}
	t.At = s.clock.Now()

	alert, created, err := s.store.UpsertActiveAlert(ctx, t)
	if err != nil {
		return domain.Alert{}, false, fmt.Errorf("upsert %s alert for %s: %w", t.Type, t.DeviceCode, err)
	}
	metrics.ObserveAlertRaise(string(t.Type), created)

	if created && s.notifier != nil {
		if err := s.notifier.AlertRaised(ctx, alert); err != nil {
			s.log.Warn().Err(err).Int64("alert_id", alert.ID).Str("device_code", alert.DeviceCode).Msg("alert notification failed")
		}
	}
	return alert, created, nil
}

// Acknowledge sets ACKNOWLEDGED whatever the current status is.
func (s *AlertService) Acknowledge(ctx context.Context, id int64) (domain.Alert, error) {
	return s.store.SetAlertStatus(ctx, id, domain.StatusAcknowledged, s.clock.Now())
}

// Resolve sets RESOLVED whatever the current status is.
func (s *AlertService) Resolve(ctx context.Context, id int64) (domain.Alert, error) {
	return s.store.SetAlertStatus(ctx, id, domain.StatusResolved, s.clock.Now())
}

func (s *AlertService) Get(ctx context.Context, id int64) (domain.Alert, error) {
	return s.store.GetAlert(ctx, id)
}

func (s *AlertService) List(ctx context.Context, f domain.AlertFilter) ([]domain.Alert, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown %q", f.Status)}
	}
	if f.Severity != "" && !f.Severity.Valid() {
		return nil, &domain.ValidationError{Field: "severity", Reason: fmt.Sprintf("unknown %q", f.Severity)}
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, &domain.ValidationError{Field: "alert_type", Reason: fmt.Sprintf("unknown %q", f.Type)}
	}
	return s.store.ListAlerts(ctx, f)
}
