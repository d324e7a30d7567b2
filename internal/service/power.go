package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

// PowerDetector raises HIGH_POWER and INVALID_DATA alerts from accepted readings.
// A zero threshold disables the HIGH_POWER check.
type PowerDetector struct {
	alerts         *AlertService
	thresholdWatts float64
}

// Inspect raises at most one alert per (device, type) per batch, describing the
// newest offending reading. It returns the number of raises issued.
func (p *PowerDetector) Inspect(ctx context.Context, readings []domain.Telemetry) (int, error) {
	type key struct {
		device int64
		typ    domain.AlertType
	}
	worst := make(map[key]domain.Telemetry)
	var order []key
	for _, r := range readings {
		for _, typ := range p.classify(r) {
			k := key{r.DeviceID, typ}
			prev, ok := worst[k]
			if !ok {
				order = append(order, k)
			}
			if !ok || r.Timestamp.After(prev.Timestamp) {
				worst[k] = r
			}
		}
	}

	var errs []error
	raised := 0
	for _, k := range order {
		r := worst[k]
		_, _, err := p.alerts.Raise(ctx, domain.AlertTrigger{
			DeviceID:   r.DeviceID,
			DeviceCode: r.DeviceCode,
			Type:       k.typ,
			Severity:   domain.SeverityWarning,
			Message:    p.message(k.typ, r),
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		raised++
	}
	return raised, errors.Join(errs...)
}

func (p *PowerDetector) classify(r domain.Telemetry) []domain.AlertType {
	var out []domain.AlertType
	if r.Voltage < 0 || r.Current < 0 || r.PowerFactor < 0 || r.PowerFactor > 1 {
		out = append(out, domain.AlertInvalidData)
	}
	if p.thresholdWatts > 0 && r.PowerWatts() > p.thresholdWatts {
		out = append(out, domain.AlertHighPower)
	}
	return out
}

func (p *PowerDetector) message(typ domain.AlertType, r domain.Telemetry) string {
	if typ == domain.AlertHighPower {
		return fmt.Sprintf("Device %s drew %.1f W (limit %.1f W) at %s",
			r.DeviceCode, r.PowerWatts(), p.thresholdWatts, r.Timestamp.Format(time.RFC3339))
	}
	return fmt.Sprintf("Device %s sent invalid reading voltage=%.2f current=%.2f power_factor=%.2f at %s",
		r.DeviceCode, r.Voltage, r.Current, r.PowerFactor, r.Timestamp.Format(time.RFC3339))
}
