package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/observability/metrics"
)

type TelemetryInput struct {
	DeviceCode  string     `json:"device_code"`
	Voltage     *float64   `json:"voltage"`
	Current     *float64   `json:"current"`
	PowerFactor *float64   `json:"power_factor"`
	Timestamp   *time.Time `json:"timestamp"`
}

type OccupancyInput struct {
	DeviceCode string     `json:"device_code"`
	IsOccupied *bool      `json:"is_occupied"`
	Timestamp  *time.Time `json:"timestamp"`
}

// RecordError explains why one record of a batch was rejected.
type RecordError struct {
	Index      int    `json:"index"`
	DeviceCode string `json:"device_code"`
	Error      string `json:"error"`
}

// IngestResult satisfies inserted + skipped + len(rejected) = received.
type IngestResult struct {
	Received int           `json:"received"`
	Inserted int           `json:"inserted"`
	Skipped  int           `json:"skipped"`
	Rejected []RecordError `json:"rejected,omitempty"`
}

func checkTimestamp(ts *time.Time, now time.Time) error {
	if ts == nil || ts.IsZero() {
		return &domain.ValidationError{Field: "timestamp", Reason: "required"}
	}
	if ts.After(now.Add(domain.MaxFutureSkew)) {
		return domain.ErrInvalidTimestamp
	}
	return nil
}

// resolveDevices aborts with NotFound when any code is unknown.
func resolveDevices(ctx context.Context, store DeviceStore, codes []string) (map[string]domain.Device, error) {
	uniq := make(map[string]struct{}, len(codes))
	list := make([]string, 0, len(codes))
	for _, c := range codes {
		if c == "" {
			continue
		}
		if _, ok := uniq[c]; !ok {
			uniq[c] = struct{}{}
			list = append(list, c)
		}
	}
	devices, err := store.DevicesByCode(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("resolve devices: %w", err)
	}
	var missing []string
	for _, c := range list {
		if _, ok := devices[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &domain.NotFoundError{Kind: "device", Keys: missing}
	}
	return devices, nil
}

type TelemetryService struct {
	devices DeviceStore
	store   ReadingStore
	clock   domain.Clock
	power   *PowerDetector
	log     zerolog.Logger
}

// Ingest persists one batch of readings and advances last_seen of every device that
// had at least one accepted reading, duplicates included. Only newly stored readings
// reach the power detector.
func (s *TelemetryService) Ingest(ctx context.Context, batch []TelemetryInput) (IngestResult, error) {
	now := s.clock.Now()
	res := IngestResult{Received: len(batch)}

	codes := make([]string, len(batch))
	for i, in := range batch {
		codes[i] = in.DeviceCode
	}
	devices, err := resolveDevices(ctx, s.devices, codes)
	if err != nil {
		return IngestResult{}, err
	}

	accepted := make([]domain.Telemetry, 0, len(batch))
	for i, in := range batch {
		if err := validateTelemetry(in, now); err != nil {
			res.Rejected = append(res.Rejected, RecordError{Index: i, DeviceCode: in.DeviceCode, Error: err.Error()})
			continue
		}
		d := devices[in.DeviceCode]
		accepted = append(accepted, domain.Telemetry{
			DeviceID:    d.ID,
			DeviceCode:  d.DeviceCode,
			Voltage:     *in.Voltage,
			Current:     *in.Current,
			PowerFactor: *in.PowerFactor,
			Timestamp:   in.Timestamp.UTC(),
		})
	}

	inserted, err := s.store.InsertTelemetry(ctx, accepted)
	if err != nil {
		metrics.ObserveIngestError("telemetry")
		return IngestResult{}, fmt.Errorf("insert telemetry: %w", err)
	}
	res.Inserted = len(inserted)
	res.Skipped = len(accepted) - res.Inserted

	if ids := deviceIDs(accepted); len(ids) > 0 {
		if err := s.devices.TouchLastSeen(ctx, ids, now); err != nil {
			return res, fmt.Errorf("touch last_seen: %w", err)
		}
	}
	metrics.ObserveIngest("telemetry", res.Inserted, res.Skipped, len(res.Rejected))

	// duplicates were already inspected when first stored
	if s.power != nil && len(inserted) > 0 {
		codes := make(map[int64]string, len(devices))
		for _, d := range devices {
			codes[d.ID] = d.DeviceCode
		}
		for i := range inserted {
			inserted[i].DeviceCode = codes[inserted[i].DeviceID]
		}
		if _, err := s.power.Inspect(ctx, inserted); err != nil {
			s.log.Error().Err(err).Msg("power inspection failed")
		}
	}
	return res, nil
}

func validateTelemetry(in TelemetryInput, now time.Time) error {
	if in.DeviceCode == "" {
		return &domain.ValidationError{Field: "device_code", Reason: "required"}
	}
	switch {
	case in.Voltage == nil:
		return &domain.ValidationError{Field: "voltage", Reason: "required"}
	case in.Current == nil:
		return &domain.ValidationError{Field: "current", Reason: "required"}
	case in.PowerFactor == nil:
		return &domain.ValidationError{Field: "power_factor", Reason: "required"}
	}
	return checkTimestamp(in.Timestamp, now)
}

func deviceIDs(readings []domain.Telemetry) []int64 {
	seen := make(map[int64]struct{}, len(readings))
	var ids []int64
	for _, r := range readings {
		if _, ok := seen[r.DeviceID]; ok {
			continue
		}
		seen[r.DeviceID] = struct{}{}
		ids = append(ids, r.DeviceID)
	}
	return ids
}

// OccupancyService ingests parking events. It never touches last_seen.
type OccupancyService struct {
	devices DeviceStore
	store   ReadingStore
	clock   domain.Clock
	log     zerolog.Logger
}

func (s *OccupancyService) Ingest(ctx context.Context, batch []OccupancyInput) (IngestResult, error) {
	now := s.clock.Now()
	res := IngestResult{Received: len(batch)}

	codes := make([]string, len(batch))
	for i, in := range batch {
		codes[i] = in.DeviceCode
	}
	devices, err := resolveDevices(ctx, s.devices, codes)
	if err != nil {
		return IngestResult{}, err
	}

	accepted := make([]domain.OccupancyEvent, 0, len(batch))
	for i, in := range batch {
		if err := validateOccupancy(in, now); err != nil {
			res.Rejected = append(res.Rejected, RecordError{Index: i, DeviceCode: in.DeviceCode, Error: err.Error()})
			continue
		}
		d := devices[in.DeviceCode]
		accepted = append(accepted, domain.OccupancyEvent{
			DeviceID:   d.ID,
			DeviceCode: d.DeviceCode,
			IsOccupied: *in.IsOccupied,
			Timestamp:  in.Timestamp.UTC(),
		})
	}

	inserted, err := s.store.InsertOccupancyEvents(ctx, accepted)
	if err != nil {
		metrics.ObserveIngestError("occupancy")
		return IngestResult{}, fmt.Errorf("insert occupancy events: %w", err)
	}
	res.Inserted = int(inserted)
	res.Skipped = len(accepted) - res.Inserted
	metrics.ObserveIngest("occupancy", res.Inserted, res.Skipped, len(res.Rejected))
	return res, nil
}

func validateOccupancy(in OccupancyInput, now time.Time) error {
	if in.DeviceCode == "" {
		return &domain.ValidationError{Field: "device_code", Reason: "required"}
	}
	if in.IsOccupied == nil {
		return &domain.ValidationError{Field: "is_occupied", Reason: "required"}
	}
	return checkTimestamp(in.Timestamp, now)
}
