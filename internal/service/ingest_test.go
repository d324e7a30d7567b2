package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

func TestTelemetryIngest_InsertsAndTouchesLastSeen(t *testing.T) {
	f := newFixture(t)
	d1 := f.device("PARK-B1-S001", true, nil)
	d2 := f.device("PARK-B1-S002", true, ago(time.Hour))

	res, err := f.svcs.Telemetry.Ingest(context.Background(), []TelemetryInput{
		reading("PARK-B1-S001", baseNow.Add(-30*time.Second), 230, 0.4, 0.95),
		reading("PARK-B1-S001", baseNow.Add(-20*time.Second), 231, 0.4, 0.95),
		reading("PARK-B1-S002", baseNow.Add(-10*time.Minute), 229, 0.3, 0.9),
	})

	require.NoError(t, err)
	assert.Equal(t, IngestResult{Received: 3, Inserted: 3, Skipped: 0}, res)
	assert.Equal(t, 3, f.store.TelemetryCount())
	// liveness is the ingestion time, not the event time
	require.NotNil(t, f.store.Device(d1.ID).LastSeen)
	assert.Equal(t, baseNow, *f.store.Device(d1.ID).LastSeen)
	assert.Equal(t, baseNow, *f.store.Device(d2.ID).LastSeen)
}

func TestTelemetryIngest_DuplicateIsSkippedButStillLive(t *testing.T) {
	f := newFixture(t)
	d := f.device("D1", true, nil)
	batch := []TelemetryInput{reading("D1", baseNow.Add(-time.Minute), 230, 0.4, 0.95)}

	_, err := f.svcs.Telemetry.Ingest(context.Background(), batch)
	require.NoError(t, err)

	f.clock.Advance(3 * time.Minute)
	res, err := f.svcs.Telemetry.Ingest(context.Background(), batch)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Received)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, f.store.TelemetryCount())
	assert.Equal(t, baseNow.Add(3*time.Minute), *f.store.Device(d.ID).LastSeen)
}

func TestTelemetryIngest_FutureTimestampRejectsOnlyThatRecord(t *testing.T) {
	f := newFixture(t)
	f.device("D1", true, nil)

	res, err := f.svcs.Telemetry.Ingest(context.Background(), []TelemetryInput{
		reading("D1", baseNow.Add(6*time.Minute), 230, 0.4, 0.95),
		reading("D1", baseNow.Add(4*time.Minute), 230, 0.4, 0.95),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Received)
	assert.Equal(t, 1, res.Inserted)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 0, res.Rejected[0].Index)
	assert.Contains(t, res.Rejected[0].Error, "too far in the future")
}

func TestTelemetryIngest_AllRejectedDoesNotTouchLastSeen(t *testing.T) {
	f := newFixture(t)
	d := f.device("D1", true, nil)

	res, err := f.svcs.Telemetry.Ingest(context.Background(), []TelemetryInput{
		reading("D1", baseNow.Add(time.Hour), 230, 0.4, 0.95),
	})

	require.NoError(t, err)
	assert.Len(t, res.Rejected, 1)
	assert.Nil(t, f.store.Device(d.ID).LastSeen)
}

func TestTelemetryIngest_MissingFieldRejected(t *testing.T) {
	f := newFixture(t)
	f.device("D1", true, nil)
	in := reading("D1", baseNow, 230, 0.4, 0.95)
	in.PowerFactor = nil

	res, err := f.svcs.Telemetry.Ingest(context.Background(), []TelemetryInput{in})

	require.NoError(t, err)
	require.Len(t, res.Rejected, 1)
	assert.Contains(t, res.Rejected[0].Error, "power_factor")
	assert.Equal(t, 0, f.store.TelemetryCount())
}

func TestTelemetryIngest_UnknownDeviceAborts(t *testing.T) {
	f := newFixture(t)
	f.device("D1", true, nil)

	_, err := f.svcs.Telemetry.Ingest(context.Background(), []TelemetryInput{
		reading("D1", baseNow, 230, 0.4, 0.95),
		reading("GHOST", baseNow, 230, 0.4, 0.95),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"GHOST"}, nf.Keys)
	assert.Equal(t, 0, f.store.TelemetryCount())
}

func TestTelemetryIngest_HighPowerRaisesOneAlertPerBatch(t *testing.T) {
	f := newFixture(t)
	f.device("D1", true, nil)

	_, err := f.svcs.Telemetry.Ingest(context.Background(), []TelemetryInput{
		reading("D1", baseNow.Add(-20*time.Second), 230, 10, 0.95),
		reading("D1", baseNow.Add(-10*time.Second), 230, 12, 0.95),
		reading("D1", baseNow.Add(-5*time.Second), 230, 0.4, 0.95),
	})
	require.NoError(t, err)

	alerts, err := f.svcs.Alerts.List(context.Background(), domain.AlertFilter{Type: domain.AlertHighPower})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.SeverityWarning, alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "2622.0 W")
}

func TestTelemetryIngest_RetriedBatchDoesNotReopenPowerAlert(t *testing.T) {
	f := newFixture(t)
	f.device("D1", true, nil)
	ctx := context.Background()
	batch := []TelemetryInput{reading("D1", baseNow.Add(-10*time.Second), 230, 10, 0.95)}

	_, err := f.svcs.Telemetry.Ingest(ctx, batch)
	require.NoError(t, err)
	alerts, err := f.svcs.Alerts.List(ctx, domain.AlertFilter{Type: domain.AlertHighPower})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	_, err = f.svcs.Alerts.Resolve(ctx, alerts[0].ID)
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	res, err := f.svcs.Telemetry.Ingest(ctx, batch)

	require.NoError(t, err)
	assert.Equal(t, IngestResult{Received: 1, Inserted: 0, Skipped: 1}, res)
	alerts, err = f.svcs.Alerts.List(ctx, domain.AlertFilter{Type: domain.AlertHighPower})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.StatusResolved, alerts[0].Status)
	assert.Len(t, f.notifier.alerts, 1)
}

func TestTelemetryIngest_InvalidDataStoredAndAlerted(t *testing.T) {
	f := newFixture(t)
	f.device("D1", true, nil)

	res, err := f.svcs.Telemetry.Ingest(context.Background(), []TelemetryInput{
		reading("D1", baseNow, 230, 0.4, 1.7),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	alerts, err := f.svcs.Alerts.List(context.Background(), domain.AlertFilter{Type: domain.AlertInvalidData})
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestOccupancyIngest_IdempotentAndLeavesLastSeen(t *testing.T) {
	f := newFixture(t)
	d := f.device("D1", true, nil)
	batch := []OccupancyInput{
		parking("D1", true, baseNow.Add(-time.Minute)),
		parking("D1", false, baseNow.Add(-30*time.Second)),
	}

	res, err := f.svcs.Occupancy.Ingest(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, IngestResult{Received: 2, Inserted: 2}, res)

	res, err = f.svcs.Occupancy.Ingest(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, IngestResult{Received: 2, Inserted: 0, Skipped: 2}, res)
	assert.Equal(t, 2, f.store.OccupancyCount())
	assert.Nil(t, f.store.Device(d.ID).LastSeen)
}

func TestOccupancyIngest_MissingIsOccupiedRejected(t *testing.T) {
	f := newFixture(t)
	f.device("D1", true, nil)

	res, err := f.svcs.Occupancy.Ingest(context.Background(), []OccupancyInput{
		{DeviceCode: "D1", Timestamp: tptr(baseNow)},
		parking("D1", true, baseNow.Add(10*time.Minute)),
	})

	require.NoError(t, err)
	require.Len(t, res.Rejected, 2)
	assert.Contains(t, res.Rejected[0].Error, "is_occupied")
	assert.Contains(t, res.Rejected[1].Error, "future")
}

func TestFromMQTT_AcceptsBatchAndSingle(t *testing.T) {
	f := newFixture(t)
	f.device("D1", true, nil)

	res, err := f.svcs.Telemetry.FromMQTT(context.Background(), []byte(`{"records":[
		{"device_code":"D1","voltage":230,"current":0.4,"power_factor":0.9,"timestamp":"2026-10-14T11:59:00Z"},
		{"device_code":"D1","voltage":230,"current":0.4,"power_factor":0.9,"timestamp":"2026-10-14T11:59:30Z"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	res, err = f.svcs.Occupancy.FromMQTT(context.Background(),
		[]byte(`{"device_code":"D1","is_occupied":true,"timestamp":"2026-10-14T11:59:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	_, err = f.svcs.Occupancy.FromMQTT(context.Background(), []byte(`not json`))
	assert.Error(t, err)
}
