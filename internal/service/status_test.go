package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

func TestClassify(t *testing.T) {
	health := func(active bool, lastSeen *time.Time, alerts int) domain.DeviceHealth {
		return domain.DeviceHealth{
			Device:       domain.Device{DeviceCode: "D1", IsActive: active, LastSeen: lastSeen},
			ActiveAlerts: alerts,
		}
	}
	cases := []struct {
		name  string
		in    domain.DeviceHealth
		label string
		score int
	}{
		{"healthy", health(true, ago(10*time.Second), 0), StatusOK, 80},
		{"at the threshold", health(true, ago(domain.OfflineThreshold), 0), StatusOK, 80},
		{"one alert", health(true, ago(time.Second), 1), StatusAlert, 70},
		{"alert penalty capped", health(true, ago(time.Second), 5), StatusAlert, 50},
		{"stale", health(true, ago(3*time.Minute), 0), StatusOffline, 20},
		{"stale with alert", health(true, ago(3*time.Minute), 1), StatusOffline, 10},
		{"never seen and inactive", health(false, nil, 0), StatusOffline, 0},
		{"floor at zero", health(false, nil, 4), StatusOffline, 0},
		{"inactive but reporting", health(false, ago(time.Second), 0), StatusOK, 60},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			label, score := Classify(tc.in, baseNow)
			assert.Equal(t, tc.label, label)
			assert.Equal(t, tc.score, score)
		})
	}
}

func TestStatusList_ProjectsScopedDevices(t *testing.T) {
	f := newFixture(t)
	other := f.store.AddZone(f.zone.FacilityID, "Basement 2", "B2")
	f.device("D1", true, ago(10*time.Second))
	f.device("D2", true, nil)
	f.store.AddDevice(other.ID, "D3", true, nil)
	ctx := context.Background()
	_, err := f.svcs.Monitor.RunSweep(ctx)
	require.NoError(t, err)

	scope := mustScope(t, "1999-01-01", "", "B1")
	out, err := f.svcs.Status.List(ctx, scope)

	require.NoError(t, err)
	require.Len(t, out, 2)
	byCode := map[string]DeviceStatus{}
	for _, s := range out {
		byCode[s.DeviceCode] = s
	}
	assert.Equal(t, StatusOK, byCode["D1"].Status)
	assert.Equal(t, 80, byCode["D1"].HealthScore)
	assert.Equal(t, "B1", byCode["D1"].ZoneCode)
	assert.Equal(t, "Central Parking", byCode["D1"].Facility)
	assert.Equal(t, StatusOffline, byCode["D2"].Status)
	assert.Equal(t, 1, byCode["D2"].ActiveAlerts)
	assert.Equal(t, 10, byCode["D2"].HealthScore)
}
