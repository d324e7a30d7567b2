package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/repository"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/repository/memory"
)

var (
	_ Store = (*repository.Repos)(nil)
	_ Store = (*memory.Store)(nil)
)

var baseNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []domain.Alert
}

func (n *recordingNotifier) AlertRaised(_ context.Context, a domain.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	return nil
}

type fixture struct {
	svcs     *Services
	store    *memory.Store
	clock    *fakeClock
	notifier *recordingNotifier
	zone     domain.Zone
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	clock := &fakeClock{now: baseNow}
	notifier := &recordingNotifier{}
	f := store.AddFacility("Central Parking")
	z := store.AddZone(f.ID, "Basement 1", "B1")
	svcs := New(store, Options{
		Clock:          clock,
		Logger:         zerolog.Nop(),
		HighPowerWatts: 1500,
		Notifier:       notifier,
	})
	return &fixture{svcs: svcs, store: store, clock: clock, notifier: notifier, zone: z}
}

func (f *fixture) device(code string, active bool, lastSeen *time.Time) domain.Device {
	return f.store.AddDevice(f.zone.ID, code, active, lastSeen)
}

func ago(d time.Duration) *time.Time {
	t := baseNow.Add(-d)
	return &t
}

func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool       { return &v }
func tptr(t time.Time) *time.Time {
	return &t
}

func reading(code string, ts time.Time, v, i, pf float64) TelemetryInput {
	return TelemetryInput{DeviceCode: code, Voltage: fptr(v), Current: fptr(i), PowerFactor: fptr(pf), Timestamp: tptr(ts)}
}

func parking(code string, occupied bool, ts time.Time) OccupancyInput {
	return OccupancyInput{DeviceCode: code, IsOccupied: bptr(occupied), Timestamp: tptr(ts)}
}
