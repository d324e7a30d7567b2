// Package memory is an in-process Entity Store with the same uniqueness and
// dedup semantics as the Postgres repository. Every method takes the store lock,
// so an upsert is atomic with respect to other callers.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

type readingKey struct {
	device int64
	ts     int64
}

type Store struct {
	mu sync.Mutex

	nextID     int64
	facilities map[int64]domain.Facility
	zones      map[int64]domain.Zone
	devices    map[int64]domain.Device
	telemetry  map[readingKey]domain.Telemetry
	events     map[readingKey]domain.OccupancyEvent
	targets    map[int64]map[string]int // zone id -> date -> count
	alerts     map[int64]domain.Alert
}

func New() *Store {
	return &Store{
		facilities: make(map[int64]domain.Facility),
		zones:      make(map[int64]domain.Zone),
		devices:    make(map[int64]domain.Device),
		telemetry:  make(map[readingKey]domain.Telemetry),
		events:     make(map[readingKey]domain.OccupancyEvent),
		targets:    make(map[int64]map[string]int),
		alerts:     make(map[int64]domain.Alert),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) AddFacility(name string) domain.Facility {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := domain.Facility{ID: s.id(), Name: name}
	s.facilities[f.ID] = f
	return f
}

func (s *Store) AddZone(facilityID int64, name, code string) domain.Zone {
	s.mu.Lock()
	defer s.mu.Unlock()
	z := domain.Zone{ID: s.id(), FacilityID: facilityID, Name: name, Code: code}
	s.zones[z.ID] = z
	return z
}

func (s *Store) AddDevice(zoneID int64, code string, active bool, lastSeen *time.Time) domain.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := domain.Device{ID: s.id(), ZoneID: zoneID, DeviceCode: code, IsActive: active, LastSeen: lastSeen}
	s.devices[d.ID] = d
	return d
}

// SetTarget upserts the (zone, date) target.
func (s *Store) SetTarget(zoneID int64, date time.Time, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.targets[zoneID] == nil {
		s.targets[zoneID] = make(map[string]int)
	}
	s.targets[zoneID][date.Format("2006-01-02")] = count
}

func (s *Store) Device(id int64) domain.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.devices[id]
}

func (s *Store) TelemetryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.telemetry)
}

func (s *Store) OccupancyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func (s *Store) ListFacilities(_ context.Context) ([]domain.Facility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Facility, 0, len(s.facilities))
	for _, f := range s.facilities {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListZones(_ context.Context, scope domain.Scope) ([]domain.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scopeZones(scope), nil
}

func (s *Store) scopeZones(scope domain.Scope) []domain.Zone {
	var out []domain.Zone
	for _, z := range s.zones {
		if scope.MatchesZone(z) {
			out = append(out, z)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (s *Store) ListDevices(_ context.Context, scope domain.Scope) ([]domain.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scopeDevices(scope), nil
}

func (s *Store) scopeDevices(scope domain.Scope) []domain.Device {
	var out []domain.Device
	for _, d := range s.devices {
		if scope.MatchesZone(s.zones[d.ZoneID]) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceCode < out[j].DeviceCode })
	return out
}

func (s *Store) DevicesByCode(_ context.Context, codes []string) (map[string]domain.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	out := make(map[string]domain.Device, len(codes))
	for _, d := range s.devices {
		if want[d.DeviceCode] {
			out[d.DeviceCode] = d
		}
	}
	return out, nil
}

func (s *Store) TouchLastSeen(_ context.Context, ids []int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		d, ok := s.devices[id]
		if !ok {
			continue
		}
		seen := at
		d.LastSeen = &seen
		d.UpdatedAt = at
		s.devices[id] = d
	}
	return nil
}

func (s *Store) StaleDevices(_ context.Context, cutoff time.Time) ([]domain.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Device
	for _, d := range s.devices {
		if d.IsActive && (d.LastSeen == nil || d.LastSeen.Before(cutoff)) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeviceHealth(_ context.Context, scope domain.Scope) ([]domain.DeviceHealth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := make(map[int64]int)
	for _, a := range s.alerts {
		if a.Status == domain.StatusActive {
			active[a.DeviceID]++
		}
	}
	var out []domain.DeviceHealth
	for _, d := range s.scopeDevices(scope) {
		z := s.zones[d.ZoneID]
		out = append(out, domain.DeviceHealth{
			Device:       d,
			ZoneCode:     z.Code,
			FacilityName: s.facilities[z.FacilityID].Name,
			ActiveAlerts: active[d.ID],
		})
	}
	return out, nil
}

// InsertTelemetry returns only the readings that were not already stored.
func (s *Store) InsertTelemetry(_ context.Context, readings []domain.Telemetry) ([]domain.Telemetry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var inserted []domain.Telemetry
	for _, r := range readings {
		k := readingKey{r.DeviceID, r.Timestamp.UnixNano()}
		if _, dup := s.telemetry[k]; dup {
			continue
		}
		r.ID = s.id()
		s.telemetry[k] = r
		inserted = append(inserted, r)
	}
	return inserted, nil
}

func (s *Store) InsertOccupancyEvents(_ context.Context, events []domain.OccupancyEvent) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var inserted int64
	for _, e := range events {
		k := readingKey{e.DeviceID, e.Timestamp.UnixNano()}
		if _, dup := s.events[k]; dup {
			continue
		}
		e.ID = s.id()
		s.events[k] = e
		inserted++
	}
	return inserted, nil
}

func (s *Store) UpsertActiveAlert(_ context.Context, t domain.AlertTrigger) (domain.Alert, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.alerts {
		if a.DeviceID == t.DeviceID && a.AlertType == t.Type && a.Status == domain.StatusActive {
			a.Severity = t.Severity
			a.Message = t.Message
			a.LastTriggeredAt = t.At
			a.UpdatedAt = t.At
			s.alerts[id] = a
			return a, false, nil
		}
	}
	a := domain.Alert{
		ID:               s.id(),
		DeviceID:         t.DeviceID,
		DeviceCode:       s.devices[t.DeviceID].DeviceCode,
		AlertType:        t.Type,
		Severity:         t.Severity,
		Status:           domain.StatusActive,
		Message:          t.Message,
		FirstTriggeredAt: t.At,
		LastTriggeredAt:  t.At,
		CreatedAt:        t.At,
		UpdatedAt:        t.At,
	}
	s.alerts[a.ID] = a
	return a, true, nil
}

func (s *Store) SetAlertStatus(_ context.Context, id int64, status domain.AlertStatus, at time.Time) (domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok {
		return domain.Alert{}, &domain.NotFoundError{Kind: "alert", Keys: []string{strconv.FormatInt(id, 10)}}
	}
	a.Status = status
	a.UpdatedAt = at
	s.alerts[id] = a
	return a, nil
}

func (s *Store) GetAlert(_ context.Context, id int64) (domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok {
		return domain.Alert{}, &domain.NotFoundError{Kind: "alert", Keys: []string{strconv.FormatInt(id, 10)}}
	}
	return a, nil
}

func (s *Store) ListAlerts(_ context.Context, f domain.AlertFilter) ([]domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Alert
	for _, a := range s.alerts {
		if f.Status != "" && a.Status != f.Status ||
			f.Severity != "" && a.Severity != f.Severity ||
			f.Type != "" && a.AlertType != f.Type ||
			f.DeviceCode != "" && a.DeviceCode != f.DeviceCode {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastTriggeredAt.Equal(out[j].LastTriggeredAt) {
			return out[i].LastTriggeredAt.After(out[j].LastTriggeredAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// scopedEvents yields in-scope events with their zone id.
func (s *Store) scopedEvents(scope domain.Scope, fn func(e domain.OccupancyEvent, zoneID int64)) {
	for _, e := range s.events {
		d := s.devices[e.DeviceID]
		if !scope.MatchesZone(s.zones[d.ZoneID]) || !scope.Contains(e.Timestamp) {
			continue
		}
		fn(e, d.ZoneID)
	}
}

func (s *Store) ZoneEventCounts(_ context.Context, scope domain.Scope) (map[int64]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]int)
	s.scopedEvents(scope, func(_ domain.OccupancyEvent, zoneID int64) { out[zoneID]++ })
	return out, nil
}

func (s *Store) ZoneAlertCounts(_ context.Context, scope domain.Scope) (map[int64]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]int)
	for _, a := range s.alerts {
		d := s.devices[a.DeviceID]
		if scope.MatchesZone(s.zones[d.ZoneID]) && scope.Contains(a.FirstTriggeredAt) {
			out[d.ZoneID]++
		}
	}
	return out, nil
}

// LatestOccupancy resolves equal timestamps to the highest event id.
func (s *Store) LatestOccupancy(_ context.Context, scope domain.Scope) ([]domain.OccupancyEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	latest := make(map[int64]domain.OccupancyEvent)
	s.scopedEvents(scope, func(e domain.OccupancyEvent, _ int64) {
		cur, ok := latest[e.DeviceID]
		if !ok || e.Timestamp.After(cur.Timestamp) || (e.Timestamp.Equal(cur.Timestamp) && e.ID > cur.ID) {
			latest[e.DeviceID] = e
		}
	})
	out := make([]domain.OccupancyEvent, 0, len(latest))
	for _, e := range latest {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })
	return out, nil
}

func (s *Store) TargetsForDate(_ context.Context, date time.Time, zoneIDs []int64) (map[int64]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := date.Format("2006-01-02")
	out := make(map[int64]int)
	for _, id := range zoneIDs {
		if n, ok := s.targets[id][day]; ok {
			out[id] = n
		}
	}
	return out, nil
}

func (s *Store) HourlyUsage(_ context.Context, scope domain.Scope) ([]domain.HourlyUsage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc := scope.Location
	if loc == nil {
		loc = time.UTC
	}
	buckets := make(map[int64]*domain.HourlyUsage)
	s.scopedEvents(scope, func(e domain.OccupancyEvent, _ int64) {
		t := e.Timestamp.In(loc)
		hour := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
		b, ok := buckets[hour.Unix()]
		if !ok {
			b = &domain.HourlyUsage{Hour: hour}
			buckets[hour.Unix()] = b
		}
		b.TotalEvents++
		if e.IsOccupied {
			b.OccupiedEvents++
		}
	})
	out := make([]domain.HourlyUsage, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour.Before(out[j].Hour) })
	return out, nil
}
