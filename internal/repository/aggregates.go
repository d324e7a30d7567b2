package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

const scopedEvents = ` FROM occupancy_events e
JOIN devices d ON d.id = e.device_id
JOIN zones z ON z.id = d.zone_id`

type zoneCount struct {
	ZoneID int64 `db:"zone_id"`
	N      int   `db:"n"`
}

func (r *Repos) selectZoneCounts(ctx context.Context, q string, args []any) (map[int64]int, error) {
	var rows []zoneCount
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	out := make(map[int64]int, len(rows))
	for _, row := range rows {
		out[row.ZoneID] = row.N
	}
	return out, nil
}

// ZoneEventCounts counts in-scope occupancy events per zone id.
func (r *Repos) ZoneEventCounts(ctx context.Context, scope domain.Scope) (map[int64]int, error) {
	w := timedScope(scope, "e.timestamp")
	q := `SELECT d.zone_id, COUNT(*) AS n` + scopedEvents + w.clause() + ` GROUP BY d.zone_id`
	return r.selectZoneCounts(ctx, q, w.args)
}

// ZoneAlertCounts counts alerts of in-scope devices first triggered within the date filter.
func (r *Repos) ZoneAlertCounts(ctx context.Context, scope domain.Scope) (map[int64]int, error) {
	w := timedScope(scope, "a.first_triggered_at")
	q := `SELECT d.zone_id, COUNT(*) AS n FROM alerts a
JOIN devices d ON d.id = a.device_id
JOIN zones z ON z.id = d.zone_id` + w.clause() + ` GROUP BY d.zone_id`
	return r.selectZoneCounts(ctx, q, w.args)
}

// LatestOccupancy returns the newest in-scope event of every device that has one.
// Equal timestamps resolve to the highest event id.
func (r *Repos) LatestOccupancy(ctx context.Context, scope domain.Scope) ([]domain.OccupancyEvent, error) {
	w := timedScope(scope, "e.timestamp")
	q := `SELECT DISTINCT ON (e.device_id) e.id, e.device_id, d.device_code, e.is_occupied, e.timestamp` +
		scopedEvents + w.clause() + ` ORDER BY e.device_id, e.timestamp DESC, e.id DESC`
	var out []domain.OccupancyEvent
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), w.args...)
	return out, err
}

// TargetsForDate maps zone id to its target for the day; zones without a row are absent.
func (r *Repos) TargetsForDate(ctx context.Context, date time.Time, zoneIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int)
	if len(zoneIDs) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`SELECT zone_id, target_event_count AS n FROM targets WHERE date = ? AND zone_id IN (?)`,
		date.Format("2006-01-02"), zoneIDs)
	if err != nil {
		return nil, fmt.Errorf("build target lookup: %w", err)
	}
	return r.selectZoneCounts(ctx, q, args)
}

// HourlyUsage buckets in-scope events by hour in the scope's timezone.
func (r *Repos) HourlyUsage(ctx context.Context, scope domain.Scope) ([]domain.HourlyUsage, error) {
	w := timedScope(scope, "e.timestamp")
	q := `SELECT date_trunc('hour', e.timestamp, ?) AS hour,
	COUNT(*) AS total_events,
	COUNT(*) FILTER (WHERE e.is_occupied) AS occupied_events` +
		scopedEvents + w.clause() + ` GROUP BY 1 ORDER BY 1`
	args := append([]any{scope.TimezoneName()}, w.args...)
	var out []domain.HourlyUsage
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...)
	return out, err
}
