package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

// DevicesByCode resolves device codes; unknown codes are absent from the map.
func (r *Repos) DevicesByCode(ctx context.Context, codes []string) (map[string]domain.Device, error) {
	out := make(map[string]domain.Device, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`SELECT id, zone_id, device_code, is_active, last_seen, created_at, updated_at
FROM devices WHERE device_code IN (?)`, codes)
	if err != nil {
		return nil, fmt.Errorf("build device lookup: %w", err)
	}
	var rows []domain.Device
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	for _, d := range rows {
		out[d.DeviceCode] = d
	}
	return out, nil
}

// TouchLastSeen sets last_seen for all ids in one statement.
func (r *Repos) TouchLastSeen(ctx context.Context, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`UPDATE devices SET last_seen = ?, updated_at = ? WHERE id IN (?)`, at, at, ids)
	if err != nil {
		return fmt.Errorf("build last_seen update: %w", err)
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(q), args...)
	return err
}

// StaleDevices returns active devices never seen or last seen before cutoff.
func (r *Repos) StaleDevices(ctx context.Context, cutoff time.Time) ([]domain.Device, error) {
	var out []domain.Device
	err := r.db.SelectContext(ctx, &out, `SELECT id, zone_id, device_code, is_active, last_seen, created_at, updated_at
FROM devices
WHERE is_active = TRUE AND (last_seen IS NULL OR last_seen < $1)
ORDER BY id`, cutoff)
	return out, err
}

func (r *Repos) DeviceHealth(ctx context.Context, scope domain.Scope) ([]domain.DeviceHealth, error) {
	w := zoneScope(scope)
	q := `SELECT d.id, d.zone_id, d.device_code, d.is_active, d.last_seen, d.created_at, d.updated_at,
	z.code AS zone_code, f.name AS facility_name, COALESCE(a.active, 0) AS active_alerts
FROM devices d
JOIN zones z ON z.id = d.zone_id
JOIN facilities f ON f.id = z.facility_id
LEFT JOIN (
	SELECT device_id, COUNT(*) AS active FROM alerts WHERE status = 'ACTIVE' GROUP BY device_id
) a ON a.device_id = d.id` + w.clause() + `
ORDER BY d.device_code`
	var out []domain.DeviceHealth
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), w.args...)
	return out, err
}
