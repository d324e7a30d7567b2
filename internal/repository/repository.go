package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

func (r *Repos) ListFacilities(ctx context.Context) ([]domain.Facility, error) {
	var out []domain.Facility
	err := r.db.SelectContext(ctx, &out, `SELECT id, name, location, created_at, updated_at FROM facilities ORDER BY id`)
	return out, err
}

func (r *Repos) ListZones(ctx context.Context, scope domain.Scope) ([]domain.Zone, error) {
	w := zoneScope(scope)
	var out []domain.Zone
	q := `SELECT z.id, z.facility_id, z.name, z.code, z.created_at, z.updated_at FROM zones z` + w.clause() + ` ORDER BY z.code`
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), w.args...)
	return out, err
}

func (r *Repos) ListDevices(ctx context.Context, scope domain.Scope) ([]domain.Device, error) {
	w := zoneScope(scope)
	var out []domain.Device
	q := `SELECT d.id, d.zone_id, d.device_code, d.is_active, d.last_seen, d.created_at, d.updated_at
FROM devices d JOIN zones z ON z.id = d.zone_id` + w.clause() + ` ORDER BY d.device_code`
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), w.args...)
	return out, err
}

// where collects AND-ed predicates with '?' placeholders; callers Rebind.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// zoneScope applies the facility and zone filters against alias z.
func zoneScope(s domain.Scope) *where {
	w := &where{}
	if s.FacilityID != nil {
		w.add("z.facility_id = ?", *s.FacilityID)
	}
	if s.ZoneCode != "" {
		w.add("z.code = ?", s.ZoneCode)
	}
	return w
}

// timedScope is zoneScope plus the date filter on column col.
func timedScope(s domain.Scope, col string) *where {
	w := zoneScope(s)
	if start, end, ok := s.DayBounds(); ok {
		w.add(col+" BETWEEN ? AND ?", start, end)
	}
	return w
}
