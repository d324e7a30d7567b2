package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

// upsertActiveAlert relies on the partial unique index alerts_one_active_idx so that
// concurrent raises for one (device, alert_type) collapse into a single ACTIVE row.
// xmax is zero only for a freshly inserted tuple.
const upsertActiveAlert = `
INSERT INTO alerts (device_id, alert_type, severity, status, message,
	first_triggered_at, last_triggered_at, created_at, updated_at)
VALUES ($1, $2, $3, 'ACTIVE', $4, $5, $5, $5, $5)
ON CONFLICT (device_id, alert_type) WHERE status = 'ACTIVE'
DO UPDATE SET
	severity = EXCLUDED.severity,
	message = EXCLUDED.message,
	last_triggered_at = EXCLUDED.last_triggered_at,
	updated_at = EXCLUDED.updated_at
RETURNING id, device_id, alert_type, severity, status, message,
	first_triggered_at, last_triggered_at, created_at, updated_at, (xmax = 0) AS inserted`

const alertColumns = `a.id, a.device_id, d.device_code, a.alert_type, a.severity, a.status, a.message,
	a.first_triggered_at, a.last_triggered_at, a.created_at, a.updated_at`

type upsertedAlert struct {
	domain.Alert
	Inserted bool `db:"inserted"`
}

// UpsertActiveAlert creates an ACTIVE alert or touches the existing one.
func (r *Repos) UpsertActiveAlert(ctx context.Context, t domain.AlertTrigger) (domain.Alert, bool, error) {
	var row upsertedAlert
	err := r.db.QueryRowxContext(ctx, upsertActiveAlert,
		t.DeviceID, string(t.Type), string(t.Severity), t.Message, t.At).StructScan(&row)
	if err != nil {
		return domain.Alert{}, false, err
	}
	row.Alert.DeviceCode = t.DeviceCode
	return row.Alert, row.Inserted, nil
}

// SetAlertStatus overwrites the status regardless of the current one.
func (r *Repos) SetAlertStatus(ctx context.Context, id int64, status domain.AlertStatus, at time.Time) (domain.Alert, error) {
	q := `WITH a AS (
	UPDATE alerts SET status = $1, updated_at = $2 WHERE id = $3
	RETURNING id, device_id, alert_type, severity, status, message,
		first_triggered_at, last_triggered_at, created_at, updated_at
)
SELECT ` + alertColumns + ` FROM a JOIN devices d ON d.id = a.device_id`
	var out domain.Alert
	err := r.db.QueryRowxContext(ctx, q, string(status), at, id).StructScan(&out)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Alert{}, &domain.NotFoundError{Kind: "alert", Keys: []string{strconv.FormatInt(id, 10)}}
	}
	return out, err
}

func (r *Repos) GetAlert(ctx context.Context, id int64) (domain.Alert, error) {
	var out domain.Alert
	err := r.db.GetContext(ctx, &out, `SELECT `+alertColumns+`
FROM alerts a JOIN devices d ON d.id = a.device_id WHERE a.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Alert{}, &domain.NotFoundError{Kind: "alert", Keys: []string{strconv.FormatInt(id, 10)}}
	}
	return out, err
}

func (r *Repos) ListAlerts(ctx context.Context, f domain.AlertFilter) ([]domain.Alert, error) {
	w := &where{}
	if f.Status != "" {
		w.add("a.status = ?", string(f.Status))
	}
	if f.Severity != "" {
		w.add("a.severity = ?", string(f.Severity))
	}
	if f.Type != "" {
		w.add("a.alert_type = ?", string(f.Type))
	}
	if f.DeviceCode != "" {
		w.add("d.device_code = ?", f.DeviceCode)
	}
	q := `SELECT ` + alertColumns + ` FROM alerts a JOIN devices d ON d.id = a.device_id` +
		w.clause() + ` ORDER BY a.last_triggered_at DESC, a.id DESC`
	var out []domain.Alert
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), w.args...)
	return out, err
}
