package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

// insertChunk keeps each statement well under the 65535 bind parameter limit.
const insertChunk = 500

// InsertTelemetry stores readings in one transaction, ignoring (device, timestamp)
// conflicts. It returns only the rows actually inserted; DeviceCode is left empty.
func (r *Repos) InsertTelemetry(ctx context.Context, readings []domain.Telemetry) ([]domain.Telemetry, error) {
	var inserted []domain.Telemetry
	err := r.bulkInsert(ctx,
		"INSERT INTO telemetry (device_id, voltage, current, power_factor, timestamp) VALUES ",
		" ON CONFLICT (device_id, timestamp) DO NOTHING RETURNING id, device_id, voltage, current, power_factor, timestamp",
		5, len(readings), func(i int) []any {
			t := readings[i]
			return []any{t.DeviceID, t.Voltage, t.Current, t.PowerFactor, t.Timestamp}
		},
		func(tx *sqlx.Tx, q string, args []any) error {
			var rows []domain.Telemetry
			if err := tx.SelectContext(ctx, &rows, q, args...); err != nil {
				return err
			}
			inserted = append(inserted, rows...)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

// InsertOccupancyEvents has the same duplicate-ignore semantics as InsertTelemetry
// and returns the inserted row count.
func (r *Repos) InsertOccupancyEvents(ctx context.Context, events []domain.OccupancyEvent) (int64, error) {
	var inserted int64
	err := r.bulkInsert(ctx,
		"INSERT INTO occupancy_events (device_id, is_occupied, timestamp) VALUES ",
		" ON CONFLICT (device_id, timestamp) DO NOTHING",
		3, len(events), func(i int) []any {
			e := events[i]
			return []any{e.DeviceID, e.IsOccupied, e.Timestamp}
		},
		func(tx *sqlx.Tx, q string, args []any) error {
			res, err := tx.ExecContext(ctx, q, args...)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			inserted += n
			return err
		})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *Repos) bulkInsert(ctx context.Context, prefix, suffix string, cols, n int,
	row func(int) []any, run func(tx *sqlx.Tx, q string, args []any) error) error {
	if n == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < n; start += insertChunk {
		end := min(start+insertChunk, n)
		q, args := chunkStatement(prefix, suffix, cols, start, end, row)
		if err := run(tx, q, args); err != nil {
			return fmt.Errorf("bulk insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func chunkStatement(prefix, suffix string, cols, start, end int, row func(int) []any) (string, []any) {
	var b strings.Builder
	b.WriteString(prefix)
	args := make([]any, 0, (end-start)*cols)
	for i := start; i < end; i++ {
		if i > start {
			b.WriteString(",")
		}
		b.WriteString("(")
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "$%d", len(args)+c+1)
		}
		b.WriteString(")")
		args = append(args, row(i)...)
	}
	b.WriteString(suffix)
	return b.String(), args
}
