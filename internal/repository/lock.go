package repository

import (
	"context"
	"database/sql/driver"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// AdvisoryLock elects a single sweep leader per tick with a session-level
// Postgres advisory lock held on a dedicated connection.
type AdvisoryLock struct {
	db  *sqlx.DB
	key int64
}

func NewAdvisoryLock(db *sqlx.DB, key int64) *AdvisoryLock {
	return &AdvisoryLock{db: db, key: key}
}

// TryLock returns ok=false without error when another instance holds the lock.
func (l *AdvisoryLock) TryLock(ctx context.Context) (func(), bool, error) {
	conn, err := l.db.Connx(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("lock conn: %w", err)
	}
	var ok bool
	if err := conn.QueryRowxContext(ctx, `SELECT pg_try_advisory_lock($1)`, l.key).Scan(&ok); err != nil {
		conn.Close()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !ok {
		conn.Close()
		return nil, false, nil
	}
	release := func() {
		if _, err := conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, l.key); err != nil {
			log.Warn().Err(err).Int64("key", l.key).Msg("advisory unlock failed, dropping session")
			// a bad-conn result makes the pool close the session, which ends the lock
			_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		}
		conn.Close()
	}
	return release, true, nil
}
