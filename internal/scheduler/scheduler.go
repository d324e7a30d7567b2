package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/service"
)

type Sweeper interface {
	RunSweep(ctx context.Context) (service.SweepResult, error)
}

// Locker elects the instance allowed to sweep on a given tick.
type Locker interface {
	TryLock(ctx context.Context) (release func(), ok bool, err error)
}

// LocalLock serialises sweeps inside one process.
type LocalLock struct {
	mu sync.Mutex
}

func (l *LocalLock) TryLock(context.Context) (func(), bool, error) {
	if !l.mu.TryLock() {
		return nil, false, nil
	}
	return l.mu.Unlock, true, nil
}

// Runner triggers the offline sweep on a fixed interval.
type Runner struct {
	sweeper  Sweeper
	lock     Locker
	interval time.Duration
	log      zerolog.Logger
}

func NewRunner(sweeper Sweeper, lock Locker, interval time.Duration, log zerolog.Logger) *Runner {
	if lock == nil {
		lock = &LocalLock{}
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Runner{sweeper: sweeper, lock: lock, interval: interval, log: log}
}

// Start sweeps immediately and then on every tick until ctx is done.
func (r *Runner) Start(ctx context.Context) {
	if r == nil || r.sweeper == nil {
		return
	}
	r.tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	if _, _, err := r.RunOnce(ctx); err != nil {
		r.log.Error().Err(err).Msg("offline sweep failed")
	}
}

// RunOnce sweeps if this instance wins the lock. ran is false when another
// instance holds it.
func (r *Runner) RunOnce(ctx context.Context) (res service.SweepResult, ran bool, err error) {
	release, ok, err := r.lock.TryLock(ctx)
	if err != nil {
		return res, false, err
	}
	if !ok {
		r.log.Debug().Msg("sweep lock held elsewhere, skipping tick")
		return res, false, nil
	}
	defer release()

	res, err = r.sweeper.RunSweep(ctx)
	return res, true, err
}
