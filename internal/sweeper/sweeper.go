package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"gymhub/internal/config"
	"gymhub/internal/events"
	"gymhub/internal/logger"
	"gymhub/internal/membership"
	"gymhub/internal/metrics"
)

const lockKey = "gymhub:sweep:lock"

var (
	ErrAlreadyRunning = errors.New("sweep already running in this process")
	ErrLocked         = errors.New("sweep lock held by another instance")
)

type Expirer interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

type Option func(*Sweeper)

func WithLocker(l Locker) Option {
	return func(s *Sweeper) { s.locker = l }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Sweeper) { s.events = p }
}

func WithLockTTL(ttl time.Duration) Option {
	return func(s *Sweeper) { s.lockTTL = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

// Sweeper expires overdue memberships once a day at a fixed local time.
type Sweeper struct {
	expirer Expirer
	locker  Locker
	events  events.Publisher
	hour    int
	minute  int
	lockTTL time.Duration
	now     func() time.Time
	running atomic.Bool
}

// New builds a sweeper firing daily at sweepAt, given as local "HH:MM".
func New(expirer Expirer, sweepAt string, opts ...Option) (*Sweeper, error) {
	hour, minute, err := config.ParseClock(sweepAt)
	if err != nil {
		return nil, fmt.Errorf("parse sweep time %q: %w", sweepAt, err)
	}

	s := &Sweeper{
		expirer: expirer,
		locker:  noopLocker{},
		events:  events.NopPublisher{},
		hour:    hour,
		minute:  minute,
		lockTTL: 10 * time.Minute,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// nextRun returns the first hour:minute strictly after now, in now's location.
func nextRun(now time.Time, hour, minute int) time.Time {
	y, m, d := now.Date()
	next := time.Date(y, m, d, hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(y, m, d+1, hour, minute, 0, 0, now.Location())
	}
	return next
}

// Run blocks until ctx is done, sweeping once per day. The timer is re-armed
// only after a run finishes, so runs never overlap inside one process.
func (s *Sweeper) Run(ctx context.Context) {
	for {
		next := nextRun(s.now(), s.hour, s.minute)
		timer := time.NewTimer(next.Sub(s.now()))
		logger.Debug("membership sweep scheduled", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, ErrAlreadyRunning) && !errors.Is(err, ErrLocked) {
			logger.Error("membership sweep failed", "error", err)
		}
	}
}

// RunOnce performs a single sweep and reports how many memberships expired.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	if !s.running.CompareAndSwap(false, true) {
		metrics.RecordSweep("skipped")
		return 0, ErrAlreadyRunning
	}
	defer s.running.Store(false)

	ok, err := s.locker.Acquire(ctx, lockKey, s.lockTTL)
	if err != nil {
		metrics.RecordSweep("error")
		return 0, fmt.Errorf("acquire sweep lock: %w", err)
	}
	if !ok {
		metrics.RecordSweep("skipped")
		logger.Info("membership sweep skipped, lock held elsewhere")
		return 0, ErrLocked
	}
	defer func() {
		if err := s.locker.Release(ctx, lockKey); err != nil {
			logger.Error("release sweep lock", "error", err)
		}
	}()

	ranAt := s.now()
	n, err := s.expirer.ExpireOverdue(ctx)
	if err != nil {
		metrics.RecordSweep("error")
		return 0, err
	}

	metrics.RecordSweep("ok")
	metrics.RecordExpired(n)
	logger.Info("membership sweep finished", "expired", n)

	ev := events.MembershipsExpired{
		Count:  n,
		Cutoff: membership.StartOfDay(ranAt),
		RanAt:  ranAt,
	}
	if err := s.events.PublishJSON(ctx, events.KeyMembershipExpired, ev); err != nil {
		logger.Error("expired event not published", "error", err)
	}

	return n, nil
}
