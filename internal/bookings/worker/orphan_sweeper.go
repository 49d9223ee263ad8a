package worker

import (
	"context"
	"sync"
	"time"

	"safari/pkg/logger"
)

type OrphanExpirer interface {
	ExpireOrphans(ctx context.Context, cutoff time.Time) (int, error)
}

// OrphanSweeper periodically expires Stripe bookings whose checkout was never
// paid within the configured TTL.
type OrphanSweeper struct {
	expirer  OrphanExpirer
	ttl      time.Duration
	interval time.Duration
	timeout  time.Duration
	log      *logger.Logger
	now      func() time.Time

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	start    sync.Once
}

func NewOrphanSweeper(expirer OrphanExpirer, ttl, interval time.Duration, log *logger.Logger) *OrphanSweeper {
	return &OrphanSweeper{
		expirer:  expirer,
		ttl:      ttl,
		interval: interval,
		timeout:  interval,
		log:      log,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *OrphanSweeper) Start() {
	s.start.Do(func() {
		s.log.Info("Orphan booking sweeper started", "ttl", s.ttl, "interval", s.interval)
		go s.run()
	})
}

func (s *OrphanSweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stopCh:
			return
		}
	}
}

// Sweep runs one expiry pass and returns the number of bookings expired.
func (s *OrphanSweeper) Sweep() int {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	cutoff := s.now().UTC().Add(-s.ttl)
	expired, err := s.expirer.ExpireOrphans(ctx, cutoff)
	if err != nil {
		s.log.Error("Orphan booking sweep failed", "cutoff", cutoff, "expired", expired, "error", err)
		return expired
	}
	if expired > 0 {
		s.log.Info("Expired orphan bookings", "count", expired, "cutoff", cutoff)
	}
	return expired
}

// Stop halts the sweeper and waits for an in-flight pass to finish. It is
// safe to call more than once and without Start.
func (s *OrphanSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })

	started := true
	s.start.Do(func() { started = false })
	if started {
		<-s.done
	}
}
