// Package expiry enforces the location retention window with a periodic
// background sweep.
package expiry

import (
	"context"
	"log"
	"time"
)

const (
	// DefaultRetention is how long location updates are kept.
	DefaultRetention = 30 * 24 * time.Hour

	// DefaultSweepInterval is how often expired rows are purged. Pollers
	// only read forward from a recent watermark, so sweep timing never
	// affects live tracking.
	DefaultSweepInterval = time.Hour
)

// LocationPurger deletes location updates older than a cutoff.
type LocationPurger interface {
	DeleteOlderThan(ctx context.Context, cutoffMillis int64) (int64, error)
}

// Sweeper periodically purges location updates older than the retention
// window.
type Sweeper struct {
	locations LocationPurger
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

func NewSweeper(locations LocationPurger, retention, interval time.Duration) *Sweeper {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		locations: locations,
		retention: retention,
		interval:  interval,
		now:       time.Now,
	}
}

// Run sweeps once immediately and then on every interval until the context
// is cancelled. Sweep failures are logged and retried on the next tick; a
// failed sweep must never take ingestion or polling down with it.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := s.now().Add(-s.retention).UnixMilli()
	deleted, err := s.locations.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("❌ Location expiry sweep failed: %v", err)
		}
		return
	}
	if deleted > 0 {
		log.Printf("🧹 Expired %d location updates older than %s", deleted, s.retention)
	}
}
