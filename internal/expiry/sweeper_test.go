package expiry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	mu      sync.Mutex
	cutoffs []int64
	err     error
}

func (p *fakePurger) DeleteOlderThan(ctx context.Context, cutoffMillis int64) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, cutoffMillis)
	if p.err != nil {
		return 0, p.err
	}
	return 3, nil
}

func (p *fakePurger) calls() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int64{}, p.cutoffs...)
}

func TestSweeperPurgesWithRetentionCutoff(t *testing.T) {
	purger := &fakePurger{}
	now := time.Unix(1_700_000_000, 0)

	s := NewSweeper(purger, DefaultRetention, time.Hour)
	s.now = func() time.Time { return now }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// The first sweep happens immediately, before the first tick.
	require.Eventually(t, func() bool { return len(purger.calls()) >= 1 }, time.Second, time.Millisecond)
	cancel()
	<-done

	want := now.Add(-DefaultRetention).UnixMilli()
	assert.Equal(t, want, purger.calls()[0])
}

func TestSweeperKeepsRunningAfterFailure(t *testing.T) {
	purger := &fakePurger{err: errors.New("db down")}

	s := NewSweeper(purger, DefaultRetention, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// Failures are swallowed; the loop ticks again instead of exiting.
	require.Eventually(t, func() bool { return len(purger.calls()) >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
