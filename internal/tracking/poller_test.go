package tracking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bustracker-backend/internal/models"
)

// fakePollerStore emulates the location store: a fixed set of updates plus a
// scripted sequence of ride-status answers.
type fakePollerStore struct {
	mu         sync.Mutex
	statuses   []bool // consumed per IsActive call; last value repeats
	statusErr  error  // returned once statuses are exhausted, if set
	locations  []models.LocationUpdate
	latestErr  error
	sinceCalls []int64
}

func (s *fakePollerStore) IsActive(ctx context.Context, rideID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.statuses) == 0 {
		if s.statusErr != nil {
			return false, s.statusErr
		}
		return false, nil
	}
	active := s.statuses[0]
	if len(s.statuses) > 1 {
		s.statuses = s.statuses[1:]
	}
	return active, nil
}

func (s *fakePollerStore) LatestSince(ctx context.Context, rideID string, sinceMillis int64) (*models.LocationUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinceCalls = append(s.sinceCalls, sinceMillis)
	if s.latestErr != nil {
		return nil, s.latestErr
	}
	var newest *models.LocationUpdate
	for i := range s.locations {
		loc := s.locations[i]
		if loc.Timestamp > sinceMillis && (newest == nil || loc.Timestamp > newest.Timestamp) {
			newest = &loc
		}
	}
	return newest, nil
}

type fakeSink struct {
	mu       sync.Mutex
	messages []StreamMessage
	sendErr  error
}

func (s *fakeSink) Send(msg StreamMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *fakeSink) sent() []StreamMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StreamMessage{}, s.messages...)
}

func newTestPoller(store PollerStore, sink Sink, sessionStart time.Time) *Poller {
	p := NewPoller(store, sink, "ride-1", time.Millisecond)
	p.now = func() time.Time { return sessionStart }
	return p
}

func TestPollerClosesWhenRideNeverActive(t *testing.T) {
	store := &fakePollerStore{statuses: []bool{false}}
	sink := &fakeSink{}

	p := newTestPoller(store, sink, time.Now())
	err := p.Run(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, sink.sent(), "no data may be sent for an inactive ride")
	assert.Empty(t, store.sinceCalls, "an inactive ride must never be polled")
}

func TestPollerFailsClosedOnInitError(t *testing.T) {
	store := &fakePollerStore{statuses: []bool{}, statusErr: errors.New("db down")}
	sink := &fakeSink{}

	p := newTestPoller(store, sink, time.Now())
	err := p.Run(context.Background())

	assert.Error(t, err)
	assert.Empty(t, sink.sent())
}

func TestPollerEmitsOnlyNewestSinceWatermark(t *testing.T) {
	sessionStart := time.Unix(1_700_000_000, 0)
	t1 := sessionStart.Add(2 * time.Second).UnixMilli()
	t2 := sessionStart.Add(5 * time.Second).UnixMilli()

	store := &fakePollerStore{
		// INIT active, first tick still active, second tick ended
		statuses: []bool{true, true, false},
		locations: []models.LocationUpdate{
			{RideID: "ride-1", Latitude: 40.7128, Longitude: -74.0060, Timestamp: t1},
			{RideID: "ride-1", Latitude: 40.7130, Longitude: -74.0055, Timestamp: t2},
		},
	}
	sink := &fakeSink{}

	p := newTestPoller(store, sink, sessionStart)
	err := p.Run(context.Background())
	require.NoError(t, err)

	// Both updates landed before the first tick: last-value-wins, only t2 goes out.
	msgs := sink.sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, t2, msgs[0].Timestamp)
	assert.Equal(t, 40.7130, msgs[0].Latitude)

	// The watermark advanced to the emitted timestamp, so the second tick
	// polled strictly past t2 and could not redeliver.
	require.Len(t, store.sinceCalls, 2)
	assert.Equal(t, sessionStart.UnixMilli(), store.sinceCalls[0])
	assert.Equal(t, t2, store.sinceCalls[1])
}

func TestPollerClosesAfterRideEnds(t *testing.T) {
	sessionStart := time.Unix(1_700_000_000, 0)
	store := &fakePollerStore{
		// Active at INIT, ended by the first status re-check.
		statuses: []bool{true, false},
		locations: []models.LocationUpdate{
			{RideID: "ride-1", Latitude: 1, Longitude: 2, Timestamp: sessionStart.Add(time.Second).UnixMilli()},
		},
	}
	sink := &fakeSink{}

	p := newTestPoller(store, sink, sessionStart)
	err := p.Run(context.Background())
	require.NoError(t, err)

	// The tick that observed the ended status may still deliver the final
	// update fetched before the flip; nothing further is possible since Run
	// has returned.
	assert.LessOrEqual(t, len(sink.sent()), 1)
	assert.Len(t, store.sinceCalls, 1)
}

func TestPollerFailsClosedOnStorageError(t *testing.T) {
	store := &fakePollerStore{
		statuses:  []bool{true, true},
		latestErr: errors.New("query timeout"),
	}
	sink := &fakeSink{}

	p := newTestPoller(store, sink, time.Now())
	err := p.Run(context.Background())

	assert.Error(t, err)
	assert.Empty(t, sink.sent())
}

func TestPollerFailsClosedOnSinkError(t *testing.T) {
	sessionStart := time.Unix(1_700_000_000, 0)
	store := &fakePollerStore{
		statuses: []bool{true, true},
		locations: []models.LocationUpdate{
			{RideID: "ride-1", Latitude: 1, Longitude: 2, Timestamp: sessionStart.Add(time.Second).UnixMilli()},
		},
	}
	sink := &fakeSink{sendErr: errors.New("viewer gone")}

	p := newTestPoller(store, sink, sessionStart)
	err := p.Run(context.Background())

	assert.Error(t, err)
}

func TestPollerStopsOnCancellation(t *testing.T) {
	store := &fakePollerStore{statuses: []bool{true, true}}
	sink := &fakeSink{}

	p := newTestPoller(store, sink, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}
