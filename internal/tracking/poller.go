package tracking

import (
	"context"
	"time"

	"bustracker-backend/internal/models"
)

// DefaultPollInterval is the cadence at which each viewer session polls for
// the newest location.
const DefaultPollInterval = 15 * time.Second

// PollerStore is the read surface a polling session needs.
type PollerStore interface {
	IsActive(ctx context.Context, rideID string) (bool, error)
	LatestSince(ctx context.Context, rideID string, sinceMillis int64) (*models.LocationUpdate, error)
}

// Sink receives the messages a poller emits. Send returning an error closes
// the session.
type Sink interface {
	Send(msg StreamMessage) error
}

// StreamMessage is one position pushed to a viewer.
type StreamMessage struct {
	RideID    string   `json:"ride_id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Speed     *float64 `json:"speed,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// Poller is one viewer's polling session for a single ride.
//
// It runs as an explicit state machine: INIT verifies the ride is
// in_progress, ACTIVE repeats a fixed-cadence tick that emits at most the
// newest unseen location (last-value-wins) and re-checks ride status, and
// CLOSED releases the timer. Any storage or sink error closes the session
// rather than retrying, and cancelling the context closes it at whichever
// suspension point it is sleeping on.
type Poller struct {
	rideID   string
	store    PollerStore
	sink     Sink
	interval time.Duration
	lastSeen int64 // watermark, epoch milliseconds
	now      func() time.Time
}

func NewPoller(store PollerStore, sink Sink, rideID string, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		rideID:   rideID,
		store:    store,
		sink:     sink,
		interval: interval,
		now:      time.Now,
	}
}

// Run drives the session until it closes. It returns nil both for a clean
// close (ride ended, viewer gone) and for a ride that was never active; the
// viewer sees the stream end either way.
func (p *Poller) Run(ctx context.Context) error {
	// INIT: a ride that is not in_progress closes the stream immediately,
	// with no data sent.
	active, err := p.store.IsActive(ctx, p.rideID)
	if err != nil || !active {
		return err
	}

	// The watermark starts at session-start time; history before the viewer
	// connected is never replayed.
	p.lastSeen = p.now().UnixMilli()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			done, err := p.tick(ctx)
			if err != nil || done {
				return err
			}
		}
	}
}

// tick performs one ACTIVE-state poll: fetch the newest unseen location,
// emit it, then re-check the ride status. done reports a clean transition to
// CLOSED.
func (p *Poller) tick(ctx context.Context) (done bool, err error) {
	loc, err := p.store.LatestSince(ctx, p.rideID, p.lastSeen)
	if err != nil {
		return false, err
	}

	if loc != nil {
		msg := StreamMessage{
			RideID:    loc.RideID,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Speed:     loc.Speed,
			Heading:   loc.Heading,
			Timestamp: loc.Timestamp,
		}
		if err := p.sink.Send(msg); err != nil {
			return false, err
		}
		p.lastSeen = loc.Timestamp
	}

	active, err := p.store.IsActive(ctx, p.rideID)
	if err != nil {
		return false, err
	}
	if !active {
		return true, nil
	}

	return false, nil
}
