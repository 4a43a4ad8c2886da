package stream

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"bustracker-backend/internal/database"
	"bustracker-backend/internal/models"
	"bustracker-backend/internal/tracking"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Restrict in production
		return true
	},
}

// pollerStore adapts the typed query structs to the poller's read surface.
type pollerStore struct {
	rides     *database.RideQueries
	locations *database.LocationQueries
}

func (s pollerStore) IsActive(ctx context.Context, rideID string) (bool, error) {
	return s.rides.IsActive(ctx, rideID)
}

func (s pollerStore) LatestSince(ctx context.Context, rideID string, sinceMillis int64) (*models.LocationUpdate, error) {
	return s.locations.LatestSince(ctx, rideID, sinceMillis)
}

// HandleLocationStream upgrades the connection and runs one polling session
// for the ride named in the handshake query parameter. The stream closes
// when the ride is not (or no longer) in_progress, on any storage error, or
// when the viewer disconnects. No distinction between "ride ended" and "ride
// never existed" is signalled; both simply end the stream.
func HandleLocationStream(rides *database.RideQueries, locations *database.LocationQueries, pollInterval time.Duration) http.HandlerFunc {
	store := pollerStore{rides: rides, locations: locations}

	return func(w http.ResponseWriter, r *http.Request) {
		rideID := r.URL.Query().Get("ride_id")
		if rideID == "" {
			http.Error(w, "ride_id is required", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(conn)

		// The poller owns the session lifecycle; the read pump only reports
		// viewer disconnects by cancelling its context.
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go client.WritePump()
		go client.ReadPump(cancel)

		poller := tracking.NewPoller(store, client, rideID, pollInterval)
		if err := poller.Run(ctx); err != nil {
			log.Printf("❌ Stream for ride %s closed on error: %v", rideID, err)
		}

		client.Close()
	}
}
