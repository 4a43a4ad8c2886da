package stream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bustracker-backend/internal/tracking"
)

func TestClientSendQueuesMarshalledMessage(t *testing.T) {
	c := NewClient(nil)

	speed := 12.5
	err := c.Send(tracking.StreamMessage{
		RideID:    "ride-1",
		Latitude:  40.7128,
		Longitude: -74.0060,
		Speed:     &speed,
		Timestamp: 1_700_000_000_000,
	})
	require.NoError(t, err)

	data := <-c.send
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "ride-1", got["ride_id"])
	assert.Equal(t, 40.7128, got["latitude"])
	assert.Equal(t, 12.5, got["speed"])
	_, hasHeading := got["heading"]
	assert.False(t, hasHeading, "nil optionals are omitted")
}

func TestClientSendFailsWhenViewerStalls(t *testing.T) {
	c := NewClient(nil)

	// Nothing drains the channel; once the buffer is full the session must
	// fail instead of queueing stale positions.
	var err error
	for i := 0; i < cap(c.send)+1; i++ {
		err = c.Send(tracking.StreamMessage{RideID: "ride-1"})
	}
	assert.Error(t, err)
}
