// Package stream is the websocket transport for live location streams. Each
// connection carries exactly one poller session; there is no shared hub or
// fan-out, so a viewer disconnecting tears down only its own polling loop.
package stream

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"bustracker-backend/internal/tracking"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer; viewers only send pongs
	maxMessageSize = 512
)

var errViewerStalled = errors.New("viewer send buffer full")

// Client wraps one viewer's websocket connection. It implements
// tracking.Sink so a poller can push messages straight into the write pump.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, 16),
	}
}

// Send marshals one stream message into the write pump. A viewer that cannot
// drain its buffer fails the session instead of queueing stale positions.
func (c *Client) Send(msg tracking.StreamMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case c.send <- data:
		return nil
	default:
		return errViewerStalled
	}
}

// Close stops the write pump, which sends a close frame and drops the
// connection. Call exactly once, after the poller has returned.
func (c *Client) Close() {
	close(c.send)
}

// WritePump pumps queued messages to the websocket connection and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Session over
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump drains the connection until it errors, then reports the
// disconnect. Viewers send nothing meaningful; the read side exists so that
// a dropped connection cancels the polling loop promptly.
func (c *Client) ReadPump(onDisconnect func()) {
	defer func() {
		onDisconnect()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}
