package chat

import (
	"sync"
	"time"

	"Projease/logger"

	"github.com/gorilla/websocket"
)

const writeDeadline = 5 * time.Second

// Client represents one live connection to the realtime endpoint.
// Outbound frames go through the buffered Send queue and are drained by
// a single writer goroutine; nothing else writes to the socket.
type Client struct {
	ConnID string
	WS     *websocket.Conn
	Send   chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(connID string, ws *websocket.Conn, sendQueueSize int) *Client {
	if sendQueueSize <= 0 {
		sendQueueSize = 256
	}
	return &Client{
		ConnID: connID,
		WS:     ws,
		Send:   make(chan []byte, sendQueueSize),
	}
}

// Enqueue hands a frame to the writer without blocking. A full queue
// means a slow or gone client; the frame is dropped and logged, never
// allowed to stall the caller. Enqueue after CloseSend is a silent
// drop: fan-out snapshots may still hold a handle to a connection torn
// down in between, and delivering to it must never fault.
func (c *Client) Enqueue(payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		logger.Debugf("[chat] drop frame for closed conn=%s", c.ConnID)
		return
	}
	select {
	case c.Send <- payload:
	default:
		logger.Warnf("[chat] send queue full, drop frame conn=%s", c.ConnID)
	}
}

// WritePump drains Send until the queue is closed. Runs as the
// connection's only writer.
func (c *Client) WritePump() {
	for payload := range c.Send {
		if c.WS == nil {
			continue
		}
		if err := c.WS.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
			logger.Debugf("[chat] set write deadline conn=%s: %v", c.ConnID, err)
		}
		if err := c.WS.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Infof("[chat] write err conn=%s: %v", c.ConnID, err)
			c.CloseQuiet()
			// Keep draining so senders never block on a dead peer.
		}
	}
	c.CloseQuiet()
}

// CloseSend closes the outbound queue; the write pump exits after
// flushing what is already buffered. Safe to call more than once, and
// safe to race with Enqueue.
func (c *Client) CloseSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

func (c *Client) CloseQuiet() {
	if c.WS != nil {
		_ = c.WS.Close()
	}
}
