package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Connection timing. Pings keep an idle dashboard tab connected through proxies.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// Pages never send application messages, only control frames
	maxInboundSize = 512

	// Events are small invalidation notices; a tab that falls this far behind is dropped
	sendQueueSize = 32
)

// ErrSlowClient is returned when a client's send queue is full
var ErrSlowClient = errors.New("client send queue is full")

// Client is one browser tab following a simulation
type Client struct {
	id           string
	simulationID int64
	conn         *websocket.Conn
	hub          *Hub

	queue chan []byte
	done  chan struct{}
	stop  sync.Once
}

// NewClient wraps an upgraded connection. Call Serve to run it.
func NewClient(conn *websocket.Conn, simulationID int64, hub *Hub) *Client {
	return &Client{
		id:           uuid.New().String(),
		simulationID: simulationID,
		conn:         conn,
		hub:          hub,
		queue:        make(chan []byte, sendQueueSize),
		done:         make(chan struct{}),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() string {
	return c.id
}

// SimulationID returns the simulation the client follows, or AllSimulations
func (c *Client) SimulationID() int64 {
	return c.simulationID
}

// Send queues data without blocking
func (c *Client) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.queue <- data:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return ErrSlowClient
	}
}

// Close stops the client and closes its connection. It may be called more than once.
func (c *Client) Close() error {
	err := ErrClientClosed
	c.stop.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// Closed reports whether Close was called
func (c *Client) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Serve runs the connection until the peer leaves or the client is closed,
// then unregisters it from the hub
func (c *Client) Serve() {
	go c.writeLoop()
	c.readLoop()
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && !c.Closed() {
				log.Debug().
					Err(err).
					Str("client_id", c.id).
					Int64("simulation_id", c.simulationID).
					Msg("WebSocket connection lost")
			}
			return
		}
	}
}

// writeLoop delivers queued events and pings. Any write failure closes the
// connection, which in turn ends readLoop.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case data := <-c.queue:
			if err := c.write(websocket.TextMessage, data); err != nil {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Int64("simulation_id", c.simulationID).
					Msg("WebSocket write failed")
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
