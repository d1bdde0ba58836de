/*
Package chat contains the real-time core: the connection registry, the
room-scoped broadcaster, and the per-connection read/write pumps.

This file defines the Client struct, representing one live connection. It
manages the connection's identity and room tracking, its bounded outbound
queue, and the ReadPump/WritePump loops over the WebSocket transport.
*/
package chat

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"exnebula/internal/app/user"
	"exnebula/internal/pkg/errs"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxFrameSize = 8192

	// sendQueueSize bounds the per-connection outbound queue. A consumer
	// that cannot drain this queue loses deliveries instead of growing
	// server memory.
	sendQueueSize = 256
)

// Client represents one live connection: its generated id, its optional
// authenticated identity, and the set of rooms it has joined.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	id   string

	// mu guards identity and rooms. Room locks are never taken while
	// holding it.
	mu       sync.RWMutex
	identity *user.Identity
	rooms    map[string]*Room

	closed atomic.Bool

	send      chan []byte
	closeOnce sync.Once

	// pub bounds this connection's publish rate.
	pub *rate.Limiter

	logger zerolog.Logger
}

// ID returns the generated connection id.
func (c *Client) ID() string {
	return c.id
}

// Identity returns the attached identity, if the connection has one.
func (c *Client) Identity() (user.Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.identity == nil {
		return user.Identity{}, false
	}
	return *c.identity, true
}

// attachIdentity performs the one-time anonymous-to-authenticated upgrade.
// A second call leaves state unchanged and returns the existing identity.
func (c *Client) attachIdentity(identity user.Identity) user.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.identity != nil {
		return *c.identity
	}

	c.identity = &identity
	return identity
}

// trackRoom records the room in the client's membership set.
func (c *Client) trackRoom(r *Room) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rooms[r.name] = r
}

// untrackRoom forgets the named room.
func (c *Client) untrackRoom(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.rooms, name)
}

// trackedRooms snapshots the rooms this client belongs to.
func (c *Client) trackedRooms() map[string]*Room {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rooms := make(map[string]*Room, len(c.rooms))
	for name, r := range c.rooms {
		rooms[name] = r
	}
	return rooms
}

// markClosed flags the client as disconnecting. Rooms check this under their
// own lock so no new membership is recorded once cleanup has begun.
func (c *Client) markClosed() {
	c.closed.Store(true)
}

func (c *Client) isClosed() bool {
	return c.closed.Load()
}

// enqueue offers a payload to the outbound queue without blocking.
// It reports false when the queue is full or already closed.
func (c *Client) enqueue(payload []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	if c.isClosed() {
		return false
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// closeSend closes the outbound queue exactly once.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// closeConn closes the underlying transport if one is attached.
func (c *Client) closeConn() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error.")
	}
}

// SendError pushes a TypeError event to this client only.
func (c *Client) SendError(err error) {
	var customErr *errs.CustomError
	if !errors.As(err, &customErr) {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	event := ErrorEvent{
		Type:    TypeError,
		Code:    customErr.Code,
		Reason:  customErr.Reason,
		Message: customErr.Message,
	}

	payload, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		c.logger.Error().Err(marshalErr).Msg("Error marshaling error event.")
		return
	}

	if !c.enqueue(payload) {
		c.logger.Warn().Str("reason", customErr.Reason).Msg("Error event dropped: send queue full or closed.")
	}
}

// ReadPump reads commands from the WebSocket connection until it dies.
// Its teardown drives the mandatory cleanup cascade: whether the peer closed
// cleanly or the network failed, the registry unregisters this connection
// exactly once.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxFrameSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline.")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Connection read ended unexpectedly.")
			}
			break
		}

		c.processInbound(payload)
	}
}

// cleanupOnDisconnect unregisters the connection and closes the transport.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Connection cleanup starting.")

	c.hub.Registry().Unregister(c.id)
	c.closeConn()
}

// processInbound dispatches one raw client command.
func (c *Client) processInbound(payload []byte) {
	var cmd inboundCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON.")
		return
	}

	switch cmd.Type {
	case TypeJoin:
		if joinErr := c.hub.Join(c, cmd.Room); joinErr != nil {
			c.SendError(joinErr)
		}

	case TypeText:
		if !c.pub.Allow() {
			c.SendError(errs.NewError(errs.ErrPublishThrottled))
			return
		}

		if _, pubErr := c.hub.Publish(c, cmd.Room, cmd.Body); pubErr != nil {
			c.SendError(pubErr)
		}

	default:
		c.logger.Warn().Str("command_type", string(cmd.Type)).Msg("Client sent unsupported command type.")
	}
}

// WritePump drains the outbound queue onto the WebSocket connection and keeps
// the heartbeat alive. One slow consumer only ever stalls its own pump; fan-out
// never waits on it because enqueue is non-blocking.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.closeConn()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline.")
				return
			}

			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug().Err(err).Msg("Error writing close message.")
				}
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Error().Err(err).Msg("Error writing message.")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping.")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Error().Err(err).Msg("Error writing ping.")
				return
			}
		}
	}
}
