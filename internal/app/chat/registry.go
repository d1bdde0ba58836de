/*
Package chat contains the real-time core: the connection registry, the
room-scoped broadcaster, and the per-connection read/write pumps.

This file defines the Registry, the single source of truth for which
connections exist. Room membership ids are always a subset of the ids
registered here; Unregister cascades removal through every room the
connection had joined.
*/
package chat

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"exnebula/internal/app/user"
	"exnebula/internal/pkg/logx"
	"exnebula/internal/pkg/randx"
)

// Registry tracks every live connection by its generated connection id.
type Registry struct {
	hub *Hub

	// mu guards the conns map only; per-connection state carries its own
	// lock, and the registry lock is never held across a room operation.
	mu    sync.RWMutex
	conns map[string]*Client

	logger zerolog.Logger
}

func newRegistry(h *Hub) *Registry {
	return &Registry{
		hub:    h,
		conns:  make(map[string]*Client),
		logger: logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// Register accepts a transport connection and creates its Client record:
// a fresh unique id, no identity, no rooms. Safe under arbitrary concurrency.
func (reg *Registry) Register(conn *websocket.Conn) *Client {
	id := randx.ConnectionID()

	c := &Client{
		hub:    reg.hub,
		conn:   conn,
		id:     id,
		rooms:  make(map[string]*Room),
		send:   make(chan []byte, sendQueueSize),
		pub:    rate.NewLimiter(reg.hub.opts.PublishRate, reg.hub.opts.PublishBurst),
		logger: logx.Logger().With().Str("connection_id", id).Logger(),
	}

	reg.mu.Lock()
	reg.conns[id] = c
	total := len(reg.conns)
	reg.mu.Unlock()

	reg.logger.Info().Str("connection_id", id).Int("total_connections", total).Msg("Connection registered.")
	return c
}

// Connection returns the client for the given connection id.
func (reg *Registry) Connection(id string) (*Client, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	c, ok := reg.conns[id]
	return c, ok
}

// Len reports the number of live connections.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return len(reg.conns)
}

// AttachIdentity upgrades the connection from anonymous to authenticated.
// The upgrade happens once: repeated calls are no-ops that return the
// identity already attached.
func (reg *Registry) AttachIdentity(id string, identity user.Identity) (user.Identity, bool) {
	c, ok := reg.Connection(id)
	if !ok {
		return user.Identity{}, false
	}

	return c.attachIdentity(identity), true
}

// Unregister removes the connection and, as part of the same logical
// operation, drops it from every room it was a member of. The first call
// wins; later calls for the same id are no-ops, so the cleanup cascade runs
// exactly once per connection lifecycle regardless of how the transport died.
func (reg *Registry) Unregister(id string) {
	reg.mu.Lock()
	c, ok := reg.conns[id]
	if ok {
		delete(reg.conns, id)
	}
	total := len(reg.conns)
	reg.mu.Unlock()

	if !ok {
		return
	}

	c.markClosed()

	for name, r := range c.trackedRooms() {
		r.leave(c)
		reg.hub.pruneIfEmpty(name)
	}

	c.closeSend()

	reg.logger.Info().Str("connection_id", id).Int("total_connections", total).Msg("Connection unregistered.")
}

// snapshot returns the current set of clients for shutdown iteration.
func (reg *Registry) snapshot() []*Client {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	clients := make([]*Client, 0, len(reg.conns))
	for _, c := range reg.conns {
		clients = append(clients, c)
	}
	return clients
}
