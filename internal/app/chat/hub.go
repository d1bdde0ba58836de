/*
Package chat contains the real-time core: the connection registry, the
room-scoped broadcaster, and the per-connection read/write pumps.

This file defines the Hub, which owns the registry and the set of active
rooms and coordinates join, publish, and leave across them.
*/
package chat

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"exnebula/internal/pkg/errs"
	"exnebula/internal/pkg/logx"
)

// Options configures the Hub's per-message and per-connection limits.
type Options struct {
	// MaxMessageBytes caps the body length of a published message.
	MaxMessageBytes int

	// PublishRate and PublishBurst bound how fast a single connection may
	// publish, independently of HTTP admission control.
	PublishRate  rate.Limit
	PublishBurst int
}

// DefaultOptions returns the limits used when the caller provides none.
func DefaultOptions() Options {
	return Options{
		MaxMessageBytes: 5000,
		PublishRate:     rate.Limit(5),
		PublishBurst:    10,
	}
}

// Hub coordinates the connection registry and all active rooms.
//
// The rooms map is guarded by its own mutex, and every room carries its own
// lock, so traffic in one room never serializes against another. The sequence
// counter is process-wide and atomic; sequence ids are drawn inside a room's
// critical section, which is what makes per-room delivery order total.
type Hub struct {
	registry *Registry

	mu    sync.RWMutex
	rooms map[string]*Room

	seq atomic.Uint64

	opts   Options
	logger zerolog.Logger
}

// NewHub constructs a Hub and its registry.
func NewHub(opts Options) *Hub {
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = DefaultOptions().MaxMessageBytes
	}
	if opts.PublishRate <= 0 {
		opts.PublishRate = DefaultOptions().PublishRate
	}
	if opts.PublishBurst <= 0 {
		opts.PublishBurst = DefaultOptions().PublishBurst
	}

	h := &Hub{
		rooms:  make(map[string]*Room),
		opts:   opts,
		logger: logx.Logger().With().Str("component", "Hub").Logger(),
	}
	h.registry = newRegistry(h)

	return h
}

// Registry returns the hub's connection registry.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// nextSeq hands out the next process-wide sequence id.
func (h *Hub) nextSeq() uint64 {
	return h.seq.Add(1)
}

// room returns the room with the given name, creating it lazily on first use.
func (h *Hub) room(name string) *Room {
	h.mu.RLock()
	r, ok := h.rooms[name]
	h.mu.RUnlock()

	if ok {
		return r
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if r, ok = h.rooms[name]; ok {
		return r
	}

	r = newRoom(h, name)
	h.rooms[name] = r

	h.logger.Info().Str("room", name).Msg("Room created.")
	return r
}

// Room returns the named room if it currently exists.
func (h *Hub) Room(name string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	r, ok := h.rooms[name]
	return r, ok
}

// Join adds the connection to the named room. Anonymous connections are
// rejected; authenticated ones trigger a join announcement to the room's
// prior members.
func (h *Hub) Join(c *Client, roomName string) *errs.CustomError {
	if roomName == "" {
		roomName = CommunityRoom
	}

	if _, ok := c.Identity(); !ok {
		return errs.NewError(errs.ErrUnauthenticatedJoin)
	}

	for {
		r := h.room(roomName)
		if joined := r.join(c); joined {
			return nil
		}
		// The room was pruned between lookup and join; take a fresh one.
	}
}

// Publish broadcasts a message body from the connection to the named room,
// returning the assigned sequence id. The publishing connection must already
// be a member; body length is bounded by the hub's configured maximum.
func (h *Hub) Publish(c *Client, roomName, body string) (uint64, *errs.CustomError) {
	if roomName == "" {
		roomName = CommunityRoom
	}

	if len(body) > h.opts.MaxMessageBytes {
		return 0, errs.NewError(errs.ErrMessageTooLong)
	}

	r, ok := h.Room(roomName)
	if !ok {
		return 0, errs.NewError(errs.ErrNotMember)
	}

	return r.publish(c, body)
}

// Leave removes the connection from the named room without announcement.
func (h *Hub) Leave(c *Client, roomName string) {
	r, ok := h.Room(roomName)
	if !ok {
		return
	}

	r.leave(c)
	h.pruneIfEmpty(roomName)
}

// pruneIfEmpty drops the named room when its membership is empty.
// Removal is an optimization; a lingering empty room is harmless.
func (h *Hub) pruneIfEmpty(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[name]
	if !ok {
		return
	}

	r.mu.Lock()
	if len(r.members) == 0 {
		r.pruned = true
		delete(h.rooms, name)
		h.logger.Info().Str("room", name).Msg("Empty room pruned.")
	}
	r.mu.Unlock()
}

// Shutdown closes every registered connection's send queue and transport.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Shutting down hub...")

	for _, c := range h.registry.snapshot() {
		h.registry.Unregister(c.ID())
		c.closeConn()
	}

	h.logger.Info().Msg("Hub shutdown complete.")
}
