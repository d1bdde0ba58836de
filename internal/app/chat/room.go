/*
Package chat contains the real-time core: the connection registry, the
room-scoped broadcaster, and the per-connection read/write pumps.

This file defines the Room, one named broadcast group. Each room carries its
own mutex: membership changes and fan-out snapshots for a room are mutually
exclusive with each other but never with other rooms, so one hot room cannot
stall unrelated traffic.
*/
package chat

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"exnebula/internal/pkg/errs"
	"exnebula/internal/pkg/logx"
)

// Room is a named group of connections receiving the same published messages.
type Room struct {
	hub  *Hub
	name string

	// mu guards members and pruned. Sequence assignment and the fan-out
	// snapshot happen under this lock, so a concurrent joiner or leaver
	// either fully receives or fully misses any given publish.
	mu      sync.Mutex
	members map[string]*Client
	pruned  bool

	logger zerolog.Logger
}

func newRoom(h *Hub, name string) *Room {
	return &Room{
		hub:     h,
		name:    name,
		members: make(map[string]*Client),
		logger:  logx.Logger().With().Str("room", name).Logger(),
	}
}

// Name returns the room's name.
func (r *Room) Name() string {
	return r.name
}

// Members returns a snapshot of the member connection ids.
func (r *Room) Members() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	return ids
}

// join adds the client to the room and announces it to the prior members.
// The joining connection does not observe its own announcement, which avoids
// a duplicate local echo on the client.
//
// It returns false when the room was pruned before the lock was taken; the
// hub then retries against a fresh room. A client that disconnected while
// joining is treated as joined-then-cleaned-up: membership is never recorded
// for a closed client, so no membership can outlive its connection.
func (r *Room) join(c *Client) bool {
	// Track first so a concurrent disconnect cascade sees the room.
	c.trackRoom(r)

	r.mu.Lock()

	if r.pruned {
		r.mu.Unlock()
		c.untrackRoom(r.name)
		return false
	}

	if c.isClosed() {
		r.mu.Unlock()
		c.untrackRoom(r.name)
		return true
	}

	if _, already := r.members[c.id]; already {
		r.mu.Unlock()
		return true
	}

	r.members[c.id] = c
	total := len(r.members)

	name := SystemAuthor
	if identity, ok := c.Identity(); ok {
		name = identity.Name
	}

	announcement := newMessage(
		TypeUserJoined,
		r.name,
		SystemAuthor,
		fmt.Sprintf("%s joined the community", name),
		r.hub.nextSeq(),
	)
	r.deliverLocked(announcement, c.id)

	r.mu.Unlock()

	r.logger.Info().Str("connection_id", c.id).Int("total_members", total).Msg("Connection joined room.")
	return true
}

// publish broadcasts a message body from the client to every current member.
// The sequence id is assigned and the member snapshot taken inside the same
// critical section, which yields a total per-room delivery order.
func (r *Room) publish(c *Client, body string) (uint64, *errs.CustomError) {
	r.mu.Lock()

	if member, ok := r.members[c.id]; !ok || member != c {
		r.mu.Unlock()
		return 0, errs.NewError(errs.ErrNotMember)
	}

	author := SystemAuthor
	if identity, ok := c.Identity(); ok {
		author = identity.Name
	}

	msg := newMessage(TypeText, r.name, author, body, r.hub.nextSeq())
	r.deliverLocked(msg, "")

	r.mu.Unlock()

	return msg.Seq, nil
}

// leave removes the client from the room without announcement. Disconnects
// stay silent so transient network blips do not alarm remaining members.
func (r *Room) leave(c *Client) {
	r.mu.Lock()

	member, ok := r.members[c.id]
	if ok && member == c {
		delete(r.members, c.id)
	}
	total := len(r.members)

	r.mu.Unlock()

	c.untrackRoom(r.name)

	if ok {
		r.logger.Info().Str("connection_id", c.id).Int("total_members", total).Msg("Connection left room.")
	}
}

// deliverLocked fans the message out to every member except excludeID.
// Callers must hold r.mu. Delivery is best-effort per member: a full send
// queue drops that single delivery without affecting the publisher or the
// other members.
func (r *Room) deliverLocked(msg Message, excludeID string) {
	payload, err := json.Marshal(msg)
	if err != nil {
		r.logger.Error().Str("message_id", msg.ID).Err(err).Msg("Error marshaling message for broadcast.")
		return
	}

	for id, member := range r.members {
		if id == excludeID {
			continue
		}

		if !member.enqueue(payload) {
			r.logger.Warn().
				Str("connection_id", id).
				Str("message_id", msg.ID).
				Uint64("seq", msg.Seq).
				Msg("Delivery dropped: member send queue full or closed.")
		}
	}
}
