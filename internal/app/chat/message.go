/*
Package chat contains the real-time core: the connection registry, the
room-scoped broadcaster, and the per-connection read/write pumps.

This file defines the wire message types exchanged over live connections.
*/
package chat

import (
	"time"

	"exnebula/internal/pkg/randx"
)

// MessageType discriminates commands and events on the wire.
type MessageType string

const (
	// TypeJoin is the client command to join a room.
	TypeJoin MessageType = "JOIN"

	// TypeText is both the client publish command and the server delivery event.
	TypeText MessageType = "TEXT"

	// TypeUserJoined is the system-authored join announcement.
	TypeUserJoined MessageType = "USER_JOINED"

	// TypeError is the server-to-client error event.
	TypeError MessageType = "ERROR"
)

// SystemAuthor is the display name on server-generated announcements.
const SystemAuthor = "system"

// CommunityRoom is the pre-defined room every client may join once authenticated.
const CommunityRoom = "community"

// Message is a broadcast event delivered to room members. Immutable once
// published; the sequence id is assigned at publish time and is monotonically
// increasing per process, giving consumers a per-room total order and an
// idempotency key.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Room      string      `json:"room"`
	Author    string      `json:"author"`
	Body      string      `json:"body"`
	Timestamp int64       `json:"timestamp"`
	Seq       uint64      `json:"seq"`
}

// newMessage stamps a broadcast message with its identity and server time.
func newMessage(msgType MessageType, room, author, body string, seq uint64) Message {
	return Message{
		ID:        randx.MessageID(),
		Type:      msgType,
		Room:      room,
		Author:    author,
		Body:      body,
		Timestamp: time.Now().UnixMilli(),
		Seq:       seq,
	}
}

// ErrorEvent is the error envelope pushed to a single client.
type ErrorEvent struct {
	Type    MessageType `json:"type"`
	Code    int         `json:"code"`
	Reason  string      `json:"reason"`
	Message string      `json:"message"`
}

// inboundCommand is the envelope clients send over the connection.
type inboundCommand struct {
	Type MessageType `json:"type"`
	Room string      `json:"room,omitempty"`
	Body string      `json:"body,omitempty"`
}
