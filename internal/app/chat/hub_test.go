package chat

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"exnebula/internal/app/user"
	"exnebula/internal/pkg/errs"
)

func newTestHub() *Hub {
	return NewHub(DefaultOptions())
}

// registerUser registers a transport-less client and attaches an identity.
func registerUser(t *testing.T, h *Hub, id, name string) *Client {
	t.Helper()

	c := h.Registry().Register(nil)
	identity := user.Identity{ID: id, Name: name, Email: name + "@example.com"}
	if _, ok := h.Registry().AttachIdentity(c.ID(), identity); !ok {
		t.Fatalf("AttachIdentity failed for connection %s", c.ID())
	}
	return c
}

// nextEvent pops one queued delivery off the client's send queue.
func nextEvent(t *testing.T, c *Client) Message {
	t.Helper()

	select {
	case payload := <-c.send:
		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		return msg
	default:
		t.Fatal("expected a queued event, send queue is empty")
		return Message{}
	}
}

func queueLen(c *Client) int {
	return len(c.send)
}

func TestJoinRequiresIdentity(t *testing.T) {
	h := newTestHub()
	anon := h.Registry().Register(nil)

	joinErr := h.Join(anon, CommunityRoom)
	if joinErr == nil {
		t.Fatal("anonymous join succeeded, want rejection")
	}
	if joinErr.Code != errs.ErrUnauthenticatedJoin {
		t.Errorf("join error code = %d, want %d", joinErr.Code, errs.ErrUnauthenticatedJoin)
	}

	// The rejected join must leave no membership behind.
	if _, ok := h.Room(CommunityRoom); ok {
		t.Error("room exists with members after rejected join")
	}

	_, pubErr := h.Publish(anon, CommunityRoom, "hello")
	if pubErr == nil || pubErr.Code != errs.ErrNotMember {
		t.Errorf("publish after rejected join = %v, want not_member", pubErr)
	}
}

func TestJoinAnnouncementExcludesJoiner(t *testing.T) {
	h := newTestHub()
	alice := registerUser(t, h, "u1", "Alice")
	bob := registerUser(t, h, "u2", "Bob")

	if err := h.Join(alice, CommunityRoom); err != nil {
		t.Fatalf("alice join: %v", err)
	}
	if queueLen(alice) != 0 {
		t.Fatal("first joiner received an event in an empty room")
	}

	if err := h.Join(bob, CommunityRoom); err != nil {
		t.Fatalf("bob join: %v", err)
	}

	event := nextEvent(t, alice)
	if event.Type != TypeUserJoined {
		t.Errorf("event type = %q, want %q", event.Type, TypeUserJoined)
	}
	if event.Author != SystemAuthor {
		t.Errorf("announcement author = %q, want %q", event.Author, SystemAuthor)
	}
	if !strings.Contains(event.Body, "Bob") {
		t.Errorf("announcement body %q does not name the joiner", event.Body)
	}
	if event.Seq == 0 {
		t.Error("announcement seq = 0, want assigned sequence")
	}

	if queueLen(bob) != 0 {
		t.Error("joiner observed its own announcement")
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	h := newTestHub()
	alice := registerUser(t, h, "u1", "Alice")
	bob := registerUser(t, h, "u2", "Bob")

	if err := h.Join(alice, CommunityRoom); err != nil {
		t.Fatalf("alice join: %v", err)
	}
	if err := h.Join(bob, CommunityRoom); err != nil {
		t.Fatalf("bob join: %v", err)
	}
	nextEvent(t, alice) // bob's announcement

	if err := h.Join(bob, CommunityRoom); err != nil {
		t.Fatalf("repeated join: %v", err)
	}
	if queueLen(alice) != 0 {
		t.Error("repeated join produced a second announcement")
	}

	rm, ok := h.Room(CommunityRoom)
	if !ok {
		t.Fatal("room missing")
	}
	if got := len(rm.Members()); got != 2 {
		t.Errorf("member count = %d, want 2", got)
	}
}

func TestPublishDeliversToAllMembersInOrder(t *testing.T) {
	h := newTestHub()
	alice := registerUser(t, h, "u1", "Alice")
	bob := registerUser(t, h, "u2", "Bob")

	if err := h.Join(alice, CommunityRoom); err != nil {
		t.Fatalf("alice join: %v", err)
	}
	if err := h.Join(bob, CommunityRoom); err != nil {
		t.Fatalf("bob join: %v", err)
	}
	joinSeq := nextEvent(t, alice).Seq

	seq1, pubErr := h.Publish(alice, CommunityRoom, "first")
	if pubErr != nil {
		t.Fatalf("publish first: %v", pubErr)
	}
	seq2, pubErr := h.Publish(alice, CommunityRoom, "second")
	if pubErr != nil {
		t.Fatalf("publish second: %v", pubErr)
	}

	if seq1 <= joinSeq {
		t.Errorf("first message seq %d not after join announcement seq %d", seq1, joinSeq)
	}
	if seq2 <= seq1 {
		t.Errorf("second message seq %d not after first %d", seq2, seq1)
	}

	// Both members, publisher included, see the same messages in seq order.
	for _, member := range []*Client{alice, bob} {
		m1 := nextEvent(t, member)
		m2 := nextEvent(t, member)

		if m1.Type != TypeText || m2.Type != TypeText {
			t.Fatalf("member %s: event types = %q, %q, want TEXT", member.ID(), m1.Type, m2.Type)
		}
		if m1.Body != "first" || m2.Body != "second" {
			t.Errorf("member %s: bodies = %q, %q, want first/second", member.ID(), m1.Body, m2.Body)
		}
		if m1.Seq != seq1 || m2.Seq != seq2 {
			t.Errorf("member %s: seqs = %d, %d, want %d, %d", member.ID(), m1.Seq, m2.Seq, seq1, seq2)
		}
		if m1.Author != "Alice" {
			t.Errorf("member %s: author = %q, want Alice", member.ID(), m1.Author)
		}
	}
}

func TestPublishRequiresMembership(t *testing.T) {
	h := newTestHub()
	alice := registerUser(t, h, "u1", "Alice")
	mallory := registerUser(t, h, "u3", "Mallory")

	if err := h.Join(alice, CommunityRoom); err != nil {
		t.Fatalf("alice join: %v", err)
	}

	_, pubErr := h.Publish(mallory, CommunityRoom, "sneaky")
	if pubErr == nil || pubErr.Code != errs.ErrNotMember {
		t.Fatalf("non-member publish = %v, want not_member", pubErr)
	}

	if queueLen(alice) != 0 {
		t.Error("rejected publish still delivered to members")
	}
}

func TestPublishRejectsOversizedBody(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxMessageBytes = 10
	h := NewHub(opts)

	alice := registerUser(t, h, "u1", "Alice")
	if err := h.Join(alice, CommunityRoom); err != nil {
		t.Fatalf("join: %v", err)
	}

	_, pubErr := h.Publish(alice, CommunityRoom, strings.Repeat("x", 11))
	if pubErr == nil || pubErr.Code != errs.ErrMessageTooLong {
		t.Fatalf("oversized publish = %v, want message_too_long", pubErr)
	}

	if seq, pubErr := h.Publish(alice, CommunityRoom, strings.Repeat("x", 10)); pubErr != nil || seq == 0 {
		t.Fatalf("at-limit publish = %d, %v, want accepted", seq, pubErr)
	}
}

func TestUnregisterCascadesThroughRooms(t *testing.T) {
	h := newTestHub()
	alice := registerUser(t, h, "u1", "Alice")
	bob := registerUser(t, h, "u2", "Bob")

	if err := h.Join(alice, CommunityRoom); err != nil {
		t.Fatalf("alice join: %v", err)
	}
	if err := h.Join(bob, CommunityRoom); err != nil {
		t.Fatalf("bob join: %v", err)
	}
	nextEvent(t, alice) // bob's announcement

	h.Registry().Unregister(bob.ID())

	if _, ok := h.Registry().Connection(bob.ID()); ok {
		t.Error("unregistered connection still in registry")
	}

	rm, ok := h.Room(CommunityRoom)
	if !ok {
		t.Fatal("room missing after one member left")
	}
	for _, id := range rm.Members() {
		if id == bob.ID() {
			t.Error("unregistered connection still a room member")
		}
	}

	// Departure is silent and later traffic skips the gone member.
	if queueLen(alice) != 0 {
		t.Error("disconnect produced an announcement")
	}
	if _, pubErr := h.Publish(alice, CommunityRoom, "still here"); pubErr != nil {
		t.Fatalf("publish after peer left: %v", pubErr)
	}
	if got := nextEvent(t, alice).Body; got != "still here" {
		t.Errorf("remaining member got %q, want %q", got, "still here")
	}

	// Second unregister for the same id is a no-op.
	h.Registry().Unregister(bob.ID())
}

func TestRoomPrunedWhenLastMemberLeaves(t *testing.T) {
	h := newTestHub()
	alice := registerUser(t, h, "u1", "Alice")

	if err := h.Join(alice, "study-group"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, ok := h.Room("study-group"); !ok {
		t.Fatal("room missing after join")
	}

	h.Leave(alice, "study-group")

	if _, ok := h.Room("study-group"); ok {
		t.Error("empty room not pruned")
	}
}

func TestAttachIdentityIsIdempotent(t *testing.T) {
	h := newTestHub()
	c := h.Registry().Register(nil)

	first := user.Identity{ID: "u1", Name: "Alice"}
	got, ok := h.Registry().AttachIdentity(c.ID(), first)
	if !ok || got != first {
		t.Fatalf("first attach = %+v, %v", got, ok)
	}

	second := user.Identity{ID: "u9", Name: "Impostor"}
	got, ok = h.Registry().AttachIdentity(c.ID(), second)
	if !ok {
		t.Fatal("second attach reported unknown connection")
	}
	if got != first {
		t.Errorf("second attach replaced identity: got %+v, want %+v", got, first)
	}

	identity, has := c.Identity()
	if !has || identity != first {
		t.Errorf("connection identity = %+v, want %+v", identity, first)
	}
}

func TestAttachIdentityUnknownConnection(t *testing.T) {
	h := newTestHub()

	if _, ok := h.Registry().AttachIdentity("no-such-id", user.Identity{ID: "u1"}); ok {
		t.Error("attach to unknown connection reported success")
	}
}

func TestDeliveryDroppedOnFullQueueWithoutFailingPublish(t *testing.T) {
	h := newTestHub()
	alice := registerUser(t, h, "u1", "Alice")
	bob := registerUser(t, h, "u2", "Bob")

	if err := h.Join(alice, CommunityRoom); err != nil {
		t.Fatalf("alice join: %v", err)
	}
	if err := h.Join(bob, CommunityRoom); err != nil {
		t.Fatalf("bob join: %v", err)
	}
	nextEvent(t, alice)

	// Saturate bob's outbound queue so the next delivery has nowhere to go.
	for i := 0; i < sendQueueSize; i++ {
		if !bob.enqueue([]byte("{}")) {
			t.Fatalf("queue filled early at %d", i)
		}
	}

	seq, pubErr := h.Publish(alice, CommunityRoom, "overflow")
	if pubErr != nil {
		t.Fatalf("publish with one saturated member: %v", pubErr)
	}

	if got := nextEvent(t, alice); got.Seq != seq {
		t.Errorf("healthy member seq = %d, want %d", got.Seq, seq)
	}
	if queueLen(bob) != sendQueueSize {
		t.Errorf("saturated member queue length = %d, want unchanged %d", queueLen(bob), sendQueueSize)
	}
}

func TestConcurrentPublishSeqsAreDistinct(t *testing.T) {
	const publishers = 8
	const perPublisher = 20

	h := newTestHub()

	clients := make([]*Client, publishers)
	for i := range clients {
		clients[i] = registerUser(t, h, "u"+string(rune('a'+i)), "User"+string(rune('A'+i)))
		if err := h.Join(clients[i], CommunityRoom); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}

	var mu sync.Mutex
	seen := make(map[uint64]bool)

	var wg sync.WaitGroup
	for _, c := range clients {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				seq, pubErr := h.Publish(c, CommunityRoom, "msg")
				if pubErr != nil {
					t.Errorf("publish: %v", pubErr)
					return
				}
				mu.Lock()
				if seen[seq] {
					t.Errorf("sequence %d assigned twice", seq)
				}
				seen[seq] = true
				mu.Unlock()
			}
		}(c)
	}
	wg.Wait()

	if len(seen) != publishers*perPublisher {
		t.Errorf("distinct seqs = %d, want %d", len(seen), publishers*perPublisher)
	}
}
