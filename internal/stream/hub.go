// Package stream fans forum changes out to live viewers of an event.
//
// Each event has a room. A room numbers every frame it publishes and hands
// it to each subscriber while holding the room lock, so every subscriber
// observes the same order. A subscriber that cannot keep up is dropped and
// is expected to catch up by listing the forum again.
//
// Callers publish after their store transaction commits, so two concurrent
// changes to one message may be numbered in the reverse of their commit
// order. Every viewer still sees the same sequence; the forum listing is
// authoritative and viewers reconcile by listing again.
package stream

import (
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

// FrameType identifies a forum change.
type FrameType string

const (
	NewMessage    FrameType = "new_message"
	PinToggle     FrameType = "pin_toggle"
	DeleteMessage FrameType = "delete_message"
	Reaction      FrameType = "reaction"
	Heartbeat     FrameType = "heartbeat"
)

// Frame is what a viewer receives. Seq is assigned by the room.
type Frame struct {
	Type    FrameType      `json:"type"`
	Seq     int64          `json:"seq,omitempty"`
	EventID string         `json:"eventId"`
	Message *model.Message `json:"message,omitempty"`
	Emoji   string         `json:"emoji,omitempty"`
	UserID  string         `json:"userId,omitempty"`
	Added   *bool          `json:"added,omitempty"`
	Counts  map[string]int `json:"counts,omitempty"`
	SentAt  time.Time      `json:"sentAt"`
}

// MessageFrame wraps a snapshot of msg.
func MessageFrame(t FrameType, msg *model.Message) Frame {
	snap := msg.Clone()
	return Frame{Type: t, EventID: msg.EventID, Message: &snap}
}

// ReactionFrame reports a reaction toggle along with the resulting message
// and its per-emoji counts.
func ReactionFrame(msg *model.Message, emoji, userID string, added bool) Frame {
	f := MessageFrame(Reaction, msg)
	f.Emoji = emoji
	f.UserID = userID
	f.Added = &added
	f.Counts = msg.ReactionCounts()
	return f
}

// Hub owns the rooms, one per event with at least one viewer.
type Hub struct {
	mu     sync.Mutex
	rooms  map[string]*room
	buffer int
}

// NewHub returns a hub whose subscribers buffer up to buffer frames.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{rooms: make(map[string]*room), buffer: buffer}
}

type room struct {
	mu      sync.Mutex
	eventID string
	nextSeq int64
	subs    map[*subscriber]struct{}
}

type subscriber struct {
	ch     chan Frame
	closed bool
}

// Subscription is one viewer's feed. C is closed when the viewer is
// dropped for falling behind or after Close.
type Subscription struct {
	C <-chan Frame

	hub  *Hub
	room *room
	sub  *subscriber
	once sync.Once
}

// Subscribe joins the event's room, creating it if needed.
func (h *Hub) Subscribe(eventID string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[eventID]
	if !ok {
		r = &room{eventID: eventID, subs: make(map[*subscriber]struct{})}
		h.rooms[eventID] = r
	}

	s := &subscriber{ch: make(chan Frame, h.buffer)}
	r.mu.Lock()
	r.subs[s] = struct{}{}
	r.mu.Unlock()

	return &Subscription{C: s.ch, hub: h, room: r, sub: s}
}

// Close leaves the room. The room is removed once nobody is left in it.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()

		s.room.mu.Lock()
		s.room.drop(s.sub)
		empty := len(s.room.subs) == 0
		s.room.mu.Unlock()

		if empty && s.hub.rooms[s.room.eventID] == s.room {
			delete(s.hub.rooms, s.room.eventID)
		}
	})
}

// drop must be called with r.mu held.
func (r *room) drop(s *subscriber) {
	delete(r.subs, s)
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Publish numbers f and delivers it to every current viewer of the event.
// It returns the assigned sequence, or 0 when nobody is watching.
func (h *Hub) Publish(eventID string, f Frame) int64 {
	h.mu.Lock()
	r := h.rooms[eventID]
	h.mu.Unlock()
	if r == nil {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq++
	f.Seq = r.nextSeq
	f.EventID = eventID
	if f.SentAt.IsZero() {
		f.SentAt = time.Now().UTC()
	}
	for s := range r.subs {
		select {
		case s.ch <- f:
		default:
			r.drop(s)
		}
	}
	return f.Seq
}

// Viewers reports how many subscribers the event's room holds.
func (h *Hub) Viewers(eventID string) int {
	h.mu.Lock()
	r := h.rooms[eventID]
	h.mu.Unlock()
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Rooms reports the number of live rooms.
func (h *Hub) Rooms() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}
