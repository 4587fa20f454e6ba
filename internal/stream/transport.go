package stream

import (
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/net/websocket"
)

// Handler serves a websocket feed of the event's room. Authentication and
// event lookup happen before this handler runs.
func (h *Hub) Handler(eventID string, heartbeat time.Duration) http.Handler {
	return websocket.Server{
		Handler: func(conn *websocket.Conn) {
			h.serve(conn, eventID, heartbeat)
		},
	}
}

func (h *Hub) serve(conn *websocket.Conn, eventID string, heartbeat time.Duration) {
	defer func() {
		_ = conn.Close()
	}()
	// the http.Server read/write timeouts outlive the upgrade; clear them
	_ = conn.SetDeadline(time.Time{})

	sub := h.Subscribe(eventID)
	defer sub.Close()

	// Viewers never send anything meaningful; reading only detects hangups.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		_, _ = io.Copy(io.Discard, conn)
	}()

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			return
		case f, ok := <-sub.C:
			if !ok {
				log.Printf("stream: dropping slow viewer of event %s", eventID)
				return
			}
			if err := websocket.JSON.Send(conn, f); err != nil {
				return
			}
		case t := <-ticker.C:
			beat := Frame{Type: Heartbeat, EventID: eventID, SentAt: t.UTC()}
			if err := websocket.JSON.Send(conn, beat); err != nil {
				return
			}
		}
	}
}
