package stream

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

func drain(sub *Subscription) []Frame {
	var out []Frame
	for f := range sub.C {
		out = append(out, f)
	}
	return out
}

func TestHub_PublishWithoutViewers(t *testing.T) {
	h := NewHub(4)
	assert.Equal(t, int64(0), h.Publish("ev-1", Frame{Type: NewMessage}))
	assert.Equal(t, 0, h.Rooms())
}

func TestHub_SubscribersSeeSameOrder(t *testing.T) {
	h := NewHub(512)
	a := h.Subscribe("ev-1")
	b := h.Subscribe("ev-1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				h.Publish("ev-1", Frame{Type: Reaction})
			}
		}()
	}
	wg.Wait()
	a.Close()
	b.Close()

	fa, fb := drain(a), drain(b)
	require.Len(t, fa, 200)
	require.Equal(t, fa, fb)
	for i, f := range fa {
		assert.Equal(t, int64(i+1), f.Seq)
		assert.Equal(t, "ev-1", f.EventID)
	}
}

func TestHub_RoomsAreIsolated(t *testing.T) {
	h := NewHub(4)
	a := h.Subscribe("ev-1")
	b := h.Subscribe("ev-2")

	h.Publish("ev-1", Frame{Type: NewMessage})
	a.Close()
	b.Close()

	assert.Len(t, drain(a), 1)
	assert.Empty(t, drain(b))
}

func TestHub_SlowSubscriberDropped(t *testing.T) {
	h := NewHub(1)
	slow := h.Subscribe("ev-1")
	fast := h.Subscribe("ev-1")

	h.Publish("ev-1", Frame{Type: NewMessage})
	<-fast.C
	h.Publish("ev-1", Frame{Type: NewMessage})

	got := drain(slow)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].Seq)
	assert.Equal(t, 1, h.Viewers("ev-1"))

	f := <-fast.C
	assert.Equal(t, int64(2), f.Seq)
	fast.Close()
	slow.Close()
}

func TestHub_EmptyRoomRemoved(t *testing.T) {
	h := NewHub(4)
	a := h.Subscribe("ev-1")
	b := h.Subscribe("ev-1")
	assert.Equal(t, 1, h.Rooms())
	assert.Equal(t, 2, h.Viewers("ev-1"))

	a.Close()
	a.Close()
	assert.Equal(t, 1, h.Rooms())
	b.Close()
	assert.Equal(t, 0, h.Rooms())
}

func TestReactionFrame(t *testing.T) {
	msg := &model.Message{ID: "m1", EventID: "ev-1", Reactions: map[string][]string{"🎉": {"u1"}}}
	f := ReactionFrame(msg, "🎉", "u1", true)

	assert.Equal(t, Reaction, f.Type)
	require.NotNil(t, f.Added)
	assert.True(t, *f.Added)
	assert.Equal(t, map[string]int{"🎉": 1}, f.Counts)

	msg.Reactions["🎉"][0] = "changed"
	assert.Equal(t, "u1", f.Message.Reactions["🎉"][0])
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	return conn
}

func receive(t *testing.T, conn *websocket.Conn, want FrameType) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var f Frame
		require.NoError(t, websocket.JSON.Receive(conn, &f))
		if f.Type == want {
			return f
		}
	}
}

func TestHandler_StreamsFrames(t *testing.T) {
	h := NewHub(8)
	srv := httptest.NewServer(h.Handler("ev-1", time.Hour))
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return h.Viewers("ev-1") == 1 }, time.Second, 5*time.Millisecond)

	msg := &model.Message{ID: "m1", EventID: "ev-1", Content: "hello"}
	h.Publish("ev-1", MessageFrame(NewMessage, msg))

	f := receive(t, conn, NewMessage)
	assert.Equal(t, int64(1), f.Seq)
	require.NotNil(t, f.Message)
	assert.Equal(t, "hello", f.Message.Content)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return h.Rooms() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestHandler_Heartbeat(t *testing.T) {
	h := NewHub(8)
	srv := httptest.NewServer(h.Handler("ev-1", 20*time.Millisecond))
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	f := receive(t, conn, Heartbeat)
	assert.Equal(t, "ev-1", f.EventID)
	assert.Zero(t, f.Seq)
}
