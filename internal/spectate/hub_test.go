package spectate

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Pulse-Sense/internal/game"
)

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func TestSpectatorReceivesSnapshot(t *testing.T) {
	hub := NewHub(quietLog(), 1)
	srv := httptest.NewServer(NewMux(hub))
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return hub.Clients() == 1 })

	w := game.NewWorld(game.DemoLevel(), game.WithSeed(3))
	w.Step(1.0/60, game.Input{})
	want := w.Snapshot()
	hub.Publish(want)

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("deadline: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got game.Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Tick != want.Tick {
		t.Errorf("tick = %d, want %d", got.Tick, want.Tick)
	}
	if len(got.Walls) != len(want.Walls) || len(got.Sentinels) != len(want.Sentinels) {
		t.Errorf("walls/sentinels = %d/%d, want %d/%d",
			len(got.Walls), len(got.Sentinels), len(want.Walls), len(want.Sentinels))
	}
	if got.Player.Pos != want.Player.Pos {
		t.Errorf("player pos = %v, want %v", got.Player.Pos, want.Player.Pos)
	}
}

func TestSpectatorDisconnectUnregisters(t *testing.T) {
	hub := NewHub(quietLog(), 1)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitFor(t, func() bool { return hub.Clients() == 1 })
	conn.Close()
	waitFor(t, func() bool { return hub.Clients() == 0 })
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub(quietLog(), 1)
	c := &client{send: make(chan []byte, 1)}
	hub.register(c)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			hub.Publish(game.Snapshot{Tick: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow viewer")
	}
	if len(c.send) != 1 {
		t.Fatalf("buffered = %d, want 1", len(c.send))
	}
	if hub.dropped != 4 {
		t.Fatalf("dropped = %d, want 4", hub.dropped)
	}

	hub.unregister(c)
	if _, ok := <-c.send; !ok {
		t.Fatal("buffered frame lost on unregister")
	}
	if _, ok := <-c.send; ok {
		t.Fatal("send channel should be closed")
	}
	hub.unregister(c)
}

func TestPublishEveryNth(t *testing.T) {
	hub := NewHub(quietLog(), 3)
	c := &client{send: make(chan []byte, 16)}
	hub.register(c)
	for i := 0; i < 7; i++ {
		hub.Publish(game.Snapshot{Tick: i})
	}
	if len(c.send) != 3 {
		t.Fatalf("forwarded = %d, want 3 (ticks 0, 3, 6)", len(c.send))
	}
	hub.Close()
	if hub.Clients() != 0 {
		t.Fatal("close should drop every viewer")
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMux(NewHub(quietLog(), 1)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
}
