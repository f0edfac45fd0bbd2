package rpc

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/downloaders"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/options"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/session"
)

type fakeProcess struct {
	mu      sync.Mutex
	running bool
}

func (f *fakeProcess) Start(string, []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = true
	return nil
}

func (f *fakeProcess) Kill() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
	return nil
}

func (f *fakeProcess) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()

	bus := evbus.New()
	hub := NewHub()
	if err := bus.Subscribe(session.TopicUpdate, hub.Broadcast); err != nil {
		t.Fatal(err)
	}

	m := session.New(&fakeProcess{}, make(chan downloaders.Output), bus, func() session.Preferences {
		return session.Preferences{Options: options.Default(), Destination: t.TempDir()}
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go m.Run(ctx)

	r := chi.NewRouter()
	r.Route("/rpc", ApplyRouter(Container(m), hub))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/rpc/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	return msg
}

func TestWebSocketStart(t *testing.T) {
	conn := dial(t)

	first := read(t, conn)
	if first.Type != typeSnapshot || first.Snapshot == nil || first.Snapshot.State != session.Idle {
		t.Fatalf("unexpected first message %+v", first)
	}

	err := conn.WriteJSON(Request{
		Id:     "1",
		Method: "start",
		Params: session.StartRequest{Links: "https://youtu.be/a", Media: options.MediaAudio},
	})
	if err != nil {
		t.Fatal(err)
	}

	var (
		result  *Message
		started bool
	)
	for result == nil || !started {
		msg := read(t, conn)
		switch msg.Type {
		case typeResult:
			result = &msg
		case typeSnapshot:
			started = started || msg.Snapshot.State == session.AwaitingSpawn
		}
	}

	if result.Id != "1" || result.Error != "" || result.Result == "" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestWebSocketInvalidLink(t *testing.T) {
	conn := dial(t)
	read(t, conn)

	err := conn.WriteJSON(Request{
		Id:     "2",
		Method: "start",
		Params: session.StartRequest{Links: "bad-url valid://ok", Media: options.MediaVideo},
	})
	if err != nil {
		t.Fatal(err)
	}

	msg := read(t, conn)
	if msg.Type != typeResult || msg.Error != "invalid URL on position: 1" {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestWebSocketUnknownMethod(t *testing.T) {
	conn := dial(t)
	read(t, conn)

	if err := conn.WriteJSON(Request{Id: "3", Method: "explode"}); err != nil {
		t.Fatal(err)
	}

	if msg := read(t, conn); msg.Error == "" {
		t.Fatalf("expected an error, got %+v", msg)
	}
}

func TestBroadcastDoesNotBlock(t *testing.T) {
	h := NewHub()
	c := h.register()

	for i := 0; i < clientBuffer*2; i++ {
		h.Broadcast(session.Snapshot{State: session.Downloading})
	}

	if len(c.send) != clientBuffer {
		t.Fatalf("buffered = %d", len(c.send))
	}

	h.unregister(c)
	if h.Clients() != 0 {
		t.Fatalf("clients = %d", h.Clients())
	}
}
