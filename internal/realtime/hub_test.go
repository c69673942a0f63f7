package realtime

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
)

func newTestHub() *Hub {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewHub(log)
}

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", want, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishDeliversInOrder(t *testing.T) {
	hub := newTestHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.Handle))
	defer srv.Close()

	conn := dialHub(t, srv)
	waitForClients(t, hub, 1)

	hub.Publish("arrival:added", map[string]any{"id": 1})
	hub.Publish("arrival:updated", map[string]any{"id": 1})
	hub.Publish("sale:changed", nil)

	wantEvents := []string{"arrival:added", "arrival:updated", "sale:changed"}
	for i, want := range wantEvents {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("decode %d: %v", i, err)
		}
		if ev.Event != want {
			t.Fatalf("event %d: expected %s got %s", i, want, ev.Event)
		}
	}
}

func TestCoalescedEventOmitsPayload(t *testing.T) {
	hub := newTestHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.Handle))
	defer srv.Close()

	conn := dialHub(t, srv)
	waitForClients(t, hub, 1)

	hub.Publish("sale:changed", nil)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(msg), "payload") {
		t.Fatalf("nil payload must be omitted from the frame: %s", msg)
	}
}

func TestPublishFansOutToAllClients(t *testing.T) {
	hub := newTestHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.Handle))
	defer srv.Close()

	conns := []*websocket.Conn{dialHub(t, srv), dialHub(t, srv), dialHub(t, srv)}
	waitForClients(t, hub, 3)

	hub.Publish("production:added", map[string]any{"id": 9})
	for i, conn := range conns {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("client %d read: %v", i, err)
		}
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("client %d decode: %v", i, err)
		}
		if ev.Event != "production:added" {
			t.Fatalf("client %d: unexpected event %s", i, ev.Event)
		}
	}
}

func TestPublishWithoutClientsDoesNotBlock(t *testing.T) {
	hub := newTestHub()
	done := make(chan struct{})
	go func() {
		hub.Publish("transaction:added", map[string]any{"id": 3})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked with no subscribers")
	}
}

func TestDisconnectRemovesClient(t *testing.T) {
	hub := newTestHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.Handle))
	defer srv.Close()

	conn := dialHub(t, srv)
	waitForClients(t, hub, 1)
	_ = conn.Close()
	waitForClients(t, hub, 0)

	// Publishing after the disconnect is a no-op.
	hub.Publish("admin:updated", nil)
}
