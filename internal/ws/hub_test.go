package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"devshare/internal/models"
)

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub()

	hub.AddClient("user-1", nil, ConnInfo{ConnID: "c1", UserID: "user-1"})
	if len(hub.inboxes) != 1 {
		t.Fatalf("expected inbox to be created")
	}
	if _, ok := hub.getConnInfo("user-1", nil); !ok {
		t.Fatalf("expected conn info to be tracked")
	}

	hub.RemoveClient("user-1", nil)
	if len(hub.inboxes) != 0 {
		t.Fatalf("expected inbox to be removed")
	}
	if len(hub.connInfo) != 0 {
		t.Fatalf("expected conn info to be removed")
	}
}

func TestHubMultipleConnectionsPerUser(t *testing.T) {
	hub := NewHub()

	hub.AddClient("user-1", nil, ConnInfo{ConnID: "c1"})
	hub.AddClient("user-2", nil, ConnInfo{ConnID: "c2"})
	if len(hub.inboxes) != 2 {
		t.Fatalf("expected two inboxes, got %d", len(hub.inboxes))
	}

	hub.RemoveClient("user-1", nil)
	if len(hub.inboxes) != 1 {
		t.Fatalf("expected one inbox left, got %d", len(hub.inboxes))
	}
}

func TestHubStats(t *testing.T) {
	hub := NewHub()

	hub.AddClient("user-1", nil, ConnInfo{ConnID: "c1"})
	stats := hub.Stats()
	if stats["user-1"] != 1 {
		t.Fatalf("expected one connection for user-1, got %d", stats["user-1"])
	}

	hub.RemoveClient("user-1", nil)
	if len(hub.Stats()) != 0 {
		t.Fatalf("expected empty stats after removal")
	}
}

func TestHubBroadcastDuringConnectionChurn(t *testing.T) {
	hub := NewHub()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
			if err != nil {
				t.Errorf("dial failed: %v", err)
				return
			}
			hub.AddClient("user-1", conn, ConnInfo{ConnID: "c", UserID: "user-1"})
			hub.RemoveClient("user-1", conn)
			conn.Close()
		}
	}()

	for i := 0; i < 50; i++ {
		hub.BroadcastMessage("user-1", models.Message{ID: "m1", Content: "hi"})
	}
	<-done
}
