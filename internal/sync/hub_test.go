package sync

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestHubDeliversToOwnUserOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := 1
		if r.URL.Query().Get("user") == "2" {
			userID = 2
		}
		hub.HandleWebSocket(w, r, userID)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn1 := dial(t, wsURL+"?user=1")
	defer conn1.Close()
	conn2 := dial(t, wsURL+"?user=2")
	defer conn2.Close()

	// Registration happens inside the handler goroutine
	time.Sleep(50 * time.Millisecond)

	hub.Notify(1, Event{Type: "plan_updated", PlanID: 42})

	conn1.SetReadDeadline(time.Now().Add(time.Second))
	var got Event
	if err := conn1.ReadJSON(&got); err != nil {
		t.Fatalf("user 1 read: %v", err)
	}
	if got.Type != "plan_updated" || got.PlanID != 42 {
		t.Fatalf("unexpected event %+v", got)
	}

	conn2.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if err := conn2.ReadJSON(&got); err == nil {
		t.Fatalf("user 2 unexpectedly received event %+v", got)
	}
}

func TestNotifyDoesNotBlockWithoutListeners(t *testing.T) {
	hub := NewHub() // Run never started
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Notify(1, Event{Type: "plan_updated", PlanID: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked with no consumer")
	}
}
