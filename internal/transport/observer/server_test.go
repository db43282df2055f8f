package observer

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"islandforge/internal/archipelago"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(log.New(os.Stderr, "[observer-test] ", 0))
	mux := http.NewServeMux()
	mux.Handle("/v1/observer/bootstrap", s.BootstrapHandler())
	mux.Handle("/v1/observer/feed", s.FeedHandler())
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return s, ts
}

func TestServer_BootstrapReflectsLastEvent(t *testing.T) {
	s, ts := newTestServer(t)
	s.SetRun("run-1", "test-seed")
	s.Publish(archipelago.Event{RunID: "run-1", Phase: "STREAMING", Cursor: 3, TotalChunks: 9})

	resp, err := http.Get(ts.URL + "/v1/observer/bootstrap")
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer resp.Body.Close()

	var b Bootstrap
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.RunID != "run-1" || b.Seed != "test-seed" || b.Phase != "STREAMING" || b.TotalChunks != 9 {
		t.Fatalf("bootstrap mismatch: %+v", b)
	}
}

func TestServer_FeedDeliversPublishedEvents(t *testing.T) {
	s, ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/observer/feed"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Give the handler a moment to register the client.
	time.Sleep(50 * time.Millisecond)
	s.Publish(archipelago.Event{Phase: "DONE", Blocks: 1234})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev archipelago.Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Phase != "DONE" || ev.Blocks != 1234 {
		t.Fatalf("event mismatch: %+v", ev)
	}
}
