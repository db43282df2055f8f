// Package observer serves a read-only progress feed over websocket for an
// external visualization overlay. It publishes generator-owned progress
// and debug data only; it never synchronizes world state.
package observer

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"islandforge/internal/archipelago"
)

// Bootstrap is the one-shot snapshot a client fetches before subscribing.
type Bootstrap struct {
	RunID       string             `json:"run_id"`
	Seed        string             `json:"seed"`
	Phase       string             `json:"phase"`
	TotalChunks int                `json:"total_chunks"`
	LastEvent   *archipelago.Event `json:"last_event,omitempty"`
}

type Server struct {
	log      *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	seed    string
	runID   string
	last    *archipelago.Event
	clients map[chan []byte]struct{}
}

func NewServer(logger *log.Logger) *Server {
	return &Server{
		log:     logger,
		clients: make(map[chan []byte]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// SetRun records which run the feed describes.
func (s *Server) SetRun(runID, seed string) {
	s.mu.Lock()
	s.runID, s.seed = runID, seed
	s.mu.Unlock()
}

// Publish fans one progress event out to every connected client. Slow
// clients are skipped, not blocked on.
func (s *Server) Publish(ev archipelago.Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	s.mu.Lock()
	cp := ev
	s.last = &cp
	for ch := range s.clients {
		select {
		case ch <- b:
		default:
		}
	}
	s.mu.Unlock()
}

// BootstrapHandler serves the current run snapshot as JSON.
func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.mu.Lock()
		resp := Bootstrap{RunID: s.runID, Seed: s.seed, LastEvent: s.last}
		if s.last != nil {
			resp.Phase = s.last.Phase
			resp.TotalChunks = s.last.TotalChunks
		}
		s.mu.Unlock()
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(resp)
	}
}

// FeedHandler upgrades to websocket and streams progress events until the
// client goes away.
func (s *Server) FeedHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ch := make(chan []byte, 64)
		s.mu.Lock()
		s.clients[ch] = struct{}{}
		// Replay the latest event so a late subscriber sees current state.
		if s.last != nil {
			if b, err := json.Marshal(s.last); err == nil {
				ch <- b
			}
		}
		s.mu.Unlock()
		defer func() {
			s.mu.Lock()
			delete(s.clients, ch)
			s.mu.Unlock()
		}()

		// Reader goroutine only to detect disconnects.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case b := <-ch:
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}
	}
}
