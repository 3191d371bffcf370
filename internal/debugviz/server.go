package debugviz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Server streams live synthesis/routing progress over websocket, for
// `redhdl debug-bussing --watch`. Restricted to loopback connections, same
// as the teacher's observer endpoint: this is a local debugging aid, not a
// multi-tenant service.
type Server struct {
	log *log.Logger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu       sync.Mutex
	sessions map[string]chan []byte
}

// NewServer builds a Server logging through logger (nil discards logs).
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sessions: make(map[string]chan []byte),
	}
}

// ProgressEvent is one message on the debug-bussing progress stream: either
// an annealing step, a routed/skipped network, or a terminal outcome.
type ProgressEvent struct {
	Type        string  `json:"type"`
	Step        int     `json:"step,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	BestEnergy  float64 `json:"best_energy,omitempty"`
	NetworkID   string  `json:"network_id,omitempty"`
	Message     string  `json:"message,omitempty"`
}

// Broadcast marshals event and fans it out to every connected session,
// dropping it for any session whose outbound buffer is full rather than
// blocking the caller (the teacher's same under-load tradeoff).
func (s *Server) Broadcast(event ProgressEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		s.log.Printf("debugviz: marshal progress event: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, out := range s.sessions {
		select {
		case out <- data:
		default:
			s.log.Printf("debugviz: session %s backpressured, dropping event", sid)
		}
	}
}

// Handler upgrades loopback connections and streams ProgressEvents to them
// until the client disconnects.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.log.Printf("debugviz: upgrade: %v", err)
			return
		}
		defer conn.Close()

		sid := fmt.Sprintf("D%d", s.nextID.Add(1))
		out := make(chan []byte, 256)

		s.mu.Lock()
		s.sessions[sid] = out
		s.mu.Unlock()
		defer func() {
			s.mu.Lock()
			delete(s.sessions, sid)
			s.mu.Unlock()
		}()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		writeErr := make(chan error, 1)
		go func() {
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b, ok := <-out:
					if !ok {
						writeErr <- nil
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						writeErr <- err
						return
					}
				}
			}
		}()

		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
