// Package stationtest provides an in-process coordinator for tests.
package stationtest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
)

// Server is a fake coordinator serving /update and /manual.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	body        string
	status      int
	manualCalls []string
	gate        chan struct{}

	updates atomic.Int64
}

// NewServer starts a fake coordinator returning body from /update.
func NewServer(body string) *Server {
	s := &Server{body: body, status: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/update", s.handleUpdate)
	mux.HandleFunc("/manual", s.handleManual)
	s.Server = httptest.NewServer(mux)
	return s
}

// SetBody replaces the /update payload.
func (s *Server) SetBody(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body = body
}

// SetStatus makes both endpoints answer with status.
func (s *Server) SetStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Hold blocks /update handlers until Release is called.
func (s *Server) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate == nil {
		s.gate = make(chan struct{})
	}
}

// Release unblocks held /update handlers.
func (s *Server) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate != nil {
		close(s.gate)
		s.gate = nil
	}
}

// Updates returns how many /update requests were served.
func (s *Server) Updates() int64 {
	return s.updates.Load()
}

// ManualCalls returns the s= values received on /manual, in order.
func (s *Server) ManualCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.manualCalls))
	copy(out, s.manualCalls)
	return out
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.updates.Add(1)
	s.mu.Lock()
	gate := s.gate
	body, status := s.body, s.status
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (s *Server) handleManual(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	s.manualCalls = append(s.manualCalls, r.URL.Query().Get("s"))
	status := s.status
	s.mu.Unlock()
	w.WriteHeader(status)
}
