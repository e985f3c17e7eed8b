package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// CoverServer serves fake cover images keyed by request path and counts requests.
// Paths without a registered body answer 404.
type CoverServer struct {
	*httptest.Server

	mu       sync.Mutex
	bodies   map[string][]byte
	requests map[string]int
}

// NewCoverServer starts a CoverServer that is closed when the test completes.
func NewCoverServer(t *testing.T) *CoverServer {
	t.Helper()

	cs := &CoverServer{
		bodies:   make(map[string][]byte),
		requests: make(map[string]int),
	}
	cs.Server = httptest.NewServer(http.HandlerFunc(cs.serve))
	t.Cleanup(cs.Close)
	return cs
}

// Image registers a body of size bytes at path and returns its absolute URL.
func (cs *CoverServer) Image(path string, size int) string {
	return cs.Body(path, []byte(strings.Repeat("x", size)))
}

// Body registers body at path and returns its absolute URL.
func (cs *CoverServer) Body(path string, body []byte) string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.bodies[path] = body
	return cs.URL + path
}

// Requests returns how many times path was requested.
func (cs *CoverServer) Requests(path string) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.requests[path]
}

// TotalRequests returns the number of requests across all paths.
func (cs *CoverServer) TotalRequests() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	total := 0
	for _, n := range cs.requests {
		total += n
	}
	return total
}

func (cs *CoverServer) serve(w http.ResponseWriter, r *http.Request) {
	cs.mu.Lock()
	cs.requests[r.URL.Path]++
	body, ok := cs.bodies[r.URL.Path]
	cs.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	_, _ = w.Write(body)
}
