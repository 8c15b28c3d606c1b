// Package testutil provides a fake table backend for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse overrides the reply of one endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockBackend serves /columns and paginated /rows from memory.
type MockBackend struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	columns  []map[string]string
	rows     []map[string]any

	// Tracking
	RequestCount  int
	PageRequests  []int
	Created       []map[string]string
	LastRequestID string
}

// NewMockBackend creates a backend with the given columns and rows count.
// Rows get sequential ids and a name/email/age derived from the id.
func NewMockBackend(rowCount int) *MockBackend {
	m := &MockBackend{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		columns: []map[string]string{
			{"key": "id", "label": "ID"},
			{"key": "name", "label": "Name"},
			{"key": "email", "label": "Email"},
			{"key": "age", "label": "Age"},
		},
	}
	for i := 1; i <= rowCount; i++ {
		m.rows = append(m.rows, map[string]any{
			"id":    strconv.Itoa(i),
			"name":  fmt.Sprintf("user-%d", i),
			"email": fmt.Sprintf("user%d@gmail.com", i),
			"age":   20 + i%50,
		})
	}

	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.RequestCount++
		m.LastRequestID = r.Header.Get("X-Request-ID")
		handler, ok := m.handlers[r.Method+" "+r.URL.Path]
		m.mu.Unlock()

		if ok {
			handler(w, r)
			return
		}
		m.defaultHandler(w, r)
	}))

	return m
}

// URL returns the mock server URL.
func (m *MockBackend) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBackend) Close() {
	m.server.Close()
}

// SetResponse makes method+path reply with a canned response.
func (m *MockBackend) SetResponse(method, path string, resp MockResponse) {
	m.SetHandler(method, path, func(w http.ResponseWriter, _ *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write([]byte(resp.Body))
	})
}

// SetHandler installs a custom handler for method+path.
func (m *MockBackend) SetHandler(method, path string, h func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[method+" "+path] = h
}

// Requests returns the number of requests served so far.
func (m *MockBackend) Requests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// Pages returns the row pages requested so far, in order.
func (m *MockBackend) Pages() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int, len(m.PageRequests))
	copy(out, m.PageRequests)
	return out
}

func (m *MockBackend) defaultHandler(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/columns":
		m.mu.RLock()
		defer m.mu.RUnlock()
		writeJSON(w, http.StatusOK, m.columns)
	case r.Method == http.MethodGet && r.URL.Path == "/rows":
		m.servePage(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/rows":
		m.create(w, r)
	default:
		http.NotFound(w, r)
	}
}

// ServePage answers a rows request from memory. Custom handlers use it to
// fall back to the default behaviour.
func (m *MockBackend) ServePage(w http.ResponseWriter, r *http.Request) {
	m.servePage(w, r)
}

func (m *MockBackend) servePage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("_page"))
	if err != nil || page < 1 {
		page = 1
	}
	per, err := strconv.Atoi(r.URL.Query().Get("_per_page"))
	if err != nil || per < 1 {
		per = 10
	}

	m.mu.Lock()
	m.PageRequests = append(m.PageRequests, page)
	total := len(m.rows)
	from := min((page-1)*per, total)
	to := min(from+per, total)
	data := m.rows[from:to]
	m.mu.Unlock()

	last := (total + per - 1) / per
	if last == 0 {
		last = 1
	}
	env := map[string]any{
		"first": 1,
		"prev":  nil,
		"next":  nil,
		"last":  last,
		"pages": last,
		"items": total,
		"data":  data,
	}
	if page > 1 {
		env["prev"] = page - 1
	}
	if page < last {
		env["next"] = page + 1
	}
	writeJSON(w, http.StatusOK, env)
}

func (m *MockBackend) create(w http.ResponseWriter, r *http.Request) {
	var rec map[string]string
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.Created = append(m.Created, rec)
	row := map[string]any{"id": strconv.Itoa(len(m.rows) + 1)}
	for k, v := range rec {
		row[k] = v
	}
	m.rows = append(m.rows, row)
	m.mu.Unlock()

	writeJSON(w, http.StatusCreated, row)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
