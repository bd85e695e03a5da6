// Package testutil provides testing utilities for the PokeAPI client.
package testutil

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// APIPrefix is the path prefix the mock serves the API under.
const APIPrefix = "/api/v2"

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockPokeAPI is a configurable in-process PokeAPI for testing. It serves
// list endpoints for registered collections and detail documents for
// registered records, both with ETags and conditional request support.
type MockPokeAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	collections map[string][]string
	details     map[string]string
	paths       map[string]int

	// Tracking
	RequestCount      int
	ConditionalCount  int
	LastRequestHeader http.Header
}

// NewMockPokeAPI creates a new mock server.
func NewMockPokeAPI() *MockPokeAPI {
	mock := &MockPokeAPI{
		handlers:    make(map[string]func(w http.ResponseWriter, r *http.Request)),
		collections: make(map[string][]string),
		details:     make(map[string]string),
		paths:       make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.paths[r.URL.Path]++
		mock.LastRequestHeader = r.Header.Clone()
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.ConditionalCount++
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}
		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockPokeAPI) URL() string {
	return m.server.URL
}

// BaseURL returns the API root to configure a client with.
func (m *MockPokeAPI) BaseURL() string {
	return m.server.URL + APIPrefix
}

// Close shuts down the mock server.
func (m *MockPokeAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockPokeAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.LastRequestHeader = nil
	m.paths = make(map[string]int)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockPokeAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockPokeAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// AddCollection registers the names served by the collection's list
// endpoint. Names get ids 1..n in order.
func (m *MockPokeAPI) AddCollection(collection string, names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append([]string(nil), names...)
}

// SetDetail registers the detail document for name, reachable by name and,
// if name is part of a registered collection, by id.
func (m *MockPokeAPI) SetDetail(collection, name, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.details[collection+"/"+name] = body
	for i, n := range m.collections[collection] {
		if n == name {
			m.details[collection+"/"+strconv.Itoa(i+1)] = body
		}
	}
}

// Reference returns the URL the list endpoint reports for the i-th (0-based)
// entry of collection.
func (m *MockPokeAPI) Reference(collection string, i int) string {
	return fmt.Sprintf("%s/%s/%d/", m.BaseURL(), collection, i+1)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockPokeAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockPokeAPI) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// PathCount returns the number of requests made for path.
func (m *MockPokeAPI) PathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paths[path]
}

// defaultHandler serves registered collections and details.
func (m *MockPokeAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	rest, ok := strings.CutPrefix(r.URL.Path, APIPrefix+"/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	m.mu.RLock()
	defer m.mu.RUnlock()

	switch len(parts) {
	case 1:
		names, ok := m.collections[parts[0]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeCacheable(w, r, m.listBody(parts[0], names))
	case 2:
		body, ok := m.details[parts[0]+"/"+parts[1]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeCacheable(w, r, body)
	default:
		http.NotFound(w, r)
	}
}

func (m *MockPokeAPI) listBody(collection string, names []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `{"count":%d,"next":null,"previous":null,"results":[`, len(names))
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"name":%q,"url":%q}`, name, m.Reference(collection, i))
	}
	b.WriteString(`]}`)
	return b.String()
}

// writeCacheable writes body with an ETag derived from it and answers
// matching If-None-Match requests with 304.
func writeCacheable(w http.ResponseWriter, r *http.Request, body string) {
	h := fnv.New64a()
	h.Write([]byte(body))
	etag := fmt.Sprintf(`W/"%x"`, h.Sum64())

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=86400, s-maxage=86400")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// NewHealthyResponse creates a standard cacheable 200 OK response.
func NewHealthyResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"ETag":          `"test-etag-123"`,
			"Cache-Control": "public, max-age=86400",
			"Content-Type":  "application/json; charset=utf-8",
		},
	}
}

// NewNotModifiedResponse creates a 304 Not Modified response.
func NewNotModifiedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotModified,
		Headers: map[string]string{
			"Cache-Control": "public, max-age=86400",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse(retryAfter string) MockResponse {
	resp := MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `Too Many Requests`,
		Headers:    map[string]string{},
	}
	if retryAfter != "" {
		resp.Headers["Retry-After"] = retryAfter
	}
	return resp
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `Internal Server Error`,
	}
}

// NewConditionalHandler creates a handler that responds with 304 when the
// request carries etag, and with a short-lived 200 otherwise.
func NewConditionalHandler(etag string, data string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == etag {
			w.Header().Set("Cache-Control", "public, max-age=300")
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(data))
	}
}
