// Package apitest provides an in-memory webhook backend for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/artpar/hooklens/internal/core"
)

// RecordedRequest stores request details for verification.
type RecordedRequest struct {
	Method  string
	Path    string
	Headers http.Header
	Body    []byte
	Time    time.Time
}

// Failure makes a route answer with a fixed status and body.
type Failure struct {
	Status int
	Body   string
}

// Server wraps httptest.Server with a fake webhook store.
type Server struct {
	*httptest.Server
	mu       sync.Mutex
	nextID   int64
	webhooks []core.Webhook
	captured map[string][]core.CapturedRequest
	failures map[string]Failure
	requests []*RecordedRequest
}

// Route keys accepted by Fail.
const (
	RouteList     = "GET /webhooks"
	RouteCreate   = "POST /webhooks"
	RouteDelete   = "DELETE /webhooks/{id}"
	RouteRequests = "GET /webhooks/{endpoint}/requests"
)

// New starts a fake backend. The API base URL is s.URL + "/api".
func New() *Server {
	s := &Server{
		nextID:   1,
		captured: make(map[string][]core.CapturedRequest),
		failures: make(map[string]Failure),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/webhooks", s.recordingWrapper(RouteList, s.handleList))
	mux.HandleFunc("POST /api/webhooks", s.recordingWrapper(RouteCreate, s.handleCreate))
	mux.HandleFunc("DELETE /api/webhooks/{id}", s.recordingWrapper(RouteDelete, s.handleDelete))
	mux.HandleFunc("GET /api/webhooks/{endpoint}/requests", s.recordingWrapper(RouteRequests, s.handleRequests))

	s.Server = httptest.NewServer(mux)
	return s
}

// BaseURL returns the API base URL clients should be configured with.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// AddWebhook seeds a webhook and returns it with its assigned id.
func (s *Server) AddWebhook(name, endpoint string) core.Webhook {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := core.Webhook{
		ID:        s.nextID,
		Name:      name,
		Endpoint:  endpoint,
		IsActive:  true,
		CreatedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	s.nextID++
	s.webhooks = append(s.webhooks, w)
	return w
}

// AddRequest seeds a captured request for endpoint.
func (s *Server) AddRequest(endpoint string, req core.CapturedRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.captured[endpoint] = append(s.captured[endpoint], req)
	for i := range s.webhooks {
		if s.webhooks[i].Endpoint == endpoint {
			s.webhooks[i].TotalRequests++
		}
	}
}

// Fail makes route answer with f until ClearFailures is called.
func (s *Server) Fail(route string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = f
}

// ClearFailures removes every injected failure.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]Failure)
}

// Webhooks returns a copy of the stored webhooks.
func (s *Server) Webhooks() []core.Webhook {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]core.Webhook, len(s.webhooks))
	copy(result, s.webhooks)
	return result
}

// LastRequest returns the last recorded request.
func (s *Server) LastRequest() *RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

// Requests returns all recorded requests.
func (s *Server) Requests() []*RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*RecordedRequest, len(s.requests))
	copy(result, s.requests)
	return result
}

// RequestCount returns the number of recorded requests.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// CountMethod returns how many recorded requests used method.
func (s *Server) CountMethod(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Method == method {
			n++
		}
	}
	return n
}

// recordingWrapper records the request and applies injected failures.
func (s *Server) recordingWrapper(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()

		s.mu.Lock()
		s.requests = append(s.requests, &RecordedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Headers: r.Header.Clone(),
			Body:    body,
			Time:    time.Now(),
		})
		failure, failing := s.failures[route]
		s.mu.Unlock()

		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(failure.Status)
			io.WriteString(w, failure.Body)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		h(w, r)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Webhooks())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input core.CreateWebhookInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if input.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	s.mu.Lock()
	created := core.Webhook{
		ID:          s.nextID,
		Name:        input.Name,
		Description: input.Description,
		Secret:      input.Secret,
		Endpoint:    fmt.Sprintf("ep%d", s.nextID),
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	s.nextID++
	s.webhooks = append(s.webhooks, created)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, wh := range s.webhooks {
		if wh.ID == id {
			s.webhooks = append(s.webhooks[:i], s.webhooks[i+1:]...)
			delete(s.captured, wh.Endpoint)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "webhook not found"})
}

func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	endpoint := r.PathValue("endpoint")

	s.mu.Lock()
	list := make([]core.CapturedRequest, len(s.captured[endpoint]))
	copy(list, s.captured[endpoint])
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, list)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
