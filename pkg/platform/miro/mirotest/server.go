// Package mirotest provides an in-memory Miro REST API for tests.
package mirotest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Token is the bearer token the server accepts.
const Token = "test-token"

// Call records one request that reached the server.
type Call struct {
	Method string
	Path   string
	Body   map[string]any
}

// Server is a fake Miro API. Boards, shapes and connectors get sequential
// IDs. By default every request succeeds.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	calls    []Call
	shapes   int
	conns    int
	failures map[string][]int // path kind -> statuses to return, consumed in order
}

// NewServer starts a fake API. Call Close when done.
func NewServer() *Server {
	s := &Server{failures: make(map[string][]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// BaseURL is the API root to configure the backend with.
func (s *Server) BaseURL() string { return s.URL + "/v2" }

// FailNext makes the next requests of kind ("boards", "shapes",
// "connectors" or "ping") return the given statuses, one per request.
func (s *Server) FailNext(kind string, statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[kind] = append(s.failures[kind], statuses...)
}

// Calls returns every request received, in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Counts returns the number of shapes and connectors created.
func (s *Server) Counts() (shapes, connectors int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shapes, s.conns
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	path := strings.TrimPrefix(r.URL.Path, "/v2")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: r.Method, Path: path, Body: body})

	if r.Header.Get("Authorization") != "Bearer "+Token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid access token"})
		return
	}

	kind := s.kindOf(r.Method, path)
	if queue := s.failures[kind]; len(queue) > 0 {
		status := queue[0]
		s.failures[kind] = queue[1:]
		if status == http.StatusTooManyRequests {
			w.Header().Set("Retry-After", "0")
		}
		writeJSON(w, status, map[string]string{"message": fmt.Sprintf("injected %d", status)})
		return
	}

	switch kind {
	case "ping":
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
	case "boards":
		name, _ := body["name"].(string)
		writeJSON(w, http.StatusCreated, map[string]string{
			"id":       "board-1",
			"name":     name,
			"viewLink": "https://miro.com/app/board/board-1/",
		})
	case "shapes":
		s.shapes++
		writeJSON(w, http.StatusCreated, map[string]string{"id": fmt.Sprintf("shape-%d", s.shapes)})
	case "connectors":
		s.conns++
		writeJSON(w, http.StatusCreated, map[string]string{"id": fmt.Sprintf("conn-%d", s.conns)})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no route"})
	}
}

func (s *Server) kindOf(method, path string) string {
	switch {
	case method == http.MethodGet && path == "/boards":
		return "ping"
	case method == http.MethodPost && path == "/boards":
		return "boards"
	case method == http.MethodPost && strings.HasSuffix(path, "/shapes"):
		return "shapes"
	case method == http.MethodPost && strings.HasSuffix(path, "/connectors"):
		return "connectors"
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
