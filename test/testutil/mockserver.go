// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testutil provides common test helpers for sirseer-ghas
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// MockServer provides common mock server configurations for testing
type MockServer struct {
	*httptest.Server

	requestCount int32
	mu           sync.Mutex
	requests     []RecordedRequest
}

// RecordedRequest is a copy of the parts of a request tests assert on.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
}

// PageResponse describes how the billing server answers one page.
type PageResponse struct {
	// Status defaults to 200.
	Status int

	// Body is encoded as JSON unless it is a string, which is written raw.
	Body interface{}

	// Next adds a Link header advertising the following page.
	Next bool

	// Link, when set, is sent verbatim as the Link header.
	Link string
}

// NewMockServer creates a basic mock server around handler that records requests
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()

	s := &MockServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// NewBillingServer serves the advanced-security billing endpoint for
// enterprise. Request for page N gets pages[N-1]; pages past the end are
// empty. Requests to any other path get a GitHub style 404.
func NewBillingServer(t *testing.T, enterprise string, pages ...PageResponse) *MockServer {
	t.Helper()

	wantPath := fmt.Sprintf("/enterprises/%s/settings/billing/advanced-security", enterprise)

	var s *MockServer
	s = NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath {
			WriteGitHubError(w, http.StatusNotFound, "Not Found")
			return
		}

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		if page > len(pages) {
			writeJSON(w, http.StatusOK, NewUsageBuilder().Build())
			return
		}

		resp := pages[page-1]
		switch {
		case resp.Link != "":
			w.Header().Set("Link", resp.Link)
		case resp.Next:
			w.Header().Set("Link", NextLink(s.URL+wantPath, page, len(pages)))
		}

		status := resp.Status
		if status == 0 {
			status = http.StatusOK
		}
		if raw, ok := resp.Body.(string); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(raw))
			return
		}
		writeJSON(w, status, resp.Body)
	})
	return s
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()

	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		WriteGitHubError(w, statusCode, http.StatusText(statusCode))
	})
}

// NewGraphQLServer creates a mock GraphQL endpoint that answers every query
// with the given data object.
func NewGraphQLServer(t *testing.T, data interface{}) *MockServer {
	t.Helper()

	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			WriteGitHubError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
	})
}

// NextLink builds a GitHub style Link header for page of last.
func NextLink(base string, page, last int) string {
	links := []string{
		fmt.Sprintf(`<%s?page=%d&per_page=100>; rel="next"`, base, page+1),
	}
	if last > page {
		links = append(links, fmt.Sprintf(`<%s?page=%d&per_page=100>; rel="last"`, base, last))
	}
	return strings.Join(links, ", ")
}

// WriteGitHubError writes an error body shaped like GitHub's.
func WriteGitHubError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"message":           message,
		"documentation_url": "https://docs.github.com/rest",
	})
}

// RequestCount returns how many requests the server has received.
func (s *MockServer) RequestCount() int {
	return int(atomic.LoadInt32(&s.requestCount))
}

// Requests returns the recorded requests in arrival order.
func (s *MockServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

func (s *MockServer) record(r *http.Request) {
	atomic.AddInt32(&s.requestCount, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
