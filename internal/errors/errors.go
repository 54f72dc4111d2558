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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrForbidden indicates the token is valid but lacks the scope or role
	// needed to read enterprise billing. Maps to exit code 2.
	ErrForbidden = errors.New("insufficient permissions")

	// ErrEnterpriseNotFound indicates the enterprise does not exist or is not accessible.
	// Maps to exit code 2.
	ErrEnterpriseNotFound = errors.New("enterprise not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")
)

// RequestError is returned when GitHub answers a request with a non-success
// status. It carries the numeric code and the status text of the response.
type RequestError struct {
	StatusCode int
	StatusText string

	// Message is the "message" field of GitHub's error body, if any.
	Message string
}

// NewRequestError builds a RequestError from an HTTP status line such as
// "401 Unauthorized". When the line carries no reason phrase the standard
// text for the code is used.
func NewRequestError(code int, status, message string) *RequestError {
	text := strings.TrimSpace(strings.TrimPrefix(status, fmt.Sprintf("%d", code)))
	if text == "" {
		text = http.StatusText(code)
	}
	return &RequestError{
		StatusCode: code,
		StatusText: text,
		Message:    message,
	}
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("GitHub API request failed: %d %s", e.StatusCode, e.StatusText)
}

// Is lets callers match a RequestError against the sentinel errors above.
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrInvalidToken:
		return e.StatusCode == http.StatusUnauthorized
	case ErrEnterpriseNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrRateLimit:
		return e.IsRateLimited()
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden && !e.IsRateLimited()
	}
	return false
}

// IsRateLimited reports whether the response was a primary or secondary
// rate limit rejection.
func (e *RequestError) IsRateLimited() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return e.StatusCode == http.StatusForbidden &&
		strings.Contains(strings.ToLower(e.Message), "rate limit")
}
