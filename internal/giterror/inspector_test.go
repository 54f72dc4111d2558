package giterror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	ghaserrors "github.com/sirseerhq/sirseer-ghas/internal/errors"
)

func TestGitHubErrorInspector_IsAuthError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "request error 401",
			err:  ghaserrors.NewRequestError(401, "401 Unauthorized", ""),
			want: true,
		},
		{
			name: "wrapped request error 403",
			err:  fmt.Errorf("page 2: %w", ghaserrors.NewRequestError(403, "403 Forbidden", "Must be an enterprise admin")),
			want: true,
		},
		{
			name: "rate limited 403 is not auth",
			err:  ghaserrors.NewRequestError(403, "403 Forbidden", "API rate limit exceeded"),
			want: false,
		},
		{
			name: "request error 500 is not auth",
			err:  ghaserrors.NewRequestError(500, "500 Internal Server Error", ""),
			want: false,
		},
		{
			name: "bad credentials text",
			err:  errors.New("Bad credentials"),
			want: true,
		},
		{
			name: "sentinel",
			err:  fmt.Errorf("lookup: %w", ghaserrors.ErrInvalidToken),
			want: true,
		},
		{
			name: "not an auth error",
			err:  errors.New("something went wrong"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsAuthError(tt.err); got != tt.want {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_IsNotFoundError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "request error 404",
			err:  ghaserrors.NewRequestError(404, "404 Not Found", ""),
			want: true,
		},
		{
			name: "request error 401 is not not-found",
			err:  ghaserrors.NewRequestError(401, "401 Unauthorized", ""),
			want: false,
		},
		{
			name: "graphql could not resolve",
			err:  errors.New("Could not resolve to an Enterprise with the slug of 'acme'."),
			want: true,
		},
		{
			name: "wrapped not found text",
			err:  fmt.Errorf("failed to fetch: %w", errors.New("404 Not Found")),
			want: true,
		},
		{
			name: "not a not found error",
			err:  errors.New("internal server error"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNotFoundError(tt.err); got != tt.want {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_IsRateLimitError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "request error 429",
			err:  ghaserrors.NewRequestError(429, "429 Too Many Requests", ""),
			want: true,
		},
		{
			name: "request error 403 with rate limit message",
			err:  ghaserrors.NewRequestError(403, "403 Forbidden", "You have exceeded a secondary rate limit"),
			want: true,
		},
		{
			name: "graphql rate limit text",
			err:  errors.New("API rate limit exceeded"),
			want: true,
		},
		{
			name: "not a rate limit error",
			err:  errors.New("timeout occurred"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsRateLimitError(tt.err); got != tt.want {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_IsNetworkError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "op error",
			err:  fmt.Errorf("Get \"https://api.github.com\": %w", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}),
			want: true,
		},
		{
			name: "dns error",
			err:  &net.DNSError{Err: "no such host", Name: "api.github.invalid"},
			want: true,
		},
		{
			name: "connection refused text",
			err:  errors.New("dial tcp 127.0.0.1:1: connect: connection refused"),
			want: true,
		},
		{
			name: "deadline exceeded",
			err:  fmt.Errorf("page 1: %w", context.DeadlineExceeded),
			want: true,
		},
		{
			name: "canceled context",
			err:  fmt.Errorf("page 1: %w", context.Canceled),
			want: false,
		},
		{
			name: "request error is never network",
			err:  ghaserrors.NewRequestError(504, "504 Gateway Timeout", ""),
			want: false,
		},
		{
			name: "not a network error",
			err:  errors.New("invalid character '<' looking for beginning of value"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.want)
			}
		})
	}
}
