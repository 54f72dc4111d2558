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

package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gogithub "github.com/google/go-github/v57/github"
	ghaserrors "github.com/sirseerhq/sirseer-ghas/internal/errors"
	"github.com/sirseerhq/sirseer-ghas/internal/giterror"
	"github.com/sirseerhq/sirseer-ghas/pkg/version"
)

// NextPageFunc decides from response headers whether another page exists.
type NextPageFunc func(header http.Header) bool

// RESTClient implements UsageClient against the GitHub REST API using
// go-github for request construction and response checking.
type RESTClient struct {
	client    *gogithub.Client
	nextPage  NextPageFunc
	inspector giterror.Inspector
}

// RESTOption configures a RESTClient.
type RESTOption func(*RESTClient)

// WithNextPageFunc replaces the Link header predicate used to detect
// further pages.
func WithNextPageFunc(fn NextPageFunc) RESTOption {
	return func(c *RESTClient) {
		if fn != nil {
			c.nextPage = fn
		}
	}
}

// NewRESTClient creates a REST client that presents token as a bearer
// credential to the API rooted at endpoint (e.g. https://api.github.com or
// https://ghe.example.com/api/v3). An empty endpoint means the public API.
func NewRESTClient(token, endpoint string, opts ...RESTOption) (*RESTClient, error) {
	if endpoint == "" {
		endpoint = DefaultAPIEndpoint
	}
	baseURL, err := url.Parse(strings.TrimSuffix(endpoint, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API endpoint %q: %w", endpoint, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid GitHub API endpoint %q: expected an absolute URL", endpoint)
	}

	client := gogithub.NewClient(newHTTPClient(token))
	client.BaseURL = baseURL
	client.UserAgent = version.UserAgent()

	c := &RESTClient{
		client:    client,
		nextPage:  HasNextLink,
		inspector: giterror.NewInspector(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchUsagePage fetches one page of the enterprise advanced-security
// billing endpoint. A non-success status yields a *errors.RequestError.
func (c *RESTClient) FetchUsagePage(ctx context.Context, enterprise string, opts PageOptions) (*UsagePage, error) {
	if strings.TrimSpace(enterprise) == "" {
		return nil, fmt.Errorf("enterprise must not be empty")
	}
	opts = normalizePageOptions(opts)

	u := fmt.Sprintf("enterprises/%s/settings/billing/advanced-security?page=%d&per_page=%d",
		url.PathEscape(enterprise), opts.Page, opts.PerPage)
	req, err := c.client.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", MediaType)
	req.Header.Set("X-GitHub-Api-Version", APIVersion)

	var usage AdvancedSecurityUsage
	resp, err := c.client.Do(ctx, req, &usage)
	if err != nil {
		return nil, c.mapError(resp, err)
	}

	if usage.Repositories == nil {
		usage.Repositories = []Repository{}
	}

	return &UsagePage{
		Usage:       usage,
		Page:        opts.Page,
		HasNextPage: c.nextPage(resp.Header),
	}, nil
}

// mapError turns an unsuccessful response into a RequestError and tags
// connectivity failures with ErrNetworkFailure. Everything else, including
// JSON decoding errors, is returned as is.
func (c *RESTClient) mapError(resp *gogithub.Response, err error) error {
	if resp != nil && resp.Response != nil &&
		(resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices) {
		return ghaserrors.NewRequestError(resp.StatusCode, resp.Status, githubMessage(err))
	}

	if errors.Is(err, context.Canceled) {
		return err
	}
	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("%w: %w", ghaserrors.ErrNetworkFailure, err)
	}
	if resp != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return err
}

// githubMessage extracts the "message" GitHub put in an error body.
func githubMessage(err error) string {
	var errResp *gogithub.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp.Message
	}
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return rateErr.Message
	}
	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return abuseErr.Message
	}
	return ""
}

// HasNextLink reports whether a Link header advertises a rel="next"
// relation. A missing header means there is no next page.
//
//	Link: <https://api.github.com/...&page=2>; rel="next", <...&page=5>; rel="last"
func HasNextLink(header http.Header) bool {
	for _, value := range header.Values("Link") {
		for _, link := range strings.Split(value, ",") {
			params := strings.Split(link, ";")
			for _, param := range params[1:] {
				key, val, ok := strings.Cut(strings.TrimSpace(param), "=")
				if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
					continue
				}
				// rel may hold several space separated relation types.
				for _, rel := range strings.Fields(strings.Trim(strings.TrimSpace(val), `"`)) {
					if strings.EqualFold(rel, "next") {
						return true
					}
				}
			}
		}
	}
	return false
}
