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
	"fmt"

	ghaserrors "github.com/sirseerhq/sirseer-ghas/internal/errors"
)

// MockClient is a mock implementation of UsageClient and EnterpriseClient
// for testing. Pages are served in order; every page but the last
// advertises a next page.
type MockClient struct {
	// Pages to return, one per request
	Pages []AdvancedSecurityUsage

	// Enterprise to return from GetEnterprise
	Enterprise *EnterpriseInfo

	// Error to return
	Error error

	// FailOnPage makes the request for that page fail with Error (or a 500 when Error is nil)
	FailOnPage int

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// Track calls for verification
	CallCount      int
	LastEnterprise string
	RequestedPages []PageOptions
}

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		Pages: generateTestPages(),
		Enterprise: &EnterpriseInfo{
			Slug: "acme",
			Name: "Acme Corp",
			URL:  "https://github.com/enterprises/acme",
		},
	}
}

// FetchUsagePage implements UsageClient
func (m *MockClient) FetchUsagePage(ctx context.Context, enterprise string, opts PageOptions) (*UsagePage, error) {
	m.CallCount++
	m.LastEnterprise = enterprise
	m.RequestedPages = append(m.RequestedPages, opts)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := m.failure(enterprise); err != nil {
		return nil, err
	}
	if m.FailOnPage > 0 && opts.Page == m.FailOnPage {
		if m.Error != nil {
			return nil, m.Error
		}
		return nil, ghaserrors.NewRequestError(500, "500 Internal Server Error", "")
	}
	if m.Error != nil && m.FailOnPage == 0 {
		return nil, m.Error
	}

	opts = normalizePageOptions(opts)
	if opts.Page > len(m.Pages) {
		return &UsagePage{
			Usage: AdvancedSecurityUsage{Repositories: []Repository{}},
			Page:  opts.Page,
		}, nil
	}

	usage := m.Pages[opts.Page-1]
	if usage.Repositories == nil {
		usage.Repositories = []Repository{}
	}
	return &UsagePage{
		Usage:       usage,
		Page:        opts.Page,
		HasNextPage: opts.Page < len(m.Pages),
	}, nil
}

// GetEnterprise implements EnterpriseClient
func (m *MockClient) GetEnterprise(ctx context.Context, slug string) (*EnterpriseInfo, error) {
	m.CallCount++
	m.LastEnterprise = slug

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.failure(slug); err != nil {
		return nil, err
	}
	if m.Error != nil {
		return nil, m.Error
	}
	if m.Enterprise == nil {
		return &EnterpriseInfo{Slug: slug}, nil
	}
	return m.Enterprise, nil
}

func (m *MockClient) failure(enterprise string) error {
	if m.ShouldFailAuth {
		return ghaserrors.NewRequestError(401, "401 Unauthorized", "Bad credentials")
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", ghaserrors.ErrNetworkFailure)
	}
	if m.ShouldFailNotFound || enterprise == "nonexistent" {
		return ghaserrors.NewRequestError(404, "404 Not Found", "Not Found")
	}
	return nil
}

// generateTestPages creates two pages of sample usage data
func generateTestPages() []AdvancedSecurityUsage {
	summary := AdvancedSecurityUsage{
		TotalAdvancedSecurityCommitters:     5,
		TotalCount:                          3,
		MaximumAdvancedSecurityCommitters:   10,
		PurchasedAdvancedSecurityCommitters: 10,
	}

	first := summary
	first.Repositories = []Repository{
		{
			Name:                       "org1/repo1",
			AdvancedSecurityCommitters: 2,
			AdvancedSecurityCommittersBreakdown: []Committer{
				{UserLogin: "user1", LastPushedDate: "2023-01-01", LastPushedEmail: "user1@example.com"},
				{UserLogin: "user2", LastPushedDate: "2023-01-01", LastPushedEmail: "user2@example.com"},
			},
		},
		{
			Name:                       "org1/repo2",
			AdvancedSecurityCommitters: 2,
			AdvancedSecurityCommittersBreakdown: []Committer{
				{UserLogin: "user1", LastPushedDate: "2023-01-01", LastPushedEmail: "user1@example.com"},
				{UserLogin: "user3", LastPushedDate: "2023-01-01", LastPushedEmail: "user3@example.com"},
			},
		},
	}

	second := summary
	second.Repositories = []Repository{
		{
			Name:                       "org2/repo1",
			AdvancedSecurityCommitters: 3,
			AdvancedSecurityCommittersBreakdown: []Committer{
				{UserLogin: "user4", LastPushedDate: "2023-01-01", LastPushedEmail: "user4@example.com"},
				{UserLogin: "user5", LastPushedDate: "2023-01-01", LastPushedEmail: "user5@example.com"},
				{UserLogin: "user1", LastPushedDate: "2023-01-01", LastPushedEmail: "user1@example.com"},
			},
		},
	}

	return []AdvancedSecurityUsage{first, second}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithPages sets specific pages to return
func WithPages(pages ...AdvancedSecurityUsage) MockClientOption {
	return func(m *MockClient) {
		m.Pages = pages
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// WithFailureOnPage makes the request for page fail
func WithFailureOnPage(page int) MockClientOption {
	return func(m *MockClient) {
		m.FailOnPage = page
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
